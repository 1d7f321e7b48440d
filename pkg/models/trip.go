package models

import "time"

type TripRole string

const (
	RoleDriver    TripRole = "driver"
	RolePassenger TripRole = "passenger"
)

// Opposite returns the counterpart role a trip of this role matches against.
func (r TripRole) Opposite() TripRole {
	if r == RoleDriver {
		return RolePassenger
	}
	return RoleDriver
}

type VehicleType string

const (
	VehicleMoto  VehicleType = "moto"
	VehicleCab   VehicleType = "cab"
	VehicleLifan VehicleType = "lifan"
	VehicleTruck VehicleType = "truck"
	VehicleOther VehicleType = "other"
)

func KnownVehicleTypes() []VehicleType {
	return []VehicleType{VehicleMoto, VehicleCab, VehicleLifan, VehicleTruck, VehicleOther}
}

type TripStatus string

const (
	TripOpen      TripStatus = "open"
	TripScheduled TripStatus = "scheduled"
	TripClosed    TripStatus = "closed"
	TripExpired   TripStatus = "expired"
)

type Recurrence string

const (
	RecurNone     Recurrence = "none"
	RecurWeekdays Recurrence = "weekdays"
	RecurDaily    Recurrence = "daily"
	RecurWeekly   Recurrence = "weekly"
	RecurMonthly  Recurrence = "monthly"
)

type Trip struct {
	ID                  string      `json:"id"`
	CreatorUserID       string      `json:"creator_user_id"`
	Role                TripRole    `json:"role"`
	VehicleType         VehicleType `json:"vehicle_type"`
	Pickup              Point       `json:"pickup"`
	PickupText          *string     `json:"pickup_text"`
	PickupRadiusMeters  int         `json:"pickup_radius_meters"`
	Dropoff             *Point      `json:"dropoff"`
	DropoffText         *string     `json:"dropoff_text"`
	DropoffRadiusMeters *int        `json:"dropoff_radius_meters"`
	Status              TripStatus  `json:"status"`
	ScheduledAt         *time.Time  `json:"scheduled_at"`
	Recurrence          Recurrence  `json:"recurrence"`
	CreatedAt           time.Time   `json:"created_at"`
	ExpiresAt           time.Time   `json:"expires_at"`
}

// TripInput is what the flow controllers hand to trip creation.
type TripInput struct {
	CreatorUserID string
	Role          TripRole
	VehicleType   VehicleType
	Pickup        Point
	PickupText    *string
	RadiusMeters  int
	ScheduledAt   *time.Time
	Recurrence    Recurrence
}
