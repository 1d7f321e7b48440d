package models

import "time"

type Profile struct {
	UserID       string    `json:"user_id"`
	WhatsApp     string    `json:"whatsapp"`
	RefCode      string    `json:"ref_code"`
	VehicleType  *string   `json:"vehicle_type"`
	VehiclePlate *string   `json:"vehicle_plate"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type CachedLocation struct {
	UserID   string    `json:"user_id"`
	Location Point     `json:"location"`
	CachedAt time.Time `json:"cached_at"`
}

// NearbyIntent is the last nearby search a user ran, kept briefly so a
// returning user can repeat it without re-answering prompts.
type NearbyIntent struct {
	Vehicle   VehicleType `json:"vehicle"`
	Pickup    Point       `json:"pickup"`
	CreatedAt time.Time   `json:"created_at"`
}
