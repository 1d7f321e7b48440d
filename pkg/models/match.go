package models

import "time"

// MatchResult is the one canonical row shape the match query engine returns.
// Everything downstream (ranking, rendering, selection resolution) consumes
// only this type.
type MatchResult struct {
	TripID            string `json:"trip_id"`
	CounterpartUserID string `json:"counterpart_user_id"`
	ContactHandle     string `json:"contact_handle"`
	ReferenceCode     string `json:"reference_code"`
	// DistanceKm is nil when the engine could not compute a distance; a
	// missing distance sorts as infinitely far, never as zero.
	DistanceKm  *float64   `json:"distance_km"`
	PickupText  *string    `json:"pickup_text"`
	DropoffText *string    `json:"dropoff_text"`
	CreatedAt   time.Time  `json:"created_at"`
	MatchedAt   *time.Time `json:"matched_at"`
}

// Timestamp returns the recency instant used for ranking.
func (m MatchResult) Timestamp() time.Time {
	if m.MatchedAt != nil {
		return *m.MatchedAt
	}
	return m.CreatedAt
}
