package models

import "time"

type FavoriteKind string

const (
	FavoriteHome   FavoriteKind = "home"
	FavoriteWork   FavoriteKind = "work"
	FavoriteSchool FavoriteKind = "school"
	FavoriteOther  FavoriteKind = "other"
)

type Favorite struct {
	ID        string       `json:"id"`
	UserID    string       `json:"user_id"`
	Kind      FavoriteKind `json:"kind"`
	Label     string       `json:"label"`
	Address   *string      `json:"address"`
	Location  Point        `json:"location"`
	CreatedAt time.Time    `json:"created_at"`
}

// RecurringTrip references favorites for both ends; ad hoc coordinates are
// promoted to a favorite before one is saved.
type RecurringTrip struct {
	ID               string     `json:"id"`
	UserID           string     `json:"user_id"`
	OriginFavoriteID string     `json:"origin_favorite_id"`
	DestFavoriteID   string     `json:"dest_favorite_id"`
	DaysOfWeek       []int      `json:"days_of_week"`
	TimeLocal        string     `json:"time_local"`
	Timezone         string     `json:"timezone"`
	Recurrence       Recurrence `json:"recurrence"`
	CreatedAt        time.Time  `json:"created_at"`
}
