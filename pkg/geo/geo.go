package geo

import (
	"fmt"
	"math"
	"time"

	"mobibot/pkg/models"
)

const earthRadiusMeters = 6371000.0

// HaversineMeters returns the great-circle distance between two points on a
// spherical earth.
func HaversineMeters(a, b models.Point) float64 {
	dLat := (b.Lat - a.Lat) * math.Pi / 180
	dLng := (b.Lng - a.Lng) * math.Pi / 180
	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(a.Lat*math.Pi/180)*math.Cos(b.Lat*math.Pi/180)*math.Sin(dLng/2)*math.Sin(dLng/2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
	return earthRadiusMeters * c
}

// ClampRadius never lets a search radius shrink below the default floor nor
// exceed the ceiling. Non-finite or non-positive input falls back to the
// default.
func ClampRadius(requested, def, max float64) float64 {
	if math.IsNaN(requested) || math.IsInf(requested, 0) || requested <= 0 {
		return def
	}
	return math.Min(math.Max(requested, def), max)
}

// IsCacheValid reports whether a cached location captured at cachedAt is
// still fresh. A zero time is a cache miss, not an error.
func IsCacheValid(cachedAt time.Time, ttl time.Duration, now time.Time) bool {
	if cachedAt.IsZero() {
		return false
	}
	return now.Sub(cachedAt) <= ttl
}

// TimeAgo renders a relative age label for list rows.
func TimeAgo(t time.Time, now time.Time) string {
	if t.IsZero() {
		return "just now"
	}
	d := now.Sub(t)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		mins := int(d.Minutes())
		if mins == 1 {
			return "1 min ago"
		}
		return fmt.Sprintf("%d mins ago", mins)
	case d < 24*time.Hour:
		hours := int(d.Hours())
		if hours == 1 {
			return "1 hour ago"
		}
		return fmt.Sprintf("%d hours ago", hours)
	default:
		days := int(d.Hours() / 24)
		if days == 1 {
			return "1 day ago"
		}
		return fmt.Sprintf("%d days ago", days)
	}
}

// DistanceLabel renders "X.Y km" at a kilometer or more, otherwise "N m".
// Returns "" for a missing distance.
func DistanceLabel(distanceKm *float64) string {
	if distanceKm == nil {
		return ""
	}
	v := *distanceKm
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return ""
	}
	if v >= 1 {
		return fmt.Sprintf("%.1f km", v)
	}
	return fmt.Sprintf("%d m", int(math.Round(v*1000)))
}

// ZonedDayTime composes a (travelDate, travelTime) pair for a preset that is
// dayOffset days ahead at the fixed local time hhmm in loc.
func ZonedDayTime(now time.Time, dayOffset int, hhmm string, loc *time.Location) (string, string) {
	local := now.In(loc).AddDate(0, 0, dayOffset)
	return local.Format("2006-01-02"), hhmm
}

// ZonedOffset composes a (travelDate, travelTime) pair for "now plus offset"
// choices, both rendered in loc.
func ZonedOffset(now time.Time, offset time.Duration, loc *time.Location) (string, string) {
	local := now.Add(offset).In(loc)
	return local.Format("2006-01-02"), local.Format("15:04")
}
