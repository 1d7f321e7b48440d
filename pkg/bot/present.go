package bot

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"mobibot/pkg/geo"
	"mobibot/pkg/models"
	"mobibot/pkg/wa"
)

// SortPriority picks the primary ranking key for a result list.
type SortPriority string

const (
	SortByDistance SortPriority = "distance"
	SortByTime     SortPriority = "time"
)

// maxListRows is the WhatsApp list ceiling minus the reserved action row.
const maxListRows = 9

// SortMatches ranks results in place. Distance priority puts the nearest
// first, with a missing distance sorting as infinitely far; time priority
// puts the most recent first. Ties fall back to the secondary key and then
// to the trip id, so the order is deterministic for equal inputs.
func SortMatches(results []models.MatchResult, priority SortPriority) {
	sort.SliceStable(results, func(i, j int) bool {
		a, b := results[i], results[j]
		if priority == SortByTime {
			at, bt := a.Timestamp(), b.Timestamp()
			if !at.Equal(bt) {
				return at.After(bt)
			}
			ad, bd := distanceOrInf(a), distanceOrInf(b)
			if ad != bd {
				return ad < bd
			}
			return a.TripID < b.TripID
		}
		ad, bd := distanceOrInf(a), distanceOrInf(b)
		if ad != bd {
			return ad < bd
		}
		at, bt := a.Timestamp(), b.Timestamp()
		if !at.Equal(bt) {
			return at.After(bt)
		}
		return a.TripID < b.TripID
	})
}

func distanceOrInf(m models.MatchResult) float64 {
	if m.DistanceKm == nil {
		return 1e18
	}
	return *m.DistanceKm
}

// TruncateMatches caps a ranked list at the row budget.
func TruncateMatches(results []models.MatchResult) []models.MatchResult {
	if len(results) > maxListRows {
		return results[:maxListRows]
	}
	return results
}

// RenderMatchRows turns ranked results into list rows plus the state rows
// that let a later selection resolve without re-querying. Contact handles are
// masked in the visible label; the full handle lives only in state.
func RenderMatchRows(results []models.MatchResult, now time.Time) ([]wa.Row, []models.StateRow) {
	rows := make([]wa.Row, 0, len(results))
	stateRows := make([]models.StateRow, 0, len(results))
	for _, m := range results {
		id := wa.MatchRowID(m.TripID)
		rows = append(rows, wa.Row{
			ID:          id,
			Title:       matchRowTitle(m),
			Description: matchRowDescription(m, now),
		})
		stateRows = append(stateRows, models.StateRow{
			ID:      id,
			TripID:  m.TripID,
			Contact: m.ContactHandle,
			Ref:     m.ReferenceCode,
		})
	}
	return rows, stateRows
}

func matchRowTitle(m models.MatchResult) string {
	label := m.ReferenceCode
	if label == "" {
		label = wa.MaskPhone(m.ContactHandle)
	}
	if d := geo.DistanceLabel(m.DistanceKm); d != "" {
		return fmt.Sprintf("%s · %s", label, d)
	}
	return label
}

func matchRowDescription(m models.MatchResult, now time.Time) string {
	var parts []string
	if m.PickupText != nil && *m.PickupText != "" {
		parts = append(parts, *m.PickupText)
	}
	if m.DropoffText != nil && *m.DropoffText != "" {
		parts = append(parts, "→ "+*m.DropoffText)
	}
	parts = append(parts, geo.TimeAgo(m.Timestamp(), now))
	return strings.Join(parts, " · ")
}

func vehicleLabel(v models.VehicleType) string {
	switch v {
	case models.VehicleMoto:
		return "Moto"
	case models.VehicleCab:
		return "Cab"
	case models.VehicleLifan:
		return "Lifan"
	case models.VehicleTruck:
		return "Truck"
	default:
		return "Other"
	}
}

func vehicleRows() []wa.Row {
	rows := make([]wa.Row, 0, len(models.KnownVehicleTypes()))
	for _, v := range models.KnownVehicleTypes() {
		rows = append(rows, wa.Row{ID: wa.VehicleRowID(v), Title: vehicleLabel(v)})
	}
	return rows
}

func optText(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
