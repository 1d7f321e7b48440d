package wa

import (
	"strings"

	"mobibot/pkg/models"
)

// EventType is the normalized shape of an inbound webhook event.
type EventType string

const (
	EventCoordinates EventType = "coordinates"
	EventSelection   EventType = "selection"
	EventFreeText    EventType = "freeText"
)

// Event is one inbound user action, already normalized from the webhook
// payload.
type Event struct {
	From string
	Type EventType

	// Coordinates.
	Lat  float64
	Lng  float64
	Text string

	// Selection (button or list-row id) or free text.
	ID    string
	Value string
}

// Wire-level identifier prefixes for list rows and buttons. They are decoded
// at the boundary into typed selections before any flow logic runs.
const (
	matchRowPrefix = "MTCH::"
	favoritePrefix = "FAV::"
	vehiclePrefix  = "veh_"
	timePrefix     = "time::"
)

// Fixed action identifiers.
const (
	ActionBackMenu        = "BACK_MENU"
	ActionSeeDrivers      = "SEE_DRIVERS"
	ActionSeePassengers   = "SEE_PASSENGERS"
	ActionScheduleTrip    = "SCHEDULE_TRIP"
	ActionRoleDriver      = "ROLE_DRIVER"
	ActionRolePassenger   = "ROLE_PASSENGER"
	ActionUseLastLocation = "USE_LAST_LOCATION"
	ActionSavedLocations  = "LOCATION_SAVED_LIST"
	ActionSkipDropoff     = "SCHEDULE_SKIP_DROPOFF"
	ActionRecurNone       = "SCHEDULE_RECUR_NONE"
	ActionRecurWeekdays   = "SCHEDULE_RECUR_WEEKDAYS"
	ActionRecurDaily      = "SCHEDULE_RECUR_DAILY"
	ActionRefreshMatches  = "SCHEDULE_REFRESH"
	ActionSearchAgain     = "NEARBY_RECENT"
)

// SelectionKind discriminates a decoded selection.
type SelectionKind string

const (
	SelMatchRow SelectionKind = "matchRow"
	SelFavorite SelectionKind = "favorite"
	SelVehicle  SelectionKind = "vehicle"
	SelTime     SelectionKind = "timeChoice"
	SelAction   SelectionKind = "action"
	SelUnknown  SelectionKind = "unknown"
)

// Selection is a typed selection event; flow controllers never parse raw row
// identifiers themselves.
type Selection struct {
	Kind       SelectionKind
	TripID     string
	FavoriteID string
	Vehicle    models.VehicleType
	TimeChoice string
	Action     string
}

// DecodeSelection turns a wire-level row or button identifier into a typed
// selection.
func DecodeSelection(id string) Selection {
	switch {
	case strings.HasPrefix(id, matchRowPrefix):
		return Selection{Kind: SelMatchRow, TripID: strings.TrimPrefix(id, matchRowPrefix)}
	case strings.HasPrefix(id, favoritePrefix):
		return Selection{Kind: SelFavorite, FavoriteID: strings.TrimPrefix(id, favoritePrefix)}
	case strings.HasPrefix(id, vehiclePrefix):
		v := models.VehicleType(strings.TrimPrefix(id, vehiclePrefix))
		for _, known := range models.KnownVehicleTypes() {
			if v == known {
				return Selection{Kind: SelVehicle, Vehicle: v}
			}
		}
		return Selection{Kind: SelUnknown}
	case strings.HasPrefix(id, timePrefix):
		return Selection{Kind: SelTime, TimeChoice: strings.TrimPrefix(id, timePrefix)}
	}

	switch id {
	case ActionBackMenu, ActionSeeDrivers, ActionSeePassengers, ActionScheduleTrip,
		ActionRoleDriver, ActionRolePassenger, ActionUseLastLocation,
		ActionSavedLocations, ActionSkipDropoff, ActionRecurNone,
		ActionRecurWeekdays, ActionRecurDaily, ActionRefreshMatches,
		ActionSearchAgain:
		return Selection{Kind: SelAction, Action: id}
	}
	return Selection{Kind: SelUnknown}
}

// MatchRowID encodes a trip id into a stable, parseable list-row identifier.
func MatchRowID(tripID string) string {
	return matchRowPrefix + tripID
}

// FavoriteRowID encodes a favorite id into a list-row identifier.
func FavoriteRowID(favoriteID string) string {
	return favoritePrefix + favoriteID
}

// VehicleRowID encodes a vehicle type into a list-row identifier.
func VehicleRowID(v models.VehicleType) string {
	return vehiclePrefix + string(v)
}

// TimeChoiceID encodes a time-menu choice into a list-row identifier.
func TimeChoiceID(choice string) string {
	return timePrefix + choice
}
