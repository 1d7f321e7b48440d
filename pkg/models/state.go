package models

// StepKey identifies which flow and step owns the user's next inbound event.
type StepKey string

const (
	StepNearbyVehicle  StepKey = "nearby_vehicle"
	StepNearbyLocation StepKey = "nearby_location"
	StepNearbyResults  StepKey = "nearby_results"

	StepScheduleRole       StepKey = "schedule_role"
	StepScheduleVehicle    StepKey = "schedule_vehicle"
	StepSchedulePickup     StepKey = "schedule_pickup"
	StepScheduleDropoff    StepKey = "schedule_dropoff"
	StepScheduleTime       StepKey = "schedule_time"
	StepScheduleRecurrence StepKey = "schedule_recurrence"
	StepScheduleResults    StepKey = "schedule_results"

	// StepAwaitPlate suspends a driver flow until a vehicle plate is
	// registered; Resume carries the original intent.
	StepAwaitPlate StepKey = "await_plate"
)

// NearbyMode says what the user is looking for, which is the opposite of the
// role their own trip is created with.
type NearbyMode string

const (
	ModeDrivers    NearbyMode = "drivers"
	ModePassengers NearbyMode = "passengers"
)

// Role returns the trip role created for the searching user.
func (m NearbyMode) Role() TripRole {
	if m == ModeDrivers {
		return RolePassenger
	}
	return RoleDriver
}

// StateRow is a rendered list row persisted into state so that a later
// selection event resolves back to a trip and contact without re-querying.
type StateRow struct {
	ID      string `json:"id"`
	TripID  string `json:"trip_id"`
	Contact string `json:"contact"`
	Ref     string `json:"ref"`
}

type NearbyState struct {
	Mode       NearbyMode  `json:"mode"`
	Vehicle    VehicleType `json:"vehicle,omitempty"`
	Pickup     *Point      `json:"pickup,omitempty"`
	PickupText string      `json:"pickup_text,omitempty"`
	TripID     string      `json:"trip_id,omitempty"`
	Rows       []StateRow  `json:"rows,omitempty"`
}

type ScheduleState struct {
	Role              TripRole    `json:"role,omitempty"`
	Vehicle           VehicleType `json:"vehicle,omitempty"`
	TripID            string      `json:"trip_id,omitempty"`
	Pickup            *Point      `json:"pickup,omitempty"`
	PickupText        string      `json:"pickup_text,omitempty"`
	Dropoff           *Point      `json:"dropoff,omitempty"`
	DropoffText       string      `json:"dropoff_text,omitempty"`
	PickupFavoriteID  string      `json:"pickup_favorite_id,omitempty"`
	DropoffFavoriteID string      `json:"dropoff_favorite_id,omitempty"`
	PickerStage       string      `json:"picker_stage,omitempty"`
	TravelDate        string      `json:"travel_date,omitempty"`
	TravelTime        string      `json:"travel_time,omitempty"`
	TravelLabel       string      `json:"travel_label,omitempty"`
	Timezone          string      `json:"timezone,omitempty"`
	Recurrence        Recurrence  `json:"recurrence,omitempty"`
	Rows              []StateRow  `json:"rows,omitempty"`
}

// PendingIntent records what the user was trying to do when a precondition
// (driver vehicle plate) suspended the flow.
type PendingIntent struct {
	Kind string `json:"kind"` // "nearby_passengers" | "schedule_driver"
}

// ConversationState is the tagged union stored per user. Exactly one of the
// flow payloads is set, discriminated by Step. A new set always replaces the
// previous state wholesale.
type ConversationState struct {
	Step     StepKey        `json:"step"`
	Nearby   *NearbyState   `json:"nearby,omitempty"`
	Schedule *ScheduleState `json:"schedule,omitempty"`
	Pending  *PendingIntent `json:"pending,omitempty"`
}
