package bot

import (
	"context"
	"errors"
	"fmt"
	"time"

	"mobibot/pkg/geo"
	"mobibot/pkg/logger"
	"mobibot/pkg/models"
	"mobibot/pkg/wa"
	"mobibot/service"
)

// Time-menu choices, offsets relative to the local clock in the configured
// timezone. The every_* presets imply a daily recurring trip.
const (
	timeNow          = "now"
	timePlus30m      = "plus_30m"
	timePlus1h       = "plus_1h"
	timePlus2h       = "plus_2h"
	timePlus5h       = "plus_5h"
	timeTomorrowAM   = "tomorrow_am"
	timeTomorrowPM   = "tomorrow_pm"
	timeEveryMorning = "every_morning"
	timeEveryEvening = "every_evening"
)

const (
	pickerPickup  = "pickup"
	pickerDropoff = "dropoff"
)

func (b *Bot) startSchedule(ctx context.Context, profile *models.Profile) error {
	state := models.ConversationState{
		Step:     models.StepScheduleRole,
		Schedule: &models.ScheduleState{Timezone: b.cfg.Timezone},
	}
	if err := b.states.Set(ctx, profile.WhatsApp, state); err != nil {
		return err
	}
	return b.sender.SendButtons(ctx, profile.WhatsApp,
		"Schedule a trip. Are you driving or riding?",
		[]wa.Button{
			{ID: wa.ActionRoleDriver, Title: "I'm driving"},
			{ID: wa.ActionRolePassenger, Title: "I need a ride"},
		})
}

func (b *Bot) handleScheduleRole(ctx context.Context, profile *models.Profile, state *models.ConversationState, ev wa.Event) error {
	if ev.Type != wa.EventSelection {
		return b.sender.SendText(ctx, profile.WhatsApp, "Please choose one of the two options.")
	}
	sel := wa.DecodeSelection(ev.ID)
	if sel.Kind != wa.SelAction {
		return b.sender.SendText(ctx, profile.WhatsApp, "Please choose one of the two options.")
	}

	switch sel.Action {
	case wa.ActionRoleDriver:
		state.Schedule.Role = models.RoleDriver
		if profile.VehiclePlate == nil {
			state.Step = models.StepAwaitPlate
			state.Pending = &models.PendingIntent{Kind: pendingScheduleDriver}
			if err := b.states.Set(ctx, profile.WhatsApp, *state); err != nil {
				return err
			}
			return b.sender.SendText(ctx, profile.WhatsApp,
				"Before scheduling as a driver, please type your vehicle plate (for example RAD 123 B).")
		}
		return b.askScheduleVehicle(ctx, profile, *state)
	case wa.ActionRolePassenger:
		state.Schedule.Role = models.RolePassenger
		return b.askScheduleVehicle(ctx, profile, *state)
	}
	return b.sender.SendText(ctx, profile.WhatsApp, "Please choose one of the two options.")
}

// resumeScheduleDriver continues the driver flow after the plate arrived.
func (b *Bot) resumeScheduleDriver(ctx context.Context, profile *models.Profile, state *models.ConversationState) error {
	next := models.ConversationState{
		Step:     models.StepScheduleVehicle,
		Schedule: state.Schedule,
	}
	if next.Schedule == nil {
		next.Schedule = &models.ScheduleState{Timezone: b.cfg.Timezone}
	}
	next.Schedule.Role = models.RoleDriver
	return b.askScheduleVehicle(ctx, profile, next)
}

func (b *Bot) askScheduleVehicle(ctx context.Context, profile *models.Profile, state models.ConversationState) error {
	// A driver with a stored vehicle preference skips straight to pickup.
	if state.Schedule.Role == models.RoleDriver && profile.VehicleType != nil {
		for _, known := range models.KnownVehicleTypes() {
			if models.VehicleType(*profile.VehicleType) == known {
				state.Schedule.Vehicle = known
				return b.askSchedulePickup(ctx, profile, state)
			}
		}
	}

	state.Step = models.StepScheduleVehicle
	if err := b.states.Set(ctx, profile.WhatsApp, state); err != nil {
		return err
	}
	return b.sender.SendList(ctx, profile.WhatsApp, wa.List{
		Title:        "Vehicle",
		Body:         "Which vehicle is this trip for?",
		SectionTitle: "Vehicles",
		ButtonText:   "Choose",
		Rows:         vehicleRows(),
	})
}

func (b *Bot) handleScheduleVehicle(ctx context.Context, profile *models.Profile, state *models.ConversationState, ev wa.Event) error {
	if ev.Type != wa.EventSelection {
		return b.sender.SendText(ctx, profile.WhatsApp, "Please pick a vehicle from the list.")
	}
	sel := wa.DecodeSelection(ev.ID)
	if sel.Kind != wa.SelVehicle {
		return b.sender.SendText(ctx, profile.WhatsApp, "Please pick a vehicle from the list.")
	}

	state.Schedule.Vehicle = sel.Vehicle
	if state.Schedule.Role == models.RoleDriver {
		if err := b.stg.Profile().SetVehicleType(ctx, profile.UserID, string(sel.Vehicle)); err != nil {
			b.log.Error("failed to store vehicle preference", logger.Error(err))
		}
	}
	return b.askSchedulePickup(ctx, profile, *state)
}

func (b *Bot) askSchedulePickup(ctx context.Context, profile *models.Profile, state models.ConversationState) error {
	state.Step = models.StepSchedulePickup
	state.Schedule.PickerStage = pickerPickup
	if err := b.states.Set(ctx, profile.WhatsApp, state); err != nil {
		return err
	}

	buttons := []wa.Button{{ID: wa.ActionSavedLocations, Title: "Saved places"}}
	cached, _ := b.cache.GetLocation(ctx, profile.WhatsApp)
	if cached != nil && geo.IsCacheValid(cached.CachedAt, b.cfg.LocationCacheTTL, time.Now()) {
		buttons = append([]wa.Button{{ID: wa.ActionUseLastLocation, Title: "Use last location"}}, buttons...)
	}
	buttons = append(buttons, wa.Button{ID: wa.ActionBackMenu, Title: "Back"})

	return b.sender.SendButtons(ctx, profile.WhatsApp,
		"Where does the trip start? Share a location 📍 or pick a saved place.", buttons)
}

func (b *Bot) handleSchedulePickup(ctx context.Context, profile *models.Profile, state *models.ConversationState, ev wa.Event) error {
	s := state.Schedule

	switch ev.Type {
	case wa.EventCoordinates:
		s.Pickup = &models.Point{Lat: ev.Lat, Lng: ev.Lng}
		s.PickupText = ev.Text
		s.PickupFavoriteID = ""
		return b.askScheduleDropoff(ctx, profile, *state)
	case wa.EventSelection:
		sel := wa.DecodeSelection(ev.ID)
		switch sel.Kind {
		case wa.SelAction:
			switch sel.Action {
			case wa.ActionUseLastLocation:
				cached, err := b.cache.GetLocation(ctx, profile.WhatsApp)
				if err != nil || cached == nil || !geo.IsCacheValid(cached.CachedAt, b.cfg.LocationCacheTTL, time.Now()) {
					return b.sender.SendText(ctx, profile.WhatsApp,
						"Your last location has expired, please share a fresh one.")
				}
				s.Pickup = &cached.Location
				s.PickupFavoriteID = ""
				return b.askScheduleDropoff(ctx, profile, *state)
			case wa.ActionSavedLocations:
				return b.sendFavoritesList(ctx, profile, "Pick a starting place")
			}
		case wa.SelFavorite:
			fav, err := b.stg.Favorite().GetByID(ctx, profile.UserID, sel.FavoriteID)
			if err != nil {
				return b.sender.SendText(ctx, profile.WhatsApp, "Couldn't load that place, please try another.")
			}
			s.Pickup = &fav.Location
			s.PickupText = fav.Label
			s.PickupFavoriteID = fav.ID
			return b.askScheduleDropoff(ctx, profile, *state)
		}
	}
	return b.sender.SendText(ctx, profile.WhatsApp, "Share a location or pick a saved place to continue.")
}

func (b *Bot) askScheduleDropoff(ctx context.Context, profile *models.Profile, state models.ConversationState) error {
	state.Step = models.StepScheduleDropoff
	state.Schedule.PickerStage = pickerDropoff
	if err := b.states.Set(ctx, profile.WhatsApp, state); err != nil {
		return err
	}
	return b.sender.SendButtons(ctx, profile.WhatsApp,
		"Where does the trip end? Share a location, pick a saved place, or skip.",
		[]wa.Button{
			{ID: wa.ActionSavedLocations, Title: "Saved places"},
			{ID: wa.ActionSkipDropoff, Title: "Skip"},
			{ID: wa.ActionBackMenu, Title: "Back"},
		})
}

func (b *Bot) handleScheduleDropoff(ctx context.Context, profile *models.Profile, state *models.ConversationState, ev wa.Event) error {
	s := state.Schedule

	switch ev.Type {
	case wa.EventCoordinates:
		s.Dropoff = &models.Point{Lat: ev.Lat, Lng: ev.Lng}
		s.DropoffText = ev.Text
		s.DropoffFavoriteID = ""
		return b.afterScheduleDropoff(ctx, profile, state)
	case wa.EventSelection:
		sel := wa.DecodeSelection(ev.ID)
		switch sel.Kind {
		case wa.SelAction:
			switch sel.Action {
			case wa.ActionSkipDropoff:
				if recurringPending(s) {
					return b.askRecurringDropoff(ctx, profile, *state)
				}
				s.Dropoff = nil
				s.DropoffFavoriteID = ""
				return b.askScheduleTime(ctx, profile, *state)
			case wa.ActionSavedLocations:
				return b.sendFavoritesList(ctx, profile, "Pick a destination")
			}
		case wa.SelFavorite:
			fav, err := b.stg.Favorite().GetByID(ctx, profile.UserID, sel.FavoriteID)
			if err != nil {
				return b.sender.SendText(ctx, profile.WhatsApp, "Couldn't load that place, please try another.")
			}
			s.Dropoff = &fav.Location
			s.DropoffText = fav.Label
			s.DropoffFavoriteID = fav.ID
			return b.afterScheduleDropoff(ctx, profile, state)
		}
	}
	return b.sender.SendText(ctx, profile.WhatsApp, "Share a location, pick a saved place, or skip.")
}

// afterScheduleDropoff continues to the time menu, or straight to trip
// creation when the flow circled back here for a repeating trip's missing
// destination.
func (b *Bot) afterScheduleDropoff(ctx context.Context, profile *models.Profile, state *models.ConversationState) error {
	if recurringPending(state.Schedule) {
		return b.createScheduledTrip(ctx, profile, state)
	}
	return b.askScheduleTime(ctx, profile, *state)
}

// recurringPending reports that a repeating choice was already made; the time
// check separates the re-prompt path from the first pass through dropoff.
func recurringPending(s *models.ScheduleState) bool {
	return s.Recurrence != "" && s.Recurrence != models.RecurNone && s.TravelTime != ""
}

// askRecurringDropoff re-asks for a destination after a repeating trip was
// requested without one. There is no skip here.
func (b *Bot) askRecurringDropoff(ctx context.Context, profile *models.Profile, state models.ConversationState) error {
	state.Step = models.StepScheduleDropoff
	state.Schedule.PickerStage = pickerDropoff
	if err := b.states.Set(ctx, profile.WhatsApp, state); err != nil {
		return err
	}
	return b.sender.SendButtons(ctx, profile.WhatsApp,
		"A repeating trip needs a destination. Share a location or pick a saved place.",
		[]wa.Button{
			{ID: wa.ActionSavedLocations, Title: "Saved places"},
			{ID: wa.ActionBackMenu, Title: "Back"},
		})
}

func (b *Bot) sendFavoritesList(ctx context.Context, profile *models.Profile, body string) error {
	favorites, err := b.stg.Favorite().List(ctx, profile.UserID)
	if err != nil || len(favorites) == 0 {
		return b.sender.SendText(ctx, profile.WhatsApp,
			"You have no saved places yet. Share a location instead.")
	}
	rows := make([]wa.Row, 0, len(favorites))
	for _, f := range favorites {
		if len(rows) == maxListRows {
			break
		}
		rows = append(rows, wa.Row{
			ID:    wa.FavoriteRowID(f.ID),
			Title: f.Label,
		})
	}
	return b.sender.SendList(ctx, profile.WhatsApp, wa.List{
		Title:        "Saved places",
		Body:         body,
		SectionTitle: "Your places",
		ButtonText:   "Choose",
		Rows:         rows,
	})
}

func (b *Bot) askScheduleTime(ctx context.Context, profile *models.Profile, state models.ConversationState) error {
	state.Step = models.StepScheduleTime
	if err := b.states.Set(ctx, profile.WhatsApp, state); err != nil {
		return err
	}
	return b.sender.SendList(ctx, profile.WhatsApp, wa.List{
		Title:        "When?",
		Body:         "When does the trip leave?",
		SectionTitle: "Departure",
		ButtonText:   "Choose",
		Rows: []wa.Row{
			{ID: wa.TimeChoiceID(timeNow), Title: "Now"},
			{ID: wa.TimeChoiceID(timePlus30m), Title: "In 30 minutes"},
			{ID: wa.TimeChoiceID(timePlus1h), Title: "In 1 hour"},
			{ID: wa.TimeChoiceID(timePlus2h), Title: "In 2 hours"},
			{ID: wa.TimeChoiceID(timePlus5h), Title: "In 5 hours"},
			{ID: wa.TimeChoiceID(timeTomorrowAM), Title: "Tomorrow morning", Description: "08:00"},
			{ID: wa.TimeChoiceID(timeTomorrowPM), Title: "Tomorrow evening", Description: "18:00"},
			{ID: wa.TimeChoiceID(timeEveryMorning), Title: "Every morning", Description: "07:30, repeats daily"},
			{ID: wa.TimeChoiceID(timeEveryEvening), Title: "Every evening", Description: "17:30, repeats daily"},
		},
	})
}

func (b *Bot) handleScheduleTime(ctx context.Context, profile *models.Profile, state *models.ConversationState, ev wa.Event) error {
	if ev.Type != wa.EventSelection {
		return b.sender.SendText(ctx, profile.WhatsApp, "Please pick a departure time from the list.")
	}
	sel := wa.DecodeSelection(ev.ID)
	if sel.Kind != wa.SelTime {
		return b.sender.SendText(ctx, profile.WhatsApp, "Please pick a departure time from the list.")
	}

	s := state.Schedule
	now := b.now()

	switch sel.TimeChoice {
	case timeNow:
		s.TravelDate, s.TravelTime = geo.ZonedOffset(now, 0, b.loc)
		s.TravelLabel = "Now"
	case timePlus30m:
		s.TravelDate, s.TravelTime = geo.ZonedOffset(now, 30*time.Minute, b.loc)
		s.TravelLabel = "In 30 minutes"
	case timePlus1h:
		s.TravelDate, s.TravelTime = geo.ZonedOffset(now, time.Hour, b.loc)
		s.TravelLabel = "In 1 hour"
	case timePlus2h:
		s.TravelDate, s.TravelTime = geo.ZonedOffset(now, 2*time.Hour, b.loc)
		s.TravelLabel = "In 2 hours"
	case timePlus5h:
		s.TravelDate, s.TravelTime = geo.ZonedOffset(now, 5*time.Hour, b.loc)
		s.TravelLabel = "In 5 hours"
	case timeTomorrowAM:
		s.TravelDate, s.TravelTime = geo.ZonedDayTime(now, 1, "08:00", b.loc)
		s.TravelLabel = "Tomorrow morning"
	case timeTomorrowPM:
		s.TravelDate, s.TravelTime = geo.ZonedDayTime(now, 1, "18:00", b.loc)
		s.TravelLabel = "Tomorrow evening"
	case timeEveryMorning:
		// The repeating presets fix the time and the daily cadence in one
		// tap, so the recurrence question is skipped.
		s.TravelDate, s.TravelTime = geo.ZonedDayTime(now, 1, "07:30", b.loc)
		s.TravelLabel = "Every morning"
		s.Recurrence = models.RecurDaily
		return b.createScheduledTrip(ctx, profile, state)
	case timeEveryEvening:
		s.TravelDate, s.TravelTime = geo.ZonedDayTime(now, 1, "17:30", b.loc)
		s.TravelLabel = "Every evening"
		s.Recurrence = models.RecurDaily
		return b.createScheduledTrip(ctx, profile, state)
	default:
		return b.sender.SendText(ctx, profile.WhatsApp, "Please pick a departure time from the list.")
	}

	state.Step = models.StepScheduleRecurrence
	if err := b.states.Set(ctx, profile.WhatsApp, *state); err != nil {
		return err
	}
	return b.sender.SendButtons(ctx, profile.WhatsApp,
		"Does this trip repeat?",
		[]wa.Button{
			{ID: wa.ActionRecurNone, Title: "Just once"},
			{ID: wa.ActionRecurWeekdays, Title: "Weekdays"},
			{ID: wa.ActionRecurDaily, Title: "Every day"},
		})
}

func (b *Bot) handleScheduleRecurrence(ctx context.Context, profile *models.Profile, state *models.ConversationState, ev wa.Event) error {
	if ev.Type != wa.EventSelection {
		return b.sender.SendText(ctx, profile.WhatsApp, "Please choose a repeat option.")
	}
	sel := wa.DecodeSelection(ev.ID)
	if sel.Kind != wa.SelAction {
		return b.sender.SendText(ctx, profile.WhatsApp, "Please choose a repeat option.")
	}

	switch sel.Action {
	case wa.ActionRecurNone:
		state.Schedule.Recurrence = models.RecurNone
	case wa.ActionRecurWeekdays:
		state.Schedule.Recurrence = models.RecurWeekdays
	case wa.ActionRecurDaily:
		state.Schedule.Recurrence = models.RecurDaily
	default:
		return b.sender.SendText(ctx, profile.WhatsApp, "Please choose a repeat option.")
	}
	return b.createScheduledTrip(ctx, profile, state)
}

// createScheduledTrip persists the recurring template first (promoting ad hoc
// coordinates to favorites as needed), then the trip itself, then runs the
// first match query. A match failure never loses the trip.
func (b *Bot) createScheduledTrip(ctx context.Context, profile *models.Profile, state *models.ConversationState) error {
	s := state.Schedule

	scheduledAt, err := time.ParseInLocation("2006-01-02 15:04", s.TravelDate+" "+s.TravelTime, b.loc)
	if err != nil {
		return b.sender.SendText(ctx, profile.WhatsApp, "Couldn't read that departure time, please pick again.")
	}

	if s.Recurrence != models.RecurNone && s.Recurrence != "" {
		// The template references favorites at both ends, so a skipped
		// dropoff has to be filled in before anything is written.
		if s.Dropoff == nil {
			return b.askRecurringDropoff(ctx, profile, *state)
		}
		// The template is saved before the trip: if it fails, no orphaned
		// one-off trip is left behind.
		if err := b.saveRecurring(ctx, profile, s); err != nil {
			b.log.Error("failed to save recurring trip", logger.Error(err))
			return b.sender.SendText(ctx, profile.WhatsApp,
				"Couldn't save your repeating trip, please try again in a moment.")
		}
	}

	tripID, err := b.svc.Trip().CreateTrip(ctx, models.TripInput{
		CreatorUserID: profile.UserID,
		Role:          s.Role,
		VehicleType:   s.Vehicle,
		Pickup:        *s.Pickup,
		PickupText:    optText(s.PickupText),
		RadiusMeters:  int(b.cfg.SearchRadiusKm * 1000),
		ScheduledAt:   &scheduledAt,
		Recurrence:    s.Recurrence,
	})
	if err != nil {
		return b.sender.SendText(ctx, profile.WhatsApp, "Couldn't save your trip, please try again.")
	}
	s.TripID = tripID

	if s.Dropoff != nil {
		if err := b.svc.Trip().SetDropoff(ctx, tripID, *s.Dropoff, b.cfg.DefaultRadiusMeters); err != nil {
			b.log.Error("failed to set trip dropoff", logger.String("trip_id", tripID), logger.Error(err))
		}
	}

	if err := b.sender.SendText(ctx, profile.WhatsApp,
		fmt.Sprintf("Trip saved for %s (%s %s). Looking for matches…", s.TravelLabel, s.TravelDate, s.TravelTime)); err != nil {
		b.log.Error("failed to send trip confirmation", logger.Error(err))
	}

	return b.runScheduleSearch(ctx, profile, state)
}

// saveRecurring stores the repeat template. Both ends must reference
// favorites, so ad hoc coordinates are first promoted to "other" favorites.
func (b *Bot) saveRecurring(ctx context.Context, profile *models.Profile, s *models.ScheduleState) error {
	originID := s.PickupFavoriteID
	if originID == "" {
		label := s.PickupText
		if label == "" {
			label = "Pickup " + s.TravelTime
		}
		fav, err := b.stg.Favorite().Save(ctx, profile.UserID, models.FavoriteOther, label, *s.Pickup)
		if err != nil {
			return err
		}
		originID = fav.ID
		s.PickupFavoriteID = fav.ID
	}

	destID := s.DropoffFavoriteID
	if destID == "" {
		label := s.DropoffText
		if label == "" {
			label = "Dropoff " + s.TravelTime
		}
		fav, err := b.stg.Favorite().Save(ctx, profile.UserID, models.FavoriteOther, label, *s.Dropoff)
		if err != nil {
			return err
		}
		destID = fav.ID
		s.DropoffFavoriteID = fav.ID
	}

	days := []int{1, 2, 3, 4, 5, 6, 0}
	if s.Recurrence == models.RecurWeekdays {
		days = []int{1, 2, 3, 4, 5}
	}

	_, err := b.stg.Recurring().Create(ctx, &models.RecurringTrip{
		UserID:           profile.UserID,
		OriginFavoriteID: originID,
		DestFavoriteID:   destID,
		DaysOfWeek:       days,
		TimeLocal:        s.TravelTime,
		Timezone:         s.Timezone,
		Recurrence:       s.Recurrence,
	})
	return err
}

// runScheduleSearch queries matches for the saved trip. A refresh reuses the
// same trip id; it never creates a duplicate.
func (b *Bot) runScheduleSearch(ctx context.Context, profile *models.Profile, state *models.ConversationState) error {
	s := state.Schedule

	trip, err := b.svc.Trip().GetByID(ctx, s.TripID)
	if err != nil {
		return b.sender.SendText(ctx, profile.WhatsApp, "Your trip is saved, but we couldn't search just now. Try refresh in a moment.")
	}

	results, err := b.svc.Match().FindForTrip(ctx, "schedule", trip)
	if err != nil && errors.Is(err, service.ErrQueryFailed) {
		state.Step = models.StepScheduleResults
		if err := b.states.Set(ctx, profile.WhatsApp, *state); err != nil {
			return err
		}
		browse := wa.ActionSeeDrivers
		if s.Role == models.RoleDriver {
			browse = wa.ActionSeePassengers
		}
		return b.sender.SendButtons(ctx, profile.WhatsApp,
			"Your trip is saved, but the search hit a snag. Try again in a moment.",
			[]wa.Button{
				{ID: wa.ActionRefreshMatches, Title: "Refresh"},
				{ID: browse, Title: "Browse now"},
				{ID: wa.ActionBackMenu, Title: "Back to menu"},
			})
	}
	if err != nil {
		return b.sender.SendText(ctx, profile.WhatsApp, "Your trip is saved, but we couldn't search just now. Try refresh in a moment.")
	}

	state.Step = models.StepScheduleResults

	if len(results) == 0 {
		s.Rows = nil
		if err := b.states.Set(ctx, profile.WhatsApp, *state); err != nil {
			return err
		}
		return b.sender.SendButtons(ctx, profile.WhatsApp,
			"No matches yet. Your trip stays visible to others; check back later.",
			[]wa.Button{
				{ID: wa.ActionRefreshMatches, Title: "Refresh"},
				{ID: wa.ActionBackMenu, Title: "Back to menu"},
			})
	}

	SortMatches(results, SortByTime)
	results = TruncateMatches(results)
	rows, stateRows := RenderMatchRows(results, time.Now())
	s.Rows = stateRows
	if err := b.states.Set(ctx, profile.WhatsApp, *state); err != nil {
		return err
	}

	return b.sender.SendList(ctx, profile.WhatsApp, wa.List{
		Title:        "Possible matches",
		Body:         fmt.Sprintf("%d found for your trip (%s). Tap one to connect.", len(results), s.TravelLabel),
		SectionTitle: "Most recent first",
		ButtonText:   "View",
		Rows:         rows,
	})
}

func (b *Bot) handleScheduleResults(ctx context.Context, profile *models.Profile, state *models.ConversationState, ev wa.Event) error {
	if ev.Type != wa.EventSelection {
		return b.sender.SendText(ctx, profile.WhatsApp, "Tap a match from the list, refresh, or go back to the menu.")
	}
	sel := wa.DecodeSelection(ev.ID)

	switch sel.Kind {
	case wa.SelMatchRow:
		return b.connectMatch(ctx, profile, "schedule", state.Schedule.TripID, state.Schedule.Rows, sel.TripID)
	case wa.SelAction:
		switch sel.Action {
		case wa.ActionRefreshMatches:
			return b.runScheduleSearch(ctx, profile, state)
		case wa.ActionSeeDrivers:
			return b.startNearby(ctx, profile, models.ModeDrivers)
		case wa.ActionSeePassengers:
			return b.startNearby(ctx, profile, models.ModePassengers)
		}
	}
	return b.sender.SendText(ctx, profile.WhatsApp, "Tap a match from the list, refresh, or go back to the menu.")
}
