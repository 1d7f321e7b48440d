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

// startNearby opens the quick search flow. Looking for passengers means the
// user rides as a driver, which requires a registered vehicle plate first;
// the flow suspends until the plate arrives and then resumes where it left
// off.
func (b *Bot) startNearby(ctx context.Context, profile *models.Profile, mode models.NearbyMode) error {
	state := models.ConversationState{
		Step:   models.StepNearbyVehicle,
		Nearby: &models.NearbyState{Mode: mode},
	}

	if mode == models.ModePassengers && profile.VehiclePlate == nil {
		state.Step = models.StepAwaitPlate
		state.Pending = &models.PendingIntent{Kind: pendingNearbyPassengers}
		if err := b.states.Set(ctx, profile.WhatsApp, state); err != nil {
			return err
		}
		return b.sender.SendText(ctx, profile.WhatsApp,
			"Before you can see passengers, please type your vehicle plate (for example RAD 123 B).")
	}

	return b.continueNearby(ctx, profile, state)
}

// resumeNearby picks the flow back up after the plate precondition cleared.
func (b *Bot) resumeNearby(ctx context.Context, profile *models.Profile, state *models.ConversationState) error {
	next := models.ConversationState{
		Step:   models.StepNearbyVehicle,
		Nearby: state.Nearby,
	}
	if next.Nearby == nil {
		next.Nearby = &models.NearbyState{Mode: models.ModePassengers}
	}
	return b.continueNearby(ctx, profile, next)
}

// continueNearby applies the stored-vehicle shortcut for drivers. When the
// cached location is also still fresh, the whole flow collapses into a single
// turn straight to results.
func (b *Bot) continueNearby(ctx context.Context, profile *models.Profile, state models.ConversationState) error {
	if state.Nearby.Mode == models.ModePassengers && profile.VehicleType != nil {
		for _, known := range models.KnownVehicleTypes() {
			if models.VehicleType(*profile.VehicleType) == known {
				state.Nearby.Vehicle = known
				cached, _ := b.cache.GetLocation(ctx, profile.WhatsApp)
				if cached != nil && geo.IsCacheValid(cached.CachedAt, b.cfg.LocationCacheTTL, time.Now()) {
					state.Nearby.Pickup = &cached.Location
					return b.runNearbySearch(ctx, profile, &state)
				}
				return b.askNearbyLocation(ctx, profile, state)
			}
		}
	}

	if err := b.states.Set(ctx, profile.WhatsApp, state); err != nil {
		return err
	}
	body := "Which vehicle are you looking for?"
	if state.Nearby.Mode == models.ModePassengers {
		body = "Which vehicle do you drive?"
	}
	return b.sender.SendList(ctx, profile.WhatsApp, wa.List{
		Title:        "Vehicle",
		Body:         body,
		SectionTitle: "Vehicles",
		ButtonText:   "Choose",
		Rows:         vehicleRows(),
	})
}

func (b *Bot) handleNearbyVehicle(ctx context.Context, profile *models.Profile, state *models.ConversationState, ev wa.Event) error {
	if ev.Type != wa.EventSelection {
		return b.sender.SendText(ctx, profile.WhatsApp, "Please pick a vehicle from the list.")
	}
	sel := wa.DecodeSelection(ev.ID)
	if sel.Kind != wa.SelVehicle {
		return b.sender.SendText(ctx, profile.WhatsApp, "Please pick a vehicle from the list.")
	}

	state.Nearby.Vehicle = sel.Vehicle
	if state.Nearby.Mode == models.ModePassengers {
		// Drivers keep their vehicle as a profile preference so the next
		// search skips this question.
		if err := b.stg.Profile().SetVehicleType(ctx, profile.UserID, string(sel.Vehicle)); err != nil {
			b.log.Error("failed to store vehicle preference", logger.Error(err))
		}
	}

	// A still-fresh cached location makes the location question redundant.
	cached, _ := b.cache.GetLocation(ctx, profile.WhatsApp)
	if cached != nil && geo.IsCacheValid(cached.CachedAt, b.cfg.LocationCacheTTL, time.Now()) {
		state.Nearby.Pickup = &cached.Location
		return b.runNearbySearch(ctx, profile, state)
	}
	return b.askNearbyLocation(ctx, profile, *state)
}

// askNearbyLocation prompts for a pickup point, offering the cached location
// as a one-tap shortcut while it is still fresh.
func (b *Bot) askNearbyLocation(ctx context.Context, profile *models.Profile, state models.ConversationState) error {
	state.Step = models.StepNearbyLocation
	if err := b.states.Set(ctx, profile.WhatsApp, state); err != nil {
		return err
	}

	cached, _ := b.cache.GetLocation(ctx, profile.WhatsApp)
	if cached != nil && geo.IsCacheValid(cached.CachedAt, b.cfg.LocationCacheTTL, time.Now()) {
		return b.sender.SendButtons(ctx, profile.WhatsApp,
			fmt.Sprintf("Share your location, or reuse the one from %s.", geo.TimeAgo(cached.CachedAt, time.Now())),
			[]wa.Button{
				{ID: wa.ActionUseLastLocation, Title: "Use last location"},
				{ID: wa.ActionBackMenu, Title: "Back"},
			})
	}
	return b.sender.SendText(ctx, profile.WhatsApp,
		"Share your location 📍 (attach → location) so we can search around you.")
}

func (b *Bot) handleNearbyLocation(ctx context.Context, profile *models.Profile, state *models.ConversationState, ev wa.Event) error {
	var pickup models.Point

	switch ev.Type {
	case wa.EventCoordinates:
		pickup = models.Point{Lat: ev.Lat, Lng: ev.Lng}
		state.Nearby.PickupText = ev.Text
	case wa.EventSelection:
		sel := wa.DecodeSelection(ev.ID)
		if sel.Kind != wa.SelAction || sel.Action != wa.ActionUseLastLocation {
			return b.sender.SendText(ctx, profile.WhatsApp, "Share your location to continue.")
		}
		cached, err := b.cache.GetLocation(ctx, profile.WhatsApp)
		if err != nil || cached == nil || !geo.IsCacheValid(cached.CachedAt, b.cfg.LocationCacheTTL, time.Now()) {
			return b.sender.SendText(ctx, profile.WhatsApp,
				"Your last location has expired, please share a fresh one.")
		}
		pickup = cached.Location
	default:
		return b.sender.SendText(ctx, profile.WhatsApp, "Share your location to continue.")
	}

	if err := pickup.Validate(); err != nil {
		return b.sender.SendText(ctx, profile.WhatsApp, "That location doesn't look right, please share it again.")
	}

	state.Nearby.Pickup = &pickup
	return b.runNearbySearch(ctx, profile, state)
}

// runNearbySearch creates the open trip and shows ranked matches. A query
// failure is reported apologetically and keeps the trip; it is never shown as
// an empty result.
func (b *Bot) runNearbySearch(ctx context.Context, profile *models.Profile, state *models.ConversationState) error {
	n := state.Nearby

	tripID, err := b.svc.Trip().CreateTrip(ctx, models.TripInput{
		CreatorUserID: profile.UserID,
		Role:          n.Mode.Role(),
		VehicleType:   n.Vehicle,
		Pickup:        *n.Pickup,
		PickupText:    optText(n.PickupText),
		RadiusMeters:  int(b.cfg.SearchRadiusKm * 1000),
	})
	if err != nil {
		return b.sender.SendText(ctx, profile.WhatsApp, "Couldn't start your search, please try again.")
	}
	n.TripID = tripID

	_ = b.cache.SaveRecentIntent(ctx, profile.WhatsApp, n.Mode, models.NearbyIntent{
		Vehicle:   n.Vehicle,
		Pickup:    *n.Pickup,
		CreatedAt: time.Now(),
	})

	trip, err := b.svc.Trip().GetByID(ctx, tripID)
	if err != nil {
		return b.sender.SendText(ctx, profile.WhatsApp, "Couldn't start your search, please try again.")
	}

	results, err := b.svc.Match().FindForTrip(ctx, "nearby", trip)
	if err != nil && errors.Is(err, service.ErrQueryFailed) {
		state.Step = models.StepNearbyResults
		if err := b.states.Set(ctx, profile.WhatsApp, *state); err != nil {
			return err
		}
		return b.sender.SendButtons(ctx, profile.WhatsApp,
			"Sorry, the search hit a snag. Your request is saved, try again in a moment.",
			[]wa.Button{
				{ID: wa.ActionSearchAgain, Title: "Try again"},
				{ID: wa.ActionBackMenu, Title: "Back to menu"},
			})
	}
	if err != nil {
		return b.sender.SendText(ctx, profile.WhatsApp, "Couldn't start your search, please try again.")
	}

	if len(results) == 0 {
		// A clean zero-result is a terminal outcome; the flow ends here and
		// the saved intent lets "search again" skip the questions.
		if err := b.states.Clear(ctx, profile.WhatsApp); err != nil {
			b.log.Error("failed to clear state after empty results", logger.Error(err))
		}
		noun := "drivers"
		if n.Mode == models.ModePassengers {
			noun = "passengers"
		}
		return b.sender.SendButtons(ctx, profile.WhatsApp,
			fmt.Sprintf("No %s found near you right now. We'll keep your request open.", noun),
			[]wa.Button{
				{ID: wa.ActionSearchAgain, Title: "Search again"},
				{ID: wa.ActionScheduleTrip, Title: "Schedule trip"},
				{ID: wa.ActionBackMenu, Title: "Back to menu"},
			})
	}

	SortMatches(results, SortByDistance)
	results = TruncateMatches(results)
	rows, stateRows := RenderMatchRows(results, time.Now())

	state.Step = models.StepNearbyResults
	n.Rows = stateRows
	if err := b.states.Set(ctx, profile.WhatsApp, *state); err != nil {
		return err
	}

	// A passenger searching for drivers also alerts those drivers, subject
	// to the per-recipient rate limit.
	if n.Mode == models.ModeDrivers {
		b.notifier.NotifyAsync(trip, results)
	}

	title := "Drivers near you"
	if n.Mode == models.ModePassengers {
		title = "Passengers near you"
	}
	return b.sender.SendList(ctx, profile.WhatsApp, wa.List{
		Title:        title,
		Body:         fmt.Sprintf("%d found. Tap one to connect.", len(results)),
		SectionTitle: "Nearest first",
		ButtonText:   "View",
		Rows:         rows,
	})
}

func (b *Bot) handleNearbyResults(ctx context.Context, profile *models.Profile, state *models.ConversationState, ev wa.Event) error {
	if ev.Type != wa.EventSelection {
		return b.sender.SendText(ctx, profile.WhatsApp, "Tap a result from the list, or go back to the menu.")
	}
	sel := wa.DecodeSelection(ev.ID)

	switch sel.Kind {
	case wa.SelMatchRow:
		return b.connectMatch(ctx, profile, "nearby", state.Nearby.TripID, state.Nearby.Rows, sel.TripID)
	case wa.SelAction:
		switch sel.Action {
		case wa.ActionSearchAgain:
			return b.searchAgain(ctx, profile, state)
		case wa.ActionScheduleTrip:
			return b.startSchedule(ctx, profile)
		}
	}
	return b.sender.SendText(ctx, profile.WhatsApp, "Tap a result from the list, or go back to the menu.")
}

// searchAgain reruns the last nearby search without re-asking the questions,
// falling back to a fresh flow when the remembered intent has expired.
func (b *Bot) searchAgain(ctx context.Context, profile *models.Profile, state *models.ConversationState) error {
	mode := state.Nearby.Mode
	intent, err := b.cache.GetRecentIntent(ctx, profile.WhatsApp, mode)
	if err != nil || intent == nil {
		return b.startNearby(ctx, profile, mode)
	}

	next := models.ConversationState{
		Step: models.StepNearbyLocation,
		Nearby: &models.NearbyState{
			Mode:    mode,
			Vehicle: intent.Vehicle,
			Pickup:  &intent.Pickup,
		},
	}
	return b.runNearbySearch(ctx, profile, &next)
}

// searchAgainEntry serves "search again" after a flow already ended: the most
// recently remembered intent (either mode) is replayed without re-asking.
func (b *Bot) searchAgainEntry(ctx context.Context, profile *models.Profile) error {
	var (
		mode   models.NearbyMode
		intent *models.NearbyIntent
	)
	for _, m := range []models.NearbyMode{models.ModeDrivers, models.ModePassengers} {
		got, err := b.cache.GetRecentIntent(ctx, profile.WhatsApp, m)
		if err != nil || got == nil {
			continue
		}
		if intent == nil || got.CreatedAt.After(intent.CreatedAt) {
			mode, intent = m, got
		}
	}
	if intent == nil {
		return b.sendMainMenu(ctx, profile.WhatsApp)
	}

	state := models.ConversationState{
		Step: models.StepNearbyLocation,
		Nearby: &models.NearbyState{
			Mode:    mode,
			Vehicle: intent.Vehicle,
			Pickup:  &intent.Pickup,
		},
	}
	return b.runNearbySearch(ctx, profile, &state)
}

// connectMatch resolves a tapped row against the rows stored in state and
// hands the user a chat link to the counterpart.
func (b *Bot) connectMatch(ctx context.Context, profile *models.Profile, flow, tripID string, rows []models.StateRow, counterpartTripID string) error {
	for _, row := range rows {
		if row.TripID != counterpartTripID {
			continue
		}
		b.rec.MatchSelectedEvent(flow, tripID, row.TripID)
		if err := b.states.Clear(ctx, profile.WhatsApp); err != nil {
			b.log.Error("failed to clear state after selection", logger.Error(err))
		}
		link := wa.ChatLink(row.Contact, "Hi! I found you on the ride board ("+row.Ref+").")
		return b.sender.SendText(ctx, profile.WhatsApp,
			fmt.Sprintf("Connecting you with %s. Open the chat here:\n%s", row.Ref, link))
	}
	return b.sender.SendText(ctx, profile.WhatsApp, "That result has expired, please search again.")
}
