package bot

import (
	"context"
	"time"

	"mobibot/pkg/logger"
	"mobibot/pkg/models"
	"mobibot/pkg/wa"
)

// HandleEvent is the single entry point for inbound webhook events. It
// resolves the sender's profile, applies the global escapes, then dispatches
// on the active conversation step.
func (b *Bot) HandleEvent(ctx context.Context, ev wa.Event) error {
	profile, err := b.stg.Profile().GetOrCreate(ctx, ev.From)
	if err != nil {
		b.log.Error("failed to resolve profile", logger.String("from", wa.MaskPhone(ev.From)), logger.Error(err))
		return b.sender.SendText(ctx, ev.From, "Something went wrong, please try again.")
	}

	// Back-to-menu is unconditional: it works from any step, including a
	// suspended one, and always discards the in-progress flow.
	if ev.Type == wa.EventSelection {
		if sel := wa.DecodeSelection(ev.ID); sel.Kind == wa.SelAction && sel.Action == wa.ActionBackMenu {
			return b.backToMenu(ctx, ev.From)
		}
	}

	// Any shared location refreshes the cache, whatever flow it lands in.
	if ev.Type == wa.EventCoordinates {
		point := models.Point{Lat: ev.Lat, Lng: ev.Lng}
		if err := point.Validate(); err != nil {
			return b.sender.SendText(ctx, ev.From, "That location doesn't look right, please share it again.")
		}
		if err := b.cache.SaveLocation(ctx, ev.From, point, time.Now()); err != nil {
			b.log.Error("failed to cache location", logger.String("from", wa.MaskPhone(ev.From)), logger.Error(err))
		}
	}

	state, err := b.states.Get(ctx, ev.From)
	if err != nil {
		// A state-store outage degrades to the main menu rather than a
		// dead conversation.
		state = nil
	}

	if state == nil {
		return b.handleEntry(ctx, profile, ev)
	}

	// A step without its payload is corrupt state; treat it like no state at
	// all rather than letting a handler dereference nil.
	switch state.Step {
	case models.StepNearbyVehicle, models.StepNearbyLocation, models.StepNearbyResults:
		if state.Nearby == nil {
			b.log.Warning("conversation state missing nearby payload", logger.String("step", string(state.Step)))
			return b.backToMenu(ctx, ev.From)
		}
	case models.StepScheduleRole, models.StepScheduleVehicle, models.StepSchedulePickup,
		models.StepScheduleDropoff, models.StepScheduleTime, models.StepScheduleRecurrence,
		models.StepScheduleResults:
		if state.Schedule == nil {
			b.log.Warning("conversation state missing schedule payload", logger.String("step", string(state.Step)))
			return b.backToMenu(ctx, ev.From)
		}
	}

	switch state.Step {
	case models.StepNearbyVehicle:
		return b.handleNearbyVehicle(ctx, profile, state, ev)
	case models.StepNearbyLocation:
		return b.handleNearbyLocation(ctx, profile, state, ev)
	case models.StepNearbyResults:
		return b.handleNearbyResults(ctx, profile, state, ev)
	case models.StepScheduleRole:
		return b.handleScheduleRole(ctx, profile, state, ev)
	case models.StepScheduleVehicle:
		return b.handleScheduleVehicle(ctx, profile, state, ev)
	case models.StepSchedulePickup:
		return b.handleSchedulePickup(ctx, profile, state, ev)
	case models.StepScheduleDropoff:
		return b.handleScheduleDropoff(ctx, profile, state, ev)
	case models.StepScheduleTime:
		return b.handleScheduleTime(ctx, profile, state, ev)
	case models.StepScheduleRecurrence:
		return b.handleScheduleRecurrence(ctx, profile, state, ev)
	case models.StepScheduleResults:
		return b.handleScheduleResults(ctx, profile, state, ev)
	case models.StepAwaitPlate:
		return b.handleAwaitPlate(ctx, profile, state, ev)
	default:
		b.log.Warning("unknown conversation step", logger.String("step", string(state.Step)))
		return b.backToMenu(ctx, ev.From)
	}
}

// handleEntry routes a user with no active flow: menu actions start a flow,
// anything else re-shows the menu.
func (b *Bot) handleEntry(ctx context.Context, profile *models.Profile, ev wa.Event) error {
	if ev.Type == wa.EventSelection {
		sel := wa.DecodeSelection(ev.ID)
		if sel.Kind == wa.SelAction {
			switch sel.Action {
			case wa.ActionSeeDrivers:
				return b.startNearby(ctx, profile, models.ModeDrivers)
			case wa.ActionSeePassengers:
				return b.startNearby(ctx, profile, models.ModePassengers)
			case wa.ActionScheduleTrip:
				return b.startSchedule(ctx, profile)
			case wa.ActionSearchAgain:
				return b.searchAgainEntry(ctx, profile)
			}
		}
	}
	return b.sendMainMenu(ctx, profile.WhatsApp)
}

// handleAwaitPlate completes the driver plate precondition and resumes the
// suspended intent.
func (b *Bot) handleAwaitPlate(ctx context.Context, profile *models.Profile, state *models.ConversationState, ev wa.Event) error {
	if ev.Type != wa.EventFreeText {
		return b.sender.SendText(ctx, profile.WhatsApp,
			"Please type your vehicle plate (for example RAD 123 B).")
	}

	plate := normalizePlate(ev.Value)
	if plate == "" {
		return b.sender.SendText(ctx, profile.WhatsApp,
			"That plate looks too short, please type it again.")
	}

	if err := b.stg.Profile().SetVehiclePlate(ctx, profile.UserID, plate); err != nil {
		return b.sender.SendText(ctx, profile.WhatsApp, "Couldn't save your plate, please try again.")
	}
	p := plate
	profile.VehiclePlate = &p

	if state.Pending == nil {
		return b.backToMenu(ctx, profile.WhatsApp)
	}
	switch state.Pending.Kind {
	case pendingNearbyPassengers:
		return b.resumeNearby(ctx, profile, state)
	case pendingScheduleDriver:
		return b.resumeScheduleDriver(ctx, profile, state)
	default:
		return b.backToMenu(ctx, profile.WhatsApp)
	}
}
