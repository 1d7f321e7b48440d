package bot

import (
	"context"
	"strings"
	"time"

	"mobibot/config"
	"mobibot/pkg/logger"
	"mobibot/pkg/observe"
	"mobibot/pkg/wa"
	"mobibot/service"
	"mobibot/storage"
)

// Bot drives the WhatsApp conversation: it owns the per-user state machine
// and dispatches inbound events to the nearby and schedule flows.
type Bot struct {
	cfg    config.Config
	log    logger.ILogger
	stg    storage.IStorage
	svc    service.IServiceManager
	sender wa.Sender
	states storage.IStateStorage
	cache  storage.ILocationCacheStorage
	rec    *observe.Recorder
	loc    *time.Location

	notifier *Notifier
}

func New(cfg config.Config, stg storage.IStorage, svc service.IServiceManager,
	sender wa.Sender, states storage.IStateStorage, cache storage.ILocationCacheStorage,
	rec *observe.Recorder, log logger.ILogger) (*Bot, error) {

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return nil, err
	}

	b := &Bot{
		cfg:    cfg,
		log:    log,
		stg:    stg,
		svc:    svc,
		sender: sender,
		states: states,
		cache:  cache,
		rec:    rec,
		loc:    loc,
	}
	b.notifier = NewNotifier(stg, sender, log)
	return b, nil
}

func (b *Bot) sendMainMenu(ctx context.Context, to string) error {
	return b.sender.SendButtons(ctx, to,
		"What would you like to do?",
		[]wa.Button{
			{ID: wa.ActionSeeDrivers, Title: "See drivers"},
			{ID: wa.ActionSeePassengers, Title: "See passengers"},
			{ID: wa.ActionScheduleTrip, Title: "Schedule trip"},
		})
}

// backToMenu clears whatever flow the user was in and re-shows the menu.
// It must work from any step, including a suspended one.
func (b *Bot) backToMenu(ctx context.Context, userID string) error {
	if err := b.states.Clear(ctx, userID); err != nil {
		b.log.Error("failed to clear state on back", logger.String("user", wa.MaskPhone(userID)), logger.Error(err))
	}
	return b.sendMainMenu(ctx, userID)
}

// Drain blocks until in-flight driver alert fan-outs finish; called on
// shutdown after the HTTP server stops accepting events.
func (b *Bot) Drain() {
	b.notifier.Wait()
}

func (b *Bot) now() time.Time {
	return time.Now().In(b.loc)
}

// Pending intent kinds for a flow suspended on the plate precondition.
const (
	pendingNearbyPassengers = "nearby_passengers"
	pendingScheduleDriver   = "schedule_driver"
)

// normalizePlate uppercases and trims a typed plate; anything under four
// characters is rejected as noise.
func normalizePlate(raw string) string {
	plate := strings.ToUpper(strings.TrimSpace(raw))
	if len(plate) < 4 {
		return ""
	}
	return plate
}
