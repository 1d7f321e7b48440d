package bot

import (
	"context"
	"fmt"
	"sync"
	"time"

	"mobibot/pkg/logger"
	"mobibot/pkg/models"
	"mobibot/pkg/wa"
	"mobibot/storage"
)

const (
	notifyWorkers  = 4
	notifyWindow   = time.Hour
	notifyPerHour  = 1
	notifyDeadline = 30 * time.Second
)

// Notifier fans a new passenger request out to the matched drivers. Each
// recipient is capped at one alert per hour so a busy corridor doesn't turn
// into spam.
type Notifier struct {
	stg    storage.IStorage
	sender wa.Sender
	log    logger.ILogger
	wg     sync.WaitGroup
}

func NewNotifier(stg storage.IStorage, sender wa.Sender, log logger.ILogger) *Notifier {
	return &Notifier{stg: stg, sender: sender, log: log}
}

// NotifyAsync runs the fan-out in the background; the searching user's reply
// never waits on it.
func (n *Notifier) NotifyAsync(trip *models.Trip, matches []models.MatchResult) {
	n.wg.Add(1)
	go func() {
		defer n.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), notifyDeadline)
		defer cancel()
		n.notify(ctx, trip, matches)
	}()
}

// Wait blocks until in-flight fan-outs finish; used on shutdown.
func (n *Notifier) Wait() {
	n.wg.Wait()
}

func (n *Notifier) notify(ctx context.Context, trip *models.Trip, matches []models.MatchResult) {
	sem := make(chan struct{}, notifyWorkers)
	var wg sync.WaitGroup

	for _, m := range matches {
		wg.Add(1)
		sem <- struct{}{}
		go func(m models.MatchResult) {
			defer wg.Done()
			defer func() { <-sem }()
			n.notifyOne(ctx, trip, m)
		}(m)
	}
	wg.Wait()
}

func (n *Notifier) notifyOne(ctx context.Context, trip *models.Trip, m models.MatchResult) {
	count, err := n.stg.Notification().CountRecent(ctx, m.CounterpartUserID, time.Now().Add(-notifyWindow))
	if err != nil {
		n.log.Error("failed to check notification rate", logger.String("recipient", m.CounterpartUserID), logger.Error(err))
		return
	}
	if count >= notifyPerHour {
		return
	}

	body := fmt.Sprintf("Someone is looking for a %s near you right now. Open the app menu to see passengers.",
		vehicleLabel(trip.VehicleType))
	if err := n.sender.SendText(ctx, m.ContactHandle, body); err != nil {
		n.log.Error("failed to send driver alert",
			logger.String("recipient", wa.MaskPhone(m.ContactHandle)), logger.Error(err))
		return
	}
	if err := n.stg.Notification().Record(ctx, trip.ID, m.CounterpartUserID); err != nil {
		n.log.Error("failed to record notification", logger.Error(err))
	}
}
