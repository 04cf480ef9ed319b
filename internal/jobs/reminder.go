// Package jobs hosts scheduled background work driven by cron.
package jobs

import (
	"context"
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/iliyamo/ev-station-booking/internal/booking"
	"github.com/iliyamo/ev-station-booking/internal/queue"
	queue_publisher "github.com/iliyamo/ev-station-booking/internal/service"
)

// StartReminderCron schedules an hourly sweep that publishes a
// reservation.reminder event for every approved reservation starting
// within the next 24 hours.  Consumers decide how to notify; this job
// only emits.  The returned cron is already started so the caller can
// Stop it on shutdown.
func StartReminderCron(store booking.Store) *cron.Cron {
	c := cron.New()
	_, err := c.AddFunc("@hourly", func() { runReminderSweep(store) })
	if err != nil {
		log.Printf("reminder job: schedule failed: %v", err)
		return c
	}
	c.Start()
	return c
}

func runReminderSweep(store booking.Store) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	now := time.Now().UTC()
	upcoming, err := store.ListApprovedStartingBetween(ctx, now, now.Add(24*time.Hour))
	if err != nil {
		log.Printf("reminder job: list upcoming reservations: %v", err)
		return
	}

	for i := range upcoming {
		r := &upcoming[i]
		ev := queue.ReservationEvent{
			Kind:          queue.KindReservationReminder,
			ReservationID: r.ID,
			OwnerID:       r.OwnerID,
			StationID:     r.StationID,
			SlotNumber:    r.SlotNumber,
			Date:          r.Date,
			Start:         r.StartTime,
			End:           r.EndTime,
			TotalCost:     r.TotalCost,
			Status:        string(r.Status),
			OccurredAt:    now.Format(time.RFC3339),
		}
		if err := queue_publisher.PublishReservationEvent(ctx, ev); err != nil {
			log.Printf("reminder job: publish reminder for %s failed: %v", r.ID, err)
		}
	}
	if len(upcoming) > 0 {
		log.Printf("reminder job: published %d reminder(s)", len(upcoming))
	}
}
