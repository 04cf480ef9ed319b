// Package queue defines message payloads exchanged over the message broker.
package queue

// Event kinds published to the reservation.events queue.  Consumers
// switch on Kind, so adding a kind never breaks existing readers.
const (
	KindReservationApproved  = "reservation.approved"
	KindReservationCompleted = "reservation.completed"
	KindReservationReminder  = "reservation.reminder"
)

// QueueName is the durable queue all reservation events flow through.
const QueueName = "reservation.events"

// ReservationEvent carries enough of a reservation's state for
// downstream consumers to log, notify, or feed analytics without
// querying the primary database.
type ReservationEvent struct {
	Kind          string  `json:"kind"`
	ReservationID string  `json:"reservation_id"`
	OwnerID       string  `json:"owner_id"`
	StationID     string  `json:"station_id"`
	SlotNumber    int     `json:"slot_number"`
	Date          string  `json:"date"`
	Start         string  `json:"start_time"`
	End           string  `json:"end_time"`
	TotalCost     float64 `json:"total_cost"`
	Status        string  `json:"status"`
	OccurredAt    string  `json:"occurred_at"`
}
