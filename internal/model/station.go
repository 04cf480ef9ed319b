package model

import "time"

// Station is the read-mostly reference entity the booking engine prices
// and capacity-checks reservations against.
//
// Fields:
//  ID           – primary key identifier.
//  Name         – display name.
//  TotalSlots   – number of physical charging points; booking slot
//                 numbers must fall in [1, TotalSlots].
//  PricePerUnit – price for one consumption unit.
//  SessionFee   – flat fee added to every session.
//  IsActive     – inactive stations accept no new reservations and a
//                 station cannot go inactive while it still has active
//                 reservations.
//  CreatedAt    – creation timestamp.
//  UpdatedAt    – last update timestamp.
type Station struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	TotalSlots   int       `json:"total_slots"`
	PricePerUnit float64   `json:"price_per_unit"`
	SessionFee   float64   `json:"session_fee"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
