// Package repository provides MySQL-backed data access for the booking
// service.  Reservation persistence implements the booking.Store
// interface so the rule engine stays storage-agnostic; the remaining
// repositories (stations, schedules, users) are consumed directly by
// the HTTP handlers.  All timestamps are stored and compared in UTC –
// the connection is opened with loc=UTC.
package repository

import "errors"

// ErrEmailTaken is returned when a registration reuses an existing
// email address.  Handlers translate it into an HTTP 409 response.
var ErrEmailTaken = errors.New("email already registered")

// ErrUserNotFound is returned when a login or lookup references an
// unknown account.  Handlers translate it into 401 or 404 depending on
// the operation.
var ErrUserNotFound = errors.New("user not found")
