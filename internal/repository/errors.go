package repository

import "errors"

// Sentinel errors shared by every store driver.  Drivers return these
// values, possibly wrapped, so that errors.Is works across layers.

// ErrNotFound is returned when the addressed record does not exist.
var ErrNotFound = errors.New("not found")

// ErrDuplicate is returned when a unique key (e.g. user email) is taken.
var ErrDuplicate = errors.New("duplicate key")

// ErrCountFloor is returned by AdjustParticipantCount when applying the
// delta would make participantCount negative.  The camp is left untouched.
var ErrCountFloor = errors.New("participant count would become negative")
