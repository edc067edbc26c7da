package service

import (
	"context"
	"errors"

	"github.com/iliyamo/camp-registration/internal/model"
	"github.com/iliyamo/camp-registration/internal/repository"
)

// DefaultPopularLimit is the number of camps shown on the home page.
const DefaultPopularLimit = 6

// CountOutcome tells the caller what a counter adjustment did.  A missing
// camp is an outcome, not an error: registrations hold only a weak
// reference to their camp.
type CountOutcome uint8

const (
	// CountApplied means the delta was stored.
	CountApplied CountOutcome = iota
	// CountCampMissing means no camp has the id; nothing changed.
	CountCampMissing
	// CountAtFloor means the count is already zero; nothing changed.
	CountAtFloor
	// CountFailed means the store failed; the counter may be stale.
	CountFailed
)

func (o CountOutcome) String() string {
	switch o {
	case CountApplied:
		return "applied"
	case CountCampMissing:
		return "camp_missing"
	case CountAtFloor:
		return "at_floor"
	default:
		return "failed"
	}
}

// Counter owns Camp.ParticipantCount.  All changes are relative deltas
// executed atomically by the store, so concurrent calls never lose updates.
type Counter struct {
	camps repository.CampRepository
}

// NewCounter returns a Counter over camps.
func NewCounter(camps repository.CampRepository) *Counter {
	if camps == nil {
		panic("nil camp repository passed to NewCounter")
	}
	return &Counter{camps: camps}
}

// Increment adds one participant to the camp.
func (c *Counter) Increment(ctx context.Context, campID string) (CountOutcome, error) {
	return c.adjust(ctx, campID, 1)
}

// Decrement removes one participant from the camp.  An unknown camp or a
// count already at zero is reported through the outcome, never as an error.
func (c *Counter) Decrement(ctx context.Context, campID string) (CountOutcome, error) {
	return c.adjust(ctx, campID, -1)
}

func (c *Counter) adjust(ctx context.Context, campID string, delta int) (CountOutcome, error) {
	if campID == "" {
		return CountCampMissing, nil
	}
	err := c.camps.AdjustParticipantCount(ctx, campID, delta)
	switch {
	case err == nil:
		return CountApplied, nil
	case errors.Is(err, repository.ErrNotFound):
		return CountCampMissing, nil
	case errors.Is(err, repository.ErrCountFloor):
		return CountAtFloor, nil
	default:
		return CountFailed, storeErr(err, "camp", "adjust participant count")
	}
}

// ListPopular returns at most limit camps by participantCount descending,
// ties in insertion order.  A non-positive limit means DefaultPopularLimit.
func (c *Counter) ListPopular(ctx context.Context, limit int) ([]*model.Camp, error) {
	if limit <= 0 {
		limit = DefaultPopularLimit
	}
	camps, err := c.camps.ListPopular(ctx, limit)
	if err != nil {
		return nil, storeErr(err, "camp", "list popular camps")
	}
	if len(camps) > limit {
		camps = camps[:limit]
	}
	return camps, nil
}
