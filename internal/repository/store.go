// Package repository declares the persistence contracts used by the
// services and the sentinel errors shared by every store driver.  The
// concrete drivers live in sub-packages: mongostore (document store,
// default), mysqlstore and memstore.
package repository

import (
	"context"

	"github.com/iliyamo/camp-registration/internal/model"
)

// CampRepository persists camps and owns the participant counter.
type CampRepository interface {
	Create(ctx context.Context, c *model.Camp) error
	GetByID(ctx context.Context, id string) (*model.Camp, error)
	List(ctx context.Context) ([]*model.Camp, error)
	Update(ctx context.Context, id string, p model.CampPatch) error
	Delete(ctx context.Context, id string) error
	// AdjustParticipantCount applies delta to participantCount as a single
	// atomic store operation.  It returns ErrNotFound when no camp has the
	// id and ErrCountFloor when the delta would make the count negative.
	AdjustParticipantCount(ctx context.Context, id string, delta int) error
	// ListPopular returns at most limit camps ordered by participantCount
	// descending; ties keep insertion order.
	ListPopular(ctx context.Context, limit int) ([]*model.Camp, error)
}

// ParticipantRepository persists registrations.
type ParticipantRepository interface {
	Create(ctx context.Context, p *model.Participant) error
	GetByID(ctx context.Context, id string) (*model.Participant, error)
	List(ctx context.Context) ([]*model.Participant, error)
	ListByEmail(ctx context.Context, email string) ([]*model.Participant, error)
	UpdateByID(ctx context.Context, id string, p model.StatusPatch) error
	// UpdateByCamp applies p to every registration of the camp and returns
	// how many matched.
	UpdateByCamp(ctx context.Context, campID string, p model.StatusPatch) (int64, error)
	Delete(ctx context.Context, id string) error
}

// UserRepository persists user accounts.
type UserRepository interface {
	Create(ctx context.Context, u *model.User) error
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	List(ctx context.Context) ([]*model.User, error)
}

// FeedbackRepository persists camp feedback.
type FeedbackRepository interface {
	Create(ctx context.Context, f *model.Feedback) error
	List(ctx context.Context) ([]*model.Feedback, error)
	ListByCamp(ctx context.Context, campID string) ([]*model.Feedback, error)
}

// Store bundles the repositories of one driver together with the handle
// that must be released on shutdown.
type Store struct {
	Camps        CampRepository
	Participants ParticipantRepository
	Users        UserRepository
	Feedback     FeedbackRepository
	closer       func(ctx context.Context) error
}

// NewStore assembles a Store.  closer may be nil.
func NewStore(c CampRepository, p ParticipantRepository, u UserRepository, f FeedbackRepository, closer func(ctx context.Context) error) *Store {
	return &Store{Camps: c, Participants: p, Users: u, Feedback: f, closer: closer}
}

// Close releases the underlying connection.
func (s *Store) Close(ctx context.Context) error {
	if s == nil || s.closer == nil {
		return nil
	}
	return s.closer(ctx)
}
