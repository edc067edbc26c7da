package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/iliyamo/camp-registration/internal/model"
	"github.com/iliyamo/camp-registration/internal/repository"
)

// Users keeps the account list.  Identity itself is handled by an external
// provider; this service only remembers who signed in.
type Users struct {
	users      repository.UserRepository
	organizers Organizers
	now        func() time.Time
}

// NewUsers returns a Users service.  Roles are assigned from organizers.
func NewUsers(users repository.UserRepository, organizers Organizers) *Users {
	if users == nil {
		panic("nil user repository passed to NewUsers")
	}
	return &Users{users: users, organizers: organizers, now: func() time.Time { return time.Now().UTC() }}
}

// Register stores u unless a user with the same email exists.  The bool
// result reports whether a new record was created; on false the existing
// record is returned unchanged.  Any role set on u is replaced by the one
// the organizer list grants.
func (s *Users) Register(ctx context.Context, u *model.User) (*model.User, bool, error) {
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	if err := validateEmail(u.Email, "email"); err != nil {
		return nil, false, err
	}
	existing, err := s.users.GetByEmail(ctx, u.Email)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, false, storeErr(err, "user", "load user")
	}

	u.Role = s.organizers.RoleFor(u.Email)
	u.Name = strings.TrimSpace(u.Name)
	u.CreatedAt = s.now()
	if err := s.users.Create(ctx, u); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			// lost a race with a concurrent sign-in for the same email
			existing, gerr := s.users.GetByEmail(ctx, u.Email)
			if gerr != nil {
				return nil, false, storeErr(gerr, "user", "load user")
			}
			return existing, false, nil
		}
		return nil, false, storeErr(err, "user", "create user")
	}
	return u, true, nil
}

// GetByEmail returns the user with the given email.
func (s *Users) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	u, err := s.users.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return nil, storeErr(err, "user", "load user")
	}
	return u, nil
}

// List returns every user.
func (s *Users) List(ctx context.Context) ([]*model.User, error) {
	out, err := s.users.List(ctx)
	if err != nil {
		return nil, storeErr(err, "user", "list users")
	}
	return out, nil
}
