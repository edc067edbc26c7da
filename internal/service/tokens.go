package service

import (
	"context"
	"strings"

	"github.com/iliyamo/camp-registration/internal/repository"
	"github.com/iliyamo/camp-registration/internal/utils"
)

// Tokens issues access tokens for known users.
type Tokens struct {
	users      repository.UserRepository
	organizers Organizers
	secret     string
	ttlMin     int
}

// NewTokens returns a Tokens service signing with secret.
func NewTokens(users repository.UserRepository, organizers Organizers, secret string, ttlMin int) *Tokens {
	if users == nil {
		panic("nil user repository passed to NewTokens")
	}
	return &Tokens{users: users, organizers: organizers, secret: secret, ttlMin: ttlMin}
}

// Issue signs an access token for the user with the given email.  Unknown
// emails fail with ErrNotFound so that tokens only exist for stored users.
// The role claim comes from the organizer list, not from the stored record,
// so rows written before the list changed cannot keep elevated access.
func (s *Tokens) Issue(ctx context.Context, email string) (utils.AccessToken, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if err := validateEmail(email, "email"); err != nil {
		return utils.AccessToken{}, err
	}
	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return utils.AccessToken{}, storeErr(err, "user", "load user")
	}
	tok, err := utils.NewAccessToken(s.secret, u.Email, s.organizers.RoleFor(u.Email), s.ttlMin)
	if err != nil {
		return utils.AccessToken{}, err
	}
	return tok, nil
}
