package service

import (
	"context"
	"math"
	"strings"
	"time"

	"github.com/iliyamo/camp-registration/internal/model"
	"github.com/iliyamo/camp-registration/internal/repository"
)

// Camps is the CRUD surface for camp records.
type Camps struct {
	camps repository.CampRepository
	now   func() time.Time
}

// NewCamps returns a Camps service.
func NewCamps(camps repository.CampRepository) *Camps {
	if camps == nil {
		panic("nil camp repository passed to NewCamps")
	}
	return &Camps{camps: camps, now: func() time.Time { return time.Now().UTC() }}
}

// Create stores a new camp.  ParticipantCount may be seeded but not negative.
func (s *Camps) Create(ctx context.Context, c *model.Camp) error {
	c.CampName = strings.TrimSpace(c.CampName)
	if c.CampName == "" {
		return validationf("campName is required")
	}
	if err := validateFees(c.CampFees); err != nil {
		return err
	}
	if c.ParticipantCount < 0 {
		return validationf("participantCount must not be negative")
	}
	c.CreatedAt = s.now()
	if err := s.camps.Create(ctx, c); err != nil {
		return storeErr(err, "camp", "create camp")
	}
	return nil
}

// Get returns one camp.
func (s *Camps) Get(ctx context.Context, id string) (*model.Camp, error) {
	c, err := s.camps.GetByID(ctx, id)
	if err != nil {
		return nil, storeErr(err, "camp", "load camp")
	}
	return c, nil
}

// List returns every camp in insertion order.
func (s *Camps) List(ctx context.Context) ([]*model.Camp, error) {
	out, err := s.camps.List(ctx)
	if err != nil {
		return nil, storeErr(err, "camp", "list camps")
	}
	return out, nil
}

// Update overwrites the patched fields and returns the stored camp.
func (s *Camps) Update(ctx context.Context, id string, p model.CampPatch) (*model.Camp, error) {
	if p.Empty() {
		return nil, validationf("nothing to update")
	}
	if p.CampName != nil {
		name := strings.TrimSpace(*p.CampName)
		if name == "" {
			return nil, validationf("campName must not be empty")
		}
		p.CampName = &name
	}
	if p.CampFees != nil {
		if err := validateFees(*p.CampFees); err != nil {
			return nil, err
		}
	}
	if p.ParticipantCount != nil && *p.ParticipantCount < 0 {
		return nil, validationf("participantCount must not be negative")
	}
	if err := s.camps.Update(ctx, id, p); err != nil {
		return nil, storeErr(err, "camp", "update camp")
	}
	return s.Get(ctx, id)
}

// Delete removes a camp.  Registrations that reference it are left alone
// and become dangling references.
func (s *Camps) Delete(ctx context.Context, id string) error {
	if err := s.camps.Delete(ctx, id); err != nil {
		return storeErr(err, "camp", "delete camp")
	}
	return nil
}

func validateFees(f float64) error {
	if math.IsNaN(f) || math.IsInf(f, 0) || f < 0 {
		return validationf("campFees must be a non-negative number")
	}
	if f > model.MaxCampFees {
		return validationf("campFees must not exceed %d", model.MaxCampFees)
	}
	return nil
}
