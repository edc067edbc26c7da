package service

import (
	"context"
	"strings"
	"time"

	"github.com/iliyamo/camp-registration/internal/model"
	"github.com/iliyamo/camp-registration/internal/repository"
)

// Feedback stores participant ratings of camps.
type Feedback struct {
	feedback repository.FeedbackRepository
	camps    repository.CampRepository
	now      func() time.Time
}

// NewFeedback returns a Feedback service.
func NewFeedback(feedback repository.FeedbackRepository, camps repository.CampRepository) *Feedback {
	if feedback == nil || camps == nil {
		panic("nil repository passed to NewFeedback")
	}
	return &Feedback{feedback: feedback, camps: camps, now: func() time.Time { return time.Now().UTC() }}
}

// Submit stores f after checking the rating range and that the camp exists.
func (s *Feedback) Submit(ctx context.Context, f *model.Feedback) error {
	f.CampID = strings.TrimSpace(f.CampID)
	f.ParticipantEmail = strings.TrimSpace(f.ParticipantEmail)
	if f.CampID == "" {
		return validationf("campId is required")
	}
	if err := validateEmail(f.ParticipantEmail, "participantEmail"); err != nil {
		return err
	}
	if f.Rating < 1 || f.Rating > 5 {
		return validationf("rating must be between 1 and 5")
	}
	if _, err := s.camps.GetByID(ctx, f.CampID); err != nil {
		return storeErr(err, "camp", "load camp")
	}
	f.Comment = strings.TrimSpace(f.Comment)
	f.CreatedAt = s.now()
	if err := s.feedback.Create(ctx, f); err != nil {
		return storeErr(err, "feedback", "create feedback")
	}
	return nil
}

// List returns all feedback, newest first.
func (s *Feedback) List(ctx context.Context) ([]*model.Feedback, error) {
	out, err := s.feedback.List(ctx)
	if err != nil {
		return nil, storeErr(err, "feedback", "list feedback")
	}
	return out, nil
}

// ListByCamp returns the feedback for one camp, newest first.
func (s *Feedback) ListByCamp(ctx context.Context, campID string) ([]*model.Feedback, error) {
	out, err := s.feedback.ListByCamp(ctx, campID)
	if err != nil {
		return nil, storeErr(err, "feedback", "list feedback")
	}
	return out, nil
}
