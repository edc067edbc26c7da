package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/iliyamo/camp-registration/internal/model"
	"github.com/iliyamo/camp-registration/internal/queue"
	"github.com/iliyamo/camp-registration/internal/repository"
)

// EventPublisher receives lifecycle events.  Publishing is best effort: a
// failure is logged and never fails the operation that produced the event.
type EventPublisher interface {
	PublishRegistered(ctx context.Context, ev queue.ParticipantRegisteredEvent) error
	PublishCancelled(ctx context.Context, ev queue.ParticipantCancelledEvent) error
}

// RegisterInput carries a registration request.  PaymentStatus and
// ConfirmationStatus are accepted so that callers can send whole records,
// but they are always ignored: a registration starts Unpaid and Pending.
type RegisterInput struct {
	CampID             string
	ParticipantName    string
	ParticipantEmail   string
	Age                int
	Phone              string
	Gender             string
	EmergencyContact   string
	PaymentStatus      string
	ConfirmationStatus string
}

// CancelResult describes a completed cancellation.
type CancelResult struct {
	Participant *model.Participant
	Counter     CountOutcome
}

// Ledger owns participant records and their lifecycle.
//
// Registration and cancellation touch two records (the participant and the
// camp counter) without a cross-document transaction.  The participant
// write always happens first; the counter delta follows and is best
// effort.  A crash between the two leaves the counter stale, so
// participantCount is eventually consistent, not a strict invariant.
type Ledger struct {
	participants    repository.ParticipantRepository
	camps           repository.CampRepository
	counter         *Counter
	events          EventPublisher
	countOnRegister bool
	log             zerolog.Logger
	now             func() time.Time
}

// LedgerOption configures a Ledger.
type LedgerOption func(*Ledger)

// WithEvents publishes lifecycle events to p.
func WithEvents(p EventPublisher) LedgerOption { return func(l *Ledger) { l.events = p } }

// WithCountOnRegister controls whether Register increments the camp counter.
// It is on by default; turning it off reproduces a decrement-only counter
// that must be seeded through camp updates.
func WithCountOnRegister(on bool) LedgerOption { return func(l *Ledger) { l.countOnRegister = on } }

// WithLedgerLogger sets the logger used for best-effort failures.
func WithLedgerLogger(log zerolog.Logger) LedgerOption { return func(l *Ledger) { l.log = log } }

// NewLedger wires a Ledger.  It panics if a dependency is nil.
func NewLedger(participants repository.ParticipantRepository, camps repository.CampRepository, counter *Counter, opts ...LedgerOption) *Ledger {
	if participants == nil || camps == nil || counter == nil {
		panic("nil dependency passed to NewLedger")
	}
	l := &Ledger{
		participants:    participants,
		camps:           camps,
		counter:         counter,
		countOnRegister: true,
		log:             zerolog.Nop(),
		now:             func() time.Time { return time.Now().UTC() },
	}
	for _, o := range opts {
		o(l)
	}
	return l
}

// Register stores a new Unpaid/Pending registration for an existing camp.
func (l *Ledger) Register(ctx context.Context, in RegisterInput) (*model.Participant, error) {
	in.CampID = strings.TrimSpace(in.CampID)
	in.ParticipantEmail = strings.TrimSpace(in.ParticipantEmail)
	in.ParticipantName = strings.TrimSpace(in.ParticipantName)
	if in.CampID == "" {
		return nil, validationf("campId is required")
	}
	if err := validateEmail(in.ParticipantEmail, "participantEmail"); err != nil {
		return nil, err
	}
	if in.Age < 0 {
		return nil, validationf("age must not be negative")
	}

	camp, err := l.camps.GetByID(ctx, in.CampID)
	if err != nil {
		return nil, storeErr(err, "camp", "load camp")
	}

	rec := &model.Participant{
		CampID:                 camp.ID,
		CampName:               camp.CampName,
		CampFees:               camp.CampFees,
		Location:               camp.Location,
		HealthcareProfessional: camp.HealthcareProfessional,
		ParticipantName:        in.ParticipantName,
		ParticipantEmail:       in.ParticipantEmail,
		Age:                    in.Age,
		Phone:                  strings.TrimSpace(in.Phone),
		Gender:                 strings.TrimSpace(in.Gender),
		EmergencyContact:       strings.TrimSpace(in.EmergencyContact),
		PaymentStatus:          model.PaymentUnpaid,
		ConfirmationStatus:     model.ConfirmationPending,
		CreatedAt:              l.now(),
	}
	if err := l.participants.Create(ctx, rec); err != nil {
		return nil, storeErr(err, "participant", "create participant")
	}

	if l.countOnRegister {
		if outcome, err := l.counter.Increment(ctx, rec.CampID); err != nil || outcome != CountApplied {
			l.log.Warn().Err(err).
				Str("camp_id", rec.CampID).
				Str("participant_id", rec.ID).
				Stringer("outcome", outcome).
				Msg("participant counter not incremented")
		}
	}

	if l.events != nil {
		ev := queue.ParticipantRegisteredEvent{
			ParticipantID:    rec.ID,
			CampID:           rec.CampID,
			CampName:         rec.CampName,
			ParticipantName:  rec.ParticipantName,
			ParticipantEmail: rec.ParticipantEmail,
			CampFees:         rec.CampFees,
			RegisteredAt:     rec.CreatedAt.Format(time.RFC3339),
		}
		if err := l.events.PublishRegistered(ctx, ev); err != nil {
			l.log.Warn().Err(err).Str("participant_id", rec.ID).Msg("registered event not published")
		}
	}
	return rec, nil
}

// ListAll returns every registration.  There is no pagination.
func (l *Ledger) ListAll(ctx context.Context) ([]*model.Participant, error) {
	out, err := l.participants.List(ctx)
	if err != nil {
		return nil, storeErr(err, "participant", "list participants")
	}
	return out, nil
}

// ListByEmail returns the registrations whose participantEmail equals email.
func (l *Ledger) ListByEmail(ctx context.Context, email string) ([]*model.Participant, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return nil, validationf("email is required")
	}
	out, err := l.participants.ListByEmail(ctx, email)
	if err != nil {
		return nil, storeErr(err, "participant", "list participants by email")
	}
	return out, nil
}

// Get returns one registration.
func (l *Ledger) Get(ctx context.Context, id string) (*model.Participant, error) {
	rec, err := l.participants.GetByID(ctx, id)
	if err != nil {
		return nil, storeErr(err, "participant", "load participant")
	}
	return rec, nil
}

// UpdateStatus applies p to the registration with the given id and returns
// the updated record.
func (l *Ledger) UpdateStatus(ctx context.Context, id string, p model.StatusPatch) (*model.Participant, error) {
	if strings.TrimSpace(id) == "" {
		return nil, validationf("id is required")
	}
	if err := validateStatusPatch(p); err != nil {
		return nil, err
	}
	if err := l.participants.UpdateByID(ctx, id, p); err != nil {
		return nil, storeErr(err, "participant", "update participant")
	}
	return l.Get(ctx, id)
}

// UpdateStatusByCamp applies p to every registration of campID and returns
// how many matched.  One camp usually has many registrations, so this is a
// bulk operation; it exists for clients of the older match-by-camp update.
func (l *Ledger) UpdateStatusByCamp(ctx context.Context, campID string, p model.StatusPatch) (int64, error) {
	campID = strings.TrimSpace(campID)
	if campID == "" {
		return 0, validationf("campId is required")
	}
	if err := validateStatusPatch(p); err != nil {
		return 0, err
	}
	n, err := l.participants.UpdateByCamp(ctx, campID, p)
	if err != nil {
		return 0, storeErr(err, "participant", "update participants by camp")
	}
	if n == 0 {
		return 0, notFoundf("no participants for camp %s", campID)
	}
	return n, nil
}

// MarkPaid records a successful payment reported by the processor.
func (l *Ledger) MarkPaid(ctx context.Context, id, transactionID string) (*model.Participant, error) {
	paid := model.PaymentPaid
	p := model.StatusPatch{PaymentStatus: &paid}
	if transactionID = strings.TrimSpace(transactionID); transactionID != "" {
		p.TransactionID = &transactionID
	}
	return l.UpdateStatus(ctx, id, p)
}

// Cancel deletes the registration and then removes it from the camp
// counter.  A dangling camp reference does not fail the cancellation, and
// neither does a counter store failure once the record is gone: both are
// reported in the result and logged.
func (l *Ledger) Cancel(ctx context.Context, id string) (*CancelResult, error) {
	if strings.TrimSpace(id) == "" {
		return nil, validationf("id is required")
	}
	rec, err := l.participants.GetByID(ctx, id)
	if err != nil {
		return nil, storeErr(err, "participant", "load participant")
	}
	if err := l.participants.Delete(ctx, id); err != nil {
		// a concurrent cancel may have won the race
		return nil, storeErr(err, "participant", "delete participant")
	}

	outcome, err := l.counter.Decrement(ctx, rec.CampID)
	switch {
	case err != nil:
		l.log.Error().Err(err).
			Str("camp_id", rec.CampID).
			Str("participant_id", rec.ID).
			Msg("participant deleted but counter not decremented")
	case outcome == CountAtFloor:
		l.log.Warn().Str("camp_id", rec.CampID).Msg("participant counter already at zero")
	}

	if l.events != nil {
		ev := queue.ParticipantCancelledEvent{
			ParticipantID:    rec.ID,
			CampID:           rec.CampID,
			ParticipantEmail: rec.ParticipantEmail,
			CounterOutcome:   outcome.String(),
			CancelledAt:      l.now().Format(time.RFC3339),
		}
		if err := l.events.PublishCancelled(ctx, ev); err != nil {
			l.log.Warn().Err(err).Str("participant_id", rec.ID).Msg("cancelled event not published")
		}
	}
	return &CancelResult{Participant: rec, Counter: outcome}, nil
}

// HandlePayment adapts MarkPaid to the payment.succeeded consumer.
func (l *Ledger) HandlePayment(ctx context.Context, ev queue.PaymentSucceededEvent) error {
	_, err := l.MarkPaid(ctx, ev.ParticipantID, ev.TransactionID)
	if errors.Is(err, ErrNotFound) {
		l.log.Warn().Str("participant_id", ev.ParticipantID).Msg("payment for unknown participant")
	}
	return err
}

func validateStatusPatch(p model.StatusPatch) error {
	if p.Empty() {
		return validationf("at least one of paymentStatus, confirmationStatus, transactionId is required")
	}
	if p.PaymentStatus != nil && !model.ValidPaymentStatus(*p.PaymentStatus) {
		return validationf("invalid paymentStatus %q", *p.PaymentStatus)
	}
	if p.ConfirmationStatus != nil && !model.ValidConfirmationStatus(*p.ConfirmationStatus) {
		return validationf("invalid confirmationStatus %q", *p.ConfirmationStatus)
	}
	// Cancelling releases a seat, so it only happens through Cancel.
	if p.ConfirmationStatus != nil && *p.ConfirmationStatus == model.ConfirmationCancelled {
		return validationf("confirmationStatus Cancelled cannot be patched; cancel the registration with DELETE /participants/:id")
	}
	return nil
}

var emailCheck = validator.New()

// validateEmail accepts a bare address only; display-name forms such as
// "Ada <ada@example.com>" are rejected so stored emails stay matchable.
func validateEmail(email, field string) error {
	if email == "" {
		return validationf("%s is required", field)
	}
	if err := emailCheck.Var(email, "email"); err != nil {
		return validationf("%s is not a valid email address", field)
	}
	return nil
}
