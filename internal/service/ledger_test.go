package service_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/camp-registration/internal/model"
	"github.com/iliyamo/camp-registration/internal/queue"
	"github.com/iliyamo/camp-registration/internal/service"
)

func validInput(campID string) service.RegisterInput {
	return service.RegisterInput{
		CampID:           campID,
		ParticipantName:  "Ada",
		ParticipantEmail: "ada@example.com",
		Age:              34,
		Phone:            "0123",
		Gender:           "female",
		EmergencyContact: "0456",
	}
}

func TestRegister_AlwaysStartsUnpaidAndPending(t *testing.T) {
	ctx := context.Background()
	store := newStore()
	camp := seedCamp(t, store, "Eye care", 10, 0)
	ledger := service.NewLedger(store.Participants, store.Camps, service.NewCounter(store.Camps))

	in := validInput(camp.ID)
	in.PaymentStatus = model.PaymentPaid
	in.ConfirmationStatus = model.ConfirmationConfirmed

	rec, err := ledger.Register(ctx, in)
	require.NoError(t, err)
	assert.NotEmpty(t, rec.ID)
	assert.Equal(t, model.PaymentUnpaid, rec.PaymentStatus)
	assert.Equal(t, model.ConfirmationPending, rec.ConfirmationStatus)
	assert.Equal(t, "Eye care", rec.CampName)
	assert.Equal(t, 10.0, rec.CampFees)

	stored, err := store.Participants.GetByID(ctx, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, model.PaymentUnpaid, stored.PaymentStatus)
	assert.Equal(t, model.ConfirmationPending, stored.ConfirmationStatus)
}

func TestRegister_RejectsBadInput(t *testing.T) {
	store := newStore()
	camp := seedCamp(t, store, "Dental", 5, 0)
	ledger := service.NewLedger(store.Participants, store.Camps, service.NewCounter(store.Camps))

	tests := []struct {
		name   string
		mutate func(*service.RegisterInput)
		want   error
	}{
		{"missing camp id", func(in *service.RegisterInput) { in.CampID = " " }, service.ErrValidation},
		{"missing email", func(in *service.RegisterInput) { in.ParticipantEmail = "" }, service.ErrValidation},
		{"malformed email", func(in *service.RegisterInput) { in.ParticipantEmail = "not-an-email" }, service.ErrValidation},
		{"negative age", func(in *service.RegisterInput) { in.Age = -1 }, service.ErrValidation},
		{"unknown camp", func(in *service.RegisterInput) { in.CampID = "missing" }, service.ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validInput(camp.ID)
			tt.mutate(&in)
			_, err := ledger.Register(context.Background(), in)
			assert.ErrorIs(t, err, tt.want)
		})
	}

	all, err := ledger.ListAll(context.Background())
	require.NoError(t, err)
	assert.Empty(t, all)
	assert.Equal(t, 0, campCount(t, store, camp.ID))
}

func TestRegister_CounterIncrementIsConfigurable(t *testing.T) {
	ctx := context.Background()

	t.Run("on by default", func(t *testing.T) {
		store := newStore()
		camp := seedCamp(t, store, "A", 1, 3)
		ledger := service.NewLedger(store.Participants, store.Camps, service.NewCounter(store.Camps))
		_, err := ledger.Register(ctx, validInput(camp.ID))
		require.NoError(t, err)
		assert.Equal(t, 4, campCount(t, store, camp.ID))
	})

	t.Run("off", func(t *testing.T) {
		store := newStore()
		camp := seedCamp(t, store, "A", 1, 3)
		ledger := service.NewLedger(store.Participants, store.Camps, service.NewCounter(store.Camps),
			service.WithCountOnRegister(false))
		_, err := ledger.Register(ctx, validInput(camp.ID))
		require.NoError(t, err)
		assert.Equal(t, 3, campCount(t, store, camp.ID))
	})
}

func TestRegister_PublishFailureDoesNotFailRegistration(t *testing.T) {
	store := newStore()
	camp := seedCamp(t, store, "A", 1, 0)
	pub := &fakePublisher{err: errors.New("broker down")}
	ledger := service.NewLedger(store.Participants, store.Camps, service.NewCounter(store.Camps), service.WithEvents(pub))

	rec, err := ledger.Register(context.Background(), validInput(camp.ID))
	require.NoError(t, err)
	require.Len(t, pub.registered, 1)
	assert.Equal(t, rec.ID, pub.registered[0].ParticipantID)
	assert.Equal(t, camp.ID, pub.registered[0].CampID)
}

func TestCancel_UnknownParticipantTouchesNothing(t *testing.T) {
	store := newStore()
	camp := seedCamp(t, store, "A", 1, 5)
	pub := &fakePublisher{}
	ledger := service.NewLedger(store.Participants, store.Camps, service.NewCounter(store.Camps), service.WithEvents(pub))

	_, err := ledger.Cancel(context.Background(), "nope")
	assert.ErrorIs(t, err, service.ErrNotFound)
	assert.Equal(t, 5, campCount(t, store, camp.ID))
	assert.Empty(t, pub.cancelled)
}

func TestCancel_DanglingCampStillSucceeds(t *testing.T) {
	ctx := context.Background()
	store := newStore()
	camp := seedCamp(t, store, "Gone soon", 1, 0)
	other := seedCamp(t, store, "Other", 1, 7)
	ledger := service.NewLedger(store.Participants, store.Camps, service.NewCounter(store.Camps),
		service.WithCountOnRegister(false))

	rec, err := ledger.Register(ctx, validInput(camp.ID))
	require.NoError(t, err)
	require.NoError(t, store.Camps.Delete(ctx, camp.ID))

	res, err := ledger.Cancel(ctx, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, service.CountCampMissing, res.Counter)
	assert.Equal(t, rec.ID, res.Participant.ID)

	_, err = store.Participants.GetByID(ctx, rec.ID)
	assert.Error(t, err)
	assert.Equal(t, 7, campCount(t, store, other.ID))
}

func TestCancel_CountAlreadyZero(t *testing.T) {
	ctx := context.Background()
	store := newStore()
	camp := seedCamp(t, store, "A", 1, 0)
	ledger := service.NewLedger(store.Participants, store.Camps, service.NewCounter(store.Camps),
		service.WithCountOnRegister(false))

	rec, err := ledger.Register(ctx, validInput(camp.ID))
	require.NoError(t, err)

	res, err := ledger.Cancel(ctx, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, service.CountAtFloor, res.Counter)
	assert.Equal(t, 0, campCount(t, store, camp.ID))
}

func TestCancel_PublishesOutcome(t *testing.T) {
	ctx := context.Background()
	store := newStore()
	camp := seedCamp(t, store, "A", 1, 0)
	pub := &fakePublisher{}
	ledger := service.NewLedger(store.Participants, store.Camps, service.NewCounter(store.Camps), service.WithEvents(pub))

	rec, err := ledger.Register(ctx, validInput(camp.ID))
	require.NoError(t, err)
	_, err = ledger.Cancel(ctx, rec.ID)
	require.NoError(t, err)

	require.Len(t, pub.cancelled, 1)
	assert.Equal(t, "applied", pub.cancelled[0].CounterOutcome)
	assert.Equal(t, 0, campCount(t, store, camp.ID))
}

// Register, pay, cancel, cancel again against a camp seeded at 3.
func TestRegisterPayCancelScenario(t *testing.T) {
	ctx := context.Background()
	store := newStore()
	camp := seedCamp(t, store, "Checkup", 10.00, 3)
	counter := service.NewCounter(store.Camps)
	ledger := service.NewLedger(store.Participants, store.Camps, counter, service.WithCountOnRegister(false))
	proc := &fakeProcessor{}
	bridge := service.NewPaymentBridge(store.Camps, proc, "usd")

	p, err := ledger.Register(ctx, validInput(camp.ID))
	require.NoError(t, err)

	secret, err := bridge.CreateIntent(ctx, p.CampID, p.ParticipantEmail)
	require.NoError(t, err)
	assert.Equal(t, "pi_secret_test", secret)
	calls := proc.calls()
	require.Len(t, calls, 1)
	assert.Equal(t, int64(1000), calls[0].Amount)

	_, err = ledger.Cancel(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, campCount(t, store, camp.ID))

	_, err = ledger.Cancel(ctx, p.ID)
	assert.ErrorIs(t, err, service.ErrNotFound)
	assert.Equal(t, 2, campCount(t, store, camp.ID))
}

func TestUpdateStatus(t *testing.T) {
	ctx := context.Background()
	store := newStore()
	camp := seedCamp(t, store, "A", 1, 0)
	ledger := service.NewLedger(store.Participants, store.Camps, service.NewCounter(store.Camps))

	first, err := ledger.Register(ctx, validInput(camp.ID))
	require.NoError(t, err)
	second, err := ledger.Register(ctx, validInput(camp.ID))
	require.NoError(t, err)

	confirmed := model.ConfirmationConfirmed
	got, err := ledger.UpdateStatus(ctx, first.ID, model.StatusPatch{ConfirmationStatus: &confirmed})
	require.NoError(t, err)
	assert.Equal(t, model.ConfirmationConfirmed, got.ConfirmationStatus)

	// only the addressed record changes
	other, err := ledger.Get(ctx, second.ID)
	require.NoError(t, err)
	assert.Equal(t, model.ConfirmationPending, other.ConfirmationStatus)

	bogus := "Maybe"
	_, err = ledger.UpdateStatus(ctx, first.ID, model.StatusPatch{PaymentStatus: &bogus})
	assert.ErrorIs(t, err, service.ErrValidation)

	_, err = ledger.UpdateStatus(ctx, first.ID, model.StatusPatch{})
	assert.ErrorIs(t, err, service.ErrValidation)

	_, err = ledger.UpdateStatus(ctx, "missing", model.StatusPatch{ConfirmationStatus: &confirmed})
	assert.ErrorIs(t, err, service.ErrNotFound)
}

func TestUpdateStatusByCamp(t *testing.T) {
	ctx := context.Background()
	store := newStore()
	camp := seedCamp(t, store, "A", 1, 0)
	other := seedCamp(t, store, "B", 1, 0)
	ledger := service.NewLedger(store.Participants, store.Camps, service.NewCounter(store.Camps))

	for i := 0; i < 2; i++ {
		_, err := ledger.Register(ctx, validInput(camp.ID))
		require.NoError(t, err)
	}
	outsider, err := ledger.Register(ctx, validInput(other.ID))
	require.NoError(t, err)

	confirmed := model.ConfirmationConfirmed
	n, err := ledger.UpdateStatusByCamp(ctx, camp.ID, model.StatusPatch{ConfirmationStatus: &confirmed})
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	got, err := ledger.Get(ctx, outsider.ID)
	require.NoError(t, err)
	assert.Equal(t, model.ConfirmationPending, got.ConfirmationStatus)

	_, err = ledger.UpdateStatusByCamp(ctx, "empty-camp", model.StatusPatch{ConfirmationStatus: &confirmed})
	assert.ErrorIs(t, err, service.ErrNotFound)
}

func TestUpdateStatus_CancelledIsNotPatchable(t *testing.T) {
	ctx := context.Background()
	store := newStore()
	camp := seedCamp(t, store, "A", 1, 0)
	ledger := service.NewLedger(store.Participants, store.Camps, service.NewCounter(store.Camps))

	rec, err := ledger.Register(ctx, validInput(camp.ID))
	require.NoError(t, err)
	require.Equal(t, 1, campCount(t, store, camp.ID))

	cancelled := model.ConfirmationCancelled
	_, err = ledger.UpdateStatus(ctx, rec.ID, model.StatusPatch{ConfirmationStatus: &cancelled})
	assert.ErrorIs(t, err, service.ErrValidation)
	_, err = ledger.UpdateStatusByCamp(ctx, camp.ID, model.StatusPatch{ConfirmationStatus: &cancelled})
	assert.ErrorIs(t, err, service.ErrValidation)

	got, err := ledger.Get(ctx, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, model.ConfirmationPending, got.ConfirmationStatus)
	assert.Equal(t, 1, campCount(t, store, camp.ID))

	// the seat is released through Cancel only
	_, err = ledger.Cancel(ctx, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, campCount(t, store, camp.ID))
}

func TestRegister_RejectsDisplayNameEmail(t *testing.T) {
	ctx := context.Background()
	store := newStore()
	camp := seedCamp(t, store, "A", 1, 0)
	ledger := service.NewLedger(store.Participants, store.Camps, service.NewCounter(store.Camps))

	in := validInput(camp.ID)
	in.ParticipantEmail = "Ada Lovelace <ada@example.com>"
	_, err := ledger.Register(ctx, in)
	assert.ErrorIs(t, err, service.ErrValidation)
	assert.Equal(t, 0, campCount(t, store, camp.ID))
}

func TestMarkPaidFromPaymentEvent(t *testing.T) {
	ctx := context.Background()
	store := newStore()
	camp := seedCamp(t, store, "A", 1, 0)
	ledger := service.NewLedger(store.Participants, store.Camps, service.NewCounter(store.Camps))

	rec, err := ledger.Register(ctx, validInput(camp.ID))
	require.NoError(t, err)

	require.NoError(t, ledger.HandlePayment(ctx, queue.PaymentSucceededEvent{ParticipantID: rec.ID, TransactionID: "pi_123"}))
	got, err := ledger.Get(ctx, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, model.PaymentPaid, got.PaymentStatus)
	assert.Equal(t, "pi_123", got.TransactionID)

	err = ledger.HandlePayment(ctx, queue.PaymentSucceededEvent{ParticipantID: "missing"})
	assert.ErrorIs(t, err, service.ErrNotFound)
}

func TestListByEmail(t *testing.T) {
	ctx := context.Background()
	store := newStore()
	camp := seedCamp(t, store, "A", 1, 0)
	ledger := service.NewLedger(store.Participants, store.Camps, service.NewCounter(store.Camps))

	_, err := ledger.Register(ctx, validInput(camp.ID))
	require.NoError(t, err)
	in := validInput(camp.ID)
	in.ParticipantEmail = "bob@example.com"
	_, err = ledger.Register(ctx, in)
	require.NoError(t, err)

	mine, err := ledger.ListByEmail(ctx, "bob@example.com")
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, "bob@example.com", mine[0].ParticipantEmail)

	_, err = ledger.ListByEmail(ctx, "")
	assert.ErrorIs(t, err, service.ErrValidation)
}

func TestConcurrentCancelsAcrossCamps(t *testing.T) {
	ctx := context.Background()
	store := newStore()
	counter := service.NewCounter(store.Camps)
	ledger := service.NewLedger(store.Participants, store.Camps, counter, service.WithCountOnRegister(false))

	const camps = 8
	ids := make([]string, camps)
	recs := make([]string, camps)
	for i := range ids {
		c := seedCamp(t, store, "camp", 1, 10)
		ids[i] = c.ID
		rec, err := ledger.Register(ctx, validInput(c.ID))
		require.NoError(t, err)
		recs[i] = rec.ID
	}

	var wg sync.WaitGroup
	for _, id := range recs {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			_, err := ledger.Cancel(ctx, id)
			assert.NoError(t, err)
		}(id)
	}
	wg.Wait()

	for _, id := range ids {
		assert.Equal(t, 9, campCount(t, store, id))
	}
}
