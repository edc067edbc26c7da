package service_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/iliyamo/camp-registration/internal/model"
	"github.com/iliyamo/camp-registration/internal/payment"
	"github.com/iliyamo/camp-registration/internal/queue"
	"github.com/iliyamo/camp-registration/internal/repository"
	"github.com/iliyamo/camp-registration/internal/repository/memstore"
)

type fakeProcessor struct {
	mu       sync.Mutex
	requests []payment.IntentRequest
	fn       func(req payment.IntentRequest) (string, error)
}

func (f *fakeProcessor) CreateIntent(_ context.Context, req payment.IntentRequest) (string, error) {
	f.mu.Lock()
	f.requests = append(f.requests, req)
	f.mu.Unlock()
	if f.fn != nil {
		return f.fn(req)
	}
	return "pi_secret_test", nil
}

func (f *fakeProcessor) calls() []payment.IntentRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]payment.IntentRequest(nil), f.requests...)
}

type fakePublisher struct {
	mu         sync.Mutex
	registered []queue.ParticipantRegisteredEvent
	cancelled  []queue.ParticipantCancelledEvent
	err        error
}

func (f *fakePublisher) PublishRegistered(_ context.Context, ev queue.ParticipantRegisteredEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.registered = append(f.registered, ev)
	return f.err
}

func (f *fakePublisher) PublishCancelled(_ context.Context, ev queue.ParticipantCancelledEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cancelled = append(f.cancelled, ev)
	return f.err
}

func seedCamp(t *testing.T, store *repository.Store, name string, fees float64, count int) *model.Camp {
	t.Helper()
	c := &model.Camp{CampName: name, CampFees: fees, ParticipantCount: count}
	require.NoError(t, store.Camps.Create(context.Background(), c))
	return c
}

func campCount(t *testing.T, store *repository.Store, id string) int {
	t.Helper()
	c, err := store.Camps.GetByID(context.Background(), id)
	require.NoError(t, err)
	return c.ParticipantCount
}

func newStore() *repository.Store { return memstore.New() }
