package memstore_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/camp-registration/internal/model"
	"github.com/iliyamo/camp-registration/internal/repository"
	"github.com/iliyamo/camp-registration/internal/repository/memstore"
)

func TestAdjustParticipantCount_NeverBelowZero(t *testing.T) {
	ctx := context.Background()
	store := memstore.New()
	c := &model.Camp{CampName: "A", ParticipantCount: 1}
	require.NoError(t, store.Camps.Create(ctx, c))

	require.NoError(t, store.Camps.AdjustParticipantCount(ctx, c.ID, -1))
	err := store.Camps.AdjustParticipantCount(ctx, c.ID, -1)
	assert.ErrorIs(t, err, repository.ErrCountFloor)

	got, err := store.Camps.GetByID(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, got.ParticipantCount)

	assert.ErrorIs(t, store.Camps.AdjustParticipantCount(ctx, "missing", 1), repository.ErrNotFound)
}

func TestGetByID_ReturnsCopy(t *testing.T) {
	ctx := context.Background()
	store := memstore.New()
	c := &model.Camp{CampName: "A"}
	require.NoError(t, store.Camps.Create(ctx, c))

	got, err := store.Camps.GetByID(ctx, c.ID)
	require.NoError(t, err)
	got.CampName = "mutated"

	again, err := store.Camps.GetByID(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, "A", again.CampName)
}

func TestListPopular_OrderAndLimit(t *testing.T) {
	ctx := context.Background()
	store := memstore.New()
	for _, c := range []model.Camp{
		{CampName: "low", ParticipantCount: 1},
		{CampName: "high-first", ParticipantCount: 5},
		{CampName: "high-second", ParticipantCount: 5},
		{CampName: "mid", ParticipantCount: 3},
	} {
		c := c
		require.NoError(t, store.Camps.Create(ctx, &c))
	}

	top, err := store.Camps.ListPopular(ctx, 3)
	require.NoError(t, err)
	names := make([]string, 0, len(top))
	for _, c := range top {
		names = append(names, c.CampName)
	}
	assert.Equal(t, []string{"high-first", "high-second", "mid"}, names)
}

func TestUsers_EmailIsUniqueCaseInsensitive(t *testing.T) {
	ctx := context.Background()
	store := memstore.New()
	require.NoError(t, store.Users.Create(ctx, &model.User{Email: "a@example.com"}))
	assert.ErrorIs(t, store.Users.Create(ctx, &model.User{Email: "A@Example.com"}), repository.ErrDuplicate)

	u, err := store.Users.GetByEmail(ctx, "A@EXAMPLE.COM")
	require.NoError(t, err)
	assert.Equal(t, "a@example.com", u.Email)
}

func TestParticipants_UpdateByCampCountsMatches(t *testing.T) {
	ctx := context.Background()
	store := memstore.New()
	for _, camp := range []string{"c1", "c1", "c2"} {
		require.NoError(t, store.Participants.Create(ctx, &model.Participant{CampID: camp, ParticipantEmail: "p@example.com"}))
	}
	paid := model.PaymentPaid
	n, err := store.Participants.UpdateByCamp(ctx, "c1", model.StatusPatch{PaymentStatus: &paid})
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	n, err = store.Participants.UpdateByCamp(ctx, "c3", model.StatusPatch{PaymentStatus: &paid})
	require.NoError(t, err)
	assert.Zero(t, n)

	assert.ErrorIs(t, store.Participants.Delete(ctx, "missing"), repository.ErrNotFound)
	assert.NoError(t, store.Close(ctx))
}
