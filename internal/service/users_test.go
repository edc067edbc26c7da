package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/camp-registration/internal/model"
	"github.com/iliyamo/camp-registration/internal/service"
	"github.com/iliyamo/camp-registration/internal/utils"
)

func TestUsers_RegisterIsIdempotentByEmail(t *testing.T) {
	ctx := context.Background()
	store := newStore()
	users := service.NewUsers(store.Users, service.NewOrganizers())

	u, created, err := users.Register(ctx, &model.User{UID: "g-1", Name: "Ada", Email: " Ada@Example.com "})
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, "ada@example.com", u.Email)
	assert.Equal(t, model.RoleParticipant, u.Role)

	again, created, err := users.Register(ctx, &model.User{Name: "Someone else", Email: "ada@example.com", Role: model.RoleOrganizer})
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, u.ID, again.ID)
	assert.Equal(t, "Ada", again.Name)
	assert.Equal(t, model.RoleParticipant, again.Role)

	_, _, err = users.Register(ctx, &model.User{Email: "nope"})
	assert.ErrorIs(t, err, service.ErrValidation)
	_, _, err = users.Register(ctx, &model.User{Email: "Ada Lovelace <ada@example.com>"})
	assert.ErrorIs(t, err, service.ErrValidation)

	all, err := users.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)

	_, err = users.GetByEmail(ctx, "ghost@example.com")
	assert.ErrorIs(t, err, service.ErrNotFound)
}

func TestUsers_RoleComesFromOrganizerList(t *testing.T) {
	ctx := context.Background()
	users := service.NewUsers(newStore().Users, service.NewOrganizers(" Org@Example.com ", ""))

	for _, role := range []string{"admin", model.RoleOrganizer, ""} {
		u, _, err := users.Register(ctx, &model.User{Email: role + "x@example.com", Role: role})
		require.NoError(t, err)
		assert.Equal(t, model.RoleParticipant, u.Role, "client role %q", role)
	}

	org, created, err := users.Register(ctx, &model.User{Email: "org@example.com"})
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, model.RoleOrganizer, org.Role)
}

func TestTokens_Issue(t *testing.T) {
	ctx := context.Background()
	store := newStore()
	organizers := service.NewOrganizers("org@example.com")
	users := service.NewUsers(store.Users, organizers)
	_, _, err := users.Register(ctx, &model.User{Email: "org@example.com"})
	require.NoError(t, err)

	tokens := service.NewTokens(store.Users, organizers, "s3cret", 30)
	tok, err := tokens.Issue(ctx, "org@example.com")
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(30*time.Minute), tok.Exp, time.Minute)

	sub, role, err := utils.ParseAccessToken("s3cret", tok.Token)
	require.NoError(t, err)
	assert.Equal(t, "org@example.com", sub)
	assert.Equal(t, model.RoleOrganizer, role)

	_, err = tokens.Issue(ctx, "stranger@example.com")
	assert.ErrorIs(t, err, service.ErrNotFound)
	_, err = tokens.Issue(ctx, "")
	assert.ErrorIs(t, err, service.ErrValidation)
}

func TestTokens_StoredRoleIsNotTrusted(t *testing.T) {
	ctx := context.Background()
	store := newStore()
	// a row written with an elevated role, e.g. before the organizer list changed
	require.NoError(t, store.Users.Create(ctx, &model.User{Email: "old@example.com", Role: model.RoleOrganizer}))

	tokens := service.NewTokens(store.Users, service.NewOrganizers("org@example.com"), "s3cret", 30)
	tok, err := tokens.Issue(ctx, "old@example.com")
	require.NoError(t, err)

	_, role, err := utils.ParseAccessToken("s3cret", tok.Token)
	require.NoError(t, err)
	assert.Equal(t, model.RoleParticipant, role)
}

func TestFeedback_Submit(t *testing.T) {
	ctx := context.Background()
	store := newStore()
	camp := seedCamp(t, store, "A", 1, 0)
	fb := service.NewFeedback(store.Feedback, store.Camps)

	first := &model.Feedback{CampID: camp.ID, ParticipantEmail: "a@example.com", Rating: 5, Comment: " great "}
	require.NoError(t, fb.Submit(ctx, first))
	assert.NotEmpty(t, first.ID)
	assert.Equal(t, "great", first.Comment)
	require.NoError(t, fb.Submit(ctx, &model.Feedback{CampID: camp.ID, ParticipantEmail: "b@example.com", Rating: 3}))

	assert.ErrorIs(t, fb.Submit(ctx, &model.Feedback{CampID: camp.ID, ParticipantEmail: "a@example.com", Rating: 6}), service.ErrValidation)
	assert.ErrorIs(t, fb.Submit(ctx, &model.Feedback{CampID: camp.ID, ParticipantEmail: "a@example.com", Rating: 0}), service.ErrValidation)
	assert.ErrorIs(t, fb.Submit(ctx, &model.Feedback{CampID: "missing", ParticipantEmail: "a@example.com", Rating: 4}), service.ErrNotFound)

	byCamp, err := fb.ListByCamp(ctx, camp.ID)
	require.NoError(t, err)
	require.Len(t, byCamp, 2)
	assert.Equal(t, "b@example.com", byCamp[0].ParticipantEmail, "newest first")

	none, err := fb.ListByCamp(ctx, "other")
	require.NoError(t, err)
	assert.Empty(t, none)
}
