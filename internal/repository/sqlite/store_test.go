package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperr "github.com/baharkarakas/recipe-api/internal/errors"
	"github.com/baharkarakas/recipe-api/internal/logger"
	"github.com/baharkarakas/recipe-api/internal/models"
	"github.com/baharkarakas/recipe-api/internal/repository"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "test.db"), logger.Discard())
	require.NoError(t, err)
	t.Cleanup(s.Close)
	return s
}

func makeUser(t *testing.T, s *Store, email string) models.User {
	t.Helper()
	u, err := s.Repos().Users.Create(context.Background(), models.User{
		Email:        email,
		PasswordHash: "hash",
		IsActive:     true,
	})
	require.NoError(t, err)
	return u
}

func TestOpenIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "twice.db")
	s, err := Open(path, logger.Discard())
	require.NoError(t, err)
	s.Close()

	s, err = Open(path, logger.Discard())
	require.NoError(t, err)
	defer s.Close()
	assert.NoError(t, s.Ping(context.Background()))
}

func TestWithTxRollsBack(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	u := makeUser(t, s, "tx@example.com")

	boom := errors.New("boom")
	err := s.WithTx(ctx, func(r repository.Repositories) error {
		if _, err := r.Tags.Create(ctx, u.ID, "Vegan"); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	tags, err := s.Repos().Tags.List(ctx, u.ID)
	require.NoError(t, err)
	assert.Empty(t, tags)
}

func TestWithTxCommits(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	u := makeUser(t, s, "commit@example.com")

	require.NoError(t, s.WithTx(ctx, func(r repository.Repositories) error {
		_, err := r.Tags.Create(ctx, u.ID, "Vegan")
		return err
	}))

	tags, err := s.Repos().Tags.List(ctx, u.ID)
	require.NoError(t, err)
	assert.Len(t, tags, 1)
}

func TestUsers(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	users := s.Repos().Users

	u := makeUser(t, s, "user@example.com")
	assert.NotZero(t, u.ID)
	assert.True(t, u.IsActive)
	assert.False(t, u.CreatedAt.IsZero())
	assert.Nil(t, u.LastLogin)

	_, err := users.Create(ctx, models.User{Email: "user@example.com", PasswordHash: "x"})
	assert.True(t, apperr.Is(err, apperr.ErrAlreadyExists))

	got, err := users.GetByEmail(ctx, "user@example.com")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	_, err = users.GetByEmail(ctx, "nobody@example.com")
	assert.True(t, apperr.Is(err, apperr.ErrNotFound))

	got.Name = "Renamed"
	got.IsStaff = true
	require.NoError(t, users.Update(ctx, got))
	got, err = users.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", got.Name)
	assert.True(t, got.IsStaff)

	now := got.CreatedAt.Add(1)
	require.NoError(t, users.TouchLastLogin(ctx, u.ID, now))
	got, err = users.GetByID(ctx, u.ID)
	require.NoError(t, err)
	require.NotNil(t, got.LastLogin)
	assert.True(t, now.Equal(*got.LastLogin))

	all, err := users.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestUserDeleteCascades(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	owner := makeUser(t, s, "owner@example.com")
	other := makeUser(t, s, "other@example.com")

	repos := s.Repos()
	tag, err := repos.Tags.Create(ctx, owner.ID, "Vegan")
	require.NoError(t, err)
	rc, err := repos.Recipes.Create(ctx, models.Recipe{UserID: owner.ID, Title: "Soup", Price: 100})
	require.NoError(t, err)
	require.NoError(t, repos.Recipes.SetTags(ctx, rc.ID, []int64{tag.ID}))
	otherTag, err := repos.Tags.Create(ctx, other.ID, "Vegan")
	require.NoError(t, err)

	require.NoError(t, s.WithTx(ctx, func(r repository.Repositories) error {
		return r.Users.Delete(ctx, owner.ID)
	}))

	_, err = repos.Users.GetByID(ctx, owner.ID)
	assert.True(t, apperr.Is(err, apperr.ErrNotFound))
	_, err = repos.Tags.Get(ctx, owner.ID, tag.ID)
	assert.True(t, apperr.Is(err, apperr.ErrNotFound))
	_, err = repos.Recipes.Get(ctx, owner.ID, rc.ID)
	assert.True(t, apperr.Is(err, apperr.ErrNotFound))

	kept, err := repos.Tags.Get(ctx, other.ID, otherTag.ID)
	require.NoError(t, err)
	assert.Equal(t, "Vegan", kept.Name)

	assert.True(t, apperr.Is(repos.Users.Delete(ctx, owner.ID), apperr.ErrNotFound))
}
