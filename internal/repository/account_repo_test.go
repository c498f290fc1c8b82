package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gentrack/internal/model"
)

func TestAccountRepositoryDuplicateEmail(t *testing.T) {
	store := newTestStore(t)
	repo := NewAccountRepository(store)
	ctx := context.Background()

	seedAccount(t, store, "user-a", "taken@example.test", model.RoleClient)

	err := repo.Create(ctx, &model.Account{
		Name:         "Second",
		Email:        "taken@example.test",
		PasswordHash: "x",
		Role:         model.RoleClient,
	})
	assert.ErrorIs(t, err, ErrDuplicateEmail)
}

func TestAccountRepositoryNotFound(t *testing.T) {
	store := newTestStore(t)
	repo := NewAccountRepository(store)
	ctx := context.Background()

	_, err := repo.GetByID(ctx, "user-missing")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = repo.GetByEmail(ctx, "nobody@example.test")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAccountRepositoryUpdateLastLogin(t *testing.T) {
	store := newTestStore(t)
	repo := NewAccountRepository(store)
	ctx := context.Background()

	account := seedAccount(t, store, "user-ll", "ll@example.test", model.RoleAdmin)
	require.Nil(t, account.LastLogin)

	at := time.Date(2024, 7, 1, 8, 30, 0, 0, time.UTC)
	require.NoError(t, repo.UpdateLastLogin(ctx, account.ID, at))

	got, err := repo.GetByID(ctx, account.ID)
	require.NoError(t, err)
	require.NotNil(t, got.LastLogin)
	assert.True(t, got.LastLogin.Equal(at))
}

func TestAccountRepositoryDeleteReportsRows(t *testing.T) {
	store := newTestStore(t)
	repo := NewAccountRepository(store)
	ctx := context.Background()

	account := seedAccount(t, store, "user-del", "del@example.test", model.RoleClient)

	affected, err := repo.Delete(ctx, account.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, affected)

	affected, err = repo.Delete(ctx, account.ID)
	require.NoError(t, err)
	assert.Zero(t, affected)
}

func TestAccountRepositoryCountExcludingEmails(t *testing.T) {
	store := newTestStore(t)
	repo := NewAccountRepository(store)
	ctx := context.Background()

	seedAccount(t, store, "user-x1", "builtin@example.test", model.RoleAdmin)
	seedAccount(t, store, "user-x2", "operator@example.test", model.RoleClient)

	count, err := repo.CountExcludingEmails(ctx, []string{"builtin@example.test"})
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)

	count, err = repo.CountExcludingEmails(ctx, nil)
	require.NoError(t, err)
	assert.EqualValues(t, 2, count)
}
