package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gentrack/internal/model"
)

func TestGeneratorRepositoryDuplicateSerial(t *testing.T) {
	store := newTestStore(t)
	repo := NewGeneratorRepository(store)
	ctx := context.Background()

	seedGenerator(t, store, "gen-1", "SN-100", nil, nil)

	err := repo.Create(ctx, &model.Generator{
		Model:        "Another",
		SerialNumber: "SN-100",
		Status:       model.GeneratorStatusOperational,
	})
	assert.ErrorIs(t, err, ErrDuplicateSerialNumber)
}

func TestGeneratorRepositoryPreloadsRelations(t *testing.T) {
	store := newTestStore(t)
	repo := NewGeneratorRepository(store)
	ctx := context.Background()

	client := seedAccount(t, store, "user-client", "client@example.test", model.RoleClient)
	tech := seedAccount(t, store, "user-tech", "tech@example.test", model.RoleTechnician)
	seedGenerator(t, store, "gen-rel", "SN-200", &client.ID, &tech.ID)

	got, err := repo.GetByID(ctx, "gen-rel")
	require.NoError(t, err)
	require.NotNil(t, got.Client)
	require.NotNil(t, got.AssignedTech)
	assert.Equal(t, client.Name, got.Client.Name)
	assert.Equal(t, tech.Name, got.AssignedTech.Name)
}

// Deleting a referenced account must clear the generator's reference, not
// remove the generator.
func TestGeneratorClientDeleteSetsNull(t *testing.T) {
	store := newTestStore(t)
	accounts := NewAccountRepository(store)
	generators := NewGeneratorRepository(store)
	ctx := context.Background()

	client := seedAccount(t, store, "user-gone", "gone@example.test", model.RoleClient)
	seedGenerator(t, store, "gen-orphan", "SN-300", &client.ID, nil)

	_, err := accounts.Delete(ctx, client.ID)
	require.NoError(t, err)

	got, err := generators.GetByID(ctx, "gen-orphan")
	require.NoError(t, err)
	assert.Nil(t, got.ClientID)
}

// Deleting a generator takes its service history with it.
func TestGeneratorDeleteCascadesServices(t *testing.T) {
	store := newTestStore(t)
	generators := NewGeneratorRepository(store)
	services := NewServiceRecordRepository(store)
	ctx := context.Background()

	tech := seedAccount(t, store, "user-tech-c", "techc@example.test", model.RoleTechnician)
	seedGenerator(t, store, "gen-doomed", "SN-400", nil, &tech.ID)
	seedService(t, store, "svc-doomed", "gen-doomed", tech.ID, nil)

	affected, err := generators.Delete(ctx, "gen-doomed")
	require.NoError(t, err)
	require.EqualValues(t, 1, affected)

	_, err = services.GetByID(ctx, "svc-doomed")
	assert.ErrorIs(t, err, ErrNotFound)
}

// Deleting a technician account removes the services they performed.
func TestTechnicianDeleteCascadesServices(t *testing.T) {
	store := newTestStore(t)
	accounts := NewAccountRepository(store)
	services := NewServiceRecordRepository(store)
	ctx := context.Background()

	tech := seedAccount(t, store, "user-tech-d", "techd@example.test", model.RoleTechnician)
	seedGenerator(t, store, "gen-keep", "SN-500", nil, nil)
	seedService(t, store, "svc-bytech", "gen-keep", tech.ID, nil)

	_, err := accounts.Delete(ctx, tech.ID)
	require.NoError(t, err)

	_, err = services.GetByID(ctx, "svc-bytech")
	assert.ErrorIs(t, err, ErrNotFound)
}
