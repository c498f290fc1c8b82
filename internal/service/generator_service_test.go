package service

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gentrack/internal/model"
	"gentrack/internal/repository"
)

func TestCreateGeneratorJoinsNames(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	client := env.register(t, "Harbor Foods", "harbor@example.test", "pw", model.RoleClient)
	tech := env.register(t, "Marco Reyes", "marco@example.test", "pw", model.RoleTechnician)

	generator, err := env.generators.CreateGenerator(ctx, CreateGeneratorRequest{
		Model:          "Cummins C150D6",
		Type:           "Diesel",
		SerialNumber:   "SN-JOIN",
		Cost:           decimal.NewFromInt(42500),
		ClientID:       &client.ID,
		AssignedTechID: &tech.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, "Harbor Foods", generator.ClientName)
	assert.Equal(t, "Marco Reyes", generator.TechnicianName)
	assert.Equal(t, model.GeneratorStatusOperational, generator.Status)
}

func TestCreateGeneratorDuplicateSerial(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	env.createGenerator(t, "SN-ONCE")

	_, err := env.generators.CreateGenerator(ctx, CreateGeneratorRequest{
		Model:        "Other",
		SerialNumber: "SN-ONCE",
	})
	assert.ErrorIs(t, err, repository.ErrDuplicateSerialNumber)
}

func TestUpdateGeneratorPartialFields(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	generator := env.createGenerator(t, "SN-PARTIAL")

	hours := 150.5
	updated, found, err := env.generators.UpdateGenerator(ctx, generator.ID, UpdateGeneratorRequest{
		Status:        model.GeneratorStatusMaintenance,
		TotalHoursRun: &hours,
	})
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, model.GeneratorStatusMaintenance, updated.Status)
	assert.Equal(t, hours, updated.TotalHoursRun)
	// Untouched fields survive.
	assert.Equal(t, "Test GenSet", updated.Model)
	assert.Equal(t, "SN-PARTIAL", updated.SerialNumber)
}

func TestUpdateGeneratorMissingIsSoftMiss(t *testing.T) {
	env := newTestEnv(t)

	res, found, err := env.generators.UpdateGenerator(context.Background(), "gen-missing", UpdateGeneratorRequest{
		Status: model.GeneratorStatusRetired,
	})
	require.NoError(t, err)
	assert.False(t, found)
	assert.Nil(t, res)
}

func TestDeleteGenerator(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	generator := env.createGenerator(t, "SN-DEL")

	deleted, err := env.generators.DeleteGenerator(ctx, generator.ID)
	require.NoError(t, err)
	assert.True(t, deleted)

	deleted, err = env.generators.DeleteGenerator(ctx, generator.ID)
	require.NoError(t, err)
	assert.False(t, deleted)

	_, err = env.generators.GetGenerator(ctx, generator.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestGeneratorMutationsAreAudited(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	env.register(t, "Actor", "actor@example.test", "pw", model.RoleAdmin)
	actor, err := env.auth.Login(ctx, "actor@example.test", "pw")
	require.NoError(t, err)

	env.createGenerator(t, "SN-AUDIT")

	entries := env.auditEntries(t)
	var found bool
	for _, e := range entries {
		if e.ActionType == model.ActionCreateGenerator {
			found = true
			require.NotNil(t, e.UserID)
			assert.Equal(t, actor.ID, *e.UserID)
		}
	}
	assert.True(t, found, "expected a generator creation entry")
}
