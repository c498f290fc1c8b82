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

func TestCreatePartDerivesStatus(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	cases := []struct {
		name     string
		quantity int
		minLevel int
		want     string
	}{
		{"zero stock", 0, 5, model.PartStatusOutOfStock},
		{"at minimum", 5, 5, model.PartStatusLowStock},
		{"just above minimum", 6, 5, model.PartStatusInStock},
	}

	for i, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			part, err := env.parts.CreatePart(ctx, CreatePartRequest{
				Name:            "Probe",
				PartNumber:      "PN-STATUS-" + string(rune('A'+i)),
				QuantityInStock: tc.quantity,
				MinStockLevel:   tc.minLevel,
			})
			require.NoError(t, err)
			assert.Equal(t, tc.want, part.Status)
		})
	}
}

func TestCreatePartAppliesDefaultMinStock(t *testing.T) {
	env := newTestEnv(t)

	part, err := env.parts.CreatePart(context.Background(), CreatePartRequest{
		Name:            "No Min",
		PartNumber:      "PN-NOMIN",
		QuantityInStock: 50,
	})
	require.NoError(t, err)
	assert.Equal(t, model.DefaultMinStockLevel, part.MinStockLevel)
	assert.Equal(t, model.PartStatusInStock, part.Status)
}

func TestCreatePartDuplicateNumber(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.parts.CreatePart(ctx, CreatePartRequest{Name: "A", PartNumber: "PN-DUP"})
	require.NoError(t, err)

	_, err = env.parts.CreatePart(ctx, CreatePartRequest{Name: "B", PartNumber: "PN-DUP"})
	assert.ErrorIs(t, err, repository.ErrDuplicatePartNumber)
}

func TestUpdatePartRecomputesStatus(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	part, err := env.parts.CreatePart(ctx, CreatePartRequest{
		Name:            "Mutable",
		PartNumber:      "PN-MUT",
		QuantityInStock: 20,
		MinStockLevel:   5,
	})
	require.NoError(t, err)
	require.Equal(t, model.PartStatusInStock, part.Status)

	zero := 0
	updated, found, err := env.parts.UpdatePart(ctx, part.ID, UpdatePartRequest{QuantityInStock: &zero})
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, model.PartStatusOutOfStock, updated.Status)

	// Raising the minimum alone can flip the status too.
	min := 30
	qty := 20
	updated, found, err = env.parts.UpdatePart(ctx, part.ID, UpdatePartRequest{
		QuantityInStock: &qty,
		MinStockLevel:   &min,
	})
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, model.PartStatusLowStock, updated.Status)
}

func TestUpdatePartMissingIsSoftMiss(t *testing.T) {
	env := newTestEnv(t)

	res, found, err := env.parts.UpdatePart(context.Background(), "part-missing", UpdatePartRequest{Name: "X"})
	require.NoError(t, err)
	assert.False(t, found)
	assert.Nil(t, res)
}

func TestAdjustStockClampsAtZero(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	part, err := env.parts.CreatePart(ctx, CreatePartRequest{
		Name:            "Drainable",
		PartNumber:      "PN-DRAIN",
		QuantityInStock: 3,
		MinStockLevel:   2,
		CostPerUnit:     decimal.NewFromFloat(4.25),
	})
	require.NoError(t, err)

	adjusted, found, err := env.parts.AdjustStock(ctx, part.ID, -10)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, 0, adjusted.QuantityInStock)
	assert.Equal(t, model.PartStatusOutOfStock, adjusted.Status)

	adjusted, found, err = env.parts.AdjustStock(ctx, part.ID, 8)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, 8, adjusted.QuantityInStock)
	assert.Equal(t, model.PartStatusInStock, adjusted.Status)
}

func TestDeletePart(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	part, err := env.parts.CreatePart(ctx, CreatePartRequest{Name: "Gone", PartNumber: "PN-GONE"})
	require.NoError(t, err)

	deleted, err := env.parts.DeletePart(ctx, part.ID)
	require.NoError(t, err)
	assert.True(t, deleted)

	deleted, err = env.parts.DeletePart(ctx, part.ID)
	require.NoError(t, err)
	assert.False(t, deleted)
}
