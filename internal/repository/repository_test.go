package repository

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"gentrack/internal/database"
	"gentrack/internal/model"
)

func newTestStore(t *testing.T) *database.Store {
	t.Helper()
	store, err := database.Open(database.MemoryPath, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func seedAccount(t *testing.T, store *database.Store, id, email, role string) *model.Account {
	t.Helper()
	account := &model.Account{
		ID:           id,
		Name:         "Fixture " + id,
		Email:        email,
		PasswordHash: "not-a-real-hash",
		Role:         role,
		Status:       model.AccountStatusActive,
	}
	require.NoError(t, NewAccountRepository(store).Create(context.Background(), account))
	return account
}

func seedGenerator(t *testing.T, store *database.Store, id, serial string, clientID, techID *string) *model.Generator {
	t.Helper()
	generator := &model.Generator{
		ID:             id,
		Model:          "Test GenSet",
		Type:           "Diesel",
		SerialNumber:   serial,
		Cost:           decimal.NewFromInt(1000),
		Status:         model.GeneratorStatusOperational,
		ClientID:       clientID,
		AssignedTechID: techID,
	}
	require.NoError(t, NewGeneratorRepository(store).Create(context.Background(), generator))
	return generator
}

func seedService(t *testing.T, store *database.Store, id, generatorID, technicianID string, parts []model.ServicePart) *model.ServiceRecord {
	t.Helper()
	record := &model.ServiceRecord{
		ID:           id,
		GeneratorID:  generatorID,
		TechnicianID: technicianID,
		ServiceDate:  time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC),
		ServiceType:  "Inspection",
		Status:       model.ServiceStatusPending,
		PartsUsed:    parts,
	}
	require.NoError(t, NewServiceRecordRepository(store).Create(context.Background(), record))
	return record
}

func seedPart(t *testing.T, store *database.Store, id, number string) *model.Part {
	t.Helper()
	part := &model.Part{
		ID:              id,
		Name:            "Fixture Part " + id,
		PartNumber:      number,
		QuantityInStock: 5,
		CostPerUnit:     decimal.NewFromFloat(9.99),
		MinStockLevel:   2,
	}
	part.RefreshStatus()
	require.NoError(t, NewPartRepository(store).Create(context.Background(), part))
	return part
}
