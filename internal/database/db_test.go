package database

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"gentrack/internal/model"
)

func newMemoryStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(MemoryPath, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestOpenCreatesSchema(t *testing.T) {
	s := newMemoryStore(t)

	migrator := s.DB().Migrator()
	for _, table := range []string{
		"accounts", "generators", "service_records", "service_parts", "parts", "audit_entries",
	} {
		assert.True(t, migrator.HasTable(table), "missing table %s", table)
	}
}

func TestEnsureSchemaIdempotent(t *testing.T) {
	s := newMemoryStore(t)

	require.NoError(t, s.EnsureSchema())
	require.NoError(t, s.EnsureSchema())
}

func TestEnsureSchemaAppendsMissingColumn(t *testing.T) {
	s := newMemoryStore(t)

	migrator := s.DB().Migrator()
	require.NoError(t, migrator.DropColumn(&model.Account{}, "Phone"))
	require.False(t, migrator.HasColumn(&model.Account{}, "phone"))

	require.NoError(t, s.EnsureSchema())
	assert.True(t, migrator.HasColumn(&model.Account{}, "phone"))
}

func TestForeignKeysEnforced(t *testing.T) {
	s := newMemoryStore(t)

	record := &model.ServiceRecord{
		GeneratorID:  "gen-missing",
		TechnicianID: "user-missing",
		ServiceDate:  time.Now(),
	}
	err := s.DB().Create(record).Error
	assert.Error(t, err, "insert with dangling references must be rejected")
}

func TestResetClearsData(t *testing.T) {
	s := newMemoryStore(t)

	account := &model.Account{
		Name:         "Reset Probe",
		Email:        "probe@example.test",
		PasswordHash: "x",
		Role:         model.RoleClient,
	}
	require.NoError(t, s.DB().Create(account).Error)

	require.NoError(t, s.Reset())

	var count int64
	require.NoError(t, s.DB().Model(&model.Account{}).Count(&count).Error)
	assert.Zero(t, count)

	// The handle stays usable after a reset.
	require.NoError(t, s.DB().Create(&model.Account{
		Name:         "After Reset",
		Email:        "after@example.test",
		PasswordHash: "x",
		Role:         model.RoleClient,
	}).Error)
}

func TestDefaultPathHonorsOverride(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("GENTRACK_DATA_DIR", dir)

	path, err := DefaultPath()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, storeName), path)
}
