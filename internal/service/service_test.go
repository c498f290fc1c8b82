package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"gentrack/internal/database"
	"gentrack/internal/model"
	"gentrack/internal/repository"
)

// testEnv wires the full service layer over a throwaway in-memory store.
type testEnv struct {
	store *database.Store

	accountRepo   repository.AccountRepository
	generatorRepo repository.GeneratorRepository
	serviceRepo   repository.ServiceRecordRepository
	partRepo      repository.PartRepository
	auditRepo     repository.AuditRepository

	audit       AuditService
	auth        AuthService
	accounts    AccountService
	generators  GeneratorService
	maintenance MaintenanceService
	parts       PartService
	bootstrap   BootstrapService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	store, err := database.Open(database.MemoryPath, zap.NewNop())
	require.NoError(t, err)

	env := &testEnv{store: store}
	env.accountRepo = repository.NewAccountRepository(store)
	env.generatorRepo = repository.NewGeneratorRepository(store)
	env.serviceRepo = repository.NewServiceRecordRepository(store)
	env.partRepo = repository.NewPartRepository(store)
	env.auditRepo = repository.NewAuditRepository(store)

	env.audit = NewAuditService(env.auditRepo, zap.NewNop())
	env.auth = NewAuthService(env.accountRepo, env.audit, zap.NewNop())
	env.accounts = NewAccountService(env.accountRepo, env.audit, env.auth)
	env.generators = NewGeneratorService(env.generatorRepo, env.audit, env.auth)
	env.maintenance = NewMaintenanceService(env.serviceRepo, env.generatorRepo, env.audit, env.auth)
	env.parts = NewPartService(env.partRepo, env.audit, env.auth)
	env.bootstrap = NewBootstrapService(store, env.accountRepo, zap.NewNop())

	t.Cleanup(func() {
		env.audit.Close()
		_ = store.Close()
	})
	return env
}

// settle waits for the fire-and-forget bookkeeping spawned by logins and
// audit records.
func (e *testEnv) settle() {
	e.auth.(*authService).bookkeeping.Wait()
	e.audit.(*auditService).wg.Wait()
}

func (e *testEnv) register(t *testing.T, name, email, password, role string) *PublicAccount {
	t.Helper()
	account, err := e.auth.Register(context.Background(), RegisterRequest{
		Name:     name,
		Email:    email,
		Password: password,
		Role:     role,
	})
	require.NoError(t, err)
	return account
}

func (e *testEnv) createGenerator(t *testing.T, serial string) *GeneratorResponse {
	t.Helper()
	generator, err := e.generators.CreateGenerator(context.Background(), CreateGeneratorRequest{
		Model:        "Test GenSet",
		Type:         "Diesel",
		SerialNumber: serial,
	})
	require.NoError(t, err)
	return generator
}

func (e *testEnv) auditEntries(t *testing.T) []model.AuditEntry {
	t.Helper()
	e.settle()
	entries, err := e.auditRepo.List(context.Background(), 0)
	require.NoError(t, err)
	return entries
}
