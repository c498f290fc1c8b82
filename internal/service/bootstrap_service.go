package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm/clause"

	"gentrack/internal/database"
	"gentrack/internal/model"
	"gentrack/internal/repository"
)

// The two privileged accounts shipped with the application. They are keyed
// by email: an operator-created account that reuses one of these emails is
// never overwritten.
type defaultAccount struct {
	ID       string
	Name     string
	Email    string
	Password string
	Role     string
}

var defaultAccounts = []defaultAccount{
	{
		ID:       "user-default-admin",
		Name:     "System Administrator",
		Email:    "admin@gentrack.local",
		Password: "admin@2024",
		Role:     model.RoleAdmin,
	},
	{
		ID:       "user-default-manager",
		Name:     "Service Manager",
		Email:    "manager@gentrack.local",
		Password: "manager@2024",
		Role:     model.RoleAdmin,
	},
}

// DefaultAccountEmails returns the privileged bootstrap emails. Seeding
// excludes these when deciding whether the store is empty.
func DefaultAccountEmails() []string {
	emails := make([]string, 0, len(defaultAccounts))
	for _, a := range defaultAccounts {
		emails = append(emails, a.Email)
	}
	return emails
}

// BootstrapService guarantees the privileged accounts exist and populates
// demonstration data into an otherwise empty store. Both operations run once
// at startup, EnsureDefaultAccounts first, and are idempotent across
// restarts.
type BootstrapService interface {
	EnsureDefaultAccounts(ctx context.Context) error
	SeedIfEmpty(ctx context.Context) error
}

type bootstrapService struct {
	store    *database.Store
	accounts repository.AccountRepository
	logger   *zap.Logger
}

// NewBootstrapService creates a new BootstrapService instance
func NewBootstrapService(store *database.Store, accounts repository.AccountRepository, logger *zap.Logger) BootstrapService {
	return &bootstrapService{store: store, accounts: accounts, logger: logger}
}

// EnsureDefaultAccounts inserts each missing privileged account with
// first_login set, forcing credential rotation away from the shipped
// password on first use. Present accounts are left untouched. A rotated
// account no longer answers to the shipped email, so the fixed ID is
// checked too: a surviving row under it means the account was provisioned
// and must not be recreated.
func (s *bootstrapService) EnsureDefaultAccounts(ctx context.Context) error {
	for _, def := range defaultAccounts {
		_, err := s.accounts.GetByEmail(ctx, def.Email)
		if err == nil {
			continue
		}
		if !errors.Is(err, repository.ErrNotFound) {
			return fmt.Errorf("lookup default account %s: %w", def.Email, err)
		}

		_, err = s.accounts.GetByID(ctx, def.ID)
		if err == nil {
			continue
		}
		if !errors.Is(err, repository.ErrNotFound) {
			return fmt.Errorf("lookup default account %s: %w", def.ID, err)
		}

		hash, err := HashPassword(def.Password)
		if err != nil {
			return err
		}
		account := &model.Account{
			ID:           def.ID,
			Name:         def.Name,
			Email:        def.Email,
			PasswordHash: hash,
			Role:         def.Role,
			Status:       model.AccountStatusActive,
			FirstLogin:   true,
		}
		if err := s.accounts.Create(ctx, account); err != nil {
			return fmt.Errorf("create default account %s: %w", def.Email, err)
		}
		s.logger.Info("created default account", zap.String("email", def.Email))
	}
	return nil
}

// demoData is the generated demonstration dataset with internally
// consistent foreign keys.
type demoData struct {
	accounts   []model.Account
	generators []model.Generator
	parts      []model.Part
	services   []model.ServiceRecord
}

// SeedIfEmpty populates the demonstration dataset when the store holds no
// accounts beyond the privileged pair. Rows are inserted concurrently in
// dependency order with insert-if-absent semantics keyed on each table's
// natural unique column, so a partially completed seed is safe to re-run.
// A single row failure is logged and does not abort the batch.
func (s *bootstrapService) SeedIfEmpty(ctx context.Context) error {
	count, err := s.accounts.CountExcludingEmails(ctx, DefaultAccountEmails())
	if err != nil {
		return fmt.Errorf("count accounts: %w", err)
	}
	if count > 0 {
		return nil
	}

	data, err := buildDemoData()
	if err != nil {
		return fmt.Errorf("generate demo data: %w", err)
	}

	s.insertBatch(ctx, "account", len(data.accounts), func(i int) error {
		return s.insertIfAbsent(ctx, &data.accounts[i])
	})
	s.insertBatch(ctx, "generator", len(data.generators), func(i int) error {
		return s.insertIfAbsent(ctx, &data.generators[i])
	})
	s.insertBatch(ctx, "part", len(data.parts), func(i int) error {
		return s.insertIfAbsent(ctx, &data.parts[i])
	})
	s.insertBatch(ctx, "service", len(data.services), func(i int) error {
		return s.insertIfAbsent(ctx, &data.services[i])
	})

	s.logger.Info("seeded demonstration data",
		zap.Int("accounts", len(data.accounts)),
		zap.Int("generators", len(data.generators)),
		zap.Int("parts", len(data.parts)),
		zap.Int("services", len(data.services)))
	return nil
}

// insertBatch issues the per-row inserts of one dependency phase
// concurrently and waits for all of them to settle before returning.
func (s *bootstrapService) insertBatch(ctx context.Context, kind string, n int, insert func(i int) error) {
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if err := insert(i); err != nil {
				s.logger.Warn("seed insert failed",
					zap.String("kind", kind),
					zap.Int("row", i),
					zap.Error(err))
			}
		}(i)
	}
	wg.Wait()
}

// insertIfAbsent no-ops when the row's unique constraint is already taken
// instead of failing.
func (s *bootstrapService) insertIfAbsent(ctx context.Context, row any) error {
	return s.store.DB().WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(row).Error
}

func buildDemoData() (*demoData, error) {
	techHash, err := HashPassword("tech@2024")
	if err != nil {
		return nil, err
	}
	clientHash, err := HashPassword("client@2024")
	if err != nil {
		return nil, err
	}

	tech1 := "user-demo-tech-1"
	tech2 := "user-demo-tech-2"
	client1 := "user-demo-client-1"
	client2 := "user-demo-client-2"

	hire1 := time.Date(2021, 3, 15, 0, 0, 0, 0, time.UTC)
	hire2 := time.Date(2022, 8, 1, 0, 0, 0, 0, time.UTC)
	acq1 := time.Date(2020, 6, 10, 0, 0, 0, 0, time.UTC)
	acq2 := time.Date(2022, 1, 25, 0, 0, 0, 0, time.UTC)
	acq3 := time.Date(2023, 4, 3, 0, 0, 0, 0, time.UTC)

	data := &demoData{
		accounts: []model.Account{
			{
				ID: tech1, Name: "Marco Reyes", Email: "marco.reyes@gentrack.local",
				PasswordHash: techHash, Role: model.RoleTechnician,
				Status: model.AccountStatusActive, Phone: "555-0101", HireDate: &hire1,
			},
			{
				ID: tech2, Name: "Dana Okafor", Email: "dana.okafor@gentrack.local",
				PasswordHash: techHash, Role: model.RoleTechnician,
				Status: model.AccountStatusActive, Phone: "555-0102", HireDate: &hire2,
			},
			{
				ID: client1, Name: "Harbor Foods Ltd", Email: "facilities@harborfoods.example",
				PasswordHash: clientHash, Role: model.RoleClient,
				Status: model.AccountStatusActive, Phone: "555-0201",
			},
			{
				ID: client2, Name: "Northway Clinic", Email: "ops@northwayclinic.example",
				PasswordHash: clientHash, Role: model.RoleClient,
				Status: model.AccountStatusActive, Phone: "555-0202",
			},
		},
		generators: []model.Generator{
			{
				ID: "gen-demo-1", Model: "Cummins C150D6", Type: "Diesel",
				SerialNumber: "CMN-150-00417", Location: "Harbor Foods - loading dock",
				AcquisitionDate: &acq1, Cost: decimal.NewFromInt(42500),
				TotalHoursRun: 3120, Status: model.GeneratorStatusOperational,
				ClientID: &client1, AssignedTechID: &tech1,
			},
			{
				ID: "gen-demo-2", Model: "Generac SG080", Type: "Natural Gas",
				SerialNumber: "GNR-080-11230", Location: "Northway Clinic - roof plant",
				AcquisitionDate: &acq2, Cost: decimal.NewFromInt(28900),
				TotalHoursRun: 1240, Status: model.GeneratorStatusOperational,
				ClientID: &client2, AssignedTechID: &tech2,
			},
			{
				ID: "gen-demo-3", Model: "Kohler 20RESCL", Type: "Diesel",
				SerialNumber: "KHL-020-90815", Location: "Harbor Foods - cold storage",
				AcquisitionDate: &acq3, Cost: decimal.NewFromInt(9600),
				TotalHoursRun: 410, Status: model.GeneratorStatusMaintenance,
				ClientID: &client1, AssignedTechID: &tech1,
			},
		},
		parts: []model.Part{
			{
				ID: "part-demo-1", Name: "Oil Filter", PartNumber: "OF-2391",
				QuantityInStock: 24, CostPerUnit: decimal.NewFromFloat(12.50),
				Category: "Filters", MinStockLevel: 10,
			},
			{
				ID: "part-demo-2", Name: "Air Filter", PartNumber: "AF-8805",
				QuantityInStock: 6, CostPerUnit: decimal.NewFromFloat(31.75),
				Category: "Filters", MinStockLevel: 10,
			},
			{
				ID: "part-demo-3", Name: "Spark Plug", PartNumber: "SP-1147",
				QuantityInStock: 0, CostPerUnit: decimal.NewFromFloat(8.20),
				Category: "Ignition", MinStockLevel: 12,
			},
			{
				ID: "part-demo-4", Name: "Coolant Hose", PartNumber: "CH-4420",
				QuantityInStock: 40, CostPerUnit: decimal.NewFromFloat(17.00),
				Category: "Cooling", MinStockLevel: 8,
			},
		},
		services: []model.ServiceRecord{
			{
				ID: "svc-demo-1", GeneratorID: "gen-demo-1",
				ServiceDate: time.Date(2024, 2, 12, 9, 0, 0, 0, time.UTC),
				ServiceType: "Scheduled maintenance", TechnicianID: tech1,
				Status: model.ServiceStatusCompleted, Duration: 3.5,
				ServiceCost: decimal.NewFromFloat(480), WorkOrder: "WO-1042",
				PartsUsed: []model.ServicePart{
					{PartID: strPtr("part-demo-1"), Quantity: 2, Position: 0},
					{PartID: strPtr("part-demo-2"), Quantity: 1, Position: 1},
				},
			},
			{
				ID: "svc-demo-2", GeneratorID: "gen-demo-3",
				ServiceDate: time.Date(2024, 5, 28, 13, 30, 0, 0, time.UTC),
				ServiceType: "Coolant system repair", TechnicianID: tech1,
				Status: model.ServiceStatusScheduled, Duration: 0,
				ServiceCost: decimal.Zero, WorkOrder: "WO-1077",
			},
		},
	}

	for i := range data.parts {
		data.parts[i].RefreshStatus()
	}
	return data, nil
}

func strPtr(s string) *string {
	return &s
}
