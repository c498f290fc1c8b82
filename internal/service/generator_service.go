package service

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"gentrack/internal/model"
	"gentrack/internal/repository"
)

// --- DTOs ---

type CreateGeneratorRequest struct {
	Model           string          `json:"model"`
	Type            string          `json:"type"`
	SerialNumber    string          `json:"serial_number"`
	Location        string          `json:"location"`
	AcquisitionDate *time.Time      `json:"acquisition_date"`
	WarrantyExpiry  *time.Time      `json:"warranty_expiry"`
	Cost            decimal.Decimal `json:"cost"`
	TotalHoursRun   float64         `json:"total_hours_run"`
	Status          string          `json:"status"`
	ClientID        *string         `json:"client_id"`
	AssignedTechID  *string         `json:"assigned_tech_id"`
	Notes           string          `json:"notes"`
}

type UpdateGeneratorRequest struct {
	Model           string           `json:"model"`
	Type            string           `json:"type"`
	Location        string           `json:"location"`
	AcquisitionDate *time.Time       `json:"acquisition_date"`
	WarrantyExpiry  *time.Time       `json:"warranty_expiry"`
	Cost            *decimal.Decimal `json:"cost"`
	TotalHoursRun   *float64         `json:"total_hours_run"`
	Status          string           `json:"status"`
	ClientID        *string          `json:"client_id"`
	AssignedTechID  *string          `json:"assigned_tech_id"`
	Notes           *string          `json:"notes"`
}

// GeneratorResponse is the denormalized read view: the client and assigned
// technician names are joined in for presentation.
type GeneratorResponse struct {
	ID              string          `json:"id"`
	Model           string          `json:"model"`
	Type            string          `json:"type"`
	SerialNumber    string          `json:"serial_number"`
	Location        string          `json:"location"`
	AcquisitionDate *time.Time      `json:"acquisition_date,omitempty"`
	WarrantyExpiry  *time.Time      `json:"warranty_expiry,omitempty"`
	Cost            decimal.Decimal `json:"cost"`
	TotalHoursRun   float64         `json:"total_hours_run"`
	LastServiceDate *time.Time      `json:"last_service_date,omitempty"`
	NextServiceDate *time.Time      `json:"next_service_date,omitempty"`
	Status          string          `json:"status"`
	ClientID        *string         `json:"client_id"`
	ClientName      string          `json:"client_name"`
	AssignedTechID  *string         `json:"assigned_tech_id"`
	TechnicianName  string          `json:"technician_name"`
	Notes           string          `json:"notes"`
}

// GeneratorService exposes CRUD over generator assets.
type GeneratorService interface {
	CreateGenerator(ctx context.Context, req CreateGeneratorRequest) (*GeneratorResponse, error)
	GetGenerator(ctx context.Context, id string) (*GeneratorResponse, error)
	ListGenerators(ctx context.Context) ([]GeneratorResponse, error)
	UpdateGenerator(ctx context.Context, id string, req UpdateGeneratorRequest) (*GeneratorResponse, bool, error)
	DeleteGenerator(ctx context.Context, id string) (bool, error)
}

type generatorService struct {
	repo  repository.GeneratorRepository
	audit AuditService
	sess  SessionSource
}

// NewGeneratorService returns a new instance of GeneratorService
func NewGeneratorService(repo repository.GeneratorRepository, audit AuditService, sess SessionSource) GeneratorService {
	return &generatorService{repo: repo, audit: audit, sess: sess}
}

func toGeneratorResponse(g *model.Generator) *GeneratorResponse {
	res := &GeneratorResponse{
		ID:              g.ID,
		Model:           g.Model,
		Type:            g.Type,
		SerialNumber:    g.SerialNumber,
		Location:        g.Location,
		AcquisitionDate: g.AcquisitionDate,
		WarrantyExpiry:  g.WarrantyExpiry,
		Cost:            g.Cost,
		TotalHoursRun:   g.TotalHoursRun,
		LastServiceDate: g.LastServiceDate,
		NextServiceDate: g.NextServiceDate,
		Status:          g.Status,
		ClientID:        g.ClientID,
		AssignedTechID:  g.AssignedTechID,
		Notes:           g.Notes,
	}
	if g.Client != nil {
		res.ClientName = g.Client.Name
	}
	if g.AssignedTech != nil {
		res.TechnicianName = g.AssignedTech.Name
	}
	return res
}

func (s *generatorService) CreateGenerator(ctx context.Context, req CreateGeneratorRequest) (*GeneratorResponse, error) {
	if req.Model == "" || req.SerialNumber == "" {
		return nil, errors.New("model and serial_number are required")
	}
	if req.Status == "" {
		req.Status = model.GeneratorStatusOperational
	}

	generator := &model.Generator{
		Model:           req.Model,
		Type:            req.Type,
		SerialNumber:    req.SerialNumber,
		Location:        req.Location,
		AcquisitionDate: req.AcquisitionDate,
		WarrantyExpiry:  req.WarrantyExpiry,
		Cost:            req.Cost,
		TotalHoursRun:   req.TotalHoursRun,
		Status:          req.Status,
		ClientID:        req.ClientID,
		AssignedTechID:  req.AssignedTechID,
		Notes:           req.Notes,
	}
	if err := s.repo.Create(ctx, generator); err != nil {
		return nil, err
	}

	s.audit.Record(currentUserID(s.sess), model.ActionCreateGenerator, "generator "+generator.SerialNumber)
	return s.GetGenerator(ctx, generator.ID)
}

func (s *generatorService) GetGenerator(ctx context.Context, id string) (*GeneratorResponse, error) {
	generator, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return toGeneratorResponse(generator), nil
}

func (s *generatorService) ListGenerators(ctx context.Context) ([]GeneratorResponse, error) {
	generators, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	res := make([]GeneratorResponse, 0, len(generators))
	for i := range generators {
		res = append(res, *toGeneratorResponse(&generators[i]))
	}
	return res, nil
}

func (s *generatorService) UpdateGenerator(ctx context.Context, id string, req UpdateGeneratorRequest) (*GeneratorResponse, bool, error) {
	generator, err := s.repo.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	if req.Model != "" {
		generator.Model = req.Model
	}
	if req.Type != "" {
		generator.Type = req.Type
	}
	if req.Location != "" {
		generator.Location = req.Location
	}
	if req.AcquisitionDate != nil {
		generator.AcquisitionDate = req.AcquisitionDate
	}
	if req.WarrantyExpiry != nil {
		generator.WarrantyExpiry = req.WarrantyExpiry
	}
	if req.Cost != nil {
		generator.Cost = *req.Cost
	}
	if req.TotalHoursRun != nil {
		generator.TotalHoursRun = *req.TotalHoursRun
	}
	if req.Status != "" {
		generator.Status = req.Status
	}
	if req.ClientID != nil {
		generator.ClientID = req.ClientID
	}
	if req.AssignedTechID != nil {
		generator.AssignedTechID = req.AssignedTechID
	}
	if req.Notes != nil {
		generator.Notes = *req.Notes
	}

	if err := s.repo.Save(ctx, generator); err != nil {
		return nil, false, err
	}

	s.audit.Record(currentUserID(s.sess), model.ActionUpdateGenerator, "generator "+generator.SerialNumber)

	res, err := s.GetGenerator(ctx, id)
	if err != nil {
		return nil, false, err
	}
	return res, true, nil
}

// DeleteGenerator is a hard delete; service records referencing the
// generator are removed by the schema-level cascade.
func (s *generatorService) DeleteGenerator(ctx context.Context, id string) (bool, error) {
	affected, err := s.repo.Delete(ctx, id)
	if err != nil {
		return false, err
	}
	if affected == 0 {
		return false, nil
	}

	s.audit.Record(currentUserID(s.sess), model.ActionDeleteGenerator, "generator "+id)
	return true, nil
}
