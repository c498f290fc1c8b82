package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"gentrack/internal/model"
	"gentrack/internal/repository"
)

// serviceInterval is the span used to project the next service date when a
// record completes.
const serviceInterval = 180 * 24 * time.Hour

// --- DTOs ---

type ServicePartInput struct {
	PartID   string `json:"part_id"`
	Quantity int    `json:"quantity"`
}

type CreateServiceRequest struct {
	GeneratorID  string             `json:"generator_id"`
	ServiceDate  time.Time          `json:"service_date"`
	ServiceType  string             `json:"service_type"`
	TechnicianID string             `json:"technician_id"`
	Status       string             `json:"status"`
	Duration     float64            `json:"duration"`
	ServiceCost  decimal.Decimal    `json:"service_cost"`
	WorkOrder    string             `json:"work_order"`
	Notes        string             `json:"notes"`
	PartsUsed    []ServicePartInput `json:"parts_used"`
}

type UpdateServiceRequest struct {
	ServiceDate *time.Time          `json:"service_date"`
	ServiceType string              `json:"service_type"`
	Status      string              `json:"status"`
	Duration    *float64            `json:"duration"`
	ServiceCost *decimal.Decimal    `json:"service_cost"`
	WorkOrder   string              `json:"work_order"`
	Notes       *string             `json:"notes"`
	PartsUsed   *[]ServicePartInput `json:"parts_used"`
}

type ServicePartResponse struct {
	PartID   *string `json:"part_id"`
	PartName string  `json:"part_name"`
	Quantity int     `json:"quantity"`
}

// ServiceResponse is the denormalized read view: generator and technician
// details are joined in for presentation.
type ServiceResponse struct {
	ID              string                `json:"id"`
	GeneratorID     string                `json:"generator_id"`
	GeneratorModel  string                `json:"generator_model"`
	GeneratorSerial string                `json:"generator_serial"`
	ServiceDate     time.Time             `json:"service_date"`
	ServiceType     string                `json:"service_type"`
	TechnicianID    string                `json:"technician_id"`
	TechnicianName  string                `json:"technician_name"`
	Status          string                `json:"status"`
	Duration        float64               `json:"duration"`
	ServiceCost     decimal.Decimal       `json:"service_cost"`
	WorkOrder       string                `json:"work_order"`
	Notes           string                `json:"notes"`
	PartsUsed       []ServicePartResponse `json:"parts_used"`
}

// MaintenanceService exposes CRUD over service records.
type MaintenanceService interface {
	CreateService(ctx context.Context, req CreateServiceRequest) (*ServiceResponse, error)
	GetService(ctx context.Context, id string) (*ServiceResponse, error)
	ListServices(ctx context.Context) ([]ServiceResponse, error)
	ListServicesByGenerator(ctx context.Context, generatorID string) ([]ServiceResponse, error)
	UpdateService(ctx context.Context, id string, req UpdateServiceRequest) (*ServiceResponse, bool, error)
	CompleteService(ctx context.Context, id string) (*ServiceResponse, bool, error)
	DeleteService(ctx context.Context, id string) (bool, error)
}

type maintenanceService struct {
	records    repository.ServiceRecordRepository
	generators repository.GeneratorRepository
	audit      AuditService
	sess       SessionSource
}

// NewMaintenanceService returns a new instance of MaintenanceService
func NewMaintenanceService(records repository.ServiceRecordRepository, generators repository.GeneratorRepository, audit AuditService, sess SessionSource) MaintenanceService {
	return &maintenanceService{records: records, generators: generators, audit: audit, sess: sess}
}

func toServiceResponse(r *model.ServiceRecord) *ServiceResponse {
	res := &ServiceResponse{
		ID:           r.ID,
		GeneratorID:  r.GeneratorID,
		ServiceDate:  r.ServiceDate,
		ServiceType:  r.ServiceType,
		TechnicianID: r.TechnicianID,
		Status:       r.Status,
		Duration:     r.Duration,
		ServiceCost:  r.ServiceCost,
		WorkOrder:    r.WorkOrder,
		Notes:        r.Notes,
		PartsUsed:    make([]ServicePartResponse, 0, len(r.PartsUsed)),
	}
	if r.Generator != nil {
		res.GeneratorModel = r.Generator.Model
		res.GeneratorSerial = r.Generator.SerialNumber
	}
	if r.Technician != nil {
		res.TechnicianName = r.Technician.Name
	}
	for _, p := range r.PartsUsed {
		line := ServicePartResponse{PartID: p.PartID, Quantity: p.Quantity}
		if p.Part != nil {
			line.PartName = p.Part.Name
		}
		res.PartsUsed = append(res.PartsUsed, line)
	}
	return res
}

func toServiceParts(inputs []ServicePartInput) []model.ServicePart {
	parts := make([]model.ServicePart, 0, len(inputs))
	for i, in := range inputs {
		id := in.PartID
		parts = append(parts, model.ServicePart{
			PartID:   &id,
			Quantity: in.Quantity,
			Position: i,
		})
	}
	return parts
}

func (s *maintenanceService) CreateService(ctx context.Context, req CreateServiceRequest) (*ServiceResponse, error) {
	if req.GeneratorID == "" || req.TechnicianID == "" {
		return nil, errors.New("generator_id and technician_id are required")
	}
	if req.ServiceDate.IsZero() {
		return nil, errors.New("service_date is required")
	}
	if req.Status == "" {
		req.Status = model.ServiceStatusPending
	}
	if !model.ValidServiceStatus(req.Status) {
		return nil, fmt.Errorf("invalid status %q", req.Status)
	}

	record := &model.ServiceRecord{
		GeneratorID:  req.GeneratorID,
		ServiceDate:  req.ServiceDate,
		ServiceType:  req.ServiceType,
		TechnicianID: req.TechnicianID,
		Status:       req.Status,
		Duration:     req.Duration,
		ServiceCost:  req.ServiceCost,
		WorkOrder:    req.WorkOrder,
		Notes:        req.Notes,
		PartsUsed:    toServiceParts(req.PartsUsed),
	}
	if err := s.records.Create(ctx, record); err != nil {
		return nil, err
	}

	s.audit.Record(currentUserID(s.sess), model.ActionCreateService, "service "+record.ID+" generator "+record.GeneratorID)
	return s.GetService(ctx, record.ID)
}

func (s *maintenanceService) GetService(ctx context.Context, id string) (*ServiceResponse, error) {
	record, err := s.records.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return toServiceResponse(record), nil
}

func (s *maintenanceService) ListServices(ctx context.Context) ([]ServiceResponse, error) {
	records, err := s.records.List(ctx)
	if err != nil {
		return nil, err
	}

	res := make([]ServiceResponse, 0, len(records))
	for i := range records {
		res = append(res, *toServiceResponse(&records[i]))
	}
	return res, nil
}

func (s *maintenanceService) ListServicesByGenerator(ctx context.Context, generatorID string) ([]ServiceResponse, error) {
	records, err := s.records.ListByGenerator(ctx, generatorID)
	if err != nil {
		return nil, err
	}

	res := make([]ServiceResponse, 0, len(records))
	for i := range records {
		res = append(res, *toServiceResponse(&records[i]))
	}
	return res, nil
}

func (s *maintenanceService) UpdateService(ctx context.Context, id string, req UpdateServiceRequest) (*ServiceResponse, bool, error) {
	record, err := s.records.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	if req.ServiceDate != nil {
		record.ServiceDate = *req.ServiceDate
	}
	if req.ServiceType != "" {
		record.ServiceType = req.ServiceType
	}
	if req.Status != "" {
		if !model.ValidServiceStatus(req.Status) {
			return nil, false, fmt.Errorf("invalid status %q", req.Status)
		}
		record.Status = req.Status
	}
	if req.Duration != nil {
		record.Duration = *req.Duration
	}
	if req.ServiceCost != nil {
		record.ServiceCost = *req.ServiceCost
	}
	if req.WorkOrder != "" {
		record.WorkOrder = req.WorkOrder
	}
	if req.Notes != nil {
		record.Notes = *req.Notes
	}

	if err := s.records.Save(ctx, record); err != nil {
		return nil, false, err
	}
	if req.PartsUsed != nil {
		if err := s.records.ReplaceParts(ctx, record.ID, toServiceParts(*req.PartsUsed)); err != nil {
			return nil, false, err
		}
	}

	s.audit.Record(currentUserID(s.sess), model.ActionUpdateService, "service "+record.ID)

	res, err := s.GetService(ctx, id)
	if err != nil {
		return nil, false, err
	}
	return res, true, nil
}

// CompleteService marks the record completed and rolls the generator's
// last/next service dates forward.
func (s *maintenanceService) CompleteService(ctx context.Context, id string) (*ServiceResponse, bool, error) {
	record, err := s.records.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	record.Status = model.ServiceStatusCompleted
	if err := s.records.Save(ctx, record); err != nil {
		return nil, false, err
	}

	generator, err := s.generators.GetByID(ctx, record.GeneratorID)
	if err == nil {
		last := record.ServiceDate
		next := last.Add(serviceInterval)
		generator.LastServiceDate = &last
		generator.NextServiceDate = &next
		if err := s.generators.Save(ctx, generator); err != nil {
			return nil, false, err
		}
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, false, err
	}

	s.audit.Record(currentUserID(s.sess), model.ActionUpdateService, "service "+record.ID+" completed")

	res, err := s.GetService(ctx, id)
	if err != nil {
		return nil, false, err
	}
	return res, true, nil
}

func (s *maintenanceService) DeleteService(ctx context.Context, id string) (bool, error) {
	affected, err := s.records.Delete(ctx, id)
	if err != nil {
		return false, err
	}
	if affected == 0 {
		return false, nil
	}

	s.audit.Record(currentUserID(s.sess), model.ActionDeleteService, "service "+id)
	return true, nil
}
