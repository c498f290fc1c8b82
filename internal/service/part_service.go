package service

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"

	"gentrack/internal/model"
	"gentrack/internal/repository"
)

// SessionSource exposes the current logged-in account to mutating services
// so audit entries can carry the acting user.
type SessionSource interface {
	CurrentAccount() *PublicAccount
}

func currentUserID(sess SessionSource) *string {
	if sess == nil {
		return nil
	}
	if account := sess.CurrentAccount(); account != nil {
		return &account.ID
	}
	return nil
}

// --- DTOs ---

type CreatePartRequest struct {
	Name            string          `json:"name"`
	PartNumber      string          `json:"part_number"`
	QuantityInStock int             `json:"quantity_in_stock"`
	CostPerUnit     decimal.Decimal `json:"cost_per_unit"`
	Category        string          `json:"category"`
	MinStockLevel   int             `json:"min_stock_level"`
}

type UpdatePartRequest struct {
	Name            string           `json:"name"`
	Category        string           `json:"category"`
	QuantityInStock *int             `json:"quantity_in_stock"`
	CostPerUnit     *decimal.Decimal `json:"cost_per_unit"`
	MinStockLevel   *int             `json:"min_stock_level"`
}

type PartResponse struct {
	ID              string          `json:"id"`
	Name            string          `json:"name"`
	PartNumber      string          `json:"part_number"`
	QuantityInStock int             `json:"quantity_in_stock"`
	CostPerUnit     decimal.Decimal `json:"cost_per_unit"`
	Category        string          `json:"category"`
	MinStockLevel   int             `json:"min_stock_level"`
	Status          string          `json:"status"`
}

// PartService exposes CRUD over spare parts. The stock status field is
// derived: it is recomputed on every mutation of the stock quantity and is
// never written independently.
type PartService interface {
	CreatePart(ctx context.Context, req CreatePartRequest) (*PartResponse, error)
	GetPart(ctx context.Context, id string) (*PartResponse, error)
	ListParts(ctx context.Context) ([]PartResponse, error)
	UpdatePart(ctx context.Context, id string, req UpdatePartRequest) (*PartResponse, bool, error)
	AdjustStock(ctx context.Context, id string, delta int) (*PartResponse, bool, error)
	DeletePart(ctx context.Context, id string) (bool, error)
}

type partService struct {
	repo  repository.PartRepository
	audit AuditService
	sess  SessionSource
}

// NewPartService returns a new instance of PartService
func NewPartService(repo repository.PartRepository, audit AuditService, sess SessionSource) PartService {
	return &partService{repo: repo, audit: audit, sess: sess}
}

func toPartResponse(p *model.Part) *PartResponse {
	return &PartResponse{
		ID:              p.ID,
		Name:            p.Name,
		PartNumber:      p.PartNumber,
		QuantityInStock: p.QuantityInStock,
		CostPerUnit:     p.CostPerUnit,
		Category:        p.Category,
		MinStockLevel:   p.MinStockLevel,
		Status:          p.Status,
	}
}

func (s *partService) CreatePart(ctx context.Context, req CreatePartRequest) (*PartResponse, error) {
	if req.Name == "" || req.PartNumber == "" {
		return nil, errors.New("name and part_number are required")
	}
	if req.MinStockLevel <= 0 {
		req.MinStockLevel = model.DefaultMinStockLevel
	}

	part := &model.Part{
		Name:            req.Name,
		PartNumber:      req.PartNumber,
		QuantityInStock: req.QuantityInStock,
		CostPerUnit:     req.CostPerUnit,
		Category:        req.Category,
		MinStockLevel:   req.MinStockLevel,
	}
	part.RefreshStatus()

	if err := s.repo.Create(ctx, part); err != nil {
		return nil, err
	}

	s.audit.Record(currentUserID(s.sess), model.ActionCreatePart, "part "+part.PartNumber)
	return toPartResponse(part), nil
}

func (s *partService) GetPart(ctx context.Context, id string) (*PartResponse, error) {
	part, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return toPartResponse(part), nil
}

func (s *partService) ListParts(ctx context.Context) ([]PartResponse, error) {
	parts, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	res := make([]PartResponse, 0, len(parts))
	for i := range parts {
		res = append(res, *toPartResponse(&parts[i]))
	}
	return res, nil
}

func (s *partService) UpdatePart(ctx context.Context, id string, req UpdatePartRequest) (*PartResponse, bool, error) {
	part, err := s.repo.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	if req.Name != "" {
		part.Name = req.Name
	}
	if req.Category != "" {
		part.Category = req.Category
	}
	if req.QuantityInStock != nil {
		part.QuantityInStock = *req.QuantityInStock
	}
	if req.CostPerUnit != nil {
		part.CostPerUnit = *req.CostPerUnit
	}
	if req.MinStockLevel != nil {
		part.MinStockLevel = *req.MinStockLevel
	}
	part.RefreshStatus()

	if err := s.repo.Save(ctx, part); err != nil {
		return nil, false, err
	}

	s.audit.Record(currentUserID(s.sess), model.ActionUpdatePart, "part "+part.PartNumber)
	return toPartResponse(part), true, nil
}

// AdjustStock applies a delta to the stock quantity and recomputes the
// derived status.
func (s *partService) AdjustStock(ctx context.Context, id string, delta int) (*PartResponse, bool, error) {
	part, err := s.repo.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	part.QuantityInStock += delta
	if part.QuantityInStock < 0 {
		part.QuantityInStock = 0
	}
	part.RefreshStatus()

	if err := s.repo.Save(ctx, part); err != nil {
		return nil, false, err
	}

	s.audit.Record(currentUserID(s.sess), model.ActionUpdatePart, "stock adjusted part "+part.PartNumber)
	return toPartResponse(part), true, nil
}

func (s *partService) DeletePart(ctx context.Context, id string) (bool, error) {
	affected, err := s.repo.Delete(ctx, id)
	if err != nil {
		return false, err
	}
	if affected == 0 {
		return false, nil
	}

	s.audit.Record(currentUserID(s.sess), model.ActionDeletePart, "part "+id)
	return true, nil
}
