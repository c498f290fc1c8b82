package service

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/datatypes"

	"gentrack/internal/model"
	"gentrack/internal/repository"
)

// --- DTOs ---

type UpdateAccountRequest struct {
	Name        string         `json:"name"`
	Email       string         `json:"email"`
	Phone       string         `json:"phone"`
	Address     string         `json:"address"`
	Role        string         `json:"role"`
	Status      string         `json:"status"`
	Permissions datatypes.JSON `json:"permissions"`
}

// AccountService exposes admin-facing CRUD over accounts. Registration and
// credential changes live on AuthService; this service never touches the
// password hash.
type AccountService interface {
	GetAccount(ctx context.Context, id string) (*PublicAccount, error)
	ListAccounts(ctx context.Context) ([]PublicAccount, error)
	UpdateAccount(ctx context.Context, id string, req UpdateAccountRequest) (*PublicAccount, bool, error)
	DeleteAccount(ctx context.Context, id string) (bool, error)
}

type accountService struct {
	repo  repository.AccountRepository
	audit AuditService
	sess  SessionSource
}

// NewAccountService returns a new instance of AccountService
func NewAccountService(repo repository.AccountRepository, audit AuditService, sess SessionSource) AccountService {
	return &accountService{repo: repo, audit: audit, sess: sess}
}

func (s *accountService) GetAccount(ctx context.Context, id string) (*PublicAccount, error) {
	account, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return toPublicAccount(account), nil
}

func (s *accountService) ListAccounts(ctx context.Context) ([]PublicAccount, error) {
	accounts, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	res := make([]PublicAccount, 0, len(accounts))
	for i := range accounts {
		res = append(res, *toPublicAccount(&accounts[i]))
	}
	return res, nil
}

func (s *accountService) UpdateAccount(ctx context.Context, id string, req UpdateAccountRequest) (*PublicAccount, bool, error) {
	account, err := s.repo.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	if req.Name != "" {
		account.Name = req.Name
	}
	if req.Email != "" && req.Email != account.Email {
		if _, err := s.repo.GetByEmail(ctx, req.Email); err == nil {
			return nil, false, repository.ErrDuplicateEmail
		}
		account.Email = req.Email
	}
	if req.Phone != "" {
		account.Phone = req.Phone
	}
	if req.Address != "" {
		account.Address = req.Address
	}
	if req.Role != "" {
		if !model.ValidRole(req.Role) {
			return nil, false, fmt.Errorf("invalid role %q", req.Role)
		}
		account.Role = req.Role
	}
	if req.Status != "" {
		account.Status = req.Status
	}
	if req.Permissions != nil {
		account.Permissions = req.Permissions
	}

	if err := s.repo.Save(ctx, account); err != nil {
		return nil, false, err
	}

	s.audit.Record(currentUserID(s.sess), model.ActionUpdateAccount, "account "+account.ID)
	return toPublicAccount(account), true, nil
}

// DeleteAccount is a hard delete. Generators referencing the account as
// client or technician get the reference cleared and services performed by
// the account are removed, both at the schema level.
func (s *accountService) DeleteAccount(ctx context.Context, id string) (bool, error) {
	affected, err := s.repo.Delete(ctx, id)
	if err != nil {
		return false, err
	}
	if affected == 0 {
		return false, nil
	}

	s.audit.Record(currentUserID(s.sess), model.ActionDeleteAccount, "account "+id)
	return true, nil
}
