package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/datatypes"

	"gentrack/internal/model"
	"gentrack/internal/repository"
)

// DTOs for request validation

type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
	Status   string `json:"status"`
	Phone    string `json:"phone"`
}

// PublicAccount is the account projection handed across the presentation
// boundary. It never carries the password hash.
type PublicAccount struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	Email       string         `json:"email"`
	Role        string         `json:"role"`
	Status      string         `json:"status"`
	Phone       string         `json:"phone"`
	FirstLogin  bool           `json:"first_login"`
	LastLogin   *time.Time     `json:"last_login,omitempty"`
	Permissions datatypes.JSON `json:"permissions,omitempty"`
}

// AuthService owns credential storage, verification and the in-memory
// session for the local single-user desktop run.
type AuthService interface {
	Register(ctx context.Context, req RegisterRequest) (*PublicAccount, error)
	Login(ctx context.Context, email, password string) (*PublicAccount, error)
	CompleteFirstLogin(ctx context.Context, accountID, newName, newEmail, newPassword string) (*PublicAccount, error)
	CurrentAccount() *PublicAccount
	Logout()
}

type authService struct {
	accounts repository.AccountRepository
	audit    AuditService
	logger   *zap.Logger

	mu      sync.RWMutex
	current *PublicAccount

	// bookkeeping tracks best-effort writes (last_login) so shutdown and
	// tests can wait for them.
	bookkeeping sync.WaitGroup
}

// NewAuthService returns a new instance of AuthService
func NewAuthService(accounts repository.AccountRepository, audit AuditService, logger *zap.Logger) AuthService {
	return &authService{accounts: accounts, audit: audit, logger: logger}
}

func toPublicAccount(a *model.Account) *PublicAccount {
	return &PublicAccount{
		ID:          a.ID,
		Name:        a.Name,
		Email:       a.Email,
		Role:        a.Role,
		Status:      a.Status,
		Phone:       a.Phone,
		FirstLogin:  a.FirstLogin,
		LastLogin:   a.LastLogin,
		Permissions: a.Permissions,
	}
}

// HashPassword applies the one-way salted scheme used for every stored
// credential. The work factor is fixed at bcrypt's default cost.
func HashPassword(plain string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hashed), nil
}

func (s *authService) Register(ctx context.Context, req RegisterRequest) (*PublicAccount, error) {
	if req.Name == "" || req.Email == "" || req.Password == "" {
		return nil, errors.New("name, email and password are required")
	}
	if req.Role == "" {
		req.Role = model.RoleClient
	}
	if !model.ValidRole(req.Role) {
		return nil, fmt.Errorf("invalid role %q", req.Role)
	}
	if req.Status == "" {
		req.Status = model.AccountStatusActive
	}

	if _, err := s.accounts.GetByEmail(ctx, req.Email); err == nil {
		return nil, repository.ErrDuplicateEmail
	}

	hash, err := HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	account := &model.Account{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: hash,
		Role:         req.Role,
		Status:       req.Status,
		Phone:        req.Phone,
	}
	if err := s.accounts.Create(ctx, account); err != nil {
		return nil, err
	}

	s.audit.Record(&account.ID, model.ActionRegister, "registered email:"+account.Email)
	return toPublicAccount(account), nil
}

// Login verifies the credentials and installs the account as the current
// session. The last_login update is best-effort: its failure is logged and
// never fails the login itself.
func (s *authService) Login(ctx context.Context, email, password string) (*PublicAccount, error) {
	account, err := s.accounts.GetByEmail(ctx, email)
	if err != nil {
		s.audit.Record(nil, model.ActionLoginFailed, "login rejected email:"+email)
		return nil, repository.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)); err != nil {
		s.audit.Record(nil, model.ActionLoginFailed, "login rejected email:"+email)
		return nil, repository.ErrInvalidCredentials
	}

	now := time.Now()
	s.bookkeeping.Add(1)
	go func() {
		defer s.bookkeeping.Done()
		if err := s.accounts.UpdateLastLogin(context.Background(), account.ID, now); err != nil {
			s.logger.Warn("last_login update failed",
				zap.String("account", account.ID),
				zap.Error(err))
		}
	}()

	public := toPublicAccount(account)
	public.LastLogin = &now

	s.mu.Lock()
	s.current = public
	s.mu.Unlock()

	s.audit.Record(&account.ID, model.ActionLogin, "login email:"+email)
	return public, nil
}

// CompleteFirstLogin rotates the shipped default credentials: rehashes the
// new password, updates name and email, and clears the first_login flag.
func (s *authService) CompleteFirstLogin(ctx context.Context, accountID, newName, newEmail, newPassword string) (*PublicAccount, error) {
	if newName == "" || newEmail == "" || newPassword == "" {
		return nil, errors.New("name, email and password are required")
	}

	account, err := s.accounts.GetByID(ctx, accountID)
	if err != nil {
		return nil, err
	}

	if newEmail != account.Email {
		if _, err := s.accounts.GetByEmail(ctx, newEmail); err == nil {
			return nil, repository.ErrDuplicateEmail
		}
	}

	hash, err := HashPassword(newPassword)
	if err != nil {
		return nil, err
	}

	account.Name = newName
	account.Email = newEmail
	account.PasswordHash = hash
	account.FirstLogin = false
	if err := s.accounts.Save(ctx, account); err != nil {
		return nil, err
	}

	public := toPublicAccount(account)

	s.mu.Lock()
	if s.current != nil && s.current.ID == account.ID {
		s.current = public
	}
	s.mu.Unlock()

	s.audit.Record(&account.ID, model.ActionPasswordRotation, "credentials rotated email:"+newEmail)
	return public, nil
}

// CurrentAccount returns the logged-in account, or nil when no session is
// active. Identity lives in process memory only; there is no token.
func (s *authService) CurrentAccount() *PublicAccount {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

func (s *authService) Logout() {
	s.mu.Lock()
	s.current = nil
	s.mu.Unlock()
}
