package service

import (
	"context"
	"regexp"
	"strings"
	"sync"

	"go.uber.org/zap"

	"gentrack/internal/model"
	"gentrack/internal/repository"
)

// Masking patterns for credential-bearing detail strings. Values following a
// "password:" token and the body of a "credentials:{...}" token are replaced
// before the entry is stored.
var (
	passwordPattern    = regexp.MustCompile(`(?i)(password\s*:\s*)\S+`)
	credentialsPattern = regexp.MustCompile(`(?i)(credentials\s*:\s*)\{[^}]*\}`)
)

const redactionMarker = "[REDACTED]"

// AuditEntryResponse is the read projection of one audit row.
type AuditEntryResponse struct {
	ID            string  `json:"id"`
	UserID        *string `json:"user_id"`
	ActionType    string  `json:"action_type"`
	ActionDetails string  `json:"action_details"`
	Timestamp     string  `json:"timestamp"`
}

// AuditService appends security-relevant actions to the audit log. Record is
// fire-and-forget: a failed write is logged locally and never surfaces to
// the operation that triggered it.
type AuditService interface {
	Record(userID *string, actionType, details string)
	List(ctx context.Context, limit int) ([]AuditEntryResponse, error)
	ListByUser(ctx context.Context, userID string, limit int) ([]AuditEntryResponse, error)
	Close()
}

type auditService struct {
	repo   repository.AuditRepository
	logger *zap.Logger
	wg     sync.WaitGroup
}

// NewAuditService creates a new AuditService instance
func NewAuditService(repo repository.AuditRepository, logger *zap.Logger) AuditService {
	return &auditService{repo: repo, logger: logger}
}

// maskDetails redacts credential values when the action type indicates a
// login or password operation.
func maskDetails(actionType, details string) string {
	if !strings.Contains(actionType, "PASSWORD") && !strings.Contains(actionType, "LOGIN") {
		return details
	}
	masked := passwordPattern.ReplaceAllString(details, "${1}"+redactionMarker)
	masked = credentialsPattern.ReplaceAllString(masked, "${1}"+redactionMarker)
	return masked
}

func (s *auditService) Record(userID *string, actionType, details string) {
	entry := &model.AuditEntry{
		UserID:        userID,
		ActionType:    actionType,
		ActionDetails: maskDetails(actionType, details),
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		if err := s.repo.Append(context.Background(), entry); err != nil {
			s.logger.Warn("audit write failed",
				zap.String("action", actionType),
				zap.Error(err))
		}
	}()
}

func (s *auditService) List(ctx context.Context, limit int) ([]AuditEntryResponse, error) {
	entries, err := s.repo.List(ctx, limit)
	if err != nil {
		return nil, err
	}
	return toAuditResponses(entries), nil
}

func (s *auditService) ListByUser(ctx context.Context, userID string, limit int) ([]AuditEntryResponse, error) {
	entries, err := s.repo.ListByUser(ctx, userID, limit)
	if err != nil {
		return nil, err
	}
	return toAuditResponses(entries), nil
}

func toAuditResponses(entries []model.AuditEntry) []AuditEntryResponse {
	res := make([]AuditEntryResponse, 0, len(entries))
	for _, e := range entries {
		res = append(res, AuditEntryResponse{
			ID:            e.ID,
			UserID:        e.UserID,
			ActionType:    e.ActionType,
			ActionDetails: e.ActionDetails,
			Timestamp:     e.Timestamp.Format("2006-01-02 15:04:05"),
		})
	}
	return res
}

// Close waits for in-flight appends to settle. Called on shutdown.
func (s *auditService) Close() {
	s.wg.Wait()
}
