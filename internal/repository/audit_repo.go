package repository

import (
	"context"

	"gentrack/internal/database"
	"gentrack/internal/model"
)

// AuditRepository is the append-only store of audit entries. There is no
// update or delete path on purpose.
type AuditRepository interface {
	Append(ctx context.Context, entry *model.AuditEntry) error
	List(ctx context.Context, limit int) ([]model.AuditEntry, error)
	ListByUser(ctx context.Context, userID string, limit int) ([]model.AuditEntry, error)
}

type auditRepository struct {
	store *database.Store
}

// NewAuditRepository returns a new instance of AuditRepository
func NewAuditRepository(store *database.Store) AuditRepository {
	return &auditRepository{store: store}
}

func (r *auditRepository) Append(ctx context.Context, entry *model.AuditEntry) error {
	return r.store.DB().WithContext(ctx).Create(entry).Error
}

func (r *auditRepository) List(ctx context.Context, limit int) ([]model.AuditEntry, error) {
	var entries []model.AuditEntry
	q := r.store.DB().WithContext(ctx).Order("timestamp DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *auditRepository) ListByUser(ctx context.Context, userID string, limit int) ([]model.AuditEntry, error) {
	var entries []model.AuditEntry
	q := r.store.DB().WithContext(ctx).Where("user_id = ?", userID).Order("timestamp DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}
