package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"gentrack/internal/database"
	"gentrack/internal/model"
)

// AccountRepository defines the interface for data access of Account entities
type AccountRepository interface {
	Create(ctx context.Context, account *model.Account) error
	GetByID(ctx context.Context, id string) (*model.Account, error)
	GetByEmail(ctx context.Context, email string) (*model.Account, error)
	List(ctx context.Context) ([]model.Account, error)
	Save(ctx context.Context, account *model.Account) error
	UpdateLastLogin(ctx context.Context, id string, at time.Time) error
	Delete(ctx context.Context, id string) (int64, error)
	CountExcludingEmails(ctx context.Context, emails []string) (int64, error)
}

type accountRepository struct {
	store *database.Store
}

// NewAccountRepository returns a new instance of AccountRepository
func NewAccountRepository(store *database.Store) AccountRepository {
	return &accountRepository{store: store}
}

func (r *accountRepository) Create(ctx context.Context, account *model.Account) error {
	if err := r.store.DB().WithContext(ctx).Create(account).Error; err != nil {
		if isDuplicate(err) {
			return ErrDuplicateEmail
		}
		return err
	}
	return nil
}

func (r *accountRepository) GetByID(ctx context.Context, id string) (*model.Account, error) {
	var account model.Account
	if err := r.store.DB().WithContext(ctx).First(&account, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &account, nil
}

func (r *accountRepository) GetByEmail(ctx context.Context, email string) (*model.Account, error) {
	var account model.Account
	if err := r.store.DB().WithContext(ctx).First(&account, "email = ?", email).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &account, nil
}

func (r *accountRepository) List(ctx context.Context) ([]model.Account, error) {
	var accounts []model.Account
	if err := r.store.DB().WithContext(ctx).Order("name ASC").Find(&accounts).Error; err != nil {
		return nil, err
	}
	return accounts, nil
}

func (r *accountRepository) Save(ctx context.Context, account *model.Account) error {
	if err := r.store.DB().WithContext(ctx).Save(account).Error; err != nil {
		if isDuplicate(err) {
			return ErrDuplicateEmail
		}
		return err
	}
	return nil
}

// UpdateLastLogin touches only the bookkeeping column so a failure here can
// stay best-effort without risking the rest of the row.
func (r *accountRepository) UpdateLastLogin(ctx context.Context, id string, at time.Time) error {
	return r.store.DB().WithContext(ctx).
		Model(&model.Account{}).
		Where("id = ?", id).
		Update("last_login", at).Error
}

func (r *accountRepository) Delete(ctx context.Context, id string) (int64, error) {
	res := r.store.DB().WithContext(ctx).Where("id = ?", id).Delete(&model.Account{})
	return res.RowsAffected, res.Error
}

// CountExcludingEmails counts accounts whose email is not in the given set.
// Used by bootstrap to decide whether the store holds operator data.
func (r *accountRepository) CountExcludingEmails(ctx context.Context, emails []string) (int64, error) {
	var total int64
	q := r.store.DB().WithContext(ctx).Model(&model.Account{})
	if len(emails) > 0 {
		q = q.Where("email NOT IN ?", emails)
	}
	if err := q.Count(&total).Error; err != nil {
		return 0, err
	}
	return total, nil
}
