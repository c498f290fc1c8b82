package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"gentrack/internal/database"
	"gentrack/internal/model"
)

// PartRepository defines the interface for data access of Part entities
type PartRepository interface {
	Create(ctx context.Context, part *model.Part) error
	GetByID(ctx context.Context, id string) (*model.Part, error)
	List(ctx context.Context) ([]model.Part, error)
	Save(ctx context.Context, part *model.Part) error
	Delete(ctx context.Context, id string) (int64, error)
}

type partRepository struct {
	store *database.Store
}

// NewPartRepository returns a new instance of PartRepository
func NewPartRepository(store *database.Store) PartRepository {
	return &partRepository{store: store}
}

func (r *partRepository) Create(ctx context.Context, part *model.Part) error {
	if err := r.store.DB().WithContext(ctx).Create(part).Error; err != nil {
		if isDuplicate(err) {
			return ErrDuplicatePartNumber
		}
		return err
	}
	return nil
}

func (r *partRepository) GetByID(ctx context.Context, id string) (*model.Part, error) {
	var part model.Part
	if err := r.store.DB().WithContext(ctx).First(&part, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &part, nil
}

func (r *partRepository) List(ctx context.Context) ([]model.Part, error) {
	var parts []model.Part
	if err := r.store.DB().WithContext(ctx).Order("name ASC").Find(&parts).Error; err != nil {
		return nil, err
	}
	return parts, nil
}

func (r *partRepository) Save(ctx context.Context, part *model.Part) error {
	if err := r.store.DB().WithContext(ctx).Save(part).Error; err != nil {
		if isDuplicate(err) {
			return ErrDuplicatePartNumber
		}
		return err
	}
	return nil
}

func (r *partRepository) Delete(ctx context.Context, id string) (int64, error) {
	res := r.store.DB().WithContext(ctx).Where("id = ?", id).Delete(&model.Part{})
	return res.RowsAffected, res.Error
}
