package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"gentrack/internal/database"
	"gentrack/internal/model"
)

// GeneratorRepository defines the interface for data access of Generator entities
type GeneratorRepository interface {
	Create(ctx context.Context, generator *model.Generator) error
	GetByID(ctx context.Context, id string) (*model.Generator, error)
	List(ctx context.Context) ([]model.Generator, error)
	Save(ctx context.Context, generator *model.Generator) error
	Delete(ctx context.Context, id string) (int64, error)
}

type generatorRepository struct {
	store *database.Store
}

// NewGeneratorRepository returns a new instance of GeneratorRepository
func NewGeneratorRepository(store *database.Store) GeneratorRepository {
	return &generatorRepository{store: store}
}

func (r *generatorRepository) Create(ctx context.Context, generator *model.Generator) error {
	if err := r.store.DB().WithContext(ctx).Omit(clause.Associations).Create(generator).Error; err != nil {
		if isDuplicate(err) {
			return ErrDuplicateSerialNumber
		}
		return err
	}
	return nil
}

func (r *generatorRepository) GetByID(ctx context.Context, id string) (*model.Generator, error) {
	var generator model.Generator
	err := r.store.DB().WithContext(ctx).
		Preload("Client").
		Preload("AssignedTech").
		First(&generator, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &generator, nil
}

// List returns all generators with client and technician rows preloaded for
// the denormalized read view.
func (r *generatorRepository) List(ctx context.Context) ([]model.Generator, error) {
	var generators []model.Generator
	err := r.store.DB().WithContext(ctx).
		Preload("Client").
		Preload("AssignedTech").
		Order("serial_number ASC").
		Find(&generators).Error
	if err != nil {
		return nil, err
	}
	return generators, nil
}

func (r *generatorRepository) Save(ctx context.Context, generator *model.Generator) error {
	if err := r.store.DB().WithContext(ctx).Omit(clause.Associations).Save(generator).Error; err != nil {
		if isDuplicate(err) {
			return ErrDuplicateSerialNumber
		}
		return err
	}
	return nil
}

// Delete removes the generator row; its service records go with it via the
// schema-level cascade.
func (r *generatorRepository) Delete(ctx context.Context, id string) (int64, error) {
	res := r.store.DB().WithContext(ctx).Where("id = ?", id).Delete(&model.Generator{})
	return res.RowsAffected, res.Error
}
