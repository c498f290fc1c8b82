package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"gentrack/internal/database"
	"gentrack/internal/model"
)

// ServiceRecordRepository defines the interface for data access of
// ServiceRecord entities and their ordered parts-used line items.
type ServiceRecordRepository interface {
	Create(ctx context.Context, record *model.ServiceRecord) error
	GetByID(ctx context.Context, id string) (*model.ServiceRecord, error)
	List(ctx context.Context) ([]model.ServiceRecord, error)
	ListByGenerator(ctx context.Context, generatorID string) ([]model.ServiceRecord, error)
	Save(ctx context.Context, record *model.ServiceRecord) error
	ReplaceParts(ctx context.Context, recordID string, parts []model.ServicePart) error
	Delete(ctx context.Context, id string) (int64, error)
}

type serviceRecordRepository struct {
	store *database.Store
}

// NewServiceRecordRepository returns a new instance of ServiceRecordRepository
func NewServiceRecordRepository(store *database.Store) ServiceRecordRepository {
	return &serviceRecordRepository{store: store}
}

// orderedParts preloads parts-used rows in the order they were entered.
func orderedParts(db *gorm.DB) *gorm.DB {
	return db.Order("position ASC")
}

func (r *serviceRecordRepository) Create(ctx context.Context, record *model.ServiceRecord) error {
	return r.store.DB().WithContext(ctx).Omit("Generator", "Technician").Create(record).Error
}

func (r *serviceRecordRepository) GetByID(ctx context.Context, id string) (*model.ServiceRecord, error) {
	var record model.ServiceRecord
	err := r.store.DB().WithContext(ctx).
		Preload("Generator").
		Preload("Technician").
		Preload("PartsUsed", orderedParts).
		Preload("PartsUsed.Part").
		First(&record, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &record, nil
}

// List returns all service records with generator and technician rows
// preloaded for the denormalized read view, newest first.
func (r *serviceRecordRepository) List(ctx context.Context) ([]model.ServiceRecord, error) {
	var records []model.ServiceRecord
	err := r.store.DB().WithContext(ctx).
		Preload("Generator").
		Preload("Technician").
		Preload("PartsUsed", orderedParts).
		Preload("PartsUsed.Part").
		Order("service_date DESC").
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}

func (r *serviceRecordRepository) ListByGenerator(ctx context.Context, generatorID string) ([]model.ServiceRecord, error) {
	var records []model.ServiceRecord
	err := r.store.DB().WithContext(ctx).
		Preload("Technician").
		Preload("PartsUsed", orderedParts).
		Where("generator_id = ?", generatorID).
		Order("service_date DESC").
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}

func (r *serviceRecordRepository) Save(ctx context.Context, record *model.ServiceRecord) error {
	return r.store.DB().WithContext(ctx).Omit(clause.Associations).Save(record).Error
}

// ReplaceParts swaps the full parts-used sequence of a record. Positions are
// expected to be assigned by the caller.
func (r *serviceRecordRepository) ReplaceParts(ctx context.Context, recordID string, parts []model.ServicePart) error {
	db := r.store.DB().WithContext(ctx)
	if err := db.Where("service_record_id = ?", recordID).Delete(&model.ServicePart{}).Error; err != nil {
		return err
	}
	if len(parts) == 0 {
		return nil
	}
	for i := range parts {
		parts[i].ServiceRecordID = recordID
	}
	return db.Create(&parts).Error
}

func (r *serviceRecordRepository) Delete(ctx context.Context, id string) (int64, error) {
	res := r.store.DB().WithContext(ctx).Where("id = ?", id).Delete(&model.ServiceRecord{})
	return res.RowsAffected, res.Error
}
