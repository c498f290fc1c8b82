package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Derived part stock statuses
const (
	PartStatusInStock    = "In Stock"
	PartStatusLowStock   = "Low Stock"
	PartStatusOutOfStock = "Out of Stock"
)

// DefaultMinStockLevel is applied when a part is created without an explicit
// minimum stock level.
const DefaultMinStockLevel = 10

// Part represents a spare part held in stock. Status is derived from
// QuantityInStock and MinStockLevel and is never edited independently.
type Part struct {
	ID              string          `gorm:"type:varchar(64);primaryKey" json:"id"`
	Name            string          `gorm:"type:varchar(255);not null" json:"name"`
	PartNumber      string          `gorm:"type:varchar(100);uniqueIndex;not null" json:"part_number"`
	QuantityInStock int             `gorm:"default:0" json:"quantity_in_stock"`
	CostPerUnit     decimal.Decimal `gorm:"type:decimal(18,4);default:0" json:"cost_per_unit"`
	Category        string          `gorm:"type:varchar(100);index" json:"category"`
	MinStockLevel   int             `gorm:"default:10" json:"min_stock_level"`
	Status          string          `gorm:"type:varchar(50)" json:"status"`
	CreatedAt       time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

// BeforeCreate assigns a prefixed id when none was provided
func (p *Part) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = "part-" + uuid.NewString()
	}
	return nil
}

// StockStatus derives the stock status from a quantity and minimum level.
func StockStatus(quantity, minStockLevel int) string {
	switch {
	case quantity <= 0:
		return PartStatusOutOfStock
	case quantity <= minStockLevel:
		return PartStatusLowStock
	default:
		return PartStatusInStock
	}
}

// RefreshStatus recomputes the derived status field from the current stock
// quantity. Called on every stock mutation.
func (p *Part) RefreshStatus() {
	p.Status = StockStatus(p.QuantityInStock, p.MinStockLevel)
}
