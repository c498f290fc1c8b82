package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Generator operational statuses
const (
	GeneratorStatusOperational = "operational"
	GeneratorStatusMaintenance = "maintenance"
	GeneratorStatusRetired     = "retired"
)

// Generator represents a tracked generator asset. Client and assigned
// technician references are cleared (not cascaded) when the account is
// deleted.
type Generator struct {
	ID              string          `gorm:"type:varchar(64);primaryKey" json:"id"`
	Model           string          `gorm:"type:varchar(255);not null" json:"model"`
	Type            string          `gorm:"type:varchar(100)" json:"type"`
	SerialNumber    string          `gorm:"type:varchar(100);uniqueIndex;not null" json:"serial_number"`
	Location        string          `gorm:"type:varchar(255)" json:"location"`
	AcquisitionDate *time.Time      `json:"acquisition_date,omitempty"`
	WarrantyExpiry  *time.Time      `json:"warranty_expiry,omitempty"`
	Cost            decimal.Decimal `gorm:"type:decimal(18,2);default:0" json:"cost"`
	TotalHoursRun   float64         `gorm:"default:0" json:"total_hours_run"`
	LastServiceDate *time.Time      `json:"last_service_date,omitempty"`
	NextServiceDate *time.Time      `json:"next_service_date,omitempty"`
	Status          string          `gorm:"type:varchar(50);default:'operational'" json:"status"`
	ClientID        *string         `gorm:"type:varchar(64);index" json:"client_id"`
	Client          *Account        `gorm:"foreignKey:ClientID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"client,omitempty"`
	AssignedTechID  *string         `gorm:"type:varchar(64);index" json:"assigned_tech_id"`
	AssignedTech    *Account        `gorm:"foreignKey:AssignedTechID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"assigned_tech,omitempty"`
	Notes           string          `gorm:"type:text" json:"notes"`
	CreatedAt       time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

// BeforeCreate assigns a prefixed id when none was provided
func (g *Generator) BeforeCreate(tx *gorm.DB) error {
	if g.ID == "" {
		g.ID = "gen-" + uuid.NewString()
	}
	return nil
}
