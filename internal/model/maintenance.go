package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Service record statuses
const (
	ServiceStatusPending   = "pending"
	ServiceStatusScheduled = "scheduled"
	ServiceStatusCompleted = "completed"
)

// ValidServiceStatus reports whether status is a supported service status.
func ValidServiceStatus(status string) bool {
	return status == ServiceStatusPending || status == ServiceStatusScheduled || status == ServiceStatusCompleted
}

// ServiceRecord represents a maintenance visit against a generator. Both the
// generator and the technician references are required; deleting either row
// cascades to the service record.
type ServiceRecord struct {
	ID           string          `gorm:"type:varchar(64);primaryKey" json:"id"`
	GeneratorID  string          `gorm:"type:varchar(64);not null;index" json:"generator_id"`
	Generator    *Generator      `gorm:"foreignKey:GeneratorID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"generator,omitempty"`
	ServiceDate  time.Time       `gorm:"not null;index" json:"service_date"`
	ServiceType  string          `gorm:"type:varchar(100)" json:"service_type"`
	TechnicianID string          `gorm:"type:varchar(64);not null;index" json:"technician_id"`
	Technician   *Account        `gorm:"foreignKey:TechnicianID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"technician,omitempty"`
	Status       string          `gorm:"type:varchar(50);default:'pending'" json:"status"`
	Duration     float64         `gorm:"default:0" json:"duration"` // Hours
	ServiceCost  decimal.Decimal `gorm:"type:decimal(18,2);default:0" json:"service_cost"`
	WorkOrder    string          `gorm:"type:varchar(100)" json:"work_order"`
	Notes        string          `gorm:"type:text" json:"notes"`
	PartsUsed    []ServicePart   `gorm:"foreignKey:ServiceRecordID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"parts_used"`
	CreatedAt    time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

// BeforeCreate assigns a prefixed id when none was provided
func (s *ServiceRecord) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = "svc-" + uuid.NewString()
	}
	return nil
}

// ServicePart is a line item of parts consumed by a service record, kept in
// the order the technician entered them. The part reference is cleared when
// the part is deleted so the usage history survives.
type ServicePart struct {
	ID              uint    `gorm:"primaryKey;autoIncrement" json:"id"`
	ServiceRecordID string  `gorm:"type:varchar(64);not null;index" json:"service_record_id"`
	PartID          *string `gorm:"type:varchar(64);index" json:"part_id"`
	Part            *Part   `gorm:"foreignKey:PartID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"part,omitempty"`
	Quantity        int     `gorm:"not null" json:"quantity"`
	Position        int     `gorm:"not null;default:0" json:"position"`
}
