package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Account roles
const (
	RoleAdmin      = "admin"
	RoleTechnician = "technician"
	RoleClient     = "client"
)

// Account statuses
const (
	AccountStatusActive   = "active"
	AccountStatusInactive = "inactive"
)

// Account represents any system user: admin, technician or client
type Account struct {
	ID           string         `gorm:"type:varchar(64);primaryKey" json:"id"`
	Name         string         `gorm:"type:varchar(255);not null" json:"name"`
	Email        string         `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	PasswordHash string         `gorm:"type:varchar(255);not null" json:"-"` // Never serialized
	Role         string         `gorm:"type:varchar(50);not null;index" json:"role"`
	Status       string         `gorm:"type:varchar(20);not null;default:'active'" json:"status"`
	Phone        string         `gorm:"type:varchar(20)" json:"phone"`
	Address      string         `gorm:"type:text" json:"address"`
	HireDate     *time.Time     `json:"hire_date,omitempty"`
	LastLogin    *time.Time     `json:"last_login,omitempty"`
	FirstLogin   bool           `gorm:"default:false" json:"first_login"`
	Permissions  datatypes.JSON `gorm:"type:json" json:"permissions,omitempty"` // Opaque blob owned by the UI
	CreatedAt    time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
}

// BeforeCreate assigns a prefixed id when none was provided
func (a *Account) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = "user-" + uuid.NewString()
	}
	return nil
}

// ValidRole reports whether role is one of the supported account roles.
func ValidRole(role string) bool {
	return role == RoleAdmin || role == RoleTechnician || role == RoleClient
}
