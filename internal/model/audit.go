package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Security-relevant action types recorded in the audit log
const (
	ActionLogin            = "LOGIN"
	ActionLoginFailed      = "LOGIN_FAILED"
	ActionRegister         = "REGISTER"
	ActionPasswordRotation = "PASSWORD_ROTATION"
	ActionCreateAccount    = "CREATE_ACCOUNT"
	ActionUpdateAccount    = "UPDATE_ACCOUNT"
	ActionDeleteAccount    = "DELETE_ACCOUNT"
	ActionCreateGenerator  = "CREATE_GENERATOR"
	ActionUpdateGenerator  = "UPDATE_GENERATOR"
	ActionDeleteGenerator  = "DELETE_GENERATOR"
	ActionCreateService    = "CREATE_SERVICE"
	ActionUpdateService    = "UPDATE_SERVICE"
	ActionDeleteService    = "DELETE_SERVICE"
	ActionCreatePart       = "CREATE_PART"
	ActionUpdatePart       = "UPDATE_PART"
	ActionDeletePart       = "DELETE_PART"
	ActionFactoryReset     = "FACTORY_RESET"
)

// AuditEntry is an append-only record of a security-relevant action. The
// application never updates or deletes rows in this table. UserID is a weak
// reference: it survives deletion of the account it points at.
type AuditEntry struct {
	ID            string    `gorm:"type:varchar(64);primaryKey" json:"id"`
	UserID        *string   `gorm:"type:varchar(64);index" json:"user_id"`
	ActionType    string    `gorm:"type:varchar(100);not null" json:"action_type"`
	ActionDetails string    `gorm:"type:text" json:"action_details"`
	Timestamp     time.Time `gorm:"autoCreateTime;index" json:"timestamp"`
}

// BeforeCreate assigns a prefixed id when none was provided
func (e *AuditEntry) BeforeCreate(tx *gorm.DB) error {
	if e.ID == "" {
		e.ID = "audit-" + uuid.NewString()
	}
	return nil
}
