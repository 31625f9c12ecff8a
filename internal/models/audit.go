package models

import (
	"time"
)

// Audit actions recorded by the ledger
const (
	AuditActionCreate         = "CREATE"
	AuditActionUpdate         = "UPDATE"
	AuditActionDeactivate     = "DEACTIVATE"
	AuditActionPost           = "POST"
	AuditActionReverse        = "REVERSE"
	AuditActionVoid           = "VOID"
	AuditActionClose          = "CLOSE"
	AuditActionReopen         = "REOPEN"
	AuditActionLock           = "LOCK"
	AuditActionOverrideReopen = "OVERRIDE_REOPEN"
	AuditActionSetCurrent     = "SET_CURRENT"
	AuditActionComplete       = "COMPLETE"
	AuditActionFail           = "FAIL"
)

// AuditLog represents a system audit entry
type AuditLog struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;index" json:"user_id"` // 0 when the caller sent no X-User-ID
	Action    string    `gorm:"size:50;not null;index" json:"action"`
	Entity    string    `gorm:"size:50;not null;index:idx_audit_logs_entity" json:"entity"`
	EntityID  uint      `gorm:"index:idx_audit_logs_entity" json:"entity_id"`
	Details   string    `gorm:"type:text" json:"details"`
	IPAddress string    `gorm:"size:45" json:"ip_address"`
	UserAgent string    `gorm:"size:255" json:"user_agent"`
	RequestID string    `gorm:"size:26" json:"request_id"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
}

// TableName specifies the table name for AuditLog
func (AuditLog) TableName() string {
	return "audit_logs"
}
