package models

import (
	"time"
)

// Audit action constants
const (
	AuditActionProcure       = "procure"
	AuditActionRecordInvoice = "record_invoice"
	AuditActionRecordPayment = "record_payment"
	AuditActionRecordExpense = "record_expense"
	AuditActionCreate        = "create"
	AuditActionUpdate        = "update"
	AuditActionLogin         = "login"
)

// AuditLog records who posted what, from where
type AuditLog struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"index" json:"user_id"`
	Action    string    `gorm:"not null;index" json:"action"`
	Entity    string    `gorm:"not null" json:"entity"`
	EntityID  uint      `json:"entity_id"`
	Details   string    `gorm:"type:text" json:"details"`
	IPAddress string    `json:"ip_address"`
	UserAgent string    `json:"user_agent"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`

	User User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

// TableName specifies the table name for GORM
func (AuditLog) TableName() string {
	return "audit_logs"
}
