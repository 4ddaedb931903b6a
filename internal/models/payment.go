package models

import (
	"time"
)

// Payment method constants
const (
	PaymentMethodCheque   = "cheque"
	PaymentMethodCash     = "cash"
	PaymentMethodTransfer = "bank_transfer"
	PaymentMethodMobile   = "mobile_money"
)

// Payment is money received from a school. InvoiceID is nil for a general
// settlement that could not be attributed to a specific open invoice.
type Payment struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	SchoolID    uint       `gorm:"not null;index" json:"school_id"`
	InvoiceID   *uint      `gorm:"index" json:"invoice_id,omitempty"`
	Amount      float64    `gorm:"type:decimal(15,2);not null" json:"amount"`
	Method      string     `gorm:"default:cheque;not null" json:"method"`
	Reference   string     `json:"reference"`
	BankName    string     `json:"bank_name,omitempty"`
	ChequeDate  *time.Time `gorm:"type:date" json:"cheque_date,omitempty"`
	PaymentDate time.Time  `gorm:"type:date;not null;index" json:"payment_date"`
	ReceiptPath *string    `json:"-"` // uploaded cheque/receipt scan
	CreatedAt   time.Time  `gorm:"index" json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`

	// Associations
	School  School   `gorm:"foreignKey:SchoolID" json:"school,omitempty"`
	Invoice *Invoice `gorm:"foreignKey:InvoiceID" json:"invoice,omitempty"`
}

// TableName specifies the table name for GORM
func (Payment) TableName() string {
	return "payments"
}

// PaymentResponse is the JSON response format for payments
type PaymentResponse struct {
	ID            uint       `json:"id"`
	SchoolID      uint       `json:"school_id"`
	SchoolName    string     `json:"school_name,omitempty"`
	InvoiceID     *uint      `json:"invoice_id,omitempty"`
	InvoiceNumber string     `json:"invoice_number,omitempty"`
	Amount        float64    `json:"amount"`
	Method        string     `json:"method"`
	Reference     string     `json:"reference"`
	BankName      string     `json:"bank_name,omitempty"`
	ChequeDate    *time.Time `json:"cheque_date,omitempty"`
	PaymentDate   time.Time  `json:"payment_date"`
	HasReceipt    bool       `json:"has_receipt"`
}

// ToResponse converts Payment to PaymentResponse
func (p *Payment) ToResponse() PaymentResponse {
	resp := PaymentResponse{
		ID:          p.ID,
		SchoolID:    p.SchoolID,
		InvoiceID:   p.InvoiceID,
		Amount:      p.Amount,
		Method:      p.Method,
		Reference:   p.Reference,
		BankName:    p.BankName,
		ChequeDate:  p.ChequeDate,
		PaymentDate: p.PaymentDate,
		HasReceipt:  p.ReceiptPath != nil && *p.ReceiptPath != "",
	}
	if p.School.ID != 0 {
		resp.SchoolName = p.School.Name
	}
	if p.Invoice != nil && p.Invoice.ID != 0 {
		resp.InvoiceNumber = p.Invoice.InvoiceNumber
	}
	return resp
}
