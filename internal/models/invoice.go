package models

import (
	"time"
)

// Invoice is a posted sale to a school, optionally fulfilling part of an LPO.
// The money fields are derived once at posting time and then only AmountPaid
// moves, as linked payments arrive.
type Invoice struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	InvoiceNumber string    `gorm:"not null;uniqueIndex" json:"invoice_number"`
	SchoolID      uint      `gorm:"not null;index" json:"school_id"`
	LPOID         *uint     `gorm:"index" json:"lpo_id,omitempty"`
	InvoiceDate   time.Time `gorm:"type:date;not null;index" json:"invoice_date"`
	DeliveryDate  time.Time `gorm:"type:date" json:"delivery_date"`
	ExtraCost     float64   `gorm:"type:decimal(12,2);default:0" json:"extra_cost"`
	TotalRevenue  float64   `gorm:"type:decimal(15,2);not null" json:"total_revenue"`
	TotalCOGS     float64   `gorm:"type:decimal(15,2);not null" json:"total_cogs"`
	GrossProfit   float64   `gorm:"type:decimal(15,2);not null" json:"gross_profit"`
	MarginPercent float64   `gorm:"type:decimal(6,2);not null" json:"margin_percent"`
	AmountPaid    float64   `gorm:"type:decimal(15,2);default:0" json:"amount_paid"`
	CreatedAt     time.Time `gorm:"index" json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`

	// Associations
	School School        `gorm:"foreignKey:SchoolID" json:"school,omitempty"`
	LPO    *LPO          `gorm:"foreignKey:LPOID" json:"lpo,omitempty"`
	Items  []InvoiceItem `gorm:"foreignKey:InvoiceID" json:"items"`
}

// TableName specifies the table name for GORM
func (Invoice) TableName() string {
	return "invoices"
}

// Outstanding returns the unsettled portion of the invoice
func (i *Invoice) Outstanding() float64 {
	return i.TotalRevenue - i.AmountPaid
}

// IsSettled returns true once payments cover the full invoice value
func (i *Invoice) IsSettled() bool {
	return i.AmountPaid >= i.TotalRevenue
}

// InvoiceItem is one delivered line. CostPrice is captured from the batch at
// invoice time so later procurement does not rewrite historical margins.
// LPOItemID links the line to the ordered LPO line it fulfills.
type InvoiceItem struct {
	ID           uint    `gorm:"primaryKey" json:"id"`
	InvoiceID    uint    `gorm:"not null;index" json:"invoice_id"`
	BatchID      uint    `gorm:"not null;index" json:"batch_id"`
	LPOItemID    *uint   `gorm:"index" json:"lpo_item_id,omitempty"`
	ItemName     string  `gorm:"not null" json:"item_name"`
	Quantity     int     `gorm:"not null" json:"quantity"`
	SellingPrice float64 `gorm:"type:decimal(12,2);not null" json:"selling_price"`
	CostPrice    float64 `gorm:"type:decimal(12,2);not null" json:"cost_price"`
}

// TableName specifies the table name for GORM
func (InvoiceItem) TableName() string {
	return "invoice_items"
}

// LineProfit returns the gross profit contributed by this line
func (i *InvoiceItem) LineProfit() float64 {
	return (i.SellingPrice - i.CostPrice) * float64(i.Quantity)
}

// InvoiceResponse is the JSON response format for invoices
type InvoiceResponse struct {
	ID            uint          `json:"id"`
	InvoiceNumber string        `json:"invoice_number"`
	SchoolID      uint          `json:"school_id"`
	SchoolName    string        `json:"school_name,omitempty"`
	LPOID         *uint         `json:"lpo_id,omitempty"`
	InvoiceDate   time.Time     `json:"invoice_date"`
	DeliveryDate  time.Time     `json:"delivery_date"`
	ExtraCost     float64       `json:"extra_cost"`
	TotalRevenue  float64       `json:"total_revenue"`
	TotalCOGS     float64       `json:"total_cogs"`
	GrossProfit   float64       `json:"gross_profit"`
	MarginPercent float64       `json:"margin_percent"`
	AmountPaid    float64       `json:"amount_paid"`
	Outstanding   float64       `json:"outstanding"`
	Settled       bool          `json:"settled"`
	Items         []InvoiceItem `json:"items"`
}

// ToResponse converts Invoice to InvoiceResponse
func (i *Invoice) ToResponse() InvoiceResponse {
	resp := InvoiceResponse{
		ID:            i.ID,
		InvoiceNumber: i.InvoiceNumber,
		SchoolID:      i.SchoolID,
		LPOID:         i.LPOID,
		InvoiceDate:   i.InvoiceDate,
		DeliveryDate:  i.DeliveryDate,
		ExtraCost:     i.ExtraCost,
		TotalRevenue:  i.TotalRevenue,
		TotalCOGS:     i.TotalCOGS,
		GrossProfit:   i.GrossProfit,
		MarginPercent: i.MarginPercent,
		AmountPaid:    i.AmountPaid,
		Outstanding:   i.Outstanding(),
		Settled:       i.IsSettled(),
		Items:         i.Items,
	}
	if i.School.ID != 0 {
		resp.SchoolName = i.School.Name
	}
	return resp
}
