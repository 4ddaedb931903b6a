package models

import (
	"time"
)

// LPO status constants
const (
	LPOStatusPending   = "pending"
	LPOStatusPartial   = "partial"
	LPOStatusCompleted = "completed"
)

// LPO is a Local Purchase Order: a school-issued commitment to buy specified
// item quantities, fulfilled incrementally across one or more invoices.
type LPO struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	SchoolID     uint      `gorm:"not null;index" json:"school_id"`
	LPONumber    string    `gorm:"not null;uniqueIndex" json:"lpo_number"`
	DateReceived time.Time `gorm:"type:date;not null" json:"date_received"`
	Status       string    `gorm:"default:pending;not null;index" json:"status"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	// Associations
	School School    `gorm:"foreignKey:SchoolID" json:"school,omitempty"`
	Items  []LPOItem `gorm:"foreignKey:LPOID" json:"items"`
}

// TableName specifies the table name for GORM
func (LPO) TableName() string {
	return "lpos"
}

// LPOItem is one ordered line of an LPO. QuantityDelivered accumulates
// monotonically as invoices are posted against the order.
type LPOItem struct {
	ID                uint   `gorm:"primaryKey" json:"id"`
	LPOID             uint   `gorm:"not null;index" json:"lpo_id"`
	ItemName          string `gorm:"not null" json:"item_name"`
	QuantityOrdered   int    `gorm:"not null" json:"quantity_ordered"`
	QuantityDelivered int    `gorm:"not null;default:0" json:"quantity_delivered"`
}

// TableName specifies the table name for GORM
func (LPOItem) TableName() string {
	return "lpo_items"
}

// IsFulfilled returns true once the delivered quantity covers the order
func (i *LPOItem) IsFulfilled() bool {
	return i.QuantityDelivered >= i.QuantityOrdered
}

// LPOResponse is the JSON response format for purchase orders
type LPOResponse struct {
	ID           uint      `json:"id"`
	SchoolID     uint      `json:"school_id"`
	SchoolName   string    `json:"school_name,omitempty"`
	LPONumber    string    `json:"lpo_number"`
	DateReceived time.Time `json:"date_received"`
	Status       string    `json:"status"`
	Items        []LPOItem `json:"items"`
}

// ToResponse converts LPO to LPOResponse
func (l *LPO) ToResponse() LPOResponse {
	resp := LPOResponse{
		ID:           l.ID,
		SchoolID:     l.SchoolID,
		LPONumber:    l.LPONumber,
		DateReceived: l.DateReceived,
		Status:       l.Status,
		Items:        l.Items,
	}
	if l.School.ID != 0 {
		resp.SchoolName = l.School.Name
	}
	return resp
}
