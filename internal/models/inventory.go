package models

import (
	"time"
)

// InventoryBatch is a discrete procurement lot of one item, tracked separately
// from other lots of the same item for costing purposes.
type InventoryBatch struct {
	ID               uint    `gorm:"primaryKey" json:"id"`
	ItemName         string  `gorm:"not null;index" json:"item_name"`
	Size             string  `json:"size"`
	Supplier         string  `json:"supplier"`
	PurchasePrice    float64 `gorm:"type:decimal(12,2);not null" json:"purchase_price"`
	QuantityProcured int     `gorm:"not null" json:"quantity_procured"`
	// Depletes only via invoice lines. Clamped: 0 <= remaining <= procured.
	QuantityRemaining int       `gorm:"not null" json:"quantity_remaining"`
	ProcurementDate   time.Time `gorm:"type:date;not null" json:"procurement_date"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// TableName specifies the table name for GORM
func (InventoryBatch) TableName() string {
	return "inventory_batches"
}

// Value returns the purchase cost of the remaining stock in this batch
func (b *InventoryBatch) Value() float64 {
	return float64(b.QuantityRemaining) * b.PurchasePrice
}

// IsDepleted returns true when the batch has no stock left
func (b *InventoryBatch) IsDepleted() bool {
	return b.QuantityRemaining <= 0
}
