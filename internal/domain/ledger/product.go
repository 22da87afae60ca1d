package ledger

import (
	"time"

	"github.com/stockcore/backend/internal/domain/shared"
)

// Product is the aggregate root owning a single authoritative balance,
// expressed in base units (pieces). Sheet and box counts are always
// derived through the unit conversion functions, never stored.
type Product struct {
	shared.BaseAggregateRoot
	SKU            string `gorm:"type:varchar(64);not null;uniqueIndex"`
	Name           string `gorm:"type:varchar(255);not null"`
	PiecesPerSheet int64  `gorm:"not null;default:1"`
	SheetsPerBox   int64  `gorm:"not null;default:1"`
	StockQuantity  int64  `gorm:"not null;default:0"`
	ReorderLevel   int64  `gorm:"not null;default:0"`
	MinStockLevel  int64  `gorm:"not null;default:0"`
	ExpiryDate     *time.Time
}

// TableName returns the table name for GORM
func (Product) TableName() string {
	return "products"
}

// NewProduct creates a product with its packaging configuration
func NewProduct(sku, name string, piecesPerSheet, sheetsPerBox int64) (*Product, error) {
	if sku == "" || name == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "SKU and name are required")
	}
	if piecesPerSheet < 1 || sheetsPerBox < 1 {
		return nil, shared.ErrInvalidConfig
	}
	return &Product{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		SKU:               sku,
		Name:              name,
		PiecesPerSheet:    piecesPerSheet,
		SheetsPerBox:      sheetsPerBox,
	}, nil
}

// PiecesPerBox returns the derived box size in base units
func (p *Product) PiecesPerBox() int64 {
	return p.PiecesPerSheet * p.SheetsPerBox
}

// ApplyDelta mutates the balance by a signed base-unit delta.
// The balance never goes below zero; a delta that would is rejected
// without any change. Crossing the minimum-stock threshold downward
// emits a StockBelowThresholdEvent.
func (p *Product) ApplyDelta(delta int64) error {
	after := p.StockQuantity + delta
	if after < 0 {
		return shared.ErrInsufficientStock
	}

	wasAboveMinimum := p.StockQuantity > p.MinStockLevel
	p.StockQuantity = after
	p.Touch()

	if delta < 0 && wasAboveMinimum && after <= p.MinStockLevel {
		p.AddDomainEvent(NewStockBelowThresholdEvent(p))
	}
	return nil
}

// SetThresholds updates the reorder and minimum-stock levels
func (p *Product) SetThresholds(reorderLevel, minStockLevel int64) error {
	if reorderLevel < 0 || minStockLevel < 0 {
		return shared.ErrInvalidThreshold
	}
	p.ReorderLevel = reorderLevel
	p.MinStockLevel = minStockLevel
	p.Touch()
	return nil
}

// SetExpiryDate sets or clears the batch expiry date
func (p *Product) SetExpiryDate(expiry *time.Time) {
	p.ExpiryDate = expiry
	p.Touch()
}

// IsOutOfStock checks if the balance is zero
func (p *Product) IsOutOfStock() bool {
	return p.StockQuantity == 0
}

// IsBelowMinimum checks if the balance is at or below the minimum level
func (p *Product) IsBelowMinimum() bool {
	return p.StockQuantity <= p.MinStockLevel
}

// NeedsReorder checks if the balance is at or below the reorder point
func (p *Product) NeedsReorder() bool {
	return p.StockQuantity <= p.ReorderLevel
}
