package ledger

import (
	"github.com/google/uuid"

	"github.com/stockcore/backend/internal/domain/shared"
)

// Event types for the stock ledger
const (
	EventTypeStockApplied        = "ledger.stock.applied"
	EventTypeStockBelowThreshold = "ledger.stock.below_threshold"
)

const aggregateTypeProduct = "Product"

// StockAppliedEvent is raised for every movement written to the ledger
type StockAppliedEvent struct {
	shared.BaseDomainEvent
	MovementID     uuid.UUID    `json:"movement_id"`
	MovementType   MovementType `json:"movement_type"`
	QuantityChange int64        `json:"quantity_change"`
	QuantityAfter  int64        `json:"quantity_after"`
}

// NewStockAppliedEvent creates a stock applied event
func NewStockAppliedEvent(movement *StockMovement) *StockAppliedEvent {
	return &StockAppliedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStockApplied, aggregateTypeProduct, movement.ProductID),
		MovementID:      movement.ID,
		MovementType:    movement.MovementType,
		QuantityChange:  movement.QuantityChange,
		QuantityAfter:   movement.QuantityAfter,
	}
}

// StockBelowThresholdEvent is raised when a movement drops the balance
// to or below the minimum stock level
type StockBelowThresholdEvent struct {
	shared.BaseDomainEvent
	SKU             string `json:"sku"`
	ProductName     string `json:"product_name"`
	CurrentQuantity int64  `json:"current_quantity"`
	MinStockLevel   int64  `json:"min_stock_level"`
}

// NewStockBelowThresholdEvent creates a below-threshold event
func NewStockBelowThresholdEvent(product *Product) *StockBelowThresholdEvent {
	return &StockBelowThresholdEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStockBelowThreshold, aggregateTypeProduct, product.ID),
		SKU:             product.SKU,
		ProductName:     product.Name,
		CurrentQuantity: product.StockQuantity,
		MinStockLevel:   product.MinStockLevel,
	}
}
