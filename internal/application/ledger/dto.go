package ledger

import (
	"time"

	"github.com/google/uuid"

	"github.com/stockcore/backend/internal/domain/ledger"
	"github.com/stockcore/backend/internal/domain/shared"
)

// ApplyMovementRequest is one movement submission. Quantity is the
// caller-entered amount in the caller's unit; for every type except
// adjustment it is an unsigned magnitude whose direction comes from the
// movement type. For adjustment the caller supplies the sign.
type ApplyMovementRequest struct {
	ProductID    uuid.UUID
	MovementType ledger.MovementType
	Quantity     int64
	Unit         ledger.Unit
	Reason       string
	Reference    string
	ActorID      *uuid.UUID
}

// MovementResponse is the written ledger entry returned to callers
type MovementResponse struct {
	ID             uuid.UUID           `json:"id"`
	ProductID      uuid.UUID           `json:"product_id"`
	MovementType   ledger.MovementType `json:"movement_type"`
	QuantityChange int64               `json:"quantity_change"`
	QuantityBefore int64               `json:"quantity_before"`
	QuantityAfter  int64               `json:"quantity_after"`
	UnitUsed       ledger.Unit         `json:"unit_used"`
	Reason         string              `json:"reason,omitempty"`
	Reference      string              `json:"reference,omitempty"`
	ActorID        *uuid.UUID          `json:"actor_id,omitempty"`
	CreatedAt      time.Time           `json:"created_at"`
}

// BulkApplyResult is the per-request outcome of a bulk submission.
// Failed requests carry the typed error; committed requests stay
// committed regardless of later failures in the batch.
type BulkApplyResult struct {
	Index    int                 `json:"index"`
	Movement *MovementResponse   `json:"movement,omitempty"`
	Error    *shared.DomainError `json:"error,omitempty"`
}

// CreateProductRequest creates a product with its packaging configuration
type CreateProductRequest struct {
	SKU            string
	Name           string
	PiecesPerSheet int64
	SheetsPerBox   int64
	ReorderLevel   int64
	MinStockLevel  int64
	ExpiryDate     *time.Time
}

// UpdateThresholdsRequest updates a product's alert thresholds
type UpdateThresholdsRequest struct {
	ReorderLevel  int64
	MinStockLevel int64
}

// ProductResponse is the read model of a product balance
type ProductResponse struct {
	ID             uuid.UUID  `json:"id"`
	SKU            string     `json:"sku"`
	Name           string     `json:"name"`
	PiecesPerSheet int64      `json:"pieces_per_sheet"`
	SheetsPerBox   int64      `json:"sheets_per_box"`
	StockQuantity  int64      `json:"stock_quantity"`
	ReorderLevel   int64      `json:"reorder_level"`
	MinStockLevel  int64      `json:"min_stock_level"`
	ExpiryDate     *time.Time `json:"expiry_date,omitempty"`
	Version        int        `json:"version"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// MovementListQuery narrows and pages movement history reads
type MovementListQuery struct {
	ProductID    *uuid.UUID
	MovementType *ledger.MovementType
	DateFrom     *time.Time
	DateTo       *time.Time
	Page         int
	PageSize     int
}

func toMovementResponse(m *ledger.StockMovement) *MovementResponse {
	return &MovementResponse{
		ID:             m.ID,
		ProductID:      m.ProductID,
		MovementType:   m.MovementType,
		QuantityChange: m.QuantityChange,
		QuantityBefore: m.QuantityBefore,
		QuantityAfter:  m.QuantityAfter,
		UnitUsed:       m.UnitUsed,
		Reason:         m.Reason,
		Reference:      m.Reference,
		ActorID:        m.ActorID,
		CreatedAt:      m.CreatedAt,
	}
}

func toProductResponse(p *ledger.Product) *ProductResponse {
	return &ProductResponse{
		ID:             p.ID,
		SKU:            p.SKU,
		Name:           p.Name,
		PiecesPerSheet: p.PiecesPerSheet,
		SheetsPerBox:   p.SheetsPerBox,
		StockQuantity:  p.StockQuantity,
		ReorderLevel:   p.ReorderLevel,
		MinStockLevel:  p.MinStockLevel,
		ExpiryDate:     p.ExpiryDate,
		Version:        p.Version,
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}
}
