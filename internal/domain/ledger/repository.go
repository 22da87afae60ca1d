package ledger

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/stockcore/backend/internal/domain/shared"
)

// ProductRepository persists products
type ProductRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Product, error)
	FindBySKU(ctx context.Context, sku string) (*Product, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Product, error)
	Count(ctx context.Context, filter shared.Filter) (int64, error)
	Save(ctx context.Context, product *Product) error
	// SaveWithLock saves only if the stored version matches the
	// aggregate's version, then increments it. A version mismatch
	// returns a CONCURRENCY_CONFLICT error.
	SaveWithLock(ctx context.Context, product *Product) error
}

// MovementFilter narrows movement queries
type MovementFilter struct {
	shared.Filter
	ProductID    *uuid.UUID
	MovementType *MovementType
	DateFrom     *time.Time
	DateTo       *time.Time
}

// MovementSummary aggregates movements of one type. TotalQuantity sums
// unsigned magnitudes so inbound and outbound figures are comparable.
type MovementSummary struct {
	MovementType  MovementType `json:"movement_type"`
	Count         int64        `json:"count"`
	TotalQuantity int64        `json:"total_quantity"`
}

// MovementRepository persists ledger entries. The log is append-only:
// there is deliberately no update or delete operation.
type MovementRepository interface {
	Create(ctx context.Context, movement *StockMovement) error
	FindByID(ctx context.Context, id uuid.UUID) (*StockMovement, error)
	FindAll(ctx context.Context, filter MovementFilter) ([]StockMovement, error)
	Count(ctx context.Context, filter MovementFilter) (int64, error)
	SummarizeByType(ctx context.Context, filter MovementFilter) ([]MovementSummary, error)
}
