package ledger

import (
	"time"

	"github.com/google/uuid"

	"github.com/stockcore/backend/internal/domain/shared"
)

// MovementType classifies a stock movement and determines its direction
type MovementType string

const (
	MovementStockIn    MovementType = "stock_in"
	MovementStockOut   MovementType = "stock_out"
	MovementSale       MovementType = "sale"
	MovementPurchase   MovementType = "purchase"
	MovementAdjustment MovementType = "adjustment"
	MovementReturn     MovementType = "return"
	MovementDamage     MovementType = "damage"
	MovementExpired    MovementType = "expired"
	MovementTransfer   MovementType = "transfer"
)

// IsValid checks if the movement type is valid
func (t MovementType) IsValid() bool {
	switch t {
	case MovementStockIn, MovementStockOut, MovementSale, MovementPurchase,
		MovementAdjustment, MovementReturn, MovementDamage, MovementExpired,
		MovementTransfer:
		return true
	}
	return false
}

// Sign returns the direction the movement type imposes on its magnitude:
// +1 for inbound types, -1 for outbound types, 0 for adjustment, whose
// sign is supplied explicitly by the caller.
func (t MovementType) Sign() int64 {
	switch t {
	case MovementStockIn, MovementPurchase, MovementReturn:
		return 1
	case MovementStockOut, MovementSale, MovementDamage, MovementExpired, MovementTransfer:
		return -1
	default:
		return 0
	}
}

// IsIncrease checks if the type always increases stock
func (t MovementType) IsIncrease() bool {
	return t.Sign() > 0
}

// IsDecrease checks if the type always decreases stock
func (t MovementType) IsDecrease() bool {
	return t.Sign() < 0
}

// String returns the string representation
func (t MovementType) String() string {
	return string(t)
}

// StockMovement is one immutable entry in the append-only stock ledger.
// Entries are created exactly once when a movement is applied and are
// never updated or deleted; corrections are new compensating movements.
type StockMovement struct {
	shared.BaseEntity
	ProductID      uuid.UUID    `gorm:"type:uuid;not null;index"`
	MovementType   MovementType `gorm:"type:varchar(20);not null;index"`
	QuantityChange int64        `gorm:"not null"`
	QuantityBefore int64        `gorm:"not null"`
	QuantityAfter  int64        `gorm:"not null"`
	UnitUsed       Unit         `gorm:"type:varchar(10);not null"`
	Reason         string       `gorm:"type:text"`
	Reference      string       `gorm:"type:varchar(128);index"`
	ActorID        *uuid.UUID   `gorm:"type:uuid;index"`
}

// TableName returns the table name for GORM
func (StockMovement) TableName() string {
	return "stock_movements"
}

// NewStockMovement creates a ledger entry and enforces its snapshot
// invariants: quantityAfter == quantityBefore + quantityChange and a
// non-negative resulting balance.
func NewStockMovement(
	productID uuid.UUID,
	movementType MovementType,
	quantityChange int64,
	quantityBefore int64,
	unitUsed Unit,
) (*StockMovement, error) {
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_INPUT", "Product ID is required")
	}
	if !movementType.IsValid() {
		return nil, shared.NewDomainError("INVALID_INPUT", "Invalid movement type: "+movementType.String())
	}
	if !unitUsed.IsValid() {
		return nil, shared.ErrInvalidUnit
	}
	if quantityChange == 0 {
		return nil, shared.ErrInvalidQuantity
	}
	if quantityBefore < 0 {
		return nil, shared.NewDomainError("INVALID_INPUT", "Balance snapshot must not be negative")
	}

	after := quantityBefore + quantityChange
	if after < 0 {
		return nil, shared.ErrInsufficientStock
	}

	return &StockMovement{
		BaseEntity:     shared.NewBaseEntity(),
		ProductID:      productID,
		MovementType:   movementType,
		QuantityChange: quantityChange,
		QuantityBefore: quantityBefore,
		QuantityAfter:  after,
		UnitUsed:       unitUsed,
	}, nil
}

// WithReason sets the free-text reason
func (m *StockMovement) WithReason(reason string) *StockMovement {
	m.Reason = reason
	return m
}

// WithReference sets the external correlation id (e.g., sale id)
func (m *StockMovement) WithReference(reference string) *StockMovement {
	m.Reference = reference
	return m
}

// WithActor sets who performed the movement
func (m *StockMovement) WithActor(actorID uuid.UUID) *StockMovement {
	m.ActorID = &actorID
	return m
}

// Magnitude returns the unsigned size of the movement
func (m *StockMovement) Magnitude() int64 {
	if m.QuantityChange < 0 {
		return -m.QuantityChange
	}
	return m.QuantityChange
}

// MovementDate returns when the movement was written
func (m *StockMovement) MovementDate() time.Time {
	return m.CreatedAt
}
