package ledger

import (
	"math"

	"github.com/shopspring/decimal"

	"github.com/stockcore/backend/internal/domain/shared"
)

// Unit is the packaging granularity a caller uses to enter or read
// quantities. Balances are always stored in base units (pieces);
// sheet and box figures are derived on demand.
type Unit string

const (
	UnitPiece Unit = "piece"
	UnitSheet Unit = "sheet"
	UnitBox   Unit = "box"
)

// IsValid checks if the unit is one of the known packaging units
func (u Unit) IsValid() bool {
	switch u {
	case UnitPiece, UnitSheet, UnitBox:
		return true
	}
	return false
}

// String returns the string representation
func (u Unit) String() string {
	return string(u)
}

// baseUnitSize returns how many pieces one unit holds for the given
// packaging configuration
func baseUnitSize(unit Unit, product *Product) (int64, error) {
	if product.PiecesPerSheet < 1 || product.SheetsPerBox < 1 {
		return 0, shared.ErrInvalidConfig
	}
	switch unit {
	case UnitPiece:
		return 1, nil
	case UnitSheet:
		return product.PiecesPerSheet, nil
	case UnitBox:
		return product.PiecesPerSheet * product.SheetsPerBox, nil
	default:
		return 0, shared.ErrInvalidUnit
	}
}

// ToBaseUnits converts a positive caller-entered quantity to pieces.
// The magnitude must be positive; the sign of a movement comes from its
// movement type, never from the entered quantity.
func ToBaseUnits(quantity int64, unit Unit, product *Product) (int64, error) {
	size, err := baseUnitSize(unit, product)
	if err != nil {
		return 0, err
	}
	if quantity <= 0 {
		return 0, shared.ErrInvalidQuantity
	}
	if quantity > math.MaxInt64/size {
		return 0, shared.ErrInvalidQuantity
	}
	return quantity * size, nil
}

// FromBaseUnits converts a piece count into the given unit for display.
// The result may be fractional (e.g., 25 pieces = 2.5 sheets) and is
// returned unrounded; rounding policy belongs to the caller.
func FromBaseUnits(baseQuantity int64, unit Unit, product *Product) (decimal.Decimal, error) {
	size, err := baseUnitSize(unit, product)
	if err != nil {
		return decimal.Zero, err
	}
	return decimal.NewFromInt(baseQuantity).Div(decimal.NewFromInt(size)), nil
}
