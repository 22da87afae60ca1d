// Package telemetry provides OpenTelemetry integration for metrics collection.
package telemetry

import (
	"context"

	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"

	"github.com/stockcore/backend/internal/domain/ledger"
)

// LedgerMetrics provides business metrics for the stock ledger.
// It tracks applied movements, insufficient stock rejections and
// optimistic lock contention.
type LedgerMetrics struct {
	logger *zap.Logger

	movementsApplied  *Counter
	quantityMoved     *Counter
	insufficientStock *Counter
	contentionRetries *Counter
}

// NewLedgerMetrics creates the ledger metric instruments on the given meter.
func NewLedgerMetrics(meter metric.Meter, logger *zap.Logger) (*LedgerMetrics, error) {
	movementsApplied, err := NewCounter(meter,
		"ledger.movements.applied.total",
		"Total number of stock movements applied",
		"{movement}",
	)
	if err != nil {
		return nil, err
	}

	quantityMoved, err := NewCounter(meter,
		"ledger.quantity.moved.total",
		"Total quantity magnitude moved through the ledger, in base units",
		"{piece}",
	)
	if err != nil {
		return nil, err
	}

	insufficientStock, err := NewCounter(meter,
		"ledger.insufficient_stock.total",
		"Total number of movements rejected for insufficient stock",
		"{rejection}",
	)
	if err != nil {
		return nil, err
	}

	contentionRetries, err := NewCounter(meter,
		"ledger.contention.retries.total",
		"Total number of optimistic lock retries during movement application",
		"{retry}",
	)
	if err != nil {
		return nil, err
	}

	return &LedgerMetrics{
		logger:            logger,
		movementsApplied:  movementsApplied,
		quantityMoved:     quantityMoved,
		insufficientStock: insufficientStock,
		contentionRetries: contentionRetries,
	}, nil
}

// RecordMovementApplied records a successfully applied movement
func (m *LedgerMetrics) RecordMovementApplied(ctx context.Context, movementType ledger.MovementType, magnitude int64) {
	attrs := AttrMovementType.String(string(movementType))
	m.movementsApplied.Inc(ctx, attrs)
	m.quantityMoved.Add(ctx, magnitude, attrs)
}

// RecordInsufficientStock records a movement rejected for insufficient stock
func (m *LedgerMetrics) RecordInsufficientStock(ctx context.Context) {
	m.insufficientStock.Inc(ctx)
}

// RecordContentionRetry records an optimistic lock retry
func (m *LedgerMetrics) RecordContentionRetry(ctx context.Context) {
	m.contentionRetries.Inc(ctx)
}
