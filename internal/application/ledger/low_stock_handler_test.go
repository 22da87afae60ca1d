package ledger

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/stockcore/backend/internal/domain/ledger"
)

type capturingNotifier struct {
	events []*ledger.StockBelowThresholdEvent
}

func (n *capturingNotifier) NotifyLowStock(_ context.Context, event *ledger.StockBelowThresholdEvent) error {
	n.events = append(n.events, event)
	return nil
}

func TestLowStockHandler(t *testing.T) {
	ctx := context.Background()

	t.Run("notifies on below threshold events", func(t *testing.T) {
		notifier := &capturingNotifier{}
		handler := NewLowStockHandler(zap.NewNop(), notifier)

		product, err := ledger.NewProduct("SKU-001", "Paracetamol 500mg", 10, 5)
		require.NoError(t, err)
		require.NoError(t, product.SetThresholds(15, 20))
		require.NoError(t, product.ApplyDelta(10))

		event := ledger.NewStockBelowThresholdEvent(product)
		require.NoError(t, handler.Handle(ctx, event))

		require.Len(t, notifier.events, 1)
		assert.Equal(t, "SKU-001", notifier.events[0].SKU)
		assert.Equal(t, int64(10), notifier.events[0].CurrentQuantity)
	})

	t.Run("ignores unrelated events", func(t *testing.T) {
		notifier := &capturingNotifier{}
		handler := NewLowStockHandler(zap.NewNop(), notifier)

		movement, err := ledger.NewStockMovement(
			uuid.New(), ledger.MovementStockIn, 10, 0, ledger.UnitPiece)
		require.NoError(t, err)

		require.NoError(t, handler.Handle(ctx, ledger.NewStockAppliedEvent(movement)))
		assert.Empty(t, notifier.events)
	})

	t.Run("works without a notifier", func(t *testing.T) {
		handler := NewLowStockHandler(zap.NewNop(), nil)

		product, err := ledger.NewProduct("SKU-001", "Paracetamol 500mg", 10, 5)
		require.NoError(t, err)

		assert.NoError(t, handler.Handle(ctx, ledger.NewStockBelowThresholdEvent(product)))
	})

	t.Run("subscribes to below threshold events only", func(t *testing.T) {
		handler := NewLowStockHandler(zap.NewNop(), nil)
		assert.Equal(t, []string{ledger.EventTypeStockBelowThreshold}, handler.EventTypes())
	})
}
