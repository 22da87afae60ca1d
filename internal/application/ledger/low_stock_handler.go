package ledger

import (
	"context"

	"go.uber.org/zap"

	"github.com/stockcore/backend/internal/domain/ledger"
	"github.com/stockcore/backend/internal/domain/shared"
	"github.com/stockcore/backend/internal/infrastructure/logger"
)

// StockAlertNotifier forwards low-stock notifications to an external
// channel. Delivery transports (dashboards, chat hooks) implement this.
type StockAlertNotifier interface {
	NotifyLowStock(ctx context.Context, event *ledger.StockBelowThresholdEvent) error
}

// LowStockHandler reacts to below-threshold events coming off the event
// bus. It logs every occurrence and fans out to an optional notifier.
type LowStockHandler struct {
	logger   *zap.Logger
	notifier StockAlertNotifier
}

// NewLowStockHandler creates the handler. The notifier may be nil.
func NewLowStockHandler(logger *zap.Logger, notifier StockAlertNotifier) *LowStockHandler {
	return &LowStockHandler{
		logger:   logger,
		notifier: notifier,
	}
}

// Handle processes a below-threshold event
func (h *LowStockHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	thresholdEvent, ok := event.(*ledger.StockBelowThresholdEvent)
	if !ok {
		return nil
	}

	log := logger.WithLogger(ctx, h.logger)
	log.Warn("product dropped below minimum stock level",
		zap.String("product_id", thresholdEvent.AggregateID().String()),
		zap.String("sku", thresholdEvent.SKU),
		zap.String("product_name", thresholdEvent.ProductName),
		zap.Int64("current_quantity", thresholdEvent.CurrentQuantity),
		zap.Int64("min_stock_level", thresholdEvent.MinStockLevel),
	)

	if h.notifier != nil {
		if err := h.notifier.NotifyLowStock(ctx, thresholdEvent); err != nil {
			log.Error("low stock notification failed",
				zap.String("product_id", thresholdEvent.AggregateID().String()),
				zap.Error(err),
			)
		}
	}
	return nil
}

// EventTypes returns the event types this handler subscribes to
func (h *LowStockHandler) EventTypes() []string {
	return []string{ledger.EventTypeStockBelowThreshold}
}

// Ensure LowStockHandler implements EventHandler
var _ shared.EventHandler = (*LowStockHandler)(nil)
