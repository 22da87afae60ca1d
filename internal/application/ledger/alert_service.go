package ledger

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/stockcore/backend/internal/domain/ledger"
	"github.com/stockcore/backend/internal/domain/shared"
)

// alertScanPageSize bounds how many products are loaded per page while
// scanning for alerts
const alertScanPageSize = 200

// AlertService evaluates alert conditions over current product state.
// Evaluation is pure and cheap; collaborators may call it as often as
// they like, including on a polling cadence.
type AlertService struct {
	products   ledger.ProductRepository
	thresholds ledger.Thresholds
	now        func() time.Time
}

// NewAlertService creates the alert service
func NewAlertService(products ledger.ProductRepository, thresholds ledger.Thresholds) *AlertService {
	return &AlertService{
		products:   products,
		thresholds: thresholds,
		now:        time.Now,
	}
}

// ListAlerts evaluates every product and returns the combined alert
// set, critical first, newest first within equal severity.
func (s *AlertService) ListAlerts(ctx context.Context) ([]ledger.AlertCondition, error) {
	now := s.now()
	alerts := make([]ledger.AlertCondition, 0)

	filter := shared.DefaultFilter()
	filter.PageSize = alertScanPageSize

	for page := 1; ; page++ {
		filter.Page = page
		products, err := s.products.FindAll(ctx, filter)
		if err != nil {
			return nil, err
		}
		if len(products) == 0 {
			break
		}

		for i := range products {
			productAlerts, err := ledger.EvaluateAlerts(&products[i], s.thresholds, now)
			if err != nil {
				return nil, err
			}
			alerts = append(alerts, productAlerts...)
		}

		if len(products) < alertScanPageSize {
			break
		}
	}

	ledger.SortAlerts(alerts)
	return alerts, nil
}

// ProductAlerts evaluates a single product
func (s *AlertService) ProductAlerts(ctx context.Context, productID uuid.UUID) ([]ledger.AlertCondition, error) {
	product, err := s.products.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	alerts, err := ledger.EvaluateAlerts(product, s.thresholds, s.now())
	if err != nil {
		return nil, err
	}
	ledger.SortAlerts(alerts)
	return alerts, nil
}
