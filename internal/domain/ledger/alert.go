package ledger

import (
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/stockcore/backend/internal/domain/shared"
)

// AlertType classifies a derived alert condition
type AlertType string

const (
	AlertOutOfStock    AlertType = "out_of_stock"
	AlertLowStock      AlertType = "low_stock"
	AlertReorderNeeded AlertType = "reorder_needed"
	AlertExpiringSoon  AlertType = "expiring_soon"
	AlertExpired       AlertType = "expired"
)

// Severity ranks alerts for display
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityWarning  Severity = "warning"
	SeverityInfo     Severity = "info"
)

// rank orders severities, lower is more urgent
func (s Severity) rank() int {
	switch s {
	case SeverityCritical:
		return 0
	case SeverityWarning:
		return 1
	default:
		return 2
	}
}

// AlertCondition is a pure projection of product state at evaluation
// time. It is recomputable at will and carries no independent lifecycle;
// read/dismissed bookkeeping belongs to the consumers.
type AlertCondition struct {
	Type       AlertType `json:"type"`
	Severity   Severity  `json:"severity"`
	ProductID  uuid.UUID `json:"product_id"`
	Message    string    `json:"message"`
	ComputedAt time.Time `json:"computed_at"`
}

// Thresholds holds the deployment-wide evaluation settings
type Thresholds struct {
	ExpiryWarningDays int
}

// EvaluateAlerts classifies a product's current state against its
// thresholds. A product may emit several alerts of different types at
// once (e.g., low_stock together with expiring_soon). No alerts is an
// empty result, not an error; only negative thresholds are rejected.
func EvaluateAlerts(product *Product, thresholds Thresholds, now time.Time) ([]AlertCondition, error) {
	if product.MinStockLevel < 0 || product.ReorderLevel < 0 || thresholds.ExpiryWarningDays < 0 {
		return nil, shared.ErrInvalidThreshold
	}

	alerts := make([]AlertCondition, 0, 2)

	switch {
	case product.IsOutOfStock():
		alerts = append(alerts, newAlert(AlertOutOfStock, SeverityCritical, product.ID, now,
			fmt.Sprintf("%s is out of stock", product.Name)))
	case product.IsBelowMinimum():
		alerts = append(alerts, newAlert(AlertLowStock, SeverityWarning, product.ID, now,
			fmt.Sprintf("%s is low on stock (%d pieces left, minimum %d)", product.Name, product.StockQuantity, product.MinStockLevel)))
	}

	// Reorder check is independent of the stock-level check above and
	// may co-occur with it.
	if product.NeedsReorder() {
		alerts = append(alerts, newAlert(AlertReorderNeeded, SeverityInfo, product.ID, now,
			fmt.Sprintf("%s reached its reorder point (%d pieces left, reorder at %d)", product.Name, product.StockQuantity, product.ReorderLevel)))
	}

	if product.ExpiryDate != nil {
		today := truncateToDate(now)
		expiry := truncateToDate(*product.ExpiryDate)
		switch {
		case expiry.Before(today):
			alerts = append(alerts, newAlert(AlertExpired, SeverityCritical, product.ID, now,
				fmt.Sprintf("%s expired on %s", product.Name, expiry.Format("2006-01-02"))))
		case !expiry.After(today.AddDate(0, 0, thresholds.ExpiryWarningDays)):
			alerts = append(alerts, newAlert(AlertExpiringSoon, SeverityWarning, product.ID, now,
				fmt.Sprintf("%s expires on %s", product.Name, expiry.Format("2006-01-02"))))
		}
	}

	return alerts, nil
}

// SortAlerts orders alerts critical before warning before info; within
// equal severity, most recently computed first.
func SortAlerts(alerts []AlertCondition) {
	sort.SliceStable(alerts, func(i, j int) bool {
		if alerts[i].Severity != alerts[j].Severity {
			return alerts[i].Severity.rank() < alerts[j].Severity.rank()
		}
		return alerts[i].ComputedAt.After(alerts[j].ComputedAt)
	})
}

func newAlert(alertType AlertType, severity Severity, productID uuid.UUID, now time.Time, message string) AlertCondition {
	return AlertCondition{
		Type:       alertType,
		Severity:   severity,
		ProductID:  productID,
		Message:    message,
		ComputedAt: now,
	}
}

func truncateToDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
