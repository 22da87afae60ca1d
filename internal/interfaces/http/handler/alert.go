package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	ledgerapp "github.com/stockcore/backend/internal/application/ledger"
	"github.com/stockcore/backend/internal/interfaces/http/dto"
)

// AlertHandler handles alert evaluation API endpoints
type AlertHandler struct {
	BaseHandler
	alertService *ledgerapp.AlertService
}

// NewAlertHandler creates a new AlertHandler
func NewAlertHandler(alertService *ledgerapp.AlertService) *AlertHandler {
	return &AlertHandler{
		alertService: alertService,
	}
}

// List evaluates every product and returns the combined alert set,
// critical first, newest first within equal severity
func (h *AlertHandler) List(c *gin.Context) {
	alerts, err := h.alertService.ListAlerts(c.Request.Context())
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, alerts)
}

// ListForProduct evaluates a single product's alert conditions
func (h *AlertHandler) ListForProduct(c *gin.Context) {
	var idReq dto.IDRequest
	if err := c.ShouldBindUri(&idReq); err != nil {
		h.BadRequest(c, "Invalid product ID format")
		return
	}
	productID := uuid.MustParse(idReq.ID)

	alerts, err := h.alertService.ProductAlerts(c.Request.Context(), productID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, alerts)
}
