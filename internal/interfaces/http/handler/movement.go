package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	ledgerapp "github.com/stockcore/backend/internal/application/ledger"
	"github.com/stockcore/backend/internal/domain/ledger"
)

// maxBulkMovements bounds one bulk submission
const maxBulkMovements = 100

// MovementHandler handles stock movement API endpoints
type MovementHandler struct {
	BaseHandler
	ledgerService *ledgerapp.StockLedgerService
	queryService  *ledgerapp.MovementQueryService
}

// NewMovementHandler creates a new MovementHandler
func NewMovementHandler(
	ledgerService *ledgerapp.StockLedgerService,
	queryService *ledgerapp.MovementQueryService,
) *MovementHandler {
	return &MovementHandler{
		ledgerService: ledgerService,
		queryService:  queryService,
	}
}

// ApplyMovementRequest represents one movement submission. Quantity is
// the caller-entered amount in the caller's unit; adjustment keeps the
// caller's sign, every other type supplies its own direction.
type ApplyMovementRequest struct {
	ProductID    string `json:"product_id" binding:"required,uuid"`
	MovementType string `json:"movement_type" binding:"required,movement_type"`
	Quantity     int64  `json:"quantity" binding:"required"`
	Unit         string `json:"unit" binding:"required,unit"`
	Reason       string `json:"reason" binding:"max=255"`
	Reference    string `json:"reference" binding:"max=100"`
}

// BulkApplyRequest represents a batch of movement submissions
type BulkApplyRequest struct {
	Movements []ApplyMovementRequest `json:"movements" binding:"required,min=1,max=100,dive"`
}

// MovementListRequest narrows the movement history query
type MovementListRequest struct {
	ProductID    string `form:"product_id" binding:"omitempty,uuid"`
	MovementType string `form:"movement_type" binding:"omitempty,movement_type"`
	DateFrom     string `form:"date_from"`
	DateTo       string `form:"date_to"`
	Page         int    `form:"page" binding:"omitempty,min=1"`
	PageSize     int    `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// Apply books one stock movement through the ledger
func (h *MovementHandler) Apply(c *gin.Context) {
	var req ApplyMovementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	appReq, err := h.toApplyRequest(c, req)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	movement, err := h.ledgerService.Apply(c.Request.Context(), appReq)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, movement)
}

// BulkApply books a batch of movements, each independently and
// atomically. The response reports a per-request outcome; committed
// entries stay committed regardless of later failures in the batch.
func (h *MovementHandler) BulkApply(c *gin.Context) {
	var req BulkApplyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	if len(req.Movements) > maxBulkMovements {
		h.BadRequest(c, "Too many movements in one batch")
		return
	}

	appReqs := make([]ledgerapp.ApplyMovementRequest, 0, len(req.Movements))
	for _, m := range req.Movements {
		appReq, err := h.toApplyRequest(c, m)
		if err != nil {
			h.BadRequest(c, err.Error())
			return
		}
		appReqs = append(appReqs, appReq)
	}

	results := h.ledgerService.BulkApply(c.Request.Context(), appReqs)
	h.Success(c, results)
}

// List returns one page of movement history, newest first
func (h *MovementHandler) List(c *gin.Context) {
	query, ok := h.bindListQuery(c)
	if !ok {
		return
	}

	movements, total, err := h.queryService.List(c.Request.Context(), query)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	page := query.Page
	if page < 1 {
		page = 1
	}
	pageSize := query.PageSize
	if pageSize < 1 {
		pageSize = 20
	}
	h.SuccessWithMeta(c, movements, total, page, pageSize)
}

// Summarize aggregates the filtered movements per type
func (h *MovementHandler) Summarize(c *gin.Context) {
	query, ok := h.bindListQuery(c)
	if !ok {
		return
	}

	summary, err := h.queryService.Summarize(c.Request.Context(), query)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, summary)
}

func (h *MovementHandler) toApplyRequest(c *gin.Context, req ApplyMovementRequest) (ledgerapp.ApplyMovementRequest, error) {
	productID, err := uuid.Parse(req.ProductID)
	if err != nil {
		return ledgerapp.ApplyMovementRequest{}, err
	}

	actorID, err := getActorID(c)
	if err != nil {
		return ledgerapp.ApplyMovementRequest{}, err
	}

	return ledgerapp.ApplyMovementRequest{
		ProductID:    productID,
		MovementType: ledger.MovementType(req.MovementType),
		Quantity:     req.Quantity,
		Unit:         ledger.Unit(req.Unit),
		Reason:       req.Reason,
		Reference:    req.Reference,
		ActorID:      actorID,
	}, nil
}

func (h *MovementHandler) bindListQuery(c *gin.Context) (ledgerapp.MovementListQuery, bool) {
	var req MovementListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, err.Error())
		return ledgerapp.MovementListQuery{}, false
	}

	query := ledgerapp.MovementListQuery{
		Page:     req.Page,
		PageSize: req.PageSize,
	}

	if req.ProductID != "" {
		productID, err := uuid.Parse(req.ProductID)
		if err != nil {
			h.BadRequest(c, "Invalid product ID format")
			return ledgerapp.MovementListQuery{}, false
		}
		query.ProductID = &productID
	}
	if req.MovementType != "" {
		movementType := ledger.MovementType(req.MovementType)
		query.MovementType = &movementType
	}
	if req.DateFrom != "" {
		from, err := parseDateTime(req.DateFrom)
		if err != nil {
			h.BadRequest(c, "Invalid date_from format")
			return ledgerapp.MovementListQuery{}, false
		}
		query.DateFrom = &from
	}
	if req.DateTo != "" {
		to, err := parseDateTime(req.DateTo)
		if err != nil {
			h.BadRequest(c, "Invalid date_to format")
			return ledgerapp.MovementListQuery{}, false
		}
		query.DateTo = &to
	}

	return query, true
}
