package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	ledgerapp "github.com/stockcore/backend/internal/application/ledger"
	"github.com/stockcore/backend/internal/domain/shared"
	"github.com/stockcore/backend/internal/interfaces/http/dto"
)

// ProductHandler handles product-related API endpoints
type ProductHandler struct {
	BaseHandler
	productService *ledgerapp.ProductService
}

// NewProductHandler creates a new ProductHandler
func NewProductHandler(productService *ledgerapp.ProductService) *ProductHandler {
	return &ProductHandler{
		productService: productService,
	}
}

// CreateProductRequest represents a request to create a new product
type CreateProductRequest struct {
	SKU            string `json:"sku" binding:"required,min=1,max=50"`
	Name           string `json:"name" binding:"required,min=1,max=200"`
	PiecesPerSheet int64  `json:"pieces_per_sheet" binding:"required,min=1"`
	SheetsPerBox   int64  `json:"sheets_per_box" binding:"required,min=1"`
	ReorderLevel   int64  `json:"reorder_level" binding:"min=0"`
	MinStockLevel  int64  `json:"min_stock_level" binding:"min=0"`
	ExpiryDate     string `json:"expiry_date" binding:"omitempty"`
}

// UpdateThresholdsRequest represents a request to update alert thresholds
type UpdateThresholdsRequest struct {
	ReorderLevel  int64 `json:"reorder_level" binding:"min=0"`
	MinStockLevel int64 `json:"min_stock_level" binding:"min=0"`
}

// Create registers a new product with its packaging configuration
func (h *ProductHandler) Create(c *gin.Context) {
	var req CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	appReq := ledgerapp.CreateProductRequest{
		SKU:            req.SKU,
		Name:           req.Name,
		PiecesPerSheet: req.PiecesPerSheet,
		SheetsPerBox:   req.SheetsPerBox,
		ReorderLevel:   req.ReorderLevel,
		MinStockLevel:  req.MinStockLevel,
	}

	if req.ExpiryDate != "" {
		expiry, err := parseDateTime(req.ExpiryDate)
		if err != nil {
			h.BadRequest(c, "Invalid expiry date format")
			return
		}
		appReq.ExpiryDate = &expiry
	}

	product, err := h.productService.Create(c.Request.Context(), appReq)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, product)
}

// GetByID returns one product by its ID
func (h *ProductHandler) GetByID(c *gin.Context) {
	var idReq dto.IDRequest
	if err := c.ShouldBindUri(&idReq); err != nil {
		h.BadRequest(c, "Invalid product ID format")
		return
	}
	productID := uuid.MustParse(idReq.ID)

	product, err := h.productService.Get(c.Request.Context(), productID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, product)
}

// List returns a page of products
func (h *ProductHandler) List(c *gin.Context) {
	listReq := dto.DefaultListRequest()
	if err := c.ShouldBindQuery(&listReq); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	filter := shared.Filter{
		Page:     listReq.Page,
		PageSize: listReq.PageSize,
		OrderBy:  listReq.OrderBy,
		OrderDir: listReq.OrderDir,
		Filters:  make(map[string]interface{}),
	}
	if listReq.Search != "" {
		filter.Filters["sku"] = listReq.Search
	}

	products, total, err := h.productService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, products, total, filter.Page, filter.PageSize)
}

// UpdateThresholds changes a product's reorder and minimum-stock levels
func (h *ProductHandler) UpdateThresholds(c *gin.Context) {
	var idReq dto.IDRequest
	if err := c.ShouldBindUri(&idReq); err != nil {
		h.BadRequest(c, "Invalid product ID format")
		return
	}
	productID := uuid.MustParse(idReq.ID)

	var req UpdateThresholdsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	product, err := h.productService.UpdateThresholds(c.Request.Context(), productID, ledgerapp.UpdateThresholdsRequest{
		ReorderLevel:  req.ReorderLevel,
		MinStockLevel: req.MinStockLevel,
	})
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, product)
}

// parseDateTime parses a datetime string in the formats clients send
func parseDateTime(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}
