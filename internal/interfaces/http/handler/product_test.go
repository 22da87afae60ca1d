package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	ledgerapp "github.com/stockcore/backend/internal/application/ledger"
	"github.com/stockcore/backend/internal/domain/ledger"
	"github.com/stockcore/backend/internal/interfaces/http/dto"
)

func newProductTestRouter(t *testing.T) (*gin.Engine, *memProductRepository) {
	t.Helper()
	repo := newMemProductRepository()
	service := ledgerapp.NewProductService(repo, zaptest.NewLogger(t))
	h := NewProductHandler(service)

	router := gin.New()
	router.POST("/products", h.Create)
	router.GET("/products", h.List)
	router.GET("/products/:id", h.GetByID)
	router.PUT("/products/:id/thresholds", h.UpdateThresholds)
	return router, repo
}

func seedProduct(t *testing.T, repo *memProductRepository, sku string, piecesPerSheet, sheetsPerBox, stock int64) *ledger.Product {
	t.Helper()
	product, err := ledger.NewProduct(sku, "Product "+sku, piecesPerSheet, sheetsPerBox)
	require.NoError(t, err)
	product.StockQuantity = stock
	require.NoError(t, repo.Save(context.Background(), product))
	return product
}

func TestProductHandlerCreate(t *testing.T) {
	router, repo := newProductTestRouter(t)

	body, _ := json.Marshal(map[string]any{
		"sku":              "PAPER-A4",
		"name":             "A4 Copy Paper",
		"pieces_per_sheet": 500,
		"sheets_per_box":   10,
		"reorder_level":    1000,
		"min_stock_level":  500,
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/products", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)

	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)

	stored, err := repo.FindBySKU(context.Background(), "PAPER-A4")
	require.NoError(t, err)
	assert.Equal(t, int64(0), stored.StockQuantity)
	assert.Equal(t, int64(500), stored.PiecesPerSheet)
}

func TestProductHandlerCreateValidation(t *testing.T) {
	router, _ := newProductTestRouter(t)

	tests := []struct {
		name string
		body map[string]any
	}{
		{
			name: "missing sku",
			body: map[string]any{"name": "X", "pieces_per_sheet": 1, "sheets_per_box": 1},
		},
		{
			name: "zero packaging factor",
			body: map[string]any{"sku": "S", "name": "X", "pieces_per_sheet": 0, "sheets_per_box": 1},
		},
		{
			name: "negative threshold",
			body: map[string]any{"sku": "S", "name": "X", "pieces_per_sheet": 1, "sheets_per_box": 1, "reorder_level": -1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body, _ := json.Marshal(tt.body)
			w := httptest.NewRecorder()
			req := httptest.NewRequest("POST", "/products", bytes.NewReader(body))
			req.Header.Set("Content-Type", "application/json")
			router.ServeHTTP(w, req)

			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}

func TestProductHandlerCreateDuplicateSKU(t *testing.T) {
	router, repo := newProductTestRouter(t)
	seedProduct(t, repo, "PAPER-A4", 500, 10, 0)

	body, _ := json.Marshal(map[string]any{
		"sku":              "PAPER-A4",
		"name":             "A4 Copy Paper",
		"pieces_per_sheet": 500,
		"sheets_per_box":   10,
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/products", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)

	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, dto.ErrCodeAlreadyExists, resp.Error.Code)
}

func TestProductHandlerGetByID(t *testing.T) {
	router, repo := newProductTestRouter(t)
	product := seedProduct(t, repo, "PAPER-A4", 500, 10, 2500)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/products/"+product.ID.String(), nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Success bool                      `json:"success"`
		Data    ledgerapp.ProductResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, product.ID, resp.Data.ID)
	assert.Equal(t, int64(2500), resp.Data.StockQuantity)
}

func TestProductHandlerGetByIDNotFound(t *testing.T) {
	router, _ := newProductTestRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/products/11111111-2222-3333-4444-555555555555", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestProductHandlerGetByIDInvalidUUID(t *testing.T) {
	router, _ := newProductTestRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/products/not-a-uuid", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestProductHandlerList(t *testing.T) {
	router, repo := newProductTestRouter(t)
	seedProduct(t, repo, "PAPER-A4", 500, 10, 100)
	seedProduct(t, repo, "PAPER-A5", 500, 10, 200)
	seedProduct(t, repo, "PEN-BLUE", 1, 12, 50)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/products?page=1&page_size=2", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Success bool                        `json:"success"`
		Data    []ledgerapp.ProductResponse `json:"data"`
		Meta    *dto.Meta                   `json:"meta"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.Data, 2)
	require.NotNil(t, resp.Meta)
	assert.Equal(t, int64(3), resp.Meta.Total)
	assert.Equal(t, 2, resp.Meta.TotalPages)
}

func TestProductHandlerUpdateThresholds(t *testing.T) {
	router, repo := newProductTestRouter(t)
	product := seedProduct(t, repo, "PAPER-A4", 500, 10, 100)

	body, _ := json.Marshal(map[string]any{
		"reorder_level":   2000,
		"min_stock_level": 800,
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("PUT", "/products/"+product.ID.String()+"/thresholds", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	stored, err := repo.FindByID(context.Background(), product.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2000), stored.ReorderLevel)
	assert.Equal(t, int64(800), stored.MinStockLevel)
}

func TestProductHandlerUpdateThresholdsNegative(t *testing.T) {
	router, repo := newProductTestRouter(t)
	product := seedProduct(t, repo, "PAPER-A4", 500, 10, 100)

	body, _ := json.Marshal(map[string]any{
		"reorder_level":   -5,
		"min_stock_level": 0,
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("PUT", "/products/"+product.ID.String()+"/thresholds", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
