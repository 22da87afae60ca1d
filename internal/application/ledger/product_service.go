package ledger

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/stockcore/backend/internal/domain/ledger"
	"github.com/stockcore/backend/internal/domain/shared"
)

// ProductService manages products and their packaging configuration.
// Balance changes are out of its reach; those go through the ledger.
type ProductService struct {
	products ledger.ProductRepository
	logger   *zap.Logger
}

// NewProductService creates the product service
func NewProductService(products ledger.ProductRepository, logger *zap.Logger) *ProductService {
	return &ProductService{
		products: products,
		logger:   logger,
	}
}

// Create registers a new product with zero stock
func (s *ProductService) Create(ctx context.Context, req CreateProductRequest) (*ProductResponse, error) {
	if existing, err := s.products.FindBySKU(ctx, req.SKU); err == nil && existing != nil {
		return nil, shared.ErrAlreadyExists
	}

	product, err := ledger.NewProduct(req.SKU, req.Name, req.PiecesPerSheet, req.SheetsPerBox)
	if err != nil {
		return nil, err
	}
	if err := product.SetThresholds(req.ReorderLevel, req.MinStockLevel); err != nil {
		return nil, err
	}
	if req.ExpiryDate != nil {
		product.SetExpiryDate(req.ExpiryDate)
	}

	if err := s.products.Save(ctx, product); err != nil {
		return nil, err
	}

	s.logger.Info("product created",
		zap.String("product_id", product.ID.String()),
		zap.String("sku", product.SKU),
	)
	return toProductResponse(product), nil
}

// Get returns one product by id
func (s *ProductService) Get(ctx context.Context, id uuid.UUID) (*ProductResponse, error) {
	product, err := s.products.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// List returns a page of products
func (s *ProductService) List(ctx context.Context, filter shared.Filter) ([]ProductResponse, int64, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 {
		filter.PageSize = 20
	}
	if filter.OrderBy == "" {
		filter.OrderBy = "created_at"
		filter.OrderDir = "desc"
	}

	products, err := s.products.FindAll(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.products.Count(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]ProductResponse, 0, len(products))
	for i := range products {
		responses = append(responses, *toProductResponse(&products[i]))
	}
	return responses, total, nil
}

// UpdateThresholds changes the reorder and minimum-stock levels.
// The save is version-checked so a movement committing between the
// read and the write never has its balance overwritten; a conflict
// re-reads the product and retries with the fresh balance.
func (s *ProductService) UpdateThresholds(ctx context.Context, id uuid.UUID, req UpdateThresholdsRequest) (*ProductResponse, error) {
	for attempt := 1; attempt <= maxApplyAttempts; attempt++ {
		product, err := s.products.FindByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if err := product.SetThresholds(req.ReorderLevel, req.MinStockLevel); err != nil {
			return nil, err
		}

		err = s.products.SaveWithLock(ctx, product)
		if err == nil {
			return toProductResponse(product), nil
		}
		if !errors.Is(err, shared.ErrConcurrencyConflict) {
			return nil, err
		}
		if attempt == maxApplyAttempts {
			break
		}
		if err := sleepWithContext(ctx, time.Duration(attempt)*retryBaseDelay); err != nil {
			return nil, shared.ErrContention
		}
	}

	s.logger.Warn("threshold update exhausted optimistic retries",
		zap.String("product_id", id.String()),
	)
	return nil, shared.ErrContention
}
