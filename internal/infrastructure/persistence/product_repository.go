package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/stockcore/backend/internal/domain/ledger"
	"github.com/stockcore/backend/internal/domain/shared"
)

// GormProductRepository implements ProductRepository using GORM
type GormProductRepository struct {
	db *gorm.DB
}

// NewGormProductRepository creates a new GormProductRepository
func NewGormProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

// FindByID finds a product by its ID
func (r *GormProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*ledger.Product, error) {
	var product ledger.Product
	if err := r.db.WithContext(ctx).First(&product, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &product, nil
}

// FindBySKU finds a product by its SKU
func (r *GormProductRepository) FindBySKU(ctx context.Context, sku string) (*ledger.Product, error) {
	var product ledger.Product
	if err := r.db.WithContext(ctx).First(&product, "sku = ?", sku).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &product, nil
}

// FindAll finds products matching the filter
func (r *GormProductRepository) FindAll(ctx context.Context, filter shared.Filter) ([]ledger.Product, error) {
	var products []ledger.Product
	query := r.applyFilter(r.db.WithContext(ctx).Model(&ledger.Product{}), filter)

	if err := query.Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

// Count counts products matching the filter
func (r *GormProductRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&ledger.Product{}), filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save creates or updates a product
func (r *GormProductRepository) Save(ctx context.Context, product *ledger.Product) error {
	return r.db.WithContext(ctx).Save(product).Error
}

// SaveWithLock saves the product only if the stored version still
// matches, then advances it. Zero affected rows means another writer
// got there first.
func (r *GormProductRepository) SaveWithLock(ctx context.Context, product *ledger.Product) error {
	result := r.db.WithContext(ctx).
		Model(product).
		Where("id = ? AND version = ?", product.ID, product.Version).
		Updates(map[string]interface{}{
			"stock_quantity":  product.StockQuantity,
			"reorder_level":   product.ReorderLevel,
			"min_stock_level": product.MinStockLevel,
			"expiry_date":     product.ExpiryDate,
			"version":         product.Version + 1,
			"updated_at":      product.UpdatedAt,
		})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	product.IncrementVersion()
	return nil
}

// applyFilter applies filter options to the query
func (r *GormProductRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	orderBy := ValidateSortField(filter.OrderBy, ProductSortFields, "created_at")
	orderDir := ValidateSortOrder(filter.OrderDir)
	query = query.Order(orderBy + " " + orderDir)

	return query
}

// applyFilterWithoutPagination applies filter options without pagination
func (r *GormProductRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	for key, value := range filter.Filters {
		switch key {
		case "sku":
			query = query.Where("sku = ?", value)
		case "out_of_stock":
			if value == true {
				query = query.Where("stock_quantity = 0")
			}
		case "below_minimum":
			if value == true {
				query = query.Where("stock_quantity <= min_stock_level")
			}
		case "needs_reorder":
			if value == true {
				query = query.Where("stock_quantity <= reorder_level")
			}
		case "has_expiry":
			if value == true {
				query = query.Where("expiry_date IS NOT NULL")
			}
		}
	}

	return query
}

// Ensure GormProductRepository implements ProductRepository
var _ ledger.ProductRepository = (*GormProductRepository)(nil)
