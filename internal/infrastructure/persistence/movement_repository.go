package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/stockcore/backend/internal/domain/ledger"
	"github.com/stockcore/backend/internal/domain/shared"
)

// GormMovementRepository implements MovementRepository using GORM.
// The movement log is append-only; this repository deliberately offers
// no update or delete.
type GormMovementRepository struct {
	db *gorm.DB
}

// NewGormMovementRepository creates a new GormMovementRepository
func NewGormMovementRepository(db *gorm.DB) *GormMovementRepository {
	return &GormMovementRepository{db: db}
}

// Create appends a movement to the log
func (r *GormMovementRepository) Create(ctx context.Context, movement *ledger.StockMovement) error {
	return r.db.WithContext(ctx).Create(movement).Error
}

// FindByID finds a movement by its ID
func (r *GormMovementRepository) FindByID(ctx context.Context, id uuid.UUID) (*ledger.StockMovement, error) {
	var movement ledger.StockMovement
	if err := r.db.WithContext(ctx).First(&movement, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &movement, nil
}

// FindAll finds movements matching the filter, newest first by default
func (r *GormMovementRepository) FindAll(ctx context.Context, filter ledger.MovementFilter) ([]ledger.StockMovement, error) {
	var movements []ledger.StockMovement
	query := r.applyFilter(r.db.WithContext(ctx).Model(&ledger.StockMovement{}), filter)

	if err := query.Find(&movements).Error; err != nil {
		return nil, err
	}
	return movements, nil
}

// Count counts movements matching the filter
func (r *GormMovementRepository) Count(ctx context.Context, filter ledger.MovementFilter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&ledger.StockMovement{}), filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// SummarizeByType aggregates matching movements per movement type.
// Totals sum absolute quantity changes so inbound and outbound
// magnitudes are comparable.
func (r *GormMovementRepository) SummarizeByType(ctx context.Context, filter ledger.MovementFilter) ([]ledger.MovementSummary, error) {
	var summaries []ledger.MovementSummary
	query := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&ledger.StockMovement{}), filter)

	if err := query.
		Select("movement_type, COUNT(*) as count, COALESCE(SUM(ABS(quantity_change)), 0) as total_quantity").
		Group("movement_type").
		Scan(&summaries).Error; err != nil {
		return nil, err
	}
	return summaries, nil
}

// applyFilter applies filter options to the query
func (r *GormMovementRepository) applyFilter(query *gorm.DB, filter ledger.MovementFilter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	orderBy := ValidateSortField(filter.OrderBy, StockMovementSortFields, "created_at")
	orderDir := ValidateSortOrder(filter.OrderDir)
	query = query.Order(orderBy + " " + orderDir)

	return query
}

// applyFilterWithoutPagination applies filter options without pagination
func (r *GormMovementRepository) applyFilterWithoutPagination(query *gorm.DB, filter ledger.MovementFilter) *gorm.DB {
	if filter.ProductID != nil {
		query = query.Where("product_id = ?", *filter.ProductID)
	}
	if filter.MovementType != nil {
		query = query.Where("movement_type = ?", *filter.MovementType)
	}
	if filter.DateFrom != nil {
		query = query.Where("created_at >= ?", *filter.DateFrom)
	}
	if filter.DateTo != nil {
		query = query.Where("created_at <= ?", *filter.DateTo)
	}
	if reference, ok := filter.Filters["reference"]; ok {
		query = query.Where("reference = ?", reference)
	}

	return query
}

// Ensure GormMovementRepository implements MovementRepository
var _ ledger.MovementRepository = (*GormMovementRepository)(nil)
