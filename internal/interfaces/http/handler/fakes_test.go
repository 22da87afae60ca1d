package handler

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/stockcore/backend/internal/domain/ledger"
	"github.com/stockcore/backend/internal/domain/shared"
)

// memProductRepository keeps products in memory with version-checked
// save semantics, enough to drive the services under the handlers
type memProductRepository struct {
	mu       sync.Mutex
	products map[uuid.UUID]ledger.Product
}

func newMemProductRepository() *memProductRepository {
	return &memProductRepository{products: make(map[uuid.UUID]ledger.Product)}
}

func (r *memProductRepository) FindByID(_ context.Context, id uuid.UUID) (*ledger.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	product, ok := r.products[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	copied := product
	return &copied, nil
}

func (r *memProductRepository) FindBySKU(_ context.Context, sku string) (*ledger.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, product := range r.products {
		if product.SKU == sku {
			copied := product
			return &copied, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *memProductRepository) FindAll(_ context.Context, filter shared.Filter) ([]ledger.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	all := make([]ledger.Product, 0, len(r.products))
	for _, product := range r.products {
		all = append(all, product)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].SKU < all[j].SKU })

	start := (filter.Page - 1) * filter.PageSize
	if start >= len(all) {
		return nil, nil
	}
	end := start + filter.PageSize
	if end > len(all) {
		end = len(all)
	}
	return all[start:end], nil
}

func (r *memProductRepository) Count(_ context.Context, _ shared.Filter) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.products)), nil
}

func (r *memProductRepository) Save(_ context.Context, product *ledger.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.products[product.ID] = *product
	return nil
}

func (r *memProductRepository) SaveWithLock(_ context.Context, product *ledger.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.products[product.ID]
	if !ok {
		return shared.ErrNotFound
	}
	if stored.Version != product.Version {
		return shared.ErrConcurrencyConflict
	}
	product.IncrementVersion()
	r.products[product.ID] = *product
	return nil
}

var _ ledger.ProductRepository = (*memProductRepository)(nil)

// memMovementRepository is an in-memory append-only movement log
type memMovementRepository struct {
	mu        sync.Mutex
	movements []ledger.StockMovement
}

func newMemMovementRepository() *memMovementRepository {
	return &memMovementRepository{}
}

func (r *memMovementRepository) Create(_ context.Context, movement *ledger.StockMovement) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.movements = append(r.movements, *movement)
	return nil
}

func (r *memMovementRepository) FindByID(_ context.Context, id uuid.UUID) (*ledger.StockMovement, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, movement := range r.movements {
		if movement.ID == id {
			copied := movement
			return &copied, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *memMovementRepository) matching(filter ledger.MovementFilter) []ledger.StockMovement {
	matched := make([]ledger.StockMovement, 0, len(r.movements))
	for _, movement := range r.movements {
		if filter.ProductID != nil && movement.ProductID != *filter.ProductID {
			continue
		}
		if filter.MovementType != nil && movement.MovementType != *filter.MovementType {
			continue
		}
		if filter.DateFrom != nil && movement.CreatedAt.Before(*filter.DateFrom) {
			continue
		}
		if filter.DateTo != nil && movement.CreatedAt.After(*filter.DateTo) {
			continue
		}
		matched = append(matched, movement)
	}
	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})
	return matched
}

func (r *memMovementRepository) FindAll(_ context.Context, filter ledger.MovementFilter) ([]ledger.StockMovement, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	matched := r.matching(filter)

	start := (filter.Page - 1) * filter.PageSize
	if start >= len(matched) {
		return nil, nil
	}
	end := start + filter.PageSize
	if end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], nil
}

func (r *memMovementRepository) Count(_ context.Context, filter ledger.MovementFilter) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.matching(filter))), nil
}

func (r *memMovementRepository) SummarizeByType(_ context.Context, filter ledger.MovementFilter) ([]ledger.MovementSummary, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	byType := make(map[ledger.MovementType]*ledger.MovementSummary)
	for _, movement := range r.matching(filter) {
		summary, ok := byType[movement.MovementType]
		if !ok {
			summary = &ledger.MovementSummary{MovementType: movement.MovementType}
			byType[movement.MovementType] = summary
		}
		summary.Count++
		summary.TotalQuantity += movement.Magnitude()
	}

	summaries := make([]ledger.MovementSummary, 0, len(byType))
	for _, summary := range byType {
		summaries = append(summaries, *summary)
	}
	return summaries, nil
}

var _ ledger.MovementRepository = (*memMovementRepository)(nil)
