package ledger

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/stockcore/backend/internal/domain/ledger"
	"github.com/stockcore/backend/internal/domain/shared"
)

// fakeProductRepository keeps products in memory with the same
// version-checked save semantics as the GORM repository
type fakeProductRepository struct {
	mu       sync.Mutex
	products map[uuid.UUID]ledger.Product

	// forcedConflicts makes the next N SaveWithLock calls fail with a
	// concurrency conflict regardless of versions
	forcedConflicts int
}

func newFakeProductRepository() *fakeProductRepository {
	return &fakeProductRepository{products: make(map[uuid.UUID]ledger.Product)}
}

func (r *fakeProductRepository) FindByID(_ context.Context, id uuid.UUID) (*ledger.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	product, ok := r.products[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	copied := product
	return &copied, nil
}

func (r *fakeProductRepository) FindBySKU(_ context.Context, sku string) (*ledger.Product, error) {
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

func (r *fakeProductRepository) FindAll(_ context.Context, filter shared.Filter) ([]ledger.Product, error) {
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

func (r *fakeProductRepository) Count(_ context.Context, _ shared.Filter) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.products)), nil
}

func (r *fakeProductRepository) Save(_ context.Context, product *ledger.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.products[product.ID] = *product
	return nil
}

func (r *fakeProductRepository) SaveWithLock(_ context.Context, product *ledger.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.forcedConflicts > 0 {
		r.forcedConflicts--
		return shared.ErrConcurrencyConflict
	}
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

var _ ledger.ProductRepository = (*fakeProductRepository)(nil)

// fakeMovementRepository is an in-memory append-only movement log
type fakeMovementRepository struct {
	mu        sync.Mutex
	movements []ledger.StockMovement
}

func newFakeMovementRepository() *fakeMovementRepository {
	return &fakeMovementRepository{}
}

func (r *fakeMovementRepository) Create(_ context.Context, movement *ledger.StockMovement) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.movements = append(r.movements, *movement)
	return nil
}

func (r *fakeMovementRepository) FindByID(_ context.Context, id uuid.UUID) (*ledger.StockMovement, error) {
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

func (r *fakeMovementRepository) matching(filter ledger.MovementFilter) []ledger.StockMovement {
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

func (r *fakeMovementRepository) FindAll(_ context.Context, filter ledger.MovementFilter) ([]ledger.StockMovement, error) {
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

func (r *fakeMovementRepository) Count(_ context.Context, filter ledger.MovementFilter) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.matching(filter))), nil
}

func (r *fakeMovementRepository) SummarizeByType(_ context.Context, filter ledger.MovementFilter) ([]ledger.MovementSummary, error) {
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

var _ ledger.MovementRepository = (*fakeMovementRepository)(nil)

// fakeEventBus records every published event
type fakeEventBus struct {
	mu     sync.Mutex
	events []shared.DomainEvent
}

func (b *fakeEventBus) Publish(_ context.Context, events ...shared.DomainEvent) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, events...)
	return nil
}

func (b *fakeEventBus) published() []shared.DomainEvent {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]shared.DomainEvent(nil), b.events...)
}

// fakeIdempotencyStore is a map-backed reference store
type fakeIdempotencyStore struct {
	mu   sync.Mutex
	seen map[string]bool
}

func newFakeIdempotencyStore() *fakeIdempotencyStore {
	return &fakeIdempotencyStore{seen: make(map[string]bool)}
}

func (s *fakeIdempotencyStore) MarkProcessed(_ context.Context, reference string, _ time.Duration) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.seen[reference] {
		return false, nil
	}
	s.seen[reference] = true
	return true, nil
}

func (s *fakeIdempotencyStore) IsProcessed(_ context.Context, reference string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.seen[reference], nil
}

func (s *fakeIdempotencyStore) Release(_ context.Context, reference string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.seen, reference)
	return nil
}

func (s *fakeIdempotencyStore) Close() error { return nil }
