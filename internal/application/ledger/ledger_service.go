package ledger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/stockcore/backend/internal/domain/ledger"
	"github.com/stockcore/backend/internal/domain/shared"
	"github.com/stockcore/backend/internal/infrastructure/telemetry"
)

// maxApplyAttempts bounds the optimistic-lock retry loop. When the loop
// is exhausted the caller receives a retryable CONTENTION error.
const maxApplyAttempts = 5

// retryBaseDelay is the backoff unit between optimistic retries
const retryBaseDelay = 10 * time.Millisecond

// LedgerMetrics records business metrics for applied movements.
// The telemetry package provides the OpenTelemetry implementation.
type LedgerMetrics interface {
	RecordMovementApplied(ctx context.Context, movementType ledger.MovementType, magnitude int64)
	RecordInsufficientStock(ctx context.Context)
	RecordContentionRetry(ctx context.Context)
}

// noopMetrics is used when no metrics sink is configured
type noopMetrics struct{}

func (noopMetrics) RecordMovementApplied(context.Context, ledger.MovementType, int64) {}
func (noopMetrics) RecordInsufficientStock(context.Context)                           {}
func (noopMetrics) RecordContentionRetry(context.Context)                             {}

// StockLedgerService is the single choke point for balance changes.
// Every quantity mutation goes through Apply, which atomically updates
// the product balance and appends the movement record.
type StockLedgerService struct {
	txScope     TransactionScope
	eventBus    shared.EventPublisher
	idempotency shared.IdempotencyStore
	idemConfig  shared.IdempotencyConfig
	metrics     LedgerMetrics
	logger      *zap.Logger
}

// StockLedgerOption configures optional service collaborators
type StockLedgerOption func(*StockLedgerService)

// WithIdempotencyStore enables reference deduplication
func WithIdempotencyStore(store shared.IdempotencyStore, cfg shared.IdempotencyConfig) StockLedgerOption {
	return func(s *StockLedgerService) {
		s.idempotency = store
		s.idemConfig = cfg
	}
}

// WithMetrics sets the metrics sink
func WithMetrics(metrics LedgerMetrics) StockLedgerOption {
	return func(s *StockLedgerService) {
		s.metrics = metrics
	}
}

// NewStockLedgerService creates the ledger service
func NewStockLedgerService(
	txScope TransactionScope,
	eventBus shared.EventPublisher,
	logger *zap.Logger,
	opts ...StockLedgerOption,
) *StockLedgerService {
	s := &StockLedgerService{
		txScope:  txScope,
		eventBus: eventBus,
		metrics:  noopMetrics{},
		logger:   logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Apply validates, converts and books one movement. The balance update
// and the movement insert commit in one transaction; any error leaves
// both unchanged. Concurrent applies against the same product serialize
// through the optimistic version check with bounded retries.
func (s *StockLedgerService) Apply(ctx context.Context, req ApplyMovementRequest) (*MovementResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "stock_ledger", "apply",
		telemetry.WithAttribute("product_id", req.ProductID.String()),
		telemetry.WithAttribute("movement_type", req.MovementType.String()),
	)
	defer span.End()

	claimed, err := s.claimReference(ctx, req)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	var applied *ledger.StockMovement
	var events []shared.DomainEvent

	for attempt := 1; attempt <= maxApplyAttempts; attempt++ {
		err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
			movement, pending, txErr := s.applyOnce(ctx, repos, req)
			if txErr != nil {
				return txErr
			}
			applied = movement
			events = pending
			return nil
		})
		if err == nil {
			break
		}
		if !errors.Is(err, shared.ErrConcurrencyConflict) {
			if errors.Is(err, shared.ErrInsufficientStock) {
				s.metrics.RecordInsufficientStock(ctx)
			}
			s.releaseClaim(ctx, req, claimed)
			telemetry.RecordError(span, err)
			return nil, err
		}

		s.metrics.RecordContentionRetry(ctx)
		if attempt == maxApplyAttempts {
			s.logger.Warn("movement apply exhausted optimistic retries",
				zap.String("product_id", req.ProductID.String()),
				zap.String("movement_type", req.MovementType.String()),
			)
			s.releaseClaim(ctx, req, claimed)
			telemetry.RecordError(span, shared.ErrContention)
			return nil, shared.ErrContention
		}
		if err := sleepWithContext(ctx, time.Duration(attempt)*retryBaseDelay); err != nil {
			s.releaseClaim(ctx, req, claimed)
			return nil, shared.ErrContention
		}
	}

	s.publishEvents(ctx, applied, events)
	s.metrics.RecordMovementApplied(ctx, applied.MovementType, applied.Magnitude())
	telemetry.SetAttributes(span,
		"movement_id", applied.ID.String(),
		"quantity_after", applied.QuantityAfter,
	)

	s.logger.Info("movement applied",
		zap.String("movement_id", applied.ID.String()),
		zap.String("product_id", applied.ProductID.String()),
		zap.String("movement_type", applied.MovementType.String()),
		zap.Int64("quantity_change", applied.QuantityChange),
		zap.Int64("quantity_after", applied.QuantityAfter),
	)
	return toMovementResponse(applied), nil
}

// applyOnce performs one read-convert-mutate-write pass inside a
// transaction. A version conflict on save surfaces as
// CONCURRENCY_CONFLICT and triggers a retry in Apply.
func (s *StockLedgerService) applyOnce(
	ctx context.Context,
	repos TransactionalRepositories,
	req ApplyMovementRequest,
) (*ledger.StockMovement, []shared.DomainEvent, error) {
	product, err := repos.ProductRepository().FindByID(ctx, req.ProductID)
	if err != nil {
		return nil, nil, err
	}

	delta, err := movementDelta(req, product)
	if err != nil {
		return nil, nil, err
	}

	before := product.StockQuantity
	if err := product.ApplyDelta(delta); err != nil {
		return nil, nil, err
	}

	movement, err := ledger.NewStockMovement(product.ID, req.MovementType, delta, before, req.Unit)
	if err != nil {
		return nil, nil, err
	}
	movement.WithReason(req.Reason).WithReference(req.Reference)
	if req.ActorID != nil {
		movement.WithActor(*req.ActorID)
	}

	if err := repos.ProductRepository().SaveWithLock(ctx, product); err != nil {
		return nil, nil, err
	}
	if err := repos.MovementRepository().Create(ctx, movement); err != nil {
		return nil, nil, err
	}

	events := append([]shared.DomainEvent{ledger.NewStockAppliedEvent(movement)}, product.GetDomainEvents()...)
	product.ClearDomainEvents()
	return movement, events, nil
}

// BulkApply books each request independently and atomically, in
// submission order. A failure never rolls back earlier requests; the
// caller receives a per-request outcome for partial-success reporting.
func (s *StockLedgerService) BulkApply(ctx context.Context, reqs []ApplyMovementRequest) []BulkApplyResult {
	results := make([]BulkApplyResult, 0, len(reqs))
	for i, req := range reqs {
		movement, err := s.Apply(ctx, req)
		result := BulkApplyResult{Index: i, Movement: movement}
		if err != nil {
			result.Error = asDomainError(err)
		}
		results = append(results, result)
	}
	return results
}

// movementDelta derives the signed base-unit delta for a request.
// Adjustment keeps the caller's sign; every other type imposes its own
// direction on a positive magnitude.
func movementDelta(req ApplyMovementRequest, product *ledger.Product) (int64, error) {
	if !req.MovementType.IsValid() {
		return 0, shared.NewDomainError("INVALID_INPUT", "Invalid movement type: "+req.MovementType.String())
	}

	if req.MovementType == ledger.MovementAdjustment {
		magnitude := req.Quantity
		sign := int64(1)
		if magnitude < 0 {
			magnitude = -magnitude
			sign = -1
		}
		base, err := ledger.ToBaseUnits(magnitude, req.Unit, product)
		if err != nil {
			return 0, err
		}
		return sign * base, nil
	}

	base, err := ledger.ToBaseUnits(req.Quantity, req.Unit, product)
	if err != nil {
		return 0, err
	}
	return req.MovementType.Sign() * base, nil
}

// claimReference atomically claims the request's reference before any
// state change, so two concurrent submissions of the same document
// cannot both pass a check-then-mark window. Returns whether a claim
// is held; the claim is handed back through releaseClaim if the apply
// fails, keeping the reference submittable.
func (s *StockLedgerService) claimReference(ctx context.Context, req ApplyMovementRequest) (bool, error) {
	if s.idempotency == nil || !s.idemConfig.Enabled || req.Reference == "" {
		return false, nil
	}
	fresh, err := s.idempotency.MarkProcessed(ctx, referenceKey(req), s.idemConfig.TTL)
	if err != nil {
		// A degraded store must not block stock operations
		s.logger.Warn("idempotency claim failed, continuing without deduplication", zap.Error(err))
		return false, nil
	}
	if !fresh {
		return false, shared.ErrDuplicateReference
	}
	return true, nil
}

func (s *StockLedgerService) releaseClaim(ctx context.Context, req ApplyMovementRequest, claimed bool) {
	if !claimed {
		return
	}
	if err := s.idempotency.Release(ctx, referenceKey(req)); err != nil {
		s.logger.Warn("failed to release claimed reference", zap.Error(err))
	}
}

func referenceKey(req ApplyMovementRequest) string {
	return fmt.Sprintf("%s:%s", req.ProductID, req.Reference)
}

func (s *StockLedgerService) publishEvents(ctx context.Context, movement *ledger.StockMovement, events []shared.DomainEvent) {
	if s.eventBus == nil || len(events) == 0 {
		return
	}
	if err := s.eventBus.Publish(ctx, events...); err != nil {
		s.logger.Error("failed to publish ledger events",
			zap.String("movement_id", movement.ID.String()),
			zap.Error(err),
		)
	}
}

func asDomainError(err error) *shared.DomainError {
	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		return domainErr
	}
	return shared.NewDomainError("INTERNAL_ERROR", err.Error())
}

func sleepWithContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
