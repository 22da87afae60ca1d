package ledger

import (
	"context"

	"github.com/stockcore/backend/internal/domain/ledger"
)

// TransactionalRepositories exposes the repositories participating in a
// ledger transaction. The balance update and the movement insert must
// commit together or not at all.
type TransactionalRepositories interface {
	ProductRepository() ledger.ProductRepository
	MovementRepository() ledger.MovementRepository
}

// TransactionScope executes a function within a database transaction
type TransactionScope interface {
	// Execute runs fn inside a transaction. If fn returns an error the
	// transaction is rolled back, otherwise it is committed.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// StaticRepositories is a simple TransactionalRepositories backed by
// fixed repository instances
type StaticRepositories struct {
	Products  ledger.ProductRepository
	Movements ledger.MovementRepository
}

// ProductRepository returns the product repository
func (r StaticRepositories) ProductRepository() ledger.ProductRepository {
	return r.Products
}

// MovementRepository returns the movement repository
func (r StaticRepositories) MovementRepository() ledger.MovementRepository {
	return r.Movements
}

// NoOpTransactionScope runs the function without a real transaction.
// Used in tests and for storage backends without transaction support.
type NoOpTransactionScope struct {
	repos TransactionalRepositories
}

// NewNoOpTransactionScope creates a no-op transaction scope
func NewNoOpTransactionScope(repos TransactionalRepositories) *NoOpTransactionScope {
	return &NoOpTransactionScope{repos: repos}
}

// Execute runs the function directly without transaction semantics
func (s *NoOpTransactionScope) Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s.repos)
}

// Ensure NoOpTransactionScope implements TransactionScope
var _ TransactionScope = (*NoOpTransactionScope)(nil)
