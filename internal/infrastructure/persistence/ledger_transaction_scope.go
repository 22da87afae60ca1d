package persistence

import (
	"context"

	"gorm.io/gorm"

	appledger "github.com/stockcore/backend/internal/application/ledger"
	"github.com/stockcore/backend/internal/domain/ledger"
)

// GormTransactionScope implements TransactionScope using GORM
// transactions. The balance update and the movement insert run against
// the same transaction handle and commit or roll back together.
type GormTransactionScope struct {
	db *gorm.DB
}

// NewGormTransactionScope creates a new GormTransactionScope
func NewGormTransactionScope(db *gorm.DB) *GormTransactionScope {
	return &GormTransactionScope{db: db}
}

// Execute runs the given function within a database transaction.
// If the function returns an error, the transaction is rolled back.
func (s *GormTransactionScope) Execute(ctx context.Context, fn func(repos appledger.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormTransactionalRepositories{tx: tx})
	})
}

// gormTransactionalRepositories provides repositories scoped to one transaction
type gormTransactionalRepositories struct {
	tx *gorm.DB
}

// ProductRepository returns the product repository scoped to the current transaction
func (r *gormTransactionalRepositories) ProductRepository() ledger.ProductRepository {
	return NewGormProductRepository(r.tx)
}

// MovementRepository returns the movement repository scoped to the current transaction
func (r *gormTransactionalRepositories) MovementRepository() ledger.MovementRepository {
	return NewGormMovementRepository(r.tx)
}

// Ensure GormTransactionScope implements TransactionScope
var _ appledger.TransactionScope = (*GormTransactionScope)(nil)

// Ensure gormTransactionalRepositories implements TransactionalRepositories
var _ appledger.TransactionalRepositories = (*gormTransactionalRepositories)(nil)
