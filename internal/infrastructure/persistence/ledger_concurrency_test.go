package persistence

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/stockcore/backend/internal/domain/shared"
)

// newMockProductRepo creates a repository against a mocked connection
// for exercising the optimistic locking SQL without a live database
func newMockProductRepo(t *testing.T) (*GormProductRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()

	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	dialector := postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	return NewGormProductRepository(gormDB), mock, mockDB
}

func TestSaveWithLock_OptimisticLocking(t *testing.T) {
	t.Run("updates and advances version when the row matches", func(t *testing.T) {
		repo, mock, mockDB := newMockProductRepo(t)
		defer mockDB.Close()

		product := createTestProduct(t, 1000)
		require.NoError(t, product.ApplyDelta(-100))

		mock.ExpectExec(`UPDATE "products" SET`).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.SaveWithLock(context.Background(), product)

		assert.NoError(t, err)
		assert.Equal(t, 2, product.Version)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns concurrency conflict when no row matches the version", func(t *testing.T) {
		repo, mock, mockDB := newMockProductRepo(t)
		defer mockDB.Close()

		product := createTestProduct(t, 1000)

		mock.ExpectExec(`UPDATE "products" SET`).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.SaveWithLock(context.Background(), product)

		assert.ErrorIs(t, err, shared.ErrConcurrencyConflict)
		assert.Equal(t, 1, product.Version, "version must not advance on conflict")
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("propagates database errors", func(t *testing.T) {
		repo, mock, mockDB := newMockProductRepo(t)
		defer mockDB.Close()

		product := createTestProduct(t, 1000)

		mock.ExpectExec(`UPDATE "products" SET`).
			WillReturnError(errors.New("connection reset"))

		err := repo.SaveWithLock(context.Background(), product)

		require.Error(t, err)
		assert.NotErrorIs(t, err, shared.ErrConcurrencyConflict)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
