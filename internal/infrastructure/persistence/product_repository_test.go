package persistence

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/pricecraft/backend/internal/domain/shared"
)

// newMockProductRepository creates a GormProductRepository with a mocked SQL connection
func newMockProductRepository(t *testing.T) (*GormProductRepository, sqlmock.Sqlmock, *sql.DB) {
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

func productRows(productID, ownerID uuid.UUID) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "owner_id", "product_code", "name", "selling_price", "profit_margin"}).
		AddRow(productID, ownerID, "KUE001", "Kue Lapis", decimal.NewFromInt(210000), decimal.NewFromInt(20))
}

func TestGormProductRepository_FindByIDForOwner(t *testing.T) {
	t.Run("finds product within owner catalog", func(t *testing.T) {
		repo, mock, mockDB := newMockProductRepository(t)
		defer mockDB.Close()

		productID := uuid.New()
		ownerID := uuid.New()

		mock.ExpectQuery(`SELECT \* FROM "products" WHERE owner_id = \$1 AND id = \$2 ORDER BY .* LIMIT .*`).
			WithArgs(ownerID, productID, 1).
			WillReturnRows(productRows(productID, ownerID))

		product, err := repo.FindByIDForOwner(context.Background(), ownerID, productID)

		require.NoError(t, err)
		assert.Equal(t, productID, product.ID)
		assert.Equal(t, ownerID, product.OwnerID)
		assert.Equal(t, "KUE001", product.ProductCode)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing product maps to not found", func(t *testing.T) {
		repo, mock, mockDB := newMockProductRepository(t)
		defer mockDB.Close()

		productID := uuid.New()
		ownerID := uuid.New()

		mock.ExpectQuery(`SELECT \* FROM "products" WHERE owner_id = \$1 AND id = \$2 ORDER BY .* LIMIT .*`).
			WithArgs(ownerID, productID, 1).
			WillReturnError(gorm.ErrRecordNotFound)

		product, err := repo.FindByIDForOwner(context.Background(), ownerID, productID)

		assert.Nil(t, product)
		assert.Equal(t, shared.ErrNotFound, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormProductRepository_FindByCodeForOwner(t *testing.T) {
	t.Run("uppercases the code before querying", func(t *testing.T) {
		repo, mock, mockDB := newMockProductRepository(t)
		defer mockDB.Close()

		productID := uuid.New()
		ownerID := uuid.New()

		mock.ExpectQuery(`SELECT \* FROM "products" WHERE owner_id = \$1 AND product_code = \$2 ORDER BY .* LIMIT .*`).
			WithArgs(ownerID, "KUE001", 1).
			WillReturnRows(productRows(productID, ownerID))

		product, err := repo.FindByCodeForOwner(context.Background(), ownerID, "kue001")

		require.NoError(t, err)
		assert.Equal(t, "KUE001", product.ProductCode)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormProductRepository_FindAllForOwner(t *testing.T) {
	t.Run("applies pagination and default ordering", func(t *testing.T) {
		repo, mock, mockDB := newMockProductRepository(t)
		defer mockDB.Close()

		ownerID := uuid.New()

		mock.ExpectQuery(`SELECT \* FROM "products" WHERE owner_id = \$1 ORDER BY created_at DESC LIMIT .*`).
			WithArgs(ownerID, 20).
			WillReturnRows(productRows(uuid.New(), ownerID))

		products, err := repo.FindAllForOwner(context.Background(), ownerID, shared.DefaultFilter())

		require.NoError(t, err)
		assert.Len(t, products, 1)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("search matches name and code case-insensitively", func(t *testing.T) {
		repo, mock, mockDB := newMockProductRepository(t)
		defer mockDB.Close()

		ownerID := uuid.New()
		filter := shared.DefaultFilter()
		filter.Search = "Kue"

		mock.ExpectQuery(`SELECT \* FROM "products" WHERE owner_id = \$1 AND \(LOWER\(name\) LIKE \$2 OR LOWER\(product_code\) LIKE \$3\) ORDER BY created_at DESC LIMIT .*`).
			WithArgs(ownerID, "%kue%", "%kue%", 20).
			WillReturnRows(productRows(uuid.New(), ownerID))

		products, err := repo.FindAllForOwner(context.Background(), ownerID, filter)

		require.NoError(t, err)
		assert.Len(t, products, 1)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("unknown sort column falls back to created_at", func(t *testing.T) {
		repo, mock, mockDB := newMockProductRepository(t)
		defer mockDB.Close()

		ownerID := uuid.New()
		filter := shared.DefaultFilter()
		filter.OrderBy = "selling_price; DROP TABLE products"

		mock.ExpectQuery(`SELECT \* FROM "products" WHERE owner_id = \$1 ORDER BY created_at DESC LIMIT .*`).
			WithArgs(ownerID, 20).
			WillReturnRows(productRows(uuid.New(), ownerID))

		_, err := repo.FindAllForOwner(context.Background(), ownerID, filter)

		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormProductRepository_DeleteForOwner(t *testing.T) {
	t.Run("deletes existing product", func(t *testing.T) {
		repo, mock, mockDB := newMockProductRepository(t)
		defer mockDB.Close()

		productID := uuid.New()
		ownerID := uuid.New()

		mock.ExpectExec(`DELETE FROM "products" WHERE owner_id = \$1 AND id = \$2`).
			WithArgs(ownerID, productID).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.DeleteForOwner(context.Background(), ownerID, productID)

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("deleting an absent product is not an error", func(t *testing.T) {
		repo, mock, mockDB := newMockProductRepository(t)
		defer mockDB.Close()

		productID := uuid.New()
		ownerID := uuid.New()

		mock.ExpectExec(`DELETE FROM "products" WHERE owner_id = \$1 AND id = \$2`).
			WithArgs(ownerID, productID).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.DeleteForOwner(context.Background(), ownerID, productID)

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormProductRepository_ExistsByCode(t *testing.T) {
	repo, mock, mockDB := newMockProductRepository(t)
	defer mockDB.Close()

	ownerID := uuid.New()

	mock.ExpectQuery(`SELECT count\(\*\) FROM "products" WHERE owner_id = \$1 AND product_code = \$2`).
		WithArgs(ownerID, "KUE001").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	exists, err := repo.ExistsByCode(context.Background(), ownerID, "kue001")

	require.NoError(t, err)
	assert.True(t, exists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormProductRepository_StatsForOwner(t *testing.T) {
	t.Run("aggregates catalog statistics", func(t *testing.T) {
		repo, mock, mockDB := newMockProductRepository(t)
		defer mockDB.Close()

		ownerID := uuid.New()
		latest := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)

		rows := sqlmock.NewRows([]string{"count", "avg_selling_price", "avg_profit_margin", "total_value", "latest_created_at"}).
			AddRow(3, decimal.NewFromInt(150000), decimal.NewFromInt(25), decimal.NewFromInt(450000), latest)

		mock.ExpectQuery(`SELECT COUNT\(\*\) AS count, AVG\(selling_price\) AS avg_selling_price, AVG\(profit_margin\) AS avg_profit_margin, SUM\(selling_price\) AS total_value, MAX\(created_at\) AS latest_created_at FROM "products" WHERE owner_id = \$1`).
			WithArgs(ownerID).
			WillReturnRows(rows)

		stats, err := repo.StatsForOwner(context.Background(), ownerID)

		require.NoError(t, err)
		assert.Equal(t, int64(3), stats.Count)
		assert.True(t, stats.AvgSellingPrice.Equal(decimal.NewFromInt(150000)))
		assert.True(t, stats.TotalCatalogValue.Equal(decimal.NewFromInt(450000)))
		require.NotNil(t, stats.LatestProductAtUTC)
		assert.Equal(t, latest.Unix(), *stats.LatestProductAtUTC)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("empty catalog yields zero values", func(t *testing.T) {
		repo, mock, mockDB := newMockProductRepository(t)
		defer mockDB.Close()

		ownerID := uuid.New()

		rows := sqlmock.NewRows([]string{"count", "avg_selling_price", "avg_profit_margin", "total_value", "latest_created_at"}).
			AddRow(0, nil, nil, nil, nil)

		mock.ExpectQuery(`SELECT COUNT\(\*\) AS count, .* FROM "products" WHERE owner_id = \$1`).
			WithArgs(ownerID).
			WillReturnRows(rows)

		stats, err := repo.StatsForOwner(context.Background(), ownerID)

		require.NoError(t, err)
		assert.Equal(t, int64(0), stats.Count)
		assert.True(t, stats.AvgSellingPrice.IsZero())
		assert.Nil(t, stats.LatestProductAtUTC)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
