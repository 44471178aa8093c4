package persistence

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/brokerage/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// newMockGateway creates a GormGateway with a mocked SQL connection
func newMockGateway(t *testing.T) (*GormGateway, sqlmock.Sqlmock, *sql.DB) {
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

	return NewGormGateway(gormDB), mock, mockDB
}

func TestGormGateway_GetByKey(t *testing.T) {
	t.Run("returns the row when present", func(t *testing.T) {
		gateway, mock, mockDB := newMockGateway(t)
		defer mockDB.Close()

		rows := sqlmock.NewRows([]string{"id", "title", "state"}).
			AddRow("prop-1", "Sunny apartment", "CAPTURED")

		mock.ExpectQuery(`SELECT \* FROM "properties" WHERE id = \$1`).
			WithArgs("prop-1", 1).
			WillReturnRows(rows)

		row, err := gateway.GetByKey(context.Background(), "properties", "id", "prop-1")
		require.NoError(t, err)
		require.NotNil(t, row)
		assert.Equal(t, "Sunny apartment", row["title"])
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns nil when absent", func(t *testing.T) {
		gateway, mock, mockDB := newMockGateway(t)
		defer mockDB.Close()

		mock.ExpectQuery(`SELECT \* FROM "properties" WHERE id = \$1`).
			WithArgs("missing", 1).
			WillReturnError(gorm.ErrRecordNotFound)

		row, err := gateway.GetByKey(context.Background(), "properties", "id", "missing")
		require.NoError(t, err)
		assert.Nil(t, row)
	})

	t.Run("wraps driver failures as upstream failures", func(t *testing.T) {
		gateway, mock, mockDB := newMockGateway(t)
		defer mockDB.Close()

		mock.ExpectQuery(`SELECT \* FROM "properties" WHERE id = \$1`).
			WithArgs("prop-1", 1).
			WillReturnError(sql.ErrConnDone)

		_, err := gateway.GetByKey(context.Background(), "properties", "id", "prop-1")
		require.Error(t, err)
		assert.True(t, shared.IsCode(err, shared.CodeUpstreamFailure))
	})
}

func TestGormGateway_Filter(t *testing.T) {
	t.Run("applies predicates, order and range", func(t *testing.T) {
		gateway, mock, mockDB := newMockGateway(t)
		defer mockDB.Close()

		rows := sqlmock.NewRows([]string{"id", "state"}).
			AddRow("prop-1", "PUBLISHED").
			AddRow("prop-2", "PUBLISHED")

		mock.ExpectQuery(`SELECT \* FROM "properties" WHERE state = \$1 ORDER BY capture_date DESC LIMIT \$2`).
			WithArgs("PUBLISHED", 2).
			WillReturnRows(rows)

		result, err := gateway.Filter(context.Background(), "properties", shared.Query{
			Predicates: []shared.Predicate{shared.Eq("state", "PUBLISHED")},
			Order:      []shared.Order{{Field: "capture_date", Desc: true}},
			Limit:      2,
		})
		require.NoError(t, err)
		assert.Len(t, result, 2)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormGateway_Count(t *testing.T) {
	gateway, mock, mockDB := newMockGateway(t)
	defer mockDB.Close()

	mock.ExpectQuery(`SELECT count\(\*\) FROM "contracts" WHERE property_id = \$1`).
		WithArgs("prop-1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))

	count, err := gateway.Count(context.Background(), "contracts", []shared.Predicate{
		shared.Eq("property_id", "prop-1"),
	})
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)
}

func TestGormGateway_Update(t *testing.T) {
	t.Run("returns nil for absent row without writing", func(t *testing.T) {
		gateway, mock, mockDB := newMockGateway(t)
		defer mockDB.Close()

		mock.ExpectQuery(`SELECT \* FROM "properties" WHERE id = \$1`).
			WithArgs("missing", 1).
			WillReturnError(gorm.ErrRecordNotFound)

		row, err := gateway.Update(context.Background(), "properties", "id", "missing", shared.Row{"title": "x"})
		require.NoError(t, err)
		assert.Nil(t, row)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormGateway_Delete(t *testing.T) {
	t.Run("returns previous row contents", func(t *testing.T) {
		gateway, mock, mockDB := newMockGateway(t)
		defer mockDB.Close()

		mock.ExpectQuery(`SELECT \* FROM "addresses" WHERE id = \$1`).
			WithArgs("addr-1", 1).
			WillReturnRows(sqlmock.NewRows([]string{"id", "street"}).AddRow("addr-1", "Main St"))
		mock.ExpectExec(`DELETE FROM "addresses" WHERE id = \$1`).
			WithArgs("addr-1").
			WillReturnResult(sqlmock.NewResult(0, 1))

		row, err := gateway.Delete(context.Background(), "addresses", "id", "addr-1")
		require.NoError(t, err)
		require.NotNil(t, row)
		assert.Equal(t, "Main St", row["street"])
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns nil for absent row", func(t *testing.T) {
		gateway, mock, mockDB := newMockGateway(t)
		defer mockDB.Close()

		mock.ExpectQuery(`SELECT \* FROM "addresses" WHERE id = \$1`).
			WithArgs("missing", 1).
			WillReturnError(gorm.ErrRecordNotFound)

		row, err := gateway.Delete(context.Background(), "addresses", "id", "missing")
		require.NoError(t, err)
		assert.Nil(t, row)
	})
}
