package persistence

import (
	"context"
	"testing"

	"github.com/brokerage/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryGateway_SingleRowOps(t *testing.T) {
	ctx := context.Background()

	t.Run("get by key returns nil for absent row", func(t *testing.T) {
		g := NewMemoryGateway()
		row, err := g.GetByKey(ctx, "properties", "id", "missing")
		require.NoError(t, err)
		assert.Nil(t, row)
	})

	t.Run("insert then get", func(t *testing.T) {
		g := NewMemoryGateway()
		_, err := g.Insert(ctx, "properties", shared.Row{"id": "p1", "title": "A"})
		require.NoError(t, err)

		row, err := g.GetByKey(ctx, "properties", "id", "p1")
		require.NoError(t, err)
		require.NotNil(t, row)
		assert.Equal(t, "A", row["title"])
	})

	t.Run("update patches only given fields", func(t *testing.T) {
		g := NewMemoryGateway()
		_, err := g.Insert(ctx, "properties", shared.Row{"id": "p1", "title": "A", "state": "CAPTURED"})
		require.NoError(t, err)

		row, err := g.Update(ctx, "properties", "id", "p1", shared.Row{"title": "B"})
		require.NoError(t, err)
		require.NotNil(t, row)
		assert.Equal(t, "B", row["title"])
		assert.Equal(t, "CAPTURED", row["state"])
	})

	t.Run("update of absent row returns nil", func(t *testing.T) {
		g := NewMemoryGateway()
		row, err := g.Update(ctx, "properties", "id", "missing", shared.Row{"title": "B"})
		require.NoError(t, err)
		assert.Nil(t, row)
	})

	t.Run("delete returns previous contents and removes the row", func(t *testing.T) {
		g := NewMemoryGateway()
		_, err := g.Insert(ctx, "properties", shared.Row{"id": "p1", "title": "A"})
		require.NoError(t, err)

		row, err := g.Delete(ctx, "properties", "id", "p1")
		require.NoError(t, err)
		require.NotNil(t, row)
		assert.Equal(t, "A", row["title"])

		again, err := g.Delete(ctx, "properties", "id", "p1")
		require.NoError(t, err)
		assert.Nil(t, again)
	})

	t.Run("returned rows are copies", func(t *testing.T) {
		g := NewMemoryGateway()
		_, err := g.Insert(ctx, "properties", shared.Row{"id": "p1", "title": "A"})
		require.NoError(t, err)

		row, err := g.GetByKey(ctx, "properties", "id", "p1")
		require.NoError(t, err)
		row["title"] = "mutated"

		fresh, err := g.GetByKey(ctx, "properties", "id", "p1")
		require.NoError(t, err)
		assert.Equal(t, "A", fresh["title"])
	})
}

func TestMemoryGateway_Filter(t *testing.T) {
	ctx := context.Background()
	g := NewMemoryGateway()

	seed := []shared.Row{
		{"id": "p1", "state": "PUBLISHED", "list_price": 100.0, "capture_date": "2026-01-03"},
		{"id": "p2", "state": "CAPTURED", "list_price": 300.0, "capture_date": "2026-01-01"},
		{"id": "p3", "state": "PUBLISHED", "list_price": 200.0, "capture_date": "2026-01-02"},
	}
	for _, row := range seed {
		_, err := g.Insert(ctx, "properties", row)
		require.NoError(t, err)
	}

	t.Run("equality predicate", func(t *testing.T) {
		rows, err := g.Filter(ctx, "properties", shared.Query{
			Predicates: []shared.Predicate{shared.Eq("state", "PUBLISHED")},
		})
		require.NoError(t, err)
		assert.Len(t, rows, 2)
	})

	t.Run("range predicates on numbers", func(t *testing.T) {
		rows, err := g.Filter(ctx, "properties", shared.Query{
			Predicates: []shared.Predicate{
				shared.Gte("list_price", 150.0),
				shared.Lte("list_price", 250.0),
			},
		})
		require.NoError(t, err)
		require.Len(t, rows, 1)
		assert.Equal(t, "p3", rows[0]["id"])
	})

	t.Run("range predicate on ISO dates compares correctly", func(t *testing.T) {
		rows, err := g.Filter(ctx, "properties", shared.Query{
			Predicates: []shared.Predicate{shared.Lt("capture_date", "2026-01-03")},
		})
		require.NoError(t, err)
		assert.Len(t, rows, 2)
	})

	t.Run("ordering and pagination", func(t *testing.T) {
		rows, err := g.Filter(ctx, "properties", shared.Query{
			Order:  []shared.Order{{Field: "capture_date", Desc: true}},
			Offset: 1,
			Limit:  1,
		})
		require.NoError(t, err)
		require.Len(t, rows, 1)
		assert.Equal(t, "p3", rows[0]["id"])
	})

	t.Run("ilike matches substrings case-insensitively", func(t *testing.T) {
		_, err := g.Insert(ctx, "clients", shared.Row{"ci": "1", "preferred_zone": "Equipetrol Norte"})
		require.NoError(t, err)

		rows, err := g.Filter(ctx, "clients", shared.Query{
			Predicates: []shared.Predicate{shared.ILike("preferred_zone", "equipetrol")},
		})
		require.NoError(t, err)
		assert.Len(t, rows, 1)
	})

	t.Run("count", func(t *testing.T) {
		count, err := g.Count(ctx, "properties", []shared.Predicate{shared.Eq("state", "PUBLISHED")})
		require.NoError(t, err)
		assert.Equal(t, int64(2), count)
	})
}
