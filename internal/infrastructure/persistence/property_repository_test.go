package persistence

import (
	"context"
	"testing"

	"github.com/brokerage/backend/internal/domain/listing"
	"github.com/brokerage/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPropertyRepository(t *testing.T) {
	ctx := context.Background()

	newRepo := func(t *testing.T) (*PropertyRepository, *MemoryGateway) {
		g := NewMemoryGateway()
		return NewPropertyRepository(g), g
	}

	t.Run("insert then find round-trips the property", func(t *testing.T) {
		repo, _ := newRepo(t)

		property, err := listing.NewProperty("Sunny apartment", listing.OperationSale, "1234567", "adv-1")
		require.NoError(t, err)
		price := decimal.NewFromInt(120000)
		property.ListPrice = &price

		require.NoError(t, repo.Insert(ctx, property))

		found, err := repo.FindByID(ctx, property.ID)
		require.NoError(t, err)
		require.NotNil(t, found)
		assert.Equal(t, property.Title, found.Title)
		assert.Equal(t, listing.PropertyStateCaptured, found.State)
		require.NotNil(t, found.ListPrice)
		assert.True(t, found.ListPrice.Equal(price))
		require.NotNil(t, found.CaptureDate)
	})

	t.Run("find by id returns nil when absent", func(t *testing.T) {
		repo, _ := newRepo(t)
		found, err := repo.FindByID(ctx, "missing")
		require.NoError(t, err)
		assert.Nil(t, found)
	})

	t.Run("find by public code", func(t *testing.T) {
		repo, _ := newRepo(t)

		property, err := listing.NewProperty("Sunny apartment", listing.OperationSale, "1234567", "adv-1")
		require.NoError(t, err)
		code := "PROP-001"
		property.PublicCode = &code
		require.NoError(t, repo.Insert(ctx, property))

		found, err := repo.FindByPublicCode(ctx, "PROP-001")
		require.NoError(t, err)
		require.NotNil(t, found)
		assert.Equal(t, property.ID, found.ID)

		none, err := repo.FindByPublicCode(ctx, "PROP-999")
		require.NoError(t, err)
		assert.Nil(t, none)
	})

	t.Run("update patches without touching state", func(t *testing.T) {
		repo, _ := newRepo(t)

		property, err := listing.NewProperty("Old title", listing.OperationSale, "1234567", "adv-1")
		require.NoError(t, err)
		require.NoError(t, repo.Insert(ctx, property))

		title := "New title"
		updated, err := repo.Update(ctx, property.ID, listing.PropertyPatch{Title: &title})
		require.NoError(t, err)
		require.NotNil(t, updated)
		assert.Equal(t, "New title", updated.Title)
		assert.Equal(t, listing.PropertyStateCaptured, updated.State)
	})

	t.Run("save persists lifecycle transitions", func(t *testing.T) {
		repo, _ := newRepo(t)

		property, err := listing.NewProperty("Sunny apartment", listing.OperationSale, "1234567", "adv-1")
		require.NoError(t, err)
		require.NoError(t, repo.Insert(ctx, property))

		require.NoError(t, property.Publish())
		require.NoError(t, repo.Save(ctx, property))

		found, err := repo.FindByID(ctx, property.ID)
		require.NoError(t, err)
		assert.Equal(t, listing.PropertyStatePublished, found.State)
		require.NotNil(t, found.PublicationDate)
	})

	t.Run("malformed row surfaces as upstream failure", func(t *testing.T) {
		repo, g := newRepo(t)

		_, err := g.Insert(ctx, collectionProperties, shared.Row{"id": "p1", "title": "A"})
		require.NoError(t, err)

		_, err = repo.FindByID(ctx, "p1")
		require.Error(t, err)
		assert.True(t, shared.IsCode(err, shared.CodeUpstreamFailure))
	})

	t.Run("list filters by state and price band", func(t *testing.T) {
		repo, _ := newRepo(t)

		for i, price := range []int64{100, 200, 300} {
			property, err := listing.NewProperty("P", listing.OperationSale, "1234567", "adv-1")
			require.NoError(t, err)
			p := decimal.NewFromInt(price)
			property.ListPrice = &p
			if i > 0 {
				require.NoError(t, property.Publish())
			}
			require.NoError(t, repo.Insert(ctx, property))
		}

		published := listing.PropertyStatePublished
		min := decimal.NewFromInt(150)
		result, err := repo.List(ctx, listing.PropertyFilter{State: &published, PriceMin: &min})
		require.NoError(t, err)
		assert.Len(t, result, 2)
	})

	t.Run("count by owner", func(t *testing.T) {
		repo, _ := newRepo(t)

		for i := 0; i < 2; i++ {
			property, err := listing.NewProperty("P", listing.OperationSale, "1234567", "adv-1")
			require.NoError(t, err)
			require.NoError(t, repo.Insert(ctx, property))
		}

		count, err := repo.CountByOwner(ctx, "1234567")
		require.NoError(t, err)
		assert.Equal(t, int64(2), count)
	})
}
