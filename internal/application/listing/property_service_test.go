package listing

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/brokerage/backend/internal/application/resolver"
	"github.com/brokerage/backend/internal/domain/deal"
	domain "github.com/brokerage/backend/internal/domain/listing"
	"github.com/brokerage/backend/internal/domain/partner"
	"github.com/brokerage/backend/internal/domain/shared"
	"github.com/brokerage/backend/internal/infrastructure/cache"
	"github.com/brokerage/backend/internal/infrastructure/lock"
	"github.com/brokerage/backend/internal/infrastructure/persistence"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// countingCache wraps the in-memory listing cache and records traffic so
// tests can tell cache hits from store reads
type countingCache struct {
	mu     sync.Mutex
	inner  *cache.InMemoryListingCache
	gets   int
	sets   int
	clears int
}

func (c *countingCache) Get(ctx context.Context) ([]domain.PropertyWithAddress, error) {
	c.mu.Lock()
	c.gets++
	c.mu.Unlock()
	return c.inner.Get(ctx)
}

func (c *countingCache) Set(ctx context.Context, items []domain.PropertyWithAddress) error {
	c.mu.Lock()
	c.sets++
	c.mu.Unlock()
	return c.inner.Set(ctx, items)
}

func (c *countingCache) Clear(ctx context.Context) error {
	c.mu.Lock()
	c.clears++
	c.mu.Unlock()
	return c.inner.Clear(ctx)
}

type propertyFixture struct {
	service      *PropertyService
	cache        *countingCache
	properties   domain.PropertyRepository
	appointments *persistence.AppointmentRepository
	contracts    *persistence.ContractRepository
	advisorID    string
	ownerCI      string
}

func newPropertyFixture(t *testing.T) *propertyFixture {
	t.Helper()
	ctx := context.Background()
	gateway := persistence.NewMemoryGateway()

	properties := persistence.NewPropertyRepository(gateway)
	addresses := persistence.NewAddressRepository(gateway)
	details := persistence.NewDetailRepository(gateway)
	images := persistence.NewImageRepository(gateway)
	documents := persistence.NewDocumentRepository(gateway)
	contracts := persistence.NewContractRepository(gateway)
	appointments := persistence.NewAppointmentRepository(gateway)
	clients := persistence.NewClientRepository(gateway)
	owners := persistence.NewOwnerRepository(gateway)
	advisors := persistence.NewAdvisorRepository(gateway)

	advisor, err := partner.NewAdvisor("mvargas", "Maria Vargas", "mvargas@example.com", "s3cret-pass")
	require.NoError(t, err)
	require.NoError(t, advisors.Insert(ctx, advisor))

	owner, err := partner.NewOwner("1234567", "Carlos", "Quiroga", "", "")
	require.NoError(t, err)
	require.NoError(t, owners.Insert(ctx, owner))

	listingCache := &countingCache{inner: cache.NewInMemoryListingCache(time.Minute)}
	res := resolver.New(properties, addresses, clients, owners, advisors, contracts)
	service := NewPropertyService(properties, addresses, details, images, documents,
		contracts, appointments, res, listingCache, lock.NewKeyMutex(), zap.NewNop())

	return &propertyFixture{
		service:      service,
		cache:        listingCache,
		properties:   properties,
		appointments: appointments,
		contracts:    contracts,
		advisorID:    advisor.ID,
		ownerCI:      owner.CI,
	}
}

func (f *propertyFixture) capture(t *testing.T, title string) *PropertyResponse {
	t.Helper()
	created, err := f.service.Create(context.Background(), f.advisorID, CreatePropertyRequest{
		Title:         title,
		OperationType: "SALE",
		OwnerCI:       f.ownerCI,
	})
	require.NoError(t, err)
	return created
}

func dealAppointment(propertyID, advisorID string) (*deal.Appointment, error) {
	now := time.Now().UTC()
	return deal.NewAppointment(propertyID, "7654321", advisorID, now.Add(48*time.Hour), "oficina central", now)
}

func TestPropertyServiceCreate(t *testing.T) {
	ctx := context.Background()

	t.Run("captures a property with a nested address", func(t *testing.T) {
		f := newPropertyFixture(t)
		price := decimal.NewFromInt(120000)
		created, err := f.service.Create(ctx, f.advisorID, CreatePropertyRequest{
			Title:         "Casa en Equipetrol",
			OperationType: "SALE",
			OwnerCI:       f.ownerCI,
			ListPrice:     &price,
			Address: &AddressInput{
				Street: "Calle Los Pinos 42",
				City:   "Santa Cruz",
				Zone:   "Equipetrol",
			},
		})
		require.NoError(t, err)
		assert.Equal(t, "CAPTURED", created.State)
		assert.Equal(t, f.advisorID, created.CapturedBy)
		require.NotNil(t, created.Address)
		assert.Equal(t, "Santa Cruz", created.Address.City)
	})

	t.Run("rejects an unknown owner", func(t *testing.T) {
		f := newPropertyFixture(t)
		_, err := f.service.Create(ctx, f.advisorID, CreatePropertyRequest{
			Title:         "Casa",
			OperationType: "SALE",
			OwnerCI:       "9999999",
		})
		assert.True(t, shared.IsCode(err, shared.CodeNotFound))
	})

	t.Run("rejects address reference and nested address together", func(t *testing.T) {
		f := newPropertyFixture(t)
		addressID := "some-address"
		_, err := f.service.Create(ctx, f.advisorID, CreatePropertyRequest{
			Title:         "Casa",
			OperationType: "SALE",
			OwnerCI:       f.ownerCI,
			AddressID:     &addressID,
			Address:       &AddressInput{Street: "Calle 1", City: "La Paz"},
		})
		assert.True(t, shared.IsCode(err, shared.CodeInvalidInput))
	})

	t.Run("rejects a duplicate public code", func(t *testing.T) {
		f := newPropertyFixture(t)
		code := "SC-001"
		_, err := f.service.Create(ctx, f.advisorID, CreatePropertyRequest{
			Title:         "Primera",
			OperationType: "SALE",
			OwnerCI:       f.ownerCI,
			PublicCode:    &code,
		})
		require.NoError(t, err)

		_, err = f.service.Create(ctx, f.advisorID, CreatePropertyRequest{
			Title:         "Segunda",
			OperationType: "SALE",
			OwnerCI:       f.ownerCI,
			PublicCode:    &code,
		})
		assert.True(t, shared.IsCode(err, shared.CodeAlreadyExists))
	})
}

func TestPropertyServiceList(t *testing.T) {
	ctx := context.Background()

	t.Run("serves the default listing from the cache", func(t *testing.T) {
		f := newPropertyFixture(t)
		f.capture(t, "Casa uno")
		f.capture(t, "Casa dos")

		first, err := f.service.List(ctx, ListPropertiesRequest{})
		require.NoError(t, err)
		assert.Len(t, first, 2)
		assert.Equal(t, 1, f.cache.sets)

		second, err := f.service.List(ctx, ListPropertiesRequest{})
		require.NoError(t, err)
		assert.Equal(t, first, second)
		// Still one store load: the second read hit the cache
		assert.Equal(t, 1, f.cache.sets)
	})

	t.Run("mutations invalidate the cached listing", func(t *testing.T) {
		f := newPropertyFixture(t)
		f.capture(t, "Casa uno")

		_, err := f.service.List(ctx, ListPropertiesRequest{})
		require.NoError(t, err)
		require.Equal(t, 1, f.cache.sets)

		f.capture(t, "Casa dos")

		listed, err := f.service.List(ctx, ListPropertiesRequest{})
		require.NoError(t, err)
		assert.Len(t, listed, 2)
		assert.Equal(t, 2, f.cache.sets)
	})

	t.Run("filtered listings bypass the cache", func(t *testing.T) {
		f := newPropertyFixture(t)
		f.capture(t, "Casa uno")

		state := "CAPTURED"
		gets := f.cache.gets
		listed, err := f.service.List(ctx, ListPropertiesRequest{State: &state})
		require.NoError(t, err)
		assert.Len(t, listed, 1)
		assert.Equal(t, gets, f.cache.gets)
	})

	t.Run("rejects an unknown state filter", func(t *testing.T) {
		f := newPropertyFixture(t)
		state := "LIMBO"
		_, err := f.service.List(ctx, ListPropertiesRequest{State: &state})
		assert.True(t, shared.IsCode(err, shared.CodeInvalidInput))
	})
}

func TestPropertyServicePublish(t *testing.T) {
	ctx := context.Background()

	t.Run("publishes a captured property with details", func(t *testing.T) {
		f := newPropertyFixture(t)
		created := f.capture(t, "Casa")

		published, err := f.service.Publish(ctx, created.ID, DetailInput{
			Bedrooms:  3,
			Bathrooms: 2,
		})
		require.NoError(t, err)
		assert.Equal(t, "PUBLISHED", published.State)
		assert.NotNil(t, published.PublicationDate)

		detail, err := f.service.GetDetail(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, 3, detail.Bedrooms)
	})

	t.Run("rejects publishing twice", func(t *testing.T) {
		f := newPropertyFixture(t)
		created := f.capture(t, "Casa")

		_, err := f.service.Publish(ctx, created.ID, DetailInput{Bedrooms: 2, Bathrooms: 1})
		require.NoError(t, err)
		_, err = f.service.Publish(ctx, created.ID, DetailInput{Bedrooms: 2, Bathrooms: 1})
		assert.True(t, shared.IsCode(err, shared.CodeStateViolation))
	})

	t.Run("unpublish returns the property to captured", func(t *testing.T) {
		f := newPropertyFixture(t)
		created := f.capture(t, "Casa")

		_, err := f.service.Publish(ctx, created.ID, DetailInput{Bedrooms: 2, Bathrooms: 1})
		require.NoError(t, err)

		unpublished, err := f.service.Unpublish(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, "CAPTURED", unpublished.State)

		// Publication details survive for the next publish
		detail, err := f.service.GetDetail(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, 2, detail.Bedrooms)
	})
}

func TestPropertyServiceUpdate(t *testing.T) {
	ctx := context.Background()

	t.Run("patches editable fields", func(t *testing.T) {
		f := newPropertyFixture(t)
		created := f.capture(t, "Casa")

		title := "Casa renovada"
		area := decimal.NewFromInt(250)
		updated, err := f.service.Update(ctx, created.ID, UpdatePropertyRequest{
			Title: &title,
			Area:  &area,
		})
		require.NoError(t, err)
		assert.Equal(t, "Casa renovada", updated.Title)
		assert.Equal(t, "CAPTURED", updated.State)
	})

	t.Run("rejects an empty patch", func(t *testing.T) {
		f := newPropertyFixture(t)
		created := f.capture(t, "Casa")

		_, err := f.service.Update(ctx, created.ID, UpdatePropertyRequest{})
		assert.ErrorIs(t, err, shared.ErrEmptyPatch)
	})

	t.Run("rejects a public code held by another property", func(t *testing.T) {
		f := newPropertyFixture(t)
		code := "SC-001"
		_, err := f.service.Create(ctx, f.advisorID, CreatePropertyRequest{
			Title:         "Primera",
			OperationType: "SALE",
			OwnerCI:       f.ownerCI,
			PublicCode:    &code,
		})
		require.NoError(t, err)
		other := f.capture(t, "Segunda")

		_, err = f.service.Update(ctx, other.ID, UpdatePropertyRequest{PublicCode: &code})
		assert.True(t, shared.IsCode(err, shared.CodeAlreadyExists))
	})

	t.Run("keeping its own public code is not a conflict", func(t *testing.T) {
		f := newPropertyFixture(t)
		code := "SC-001"
		created, err := f.service.Create(ctx, f.advisorID, CreatePropertyRequest{
			Title:         "Primera",
			OperationType: "SALE",
			OwnerCI:       f.ownerCI,
			PublicCode:    &code,
		})
		require.NoError(t, err)

		title := "Primera, renombrada"
		_, err = f.service.Update(ctx, created.ID, UpdatePropertyRequest{
			Title:      &title,
			PublicCode: &code,
		})
		assert.NoError(t, err)
	})
}

func TestPropertyServiceDelete(t *testing.T) {
	ctx := context.Background()

	t.Run("deletes a property and its dependent records", func(t *testing.T) {
		f := newPropertyFixture(t)
		created := f.capture(t, "Casa")

		require.NoError(t, f.service.Delete(ctx, created.ID))

		_, err := f.service.Get(ctx, created.ID)
		assert.True(t, shared.IsCode(err, shared.CodeNotFound))
	})

	t.Run("refuses to delete a property with appointments", func(t *testing.T) {
		f := newPropertyFixture(t)
		created := f.capture(t, "Casa")

		appointment, err := dealAppointment(created.ID, f.advisorID)
		require.NoError(t, err)
		require.NoError(t, f.appointments.Insert(ctx, appointment))

		err = f.service.Delete(ctx, created.ID)
		assert.True(t, shared.IsCode(err, shared.CodeDependencyConflict))
	})
}
