package partner

import (
	"context"
	"testing"
	"time"

	"github.com/brokerage/backend/internal/application/resolver"
	"github.com/brokerage/backend/internal/domain/deal"
	"github.com/brokerage/backend/internal/domain/listing"
	domain "github.com/brokerage/backend/internal/domain/partner"
	"github.com/brokerage/backend/internal/domain/shared"
	"github.com/brokerage/backend/internal/infrastructure/auth"
	"github.com/brokerage/backend/internal/infrastructure/config"
	"github.com/brokerage/backend/internal/infrastructure/persistence"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type partnerFixture struct {
	clients      *ClientService
	owners       *OwnerService
	advisors     *AdvisorService
	properties   listing.PropertyRepository
	appointments deal.AppointmentRepository
	contracts    deal.ContractRepository
	advisorID    string
}

func newPartnerFixture(t *testing.T) *partnerFixture {
	t.Helper()
	ctx := context.Background()
	gateway := persistence.NewMemoryGateway()

	properties := persistence.NewPropertyRepository(gateway)
	addresses := persistence.NewAddressRepository(gateway)
	clients := persistence.NewClientRepository(gateway)
	owners := persistence.NewOwnerRepository(gateway)
	advisors := persistence.NewAdvisorRepository(gateway)
	contracts := persistence.NewContractRepository(gateway)
	appointments := persistence.NewAppointmentRepository(gateway)

	advisor, err := domain.NewAdvisor("mvargas", "Maria Vargas", "mvargas@example.com", "s3cret-pass")
	require.NoError(t, err)
	require.NoError(t, advisors.Insert(ctx, advisor))

	jwtService := auth.NewJWTService(config.JWTConfig{
		Secret:          "test-secret-key-for-signing",
		TokenExpiration: time.Hour,
		Issuer:          "brokerage-test",
	})
	res := resolver.New(properties, addresses, clients, owners, advisors, contracts)
	logger := zap.NewNop()

	return &partnerFixture{
		clients:      NewClientService(clients, appointments, contracts, res, logger),
		owners:       NewOwnerService(owners, properties, res, logger),
		advisors:     NewAdvisorService(advisors, jwtService, res, logger),
		properties:   properties,
		appointments: appointments,
		contracts:    contracts,
		advisorID:    advisor.ID,
	}
}

func TestClientService(t *testing.T) {
	ctx := context.Background()

	t.Run("registers a client under the acting advisor", func(t *testing.T) {
		f := newPartnerFixture(t)
		budget := decimal.NewFromInt(90000)
		created, err := f.clients.Create(ctx, f.advisorID, CreateClientRequest{
			CI:            "4455667",
			FirstNames:    "Lucia",
			LastNames:     "Mendez",
			PreferredZone: "Equipetrol",
			MaxBudget:     &budget,
			Origin:        "referral",
		})
		require.NoError(t, err)
		assert.Equal(t, f.advisorID, created.RegisteredBy)
		assert.False(t, created.RegisteredAt.IsZero())

		fetched, err := f.clients.Get(ctx, "4455667")
		require.NoError(t, err)
		assert.Equal(t, "Lucia", fetched.FirstNames)
	})

	t.Run("rejects a duplicate CI", func(t *testing.T) {
		f := newPartnerFixture(t)
		_, err := f.clients.Create(ctx, f.advisorID, CreateClientRequest{
			CI: "4455667", FirstNames: "Lucia", LastNames: "Mendez",
		})
		require.NoError(t, err)

		_, err = f.clients.Create(ctx, f.advisorID, CreateClientRequest{
			CI: "4455667", FirstNames: "Otra", LastNames: "Persona",
		})
		assert.True(t, shared.IsCode(err, shared.CodeAlreadyExists))
	})

	t.Run("rejects an unknown acting advisor", func(t *testing.T) {
		f := newPartnerFixture(t)
		_, err := f.clients.Create(ctx, "missing-advisor", CreateClientRequest{
			CI: "4455667", FirstNames: "Lucia", LastNames: "Mendez",
		})
		assert.True(t, shared.IsCode(err, shared.CodeNotFound))
	})

	t.Run("deactivated advisors cannot register clients", func(t *testing.T) {
		f := newPartnerFixture(t)
		_, err := f.advisors.Deactivate(ctx, f.advisorID)
		require.NoError(t, err)

		_, err = f.clients.Create(ctx, f.advisorID, CreateClientRequest{
			CI: "4455667", FirstNames: "Lucia", LastNames: "Mendez",
		})
		assert.ErrorIs(t, err, shared.ErrForbidden)
	})

	t.Run("updates a client and rejects an empty patch", func(t *testing.T) {
		f := newPartnerFixture(t)
		_, err := f.clients.Create(ctx, f.advisorID, CreateClientRequest{
			CI: "4455667", FirstNames: "Lucia", LastNames: "Mendez",
		})
		require.NoError(t, err)

		phone := "591-700-12345"
		updated, err := f.clients.Update(ctx, "4455667", UpdateClientRequest{Phone: &phone})
		require.NoError(t, err)
		assert.Equal(t, phone, updated.Phone)

		_, err = f.clients.Update(ctx, "4455667", UpdateClientRequest{})
		assert.ErrorIs(t, err, shared.ErrEmptyPatch)
	})

	t.Run("aggregates stats by origin", func(t *testing.T) {
		f := newPartnerFixture(t)
		for _, c := range []struct{ ci, origin string }{
			{"1000001", "referral"},
			{"1000002", "referral"},
			{"1000003", "walk-in"},
		} {
			_, err := f.clients.Create(ctx, f.advisorID, CreateClientRequest{
				CI: c.ci, FirstNames: "Nombre", LastNames: "Apellido", Origin: c.origin,
			})
			require.NoError(t, err)
		}

		stats, err := f.clients.Stats(ctx, &f.advisorID)
		require.NoError(t, err)
		assert.Equal(t, int64(3), stats.Total)
		assert.Equal(t, int64(2), stats.ByOrigin["referral"])
		assert.Equal(t, int64(1), stats.ByOrigin["walk-in"])
		assert.Equal(t, int64(3), stats.ByAdvisor)
	})

	t.Run("delete is blocked while appointments reference the client", func(t *testing.T) {
		f := newPartnerFixture(t)
		_, err := f.clients.Create(ctx, f.advisorID, CreateClientRequest{
			CI: "4455667", FirstNames: "Lucia", LastNames: "Mendez",
		})
		require.NoError(t, err)

		now := time.Now().UTC()
		visitIDs := make([]string, 0, 2)
		for i := 0; i < 2; i++ {
			visit, err := deal.NewAppointment("prop-1", "4455667", f.advisorID,
				now.Add(time.Duration(i+1)*24*time.Hour), "oficina", now)
			require.NoError(t, err)
			require.NoError(t, f.appointments.Insert(ctx, visit))
			visitIDs = append(visitIDs, visit.ID)
		}

		err = f.clients.Delete(ctx, "4455667")
		require.True(t, shared.IsCode(err, shared.CodeDependencyConflict))
		conflict := err.(*shared.DomainError)
		assert.Equal(t, int64(2), conflict.Details["dependents"])
		assert.Equal(t, "appointments", conflict.Details["dependent_kind"])

		for _, id := range visitIDs {
			require.NoError(t, f.appointments.Delete(ctx, id))
		}
		assert.NoError(t, f.clients.Delete(ctx, "4455667"))
	})

	t.Run("delete is blocked while contracts reference the client", func(t *testing.T) {
		f := newPartnerFixture(t)
		_, err := f.clients.Create(ctx, f.advisorID, CreateClientRequest{
			CI: "4455667", FirstNames: "Lucia", LastNames: "Mendez",
		})
		require.NoError(t, err)

		contract, err := deal.NewContract("prop-1", "4455667", f.advisorID,
			listing.OperationSale, time.Now().UTC(), nil, "cash", decimal.NewFromInt(100000))
		require.NoError(t, err)
		require.NoError(t, f.contracts.Insert(ctx, contract))

		err = f.clients.Delete(ctx, "4455667")
		require.True(t, shared.IsCode(err, shared.CodeDependencyConflict))
		conflict := err.(*shared.DomainError)
		assert.Equal(t, "contracts", conflict.Details["dependent_kind"])
	})
}

func TestOwnerService(t *testing.T) {
	ctx := context.Background()

	t.Run("registers and fetches an owner", func(t *testing.T) {
		f := newPartnerFixture(t)
		created, err := f.owners.Create(ctx, CreateOwnerRequest{
			CI: "7788990", FirstNames: "Carlos", LastNames: "Quiroga",
		})
		require.NoError(t, err)
		assert.Equal(t, "7788990", created.CI)

		_, err = f.owners.Create(ctx, CreateOwnerRequest{
			CI: "7788990", FirstNames: "Carlos", LastNames: "Quiroga",
		})
		assert.True(t, shared.IsCode(err, shared.CodeAlreadyExists))
	})

	t.Run("refuses to delete an owner holding properties", func(t *testing.T) {
		f := newPartnerFixture(t)
		_, err := f.owners.Create(ctx, CreateOwnerRequest{
			CI: "7788990", FirstNames: "Carlos", LastNames: "Quiroga",
		})
		require.NoError(t, err)

		property, err := listing.NewProperty("Casa", listing.OperationSale, "7788990", f.advisorID)
		require.NoError(t, err)
		require.NoError(t, f.properties.Insert(ctx, property))

		err = f.owners.Delete(ctx, "7788990")
		assert.True(t, shared.IsCode(err, shared.CodeDependencyConflict))

		require.NoError(t, f.properties.Delete(ctx, property.ID))
		assert.NoError(t, f.owners.Delete(ctx, "7788990"))
	})
}

func TestAdvisorService(t *testing.T) {
	ctx := context.Background()

	t.Run("registers an advisor and rejects a taken username", func(t *testing.T) {
		f := newPartnerFixture(t)
		created, err := f.advisors.Register(ctx, RegisterAdvisorRequest{
			Username: "jrojas", FullName: "Jorge Rojas", Password: "otra-clave-larga",
		})
		require.NoError(t, err)
		assert.True(t, created.Active)

		_, err = f.advisors.Register(ctx, RegisterAdvisorRequest{
			Username: "jrojas", FullName: "Jorge Rojas", Password: "otra-clave-larga",
		})
		assert.True(t, shared.IsCode(err, shared.CodeAlreadyExists))
	})

	t.Run("login issues a bearer token", func(t *testing.T) {
		f := newPartnerFixture(t)
		login, err := f.advisors.Login(ctx, LoginRequest{Username: "mvargas", Password: "s3cret-pass"})
		require.NoError(t, err)
		assert.NotEmpty(t, login.Token)
		assert.Equal(t, "Bearer", login.TokenType)
		assert.Equal(t, f.advisorID, login.Advisor.ID)
	})

	t.Run("login rejects bad credentials", func(t *testing.T) {
		f := newPartnerFixture(t)
		_, err := f.advisors.Login(ctx, LoginRequest{Username: "mvargas", Password: "wrong"})
		assert.ErrorIs(t, err, shared.ErrUnauthorized)

		_, err = f.advisors.Login(ctx, LoginRequest{Username: "nobody", Password: "s3cret-pass"})
		assert.ErrorIs(t, err, shared.ErrUnauthorized)
	})

	t.Run("login rejects a deactivated advisor", func(t *testing.T) {
		f := newPartnerFixture(t)
		_, err := f.advisors.Deactivate(ctx, f.advisorID)
		require.NoError(t, err)

		_, err = f.advisors.Login(ctx, LoginRequest{Username: "mvargas", Password: "s3cret-pass"})
		assert.ErrorIs(t, err, shared.ErrUnauthorized)

		_, err = f.advisors.Activate(ctx, f.advisorID)
		require.NoError(t, err)
		_, err = f.advisors.Login(ctx, LoginRequest{Username: "mvargas", Password: "s3cret-pass"})
		assert.NoError(t, err)
	})
}
