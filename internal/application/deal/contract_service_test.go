package deal

import (
	"context"
	"testing"
	"time"

	"github.com/brokerage/backend/internal/application/resolver"
	domain "github.com/brokerage/backend/internal/domain/deal"
	"github.com/brokerage/backend/internal/domain/listing"
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

type dealFixture struct {
	contracts    *ContractService
	payments     *PaymentService
	appointments *AppointmentService

	contractRepo domain.ContractRepository
	paymentRepo  domain.PaymentRepository
	propertyRepo listing.PropertyRepository
	res          *resolver.Resolver

	advisorID  string
	clientCI   string
	ownerCI    string
	propertyID string
}

func newDealFixture(t *testing.T) *dealFixture {
	t.Helper()
	ctx := context.Background()
	gateway := persistence.NewMemoryGateway()

	properties := persistence.NewPropertyRepository(gateway)
	addresses := persistence.NewAddressRepository(gateway)
	clients := persistence.NewClientRepository(gateway)
	owners := persistence.NewOwnerRepository(gateway)
	advisors := persistence.NewAdvisorRepository(gateway)
	contracts := persistence.NewContractRepository(gateway)
	payments := persistence.NewPaymentRepository(gateway)
	appointments := persistence.NewAppointmentRepository(gateway)

	advisor, err := partner.NewAdvisor("mvargas", "Maria Vargas", "", "s3cret-pass")
	require.NoError(t, err)
	require.NoError(t, advisors.Insert(ctx, advisor))

	owner, err := partner.NewOwner("1234567", "Carlos", "Quiroga", "", "")
	require.NoError(t, err)
	require.NoError(t, owners.Insert(ctx, owner))

	client, err := partner.NewClient("7654321", "Lucia", "Mendez", advisor.ID)
	require.NoError(t, err)
	require.NoError(t, clients.Insert(ctx, client))

	property, err := listing.NewProperty("Casa en venta", listing.OperationSale, owner.CI, advisor.ID)
	require.NoError(t, err)
	require.NoError(t, properties.Insert(ctx, property))

	res := resolver.New(properties, addresses, clients, owners, advisors, contracts)
	listingCache := cache.NewInMemoryListingCache(time.Minute)
	locks := lock.NewKeyMutex()
	logger := zap.NewNop()

	return &dealFixture{
		contracts: NewContractService(contracts, payments, properties, res,
			listingCache, locks, logger),
		payments:     NewPaymentService(payments, res, locks, logger),
		appointments: NewAppointmentService(appointments, res, logger),
		contractRepo: contracts,
		paymentRepo:  payments,
		propertyRepo: properties,
		res:          res,
		advisorID:    advisor.ID,
		clientCI:     client.CI,
		ownerCI:      owner.CI,
		propertyID:   property.ID,
	}
}

func (f *dealFixture) draftContract(t *testing.T, price int64) *ContractResponse {
	t.Helper()
	created, err := f.contracts.Create(context.Background(), f.advisorID, CreateContractRequest{
		PropertyID:   f.propertyID,
		ClientCI:     f.clientCI,
		StartDate:    "2026-09-01",
		PaymentMode:  "transfer",
		ClosingPrice: decimal.NewFromInt(price),
	})
	require.NoError(t, err)
	return created
}

func TestContractServiceCreate(t *testing.T) {
	ctx := context.Background()

	t.Run("opens a draft contract over a captured property", func(t *testing.T) {
		f := newDealFixture(t)
		created := f.draftContract(t, 150000)
		assert.Equal(t, "DRAFT", created.State)
		assert.Equal(t, "SALE", created.OperationType)
		assert.Equal(t, f.advisorID, created.PlacedBy)
		assert.Nil(t, created.ClosingDate)
	})

	t.Run("rejects an unknown client before any semantic check", func(t *testing.T) {
		f := newDealFixture(t)
		_, err := f.contracts.Create(ctx, f.advisorID, CreateContractRequest{
			PropertyID:   f.propertyID,
			ClientCI:     "0000000",
			StartDate:    "2026-09-01",
			ClosingPrice: decimal.NewFromInt(-5),
		})
		assert.True(t, shared.IsCode(err, shared.CodeNotFound))
	})

	t.Run("rejects a closed property", func(t *testing.T) {
		f := newDealFixture(t)
		property, err := f.propertyRepo.FindByID(ctx, f.propertyID)
		require.NoError(t, err)
		require.NoError(t, property.Close(f.advisorID, time.Now().UTC()))
		require.NoError(t, f.propertyRepo.Save(ctx, property))

		_, err = f.contracts.Create(ctx, f.advisorID, CreateContractRequest{
			PropertyID:   f.propertyID,
			ClientCI:     f.clientCI,
			StartDate:    "2026-09-01",
			ClosingPrice: decimal.NewFromInt(150000),
		})
		assert.True(t, shared.IsCode(err, shared.CodeStateViolation))
	})

	t.Run("rejects a malformed start date", func(t *testing.T) {
		f := newDealFixture(t)
		_, err := f.contracts.Create(ctx, f.advisorID, CreateContractRequest{
			PropertyID:   f.propertyID,
			ClientCI:     f.clientCI,
			StartDate:    "01/09/2026",
			ClosingPrice: decimal.NewFromInt(150000),
		})
		assert.True(t, shared.IsCode(err, shared.CodeInvalidInput))
	})
}

func TestContractServiceActivate(t *testing.T) {
	ctx := context.Background()

	t.Run("activates the contract and closes the property", func(t *testing.T) {
		f := newDealFixture(t)
		created := f.draftContract(t, 150000)

		activated, err := f.contracts.Activate(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, "ACTIVE", activated.State)
		require.NotNil(t, activated.ClosingDate)

		property, err := f.propertyRepo.FindByID(ctx, f.propertyID)
		require.NoError(t, err)
		assert.True(t, property.IsClosed())
		require.NotNil(t, property.ClosedBy)
		assert.Equal(t, f.advisorID, *property.ClosedBy)
	})

	t.Run("second activation fails on contract state", func(t *testing.T) {
		f := newDealFixture(t)
		created := f.draftContract(t, 150000)

		_, err := f.contracts.Activate(ctx, created.ID)
		require.NoError(t, err)
		_, err = f.contracts.Activate(ctx, created.ID)
		assert.True(t, shared.IsCode(err, shared.CodeStateViolation))
	})

	t.Run("competing drafts over one property: one wins, one loses", func(t *testing.T) {
		f := newDealFixture(t)
		first := f.draftContract(t, 150000)
		second := f.draftContract(t, 160000)

		_, err := f.contracts.Activate(ctx, first.ID)
		require.NoError(t, err)

		_, err = f.contracts.Activate(ctx, second.ID)
		assert.True(t, shared.IsCode(err, shared.CodeStateViolation))

		loser, err := f.contracts.Get(ctx, second.ID)
		require.NoError(t, err)
		assert.Equal(t, "DRAFT", loser.State)
	})
}

func TestContractServiceLifecycle(t *testing.T) {
	ctx := context.Background()

	t.Run("finish closes out an active contract", func(t *testing.T) {
		f := newDealFixture(t)
		created := f.draftContract(t, 150000)
		_, err := f.contracts.Activate(ctx, created.ID)
		require.NoError(t, err)

		finished, err := f.contracts.Finish(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, "FINISHED", finished.State)

		_, err = f.contracts.Cancel(ctx, created.ID)
		assert.True(t, shared.IsCode(err, shared.CodeStateViolation))
	})

	t.Run("update rejects a cancelled contract", func(t *testing.T) {
		f := newDealFixture(t)
		created := f.draftContract(t, 150000)
		_, err := f.contracts.Cancel(ctx, created.ID)
		require.NoError(t, err)

		notes := "renegotiated"
		_, err = f.contracts.Update(ctx, created.ID, UpdateContractRequest{Notes: &notes})
		assert.True(t, shared.IsCode(err, shared.CodeStateViolation))
	})

	t.Run("delete removes a draft with its payments", func(t *testing.T) {
		f := newDealFixture(t)
		created := f.draftContract(t, 150000)

		require.NoError(t, f.contracts.Delete(ctx, created.ID))
		_, err := f.contracts.Get(ctx, created.ID)
		assert.True(t, shared.IsCode(err, shared.CodeNotFound))
	})

	t.Run("delete refuses an active contract", func(t *testing.T) {
		f := newDealFixture(t)
		created := f.draftContract(t, 150000)
		_, err := f.contracts.Activate(ctx, created.ID)
		require.NoError(t, err)

		err = f.contracts.Delete(ctx, created.ID)
		assert.True(t, shared.IsCode(err, shared.CodeStateViolation))
	})
}

func TestContractServiceSummary(t *testing.T) {
	ctx := context.Background()

	t.Run("totals the ledger against the closing price", func(t *testing.T) {
		f := newDealFixture(t)
		created := f.draftContract(t, 1000)
		_, err := f.contracts.Activate(ctx, created.ID)
		require.NoError(t, err)

		first, err := f.payments.Register(ctx, RegisterPaymentRequest{
			ContractID: created.ID,
			Amount:     decimal.NewFromInt(400),
			DueDate:    "2026-10-01",
		})
		require.NoError(t, err)
		_, err = f.payments.Register(ctx, RegisterPaymentRequest{
			ContractID: created.ID,
			Amount:     decimal.NewFromInt(300),
			DueDate:    "2026-11-01",
		})
		require.NoError(t, err)

		_, err = f.payments.Transition(ctx, first.ID, domain.PaymentStatePaid)
		require.NoError(t, err)

		summary, err := f.contracts.Summary(ctx, created.ID)
		require.NoError(t, err)
		assert.Len(t, summary.Payments, 2)
		assert.True(t, summary.TotalDue.Equal(decimal.NewFromInt(700)))
		assert.True(t, summary.TotalPaid.Equal(decimal.NewFromInt(400)))
		assert.True(t, summary.TotalPending.Equal(decimal.NewFromInt(300)))
		assert.True(t, summary.Balance.Equal(decimal.NewFromInt(300)))
		assert.True(t, summary.PercentPaid.Equal(decimal.NewFromInt(40)))
		assert.Equal(t, "Casa en venta", summary.PropertyTitle)
		assert.Equal(t, "Lucia Mendez", summary.ClientName)
	})
}
