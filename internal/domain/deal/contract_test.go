package deal

import (
	"testing"
	"time"

	"github.com/brokerage/backend/internal/domain/listing"
	"github.com/brokerage/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewContract(t *testing.T) {
	start := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)

	t.Run("creates draft sale contract", func(t *testing.T) {
		contract, err := NewContract("prop-1", "1234567", "adv-1", listing.OperationSale, start, nil, "cash", decimal.NewFromInt(120000))
		require.NoError(t, err)
		require.NotNil(t, contract)

		assert.Equal(t, ContractStateDraft, contract.State)
		assert.Equal(t, "prop-1", contract.PropertyID)
		assert.Equal(t, "1234567", contract.ClientCI)
		assert.Equal(t, "adv-1", contract.PlacedBy)
		assert.Nil(t, contract.ClosingDate)
		assert.NotEmpty(t, contract.ID)
	})

	t.Run("creates rent contract with end date", func(t *testing.T) {
		end := start.AddDate(1, 0, 0)
		contract, err := NewContract("prop-1", "1234567", "adv-1", listing.OperationRent, start, &end, "monthly", decimal.NewFromInt(500))
		require.NoError(t, err)
		require.NotNil(t, contract.EndDate)
	})

	t.Run("rejects rent contract without end date", func(t *testing.T) {
		_, err := NewContract("prop-1", "1234567", "adv-1", listing.OperationRent, start, nil, "monthly", decimal.NewFromInt(500))
		require.Error(t, err)
		assert.True(t, shared.IsCode(err, shared.CodeInvariantViolation))
		assert.Contains(t, err.Error(), "end date")
	})

	t.Run("rejects non-positive closing price", func(t *testing.T) {
		_, err := NewContract("prop-1", "1234567", "adv-1", listing.OperationSale, start, nil, "cash", decimal.Zero)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "must be positive")
	})

	t.Run("rejects unknown operation type", func(t *testing.T) {
		_, err := NewContract("prop-1", "1234567", "adv-1", listing.OperationType("LEASE"), start, nil, "cash", decimal.NewFromInt(1))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "Unknown operation type")
	})

	t.Run("rejects empty references", func(t *testing.T) {
		_, err := NewContract("", "1234567", "adv-1", listing.OperationSale, start, nil, "cash", decimal.NewFromInt(1))
		require.Error(t, err)

		_, err = NewContract("prop-1", "", "adv-1", listing.OperationSale, start, nil, "cash", decimal.NewFromInt(1))
		require.Error(t, err)

		_, err = NewContract("prop-1", "1234567", "", listing.OperationSale, start, nil, "cash", decimal.NewFromInt(1))
		require.Error(t, err)
	})
}

func TestContractValidateAgainstProperty(t *testing.T) {
	start := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)

	newSaleContract := func(t *testing.T) *Contract {
		contract, err := NewContract("prop-1", "1234567", "adv-1", listing.OperationSale, start, nil, "cash", decimal.NewFromInt(120000))
		require.NoError(t, err)
		return contract
	}

	t.Run("accepts open property with matching operation", func(t *testing.T) {
		property, err := listing.NewProperty("Sunny apartment", listing.OperationSale, "7654321", "adv-1")
		require.NoError(t, err)

		assert.NoError(t, newSaleContract(t).ValidateAgainstProperty(property))
	})

	t.Run("rejects closed property", func(t *testing.T) {
		property, err := listing.NewProperty("Sunny apartment", listing.OperationSale, "7654321", "adv-1")
		require.NoError(t, err)
		require.NoError(t, property.Close("adv-2", time.Now().UTC()))

		err = newSaleContract(t).ValidateAgainstProperty(property)
		require.Error(t, err)
		assert.True(t, shared.IsCode(err, shared.CodeStateViolation))
	})

	t.Run("rejects operation type mismatch", func(t *testing.T) {
		property, err := listing.NewProperty("Sunny apartment", listing.OperationRent, "7654321", "adv-1")
		require.NoError(t, err)

		err = newSaleContract(t).ValidateAgainstProperty(property)
		require.Error(t, err)
		assert.True(t, shared.IsCode(err, shared.CodeInvariantViolation))
		assert.Contains(t, err.Error(), "operation type")
	})
}

func TestContractStateTransitions(t *testing.T) {
	tests := []struct {
		name    string
		from    ContractState
		to      ContractState
		allowed bool
	}{
		{"draft to active", ContractStateDraft, ContractStateActive, true},
		{"draft to cancelled", ContractStateDraft, ContractStateCancelled, true},
		{"draft to finished", ContractStateDraft, ContractStateFinished, false},
		{"active to finished", ContractStateActive, ContractStateFinished, true},
		{"active to cancelled", ContractStateActive, ContractStateCancelled, true},
		{"active to draft", ContractStateActive, ContractStateDraft, false},
		{"finished to active", ContractStateFinished, ContractStateActive, false},
		{"cancelled to active", ContractStateCancelled, ContractStateActive, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.allowed, tt.from.CanTransitionTo(tt.to))
		})
	}
}

func TestContractLifecycle(t *testing.T) {
	start := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	closing := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	newDraft := func(t *testing.T) *Contract {
		contract, err := NewContract("prop-1", "1234567", "adv-1", listing.OperationSale, start, nil, "cash", decimal.NewFromInt(120000))
		require.NoError(t, err)
		return contract
	}

	t.Run("activate stamps closing date", func(t *testing.T) {
		contract := newDraft(t)
		require.NoError(t, contract.Activate(closing))

		assert.Equal(t, ContractStateActive, contract.State)
		require.NotNil(t, contract.ClosingDate)
		assert.True(t, contract.ClosingDate.Equal(closing))
		assert.True(t, contract.IsActive())
	})

	t.Run("activate fails on active contract", func(t *testing.T) {
		contract := newDraft(t)
		require.NoError(t, contract.Activate(closing))

		err := contract.Activate(closing)
		require.Error(t, err)
		assert.True(t, shared.IsCode(err, shared.CodeStateViolation))
	})

	t.Run("finish requires active state", func(t *testing.T) {
		contract := newDraft(t)
		err := contract.Finish()
		require.Error(t, err)
		assert.True(t, shared.IsCode(err, shared.CodeStateViolation))

		require.NoError(t, contract.Activate(closing))
		require.NoError(t, contract.Finish())
		assert.Equal(t, ContractStateFinished, contract.State)
	})

	t.Run("cancel works from draft and active", func(t *testing.T) {
		draft := newDraft(t)
		require.NoError(t, draft.Cancel())
		assert.Equal(t, ContractStateCancelled, draft.State)

		active := newDraft(t)
		require.NoError(t, active.Activate(closing))
		require.NoError(t, active.Cancel())
		assert.Equal(t, ContractStateCancelled, active.State)
	})

	t.Run("modify and delete windows", func(t *testing.T) {
		contract := newDraft(t)
		assert.True(t, contract.CanModify())
		assert.True(t, contract.CanDelete())

		require.NoError(t, contract.Activate(closing))
		assert.True(t, contract.CanModify())
		assert.False(t, contract.CanDelete())

		require.NoError(t, contract.Finish())
		assert.False(t, contract.CanModify())
		assert.False(t, contract.CanDelete())

		cancelled := newDraft(t)
		require.NoError(t, cancelled.Cancel())
		assert.False(t, cancelled.CanModify())
		assert.True(t, cancelled.CanDelete())
	})
}
