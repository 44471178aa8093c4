package deal

import (
	"testing"
	"time"

	"github.com/brokerage/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPayment(t *testing.T) {
	due := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)

	t.Run("creates pending payment", func(t *testing.T) {
		installment := 3
		payment, err := NewPayment("ctr-1", decimal.NewFromInt(500), due, &installment)
		require.NoError(t, err)
		require.NotNil(t, payment)

		assert.Equal(t, PaymentStatePending, payment.State)
		assert.Equal(t, "ctr-1", payment.ContractID)
		assert.True(t, payment.DueDate.Equal(due))
		require.NotNil(t, payment.Installment)
		assert.Equal(t, 3, *payment.Installment)
		assert.Nil(t, payment.PaidAt)
		assert.NotEmpty(t, payment.ID)
	})

	t.Run("rejects zero amount", func(t *testing.T) {
		_, err := NewPayment("ctr-1", decimal.Zero, due, nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "must be positive")
	})

	t.Run("rejects negative amount", func(t *testing.T) {
		_, err := NewPayment("ctr-1", decimal.NewFromInt(-1), due, nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "must be positive")
	})

	t.Run("rejects non-positive installment", func(t *testing.T) {
		installment := 0
		_, err := NewPayment("ctr-1", decimal.NewFromInt(500), due, &installment)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "installment must be positive")
	})

	t.Run("rejects empty contract ID", func(t *testing.T) {
		_, err := NewPayment("", decimal.NewFromInt(500), due, nil)
		require.Error(t, err)
	})
}

func TestPaymentStateTransitions(t *testing.T) {
	tests := []struct {
		name    string
		from    PaymentState
		to      PaymentState
		allowed bool
	}{
		{"pending to paid", PaymentStatePending, PaymentStatePaid, true},
		{"pending to late", PaymentStatePending, PaymentStateLate, true},
		{"pending to cancelled", PaymentStatePending, PaymentStateCancelled, true},
		{"late to paid", PaymentStateLate, PaymentStatePaid, true},
		{"late to cancelled", PaymentStateLate, PaymentStateCancelled, true},
		{"late to pending", PaymentStateLate, PaymentStatePending, false},
		{"paid to cancelled", PaymentStatePaid, PaymentStateCancelled, false},
		{"paid to pending", PaymentStatePaid, PaymentStatePending, false},
		{"cancelled to paid", PaymentStateCancelled, PaymentStatePaid, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.allowed, tt.from.CanTransitionTo(tt.to))
		})
	}
}

func TestPaymentTransitionTo(t *testing.T) {
	due := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
	now := time.Date(2026, 4, 2, 10, 30, 0, 0, time.UTC)

	t.Run("paid stamps settlement time", func(t *testing.T) {
		payment, err := NewPayment("ctr-1", decimal.NewFromInt(500), due, nil)
		require.NoError(t, err)

		require.NoError(t, payment.TransitionTo(PaymentStatePaid, now))
		assert.Equal(t, PaymentStatePaid, payment.State)
		require.NotNil(t, payment.PaidAt)
		assert.True(t, payment.PaidAt.Equal(now))
	})

	t.Run("cancel leaves settlement time empty", func(t *testing.T) {
		payment, err := NewPayment("ctr-1", decimal.NewFromInt(500), due, nil)
		require.NoError(t, err)

		require.NoError(t, payment.TransitionTo(PaymentStateCancelled, now))
		assert.Nil(t, payment.PaidAt)
	})

	t.Run("rejects illegal transition", func(t *testing.T) {
		payment, err := NewPayment("ctr-1", decimal.NewFromInt(500), due, nil)
		require.NoError(t, err)
		require.NoError(t, payment.TransitionTo(PaymentStatePaid, now))

		err = payment.TransitionTo(PaymentStateCancelled, now)
		require.Error(t, err)
		assert.True(t, shared.IsCode(err, shared.CodeStateViolation))
	})

	t.Run("rejects unknown target state", func(t *testing.T) {
		payment, err := NewPayment("ctr-1", decimal.NewFromInt(500), due, nil)
		require.NoError(t, err)

		err = payment.TransitionTo(PaymentState("REFUNDED"), now)
		require.Error(t, err)
		assert.True(t, shared.IsCode(err, shared.CodeInvalidInput))
	})
}

func TestPaymentIsLateAsOf(t *testing.T) {
	due := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)

	t.Run("pending past due reads late", func(t *testing.T) {
		payment, err := NewPayment("ctr-1", decimal.NewFromInt(500), due, nil)
		require.NoError(t, err)

		assert.True(t, payment.IsLateAsOf(due.AddDate(0, 0, 1)))
	})

	t.Run("pending before due is not late", func(t *testing.T) {
		payment, err := NewPayment("ctr-1", decimal.NewFromInt(500), due, nil)
		require.NoError(t, err)

		assert.False(t, payment.IsLateAsOf(due.AddDate(0, 0, -1)))
		assert.False(t, payment.IsLateAsOf(due))
	})

	t.Run("settled payment never reads late", func(t *testing.T) {
		payment, err := NewPayment("ctr-1", decimal.NewFromInt(500), due, nil)
		require.NoError(t, err)
		require.NoError(t, payment.TransitionTo(PaymentStatePaid, due))

		assert.False(t, payment.IsLateAsOf(due.AddDate(0, 1, 0)))
	})
}

func TestPaymentLedgerAndDeletion(t *testing.T) {
	due := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)

	t.Run("cancelled payments drop out of the ledger", func(t *testing.T) {
		payment, err := NewPayment("ctr-1", decimal.NewFromInt(500), due, nil)
		require.NoError(t, err)
		assert.True(t, payment.CountsTowardLedger())

		require.NoError(t, payment.TransitionTo(PaymentStateCancelled, due))
		assert.False(t, payment.CountsTowardLedger())
	})

	t.Run("paid payments cannot be deleted", func(t *testing.T) {
		payment, err := NewPayment("ctr-1", decimal.NewFromInt(500), due, nil)
		require.NoError(t, err)
		assert.True(t, payment.CanDelete())

		require.NoError(t, payment.TransitionTo(PaymentStatePaid, due))
		assert.False(t, payment.CanDelete())
	})
}
