package session_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/mattf196/henrylabs-takehome/internal/currency"
	"github.com/mattf196/henrylabs-takehome/internal/session"
	"github.com/mattf196/henrylabs-takehome/internal/session/mocks"
)

func testCart() session.CartSnapshot {
	return session.CartSnapshot{
		Items: []currency.LineItem{
			{ProductID: "p-1", Quantity: 2, UnitAmount: 25.00, UnitCurrency: "USD"},
		},
	}
}

type machineFixture struct {
	api      *mocks.CheckoutAPI
	form     *mocks.PaymentForm
	notifier *mocks.Notifier
	machine  *session.Machine
}

func newFixture(t *testing.T) *machineFixture {
	t.Helper()
	f := &machineFixture{
		api:      mocks.NewCheckoutAPI(t),
		form:     mocks.NewPaymentForm(t),
		notifier: mocks.NewNotifier(t),
	}
	f.machine = session.NewMachine(zap.NewNop(), f.api, f.form, f.notifier, "cust-1")
	return f
}

// payToMounted проводит сессию до смонтированной формы и возвращает её onToken callback
func (f *machineFixture) payToMounted(t *testing.T, ctx context.Context) func(string) {
	t.Helper()

	var onToken func(string)
	f.api.On("CreateCheckout", mock.Anything, session.CreateRequest{
		Amount:     50.00,
		Currency:   currency.SettlementCurrency,
		CustomerID: "cust-1",
	}).Return(session.Result{
		Status:     "success",
		Code:       201,
		CheckoutID: "chk_1",
	}, nil).Once()
	f.form.On("Mount", mock.Anything, "chk_1", mock.Anything).
		Run(func(args mock.Arguments) {
			onToken = args.Get(2).(func(string))
		}).
		Return(nil).Once()

	f.machine.Open(testCart())
	require.NoError(t, f.machine.Pay(ctx))
	require.Equal(t, session.StepAwaitingPaymentMounted, f.machine.Step())
	require.NotNil(t, onToken)
	return onToken
}

func TestMachine_Pay(t *testing.T) {
	ctx := context.Background()

	t.Run("happy path mounts the form for the created checkout", func(t *testing.T) {
		// Arrange + Act
		f := newFixture(t)
		f.payToMounted(t, ctx)

		// Assert
		require.Equal(t, "chk_1", f.machine.CheckoutID())
		f.api.AssertExpectations(t)
		f.form.AssertExpectations(t)
	})

	t.Run("pay outside idle is rejected and the form is mounted once", func(t *testing.T) {
		// Arrange
		f := newFixture(t)
		f.payToMounted(t, ctx)

		// Act
		err := f.machine.Pay(ctx)

		// Assert
		require.Error(t, err)
		require.Contains(t, err.Error(), "cannot pay from step")
		f.form.AssertNumberOfCalls(t, "Mount", 1)
	})

	t.Run("network error fails the session with the generic network message", func(t *testing.T) {
		// Arrange
		f := newFixture(t)
		f.api.On("CreateCheckout", mock.Anything, mock.Anything).
			Return(session.Result{}, fmt.Errorf("%w: connection refused", session.ErrNetwork)).Once()

		f.machine.Open(testCart())

		// Act
		require.NoError(t, f.machine.Pay(ctx))

		// Assert
		require.Equal(t, session.StepFailed, f.machine.Step())
		require.Equal(t, session.NetworkErrorMessage, f.machine.ErrorMessage())
		f.form.AssertNotCalled(t, "Mount")
	})

	t.Run("server failure surfaces the server message", func(t *testing.T) {
		// Arrange
		f := newFixture(t)
		f.api.On("CreateCheckout", mock.Anything, mock.Anything).Return(session.Result{
			Status:    "failed",
			Code:      503,
			Substatus: "retry",
			Message:   "gateway temporarily unavailable",
		}, nil).Once()

		f.machine.Open(testCart())

		// Act
		require.NoError(t, f.machine.Pay(ctx))

		// Assert
		require.Equal(t, session.StepFailed, f.machine.Step())
		require.Equal(t, "gateway temporarily unavailable", f.machine.ErrorMessage())
		f.form.AssertNotCalled(t, "Mount")
	})

	t.Run("success without checkoutId is treated as a failure", func(t *testing.T) {
		// Arrange
		f := newFixture(t)
		f.api.On("CreateCheckout", mock.Anything, mock.Anything).Return(session.Result{
			Status: "success",
			Code:   201,
		}, nil).Once()

		f.machine.Open(testCart())

		// Act
		require.NoError(t, f.machine.Pay(ctx))

		// Assert
		require.Equal(t, session.StepFailed, f.machine.Step())
		f.form.AssertNotCalled(t, "Mount")
	})
}

func TestMachine_SubmitToken(t *testing.T) {
	ctx := context.Background()

	t.Run("confirmed payment succeeds the session and clears the cart", func(t *testing.T) {
		// Arrange
		f := newFixture(t)
		onToken := f.payToMounted(t, ctx)

		f.api.On("ConfirmCheckout", mock.Anything, session.ConfirmRequest{
			CheckoutID:   "chk_1",
			PaymentToken: "tok-1",
		}).Return(session.Result{
			Status:         "success",
			Code:           200,
			ConfirmationID: "conf_1",
		}, nil).Once()
		f.notifier.On("Success", mock.AnythingOfType("string")).Once()

		// Act
		onToken("tok-1")

		// Assert
		require.Equal(t, session.StepSucceeded, f.machine.Step())
		require.Equal(t, "conf_1", f.machine.ConfirmationID())
		require.Empty(t, f.machine.Cart().Items)
		f.api.AssertExpectations(t)
		f.notifier.AssertExpectations(t)
	})

	t.Run("fraud decline shows only the generic message", func(t *testing.T) {
		// Arrange
		f := newFixture(t)
		onToken := f.payToMounted(t, ctx)

		f.api.On("ConfirmCheckout", mock.Anything, mock.Anything).Return(session.Result{
			Status:    "failed",
			Code:      402,
			Substatus: "fraud",
			Message:   session.GenericDeclineMessage,
		}, nil).Once()

		// Act
		onToken("tok-1")

		// Assert
		require.Equal(t, session.StepFailed, f.machine.Step())
		require.Equal(t, session.GenericDeclineMessage, f.machine.ErrorMessage())
		f.notifier.AssertNotCalled(t, "Success")
	})

	t.Run("network error on confirm fails with the network message", func(t *testing.T) {
		// Arrange
		f := newFixture(t)
		onToken := f.payToMounted(t, ctx)

		f.api.On("ConfirmCheckout", mock.Anything, mock.Anything).
			Return(session.Result{}, fmt.Errorf("%w: timeout", session.ErrNetwork)).Once()

		// Act
		onToken("tok-1")

		// Assert
		require.Equal(t, session.StepFailed, f.machine.Step())
		require.Equal(t, session.NetworkErrorMessage, f.machine.ErrorMessage())
	})

	t.Run("token outside the mounted step is ignored", func(t *testing.T) {
		// Arrange
		f := newFixture(t)
		f.machine.Open(testCart())

		// Act
		f.machine.SubmitToken(ctx, "tok-1")

		// Assert
		require.Equal(t, session.StepIdle, f.machine.Step())
		f.api.AssertNotCalled(t, "ConfirmCheckout")
	})
}

func TestMachine_Reset(t *testing.T) {
	ctx := context.Background()

	t.Run("reset is only allowed from failed", func(t *testing.T) {
		f := newFixture(t)
		f.machine.Open(testCart())

		err := f.machine.Reset()

		require.Error(t, err)
		require.Contains(t, err.Error(), "cannot reset from step")
	})

	t.Run("reset discards the failed session entirely", func(t *testing.T) {
		// Arrange
		f := newFixture(t)
		onToken := f.payToMounted(t, ctx)
		f.api.On("ConfirmCheckout", mock.Anything, mock.Anything).Return(session.Result{
			Status:    "failed",
			Code:      503,
			Substatus: "retry",
			Message:   "gateway temporarily unavailable",
		}, nil).Once()
		onToken("tok-1")
		require.Equal(t, session.StepFailed, f.machine.Step())

		// Act
		require.NoError(t, f.machine.Reset())

		// Assert
		require.Equal(t, session.StepIdle, f.machine.Step())
		require.Empty(t, f.machine.CheckoutID(), "failed checkoutId must not be reused")
		require.Empty(t, f.machine.ErrorMessage())
		require.Empty(t, f.machine.ConfirmationID())
	})

	t.Run("new attempt after reset creates a fresh checkout", func(t *testing.T) {
		// Arrange
		f := newFixture(t)
		f.api.On("CreateCheckout", mock.Anything, mock.Anything).Return(session.Result{
			Status:    "failed",
			Code:      503,
			Substatus: "retry",
			Message:   "gateway temporarily unavailable",
		}, nil).Once()
		f.machine.Open(testCart())
		require.NoError(t, f.machine.Pay(ctx))
		require.NoError(t, f.machine.Reset())

		f.api.On("CreateCheckout", mock.Anything, mock.Anything).Return(session.Result{
			Status:     "success",
			Code:       201,
			CheckoutID: "chk_2",
		}, nil).Once()
		f.form.On("Mount", mock.Anything, "chk_2", mock.Anything).Return(nil).Once()

		// Act
		require.NoError(t, f.machine.Pay(ctx))

		// Assert
		require.Equal(t, session.StepAwaitingPaymentMounted, f.machine.Step())
		require.Equal(t, "chk_2", f.machine.CheckoutID())
		f.api.AssertNumberOfCalls(t, "CreateCheckout", 2)
	})
}

func TestCartSnapshot_SettlementTotal(t *testing.T) {
	cart := session.CartSnapshot{
		Items: []currency.LineItem{
			{ProductID: "p-1", Quantity: 1, UnitAmount: 100, UnitCurrency: "EUR"},
			{ProductID: "p-2", Quantity: 2, UnitAmount: 10, UnitCurrency: "USD"},
		},
	}

	total, err := cart.SettlementTotal()

	require.NoError(t, err)
	require.Equal(t, 129.0, total)
}
