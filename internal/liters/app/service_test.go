package app

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/jcmexdev/tiendanube-liters/internal/liters/core/domain/entity"
	"github.com/jcmexdev/tiendanube-liters/internal/liters/core/ports"
)

type mockCommerce struct {
	mock.Mock
	calls []string
}

func (m *mockCommerce) FetchOrder(ctx context.Context, orderID string) (*entity.Order, error) {
	m.calls = append(m.calls, "GET /orders/"+orderID)
	args := m.Called(ctx, orderID)
	if o := args.Get(0); o != nil {
		return o.(*entity.Order), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockCommerce) FetchCustomer(ctx context.Context, customerID string) (*entity.Customer, error) {
	m.calls = append(m.calls, "GET /customers/"+customerID)
	args := m.Called(ctx, customerID)
	if c := args.Get(0); c != nil {
		return c.(*entity.Customer), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockCommerce) UpdateCustomerLiters(ctx context.Context, customerID string, liters entity.Liters) (*entity.Customer, error) {
	m.calls = append(m.calls, "PUT /customers/"+customerID)
	args := m.Called(ctx, customerID, liters)
	if c := args.Get(0); c != nil {
		return c.(*entity.Customer), args.Error(1)
	}
	return nil, args.Error(1)
}

type mockLedger struct {
	mock.Mock
}

func (m *mockLedger) Claim(ctx context.Context, orderID string) (bool, error) {
	args := m.Called(ctx, orderID)
	return args.Bool(0), args.Error(1)
}

func (m *mockLedger) Release(ctx context.Context, orderID string) error {
	return m.Called(ctx, orderID).Error(0)
}

func orderWith(id, customerID string, quantities ...int64) *entity.Order {
	order := &entity.Order{ID: id, CustomerID: customerID}
	for _, q := range quantities {
		order.Products = append(order.Products, entity.Product{Quantity: q})
	}
	return order
}

func TestCustomerLiters(t *testing.T) {
	commerce := new(mockCommerce)
	commerce.On("FetchCustomer", mock.Anything, "42").Return(&entity.Customer{ID: "42", Liters: 150}, nil)

	customer, err := NewService(commerce, nil, 1).CustomerLiters(context.Background(), "42")
	require.NoError(t, err)
	assert.Equal(t, &entity.Customer{ID: "42", Liters: 150}, customer)
}

func TestCustomerLiters_FallsBackToRequestedID(t *testing.T) {
	commerce := new(mockCommerce)
	commerce.On("FetchCustomer", mock.Anything, "42").Return(&entity.Customer{Liters: 3}, nil)

	customer, err := NewService(commerce, nil, 1).CustomerLiters(context.Background(), "42")
	require.NoError(t, err)
	assert.Equal(t, "42", customer.ID)
}

func TestCustomerLiters_WrapsErrors(t *testing.T) {
	commerce := new(mockCommerce)
	commerce.On("FetchCustomer", mock.Anything, "42").Return(nil, ports.ErrUnavailable)

	_, err := NewService(commerce, nil, 1).CustomerLiters(context.Background(), "42")
	assert.ErrorIs(t, err, ports.ErrUnavailable)
}

func TestCreditOrder_DirectInvocation(t *testing.T) {
	commerce := new(mockCommerce)
	commerce.On("FetchOrder", mock.Anything, "55").Return(orderWith("55", "9", 10, 4), nil)
	commerce.On("FetchCustomer", mock.Anything, "9").Return(&entity.Customer{ID: "9", Liters: 150}, nil)
	commerce.On("UpdateCustomerLiters", mock.Anything, "9", entity.Liters(200)).
		Return(&entity.Customer{ID: "9", Liters: 200}, nil)

	credit, err := NewService(commerce, nil, 5).CreditOrder(context.Background(), entity.DirectInvocation{OrderID: "55"})
	require.NoError(t, err)

	assert.Equal(t, &entity.Credit{
		OrderID:     "55",
		CustomerID:  "9",
		OrderLiters: 50,
		Previous:    150,
		Updated:     200,
	}, credit)
	assert.Equal(t, []string{"GET /orders/55", "GET /customers/9", "PUT /customers/9"}, commerce.calls)
	commerce.AssertExpectations(t)
}

func TestCreditOrder_WebhookUsesPayloadCustomer(t *testing.T) {
	commerce := new(mockCommerce)
	commerce.On("FetchOrder", mock.Anything, "55").Return(orderWith("55", "other", 2), nil)
	commerce.On("FetchCustomer", mock.Anything, "9").Return(&entity.Customer{ID: "9"}, nil)
	commerce.On("UpdateCustomerLiters", mock.Anything, "9", entity.Liters(2)).
		Return(&entity.Customer{ID: "9", Liters: 2}, nil)

	inv := entity.WebhookInvocation{Event: entity.EventOrderPaid, OrderID: "55", CustomerID: "9"}
	credit, err := NewService(commerce, nil, 1).CreditOrder(context.Background(), inv)
	require.NoError(t, err)

	assert.Equal(t, "9", credit.CustomerID)
	assert.Equal(t, entity.Liters(2), credit.Updated)
	assert.Equal(t, []string{"GET /orders/55", "GET /customers/9", "PUT /customers/9"}, commerce.calls)
}

func TestCreditOrder_OrderWithoutCustomer(t *testing.T) {
	commerce := new(mockCommerce)
	commerce.On("FetchOrder", mock.Anything, "55").Return(orderWith("55", "", 3), nil)

	_, err := NewService(commerce, nil, 1).CreditOrder(context.Background(), entity.DirectInvocation{OrderID: "55"})

	assert.ErrorIs(t, err, entity.ErrOrderWithoutCustomer)
	assert.Equal(t, []string{"GET /orders/55"}, commerce.calls)
}

func TestCreditOrder_NoProductsWritesCurrentTotal(t *testing.T) {
	commerce := new(mockCommerce)
	commerce.On("FetchOrder", mock.Anything, "55").Return(orderWith("55", "9"), nil)
	commerce.On("FetchCustomer", mock.Anything, "9").Return(&entity.Customer{ID: "9", Liters: 30}, nil)
	commerce.On("UpdateCustomerLiters", mock.Anything, "9", entity.Liters(30)).
		Return(&entity.Customer{ID: "9", Liters: 30}, nil)

	credit, err := NewService(commerce, nil, 5).CreditOrder(context.Background(), entity.DirectInvocation{OrderID: "55"})
	require.NoError(t, err)
	assert.Equal(t, entity.Liters(0), credit.OrderLiters)
	assert.Equal(t, entity.Liters(30), credit.Updated)
}

func TestCreditOrder_StopsAtFailedStep(t *testing.T) {
	notFound := &ports.StatusError{Resource: ports.ResourceCustomer, StatusCode: 404}

	commerce := new(mockCommerce)
	commerce.On("FetchOrder", mock.Anything, "55").Return(orderWith("55", "9", 1), nil)
	commerce.On("FetchCustomer", mock.Anything, "9").Return(nil, notFound)

	_, err := NewService(commerce, nil, 1).CreditOrder(context.Background(), entity.DirectInvocation{OrderID: "55"})

	var statusErr *ports.StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, ports.ResourceCustomer, statusErr.Resource)
	commerce.AssertNotCalled(t, "UpdateCustomerLiters", mock.Anything, mock.Anything, mock.Anything)
}

func TestCreditOrder_LedgerClaimsOrder(t *testing.T) {
	ledger := new(mockLedger)
	ledger.On("Claim", mock.Anything, "55").Return(true, nil)

	commerce := new(mockCommerce)
	commerce.On("FetchOrder", mock.Anything, "55").Return(orderWith("55", "9", 1), nil)
	commerce.On("FetchCustomer", mock.Anything, "9").Return(&entity.Customer{ID: "9"}, nil)
	commerce.On("UpdateCustomerLiters", mock.Anything, "9", entity.Liters(1)).
		Return(&entity.Customer{ID: "9", Liters: 1}, nil)

	_, err := NewService(commerce, ledger, 1).CreditOrder(context.Background(), entity.DirectInvocation{OrderID: "55"})
	require.NoError(t, err)

	ledger.AssertExpectations(t)
	ledger.AssertNotCalled(t, "Release", mock.Anything, mock.Anything)
}

func TestCreditOrder_DuplicateSkipsUpstream(t *testing.T) {
	ledger := new(mockLedger)
	ledger.On("Claim", mock.Anything, "55").Return(false, nil)
	commerce := new(mockCommerce)

	inv := entity.WebhookInvocation{Event: entity.EventOrderPaid, OrderID: "55", CustomerID: "9"}
	credit, err := NewService(commerce, ledger, 1).CreditOrder(context.Background(), inv)
	require.NoError(t, err)

	assert.True(t, credit.Duplicate)
	assert.Equal(t, "55", credit.OrderID)
	assert.Equal(t, "9", credit.CustomerID)
	assert.Empty(t, commerce.calls)
	ledger.AssertNotCalled(t, "Release", mock.Anything, mock.Anything)
}

func TestCreditOrder_ReleasesClaimOnFailureBeforeWrite(t *testing.T) {
	ledger := new(mockLedger)
	ledger.On("Claim", mock.Anything, "55").Return(true, nil)
	ledger.On("Release", mock.Anything, "55").Return(nil)

	commerce := new(mockCommerce)
	commerce.On("FetchOrder", mock.Anything, "55").Return(orderWith("55", "9", 1), nil)
	commerce.On("FetchCustomer", mock.Anything, "9").Return(nil, ports.ErrUnavailable)

	_, err := NewService(commerce, ledger, 1).CreditOrder(context.Background(), entity.DirectInvocation{OrderID: "55"})

	assert.ErrorIs(t, err, ports.ErrUnavailable)
	ledger.AssertExpectations(t)
}

func TestCreditOrder_ReleasesClaimWhenWriteRejected(t *testing.T) {
	ledger := new(mockLedger)
	ledger.On("Claim", mock.Anything, "55").Return(true, nil)
	ledger.On("Release", mock.Anything, "55").Return(nil)

	commerce := new(mockCommerce)
	commerce.On("FetchOrder", mock.Anything, "55").Return(orderWith("55", "9", 1), nil)
	commerce.On("FetchCustomer", mock.Anything, "9").Return(&entity.Customer{ID: "9"}, nil)
	commerce.On("UpdateCustomerLiters", mock.Anything, "9", entity.Liters(1)).
		Return(nil, &ports.StatusError{Resource: ports.ResourceCustomer, StatusCode: 422})

	_, err := NewService(commerce, ledger, 1).CreditOrder(context.Background(), entity.DirectInvocation{OrderID: "55"})

	assert.Error(t, err)
	ledger.AssertExpectations(t)
}

func TestCreditOrder_TimedOutWriteKeepsClaim(t *testing.T) {
	ledger := new(mockLedger)
	ledger.On("Claim", mock.Anything, "55").Return(true, nil).Once()
	ledger.On("Claim", mock.Anything, "55").Return(false, nil)

	commerce := new(mockCommerce)
	commerce.On("FetchOrder", mock.Anything, "55").Return(orderWith("55", "9", 50), nil)
	commerce.On("FetchCustomer", mock.Anything, "9").Return(&entity.Customer{ID: "9", Liters: 150}, nil)
	commerce.On("UpdateCustomerLiters", mock.Anything, "9", entity.Liters(200)).
		Return(nil, fmt.Errorf("tiendanube: customer: %w: %w", ports.ErrUnavailable, context.DeadlineExceeded))

	svc := NewService(commerce, ledger, 1)
	inv := entity.WebhookInvocation{Event: entity.EventOrderPaid, OrderID: "55", CustomerID: "9"}

	_, err := svc.CreditOrder(context.Background(), inv)
	require.ErrorIs(t, err, ports.ErrUnavailable)
	ledger.AssertNotCalled(t, "Release", mock.Anything, mock.Anything)

	// The redelivered webhook must not credit the order again.
	credit, err := svc.CreditOrder(context.Background(), inv)
	require.NoError(t, err)
	assert.True(t, credit.Duplicate)
	commerce.AssertNumberOfCalls(t, "UpdateCustomerLiters", 1)
}

func TestCreditOrder_LedgerErrorCreditsWithoutClaim(t *testing.T) {
	ledger := new(mockLedger)
	ledger.On("Claim", mock.Anything, "55").Return(false, errors.New("redis down"))

	commerce := new(mockCommerce)
	commerce.On("FetchOrder", mock.Anything, "55").Return(orderWith("55", "9", 2), nil)
	commerce.On("FetchCustomer", mock.Anything, "9").Return(&entity.Customer{ID: "9", Liters: 1}, nil)
	commerce.On("UpdateCustomerLiters", mock.Anything, "9", entity.Liters(3)).
		Return(nil, ports.ErrUnavailable)

	_, err := NewService(commerce, ledger, 1).CreditOrder(context.Background(), entity.DirectInvocation{OrderID: "55"})

	assert.ErrorIs(t, err, ports.ErrUnavailable)
	assert.Equal(t, []string{"GET /orders/55", "GET /customers/9", "PUT /customers/9"}, commerce.calls)
	ledger.AssertNotCalled(t, "Release", mock.Anything, mock.Anything)
}

func TestCreditOrder_LedgerErrorStillCredits(t *testing.T) {
	ledger := new(mockLedger)
	ledger.On("Claim", mock.Anything, "55").Return(false, errors.New("redis down"))

	commerce := new(mockCommerce)
	commerce.On("FetchOrder", mock.Anything, "55").Return(orderWith("55", "9", 2), nil)
	commerce.On("FetchCustomer", mock.Anything, "9").Return(&entity.Customer{ID: "9", Liters: 1}, nil)
	commerce.On("UpdateCustomerLiters", mock.Anything, "9", entity.Liters(3)).
		Return(&entity.Customer{ID: "9", Liters: 3}, nil)

	credit, err := NewService(commerce, ledger, 1).CreditOrder(context.Background(), entity.DirectInvocation{OrderID: "55"})

	require.NoError(t, err)
	assert.False(t, credit.Duplicate)
	assert.Equal(t, entity.Liters(3), credit.Updated)
}
