package trigger

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/jcmexdev/tiendanube-liters/internal/liters/core/domain/entity"
)

type mockService struct {
	mock.Mock
}

func (m *mockService) CustomerLiters(ctx context.Context, customerID string) (*entity.Customer, error) {
	args := m.Called(ctx, customerID)
	if c := args.Get(0); c != nil {
		return c.(*entity.Customer), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockService) CreditOrder(ctx context.Context, inv entity.Invocation) (*entity.Credit, error) {
	args := m.Called(ctx, inv)
	if c := args.Get(0); c != nil {
		return c.(*entity.Credit), args.Error(1)
	}
	return nil, args.Error(1)
}
