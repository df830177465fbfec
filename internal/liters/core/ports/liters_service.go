package ports

import (
	"context"

	"github.com/jcmexdev/tiendanube-liters/internal/liters/core/domain/entity"
)

type LitersService interface {
	CustomerLiters(ctx context.Context, customerID string) (*entity.Customer, error)
	CreditOrder(ctx context.Context, inv entity.Invocation) (*entity.Credit, error)
}
