package ports

import (
	"context"
	"errors"
	"fmt"

	"github.com/jcmexdev/tiendanube-liters/internal/liters/core/domain/entity"
)

// ErrUnavailable marks upstream calls that timed out or could not reach the
// host. It is never reported as not found.
var ErrUnavailable = errors.New("commerce api unavailable")

// Resource names used in StatusError.
const (
	ResourceOrder    = "order"
	ResourceCustomer = "customer"
)

// StatusError is an HTTP error answered by the commerce API.
type StatusError struct {
	Resource   string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("commerce api: %s: status %d", e.Resource, e.StatusCode)
}

// CommerceClient reads orders and customers and writes customer liters.
type CommerceClient interface {
	FetchOrder(ctx context.Context, orderID string) (*entity.Order, error)
	FetchCustomer(ctx context.Context, customerID string) (*entity.Customer, error)
	UpdateCustomerLiters(ctx context.Context, customerID string, liters entity.Liters) (*entity.Customer, error)
}
