package trigger

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/jcmexdev/tiendanube-liters/internal/liters/core/domain/entity"
	"github.com/jcmexdev/tiendanube-liters/internal/liters/core/ports"
)

const (
	MsgInvalidUserID      = "Missing or invalid user ID"
	MsgInvalidOrderID     = "Missing or invalid order ID"
	MsgNoCustomer         = "Order has no associated customer"
	MsgMethodNotAllowed   = "Method Not Allowed"
	MsgCustomerNotFound   = "Customer not found"
	MsgOrderNotFound      = "Order not found"
	MsgAuthFailed         = "Authentication failed"
	MsgAccessDenied       = "Access denied"
	MsgServiceUnavailable = "External service unavailable"
	MsgInternal           = "Internal server error"
)

// mapError turns a service error into the status and message sent to the
// caller.
func mapError(err error) (int, string) {
	var statusErr *ports.StatusError

	switch {
	case errors.Is(err, ErrInvalidIdentifier):
		return http.StatusBadRequest, MsgInvalidOrderID
	case errors.Is(err, entity.ErrOrderWithoutCustomer):
		return http.StatusBadRequest, MsgNoCustomer
	case errors.As(err, &statusErr):
		switch statusErr.StatusCode {
		case http.StatusNotFound:
			if statusErr.Resource == ports.ResourceOrder {
				return http.StatusNotFound, MsgOrderNotFound
			}
			return http.StatusNotFound, MsgCustomerNotFound
		case http.StatusUnauthorized:
			return http.StatusUnauthorized, MsgAuthFailed
		case http.StatusForbidden:
			return http.StatusForbidden, MsgAccessDenied
		default:
			return statusErr.StatusCode, fmt.Sprintf("External API error: %d", statusErr.StatusCode)
		}
	case errors.Is(err, ports.ErrUnavailable):
		return http.StatusServiceUnavailable, MsgServiceUnavailable
	default:
		return http.StatusInternalServerError, MsgInternal
	}
}

func alreadyCreditedMessage(orderID string) string {
	return fmt.Sprintf("Order %s liters were already credited", orderID)
}

func readMessage(customer *entity.Customer) string {
	return fmt.Sprintf("Customer %s has %s liters.", customer.ID, customer.Liters)
}

func creditMessage(credit *entity.Credit) string {
	return fmt.Sprintf("Customer %s liters where updated from %s to %s",
		credit.CustomerID, credit.Previous, credit.Updated)
}
