package ports

import "context"

// OrderLedger remembers which orders were already credited so repeated
// webhook deliveries cannot count an order twice.
type OrderLedger interface {
	// Claim reserves the order. It reports false when the order was claimed
	// before.
	Claim(ctx context.Context, orderID string) (bool, error)
	// Release drops a claim whose credit did not complete.
	Release(ctx context.Context, orderID string) error
}
