// Package ledger keeps track of orders whose liters were already credited.
package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/jcmexdev/tiendanube-liters/internal/liters/core/ports"
	"github.com/jcmexdev/tiendanube-liters/internal/pkg/cache"
)

// DefaultTTL is how long a credited order is remembered.
const DefaultTTL = 30 * 24 * time.Hour

const operation = "credited-order"

// Ensure Redis implements the port at compile time.
var _ ports.OrderLedger = (*Redis)(nil)

// Redis stores one key per credited order.
type Redis struct {
	cache cache.Cache
	ttl   time.Duration
	now   func() time.Time
}

func NewRedis(c cache.Cache, ttl time.Duration) *Redis {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Redis{cache: c, ttl: ttl, now: time.Now}
}

func (l *Redis) Claim(ctx context.Context, orderID string) (bool, error) {
	key := l.cache.GenerateKey(operation, orderID)
	claimed, err := l.cache.SetNX(ctx, key, l.now().UTC().Format(time.RFC3339), l.ttl)
	if err != nil {
		return false, fmt.Errorf("ledger: claim %s: %w", orderID, err)
	}
	return claimed, nil
}

func (l *Redis) Release(ctx context.Context, orderID string) error {
	if err := l.cache.Delete(ctx, l.cache.GenerateKey(operation, orderID)); err != nil {
		return fmt.Errorf("ledger: release %s: %w", orderID, err)
	}
	return nil
}
