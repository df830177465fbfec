package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/jcmexdev/tiendanube-liters/internal/coordinator"
	"github.com/jcmexdev/tiendanube-liters/internal/liters/core/domain/entity"
	"github.com/jcmexdev/tiendanube-liters/internal/liters/core/ports"
)

// Ensure Service implements the port at compile time.
var _ ports.LitersService = (*Service)(nil)

// Service reads and credits customer liters against the commerce API.
type Service struct {
	commerce   ports.CommerceClient
	ledger     ports.OrderLedger // nil-safe: no duplicate detection if nil
	perProduct entity.Liters

	creditedLiters metric.Int64Counter
	creditedOrders metric.Int64Counter
	duplicates     metric.Int64Counter
}

// NewService wires the service. ledger may be nil.
func NewService(commerce ports.CommerceClient, ledger ports.OrderLedger, perProduct entity.Liters) *Service {
	if perProduct <= 0 {
		perProduct = entity.DefaultLitersPerProduct
	}

	meter := otel.Meter("github.com/jcmexdev/tiendanube-liters/internal/liters/app")
	creditedLiters, _ := meter.Int64Counter("liters.credited",
		metric.WithDescription("Liters added to customer totals"))
	creditedOrders, _ := meter.Int64Counter("orders.credited",
		metric.WithDescription("Orders whose liters were credited"))
	duplicates, _ := meter.Int64Counter("orders.duplicate",
		metric.WithDescription("Orders skipped because they were already credited"))

	return &Service{
		commerce:       commerce,
		ledger:         ledger,
		perProduct:     perProduct,
		creditedLiters: creditedLiters,
		creditedOrders: creditedOrders,
		duplicates:     duplicates,
	}
}

// CustomerLiters returns the customer with the liters parsed from its note.
func (s *Service) CustomerLiters(ctx context.Context, customerID string) (*entity.Customer, error) {
	ctx, span := otel.Tracer("liters").Start(ctx, "liters.CustomerLiters")
	defer span.End()
	span.SetAttributes(attribute.String("customer_id", customerID))

	slog.InfoContext(ctx, "fetching customer liters", "customer_id", customerID)

	customer, err := s.commerce.FetchCustomer(ctx, customerID)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("fetch customer %s: %w", customerID, err)
	}
	if customer.ID == "" {
		customer.ID = customerID
	}
	return customer, nil
}

// CreditOrder adds the liters of an order to its customer. The upstream
// sequence is always GET order, GET customer, PUT customer.
func (s *Service) CreditOrder(ctx context.Context, inv entity.Invocation) (*entity.Credit, error) {
	ctx, span := otel.Tracer("liters").Start(ctx, "liters.CreditOrder")
	defer span.End()

	kind := invocationKind(inv)
	span.SetAttributes(
		attribute.String("order_id", inv.Order()),
		attribute.String("invocation", kind),
	)

	run := coordinator.NewCreditRun(inv, s.perProduct)

	var steps []coordinator.Step
	if s.ledger != nil {
		steps = append(steps, coordinator.NewClaimOrderStep(s.ledger, run))
	}
	steps = append(steps,
		coordinator.NewFetchOrderStep(s.commerce, run),
		coordinator.NewFetchCustomerStep(s.commerce, run),
		coordinator.NewUpdateLitersStep(s.commerce, run),
	)

	saga := coordinator.NewOrchestrator(inv.Order(), steps)
	if err := saga.Start(ctx); err != nil {
		if errors.Is(err, coordinator.ErrAlreadyCredited) {
			slog.InfoContext(ctx, "order already credited, skipping", "order_id", inv.Order())
			s.duplicates.Add(ctx, 1, metric.WithAttributes(attribute.String("invocation", kind)))

			credit := run.Credit
			credit.Duplicate = true
			if wh, ok := inv.(entity.WebhookInvocation); ok {
				credit.CustomerID = wh.CustomerID
			}
			return &credit, nil
		}
		span.RecordError(err)
		return nil, fmt.Errorf("credit order %s: %w", inv.Order(), err)
	}

	credit := run.Credit
	s.creditedOrders.Add(ctx, 1, metric.WithAttributes(attribute.String("invocation", kind)))
	s.creditedLiters.Add(ctx, int64(credit.OrderLiters))

	slog.InfoContext(ctx, "customer liters updated",
		"order_id", credit.OrderID,
		"customer_id", credit.CustomerID,
		"from", int64(credit.Previous),
		"to", int64(credit.Updated))
	return &credit, nil
}

func invocationKind(inv entity.Invocation) string {
	switch inv.(type) {
	case entity.WebhookInvocation:
		return "webhook"
	default:
		return "direct"
	}
}
