package coordinator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/jcmexdev/tiendanube-liters/internal/liters/core/domain/entity"
	"github.com/jcmexdev/tiendanube-liters/internal/liters/core/ports"
)

// ErrAlreadyCredited is returned by ClaimOrderStep when the ledger already
// holds the order.
var ErrAlreadyCredited = errors.New("order already credited")

// CreditRun is the state shared by the credit steps. Each step reads what the
// previous ones filled in.
type CreditRun struct {
	Invocation entity.Invocation
	PerProduct entity.Liters

	Order    *entity.Order
	Customer *entity.Customer
	Credit   entity.Credit

	// Unclaimed is set when the ledger could not be reached and the credit
	// proceeded without a claim.
	Unclaimed bool
	// WriteUncertain is set when the PUT failed without a definite answer
	// from the platform, so the new total may have been stored.
	WriteUncertain bool
}

func NewCreditRun(inv entity.Invocation, perProduct entity.Liters) *CreditRun {
	return &CreditRun{
		Invocation: inv,
		PerProduct: perProduct,
		Credit:     entity.Credit{OrderID: inv.Order()},
	}
}

// --- ClaimOrderStep ---

type ClaimOrderStep struct {
	ledger ports.OrderLedger
	run    *CreditRun
}

func NewClaimOrderStep(ledger ports.OrderLedger, run *CreditRun) *ClaimOrderStep {
	return &ClaimOrderStep{ledger: ledger, run: run}
}

func (s *ClaimOrderStep) Name() string { return "Claim_Order_Step" }

func (s *ClaimOrderStep) Execute(ctx context.Context) error {
	claimed, err := s.ledger.Claim(ctx, s.run.Credit.OrderID)
	if err != nil {
		// Without the ledger the credit runs unguarded, as if none was configured.
		slog.WarnContext(ctx, "order ledger unavailable, crediting without duplicate check",
			"order_id", s.run.Credit.OrderID, "error", err)
		s.run.Unclaimed = true
		return nil
	}
	if !claimed {
		return ErrAlreadyCredited
	}
	return nil
}

// Compensate releases the claim unless the liters may already have been
// written, in which case a retry must be treated as a duplicate.
func (s *ClaimOrderStep) Compensate(ctx context.Context) error {
	if s.run.Unclaimed {
		return nil
	}
	if s.run.WriteUncertain {
		slog.WarnContext(ctx, "keeping order claim after uncertain write",
			"order_id", s.run.Credit.OrderID, "customer_id", s.run.Credit.CustomerID)
		return nil
	}
	return s.ledger.Release(ctx, s.run.Credit.OrderID)
}

// --- FetchOrderStep ---

type FetchOrderStep struct {
	client ports.CommerceClient
	run    *CreditRun
}

func NewFetchOrderStep(client ports.CommerceClient, run *CreditRun) *FetchOrderStep {
	return &FetchOrderStep{client: client, run: run}
}

func (s *FetchOrderStep) Name() string { return "Fetch_Order_Step" }

func (s *FetchOrderStep) Execute(ctx context.Context) error {
	order, err := s.client.FetchOrder(ctx, s.run.Credit.OrderID)
	if err != nil {
		return fmt.Errorf("failed to fetch order: %w", err)
	}
	s.run.Order = order

	// A webhook already names the customer; a direct call learns it from the order.
	customerID := ""
	if wh, ok := s.run.Invocation.(entity.WebhookInvocation); ok {
		customerID = strings.TrimSpace(wh.CustomerID)
	}
	if customerID == "" {
		customerID = strings.TrimSpace(order.CustomerID)
	}
	if customerID == "" {
		return entity.ErrOrderWithoutCustomer
	}

	s.run.Credit.CustomerID = customerID
	s.run.Credit.OrderLiters = entity.ComputeOrderLiters(order, s.run.PerProduct)

	slog.InfoContext(ctx, "order liters computed",
		"order_id", s.run.Credit.OrderID,
		"customer_id", customerID,
		"order_liters", int64(s.run.Credit.OrderLiters))
	return nil
}

func (s *FetchOrderStep) Compensate(ctx context.Context) error { return nil }

// --- FetchCustomerStep ---

type FetchCustomerStep struct {
	client ports.CommerceClient
	run    *CreditRun
}

func NewFetchCustomerStep(client ports.CommerceClient, run *CreditRun) *FetchCustomerStep {
	return &FetchCustomerStep{client: client, run: run}
}

func (s *FetchCustomerStep) Name() string { return "Fetch_Customer_Step" }

func (s *FetchCustomerStep) Execute(ctx context.Context) error {
	customer, err := s.client.FetchCustomer(ctx, s.run.Credit.CustomerID)
	if err != nil {
		return fmt.Errorf("failed to fetch customer: %w", err)
	}
	s.run.Customer = customer
	s.run.Credit.Previous = customer.Liters
	s.run.Credit.Updated = entity.ComputeUpdatedTotal(customer.Liters, s.run.Credit.OrderLiters)
	return nil
}

func (s *FetchCustomerStep) Compensate(ctx context.Context) error { return nil }

// --- UpdateLitersStep ---

type UpdateLitersStep struct {
	client ports.CommerceClient
	run    *CreditRun
}

func NewUpdateLitersStep(client ports.CommerceClient, run *CreditRun) *UpdateLitersStep {
	return &UpdateLitersStep{client: client, run: run}
}

func (s *UpdateLitersStep) Name() string { return "Update_Liters_Step" }

func (s *UpdateLitersStep) Execute(ctx context.Context) error {
	credit := &s.run.Credit
	slog.InfoContext(ctx, "updating customer liters",
		"customer_id", credit.CustomerID,
		"from", int64(credit.Previous),
		"to", int64(credit.Updated))

	updated, err := s.client.UpdateCustomerLiters(ctx, credit.CustomerID, credit.Updated)
	if err != nil {
		// Only an HTTP error status proves the platform rejected the write.
		var statusErr *ports.StatusError
		s.run.WriteUncertain = !errors.As(err, &statusErr)
		return fmt.Errorf("failed to update customer liters: %w", err)
	}

	// The confirmation reports what the platform stored.
	if updated != nil {
		if updated.ID != "" {
			credit.CustomerID = updated.ID
		}
		credit.Updated = updated.Liters
	}
	return nil
}

// Compensate is empty: the write is the last step and has no undo upstream.
func (s *UpdateLitersStep) Compensate(ctx context.Context) error { return nil }
