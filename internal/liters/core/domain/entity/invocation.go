package entity

// EventOrderPaid is the Tienda Nube webhook event that credits liters.
const EventOrderPaid = "order/paid"

// Invocation is one of DirectInvocation or WebhookInvocation.
type Invocation interface {
	Order() string
	isInvocation()
}

// DirectInvocation is an explicit API call naming only the order. The
// customer is taken from the fetched order.
type DirectInvocation struct {
	OrderID string
}

func (d DirectInvocation) Order() string { return d.OrderID }
func (DirectInvocation) isInvocation()   {}

// WebhookInvocation is a platform event notification. It carries the customer
// id so no lookup from the order is needed.
type WebhookInvocation struct {
	Event      string
	OrderID    string
	CustomerID string
}

func (w WebhookInvocation) Order() string { return w.OrderID }
func (WebhookInvocation) isInvocation()   {}

// Credit is the outcome of crediting an order to a customer.
type Credit struct {
	OrderID     string
	CustomerID  string
	OrderLiters Liters
	Previous    Liters
	Updated     Liters
	// Duplicate is set when the order had already been credited and no
	// upstream call was made.
	Duplicate bool
}
