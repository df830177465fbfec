package entity

import "errors"

// ErrOrderWithoutCustomer is returned when neither the order nor the trigger
// names the purchasing customer.
var ErrOrderWithoutCustomer = errors.New("order has no associated customer")

type Product struct {
	Quantity int64
}

type Order struct {
	ID         string
	CustomerID string
	Products   []Product
}

// FirstLineQuantity returns the quantity of the first product line, or zero
// for an order without lines.
func (o *Order) FirstLineQuantity() int64 {
	if o == nil || len(o.Products) == 0 {
		return 0
	}
	return o.Products[0].Quantity
}
