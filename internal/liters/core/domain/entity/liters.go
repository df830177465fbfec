package entity

import (
	"math"
	"strconv"
	"strings"
)

// DefaultLitersPerProduct is used when no conversion factor is configured.
const DefaultLitersPerProduct Liters = 1

// Liters is the loyalty counter kept per customer. It is never negative.
type Liters int64

// ParseLiters reads the counter out of a customer note. It follows
// leading-integer semantics: surrounding whitespace and trailing text are
// ignored ("150 liters" is 150). Empty, non-numeric, negative or out of range
// notes count as zero.
func ParseLiters(note string) Liters {
	s := strings.TrimSpace(note)
	if s == "" {
		return 0
	}

	sign := ""
	if s[0] == '+' || s[0] == '-' {
		sign, s = s[:1], s[1:]
	}

	end := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == 0 {
		return 0
	}

	n, err := strconv.ParseInt(sign+s[:end], 10, 64)
	if err != nil || n < 0 {
		return 0
	}
	return Liters(n)
}

// Note renders the counter the way it is stored upstream.
func (l Liters) Note() string {
	return strconv.FormatInt(int64(l), 10)
}

func (l Liters) String() string {
	return l.Note()
}

// ComputeOrderLiters converts the first product line of an order into liters.
// Additional lines are ignored.
func ComputeOrderLiters(order *Order, perProduct Liters) Liters {
	if perProduct <= 0 {
		perProduct = DefaultLitersPerProduct
	}
	quantity := order.FirstLineQuantity()
	if quantity <= 0 {
		return 0
	}
	if Liters(quantity) > math.MaxInt64/perProduct {
		return math.MaxInt64
	}
	return Liters(quantity) * perProduct
}

// ComputeUpdatedTotal adds the liters of an order to the customer's current
// total. The sum saturates at math.MaxInt64.
func ComputeUpdatedTotal(current, orderLiters Liters) Liters {
	if current < 0 {
		current = 0
	}
	if orderLiters < 0 {
		orderLiters = 0
	}
	if current > math.MaxInt64-orderLiters {
		return math.MaxInt64
	}
	return current + orderLiters
}
