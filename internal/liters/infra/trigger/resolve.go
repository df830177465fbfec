package trigger

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"

	"github.com/jcmexdev/tiendanube-liters/internal/liters/core/domain/entity"
)

// ErrInvalidIdentifier is returned when no usable identifier can be read
// from the request.
var ErrInvalidIdentifier = errors.New("missing or invalid identifier")

// ResolveCustomerID reads the customer id from, in order, the userId query
// parameter, the userId path parameter and the id field of a JSON body.
// The first source that is present wins even if its value turns out invalid.
func ResolveCustomerID(req Request) (string, error) {
	if id := req.QueryStringParameters["userId"]; id != "" {
		return validID(id)
	}
	if id := req.PathParameters["userId"]; id != "" {
		return validID(id)
	}

	fields, err := bodyFields(req)
	if err != nil {
		return "", err
	}
	id, ok := stringField(fields["id"])
	if !ok {
		return "", ErrInvalidIdentifier
	}
	return validID(id)
}

// ResolveInvocation classifies a write request. A body naming orderId or id
// is a direct invocation; otherwise an order/paid event with a data object is
// a webhook invocation.
func ResolveInvocation(req Request) (entity.Invocation, error) {
	fields, err := bodyFields(req)
	if err != nil {
		return nil, err
	}

	if raw, ok := directOrderField(fields); ok {
		id, ok := stringField(raw)
		if !ok {
			return nil, ErrInvalidIdentifier
		}
		orderID, err := validID(id)
		if err != nil {
			return nil, err
		}
		return entity.DirectInvocation{OrderID: orderID}, nil
	}

	event, _ := stringField(fields["event"])
	if event != entity.EventOrderPaid || !isObject(fields["data"]) {
		return nil, ErrInvalidIdentifier
	}

	var data struct {
		ID       json.RawMessage `json:"id"`
		Customer struct {
			ID json.RawMessage `json:"id"`
		} `json:"customer"`
	}
	if err := json.Unmarshal(fields["data"], &data); err != nil {
		return nil, ErrInvalidIdentifier
	}

	id, _ := scalarField(data.ID)
	orderID, err := validID(id)
	if err != nil {
		return nil, err
	}
	customerID, _ := scalarField(data.Customer.ID)

	return entity.WebhookInvocation{
		Event:      event,
		OrderID:    orderID,
		CustomerID: strings.TrimSpace(customerID),
	}, nil
}

// directOrderField returns the first non-empty of orderId and id. It reports
// true as soon as either key exists.
func directOrderField(fields map[string]json.RawMessage) (json.RawMessage, bool) {
	orderID, hasOrderID := fields["orderId"]
	id, hasID := fields["id"]
	switch {
	case hasOrderID && !isEmptyValue(orderID):
		return orderID, true
	case hasID:
		return id, true
	case hasOrderID:
		return orderID, true
	}
	return nil, false
}

func bodyFields(req Request) (map[string]json.RawMessage, error) {
	body, err := req.DecodedBody()
	if err != nil {
		return nil, ErrInvalidIdentifier
	}
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return nil, ErrInvalidIdentifier
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil || fields == nil {
		return nil, ErrInvalidIdentifier
	}
	return fields, nil
}

func validID(id string) (string, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return "", ErrInvalidIdentifier
	}
	return id, nil
}

// stringField accepts JSON strings only.
func stringField(raw json.RawMessage) (string, bool) {
	var s string
	if len(raw) == 0 || json.Unmarshal(raw, &s) != nil {
		return "", false
	}
	return s, true
}

// scalarField accepts JSON strings and numbers, returning numbers verbatim.
func scalarField(raw json.RawMessage) (string, bool) {
	if s, ok := stringField(raw); ok {
		return s, true
	}
	var n json.Number
	if len(raw) == 0 || json.Unmarshal(raw, &n) != nil {
		return "", false
	}
	return n.String(), true
}

func isObject(raw json.RawMessage) bool {
	raw = bytes.TrimSpace(raw)
	return len(raw) > 0 && raw[0] == '{'
}

func isEmptyValue(raw json.RawMessage) bool {
	s, ok := scalarField(raw)
	return !ok || strings.TrimSpace(s) == ""
}
