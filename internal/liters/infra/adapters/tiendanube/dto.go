package tiendanube

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// flexID accepts ids encoded as JSON numbers or strings.
type flexID string

func (f *flexID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || string(b) == "null" {
		*f = ""
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = flexID(strings.TrimSpace(s))
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("tiendanube: invalid id %s: %w", b, err)
	}
	*f = flexID(n.String())
	return nil
}

// flexQuantity accepts quantities encoded as JSON numbers or numeric strings.
type flexQuantity int64

func (q *flexQuantity) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || string(b) == "null" {
		*q = 0
		return nil
	}
	s := string(b)
	if b[0] == '"' {
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		// Unreadable quantities count as no quantity.
		*q = 0
		return nil
	}
	*q = flexQuantity(int64(f))
	return nil
}

type customerDTO struct {
	ID   flexID  `json:"id"`
	Note *string `json:"note"`
}

type orderCustomerDTO struct {
	ID flexID `json:"id"`
}

type orderProductDTO struct {
	Quantity flexQuantity `json:"quantity"`
}

type orderDTO struct {
	ID       flexID            `json:"id"`
	Customer *orderCustomerDTO `json:"customer"`
	Products []orderProductDTO `json:"products"`
}

type updateCustomerRequest struct {
	ID   string `json:"id"`
	Note string `json:"note"`
}
