package trigger

type errorBody struct {
	Error string `json:"error"`
}

type readBody struct {
	Message string `json:"message"`
	Liters  int64  `json:"liters"`
}

// webhookBody is both the success body and the acknowledgement sent for
// failures the platform should not retry.
type webhookBody struct {
	Message    string `json:"message,omitempty"`
	Error      string `json:"error,omitempty"`
	OrderID    string `json:"orderId"`
	CustomerID string `json:"customerId"`
	Liters     *int64 `json:"liters,omitempty"`
	Duplicate  bool   `json:"duplicate,omitempty"`
}
