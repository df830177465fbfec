package trigger

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// Allowed methods advertised by each handler.
const (
	ReadMethods  = "GET, POST, OPTIONS"
	WriteMethods = "POST, OPTIONS"
)

func corsHeaders(methods string) map[string]string {
	return map[string]string{
		"Access-Control-Allow-Origin":  "*",
		"Access-Control-Allow-Headers": "Content-Type",
		"Access-Control-Allow-Methods": methods,
		"Content-Type":                 "application/json",
	}
}

func jsonResponse(status int, methods string, payload any) Response {
	body, err := json.Marshal(payload)
	if err != nil {
		slog.Error("failed to encode response", "error", err)
		status = http.StatusInternalServerError
		body = []byte(`{"error":"` + MsgInternal + `"}`)
	}
	return Response{
		StatusCode: status,
		Headers:    corsHeaders(methods),
		Body:       string(body),
	}
}

// ErrorResponse builds a {"error": message} response with CORS headers.
func ErrorResponse(status int, methods, message string) Response {
	return jsonResponse(status, methods, errorBody{Error: message})
}

// optionsResponse answers a CORS preflight with an empty body.
func optionsResponse(methods string) Response {
	headers := corsHeaders(methods)
	delete(headers, "Content-Type")
	return Response{
		StatusCode: http.StatusOK,
		Headers:    headers,
	}
}
