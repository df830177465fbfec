// Package httpx serves the liters handlers over plain HTTP.
package httpx

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/jcmexdev/tiendanube-liters/internal/liters/infra/trigger"
)

// MaxBodyBytes caps request bodies. Webhook payloads are a few KB.
const MaxBodyBytes = 1 << 20

type invokeFunc func(ctx context.Context, req trigger.Request) (trigger.Response, error)

// Handler adapts net/http requests to the trigger envelope so the Lambda
// handlers run unchanged behind chi.
type Handler struct {
	reader *trigger.Reader
	writer *trigger.Writer
}

func NewHandler(reader *trigger.Reader, writer *trigger.Writer) *Handler {
	return &Handler{reader: reader, writer: writer}
}

func (h *Handler) GetUserLiters(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, h.reader.Handle)
}

func (h *Handler) SetUserLiters(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, h.writer.Handle)
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// MethodNotAllowed answers like the handlers do for unsupported methods,
// advertising the methods of the route that was hit.
func (h *Handler) MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	writeResponse(w, trigger.ErrorResponse(http.StatusMethodNotAllowed, routeMethods(r), trigger.MsgMethodNotAllowed))
}

func routeMethods(r *http.Request) string {
	if r.URL.Path == "/set-user-liters" {
		return trigger.WriteMethods
	}
	return trigger.ReadMethods
}

func (h *Handler) serve(w http.ResponseWriter, r *http.Request, invoke invokeFunc) {
	req, err := toTriggerRequest(w, r)
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			writeResponse(w, trigger.ErrorResponse(http.StatusRequestEntityTooLarge, routeMethods(r), "Request body too large"))
			return
		}
		slog.ErrorContext(r.Context(), "failed to read request body", "error", err)
		writeResponse(w, trigger.ErrorResponse(http.StatusBadRequest, routeMethods(r), "Unreadable request body"))
		return
	}

	resp, err := invoke(r.Context(), req)
	if err != nil {
		slog.ErrorContext(r.Context(), "handler returned error", "error", err)
		writeResponse(w, trigger.ErrorResponse(http.StatusInternalServerError, routeMethods(r), trigger.MsgInternal))
		return
	}

	writeResponse(w, resp)
}

func writeResponse(w http.ResponseWriter, resp trigger.Response) {
	for key, value := range resp.Headers {
		w.Header().Set(key, value)
	}
	w.WriteHeader(resp.StatusCode)
	_, _ = io.WriteString(w, resp.Body)
}

func toTriggerRequest(w http.ResponseWriter, r *http.Request) (trigger.Request, error) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, MaxBodyBytes))
	if err != nil {
		return trigger.Request{}, err
	}

	req := trigger.Request{
		HTTPMethod:            r.Method,
		Path:                  r.URL.Path,
		Headers:               firstValues(r.Header),
		QueryStringParameters: firstValues(r.URL.Query()),
		Body:                  string(body),
	}
	req.RequestContext.RequestID = middleware.GetReqID(r.Context())

	if userID := chi.URLParam(r, "userId"); userID != "" {
		req.PathParameters = map[string]string{"userId": userID}
	}
	return req, nil
}

// firstValues flattens multi-valued headers and query strings the way API
// Gateway does for its single-value maps.
func firstValues(values map[string][]string) map[string]string {
	if len(values) == 0 {
		return nil
	}
	out := make(map[string]string, len(values))
	for key, v := range values {
		if len(v) > 0 {
			out[key] = v[0]
		}
	}
	return out
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
