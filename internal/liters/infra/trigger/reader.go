package trigger

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"go.opentelemetry.io/otel/codes"

	"github.com/jcmexdev/tiendanube-liters/internal/liters/core/ports"
)

// Reader answers get-user-liters invocations.
type Reader struct {
	service ports.LitersService
}

func NewReader(service ports.LitersService) *Reader {
	return &Reader{service: service}
}

// Handle never returns an error: every outcome is an HTTP response.
func (h *Reader) Handle(ctx context.Context, req Request) (resp Response, err error) {
	ctx, span := begin(ctx, "get-user-liters", req)
	defer span.End()
	defer recoverInto(ctx, &resp, &err, ReadMethods)

	if req.Method() == http.MethodOptions {
		return optionsResponse(ReadMethods), nil
	}

	customerID, err := ResolveCustomerID(req)
	if err != nil {
		slog.WarnContext(ctx, "invalid or missing user id")
		return ErrorResponse(http.StatusBadRequest, ReadMethods, MsgInvalidUserID), nil
	}

	customer, err := h.service.CustomerLiters(ctx, customerID)
	if err != nil {
		status, message := mapError(err)
		logFailure(ctx, status, err, "customer_id", customerID)
		span.RecordError(err)
		span.SetStatus(codes.Error, message)
		return ErrorResponse(status, ReadMethods, message), nil
	}

	return jsonResponse(http.StatusOK, ReadMethods, readBody{
		Message: readMessage(customer),
		Liters:  int64(customer.Liters),
	}), nil
}

// logFailure logs client-class failures as warnings and the rest as errors.
func logFailure(ctx context.Context, status int, err error, args ...any) {
	args = append(args, "status", status, "error", err)
	if status < http.StatusInternalServerError && !errors.Is(err, context.Canceled) {
		slog.WarnContext(ctx, "request failed", args...)
		return
	}
	slog.ErrorContext(ctx, "request failed", args...)
}
