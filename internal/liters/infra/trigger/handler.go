package trigger

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/jcmexdev/tiendanube-liters/internal/pkg/reqctx"
)

// begin puts a request id on the context, opens the invocation span and
// logs the received event.
func begin(ctx context.Context, name string, req Request) (context.Context, trace.Span) {
	if reqctx.RequestID(ctx) == "" {
		id := req.RequestContext.RequestID
		if id == "" {
			id = uuid.NewString()
		}
		ctx = reqctx.WithRequestID(ctx, id)
	}

	ctx, span := otel.Tracer("trigger").Start(ctx, name)
	span.SetAttributes(
		attribute.String("http.method", req.Method()),
		attribute.String("http.route", req.Resource()),
		attribute.String("request_id", reqctx.RequestID(ctx)),
	)

	slog.InfoContext(ctx, "event received",
		"handler", name,
		"method", req.Method(),
		"resource", req.Resource(),
		"base64", req.IsBase64Encoded)
	return ctx, span
}

// recoverInto converts a panic into a 500 response.
func recoverInto(ctx context.Context, resp *Response, err *error, methods string) {
	if r := recover(); r != nil {
		slog.ErrorContext(ctx, "handler panic",
			"panic", fmt.Sprint(r),
			"stack", string(debug.Stack()))
		*resp = ErrorResponse(http.StatusInternalServerError, methods, MsgInternal)
		*err = nil
	}
}
