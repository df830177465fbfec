package trigger

import (
	"context"
	"log/slog"
	"net/http"

	"go.opentelemetry.io/otel/codes"

	"github.com/jcmexdev/tiendanube-liters/internal/liters/core/domain/entity"
	"github.com/jcmexdev/tiendanube-liters/internal/liters/core/ports"
)

// Writer answers set-user-liters invocations, both direct calls and
// order/paid webhooks.
type Writer struct {
	service ports.LitersService
}

func NewWriter(service ports.LitersService) *Writer {
	return &Writer{service: service}
}

func (h *Writer) Handle(ctx context.Context, req Request) (resp Response, err error) {
	ctx, span := begin(ctx, "set-user-liters", req)
	defer span.End()
	defer recoverInto(ctx, &resp, &err, WriteMethods)

	switch req.Method() {
	case http.MethodOptions:
		return optionsResponse(WriteMethods), nil
	case http.MethodPost:
	default:
		return ErrorResponse(http.StatusMethodNotAllowed, WriteMethods, MsgMethodNotAllowed), nil
	}

	inv, err := ResolveInvocation(req)
	if err != nil {
		slog.WarnContext(ctx, "invalid or missing order id")
		return ErrorResponse(http.StatusBadRequest, WriteMethods, MsgInvalidOrderID), nil
	}
	slog.InfoContext(ctx, "processing order", "order_id", inv.Order())

	webhook, isWebhook := inv.(entity.WebhookInvocation)

	credit, err := h.service.CreditOrder(ctx, inv)
	if err != nil {
		status, message := mapError(err)
		logFailure(ctx, status, err, "order_id", inv.Order())
		span.RecordError(err)
		span.SetStatus(codes.Error, message)

		// Webhook deliveries that can never succeed are acknowledged so the
		// platform stops retrying them.
		if isWebhook && status < http.StatusInternalServerError {
			return jsonResponse(http.StatusOK, WriteMethods, webhookBody{
				Error:      message,
				OrderID:    webhook.OrderID,
				CustomerID: webhook.CustomerID,
			}), nil
		}
		return ErrorResponse(status, WriteMethods, message), nil
	}

	if credit.Duplicate {
		if isWebhook {
			return jsonResponse(http.StatusOK, WriteMethods, webhookBody{
				Message:    alreadyCreditedMessage(credit.OrderID),
				OrderID:    credit.OrderID,
				CustomerID: credit.CustomerID,
				Duplicate:  true,
			}), nil
		}
		return ErrorResponse(http.StatusConflict, WriteMethods, alreadyCreditedMessage(credit.OrderID)), nil
	}

	message := creditMessage(credit)
	slog.InfoContext(ctx, "success response", "message", message)

	if isWebhook {
		liters := int64(credit.Updated)
		return jsonResponse(http.StatusOK, WriteMethods, webhookBody{
			Message:    message,
			OrderID:    credit.OrderID,
			CustomerID: credit.CustomerID,
			Liters:     &liters,
		}), nil
	}
	return jsonResponse(http.StatusOK, WriteMethods, message), nil
}
