package httpx

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/jcmexdev/tiendanube-liters/internal/liters/infra/httpx/middlewares"
)

func NewRouter(handler *Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middlewares.AttachRequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/health", handler.Health)

	r.Get("/get-user-liters", handler.GetUserLiters)
	r.Post("/get-user-liters", handler.GetUserLiters)
	r.Options("/get-user-liters", handler.GetUserLiters)

	r.Get("/litros/{userId}", handler.GetUserLiters)
	r.Options("/litros/{userId}", handler.GetUserLiters)
	r.Post("/litros", handler.GetUserLiters)

	r.Post("/set-user-liters", handler.SetUserLiters)
	r.Options("/set-user-liters", handler.SetUserLiters)

	r.MethodNotAllowed(handler.MethodNotAllowed)
	return r
}
