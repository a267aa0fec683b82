package handlers

import (
	"log/slog"
	"net/http"

	"github.com/benx421/carmarket/internal/api"
	"github.com/benx421/carmarket/internal/auth"
	"github.com/benx421/carmarket/internal/config"
	"github.com/benx421/carmarket/internal/db"
	"github.com/benx421/carmarket/internal/gateway"
	"github.com/benx421/carmarket/internal/metrics"
	"github.com/benx421/carmarket/internal/middleware"
	"github.com/benx421/carmarket/internal/repository"
	"github.com/benx421/carmarket/internal/service"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// NewRouter creates and configures the HTTP router with all routes and middleware.
func NewRouter(
	database *db.DB,
	gw gateway.Client,
	cfg *config.Config,
	m *metrics.Metrics,
	gatherer prometheus.Gatherer,
	logger *slog.Logger,
) http.Handler {
	payments := repository.NewPaymentRepository(database)
	cars := repository.NewCarRepository(database)

	paymentService := service.NewPaymentService(payments, cars, gw, cfg, m, logger)
	reconcileService := service.NewReconcileService(payments, gw, m, logger)

	handler := NewHandler(paymentService, paymentService, reconcileService, database, logger)
	authenticator := auth.NewAuthenticator(cfg.Auth.JWTSecret, logger)
	idempotencyRepo := repository.NewIdempotencyRepository(database)

	mux := http.NewServeMux()
	api.RegisterDocsRoutes(mux)
	handler.RegisterRoutes(mux, authenticator, idempotencyRepo)
	mux.Handle("GET /metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	if settler, ok := gw.(SandboxSettler); ok {
		mux.HandleFunc("POST /sandbox/payments/{tx_ref}/settle", handler.settleSandboxPayment(settler))
	}

	finalHandler := http.MaxBytesHandler(mux, maxRequestBodyBytes)

	return otelhttp.NewHandler(finalHandler, "carmarket",
		otelhttp.WithFilter(func(r *http.Request) bool { return r.URL.Path != "/metrics" }),
	)
}

// RegisterRoutes mounts the generated payments API on mux. The middlewares
// run inside each operation, after the generated wrapper has bound its
// parameters; the last one listed runs first.
func (h *Handler) RegisterRoutes(
	mux *http.ServeMux,
	authenticator *auth.Authenticator,
	keys middleware.IdempotencyRepository,
) {
	strictHandler := api.NewStrictHandlerWithOptions(h, nil, api.StrictHTTPServerOptions{
		RequestErrorHandlerFunc:  h.handleRequestError,
		ResponseErrorHandlerFunc: h.handleResponseError,
	})

	api.HandlerWithOptions(strictHandler, api.StdHTTPServerOptions{
		BaseRouter: mux,
		Middlewares: []api.MiddlewareFunc{
			middleware.Idempotency(keys, h.logger),
			authenticateSecured(authenticator),
		},
		ErrorHandlerFunc: h.handleRequestError,
	})
}

// authenticateSecured resolves the caller only on operations declaring
// bearerAuth, which the generated wrapper marks with api.BearerAuthScopes.
// Public operations ignore the token, so a stale one cannot fail a gateway
// callback or a health check.
func authenticateSecured(a *auth.Authenticator) api.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		authenticated := a.Middleware(next)
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Context().Value(api.BearerAuthScopes) == nil {
				next.ServeHTTP(w, r)
				return
			}
			authenticated.ServeHTTP(w, r)
		})
	}
}
