package api

import (
	"log/slog"
	"net/http"
	"time"

	"lending-engine/internal/api/handler"
	mw "lending-engine/internal/api/middleware"
	"lending-engine/internal/config"
	"lending-engine/internal/domain/account"
	"lending-engine/internal/domain/loan"
	"lending-engine/internal/domain/user"
	"lending-engine/internal/settlement"

	_ "lending-engine/docs"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/traceid"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger/v2"
)

func SetupRouter(
	userService user.UserService,
	accountService account.AccountService,
	ledgerService loan.LedgerService,
	coordinator *settlement.Coordinator,
	cfg *config.Config,
	logger *slog.Logger,
) *chi.Mux {
	router := chi.NewRouter()

	setupMiddleware(router, cfg, logger)
	setupMetricsEndpoint(router, cfg, logger)
	setupUserRoutes(router, cfg, userService, logger)
	setupAccountRoutes(router, cfg, accountService, userService, logger)
	setupLoanRoutes(router, cfg, ledgerService, userService, coordinator, logger)
	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})
	setupSwaggerEndpoint(router, logger)

	return router
}

func setupMiddleware(router *chi.Mux, cfg *config.Config, logger *slog.Logger) {
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(traceid.Middleware)
	router.Use(mw.StructuredLogger(logger))
	router.Use(middleware.Recoverer)
	router.Use(middleware.Compress(5))
	router.Use(middleware.Timeout(60 * time.Second))
	router.Use(mw.NewRateLimiterMiddleware(cfg.Server.RateLimit, logger).Middleware)
	router.Use(mw.MetricsMiddleware())
}

func setupMetricsEndpoint(router *chi.Mux, cfg *config.Config, logger *slog.Logger) {
	metricsPath := cfg.Metrics.Path
	if metricsPath == "" {
		metricsPath = "/metrics"
	}
	logger.Info("Setting up Prometheus metrics endpoint", "path", metricsPath)
	router.Handle(metricsPath, promhttp.Handler())
}

func setupSwaggerEndpoint(router *chi.Mux, logger *slog.Logger) {
	logger.Info("Setting up Swagger UI endpoint", "path", "/swagger/")
	router.Get("/swagger/*", httpSwagger.WrapHandler)
	router.Get("/swagger", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/swagger/index.html", http.StatusMovedPermanently)
	})
}

func setupUserRoutes(router *chi.Mux, cfg *config.Config, svc user.UserService, logger *slog.Logger) {
	userHandler := handler.NewUserHandler(svc, logger)
	authHandler := handler.NewAuthHandler(svc, cfg.Server.Auth, logger)

	router.Post("/users", userHandler.Onboard)
	router.Route("/auth", func(r chi.Router) {
		r.Post("/login", authHandler.Login)
	})
	router.Route("/users/me", func(r chi.Router) {
		r.Use(mw.AuthMiddleware(cfg.Server.Auth, logger))
		r.Get("/", userHandler.GetMe)
		r.Put("/profile", userHandler.UpdateProfile)
	})
}

func setupAccountRoutes(router *chi.Mux, cfg *config.Config, accounts account.AccountService, users user.UserService, logger *slog.Logger) {
	h := handler.NewAccountHandler(accounts, users, logger)

	router.Route("/accounts", func(r chi.Router) {
		r.Use(mw.AuthMiddleware(cfg.Server.Auth, logger))
		r.Post("/", h.CreateAccount)
		r.Route("/me", func(r chi.Router) {
			r.Get("/", h.GetAccount)
			r.Get("/identity", h.RevealIdentity)
			r.Post("/banks/{bankID}/credits", h.Credit)
		})
	})
}

func setupLoanRoutes(router *chi.Mux, cfg *config.Config, ledger loan.LedgerService, users user.UserService, coordinator *settlement.Coordinator, logger *slog.Logger) {
	h := handler.NewLoanHandler(ledger, users, coordinator, logger)

	router.Route("/loans", func(r chi.Router) {
		r.Use(mw.AuthMiddleware(cfg.Server.Auth, logger))
		r.Post("/", h.RequestLoan)
		r.Get("/", h.ListLoans)
		r.Route("/{loanID}", func(r chi.Router) {
			r.Get("/", h.GetLoan)
			r.Post("/payments", h.PayLoan)
			r.Post("/payments/retry", h.RetryPayment)
		})
	})

	router.Route("/settlements", func(r chi.Router) {
		r.Use(mw.AuthMiddleware(cfg.Server.Auth, logger))
		r.Get("/reconciliation", h.ListReconciliation)
	})
}
