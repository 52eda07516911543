// Package app wires configuration, storage, domain services and the HTTP
// server into a runnable application.
package app

import (
	"context"
	"net/http"
	"time"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/app"
	"github.com/go-faster/sdk/zctx"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"

	"github.com/shakehq/milkshake-api/internal/domain/auth"
	"github.com/shakehq/milkshake-api/internal/domain/catalog"
	"github.com/shakehq/milkshake-api/internal/domain/discount"
	"github.com/shakehq/milkshake-api/internal/domain/order"
	"github.com/shakehq/milkshake-api/internal/domain/payment"
	"github.com/shakehq/milkshake-api/internal/domain/pricing"
	"github.com/shakehq/milkshake-api/internal/domain/report"
	"github.com/shakehq/milkshake-api/internal/domain/restaurant"
	"github.com/shakehq/milkshake-api/internal/handler"
	"github.com/shakehq/milkshake-api/internal/notify"
	"github.com/shakehq/milkshake-api/internal/repository"
	"github.com/shakehq/milkshake-api/internal/runtimeconfig"
	"github.com/shakehq/milkshake-api/pkg/health"
	"github.com/shakehq/milkshake-api/pkg/httpmiddleware"

	auditdomain "github.com/shakehq/milkshake-api/internal/domain/audit"
)

// Run creates all dependencies, starts the HTTP server, and handles graceful
// shutdown. It is the single wiring point for the application.
func Run(ctx context.Context, lg *zap.Logger, m *app.Telemetry, cfg *Config) error {
	lg.Info("Initializing", zap.String("addr", cfg.Addr))

	// PostgreSQL pool + migrations.
	pool, err := repository.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		return errors.Wrap(err, "create db pool")
	}
	defer pool.Close()

	if err := repository.RunMigrations(ctx, pool); err != nil {
		return errors.Wrap(err, "run migrations")
	}

	// Health check service.
	healthSvc := health.New()
	healthSvc.AddReadinessCheck("postgres", 5*time.Second, func(ctx context.Context) error {
		return pool.Ping(ctx)
	})
	healthSvc.AddLivenessCheck("goroutines", time.Second, health.GoroutineCountCheck(10000))
	healthSvc.AddLivenessCheck("gc-pause", time.Second, health.GCMaxPauseCheck(time.Second))
	healthSvc.Start(ctx, 10*time.Second)
	healthSvc.SetReady(true)

	// Repositories.
	catalogRepo := repository.NewCatalogRepository(pool)
	customerRepo := repository.NewCustomerRepository(pool)
	restaurantRepo := repository.NewRestaurantRepository(pool)
	tierRepo := repository.NewDiscountTierRepository(pool)
	orderRepo := repository.NewOrderRepository(pool)
	paymentRepo := repository.NewPaymentRepository(pool)
	configRepo := repository.NewConfigRepository(pool)
	auditRepo := repository.NewAuditRepository(pool)
	reportRepo := repository.NewReportRepository(pool)
	emailLogRepo := repository.NewEmailLogRepository(pool)

	// Ambient collaborators.
	configStore := runtimeconfig.NewStore(configRepo)
	auditor := auditdomain.NewRecorder(auditRepo)
	notifier := notify.NewEmailNotifier(lg.Named("notify"), emailLogRepo)
	defer notifier.Close()

	// Domain services.
	pricingSvc := pricing.NewService(catalogRepo, configStore)
	engine := discount.NewEngine(customerRepo, tierRepo)
	catalogSvc := catalog.NewService(catalogRepo, auditor)
	restaurantSvc := restaurant.NewService(restaurantRepo, auditor)
	availability := restaurant.NewAvailability(restaurantRepo, orderRepo, configStore)
	orderSvc := order.NewService(orderRepo, customerRepo, restaurantRepo, catalogRepo,
		tierRepo, pricingSvc, engine, configStore, notifier)
	discountSvc := discount.NewService(tierRepo, customerRepo, auditor)
	authSvc := auth.NewService(customerRepo, tierRepo, []byte(cfg.TokenSecret))
	paymentSvc := payment.NewService(paymentRepo, orderRepo, customerRepo, notifier, cfg.GatewayBaseURL)
	reportSvc := report.NewService(reportRepo)
	configSvc := runtimeconfig.NewService(configRepo, auditor)

	// HTTP handlers.
	h := handler.New(authSvc, catalogSvc, restaurantSvc, availability, orderSvc,
		discountSvc, engine, paymentSvc, reportSvc, configSvc, auditRepo)

	mux := http.NewServeMux()
	mux.HandleFunc("/livez", healthSvc.LiveEndpoint)
	mux.HandleFunc("/readyz", healthSvc.ReadyEndpoint)
	h.Register(mux)

	server := &http.Server{
		ReadHeaderTimeout: time.Second,
		ReadTimeout:       5 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       120 * time.Second,
		MaxHeaderBytes:    1 << 20,
		Addr:              cfg.Addr,
		Handler: httpmiddleware.Wrap(
			otelhttp.NewHandler(mux, "milkshake-api",
				otelhttp.WithTracerProvider(m.TracerProvider()),
				otelhttp.WithMeterProvider(m.MeterProvider()),
			),
			httpmiddleware.Recovery(),
			httpmiddleware.CORS(httpmiddleware.CORSConfig{
				AllowOrigins:     cfg.CORS.Origins,
				AllowHeaders:     []string{"Content-Type", "Authorization"},
				AllowCredentials: cfg.CORS.AllowCredentials,
				MaxAge:           86400,
			}),
			httpmiddleware.RateLimitWithCleanup(ctx, httpmiddleware.RateLimitConfig{
				Max:    cfg.RateLimit.Max,
				Window: cfg.RateLimit.Window,
			}),
			httpmiddleware.RequestID(),
			httpmiddleware.InjectLogger(zctx.From(ctx)),
			httpmiddleware.LogRequests(),
		),
	}

	// Graceful shutdown: wait for context cancellation, drain, then stop.
	shutdownDone := make(chan struct{})
	go func() {
		<-ctx.Done()
		healthSvc.SetReady(false)
		lg.Info("Readiness set to false, draining", zap.Duration("delay", cfg.Graceful.ReadinessDelay))
		time.Sleep(cfg.Graceful.ReadinessDelay)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Graceful.ShutdownTimeout)
		defer cancel()

		lg.Info("Shutting down server", zap.Duration("timeout", cfg.Graceful.ShutdownTimeout))
		if err := server.Shutdown(shutdownCtx); err != nil {
			lg.Error("Server shutdown error", zap.Error(err))
		}
		healthSvc.Stop()
		close(shutdownDone)
	}()

	lg.Info("Server listening", zap.String("addr", cfg.Addr))
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return errors.Wrap(err, "server")
	}
	<-shutdownDone
	return nil
}
