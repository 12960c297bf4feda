package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/AlaHassouna/Waw-Tee/api/controllers"
	"github.com/AlaHassouna/Waw-Tee/api/responses"
	"github.com/AlaHassouna/Waw-Tee/api/routes"
	"github.com/AlaHassouna/Waw-Tee/internal/notifications"
	"github.com/AlaHassouna/Waw-Tee/internal/orders"
	"github.com/AlaHassouna/Waw-Tee/internal/payments"
	"github.com/AlaHassouna/Waw-Tee/internal/payments/gateway"
	"github.com/AlaHassouna/Waw-Tee/internal/products"
	"github.com/AlaHassouna/Waw-Tee/pkg/config"
	"github.com/AlaHassouna/Waw-Tee/pkg/db"
	"github.com/AlaHassouna/Waw-Tee/pkg/enums"
	"github.com/AlaHassouna/Waw-Tee/pkg/logger"
	"github.com/AlaHassouna/Waw-Tee/pkg/metrics"
	"github.com/AlaHassouna/Waw-Tee/pkg/migrate"
	"github.com/AlaHassouna/Waw-Tee/pkg/paypal"
	"github.com/AlaHassouna/Waw-Tee/pkg/redis"
	"github.com/AlaHassouna/Waw-Tee/pkg/stripe"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	if !cfg.App.IsProd() {
		responses.EnableDebug()
	}

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	stripeClient, err := stripe.NewClient(context.Background(), cfg.Stripe, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap stripe", err)
		os.Exit(1)
	}

	paypalClient, err := paypal.NewClient(cfg.PayPal, paypal.WithTokenCache(redisClient))
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap paypal", err)
		os.Exit(1)
	}

	stripeGateway, err := gateway.NewStripeGateway(gateway.NewStripeIntentClient(stripeClient))
	if err != nil {
		logg.Error(context.Background(), "failed to create stripe gateway", err)
		os.Exit(1)
	}
	paypalGateway, err := gateway.NewPayPalGateway(paypalClient)
	if err != nil {
		logg.Error(context.Background(), "failed to create paypal gateway", err)
		os.Exit(1)
	}

	mailer, err := notifications.NewService(cfg.Sendgrid, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create mailer", err)
		os.Exit(1)
	}

	paymentMetrics := metrics.NewPaymentMetrics(prometheus.DefaultRegisterer)

	ordersRepo := orders.NewRepository(dbClient.DB())
	productsRepo := products.NewRepository(dbClient.DB())
	errorRepo := payments.NewErrorRepository(dbClient.DB())

	ordersService, err := orders.NewService(ordersRepo, productsRepo, dbClient, mailer, paymentMetrics, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create orders service", err)
		os.Exit(1)
	}

	paymentsService, err := payments.NewService(
		ordersRepo,
		errorRepo,
		dbClient,
		map[enums.PaymentMethod]gateway.Gateway{
			enums.PaymentMethodStripe: stripeGateway,
			enums.PaymentMethodPayPal: paypalGateway,
		},
		payments.RedirectURLs{
			ReturnURL: cfg.PayPal.ReturnURL,
			CancelURL: cfg.PayPal.CancelURL,
		},
		paymentMetrics,
		logg,
	)
	if err != nil {
		logg.Error(context.Background(), "failed to create payments service", err)
		os.Exit(1)
	}

	readiness := map[string]controllers.Pinger{
		"database": dbClient,
		"redis":    redisClient,
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":        cfg.App.Env,
		"addr":       addr,
		"stripe_env": stripeClient.Environment(),
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr:    addr,
		Handler: routes.NewRouter(cfg, logg, readiness, redisClient, ordersService, paymentsService),
	}

	done := make(chan os.Signal, 1)
	signal.Notify(done, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	}()

	<-done
	logg.Info(ctx, "shutting down api server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logg.Error(ctx, "graceful shutdown failed", err)
		os.Exit(1)
	}
}
