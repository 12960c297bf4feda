package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/AlaHassouna/Waw-Tee/api/controllers"
	"github.com/AlaHassouna/Waw-Tee/api/middleware"
	"github.com/AlaHassouna/Waw-Tee/internal/orders"
	"github.com/AlaHassouna/Waw-Tee/internal/payments"
	"github.com/AlaHassouna/Waw-Tee/pkg/config"
	"github.com/AlaHassouna/Waw-Tee/pkg/logger"
	"github.com/AlaHassouna/Waw-Tee/pkg/redis"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	readiness map[string]controllers.Pinger,
	redisClient *redis.Client,
	ordersService orders.Service,
	paymentsService payments.Service,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, readiness))
	})

	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.OptionalAuth(cfg.JWT, logg))
		r.Use(middleware.Idempotency(redisClient, logg))

		r.Route("/orders", func(r chi.Router) {
			r.Post("/", controllers.CreateOrder(ordersService, logg))
			r.Get("/track/{orderNumber}", controllers.TrackOrder(ordersService, logg))
			r.Post("/track/guest", controllers.TrackGuestOrder(ordersService, logg))

			r.Group(func(r chi.Router) {
				r.Use(middleware.Auth(cfg.JWT, logg))
				r.Get("/", controllers.ListOrders(ordersService, logg))
				r.Get("/{id}", controllers.GetOrder(ordersService, logg))
			})
		})

		r.Route("/payments", func(r chi.Router) {
			r.Post("/create-intent", controllers.CreatePaymentIntent(paymentsService, logg))
			r.Post("/confirm", controllers.ConfirmPayment(paymentsService, logg))
			r.Route("/paypal", func(r chi.Router) {
				r.Post("/create", controllers.CreatePayPalOrder(paymentsService, logg))
				r.Post("/capture", controllers.CapturePayPalOrder(paymentsService, logg))
			})
		})

		r.Route("/admin", func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, logg))
			r.Use(middleware.RequireAdmin(logg))

			r.Route("/orders", func(r chi.Router) {
				r.Get("/", controllers.AdminListOrders(ordersService, logg))
				r.Put("/{id}", controllers.AdminUpdateOrder(ordersService, logg))
				r.Delete("/{id}", controllers.AdminDeleteOrder(ordersService, logg))
			})
			r.Route("/payment-errors", func(r chi.Router) {
				r.Get("/", controllers.AdminListPaymentErrors(paymentsService, logg))
				r.Post("/{id}/resolve", controllers.AdminResolvePaymentError(paymentsService, logg))
			})
		})
	})

	return r
}
