package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/suppcart/storefront/api/controllers"
	"github.com/suppcart/storefront/api/middleware"
	"github.com/suppcart/storefront/api/responses"
	"github.com/suppcart/storefront/pkg/config"
	pkgerrors "github.com/suppcart/storefront/pkg/errors"
	"github.com/suppcart/storefront/pkg/logger"
	"github.com/suppcart/storefront/pkg/metrics"
)

// Deps carries everything the router wires together.
type Deps struct {
	Logger   *logger.Logger
	CORS     config.CORSConfig
	Metrics  *metrics.HTTPMetrics
	Registry *prometheus.Registry

	Health   *controllers.HealthController
	Catalog  *controllers.CatalogController
	Cart     *controllers.CartController
	Checkout *controllers.CheckoutController
	Orders   *controllers.OrdersController
	Auth     *controllers.AuthController
}

// New assembles the HTTP router.
func New(deps Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer(deps.Logger))
	r.Use(middleware.RequestID(deps.Logger))
	r.Use(middleware.Logging(deps.Logger))
	r.Use(middleware.CORS(deps.CORS))
	if deps.Metrics != nil {
		r.Use(middleware.Metrics(deps.Metrics))
	}

	r.NotFound(func(w http.ResponseWriter, req *http.Request) {
		responses.WriteError(req.Context(), deps.Logger, w,
			pkgerrors.New(pkgerrors.CodeNotFound, "route not found"))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, req *http.Request) {
		responses.WriteError(req.Context(), deps.Logger, w,
			pkgerrors.New(pkgerrors.CodeValidation, "method not allowed"))
	})

	r.Get("/health/live", deps.Health.Live)
	r.Get("/health/ready", deps.Health.Ready)
	if deps.Registry != nil {
		r.Handle("/metrics", promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/categories", deps.Catalog.ListCategories)

		r.Route("/products", func(r chi.Router) {
			r.Get("/", deps.Catalog.ListProducts)
			r.Get("/best-sellers", deps.Catalog.BestSellers)
			r.Get("/featured", deps.Catalog.FeaturedProducts)
			r.Get("/banners", deps.Catalog.Banners)
			r.Route("/{slug}", func(r chi.Router) {
				r.Get("/", deps.Catalog.GetProduct)
				r.Get("/comments", deps.Catalog.ListComments)
				r.Post("/comments", deps.Catalog.SubmitComment)
				r.Get("/rate-statistics", deps.Catalog.Statistics)
			})
		})
		r.Get("/comments", deps.Catalog.AllComments)

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", deps.Cart.Get)
			r.Delete("/", deps.Cart.Clear)
			r.Get("/items", deps.Cart.ListItems)
			r.Post("/items", deps.Cart.AddItem)
			r.Patch("/items/{id}", deps.Cart.SetQuantity)
			r.Delete("/items/{id}", deps.Cart.RemoveItem)
		})

		r.Post("/checkout", deps.Checkout.Place)

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", deps.Orders.List)
			r.Get("/{id}", deps.Orders.Get)
			r.Patch("/{id}/status", deps.Orders.SetStatus)
		})

		r.Route("/auth", func(r chi.Router) {
			r.Post("/login", deps.Auth.Login)
			r.Post("/register", deps.Auth.Register)
			r.Post("/logout", deps.Auth.Logout)
			r.Post("/verify-email", deps.Auth.VerifyEmail)
			r.Post("/send-verification", deps.Auth.SendVerificationEmail)
			r.Get("/me", deps.Auth.Me)
		})
	})

	return r
}
