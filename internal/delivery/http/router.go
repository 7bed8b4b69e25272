package http

import (
	"log/slog"
	"net/http"

	"eventbooking/internal/delivery/http/controllers"
	"eventbooking/internal/delivery/http/helpers"
	"eventbooking/internal/delivery/http/middleware"
	"eventbooking/internal/domain"
	"eventbooking/internal/monitoring"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"
)

// RouterConfig carries everything the router needs. Limiter may be nil to disable rate limiting.
// TrustProxy mounts chi's RealIP so forwarded headers replace the socket address.
type RouterConfig struct {
	Logger         *slog.Logger
	Verifier       domain.TokenVerifier
	Limiter        middleware.RateLimiter
	AllowedOrigins []string
	TrustProxy     bool

	Auth     *controllers.AuthController
	Events   *controllers.EventController
	Bookings *controllers.BookingController
}

// NewRouter initializes the HTTP router with all application routes
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	if cfg.TrustProxy {
		r.Use(chimw.RealIP)
	}
	r.Use(middleware.LoggingMiddleware(cfg.Logger))
	r.Use(chimw.Recoverer)
	r.Use(monitoring.Middleware)
	r.Use(middleware.CORS(cfg.AllowedOrigins))

	requireAuth := middleware.RequireAuth(cfg.Verifier, cfg.Logger)
	optionalAuth := middleware.OptionalAuth(cfg.Verifier, cfg.Logger)
	limit := func(next http.Handler) http.Handler { return next }
	if cfg.Limiter != nil {
		limit = middleware.RateLimit(cfg.Limiter, cfg.Logger)
	}

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		helpers.WriteJSONError(w, http.StatusNotFound, "Route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		helpers.WriteJSONError(w, http.StatusMethodNotAllowed, "Method not allowed")
	})

	r.Get("/api", func(w http.ResponseWriter, r *http.Request) {
		helpers.WriteMessage(w, http.StatusOK, "Event Booking API is running")
	})

	r.Route("/api/auth", func(r chi.Router) {
		r.With(limit).Post("/signup", cfg.Auth.SignUp)
		r.With(limit).Post("/signin", cfg.Auth.SignIn)
		r.With(requireAuth).Get("/me", cfg.Auth.Me)
		r.With(requireAuth).Post("/signout", cfg.Auth.SignOut)
	})

	r.Route("/api/events", func(r chi.Router) {
		r.Get("/", cfg.Events.ListEvents)
		r.With(requireAuth).Get("/user/my-events", cfg.Events.ListMyEvents)
		r.Get("/{id}", cfg.Events.GetEvent)
		r.With(requireAuth).Post("/", cfg.Events.CreateEvent)
		r.With(requireAuth).Put("/{id}", cfg.Events.UpdateEvent)
		r.With(requireAuth).Delete("/{id}", cfg.Events.DeleteEvent)
	})

	r.Route("/api/bookings", func(r chi.Router) {
		r.With(limit, optionalAuth).Post("/", cfg.Bookings.CreateBooking)
		r.With(requireAuth).Get("/event/{eventId}", cfg.Bookings.ListEventBookings)
		r.Get("/{id}/ticket", cfg.Bookings.Ticket)
	})

	r.Handle("/metrics", monitoring.Handler())
	r.Get("/swagger/*", httpSwagger.WrapHandler)

	return r
}
