package router

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/aukawellness/studio-api/internal/admin"
	"github.com/aukawellness/studio-api/internal/bookings"
	"github.com/aukawellness/studio-api/internal/checkout"
	"github.com/aukawellness/studio-api/internal/coupons"
	"github.com/aukawellness/studio-api/internal/funnel"
	"github.com/aukawellness/studio-api/internal/giftcards"
	httpmiddleware "github.com/aukawellness/studio-api/internal/http/middleware"
	"github.com/aukawellness/studio-api/internal/i18n"
	"github.com/aukawellness/studio-api/internal/orders"
	"github.com/aukawellness/studio-api/internal/schedule"
	"github.com/aukawellness/studio-api/pkg/logging"
)

// Config holds router configuration
type Config struct {
	Logger *logging.Logger

	ScheduleHandler  *schedule.Handler
	FunnelHandler    *funnel.Handler
	BookingsHandler  *bookings.Handler
	CouponsHandler   *coupons.Handler
	OrdersHandler    *orders.Handler
	GiftCardsHandler *giftcards.Handler
	CheckoutHandler  *checkout.Handler

	AdminRoleHandler     *admin.RoleHandler
	AdminBookingsHandler *admin.BookingsHandler
	AdminAuthSecret      string

	MetricsHandler     http.Handler
	CORSAllowedOrigins []string

	// Per-IP limit on the public submission endpoints; 0 disables it.
	PublicRateLimit float64
	PublicRateBurst int
}

// New creates a new Chi router with all routes configured
func New(cfg *Config) http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))
	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(httpmiddleware.CORS(cfg.CORSAllowedOrigins))
	}
	if cfg.Logger != nil {
		r.Use(httpmiddleware.RequestLogger(cfg.Logger))
	}
	r.Use(i18n.Middleware)

	r.Get("/health", healthCheck)
	if cfg.MetricsHandler != nil {
		r.Handle("/metrics", cfg.MetricsHandler)
	}

	// Public funnel endpoints
	r.Group(func(public chi.Router) {
		if cfg.PublicRateLimit > 0 {
			public.Use(httpmiddleware.RateLimit(cfg.PublicRateLimit, cfg.PublicRateBurst))
		}

		if cfg.ScheduleHandler != nil {
			public.Route("/schedule", func(r chi.Router) {
				r.Get("/", cfg.ScheduleHandler.ListOfferings)
				r.Get("/{dayKey}/dates", cfg.ScheduleHandler.ListUpcomingDates)
			})
		}

		if cfg.FunnelHandler != nil {
			public.Route("/funnel/sessions", func(r chi.Router) {
				r.Post("/", cfg.FunnelHandler.Start)
				r.Route("/{sessionID}", func(r chi.Router) {
					r.Get("/", cfg.FunnelHandler.Get)
					r.Post("/class", cfg.FunnelHandler.SelectClass)
					r.Post("/date", cfg.FunnelHandler.SelectDate)
					r.Post("/continue", cfg.FunnelHandler.Continue)
					r.Post("/back", cfg.FunnelHandler.Back)
					r.Post("/submit", cfg.FunnelHandler.Submit)
				})
			})
		}

		if cfg.BookingsHandler != nil {
			public.Post("/bookings", cfg.BookingsHandler.Submit)
		}
		if cfg.CouponsHandler != nil {
			public.Post("/coupons/validate", cfg.CouponsHandler.Validate)
		}
		if cfg.OrdersHandler != nil {
			public.Get("/orders/status", cfg.OrdersHandler.Status)
			public.Get("/orders/status/wait", cfg.OrdersHandler.Wait)
		}
		if cfg.GiftCardsHandler != nil {
			public.Get("/giftcards", cfg.GiftCardsHandler.List)
			public.Get("/giftcards/pdf", cfg.GiftCardsHandler.PDF)
		}
		if cfg.CheckoutHandler != nil {
			public.Get("/pay/{code}", cfg.CheckoutHandler.Redirect)
			public.Post("/checkout/redirects", cfg.CheckoutHandler.Begin)
			public.Delete("/checkout/redirects", cfg.CheckoutHandler.Cancel)
		}
	})

	r.Route("/admin", func(adminRoutes chi.Router) {
		// The role check stays outside AdminJWT: a bad token answers
		// {"isAdmin": false}, never 401.
		if cfg.AdminRoleHandler != nil {
			adminRoutes.Get("/role", cfg.AdminRoleHandler.Check)
		}
		if cfg.AdminAuthSecret != "" && cfg.AdminBookingsHandler != nil {
			adminRoutes.Group(func(protected chi.Router) {
				protected.Use(httpmiddleware.AdminJWT(cfg.AdminAuthSecret))
				protected.Get("/bookings", cfg.AdminBookingsHandler.List)
			})
		}
	})

	return r
}

func healthCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}
