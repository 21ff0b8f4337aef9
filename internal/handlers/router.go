package handlers

import (
	"net/http"

	"tradejournal/internal/config"
	"tradejournal/internal/middleware"
	"tradejournal/internal/models"
	"tradejournal/internal/websocket"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

type Handler struct {
	cfg          config.Config
	auth         AuthService
	users        UserService
	plans        PlanService
	strategies   StrategyService
	trades       TradeService
	journals     JournalService
	performances PerformanceService
	roles        middleware.UserLookup
	hub          *websocket.Hub
	limiter      *middleware.RateLimiter
}

func New(cfg config.Config, auth AuthService, users UserService, plans PlanService, strategies StrategyService, trades TradeService, journals JournalService, performances PerformanceService, roles middleware.UserLookup, hub *websocket.Hub) *Handler {
	h := &Handler{
		cfg:          cfg,
		auth:         auth,
		users:        users,
		plans:        plans,
		strategies:   strategies,
		trades:       trades,
		journals:     journals,
		performances: performances,
		roles:        roles,
		hub:          hub,
	}
	if cfg.RateLimitEnabled {
		h.limiter = middleware.NewRateLimiter(cfg.RateLimitPerHour)
	}
	return h
}

func (h *Handler) Routes() http.Handler {
	router := chi.NewRouter()
	router.Use(chimiddleware.RequestID)
	if h.cfg.TrustProxy {
		router.Use(chimiddleware.RealIP)
	}
	router.Use(middleware.RequestLogger)
	router.Use(chimiddleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   h.cfg.Origins(),
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	authenticated := middleware.Auth(h.cfg.JWTSecret)
	router.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			if h.limiter != nil {
				r.Use(h.limiter.Middleware)
			}
			r.Post("/register", h.Register)
			r.Post("/login", h.Login)
			r.Post("/refresh", h.Refresh)
			r.With(authenticated).Get("/me", h.Me)
			r.With(authenticated).Post("/password", h.ChangePassword)
		})

		r.Group(func(r chi.Router) {
			r.Use(authenticated)

			r.Get("/users/me", h.Me)
			r.Delete("/users/me", h.DeleteMe)
			r.Put("/users/me/profile-picture", h.SetProfilePicture)

			r.Route("/trading-plans", func(r chi.Router) {
				r.Get("/", h.ListPlans)
				r.Post("/", h.CreatePlan)
				r.Get("/{id}", h.GetPlan)
				r.Put("/{id}", h.UpdatePlan)
				r.Delete("/{id}", h.DeletePlan)
				r.Get("/{id}/trades", h.ListPlanTrades)
				r.Get("/{id}/journal", h.ListPlanJournals)
				r.Get("/{id}/performances", h.ListPlanPerformances)
			})

			r.Route("/strategies", func(r chi.Router) {
				r.Get("/", h.ListStrategies)
				r.Post("/", h.CreateStrategy)
				r.Get("/{id}", h.GetStrategy)
				r.With(middleware.RequireRole(h.roles, models.RoleAdmin)).Put("/{id}", h.UpdateStrategy)
				r.With(middleware.RequireRole(h.roles, models.RoleAdmin)).Delete("/{id}", h.DeleteStrategy)
				r.Get("/{id}/trades", h.ListStrategyTrades)
				r.Get("/{id}/performances", h.ListStrategyPerformances)
			})

			r.Post("/trades", h.CreateTrade)
			r.Get("/trades/{id}", h.GetTrade)
			r.Put("/trades/{id}", h.UpdateTrade)
			r.Delete("/trades/{id}", h.DeleteTrade)
			r.Get("/trades/{id}/journal", h.GetTradeJournal)

			r.Post("/journal", h.CreateJournal)
			r.Get("/journal/{id}", h.GetJournal)
			r.Put("/journal/{id}", h.UpdateJournal)
			r.Delete("/journal/{id}", h.DeleteJournal)

			r.Post("/performances", h.CreatePerformance)
			r.Get("/performances/{id}", h.GetPerformance)
			r.Put("/performances/{id}", h.UpdatePerformance)
			r.Delete("/performances/{id}", h.DeletePerformance)

			r.Route("/admin", func(r chi.Router) {
				r.Use(middleware.RequireRole(h.roles, models.RoleAdmin))
				r.Get("/users", h.AdminListUsers)
				r.Put("/users/{id}/active", h.AdminSetActive)
				r.Put("/users/{id}/role", h.AdminSetRole)
				r.Get("/audit", h.ListAuditLogs)
			})
		})

		r.Get("/ws/events", h.WSEvents)
		r.Get("/health", h.Health)
	})
	router.Get("/health", h.Health)
	return router
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
