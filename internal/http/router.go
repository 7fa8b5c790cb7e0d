package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"holidays-app/internal/auth"
	"holidays-app/internal/handlers"
	"holidays-app/internal/service"
)

// Deps holds dependencies for the HTTP router.
type Deps struct {
	ChatService    service.ChatService
	HolidayService service.HolidayService
	// Auth enables GitHub login and protects the API when set.
	Auth *auth.Handler
	// DB is pinged by the health check.
	DB handlers.Pinger
	// Models, when set, adds an upstream model check to the health check.
	Models handlers.ModelChecker
	// AllowedOrigins may call the API and open chat websockets from a browser.
	AllowedOrigins []string
	IndexHTML      string
}

// NewRouter creates a new HTTP router with the provided dependencies.
func NewRouter(deps *Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(LoggerMiddleware)
	r.Use(RequestLogger)
	r.Use(middleware.Recoverer)
	r.Use(CORS(deps.AllowedOrigins))

	chatHandler := handlers.NewChatHandler(deps.ChatService).WithAllowedOrigins(deps.AllowedOrigins)
	holidayHandler := handlers.NewHolidayHandler(deps.HolidayService)
	healthHandler := handlers.NewHealthHandler(deps.DB, deps.Models)

	r.Method(http.MethodGet, "/health", healthHandler)

	if deps.Auth != nil {
		r.Get("/login", deps.Auth.Login)
		r.Get("/oauth2/authorization/github", deps.Auth.Login)
		r.Get("/login/oauth2/code/github", deps.Auth.Callback)
		r.Get("/logout", deps.Auth.Logout)
		r.Post("/logout", deps.Auth.Logout)
	}

	r.Group(func(r chi.Router) {
		if deps.Auth != nil {
			r.Use(deps.Auth.RequireUser)
			r.Get("/api/me", deps.Auth.Me)
		}

		r.Route("/chat", func(r chi.Router) {
			r.Get("/simpleOne", chatHandler.SimpleOne)
			r.Get("/simpleTwo", chatHandler.SimpleTwo)
			r.Get("/reply", chatHandler.Reply)
			r.Post("/withParams", chatHandler.WithParams)

			r.Route("/stream", func(r chi.Router) {
				r.Post("/simple", chatHandler.StreamSimple)
				r.Post("/emit", chatHandler.StreamEmit)
				r.Post("/flux", chatHandler.StreamFlux)
				r.Get("/ws", chatHandler.StreamWS)
			})
		})

		r.Route("/holidays", func(r chi.Router) {
			r.Get("/", holidayHandler.List)
			r.Get("/all", holidayHandler.List)
			r.Post("/", holidayHandler.Create)
			r.Put("/", holidayHandler.Update)
			r.Delete("/", holidayHandler.Delete)
			r.Get("/{id}", holidayHandler.Get)
			r.Delete("/{id}", holidayHandler.Delete)
		})
	})

	// Serve HTML page at root
	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(deps.IndexHTML))
	})

	return r
}
