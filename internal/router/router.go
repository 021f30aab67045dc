package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"nexus-backend/internal/handlers"
	"nexus-backend/internal/middleware"
	"nexus-backend/internal/websocket"
)

// Limiters are owned by the caller so they can be stopped on shutdown.
type Limiters struct {
	Sessions  *middleware.RateLimiter
	Messages  *middleware.RateLimiter
	Inquiries *middleware.RateLimiter
}

func NewLimiters() *Limiters {
	return &Limiters{
		Sessions:  middleware.NewRateLimiter(20, time.Minute),
		Messages:  middleware.NewRateLimiter(15, time.Minute),
		Inquiries: middleware.NewRateLimiter(5, time.Minute),
	}
}

func (l *Limiters) Stop() {
	l.Sessions.Stop()
	l.Messages.Stop()
	l.Inquiries.Stop()
}

func New(
	jwtAuth *middleware.JWTAuth,
	adminAuth *middleware.AdminAuth,
	limiters *Limiters,
	contentHandler *handlers.ContentHandler,
	chatHandler *handlers.ChatHandler,
	consentHandler *handlers.ConsentHandler,
	inquiryHandler *handlers.InquiryHandler,
	wsHub *websocket.Hub,
	frontendURL string,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.CORS(frontendURL))

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/api/v1", func(r chi.Router) {

		// ──── Site Content (public) ────
		r.Route("/content", func(r chi.Router) {
			r.Get("/", contentHandler.Site)
			r.Get("/legal/{kind}", contentHandler.Legal)
		})

		// ──── Chat Sessions ────
		r.With(limiters.Sessions.Middleware).Post("/sessions", chatHandler.CreateSession)

		r.Route("/chat", func(r chi.Router) {
			r.Use(jwtAuth.Middleware)
			r.Get("/", chatHandler.GetState)
			r.Post("/open", chatHandler.Open)
			r.Post("/close", chatHandler.Close)
			r.With(limiters.Messages.Middleware).Post("/messages", chatHandler.SendMessage)
		})

		// ──── Cookie Consent ────
		r.Route("/consent", func(r chi.Router) {
			r.Use(jwtAuth.Middleware)
			r.Get("/", consentHandler.Get)
			r.Post("/", consentHandler.Accept)
		})

		// ──── Contact Form ────
		r.With(limiters.Inquiries.Middleware).Post("/inquiries", inquiryHandler.Submit)

		r.Route("/admin", func(r chi.Router) {
			r.Use(adminAuth.Middleware)
			r.Get("/inquiries", inquiryHandler.List)
		})

		// ──── WebSocket ────
		r.Get("/ws", wsHub.HandleWebSocket)
	})

	return r
}
