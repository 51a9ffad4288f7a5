package server

import (
	"database/sql"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/campushub/campushub/internal/assistant"
	"github.com/campushub/campushub/internal/auth"
	"github.com/campushub/campushub/internal/backup"
	"github.com/campushub/campushub/internal/email"
	"github.com/campushub/campushub/internal/handler"
	"github.com/campushub/campushub/internal/middleware"
	"github.com/campushub/campushub/internal/push"
	"github.com/campushub/campushub/internal/store"
	ws "github.com/campushub/campushub/internal/websocket"
)

// Config collects the external service configuration the server needs.
type Config struct {
	TokenSecret string
	Assistant   assistant.Config
	Backup      backup.Config
	Push        push.Config
	Email       *email.Client
}

type Server struct {
	db            *sql.DB
	hub           *ws.Hub
	authH         *handler.AuthHandler
	profileH      *handler.ProfileHandler
	eventH        *handler.EventHandler
	jobH          *handler.JobHandler
	marketH       *handler.MarketHandler
	budgetH       *handler.BudgetHandler
	todoH         *handler.TodoHandler
	feedbackH     *handler.FeedbackHandler
	preferenceH   *handler.PreferenceHandler
	calendarH     *handler.CalendarHandler
	adminH        *handler.AdminHandler
	searchH       *handler.SearchHandler
	pushH         *handler.PushHandler
	authenticator *middleware.Authenticator
	sessionStore  *store.SessionStore
	rateLimiter   *middleware.RateLimiter
	backupManager *backup.Manager
	pushService   *push.Service
	pushScheduler *push.Scheduler
	logger        *slog.Logger
}

func New(db *sql.DB, cfg Config, logger *slog.Logger) *Server {
	hub := ws.NewHub(logger.With("component", "websocket"))

	userStore := store.NewUserStore(db)
	profileStore := store.NewProfileStore(db)
	sessionStore := store.NewSessionStore(db)
	eventStore := store.NewEventStore(db)
	jobStore := store.NewJobStore(db)
	marketStore := store.NewMarketStore(db)
	budgetStore := store.NewBudgetStore(db)
	todoStore := store.NewTodoStore(db)
	feedbackStore := store.NewFeedbackStore(db)
	preferenceStore := store.NewPreferenceStore(db)
	pushStore := store.NewPushStore(db)

	tokens := auth.NewTokenManager(cfg.TokenSecret)
	assistantClient := assistant.NewClient(cfg.Assistant)

	pushLogger := logger.With("component", "push")
	var pushSvc *push.Service
	var pushSched *push.Scheduler
	var pushH *handler.PushHandler
	if cfg.Push.VAPIDPublicKey != "" && cfg.Push.VAPIDPrivateKey != "" {
		pushSvc = push.NewService(cfg.Push.VAPIDPublicKey, cfg.Push.VAPIDPrivateKey)
		pushSched = push.NewScheduler(pushSvc, pushStore, preferenceStore, pushLogger)
		pushH = handler.NewPushHandler(pushStore, pushSvc, pushLogger)
	}

	backupMgr := backup.NewManager(cfg.Backup, db, logger.With("component", "backup"))

	return &Server{
		db:            db,
		hub:           hub,
		authH:         handler.NewAuthHandler(userStore, profileStore, sessionStore, tokens, hub, logger.With("component", "auth")),
		profileH:      handler.NewProfileHandler(profileStore, logger.With("component", "profile")),
		eventH:        handler.NewEventHandler(eventStore, hub, logger.With("component", "event")),
		jobH:          handler.NewJobHandler(jobStore, hub, logger.With("component", "job")),
		marketH:       handler.NewMarketHandler(marketStore, hub, logger.With("component", "market")),
		budgetH:       handler.NewBudgetHandler(budgetStore, logger.With("component", "budget")),
		todoH:         handler.NewTodoHandler(todoStore, logger.With("component", "todo")),
		feedbackH:     handler.NewFeedbackHandler(feedbackStore, cfg.Email, logger.With("component", "feedback")),
		preferenceH:   handler.NewPreferenceHandler(preferenceStore, logger.With("component", "preference")),
		calendarH:     handler.NewCalendarHandler(eventStore, logger.With("component", "calendar")),
		adminH:        handler.NewAdminHandler(eventStore, jobStore, marketStore, logger.With("component", "admin")),
		searchH:       handler.NewSearchHandler(assistantClient, logger.With("component", "search")),
		pushH:         pushH,
		authenticator: middleware.NewAuthenticator(sessionStore, userStore, profileStore, tokens),
		sessionStore:  sessionStore,
		rateLimiter:   middleware.NewRateLimiter(),
		backupManager: backupMgr,
		pushService:   pushSvc,
		pushScheduler: pushSched,
		logger:        logger,
	}
}

// SessionStore returns the session store for cleanup tasks.
func (s *Server) SessionStore() *store.SessionStore {
	return s.sessionStore
}

// RateLimiter returns the rate limiter for cleanup tasks.
func (s *Server) RateLimiter() *middleware.RateLimiter {
	return s.rateLimiter
}

// BackupManager returns the backup manager.
func (s *Server) BackupManager() *backup.Manager {
	return s.backupManager
}

// PushScheduler returns the reminder scheduler, nil when push is not configured.
func (s *Server) PushScheduler() *push.Scheduler {
	return s.pushScheduler
}

func (s *Server) Router() http.Handler {
	outerMux := http.NewServeMux()

	// Public routes. Signup and login are rate limited per client IP;
	// feedback resolves credentials when present so signed-in submissions
	// carry attribution, but never requires them. Listing reads are
	// browsable while signed out; only mutations need a caller.
	outerMux.HandleFunc("POST /api/auth/signup", s.rateLimitedHandler(s.authH.Signup))
	outerMux.HandleFunc("POST /api/auth/login", s.rateLimitedHandler(s.authH.Login))
	outerMux.Handle("GET /api/auth/session", s.authenticator.OptionalAuth(http.HandlerFunc(s.authH.Session)))
	outerMux.Handle("POST /api/feedback", s.authenticator.OptionalAuth(http.HandlerFunc(s.feedbackH.Create)))
	outerMux.Handle("GET /api/events", s.authenticator.OptionalAuth(http.HandlerFunc(s.eventH.List)))
	outerMux.Handle("GET /api/events/{id}", s.authenticator.OptionalAuth(http.HandlerFunc(s.eventH.Get)))
	outerMux.Handle("GET /api/jobs", s.authenticator.OptionalAuth(http.HandlerFunc(s.jobH.List)))
	outerMux.Handle("GET /api/market", s.authenticator.OptionalAuth(http.HandlerFunc(s.marketH.List)))
	outerMux.Handle("GET /api/market/{id}/bids", s.authenticator.OptionalAuth(http.HandlerFunc(s.marketH.ListBids)))
	outerMux.HandleFunc("GET /health", s.healthHandler)
	outerMux.HandleFunc("GET /ws", ws.HandleWebSocket(s.hub))

	// Everything else requires a signed-in caller.
	protectedMux := http.NewServeMux()
	s.registerProtectedRoutes(protectedMux)
	outerMux.Handle("/", s.authenticator.RequireAuth(protectedMux))

	return middleware.WithRequestID(
		middleware.RequestLogger(s.logger.With("component", "http"))(outerMux),
	)
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func (s *Server) rateLimitedHandler(h http.HandlerFunc) http.HandlerFunc {
	keyFunc := func(r *http.Request) string {
		return middleware.RealIP(r)
	}
	rl := middleware.RateLimit(s.rateLimiter, keyFunc, 10, time.Minute)
	return func(w http.ResponseWriter, r *http.Request) {
		rl(http.HandlerFunc(h)).ServeHTTP(w, r)
	}
}

func (s *Server) registerProtectedRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/auth/logout", s.authH.Logout)

	// Profile
	mux.HandleFunc("GET /api/profile", s.profileH.Get)
	mux.HandleFunc("PUT /api/profile", s.profileH.Update)

	// Events
	mux.HandleFunc("POST /api/events", s.eventH.Create)
	mux.HandleFunc("PUT /api/events/{id}", s.eventH.Update)
	mux.HandleFunc("DELETE /api/events/{id}", s.eventH.Delete)

	// Jobs
	mux.HandleFunc("POST /api/jobs", s.jobH.Create)
	mux.HandleFunc("PUT /api/jobs/{id}", s.jobH.Update)
	mux.HandleFunc("DELETE /api/jobs/{id}", s.jobH.Delete)

	// Marketplace
	mux.HandleFunc("POST /api/market", s.marketH.Create)
	mux.HandleFunc("DELETE /api/market/{id}", s.marketH.Delete)
	mux.HandleFunc("POST /api/market/{id}/bids", s.marketH.PlaceBid)

	// Budget tracker
	mux.HandleFunc("GET /api/budget", s.budgetH.List)
	mux.HandleFunc("POST /api/budget", s.budgetH.Create)
	mux.HandleFunc("DELETE /api/budget/{id}", s.budgetH.Delete)

	// Todos
	mux.HandleFunc("GET /api/todos", s.todoH.List)
	mux.HandleFunc("POST /api/todos", s.todoH.Create)
	mux.HandleFunc("PUT /api/todos/{id}", s.todoH.SetCompleted)
	mux.HandleFunc("DELETE /api/todos/{id}", s.todoH.Delete)

	// Preferences
	mux.HandleFunc("GET /api/preferences/theme", s.preferenceH.GetTheme)
	mux.HandleFunc("PUT /api/preferences/theme", s.preferenceH.SetTheme)
	mux.HandleFunc("GET /api/preferences/saved", s.preferenceH.GetSaved)
	mux.HandleFunc("POST /api/preferences/saved/{category}/{id}", s.preferenceH.ToggleSaved)
	mux.HandleFunc("GET /api/preferences/reminders", s.preferenceH.GetReminders)
	mux.HandleFunc("GET /api/preferences/reminders/today", s.preferenceH.TodayReminder)
	mux.HandleFunc("GET /api/preferences/reminders/{date}", s.preferenceH.GetReminder)
	mux.HandleFunc("PUT /api/preferences/reminders/{date}", s.preferenceH.SetReminder)

	// Calendar
	mux.HandleFunc("GET /api/calendar", s.calendarH.Month)

	// Assistant relay
	mux.HandleFunc("POST /api/global-search", s.searchH.GlobalSearch)

	// Admin
	mux.Handle("GET /api/admin/dashboard", middleware.RequireAdmin(http.HandlerFunc(s.adminH.Dashboard)))
	mux.Handle("GET /api/admin/feedback", middleware.RequireAdmin(http.HandlerFunc(s.feedbackH.List)))

	// Push notifications
	if s.pushH != nil {
		mux.HandleFunc("GET /api/push/vapid-key", s.pushH.VAPIDKey)
		mux.HandleFunc("POST /api/push/subscribe", s.pushH.Subscribe)
		mux.HandleFunc("DELETE /api/push/subscriptions/{id}", s.pushH.Unsubscribe)
	}
}
