package server

import (
	"net/http"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/nassimdv/workload-app/internal/auth"
	"github.com/nassimdv/workload-app/internal/config"
	"github.com/nassimdv/workload-app/internal/email"
	"github.com/nassimdv/workload-app/internal/handlers"
	"github.com/nassimdv/workload-app/internal/httpx"
	"github.com/nassimdv/workload-app/internal/identity"
	"github.com/nassimdv/workload-app/internal/services"
)

// Deps bundles everything the router needs. All of it is constructed once in
// main and injected; nothing here is package-level state.
type Deps struct {
	DB       *gorm.DB
	Verifier auth.TokenVerifier
	Provider identity.Provider
	Email    email.Service
	Config   config.Config
	Logger   *zap.Logger
}

// New constructs the root http.Handler with all routes and middlewares applied.
func New(d Deps) http.Handler {
	mux := http.NewServeMux()

	// --- Health endpoints ---
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, _ *http.Request) {
		httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		// Lightweight DB check (SELECT 1) – ignore detailed errors in body
		if err := d.DB.Exec("SELECT 1").Error; err != nil {
			httpx.JSON(w, http.StatusServiceUnavailable, map[string]string{"status": "degraded"})
			return
		}
		httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	anyRole := auth.RequireRole(auth.RoleUser, auth.RoleManager)
	managerOnly := auth.RequireRole(auth.RoleManager)
	adminOrManager := auth.RequireRole(auth.RoleSuperAdmin, auth.RoleManager)

	// Devis endpoints: the lifecycle evaluator runs on every list fetch.
	lifecycle := services.NewLifecycle(d.DB)
	dh := handlers.NewDevisHandler(d.DB, lifecycle)
	mux.Handle("GET /devis", anyRole(http.HandlerFunc(dh.List)))
	mux.Handle("POST /devis", managerOnly(http.HandlerFunc(dh.CreateEmpty)))
	mux.Handle("GET /devis/{id}", anyRole(http.HandlerFunc(dh.Get)))
	mux.Handle("PUT /devis/{id}", managerOnly(http.HandlerFunc(dh.Update)))
	mux.Handle("DELETE /devis/{id}", managerOnly(http.HandlerFunc(dh.Delete)))

	// Task endpoints
	th := handlers.NewTaskHandler(d.DB, d.Email, d.Logger)
	mux.Handle("GET /tasks", anyRole(http.HandlerFunc(th.List)))
	mux.Handle("POST /tasks", anyRole(http.HandlerFunc(th.Create)))
	mux.Handle("PATCH /tasks/{id}", anyRole(http.HandlerFunc(th.Update)))
	mux.Handle("PATCH /tasks/{id}/status", anyRole(http.HandlerFunc(th.UpdateStatus)))
	mux.Handle("GET /tasks/user/{userId}", anyRole(http.HandlerFunc(th.UserTasks)))
	mux.Handle("DELETE /tasks/{id}", anyRole(http.HandlerFunc(th.Delete)))

	// Project endpoints
	ph := handlers.NewProjectHandler(d.DB)
	mux.Handle("GET /projects", anyRole(http.HandlerFunc(ph.List)))
	mux.Handle("POST /projects", managerOnly(http.HandlerFunc(ph.Create)))

	// Availability endpoints
	ah := handlers.NewAvailabilityHandler(d.DB)
	mux.Handle("GET /availabilities", anyRole(http.HandlerFunc(ah.List)))
	mux.Handle("GET /availabilities/{userId}", anyRole(http.HandlerFunc(ah.ListForUser)))
	mux.Handle("POST /availabilities", anyRole(http.HandlerFunc(ah.Create)))
	mux.Handle("PUT /availabilities/{id}", anyRole(http.HandlerFunc(ah.Update)))
	mux.Handle("DELETE /availabilities/{id}", anyRole(http.HandlerFunc(ah.Delete)))

	// Production rate endpoints
	prodSvc := services.NewProduction(d.DB)
	rh := handlers.NewProductionHandler(d.DB, prodSvc)
	mux.Handle("POST /production-rates", managerOnly(http.HandlerFunc(rh.Compute)))
	mux.Handle("GET /production-rates", anyRole(http.HandlerFunc(rh.List)))

	// User mirror endpoints
	uh := handlers.NewUserHandler(d.DB)
	mux.Handle("GET /users", anyRole(http.HandlerFunc(uh.List)))
	mux.Handle("POST /users", anyRole(http.HandlerFunc(uh.Create)))
	mux.Handle("GET /users/{cognitoId}", anyRole(http.HandlerFunc(uh.Get)))
	mux.Handle("PUT /users/{cognitoId}", anyRole(http.HandlerFunc(uh.Update)))

	// Account provisioning (superadmin + managers)
	mh := handlers.NewManageUsersHandler(d.DB, d.Provider, d.Email, handlers.MailInfo{
		AppName:  d.Config.AppName,
		LoginURL: d.Config.AppLoginURL,
		FromName: d.Config.EmailFromName,
	}, d.Logger)
	mux.Handle("POST /manageUsers", adminOrManager(http.HandlerFunc(mh.Create)))
	mux.Handle("GET /manageUsers", auth.RequireRole(auth.RoleSuperAdmin, auth.RoleManager, auth.RoleUser)(http.HandlerFunc(mh.List)))
	mux.Handle("GET /manageUsers/{id}", auth.RequireRole(auth.RoleSuperAdmin, auth.RoleManager, auth.RoleUser)(http.HandlerFunc(mh.Get)))
	mux.Handle("PUT /manageUsers/{id}", adminOrManager(http.HandlerFunc(mh.Update)))
	mux.Handle("DELETE /manageUsers/{id}", adminOrManager(http.HandlerFunc(mh.Delete)))

	// Search
	sh := handlers.NewSearchHandler(d.DB)
	mux.Handle("GET /search", anyRole(http.HandlerFunc(sh.Search)))

	authn := auth.Middleware(d.Verifier, d.Config.SuperAdminEmail)
	return withRecover(RequestLogger(d.Logger)(authn(mux)))
}

// RequestLogger logs each request with its status and duration. Nil logger
// disables logging.
func RequestLogger(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if logger == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
			next.ServeHTTP(wrapped, r)
			logger.Info("http request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", wrapped.statusCode),
				zap.Duration("duration", time.Since(start)),
				zap.String("remote_addr", r.RemoteAddr),
			)
		})
	}
}

type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func withRecover(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				httpx.JSONError(w, http.StatusInternalServerError, "internal_error", nil)
			}
		}()
		next.ServeHTTP(w, r)
	})
}
