// internal/app/bootstrap/routes.go
package bootstrap

import (
	"context"
	"net/http"

	activityfeature "github.com/dalemusser/claimdesk/internal/app/features/activity"
	auditlogfeature "github.com/dalemusser/claimdesk/internal/app/features/auditlog"
	clientsfeature "github.com/dalemusser/claimdesk/internal/app/features/clients"
	constructionfeature "github.com/dalemusser/claimdesk/internal/app/features/construction"
	dashboardfeature "github.com/dalemusser/claimdesk/internal/app/features/dashboard"
	documentsfeature "github.com/dalemusser/claimdesk/internal/app/features/documents"
	errorsfeature "github.com/dalemusser/claimdesk/internal/app/features/errors"
	eventsfeature "github.com/dalemusser/claimdesk/internal/app/features/events"
	healthfeature "github.com/dalemusser/claimdesk/internal/app/features/health"
	loginfeature "github.com/dalemusser/claimdesk/internal/app/features/login"
	logoutfeature "github.com/dalemusser/claimdesk/internal/app/features/logout"
	membersfeature "github.com/dalemusser/claimdesk/internal/app/features/members"
	notificationsfeature "github.com/dalemusser/claimdesk/internal/app/features/notifications"
	organizationsfeature "github.com/dalemusser/claimdesk/internal/app/features/organizations"
	profilefeature "github.com/dalemusser/claimdesk/internal/app/features/profile"
	settingsfeature "github.com/dalemusser/claimdesk/internal/app/features/settings"
	tasksfeature "github.com/dalemusser/claimdesk/internal/app/features/tasks"
	"github.com/dalemusser/claimdesk/internal/app/store/audit"
	userstore "github.com/dalemusser/claimdesk/internal/app/store/users"
	"github.com/dalemusser/claimdesk/internal/app/system/auditlog"
	"github.com/dalemusser/claimdesk/internal/app/system/auth"
	"github.com/dalemusser/claimdesk/internal/app/system/objectstore"
	"github.com/dalemusser/claimdesk/internal/app/system/ratelimit"
	"github.com/dalemusser/claimdesk/internal/app/workflow/automation"
	"github.com/dalemusser/claimdesk/internal/app/workflow/notify"
	"github.com/dalemusser/waffle/config"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup, and
// the Startup hook have completed. ClaimDesk builds the session manager and
// shared services, applies the request middleware, and mounts every
// feature router of the JSON API.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	// Secure cookies are enabled in production mode.
	secure := coreCfg != nil && coreCfg.Env == "prod"
	sessionMgr, err := auth.NewSessionManager(appCfg.SessionKey, appCfg.SessionName, appCfg.SessionDomain, appCfg.SessionMaxAge, secure, logger)
	if err != nil {
		logger.Error("session manager init failed", zap.Error(err))
		return nil, err
	}

	// Bearer tokens are optional; without a secret POST /auth/token is 503.
	if appCfg.JWTSecret != "" {
		tokens, err := auth.NewTokenService(appCfg.JWTSecret, appCfg.JWTTTL)
		if err != nil {
			logger.Error("token service init failed", zap.Error(err))
			return nil, err
		}
		sessionMgr.SetTokenService(tokens)
	}

	// Fetch the user on each request so role changes and removals apply
	// immediately.
	db := deps.MongoDatabase
	sessionMgr.SetUserFetcher(userstore.NewFetcher(db))

	objects, err := objectstore.New(context.Background(), objectstore.Config{
		Region:     appCfg.StorageS3Region,
		Bucket:     appCfg.StorageS3Bucket,
		Prefix:     appCfg.StorageS3Prefix,
		Endpoint:   appCfg.StorageS3Endpoint,
		KMSKeyID:   appCfg.StorageKMSKeyID,
		PresignTTL: appCfg.StoragePresignTTL,
	})
	if err != nil {
		logger.Error("object storage init failed", zap.Error(err))
		return nil, err
	}
	if !objects.Enabled() {
		logger.Warn("storage_s3_bucket not set; document uploads are disabled")
	}

	auditLog := auditlog.New(audit.New(db), logger, auditlog.Config{
		Auth: appCfg.AuditLogAuth,
		Data: appCfg.AuditLogData,
	})
	notifier := notify.New(db, logger)
	engine := automation.New(db, notifier, logger)

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	if len(appCfg.CORSAllowedOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   appCfg.CORSAllowedOrigins,
			AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Requested-With"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}

	// Global auth middleware: loads the SessionUser from the cookie or a
	// bearer token so handlers can call auth.CurrentUser(r).
	r.Use(sessionMgr.LoadSessionUser)

	// JSON answers for unknown routes and methods
	errorsHandler := errorsfeature.NewHandler()
	r.NotFound(errorsHandler.NotFound)
	r.MethodNotAllowed(errorsHandler.MethodNotAllowed)

	// Health check endpoint for load balancers and orchestrators
	healthHandler := healthfeature.NewHandler(deps.MongoClient, Version, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	// Authentication
	loginHandler := loginfeature.NewHandler(db, sessionMgr, auditLog, ratelimit.NewLoginLimiter(), logger)
	logoutHandler := logoutfeature.NewHandler(sessionMgr, auditLog, logger)
	profileHandler := profilefeature.NewHandler(db, auditLog, logger)
	r.Route("/auth", func(ar chi.Router) {
		ar.Mount("/login", loginfeature.Routes(loginHandler))
		ar.Mount("/token", loginfeature.TokenRoutes(loginHandler))
		ar.Mount("/logout", logoutfeature.Routes(logoutHandler))
		ar.Mount("/me", profilefeature.MeRoutes(profileHandler, sessionMgr))
		ar.Mount("/password", profilefeature.PasswordRoutes(profileHandler, sessionMgr))
	})

	// Organizations: public onboarding, then the signed-in member's own.
	orgHandler := organizationsfeature.NewHandler(db, auditLog, logger)
	r.Mount("/organizations", organizationsfeature.OnboardingRoutes(orgHandler))

	membersHandler := membersfeature.NewHandler(db, auditLog, logger)
	r.Route("/organization", func(or chi.Router) {
		organizationsfeature.Register(or, orgHandler, sessionMgr)
		or.Mount("/members", membersfeature.Routes(membersHandler, sessionMgr))
	})

	// CRM records
	clientsHandler := clientsfeature.NewHandler(db, auditLog, notifier, logger)
	r.Mount("/clients", clientsfeature.Routes(clientsHandler, sessionMgr))

	activityHandler := activityfeature.NewHandler(db, auditLog, engine, logger)
	r.Mount("/activity-logs", activityfeature.Routes(activityHandler, sessionMgr))

	tasksHandler := tasksfeature.NewHandler(db, auditLog, notifier, logger)
	r.Mount("/tasks", tasksfeature.Routes(tasksHandler, sessionMgr))

	eventsHandler := eventsfeature.NewHandler(db, auditLog, logger)
	r.Mount("/events", eventsfeature.Routes(eventsHandler, sessionMgr))

	documentsHandler := documentsfeature.NewHandler(db, auditLog, objects, logger)
	r.Mount("/documents", documentsfeature.Routes(documentsHandler, sessionMgr))

	constructionHandler := constructionfeature.NewHandler(db, auditLog, logger)
	r.Mount("/construction-projects", constructionfeature.Routes(constructionHandler, sessionMgr))

	// Reporting and configuration
	dashboardHandler := dashboardfeature.NewHandler(db, logger)
	r.Mount("/dashboard", dashboardfeature.Routes(dashboardHandler, sessionMgr))

	settingsHandler := settingsfeature.NewHandler(db, logger)
	r.Mount("/settings", settingsfeature.Routes(settingsHandler, sessionMgr))

	notificationsHandler := notificationsfeature.NewHandler(db, logger)
	r.Mount("/notifications", notificationsfeature.Routes(notificationsHandler, sessionMgr))

	auditHandler := auditlogfeature.NewHandler(db, logger)
	r.Mount("/audit-logs", auditlogfeature.Routes(auditHandler, sessionMgr))

	return r, nil
}
