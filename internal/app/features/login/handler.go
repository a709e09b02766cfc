// internal/app/features/login/handler.go
package login

// Terminology: User Identifiers
//   - UserID / userID / user_id: The MongoDB ObjectID (_id) that uniquely identifies a user record
//   - Username: The login handle a member types (admin@acme.internal), unique across organizations

import (
	memberstore "github.com/dalemusser/claimdesk/internal/app/store/members"
	organizationstore "github.com/dalemusser/claimdesk/internal/app/store/organizations"
	userstore "github.com/dalemusser/claimdesk/internal/app/store/users"
	"github.com/dalemusser/claimdesk/internal/app/system/auditlog"
	"github.com/dalemusser/claimdesk/internal/app/system/auth"
	"github.com/dalemusser/claimdesk/internal/app/system/ratelimit"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type Handler struct {
	DB         *mongo.Database
	Log        *zap.Logger
	SessionMgr *auth.SessionManager
	AuditLog   *auditlog.Logger
	Limiter    *ratelimit.LoginLimiter

	members *memberstore.Store
	users   *userstore.Store
	orgs    *organizationstore.Store
}

// NewHandler constructs the sign-in handler. limiter may be shared with
// other sign-in surfaces; nil gets a fresh one.
func NewHandler(db *mongo.Database, sm *auth.SessionManager, audit *auditlog.Logger, limiter *ratelimit.LoginLimiter, logger *zap.Logger) *Handler {
	if limiter == nil {
		limiter = ratelimit.NewLoginLimiter()
	}
	return &Handler{
		DB:         db,
		Log:        logger,
		SessionMgr: sm,
		AuditLog:   audit,
		Limiter:    limiter,
		members:    memberstore.New(db),
		users:      userstore.New(db),
		orgs:       organizationstore.New(db),
	}
}
