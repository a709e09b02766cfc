// internal/app/features/profile/handler.go
package profile

import (
	memberstore "github.com/dalemusser/claimdesk/internal/app/store/members"
	organizationstore "github.com/dalemusser/claimdesk/internal/app/store/organizations"
	userstore "github.com/dalemusser/claimdesk/internal/app/store/users"
	"github.com/dalemusser/claimdesk/internal/app/system/auditlog"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler serves the signed-in member's own account.
type Handler struct {
	DB       *mongo.Database
	Log      *zap.Logger
	AuditLog *auditlog.Logger

	users   *userstore.Store
	members *memberstore.Store
	orgs    *organizationstore.Store
}

func NewHandler(db *mongo.Database, audit *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{
		DB:       db,
		Log:      logger,
		AuditLog: audit,
		users:    userstore.New(db),
		members:  memberstore.New(db),
		orgs:     organizationstore.New(db),
	}
}
