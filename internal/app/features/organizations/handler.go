// internal/app/features/organizations/handler.go
package organizations

import (
	memberstore "github.com/dalemusser/claimdesk/internal/app/store/members"
	organizationstore "github.com/dalemusser/claimdesk/internal/app/store/organizations"
	userstore "github.com/dalemusser/claimdesk/internal/app/store/users"
	"github.com/dalemusser/claimdesk/internal/app/system/auditlog"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type Handler struct {
	DB       *mongo.Database
	Log      *zap.Logger
	AuditLog *auditlog.Logger

	orgs    *organizationstore.Store
	users   *userstore.Store
	members *memberstore.Store
}

func NewHandler(db *mongo.Database, audit *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{
		DB:       db,
		Log:      logger,
		AuditLog: audit,
		orgs:     organizationstore.New(db),
		users:    userstore.New(db),
		members:  memberstore.New(db),
	}
}
