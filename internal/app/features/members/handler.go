// internal/app/features/members/handler.go
package members

import (
	memberstore "github.com/dalemusser/claimdesk/internal/app/store/members"
	organizationstore "github.com/dalemusser/claimdesk/internal/app/store/organizations"
	userstore "github.com/dalemusser/claimdesk/internal/app/store/users"
	workflowrolestore "github.com/dalemusser/claimdesk/internal/app/store/workflowroles"
	"github.com/dalemusser/claimdesk/internal/app/system/auditlog"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type Handler struct {
	DB       *mongo.Database
	Log      *zap.Logger
	AuditLog *auditlog.Logger

	members *memberstore.Store
	users   *userstore.Store
	orgs    *organizationstore.Store
	roles   *workflowrolestore.Store
}

func NewHandler(db *mongo.Database, audit *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{
		DB:       db,
		Log:      logger,
		AuditLog: audit,
		members:  memberstore.New(db),
		users:    userstore.New(db),
		orgs:     organizationstore.New(db),
		roles:    workflowrolestore.New(db),
	}
}
