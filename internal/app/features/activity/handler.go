// internal/app/features/activity/handler.go
package activity

import (
	activitylogstore "github.com/dalemusser/claimdesk/internal/app/store/activitylogs"
	clientstore "github.com/dalemusser/claimdesk/internal/app/store/clients"
	"github.com/dalemusser/claimdesk/internal/app/system/auditlog"
	"github.com/dalemusser/claimdesk/internal/app/workflow/automation"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler owns the activity log endpoints. Automation may be nil, in which
// case logging an activity creates no tasks.
type Handler struct {
	DB         *mongo.Database
	Log        *zap.Logger
	AuditLog   *auditlog.Logger
	Automation *automation.Engine

	logs    *activitylogstore.Store
	clients *clientstore.Store
}

// NewHandler creates a new activity Handler.
func NewHandler(db *mongo.Database, audit *auditlog.Logger, engine *automation.Engine, logger *zap.Logger) *Handler {
	return &Handler{
		DB:         db,
		Log:        logger,
		AuditLog:   audit,
		Automation: engine,
		logs:       activitylogstore.New(db),
		clients:    clientstore.New(db),
	}
}
