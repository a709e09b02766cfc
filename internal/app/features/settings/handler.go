// internal/app/features/settings/handler.go
package settings

import (
	automationrulestore "github.com/dalemusser/claimdesk/internal/app/store/automationrules"
	claimstatusstore "github.com/dalemusser/claimdesk/internal/app/store/claimstatuses"
	memberstore "github.com/dalemusser/claimdesk/internal/app/store/members"
	workflowrolestore "github.com/dalemusser/claimdesk/internal/app/store/workflowroles"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler owns the organization's workflow settings: custom claim
// statuses, workflow roles and automation rules.
type Handler struct {
	DB  *mongo.Database
	Log *zap.Logger

	statuses *claimstatusstore.Store
	roles    *workflowrolestore.Store
	rules    *automationrulestore.Store
	members  *memberstore.Store
}

// NewHandler constructs a Handler bound to the given Mongo database and logger.
func NewHandler(db *mongo.Database, logger *zap.Logger) *Handler {
	return &Handler{
		DB:       db,
		Log:      logger,
		statuses: claimstatusstore.New(db),
		roles:    workflowrolestore.New(db),
		rules:    automationrulestore.New(db),
		members:  memberstore.New(db),
	}
}
