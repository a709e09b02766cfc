// internal/app/features/auditlog/handler.go
package auditlog

import (
	"github.com/dalemusser/claimdesk/internal/app/store/audit"
	userstore "github.com/dalemusser/claimdesk/internal/app/store/users"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type Handler struct {
	DB  *mongo.Database
	Log *zap.Logger

	events *audit.Store
	users  *userstore.Store
}

// NewHandler constructs the audit log reader bound to db.
func NewHandler(db *mongo.Database, logger *zap.Logger) *Handler {
	return &Handler{
		DB:     db,
		Log:    logger,
		events: audit.New(db),
		users:  userstore.New(db),
	}
}
