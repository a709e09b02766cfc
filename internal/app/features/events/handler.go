// internal/app/features/events/handler.go
package events

import (
	clientstore "github.com/dalemusser/claimdesk/internal/app/store/clients"
	eventstore "github.com/dalemusser/claimdesk/internal/app/store/events"
	"github.com/dalemusser/claimdesk/internal/app/system/auditlog"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type Handler struct {
	DB       *mongo.Database
	Log      *zap.Logger
	AuditLog *auditlog.Logger

	events  *eventstore.Store
	clients *clientstore.Store
}

func NewHandler(db *mongo.Database, audit *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{
		DB:       db,
		Log:      logger,
		AuditLog: audit,
		events:   eventstore.New(db),
		clients:  clientstore.New(db),
	}
}
