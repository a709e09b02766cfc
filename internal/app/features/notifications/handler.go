// internal/app/features/notifications/handler.go
package notifications

import (
	notificationstore "github.com/dalemusser/claimdesk/internal/app/store/notifications"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type Handler struct {
	DB  *mongo.Database
	Log *zap.Logger

	notes *notificationstore.Store
}

func NewHandler(db *mongo.Database, logger *zap.Logger) *Handler {
	return &Handler{
		DB:    db,
		Log:   logger,
		notes: notificationstore.New(db),
	}
}
