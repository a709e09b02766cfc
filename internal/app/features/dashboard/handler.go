// internal/app/features/dashboard/handler.go
package dashboard

import (
	clientstore "github.com/dalemusser/claimdesk/internal/app/store/clients"
	"github.com/dalemusser/claimdesk/internal/app/workflow/kpi"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler serves the read-only KPI endpoints.
type Handler struct {
	DB  *mongo.Database
	Log *zap.Logger
	KPI *kpi.Service

	clients *clientstore.Store
}

func NewHandler(db *mongo.Database, logger *zap.Logger) *Handler {
	return &Handler{
		DB:      db,
		Log:     logger,
		KPI:     kpi.NewService(db),
		clients: clientstore.New(db),
	}
}
