// internal/app/features/construction/handler.go
package construction

import (
	clientstore "github.com/dalemusser/claimdesk/internal/app/store/clients"
	constructionstore "github.com/dalemusser/claimdesk/internal/app/store/construction"
	"github.com/dalemusser/claimdesk/internal/app/system/auditlog"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type Handler struct {
	DB       *mongo.Database
	Log      *zap.Logger
	AuditLog *auditlog.Logger

	projects *constructionstore.Store
	clients  *clientstore.Store
}

func NewHandler(db *mongo.Database, audit *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{
		DB:       db,
		Log:      logger,
		AuditLog: audit,
		projects: constructionstore.New(db),
		clients:  clientstore.New(db),
	}
}
