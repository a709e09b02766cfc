// internal/app/features/documents/handler.go
package documents

import (
	clientstore "github.com/dalemusser/claimdesk/internal/app/store/clients"
	constructionstore "github.com/dalemusser/claimdesk/internal/app/store/construction"
	documentstore "github.com/dalemusser/claimdesk/internal/app/store/documents"
	"github.com/dalemusser/claimdesk/internal/app/system/auditlog"
	"github.com/dalemusser/claimdesk/internal/app/system/objectstore"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler serves document metadata. File bytes go straight between the
// caller and the bucket through presigned URLs.
type Handler struct {
	DB       *mongo.Database
	Log      *zap.Logger
	AuditLog *auditlog.Logger
	Objects  *objectstore.Store

	docs     *documentstore.Store
	clients  *clientstore.Store
	projects *constructionstore.Store
}

func NewHandler(db *mongo.Database, audit *auditlog.Logger, objects *objectstore.Store, logger *zap.Logger) *Handler {
	return &Handler{
		DB:       db,
		Log:      logger,
		AuditLog: audit,
		Objects:  objects,
		docs:     documentstore.New(db),
		clients:  clientstore.New(db),
		projects: constructionstore.New(db),
	}
}
