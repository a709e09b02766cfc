// internal/app/features/clients/handler.go
package clients

import (
	activitylogstore "github.com/dalemusser/claimdesk/internal/app/store/activitylogs"
	claimstatusstore "github.com/dalemusser/claimdesk/internal/app/store/claimstatuses"
	clientstore "github.com/dalemusser/claimdesk/internal/app/store/clients"
	constructionstore "github.com/dalemusser/claimdesk/internal/app/store/construction"
	"github.com/dalemusser/claimdesk/internal/app/system/auditlog"
	"github.com/dalemusser/claimdesk/internal/app/workflow/notify"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler serves the client API. Notify may be nil, in which case no
// notifications are sent.
type Handler struct {
	DB       *mongo.Database
	Log      *zap.Logger
	AuditLog *auditlog.Logger
	Notify   *notify.Dispatcher

	clients  *clientstore.Store
	logs     *activitylogstore.Store
	statuses *claimstatusstore.Store
	projects *constructionstore.Store
}

func NewHandler(db *mongo.Database, audit *auditlog.Logger, notifier *notify.Dispatcher, logger *zap.Logger) *Handler {
	return &Handler{
		DB:       db,
		Log:      logger,
		AuditLog: audit,
		Notify:   notifier,
		clients:  clientstore.New(db),
		logs:     activitylogstore.New(db),
		statuses: claimstatusstore.New(db),
		projects: constructionstore.New(db),
	}
}
