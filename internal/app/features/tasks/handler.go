// internal/app/features/tasks/handler.go
package tasks

import (
	clientstore "github.com/dalemusser/claimdesk/internal/app/store/clients"
	memberstore "github.com/dalemusser/claimdesk/internal/app/store/members"
	taskstore "github.com/dalemusser/claimdesk/internal/app/store/tasks"
	"github.com/dalemusser/claimdesk/internal/app/system/auditlog"
	"github.com/dalemusser/claimdesk/internal/app/workflow/notify"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type Handler struct {
	DB       *mongo.Database
	Log      *zap.Logger
	AuditLog *auditlog.Logger
	Notify   *notify.Dispatcher

	tasks   *taskstore.Store
	clients *clientstore.Store
	members *memberstore.Store
}

func NewHandler(db *mongo.Database, audit *auditlog.Logger, notifier *notify.Dispatcher, logger *zap.Logger) *Handler {
	return &Handler{
		DB:       db,
		Log:      logger,
		AuditLog: audit,
		Notify:   notifier,
		tasks:    taskstore.New(db),
		clients:  clientstore.New(db),
		members:  memberstore.New(db),
	}
}
