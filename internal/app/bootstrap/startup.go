// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"

	eventstore "github.com/dalemusser/claimdesk/internal/app/store/events"
	"github.com/dalemusser/claimdesk/internal/app/system/tasks"
	"github.com/dalemusser/claimdesk/internal/app/system/timeouts"
	"github.com/dalemusser/claimdesk/internal/app/system/workers"
	"github.com/dalemusser/claimdesk/internal/app/workflow/notify"
	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

// Startup runs after the DB is connected and indexed, before the HTTP
// handler is built. It applies the configured timeouts and starts the
// event reminder worker.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	timeouts.Configure(timeouts.Config{
		Short:  appCfg.TimeoutShort,
		Medium: appCfg.TimeoutMedium,
		Long:   appCfg.TimeoutLong,
	})

	if deps.Workers == nil {
		return nil
	}
	job := tasks.EventReminderJob(
		eventstore.New(deps.MongoDatabase),
		notify.New(deps.MongoDatabase, logger),
		logger,
		appCfg.ReminderInterval,
		appCfg.ReminderLookahead,
	)
	deps.Workers.add(workers.NewRunner(job, logger, timeouts.Long()))
	return nil
}
