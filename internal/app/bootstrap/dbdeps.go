// internal/app/bootstrap/dbdeps.go
package bootstrap

import (
	"github.com/dalemusser/claimdesk/internal/app/system/workers"
	"go.mongodb.org/mongo-driver/mongo"
)

// DBDeps holds database/back-end dependencies for the app.
type DBDeps struct {
	MongoClient   *mongo.Client
	MongoDatabase *mongo.Database

	// Background workers started in Startup and stopped in Shutdown.
	// ConnectDB allocates it so the hooks share one set.
	Workers *workerSet
}

type workerSet struct {
	runners []*workers.Runner
}

func (s *workerSet) add(r *workers.Runner) {
	s.runners = append(s.runners, r)
	r.Start()
}

func (s *workerSet) stopAll() {
	if s == nil {
		return
	}
	for _, r := range s.runners {
		r.Stop()
	}
	s.runners = nil
}
