package testutil

import (
	"strings"
	"testing"
	"time"

	"github.com/dalemusser/claimdesk/internal/app/store/audit"
	"github.com/dalemusser/claimdesk/internal/app/system/auditlog"
	"github.com/dalemusser/claimdesk/internal/app/system/auth"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// TestSessionKey and TestJWTSecret are long enough for the session store
// and token service. Never use them outside tests.
var (
	TestSessionKey = strings.Repeat("k", 32)
	TestJWTSecret  = strings.Repeat("s", 32)
)

// NewSessionManager returns an insecure (http) session manager with a
// token service attached.
func NewSessionManager(t *testing.T) *auth.SessionManager {
	t.Helper()
	sm, err := auth.NewSessionManager(TestSessionKey, "test-session", "", time.Hour, false, zap.NewNop())
	if err != nil {
		t.Fatalf("session manager: %v", err)
	}
	ts, err := auth.NewTokenService(TestJWTSecret, time.Hour)
	if err != nil {
		t.Fatalf("token service: %v", err)
	}
	sm.SetTokenService(ts)
	return sm
}

// NewAuditLogger writes every audit category to db.
func NewAuditLogger(db *mongo.Database) *auditlog.Logger {
	return auditlog.New(audit.New(db), zap.NewNop(), auditlog.Config{Auth: auditlog.DB, Data: auditlog.DB})
}
