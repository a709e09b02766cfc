// internal/app/system/auditlog/logger.go
package auditlog

import (
	"context"
	"net/http"
	"sort"
	"strings"

	"github.com/dalemusser/claimdesk/internal/app/store/audit"
	"github.com/dalemusser/claimdesk/internal/app/system/authz"
	"github.com/dalemusser/claimdesk/internal/app/system/ratelimit"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Destinations for a category.
const (
	All = "all" // MongoDB + zap
	DB  = "db"  // MongoDB only
	Log = "log" // zap only
	Off = "off"
)

// Config holds audit logging configuration.
type Config struct {
	// Auth controls authentication events (login, token, logout, password).
	Auth string
	// Data controls record changes (create, update, delete).
	Data string
}

// Logger provides convenience methods for logging audit events.
// It logs to MongoDB (via audit.Store) and/or structured logs (via zap).
type Logger struct {
	store  *audit.Store
	zapLog *zap.Logger
	config Config
}

// New creates a new audit Logger.
func New(store *audit.Store, zapLog *zap.Logger, config Config) *Logger {
	return &Logger{
		store:  store,
		zapLog: zapLog,
		config: config,
	}
}

func (l *Logger) logToZap(event audit.Event) {
	fields := []zap.Field{
		zap.Bool("audit", true),
		zap.String("category", event.Category),
		zap.String("event_type", event.EventType),
		zap.Bool("success", event.Success),
		zap.String("ip", event.IP),
	}

	if event.EntityType != "" {
		fields = append(fields, zap.String("entity_type", event.EntityType), zap.String("entity_id", event.EntityID))
	}
	if event.UserID != nil {
		fields = append(fields, zap.String("user_id", event.UserID.Hex()))
	}
	if event.ActorID != nil {
		fields = append(fields, zap.String("actor_id", event.ActorID.Hex()))
	}
	if event.OrganizationID != nil {
		fields = append(fields, zap.String("organization_id", event.OrganizationID.Hex()))
	}
	if event.FailureReason != "" {
		fields = append(fields, zap.String("failure_reason", event.FailureReason))
	}
	for k, v := range event.Details {
		fields = append(fields, zap.String("detail_"+k, v))
	}

	if event.Success {
		l.zapLog.Info("audit event", fields...)
	} else {
		l.zapLog.Warn("audit event", fields...)
	}
}

// Log records an audit event based on configuration.
// A nil Logger is a no-op so handlers under test may omit it.
func (l *Logger) Log(ctx context.Context, event audit.Event) {
	if l == nil {
		return
	}

	var setting string
	switch event.Category {
	case audit.CategoryAuth:
		setting = l.config.Auth
	case audit.CategoryData:
		setting = l.config.Data
	}
	if setting == "" {
		setting = All
	}
	if setting == Off {
		return
	}

	if setting == All || setting == Log {
		l.logToZap(event)
	}
	if setting == All || setting == DB {
		if err := l.store.Log(ctx, event); err != nil {
			l.zapLog.Error("failed to store audit event",
				zap.Error(err),
				zap.String("event_type", event.EventType),
			)
		}
	}
}

func authEvent(r *http.Request, eventType string, userID, orgID *primitive.ObjectID) audit.Event {
	return audit.Event{
		Category:       audit.CategoryAuth,
		EventType:      eventType,
		UserID:         userID,
		OrganizationID: orgID,
		IP:             ratelimit.ClientIP(r),
		UserAgent:      r.UserAgent(),
	}
}

// --- Authentication Events ---

// LoginSuccess logs a successful login. method is "session" or "token".
func (l *Logger) LoginSuccess(ctx context.Context, r *http.Request, userID, orgID primitive.ObjectID, username, method string) {
	e := authEvent(r, audit.EventLoginSuccess, &userID, &orgID)
	e.Success = true
	e.Details = map[string]string{"username": username, "method": method}
	l.Log(ctx, e)
}

// LoginFailedUserNotFound logs a login for a username nobody has.
func (l *Logger) LoginFailedUserNotFound(ctx context.Context, r *http.Request, attempted string) {
	e := authEvent(r, audit.EventLoginFailedUserNotFound, nil, nil)
	e.FailureReason = "user not found"
	e.Details = map[string]string{"attempted_username": attempted}
	l.Log(ctx, e)
}

// LoginFailedWrongPassword logs a failed password check.
func (l *Logger) LoginFailedWrongPassword(ctx context.Context, r *http.Request, userID, orgID primitive.ObjectID, username string) {
	e := authEvent(r, audit.EventLoginFailedWrongPassword, &userID, &orgID)
	e.FailureReason = "wrong password"
	e.Details = map[string]string{"username": username}
	l.Log(ctx, e)
}

// LoginFailedUserDisabled logs a login by a disabled account.
func (l *Logger) LoginFailedUserDisabled(ctx context.Context, r *http.Request, userID, orgID primitive.ObjectID, username string) {
	e := authEvent(r, audit.EventLoginFailedUserDisabled, &userID, &orgID)
	e.FailureReason = "user disabled"
	e.Details = map[string]string{"username": username}
	l.Log(ctx, e)
}

// LoginFailedRateLimit logs a login refused by the limiter. scope is
// "ip" or "user".
func (l *Logger) LoginFailedRateLimit(ctx context.Context, r *http.Request, username, scope string) {
	e := authEvent(r, audit.EventLoginFailedRateLimit, nil, nil)
	e.FailureReason = "rate limit exceeded"
	e.Details = map[string]string{"username": username, "limit_type": scope}
	l.Log(ctx, e)
}

// Logout logs a sign-out.
func (l *Logger) Logout(ctx context.Context, r *http.Request, userID, orgID primitive.ObjectID) {
	e := authEvent(r, audit.EventLogout, &userID, &orgID)
	e.Success = true
	l.Log(ctx, e)
}

// PasswordChanged logs a user changing their own password.
func (l *Logger) PasswordChanged(ctx context.Context, r *http.Request, userID, orgID primitive.ObjectID) {
	e := authEvent(r, audit.EventPasswordChanged, &userID, &orgID)
	e.Success = true
	l.Log(ctx, e)
}

// PasswordReset logs an admin resetting a member's password.
func (l *Logger) PasswordReset(ctx context.Context, r *http.Request, actor authz.Actor, targetUserID primitive.ObjectID) {
	e := authEvent(r, audit.EventPasswordReset, &targetUserID, &actor.OrgID)
	e.ActorID = &actor.UserID
	e.Success = true
	l.Log(ctx, e)
}

// --- Data Events ---

func (l *Logger) data(ctx context.Context, r *http.Request, actor authz.Actor, action, entityType, entityID string, details map[string]string) {
	l.Log(ctx, audit.Event{
		Category:       audit.CategoryData,
		EventType:      action,
		EntityType:     entityType,
		EntityID:       entityID,
		OrganizationID: &actor.OrgID,
		ActorID:        &actor.UserID,
		IP:             ratelimit.ClientIP(r),
		UserAgent:      r.UserAgent(),
		Success:        true,
		Details:        details,
	})
}

// Created logs a new record.
func (l *Logger) Created(ctx context.Context, r *http.Request, actor authz.Actor, entityType, entityID string) {
	l.data(ctx, r, actor, audit.ActionCreate, entityType, entityID, nil)
}

// Updated logs a changed record; fields are the changed field names.
func (l *Logger) Updated(ctx context.Context, r *http.Request, actor authz.Actor, entityType, entityID string, fields []string) {
	var details map[string]string
	if len(fields) > 0 {
		sorted := append([]string(nil), fields...)
		sort.Strings(sorted)
		details = map[string]string{"fields": strings.Join(sorted, ",")}
	}
	l.data(ctx, r, actor, audit.ActionUpdate, entityType, entityID, details)
}

// Deleted logs a removed record.
func (l *Logger) Deleted(ctx context.Context, r *http.Request, actor authz.Actor, entityType, entityID string) {
	l.data(ctx, r, actor, audit.ActionDelete, entityType, entityID, nil)
}
