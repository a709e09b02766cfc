// internal/app/bootstrap/config.go
package bootstrap

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dalemusser/claimdesk/internal/app/system/auditlog"
	"github.com/dalemusser/waffle/config"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.uber.org/zap"
)

// Development defaults. ValidateConfig refuses them in prod.
const (
	devSessionKey = "dev-only-change-me-please-0123456789ABCDEF"
	devJWTSecret  = "dev-only-jwt-secret-change-me-0123456789"
)

// appConfigKeys defines the configuration keys for ClaimDesk.
// These are loaded via WAFFLE's config system with support for:
//   - Config files: mongo_uri, session_name, etc.
//   - Environment variables: CLAIMDESK_MONGO_URI, CLAIMDESK_SESSION_NAME, etc.
//   - Command-line flags: --mongo_uri, --session_name, etc.
var appConfigKeys = []config.AppKey{
	{Name: "mongo_uri", Default: "mongodb://localhost:27017", Desc: "MongoDB connection URI"},
	{Name: "mongo_database", Default: "claimdesk", Desc: "MongoDB database name"},
	{Name: "mongo_max_pool_size", Default: 100, Desc: "MongoDB max connection pool size (default: 100)"},
	{Name: "mongo_min_pool_size", Default: 10, Desc: "MongoDB min connection pool size (default: 10)"},
	{Name: "session_key", Default: devSessionKey, Desc: "Session signing key (must be strong in production)"},
	{Name: "session_name", Default: "claimdesk-session", Desc: "Session cookie name"},
	{Name: "session_domain", Default: "", Desc: "Session cookie domain (blank means current host)"},
	{Name: "session_max_age", Default: "24h", Desc: "Session lifetime (e.g., 12h, 168h)"},

	// Bearer tokens
	{Name: "jwt_secret", Default: devJWTSecret, Desc: "HMAC secret for API bearer tokens (blank disables /auth/token)"},
	{Name: "jwt_ttl", Default: "12h", Desc: "Bearer token lifetime"},

	{Name: "cors_allowed_origins", Default: "", Desc: "Comma-separated browser origins allowed to call the API"},

	// Document storage
	{Name: "storage_s3_region", Default: "us-east-1", Desc: "AWS region for S3"},
	{Name: "storage_s3_bucket", Default: "", Desc: "S3 bucket name (blank disables document uploads)"},
	{Name: "storage_s3_prefix", Default: "claimdesk/", Desc: "S3 key prefix"},
	{Name: "storage_s3_endpoint", Default: "", Desc: "S3-compatible endpoint (MinIO, LocalStack)"},
	{Name: "storage_presign_ttl", Default: "15m", Desc: "Lifetime of presigned upload/download URLs"},
	{Name: "storage_kms_key_id", Default: "", Desc: "KMS key for SSE-KMS uploads (blank uses bucket default)"},

	// Audit logging settings
	{Name: "audit_log_auth", Default: "all", Desc: "Auth event logging: 'all' (db+log), 'db', 'log', or 'off'"},
	{Name: "audit_log_data", Default: "db", Desc: "Record change logging: 'all' (db+log), 'db', 'log', or 'off'"},

	// Event reminders
	{Name: "reminder_interval", Default: "15m", Desc: "How often the event reminder job runs"},
	{Name: "reminder_lookahead", Default: "24h", Desc: "How far ahead events are reminded"},

	// Database timeouts
	{Name: "timeout_short", Default: "5s", Desc: "Timeout for single-document operations"},
	{Name: "timeout_medium", Default: "10s", Desc: "Timeout for lists and transactions"},
	{Name: "timeout_long", Default: "30s", Desc: "Timeout for aggregations and onboarding"},
}

// LoadConfig loads WAFFLE core config and app-specific config.
//
// WAFFLE's config.LoadWithAppConfig handles .env files, config files,
// environment variables (WAFFLE_* for core, CLAIMDESK_* for app) and
// flags, merged with precedence flags > env > files > defaults.
func LoadConfig(logger *zap.Logger) (*config.CoreConfig, AppConfig, error) {
	coreCfg, appValues, err := config.LoadWithAppConfig(logger, "CLAIMDESK", appConfigKeys)
	if err != nil {
		return nil, AppConfig{}, err
	}

	appCfg := AppConfig{
		MongoURI:         appValues.String("mongo_uri"),
		MongoDatabase:    appValues.String("mongo_database"),
		MongoMaxPoolSize: uint64(appValues.Int("mongo_max_pool_size")),
		MongoMinPoolSize: uint64(appValues.Int("mongo_min_pool_size")),
		SessionKey:       appValues.String("session_key"),
		SessionName:      appValues.String("session_name"),
		SessionDomain:    appValues.String("session_domain"),
		SessionMaxAge:    appValues.Duration("session_max_age", 24*time.Hour),

		JWTSecret: appValues.String("jwt_secret"),
		JWTTTL:    appValues.Duration("jwt_ttl", 12*time.Hour),

		CORSAllowedOrigins: splitList(appValues.String("cors_allowed_origins")),

		// Document storage
		StorageS3Region:   appValues.String("storage_s3_region"),
		StorageS3Bucket:   appValues.String("storage_s3_bucket"),
		StorageS3Prefix:   appValues.String("storage_s3_prefix"),
		StorageS3Endpoint: appValues.String("storage_s3_endpoint"),
		StoragePresignTTL: appValues.Duration("storage_presign_ttl", 15*time.Minute),
		StorageKMSKeyID:   appValues.String("storage_kms_key_id"),

		// Audit logging
		AuditLogAuth: strings.ToLower(appValues.String("audit_log_auth")),
		AuditLogData: strings.ToLower(appValues.String("audit_log_data")),

		ReminderInterval:  appValues.Duration("reminder_interval", 15*time.Minute),
		ReminderLookahead: appValues.Duration("reminder_lookahead", 24*time.Hour),

		TimeoutShort:  appValues.Duration("timeout_short", 0),
		TimeoutMedium: appValues.Duration("timeout_medium", 0),
		TimeoutLong:   appValues.Duration("timeout_long", 0),
	}

	return coreCfg, appCfg, nil
}

// ValidateConfig performs app-specific config validation.
//
// It checks the MongoDB URI format before any connection is attempted
// and, in prod, refuses the development session key and JWT secret.
func ValidateConfig(coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) error {
	if err := wafflemongo.ValidateURI(appCfg.MongoURI); err != nil {
		logger.Error("invalid MongoDB URI", zap.Error(err))
		return fmt.Errorf("invalid MongoDB URI: %w", err)
	}

	for name, mode := range map[string]string{"audit_log_auth": appCfg.AuditLogAuth, "audit_log_data": appCfg.AuditLogData} {
		switch mode {
		case auditlog.All, auditlog.DB, auditlog.Log, auditlog.Off:
		default:
			return fmt.Errorf("%s must be one of all, db, log, off (got %q)", name, mode)
		}
	}

	if appCfg.ReminderInterval <= 0 || appCfg.ReminderLookahead <= 0 {
		return errors.New("reminder_interval and reminder_lookahead must be positive")
	}

	if coreCfg != nil && coreCfg.Env == "prod" {
		if appCfg.SessionKey == devSessionKey || len(appCfg.SessionKey) < 32 {
			return errors.New("session_key must be set to a strong secret (32+ characters) in prod")
		}
		if appCfg.JWTSecret == devJWTSecret {
			return errors.New("jwt_secret must be changed or left blank in prod")
		}
	}

	return nil
}

// splitList parses a comma-separated config value, dropping blanks.
func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
