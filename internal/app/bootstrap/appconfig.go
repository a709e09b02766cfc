// internal/app/bootstrap/appconfig.go
package bootstrap

import "time"

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// These values come from environment variables (CLAIMDESK_*), config
// files, or command-line flags (loaded in LoadConfig). WAFFLE's CoreConfig
// keeps the framework-level settings: ports, TLS, log level, environment.
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI         string // MongoDB connection string (e.g., mongodb://localhost:27017)
	MongoDatabase    string // Database name within MongoDB
	MongoMaxPoolSize uint64
	MongoMinPoolSize uint64

	// Session management configuration
	SessionKey    string        // Secret key for signing session cookies (must be strong in production)
	SessionName   string        // Cookie name for sessions (default: claimdesk-session)
	SessionDomain string        // Cookie domain (blank means current host)
	SessionMaxAge time.Duration // Session lifetime

	// Bearer tokens for API clients; blank secret disables POST /auth/token
	JWTSecret string
	JWTTTL    time.Duration

	// Browser origins allowed to call the API with credentials
	CORSAllowedOrigins []string

	// Document storage (S3 or compatible); blank bucket disables uploads
	StorageS3Region   string
	StorageS3Bucket   string
	StorageS3Prefix   string
	StorageS3Endpoint string // MinIO / LocalStack
	StoragePresignTTL time.Duration
	StorageKMSKeyID   string

	// Audit logging modes: all, db, log, off
	AuditLogAuth string
	AuditLogData string

	// Event reminder job
	ReminderInterval  time.Duration
	ReminderLookahead time.Duration

	// Database operation timeouts; zero keeps the built-in default
	TimeoutShort  time.Duration
	TimeoutMedium time.Duration
	TimeoutLong   time.Duration
}
