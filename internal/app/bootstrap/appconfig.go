// internal/app/bootstrap/appconfig.go
package bootstrap

import "time"

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// These values come from environment variables, configuration files, or
// command-line flags (loaded in LoadConfig). WAFFLE's CoreConfig covers the
// framework-level settings (ports, TLS, logging); everything specific to
// announcements lives here and is passed to every lifecycle hook.
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI            string        // MongoDB connection string (e.g., mongodb://localhost:27017)
	MongoDatabase       string        // Database name within MongoDB
	MongoMaxPoolSize    uint64        // Maximum connections in the driver pool
	MongoMinPoolSize    uint64        // Connections kept open when idle
	MongoConnectTimeout time.Duration // Bound on the initial connect + ping

	// TimeZone names the IANA zone whose calendar decides which
	// announcements are active today. Empty means the server's local zone.
	TimeZone string

	// CORSAllowedOrigins lists browser origins allowed to call the API.
	// Empty disables the CORS middleware.
	CORSAllowedOrigins []string

	// AuditLog chooses where announcement changes are recorded:
	// "all" (db+log), "db", "log", or "off".
	AuditLog string

	// Per-operation store deadlines (zero keeps the built-in default).
	TimeoutPing   time.Duration
	TimeoutShort  time.Duration
	TimeoutMedium time.Duration

	// Teacher ensured on startup so a fresh install can sign in.
	SeedTeacherUsername string
	SeedTeacherName     string
}

// Location resolves TimeZone. Call after ValidateConfig has accepted it.
func (c AppConfig) Location() *time.Location {
	if c.TimeZone == "" {
		return time.Local
	}
	loc, err := time.LoadLocation(c.TimeZone)
	if err != nil {
		return time.Local
	}
	return loc
}
