// internal/app/bootstrap/config.go
package bootstrap

import (
	"fmt"
	"strings"
	"time"

	"github.com/dalemusser/schoolhub/internal/app/system/auditlog"
	"github.com/dalemusser/schoolhub/internal/app/system/timeouts"
	"github.com/dalemusser/waffle/config"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.uber.org/zap"
)

// appConfigKeys defines the configuration keys for SchoolHub.
// These are loaded via WAFFLE's config system with support for:
//   - Config files: mongo_uri, time_zone, etc.
//   - Environment variables: SCHOOLHUB_MONGO_URI, SCHOOLHUB_TIME_ZONE, etc.
//   - Command-line flags: --mongo_uri, --time_zone, etc.
var appConfigKeys = []config.AppKey{
	{Name: "mongo_uri", Default: "mongodb://localhost:27017", Desc: "MongoDB connection URI"},
	{Name: "mongo_database", Default: "school_hub", Desc: "MongoDB database name"},
	{Name: "mongo_max_pool_size", Default: 100, Desc: "MongoDB max connection pool size (default: 100)"},
	{Name: "mongo_min_pool_size", Default: 10, Desc: "MongoDB min connection pool size (default: 10)"},
	{Name: "mongo_connect_timeout", Default: "10s", Desc: "Timeout for the initial MongoDB connect and ping"},

	// Calendar used for the active announcement window
	{Name: "time_zone", Default: "", Desc: "IANA time zone deciding 'today' (blank means server local time)"},

	// Browser frontend
	{Name: "cors_allowed_origins", Default: "", Desc: "Comma-separated origins allowed to call the API (blank disables CORS)"},

	// Audit logging
	{Name: "audit_log", Default: "all", Desc: "Announcement change logging: 'all' (db+log), 'db', 'log', or 'off'"},

	// Store deadlines
	{Name: "timeout_ping", Default: "2s", Desc: "Health check ping timeout"},
	{Name: "timeout_short", Default: "5s", Desc: "Timeout for single-document operations"},
	{Name: "timeout_medium", Default: "10s", Desc: "Timeout for list queries"},

	// Initial teacher
	{Name: "seed_teacher_username", Default: "", Desc: "Username of a teacher to create on startup if missing"},
	{Name: "seed_teacher_name", Default: "", Desc: "Display name for the seeded teacher"},
}

// LoadConfig loads WAFFLE core config and app-specific config.
//
// WAFFLE's config.LoadWithAppConfig handles .env files, config files,
// WAFFLE_* and SCHOOLHUB_* environment variables, and flags, merged with
// precedence flags > env > files > defaults.
func LoadConfig(logger *zap.Logger) (*config.CoreConfig, AppConfig, error) {
	coreCfg, appValues, err := config.LoadWithAppConfig(logger, "SCHOOLHUB", appConfigKeys)
	if err != nil {
		return nil, AppConfig{}, err
	}

	appCfg := AppConfig{
		MongoURI:            appValues.String("mongo_uri"),
		MongoDatabase:       appValues.String("mongo_database"),
		MongoMaxPoolSize:    uint64(appValues.Int("mongo_max_pool_size")),
		MongoMinPoolSize:    uint64(appValues.Int("mongo_min_pool_size")),
		MongoConnectTimeout: appValues.Duration("mongo_connect_timeout", 10*time.Second),

		TimeZone:           strings.TrimSpace(appValues.String("time_zone")),
		CORSAllowedOrigins: splitList(appValues.String("cors_allowed_origins")),
		AuditLog:           strings.ToLower(strings.TrimSpace(appValues.String("audit_log"))),

		TimeoutPing:   appValues.Duration("timeout_ping", timeouts.DefaultPing),
		TimeoutShort:  appValues.Duration("timeout_short", timeouts.DefaultShort),
		TimeoutMedium: appValues.Duration("timeout_medium", timeouts.DefaultMedium),

		SeedTeacherUsername: strings.TrimSpace(appValues.String("seed_teacher_username")),
		SeedTeacherName:     strings.TrimSpace(appValues.String("seed_teacher_name")),
	}

	return coreCfg, appCfg, nil
}

// splitList parses a comma-separated list, dropping blanks.
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// ValidateConfig performs app-specific config validation.
//
// Return nil to accept the loaded config, or an error to abort startup.
// Problems that would otherwise surface on the first request (a bad Mongo
// URI, an unknown time zone) are caught here.
func ValidateConfig(coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) error {
	if err := wafflemongo.ValidateURI(appCfg.MongoURI); err != nil {
		logger.Error("invalid MongoDB URI", zap.Error(err))
		return fmt.Errorf("invalid MongoDB URI: %w", err)
	}
	if appCfg.MongoDatabase == "" {
		return fmt.Errorf("mongo_database must not be empty")
	}
	if appCfg.MongoMinPoolSize > appCfg.MongoMaxPoolSize {
		return fmt.Errorf("mongo_min_pool_size (%d) exceeds mongo_max_pool_size (%d)",
			appCfg.MongoMinPoolSize, appCfg.MongoMaxPoolSize)
	}

	if appCfg.TimeZone != "" {
		if _, err := time.LoadLocation(appCfg.TimeZone); err != nil {
			return fmt.Errorf("invalid time_zone %q: %w", appCfg.TimeZone, err)
		}
	}

	if appCfg.AuditLog != "" && !auditlog.ValidMode(appCfg.AuditLog) {
		return fmt.Errorf("invalid audit_log %q: want all, db, log, or off", appCfg.AuditLog)
	}

	if coreCfg != nil && coreCfg.Env == "prod" && len(appCfg.CORSAllowedOrigins) == 1 && appCfg.CORSAllowedOrigins[0] == "*" {
		logger.Warn("cors_allowed_origins is '*' in production")
	}

	return nil
}
