// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"
	"errors"

	teacherstore "github.com/dalemusser/schoolhub/internal/app/store/teachers"
	"github.com/dalemusser/schoolhub/internal/app/system/timeouts"
	"github.com/dalemusser/schoolhub/internal/domain/models"
	"github.com/dalemusser/waffle/config"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Startup runs one-time application initialization after DB connections and
// schema setup are complete, but before the HTTP handler is built.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	timeouts.Configure(timeouts.Config{
		Ping:   appCfg.TimeoutPing,
		Short:  appCfg.TimeoutShort,
		Medium: appCfg.TimeoutMedium,
	})
	cur := timeouts.Current()
	logger.Info("store timeouts configured",
		zap.Duration("ping", cur.Ping),
		zap.Duration("short", cur.Short),
		zap.Duration("medium", cur.Medium),
	)

	if appCfg.SeedTeacherUsername != "" {
		if err := ensureSeedTeacher(ctx, deps, appCfg.SeedTeacherUsername, appCfg.SeedTeacherName, logger); err != nil {
			logger.Error("seed teacher failed", zap.Error(err))
			return err
		}
	}
	return nil
}

// ensureSeedTeacher creates the named teacher if no teacher with that
// username exists. An existing teacher is left untouched.
func ensureSeedTeacher(ctx context.Context, deps DBDeps, username, displayName string, logger *zap.Logger) error {
	store := teacherstore.New(deps.SchoolHubMongoDatabase)

	_, err := store.GetByUsername(ctx, username)
	if err == nil {
		logger.Debug("seed teacher already present", zap.String("username", username))
		return nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return err
	}

	if displayName == "" {
		displayName = username
	}
	_, err = store.Create(ctx, models.Teacher{
		Username:    username,
		DisplayName: displayName,
		Role:        models.RoleAdmin,
	})
	if errors.Is(err, teacherstore.ErrDuplicateUsername) {
		// Another instance created it first.
		return nil
	}
	if err != nil {
		return err
	}

	logger.Info("seed teacher created", zap.String("username", username))
	return nil
}
