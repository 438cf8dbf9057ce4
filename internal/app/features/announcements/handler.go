// internal/app/features/announcements/handler.go
package announcements

import (
	"time"

	announcementstore "github.com/dalemusser/schoolhub/internal/app/store/announcements"
	teacherstore "github.com/dalemusser/schoolhub/internal/app/store/teachers"
	"github.com/dalemusser/schoolhub/internal/app/system/auditlog"
	"github.com/juju/clock"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler owns all Announcements handlers.
type Handler struct {
	Service *Service
	Audit   *auditlog.Logger
	Log     *zap.Logger
}

// NewHandler constructs an Announcements Handler backed by db.
func NewHandler(db *mongo.Database, audit *auditlog.Logger, clk clock.Clock, loc *time.Location, logger *zap.Logger) *Handler {
	svc := NewService(announcementstore.New(db), teacherstore.New(db), clk, loc, logger)
	return &Handler{
		Service: svc,
		Audit:   audit,
		Log:     svc.Log,
	}
}
