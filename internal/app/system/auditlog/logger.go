// internal/app/system/auditlog/logger.go
package auditlog

import (
	"context"
	"fmt"
	"net/http"

	"github.com/dalemusser/schoolhub/internal/app/store/audit"
	"github.com/dalemusser/schoolhub/internal/app/system/requestid"
	"github.com/dalemusser/schoolhub/internal/domain/models"
	"go.uber.org/zap"
)

// Destinations for audit events.
const (
	ModeAll = "all" // MongoDB + zap
	ModeDB  = "db"  // MongoDB only
	ModeLog = "log" // zap only
	ModeOff = "off"
)

// ValidMode reports whether mode is a recognized destination setting.
func ValidMode(mode string) bool {
	switch mode {
	case ModeAll, ModeDB, ModeLog, ModeOff:
		return true
	}
	return false
}

// Config holds audit logging configuration.
type Config struct {
	// Mode is one of "all", "db", "log", "off". Empty means "all".
	Mode string
}

// Recorder persists audit events. *audit.Store satisfies it.
type Recorder interface {
	Log(ctx context.Context, event audit.Event) error
}

// Logger writes audit events to the store and to structured logs.
type Logger struct {
	store  Recorder
	zapLog *zap.Logger
	config Config
}

// New creates a new audit Logger.
func New(store Recorder, zapLog *zap.Logger, config Config) *Logger {
	if zapLog == nil {
		zapLog = zap.NewNop()
	}
	if config.Mode == "" {
		config.Mode = ModeAll
	}
	return &Logger{
		store:  store,
		zapLog: zapLog,
		config: config,
	}
}

// clientIP extracts the client IP from the request.
func clientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		return xff
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}
	return r.RemoteAddr
}

func (l *Logger) logToZap(event audit.Event) {
	fields := []zap.Field{
		zap.Bool("audit", true),
		zap.String("category", event.Category),
		zap.String("event_type", event.EventType),
		zap.String("actor", event.Actor),
		zap.Bool("success", event.Success),
		zap.String("ip", event.IP),
	}
	if event.RequestID != "" {
		fields = append(fields, zap.String("request_id", event.RequestID))
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

// Log records an audit event according to the configured mode.
// A nil Logger is a no-op. Store failures are logged, never returned.
func (l *Logger) Log(ctx context.Context, event audit.Event) {
	if l == nil {
		return
	}

	mode := l.config.Mode
	if mode == ModeOff {
		return
	}
	if mode == ModeAll || mode == ModeLog {
		l.logToZap(event)
	}
	if (mode == ModeAll || mode == ModeDB) && l.store != nil {
		if err := l.store.Log(ctx, event); err != nil {
			l.zapLog.Error("failed to store audit event",
				zap.Error(err),
				zap.String("event_type", event.EventType),
			)
		}
	}
}

func (l *Logger) announcementEvent(ctx context.Context, r *http.Request, eventType, actor string, a models.Announcement) {
	if l == nil {
		return
	}
	l.Log(ctx, audit.Event{
		Category:  audit.CategoryAdmin,
		EventType: eventType,
		Actor:     actor,
		IP:        clientIP(r),
		UserAgent: r.UserAgent(),
		RequestID: requestid.From(r.Context()),
		Success:   true,
		Details: map[string]string{
			"announcement_id": a.ID.Hex(),
			"title":           a.Title,
			"window":          window(a),
		},
	})
}

func window(a models.Announcement) string {
	start := "open"
	if a.StartDate != nil {
		start = *a.StartDate
	}
	return fmt.Sprintf("%s..%s", start, a.EndDate)
}

// AnnouncementCreated logs a teacher creating an announcement.
func (l *Logger) AnnouncementCreated(ctx context.Context, r *http.Request, actor string, a models.Announcement) {
	l.announcementEvent(ctx, r, audit.EventAnnouncementCreated, actor, a)
}

// AnnouncementUpdated logs a teacher editing an announcement.
func (l *Logger) AnnouncementUpdated(ctx context.Context, r *http.Request, actor string, a models.Announcement) {
	l.announcementEvent(ctx, r, audit.EventAnnouncementUpdated, actor, a)
}

// AnnouncementDeleted logs a teacher deleting an announcement.
func (l *Logger) AnnouncementDeleted(ctx context.Context, r *http.Request, actor string, a models.Announcement) {
	l.announcementEvent(ctx, r, audit.EventAnnouncementDeleted, actor, a)
}
