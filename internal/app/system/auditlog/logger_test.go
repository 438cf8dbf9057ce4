package auditlog_test

import (
	"context"
	"errors"
	"net/http/httptest"
	"testing"

	"github.com/dalemusser/schoolhub/internal/app/store/audit"
	"github.com/dalemusser/schoolhub/internal/app/system/auditlog"
	"github.com/dalemusser/schoolhub/internal/app/system/requestid"
	"github.com/dalemusser/schoolhub/internal/domain/models"
	"github.com/dalemusser/schoolhub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type recorder struct {
	events []audit.Event
	err    error
}

func (r *recorder) Log(_ context.Context, e audit.Event) error {
	if r.err != nil {
		return r.err
	}
	r.events = append(r.events, e)
	return nil
}

func sampleAnnouncement() models.Announcement {
	start := "2024-05-01"
	return models.Announcement{
		ID:        primitive.NewObjectID(),
		Title:     "Exam",
		Message:   "Midterm Friday",
		StartDate: &start,
		EndDate:   "2024-05-10",
	}
}

func TestLogger_NilLogger(t *testing.T) {
	var logger *auditlog.Logger
	ctx := context.Background()
	req := httptest.NewRequest("POST", "/announcements", nil)

	logger.Log(ctx, audit.Event{EventType: "test"})
	logger.AnnouncementCreated(ctx, req, "mrodriguez", sampleAnnouncement())
	logger.AnnouncementDeleted(ctx, req, "mrodriguez", sampleAnnouncement())
}

func TestLogger_Modes(t *testing.T) {
	tests := []struct {
		mode       string
		wantStored int
		wantLogged int
	}{
		{auditlog.ModeAll, 1, 1},
		{auditlog.ModeDB, 1, 0},
		{auditlog.ModeLog, 0, 1},
		{auditlog.ModeOff, 0, 0},
		{"", 1, 1},
	}
	for _, tt := range tests {
		t.Run("mode="+tt.mode, func(t *testing.T) {
			core, logs := observer.New(zapcore.InfoLevel)
			rec := &recorder{}
			logger := auditlog.New(rec, zap.New(core), auditlog.Config{Mode: tt.mode})

			req := httptest.NewRequest("PUT", "/announcements/x", nil)
			logger.AnnouncementUpdated(context.Background(), req, "mrodriguez", sampleAnnouncement())

			if len(rec.events) != tt.wantStored {
				t.Errorf("stored %d events, want %d", len(rec.events), tt.wantStored)
			}
			if got := logs.FilterMessage("audit event").Len(); got != tt.wantLogged {
				t.Errorf("logged %d events, want %d", got, tt.wantLogged)
			}
		})
	}
}

func TestLogger_AnnouncementEventFields(t *testing.T) {
	rec := &recorder{}
	logger := auditlog.New(rec, zap.NewNop(), auditlog.Config{Mode: auditlog.ModeDB})

	req := httptest.NewRequest("POST", "/announcements", nil)
	req.Header.Set("X-Forwarded-For", "10.0.0.5")
	req.Header.Set("User-Agent", "TestBrowser/1.0")
	req = req.WithContext(requestid.With(req.Context(), "req-42"))

	a := sampleAnnouncement()
	logger.AnnouncementCreated(req.Context(), req, "mrodriguez", a)

	if len(rec.events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(rec.events))
	}
	e := rec.events[0]
	if e.Category != audit.CategoryAdmin || e.EventType != audit.EventAnnouncementCreated {
		t.Errorf("classification: got %s/%s", e.Category, e.EventType)
	}
	if e.Actor != "mrodriguez" {
		t.Errorf("Actor: got %q", e.Actor)
	}
	if e.IP != "10.0.0.5" {
		t.Errorf("IP: got %q", e.IP)
	}
	if e.UserAgent != "TestBrowser/1.0" {
		t.Errorf("UserAgent: got %q", e.UserAgent)
	}
	if e.RequestID != "req-42" {
		t.Errorf("RequestID: got %q", e.RequestID)
	}
	if e.Details["announcement_id"] != a.ID.Hex() {
		t.Errorf("announcement_id: got %q", e.Details["announcement_id"])
	}
	if e.Details["window"] != "2024-05-01..2024-05-10" {
		t.Errorf("window: got %q", e.Details["window"])
	}
}

func TestLogger_StoreFailureIsLogged(t *testing.T) {
	core, logs := observer.New(zapcore.ErrorLevel)
	rec := &recorder{err: errors.New("disk full")}
	logger := auditlog.New(rec, zap.New(core), auditlog.Config{Mode: auditlog.ModeDB})

	req := httptest.NewRequest("DELETE", "/announcements/x", nil)
	logger.AnnouncementDeleted(context.Background(), req, "mrodriguez", sampleAnnouncement())

	if logs.FilterMessage("failed to store audit event").Len() != 1 {
		t.Error("expected store failure to be logged")
	}
}

func TestValidMode(t *testing.T) {
	for _, m := range []string{"all", "db", "log", "off"} {
		if !auditlog.ValidMode(m) {
			t.Errorf("ValidMode(%q) = false", m)
		}
	}
	if auditlog.ValidMode("verbose") {
		t.Error(`ValidMode("verbose") = true`)
	}
}

func TestLogger_WithMongoStore(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := audit.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	logger := auditlog.New(store, zap.NewNop(), auditlog.Config{Mode: auditlog.ModeAll})
	req := httptest.NewRequest("POST", "/announcements", nil)
	logger.AnnouncementCreated(ctx, req, "mchen", sampleAnnouncement())

	n, err := db.Collection("audit_events").CountDocuments(ctx, bson.M{"actor": "mchen"})
	if err != nil {
		t.Fatalf("CountDocuments failed: %v", err)
	}
	if n != 1 {
		t.Fatalf("expected 1 stored event, got %d", n)
	}
}
