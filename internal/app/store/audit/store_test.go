package audit_test

import (
	"testing"
	"time"

	"github.com/dalemusser/schoolhub/internal/app/store/audit"
	"github.com/dalemusser/schoolhub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
)

func TestStore_Log(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := audit.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	event := audit.Event{
		Category:  audit.CategoryAdmin,
		EventType: audit.EventAnnouncementCreated,
		Actor:     "mrodriguez",
		IP:        "192.168.1.1",
		UserAgent: "TestBrowser/1.0",
		RequestID: "req-1",
		Success:   true,
		Details:   map[string]string{"title": "Exam"},
	}

	if err := store.Log(ctx, event); err != nil {
		t.Fatalf("Log failed: %v", err)
	}

	var got audit.Event
	if err := db.Collection("audit_events").FindOne(ctx, bson.M{"actor": "mrodriguez"}).Decode(&got); err != nil {
		t.Fatalf("FindOne failed: %v", err)
	}
	if got.EventType != audit.EventAnnouncementCreated {
		t.Errorf("EventType: got %q", got.EventType)
	}
	if got.Category != audit.CategoryAdmin {
		t.Errorf("Category: got %q", got.Category)
	}
	if got.RequestID != "req-1" {
		t.Errorf("RequestID: got %q", got.RequestID)
	}
	if !got.Success {
		t.Error("Success: got false")
	}
	if got.Details["title"] != "Exam" {
		t.Errorf("Details: got %v", got.Details)
	}
}

func TestStore_Log_AutoGeneratesIDAndTimestamp(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := audit.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	before := time.Now().Add(-time.Second)
	if err := store.Log(ctx, audit.Event{
		Category:  audit.CategoryAdmin,
		EventType: audit.EventAnnouncementDeleted,
		Success:   true,
	}); err != nil {
		t.Fatalf("Log failed: %v", err)
	}
	after := time.Now().Add(time.Second)

	var got audit.Event
	if err := db.Collection("audit_events").FindOne(ctx, bson.M{"event_type": audit.EventAnnouncementDeleted}).Decode(&got); err != nil {
		t.Fatalf("FindOne failed: %v", err)
	}
	if got.ID.IsZero() {
		t.Error("expected ID to be auto-generated")
	}
	if got.Timestamp.Before(before) || got.Timestamp.After(after) {
		t.Errorf("Timestamp %v not within [%v, %v]", got.Timestamp, before, after)
	}
}

func TestStore_Log_KeepsGivenTimestamp(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := audit.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	at := time.Date(2024, 5, 1, 8, 30, 0, 0, time.UTC)
	if err := store.Log(ctx, audit.Event{Actor: "a", Timestamp: at}); err != nil {
		t.Fatalf("Log failed: %v", err)
	}

	var got audit.Event
	if err := db.Collection("audit_events").FindOne(ctx, bson.M{"actor": "a"}).Decode(&got); err != nil {
		t.Fatalf("FindOne failed: %v", err)
	}
	if !got.Timestamp.Equal(at) {
		t.Errorf("Timestamp: got %v, want %v", got.Timestamp, at)
	}
}
