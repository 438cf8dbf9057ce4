package announcements_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/dalemusser/schoolhub/internal/app/features/announcements"
	"github.com/dalemusser/schoolhub/internal/app/system/docquery"
	"github.com/dalemusser/schoolhub/internal/domain/models"
	"github.com/juju/clock/testclock"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

var errStoreDown = errors.New("connection refused")

// memAnnouncements keeps announcements in memory and evaluates filters and
// sorts the way the server would.
type memAnnouncements struct {
	mu    sync.Mutex
	items []models.Announcement

	findErr, getErr, insertErr, updateErr, deleteErr error
}

func (m *memAnnouncements) Find(_ context.Context, filter docquery.Filter, sort docquery.Sort) ([]models.Announcement, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.findErr != nil {
		return nil, m.findErr
	}

	docs := make([]docquery.Fields, 0, len(m.items))
	byID := make(map[primitive.ObjectID]models.Announcement, len(m.items))
	for _, a := range m.items {
		f, err := docquery.FieldsOf(a)
		if err != nil {
			return nil, err
		}
		if filter.Match(f) {
			docs = append(docs, f)
			byID[a.ID] = a
		}
	}
	sort.Apply(docs)

	out := make([]models.Announcement, 0, len(docs))
	for _, d := range docs {
		out = append(out, byID[d["_id"].(primitive.ObjectID)])
	}
	return out, nil
}

func (m *memAnnouncements) GetByID(_ context.Context, id primitive.ObjectID) (models.Announcement, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return models.Announcement{}, m.getErr
	}
	for _, a := range m.items {
		if a.ID == id {
			return a, nil
		}
	}
	return models.Announcement{}, mongo.ErrNoDocuments
}

func (m *memAnnouncements) Insert(_ context.Context, a models.Announcement) (models.Announcement, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.insertErr != nil {
		return models.Announcement{}, m.insertErr
	}
	if a.ID.IsZero() {
		a.ID = primitive.NewObjectID()
	}
	m.items = append(m.items, a)
	return a, nil
}

func (m *memAnnouncements) Update(_ context.Context, id primitive.ObjectID, a models.Announcement) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.updateErr != nil {
		return 0, m.updateErr
	}
	for i, cur := range m.items {
		if cur.ID == id {
			cur.Title = a.Title
			cur.Message = a.Message
			cur.StartDate = a.StartDate
			cur.EndDate = a.EndDate
			cur.UpdatedAt = a.UpdatedAt
			m.items[i] = cur
			return 1, nil
		}
	}
	return 0, nil
}

func (m *memAnnouncements) Delete(_ context.Context, id primitive.ObjectID) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.deleteErr != nil {
		return 0, m.deleteErr
	}
	for i, cur := range m.items {
		if cur.ID == id {
			m.items = append(m.items[:i], m.items[i+1:]...)
			return 1, nil
		}
	}
	return 0, nil
}

func (m *memAnnouncements) seed(title string, start *string, end string, created time.Time) models.Announcement {
	a := models.Announcement{
		ID:        primitive.NewObjectID(),
		Title:     title,
		Message:   title + " message",
		StartDate: start,
		EndDate:   end,
		CreatedAt: created,
		UpdatedAt: created,
	}
	m.items = append(m.items, a)
	return a
}

type memTeachers struct {
	teachers map[string]models.Teacher
	err      error
}

func (m *memTeachers) GetByUsername(_ context.Context, username string) (models.Teacher, error) {
	if m.err != nil {
		return models.Teacher{}, m.err
	}
	t, ok := m.teachers[username]
	if !ok {
		return models.Teacher{}, mongo.ErrNoDocuments
	}
	return t, nil
}

func strPtr(s string) *string { return &s }

// testEnv bundles a service with its in-memory stores and a pinned clock.
type testEnv struct {
	svc      *announcements.Service
	store    *memAnnouncements
	teachers *memTeachers
	clock    *testclock.Clock
}

// newTestEnv pins "now" to noon UTC on 2024-05-10 with teacher t1 registered.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	store := &memAnnouncements{}
	teachers := &memTeachers{teachers: map[string]models.Teacher{
		"t1": {Username: "t1", DisplayName: "Teacher One", Role: "teacher"},
	}}
	clk := testclock.NewClock(time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC))
	svc := announcements.NewService(store, teachers, clk, time.UTC, zap.NewNop())
	return &testEnv{svc: svc, store: store, teachers: teachers, clock: clk}
}
