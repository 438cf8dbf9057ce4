package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/dalemusser/schoolhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Fixtures provides helper methods for creating test data.
type Fixtures struct {
	db *mongo.Database
	t  *testing.T
}

// NewFixtures creates a new Fixtures instance for the given test database.
func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

// DB returns the underlying database for direct access in tests.
func (f *Fixtures) DB() *mongo.Database {
	return f.db
}

// CreateTeacher inserts a teacher with the given username.
func (f *Fixtures) CreateTeacher(ctx context.Context, username, displayName string) models.Teacher {
	f.t.Helper()

	teacher := models.Teacher{
		Username:    username,
		DisplayName: displayName,
		Role:        models.RoleTeacher,
	}
	if _, err := f.db.Collection("teachers").InsertOne(ctx, teacher); err != nil {
		f.t.Fatalf("failed to create test teacher: %v", err)
	}
	return teacher
}

// CreateAnnouncement inserts an announcement with the given window.
// An empty start leaves start_date null.
func (f *Fixtures) CreateAnnouncement(ctx context.Context, title, start, end string) models.Announcement {
	f.t.Helper()

	now := time.Now().UTC().Truncate(time.Millisecond)
	ann := models.Announcement{
		ID:        primitive.NewObjectID(),
		Title:     title,
		Message:   title + " message",
		EndDate:   end,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if start != "" {
		ann.StartDate = &start
	}
	if _, err := f.db.Collection("announcements").InsertOne(ctx, ann); err != nil {
		f.t.Fatalf("failed to create test announcement: %v", err)
	}
	return ann
}
