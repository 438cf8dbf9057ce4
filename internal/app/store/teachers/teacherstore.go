// internal/app/store/teachers/teacherstore.go
package teacherstore

import (
	"context"
	"errors"
	"strings"

	"github.com/dalemusser/schoolhub/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

var (
	// ErrDuplicateUsername is returned when creating a teacher whose username is taken.
	ErrDuplicateUsername = errors.New("a teacher with this username already exists")
	errUsernameRequired  = errors.New("username is required")
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("teachers")}
}

// GetByUsername looks up a teacher by username (the document _id).
// Returns mongo.ErrNoDocuments if not found.
func (s *Store) GetByUsername(ctx context.Context, username string) (models.Teacher, error) {
	var t models.Teacher
	if err := s.c.FindOne(ctx, bson.M{"_id": username}).Decode(&t); err != nil {
		return models.Teacher{}, err
	}
	return t, nil
}

// Create inserts a new teacher.
func (s *Store) Create(ctx context.Context, t models.Teacher) (models.Teacher, error) {
	t.Username = strings.TrimSpace(t.Username)
	if t.Username == "" {
		return models.Teacher{}, errUsernameRequired
	}
	t.DisplayName = strings.TrimSpace(t.DisplayName)
	if t.Role == "" {
		t.Role = models.RoleTeacher
	}
	if _, err := s.c.InsertOne(ctx, t); err != nil {
		if wafflemongo.IsDup(err) {
			return models.Teacher{}, ErrDuplicateUsername
		}
		return models.Teacher{}, err
	}
	return t, nil
}
