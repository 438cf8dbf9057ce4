// internal/app/store/announcements/announcementstore.go
package announcementstore

import (
	"context"

	"github.com/dalemusser/schoolhub/internal/app/system/docquery"
	"github.com/dalemusser/schoolhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Store provides access to the announcements collection.
type Store struct {
	c *mongo.Collection
}

// New creates a new announcements store.
func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("announcements")}
}

// Find returns the announcements matching filter, ordered by sort.
// It never returns a nil slice on success.
func (s *Store) Find(ctx context.Context, filter docquery.Filter, sort docquery.Sort) ([]models.Announcement, error) {
	opts := options.Find()
	if len(sort) > 0 {
		opts.SetSort(sort.BSON())
	}
	cur, err := s.c.Find(ctx, filter.BSON(), opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := make([]models.Announcement, 0)
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetByID loads one announcement. Returns mongo.ErrNoDocuments if not found.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Announcement, error) {
	var a models.Announcement
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&a); err != nil {
		return models.Announcement{}, err
	}
	return a, nil
}

// Insert stores a. A zero ID is replaced with a new ObjectID; the stored
// record is returned.
func (s *Store) Insert(ctx context.Context, a models.Announcement) (models.Announcement, error) {
	if a.ID.IsZero() {
		a.ID = primitive.NewObjectID()
	}
	if _, err := s.c.InsertOne(ctx, a); err != nil {
		return models.Announcement{}, err
	}
	return a, nil
}

// Update replaces the content fields of the announcement with the given id
// (title, message, start_date, end_date, updated_at). created_at is left
// alone. Returns the number of matched documents (0 or 1).
func (s *Store) Update(ctx context.Context, id primitive.ObjectID, a models.Announcement) (int64, error) {
	set := bson.M{
		"title":      a.Title,
		"message":    a.Message,
		"start_date": a.StartDate,
		"end_date":   a.EndDate,
		"updated_at": a.UpdatedAt,
	}
	res, err := s.c.UpdateByID(ctx, id, bson.M{"$set": set})
	if err != nil {
		return 0, err
	}
	return res.MatchedCount, nil
}

// Delete removes an announcement by ID. Returns the number of documents deleted (0 or 1).
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
