// internal/domain/models/announcement.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Announcement limits. Lengths are counted in characters (runes), after trimming.
const (
	AnnouncementTitleMax   = 80
	AnnouncementMessageMax = 280
)

// Announcement is a dated banner message shown to students.
//
// StartDate and EndDate hold calendar dates in YYYY-MM-DD form so that
// lexical comparison in queries matches date order. A nil StartDate means
// the announcement is visible from creation until EndDate.
type Announcement struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title     string             `bson:"title" json:"title"`
	Message   string             `bson:"message" json:"message"`
	StartDate *string            `bson:"start_date" json:"start_date"`
	EndDate   string             `bson:"end_date" json:"end_date"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
