// internal/domain/models/teacher.go
package models

// Teacher roles.
const (
	RoleTeacher = "teacher"
	RoleAdmin   = "admin"
)

// Teacher is a staff account permitted to manage announcements.
// The username is the document _id.
type Teacher struct {
	Username    string `bson:"_id" json:"username"`
	DisplayName string `bson:"display_name" json:"display_name"`
	Role        string `bson:"role,omitempty" json:"role,omitempty"`
}
