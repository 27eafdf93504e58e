package post

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Post is the persistent post model. ID and Likes are owned by the store:
// ID is assigned on create and Likes only ever moves through an atomic increment.
type Post struct {
	ID      primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Title   string             `json:"title" bson:"title"`
	Content string             `json:"content" bson:"content"`
	Date    time.Time          `json:"date" bson:"date"`
	Author  string             `json:"author" bson:"author"`
	Likes   int64              `json:"likes" bson:"likes"`
}

// Update holds the fields a client may change on an existing post.
// Nil fields are left untouched.
type Update struct {
	Title   *string    `json:"title,omitempty"`
	Content *string    `json:"content,omitempty"`
	Author  *string    `json:"author,omitempty"`
	Date    *time.Time `json:"date,omitempty"`
}

// Empty reports whether the update carries no fields.
func (u *Update) Empty() bool {
	return u == nil || (u.Title == nil && u.Content == nil && u.Author == nil && u.Date == nil)
}
