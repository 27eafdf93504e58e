package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/postboard/posts-service/internal/post"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	ErrInvalidID    = errors.New("invalid post id")
	ErrMissingField = errors.New("missing required field")
)

// Repository is the post store. Lookups and mutations that match nothing
// return a nil post and a nil error; errors are reserved for store failures.
type Repository interface {
	Create(ctx context.Context, p *post.Post) (*post.Post, error)
	Update(ctx context.Context, id string, u *post.Update) (*post.Post, error)
	Find(ctx context.Context, id string) (*post.Post, error)
	List(ctx context.Context) ([]*post.Post, error)
	Delete(ctx context.Context, id string) (*DeleteResult, error)
	Like(ctx context.Context, id string) (*post.Post, error)
}

// DeleteResult reports how many posts a delete removed (0 or 1).
type DeleteResult struct {
	DeletedCount int64 `json:"deletedCount"`
}

func parseID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("%w: %q", ErrInvalidID, id)
	}
	return oid, nil
}

func validateNew(p *post.Post) error {
	switch {
	case p == nil:
		return fmt.Errorf("%w: post", ErrMissingField)
	case p.Title == "":
		return fmt.Errorf("%w: title", ErrMissingField)
	case p.Content == "":
		return fmt.Errorf("%w: content", ErrMissingField)
	case p.Author == "":
		return fmt.Errorf("%w: author", ErrMissingField)
	}
	return nil
}

func validateUpdate(u *post.Update) error {
	if u == nil {
		return nil
	}
	if u.Title != nil && *u.Title == "" {
		return fmt.Errorf("%w: title", ErrMissingField)
	}
	if u.Content != nil && *u.Content == "" {
		return fmt.Errorf("%w: content", ErrMissingField)
	}
	if u.Author != nil && *u.Author == "" {
		return fmt.Errorf("%w: author", ErrMissingField)
	}
	return nil
}
