package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/postboard/posts-service/internal/post"
	"github.com/postboard/posts-service/pkg/logger"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoRepo implements Repository on a MongoDB collection. Posts are keyed
// by ObjectID in _id; every method is a single round-trip.
type MongoRepo struct {
	col *mongo.Collection
}

// NewMongoRepo wraps col. The author index is best effort: a failure is
// logged and the repo is still usable.
func NewMongoRepo(ctx context.Context, col *mongo.Collection) *MongoRepo {
	idxModel := mongo.IndexModel{Keys: bson.D{{Key: "author", Value: 1}}}
	if _, err := col.Indexes().CreateOne(ctx, idxModel); err != nil {
		logger.Warnf("posts: ensure author index: %v", err)
	} else {
		logger.Debugf("posts: author index ready on %s", col.Name())
	}
	return &MongoRepo{col: col}
}

func (m *MongoRepo) Create(ctx context.Context, p *post.Post) (*post.Post, error) {
	if err := validateNew(p); err != nil {
		return nil, err
	}
	rec := *p
	rec.ID = primitive.NewObjectID()
	rec.Likes = 0
	if rec.Date.IsZero() {
		rec.Date = now()
	} else {
		rec.Date = bsonTime(rec.Date)
	}
	if _, err := m.col.InsertOne(ctx, &rec); err != nil {
		return nil, fmt.Errorf("insert post: %w", err)
	}
	return &rec, nil
}

func (m *MongoRepo) Update(ctx context.Context, id string, u *post.Update) (*post.Post, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}
	if err := validateUpdate(u); err != nil {
		return nil, err
	}
	if u.Empty() {
		return m.findOne(ctx, oid)
	}
	set := bson.M{}
	if u.Title != nil {
		set["title"] = *u.Title
	}
	if u.Content != nil {
		set["content"] = *u.Content
	}
	if u.Author != nil {
		set["author"] = *u.Author
	}
	if u.Date != nil {
		set["date"] = bsonTime(*u.Date)
	}
	return m.findOneAndUpdate(ctx, oid, bson.M{"$set": set})
}

func (m *MongoRepo) Find(ctx context.Context, id string) (*post.Post, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}
	return m.findOne(ctx, oid)
}

func (m *MongoRepo) List(ctx context.Context) ([]*post.Post, error) {
	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: 1}})
	cur, err := m.col.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("find posts: %w", err)
	}
	defer cur.Close(ctx)
	out := []*post.Post{}
	for cur.Next(ctx) {
		var p post.Post
		if err := cur.Decode(&p); err != nil {
			return nil, fmt.Errorf("decode post: %w", err)
		}
		out = append(out, &p)
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("iterate posts: %w", err)
	}
	return out, nil
}

func (m *MongoRepo) Delete(ctx context.Context, id string) (*DeleteResult, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}
	res, err := m.col.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return nil, fmt.Errorf("delete post: %w", err)
	}
	return &DeleteResult{DeletedCount: res.DeletedCount}, nil
}

// Like relies on $inc so concurrent likes never lose an increment.
func (m *MongoRepo) Like(ctx context.Context, id string) (*post.Post, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}
	return m.findOneAndUpdate(ctx, oid, bson.M{"$inc": bson.M{"likes": 1}})
}

func (m *MongoRepo) findOne(ctx context.Context, oid primitive.ObjectID) (*post.Post, error) {
	var p post.Post
	if err := m.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&p); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("find post: %w", err)
	}
	return &p, nil
}

func (m *MongoRepo) findOneAndUpdate(ctx context.Context, oid primitive.ObjectID, update bson.M) (*post.Post, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var p post.Post
	if err := m.col.FindOneAndUpdate(ctx, bson.M{"_id": oid}, update, opts).Decode(&p); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("update post: %w", err)
	}
	return &p, nil
}
