package repository

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/postboard/posts-service/internal/post"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestMemoryRepoCRUD(t *testing.T) {
	ctx := context.Background()
	r := NewMemoryRepo()

	created, err := r.Create(ctx, &post.Post{Title: "T", Content: "C", Author: "u1", Likes: 42})
	require.NoError(t, err)
	require.False(t, created.ID.IsZero())
	require.False(t, created.Date.IsZero())
	require.Equal(t, int64(0), created.Likes)
	id := created.ID.Hex()

	got, err := r.Find(ctx, id)
	require.NoError(t, err)
	require.Equal(t, created, got)

	title := "new title"
	updated, err := r.Update(ctx, id, &post.Update{Title: &title})
	require.NoError(t, err)
	require.Equal(t, "new title", updated.Title)
	require.Equal(t, "C", updated.Content)

	list, err := r.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)

	res, err := r.Delete(ctx, id)
	require.NoError(t, err)
	require.Equal(t, int64(1), res.DeletedCount)

	got, err = r.Find(ctx, id)
	require.NoError(t, err)
	require.Nil(t, got)
}

func TestMemoryRepoAbsentIsNotAnError(t *testing.T) {
	ctx := context.Background()
	r := NewMemoryRepo()
	missing := primitive.NewObjectID().Hex()

	p, err := r.Find(ctx, missing)
	require.NoError(t, err)
	require.Nil(t, p)

	title := "x"
	p, err = r.Update(ctx, missing, &post.Update{Title: &title})
	require.NoError(t, err)
	require.Nil(t, p)

	p, err = r.Like(ctx, missing)
	require.NoError(t, err)
	require.Nil(t, p)

	res, err := r.Delete(ctx, missing)
	require.NoError(t, err)
	require.NotNil(t, res)
	require.Equal(t, int64(0), res.DeletedCount)

	list, err := r.List(ctx)
	require.NoError(t, err)
	require.NotNil(t, list)
	require.Empty(t, list)
}

func TestMemoryRepoValidation(t *testing.T) {
	ctx := context.Background()
	r := NewMemoryRepo()

	_, err := r.Create(ctx, &post.Post{Content: "C", Author: "u1"})
	require.ErrorIs(t, err, ErrMissingField)
	_, err = r.Create(ctx, &post.Post{Title: "T", Author: "u1"})
	require.ErrorIs(t, err, ErrMissingField)
	_, err = r.Create(ctx, &post.Post{Title: "T", Content: "C"})
	require.ErrorIs(t, err, ErrMissingField)

	created, err := r.Create(ctx, &post.Post{Title: "T", Content: "C", Author: "u1"})
	require.NoError(t, err)
	empty := ""
	_, err = r.Update(ctx, created.ID.Hex(), &post.Update{Content: &empty})
	require.ErrorIs(t, err, ErrMissingField)

	_, err = r.Find(ctx, "not-an-object-id")
	require.ErrorIs(t, err, ErrInvalidID)
	_, err = r.Like(ctx, "not-an-object-id")
	require.ErrorIs(t, err, ErrInvalidID)
	_, err = r.Delete(ctx, "not-an-object-id")
	require.ErrorIs(t, err, ErrInvalidID)
}

func TestMemoryRepoKeepsSuppliedDate(t *testing.T) {
	ctx := context.Background()
	r := NewMemoryRepo()
	when := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	created, err := r.Create(ctx, &post.Post{Title: "T", Content: "C", Author: "u1", Date: when})
	require.NoError(t, err)
	require.True(t, when.Equal(created.Date))
}

func TestMemoryRepoStoresMillisecondDates(t *testing.T) {
	ctx := context.Background()
	r := NewMemoryRepo()
	when := time.Date(2024, 3, 1, 12, 0, 0, 123456789, time.UTC)

	created, err := r.Create(ctx, &post.Post{Title: "T", Content: "C", Author: "u1", Date: when})
	require.NoError(t, err)
	require.Equal(t, 123000000, created.Date.Nanosecond())

	later := when.Add(time.Hour)
	updated, err := r.Update(ctx, created.ID.Hex(), &post.Update{Date: &later})
	require.NoError(t, err)
	require.Equal(t, 123000000, updated.Date.Nanosecond())
	require.True(t, later.Truncate(time.Millisecond).Equal(updated.Date))
}

func TestMemoryRepoListOrder(t *testing.T) {
	ctx := context.Background()
	r := NewMemoryRepo()
	var ids []primitive.ObjectID
	for _, title := range []string{"a", "b", "c"} {
		p, err := r.Create(ctx, &post.Post{Title: title, Content: "C", Author: "u1"})
		require.NoError(t, err)
		ids = append(ids, p.ID)
	}
	list, err := r.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 3)
	for i, p := range list {
		require.Equal(t, ids[i], p.ID)
	}
}

func TestMemoryRepoReturnsCopies(t *testing.T) {
	ctx := context.Background()
	r := NewMemoryRepo()
	created, err := r.Create(ctx, &post.Post{Title: "T", Content: "C", Author: "u1"})
	require.NoError(t, err)

	created.Title = "mutated"
	created.Likes = 100

	got, err := r.Find(ctx, created.ID.Hex())
	require.NoError(t, err)
	require.Equal(t, "T", got.Title)
	require.Equal(t, int64(0), got.Likes)
}

func TestMemoryRepoConcurrentLikes(t *testing.T) {
	ctx := context.Background()
	r := NewMemoryRepo()
	created, err := r.Create(ctx, &post.Post{Title: "T", Content: "C", Author: "u1"})
	require.NoError(t, err)

	const n = 100
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func() {
			defer wg.Done()
			_, err := r.Like(ctx, created.ID.Hex())
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	got, err := r.Find(ctx, created.ID.Hex())
	require.NoError(t, err)
	require.Equal(t, int64(n), got.Likes)
}
