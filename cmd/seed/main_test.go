package main

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/postboard/posts-service/internal/models"
	"github.com/postboard/posts-service/internal/post/repository"
	"github.com/postboard/posts-service/internal/users"
	"github.com/stretchr/testify/require"
)

type memUsers struct {
	byEmail map[string]*models.User
}

func (m *memUsers) UpsertByEmail(ctx context.Context, u *models.User) (*models.User, error) {
	if got, ok := m.byEmail[u.Email]; ok {
		got.Name = u.Name
		return got, nil
	}
	rec := *u
	rec.ID = "user-" + u.Email
	m.byEmail[u.Email] = &rec
	return &rec, nil
}

func (m *memUsers) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return m.byEmail[email], nil
}

func TestEnsureAuthorReportsState(t *testing.T) {
	ctx := context.Background()
	svc := users.NewService(&memUsers{byEmail: map[string]*models.User{}})
	var out bytes.Buffer

	first, err := ensureAuthor(ctx, svc, "Demo@Example.com", "", &out)
	require.NoError(t, err)
	require.Equal(t, "demo@example.com", first.Email)
	require.Equal(t, "demo", first.Name)
	require.Equal(t, "author demo@example.com (user-demo@example.com) created\n", out.String())

	out.Reset()
	second, err := ensureAuthor(ctx, svc, "demo@example.com", "Demo", &out)
	require.NoError(t, err)
	require.Equal(t, first.ID, second.ID)
	require.Equal(t, "author demo@example.com (user-demo@example.com) existing\n", out.String())
}

func TestEnsureAuthorRequiresEmail(t *testing.T) {
	_, err := ensureAuthor(context.Background(), users.NewService(&memUsers{byEmail: map[string]*models.User{}}), " ", "", io.Discard)
	require.ErrorIs(t, err, users.ErrEmailRequired)
}

func TestSeedPosts(t *testing.T) {
	ctx := context.Background()
	store := repository.NewMemoryRepo()
	var out bytes.Buffer

	created, err := seedPosts(ctx, store, "author-1", 3, &out)
	require.NoError(t, err)
	require.Len(t, created, 3)

	lines := strings.Fields(out.String())
	require.Len(t, lines, 3)
	for i, p := range created {
		require.Equal(t, p.ID.Hex(), lines[i])
		require.Equal(t, "author-1", p.Author)
		require.Equal(t, int64(0), p.Likes)
	}

	list, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 3)
}

func TestSeedPostsStopsOnStoreError(t *testing.T) {
	// an empty author is rejected by the store
	created, err := seedPosts(context.Background(), repository.NewMemoryRepo(), "", 2, io.Discard)
	require.ErrorIs(t, err, repository.ErrMissingField)
	require.Empty(t, created)
}

func TestRootCmdRejectsBadCount(t *testing.T) {
	cmd := newRootCmd()
	cmd.SetArgs([]string{"--count", "0"})
	cmd.SetOut(io.Discard)
	cmd.SetErr(io.Discard)
	require.Error(t, cmd.Execute())
}
