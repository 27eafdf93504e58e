package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/postboard/posts-service/internal/config"
	"github.com/postboard/posts-service/internal/database"
	"github.com/postboard/posts-service/internal/models"
	"github.com/postboard/posts-service/internal/post"
	"github.com/postboard/posts-service/internal/post/repository"
	"github.com/postboard/posts-service/internal/users"
	"github.com/postboard/posts-service/pkg/logger"
	"github.com/spf13/cobra"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		count int
		email string
		name  string
	)
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Insert a demo author and demo posts into MongoDB",
		RunE: func(cmd *cobra.Command, args []string) error {
			if count < 1 {
				return errors.New("--count must be at least 1")
			}
			return run(cmd.Context(), cmd.OutOrStdout(), count, email, name)
		},
	}
	cmd.Flags().IntVarP(&count, "count", "n", 5, "number of posts to create")
	cmd.Flags().StringVar(&email, "author-email", "demo@example.com", "email of the demo author")
	cmd.Flags().StringVar(&name, "author-name", "", "display name of the demo author (defaults to the email local part)")
	return cmd
}

func run(ctx context.Context, out io.Writer, count int, email, name string) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}
	logger.Init(cfg.LogLevel)
	if cfg.Storage.Mode != config.StorageMongo {
		return fmt.Errorf("seed needs STORAGE_MODE=%s, got %q", config.StorageMongo, cfg.Storage.Mode)
	}

	client, err := database.ConnectMongoWithRetry(ctx, cfg.MongoDB.URI, cfg.MongoDB.Timeout, cfg.MongoDB.ConnectAttempts, time.Second)
	if err != nil {
		return err
	}
	defer func() { _ = client.Disconnect(context.Background()) }()
	db := client.Database(cfg.MongoDB.Database)

	author, err := ensureAuthor(ctx, users.NewService(users.NewMongoUserRepository(db.Collection("users"))), email, name, out)
	if err != nil {
		return err
	}
	logger.Infof("seeding %d posts for %s (%s)", count, author.Email, author.ID)

	_, err = seedPosts(ctx, repository.NewMongoRepo(ctx, db.Collection("posts")), author.ID, count, out)
	return err
}

// ensureAuthor upserts the demo author and reports whether it already existed.
func ensureAuthor(ctx context.Context, svc *users.Service, email, name string, out io.Writer) (*models.User, error) {
	existing, err := svc.GetByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("look up author: %w", err)
	}
	author, err := svc.Ensure(ctx, email, name)
	if err != nil {
		return nil, fmt.Errorf("ensure author: %w", err)
	}
	state := "created"
	if existing != nil {
		state = "existing"
	}
	fmt.Fprintf(out, "author %s (%s) %s\n", author.Email, author.ID, state)
	return author, nil
}

// seedPosts creates count posts by author and prints each new id to out.
func seedPosts(ctx context.Context, store repository.Repository, author string, count int, out io.Writer) ([]*post.Post, error) {
	created := make([]*post.Post, 0, count)
	for i := 1; i <= count; i++ {
		p, err := store.Create(ctx, &post.Post{
			Title:   fmt.Sprintf("Demo post #%d", i),
			Content: fmt.Sprintf("Seeded content for demo post %d.", i),
			Author:  author,
		})
		if err != nil {
			return created, fmt.Errorf("create post %d: %w", i, err)
		}
		fmt.Fprintln(out, p.ID.Hex())
		created = append(created, p)
	}
	return created, nil
}
