package handler

import (
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/postboard/posts-service/internal/post"
	"github.com/postboard/posts-service/internal/post/repository"
	"github.com/postboard/posts-service/pkg/logger"
	"github.com/postboard/posts-service/pkg/metrics"
)

const (
	MessageDeleted = "Post deleted successfully"
	MessageLiked   = "Post liked successfully"
)

// Handler maps post store outcomes onto HTTP responses: store errors become
// 500, absent results 404, everything else 200 with a JSON body.
type Handler struct {
	store repository.Repository
}

func NewHandler(store repository.Repository) *Handler {
	return &Handler{store: store}
}

// RegisterPostRoutes mounts the post API on r.
func RegisterPostRoutes(r gin.IRouter, h *Handler) {
	r.POST("/posts", h.Create)
	r.GET("/posts", h.List)
	r.GET("/posts/:id", h.Find)
	r.PUT("/posts/:id", h.Update)
	r.DELETE("/posts/:id", h.Delete)
	r.POST("/posts/:id/like", h.Like)
}

type createPostRequest struct {
	Title   string     `json:"title"`
	Content string     `json:"content"`
	Author  string     `json:"author"`
	Date    *time.Time `json:"date,omitempty"`
}

type likeResponse struct {
	Message string `json:"message"`
	Likes   int64  `json:"likes"`
}

func (h *Handler) Create(c *gin.Context) {
	var req createPostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, "create", err)
		return
	}
	p := &post.Post{Title: req.Title, Content: req.Content, Author: req.Author}
	if req.Date != nil {
		p.Date = req.Date.UTC()
	}
	created, err := h.store.Create(c.Request.Context(), p)
	if err != nil {
		fail(c, "create", err)
		return
	}
	ok(c, "create", created)
}

func (h *Handler) Update(c *gin.Context) {
	id := c.Param("id")
	var req post.Update
	// a missing body is an empty update
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		fail(c, "update", err)
		return
	}
	updated, err := h.store.Update(c.Request.Context(), id, &req)
	if err != nil {
		fail(c, "update", err)
		return
	}
	if updated == nil {
		notFound(c, "update")
		return
	}
	ok(c, "update", updated)
}

func (h *Handler) Find(c *gin.Context) {
	p, err := h.store.Find(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, "find", err)
		return
	}
	if p == nil {
		notFound(c, "find")
		return
	}
	ok(c, "find", p)
}

// List answers 200 with an array even when the collection is empty.
func (h *Handler) List(c *gin.Context) {
	list, err := h.store.List(c.Request.Context())
	if err != nil {
		fail(c, "list", err)
		return
	}
	if list == nil {
		list = []*post.Post{}
	}
	ok(c, "list", list)
}

// Delete answers 404 when the store removed nothing.
func (h *Handler) Delete(c *gin.Context) {
	res, err := h.store.Delete(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, "delete", err)
		return
	}
	if res == nil || res.DeletedCount == 0 {
		notFound(c, "delete")
		return
	}
	ok(c, "delete", gin.H{"message": MessageDeleted})
}

func (h *Handler) Like(c *gin.Context) {
	p, err := h.store.Like(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, "like", err)
		return
	}
	if p == nil {
		notFound(c, "like")
		return
	}
	ok(c, "like", likeResponse{Message: MessageLiked, Likes: p.Likes})
}

func ok(c *gin.Context, op string, body interface{}) {
	metrics.PostOperations.WithLabelValues(op, metrics.OutcomeOK).Inc()
	c.JSON(http.StatusOK, body)
}

func notFound(c *gin.Context, op string) {
	metrics.PostOperations.WithLabelValues(op, metrics.OutcomeNotFound).Inc()
	c.Status(http.StatusNotFound)
}

func fail(c *gin.Context, op string, err error) {
	logger.Errorf("posts %s %s: %v", op, c.Param("id"), err)
	metrics.PostOperations.WithLabelValues(op, metrics.OutcomeError).Inc()
	c.Status(http.StatusInternalServerError)
}
