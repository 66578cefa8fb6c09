package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-postboard/internal/application"
	"github.com/oksasatya/go-postboard/internal/interface/middleware"
	"github.com/oksasatya/go-postboard/pkg/response"
	"github.com/oksasatya/go-postboard/pkg/validation"
)

type PostHandler struct {
	Svc    *application.PostService
	Logger *logrus.Logger
}

func NewPostHandler(svc *application.PostService, logger *logrus.Logger) *PostHandler {
	return &PostHandler{Svc: svc, Logger: logger}
}

// postID parses :id. Malformed ids look like absent posts.
func (h *PostHandler) postID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		writeError(c, h.Logger, application.ErrNotFound)
		return 0, false
	}
	return id, true
}

// Create POST /api/v1/posts
func (h *PostHandler) Create(c *gin.Context) {
	var req createPostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}

	p, err := h.Svc.Create(c.Request.Context(), c.GetInt64(middleware.CtxUserIDKey), application.PostInput{
		Title:       req.Title,
		Body:        req.Body,
		Description: req.Description,
	})
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusCreated, toPostResponse(p), "post created", nil)
}

// List GET /api/v1/posts?limit&offset
func (h *PostHandler) List(c *gin.Context) {
	var q listQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid query", validation.ToDetails(err))
		return
	}

	posts, err := h.Svc.List(c.Request.Context(), c.GetInt64(middleware.CtxUserIDKey), q.Limit, q.Offset)
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, toPostResponses(posts), "posts", map[string]any{
		"count":  len(posts),
		"offset": q.Offset,
	})
}

// Search GET /api/v1/posts/search?q&size
func (h *PostHandler) Search(c *gin.Context) {
	var q searchQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid query", validation.ToDetails(err))
		return
	}

	posts, err := h.Svc.Search(c.Request.Context(), c.GetInt64(middleware.CtxUserIDKey), q.Q, q.Size)
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, toPostResponses(posts), "search results", map[string]any{"count": len(posts)})
}

// Get GET /api/v1/posts/:id
func (h *PostHandler) Get(c *gin.Context) {
	id, ok := h.postID(c)
	if !ok {
		return
	}
	p, err := h.Svc.Get(c.Request.Context(), c.GetInt64(middleware.CtxUserIDKey), id)
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, toPostResponse(p), "post", nil)
}

// Update PUT /api/v1/posts/:id
func (h *PostHandler) Update(c *gin.Context) {
	id, ok := h.postID(c)
	if !ok {
		return
	}
	var req updatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}

	p, err := h.Svc.Update(c.Request.Context(), c.GetInt64(middleware.CtxUserIDKey), id, application.PostPatch{
		Title:       req.Title,
		Body:        req.Body,
		Description: req.Description,
	})
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, toPostResponse(p), "post updated", nil)
}

// Delete DELETE /api/v1/posts/:id
func (h *PostHandler) Delete(c *gin.Context) {
	id, ok := h.postID(c)
	if !ok {
		return
	}
	if err := h.Svc.Delete(c.Request.Context(), c.GetInt64(middleware.CtxUserIDKey), id); err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success[any](c, http.StatusOK, map[string]any{"deleted": true}, "post deleted", nil)
}
