package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/varun4522/calm-campus-backend/internal/auth"
	"github.com/varun4522/calm-campus-backend/internal/feed"
	"github.com/varun4522/calm-campus-backend/internal/pkg/response"
	"github.com/varun4522/calm-campus-backend/internal/user"
)

type Handler struct {
	service     feed.Service
	userService user.Service
}

func NewHandler(service feed.Service, userService user.Service) *Handler {
	return &Handler{service: service, userService: userService}
}

func mapFeedError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, feed.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "post not found"})
	case errors.Is(err, feed.ErrTitleRequired), errors.Is(err, feed.ErrBodyRequired):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, feed.ErrPermissionDenied):
		c.JSON(http.StatusForbidden, gin.H{"error": "permission denied"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}

func (h *Handler) Create(c *gin.Context) {
	var body CreatePostBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	userID := auth.GetUserID(c)
	u, err := h.userService.GetByID(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}

	authorName := u.Email
	if u.DisplayName != nil && *u.DisplayName != "" {
		authorName = *u.DisplayName
	}

	req := feed.CreateRequest{
		AuthorID:   u.ID,
		AuthorName: authorName,
		AuthorRole: string(u.Role),
		Title:      body.Title,
		Body:       body.Body,
	}

	p, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		mapFeedError(c, err)
		return
	}

	c.JSON(http.StatusCreated, NewPostResponse(p))
}

func (h *Handler) List(c *gin.Context) {
	var req ListPostsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid query parameters"})
		return
	}

	filter := feed.Filter{
		AuthorID: req.AuthorID,
		Keyword:  req.Keyword,
		Page:     req.Page,
		PageSize: req.PageSize,
	}

	posts, total, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		mapFeedError(c, err)
		return
	}

	items := make([]PostResponse, len(posts))
	for i, p := range posts {
		items[i] = NewPostResponse(p)
	}

	c.JSON(http.StatusOK, response.NewPageResponse(items, req.Page, req.PageSize, total))
}

func (h *Handler) Get(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid UUID"})
		return
	}

	p, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		mapFeedError(c, err)
		return
	}

	c.JSON(http.StatusOK, NewPostResponse(p))
}

func (h *Handler) Update(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid UUID"})
		return
	}

	var body UpdatePostBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	isAdmin := auth.GetUserRole(c) == string(user.RoleAdmin)
	req := feed.UpdateRequest{Title: body.Title, Body: body.Body}

	p, err := h.service.Update(c.Request.Context(), id, req, auth.GetUserID(c), isAdmin)
	if err != nil {
		mapFeedError(c, err)
		return
	}

	c.JSON(http.StatusOK, NewPostResponse(p))
}

func (h *Handler) Delete(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid UUID"})
		return
	}

	isAdmin := auth.GetUserRole(c) == string(user.RoleAdmin)
	if err := h.service.Delete(c.Request.Context(), id, auth.GetUserID(c), isAdmin); err != nil {
		mapFeedError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
