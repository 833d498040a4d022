package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/varun4522/calm-campus-backend/internal/auth"
	"github.com/varun4522/calm-campus-backend/internal/emergency"
	"github.com/varun4522/calm-campus-backend/internal/pkg/response"
	"github.com/varun4522/calm-campus-backend/internal/user"
)

type Handler struct {
	service emergency.Service
}

func NewHandler(service emergency.Service) *Handler {
	return &Handler{service: service}
}

func mapEmergencyError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, emergency.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "location share not found"})
	case errors.Is(err, emergency.ErrInvalidLatitude), errors.Is(err, emergency.ErrInvalidLongitude):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, emergency.ErrPermissionDenied):
		c.JSON(http.StatusForbidden, gin.H{"error": "permission denied"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}

func (h *Handler) Share(c *gin.Context) {
	var body ShareLocationBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	ls, err := h.service.Share(c.Request.Context(), emergency.ShareRequest{
		UserID:    auth.GetUserID(c),
		Latitude:  *body.Latitude,
		Longitude: *body.Longitude,
		Address:   body.Address,
		Note:      body.Note,
	})
	if err != nil {
		mapEmergencyError(c, err)
		return
	}

	c.JSON(http.StatusCreated, NewLocationShareResponse(ls))
}

func (h *Handler) List(c *gin.Context) {
	var req ListSharesRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid query parameters"})
		return
	}

	filter := emergency.Filter{
		UserID:   req.UserID,
		Page:     req.Page,
		PageSize: req.PageSize,
	}

	// Students only see their own shares.
	role := auth.GetUserRole(c)
	if role == string(user.RoleStudent) {
		filter.UserID = auth.GetUserID(c)
	}

	shares, total, err := h.service.ListRecent(c.Request.Context(), filter)
	if err != nil {
		mapEmergencyError(c, err)
		return
	}

	items := make([]LocationShareResponse, len(shares))
	for i, ls := range shares {
		items[i] = NewLocationShareResponse(ls)
	}

	c.JSON(http.StatusOK, response.NewPageResponse(items, req.Page, req.PageSize, total))
}

func (h *Handler) Delete(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid UUID"})
		return
	}

	isAdmin := auth.GetUserRole(c) == string(user.RoleAdmin)
	if err := h.service.Delete(c.Request.Context(), id, auth.GetUserID(c), isAdmin); err != nil {
		mapEmergencyError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
