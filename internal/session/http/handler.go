package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/varun4522/calm-campus-backend/internal/auth"
	"github.com/varun4522/calm-campus-backend/internal/pkg/response"
	"github.com/varun4522/calm-campus-backend/internal/session"
	"github.com/varun4522/calm-campus-backend/internal/user"
)

type Handler struct {
	service session.Service
}

func NewHandler(service session.Service) *Handler {
	return &Handler{service: service}
}

func isAdmin(c *gin.Context) bool {
	return auth.GetUserRole(c) == string(user.RoleAdmin)
}

func (h *Handler) Create(c *gin.Context) {
	var body CreateSessionBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	userID := auth.GetUserID(c)
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	req := session.CreateRequest{
		RequesterID: userID,
		ProviderID:  body.ProviderID,
		Date:        body.Date,
		Time:        body.Time,
		Mode:        body.Mode,
		Notes:       body.Notes,
	}

	sr, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, NewSessionResponse(sr))
}

func (h *Handler) List(c *gin.Context) {
	var req ListSessionsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid query parameters"})
		return
	}

	currentUserID := auth.GetUserID(c)
	role := auth.GetUserRole(c)

	// Access control: students see their own requests, providers see
	// requests booked with them, admins see everything and may filter
	// by an arbitrary user.
	filter := session.Filter{
		DateFrom:  req.DateFrom,
		DateTo:    req.DateTo,
		Page:      req.Page,
		PageSize:  req.PageSize,
		SortBy:    req.SortBy,
		SortOrder: req.SortOrder,
	}

	switch {
	case isAdmin(c):
		filter.RequesterID = req.UserID
		filter.ProviderID = req.ProviderID
	case user.Role(role).IsProvider():
		filter.ProviderID = currentUserID
	default:
		filter.RequesterID = currentUserID
		filter.ProviderID = req.ProviderID
	}

	statuses := make([]string, 0, len(req.Status))
	for _, raw := range req.Status {
		st, err := session.ParseStatus(raw)
		if err != nil {
			response.Error(c, err)
			return
		}
		statuses = append(statuses, string(st))
	}
	if req.Active && len(statuses) == 0 {
		statuses = session.ActiveStatuses
	}
	filter.Statuses = statuses

	sessions, total, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]SessionResponse, len(sessions))
	for i, s := range sessions {
		items[i] = NewSessionResponse(s)
	}

	c.JSON(http.StatusOK, response.NewPageResponse(items, req.Page, req.PageSize, total))
}

func (h *Handler) Get(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid UUID"})
		return
	}

	sr, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	userID := auth.GetUserID(c)
	if sr.RequesterID != userID && sr.ProviderID != userID && !isAdmin(c) {
		c.JSON(http.StatusForbidden, gin.H{"error": "permission denied"})
		return
	}

	c.JSON(http.StatusOK, NewSessionResponse(sr))
}

func (h *Handler) UpdateStatus(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid UUID"})
		return
	}

	var body UpdateSessionStatusBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	status, err := session.ParseStatus(body.Status)
	if err != nil {
		response.Error(c, err)
		return
	}

	sr, err := h.service.UpdateStatus(c.Request.Context(), id, status, auth.GetUserID(c), isAdmin(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewSessionResponse(sr))
}

func (h *Handler) Delete(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid UUID"})
		return
	}

	if err := h.service.Delete(c.Request.Context(), id, auth.GetUserID(c), isAdmin(c)); err != nil {
		response.Error(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
