package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/varun4522/calm-campus-backend/internal/auth"
	"github.com/varun4522/calm-campus-backend/internal/availability"
	"github.com/varun4522/calm-campus-backend/internal/pkg/response"
	"github.com/varun4522/calm-campus-backend/internal/user"
)

type Handler struct {
	service availability.Service
}

func NewHandler(service availability.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) Publish(c *gin.Context) {
	var body PublishSlotsBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	inputs := make([]availability.SlotInput, len(body.Slots))
	for i, in := range body.Slots {
		inputs[i] = availability.SlotInput{StartTime: in.StartTime, EndTime: in.EndTime}
	}

	slots, err := h.service.PublishSlots(c.Request.Context(), auth.GetUserID(c), body.Date, inputs)
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]SlotResponse, len(slots))
	for i, s := range slots {
		items[i] = NewSlotResponse(s)
	}
	c.JSON(http.StatusCreated, items)
}

func (h *Handler) MonthSchedule(c *gin.Context) {
	var req MonthScheduleRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid query parameters"})
		return
	}

	schedule, err := h.service.MonthSchedule(c.Request.Context(), req.ProviderID, req.Date)
	if err != nil {
		response.Error(c, err)
		return
	}

	days := make(map[string][]SlotResponse, len(schedule))
	for date, slots := range schedule {
		items := make([]SlotResponse, len(slots))
		for i, s := range slots {
			items[i] = NewSlotResponse(s)
		}
		days[date] = items
	}

	c.JSON(http.StatusOK, MonthScheduleResponse{ProviderID: req.ProviderID, Days: days})
}

func (h *Handler) SetAvailability(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid UUID"})
		return
	}

	var body SetAvailabilityBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	isAdmin := auth.GetUserRole(c) == string(user.RoleAdmin)
	slot, err := h.service.SetAvailability(c.Request.Context(), id, *body.IsAvailable, auth.GetUserID(c), isAdmin)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewSlotResponse(slot))
}

func (h *Handler) Delete(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid UUID"})
		return
	}

	isAdmin := auth.GetUserRole(c) == string(user.RoleAdmin)
	if err := h.service.Delete(c.Request.Context(), id, auth.GetUserID(c), isAdmin); err != nil {
		response.Error(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
