package handler

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/hostelhub/hostel-backend/internal/application"
	"github.com/hostelhub/hostel-backend/internal/platform/auth"
	"github.com/hostelhub/hostel-backend/internal/platform/middleware"
	"github.com/hostelhub/hostel-backend/internal/platform/response"
)

// AvailabilityHandler handles availability queries and occupancy reports.
type AvailabilityHandler struct {
	service *application.AvailabilityService
}

// NewAvailabilityHandler creates a new AvailabilityHandler.
func NewAvailabilityHandler(service *application.AvailabilityService) *AvailabilityHandler {
	return &AvailabilityHandler{service: service}
}

// RegisterRoutes registers availability routes on the given router group.
func (h *AvailabilityHandler) RegisterRoutes(r *gin.RouterGroup, jwtManager *auth.JWTManager) {
	availability := r.Group("/api/v1/availability")
	availability.Use(middleware.Auth(jwtManager))
	{
		availability.GET("/summary", h.GetOccupancySummary)
		availability.GET("/utilization", h.GetUtilizationReport)
		availability.GET("/calendar/:roomID", h.GetRoomCalendar)
		availability.GET("/attention", h.GetRoomsNeedingAttention)
		availability.GET("/transitions", h.GetUpcomingTransitions)
	}

	public := r.Group("/api/v1/public/rooms")
	{
		public.GET("/search", h.SearchAvailableRooms)
		public.GET("/available", h.GetAvailableRooms)
		public.GET("/:id/availability", h.CheckRoomAvailability)
	}
}

// SearchAvailableRooms handles GET /api/v1/public/rooms/search.
func (h *AvailabilityHandler) SearchAvailableRooms(c *gin.Context) {
	var req application.SearchRoomsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.SearchAvailableRooms(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// GetAvailableRooms handles GET /api/v1/public/rooms/available.
func (h *AvailabilityHandler) GetAvailableRooms(c *gin.Context) {
	checkIn, checkOut, ok := parseDateRange(c, "check_in_date", "check_out_date")
	if !ok {
		return
	}

	guests, err := strconv.Atoi(c.DefaultQuery("number_of_guests", "1"))
	if err != nil || guests < 1 {
		response.BadRequest(c, "invalid number_of_guests")
		return
	}

	result, err := h.service.GetAvailableRooms(c.Request.Context(), checkIn, checkOut, guests, c.Query("room_type"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// CheckRoomAvailability handles GET /api/v1/public/rooms/:id/availability.
func (h *AvailabilityHandler) CheckRoomAvailability(c *gin.Context) {
	roomID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid room ID")
		return
	}

	checkIn, checkOut, ok := parseDateRange(c, "check_in_date", "check_out_date")
	if !ok {
		return
	}

	guests, err := strconv.Atoi(c.DefaultQuery("number_of_guests", "1"))
	if err != nil || guests < 1 {
		response.BadRequest(c, "invalid number_of_guests")
		return
	}

	available, err := h.service.IsRoomAvailable(c.Request.Context(), roomID, checkIn, checkOut, guests)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, gin.H{"room_id": roomID, "available": available})
}

// GetOccupancySummary handles GET /api/v1/availability/summary.
func (h *AvailabilityHandler) GetOccupancySummary(c *gin.Context) {
	adminID, ok := middleware.GetAdminID(c)
	if !ok {
		response.Unauthorized(c, "unauthorized")
		return
	}

	result, err := h.service.GetOccupancySummary(c.Request.Context(), adminID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// GetUtilizationReport handles GET /api/v1/availability/utilization.
func (h *AvailabilityHandler) GetUtilizationReport(c *gin.Context) {
	adminID, ok := middleware.GetAdminID(c)
	if !ok {
		response.Unauthorized(c, "unauthorized")
		return
	}

	start, end, ok := parseDateRange(c, "start", "end")
	if !ok {
		return
	}

	result, err := h.service.GetUtilizationReport(c.Request.Context(), adminID, start, end)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// GetRoomCalendar handles GET /api/v1/availability/calendar/:roomID.
func (h *AvailabilityHandler) GetRoomCalendar(c *gin.Context) {
	adminID, ok := middleware.GetAdminID(c)
	if !ok {
		response.Unauthorized(c, "unauthorized")
		return
	}

	roomID, err := uuid.Parse(c.Param("roomID"))
	if err != nil {
		response.BadRequest(c, "invalid room ID")
		return
	}

	months, err := strconv.Atoi(c.DefaultQuery("months", "3"))
	if err != nil || months < 1 || months > 12 {
		response.BadRequest(c, "months must be between 1 and 12")
		return
	}

	result, err := h.service.GetRoomCalendar(c.Request.Context(), adminID, roomID, months)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// GetRoomsNeedingAttention handles GET /api/v1/availability/attention.
func (h *AvailabilityHandler) GetRoomsNeedingAttention(c *gin.Context) {
	adminID, ok := middleware.GetAdminID(c)
	if !ok {
		response.Unauthorized(c, "unauthorized")
		return
	}

	result, err := h.service.GetRoomsNeedingAttention(c.Request.Context(), adminID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// GetUpcomingTransitions handles GET /api/v1/availability/transitions.
func (h *AvailabilityHandler) GetUpcomingTransitions(c *gin.Context) {
	adminID, ok := middleware.GetAdminID(c)
	if !ok {
		response.Unauthorized(c, "unauthorized")
		return
	}

	days, err := strconv.Atoi(c.DefaultQuery("days", "7"))
	if err != nil || days < 1 || days > 90 {
		response.BadRequest(c, "days must be between 1 and 90")
		return
	}

	result, err := h.service.GetUpcomingTransitions(c.Request.Context(), adminID, days)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// parseDateRange reads two yyyy-mm-dd query parameters.
func parseDateRange(c *gin.Context, fromKey, toKey string) (time.Time, time.Time, bool) {
	from, err := time.Parse("2006-01-02", c.Query(fromKey))
	if err != nil {
		response.BadRequest(c, "invalid "+fromKey)
		return time.Time{}, time.Time{}, false
	}
	to, err := time.Parse("2006-01-02", c.Query(toKey))
	if err != nil {
		response.BadRequest(c, "invalid "+toKey)
		return time.Time{}, time.Time{}, false
	}
	return from, to, true
}
