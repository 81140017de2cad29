package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/hostelhub/hostel-backend/internal/application"
	bookingDomain "github.com/hostelhub/hostel-backend/internal/domain/booking"
	"github.com/hostelhub/hostel-backend/internal/platform/auth"
	"github.com/hostelhub/hostel-backend/internal/platform/middleware"
	"github.com/hostelhub/hostel-backend/internal/platform/response"
)

// BookingHandler handles HTTP requests for booking operations.
type BookingHandler struct {
	service *application.BookingService
}

// NewBookingHandler creates a new BookingHandler.
func NewBookingHandler(service *application.BookingService) *BookingHandler {
	return &BookingHandler{service: service}
}

// RegisterRoutes registers booking routes on the given router group.
func (h *BookingHandler) RegisterRoutes(r *gin.RouterGroup, jwtManager *auth.JWTManager) {
	authMW := middleware.Auth(jwtManager)

	bookings := r.Group("/api/v1/bookings")
	bookings.Use(authMW)
	{
		bookings.GET("", h.ListBookings)
		bookings.GET("/:id", h.GetBooking)
		bookings.POST("/:id/transition", h.TransitionBooking)
		bookings.POST("/:id/cancel", h.CancelBooking)
		bookings.DELETE("/:id", h.DeleteBooking)
	}

	roomBookings := r.Group("/api/v1/rooms/:id/bookings")
	roomBookings.Use(authMW)
	{
		roomBookings.GET("", h.ListRoomBookings)
	}

	public := r.Group("/api/v1/public/bookings")
	{
		public.POST("", h.CreateBooking)
		public.GET("/:reference", h.GetBookingByReference)
	}
}

// CreateBooking handles POST /api/v1/public/bookings. The public widget posts
// guest details inline with the booking request.
func (h *BookingHandler) CreateBooking(c *gin.Context) {
	var req application.CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.CreateBooking(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, result)
}

// GetBookingByReference handles GET /api/v1/public/bookings/:reference.
func (h *BookingHandler) GetBookingByReference(c *gin.Context) {
	result, err := h.service.GetBookingByReference(c.Request.Context(), c.Param("reference"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// ListBookings handles GET /api/v1/bookings.
func (h *BookingHandler) ListBookings(c *gin.Context) {
	adminID, ok := middleware.GetAdminID(c)
	if !ok {
		response.Unauthorized(c, "unauthorized")
		return
	}

	page, limit := parsePagination(c)

	result, err := h.service.ListBookings(c.Request.Context(), adminID, page, limit)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Paginated(c, result.Items, result.Total, result.Page, result.Limit)
}

// ListRoomBookings handles GET /api/v1/rooms/:id/bookings.
func (h *BookingHandler) ListRoomBookings(c *gin.Context) {
	adminID, ok := middleware.GetAdminID(c)
	if !ok {
		response.Unauthorized(c, "unauthorized")
		return
	}

	roomID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid room ID")
		return
	}

	result, err := h.service.ListRoomBookings(c.Request.Context(), adminID, roomID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// GetBooking handles GET /api/v1/bookings/:id.
func (h *BookingHandler) GetBooking(c *gin.Context) {
	adminID, ok := middleware.GetAdminID(c)
	if !ok {
		response.Unauthorized(c, "unauthorized")
		return
	}

	bookingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid booking ID")
		return
	}

	result, err := h.service.GetBooking(c.Request.Context(), adminID, bookingID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// TransitionBooking handles POST /api/v1/bookings/:id/transition.
func (h *BookingHandler) TransitionBooking(c *gin.Context) {
	adminID, ok := middleware.GetAdminID(c)
	if !ok {
		response.Unauthorized(c, "unauthorized")
		return
	}

	bookingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid booking ID")
		return
	}

	var body struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	target, err := bookingDomain.ParseStatus(body.Status)
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.TransitionBooking(c.Request.Context(), adminID, bookingID, target)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// CancelBooking handles POST /api/v1/bookings/:id/cancel.
func (h *BookingHandler) CancelBooking(c *gin.Context) {
	adminID, ok := middleware.GetAdminID(c)
	if !ok {
		response.Unauthorized(c, "unauthorized")
		return
	}

	bookingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid booking ID")
		return
	}

	var body struct {
		Reason string `json:"reason"`
	}
	_ = c.ShouldBindJSON(&body)

	result, err := h.service.CancelBooking(c.Request.Context(), adminID, bookingID, body.Reason)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// DeleteBooking handles DELETE /api/v1/bookings/:id.
func (h *BookingHandler) DeleteBooking(c *gin.Context) {
	adminID, ok := middleware.GetAdminID(c)
	if !ok {
		response.Unauthorized(c, "unauthorized")
		return
	}

	bookingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid booking ID")
		return
	}

	if err := h.service.DeleteBooking(c.Request.Context(), adminID, bookingID); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, gin.H{"deleted": true})
}

// parsePagination extracts page and limit query parameters with defaults.
func parsePagination(c *gin.Context) (int, int) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}

	return page, limit
}
