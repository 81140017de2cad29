package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/hostelhub/hostel-backend/internal/application"
	"github.com/hostelhub/hostel-backend/internal/platform/auth"
	"github.com/hostelhub/hostel-backend/internal/platform/middleware"
	"github.com/hostelhub/hostel-backend/internal/platform/response"
)

// RoomHandler handles HTTP requests for room management and upkeep.
type RoomHandler struct {
	service *application.RoomService
}

// NewRoomHandler creates a new RoomHandler.
func NewRoomHandler(service *application.RoomService) *RoomHandler {
	return &RoomHandler{service: service}
}

// RegisterRoutes registers room routes on the given router group.
func (h *RoomHandler) RegisterRoutes(r *gin.RouterGroup, jwtManager *auth.JWTManager) {
	rooms := r.Group("/api/v1/rooms")
	rooms.Use(middleware.Auth(jwtManager))
	{
		rooms.POST("", h.CreateRoom)
		rooms.GET("", h.ListRooms)
		rooms.POST("/sync", h.SyncAllOccupancy)
		rooms.GET("/:id", h.GetRoom)
		rooms.PUT("/:id", h.UpdateRoom)
		rooms.DELETE("/:id", h.DeleteRoom)
		rooms.POST("/:id/clean", h.MarkCleaned)
		rooms.POST("/:id/maintenance", h.SetMaintenance)
		rooms.POST("/:id/maintenance/clear", h.ClearMaintenance)
		rooms.POST("/:id/sync", h.SyncOccupancy)
	}
}

// CreateRoom handles POST /api/v1/rooms.
func (h *RoomHandler) CreateRoom(c *gin.Context) {
	adminID, ok := middleware.GetAdminID(c)
	if !ok {
		response.Unauthorized(c, "unauthorized")
		return
	}

	var req application.CreateRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.CreateRoom(c.Request.Context(), adminID, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, result)
}

// ListRooms handles GET /api/v1/rooms.
func (h *RoomHandler) ListRooms(c *gin.Context) {
	adminID, ok := middleware.GetAdminID(c)
	if !ok {
		response.Unauthorized(c, "unauthorized")
		return
	}

	result, err := h.service.ListRooms(c.Request.Context(), adminID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// GetRoom handles GET /api/v1/rooms/:id.
func (h *RoomHandler) GetRoom(c *gin.Context) {
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

	result, err := h.service.GetRoom(c.Request.Context(), adminID, roomID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// UpdateRoom handles PUT /api/v1/rooms/:id.
func (h *RoomHandler) UpdateRoom(c *gin.Context) {
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

	var req application.UpdateRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.UpdateRoom(c.Request.Context(), adminID, roomID, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// DeleteRoom handles DELETE /api/v1/rooms/:id.
func (h *RoomHandler) DeleteRoom(c *gin.Context) {
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

	if err := h.service.DeleteRoom(c.Request.Context(), adminID, roomID); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, gin.H{"deleted": true})
}

// MarkCleaned handles POST /api/v1/rooms/:id/clean.
func (h *RoomHandler) MarkCleaned(c *gin.Context) {
	h.roomAction(c, h.service.MarkCleaned)
}

// SetMaintenance handles POST /api/v1/rooms/:id/maintenance.
func (h *RoomHandler) SetMaintenance(c *gin.Context) {
	h.roomAction(c, h.service.SetMaintenance)
}

// ClearMaintenance handles POST /api/v1/rooms/:id/maintenance/clear.
func (h *RoomHandler) ClearMaintenance(c *gin.Context) {
	h.roomAction(c, h.service.ClearMaintenance)
}

// SyncOccupancy handles POST /api/v1/rooms/:id/sync.
func (h *RoomHandler) SyncOccupancy(c *gin.Context) {
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

	result, err := h.service.SyncOccupancy(c.Request.Context(), adminID, roomID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// SyncAllOccupancy handles POST /api/v1/rooms/sync.
func (h *RoomHandler) SyncAllOccupancy(c *gin.Context) {
	adminID, ok := middleware.GetAdminID(c)
	if !ok {
		response.Unauthorized(c, "unauthorized")
		return
	}

	result, err := h.service.SyncAllOccupancy(c.Request.Context(), adminID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// roomAction runs one of the per-room upkeep operations sharing the same shape.
func (h *RoomHandler) roomAction(c *gin.Context, fn func(ctx context.Context, adminID, roomID uuid.UUID) (*application.RoomDTO, error)) {
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

	result, err := fn(c.Request.Context(), adminID, roomID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}
