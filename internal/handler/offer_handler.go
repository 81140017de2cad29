package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/hostelhub/hostel-backend/internal/application"
	"github.com/hostelhub/hostel-backend/internal/platform/auth"
	"github.com/hostelhub/hostel-backend/internal/platform/middleware"
	"github.com/hostelhub/hostel-backend/internal/platform/response"
)

// OfferHandler handles HTTP requests for promotional offers.
type OfferHandler struct {
	service *application.OfferService
}

// NewOfferHandler creates a new OfferHandler.
func NewOfferHandler(service *application.OfferService) *OfferHandler {
	return &OfferHandler{service: service}
}

// RegisterRoutes registers offer routes on the given router group.
func (h *OfferHandler) RegisterRoutes(r *gin.RouterGroup, jwtManager *auth.JWTManager) {
	offers := r.Group("/api/v1/offers")
	offers.Use(middleware.Auth(jwtManager))
	{
		offers.POST("", h.CreateOffer)
		offers.GET("", h.ListOffers)
		offers.GET("/:id", h.GetOffer)
		offers.PATCH("/:id/active", h.SetOfferActive)
		offers.DELETE("/:id", h.DeleteOffer)
	}

	public := r.Group("/api/v1/public/offers")
	{
		public.GET("", h.ListPublicOffers)
		public.GET("/validate", h.QuoteOffer)
	}
}

// CreateOffer handles POST /api/v1/offers.
func (h *OfferHandler) CreateOffer(c *gin.Context) {
	adminID, ok := middleware.GetAdminID(c)
	if !ok {
		response.Unauthorized(c, "unauthorized")
		return
	}

	var req application.CreateOfferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.CreateOffer(c.Request.Context(), adminID, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, result)
}

// ListOffers handles GET /api/v1/offers.
func (h *OfferHandler) ListOffers(c *gin.Context) {
	adminID, ok := middleware.GetAdminID(c)
	if !ok {
		response.Unauthorized(c, "unauthorized")
		return
	}

	result, err := h.service.ListOffers(c.Request.Context(), adminID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// GetOffer handles GET /api/v1/offers/:id.
func (h *OfferHandler) GetOffer(c *gin.Context) {
	adminID, ok := middleware.GetAdminID(c)
	if !ok {
		response.Unauthorized(c, "unauthorized")
		return
	}

	offerID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid offer ID")
		return
	}

	result, err := h.service.GetOffer(c.Request.Context(), adminID, offerID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// SetOfferActive handles PATCH /api/v1/offers/:id/active.
func (h *OfferHandler) SetOfferActive(c *gin.Context) {
	adminID, ok := middleware.GetAdminID(c)
	if !ok {
		response.Unauthorized(c, "unauthorized")
		return
	}

	offerID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid offer ID")
		return
	}

	var body struct {
		Active *bool `json:"active" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.SetOfferActive(c.Request.Context(), adminID, offerID, *body.Active)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// DeleteOffer handles DELETE /api/v1/offers/:id.
func (h *OfferHandler) DeleteOffer(c *gin.Context) {
	adminID, ok := middleware.GetAdminID(c)
	if !ok {
		response.Unauthorized(c, "unauthorized")
		return
	}

	offerID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid offer ID")
		return
	}

	if err := h.service.DeleteOffer(c.Request.Context(), adminID, offerID); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, gin.H{"deleted": true})
}

// ListPublicOffers handles GET /api/v1/public/offers.
func (h *OfferHandler) ListPublicOffers(c *gin.Context) {
	result, err := h.service.ListPublicOffers(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// QuoteOffer handles GET /api/v1/public/offers/validate. The widget previews
// the discount a code would grant before submitting the booking.
func (h *OfferHandler) QuoteOffer(c *gin.Context) {
	code := c.Query("code")
	if code == "" {
		response.BadRequest(c, "code is required")
		return
	}

	guests, err := strconv.Atoi(c.DefaultQuery("number_of_guests", "1"))
	if err != nil || guests < 1 {
		response.BadRequest(c, "invalid number_of_guests")
		return
	}
	nights, err := strconv.Atoi(c.DefaultQuery("nights", "1"))
	if err != nil || nights < 1 {
		response.BadRequest(c, "invalid nights")
		return
	}
	amountCents, err := strconv.ParseInt(c.DefaultQuery("amount_cents", "0"), 10, 64)
	if err != nil || amountCents < 0 {
		response.BadRequest(c, "invalid amount_cents")
		return
	}

	result, err := h.service.QuoteOffer(c.Request.Context(), code, guests, nights, amountCents)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}
