package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"mealmates-backend/internal/domains/donation/model"
	"mealmates-backend/internal/domains/donation/service"
	"mealmates-backend/internal/shared/response"
)

// =====================================================
// DONATION HANDLER
// =====================================================
type DonationHandler struct {
	donationService service.Service
	maxImageBytes   int64
}

// NewDonationHandler creates a new donation handler
func NewDonationHandler(donationService service.Service, maxImageBytes int64) *DonationHandler {
	return &DonationHandler{
		donationService: donationService,
		maxImageBytes:   maxImageBytes,
	}
}

// =====================================================
// ROUTES REGISTRATION
// =====================================================

// RegisterRoutes registers donation routes.
// public carries no auth middleware; protected does.
func (h *DonationHandler) RegisterRoutes(public, protected *gin.RouterGroup) {
	publicRoutes := public.Group("/donations")
	{
		publicRoutes.GET("", h.AvailableFeed) // GET /v1/donations?page=1&limit=20
	}

	protectedRoutes := protected.Group("/donations")
	{
		protectedRoutes.POST("", h.Publish)             // POST /v1/donations
		protectedRoutes.GET("/mine", h.OwnerFeed)       // GET /v1/donations/mine
		protectedRoutes.GET("/:id", h.GetDonation)      // GET /v1/donations/:id
		protectedRoutes.PATCH("/:id", h.Update)         // PATCH /v1/donations/:id
		protectedRoutes.POST("/:id/claim", h.Claim)     // POST /v1/donations/:id/claim
		protectedRoutes.POST("/:id/expire", h.Expire)   // POST /v1/donations/:id/expire
		protectedRoutes.DELETE("/:id", h.Remove)        // DELETE /v1/donations/:id
		protectedRoutes.POST("/images", h.UploadImage)  // POST /v1/donations/images
	}
}

// =====================================================
// PUBLISH
// =====================================================
func (h *DonationHandler) Publish(c *gin.Context) {
	actor, ok := h.actorFromContext(c)
	if !ok {
		return
	}

	var req model.PublishDonationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	result, err := h.donationService.Publish(c.Request.Context(), actor, req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, result)
}

// =====================================================
// GET
// =====================================================
func (h *DonationHandler) GetDonation(c *gin.Context) {
	id, ok := h.donationIDFromPath(c)
	if !ok {
		return
	}

	result, err := h.donationService.GetDonation(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, result)
}

// =====================================================
// CLAIM
// =====================================================
func (h *DonationHandler) Claim(c *gin.Context) {
	actor, ok := h.actorFromContext(c)
	if !ok {
		return
	}

	id, ok := h.donationIDFromPath(c)
	if !ok {
		return
	}

	result, err := h.donationService.Claim(c.Request.Context(), actor, id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, result)
}

// =====================================================
// EXPIRE
// =====================================================
func (h *DonationHandler) Expire(c *gin.Context) {
	actor, ok := h.actorFromContext(c)
	if !ok {
		return
	}

	id, ok := h.donationIDFromPath(c)
	if !ok {
		return
	}

	result, err := h.donationService.MarkExpired(c.Request.Context(), actor, id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, result)
}

// =====================================================
// REMOVE
// =====================================================
func (h *DonationHandler) Remove(c *gin.Context) {
	actor, ok := h.actorFromContext(c)
	if !ok {
		return
	}

	id, ok := h.donationIDFromPath(c)
	if !ok {
		return
	}

	if err := h.donationService.Remove(c.Request.Context(), actor, id); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// =====================================================
// UPDATE
// =====================================================
func (h *DonationHandler) Update(c *gin.Context) {
	actor, ok := h.actorFromContext(c)
	if !ok {
		return
	}

	id, ok := h.donationIDFromPath(c)
	if !ok {
		return
	}

	var req model.UpdateDonationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	result, err := h.donationService.Update(c.Request.Context(), actor, id, req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, result)
}

// =====================================================
// FEEDS
// =====================================================
func (h *DonationHandler) AvailableFeed(c *gin.Context) {
	var req model.FeedRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, "Invalid pagination parameters")
		return
	}

	result, err := h.donationService.AvailableFeed(c.Request.Context(), req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	response.SuccessWithMeta(c, http.StatusOK, result.Donations, &response.Meta{
		Page:  req.Page,
		Limit: req.Limit,
		Total: result.Total,
	})
}

func (h *DonationHandler) OwnerFeed(c *gin.Context) {
	actor, ok := h.actorFromContext(c)
	if !ok {
		return
	}

	var req model.FeedRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, "Invalid pagination parameters")
		return
	}

	result, err := h.donationService.OwnerFeed(c.Request.Context(), actor, req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	response.SuccessWithMeta(c, http.StatusOK, result.Donations, &response.Meta{
		Page:  req.Page,
		Limit: req.Limit,
		Total: result.Total,
	})
}

// =====================================================
// IMAGE UPLOAD
// =====================================================
func (h *DonationHandler) UploadImage(c *gin.Context) {
	actor, ok := h.actorFromContext(c)
	if !ok {
		return
	}

	file, _, err := c.Request.FormFile("image")
	if err != nil {
		response.BadRequest(c, "Missing image file")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, h.maxImageBytes+1))
	if err != nil {
		response.BadRequest(c, "Cannot read image file")
		return
	}
	if int64(len(data)) > h.maxImageBytes {
		response.BadRequest(c, "Image file too large")
		return
	}

	result, err := h.donationService.UploadImage(c.Request.Context(), actor, data)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, result)
}

// =====================================================
// HELPERS
// =====================================================
func (h *DonationHandler) actorFromContext(c *gin.Context) (service.Actor, bool) {
	userIDValue, exists := c.Get("userID")
	if !exists {
		response.Unauthorized(c, "Authentication required")
		return service.Actor{}, false
	}

	userID, ok := userIDValue.(uuid.UUID)
	if !ok {
		response.Unauthorized(c, "Authentication required")
		return service.Actor{}, false
	}

	return service.Actor{UserID: userID}, true
}

func (h *DonationHandler) donationIDFromPath(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Donation ID must be a valid UUID")
		return uuid.Nil, false
	}
	return id, true
}

// handleServiceError maps domain errors to HTTP responses in one place
func (h *DonationHandler) handleServiceError(c *gin.Context, err error) {
	var donationErr *model.DonationError
	if errors.As(err, &donationErr) {
		switch donationErr.Code {
		case model.ErrCodeValidation:
			response.ErrorResponse(c, http.StatusBadRequest, donationErr.Code, donationErr.Error())
		case model.ErrCodeStorage:
			response.ErrorResponse(c, http.StatusServiceUnavailable, donationErr.Code, donationErr.Message)
		default:
			response.ErrorResponse(c, http.StatusInternalServerError, donationErr.Code, donationErr.Message)
		}
		return
	}

	switch {
	case errors.Is(err, model.ErrDonationNotFound):
		response.NotFound(c, "Donation not found")
	case errors.Is(err, model.ErrClaimConflict):
		response.Conflict(c, "Donation was claimed or changed concurrently")
	case errors.Is(err, model.ErrInvalidTransition):
		response.UnprocessableEntity(c, "Donation state does not allow this operation")
	case errors.Is(err, model.ErrOwnClaim):
		response.Forbidden(c, "Owners cannot claim their own donation")
	case errors.Is(err, model.ErrForbidden):
		response.Forbidden(c, "You are not allowed to perform this action")
	default:
		response.InternalServerError(c, "Internal server error")
	}
}
