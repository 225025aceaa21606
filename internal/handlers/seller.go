// internal/handlers/seller.go
package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/soukhub/marketplace-backend/internal/services"
	"github.com/soukhub/marketplace-backend/internal/utils"
)

type SellerHandler struct {
	sellerService *services.SellerService
	reviewService *services.ReviewService
}

func NewSellerHandler(sellerService *services.SellerService, reviewService *services.ReviewService) *SellerHandler {
	return &SellerHandler{
		sellerService: sellerService,
		reviewService: reviewService,
	}
}

// GET /sellers
func (h *SellerHandler) Browse(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	result, err := h.sellerService.Browse(params)
	if err != nil {
		utils.InternalErrorResponse(c, "")
		return
	}

	utils.PaginatedResponse(c, *result)
}

// GET /sellers/:id
func (h *SellerHandler) Get(c *gin.Context) {
	sellerID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid seller ID", nil)
		return
	}

	seller, err := h.sellerService.Get(sellerID)
	if err != nil {
		utils.NotFoundResponse(c, "seller")
		return
	}

	utils.SuccessResponse(c, seller)
}

// GET /sellers/:id/reviews
func (h *SellerHandler) Reviews(c *gin.Context) {
	sellerID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid seller ID", nil)
		return
	}

	reviews, err := h.reviewService.SellerReviews(sellerID)
	if err != nil {
		utils.InternalErrorResponse(c, "")
		return
	}

	utils.SuccessResponse(c, reviews)
}

// PUT /seller/profile
func (h *SellerHandler) UpdateProfile(c *gin.Context) {
	sellerID, ok := utils.GetUserIDFromContext(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}

	var req services.UpdateSellerProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid input", err.Error())
		return
	}

	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	seller, err := h.sellerService.UpdateProfile(sellerID, &req)
	if err != nil {
		if errors.Is(err, services.ErrSellerNotFound) {
			utils.NotFoundResponse(c, "seller")
			return
		}
		utils.BadRequestResponse(c, err.Error(), nil)
		return
	}

	utils.SuccessResponse(c, seller)
}

// GET /seller/stats
func (h *SellerHandler) Stats(c *gin.Context) {
	sellerID, ok := utils.GetUserIDFromContext(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}

	stats, err := h.sellerService.Stats(sellerID)
	if err != nil {
		utils.InternalErrorResponse(c, "")
		return
	}

	utils.SuccessResponse(c, stats)
}

// POST /sellers/:id/favourite
func (h *SellerHandler) ToggleFavourite(c *gin.Context) {
	clientID, ok := utils.GetUserIDFromContext(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}

	sellerID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid seller ID", nil)
		return
	}

	isFavourite, err := h.sellerService.ToggleFavourite(clientID, sellerID)
	if err != nil {
		if errors.Is(err, services.ErrSellerNotFound) {
			utils.NotFoundResponse(c, "seller")
			return
		}
		utils.InternalErrorResponse(c, "")
		return
	}

	utils.SuccessResponse(c, gin.H{"is_favourite": isFavourite})
}

// GET /favourites
func (h *SellerHandler) ListFavourites(c *gin.Context) {
	clientID, ok := utils.GetUserIDFromContext(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}

	sellers, err := h.sellerService.ListFavourites(clientID)
	if err != nil {
		utils.InternalErrorResponse(c, "")
		return
	}

	utils.SuccessResponse(c, sellers)
}
