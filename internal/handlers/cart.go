// internal/handlers/cart.go
package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/soukhub/marketplace-backend/internal/services"
	"github.com/soukhub/marketplace-backend/internal/utils"
)

type CartHandler struct {
	cartService   *services.CartService
	couponService *services.CouponService
}

func NewCartHandler(cartService *services.CartService, couponService *services.CouponService) *CartHandler {
	return &CartHandler{
		cartService:   cartService,
		couponService: couponService,
	}
}

// GET /cart
func (h *CartHandler) List(c *gin.Context) {
	clientID, ok := utils.GetUserIDFromContext(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}

	items, err := h.cartService.List(clientID)
	if err != nil {
		utils.InternalErrorResponse(c, "")
		return
	}

	utils.SuccessResponse(c, gin.H{"items": items, "count": len(items)})
}

// GET /cart/count
func (h *CartHandler) Count(c *gin.Context) {
	clientID, ok := utils.GetUserIDFromContext(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}

	count, err := h.cartService.Count(c.Request.Context(), clientID)
	if err != nil {
		utils.InternalErrorResponse(c, "")
		return
	}

	utils.SuccessResponse(c, gin.H{"count": count})
}

// POST /cart/items
func (h *CartHandler) AddItem(c *gin.Context) {
	clientID, ok := utils.GetUserIDFromContext(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}

	var req services.AddCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid input", err.Error())
		return
	}

	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	result, err := h.cartService.AddItem(c.Request.Context(), clientID, &req)
	if err != nil {
		if errors.Is(err, services.ErrProductNotFound) {
			utils.NotFoundResponse(c, "product")
			return
		}
		utils.InternalErrorResponse(c, "")
		return
	}

	// A cross-seller rejection is a valid outcome, not an error; the
	// caller inspects the status field.
	if result.Status == services.CartAddRejectedDifferentSeller {
		utils.UnprocessableResponse(c, "DIFFERENT_SELLER", "Cart already holds items from another seller")
		return
	}

	utils.CreatedResponse(c, result)
}

// PUT /cart/items/:id
func (h *CartHandler) UpdateItem(c *gin.Context) {
	clientID, ok := utils.GetUserIDFromContext(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}

	itemID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid item ID", nil)
		return
	}

	var req services.UpdateCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid input", err.Error())
		return
	}

	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	if err := h.cartService.SetQuantity(c.Request.Context(), clientID, itemID, &req); err != nil {
		if errors.Is(err, services.ErrCartItemNotFound) {
			utils.NotFoundResponse(c, "cart item")
			return
		}
		utils.InternalErrorResponse(c, "")
		return
	}

	utils.SuccessResponse(c, gin.H{"message": "Quantity updated"})
}

// DELETE /cart/items/:id
func (h *CartHandler) RemoveItem(c *gin.Context) {
	clientID, ok := utils.GetUserIDFromContext(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}

	itemID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid item ID", nil)
		return
	}

	count, err := h.cartService.RemoveItem(c.Request.Context(), clientID, itemID)
	if err != nil {
		if errors.Is(err, services.ErrCartItemNotFound) {
			utils.NotFoundResponse(c, "cart item")
			return
		}
		utils.InternalErrorResponse(c, "")
		return
	}

	utils.SuccessResponse(c, gin.H{"count": count})
}

// DELETE /cart
func (h *CartHandler) Clear(c *gin.Context) {
	clientID, ok := utils.GetUserIDFromContext(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}

	if err := h.cartService.Clear(c.Request.Context(), clientID); err != nil {
		utils.InternalErrorResponse(c, "")
		return
	}

	utils.SuccessResponse(c, gin.H{"message": "Cart cleared"})
}

// POST /cart/coupon/validate
func (h *CartHandler) ValidateCoupon(c *gin.Context) {
	if _, ok := utils.GetUserIDFromContext(c); !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}

	var req struct {
		Code       string  `json:"code" validate:"required"`
		OrderTotal float64 `json:"order_total" validate:"required,gt=0"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid input", err.Error())
		return
	}

	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	verdict, err := h.couponService.Validate(req.Code, req.OrderTotal)
	if err != nil {
		utils.InternalErrorResponse(c, "")
		return
	}

	utils.SuccessResponse(c, verdict)
}
