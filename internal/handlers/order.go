// internal/handlers/order.go
package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/soukhub/marketplace-backend/internal/models"
	"github.com/soukhub/marketplace-backend/internal/services"
	"github.com/soukhub/marketplace-backend/internal/utils"
)

type OrderHandler struct {
	orderService *services.OrderService
}

func NewOrderHandler(orderService *services.OrderService) *OrderHandler {
	return &OrderHandler{
		orderService: orderService,
	}
}

// POST /orders/checkout
func (h *OrderHandler) Checkout(c *gin.Context) {
	clientID, ok := utils.GetUserIDFromContext(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}

	var req services.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid input", err.Error())
		return
	}

	order, err := h.orderService.Checkout(c.Request.Context(), clientID, &req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrEmptyCart):
			utils.UnprocessableResponse(c, "EMPTY_CART", err.Error())
		case errors.Is(err, services.ErrCouponNotFound),
			errors.Is(err, services.ErrCouponExpired),
			errors.Is(err, services.ErrCouponInactive),
			errors.Is(err, services.ErrCouponMinimumNotMet):
			utils.UnprocessableResponse(c, "COUPON_REJECTED", err.Error())
		default:
			utils.InternalErrorResponse(c, "")
		}
		return
	}

	utils.CreatedResponse(c, order)
}

// GET /orders
func (h *OrderHandler) History(c *gin.Context) {
	clientID, ok := utils.GetUserIDFromContext(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}

	orders, err := h.orderService.History(clientID)
	if err != nil {
		utils.InternalErrorResponse(c, "")
		return
	}

	utils.SuccessResponse(c, orders)
}

// GET /orders/:id
func (h *OrderHandler) GetOrder(c *gin.Context) {
	userID, ok := utils.GetUserIDFromContext(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}

	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid order ID", nil)
		return
	}

	order, err := h.orderService.GetOrder(orderID)
	if err != nil {
		utils.NotFoundResponse(c, "order")
		return
	}

	// Only the participants and admins may read an order.
	userType, _ := utils.GetUserTypeFromContext(c)
	if userType != string(models.UserTypeAdmin) &&
		order.ClientID != userID &&
		order.SellerID != userID &&
		(order.CourierID == nil || *order.CourierID != userID) {
		utils.ForbiddenResponse(c, "")
		return
	}

	utils.SuccessResponse(c, order)
}

// POST /orders/:id/cancel
func (h *OrderHandler) Cancel(c *gin.Context) {
	userID, ok := utils.GetUserIDFromContext(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}

	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid order ID", nil)
		return
	}

	order, err := h.orderService.GetOrder(orderID)
	if err != nil {
		utils.NotFoundResponse(c, "order")
		return
	}

	userType, _ := utils.GetUserTypeFromContext(c)
	if userType != string(models.UserTypeAdmin) && order.ClientID != userID {
		utils.ForbiddenResponse(c, "")
		return
	}

	if err := h.orderService.Cancel(c.Request.Context(), orderID); err != nil {
		if errors.Is(err, services.ErrOrderTerminal) {
			utils.UnprocessableResponse(c, "ORDER_TERMINAL", err.Error())
			return
		}
		utils.InternalErrorResponse(c, "")
		return
	}

	utils.SuccessResponse(c, gin.H{"message": "Order cancelled"})
}

// GET /seller/orders
func (h *OrderHandler) SellerOrders(c *gin.Context) {
	sellerID, ok := utils.GetUserIDFromContext(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}

	orders, err := h.orderService.SellerOrders(sellerID)
	if err != nil {
		utils.InternalErrorResponse(c, "")
		return
	}

	utils.SuccessResponse(c, orders)
}
