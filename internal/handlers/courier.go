// internal/handlers/courier.go
package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/soukhub/marketplace-backend/internal/services"
	"github.com/soukhub/marketplace-backend/internal/utils"
)

type CourierHandler struct {
	orderService *services.OrderService
}

func NewCourierHandler(orderService *services.OrderService) *CourierHandler {
	return &CourierHandler{
		orderService: orderService,
	}
}

// GET /courier/orders/pending
func (h *CourierHandler) PendingOrders(c *gin.Context) {
	orders, err := h.orderService.PendingOrders()
	if err != nil {
		utils.InternalErrorResponse(c, "")
		return
	}

	utils.SuccessResponse(c, orders)
}

// GET /courier/orders
func (h *CourierHandler) ActiveOrders(c *gin.Context) {
	courierID, ok := utils.GetUserIDFromContext(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}

	orders, err := h.orderService.CourierOrders(courierID)
	if err != nil {
		utils.InternalErrorResponse(c, "")
		return
	}

	utils.SuccessResponse(c, orders)
}

// GET /courier/orders/history
func (h *CourierHandler) History(c *gin.Context) {
	courierID, ok := utils.GetUserIDFromContext(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}

	orders, err := h.orderService.CourierHistory(courierID)
	if err != nil {
		utils.InternalErrorResponse(c, "")
		return
	}

	utils.SuccessResponse(c, orders)
}

// POST /courier/orders/:id/advance
func (h *CourierHandler) AdvanceStatus(c *gin.Context) {
	courierID, ok := utils.GetUserIDFromContext(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}

	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid order ID", nil)
		return
	}

	status, err := h.orderService.AdvanceStatus(c.Request.Context(), orderID, courierID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrOrderNotFound):
			utils.NotFoundResponse(c, "order")
		case errors.Is(err, services.ErrOrderNotAssigned):
			utils.ForbiddenResponse(c, err.Error())
		case errors.Is(err, services.ErrOrderNotClaimable):
			utils.ConflictResponse(c, err.Error())
		default:
			utils.InternalErrorResponse(c, "")
		}
		return
	}

	utils.SuccessResponse(c, gin.H{"status": status})
}

// GET /courier/stats
func (h *CourierHandler) Stats(c *gin.Context) {
	courierID, ok := utils.GetUserIDFromContext(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}

	stats, err := h.orderService.Stats(courierID)
	if err != nil {
		utils.InternalErrorResponse(c, "")
		return
	}

	utils.SuccessResponse(c, stats)
}
