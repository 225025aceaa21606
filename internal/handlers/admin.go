// internal/handlers/admin.go
package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/soukhub/marketplace-backend/internal/services"
	"github.com/soukhub/marketplace-backend/internal/utils"
)

type AdminHandler struct {
	adminService  *services.AdminService
	authService   *services.AuthService
	couponService *services.CouponService
}

func NewAdminHandler(adminService *services.AdminService, authService *services.AuthService, couponService *services.CouponService) *AdminHandler {
	return &AdminHandler{
		adminService:  adminService,
		authService:   authService,
		couponService: couponService,
	}
}

// GET /admin/dashboard
func (h *AdminHandler) Dashboard(c *gin.Context) {
	stats, err := h.adminService.GetDashboardStats()
	if err != nil {
		utils.InternalErrorResponse(c, "")
		return
	}

	utils.SuccessResponse(c, stats)
}

// GET /admin/users
func (h *AdminHandler) ListUsers(c *gin.Context) {
	params := utils.GetPaginationParams(c)
	userType := c.Query("user_type")

	result, err := h.adminService.ListUsers(params, userType)
	if err != nil {
		utils.InternalErrorResponse(c, "")
		return
	}

	utils.PaginatedResponse(c, *result)
}

// POST /admin/users
func (h *AdminHandler) RegisterStaff(c *gin.Context) {
	var req services.RegisterStaffRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid input", err.Error())
		return
	}

	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	user, err := h.authService.RegisterStaff(&req)
	if err != nil {
		if errors.Is(err, services.ErrEmailTaken) || errors.Is(err, services.ErrUsernameTaken) {
			utils.ConflictResponse(c, err.Error())
			return
		}
		utils.BadRequestResponse(c, err.Error(), nil)
		return
	}

	utils.CreatedResponse(c, user)
}

// POST /admin/users/:id/toggle-suspend
func (h *AdminHandler) ToggleSuspend(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid user ID", nil)
		return
	}

	status, err := h.adminService.ToggleSuspend(userID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrUserNotFound):
			utils.NotFoundResponse(c, "user")
		case errors.Is(err, services.ErrCannotModifyAdmin):
			utils.ForbiddenResponse(c, err.Error())
		default:
			utils.InternalErrorResponse(c, "")
		}
		return
	}

	utils.SuccessResponse(c, gin.H{"status": status})
}

// DELETE /admin/users/:id
func (h *AdminHandler) DeleteUser(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid user ID", nil)
		return
	}

	if err := h.adminService.DeleteUser(userID); err != nil {
		switch {
		case errors.Is(err, services.ErrUserNotFound):
			utils.NotFoundResponse(c, "user")
		case errors.Is(err, services.ErrCannotModifyAdmin):
			utils.ForbiddenResponse(c, err.Error())
		default:
			utils.InternalErrorResponse(c, "")
		}
		return
	}

	utils.SuccessResponse(c, gin.H{"message": "User deleted"})
}

// GET /admin/orders
func (h *AdminHandler) ListOrders(c *gin.Context) {
	params := utils.GetPaginationParams(c)
	status := c.Query("status")

	result, err := h.adminService.ListOrders(params, status)
	if err != nil {
		utils.InternalErrorResponse(c, "")
		return
	}

	utils.PaginatedResponse(c, *result)
}

// DELETE /admin/orders/:id
func (h *AdminHandler) DeleteOrder(c *gin.Context) {
	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid order ID", nil)
		return
	}

	if err := h.adminService.DeleteOrder(orderID); err != nil {
		if errors.Is(err, services.ErrOrderNotFound) {
			utils.NotFoundResponse(c, "order")
			return
		}
		utils.InternalErrorResponse(c, "")
		return
	}

	utils.SuccessResponse(c, gin.H{"message": "Order deleted"})
}

// GET /admin/coupons
func (h *AdminHandler) ListCoupons(c *gin.Context) {
	stats, err := h.couponService.ListWithStats()
	if err != nil {
		utils.InternalErrorResponse(c, "")
		return
	}

	utils.SuccessResponse(c, stats)
}

// POST /admin/coupons
func (h *AdminHandler) CreateCoupon(c *gin.Context) {
	var req services.CreateCouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid input", err.Error())
		return
	}

	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	coupon, err := h.couponService.Create(&req)
	if err != nil {
		if errors.Is(err, services.ErrCouponCodeTaken) {
			utils.ConflictResponse(c, err.Error())
			return
		}
		utils.BadRequestResponse(c, err.Error(), nil)
		return
	}

	utils.CreatedResponse(c, coupon)
}

// PUT /admin/coupons/:id
func (h *AdminHandler) UpdateCoupon(c *gin.Context) {
	couponID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid coupon ID", nil)
		return
	}

	var req services.UpdateCouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid input", err.Error())
		return
	}

	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	coupon, err := h.couponService.Update(couponID, &req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrCouponNotFound):
			utils.NotFoundResponse(c, "coupon")
		case errors.Is(err, services.ErrCouponCodeTaken):
			utils.ConflictResponse(c, err.Error())
		default:
			utils.BadRequestResponse(c, err.Error(), nil)
		}
		return
	}

	utils.SuccessResponse(c, coupon)
}

// POST /admin/coupons/:id/toggle
func (h *AdminHandler) ToggleCoupon(c *gin.Context) {
	couponID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid coupon ID", nil)
		return
	}

	isActive, err := h.couponService.ToggleActive(couponID)
	if err != nil {
		if errors.Is(err, services.ErrCouponNotFound) {
			utils.NotFoundResponse(c, "coupon")
			return
		}
		utils.InternalErrorResponse(c, "")
		return
	}

	utils.SuccessResponse(c, gin.H{"is_active": isActive})
}

// DELETE /admin/coupons/:id
func (h *AdminHandler) DeleteCoupon(c *gin.Context) {
	couponID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid coupon ID", nil)
		return
	}

	if err := h.couponService.Delete(couponID); err != nil {
		switch {
		case errors.Is(err, services.ErrCouponNotFound):
			utils.NotFoundResponse(c, "coupon")
		case errors.Is(err, services.ErrCouponInUse):
			utils.ConflictResponse(c, err.Error())
		default:
			utils.InternalErrorResponse(c, "")
		}
		return
	}

	utils.SuccessResponse(c, gin.H{"message": "Coupon deleted"})
}
