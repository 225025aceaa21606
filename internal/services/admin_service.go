// internal/services/admin_service.go
package services

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/soukhub/marketplace-backend/internal/models"
	"github.com/soukhub/marketplace-backend/internal/utils"
)

var ErrCannotModifyAdmin = errors.New("admin accounts cannot be modified this way")

type AdminService struct {
	db           *gorm.DB
	notification *NotificationService
}

func NewAdminService(db *gorm.DB, notification *NotificationService) *AdminService {
	return &AdminService{db: db, notification: notification}
}

// DashboardStats is the admin landing-page snapshot.
type DashboardStats struct {
	TotalUsers      int64   `json:"total_users"`
	TotalClients    int64   `json:"total_clients"`
	TotalSellers    int64   `json:"total_sellers"`
	TotalCouriers   int64   `json:"total_couriers"`
	SuspendedUsers  int64   `json:"suspended_users"`
	TotalProducts   int64   `json:"total_products"`
	TotalOrders     int64   `json:"total_orders"`
	PendingOrders   int64   `json:"pending_orders"`
	DeliveredOrders int64   `json:"delivered_orders"`
	CancelledOrders int64   `json:"cancelled_orders"`
	TotalRevenue    float64 `json:"total_revenue"`
	ActiveCoupons   int64   `json:"active_coupons"`
}

func (s *AdminService) GetDashboardStats() (*DashboardStats, error) {
	stats := &DashboardStats{}

	type countQuery struct {
		dest  *int64
		model interface{}
		cond  []interface{}
	}

	counts := []countQuery{
		{&stats.TotalUsers, &models.User{}, nil},
		{&stats.TotalClients, &models.User{}, []interface{}{"user_type = ?", models.UserTypeClient}},
		{&stats.TotalSellers, &models.User{}, []interface{}{"user_type = ?", models.UserTypeSeller}},
		{&stats.TotalCouriers, &models.User{}, []interface{}{"user_type = ?", models.UserTypeCourier}},
		{&stats.SuspendedUsers, &models.User{}, []interface{}{"status = ?", models.UserStatusSuspended}},
		{&stats.TotalProducts, &models.Product{}, nil},
		{&stats.TotalOrders, &models.Order{}, nil},
		{&stats.PendingOrders, &models.Order{}, []interface{}{"status = ?", models.OrderStatusPendingDelivery}},
		{&stats.DeliveredOrders, &models.Order{}, []interface{}{"status = ?", models.OrderStatusDelivered}},
		{&stats.CancelledOrders, &models.Order{}, []interface{}{"status = ?", models.OrderStatusCancelled}},
		{&stats.ActiveCoupons, &models.Coupon{}, []interface{}{"is_active = ?", true}},
	}

	for _, q := range counts {
		query := s.db.Model(q.model)
		if q.cond != nil {
			query = query.Where(q.cond[0], q.cond[1:]...)
		}
		if err := query.Count(q.dest).Error; err != nil {
			return nil, fmt.Errorf("failed to compute dashboard stats: %w", err)
		}
	}

	if err := s.db.Model(&models.Order{}).
		Where("status = ?", models.OrderStatusDelivered).
		Select("COALESCE(SUM(total_price), 0)").
		Scan(&stats.TotalRevenue).Error; err != nil {
		return nil, fmt.Errorf("failed to compute dashboard stats: %w", err)
	}

	return stats, nil
}

// ListUsers pages through accounts with optional type filter and
// search over name, username and email.
func (s *AdminService) ListUsers(params utils.PaginationParams, userType string) (*utils.PaginationResult, error) {
	query := s.db.Model(&models.User{})

	if userType != "" {
		query = query.Where("user_type = ?", userType)
	}
	if params.Search != "" {
		searchTerm := "%" + params.Search + "%"
		query = query.Where("username LIKE ? OR email LIKE ? OR full_name LIKE ?",
			searchTerm, searchTerm, searchTerm)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count users: %w", err)
	}

	query = utils.ApplySort(query, params, []string{"created_at", "username", "email", "last_login_at"})
	query = utils.ApplyPagination(query, params)

	var users []models.User
	if err := query.Find(&users).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch users: %w", err)
	}

	result := utils.CreatePaginationResult(users, total, params)
	return &result, nil
}

// ToggleSuspend flips a user between active and suspended. Admin
// accounts are off limits.
func (s *AdminService) ToggleSuspend(userID uuid.UUID) (models.UserStatus, error) {
	var user models.User
	if err := s.db.First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrUserNotFound
		}
		return "", fmt.Errorf("database error: %w", err)
	}

	if user.UserType == models.UserTypeAdmin {
		return "", ErrCannotModifyAdmin
	}

	oldStatus := user.Status
	newStatus := models.UserStatusSuspended
	if user.Status == models.UserStatusSuspended {
		newStatus = models.UserStatusActive
	}

	if err := s.db.Model(&user).UpdateColumn("status", newStatus).Error; err != nil {
		return "", fmt.Errorf("failed to update user status: %w", err)
	}

	user.Status = newStatus
	if s.notification != nil {
		go s.notification.SendAccountStatusEmail(&user, oldStatus)
	}

	return newStatus, nil
}

// ListOrders pages through all orders with optional status filter.
func (s *AdminService) ListOrders(params utils.PaginationParams, status string) (*utils.PaginationResult, error) {
	query := s.db.Model(&models.Order{}).
		Preload("Client").Preload("Client.User").
		Preload("Seller").Preload("Seller.User")

	if status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count orders: %w", err)
	}

	query = utils.ApplySort(query, params, []string{"created_at", "total_price", "status"})
	query = utils.ApplyPagination(query, params)

	var orders []models.Order
	if err := query.Find(&orders).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch orders: %w", err)
	}

	result := utils.CreatePaginationResult(orders, total, params)
	return &result, nil
}

// DeleteOrder removes an order and its lines in one transaction,
// children first so foreign keys never dangle.
func (s *AdminService) DeleteOrder(orderID uuid.UUID) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var order models.Order
		if err := tx.First(&order, "id = ?", orderID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrOrderNotFound
			}
			return fmt.Errorf("database error: %w", err)
		}

		if err := tx.Where("order_id = ?", orderID).Delete(&models.OrderedItem{}).Error; err != nil {
			return fmt.Errorf("failed to delete order lines: %w", err)
		}
		if err := tx.Unscoped().Delete(&order).Error; err != nil {
			return fmt.Errorf("failed to delete order: %w", err)
		}
		return nil
	})
}

// DeleteUser removes an account and everything hanging off it in one
// transaction. Deletion order is children before parents throughout.
func (s *AdminService) DeleteUser(userID uuid.UUID) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := tx.First(&user, "id = ?", userID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrUserNotFound
			}
			return fmt.Errorf("database error: %w", err)
		}

		if user.UserType == models.UserTypeAdmin {
			return ErrCannotModifyAdmin
		}

		switch user.UserType {
		case models.UserTypeClient:
			if err := deleteClientData(tx, userID); err != nil {
				return err
			}
		case models.UserTypeSeller:
			if err := deleteSellerData(tx, userID); err != nil {
				return err
			}
		case models.UserTypeCourier:
			// Delivered orders keep their courier reference cleared
			// instead of disappearing from client history.
			if err := tx.Model(&models.Order{}).
				Where("courier_id = ?", userID).
				UpdateColumn("courier_id", nil).Error; err != nil {
				return fmt.Errorf("failed to detach courier orders: %w", err)
			}
			if err := tx.Unscoped().Delete(&models.Courier{}, "id = ?", userID).Error; err != nil {
				return fmt.Errorf("failed to delete courier profile: %w", err)
			}
		}

		if err := tx.Where("user_id = ?", userID).Delete(&models.PasswordReset{}).Error; err != nil {
			return fmt.Errorf("failed to delete reset tokens: %w", err)
		}
		if err := tx.Unscoped().Delete(&user).Error; err != nil {
			return fmt.Errorf("failed to delete user: %w", err)
		}
		return nil
	})
}

func deleteClientData(tx *gorm.DB, clientID uuid.UUID) error {
	if err := tx.Where("client_id = ?", clientID).Delete(&models.CartItem{}).Error; err != nil {
		return fmt.Errorf("failed to delete cart items: %w", err)
	}
	if err := tx.Where("client_id = ?", clientID).Delete(&models.ProductReview{}).Error; err != nil {
		return fmt.Errorf("failed to delete product reviews: %w", err)
	}
	if err := tx.Where("client_id = ?", clientID).Delete(&models.SellerReview{}).Error; err != nil {
		return fmt.Errorf("failed to delete seller reviews: %w", err)
	}
	if err := tx.Where("client_id = ?", clientID).Delete(&models.Favourite{}).Error; err != nil {
		return fmt.Errorf("failed to delete favourites: %w", err)
	}

	var orderIDs []uuid.UUID
	if err := tx.Model(&models.Order{}).
		Where("client_id = ?", clientID).
		Pluck("id", &orderIDs).Error; err != nil {
		return fmt.Errorf("failed to list client orders: %w", err)
	}
	if len(orderIDs) > 0 {
		if err := tx.Where("order_id IN ?", orderIDs).Delete(&models.OrderedItem{}).Error; err != nil {
			return fmt.Errorf("failed to delete order lines: %w", err)
		}
		if err := tx.Unscoped().Where("id IN ?", orderIDs).Delete(&models.Order{}).Error; err != nil {
			return fmt.Errorf("failed to delete orders: %w", err)
		}
	}

	if err := tx.Unscoped().Delete(&models.Client{}, "id = ?", clientID).Error; err != nil {
		return fmt.Errorf("failed to delete client profile: %w", err)
	}
	return nil
}

func deleteSellerData(tx *gorm.DB, sellerID uuid.UUID) error {
	var productIDs []uuid.UUID
	if err := tx.Model(&models.Product{}).
		Where("seller_id = ?", sellerID).
		Pluck("id", &productIDs).Error; err != nil {
		return fmt.Errorf("failed to list seller products: %w", err)
	}
	if len(productIDs) > 0 {
		if err := tx.Where("product_id IN ?", productIDs).Delete(&models.CartItem{}).Error; err != nil {
			return fmt.Errorf("failed to delete cart references: %w", err)
		}
		if err := tx.Where("product_id IN ?", productIDs).Delete(&models.ProductReview{}).Error; err != nil {
			return fmt.Errorf("failed to delete product reviews: %w", err)
		}
	}

	var orderIDs []uuid.UUID
	if err := tx.Model(&models.Order{}).
		Where("seller_id = ?", sellerID).
		Pluck("id", &orderIDs).Error; err != nil {
		return fmt.Errorf("failed to list seller orders: %w", err)
	}
	if len(orderIDs) > 0 {
		if err := tx.Where("order_id IN ?", orderIDs).Delete(&models.OrderedItem{}).Error; err != nil {
			return fmt.Errorf("failed to delete order lines: %w", err)
		}
		if err := tx.Unscoped().Where("id IN ?", orderIDs).Delete(&models.Order{}).Error; err != nil {
			return fmt.Errorf("failed to delete orders: %w", err)
		}
	}

	if err := tx.Unscoped().Where("seller_id = ?", sellerID).Delete(&models.Product{}).Error; err != nil {
		return fmt.Errorf("failed to delete products: %w", err)
	}
	if err := tx.Where("seller_id = ?", sellerID).Delete(&models.SellerReview{}).Error; err != nil {
		return fmt.Errorf("failed to delete seller reviews: %w", err)
	}
	if err := tx.Where("seller_id = ?", sellerID).Delete(&models.Favourite{}).Error; err != nil {
		return fmt.Errorf("failed to delete favourites: %w", err)
	}
	if err := tx.Unscoped().Delete(&models.Seller{}, "id = ?", sellerID).Error; err != nil {
		return fmt.Errorf("failed to delete seller profile: %w", err)
	}
	return nil
}
