// internal/services/admin_service_test.go
package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/soukhub/marketplace-backend/internal/models"
)

func createTestAdmin(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()

	user := &models.User{
		Username: "rootadmin",
		Email:    "admin@example.com",
		FullName: "Platform Admin",
		UserType: models.UserTypeAdmin,
		Status:   models.UserStatusActive,
	}
	require.NoError(t, user.SetPassword("AdminPass123!"))
	require.NoError(t, db.Create(user).Error)
	return user
}

func TestToggleSuspend(t *testing.T) {
	db := setupTestDB(t)
	svc := NewAdminService(db, nil)

	client := createTestClient(t, db)

	status, err := svc.ToggleSuspend(client.ID)
	require.NoError(t, err)
	assert.Equal(t, models.UserStatusSuspended, status)

	status, err = svc.ToggleSuspend(client.ID)
	require.NoError(t, err)
	assert.Equal(t, models.UserStatusActive, status)
}

func TestToggleSuspendProtectsAdmins(t *testing.T) {
	db := setupTestDB(t)
	svc := NewAdminService(db, nil)

	admin := createTestAdmin(t, db)

	_, err := svc.ToggleSuspend(admin.ID)
	assert.ErrorIs(t, err, ErrCannotModifyAdmin)

	assert.ErrorIs(t, svc.DeleteUser(admin.ID), ErrCannotModifyAdmin)
}

func TestDeleteOrderCascades(t *testing.T) {
	db := setupTestDB(t)
	adminSvc := NewAdminService(db, nil)
	orderSvc := newOrderService(db)

	seller := createTestSeller(t, db)
	client := createTestClient(t, db)
	product := createTestProduct(t, db, seller.ID, 10.0, 10)

	fillCart(t, db, client.ID, map[uuid.UUID]int{product.ID: 2})
	order, err := orderSvc.Checkout(context.Background(), client.ID, &CheckoutRequest{})
	require.NoError(t, err)

	require.NoError(t, adminSvc.DeleteOrder(order.ID))

	var lines int64
	require.NoError(t, db.Model(&models.OrderedItem{}).Where("order_id = ?", order.ID).Count(&lines).Error)
	assert.Equal(t, int64(0), lines)

	_, err = orderSvc.GetOrder(order.ID)
	assert.ErrorIs(t, err, ErrOrderNotFound)
}

func TestDeleteClientCascades(t *testing.T) {
	db := setupTestDB(t)
	adminSvc := NewAdminService(db, nil)
	orderSvc := newOrderService(db)
	reviewSvc := NewReviewService(db)
	sellerSvc := NewSellerService(db)

	seller := createTestSeller(t, db)
	client := createTestClient(t, db)
	product := createTestProduct(t, db, seller.ID, 10.0, 10)

	fillCart(t, db, client.ID, map[uuid.UUID]int{product.ID: 1})
	order, err := orderSvc.Checkout(context.Background(), client.ID, &CheckoutRequest{})
	require.NoError(t, err)

	_, err = reviewSvc.ReviewProduct(client.ID, product.ID, &SubmitReviewRequest{Rating: 4})
	require.NoError(t, err)

	_, err = sellerSvc.ToggleFavourite(client.ID, seller.ID)
	require.NoError(t, err)

	require.NoError(t, adminSvc.DeleteUser(client.ID))

	var count int64
	require.NoError(t, db.Model(&models.Order{}).Where("id = ?", order.ID).Count(&count).Error)
	assert.Equal(t, int64(0), count)
	require.NoError(t, db.Model(&models.OrderedItem{}).Where("order_id = ?", order.ID).Count(&count).Error)
	assert.Equal(t, int64(0), count)
	require.NoError(t, db.Model(&models.ProductReview{}).Where("client_id = ?", client.ID).Count(&count).Error)
	assert.Equal(t, int64(0), count)
	require.NoError(t, db.Model(&models.Favourite{}).Where("client_id = ?", client.ID).Count(&count).Error)
	assert.Equal(t, int64(0), count)
	require.NoError(t, db.Model(&models.Client{}).Where("id = ?", client.ID).Count(&count).Error)
	assert.Equal(t, int64(0), count)
	require.NoError(t, db.Model(&models.User{}).Where("id = ?", client.ID).Count(&count).Error)
	assert.Equal(t, int64(0), count)

	// The seller's catalog is untouched.
	require.NoError(t, db.Model(&models.Product{}).Where("seller_id = ?", seller.ID).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestDeleteSellerCascades(t *testing.T) {
	db := setupTestDB(t)
	adminSvc := NewAdminService(db, nil)
	orderSvc := newOrderService(db)

	seller := createTestSeller(t, db)
	client := createTestClient(t, db)
	product := createTestProduct(t, db, seller.ID, 10.0, 10)

	fillCart(t, db, client.ID, map[uuid.UUID]int{product.ID: 1})
	_, err := orderSvc.Checkout(context.Background(), client.ID, &CheckoutRequest{})
	require.NoError(t, err)

	require.NoError(t, adminSvc.DeleteUser(seller.ID))

	var count int64
	require.NoError(t, db.Model(&models.Product{}).Where("seller_id = ?", seller.ID).Count(&count).Error)
	assert.Equal(t, int64(0), count)
	require.NoError(t, db.Model(&models.Order{}).Where("seller_id = ?", seller.ID).Count(&count).Error)
	assert.Equal(t, int64(0), count)
	require.NoError(t, db.Model(&models.Seller{}).Where("id = ?", seller.ID).Count(&count).Error)
	assert.Equal(t, int64(0), count)

	// The client account survives its orders.
	require.NoError(t, db.Model(&models.User{}).Where("id = ?", client.ID).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestDashboardStats(t *testing.T) {
	db := setupTestDB(t)
	adminSvc := NewAdminService(db, nil)
	orderSvc := newOrderService(db)

	seller := createTestSeller(t, db)
	client := createTestClient(t, db)
	courier := createTestCourier(t, db)
	product := createTestProduct(t, db, seller.ID, 50.0, 10)

	fillCart(t, db, client.ID, map[uuid.UUID]int{product.ID: 1})
	order, err := orderSvc.Checkout(context.Background(), client.ID, &CheckoutRequest{})
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		_, err = orderSvc.AdvanceStatus(context.Background(), order.ID, courier.ID)
		require.NoError(t, err)
	}

	stats, err := adminSvc.GetDashboardStats()
	require.NoError(t, err)

	assert.Equal(t, int64(3), stats.TotalUsers)
	assert.Equal(t, int64(1), stats.TotalClients)
	assert.Equal(t, int64(1), stats.TotalSellers)
	assert.Equal(t, int64(1), stats.TotalCouriers)
	assert.Equal(t, int64(1), stats.TotalOrders)
	assert.Equal(t, int64(1), stats.DeliveredOrders)
	assert.Equal(t, int64(0), stats.PendingOrders)
	assert.InDelta(t, 65.0, stats.TotalRevenue, 0.001)
}
