// internal/services/order_service_test.go
package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/soukhub/marketplace-backend/internal/models"
)

func newOrderService(db *gorm.DB) *OrderService {
	return NewOrderService(db, newTestConfig(), nil, nil, nil)
}

func fillCart(t *testing.T, db *gorm.DB, clientID uuid.UUID, lines map[uuid.UUID]int) {
	t.Helper()
	svc := NewCartService(db, nil)
	for productID, qty := range lines {
		_, err := svc.AddItem(context.Background(), clientID, &AddCartItemRequest{ProductID: productID, Quantity: qty})
		require.NoError(t, err)
	}
}

func TestCheckoutTotals(t *testing.T) {
	db := setupTestDB(t)
	svc := newOrderService(db)

	seller := createTestSeller(t, db)
	client := createTestClient(t, db)
	productA := createTestProduct(t, db, seller.ID, 50.0, 10)
	productB := createTestProduct(t, db, seller.ID, 15.0, 10)

	fillCart(t, db, client.ID, map[uuid.UUID]int{productA.ID: 2, productB.ID: 2})

	order, err := svc.Checkout(context.Background(), client.ID, &CheckoutRequest{})
	require.NoError(t, err)

	assert.Equal(t, 130.0, order.ItemsTotal)
	assert.Equal(t, 145.0, order.TotalPrice) // items plus 15.00 delivery
	assert.Equal(t, 0.0, order.Discount)
	assert.Equal(t, models.OrderStatusPendingDelivery, order.Status)
	assert.Equal(t, seller.ID, order.SellerID)
	assert.Nil(t, order.CouponID)
	assert.Len(t, order.OrderedItems, 2)

	// Checkout empties the cart.
	var remaining int64
	require.NoError(t, db.Model(&models.CartItem{}).Where("client_id = ?", client.ID).Count(&remaining).Error)
	assert.Equal(t, int64(0), remaining)
}

func TestCheckoutEmptyCart(t *testing.T) {
	db := setupTestDB(t)
	svc := newOrderService(db)

	client := createTestClient(t, db)

	_, err := svc.Checkout(context.Background(), client.ID, &CheckoutRequest{})
	assert.ErrorIs(t, err, ErrEmptyCart)
}

func TestCheckoutAppliesCoupon(t *testing.T) {
	db := setupTestDB(t)
	svc := newOrderService(db)

	seller := createTestSeller(t, db)
	client := createTestClient(t, db)
	product := createTestProduct(t, db, seller.ID, 65.0, 10)
	coupon := createTestCoupon(t, db, "SAVE20", 100, 20, true, time.Now().Add(time.Hour))

	fillCart(t, db, client.ID, map[uuid.UUID]int{product.ID: 2})

	order, err := svc.Checkout(context.Background(), client.ID, &CheckoutRequest{CouponCode: "SAVE20"})
	require.NoError(t, err)

	assert.Equal(t, 130.0, order.ItemsTotal)
	assert.Equal(t, 20.0, order.Discount)
	assert.Equal(t, 125.0, order.TotalPrice)
	require.NotNil(t, order.CouponID)
	assert.Equal(t, coupon.ID, *order.CouponID)
}

func TestCheckoutRejectsIneligibleCoupon(t *testing.T) {
	db := setupTestDB(t)
	svc := newOrderService(db)

	seller := createTestSeller(t, db)
	client := createTestClient(t, db)
	product := createTestProduct(t, db, seller.ID, 10.0, 10)
	createTestCoupon(t, db, "BIG50", 500, 50, true, time.Now().Add(time.Hour))

	fillCart(t, db, client.ID, map[uuid.UUID]int{product.ID: 1})

	_, err := svc.Checkout(context.Background(), client.ID, &CheckoutRequest{CouponCode: "BIG50"})
	assert.ErrorIs(t, err, ErrCouponMinimumNotMet)

	// A failed checkout leaves the cart in place.
	var remaining int64
	require.NoError(t, db.Model(&models.CartItem{}).Where("client_id = ?", client.ID).Count(&remaining).Error)
	assert.Equal(t, int64(1), remaining)
}

func TestCheckoutDecrementsStock(t *testing.T) {
	db := setupTestDB(t)
	svc := newOrderService(db)

	seller := createTestSeller(t, db)
	client := createTestClient(t, db)
	product := createTestProduct(t, db, seller.ID, 10.0, 5)

	fillCart(t, db, client.ID, map[uuid.UUID]int{product.ID: 2})

	_, err := svc.Checkout(context.Background(), client.ID, &CheckoutRequest{})
	require.NoError(t, err)

	var updated models.Product
	require.NoError(t, db.First(&updated, "id = ?", product.ID).Error)
	assert.Equal(t, 3, updated.AvailableStock)
}

func TestCheckoutClampsStockAtZero(t *testing.T) {
	db := setupTestDB(t)
	svc := newOrderService(db)

	seller := createTestSeller(t, db)
	client := createTestClient(t, db)
	product := createTestProduct(t, db, seller.ID, 10.0, 1)

	fillCart(t, db, client.ID, map[uuid.UUID]int{product.ID: 3})

	order, err := svc.Checkout(context.Background(), client.ID, &CheckoutRequest{})
	require.NoError(t, err)

	// The order records what was requested; stock never goes negative.
	assert.Equal(t, 3, order.OrderedItems[0].Quantity)

	var updated models.Product
	require.NoError(t, db.First(&updated, "id = ?", product.ID).Error)
	assert.Equal(t, 0, updated.AvailableStock)
}

func TestOrderLinesSnapshotPrice(t *testing.T) {
	db := setupTestDB(t)
	svc := newOrderService(db)

	seller := createTestSeller(t, db)
	client := createTestClient(t, db)
	product := createTestProduct(t, db, seller.ID, 30.0, 10)

	fillCart(t, db, client.ID, map[uuid.UUID]int{product.ID: 1})

	order, err := svc.Checkout(context.Background(), client.ID, &CheckoutRequest{})
	require.NoError(t, err)

	// Reprice the product after the sale; the order keeps the price
	// paid.
	require.NoError(t, db.Model(&models.Product{}).
		Where("id = ?", product.ID).
		UpdateColumn("price", 99.0).Error)

	reloaded, err := svc.GetOrder(order.ID)
	require.NoError(t, err)
	assert.Equal(t, 30.0, reloaded.OrderedItems[0].UnitPrice)
	assert.Equal(t, 45.0, reloaded.TotalPrice)
}

func TestOrderLifecycle(t *testing.T) {
	db := setupTestDB(t)
	svc := newOrderService(db)
	ctx := context.Background()

	seller := createTestSeller(t, db)
	client := createTestClient(t, db)
	courier := createTestCourier(t, db)
	product := createTestProduct(t, db, seller.ID, 10.0, 10)

	fillCart(t, db, client.ID, map[uuid.UUID]int{product.ID: 1})
	order, err := svc.Checkout(ctx, client.ID, &CheckoutRequest{})
	require.NoError(t, err)

	// First advance claims the order for the courier.
	status, err := svc.AdvanceStatus(ctx, order.ID, courier.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusProcessing, status)

	reloaded, err := svc.GetOrder(order.ID)
	require.NoError(t, err)
	require.NotNil(t, reloaded.CourierID)
	assert.Equal(t, courier.ID, *reloaded.CourierID)

	status, err = svc.AdvanceStatus(ctx, order.ID, courier.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusShipped, status)

	status, err = svc.AdvanceStatus(ctx, order.ID, courier.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusDelivered, status)

	// Delivered is terminal; another advance is a no-op.
	status, err = svc.AdvanceStatus(ctx, order.ID, courier.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusDelivered, status)
}

func TestAdvanceStatusRejectsOtherCourier(t *testing.T) {
	db := setupTestDB(t)
	svc := newOrderService(db)
	ctx := context.Background()

	seller := createTestSeller(t, db)
	client := createTestClient(t, db)
	courier := createTestCourier(t, db)
	intruder := createTestCourier(t, db)
	product := createTestProduct(t, db, seller.ID, 10.0, 10)

	fillCart(t, db, client.ID, map[uuid.UUID]int{product.ID: 1})
	order, err := svc.Checkout(ctx, client.ID, &CheckoutRequest{})
	require.NoError(t, err)

	_, err = svc.AdvanceStatus(ctx, order.ID, courier.ID)
	require.NoError(t, err)

	_, err = svc.AdvanceStatus(ctx, order.ID, intruder.ID)
	assert.ErrorIs(t, err, ErrOrderNotAssigned)
}

func TestCancelOrder(t *testing.T) {
	db := setupTestDB(t)
	svc := newOrderService(db)
	ctx := context.Background()

	seller := createTestSeller(t, db)
	client := createTestClient(t, db)
	courier := createTestCourier(t, db)
	product := createTestProduct(t, db, seller.ID, 10.0, 10)

	fillCart(t, db, client.ID, map[uuid.UUID]int{product.ID: 1})
	order, err := svc.Checkout(ctx, client.ID, &CheckoutRequest{})
	require.NoError(t, err)

	require.NoError(t, svc.Cancel(ctx, order.ID))

	reloaded, err := svc.GetOrder(order.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusCancelled, reloaded.Status)

	// Cancelled is terminal for both cancel and advance.
	assert.ErrorIs(t, svc.Cancel(ctx, order.ID), ErrOrderTerminal)

	status, err := svc.AdvanceStatus(ctx, order.ID, courier.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusCancelled, status)
}

func TestCourierQueuesAndStats(t *testing.T) {
	db := setupTestDB(t)
	svc := newOrderService(db)
	ctx := context.Background()

	seller := createTestSeller(t, db)
	client := createTestClient(t, db)
	courier := createTestCourier(t, db)
	product := createTestProduct(t, db, seller.ID, 65.0, 100)

	// Two orders: one taken through to delivery, one left pending.
	fillCart(t, db, client.ID, map[uuid.UUID]int{product.ID: 2})
	delivered, err := svc.Checkout(ctx, client.ID, &CheckoutRequest{})
	require.NoError(t, err)

	fillCart(t, db, client.ID, map[uuid.UUID]int{product.ID: 1})
	_, err = svc.Checkout(ctx, client.ID, &CheckoutRequest{})
	require.NoError(t, err)

	pending, err := svc.PendingOrders()
	require.NoError(t, err)
	assert.Len(t, pending, 2)

	for i := 0; i < 3; i++ {
		_, err = svc.AdvanceStatus(ctx, delivered.ID, courier.ID)
		require.NoError(t, err)
	}

	pending, err = svc.PendingOrders()
	require.NoError(t, err)
	assert.Len(t, pending, 1)

	history, err := svc.CourierHistory(courier.ID)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, delivered.ID, history[0].ID)

	stats, err := svc.Stats(courier.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.DeliveredAll)
	assert.Equal(t, int64(1), stats.PendingPool)
	assert.Equal(t, int64(0), stats.ActiveDeliveries)
	// 10 percent of the delivered order's 145.00 total.
	assert.InDelta(t, 14.5, stats.EarningsAll, 0.001)
}
