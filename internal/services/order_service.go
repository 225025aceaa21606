// internal/services/order_service.go
package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/soukhub/marketplace-backend/internal/cache"
	"github.com/soukhub/marketplace-backend/internal/config"
	"github.com/soukhub/marketplace-backend/internal/events"
	"github.com/soukhub/marketplace-backend/internal/models"
	"github.com/soukhub/marketplace-backend/internal/utils"
)

var (
	ErrEmptyCart         = errors.New("cart is empty")
	ErrMixedSellerCart   = errors.New("cart references more than one seller")
	ErrOrderNotFound     = errors.New("order not found")
	ErrOrderNotClaimable = errors.New("order is not awaiting a courier")
	ErrOrderNotAssigned  = errors.New("order is assigned to another courier")
	ErrOrderTerminal     = errors.New("order is in a terminal state")
)

type CheckoutRequest struct {
	CouponCode string `json:"coupon_code,omitempty" validate:"omitempty,coupon_code"`
}

type OrderService struct {
	db           *gorm.DB
	cfg          *config.Config
	cache        *cache.Cache
	publisher    *events.Publisher
	notification *NotificationService
}

func NewOrderService(db *gorm.DB, cfg *config.Config, cache *cache.Cache, publisher *events.Publisher, notification *NotificationService) *OrderService {
	return &OrderService{
		db:           db,
		cfg:          cfg,
		cache:        cache,
		publisher:    publisher,
		notification: notification,
	}
}

// Checkout converts the client's cart into a persisted order in one
// database transaction: order row, price-snapshot lines, clamped stock
// decrements, cart wipe. Either all of it lands or none of it does.
func (s *OrderService) Checkout(ctx context.Context, clientID uuid.UUID, req *CheckoutRequest) (*models.Order, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	var order *models.Order

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var cartItems []models.CartItem
		if err := tx.Preload("Product").
			Where("client_id = ?", clientID).
			Order("created_at").
			Find(&cartItems).Error; err != nil {
			return fmt.Errorf("failed to load cart: %w", err)
		}

		if len(cartItems) == 0 {
			return ErrEmptyCart
		}

		// The cart service keeps carts single-seller; a violation here
		// means corrupted state, so refuse rather than guess.
		sellerID := cartItems[0].Product.SellerID
		for _, item := range cartItems {
			if item.Product.SellerID != sellerID {
				return ErrMixedSellerCart
			}
		}

		itemsTotal := 0.0
		for _, item := range cartItems {
			itemsTotal += item.Product.Price * float64(item.Quantity)
		}
		total := itemsTotal + s.cfg.Checkout.DeliveryFee

		var couponID *uuid.UUID
		discount := 0.0
		if req.CouponCode != "" {
			var coupon models.Coupon
			if err := tx.Where("code = ?", req.CouponCode).First(&coupon).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return ErrCouponNotFound
				}
				return fmt.Errorf("database error: %w", err)
			}
			if err := EvaluateCoupon(&coupon, total, time.Now()); err != nil {
				return err
			}
			discount = coupon.DiscountValue
			couponID = &coupon.ID
		}

		order = &models.Order{
			ClientID:   clientID,
			SellerID:   sellerID,
			CouponID:   couponID,
			Status:     models.OrderStatusPendingDelivery,
			ItemsTotal: itemsTotal,
			Discount:   discount,
			TotalPrice: total - discount,
		}
		if err := tx.Create(order).Error; err != nil {
			return fmt.Errorf("failed to create order: %w", err)
		}

		orderedItems := make([]models.OrderedItem, 0, len(cartItems))
		for _, item := range cartItems {
			// Single-statement decrement clamped at zero, so two
			// concurrent checkouts can never drive stock negative.
			if err := tx.Model(&models.Product{}).
				Where("id = ?", item.ProductID).
				UpdateColumn("available_stock",
					gorm.Expr("CASE WHEN available_stock >= ? THEN available_stock - ? ELSE 0 END",
						item.Quantity, item.Quantity)).Error; err != nil {
				return fmt.Errorf("failed to decrement stock: %w", err)
			}

			orderedItems = append(orderedItems, models.OrderedItem{
				OrderID:   order.ID,
				ProductID: item.ProductID,
				SellerID:  sellerID,
				Quantity:  item.Quantity,
				UnitPrice: item.Product.Price,
			})
		}

		if err := tx.Create(&orderedItems).Error; err != nil {
			return fmt.Errorf("failed to create order lines: %w", err)
		}

		if err := tx.Where("client_id = ?", clientID).Delete(&models.CartItem{}).Error; err != nil {
			return fmt.Errorf("failed to clear cart: %w", err)
		}

		order.OrderedItems = orderedItems
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.cache.InvalidateCartCount(ctx, clientID)
	s.publishOrderCreated(ctx, order, req.CouponCode)

	if s.notification != nil {
		if full, ferr := s.GetOrder(order.ID); ferr == nil {
			go s.notification.SendOrderConfirmationEmail(full)
		}
	}

	return order, nil
}

func (s *OrderService) GetOrder(id uuid.UUID) (*models.Order, error) {
	var order models.Order
	if err := s.db.Preload("OrderedItems").Preload("OrderedItems.Product").
		Preload("Seller").Preload("Seller.User").
		Preload("Client").Preload("Client.User").
		Preload("Coupon").
		First(&order, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &order, nil
}

// History lists a client's orders, newest first.
func (s *OrderService) History(clientID uuid.UUID) ([]models.Order, error) {
	var orders []models.Order
	if err := s.db.Preload("OrderedItems").Preload("OrderedItems.Product").
		Preload("Seller").Preload("Seller.User").
		Preload("Coupon").
		Where("client_id = ?", clientID).
		Order("created_at DESC").
		Find(&orders).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch order history: %w", err)
	}
	return orders, nil
}

// SellerOrders lists every order placed against a seller's storefront,
// newest first.
func (s *OrderService) SellerOrders(sellerID uuid.UUID) ([]models.Order, error) {
	var orders []models.Order
	if err := s.db.Preload("OrderedItems").Preload("OrderedItems.Product").
		Preload("Client").Preload("Client.User").
		Where("seller_id = ?", sellerID).
		Order("created_at DESC").
		Find(&orders).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch seller orders: %w", err)
	}
	return orders, nil
}

// PendingOrders is the open pool couriers pick work from.
func (s *OrderService) PendingOrders() ([]models.Order, error) {
	var orders []models.Order
	if err := s.db.Preload("Seller").Preload("Seller.User").
		Preload("Client").Preload("Client.User").
		Where("status = ?", models.OrderStatusPendingDelivery).
		Order("created_at").
		Find(&orders).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch pending orders: %w", err)
	}
	return orders, nil
}

// CourierOrders lists a courier's active (processing/shipped) orders.
func (s *OrderService) CourierOrders(courierID uuid.UUID) ([]models.Order, error) {
	var orders []models.Order
	if err := s.db.Preload("Seller").Preload("Seller.User").
		Preload("Client").Preload("Client.User").
		Where("courier_id = ? AND status IN ?", courierID,
			[]models.OrderStatus{models.OrderStatusProcessing, models.OrderStatusShipped}).
		Order("created_at").
		Find(&orders).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch courier orders: %w", err)
	}
	return orders, nil
}

// CourierHistory lists a courier's delivered orders, newest first.
func (s *OrderService) CourierHistory(courierID uuid.UUID) ([]models.Order, error) {
	var orders []models.Order
	if err := s.db.Preload("Seller").Preload("Seller.User").
		Preload("Client").Preload("Client.User").
		Where("courier_id = ? AND status = ?", courierID, models.OrderStatusDelivered).
		Order("created_at DESC").
		Find(&orders).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch courier history: %w", err)
	}
	return orders, nil
}

// AdvanceStatus moves an order exactly one step forward. The first
// step (pending_delivery → processing) doubles as the claim: it writes
// the courier onto the order. Every transition is a conditional
// single-statement update guarded on the current status, so two
// couriers racing on the same order cannot both win. Terminal states
// are a no-op.
func (s *OrderService) AdvanceStatus(ctx context.Context, orderID, courierID uuid.UUID) (models.OrderStatus, error) {
	var order models.Order
	if err := s.db.First(&order, "id = ?", orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrOrderNotFound
		}
		return "", fmt.Errorf("database error: %w", err)
	}

	if order.Status.IsTerminal() {
		return order.Status, nil
	}

	next := order.Status.Next()

	var res *gorm.DB
	if order.Status == models.OrderStatusPendingDelivery {
		res = s.db.Model(&models.Order{}).
			Where("id = ? AND status = ?", orderID, models.OrderStatusPendingDelivery).
			Updates(map[string]interface{}{
				"status":     next,
				"courier_id": courierID,
			})
	} else {
		if order.CourierID == nil || *order.CourierID != courierID {
			return "", ErrOrderNotAssigned
		}
		res = s.db.Model(&models.Order{}).
			Where("id = ? AND status = ?", orderID, order.Status).
			Update("status", next)
	}

	if res.Error != nil {
		return "", fmt.Errorf("failed to advance order status: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		// Lost the race: someone else moved the order first.
		return "", ErrOrderNotClaimable
	}

	s.publishStatusChange(ctx, orderID, order.Status, next, &courierID)
	return next, nil
}

// Cancel marks an order cancelled unless it already reached a terminal
// state.
func (s *OrderService) Cancel(ctx context.Context, orderID uuid.UUID) error {
	var order models.Order
	if err := s.db.First(&order, "id = ?", orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrOrderNotFound
		}
		return fmt.Errorf("database error: %w", err)
	}

	if order.Status.IsTerminal() {
		return ErrOrderTerminal
	}

	res := s.db.Model(&models.Order{}).
		Where("id = ? AND status = ?", orderID, order.Status).
		Update("status", models.OrderStatusCancelled)
	if res.Error != nil {
		return fmt.Errorf("failed to cancel order: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrOrderTerminal
	}

	s.publishStatusChange(ctx, orderID, order.Status, models.OrderStatusCancelled, nil)
	return nil
}

// CourierStats is the courier dashboard snapshot, returned as a value
// instead of being smuggled to the view through shared request state.
type CourierStats struct {
	DeliveredToday   int64   `json:"delivered_today"`
	DeliveredWeek    int64   `json:"delivered_week"`
	DeliveredMonth   int64   `json:"delivered_month"`
	DeliveredAll     int64   `json:"delivered_all"`
	EarningsToday    float64 `json:"earnings_today"`
	EarningsWeek     float64 `json:"earnings_week"`
	EarningsMonth    float64 `json:"earnings_month"`
	EarningsAll      float64 `json:"earnings_all"`
	ActiveDeliveries int64   `json:"active_deliveries"`
	PendingPool      int64   `json:"pending_pool"`
}

// Stats computes a courier's dashboard numbers. Earnings are the
// configured percentage of each delivered order's total.
func (s *OrderService) Stats(courierID uuid.UUID) (*CourierStats, error) {
	now := time.Now()
	startOfToday := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	startOfWeek := startOfToday.AddDate(0, 0, -int(now.Weekday()))
	startOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	stats := &CourierStats{}
	feeRate := s.cfg.Checkout.CourierFeePercent / 100

	deliveredScope := func(since *time.Time) *gorm.DB {
		query := s.db.Model(&models.Order{}).
			Where("courier_id = ? AND status = ?", courierID, models.OrderStatusDelivered)
		if since != nil {
			query = query.Where("created_at >= ?", *since)
		}
		return query
	}

	delivered := func(since *time.Time) (int64, float64, error) {
		var count int64
		if err := deliveredScope(since).Count(&count).Error; err != nil {
			return 0, 0, err
		}

		var revenue float64
		if err := deliveredScope(since).Select("COALESCE(SUM(total_price), 0)").Scan(&revenue).Error; err != nil {
			return 0, 0, err
		}
		return count, revenue * feeRate, nil
	}

	var err error
	if stats.DeliveredToday, stats.EarningsToday, err = delivered(&startOfToday); err != nil {
		return nil, fmt.Errorf("failed to compute courier stats: %w", err)
	}
	if stats.DeliveredWeek, stats.EarningsWeek, err = delivered(&startOfWeek); err != nil {
		return nil, fmt.Errorf("failed to compute courier stats: %w", err)
	}
	if stats.DeliveredMonth, stats.EarningsMonth, err = delivered(&startOfMonth); err != nil {
		return nil, fmt.Errorf("failed to compute courier stats: %w", err)
	}
	if stats.DeliveredAll, stats.EarningsAll, err = delivered(nil); err != nil {
		return nil, fmt.Errorf("failed to compute courier stats: %w", err)
	}

	if err := s.db.Model(&models.Order{}).
		Where("courier_id = ? AND status IN ?", courierID,
			[]models.OrderStatus{models.OrderStatusProcessing, models.OrderStatusShipped}).
		Count(&stats.ActiveDeliveries).Error; err != nil {
		return nil, fmt.Errorf("failed to compute courier stats: %w", err)
	}

	if err := s.db.Model(&models.Order{}).
		Where("status = ?", models.OrderStatusPendingDelivery).
		Count(&stats.PendingPool).Error; err != nil {
		return nil, fmt.Errorf("failed to compute courier stats: %w", err)
	}

	return stats, nil
}

func (s *OrderService) publishOrderCreated(ctx context.Context, order *models.Order, couponCode string) {
	items := make([]events.OrderItemPayload, 0, len(order.OrderedItems))
	for _, item := range order.OrderedItems {
		items = append(items, events.OrderItemPayload{
			ProductID: item.ProductID.String(),
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
		})
	}

	s.publisher.Publish(ctx, order.ID.String(), events.NewEnvelope(events.EventOrderCreated,
		events.OrderCreatedPayload{
			OrderID:    order.ID.String(),
			ClientID:   order.ClientID.String(),
			SellerID:   order.SellerID.String(),
			TotalPrice: order.TotalPrice,
			Discount:   order.Discount,
			CouponCode: couponCode,
			Items:      items,
		}))
}

func (s *OrderService) publishStatusChange(ctx context.Context, orderID uuid.UUID, from, to models.OrderStatus, courierID *uuid.UUID) {
	payload := events.OrderStatusChangedPayload{
		OrderID: orderID.String(),
		From:    string(from),
		To:      string(to),
	}
	if courierID != nil {
		payload.CourierID = courierID.String()
	}

	eventType := events.EventOrderStatusChanged
	if to == models.OrderStatusCancelled {
		eventType = events.EventOrderCancelled
	}

	s.publisher.Publish(ctx, orderID.String(), events.NewEnvelope(eventType, payload))
}
