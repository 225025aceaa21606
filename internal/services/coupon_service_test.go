// internal/services/coupon_service_test.go
package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soukhub/marketplace-backend/internal/models"
)

func TestEvaluateCouponRuleOrder(t *testing.T) {
	now := time.Now()

	// Expiry is checked before the active flag: an expired inactive
	// coupon reports expired.
	expired := &models.Coupon{
		IsActive:      false,
		ExpireDate:    now.Add(-time.Hour),
		MinimumTotal:  100,
		DiscountValue: 10,
	}
	assert.ErrorIs(t, EvaluateCoupon(expired, 50, now), ErrCouponExpired)

	inactive := &models.Coupon{
		IsActive:      false,
		ExpireDate:    now.Add(time.Hour),
		MinimumTotal:  100,
		DiscountValue: 10,
	}
	assert.ErrorIs(t, EvaluateCoupon(inactive, 50, now), ErrCouponInactive)

	belowMinimum := &models.Coupon{
		IsActive:      true,
		ExpireDate:    now.Add(time.Hour),
		MinimumTotal:  100,
		DiscountValue: 10,
	}
	assert.ErrorIs(t, EvaluateCoupon(belowMinimum, 99.99, now), ErrCouponMinimumNotMet)

	// Exactly at the minimum qualifies.
	assert.NoError(t, EvaluateCoupon(belowMinimum, 100, now))
}

func TestCouponValidateVerdicts(t *testing.T) {
	db := setupTestDB(t)
	svc := NewCouponService(db)

	createTestCoupon(t, db, "SAVE20", 100, 20, true, time.Now().Add(24*time.Hour))

	verdict, err := svc.Validate("SAVE20", 150)
	require.NoError(t, err)
	assert.True(t, verdict.OK)
	assert.Equal(t, 20.0, verdict.Discount)

	// Codes are matched case-insensitively.
	verdict, err = svc.Validate("  save20 ", 150)
	require.NoError(t, err)
	assert.True(t, verdict.OK)

	verdict, err = svc.Validate("SAVE20", 50)
	require.NoError(t, err)
	assert.False(t, verdict.OK)
	assert.Equal(t, ErrCouponMinimumNotMet.Error(), verdict.Reason)

	verdict, err = svc.Validate("NOSUCH", 150)
	require.NoError(t, err)
	assert.False(t, verdict.OK)
	assert.Equal(t, ErrCouponNotFound.Error(), verdict.Reason)
}

func TestCouponCreate(t *testing.T) {
	db := setupTestDB(t)
	svc := NewCouponService(db)

	coupon, err := svc.Create(&CreateCouponRequest{
		Code:          "WELCOME10",
		ExpireDate:    time.Now().Add(48 * time.Hour),
		MinimumTotal:  50,
		DiscountValue: 10,
	})
	require.NoError(t, err)
	assert.True(t, coupon.IsActive)

	_, err = svc.Create(&CreateCouponRequest{
		Code:          "WELCOME10",
		ExpireDate:    time.Now().Add(48 * time.Hour),
		DiscountValue: 5,
	})
	assert.ErrorIs(t, err, ErrCouponCodeTaken)

	_, err = svc.Create(&CreateCouponRequest{
		Code:          "OLD5",
		ExpireDate:    time.Now().Add(-time.Hour),
		DiscountValue: 5,
	})
	assert.Error(t, err)
}

func TestCouponToggleAndDelete(t *testing.T) {
	db := setupTestDB(t)
	svc := NewCouponService(db)

	coupon := createTestCoupon(t, db, "FLASH5", 0, 5, true, time.Now().Add(time.Hour))

	active, err := svc.ToggleActive(coupon.ID)
	require.NoError(t, err)
	assert.False(t, active)

	active, err = svc.ToggleActive(coupon.ID)
	require.NoError(t, err)
	assert.True(t, active)

	require.NoError(t, svc.Delete(coupon.ID))
	_, err = svc.GetByCode("FLASH5")
	assert.ErrorIs(t, err, ErrCouponNotFound)
}

func TestCouponDeleteBlockedWhenUsed(t *testing.T) {
	db := setupTestDB(t)
	svc := NewCouponService(db)

	seller := createTestSeller(t, db)
	client := createTestClient(t, db)
	coupon := createTestCoupon(t, db, "USED15", 0, 15, true, time.Now().Add(time.Hour))

	order := &models.Order{
		ClientID:   client.ID,
		SellerID:   seller.ID,
		CouponID:   &coupon.ID,
		Status:     models.OrderStatusPendingDelivery,
		ItemsTotal: 100,
		Discount:   15,
		TotalPrice: 100,
	}
	require.NoError(t, db.Create(order).Error)

	assert.ErrorIs(t, svc.Delete(coupon.ID), ErrCouponInUse)
}

func TestCouponListWithStats(t *testing.T) {
	db := setupTestDB(t)
	svc := NewCouponService(db)

	seller := createTestSeller(t, db)
	client := createTestClient(t, db)
	used := createTestCoupon(t, db, "BULK25", 200, 25, true, time.Now().Add(time.Hour))
	createTestCoupon(t, db, "UNUSED", 0, 5, true, time.Now().Add(time.Hour))

	for i := 0; i < 2; i++ {
		order := &models.Order{
			ClientID:   client.ID,
			SellerID:   seller.ID,
			CouponID:   &used.ID,
			Status:     models.OrderStatusDelivered,
			ItemsTotal: 250,
			Discount:   25,
			TotalPrice: 240,
		}
		require.NoError(t, db.Create(order).Error)
	}

	stats, err := svc.ListWithStats()
	require.NoError(t, err)
	require.Len(t, stats, 2)

	byCode := map[string]CouponStats{}
	for _, s := range stats {
		byCode[s.Coupon.Code] = s
	}

	assert.Equal(t, int64(2), byCode["BULK25"].TimesUsed)
	assert.Equal(t, 50.0, byCode["BULK25"].TotalSavings)
	assert.NotNil(t, byCode["BULK25"].LastUsedAt)

	assert.Equal(t, int64(0), byCode["UNUSED"].TimesUsed)
	assert.Nil(t, byCode["UNUSED"].LastUsedAt)
}
