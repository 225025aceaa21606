// internal/services/helpers_test.go
package services

import (
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/soukhub/marketplace-backend/internal/config"
	"github.com/soukhub/marketplace-backend/internal/database"
	"github.com/soukhub/marketplace-backend/internal/models"
	"github.com/soukhub/marketplace-backend/internal/utils"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	// A single connection keeps the in-memory database alive for the
	// whole test.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(database.Models()...))
	return db
}

func newTestConfig() *config.Config {
	cfg := &config.Config{
		Environment: "test",
	}
	cfg.JWT.SecretKey = "test-secret"
	cfg.JWT.AccessTokenTTL = 1
	cfg.JWT.RefreshTokenTTL = 24
	cfg.Checkout.DeliveryFee = 15.0
	cfg.Checkout.CourierFeePercent = 10.0
	cfg.Email.FromName = "SoukHub"
	cfg.Frontend.BaseURL = "http://localhost:3000"

	utils.SetJWTSecret(cfg.JWT.SecretKey)
	return cfg
}

var fixtureSeq int

func nextFixtureID() int {
	fixtureSeq++
	return fixtureSeq
}

func createTestClient(t *testing.T, db *gorm.DB) *models.Client {
	t.Helper()

	n := nextFixtureID()
	user := &models.User{
		Username: fmt.Sprintf("client%d", n),
		Email:    fmt.Sprintf("client%d@example.com", n),
		FullName: "Test Client",
		UserType: models.UserTypeClient,
		Status:   models.UserStatusActive,
	}
	require.NoError(t, user.SetPassword("ClientPass123!"))
	require.NoError(t, db.Create(user).Error)

	client := &models.Client{ID: user.ID, Address: "12 Harbor Street"}
	require.NoError(t, db.Create(client).Error)
	return client
}

func createTestSeller(t *testing.T, db *gorm.DB) *models.Seller {
	t.Helper()

	n := nextFixtureID()
	user := &models.User{
		Username: fmt.Sprintf("seller%d", n),
		Email:    fmt.Sprintf("seller%d@example.com", n),
		FullName: "Test Seller",
		UserType: models.UserTypeSeller,
		Status:   models.UserStatusActive,
	}
	require.NoError(t, user.SetPassword("SellerPass123!"))
	require.NoError(t, db.Create(user).Error)

	seller := &models.Seller{
		ID:       user.ID,
		Status:   models.SellerStatusOpen,
		Category: models.SellerCategoryGroceries,
	}
	require.NoError(t, db.Create(seller).Error)
	return seller
}

func createTestCourier(t *testing.T, db *gorm.DB) *models.Courier {
	t.Helper()

	n := nextFixtureID()
	user := &models.User{
		Username: fmt.Sprintf("courier%d", n),
		Email:    fmt.Sprintf("courier%d@example.com", n),
		FullName: "Test Courier",
		UserType: models.UserTypeCourier,
		Status:   models.UserStatusActive,
	}
	require.NoError(t, user.SetPassword("CourierPass123!"))
	require.NoError(t, db.Create(user).Error)

	courier := &models.Courier{ID: user.ID, VehicleInfo: "scooter"}
	require.NoError(t, db.Create(courier).Error)
	return courier
}

func createTestProduct(t *testing.T, db *gorm.DB, sellerID uuid.UUID, price float64, stock int) *models.Product {
	t.Helper()

	product := &models.Product{
		SellerID:       sellerID,
		Name:           fmt.Sprintf("Product %d", nextFixtureID()),
		Price:          price,
		AvailableStock: stock,
	}
	require.NoError(t, db.Create(product).Error)
	return product
}

func createTestCoupon(t *testing.T, db *gorm.DB, code string, minimum, discount float64, active bool, expires time.Time) *models.Coupon {
	t.Helper()

	coupon := &models.Coupon{
		Code:          code,
		IsActive:      active,
		ExpireDate:    expires,
		MinimumTotal:  minimum,
		DiscountValue: discount,
	}
	require.NoError(t, db.Create(coupon).Error)
	return coupon
}
