// internal/services/auth_service_test.go
package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/soukhub/marketplace-backend/internal/config"
	"github.com/soukhub/marketplace-backend/internal/models"
)

func newAuthService(db *gorm.DB) (*AuthService, *config.Config) {
	cfg := newTestConfig()
	return NewAuthService(db, cfg, nil), cfg
}

func registerRequest() *RegisterRequest {
	return &RegisterRequest{
		Username: "newclient",
		Email:    "newclient@example.com",
		Password: "SecurePass123!",
		FullName: "New Client",
		Address:  "12 Harbour Road",
	}
}

func TestRegisterCreatesClientProfile(t *testing.T) {
	db := setupTestDB(t)
	svc, _ := newAuthService(db)

	resp, err := svc.Register(registerRequest())
	require.NoError(t, err)
	require.NotNil(t, resp.User)

	assert.Equal(t, models.UserTypeClient, resp.User.UserType)
	assert.Equal(t, models.UserStatusActive, resp.User.Status)
	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)
	assert.Equal(t, "Bearer", resp.TokenType)

	var client models.Client
	require.NoError(t, db.First(&client, "id = ?", resp.User.ID).Error)
	assert.Equal(t, "12 Harbour Road", client.Address)
}

func TestRegisterRejectsDuplicateIdentity(t *testing.T) {
	db := setupTestDB(t)
	svc, _ := newAuthService(db)

	_, err := svc.Register(registerRequest())
	require.NoError(t, err)

	dup := registerRequest()
	dup.Username = "otherclient"
	_, err = svc.Register(dup)
	assert.ErrorIs(t, err, ErrEmailTaken)

	dup = registerRequest()
	dup.Email = "other@example.com"
	_, err = svc.Register(dup)
	assert.ErrorIs(t, err, ErrUsernameTaken)
}

func TestRegisterStaff(t *testing.T) {
	db := setupTestDB(t)
	svc, _ := newAuthService(db)

	user, err := svc.RegisterStaff(&RegisterStaffRequest{
		Username: "spicetrader",
		Email:    "spice@example.com",
		Password: "SecurePass123!",
		FullName: "Spice Trader",
		UserType: models.UserTypeSeller,
		Category: models.SellerCategoryGroceries,
	})
	require.NoError(t, err)
	assert.Equal(t, models.UserTypeSeller, user.UserType)

	var seller models.Seller
	require.NoError(t, db.First(&seller, "id = ?", user.ID).Error)
	assert.Equal(t, models.SellerStatusComingSoon, seller.Status)

	courier, err := svc.RegisterStaff(&RegisterStaffRequest{
		Username:    "fastwheels",
		Email:       "wheels@example.com",
		Password:    "SecurePass123!",
		FullName:    "Fast Wheels",
		UserType:    models.UserTypeCourier,
		VehicleInfo: "scooter",
	})
	require.NoError(t, err)

	var profile models.Courier
	require.NoError(t, db.First(&profile, "id = ?", courier.ID).Error)
	assert.Equal(t, "scooter", profile.VehicleInfo)
}

func TestLogin(t *testing.T) {
	db := setupTestDB(t)
	svc, _ := newAuthService(db)

	_, err := svc.Register(registerRequest())
	require.NoError(t, err)

	resp, err := svc.Login(&LoginRequest{Email: "newclient@example.com", Password: "SecurePass123!"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	require.NotNil(t, resp.User.LastLoginAt)

	_, err = svc.Login(&LoginRequest{Email: "newclient@example.com", Password: "wrong"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(&LoginRequest{Email: "nobody@example.com", Password: "SecurePass123!"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginRejectsSuspendedAccount(t *testing.T) {
	db := setupTestDB(t)
	svc, _ := newAuthService(db)

	resp, err := svc.Register(registerRequest())
	require.NoError(t, err)

	require.NoError(t, db.Model(&models.User{}).
		Where("id = ?", resp.User.ID).
		UpdateColumn("status", models.UserStatusSuspended).Error)

	_, err = svc.Login(&LoginRequest{Email: "newclient@example.com", Password: "SecurePass123!"})
	assert.ErrorIs(t, err, ErrAccountSuspended)
}

func TestRefreshToken(t *testing.T) {
	db := setupTestDB(t)
	svc, _ := newAuthService(db)

	resp, err := svc.Register(registerRequest())
	require.NoError(t, err)

	refreshed, err := svc.RefreshToken(resp.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, refreshed.AccessToken)
	assert.Equal(t, resp.User.ID, refreshed.User.ID)

	_, err = svc.RefreshToken("not-a-token")
	assert.Error(t, err)
}

func TestPasswordResetFlow(t *testing.T) {
	db := setupTestDB(t)
	svc, _ := newAuthService(db)

	resp, err := svc.Register(registerRequest())
	require.NoError(t, err)

	// Unknown emails are not revealed.
	require.NoError(t, svc.ForgotPassword(&ForgotPasswordRequest{Email: "nobody@example.com"}))

	require.NoError(t, svc.ForgotPassword(&ForgotPasswordRequest{Email: "newclient@example.com"}))

	var reset models.PasswordReset
	require.NoError(t, db.First(&reset, "user_id = ?", resp.User.ID).Error)
	assert.True(t, reset.ExpiresAt.After(time.Now()))

	require.NoError(t, svc.ResetPassword(&ResetPasswordRequest{
		Token:       reset.Token,
		NewPassword: "BrandNewPass456!",
	}))

	// Tokens are single use.
	err = svc.ResetPassword(&ResetPasswordRequest{Token: reset.Token, NewPassword: "AnotherPass789!"})
	assert.ErrorIs(t, err, ErrInvalidResetToken)

	_, err = svc.Login(&LoginRequest{Email: "newclient@example.com", Password: "SecurePass123!"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(&LoginRequest{Email: "newclient@example.com", Password: "BrandNewPass456!"})
	assert.NoError(t, err)
}

func TestResetPasswordRejectsExpiredToken(t *testing.T) {
	db := setupTestDB(t)
	svc, _ := newAuthService(db)

	resp, err := svc.Register(registerRequest())
	require.NoError(t, err)

	require.NoError(t, svc.ForgotPassword(&ForgotPasswordRequest{Email: "newclient@example.com"}))

	require.NoError(t, db.Model(&models.PasswordReset{}).
		Where("user_id = ?", resp.User.ID).
		UpdateColumn("expires_at", time.Now().Add(-time.Minute)).Error)

	var reset models.PasswordReset
	require.NoError(t, db.First(&reset, "user_id = ?", resp.User.ID).Error)

	err = svc.ResetPassword(&ResetPasswordRequest{Token: reset.Token, NewPassword: "BrandNewPass456!"})
	assert.ErrorIs(t, err, ErrInvalidResetToken)
}
