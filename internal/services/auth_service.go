// internal/services/auth_service.go
package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/soukhub/marketplace-backend/internal/config"
	"github.com/soukhub/marketplace-backend/internal/models"
	"github.com/soukhub/marketplace-backend/internal/utils"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrAccountSuspended   = errors.New("account is suspended")
	ErrEmailTaken         = errors.New("user with this email already exists")
	ErrUsernameTaken      = errors.New("username already taken")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidResetToken  = errors.New("invalid or expired reset token")
)

type AuthService struct {
	db           *gorm.DB
	cfg          *config.Config
	notification *NotificationService
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type RegisterRequest struct {
	Username string `json:"username" validate:"required,username"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,strong_password"`
	FullName string `json:"full_name" validate:"required,min=2,max=100"`
	Phone    string `json:"phone" validate:"omitempty,e164"`
	Address  string `json:"address" validate:"omitempty,max=500"`
}

// RegisterStaffRequest creates seller and courier accounts. Only
// admins may call the operation that takes it.
type RegisterStaffRequest struct {
	Username    string                `json:"username" validate:"required,username"`
	Email       string                `json:"email" validate:"required,email"`
	Password    string                `json:"password" validate:"required,strong_password"`
	FullName    string                `json:"full_name" validate:"required,min=2,max=100"`
	Phone       string                `json:"phone" validate:"omitempty,e164"`
	UserType    models.UserType       `json:"user_type" validate:"required,oneof=seller courier"`
	Description string                `json:"description,omitempty" validate:"max=2000"`
	Address     string                `json:"address,omitempty" validate:"max=500"`
	Category    models.SellerCategory `json:"category,omitempty"`
	VehicleInfo string                `json:"vehicle_info,omitempty" validate:"max=200"`
}

type AuthResponse struct {
	User         *models.User `json:"user"`
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
	TokenType    string       `json:"token_type"`
	ExpiresIn    int          `json:"expires_in"` // seconds
}

type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type ResetPasswordRequest struct {
	Token       string `json:"token" validate:"required"`
	NewPassword string `json:"new_password" validate:"required,strong_password"`
}

func NewAuthService(db *gorm.DB, cfg *config.Config, notification *NotificationService) *AuthService {
	return &AuthService{
		db:           db,
		cfg:          cfg,
		notification: notification,
	}
}

// Register creates a client account with its role profile in one
// transaction. Sellers and couriers are onboarded by admins through
// RegisterStaff.
func (s *AuthService) Register(req *RegisterRequest) (*AuthResponse, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	if err := s.checkIdentityAvailable(req.Email, req.Username); err != nil {
		return nil, err
	}

	user := &models.User{
		Username: req.Username,
		Email:    req.Email,
		FullName: req.FullName,
		Phone:    req.Phone,
		UserType: models.UserTypeClient,
		Status:   models.UserStatusActive,
	}
	if err := user.SetPassword(req.Password); err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(user).Error; err != nil {
			return fmt.Errorf("failed to create user: %w", err)
		}
		client := &models.Client{ID: user.ID, Address: req.Address}
		if err := tx.Create(client).Error; err != nil {
			return fmt.Errorf("failed to create client profile: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.notification != nil {
		go s.notification.SendWelcomeEmail(user)
	}

	return s.issueTokens(user)
}

// RegisterStaff creates a seller or courier account together with its
// role profile.
func (s *AuthService) RegisterStaff(req *RegisterStaffRequest) (*models.User, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	if req.UserType == models.UserTypeSeller && !req.Category.IsValid() {
		return nil, fmt.Errorf("invalid seller category: %s", req.Category)
	}

	if err := s.checkIdentityAvailable(req.Email, req.Username); err != nil {
		return nil, err
	}

	user := &models.User{
		Username: req.Username,
		Email:    req.Email,
		FullName: req.FullName,
		Phone:    req.Phone,
		UserType: req.UserType,
		Status:   models.UserStatusActive,
	}
	if err := user.SetPassword(req.Password); err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(user).Error; err != nil {
			return fmt.Errorf("failed to create user: %w", err)
		}

		switch req.UserType {
		case models.UserTypeSeller:
			seller := &models.Seller{
				ID:          user.ID,
				Description: req.Description,
				Address:     req.Address,
				Status:      models.SellerStatusComingSoon,
				Category:    req.Category,
			}
			if err := tx.Create(seller).Error; err != nil {
				return fmt.Errorf("failed to create seller profile: %w", err)
			}
		case models.UserTypeCourier:
			courier := &models.Courier{ID: user.ID, VehicleInfo: req.VehicleInfo}
			if err := tx.Create(courier).Error; err != nil {
				return fmt.Errorf("failed to create courier profile: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.notification != nil {
		go s.notification.SendWelcomeEmail(user)
	}

	return user, nil
}

func (s *AuthService) Login(req *LoginRequest) (*AuthResponse, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	var user models.User
	if err := s.db.Where("email = ?", req.Email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	if user.Status == models.UserStatusSuspended {
		return nil, ErrAccountSuspended
	}

	if err := user.CheckPassword(req.Password); err != nil {
		return nil, ErrInvalidCredentials
	}

	now := time.Now()
	user.LastLoginAt = &now
	s.db.Model(&user).UpdateColumn("last_login_at", now)

	return s.issueTokens(&user)
}

func (s *AuthService) RefreshToken(refreshToken string) (*AuthResponse, error) {
	userIDStr, err := utils.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, fmt.Errorf("invalid refresh token: %w", err)
	}

	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		return nil, fmt.Errorf("invalid user ID in token: %w", err)
	}

	var user models.User
	if err := s.db.First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	if user.Status != models.UserStatusActive {
		return nil, ErrAccountSuspended
	}

	return s.issueTokens(&user)
}

// ForgotPassword always reports success so callers cannot probe which
// emails are registered.
func (s *AuthService) ForgotPassword(req *ForgotPasswordRequest) error {
	if err := utils.ValidateStruct(req); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	var user models.User
	if err := s.db.Where("email = ?", req.Email).First(&user).Error; err != nil {
		return nil
	}

	token, err := utils.GenerateResetToken()
	if err != nil {
		return fmt.Errorf("failed to generate reset token: %w", err)
	}

	reset := &models.PasswordReset{
		UserID:    user.ID,
		Token:     token,
		ExpiresAt: time.Now().Add(time.Hour),
	}
	if err := s.db.Create(reset).Error; err != nil {
		return fmt.Errorf("failed to store reset token: %w", err)
	}

	if s.notification != nil {
		go s.notification.SendPasswordResetEmail(&user, token)
	}

	return nil
}

func (s *AuthService) ResetPassword(req *ResetPasswordRequest) error {
	if err := utils.ValidateStruct(req); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		var reset models.PasswordReset
		if err := tx.Preload("User").Where("token = ?", req.Token).First(&reset).Error; err != nil {
			return ErrInvalidResetToken
		}
		if time.Now().After(reset.ExpiresAt) {
			return ErrInvalidResetToken
		}

		user := reset.User
		if err := user.SetPassword(req.NewPassword); err != nil {
			return fmt.Errorf("failed to hash password: %w", err)
		}
		if err := tx.Model(&user).UpdateColumn("password_hash", user.PasswordHash).Error; err != nil {
			return fmt.Errorf("failed to update password: %w", err)
		}

		// Invalidate every outstanding token for this user, not just
		// the one that was used.
		if err := tx.Where("user_id = ?", reset.UserID).Delete(&models.PasswordReset{}).Error; err != nil {
			return fmt.Errorf("failed to clear reset tokens: %w", err)
		}
		return nil
	})
}

func (s *AuthService) GetUserByID(userID uuid.UUID) (*models.User, error) {
	var user models.User
	if err := s.db.Preload("Client").Preload("Seller").Preload("Courier").
		First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &user, nil
}

func (s *AuthService) checkIdentityAvailable(email, username string) error {
	var existing models.User
	if err := s.db.Where("email = ? OR username = ?", email, username).First(&existing).Error; err == nil {
		if existing.Email == email {
			return ErrEmailTaken
		}
		return ErrUsernameTaken
	}
	return nil
}

func (s *AuthService) issueTokens(user *models.User) (*AuthResponse, error) {
	accessToken, err := utils.GenerateJWT(user.ID, user.Username, string(user.UserType), s.cfg.JWT.AccessTokenTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	refreshToken, err := utils.GenerateRefreshToken(user.ID, s.cfg.JWT.RefreshTokenTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	return &AuthResponse{
		User:         user,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "Bearer",
		ExpiresIn:    s.cfg.JWT.AccessTokenTTL * 3600,
	}, nil
}
