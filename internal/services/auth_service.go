// internal/services/auth_service.go
package services

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/brightcover/agency-backend/internal/config"
	"github.com/brightcover/agency-backend/internal/models"
	"github.com/brightcover/agency-backend/internal/utils"
)

type AuthService struct {
	db     *gorm.DB
	config *config.Config
}

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

type AuthResponse struct {
	AccessToken  string            `json:"access_token"`
	RefreshToken string            `json:"refresh_token"`
	Admin        *models.AdminUser `json:"admin"`
}

func NewAuthService(db *gorm.DB, cfg *config.Config) *AuthService {
	return &AuthService{db: db, config: cfg}
}

// Login verifies credentials and issues an access/refresh token pair.
// Unknown usernames and bad passwords both map to ErrInvalidCredentials.
func (s *AuthService) Login(req *LoginRequest) (*AuthResponse, error) {
	var admin models.AdminUser
	if err := s.db.Where("username = ?", req.Username).First(&admin).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := admin.CheckPassword(req.Password); err != nil {
		return nil, ErrInvalidCredentials
	}

	now := time.Now()
	admin.LastLoginAt = &now
	if err := s.db.Model(&admin).Update("last_login_at", now).Error; err != nil {
		return nil, err
	}

	return s.issueTokens(&admin)
}

// RefreshTokens exchanges a valid refresh token for a fresh pair.
func (s *AuthService) RefreshTokens(req *RefreshRequest) (*AuthResponse, error) {
	adminID, err := utils.ValidateRefreshToken(req.RefreshToken)
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	admin, err := s.GetAdminByID(adminID)
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	return s.issueTokens(admin)
}

func (s *AuthService) GetAdminByID(id string) (*models.AdminUser, error) {
	adminID, err := uuid.Parse(id)
	if err != nil {
		return nil, ErrAdminNotFound
	}

	var admin models.AdminUser
	if err := s.db.First(&admin, "id = ?", adminID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrAdminNotFound
		}
		return nil, err
	}
	return &admin, nil
}

func (s *AuthService) issueTokens(admin *models.AdminUser) (*AuthResponse, error) {
	accessToken, err := utils.GenerateJWT(admin.ID, admin.Username, string(admin.Role), s.config.JWT.AccessTokenTTL)
	if err != nil {
		return nil, err
	}

	refreshToken, err := utils.GenerateRefreshToken(admin.ID, s.config.JWT.RefreshTokenTTL)
	if err != nil {
		return nil, err
	}

	return &AuthResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		Admin:        admin,
	}, nil
}
