// internal/services/auth_service_test.go
package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"

	"github.com/brightcover/agency-backend/internal/config"
	"github.com/brightcover/agency-backend/internal/models"
	"github.com/brightcover/agency-backend/internal/utils"
)

type AuthServiceTestSuite struct {
	suite.Suite
	db      *gorm.DB
	service *AuthService
}

func (suite *AuthServiceTestSuite) SetupTest() {
	suite.db = setupTestDB(suite.T())

	cfg := testConfig()
	cfg.JWT = config.JWTConfig{
		SecretKey:       "test-secret",
		AccessTokenTTL:  1,
		RefreshTokenTTL: 24,
	}
	utils.SetJWTSecret(cfg.JWT.SecretKey)
	suite.service = NewAuthService(suite.db, cfg)

	admin := &models.AdminUser{
		Username: "agent",
		Email:    "agent@test.local",
		Role:     models.AdminRoleAgent,
	}
	assert.NoError(suite.T(), admin.SetPassword("CorrectHorse1!"))
	assert.NoError(suite.T(), suite.db.Create(admin).Error)
}

func (suite *AuthServiceTestSuite) TestLoginSuccess() {
	resp, err := suite.service.Login(&LoginRequest{Username: "agent", Password: "CorrectHorse1!"})

	assert.NoError(suite.T(), err)
	assert.NotEmpty(suite.T(), resp.AccessToken)
	assert.NotEmpty(suite.T(), resp.RefreshToken)
	assert.Equal(suite.T(), "agent", resp.Admin.Username)
	assert.NotNil(suite.T(), resp.Admin.LastLoginAt)

	claims, err := utils.ValidateJWT(resp.AccessToken)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), "agent", claims.Username)
	assert.Equal(suite.T(), string(models.AdminRoleAgent), claims.Role)
}

func (suite *AuthServiceTestSuite) TestLoginWrongPassword() {
	_, err := suite.service.Login(&LoginRequest{Username: "agent", Password: "wrong"})
	assert.ErrorIs(suite.T(), err, ErrInvalidCredentials)
}

func (suite *AuthServiceTestSuite) TestLoginUnknownUser() {
	_, err := suite.service.Login(&LoginRequest{Username: "nobody", Password: "whatever"})
	assert.ErrorIs(suite.T(), err, ErrInvalidCredentials)
}

func (suite *AuthServiceTestSuite) TestRefreshTokens() {
	resp, err := suite.service.Login(&LoginRequest{Username: "agent", Password: "CorrectHorse1!"})
	assert.NoError(suite.T(), err)

	refreshed, err := suite.service.RefreshTokens(&RefreshRequest{RefreshToken: resp.RefreshToken})
	assert.NoError(suite.T(), err)
	assert.NotEmpty(suite.T(), refreshed.AccessToken)
	assert.Equal(suite.T(), "agent", refreshed.Admin.Username)
}

func (suite *AuthServiceTestSuite) TestRefreshWithGarbageToken() {
	_, err := suite.service.RefreshTokens(&RefreshRequest{RefreshToken: "not-a-token"})
	assert.ErrorIs(suite.T(), err, ErrInvalidCredentials)
}

func TestAuthServiceTestSuite(t *testing.T) {
	suite.Run(t, new(AuthServiceTestSuite))
}
