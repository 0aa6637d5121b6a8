// internal/middleware/auth_test.go
package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/brightcover/agency-backend/internal/models"
	"github.com/brightcover/agency-backend/internal/utils"
)

func protectedRouter(adminOnly bool) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	group := r.Group("/", AuthRequired())
	if adminOnly {
		group.Use(AdminRequired())
	}
	group.GET("/protected", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	return r
}

func requestWithToken(t *testing.T, r *gin.Engine, token string) *httptest.ResponseRecorder {
	t.Helper()
	req, _ := http.NewRequest("GET", "/protected", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthRequiredRejectsMissingHeader(t *testing.T) {
	utils.SetJWTSecret("middleware-test-secret")
	w := requestWithToken(t, protectedRouter(false), "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthRequiredRejectsGarbageToken(t *testing.T) {
	utils.SetJWTSecret("middleware-test-secret")
	w := requestWithToken(t, protectedRouter(false), "garbage")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthRequiredAcceptsValidToken(t *testing.T) {
	utils.SetJWTSecret("middleware-test-secret")
	token, err := utils.GenerateJWT(uuid.New(), "agent", string(models.AdminRoleAgent), 1)
	assert.NoError(t, err)

	w := requestWithToken(t, protectedRouter(false), token)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAdminRequiredRejectsAgentRole(t *testing.T) {
	utils.SetJWTSecret("middleware-test-secret")
	token, err := utils.GenerateJWT(uuid.New(), "agent", string(models.AdminRoleAgent), 1)
	assert.NoError(t, err)

	w := requestWithToken(t, protectedRouter(true), token)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestAdminRequiredAcceptsAdminRole(t *testing.T) {
	utils.SetJWTSecret("middleware-test-secret")
	token, err := utils.GenerateJWT(uuid.New(), "boss", string(models.AdminRoleAdmin), 1)
	assert.NoError(t, err)

	w := requestWithToken(t, protectedRouter(true), token)
	assert.Equal(t, http.StatusOK, w.Code)
}
