// internal/handlers/quote_test.go
package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/brightcover/agency-backend/internal/config"
	"github.com/brightcover/agency-backend/internal/models"
	"github.com/brightcover/agency-backend/internal/services"
)

type QuoteHandlerTestSuite struct {
	suite.Suite
	db     *gorm.DB
	router *gin.Engine
}

func (suite *QuoteHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	assert.NoError(suite.T(), err)
	assert.NoError(suite.T(), db.AutoMigrate(&models.Lead{}, &models.ComplianceReport{}))
	suite.db = db

	cfg := &config.Config{
		Environment: "test",
		Compliance: config.ComplianceConfig{
			DefaultFormVersion: "v1.0",
			DefaultConsentText: "I agree to be contacted.",
		},
	}
	leadService := services.NewLeadService(db, cfg, services.NewNotificationService(cfg))
	handler := NewQuoteHandler(leadService)

	suite.router = gin.New()
	suite.router.POST("/v1/quotes", handler.SubmitQuote)
	suite.router.GET("/v1/unsubscribe/:token", handler.Unsubscribe)
}

func (suite *QuoteHandlerTestSuite) postQuote(payload map[string]interface{}) *httptest.ResponseRecorder {
	body, _ := json.Marshal(payload)
	req, _ := http.NewRequest("POST", "/v1/quotes", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

func validPayload() map[string]interface{} {
	return map[string]interface{}{
		"first_name":    "Maria",
		"last_name":     "Santos",
		"email":         "maria@example.com",
		"phone":         "(555) 123-4567",
		"date_of_birth": "1985-06-15",
		"height":        5.8,
		"weight":        150,
		"coverage_type": "term_life",
		"tcpa_consent":  true,
	}
}

func (suite *QuoteHandlerTestSuite) TestSubmitQuoteSuccess() {
	w := suite.postQuote(validPayload())

	assert.Equal(suite.T(), http.StatusCreated, w.Code)

	var response map[string]interface{}
	assert.NoError(suite.T(), json.Unmarshal(w.Body.Bytes(), &response))
	assert.True(suite.T(), response["success"].(bool))

	var lead models.Lead
	assert.NoError(suite.T(), suite.db.First(&lead).Error)
	assert.Equal(suite.T(), "maria@example.com", lead.Email)
	assert.True(suite.T(), lead.TCPAConsent)
}

func (suite *QuoteHandlerTestSuite) TestSubmitQuoteWithoutConsent() {
	payload := validPayload()
	payload["tcpa_consent"] = false

	w := suite.postQuote(payload)

	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)

	var response map[string]interface{}
	assert.NoError(suite.T(), json.Unmarshal(w.Body.Bytes(), &response))
	errObj := response["error"].(map[string]interface{})
	assert.Equal(suite.T(), "CONSENT_REQUIRED", errObj["code"])

	var count int64
	suite.db.Model(&models.Lead{}).Count(&count)
	assert.Equal(suite.T(), int64(0), count)
}

func (suite *QuoteHandlerTestSuite) TestSubmitQuoteMissingEmail() {
	payload := validPayload()
	delete(payload, "email")

	w := suite.postQuote(payload)

	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)

	var response map[string]interface{}
	assert.NoError(suite.T(), json.Unmarshal(w.Body.Bytes(), &response))
	errObj := response["error"].(map[string]interface{})
	assert.Equal(suite.T(), "VALIDATION_ERROR", errObj["code"])

	details := errObj["details"].([]interface{})
	fields := make([]string, 0, len(details))
	for _, d := range details {
		fields = append(fields, d.(map[string]interface{})["field"].(string))
	}
	assert.Contains(suite.T(), fields, "email")

	var count int64
	suite.db.Model(&models.Lead{}).Count(&count)
	assert.Equal(suite.T(), int64(0), count)
}

func (suite *QuoteHandlerTestSuite) TestSubmitQuoteUnderage() {
	payload := validPayload()
	payload["date_of_birth"] = "2012-01-01"

	w := suite.postQuote(payload)

	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)

	var count int64
	suite.db.Model(&models.Lead{}).Count(&count)
	assert.Equal(suite.T(), int64(0), count)
}

func (suite *QuoteHandlerTestSuite) TestDuplicateSubmissionSoftSuccess() {
	assert.Equal(suite.T(), http.StatusCreated, suite.postQuote(validPayload()).Code)

	w := suite.postQuote(validPayload())
	assert.Equal(suite.T(), http.StatusOK, w.Code)

	var response map[string]interface{}
	assert.NoError(suite.T(), json.Unmarshal(w.Body.Bytes(), &response))
	assert.True(suite.T(), response["success"].(bool))

	var count int64
	suite.db.Model(&models.Lead{}).Count(&count)
	assert.Equal(suite.T(), int64(1), count)
}

func (suite *QuoteHandlerTestSuite) TestUnsubscribeFlow() {
	suite.postQuote(validPayload())

	var lead models.Lead
	assert.NoError(suite.T(), suite.db.First(&lead).Error)

	req, _ := http.NewRequest("GET", "/v1/unsubscribe/"+lead.UnsubscribeToken, nil)
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	assert.Equal(suite.T(), http.StatusOK, w.Code)

	assert.NoError(suite.T(), suite.db.First(&lead, "id = ?", lead.ID).Error)
	assert.NotNil(suite.T(), lead.UnsubscribedAt)
	assert.False(suite.T(), lead.EmailMarketingConsent)
}

func (suite *QuoteHandlerTestSuite) TestUnsubscribeUnknownToken() {
	req, _ := http.NewRequest("GET", "/v1/unsubscribe/bogus", nil)
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	assert.Equal(suite.T(), http.StatusNotFound, w.Code)
}

func TestQuoteHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(QuoteHandlerTestSuite))
}
