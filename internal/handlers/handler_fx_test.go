package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	"github.com/triptally/fx_backend/internal/apperrors"
	"github.com/triptally/fx_backend/internal/core/domain"
	portssvc "github.com/triptally/fx_backend/internal/core/ports/services"
	"github.com/triptally/fx_backend/internal/handlers"
	"github.com/triptally/fx_backend/pkg/config"
)

// --- Mock FxResolverService ---
type MockFxResolverService struct {
	mock.Mock
}

func (m *MockFxResolverService) GetRate(ctx context.Context, from, to string) domain.FxRateResult {
	args := m.Called(ctx, from, to)
	return args.Get(0).(domain.FxRateResult)
}

func (m *MockFxResolverService) ConvertAmount(ctx context.Context, amount decimal.Decimal, from, to string) domain.Conversion {
	args := m.Called(ctx, amount, from, to)
	return args.Get(0).(domain.Conversion)
}

func (m *MockFxResolverService) PrefetchRates(ctx context.Context, pairs []domain.CurrencyPair) {
	m.Called(ctx, pairs)
}

// --- Mock DailyConverterService ---
type MockDailyConverterService struct {
	mock.Mock
}

func (m *MockDailyConverterService) Resolve(ctx context.Context, from, to string, preferredBases []string) (*domain.PivotedRate, error) {
	args := m.Called(ctx, from, to, preferredBases)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PivotedRate), args.Error(1)
}

func (m *MockDailyConverterService) ConvertAmount(ctx context.Context, amount decimal.Decimal, from, to string) domain.Conversion {
	args := m.Called(ctx, amount, from, to)
	return args.Get(0).(domain.Conversion)
}

// --- Test Suite ---
type FxHandlerTestSuite struct {
	suite.Suite
	mockResolver *MockFxResolverService
	mockDaily    *MockDailyConverterService
	router       *gin.Engine
}

func (suite *FxHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	suite.mockResolver = new(MockFxResolverService)
	suite.mockDaily = new(MockDailyConverterService)

	cfg := &config.Config{
		FxRateLimitRequests: 1000,
		FxRateLimitPeriod:   time.Minute,
	}
	services := &portssvc.ServiceContainer{
		FxResolver:     suite.mockResolver,
		DailyConverter: suite.mockDaily,
	}

	suite.router = gin.New()
	handlers.RegisterRoutes(suite.router, cfg, services)
}

func (suite *FxHandlerTestSuite) performRequest(method, path string, body []byte) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

func (suite *FxHandlerTestSuite) TestGetRate_DailyCacheHit() {
	suite.mockDaily.On("Resolve", mock.Anything, "TRY", "PLN", []string(nil)).
		Return(&domain.PivotedRate{Rate: 0.09, Base: "USD"}, nil).Once()

	w := suite.performRequest(http.MethodGet, "/api/v1/fx/rates/TRY/PLN", nil)

	suite.Equal(http.StatusOK, w.Code)
	var resp map[string]any
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal("daily-cache", resp["source"])
	suite.Equal("USD", resp["base"])
	suite.InDelta(0.09, resp["rate"].(float64), 1e-9)
	suite.mockResolver.AssertNotCalled(suite.T(), "GetRate")
}

func (suite *FxHandlerTestSuite) TestGetRate_FallsBackToResolver() {
	suite.mockDaily.On("Resolve", mock.Anything, "USD", "PLN", []string(nil)).
		Return(nil, apperrors.NewNotFoundError("no daily rate")).Once()
	suite.mockResolver.On("GetRate", mock.Anything, "USD", "PLN").
		Return(domain.FxRateResult{Rate: 3.75, Source: domain.RateSourceLive}).Once()

	w := suite.performRequest(http.MethodGet, "/api/v1/fx/rates/USD/PLN", nil)

	suite.Equal(http.StatusOK, w.Code)
	var resp map[string]any
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal("live", resp["source"])
	suite.Equal(3.75, resp["rate"])
}

func (suite *FxHandlerTestSuite) TestGetRate_PreferredBasesForwarded() {
	suite.mockDaily.On("Resolve", mock.Anything, "TRY", "PLN", []string{"EUR", "USD"}).
		Return(&domain.PivotedRate{Rate: 0.09, Base: "EUR"}, nil).Once()

	w := suite.performRequest(http.MethodGet, "/api/v1/fx/rates/TRY/PLN?bases=eur,usd", nil)

	suite.Equal(http.StatusOK, w.Code)
	suite.mockDaily.AssertExpectations(suite.T())
}

func (suite *FxHandlerTestSuite) TestGetRate_InvalidCurrencyCode() {
	w := suite.performRequest(http.MethodGet, "/api/v1/fx/rates/US/PLN", nil)

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockDaily.AssertNotCalled(suite.T(), "Resolve")
}

func (suite *FxHandlerTestSuite) TestConvertAmount_Success() {
	amount := decimal.RequireFromString("100")
	suite.mockDaily.On("ConvertAmount", mock.Anything, amount, "TRY", "PLN").
		Return(domain.Conversion{
			Value: decimal.RequireFromString("9"),
			Meta:  domain.FxRateResult{Rate: 0.09, Source: domain.RateSourceDailyCache},
		}).Once()

	body := []byte(`{"amount":100,"fromCurrency":"TRY","toCurrency":"PLN"}`)
	w := suite.performRequest(http.MethodPost, "/api/v1/fx/convert", body)

	suite.Equal(http.StatusOK, w.Code)
	var resp map[string]any
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal("daily-cache", resp["source"])
	suite.InDelta(0.09, resp["rate"].(float64), 1e-9)
}

func (suite *FxHandlerTestSuite) TestConvertAmount_ValidationFailure() {
	body := []byte(`{"amount":100,"fromCurrency":"TRYX","toCurrency":"PLN"}`)
	w := suite.performRequest(http.MethodPost, "/api/v1/fx/convert", body)

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockDaily.AssertNotCalled(suite.T(), "ConvertAmount")
}

func (suite *FxHandlerTestSuite) TestPrefetchRates_Accepted() {
	suite.mockResolver.On("PrefetchRates", mock.Anything, []domain.CurrencyPair{
		{From: "USD", To: "PLN"},
		{From: "USD", To: "TRY"},
	}).Once()

	body := []byte(`{"pairs":[{"from":"USD","to":"PLN"},{"from":"USD","to":"TRY"}]}`)
	w := suite.performRequest(http.MethodPost, "/api/v1/fx/prefetch", body)

	suite.Equal(http.StatusAccepted, w.Code)
	suite.mockResolver.AssertExpectations(suite.T())
}

func (suite *FxHandlerTestSuite) TestPrefetchRates_EmptyPairsRejected() {
	body := []byte(`{"pairs":[]}`)
	w := suite.performRequest(http.MethodPost, "/api/v1/fx/prefetch", body)

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockResolver.AssertNotCalled(suite.T(), "PrefetchRates")
}

func TestFxHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(FxHandlerTestSuite))
}
