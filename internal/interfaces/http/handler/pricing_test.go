package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	pricingapp "github.com/pricecraft/backend/internal/application/pricing"
)

func setupPricingRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	engine := gin.New()
	handler := NewPricingHandler(pricingapp.NewQuoteService(), nil, zap.NewNop())
	group := engine.Group("/api/v1")
	handler.RegisterRoutes(group)
	return engine
}

func postQuote(t *testing.T, engine *gin.Engine, body any) *httptest.ResponseRecorder {
	t.Helper()

	payload, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/pricing/quote", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	return rec
}

func TestPricingQuote(t *testing.T) {
	engine := setupPricingRouter(t)

	rec := postQuote(t, engine, map[string]string{
		"material_cost": "10000",
		"labor_cost":    "5000",
		"overhead_cost": "2000",
		"other_cost":    "1000",
		"profit_margin": "25",
	})

	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Success bool `json:"success"`
		Data    struct {
			TotalCost    string `json:"total_cost"`
			MarginAmount string `json:"margin_amount"`
			SellingPrice string `json:"selling_price"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, "18000", resp.Data.TotalCost)
	assert.Equal(t, "4500", resp.Data.MarginAmount)
	assert.Equal(t, "22500", resp.Data.SellingPrice)
}

func TestPricingQuoteAcceptsNumericPayload(t *testing.T) {
	engine := setupPricingRouter(t)

	rec := postQuote(t, engine, map[string]any{
		"material_cost": 100000,
		"labor_cost":    50000,
		"overhead_cost": 20000,
		"other_cost":    5000,
		"profit_margin": 20,
	})

	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Data struct {
			TotalCost    string `json:"total_cost"`
			SellingPrice string `json:"selling_price"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "175000", resp.Data.TotalCost)
	assert.Equal(t, "210000", resp.Data.SellingPrice)
}

func TestPricingQuoteBlankFieldsAreZero(t *testing.T) {
	engine := setupPricingRouter(t)

	rec := postQuote(t, engine, map[string]string{
		"material_cost": "1500",
		"profit_margin": "",
	})

	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Data struct {
			TotalCost    string `json:"total_cost"`
			SellingPrice string `json:"selling_price"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "1500", resp.Data.TotalCost)
	assert.Equal(t, "1500", resp.Data.SellingPrice)
}

func TestPricingQuoteRejectsMalformedJSON(t *testing.T) {
	engine := setupPricingRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/pricing/quote", bytes.NewReader([]byte("{not json")))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)

	var resp struct {
		Success bool `json:"success"`
		Error   struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	assert.Equal(t, "INVALID_INPUT", resp.Error.Code)
}
