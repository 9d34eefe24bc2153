package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

type pingRegistrar struct{}

func (pingRegistrar) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, "pong")
	})
}

func TestRegisterMountsUnderVersionedPrefix(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := New(gin.New())
	r.Register(pingRegistrar{})

	rec := httptest.NewRecorder()
	r.Engine().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/ping", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "pong", rec.Body.String())
}

func TestRegisterWithAppliesMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := New(gin.New())

	guard := func(c *gin.Context) {
		if c.GetHeader("X-Token") != "ok" {
			c.AbortWithStatus(http.StatusUnauthorized)
			return
		}
		c.Next()
	}
	r.RegisterWith([]gin.HandlerFunc{guard}, pingRegistrar{})

	rec := httptest.NewRecorder()
	r.Engine().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/ping", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/ping", nil)
	req.Header.Set("X-Token", "ok")
	rec = httptest.NewRecorder()
	r.Engine().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}
