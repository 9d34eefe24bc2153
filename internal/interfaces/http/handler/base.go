// Package handler contains the HTTP handlers for the API server.
package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/pricecraft/backend/internal/domain/shared"
	"github.com/pricecraft/backend/internal/interfaces/http/dto"
	"github.com/pricecraft/backend/internal/interfaces/http/middleware"
)

// BaseHandler provides shared response helpers for all handlers
type BaseHandler struct {
	logger *zap.Logger
}

// NewBaseHandler creates a BaseHandler
func NewBaseHandler(logger *zap.Logger) BaseHandler {
	return BaseHandler{logger: logger}
}

// Success sends a 200 response with the given payload
func (h *BaseHandler) Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, dto.NewSuccessResponse(data))
}

// SuccessWithMeta sends a 200 response with pagination metadata
func (h *BaseHandler) SuccessWithMeta(c *gin.Context, data any, total int64, page, pageSize int) {
	c.JSON(http.StatusOK, dto.NewSuccessResponseWithMeta(data, total, page, pageSize))
}

// Created sends a 201 response with the given payload
func (h *BaseHandler) Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, dto.NewSuccessResponse(data))
}

// NoContent sends a 204 response
func (h *BaseHandler) NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// BadRequest sends a 400 response with a binding or validation message
func (h *BaseHandler) BadRequest(c *gin.Context, message string) {
	h.respondError(c, http.StatusBadRequest, dto.CodeInvalidInput, message)
}

// Unauthorized sends a 401 response
func (h *BaseHandler) Unauthorized(c *gin.Context, message string) {
	h.respondError(c, http.StatusUnauthorized, dto.CodeAuthenticationRequired, message)
}

// HandleError maps an error to the appropriate HTTP response. Domain
// errors carry their own code; anything else becomes a 500.
func (h *BaseHandler) HandleError(c *gin.Context, err error) {
	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		status := dto.GetHTTPStatus(domainErr.Code)
		if status >= http.StatusInternalServerError && h.logger != nil {
			h.logger.Error("Request failed",
				zap.String("code", domainErr.Code),
				zap.String("path", c.Request.URL.Path),
				zap.Error(err))
		}
		h.respondError(c, status, domainErr.Code, domainErr.Message)
		return
	}

	if h.logger != nil {
		h.logger.Error("Unhandled error",
			zap.String("path", c.Request.URL.Path),
			zap.Error(err))
	}
	h.respondError(c, http.StatusInternalServerError, dto.CodeInternal, "Internal server error")
}

func (h *BaseHandler) respondError(c *gin.Context, status int, code, message string) {
	requestID := middleware.GetRequestID(c)
	c.JSON(status, dto.NewErrorResponseWithRequestID(code, message, requestID))
}

// currentUserID extracts the authenticated user's ID from JWT claims.
// Handlers behind the auth middleware can rely on it being present.
func (h *BaseHandler) currentUserID(c *gin.Context) (uuid.UUID, bool) {
	userID := middleware.GetJWTUserID(c)
	if userID == "" {
		h.Unauthorized(c, "Authentication required")
		return uuid.Nil, false
	}
	id, err := uuid.Parse(userID)
	if err != nil {
		h.Unauthorized(c, "Invalid authentication context")
		return uuid.Nil, false
	}
	return id, true
}
