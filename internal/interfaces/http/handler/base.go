package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/yoklama/backend/internal/domain/obis"
	"github.com/yoklama/backend/internal/domain/user"
	"github.com/yoklama/backend/internal/interfaces/http/dto"
)

// BaseHandler provides common handler utilities
type BaseHandler struct{}

// userIDParam parses the :id path parameter. Telegram chat identifiers fit in
// an int64 but are not limited to 32 bits.
func userIDParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse("INVALID_USER_ID", "user id must be an integer"))
		return 0, false
	}
	return id, true
}

// Success sends a success response
func (h *BaseHandler) Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, dto.NewSuccessResponse(data))
}

// Created sends a 201 created response
func (h *BaseHandler) Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, dto.NewSuccessResponse(data))
}

// NoContent sends a 204 no content response
func (h *BaseHandler) NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// Error sends an error response with the given status code
func (h *BaseHandler) Error(c *gin.Context, statusCode int, code, message string) {
	c.JSON(statusCode, dto.NewErrorResponse(code, message))
}

// BadRequest sends a 400 error response
func (h *BaseHandler) BadRequest(c *gin.Context, message string) {
	h.Error(c, http.StatusBadRequest, "BAD_REQUEST", message)
}

// HandleError maps service errors to HTTP responses
func (h *BaseHandler) HandleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, user.ErrNotFound):
		h.Error(c, http.StatusNotFound, "USER_NOT_FOUND", "user is not registered")
	case errors.Is(err, user.ErrTermsNotAccepted):
		h.Error(c, http.StatusForbidden, "TERMS_NOT_ACCEPTED", "user has not accepted the terms of use")
	case errors.Is(err, user.ErrNoCredentials):
		h.Error(c, http.StatusConflict, "NO_CREDENTIALS", "user has no stored portal credentials")
	case errors.Is(err, obis.ErrAuthenticationFailed):
		h.Error(c, http.StatusUnauthorized, "PORTAL_AUTH_FAILED", "portal rejected the stored credentials")
	case errors.Is(err, obis.ErrPortalUnavailable):
		h.Error(c, http.StatusBadGateway, "PORTAL_UNAVAILABLE", "portal did not respond")
	default:
		h.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
	}
}
