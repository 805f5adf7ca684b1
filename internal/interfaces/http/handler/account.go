package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AccountService exposes the account operations the HTTP layer needs.
type AccountService interface {
	Register(ctx context.Context, id int64) error
	SaveCredentials(ctx context.Context, id int64, studentNumber, password string) error
	RemoveCredentials(ctx context.Context, id int64) error
	AcceptTerms(ctx context.Context, id int64) error
}

// AccountHandler handles user registration and credential management.
type AccountHandler struct {
	BaseHandler
	accounts AccountService
	logger   *zap.Logger
}

// NewAccountHandler creates a new AccountHandler.
func NewAccountHandler(accounts AccountService, logger *zap.Logger) *AccountHandler {
	return &AccountHandler{accounts: accounts, logger: logger}
}

// RegisterRoutes registers account routes.
func (h *AccountHandler) RegisterRoutes(rg *gin.RouterGroup) {
	users := rg.Group("/users")
	{
		users.POST("/:id", h.Register)
		users.POST("/:id/credentials", h.SaveCredentials)
		users.DELETE("/:id/credentials", h.RemoveCredentials)
		users.POST("/:id/accept-terms", h.AcceptTerms)
	}
}

type saveCredentialsRequest struct {
	StudentNumber string `json:"student_number" binding:"required"`
	Password      string `json:"password" binding:"required"`
}

// Register creates the user record if it does not exist yet.
func (h *AccountHandler) Register(c *gin.Context) {
	id, ok := userIDParam(c)
	if !ok {
		return
	}
	if err := h.accounts.Register(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, gin.H{"id": id})
}

// SaveCredentials stores a new credential pair for the user.
func (h *AccountHandler) SaveCredentials(c *gin.Context) {
	id, ok := userIDParam(c)
	if !ok {
		return
	}
	var req saveCredentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "student_number and password are required")
		return
	}
	if err := h.accounts.SaveCredentials(c.Request.Context(), id, req.StudentNumber, req.Password); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// RemoveCredentials clears the user's stored credentials.
func (h *AccountHandler) RemoveCredentials(c *gin.Context) {
	id, ok := userIDParam(c)
	if !ok {
		return
	}
	if err := h.accounts.RemoveCredentials(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// AcceptTerms records the user's acceptance of the terms of use.
func (h *AccountHandler) AcceptTerms(c *gin.Context) {
	id, ok := userIDParam(c)
	if !ok {
		return
	}
	if err := h.accounts.AcceptTerms(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
