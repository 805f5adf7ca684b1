package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ReportService renders on-demand portal reports and broadcasts.
type ReportService interface {
	AttendanceReport(ctx context.Context, userID int64) (string, error)
	ExamsReport(ctx context.Context, userID int64) (string, error)
	Broadcast(ctx context.Context, text string) (int, error)
}

// ReportHandler serves live attendance and grade views fetched from the
// portal with the user's own credentials.
type ReportHandler struct {
	BaseHandler
	reports ReportService
	logger  *zap.Logger
}

// NewReportHandler creates a new ReportHandler.
func NewReportHandler(reports ReportService, logger *zap.Logger) *ReportHandler {
	return &ReportHandler{reports: reports, logger: logger}
}

// RegisterRoutes registers report routes.
func (h *ReportHandler) RegisterRoutes(rg *gin.RouterGroup) {
	users := rg.Group("/users")
	{
		users.GET("/:id/attendance", h.Attendance)
		users.GET("/:id/grades", h.Grades)
	}
	rg.POST("/broadcast", h.Broadcast)
}

type broadcastRequest struct {
	Text string `json:"text" binding:"required"`
}

// Attendance returns the formatted attendance summary for the user.
func (h *ReportHandler) Attendance(c *gin.Context) {
	id, ok := userIDParam(c)
	if !ok {
		return
	}
	text, err := h.reports.AttendanceReport(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, gin.H{"text": text})
}

// Grades returns the formatted exam grades summary for the user.
func (h *ReportHandler) Grades(c *gin.Context) {
	id, ok := userIDParam(c)
	if !ok {
		return
	}
	text, err := h.reports.ExamsReport(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, gin.H{"text": text})
}

// Broadcast sends a message to every registered user and reports how many
// deliveries succeeded.
func (h *ReportHandler) Broadcast(c *gin.Context) {
	var req broadcastRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "text is required")
		return
	}
	delivered, err := h.reports.Broadcast(c.Request.Context(), req.Text)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, gin.H{"delivered": delivered})
}
