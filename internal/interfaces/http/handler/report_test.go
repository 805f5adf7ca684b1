package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/yoklama/backend/internal/domain/obis"
	"github.com/yoklama/backend/internal/domain/user"
	"github.com/yoklama/backend/internal/interfaces/http/dto"
)

type mockReportService struct {
	mock.Mock
}

func (m *mockReportService) AttendanceReport(ctx context.Context, userID int64) (string, error) {
	args := m.Called(ctx, userID)
	return args.String(0), args.Error(1)
}

func (m *mockReportService) ExamsReport(ctx context.Context, userID int64) (string, error) {
	args := m.Called(ctx, userID)
	return args.String(0), args.Error(1)
}

func (m *mockReportService) Broadcast(ctx context.Context, text string) (int, error) {
	args := m.Called(ctx, text)
	return args.Int(0), args.Error(1)
}

func newReportRouter(svc ReportService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	h := NewReportHandler(svc, zap.NewNop())
	h.RegisterRoutes(engine.Group("/api/v1"))
	return engine
}

func TestReportHandler_Attendance(t *testing.T) {
	t.Run("returns the formatted summary", func(t *testing.T) {
		svc := new(mockReportService)
		svc.On("AttendanceReport", mock.Anything, int64(42)).Return("<b>Algorithms (CS101)</b>", nil)
		engine := newReportRouter(svc)

		w := httptest.NewRecorder()
		req, _ := http.NewRequest(http.MethodGet, "/api/v1/users/42/attendance", nil)
		engine.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var resp dto.Response
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.True(t, resp.Success)
		data := resp.Data.(map[string]interface{})
		assert.Equal(t, "<b>Algorithms (CS101)</b>", data["text"])
	})

	t.Run("terms not accepted maps to 403", func(t *testing.T) {
		svc := new(mockReportService)
		svc.On("AttendanceReport", mock.Anything, int64(42)).Return("", user.ErrTermsNotAccepted)
		engine := newReportRouter(svc)

		w := httptest.NewRecorder()
		req, _ := http.NewRequest(http.MethodGet, "/api/v1/users/42/attendance", nil)
		engine.ServeHTTP(w, req)

		assert.Equal(t, http.StatusForbidden, w.Code)

		var resp dto.Response
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "TERMS_NOT_ACCEPTED", resp.Error.Code)
	})

	t.Run("missing credentials map to 409", func(t *testing.T) {
		svc := new(mockReportService)
		svc.On("AttendanceReport", mock.Anything, int64(42)).Return("", user.ErrNoCredentials)
		engine := newReportRouter(svc)

		w := httptest.NewRecorder()
		req, _ := http.NewRequest(http.MethodGet, "/api/v1/users/42/attendance", nil)
		engine.ServeHTTP(w, req)

		assert.Equal(t, http.StatusConflict, w.Code)
	})
}

func TestReportHandler_Grades(t *testing.T) {
	t.Run("returns the formatted summary", func(t *testing.T) {
		svc := new(mockReportService)
		svc.On("ExamsReport", mock.Anything, int64(42)).Return("У вас нет оценок за экзамены.", nil)
		engine := newReportRouter(svc)

		w := httptest.NewRecorder()
		req, _ := http.NewRequest(http.MethodGet, "/api/v1/users/42/grades", nil)
		engine.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("rejected portal login maps to 401", func(t *testing.T) {
		svc := new(mockReportService)
		svc.On("ExamsReport", mock.Anything, int64(42)).Return("", obis.ErrAuthenticationFailed)
		engine := newReportRouter(svc)

		w := httptest.NewRecorder()
		req, _ := http.NewRequest(http.MethodGet, "/api/v1/users/42/grades", nil)
		engine.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)

		var resp dto.Response
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "PORTAL_AUTH_FAILED", resp.Error.Code)
	})

	t.Run("unreachable portal maps to 502", func(t *testing.T) {
		svc := new(mockReportService)
		svc.On("ExamsReport", mock.Anything, int64(42)).Return("", obis.ErrPortalUnavailable)
		engine := newReportRouter(svc)

		w := httptest.NewRecorder()
		req, _ := http.NewRequest(http.MethodGet, "/api/v1/users/42/grades", nil)
		engine.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadGateway, w.Code)
	})
}

func TestReportHandler_Broadcast(t *testing.T) {
	t.Run("reports the delivered count", func(t *testing.T) {
		svc := new(mockReportService)
		svc.On("Broadcast", mock.Anything, "maintenance tonight").Return(3, nil)
		engine := newReportRouter(svc)

		body, _ := json.Marshal(map[string]string{"text": "maintenance tonight"})
		w := httptest.NewRecorder()
		req, _ := http.NewRequest(http.MethodPost, "/api/v1/broadcast", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		engine.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var resp dto.Response
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		data := resp.Data.(map[string]interface{})
		assert.Equal(t, float64(3), data["delivered"])
	})

	t.Run("rejects an empty body", func(t *testing.T) {
		svc := new(mockReportService)
		engine := newReportRouter(svc)

		w := httptest.NewRecorder()
		req, _ := http.NewRequest(http.MethodPost, "/api/v1/broadcast", bytes.NewReader([]byte(`{}`)))
		req.Header.Set("Content-Type", "application/json")
		engine.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		svc.AssertNotCalled(t, "Broadcast", mock.Anything, mock.Anything)
	})
}
