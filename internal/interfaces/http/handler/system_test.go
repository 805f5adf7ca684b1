package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yoklama/backend/internal/interfaces/http/dto"
)

type stubPinger struct {
	err error
}

func (p stubPinger) Ping() error { return p.err }

func TestSystemHandler_Health(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("healthy", func(t *testing.T) {
		h := NewSystemHandler(stubPinger{}, "1.2.3")

		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request, _ = http.NewRequest(http.MethodGet, "/health", nil)

		h.Health(c)

		assert.Equal(t, http.StatusOK, w.Code)

		var resp dto.Response
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.True(t, resp.Success)

		data := resp.Data.(map[string]interface{})
		assert.Equal(t, "ok", data["status"])
		assert.Equal(t, "1.2.3", data["version"])
		assert.NotEmpty(t, data["uptime"])
	})

	t.Run("database down", func(t *testing.T) {
		h := NewSystemHandler(stubPinger{err: errors.New("connection refused")}, "1.2.3")

		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request, _ = http.NewRequest(http.MethodGet, "/health", nil)

		h.Health(c)

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)

		var resp dto.Response
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "DATABASE_UNAVAILABLE", resp.Error.Code)
	})
}
