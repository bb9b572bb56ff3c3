package routes

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/BruksfildServices01/slot-scheduler/internal/audit"
	"github.com/BruksfildServices01/slot-scheduler/internal/config"
	"github.com/BruksfildServices01/slot-scheduler/internal/infra/calendar"
	"github.com/BruksfildServices01/slot-scheduler/internal/infra/notify"
	"github.com/BruksfildServices01/slot-scheduler/internal/middleware"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newEngine(t *testing.T, mutate func(cfg *config.Config)) *gin.Engine {
	t.Helper()

	cfg, err := config.FromViper(viper.New())
	require.NoError(t, err)
	cfg.CalendarSource = config.SourceMock
	if mutate != nil {
		mutate(cfg)
	}
	require.NoError(t, cfg.Validate())

	logger := zap.NewNop()
	dispatcher := audit.NewDispatcher(audit.NewLogWriter(logger), logger)
	t.Cleanup(dispatcher.Close)

	r := gin.New()
	RegisterRoutes(r, cfg, Deps{
		Calendar: calendar.NewMockCalendar(cfg.MockSeed, cfg.Location(), cfg.Rules().BusinessHours),
		Notifier: notify.NewLogNotifier(logger),
		Audit:    dispatcher,
		Logger:   logger,
		Now:      func() time.Time { return time.Date(2026, 1, 2, 12, 0, 0, 0, cfg.Location()) },
	})
	return r
}

func serve(r http.Handler, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRoutes_Public(t *testing.T) {
	r := newEngine(t, nil)

	w := serve(r, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.JSONEq(t, `{"status":"ok","calendar":"mock"}`, w.Body.String())
	assert.NotEmpty(t, w.Header().Get(middleware.HeaderRequestID))

	w = serve(r, httptest.NewRequest(http.MethodGet, "/api/availability?startDate=2026-01-05&endDate=2026-01-09", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var days []map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &days))
	assert.Len(t, days, 5)

	w = serve(r, httptest.NewRequest(http.MethodGet, "/api/availability?date=2026-01-05", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRoutes_AdminDisabled(t *testing.T) {
	r := newEngine(t, nil)

	w := serve(r, httptest.NewRequest(http.MethodPost, "/api/auth/login", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), `"error_code":"not_found"`)
}

func TestRoutes_AdminLoginAndAuditLogs(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("hunter22"), bcrypt.MinCost)
	require.NoError(t, err)

	r := newEngine(t, func(cfg *config.Config) {
		cfg.AdminEmail = "owner@example.com"
		cfg.AdminPasswordHash = string(hash)
		cfg.JWTSecret = "secret"
	})

	w := serve(r, httptest.NewRequest(http.MethodGet, "/api/admin/audit-logs", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	body, _ := json.Marshal(map[string]string{"email": "owner@example.com", "password": "hunter22"})
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w = serve(r, req)
	require.Equal(t, http.StatusOK, w.Code)

	var login struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &login))

	req = httptest.NewRequest(http.MethodGet, "/api/admin/audit-logs", nil)
	req.Header.Set("Authorization", "Bearer "+login.Token)
	w = serve(r, req)

	// no database in this setup
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}
