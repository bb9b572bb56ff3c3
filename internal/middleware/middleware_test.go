package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func perform(r http.Handler, method, path string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func signed(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return "Bearer " + tok
}

func TestAuthMiddleware(t *testing.T) {
	const secret = "s3cret"

	r := gin.New()
	r.GET("/admin", AuthMiddleware(secret), func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString(ContextAdminEmail))
	})

	valid := jwt.MapClaims{
		"sub":  "owner@example.com",
		"role": RoleAdmin,
		"exp":  time.Now().Add(time.Hour).Unix(),
	}

	w := perform(r, http.MethodGet, "/admin", map[string]string{"Authorization": signed(t, secret, valid)})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "owner@example.com", w.Body.String())

	cases := map[string]string{
		"missing header": "",
		"not bearer":     "Basic abc",
		"wrong secret":   signed(t, "other", valid),
		"expired": signed(t, secret, jwt.MapClaims{
			"sub": "owner@example.com", "role": RoleAdmin, "exp": time.Now().Add(-time.Minute).Unix(),
		}),
		"no expiry": signed(t, secret, jwt.MapClaims{"sub": "owner@example.com", "role": RoleAdmin}),
		"wrong role": signed(t, secret, jwt.MapClaims{
			"sub": "owner@example.com", "role": "viewer", "exp": time.Now().Add(time.Hour).Unix(),
		}),
	}
	for name, header := range cases {
		t.Run(name, func(t *testing.T) {
			h := map[string]string{}
			if header != "" {
				h["Authorization"] = header
			}
			w := perform(r, http.MethodGet, "/admin", h)
			assert.Equal(t, http.StatusUnauthorized, w.Code)
		})
	}
}

func TestCORSMiddleware(t *testing.T) {
	r := gin.New()
	r.Use(CORSMiddleware([]string{"https://shop.example.com"}))
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := perform(r, http.MethodGet, "/x", map[string]string{"Origin": "https://shop.example.com"})
	assert.Equal(t, "https://shop.example.com", w.Header().Get("Access-Control-Allow-Origin"))

	w = perform(r, http.MethodGet, "/x", map[string]string{"Origin": "https://evil.example.com"})
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))

	w = perform(r, http.MethodOptions, "/x", map[string]string{"Origin": "https://shop.example.com"})
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestRequestLogger(t *testing.T) {
	r := gin.New()
	r.Use(RequestLogger(zap.NewNop()))
	r.GET("/x", func(c *gin.Context) {
		assert.NotNil(t, Logger(c, nil))
		c.String(http.StatusOK, c.GetString(ContextRequestID))
	})

	w := perform(r, http.MethodGet, "/x", nil)
	id := w.Header().Get(HeaderRequestID)
	assert.Len(t, id, 36)
	assert.Equal(t, id, w.Body.String())

	w = perform(r, http.MethodGet, "/x", map[string]string{HeaderRequestID: "abc-123"})
	assert.Equal(t, "abc-123", w.Header().Get(HeaderRequestID))
}

func TestIPRateLimiter(t *testing.T) {
	l := NewIPRateLimiter(2, zap.NewNop())

	r := gin.New()
	r.POST("/book", l.Middleware(), func(c *gin.Context) { c.Status(http.StatusOK) })

	assert.Equal(t, http.StatusOK, perform(r, http.MethodPost, "/book", nil).Code)
	assert.Equal(t, http.StatusOK, perform(r, http.MethodPost, "/book", nil).Code)
	assert.Equal(t, http.StatusTooManyRequests, perform(r, http.MethodPost, "/book", nil).Code)
}

func TestIPRateLimiter_EvictsIdleVisitors(t *testing.T) {
	l := NewIPRateLimiter(2, zap.NewNop())
	now := time.Date(2026, 1, 5, 9, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return now }

	l.limiter("10.0.0.1")
	now = now.Add(limiterIdleTTL + time.Second)
	l.limiter("10.0.0.2")

	assert.Len(t, l.visitors, 1)
	assert.Contains(t, l.visitors, "10.0.0.2")
}

func TestIPRateLimiter_SweepsAtMostOncePerInterval(t *testing.T) {
	l := NewIPRateLimiter(2, zap.NewNop())
	now := time.Date(2026, 1, 5, 9, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return now }

	l.limiter("10.0.0.1")
	l.limiter("10.0.0.2")
	swept := l.lastSweep

	// 10.0.0.1 goes idle, but the next sweep is not due yet
	l.visitors["10.0.0.1"].lastSeen = now.Add(-limiterIdleTTL - time.Second)
	now = now.Add(limiterSweepInterval / 2)
	l.limiter("10.0.0.2")

	assert.Equal(t, swept, l.lastSweep)
	assert.Len(t, l.visitors, 2)

	now = now.Add(limiterSweepInterval)
	l.limiter("10.0.0.2")

	assert.Equal(t, now, l.lastSweep)
	assert.Len(t, l.visitors, 1)
	assert.Contains(t, l.visitors, "10.0.0.2")
}

// fakeScripter counts per key the way the fixed window script would.
type fakeScripter struct {
	counts map[string]int64
	err    error
}

func (f *fakeScripter) run(ctx context.Context, keys []string) *redis.Cmd {
	if f.err != nil {
		return redis.NewCmdResult(nil, f.err)
	}
	f.counts[keys[0]]++
	return redis.NewCmdResult(f.counts[keys[0]], nil)
}

func (f *fakeScripter) Eval(ctx context.Context, _ string, keys []string, _ ...interface{}) *redis.Cmd {
	return f.run(ctx, keys)
}

func (f *fakeScripter) EvalSha(ctx context.Context, _ string, keys []string, _ ...interface{}) *redis.Cmd {
	return f.run(ctx, keys)
}

func (f *fakeScripter) ScriptExists(ctx context.Context, hashes ...string) *redis.BoolSliceCmd {
	return redis.NewBoolSliceResult([]bool{true}, nil)
}

func (f *fakeScripter) ScriptLoad(ctx context.Context, script string) *redis.StringCmd {
	return redis.NewStringResult("sha", nil)
}

func TestRedisRateLimiter(t *testing.T) {
	fake := &fakeScripter{counts: map[string]int64{}}
	rl := NewRedisRateLimiter(fake, 2, time.Minute, "booking", zap.NewNop())

	r := gin.New()
	r.POST("/book", rl.Middleware(), func(c *gin.Context) { c.Status(http.StatusOK) })

	assert.Equal(t, http.StatusOK, perform(r, http.MethodPost, "/book", nil).Code)
	assert.Equal(t, http.StatusOK, perform(r, http.MethodPost, "/book", nil).Code)
	assert.Equal(t, http.StatusTooManyRequests, perform(r, http.MethodPost, "/book", nil).Code)
	assert.Equal(t, int64(3), fake.counts["booking:192.0.2.1"])
}

func TestRedisRateLimiter_FailsOpen(t *testing.T) {
	fake := &fakeScripter{counts: map[string]int64{}, err: errors.New("connection refused")}
	rl := NewRedisRateLimiter(fake, 1, time.Minute, "", zap.NewNop())

	r := gin.New()
	r.POST("/book", rl.Middleware(), func(c *gin.Context) { c.Status(http.StatusOK) })

	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusOK, perform(r, http.MethodPost, "/book", nil).Code)
	}
}
