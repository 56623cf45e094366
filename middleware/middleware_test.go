package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"civicdesk/models"
	"civicdesk/utils"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func init() {
	utils.Logger = zap.NewNop()
}

type fakeUsers struct {
	users map[string]models.User
}

func (f *fakeUsers) GetByID(_ context.Context, id string) (*models.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (f *fakeUsers) FindApprovedByRole(context.Context, string) ([]models.User, error) {
	return nil, nil
}

func (f *fakeUsers) FindApprovedHead(context.Context, string) (*models.User, error) {
	return nil, nil
}

func newRouter(users *fakeUsers, roles ...string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	var mw []gin.HandlerFunc
	if users == nil {
		mw = append(mw, JWTAuthMiddleware(nil))
	} else {
		mw = append(mw, JWTAuthMiddleware(users))
	}
	if len(roles) > 0 {
		mw = append(mw, RequireRoles(roles...))
	}
	mw = append(mw, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user": c.GetString(CtxUserID), "role": c.GetString(CtxRole)})
	})
	r.GET("/secure", mw...)
	return r
}

func get(t *testing.T, r *gin.Engine, token string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/secure", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	r.ServeHTTP(w, req)
	return w
}

func TestJWTAuthMiddleware(t *testing.T) {
	r := newRouter(nil)

	assert.Equal(t, http.StatusUnauthorized, get(t, r, "").Code)
	assert.Equal(t, http.StatusUnauthorized, get(t, r, "garbage").Code)

	token, err := utils.GenerateToken("u-1", models.RoleCollector, "", time.Hour)
	require.NoError(t, err)
	w := get(t, r, token)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"user":"u-1"`)

	expired, err := utils.GenerateToken("u-1", models.RoleCollector, "", -time.Minute)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, get(t, r, expired).Code)
}

func TestJWTAuthMiddlewareChecksAccountStatus(t *testing.T) {
	users := &fakeUsers{users: map[string]models.User{
		"ok":      {ID: "ok", Role: models.RoleHead, Status: models.StatusApproved},
		"pending": {ID: "pending", Role: models.RoleHead, Status: models.StatusPending},
	}}
	r := newRouter(users)

	// Role comes from the stored account, not the token.
	token, _ := utils.GenerateToken("ok", models.RoleAdmin, "", time.Hour)
	w := get(t, r, token)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"role":"head"`)

	token, _ = utils.GenerateToken("pending", models.RoleHead, "", time.Hour)
	assert.Equal(t, http.StatusUnauthorized, get(t, r, token).Code)

	token, _ = utils.GenerateToken("ghost", models.RoleHead, "", time.Hour)
	assert.Equal(t, http.StatusUnauthorized, get(t, r, token).Code)
}

func TestRequireRoles(t *testing.T) {
	r := newRouter(nil, models.RoleCollector, models.RoleAdmin)

	token, _ := utils.GenerateToken("u-1", models.RoleCitizen, "", time.Hour)
	assert.Equal(t, http.StatusForbidden, get(t, r, token).Code)

	token, _ = utils.GenerateToken("u-2", models.RoleAdmin, "", time.Hour)
	assert.Equal(t, http.StatusOK, get(t, r, token).Code)
}

func pingWithForwardedFor(r *gin.Engine, xff string) int {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("X-Forwarded-For", xff)
	r.ServeHTTP(w, req)
	return w.Code
}

func TestRateLimitMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	// httptest requests arrive from 192.0.2.1.
	require.NoError(t, r.SetTrustedProxies([]string{"192.0.2.1"}))
	r.Use(RateLimitMiddleware(2))
	r.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })

	for i := 0; i < 2; i++ {
		require.Equal(t, http.StatusOK, pingWithForwardedFor(r, "10.0.0.1"))
	}
	assert.Equal(t, http.StatusTooManyRequests, pingWithForwardedFor(r, "10.0.0.1"))

	// Another client behind the trusted proxy has its own bucket.
	assert.Equal(t, http.StatusOK, pingWithForwardedFor(r, "10.0.0.2"))
}

func TestRateLimitIgnoresForwardedForFromUntrustedPeers(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	require.NoError(t, r.SetTrustedProxies(nil))
	r.Use(RateLimitMiddleware(2))
	r.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })

	require.Equal(t, http.StatusOK, pingWithForwardedFor(r, "10.0.0.1"))
	require.Equal(t, http.StatusOK, pingWithForwardedFor(r, "10.0.0.2"))
	assert.Equal(t, http.StatusTooManyRequests, pingWithForwardedFor(r, "10.0.0.3"))
}

func TestRateLimiterStoreEvictsIdleClients(t *testing.T) {
	clock := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	store := newRateLimiterStore(5, time.Minute)
	store.now = func() time.Time { return clock }
	store.lastSweep = clock

	store.getLimiter("10.0.0.1")
	store.getLimiter("10.0.0.2")
	require.Equal(t, 2, store.size())

	clock = clock.Add(30 * time.Second)
	store.getLimiter("10.0.0.2")

	clock = clock.Add(45 * time.Second)
	store.getLimiter("10.0.0.3")
	assert.Equal(t, 2, store.size())
	_, kept := store.limiters["10.0.0.2"]
	assert.True(t, kept)
	_, evicted := store.limiters["10.0.0.1"]
	assert.False(t, evicted)
}
