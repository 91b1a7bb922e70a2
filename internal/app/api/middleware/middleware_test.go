package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/fatflowers/karma/pkg/auth"
	"github.com/fatflowers/karma/pkg/config"
	"github.com/fatflowers/karma/pkg/logctx"
	"github.com/fatflowers/karma/pkg/types"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newRouter(mws ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(mws...)
	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"user_id":  UserID(c),
			"trace_id": logctx.TraceID(c.Request.Context()),
		})
	})
	return r
}

func get(r http.Handler, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func body(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var m map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &m))
	return m
}

func TestTraceMiddleware_PropagatesRequestID(t *testing.T) {
	log := zap.NewNop().Sugar()
	r := newRouter(TraceMiddleware(), RequestLoggerMiddleware(log), AccessLogMiddleware(log))

	w := get(r, map[string]string{RequestIDHeader: "req-1"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "req-1", w.Header().Get(RequestIDHeader))
	assert.Equal(t, "req-1", body(t, w)["trace_id"])

	w = get(r, nil)
	assert.NotEmpty(t, w.Header().Get(RequestIDHeader))
}

func newIssuer() *auth.Issuer {
	cfg := &config.Config{}
	cfg.Auth.JWTSecret = "0123456789abcdef0123456789abcdef"
	cfg.Auth.TokenTTL = time.Hour
	return auth.NewIssuer(cfg)
}

func TestAuth(t *testing.T) {
	iss := newIssuer()
	r := newRouter(Auth(iss, zap.NewNop().Sugar()))

	w := get(r, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = get(r, map[string]string{"Authorization": "Bearer garbage"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.EqualValues(t, 40100, body(t, w)["code"])

	expired, _, err := iss.Issue("u-1", time.Now().Add(-2*time.Hour))
	require.NoError(t, err)
	w = get(r, map[string]string{"Authorization": "Bearer " + expired})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	token, _, err := iss.Issue("u-1", time.Now())
	require.NoError(t, err)
	w = get(r, map[string]string{"Authorization": "bearer " + token})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "u-1", body(t, w)["user_id"])
}

func TestAdminToken(t *testing.T) {
	r := newRouter(AdminToken("adm"))
	assert.Equal(t, http.StatusForbidden, get(r, nil).Code)
	assert.Equal(t, http.StatusForbidden, get(r, map[string]string{AdminTokenHeader: "nope"}).Code)
	assert.Equal(t, http.StatusOK, get(r, map[string]string{AdminTokenHeader: "adm"}).Code)

	closed := newRouter(AdminToken(""))
	assert.Equal(t, http.StatusForbidden, get(closed, map[string]string{AdminTokenHeader: ""}).Code)
}

type stubPlans struct {
	plan types.Plan
	err  error
}

func (s stubPlans) CurrentPlan(context.Context, string) (types.Plan, error) { return s.plan, s.err }

func TestRequirePlan(t *testing.T) {
	log := zap.NewNop().Sugar()

	w := get(newRouter(RequirePlan(stubPlans{plan: types.PlanLight}, types.PlanPlus, log)), nil)
	require.Equal(t, http.StatusPaymentRequired, w.Code)
	m := body(t, w)
	assert.EqualValues(t, 40200, m["code"])
	assert.Equal(t, map[string]any{"required": "plus", "current": "light"}, m["data"])

	w = get(newRouter(RequirePlan(stubPlans{plan: types.PlanLight}, types.PlanPro, log)), nil)
	assert.Equal(t, http.StatusPaymentRequired, w.Code)

	w = get(newRouter(RequirePlan(stubPlans{plan: types.PlanPro}, types.PlanPlus, log)), nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = get(newRouter(RequirePlan(stubPlans{plan: types.PlanTrial}, types.PlanPlus, log)), nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = get(newRouter(RequirePlan(stubPlans{err: errors.New("db down")}, types.PlanPlus, log)), nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
