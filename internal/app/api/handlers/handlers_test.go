package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	mw "github.com/fatflowers/karma/internal/app/api/middleware"
	"github.com/fatflowers/karma/internal/app/service/journal"
	"github.com/fatflowers/karma/internal/app/service/reminder"
	"github.com/fatflowers/karma/internal/app/service/user"
	"github.com/fatflowers/karma/internal/models"
	"github.com/fatflowers/karma/internal/platform/telegram"
	"github.com/fatflowers/karma/internal/platform/wayforpay"
	"github.com/fatflowers/karma/pkg/logctx"
	"github.com/fatflowers/karma/pkg/types"

	"github.com/gin-gonic/gin"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func decode(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var e envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &e), w.Body.String())
	return e
}

func newRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	return gin.New()
}

func asUser(id string) gin.HandlerFunc {
	return func(c *gin.Context) { c.Set(logctx.UserIDKey, id) }
}

func do(r http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRespondError_MapsSentinels(t *testing.T) {
	cases := []struct {
		err    error
		status int
		code   int
		msg    string
	}{
		{types.InvalidInput("content is required"), http.StatusBadRequest, 40000, "content is required"},
		{fmt.Errorf("entry x: %w", types.ErrNotFound), http.StatusNotFound, 40400, "not found"},
		{types.ErrBudgetExceeded, http.StatusTooManyRequests, 42900, "monthly AI budget exceeded"},
		{fmt.Errorf("%w: payments are not configured", types.ErrUnavailable), http.StatusServiceUnavailable, 50300, "payments are not configured"},
		{errors.New("pq: connection refused"), http.StatusInternalServerError, 50000, "internal error"},
	}
	for _, tc := range cases {
		r := newRouter()
		r.GET("/", func(c *gin.Context) { respondError(c, tc.err) })
		w := do(r, http.MethodGet, "/", nil)
		require.Equal(t, tc.status, w.Code, tc.err.Error())
		e := decode(t, w)
		assert.Equal(t, tc.code, e.Code)
		assert.Equal(t, tc.msg, e.Message)
	}
}

func TestRespondError_PlanRequiredCarriesPlans(t *testing.T) {
	r := newRouter()
	r.GET("/", func(c *gin.Context) {
		respondError(c, fmt.Errorf("insight: %w", types.RequirePlan(types.PlanLight, types.PlanPlus)))
	})
	w := do(r, http.MethodGet, "/", nil)
	require.Equal(t, http.StatusPaymentRequired, w.Code)
	e := decode(t, w)
	assert.Equal(t, 40200, e.Code)
	assert.JSONEq(t, `{"required":"plus","current":"light"}`, string(e.Data))
}

type stubLoginUsers struct{ got user.TelegramIdentity }

func (s *stubLoginUsers) FindOrCreateByTelegram(_ context.Context, id user.TelegramIdentity) (*models.User, bool, error) {
	s.got = id
	return &models.User{ID: "u-1", FirstName: id.FirstName}, true, nil
}

type stubIssuer struct{}

func (stubIssuer) Issue(userID string, now time.Time) (string, time.Time, error) {
	return "token-" + userID, now.Add(time.Hour), nil
}

func TestApiTelegramLogin(t *testing.T) {
	const botToken = "123:abc"
	users := &stubLoginUsers{}
	r := newRouter()
	RegisterAuthRoutes(r.Group("/api/auth"), users, stubIssuer{}, botToken)

	data := &telegram.LoginData{ID: 42, FirstName: "Ann", Username: "ann", AuthDate: time.Now().Unix()}
	data.Hash = telegram.LoginHash(botToken, data)

	w := do(r, http.MethodPost, "/api/auth/telegram", data)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var out LoginResponse
	require.NoError(t, json.Unmarshal(decode(t, w).Data, &out))
	assert.Equal(t, "token-u-1", out.Token)
	assert.True(t, out.IsNew)
	assert.Equal(t, int64(42), users.got.TelegramID)

	data.FirstName = "Mallory"
	w = do(r, http.MethodPost, "/api/auth/telegram", data)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

type stubJournal struct {
	created journal.CreateEntryInput
	userID  string
}

func (s *stubJournal) Create(_ context.Context, userID string, in journal.CreateEntryInput) (*journal.CreateResult, error) {
	s.userID, s.created = userID, in
	return &journal.CreateResult{Entry: &models.JournalEntry{ID: "e-1", Content: in.Content}}, nil
}

func (s *stubJournal) List(_ context.Context, _ string, q journal.ListEntriesQuery) (*journal.ListResult, error) {
	return &journal.ListResult{Total: int64(q.Limit)}, nil
}

func (s *stubJournal) Get(_ context.Context, _, id string) (*models.JournalEntry, error) {
	return nil, fmt.Errorf("entry %s: %w", id, types.ErrNotFound)
}

func (s *stubJournal) Update(_ context.Context, _, _ string, _ journal.UpdateEntryInput) (*models.JournalEntry, error) {
	return nil, types.InvalidInput("content is required")
}

func (s *stubJournal) Delete(_ context.Context, _, _ string) error { return nil }

func TestJournalRoutes(t *testing.T) {
	j := &stubJournal{}
	r := newRouter()
	g := r.Group("/api/journal", asUser("u-1"))
	RegisterJournalRoutes(g, j)

	w := do(r, http.MethodPost, "/api/journal/entries", map[string]any{"content": "noticed it", "source": "telegram"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, "u-1", j.userID)
	assert.Equal(t, types.EntrySourceWeb, j.created.Source)

	w = do(r, http.MethodGet, "/api/journal/entries?limit=5", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"items":null,"total":5}`, string(decode(t, w).Data))

	w = do(r, http.MethodGet, "/api/journal/entries/not-a-uuid", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	id := "0192f0c4-1a2b-7c3d-8e4f-0123456789ab"
	w = do(r, http.MethodGet, "/api/journal/entries/"+id, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(r, http.MethodPatch, "/api/journal/entries/"+id, map[string]any{"content": ""})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "content is required", decode(t, w).Message)

	w = do(r, http.MethodDelete, "/api/journal/entries/"+id, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

type stubNotifications struct {
	resp *wayforpay.Response
	err  error
}

func (s stubNotifications) HandleNotification(context.Context, []byte, time.Time) (*wayforpay.Response, error) {
	return s.resp, s.err
}

func TestApiWayForPayWebhook(t *testing.T) {
	ack := &wayforpay.Response{OrderReference: "KD-1", Status: wayforpay.ResponseDecline, Time: 1, Signature: "sig"}
	r := newRouter()
	RegisterWebhookRoutes(r.Group("/api/webhooks"), stubNotifications{resp: ack, err: types.ErrInvalidSignature})
	w := do(r, http.MethodPost, "/api/webhooks/wayforpay", map[string]any{"orderReference": "KD-1"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"orderReference":"KD-1","status":"decline","time":1,"signature":"sig"}`, w.Body.String())

	r = newRouter()
	RegisterWebhookRoutes(r.Group("/api/webhooks"), stubNotifications{err: fmt.Errorf("%w: bad json", types.ErrInvalidInput)})
	w = do(r, http.MethodPost, "/api/webhooks/wayforpay", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

type stubBot struct{ got *tgbotapi.Update }

func (s *stubBot) HandleUpdate(_ context.Context, upd tgbotapi.Update) { s.got = &upd }

func TestApiTelegramWebhook(t *testing.T) {
	bot := &stubBot{}
	r := newRouter()
	RegisterTelegramRoutes(r.Group("/api/telegram"), bot, "s3cret")

	w := do(r, http.MethodPost, "/api/telegram/webhook", map[string]any{"update_id": 7})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Nil(t, bot.got)

	req := httptest.NewRequest(http.MethodPost, "/api/telegram/webhook", bytes.NewBufferString(`{"update_id":7}`))
	req.Header.Set(TelegramSecretHeader, "s3cret")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, bot.got)
	assert.Equal(t, 7, bot.got.UpdateID)
}

type stubReminders struct{ kinds []reminder.Kind }

func (s *stubReminders) RunOnce(_ context.Context, kind reminder.Kind, _ time.Time) (*reminder.BatchResult, error) {
	s.kinds = append(s.kinds, kind)
	return &reminder.BatchResult{Kind: kind, Users: 3, Sent: 2, Skipped: 1}, nil
}

type stubTrials struct{ n int64 }

func (s stubTrials) ExpireTrials(context.Context, time.Time) (int64, error) { return s.n, nil }

func TestAdminRoutes(t *testing.T) {
	rem := &stubReminders{}
	r := newRouter()
	RegisterAdminRoutes(r.Group("/api/admin"), AdminDeps{Reminders: rem, Trials: stubTrials{n: 4}})

	w := do(r, http.MethodPost, "/api/admin/reminders/evening/run", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []reminder.Kind{reminder.KindEvening}, rem.kinds)

	w = do(r, http.MethodPost, "/api/admin/reminders/midnight/run", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Len(t, rem.kinds, 1)

	w = do(r, http.MethodPost, "/api/admin/subscriptions/expire-trials", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"expired":4}`, string(decode(t, w).Data))
}

type stubCatalogue struct{}

func (stubCatalogue) List(context.Context) ([]*models.Principle, error) {
	return []*models.Principle{{Number: 1, Title: "Cause and effect"}}, nil
}

func (stubCatalogue) Get(_ context.Context, n int) (*models.Principle, error) {
	if n != 1 {
		return nil, fmt.Errorf("principle %d: %w", n, types.ErrNotFound)
	}
	return &models.Principle{Number: 1}, nil
}

func TestPrincipleRoutes(t *testing.T) {
	r := newRouter()
	RegisterPrincipleRoutes(r.Group("/api/principles"), stubCatalogue{})

	assert.Equal(t, http.StatusOK, do(r, http.MethodGet, "/api/principles", nil).Code)
	assert.Equal(t, http.StatusOK, do(r, http.MethodGet, "/api/principles/1", nil).Code)
	assert.Equal(t, http.StatusNotFound, do(r, http.MethodGet, "/api/principles/13", nil).Code)
	assert.Equal(t, http.StatusBadRequest, do(r, http.MethodGet, "/api/principles/one", nil).Code)
}

func TestApiVAPIDPublicKey(t *testing.T) {
	r := newRouter()
	RegisterPushRoutes(r.Group("/on"), r.Group("/on"), "BPub", nil)
	RegisterPushRoutes(r.Group("/off"), r.Group("/off"), "", nil)

	w := do(r, http.MethodGet, "/on/vapid-public-key", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"public_key":"BPub"}`, string(decode(t, w).Data))
	assert.Equal(t, http.StatusServiceUnavailable, do(r, http.MethodGet, "/off/vapid-public-key", nil).Code)
}

func TestHandlers_LogThroughRequestLogger(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	r := newRouter()
	r.Use(mw.TraceMiddleware(), mw.RequestLoggerMiddleware(zap.New(core).Sugar()))
	r.GET("/boom", func(c *gin.Context) { respondError(c, errors.New("disk full")) })
	ack := &wayforpay.Response{OrderReference: "KD-1", Status: wayforpay.ResponseDecline}
	RegisterWebhookRoutes(r.Group("/api/webhooks"), stubNotifications{resp: ack, err: types.ErrInvalidSignature})

	w := do(r, http.MethodGet, "/boom", nil)
	require.Equal(t, http.StatusInternalServerError, w.Code)
	failed := logs.FilterMessage("request failed").All()
	require.Len(t, failed, 1)
	require.Equal(t, "disk full", failed[0].ContextMap()["error"])
	require.NotEmpty(t, failed[0].ContextMap()["trace_id"])

	w = do(r, http.MethodPost, "/api/webhooks/wayforpay", map[string]any{})
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, 1, logs.FilterMessage("webhook_wayforpay_declined").Len())
}
