package webpush

import (
	"context"
	"crypto/ecdh"
	"crypto/rand"
	"encoding/base64"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/fatflowers/karma/pkg/config"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testEndpoint(t *testing.T, url string) Endpoint {
	t.Helper()
	key, err := ecdh.P256().GenerateKey(rand.Reader)
	require.NoError(t, err)
	auth := make([]byte, 16)
	_, err = rand.Read(auth)
	require.NoError(t, err)
	return Endpoint{
		Endpoint: url,
		P256dh:   base64.RawURLEncoding.EncodeToString(key.PublicKey().Bytes()),
		Auth:     base64.RawURLEncoding.EncodeToString(auth),
	}
}

func testClient(t *testing.T) *Client {
	t.Helper()
	priv, pub, err := webpush.GenerateVAPIDKeys()
	require.NoError(t, err)
	return New(&config.Config{WebPush: config.WebPushConfig{
		VAPIDPublicKey:  pub,
		VAPIDPrivateKey: priv,
		Subject:         "mailto:test@example.com",
		TTL:             60,
		SendTimeout:     5 * time.Second,
	}})
}

func TestSend_StatusMapping(t *testing.T) {
	cases := []struct {
		status int
		check  func(t *testing.T, err error)
	}{
		{http.StatusCreated, func(t *testing.T, err error) { require.NoError(t, err) }},
		{http.StatusGone, func(t *testing.T, err error) { require.ErrorIs(t, err, ErrGone) }},
		{http.StatusNotFound, func(t *testing.T, err error) { require.ErrorIs(t, err, ErrGone) }},
		{http.StatusInternalServerError, func(t *testing.T, err error) {
			require.Error(t, err)
			require.NotErrorIs(t, err, ErrGone)
		}},
	}
	c := testClient(t)
	for _, tc := range cases {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.NotEmpty(t, r.Header.Get("Authorization"))
			w.WriteHeader(tc.status)
		}))
		err := c.Send(context.Background(), testEndpoint(t, srv.URL+"/push/abc"), Payload{Title: "t", Body: "b"})
		tc.check(t, err)
		srv.Close()
	}
}

func TestSend_Disabled(t *testing.T) {
	c := New(&config.Config{})
	require.False(t, c.Enabled())
	require.ErrorIs(t, c.Send(context.Background(), Endpoint{}, Payload{}), ErrNotConfigured)
}
