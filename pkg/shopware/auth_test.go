package shopware

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestAuthStoresPasswordGrantToken(t *testing.T) {
	shop := newFakeShop()
	ts := shop.start(t)

	c := newTestClient(t, ts)

	assert.Equal(t, "Bearer token-1", c.authHeader())
	assert.Equal(t, []string{"password"}, shop.grants())
}

func TestAuthFailureIsFatal(t *testing.T) {
	shop := newFakeShop()
	shop.authFail = true
	ts := shop.start(t)

	c := New(Config{URL: ts.URL, Username: "admin", Password: "wrong"},
		zaptest.NewLogger(t).Sugar())
	c.Start()
	defer c.Stop()

	err := c.Auth(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "shopware auth")
	assert.Empty(t, c.authHeader())
}

func TestRefreshLoopRotatesToken(t *testing.T) {
	shop := newFakeShop()
	shop.expiresIn = 11 // refresh fires one second after auth
	ts := shop.start(t)

	c := newTestClient(t, ts)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- c.refreshLoop(ctx)
	}()

	require.Eventually(t, func() bool {
		return c.authHeader() != "Bearer token-1"
	}, 5*time.Second, 50*time.Millisecond, "the loop must swap the token in before expiry")

	assert.Equal(t, "Bearer token-2", c.authHeader())
	assert.Contains(t, shop.grants(), "refresh_token")

	cancel()
	require.NoError(t, <-done, "cancellation is a clean exit")
}

func TestRefreshLoopStopsBeforeFirstRefreshOnCancel(t *testing.T) {
	shop := newFakeShop()
	ts := shop.start(t)

	c := newTestClient(t, ts)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- c.refreshLoop(ctx)
	}()

	cancel()
	require.NoError(t, <-done)
	assert.Equal(t, []string{"password"}, shop.grants(), "no refresh grant before the timer fires")
}
