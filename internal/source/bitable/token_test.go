package bitable

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/lifeos/internal/source"
)

// tokenServer serves /auth/token with a configurable lifetime and
// counts acquisitions.
func tokenServer(t *testing.T, expiresIn int64) (*Client, *int) {
	t.Helper()
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, "/auth/token", r.URL.Path)
			calls++
			fmt.Fprintf(w,
				`{"code":0,"msg":"ok","data":{"access_token":"tok-%d","expires_in":%d}}`,
				calls, expiresIn)
		}))
	t.Cleanup(srv.Close)
	return NewClient(srv.URL), &calls
}

func TestTokenCaching(t *testing.T) {
	client, calls := tokenServer(t, 7200)

	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	p := newTokenProvider(client)
	p.now = func() time.Time { return now }

	ctx := context.Background()

	tok, err := p.Token(ctx, "app", "secret")
	require.NoError(t, err)
	assert.Equal(t, "tok-1", tok)

	// Within the lifetime the cached token is reused.
	now = now.Add(90 * time.Minute)
	tok, err = p.Token(ctx, "app", "secret")
	require.NoError(t, err)
	assert.Equal(t, "tok-1", tok)
	assert.Equal(t, 1, *calls)

	// Inside the safety margin (2h - 5m) a fresh token is acquired.
	now = now.Add(26 * time.Minute)
	tok, err = p.Token(ctx, "app", "secret")
	require.NoError(t, err)
	assert.Equal(t, "tok-2", tok)
	assert.Equal(t, 2, *calls)
}

func TestTokenNoLifetimeDisablesCache(t *testing.T) {
	client, calls := tokenServer(t, 0)

	p := newTokenProvider(client)
	ctx := context.Background()

	_, err := p.Token(ctx, "app", "secret")
	require.NoError(t, err)
	_, err = p.Token(ctx, "app", "secret")
	require.NoError(t, err)

	assert.Equal(t, 2, *calls)
}

func TestTokenCredentialChangeInvalidatesCache(t *testing.T) {
	client, calls := tokenServer(t, 7200)

	p := newTokenProvider(client)
	ctx := context.Background()

	_, err := p.Token(ctx, "app-a", "secret-a")
	require.NoError(t, err)
	_, err = p.Token(ctx, "app-b", "secret-b")
	require.NoError(t, err)

	assert.Equal(t, 2, *calls)
}

func TestTokenRejectionIsAuthError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `{"code":10002,"msg":"app secret invalid"}`)
		}))
	t.Cleanup(srv.Close)

	p := newTokenProvider(NewClient(srv.URL))
	_, err := p.Token(context.Background(), "app", "wrong")

	var authErr *source.AuthError
	require.ErrorAs(t, err, &authErr)
	assert.Contains(t, authErr.Message, "app secret invalid")
}

func TestTokenInvalidate(t *testing.T) {
	client, calls := tokenServer(t, 7200)

	p := newTokenProvider(client)
	ctx := context.Background()

	_, err := p.Token(ctx, "app", "secret")
	require.NoError(t, err)

	p.invalidate()

	_, err = p.Token(ctx, "app", "secret")
	require.NoError(t, err)
	assert.Equal(t, 2, *calls)
}
