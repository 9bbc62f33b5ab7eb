package bitable

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/nhle/lifeos/internal/source"
)

// tokenMargin is subtracted from the server-reported token lifetime so
// a token is never used right at its expiry edge.
const tokenMargin = 5 * time.Minute

// tokenProvider acquires short-lived bearer tokens from the token
// endpoint and caches them until shortly before expiry. When the server
// does not report a lifetime the cache is disabled and every operation
// re-acquires a token, which is the original client's behavior.
type tokenProvider struct {
	client *Client

	mu        sync.Mutex
	appID     string
	appSecret string
	token     string
	expiresAt time.Time
	now       func() time.Time
}

func newTokenProvider(client *Client) *tokenProvider {
	return &tokenProvider{
		client: client,
		now:    time.Now,
	}
}

// Token returns a valid bearer token for the given app credentials,
// reusing the cached one when it has not expired. Changing credentials
// invalidates the cache.
func (p *tokenProvider) Token(
	ctx context.Context,
	appID, appSecret string,
) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	sameApp := appID == p.appID && appSecret == p.appSecret
	if sameApp && p.token != "" && p.now().Before(p.expiresAt) {
		return p.token, nil
	}

	var data tokenData
	err := p.client.Post(ctx, "/auth/token", "", tokenRequest{
		AppID:     appID,
		AppSecret: appSecret,
	}, &data)
	if err != nil {
		var api *apiError
		if errors.As(err, &api) {
			// Any envelope error from the token endpoint means the
			// credentials were rejected.
			return "", &source.AuthError{Message: api.Msg}
		}
		return "", err
	}

	p.appID = appID
	p.appSecret = appSecret
	p.token = data.AccessToken
	if data.ExpiresIn > 0 {
		lifetime := time.Duration(data.ExpiresIn) * time.Second
		if lifetime > tokenMargin {
			lifetime -= tokenMargin
		}
		p.expiresAt = p.now().Add(lifetime)
	} else {
		p.expiresAt = time.Time{}
	}

	return data.AccessToken, nil
}

// invalidate drops the cached token, forcing the next operation to
// re-acquire one.
func (p *tokenProvider) invalidate() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.token = ""
	p.expiresAt = time.Time{}
}
