package bitable

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/lifeos/internal/source"
)

func TestClientEnvelopeDecoding(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "Bearer tok-1", r.Header.Get("Authorization"))
			w.Write([]byte(`{"code":0,"msg":"success","data":{"value":"hello"}}`))
		}))
	defer srv.Close()

	var payload struct {
		Value string `json:"value"`
	}
	client := NewClient(srv.URL)
	err := client.Get(context.Background(), "/thing", "tok-1", &payload)

	require.NoError(t, err)
	assert.Equal(t, "hello", payload.Value)
}

func TestClientEnvelopeError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"code":99991,"msg":"something broke"}`))
		}))
	defer srv.Close()

	client := NewClient(srv.URL)
	err := client.Get(context.Background(), "/thing", "tok", nil)

	var api *apiError
	require.ErrorAs(t, err, &api)
	assert.Equal(t, 99991, api.Code)
	assert.Equal(t, "something broke", api.Msg)
}

func TestClientAuthStatus(t *testing.T) {
	for _, status := range []int{http.StatusUnauthorized, http.StatusForbidden} {
		srv := httptest.NewServer(http.HandlerFunc(
			func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(status)
			}))

		client := NewClient(srv.URL)
		err := client.Get(context.Background(), "/thing", "stale", nil)
		srv.Close()

		var authErr *source.AuthError
		assert.ErrorAs(t, err, &authErr, "status %d", status)
	}
}

func TestClientUnexpectedStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
			w.Write([]byte("upstream down"))
		}))
	defer srv.Close()

	client := NewClient(srv.URL)
	err := client.Delete(context.Background(), "/thing", "tok")

	var reqErr *source.RequestError
	require.ErrorAs(t, err, &reqErr)
	assert.Equal(t, http.StatusBadGateway, reqErr.Status)
	assert.Equal(t, "DELETE", reqErr.Method)
}

func TestClientTransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // connection refused from here on

	client := NewClient(srv.URL)
	err := client.Get(context.Background(), "/thing", "tok", nil)

	var reqErr *source.RequestError
	require.ErrorAs(t, err, &reqErr)
	assert.False(t, errors.Is(err, source.ErrNotConfigured))
}
