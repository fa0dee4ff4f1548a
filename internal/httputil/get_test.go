// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package httputil

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGet_SendsHeadersAndReturnsBody(t *testing.T) {
	var gotKey string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.Header.Get("X-Api-Key")
		fmt.Fprint(w, `{"remaining_uses":7}`)
	}))
	defer ts.Close()

	body, err := Get(context.Background(), ts.Client(), ts.URL, map[string]string{"X-Api-Key": "tok"})
	require.NoError(t, err)
	assert.Equal(t, "tok", gotKey)
	assert.JSONEq(t, `{"remaining_uses":7}`, string(body))
}

func TestGet_Non2xxIsStatusError(t *testing.T) {
	for _, code := range []int{http.StatusBadRequest, http.StatusTooManyRequests, http.StatusBadGateway} {
		t.Run(http.StatusText(code), func(t *testing.T) {
			ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(code)
			}))
			defer ts.Close()

			_, err := Get(context.Background(), ts.Client(), ts.URL, nil)
			var se *StatusError
			require.True(t, errors.As(err, &se))
			assert.Equal(t, code, se.StatusCode)
		})
	}
}

func TestGet_ConnectionFailure(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := ts.URL
	ts.Close()

	_, err := Get(context.Background(), http.DefaultClient, url, nil)
	assert.Error(t, err)
	assert.True(t, Retryable(context.Background(), err))
}
