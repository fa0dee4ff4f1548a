// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package resolve

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/connectedpapers/internal/httputil"
)

const (
	sha     = "9397e7acd062245d37350f5c05faf56e9cfae0d6"
	testDOI = "10.1145/1234567.1234568"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantType IdentifierType
		wantNorm string
	}{
		{"paper id", sha, TypePaperID, sha},
		{"paper id upper case", "9397E7ACD062245D37350F5C05FAF56E9CFAE0D6", TypePaperID, sha},
		{"paper id with whitespace", "  " + sha + "\n", TypePaperID, sha},
		{"semantic scholar url", "https://www.semanticscholar.org/paper/DeepFruits/" + sha, TypePaperID, sha},
		{"arxiv", "2301.07041", TypeArxiv, "2301.07041"},
		{"arxiv prefixed", "arXiv:1706.03762v5", TypeArxiv, "1706.03762v5"},
		{"arxiv abs url", "https://arxiv.org/abs/1706.03762", TypeArxiv, "1706.03762"},
		{"arxiv pdf url", "https://arxiv.org/pdf/1706.03762.pdf", TypeArxiv, "1706.03762"},
		{"doi", "10.3390/s16081222", TypeDOI, "10.3390/s16081222"},
		{"doi url", "https://doi.org/10.3390/s16081222", TypeDOI, "10.3390/s16081222"},
		{"corpus id", "CorpusId:215416146", TypeCorpusID, "215416146"},
		{"unknown", "not-an-id", TypeUnknown, "not-an-id"},
		{"short hex", "abc123", TypeUnknown, "abc123"},
		{"empty", "", TypeUnknown, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotType, gotNorm := Classify(tt.input)
			assert.Equal(t, tt.wantType, gotType)
			assert.Equal(t, tt.wantNorm, gotNorm)
		})
	}
}

func withServer(t *testing.T, h http.HandlerFunc) *httptest.Server {
	t.Helper()
	ts := httptest.NewServer(h)
	t.Cleanup(ts.Close)
	old := semanticPaperBase
	semanticPaperBase = ts.URL + "/paper/"
	t.Cleanup(func() { semanticPaperBase = old })
	return ts
}

func noSleep(context.Context, time.Duration) error { return nil }

func TestResolve_PassThrough(t *testing.T) {
	withServer(t, func(http.ResponseWriter, *http.Request) {
		t.Error("no request expected")
	})
	r := &Resolver{Sleep: noSleep}

	for _, id := range []string{sha, "garbage"} {
		got, err := r.Resolve(context.Background(), id)
		require.NoError(t, err)
		assert.Equal(t, id, got)
	}
}

func TestResolve_Lookups(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantPath string
	}{
		{"doi", "10.3390/s16081222", "/paper/DOI:10.3390/s16081222"},
		{"arxiv", "arXiv:1706.03762", "/paper/ARXIV:1706.03762"},
		{"corpus", "CorpusId:42", "/paper/CorpusId:42"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotPath, gotFields, gotKey string
			ts := withServer(t, func(w http.ResponseWriter, r *http.Request) {
				gotPath = r.URL.Path
				gotFields = r.URL.Query().Get("fields")
				gotKey = r.Header.Get("x-api-key")
				fmt.Fprintf(w, `{"paperId":%q}`, sha)
			})

			res := &Resolver{Client: ts.Client(), APIKey: "s2", Sleep: noSleep}
			got, err := res.Resolve(context.Background(), tt.input)
			require.NoError(t, err)
			assert.Equal(t, sha, got)
			assert.Equal(t, tt.wantPath, gotPath)
			assert.Equal(t, "paperId", gotFields)
			assert.Equal(t, "s2", gotKey)
		})
	}
}

func TestResolve_RetriesTransportFailures(t *testing.T) {
	for _, code := range []int{http.StatusTooManyRequests, http.StatusBadGateway} {
		t.Run(fmt.Sprint(code), func(t *testing.T) {
			calls := 0
			ts := withServer(t, func(w http.ResponseWriter, _ *http.Request) {
				calls++
				if calls == 1 {
					w.WriteHeader(code)
					return
				}
				fmt.Fprintf(w, `{"paperId":%q}`, sha)
			})

			var delays []time.Duration
			res := &Resolver{Client: ts.Client(), Sleep: func(_ context.Context, d time.Duration) error {
				delays = append(delays, d)
				return nil
			}}
			got, err := res.Resolve(context.Background(), testDOI)
			require.NoError(t, err)
			assert.Equal(t, sha, got)
			assert.Equal(t, 2, calls)
			assert.Equal(t, []time.Duration{lookupDelay}, delays)
		})
	}
}

func TestResolve_ClientErrorsNotRetried(t *testing.T) {
	for _, code := range []int{http.StatusNotFound, http.StatusBadRequest, http.StatusForbidden} {
		t.Run(fmt.Sprint(code), func(t *testing.T) {
			calls := 0
			ts := withServer(t, func(w http.ResponseWriter, _ *http.Request) {
				calls++
				w.WriteHeader(code)
				fmt.Fprint(w, `{"error":"Paper not found"}`)
			})
			res := &Resolver{Client: ts.Client(), Sleep: noSleep}
			_, err := res.Resolve(context.Background(), testDOI)
			var se *httputil.StatusError
			require.ErrorAs(t, err, &se)
			assert.Equal(t, code, se.StatusCode)
			assert.Equal(t, 1, calls)
		})
	}
}

func TestResolve_Errors(t *testing.T) {
	tests := []struct {
		name string
		code int
		body string
	}{
		{"server error", http.StatusInternalServerError, `{"error":"boom"}`},
		{"missing paperId", http.StatusOK, `{}`},
		{"invalid JSON", http.StatusOK, `nope`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			ts := withServer(t, func(w http.ResponseWriter, _ *http.Request) {
				calls++
				w.WriteHeader(tt.code)
				fmt.Fprint(w, tt.body)
			})
			res := &Resolver{Client: ts.Client(), Sleep: noSleep}
			_, err := res.Resolve(context.Background(), testDOI)
			assert.Error(t, err)
			assert.NotZero(t, calls)
		})
	}
}
