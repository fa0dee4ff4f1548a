// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package resolve turns user-supplied paper identifiers (arXiv IDs, DOIs,
// Semantic Scholar URLs) into the Semantic Scholar paper ids the graph
// service expects.
package resolve

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/pdiddy/connectedpapers/internal/httputil"
	"github.com/pdiddy/connectedpapers/pkg/types"
)

// IdentifierType classifies an input identifier.
type IdentifierType int

const (
	TypeUnknown IdentifierType = iota
	TypePaperID
	TypeArxiv
	TypeDOI
	TypeCorpusID
)

func (t IdentifierType) String() string {
	switch t {
	case TypePaperID:
		return "paper_id"
	case TypeArxiv:
		return "arxiv"
	case TypeDOI:
		return "doi"
	case TypeCorpusID:
		return "corpus_id"
	default:
		return "unknown"
	}
}

// semanticPaperBase is the Semantic Scholar paper lookup endpoint. Declared
// as a var so tests can substitute an httptest server.
var semanticPaperBase = "https://api.semanticscholar.org/graph/v1/paper/"

// Lookups are retried on transport failure a few times, with a short fixed delay.
var (
	lookupAttempts = 3
	lookupDelay    = 2 * time.Second
)

// paperIDPattern matches a 40-character Semantic Scholar SHA.
var paperIDPattern = regexp.MustCompile(`^[0-9a-f]{40}$`)

// arxivPattern matches arXiv IDs: "2301.07041", "arXiv:2301.07041", "2301.07041v2".
var arxivPattern = regexp.MustCompile(`^(?:arXiv:)?(\d{4}\.\d{4,5}(?:v\d+)?)$`)

// doiPattern matches DOIs: "10.1145/1234567.1234568".
var doiPattern = regexp.MustCompile(`^10\.\d{4,9}/[^\s]+$`)

// corpusPattern matches "CorpusId:215416146".
var corpusPattern = regexp.MustCompile(`^(?i:corpusid):(\d+)$`)

// Classify determines the identifier type and returns the normalized form.
// Semantic Scholar paper URLs and doi.org/arxiv.org URLs are reduced to the
// identifier they carry.
func Classify(identifier string) (IdentifierType, string) {
	identifier = strings.TrimSpace(identifier)

	if u, err := url.Parse(identifier); err == nil && (u.Scheme == "http" || u.Scheme == "https") {
		path := strings.Trim(u.Path, "/")
		switch {
		case strings.HasSuffix(u.Host, "semanticscholar.org"):
			identifier = path[strings.LastIndex(path, "/")+1:]
		case u.Host == "doi.org" || u.Host == "dx.doi.org":
			identifier = path
		case strings.HasSuffix(u.Host, "arxiv.org"):
			identifier = strings.TrimSuffix(path[strings.LastIndex(path, "/")+1:], ".pdf")
		}
	}

	if paperIDPattern.MatchString(strings.ToLower(identifier)) {
		return TypePaperID, strings.ToLower(identifier)
	}
	if m := arxivPattern.FindStringSubmatch(identifier); m != nil {
		return TypeArxiv, m[1]
	}
	if doiPattern.MatchString(identifier) {
		return TypeDOI, identifier
	}
	if m := corpusPattern.FindStringSubmatch(identifier); m != nil {
		return TypeCorpusID, m[1]
	}
	return TypeUnknown, identifier
}

// Resolver looks identifiers up in Semantic Scholar.
type Resolver struct {
	Client    *http.Client
	APIKey    string
	UserAgent string

	// Sleep replaces the delay between lookup attempts; nil uses httputil.Sleep.
	Sleep httputil.SleepFunc
}

// Resolve returns the paper id for identifier. Paper ids pass through without
// a request, and so do unrecognized identifiers: the graph service reports
// BAD_ID for those.
func (r *Resolver) Resolve(ctx context.Context, identifier string) (types.PaperID, error) {
	idType, normalized := Classify(identifier)

	var key string
	switch idType {
	case TypePaperID, TypeUnknown:
		return normalized, nil
	case TypeArxiv:
		key = "ARXIV:" + url.PathEscape(normalized)
	case TypeDOI:
		key = "DOI:" + strings.ReplaceAll(url.PathEscape(normalized), "%2F", "/")
	case TypeCorpusID:
		key = "CorpusId:" + normalized
	}

	headers := map[string]string{}
	if r.UserAgent != "" {
		headers["User-Agent"] = r.UserAgent
	}
	if r.APIKey != "" {
		headers["x-api-key"] = r.APIKey
	}
	client := r.Client
	if client == nil {
		client = http.DefaultClient
	}

	var body []byte
	_, err := httputil.Retry(ctx, lookupAttempts, lookupDelay, r.Sleep, nil, func(int) error {
		var err error
		body, err = httputil.Get(ctx, client, semanticPaperBase+key+"?fields=paperId", headers)
		if permanentStatus(err) {
			return httputil.Permanent(err)
		}
		return err
	})
	if err != nil {
		return "", fmt.Errorf("resolving %s %q: %w", idType, normalized, err)
	}

	var p semanticPaper
	if err := json.Unmarshal(body, &p); err != nil {
		return "", fmt.Errorf("parsing Semantic Scholar response: %w", err)
	}
	if p.PaperID == "" {
		return "", fmt.Errorf("Semantic Scholar returned no paperId for %s %q", idType, normalized)
	}
	return p.PaperID, nil
}

// permanentStatus reports whether err is a 4xx answer other than 429. Those
// will not change on retry.
func permanentStatus(err error) bool {
	var se *httputil.StatusError
	if !errors.As(err, &se) {
		return false
	}
	return se.StatusCode >= 400 && se.StatusCode < 500 && se.StatusCode != http.StatusTooManyRequests
}

type semanticPaper struct {
	PaperID string `json:"paperId"`
}
