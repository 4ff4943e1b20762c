package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/chirpkeeper/internal/logging"
)

const (
	// DefaultTimeout bounds every request.
	DefaultTimeout = 10 * time.Second

	requestIDHeader = "X-Request-Id"
	maxBodyBytes    = 8 << 20
)

// TokenStore is the persisted credential the gateway reads on every call
// and purges on a 401.
type TokenStore interface {
	Get(ctx context.Context) (string, error)
	Remove(ctx context.Context) error
}

// Gateway talks to the REST service. It is safe for concurrent use.
type Gateway struct {
	baseURL string
	tokens  TokenStore
	http    *http.Client
	timeout time.Duration
	log     logging.Logger
}

type Option func(*Gateway)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(c *http.Client) Option {
	return func(g *Gateway) { g.http = c }
}

// WithTimeout overrides DefaultTimeout.
func WithTimeout(d time.Duration) Option {
	return func(g *Gateway) {
		if d > 0 {
			g.timeout = d
		}
	}
}

func WithLogger(l logging.Logger) Option {
	return func(g *Gateway) { g.log = l }
}

// NewGateway builds a gateway for baseURL (e.g. http://localhost:5000/api).
// tokens may be nil, in which case no credential is ever attached.
func NewGateway(baseURL string, tokens TokenStore, opts ...Option) *Gateway {
	g := &Gateway{
		baseURL: strings.TrimRight(baseURL, "/"),
		tokens:  tokens,
		http:    &http.Client{},
		timeout: DefaultTimeout,
		log:     logging.Nop(),
	}
	for _, o := range opts {
		o(g)
	}
	return g
}

// Do performs the request and returns the normalized payload. An empty
// 2xx body yields (nil, nil).
func (g *Gateway) Do(ctx context.Context, method, path string, body any) (json.RawMessage, error) {
	raw, err := g.DoRaw(ctx, method, path, body)
	if err != nil {
		return nil, err
	}
	payload, err := Normalize(raw)
	if err != nil {
		return nil, &Error{Kind: ErrBadResponse, Method: method, Path: path, Cause: err}
	}
	return payload, nil
}

// DoRaw performs the request and returns the body of a 2xx response as
// received, without normalization. Everything else (credentials, timeout,
// classification, the 401 purge) is identical to Do.
func (g *Gateway) DoRaw(ctx context.Context, method, path string, body any) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	req, err := g.newRequest(ctx, method, path, body)
	if err != nil {
		return nil, err
	}
	requestID := req.Header.Get(requestIDHeader)
	log := g.log.With("request_id", requestID, "method", method, "path", path)

	start := time.Now()
	resp, err := g.http.Do(req)
	if err != nil {
		log.Warn(ctx, "request failed", "err", err, "elapsed", time.Since(start))
		return nil, &Error{Kind: ErrUnreachable, Method: method, Path: path, Cause: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		log.Warn(ctx, "reading response failed", "err", err, "status", resp.StatusCode)
		return nil, &Error{Kind: ErrUnreachable, Status: resp.StatusCode, Method: method, Path: path, Cause: err}
	}

	log.Debug(ctx, "request finished", "status", resp.StatusCode, "elapsed", time.Since(start))

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return data, nil
	}

	apiErr := classify(resp.StatusCode, data)
	apiErr.Method, apiErr.Path = method, path

	switch resp.StatusCode {
	case http.StatusUnauthorized:
		if !isCredentialEndpoint(path) {
			g.purgeToken(context.WithoutCancel(ctx), log)
		}
	case http.StatusForbidden:
		log.Warn(ctx, "access forbidden")
	}
	return nil, apiErr
}

func (g *Gateway) newRequest(ctx context.Context, method, path string, body any) (*http.Request, error) {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode %s %s body: %w", method, path, err)
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, g.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("build %s %s: %w", method, path, err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set(requestIDHeader, uuid.NewString())
	if method != http.MethodGet && method != http.MethodDelete {
		req.Header.Set("Content-Type", "application/json")
	}

	if g.tokens != nil {
		token, err := g.tokens.Get(ctx)
		if err != nil {
			g.log.Warn(ctx, "reading stored token failed", "err", err)
		} else if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}
	return req, nil
}

func (g *Gateway) purgeToken(ctx context.Context, log logging.Logger) {
	if g.tokens == nil {
		return
	}
	if err := g.tokens.Remove(ctx); err != nil {
		log.Error(ctx, "removing token after 401 failed", "err", err)
		return
	}
	log.Info(ctx, "token removed due to 401")
}

// isCredentialEndpoint reports whether path is login or signup, whose 401s
// mean "wrong credentials" rather than "stale token".
func isCredentialEndpoint(path string) bool {
	p, _, _ := strings.Cut(path, "?")
	return p == PathLogin || p == PathSignup
}

// Call performs the request through g and decodes the normalized payload
// into T. An empty payload yields the zero T.
func Call[T any](ctx context.Context, g *Gateway, method, path string, body any) (T, error) {
	var out T
	payload, err := g.Do(ctx, method, path, body)
	if err != nil {
		return out, err
	}
	if len(payload) == 0 {
		return out, nil
	}
	if err := json.Unmarshal(payload, &out); err != nil {
		return out, &Error{Kind: ErrBadResponse, Method: method, Path: path, Cause: err}
	}
	return out, nil
}
