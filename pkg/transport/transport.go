// Package transport decorates the http.Client used against the backend with
// token injection and structured request logging, keeping those concerns out
// of the endpoint code.
package transport

import (
	"context"
	"net/http"
	"time"

	"patrol/pkg/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// TokenSource supplies the current session token. An empty token means no
// session is active and the request goes out unauthenticated.
type TokenSource interface {
	Token() (string, error)
}

// ctxKey is a private context key type to avoid collisions.
type ctxKey string

const anonymousKey ctxKey = "anonymous"

// Anonymous marks the request's context so the auth round-tripper skips the
// Authorization header. Used for login, registration and plate recognition,
// which the backend serves unauthenticated.
func Anonymous(ctx context.Context) context.Context {
	return context.WithValue(ctx, anonymousKey, true)
}

func isAnonymous(ctx context.Context) bool {
	v, _ := ctx.Value(anonymousKey).(bool)

	return v
}

// Auth injects the raw session token as the Authorization header value. The
// backend expects the bare token with no "Bearer" scheme prefix. The token is
// fetched from the source on every request, never cached.
type Auth struct {
	Next   http.RoundTripper
	Tokens TokenSource
}

// RoundTrip implements http.RoundTripper.
func (a *Auth) RoundTrip(req *http.Request) (*http.Response, error) {
	if isAnonymous(req.Context()) {
		return a.next().RoundTrip(req)
	}

	token, err := a.Tokens.Token()
	if err != nil {
		return nil, err
	}
	if token != "" {
		req = req.Clone(req.Context())
		req.Header.Set("Authorization", token)
	}

	return a.next().RoundTrip(req)
}

func (a *Auth) next() http.RoundTripper {
	if a.Next != nil {
		return a.Next
	}

	return http.DefaultTransport
}

// Logging assigns each outbound request an ID and writes a structured access
// log line once the response (or transport error) arrives.
type Logging struct {
	Next http.RoundTripper
}

// RoundTrip implements http.RoundTripper.
func (l *Logging) RoundTrip(req *http.Request) (*http.Response, error) {
	ctx := req.Context()

	requestID := req.Header.Get("X-Request-Id")
	if requestID == "" {
		requestID = uuid.New().String()
		req = req.Clone(ctx)
		req.Header.Set("X-Request-Id", requestID)
	}
	ctx = logger.WithFields(ctx, zap.String("request_id", requestID))

	start := time.Now()
	resp, err := l.next().RoundTrip(req)
	latency := time.Since(start).Seconds()

	if err != nil {
		logger.Warn(ctx, "backend request failed",
			zap.String("method", req.Method),
			zap.String("url", req.URL.String()),
			zap.Float64("latency", latency),
			zap.Error(err),
		)

		return nil, err
	}

	logger.Debug(ctx, "backend request",
		zap.String("method", req.Method),
		zap.String("url", req.URL.String()),
		zap.Int("status_code", resp.StatusCode),
		zap.Float64("latency", latency),
	)

	return resp, nil
}

func (l *Logging) next() http.RoundTripper {
	if l.Next != nil {
		return l.Next
	}

	return http.DefaultTransport
}

// NewClient builds the http.Client used for all backend calls: logging on the
// outside, token injection beneath it.
func NewClient(tokens TokenSource, timeout time.Duration) *http.Client {
	return &http.Client{
		Timeout: timeout,
		Transport: &Logging{
			Next: &Auth{Tokens: tokens},
		},
	}
}
