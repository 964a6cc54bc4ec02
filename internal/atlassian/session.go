// Package atlassian talks to Jira and Confluence REST APIs: authenticated
// fetches, paged enumeration of projects/spaces and their items, and the
// retry/rate-limit discipline shared by both services.
package atlassian

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/cenkalti/backoff"
	"go.uber.org/zap"

	"github.com/issuehound/issuehound/internal/logger"
)

const (
	defaultTimeout  = 30 * time.Second
	defaultRPS      = 5.0
	defaultBurst    = 5
	defaultAttempts = 3

	// Bound on how long a server Retry-After hint is honored before the
	// exponential schedule takes over.
	maxRetryAfterHint = 60 * time.Second
)

// Config describes one authenticated session against a Jira or Confluence
// base URL. Credential material is opaque to this package: it is attached
// verbatim to every request and never inspected.
type Config struct {
	BaseURL string

	// Token is sent as a Bearer Authorization header when set.
	Token string
	// Username/Password select HTTP basic auth when Token is empty.
	Username string
	Password string

	// Extra headers attached to every request (proxy auth, user agent).
	Headers http.Header

	HTTPClient     *http.Client
	RequestTimeout time.Duration

	// RPS/Burst seed the adaptive rate limiter.
	RPS   float64
	Burst int

	// MaxAttempts bounds retries per page or item fetch.
	MaxAttempts int

	// RetryAfterHint honors a server-supplied Retry-After on 429 responses
	// instead of relying on the exponential schedule alone.
	RetryAfterHint bool

	Logger *logger.Logger
}

// Session is the shared HTTP layer under both service clients. Safe for
// concurrent use.
type Session struct {
	base       string
	httpClient *http.Client
	token      string
	username   string
	password   string
	headers    http.Header
	limiter    *rateLimiter
	attempts   int
	retryHint  bool
	log        *logger.Logger
}

// NewSession validates the config and builds a session. The base URL must be
// absolute; trailing slashes are trimmed so paths join cleanly.
func NewSession(cfg Config) (*Session, error) {
	base := strings.TrimRight(cfg.BaseURL, "/")
	u, err := url.Parse(base)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid base URL %q", cfg.BaseURL)
	}

	client := cfg.HTTPClient
	if client == nil {
		timeout := cfg.RequestTimeout
		if timeout <= 0 {
			timeout = defaultTimeout
		}
		client = &http.Client{Timeout: timeout}
	}

	rps := cfg.RPS
	if rps <= 0 {
		rps = defaultRPS
	}
	burst := cfg.Burst
	if burst <= 0 {
		burst = defaultBurst
	}
	attempts := cfg.MaxAttempts
	if attempts <= 0 {
		attempts = defaultAttempts
	}
	log := cfg.Logger
	if log == nil {
		log = logger.Nop()
	}

	return &Session{
		base:       base,
		httpClient: client,
		token:      cfg.Token,
		username:   cfg.Username,
		password:   cfg.Password,
		headers:    cfg.Headers,
		limiter:    newRateLimiter(rps, burst),
		attempts:   attempts,
		retryHint:  cfg.RetryAfterHint,
		log:        log.WithComponent("session"),
	}, nil
}

// Host returns the host portion of the base URL, used to organize exports.
func (s *Session) Host() string {
	u, _ := url.Parse(s.base)
	return u.Host
}

// Fetch performs one rate-limited GET of base+path with the session's
// credentials attached. It returns the status code and body for any HTTP
// response; err is non-nil only for transport-level failures.
func (s *Session) Fetch(ctx context.Context, path string, query url.Values) (int, []byte, error) {
	status, body, _, err := s.do(ctx, path, query)
	return status, body, err
}

func (s *Session) do(ctx context.Context, path string, query url.Values) (int, []byte, http.Header, error) {
	if err := s.limiter.wait(ctx); err != nil {
		return 0, nil, nil, fmt.Errorf("rate limiter wait: %w", err)
	}

	u := s.base + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return 0, nil, nil, fmt.Errorf("build request: %w", err)
	}
	for k, vs := range s.headers {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	if s.token != "" {
		req.Header.Set("Authorization", "Bearer "+s.token)
	} else if s.username != "" {
		req.SetBasicAuth(s.username, s.password)
	}
	if req.Header.Get("Accept") == "" {
		req.Header.Set("Accept", "application/json")
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return 0, nil, nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, resp.Header, err
	}

	s.adaptLimits(resp.Header)
	return resp.StatusCode, body, resp.Header, nil
}

// get wraps do with the retry policy: transient failures (transport errors,
// 5xx, 429) retry with exponential backoff up to the attempt bound; 401/403
// abort immediately with AuthError; other statuses fail without retry.
func (s *Session) get(ctx context.Context, path string, query url.Values) ([]byte, error) {
	var body []byte
	attempt := 0

	op := func() error {
		attempt++
		status, b, hdr, err := s.do(ctx, path, query)
		if err != nil {
			if ctx.Err() != nil {
				return backoff.Permanent(ctx.Err())
			}
			s.log.Debug("transport error, will retry",
				zap.String("path", path), zap.Int("attempt", attempt), zap.Error(err))
			return err
		}
		switch {
		case status == http.StatusOK:
			body = b
			return nil
		case status == http.StatusUnauthorized || status == http.StatusForbidden:
			return backoff.Permanent(&AuthError{Status: status})
		case status == http.StatusTooManyRequests:
			s.pauseForHint(ctx, hdr)
			return &statusError{status: status}
		case status >= 500:
			s.log.Debug("server error, will retry",
				zap.String("path", path), zap.Int("status", status), zap.Int("attempt", attempt))
			return &statusError{status: status}
		default:
			return backoff.Permanent(&FetchError{Path: path, Status: status, Attempts: attempt})
		}
	}

	// WithMaxRetries(b, 0) means unlimited in this backoff version, so a
	// single-attempt session must stop explicitly.
	var bo backoff.BackOff = &backoff.StopBackOff{}
	if s.attempts > 1 {
		bo = backoff.WithMaxRetries(newExpBackoff(), uint64(s.attempts-1))
	}
	bo = backoff.WithContext(bo, ctx)
	if err := backoff.Retry(op, bo); err != nil {
		var authErr *AuthError
		if errors.As(err, &authErr) {
			return nil, authErr
		}
		var fetchErr *FetchError
		if errors.As(err, &fetchErr) {
			return nil, fetchErr
		}
		var stErr *statusError
		if errors.As(err, &stErr) {
			return nil, &FetchError{Path: path, Status: stErr.status, Attempts: attempt}
		}
		return nil, &FetchError{Path: path, Attempts: attempt, Err: err}
	}
	return body, nil
}

func newExpBackoff() *backoff.ExponentialBackOff {
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = 500 * time.Millisecond
	bo.MaxInterval = 10 * time.Second
	bo.MaxElapsedTime = 2 * time.Minute
	return bo
}

// pauseForHint sleeps out a server Retry-After hint (bounded) before the
// retry schedule resumes. No-op when hints are disabled or absent.
func (s *Session) pauseForHint(ctx context.Context, hdr http.Header) {
	if !s.retryHint || hdr == nil {
		return
	}
	secs, err := strconv.Atoi(hdr.Get("Retry-After"))
	if err != nil || secs <= 0 {
		return
	}
	d := time.Duration(secs) * time.Second
	if d > maxRetryAfterHint {
		d = maxRetryAfterHint
	}
	s.log.Debug("honoring Retry-After hint", zap.Duration("wait", d))
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}

// adaptLimits recalibrates the limiter from X-RateLimit headers so the
// remaining quota is spread over the rest of the window, at 90% to leave
// headroom.
func (s *Session) adaptLimits(headers http.Header) {
	remaining, _ := strconv.ParseInt(headers.Get("X-RateLimit-Remaining"), 10, 64)
	reset, _ := strconv.ParseInt(headers.Get("X-RateLimit-Reset"), 10, 64)
	if remaining <= 0 || reset <= 0 {
		return
	}
	window := time.Until(time.Unix(reset, 0))
	if window <= 0 {
		return
	}
	rps := float64(remaining) / window.Seconds() * 0.9
	burst := int(remaining / 10)
	if burst < 1 {
		burst = 1
	}
	s.limiter.updateLimits(rps, burst)
}
