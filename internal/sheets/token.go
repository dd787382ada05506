package sheets

import (
	"context"
	"crypto/rsa"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const (
	sheetsScope     = "https://www.googleapis.com/auth/spreadsheets"
	jwtBearerGrant  = "urn:ietf:params:oauth:grant-type:jwt-bearer"
	assertionTTL    = time.Hour
	expiryMargin    = 60 * time.Second
	mintWaitTimeout = 10 * time.Second
)

// TokenProvider mints bearer tokens for the spreadsheet backend.
type TokenProvider interface {
	Token(ctx context.Context) (string, error)
}

// TokenConfig carries the service-account credentials and endpoints.
type TokenConfig struct {
	ClientEmail   string
	PrivateKeyPEM string
	TokenEndpoint string // defaults to the Google OAuth2 token endpoint
}

// TokenSource exchanges an RS256-signed JWT assertion for a short-lived
// access token and caches it process-wide until 60s before expiry.
// Concurrent cache misses collapse onto a single exchange; waiters that
// outlast the 10s single-flight window get an UPSTREAM_TRANSIENT error.
type TokenSource struct {
	cfg    TokenConfig
	client *http.Client
	logger *zap.Logger
	now    func() time.Time

	group singleflight.Group

	mu     sync.RWMutex
	token  string
	expiry time.Time
}

// NewTokenSource returns a TokenSource with a 30s exchange timeout.
func NewTokenSource(cfg TokenConfig, logger *zap.Logger) *TokenSource {
	if cfg.TokenEndpoint == "" {
		cfg.TokenEndpoint = "https://oauth2.googleapis.com/token"
	}
	return &TokenSource{
		cfg:    cfg,
		client: &http.Client{Timeout: 30 * time.Second},
		logger: logger,
		now:    time.Now,
	}
}

func (s *TokenSource) configured() bool {
	return s.cfg.ClientEmail != "" && s.cfg.PrivateKeyPEM != ""
}

func (s *TokenSource) cached() (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.token != "" && s.now().Before(s.expiry.Add(-expiryMargin)) {
		return s.token, true
	}
	return "", false
}

// Token returns a valid bearer token, minting one if the cache is empty or
// within the expiry margin.
func (s *TokenSource) Token(ctx context.Context) (string, error) {
	if !s.configured() {
		return "", newError(KindNotConfigured, 0, "service account credentials are not configured")
	}
	if tok, ok := s.cached(); ok {
		return tok, nil
	}

	ch := s.group.DoChan("mint", func() (interface{}, error) {
		// Re-check under the flight: a concurrent caller may have minted
		// while this one queued.
		if tok, ok := s.cached(); ok {
			return tok, nil
		}
		return s.mint(ctx)
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return "", res.Err
		}
		return res.Val.(string), nil
	case <-time.After(mintWaitTimeout):
		return "", newError(KindUpstreamTransient, 0, "timed out waiting for token mint")
	case <-ctx.Done():
		return "", wrapError(KindUpstreamTransient, "context canceled waiting for token mint", ctx.Err())
	}
}

func (s *TokenSource) mint(ctx context.Context) (string, error) {
	key, err := parsePrivateKey(s.cfg.PrivateKeyPEM)
	if err != nil {
		return "", wrapError(KindNotConfigured, "service account private key is malformed", err)
	}

	now := s.now()
	claims := jwt.MapClaims{
		"iss":   s.cfg.ClientEmail,
		"scope": sheetsScope,
		"aud":   s.cfg.TokenEndpoint,
		"iat":   now.Unix(),
		"exp":   now.Add(assertionTTL).Unix(),
	}
	assertion, err := jwt.NewWithClaims(jwt.SigningMethodRS256, claims).SignedString(key)
	if err != nil {
		return "", wrapError(KindInternal, "sign token assertion", err)
	}

	form := url.Values{
		"grant_type": {jwtBearerGrant},
		"assertion":  {assertion},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.cfg.TokenEndpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return "", wrapError(KindInternal, "build token request", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	start := s.now()
	resp, err := s.client.Do(req)
	if err != nil {
		s.logTokenError(KindUpstreamTransient, 0, start)
		return "", wrapError(KindUpstreamTransient, "token exchange request failed", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		// fall through to decode
	case resp.StatusCode >= 400 && resp.StatusCode < 500:
		s.logTokenError(KindAuthFailed, resp.StatusCode, start)
		return "", newError(KindAuthFailed, resp.StatusCode, "token exchange rejected")
	default:
		s.logTokenError(KindUpstreamTransient, resp.StatusCode, start)
		return "", newError(KindUpstreamTransient, resp.StatusCode, "token endpoint unavailable")
	}

	var payload struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int    `json:"expires_in"`
	}
	if err := json.Unmarshal(body, &payload); err != nil || payload.AccessToken == "" {
		return "", newError(KindAuthFailed, resp.StatusCode, "token exchange returned no access token")
	}

	s.mu.Lock()
	s.token = payload.AccessToken
	s.expiry = s.now().Add(time.Duration(payload.ExpiresIn) * time.Second)
	s.mu.Unlock()

	return payload.AccessToken, nil
}

func (s *TokenSource) logTokenError(kind Kind, status int, start time.Time) {
	s.logger.Error("token exchange failed",
		zap.String("type", "token_exchange"),
		zap.String("code", string(kind)),
		zap.Int("status", status),
		zap.Int64("latencyMs", s.now().Sub(start).Milliseconds()),
	)
}

func parsePrivateKey(pem string) (*rsa.PrivateKey, error) {
	// Keys delivered through env vars often carry literal \n sequences.
	normalized := strings.ReplaceAll(pem, `\n`, "\n")
	return jwt.ParseRSAPrivateKeyFromPEM([]byte(normalized))
}
