package service

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"go.uber.org/zap"

	"github.com/zeventbooks/event-gateway/internal/model"
	"github.com/zeventbooks/event-gateway/internal/store"
)

const (
	minTokenLen = 4
	maxTokenLen = 64

	// Budget for the detached click append after the redirect is sent.
	clickAppendTimeout = 5 * time.Second
)

// ShortlinkService resolves tokens to redirect targets and creates new
// shortlinks from the admin surface.
type ShortlinkService interface {
	Resolve(ctx context.Context, token, userAgent, referer string) (*model.Shortlink, error)
	Create(ctx context.Context, link *model.Shortlink) (*model.Shortlink, error)
	Count(ctx context.Context) (int, error)
}

type shortlinkService struct {
	links     store.ShortlinkStore
	analytics store.AnalyticsStore
	logger    *zap.Logger
	now       func() time.Time
	newToken  func() string
}

// NewShortlinkService returns the store-backed ShortlinkService.
func NewShortlinkService(links store.ShortlinkStore, analytics store.AnalyticsStore, logger *zap.Logger) ShortlinkService {
	return &shortlinkService{
		links:     links,
		analytics: analytics,
		logger:    logger,
		now:       time.Now,
		newToken:  model.NewShortlinkToken,
	}
}

// validTarget accepts only absolute http/https URLs. Anything else fails
// closed: a stored row must never redirect a browser off-scheme.
func validTarget(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// Resolve validates the token, looks it up and records the click without
// delaying the caller. The click append runs on a detached context so it
// survives the redirect being written.
func (s *shortlinkService) Resolve(ctx context.Context, token, userAgent, referer string) (*model.Shortlink, error) {
	if len(token) < minTokenLen || len(token) > maxTokenLen {
		return nil, fmt.Errorf("%w: length %d", ErrInvalidToken, len(token))
	}
	link, err := s.links.Resolve(ctx, token)
	if err != nil {
		return nil, err
	}
	if !validTarget(link.TargetURL) {
		s.logger.Warn("shortlink target rejected",
			zap.String("token", token))
		return nil, fmt.Errorf("%w: token %q", ErrInvalidURL, token)
	}

	go func() {
		clickCtx, cancel := context.WithTimeout(context.Background(), clickAppendTimeout)
		defer cancel()
		s.analytics.AppendLegacyClick(clickCtx, link.EventID, link.SponsorID, link.Surface, token, userAgent, referer)
	}()

	return link, nil
}

// Count reports how many shortlinks are stored, for admin diagnostics.
func (s *shortlinkService) Count(ctx context.Context) (int, error) {
	return s.links.Count(ctx)
}

// Create mints a token when the caller did not supply one and appends the
// row. Supplied tokens are validated like resolved ones.
func (s *shortlinkService) Create(ctx context.Context, link *model.Shortlink) (*model.Shortlink, error) {
	if !validTarget(link.TargetURL) {
		return nil, fmt.Errorf("%w: targetUrl must be absolute http(s)", ErrBadInput)
	}
	out := *link
	if out.Token == "" {
		out.Token = s.newToken()
	}
	if len(out.Token) < minTokenLen || len(out.Token) > maxTokenLen {
		return nil, fmt.Errorf("%w: token length %d", ErrBadInput, len(out.Token))
	}
	if out.CreatedAt == "" {
		out.CreatedAt = s.now().UTC().Format(time.RFC3339)
	}
	if err := s.links.Append(ctx, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
