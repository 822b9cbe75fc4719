package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"time"

	"linkrelay/internal/access"
	"linkrelay/internal/config"
	"linkrelay/internal/credential"
	"linkrelay/internal/model"
	"linkrelay/internal/render"
	"linkrelay/internal/repository"
	"linkrelay/internal/rules"

	"github.com/rs/zerolog/log"
)

const defaultTimeout = 2 * time.Second

// ResolutionService turns a visit into an Outcome: load, gate, password,
// rules, render, record
type ResolutionService struct {
	store     LinkStoreInterface
	cache     LinkCacheInterface
	verifier  CredentialVerifierInterface
	evaluator *rules.Evaluator
	renderer  *render.Renderer
	recorder  ClickRecorderInterface

	storageTimeout    time.Duration
	credentialTimeout time.Duration
	now               func() time.Time
}

// NewResolutionService creates a new ResolutionService. cache may be nil.
func NewResolutionService(
	store LinkStoreInterface,
	cache LinkCacheInterface,
	verifier CredentialVerifierInterface,
	evaluator *rules.Evaluator,
	renderer *render.Renderer,
	recorder ClickRecorderInterface,
	cfg config.ResolverConfig,
) *ResolutionService {
	if cfg.StorageTimeout <= 0 {
		cfg.StorageTimeout = defaultTimeout
	}
	if cfg.CredentialTimeout <= 0 {
		cfg.CredentialTimeout = defaultTimeout
	}
	return &ResolutionService{
		store:             store,
		cache:             cache,
		verifier:          verifier,
		evaluator:         evaluator,
		renderer:          renderer,
		recorder:          recorder,
		storageTimeout:    cfg.StorageTimeout,
		credentialTimeout: cfg.CredentialTimeout,
		now:               time.Now,
	}
}

// Resolve decides what the visitor sees for req.ShortCode. A click is
// recorded only for Redirect and Interstitial outcomes.
func (s *ResolutionService) Resolve(ctx context.Context, req *ResolveRequest) (*Outcome, error) {
	if req.ShortCode == "" {
		return nil, ErrNotFound
	}

	link, err := s.loadLink(ctx, req.ShortCode)
	if err != nil {
		return nil, err
	}

	now := req.Visitor.Now
	if now.IsZero() {
		now = s.now()
	}

	if verdict := access.Check(link, now); !verdict.Admitted {
		log.Info().
			Str("short_code", link.ShortCode).
			Str("reason", string(verdict.Reason)).
			Msg("Link access denied")
		return &Outcome{Kind: Denied, Reason: verdict.Reason, LinkID: link.ID}, nil
	}

	out := &Outcome{LinkID: link.ID}

	if link.PasswordProtected() {
		token, err := s.unlock(ctx, link, req)
		if err != nil {
			return nil, err
		}
		if token == "" {
			return &Outcome{Kind: AwaitingPassword, LinkID: link.ID}, nil
		}
		if req.Password != "" {
			out.UnlockToken = token
		}
	}

	dest, err := s.evaluator.Resolve(link, req.Visitor.RuleContext())
	if errors.Is(err, rules.ErrDeviceBlocked) {
		log.Info().
			Str("short_code", link.ShortCode).
			Str("device", string(req.Visitor.Device)).
			Msg("Device class blocked")
		return &Outcome{Kind: Denied, Reason: access.ReasonDeviceBlocked, LinkID: link.ID}, nil
	}
	if err != nil {
		log.Error().Err(err).Str("short_code", link.ShortCode).Msg("Link has no usable destination")
		return nil, fmt.Errorf("%w: %w", ErrNotFound, err)
	}

	page, err := s.renderer.Render(link, dest)
	if err != nil {
		return nil, fmt.Errorf("failed to render link %d: %w", link.ID, err)
	}

	out.Page = page
	out.Kind = Interstitial
	if page.Redirect {
		out.Kind = Redirect
	}

	if s.recorder != nil {
		s.recorder.Record(link.ID, req.Visitor)
	}

	return out, nil
}

// loadLink reads the link through the cache. Click-limited links always come
// from the store so the quota is checked against a fresh counter.
func (s *ResolutionService) loadLink(ctx context.Context, shortCode string) (*model.Link, error) {
	sctx, cancel := context.WithTimeout(ctx, s.storageTimeout)
	defer cancel()

	if s.cache != nil {
		link, err := s.cache.GetLink(sctx, shortCode)
		switch {
		case err == nil && !link.ClickLimitEnabled:
			return link, nil
		case err != nil && !errors.Is(err, repository.ErrCacheMiss):
			log.Warn().Err(err).Str("short_code", shortCode).Msg("Link cache unavailable")
		}
	}

	link, err := s.store.GetLinkByShortCode(sctx, shortCode)
	if errors.Is(err, repository.ErrLinkNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		log.Error().Err(err).Str("short_code", shortCode).Msg("Failed to load link")
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}

	if s.cache != nil && !link.ClickLimitEnabled {
		if err := s.cache.SetLink(sctx, link); err != nil {
			log.Warn().Err(err).Str("short_code", shortCode).Msg("Failed to cache link")
		}
	}

	return link, nil
}

// unlock returns the link's unlock fingerprint when the request carries a
// valid credential, or "" when it does not
func (s *ResolutionService) unlock(ctx context.Context, link *model.Link, req *ResolveRequest) (string, error) {
	want := credential.Fingerprint(link.PasswordHash)

	if req.UnlockToken != "" && subtle.ConstantTimeCompare([]byte(req.UnlockToken), []byte(want)) == 1 {
		return want, nil
	}
	if req.Password == "" {
		return "", nil
	}

	vctx, cancel := context.WithTimeout(ctx, s.credentialTimeout)
	defer cancel()

	ok, err := s.verifier.VerifyContext(vctx, req.Password, link.PasswordHash)
	if err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		log.Error().Err(err).Str("short_code", link.ShortCode).Msg("Password verification timed out")
		return "", fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	if !ok {
		log.Info().Str("short_code", link.ShortCode).Msg("Password rejected")
		return "", nil
	}
	return want, nil
}
