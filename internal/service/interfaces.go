package service

import (
	"context"

	"linkrelay/internal/model"
	"linkrelay/internal/visitor"
)

// LinkStoreInterface defines the link store operations the resolver needs (for testing)
type LinkStoreInterface interface {
	GetLinkByShortCode(ctx context.Context, shortCode string) (*model.Link, error)
}

// LinkCacheInterface defines the link cache operations (for testing)
type LinkCacheInterface interface {
	GetLink(ctx context.Context, shortCode string) (*model.Link, error)
	SetLink(ctx context.Context, link *model.Link) error
}

// CredentialVerifierInterface defines password verification (for testing)
type CredentialVerifierInterface interface {
	VerifyContext(ctx context.Context, plaintext, digest string) (bool, error)
}

// ClickRecorderInterface defines the non-blocking click recorder
type ClickRecorderInterface interface {
	Record(linkID int64, info visitor.Info) bool
}

// ResolverInterface defines the resolution operation
type ResolverInterface interface {
	Resolve(ctx context.Context, req *ResolveRequest) (*Outcome, error)
}
