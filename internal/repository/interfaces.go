package repository

import (
	"context"

	"linkrelay/internal/model"

	"gorm.io/gorm"
)

// LinkRepositoryInterface defines the interface for link store operations
type LinkRepositoryInterface interface {
	DB() *gorm.DB
	GetLinkByShortCode(ctx context.Context, shortCode string) (*model.Link, error)
	GetLinkByID(ctx context.Context, id int64) (*model.Link, error)
	RecordClick(ctx context.Context, event *model.ClickEvent) error
	AutoMigrate(ctx context.Context) error
	Close() error
}

// LinkCacheInterface defines the interface for link cache operations
type LinkCacheInterface interface {
	GetLink(ctx context.Context, shortCode string) (*model.Link, error)
	SetLink(ctx context.Context, link *model.Link) error
	DeleteLink(ctx context.Context, shortCode string) error
	Close() error
}

var (
	_ LinkRepositoryInterface = (*LinkRepository)(nil)
	_ LinkCacheInterface      = (*LinkCache)(nil)
)
