package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"linkrelay/internal/config"
	"linkrelay/internal/model"

	"github.com/glebarez/sqlite"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

var (
	// ErrLinkNotFound is returned when no link matches the lookup
	ErrLinkNotFound = errors.New("link not found")
	// ErrUnsupportedDriver is returned for an unknown database.driver
	ErrUnsupportedDriver = errors.New("unsupported database driver")
)

// LinkRepository reads links and appends click events through gorm
type LinkRepository struct {
	db *gorm.DB
}

// OpenDialector returns the gorm dialector for the configured driver
func OpenDialector(driver, dsn string) (gorm.Dialector, error) {
	switch driver {
	case "mysql":
		return mysql.Open(dsn), nil
	case "postgres":
		return postgres.Open(dsn), nil
	case "sqlite":
		return sqlite.Open(dsn), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedDriver, driver)
	}
}

// NewLinkRepository connects to the configured database
func NewLinkRepository(cfg *config.DatabaseConfig) (*LinkRepository, error) {
	dialector, err := OpenDialector(cfg.Driver, cfg.DSN)
	if err != nil {
		return nil, err
	}

	// Configure GORM logger
	var gormLogger logger.Interface
	if zerolog.GlobalLevel() > zerolog.DebugLevel {
		gormLogger = logger.Default.LogMode(logger.Silent)
	} else {
		gormLogger = logger.Default.LogMode(logger.Info)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormLogger,
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", cfg.Driver, err)
	}

	if cfg.Driver == "sqlite" {
		// sqlite allows a single writer
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		sqlDB.SetMaxOpenConns(1)
	}

	log.Info().Str("driver", cfg.Driver).Msg("Database connected successfully")

	return NewLinkRepositoryWithDB(db), nil
}

// NewLinkRepositoryWithDB wraps an already opened gorm handle
func NewLinkRepositoryWithDB(db *gorm.DB) *LinkRepository {
	return &LinkRepository{db: db}
}

// DB returns the GORM DB instance
func (r *LinkRepository) DB() *gorm.DB {
	return r.db
}

// AutoMigrate creates or updates the links and click_events tables
func (r *LinkRepository) AutoMigrate(ctx context.Context) error {
	if err := r.db.WithContext(ctx).AutoMigrate(&model.Link{}, &model.ClickEvent{}); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	return nil
}

// GetLinkByShortCode retrieves a link by short code regardless of its active flag
func (r *LinkRepository) GetLinkByShortCode(ctx context.Context, shortCode string) (*model.Link, error) {
	var link model.Link
	err := r.db.WithContext(ctx).
		Where("short_code = ?", shortCode).
		First(&link).Error
	if err != nil {
		return nil, translate(err)
	}
	link.ApplyDefaults()
	return &link, nil
}

// GetLinkByID retrieves a link by primary key
func (r *LinkRepository) GetLinkByID(ctx context.Context, id int64) (*model.Link, error) {
	var link model.Link
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&link).Error
	if err != nil {
		return nil, translate(err)
	}
	link.ApplyDefaults()
	return &link, nil
}

// RecordClick appends the click event and bumps the link counter in one
// transaction. A redelivered event (same event_id) is a no-op.
func (r *LinkRepository) RecordClick(ctx context.Context, event *model.ClickEvent) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "event_id"}},
			DoNothing: true,
		}).Create(event)
		if res.Error != nil {
			return fmt.Errorf("failed to insert click event: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			log.Debug().Str("event_id", event.EventID).Msg("Click event already recorded")
			return nil
		}

		res = tx.Model(&model.Link{}).
			Where("id = ?", event.LinkID).
			UpdateColumns(map[string]interface{}{
				"total_clicks":    gorm.Expr("total_clicks + ?", 1),
				"last_clicked_at": event.ClickedAt,
			})
		if res.Error != nil {
			return fmt.Errorf("failed to increment click count: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrLinkNotFound
		}
		return nil
	})
}

// Close closes the database connection
func (r *LinkRepository) Close() error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func translate(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrLinkNotFound
	}
	return err
}
