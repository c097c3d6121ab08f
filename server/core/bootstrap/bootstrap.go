package bootstrap

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/yeti47/vidfolio/server/core/ccc/db"
	"github.com/yeti47/vidfolio/server/core/ccc/logging"
	"github.com/yeti47/vidfolio/server/core/config"
	"github.com/yeti47/vidfolio/server/core/credentials"
	"github.com/yeti47/vidfolio/server/core/kvstore"
	"github.com/yeti47/vidfolio/server/core/profile"
	"github.com/yeti47/vidfolio/server/core/uploads"
	"github.com/yeti47/vidfolio/server/core/videos"
)

// Services are the shared building blocks of the api server, the dashboard and the cli
type Services struct {
	DB         *sql.DB
	KV         kvstore.Store
	Repository videos.VideoRepository
	Catalog    videos.Catalog
	Encoder    videos.MediaEncoder
	Featured   videos.FeaturedReader
	Controller videos.AdminController
	Profiles   profile.ImageStore
	Passwords  credentials.PasswordService
	Uploads    uploads.Store
}

// Close releases the database connection
func (s *Services) Close() error {
	if s.DB == nil {
		return nil
	}
	return s.DB.Close()
}

// Open wires the services described by cfg. withUploads also connects the upload store,
// which needs the object storage to be reachable when configured.
func Open(ctx context.Context, cfg *config.Config, logger logging.Logger, withUploads bool) (*Services, error) {
	if logger == nil {
		logger = logging.NopLogger
	}

	dbConn, err := db.Open(cfg.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	services, err := wire(ctx, cfg, logger, dbConn, withUploads)
	if err != nil {
		dbConn.Close()
		return nil, err
	}
	return services, nil
}

func wire(ctx context.Context, cfg *config.Config, logger logging.Logger, dbConn *sql.DB, withUploads bool) (*Services, error) {
	kv, err := kvstore.NewSQLiteStore(dbConn)
	if err != nil {
		return nil, fmt.Errorf("failed to create key-value store: %w", err)
	}

	repo, err := NewVideoRepository(cfg, logger, kv)
	if err != nil {
		return nil, err
	}

	encoder := videos.NewMediaEncoder(logger, cfg.MaxEmbeddedVideoBytes)
	catalog := videos.NewCatalog(logger, repo)

	services := &Services{
		DB:         dbConn,
		KV:         kv,
		Repository: repo,
		Catalog:    catalog,
		Encoder:    encoder,
		Featured:   videos.NewFeaturedReader(logger, catalog, cfg.FeaturedCount),
		Controller: videos.NewAdminController(logger, catalog, encoder),
		Profiles:   profile.NewImageStore(logger, kv, encoder),
		Passwords:  credentials.NewPasswordService(logger, kv),
	}

	if withUploads {
		store, err := NewUploadStore(ctx, cfg, logger)
		if err != nil {
			return nil, err
		}
		services.Uploads = store
	}

	return services, nil
}

// NewVideoRepository picks the backend named by store_backend
func NewVideoRepository(cfg *config.Config, logger logging.Logger, kv kvstore.Store) (videos.VideoRepository, error) {
	if logger == nil {
		logger = logging.NopLogger
	}

	switch cfg.StoreBackend {
	case config.StoreBackendFile:
		repo, err := videos.NewFileVideoRepository(logger, cfg.DataDir)
		if err != nil {
			return nil, fmt.Errorf("failed to create file video repository: %w", err)
		}
		logger.Info("Using file video store", "path", repo.Path())
		return repo, nil
	case config.StoreBackendSQLite, "":
		logger.Info("Using key-value video store", "key", videos.StorageKey)
		return videos.NewKVVideoRepository(logger, kv), nil
	}
	return nil, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
}

// NewUploadStore returns the object storage backend when configured and the public directory otherwise
func NewUploadStore(ctx context.Context, cfg *config.Config, logger logging.Logger) (uploads.Store, error) {
	if cfg.ObjectStorage != nil {
		store, err := uploads.NewMinioStore(ctx, logger, *cfg.ObjectStorage)
		if err != nil {
			return nil, fmt.Errorf("failed to set up object storage: %w", err)
		}
		return store, nil
	}
	return uploads.NewLocalStore(logger, cfg.PublicDir), nil
}
