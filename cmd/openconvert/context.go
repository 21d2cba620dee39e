package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/gofrs/flock"

	"openconvert/internal/catalog"
	"openconvert/internal/config"
	"openconvert/internal/convertapi"
	"openconvert/internal/logging"
	"openconvert/internal/queue"
	"openconvert/internal/storage"
	"openconvert/internal/transient"
)

type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func sessionLogger(cfg *config.Config) (*slog.Logger, error) {
	return logging.New(logging.Options{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: os.Stderr,
	})
}

// session is one live queue: locked state directory, opened storage backends,
// transient stores, and the engine bound to them. A session maps to a single
// CLI invocation; raw file bytes never outlive it.
type session struct {
	cfg       *config.Config
	logger    *slog.Logger
	lock      *flock.Flock
	primary   *storage.SQLiteBackend
	codec     *storage.Codec
	files     *transient.FileStore
	downloads *transient.DownloadStore
	catalog   catalog.Catalog
	engine    *queue.Engine
}

// withSession opens a session, runs fn, and tears the session down. The
// state-directory lock keeps concurrent invocations from interleaving writes
// to the same stored queue.
func (c *commandContext) withSession(ctx context.Context, renderer queue.Renderer, fn func(*session) error) error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}

	logger, err := sessionLogger(cfg)
	if err != nil {
		return err
	}

	lock := flock.New(filepath.Join(cfg.Paths.StateDir, "session.lock"))
	locked, err := lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire session lock: %w", err)
	}
	if !locked {
		return fmt.Errorf("another openconvert session is already active (lock: %s)", lock.Path())
	}
	defer func() {
		if err := lock.Unlock(); err != nil {
			logger.Warn("release session lock failed", "error", err)
		}
	}()

	primary, err := storage.OpenSQLite(filepath.Join(cfg.Paths.StateDir, "state.db"))
	if err != nil {
		return fmt.Errorf("open state database: %w", err)
	}
	defer func() {
		if err := primary.Close(); err != nil {
			logger.Warn("close state database failed", "error", err)
		}
	}()
	secondary := storage.NewFileBackend(filepath.Join(cfg.Paths.StateDir, "state.json"))
	codec := storage.NewCodec(logger, primary, secondary)

	cat, err := loadCatalog(ctx, cfg, logger)
	if err != nil {
		return err
	}

	files := transient.NewFileStore()
	downloads := transient.NewDownloadStore(cfg.Paths.SpoolDir)

	engine, err := queue.New(queue.Options{
		Catalog:   cat,
		Files:     files,
		Downloads: downloads,
		Codec:     codec,
		Client:    convertapi.New(cfg.Converter.ConvertURL, convertapi.WithTimeout(time.Duration(cfg.Converter.RequestTimeout)*time.Second)),
		Logger:    logger,
		Renderer:  renderer,
		Navigator: queue.NavigatorFunc(func(url string) {
			logger.Info("queue matches a different source page", "page", url)
		}),
		Page: queue.Page{
			Source:             cfg.Page.Source,
			Target:             cfg.Page.Target,
			SourcePageTemplate: cfg.Page.SourcePageTemplate,
		},
	})
	if err != nil {
		return err
	}

	return fn(&session{
		cfg:       cfg,
		logger:    logger,
		lock:      lock,
		primary:   primary,
		codec:     codec,
		files:     files,
		downloads: downloads,
		catalog:   cat,
		engine:    engine,
	})
}

// loadCatalog prefers the cached catalog and falls back to a remote fetch,
// caching the result. A session without any catalog cannot accept files, so
// both failing is fatal.
func loadCatalog(ctx context.Context, cfg *config.Config, logger *slog.Logger) (catalog.Catalog, error) {
	cachePath := cfg.CatalogCachePath()

	if cached, err := catalog.LoadFile(cachePath); err == nil && len(cached) > 0 {
		return cached, nil
	}

	return refreshCatalog(ctx, cfg, logger)
}

// refreshCatalog always fetches and rewrites the cache.
func refreshCatalog(ctx context.Context, cfg *config.Config, logger *slog.Logger) (catalog.Catalog, error) {
	if strings.TrimSpace(cfg.Converter.FormatsURL) == "" {
		return nil, fmt.Errorf("no cached format catalog and formats_url is not configured")
	}

	client := &http.Client{Timeout: time.Duration(cfg.Converter.RequestTimeout) * time.Second}
	fetched, err := catalog.Fetch(ctx, client, cfg.Converter.FormatsURL)
	if err != nil {
		return nil, fmt.Errorf("fetch format catalog: %w", err)
	}

	if err := catalog.SaveFile(cfg.CatalogCachePath(), fetched); err != nil {
		logger.Warn("cache format catalog failed", "path", cfg.CatalogCachePath(), "error", err)
	}
	return fetched, nil
}
