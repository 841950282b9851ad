// Command pagerdemo serves the A-to-Z entries data set with keyset pagination:
//
//	curl 'localhost:8080/entries'
//	curl 'localhost:8080/entries?after=<token>'
//	curl 'localhost:8080/entries?sort=public_name+desc&limit=3'
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	cursorpagination "github.com/CatLabInteractive/cursor-pagination"
	"github.com/CatLabInteractive/cursor-pagination/specfile"
)

func main() {
	cfg, err := LoadConfig(".env")
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to load config:", err)
		os.Exit(1)
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to build logger:", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	if err = run(cfg, logger); err != nil {
		logger.Fatal("pagerdemo stopped", zap.Error(err))
	}
}

func run(cfg *Config, logger *zap.Logger) error {
	spec, err := loadSpec(cfg, logger)
	if err != nil {
		return err
	}

	store, err := openStore(cfg)
	if err != nil {
		return err
	}

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:    true,
		LogStatus: true,
		LogValuesFunc: func(_ echo.Context, v middleware.RequestLoggerValues) error {
			logger.Info("request", zap.String("uri", v.URI), zap.Int("status", v.Status))
			return nil
		},
	}))

	newEntriesHandler(spec, store, logger).Bind(e)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		<-ctx.Done()
		logger.Info("shutdown started")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := e.Shutdown(shutdownCtx); err != nil {
			logger.Error("shutdown failed", zap.Error(err))
		}
	}()

	logger.Info("listening", zap.String("port", cfg.Port), zap.String("store", cfg.Store))
	if err = e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}

// loadSpec reads SPEC_FILE when set; otherwise entries are ordered by score
// descending, then name, then id.
func loadSpec(cfg *Config, logger *zap.Logger) (*cursorpagination.Spec, error) {
	if cfg.SpecFile != "" {
		def, err := specfile.Load(cfg.SpecFile)
		if err != nil {
			return nil, err
		}

		b, err := def.Builder()
		if err != nil {
			return nil, err
		}

		return b.WithLogger(logger).Build()
	}

	return defaultSpecBuilder(cfg.Records).WithLogger(logger).Build()
}

func defaultSpecBuilder(records int) *cursorpagination.SpecBuilder {
	return cursorpagination.NewSpecBuilder().
		WithName("id", "public_id", cursorpagination.IntConverter{}).
		WithName("name", "public_name").
		WithName("score", "public_score", cursorpagination.IntConverter{}).
		WithSort(
			cursorpagination.OrderBy{Column: "score", Direction: cursorpagination.DirectionDESC},
			cursorpagination.OrderBy{Column: "name", Direction: cursorpagination.DirectionASC},
			cursorpagination.OrderBy{Column: "id", Direction: cursorpagination.DirectionASC},
		).
		WithLimit(records).
		WithMaxLimit(cursorpagination.MaxLimit).
		WithLookahead()
}

func openStore(cfg *Config) (EntryStore, error) {
	entries := seedEntries(time.Now().UTC())

	if cfg.Store == storeMemory {
		return &memoryEntryStore{entries: entries}, nil
	}

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("cannot open database: %w", err)
	}

	// Every connection to ":memory:" is a separate database.
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("cannot open database: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err = db.AutoMigrate(&Entry{}); err != nil {
		return nil, fmt.Errorf("cannot migrate database: %w", err)
	}

	if err = db.Create(&entries).Error; err != nil {
		return nil, fmt.Errorf("cannot seed database: %w", err)
	}

	return newGORMEntryStore(db), nil
}
