// Package devstack initializes and runs the local stand-in for the auth,
// core and file services. It picks the blob store, wires the services and
// serves them over HTTP until a shutdown signal arrives.
package devstack

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/myreport/reportcycle/internal/devstack/blob"
	"github.com/myreport/reportcycle/internal/devstack/config"
	"github.com/myreport/reportcycle/internal/devstack/core"
	"github.com/myreport/reportcycle/internal/devstack/files"
	"github.com/myreport/reportcycle/internal/devstack/httpapi"
	"github.com/myreport/reportcycle/internal/devstack/users"
	"github.com/myreport/reportcycle/internal/logging"
)

const avatarSize = 128

type App struct {
	config *config.Config
	logger logging.Logger
	server *httpapi.Server
}

func NewApp(cfg *config.Config, logger logging.Logger) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	var (
		store   blob.Store
		objects *blob.MemoryStore
	)
	switch cfg.BlobStore {
	case config.BlobS3:
		store = blob.NewS3Store(blob.S3Config{
			User:         cfg.S3RootUser,
			Password:     cfg.S3RootPassword,
			Bucket:       cfg.S3Bucket,
			Region:       cfg.S3Region,
			BaseEndpoint: cfg.S3BaseEndpoint,
		})
	default:
		objects = blob.NewMemoryStore(cfg.PublicBaseURL, []byte(cfg.SecretKey))
		store = objects
	}

	avatar, err := files.DefaultAvatar(avatarSize)
	if err != nil {
		return nil, fmt.Errorf("default avatar: %w", err)
	}

	us := users.NewService(users.NewMemoryRepository(), cfg, logger)
	fs := files.NewService(store, cfg, logger)
	srv := httpapi.NewServer(cfg.ListenAddr, logger, us, core.NewDetailsStore(), fs, objects, avatar)

	return &App{config: cfg, logger: logger, server: srv}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

// Run serves until ctx is done or a termination signal arrives.
func (app *App) Run(ctx context.Context) error {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting devstack...", "blob_store", app.config.BlobStore, "public_url", app.config.PublicBaseURL)

	app.initSignalHandler(cancelFunc)

	var (
		wg     sync.WaitGroup
		runErr error
	)

	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := app.server.Run(ctx); err != nil {
			app.logger.Error(ctx, err.Error())
			runErr = err
			cancelFunc()
		}
	}()

	wg.Wait()
	return runErr
}
