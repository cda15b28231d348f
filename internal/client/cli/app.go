package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/myreport/reportcycle/internal/client/api"
	"github.com/myreport/reportcycle/internal/client/config"
	"github.com/myreport/reportcycle/internal/client/services"
	"github.com/myreport/reportcycle/internal/client/session"
	"github.com/myreport/reportcycle/internal/client/storage"
	"github.com/myreport/reportcycle/internal/client/upload"
	"github.com/myreport/reportcycle/internal/client/validate"
	"github.com/myreport/reportcycle/internal/client/wizard"
	"github.com/myreport/reportcycle/internal/filex"
	"github.com/myreport/reportcycle/internal/logging"
)

type Mode string

const (
	ModeSignedOut Mode = "signed out"
	ModeActive    Mode = "active"
	ModeExpired   Mode = "expired"
)

const sessionCheckInterval = 15 * time.Second

type authService interface {
	SignIn(ctx context.Context, usernameOrEmail, password string, remember bool) (*session.Session, error)
	SignOut(ctx context.Context) error
	SignUp(ctx context.Context, f validate.SignUpForm) (*api.RegisterResponse, error)
	ForgotUsername(ctx context.Context, email string) (string, error)
	ForgotPassword(ctx context.Context, username string) (string, error)
	ResetPassword(ctx context.Context, username, token, data, password, repeat string) (string, error)
	ResendActivation(ctx context.Context, usernameOrEmail string) (string, error)
}

type profileService interface {
	Load(ctx context.Context) (api.UserDetails, error)
	Save(ctx context.Context, d api.UserDetails) (*api.UserDetails, error)
	SetPictureFromUpload(ctx context.Context, objectURL string) string
	GenderTypes(ctx context.Context) ([]api.GenderType, error)
}

type sessionView interface {
	Current() *session.Session
	Active() bool
	Refresh(ctx context.Context) error
}

type uploader interface {
	Upload(ctx context.Context, f upload.File) (*upload.Job, error)
	Delete() error
}

type App struct {
	config     *config.Config
	logger     logging.Logger
	sessions   sessionView
	auth       authService
	profile    profileService
	uploads    uploader
	categories wizard.CategoryProvider
	modeMu     sync.Mutex
	Mode       Mode
	reader     *bufio.Reader
	out        io.Writer
	closers    []func() error
}

// NewApp wires the client: storage tiers, service clients, session manager
// and services. The persisted session, if any, is restored.
func NewApp(ctx context.Context, c *config.Config, logger logging.Logger) (*App, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	a := &App{config: c, logger: logger, reader: bufio.NewReader(os.Stdin), out: os.Stdout}

	durable, err := a.openDurable(ctx)
	if err != nil {
		return nil, err
	}

	httpClient := &http.Client{Timeout: c.RequestTimeout}
	authClient := api.NewAuthClient(api.NewClient(c.AuthBaseURL, httpClient, logger))
	coreClient := api.NewCoreClient(api.NewClient(c.CoreBaseURL, httpClient, logger))
	fileClient := api.NewFileClient(api.NewClient(c.FileBaseURL, httpClient, logger))

	mgr := session.NewManager(session.Options{
		Ephemeral:  storage.NewMemoryStore(),
		Durable:    durable,
		Auth:       authClient,
		Avatars:    session.NewHTTPAvatarFetcher(httpClient),
		AppBaseURL: c.AppBaseURL,
		Logger:     logger,
	})
	if err := mgr.Initialize(ctx); err != nil {
		a.Close()
		return nil, err
	}

	a.sessions = mgr
	a.auth = services.NewAuthService(authClient, mgr, c.AppBaseURL, logger)
	a.profile = services.NewProfileService(coreClient, fileClient, mgr, logger)
	a.categories = coreClient
	a.uploads = upload.NewCoordinator(upload.Options{
		Files:          fileClient,
		Tokens:         mgr,
		Classification: api.Classification{CountryISOCode: c.CountryISOCode, Domain: c.UploadDomain},
		Observer:       &progressObserver{w: a.out},
		Logger:         logger,
	})
	a.refreshMode()
	return a, nil
}

func (a *App) openDurable(ctx context.Context) (session.Store, error) {
	if a.config.DurableStore == config.DurableRedis {
		rdb := redis.NewClient(&redis.Options{Addr: a.config.RedisAddr})
		if err := rdb.Ping(ctx).Err(); err != nil {
			_ = rdb.Close()
			return nil, fmt.Errorf("redis %s: %w", a.config.RedisAddr, err)
		}
		a.closers = append(a.closers, rdb.Close)
		return storage.NewRedisStore(rdb, "reportcycle:", 0), nil
	}

	if _, err := filex.EnsureDir(a.config.StateDir); err != nil {
		return nil, fmt.Errorf("create state dir: %w", err)
	}
	db, err := storage.OpenSQLite(ctx, a.config.DBPath())
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, db.Close)
	return storage.NewSQLiteStore(db), nil
}

// Run starts the session watcher and the REPL. It returns when the user
// exits or ctx is cancelled.
func (a *App) Run(ctx context.Context) {
	defer a.Close()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	go a.StartSessionWatcher(ctx, sessionCheckInterval)
	a.Root(ctx)
}

func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			a.logger.Warn(context.Background(), "close failed", "error", err)
		}
	}
	a.closers = nil
}

func (a *App) isLoggedIn() bool {
	return a.sessions != nil && a.sessions.Active()
}

func (a *App) setMode(mode Mode) {
	a.modeMu.Lock()
	defer a.modeMu.Unlock()
	if a.Mode != mode {
		a.Mode = mode
		a.logger.Info(context.Background(), "session state changed", "mode", string(mode))
	}
}

func (a *App) mode() Mode {
	a.modeMu.Lock()
	defer a.modeMu.Unlock()
	return a.Mode
}

func (a *App) refreshMode() {
	switch {
	case a.sessions == nil || a.sessions.Current() == nil:
		a.setMode(ModeSignedOut)
	case a.sessions.Active():
		a.setMode(ModeActive)
	default:
		a.setMode(ModeExpired)
	}
}

// StartSessionWatcher re-evaluates the session state every interval so the
// prompt reports an expired session.
func (a *App) StartSessionWatcher(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			a.refreshMode()
		case <-ctx.Done():
			return
		}
	}
}
