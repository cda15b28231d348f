// Package httpapi exposes the devstack services over HTTP/JSON on a single
// listener, using the routes the client expects from the auth, core and
// file services.
package httpapi

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/julienschmidt/httprouter"

	"github.com/myreport/reportcycle/internal/devstack/blob"
	"github.com/myreport/reportcycle/internal/devstack/core"
	"github.com/myreport/reportcycle/internal/devstack/files"
	"github.com/myreport/reportcycle/internal/devstack/users"
	"github.com/myreport/reportcycle/internal/logging"
)

// AvatarPath serves the default profile picture.
const AvatarPath = "/images/avatar.jpg"

const shutdownTimeout = 5 * time.Second

type Server struct {
	address string
	logger  logging.Logger
	users   *users.Service
	details *core.DetailsStore
	files   *files.Service
	objects *blob.MemoryStore
	avatar  []byte
}

// NewServer wires the services. objects may be nil when uploads live in
// S3; the object download route is then left out.
func NewServer(a string, l logging.Logger, us *users.Service, ds *core.DetailsStore, fs *files.Service, objects *blob.MemoryStore, avatar []byte) *Server {
	return &Server{
		address: a,
		logger:  l.With("module", "http_server"),
		users:   us,
		details: ds,
		files:   fs,
		objects: objects,
		avatar:  avatar,
	}
}

func (s *Server) Handler() http.Handler {
	router := httprouter.New()

	router.POST("/v1/login", s.login)
	router.POST("/v1/logout", s.protected(s.logout))
	router.POST("/v1/register", s.register)
	router.POST("/v1/refresh_token", s.protected(s.refreshToken))
	router.GET("/v1/usernames", s.usernames)
	router.POST("/v1/reset_token", s.resetToken)
	router.PUT("/v1/reset_password", s.resetPassword)
	router.POST("/v1/resend_activation", s.resendActivation)

	router.GET("/v1/user_details", s.protected(s.listUserDetails))
	router.POST("/v1/user_details", s.protected(s.createUserDetails))
	router.PUT("/v1/user_details/:id", s.protected(s.updateUserDetails))
	router.GET("/v1/gender_types", s.genderTypes)
	router.GET("/v1/ticket_categories", s.protected(s.ticketCategories))

	router.GET("/v1/generate-presigned-post-url", s.protected(s.presignedPost))
	router.POST("/v1/generate-access-urls", s.protected(s.accessURLs))
	router.POST(files.UploadPath, s.upload)
	if s.objects != nil {
		router.GET(blob.ObjectsPath+"*key", s.object)
	}

	router.GET(AvatarPath, s.defaultAvatar)

	return s.withLogging(router)
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}

	srv := &http.Server{Handler: s.Handler(), ReadHeaderTimeout: 10 * time.Second}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", listen.Addr().String())

	if err := srv.Serve(listen); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
