package httpapi

import (
	"net/http"
	"strings"
	"time"

	"github.com/julienschmidt/httprouter"

	"github.com/myreport/reportcycle/internal/common"
	"github.com/myreport/reportcycle/internal/devstack/auth"
)

// authedHandle is an httprouter handle that runs for a verified session.
type authedHandle func(w http.ResponseWriter, r *http.Request, ps httprouter.Params, claims *auth.Claims)

// protected checks the bearer token before calling h.
func (s *Server) protected(h authedHandle) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		header := r.Header.Get(common.AuthorizationHeaderName)
		token, ok := strings.CutPrefix(header, common.BearerPrefix)
		if !ok || token == "" {
			writeError(w, http.StatusUnauthorized, common.ErrorUnauthorized, "Authentication required.")
			return
		}

		claims, err := s.users.Authorize(r.Context(), token)
		if err != nil {
			s.logger.Debug(r.Context(), "token rejected", "path", r.URL.Path, "error", err)
			writeError(w, http.StatusUnauthorized, err, "Your session has expired, please sign in again.")
			return
		}
		h(w, r, ps, claims)
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// withLogging logs one line per request.
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.logger.Info(r.Context(), "request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration", time.Since(start),
		)
	})
}
