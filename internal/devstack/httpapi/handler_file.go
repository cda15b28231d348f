package httpapi

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/julienschmidt/httprouter"

	"github.com/myreport/reportcycle/internal/common"
	"github.com/myreport/reportcycle/internal/devstack/auth"
	"github.com/myreport/reportcycle/internal/devstack/blob"
	"github.com/myreport/reportcycle/internal/devstack/files"
)

func (s *Server) presignedPost(w http.ResponseWriter, r *http.Request, _ httprouter.Params, claims *auth.Claims) {
	q := r.URL.Query()
	size, _ := strconv.ParseInt(q.Get("fileSize"), 10, 64)
	domain, _ := strconv.Atoi(q.Get("domain"))

	grant, err := s.files.Grant(r.Context(), files.GrantRequest{
		UserID:         claims.UserID,
		CountryISOCode: q.Get("countryISOCode"),
		Domain:         domain,
		FileName:       q.Get("fileName"),
		FileType:       q.Get("fileType"),
		FileSize:       size,
	})
	if err != nil {
		switch {
		case errors.Is(err, files.ErrUnsupportedType):
			writeError(w, http.StatusBadRequest, err, "Invalid file type. Only pictures can be uploaded.")
		case errors.Is(err, files.ErrBadSize):
			writeError(w, http.StatusBadRequest, err, "The file is empty or too large.")
		case errors.Is(err, files.ErrBadScope):
			writeError(w, http.StatusBadRequest, err, "Country and domain are required.")
		default:
			writeError(w, http.StatusInternalServerError, err, "Failed to generate presigned URL, please try again.")
		}
		return
	}
	writeJSON(w, http.StatusOK, grant)
}

// upload accepts the multipart form a grant authorises and answers 204,
// as S3 does for a presigned POST.
func (s *Server) upload(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	r.Body = http.MaxBytesReader(w, r.Body, files.MaxUploadSize+1<<20)
	if err := r.ParseMultipartForm(1 << 20); err != nil {
		writeError(w, http.StatusBadRequest, err, "Malformed upload.")
		return
	}
	defer r.MultipartForm.RemoveAll()

	fields := make(map[string]string, len(r.MultipartForm.Value))
	for k, v := range r.MultipartForm.Value {
		if len(v) > 0 {
			fields[k] = v[0]
		}
	}

	f, _, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, err, "Missing file.")
		return
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		writeError(w, http.StatusBadRequest, err, "Malformed upload.")
		return
	}

	if err := s.files.Accept(r.Context(), fields, data); err != nil {
		s.logger.Warn(r.Context(), "upload rejected", "key", fields["key"], "error", err)
		switch {
		case errors.Is(err, common.ErrTokenExpired):
			writeError(w, http.StatusForbidden, err, "The upload grant has expired.")
		case errors.Is(err, common.ErrInvalidToken), errors.Is(err, files.ErrPolicyMismatch):
			writeError(w, http.StatusForbidden, err, "The upload does not match its grant.")
		default:
			writeError(w, http.StatusInternalServerError, err, "Failed to store the upload.")
		}
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) accessURLs(w http.ResponseWriter, r *http.Request, _ httprouter.Params, _ *auth.Claims) {
	var req struct {
		Domain int      `json:"domain"`
		URLs   []string `json:"urls"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	res, err := s.files.AccessURLs(r.Context(), req.URLs)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err, "Failed to generate access URLs, please try again.")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"urls": res})
}

// object serves a MemoryStore object to holders of a presigned URL.
func (s *Server) object(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	key := strings.TrimPrefix(ps.ByName("key"), "/")

	obj, err := s.objects.Open(r.Context(), key, r.URL.Query().Get("token"))
	if err != nil {
		if errors.Is(err, blob.ErrNotFound) {
			http.NotFound(w, r)
			return
		}
		http.Error(w, "access denied", http.StatusForbidden)
		return
	}
	w.Header().Set("Content-Type", obj.ContentType)
	w.Header().Set("Content-Length", strconv.Itoa(len(obj.Data)))
	_, _ = w.Write(obj.Data)
}

func (s *Server) defaultAvatar(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
	w.Header().Set("Content-Type", "image/jpeg")
	w.Header().Set("Content-Length", strconv.Itoa(len(s.avatar)))
	_, _ = w.Write(s.avatar)
}
