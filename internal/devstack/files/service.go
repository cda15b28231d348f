// Package files emulates the file service: it hands out upload grants,
// accepts the uploads they authorise, generates picture renditions and
// resolves stored objects to time-limited access URLs.
package files

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/myreport/reportcycle/internal/client/api"
	"github.com/myreport/reportcycle/internal/devstack/auth"
	"github.com/myreport/reportcycle/internal/devstack/blob"
	"github.com/myreport/reportcycle/internal/devstack/config"
	"github.com/myreport/reportcycle/internal/logging"
)

// UploadPath is where granted uploads are posted.
const UploadPath = "/upload/"

// MaxUploadSize caps a single upload.
const MaxUploadSize int64 = 10 << 20

var (
	ErrUnsupportedType = errors.New("only pictures can be uploaded")
	ErrBadSize         = errors.New("file size out of range")
	ErrBadScope        = errors.New("country and domain are required")
	ErrPolicyMismatch  = errors.New("upload does not match its policy")
)

// GrantRequest describes the file a client wants to upload.
type GrantRequest struct {
	UserID         int64
	CountryISOCode string
	Domain         int
	FileName       string
	FileType       string
	FileSize       int64
}

type Service struct {
	store         blob.Store
	secretKey     []byte
	grantTTL      time.Duration
	publicBaseURL string
	logger        logging.Logger

	mu      sync.RWMutex
	objects map[string][]string
}

func NewService(store blob.Store, cfg *config.Config, logger logging.Logger) *Service {
	return &Service{
		store:         store,
		secretKey:     []byte(cfg.SecretKey),
		grantTTL:      cfg.GrantValidityDuration,
		publicBaseURL: strings.TrimRight(cfg.PublicBaseURL, "/"),
		logger:        logger.With("module", "files"),
		objects:       make(map[string][]string),
	}
}

func (s *Service) uploadURL() string {
	return s.publicBaseURL + UploadPath
}

// Grant authorises one upload. The object key follows
// <country>/d<domain>/u<user>/<id>-org.<ext>.
func (s *Service) Grant(ctx context.Context, r GrantRequest) (*api.UploadGrant, error) {
	if !strings.HasPrefix(r.FileType, "image/") {
		return nil, ErrUnsupportedType
	}
	if r.FileSize <= 0 || r.FileSize > MaxUploadSize {
		return nil, ErrBadSize
	}
	if r.CountryISOCode == "" || r.Domain <= 0 {
		return nil, ErrBadScope
	}

	ext := strings.ToLower(path.Ext(r.FileName))
	key := fmt.Sprintf("%s/d%d/u%d/%s-org%s", r.CountryISOCode, r.Domain, r.UserID, uuid.NewString(), ext)

	policy, exp, err := auth.GeneratePolicy(key, r.UserID, r.FileType, MaxUploadSize, s.secretKey, s.grantTTL)
	if err != nil {
		return nil, err
	}

	s.logger.Debug(ctx, "upload granted", "key", key, "user_id", r.UserID)
	return &api.UploadGrant{
		PresignedURL: s.uploadURL(),
		Fields: map[string]string{
			"key":          key,
			"Content-Type": r.FileType,
			"policy":       policy,
		},
		Exp: exp.Unix(),
	}, nil
}

// Accept stores an upload posted with the fields of a grant, then its
// renditions. Pictures that fail to decode are kept without renditions.
func (s *Service) Accept(ctx context.Context, fields map[string]string, data []byte) error {
	policy, err := auth.ParsePolicy(fields["policy"], s.secretKey)
	if err != nil {
		return err
	}
	key := fields["key"]
	if key != policy.Subject {
		return fmt.Errorf("%w: key", ErrPolicyMismatch)
	}
	if int64(len(data)) > policy.MaxSize {
		return fmt.Errorf("%w: size", ErrPolicyMismatch)
	}

	if err := s.store.Put(ctx, key, policy.ContentType, data); err != nil {
		return err
	}
	keys := []string{key}

	sized, err := renditions(key, data)
	if err != nil {
		s.logger.Warn(ctx, "no renditions", "key", key, "error", err)
	}
	for _, r := range sized {
		if err := s.store.Put(ctx, r.key, r.contentType, r.data); err != nil {
			return err
		}
		keys = append(keys, r.key)
	}

	s.mu.Lock()
	s.objects[key] = keys
	s.mu.Unlock()

	s.logger.Info(ctx, "upload stored", "key", key, "bytes", len(data), "renditions", len(sized))
	return nil
}

// AccessURLs maps each known object URL to presigned URLs of the original
// and all its renditions. Unknown URLs are left out.
func (s *Service) AccessURLs(ctx context.Context, urls []string) (map[string][]string, error) {
	out := make(map[string][]string, len(urls))
	for _, u := range urls {
		key, ok := strings.CutPrefix(u, s.uploadURL())
		if !ok {
			continue
		}
		s.mu.RLock()
		keys := s.objects[key]
		s.mu.RUnlock()
		if len(keys) == 0 {
			continue
		}

		signed := make([]string, 0, len(keys))
		for _, k := range keys {
			p, err := s.store.PresignGet(ctx, k, s.grantTTL)
			if err != nil {
				return nil, err
			}
			signed = append(signed, p)
		}
		out[u] = signed
	}
	return out, nil
}
