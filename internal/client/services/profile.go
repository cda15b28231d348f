package services

import (
	"context"

	"github.com/myreport/reportcycle/internal/client/api"
	"github.com/myreport/reportcycle/internal/client/media"
	"github.com/myreport/reportcycle/internal/client/session"
	"github.com/myreport/reportcycle/internal/logging"
)

type CoreAPI interface {
	UserDetails(ctx context.Context, token string, userID int64, page, limit int) (*api.UserDetailsPage, error)
	CreateUserDetails(ctx context.Context, token string, d api.UserDetails) (*api.UserDetails, error)
	UpdateUserDetails(ctx context.Context, token string, userID int64, d api.UserDetails) (*api.UserDetails, error)
	GenderTypes(ctx context.Context) ([]api.GenderType, error)
}

type AccessResolver interface {
	AccessURLs(ctx context.Context, token string, domain int, urls []string) (map[string][]string, error)
}

type ProfileService struct {
	core     CoreAPI
	files    AccessResolver
	sessions Sessions
	logger   logging.Logger
}

func NewProfileService(core CoreAPI, files AccessResolver, s Sessions, logger logging.Logger) *ProfileService {
	return &ProfileService{core: core, files: files, sessions: s, logger: logger}
}

func (p *ProfileService) current() (*session.Session, error) {
	cur := p.sessions.Current()
	if cur == nil {
		return nil, session.ErrNoSession
	}
	return cur, nil
}

// Load returns the signed-in user's details. A user without a stored record
// gets a blank record; its Exists reports false.
func (p *ProfileService) Load(ctx context.Context) (api.UserDetails, error) {
	cur, err := p.current()
	if err != nil {
		return api.UserDetails{}, err
	}
	page, err := p.core.UserDetails(ctx, cur.Token, cur.UserID, 1, 1)
	if err != nil {
		return api.UserDetails{}, err
	}
	if len(page.Data) == 0 {
		return api.UserDetails{UserID: cur.UserID, Email: cur.Email}, nil
	}
	return page.Data[0], nil
}

// Save creates or updates d, then brings the session's names and picture in
// line with it.
func (p *ProfileService) Save(ctx context.Context, d api.UserDetails) (*api.UserDetails, error) {
	cur, err := p.current()
	if err != nil {
		return nil, err
	}
	d.UserID = cur.UserID

	var saved *api.UserDetails
	if d.Exists() {
		saved, err = p.core.UpdateUserDetails(ctx, cur.Token, cur.UserID, d)
	} else {
		saved, err = p.core.CreateUserDetails(ctx, cur.Token, d)
	}
	if err != nil {
		return nil, err
	}

	if err := p.sessions.UpdateProfile(ctx, session.Patch{
		FirstName:   &d.FirstName,
		MiddleName:  &d.MiddleName,
		LastName:    &d.LastName,
		DisplayName: &d.DisplayName,
	}); err != nil {
		return saved, err
	}
	if err := p.sessions.UpdateProfilePicture(ctx, d.ProfilePictureURL); err != nil {
		return saved, err
	}
	return saved, nil
}

// SetPictureFromUpload picks the URL to store as profile picture for a
// freshly uploaded object: its largest rendition, or the object URL itself
// when the renditions cannot be resolved.
func (p *ProfileService) SetPictureFromUpload(ctx context.Context, objectURL string) string {
	cur := p.sessions.Current()
	if cur == nil {
		return objectURL
	}
	obj, err := media.ParseS3URL(objectURL)
	if err != nil {
		p.logger.Debug(ctx, "picture is not an S3 object", "url", objectURL)
		return objectURL
	}
	res, err := p.files.AccessURLs(ctx, cur.Token, obj.Domain, []string{objectURL})
	if err != nil {
		p.logger.Warn(ctx, "resolve picture renditions", "url", objectURL, "error", err)
		return objectURL
	}
	if u := media.LargestURL(res[objectURL]); u != "" {
		return u
	}
	return objectURL
}

func (p *ProfileService) GenderTypes(ctx context.Context) ([]api.GenderType, error) {
	return p.core.GenderTypes(ctx)
}
