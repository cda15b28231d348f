package upload

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/myreport/reportcycle/internal/client/api"
	"github.com/myreport/reportcycle/internal/client/session"
	"github.com/myreport/reportcycle/internal/logging"
)

// AllowedExtensions lists the accepted picture extensions, lower case.
var AllowedExtensions = []string{"jpeg", "jpg", "png", "gif", "bmp"}

// FileAPI is the part of the file service the coordinator calls.
type FileAPI interface {
	PresignedPost(ctx context.Context, token string, cls api.Classification, file api.FileInfo) (*api.UploadGrant, error)
	Transfer(ctx context.Context, grant api.UploadGrant, file api.FileInfo, content io.Reader, progress api.ProgressFunc) error
	AccessURLs(ctx context.Context, token string, domain int, urls []string) (map[string][]string, error)
}

// TokenSource yields the current session, or nil.
type TokenSource interface {
	Current() *session.Session
}

// File is a picture selected for upload.
type File struct {
	Name    string
	Size    int64
	Content io.Reader
}

// Open selects the file at path. The caller closes the returned closer.
func Open(path string) (File, io.Closer, error) {
	f, err := os.Open(path)
	if err != nil {
		return File{}, nil, fmt.Errorf("open %s: %w", path, err)
	}
	st, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return File{}, nil, fmt.Errorf("stat %s: %w", path, err)
	}
	return File{Name: filepath.Base(path), Size: st.Size(), Content: f}, f, nil
}

// Job is a snapshot of one upload.
type Job struct {
	ID             uuid.UUID
	File           api.FileInfo
	Classification api.Classification
	Grant          *api.UploadGrant
	Progress       int
	ObjectURL      string
	URLs           []string
	Message        string
	State          State
}

type Options struct {
	Files          FileAPI
	Tokens         TokenSource
	Classification api.Classification
	Observer       Observer
	Logger         logging.Logger
	// TickInterval paces OnProcessing while access URLs are resolved.
	// One second when zero.
	TickInterval time.Duration
	Now          func() time.Time
}

// Coordinator runs uploads one at a time.
type Coordinator struct {
	files    FileAPI
	tokens   TokenSource
	cls      api.Classification
	observer Observer
	logger   logging.Logger
	tick     time.Duration
	now      func() time.Time

	mu  sync.Mutex
	job Job
}

func NewCoordinator(opts Options) *Coordinator {
	c := &Coordinator{
		files:    opts.Files,
		tokens:   opts.Tokens,
		cls:      opts.Classification,
		observer: opts.Observer,
		logger:   opts.Logger,
		tick:     opts.TickInterval,
		now:      opts.Now,
	}
	if c.observer == nil {
		c.observer = NopObserver{}
	}
	if c.logger == nil {
		c.logger = logging.NewNop()
	}
	if c.tick <= 0 {
		c.tick = time.Second
	}
	if c.now == nil {
		c.now = time.Now
	}
	c.logger = c.logger.With("component", "upload")
	return c
}

// ValidateSelection checks the file name against AllowedExtensions.
func ValidateSelection(name string) error {
	if _, ok := extension(name); !ok {
		return &Error{Message: MsgInvalidType}
	}
	return nil
}

func extension(name string) (string, bool) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(name), "."))
	return ext, slices.Contains(AllowedExtensions, ext)
}

// Job returns a snapshot of the current job.
func (c *Coordinator) Job() Job {
	c.mu.Lock()
	defer c.mu.Unlock()
	j := c.job
	j.URLs = slices.Clone(c.job.URLs)
	return j
}

// Upload publishes f and returns the final job. Failures are returned as
// *Error and leave the job in Failed. A file with a rejected extension is
// refused with a nil job and the current job is left untouched.
func (c *Coordinator) Upload(ctx context.Context, f File) (*Job, error) {
	ext, ok := extension(f.Name)
	if !ok {
		c.logger.Warn(ctx, "file rejected", "file", f.Name)
		c.observer.OnFailed(MsgInvalidType)
		return nil, &Error{Message: MsgInvalidType}
	}

	if err := c.begin(f, ext); err != nil {
		return nil, err
	}

	c.logger.Info(ctx, "upload started", "job", c.Job().ID.String(), "file", f.Name, "size", f.Size)

	token, uerr := c.requestAuthorization(ctx)
	if uerr != nil {
		return c.fail(ctx, uerr)
	}
	if uerr := c.transfer(ctx, f); uerr != nil {
		return c.fail(ctx, uerr)
	}
	if uerr := c.resolveAccessURLs(ctx, token); uerr != nil {
		return c.fail(ctx, uerr)
	}

	j := c.Job()
	c.logger.Info(ctx, "upload published", "job", j.ID.String(), "urls", len(j.URLs))
	return &j, nil
}

// begin replaces the job with a new one already in Authorizing. It refuses
// while a job is in flight; the check and the claim share one lock.
func (c *Coordinator) begin(f File, ext string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.job.State.InFlight() {
		return ErrBusy
	}
	if c.job.State != Idle {
		if err := transition(c.job.State, Idle); err != nil {
			return err
		}
	}

	c.job = Job{
		ID:             uuid.New(),
		File:           api.FileInfo{Name: f.Name, MIMEType: "image/" + ext, Size: f.Size},
		Classification: c.cls,
		State:          Authorizing,
	}
	return nil
}

func (c *Coordinator) setState(to State) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := transition(c.job.State, to); err != nil {
		return err
	}
	c.job.State = to
	return nil
}

func (c *Coordinator) requestAuthorization(ctx context.Context) (string, *Error) {
	s := c.tokens.Current()
	if s == nil || s.Token == "" || !s.Valid(c.now()) {
		return "", &Error{Message: MsgLoginFirst, Err: session.ErrNoSession}
	}

	j := c.Job()
	grant, err := c.files.PresignedPost(ctx, s.Token, j.Classification, j.File)
	if err != nil {
		return "", &Error{Message: api.Message(err), Err: err}
	}

	c.mu.Lock()
	c.job.Grant = grant
	c.mu.Unlock()
	return s.Token, nil
}

func (c *Coordinator) transfer(ctx context.Context, f File) *Error {
	if err := c.setState(Transferring); err != nil {
		return &Error{Message: MsgUploadError, Err: err}
	}

	j := c.Job()
	c.observer.OnUploading(true)
	c.observer.OnProgress(0)
	err := c.files.Transfer(ctx, *j.Grant, j.File, f.Content, func(percent int) {
		c.mu.Lock()
		c.job.Progress = percent
		c.mu.Unlock()
		c.observer.OnProgress(percent)
	})
	c.observer.OnUploading(false)

	if err != nil {
		if errors.Is(err, api.ErrUnexpectedStatus) {
			return &Error{Message: MsgUploadFailed, Err: err}
		}
		return &Error{Message: MsgUploadError, Err: err}
	}

	objectURL := j.Grant.ObjectURL()
	c.mu.Lock()
	c.job.Progress = 100
	c.job.ObjectURL = objectURL
	c.mu.Unlock()
	c.observer.OnUploaded(objectURL)
	return nil
}

func (c *Coordinator) resolveAccessURLs(ctx context.Context, token string) *Error {
	if err := c.setState(Resolving); err != nil {
		return &Error{Message: MsgUploadError, Err: err}
	}
	j := c.Job()

	done := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		t := time.NewTicker(c.tick)
		defer t.Stop()
		elapsed := 0
		for {
			select {
			case <-done:
				return
			case <-t.C:
				elapsed++
				c.observer.OnProcessing(elapsed)
			}
		}
	}()

	res, err := c.files.AccessURLs(ctx, token, j.Classification.Domain, []string{j.ObjectURL})
	close(done)
	wg.Wait()

	if err != nil {
		return &Error{Message: api.Message(err), Err: err}
	}

	// Only the entry for our object counts; a missing one means no renditions.
	urls := res[j.ObjectURL]

	c.mu.Lock()
	c.job.URLs = slices.Clone(urls)
	c.job.State = Published
	c.mu.Unlock()
	c.observer.OnPublished(slices.Clone(urls))
	return nil
}

func (c *Coordinator) fail(ctx context.Context, e *Error) (*Job, error) {
	c.mu.Lock()
	c.job.State = Failed
	c.job.Message = e.Message
	j := c.job
	j.URLs = slices.Clone(c.job.URLs)
	c.mu.Unlock()

	c.logger.Warn(ctx, "upload failed", "job", j.ID.String(), "message", e.Message, "error", e.Err)
	c.observer.OnFailed(e.Message)
	return &j, e
}

// Delete discards the published picture locally. No request is sent; the
// stored object stays in place.
func (c *Coordinator) Delete() error {
	c.mu.Lock()
	if err := transition(c.job.State, Deleted); err != nil {
		c.mu.Unlock()
		return err
	}
	prev := c.job.URLs
	c.job.URLs = nil
	c.job.Progress = 0
	c.job.State = Deleted
	c.mu.Unlock()

	c.observer.OnDeleted(prev)
	return nil
}
