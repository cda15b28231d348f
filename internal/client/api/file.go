package api

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"sort"
	"strconv"
)

// FileClient talks to the file service and to the storage destinations it
// grants.
type FileClient struct {
	c *Client
}

func NewFileClient(c *Client) *FileClient {
	return &FileClient{c: c}
}

// PresignedPost requests an upload grant for file, scoped by cls.
func (f *FileClient) PresignedPost(ctx context.Context, token string, cls Classification, file FileInfo) (*UploadGrant, error) {
	q := url.Values{
		"countryISOCode": {cls.CountryISOCode},
		"domain":         {strconv.Itoa(cls.Domain)},
		"fileName":       {file.Name},
		"fileType":       {file.MIMEType},
		"fileSize":       {strconv.FormatInt(file.Size, 10)},
	}

	var out UploadGrant
	err := f.c.do(ctx, request{
		method:   http.MethodGet,
		path:     "/v1/generate-presigned-post-url",
		query:    q,
		token:    token,
		out:      &out,
		fallback: "Failed to generate presigned URL, please try again.",
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Transfer posts content as a multipart form made of the grant fields
// followed by the file part. progress is called with 0–100 as the request
// body is consumed. Only a 204 answer counts as success.
func (f *FileClient) Transfer(ctx context.Context, grant UploadGrant, file FileInfo, content io.Reader, progress ProgressFunc) error {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	keys := make([]string, 0, len(grant.Fields))
	for k := range grant.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if err := mw.WriteField(k, grant.Fields[k]); err != nil {
			return fmt.Errorf("write field %s: %w", k, err)
		}
	}

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, file.Name))
	h.Set("Content-Type", file.MIMEType)
	part, err := mw.CreatePart(h)
	if err != nil {
		return fmt.Errorf("create file part: %w", err)
	}
	if _, err := io.Copy(part, content); err != nil {
		return fmt.Errorf("read %s: %w", file.Name, err)
	}
	if err := mw.Close(); err != nil {
		return fmt.Errorf("close multipart: %w", err)
	}

	size := int64(buf.Len())
	body := newProgressReader(bytes.NewReader(buf.Bytes()), size, progress)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, grant.PresignedURL, body)
	if err != nil {
		return fmt.Errorf("build upload request: %w", err)
	}
	req.ContentLength = size
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := f.c.http.Do(req)
	if err != nil {
		f.c.logger.Warn(ctx, "upload transport failed", "file", file.Name, "error", err)
		return fmt.Errorf("%w: upload %s: %v", ErrNetwork, file.Name, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusNoContent {
		return fmt.Errorf("%w: %d", ErrUnexpectedStatus, resp.StatusCode)
	}
	return nil
}

// AccessURLs converts stored object URLs into time-limited access URLs, one
// list of size variants per source URL.
func (f *FileClient) AccessURLs(ctx context.Context, token string, domain int, urls []string) (map[string][]string, error) {
	var out struct {
		URLs map[string][]string `json:"urls"`
	}
	err := f.c.do(ctx, request{
		method: http.MethodPost,
		path:   "/v1/generate-access-urls",
		token:  token,
		body: struct {
			Domain int      `json:"domain"`
			URLs   []string `json:"urls"`
		}{Domain: domain, URLs: urls},
		out:      &out,
		fallback: "Failed to generate access URLs, please try again.",
	})
	if err != nil {
		return nil, err
	}
	return out.URLs, nil
}
