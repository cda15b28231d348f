package session

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"mime"
	"net/http"
	"time"
)

// maxAvatarBytes bounds the picture kept inline in the session record.
const maxAvatarBytes = 5 << 20

// HTTPAvatarFetcher fetches pictures with a plain GET.
type HTTPAvatarFetcher struct {
	Client *http.Client
}

func NewHTTPAvatarFetcher(c *http.Client) *HTTPAvatarFetcher {
	if c == nil {
		c = &http.Client{Timeout: 15 * time.Second}
	}
	return &HTTPAvatarFetcher{Client: c}
}

func (f *HTTPAvatarFetcher) Fetch(ctx context.Context, url string) ([]byte, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, "", fmt.Errorf("build avatar request: %w", err)
	}
	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("fetch avatar: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, "", fmt.Errorf("fetch avatar: status %d", resp.StatusCode)
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxAvatarBytes))
	if err != nil {
		return nil, "", fmt.Errorf("read avatar: %w", err)
	}

	ct := resp.Header.Get("Content-Type")
	if mt, _, err := mime.ParseMediaType(ct); err == nil {
		ct = mt
	} else {
		ct = http.DetectContentType(data)
	}
	return data, ct, nil
}

// DataURI renders data as an inline data URI.
func DataURI(contentType string, data []byte) string {
	return "data:" + contentType + ";base64," + base64.StdEncoding.EncodeToString(data)
}
