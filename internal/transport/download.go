package transport

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/hashicorp/go-retryablehttp"
)

// DownloadTimeout bounds a single artifact download end to end.
const DownloadTimeout = 5 * time.Minute

// Download fetches url into dest. It refuses to overwrite an existing
// destination, deletes partial files on failure, and rejects empty
// downloads. A 404 is surfaced as a NotFoundError so callers can
// distinguish a missing asset from other failures.
func (c *Client) Download(ctx context.Context, url, dest string) error {
	if _, err := os.Stat(dest); err == nil {
		return fmt.Errorf("destination file path %s already exists", dest)
	}

	ctx, cancel := context.WithTimeout(ctx, DownloadTimeout)
	defer cancel()

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("building download request for %s: %w", url, err)
	}
	req.Header.Set("User-Agent", userAgent)

	slog.Debug("Downloading", "url", url, "dest", dest)
	res, err := c.rc.Do(req)
	if err != nil {
		return fmt.Errorf("downloading %s: %w", url, err)
	}
	defer res.Body.Close() //nolint:errcheck

	switch {
	case res.StatusCode == http.StatusNotFound:
		return &NotFoundError{URL: url}
	case res.StatusCode != http.StatusOK:
		return &StatusError{StatusCode: res.StatusCode, URL: url}
	}

	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return fmt.Errorf("creating download directory: %w", err)
	}
	f, err := os.Create(dest)
	if err != nil {
		return fmt.Errorf("creating %s: %w", dest, err)
	}

	n, copyErr := io.Copy(f, res.Body)
	closeErr := f.Close()
	if copyErr != nil || closeErr != nil {
		os.Remove(dest) //nolint:errcheck
		if copyErr == nil {
			copyErr = closeErr
		}
		return fmt.Errorf("writing %s: %w", dest, copyErr)
	}
	if n == 0 {
		os.Remove(dest) //nolint:errcheck
		return fmt.Errorf("downloaded file from %s is empty", url)
	}

	slog.Debug("Download complete", "dest", dest, "bytes", n)
	return nil
}
