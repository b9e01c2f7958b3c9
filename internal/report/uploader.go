package report

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"strconv"

	"github.com/CosmoTheDev/bridgectl/internal/transport"
)

// HTTPUploader delivers artifacts to a generic HTTP artifact store. Each
// file is posted under {base}/{artifact-name}/{relative-path}; retention
// is passed as a query parameter for stores that honour it.
type HTTPUploader struct {
	client  *transport.Client
	baseURL string
	token   string
}

// NewHTTPUploader returns an uploader posting to baseURL with a bearer
// token. An empty baseURL yields a disabled uploader that logs and skips.
func NewHTTPUploader(client *transport.Client, baseURL, token string) *HTTPUploader {
	return &HTTPUploader{client: client, baseURL: baseURL, token: token}
}

func (u *HTTPUploader) Upload(ctx context.Context, name string, files []string, rootDir string, retentionDays int) error {
	if u.baseURL == "" {
		slog.Warn("Artifact upload endpoint is not configured, skipping upload", "artifact", name)
		return nil
	}
	headers := map[string]string{"Content-Type": "application/octet-stream"}
	if u.token != "" {
		headers["Authorization"] = "Bearer " + u.token
	}

	for _, file := range files {
		rel, err := filepath.Rel(rootDir, file)
		if err != nil {
			rel = filepath.Base(file)
		}
		content, err := os.ReadFile(file)
		if err != nil {
			return fmt.Errorf("reading artifact file %s: %w", file, err)
		}

		target := u.baseURL + "/" + name + "/" + url.PathEscape(filepath.ToSlash(rel))
		if retentionDays > 0 {
			target += "?retentionDays=" + strconv.Itoa(retentionDays)
		}
		res, err := u.client.Post(ctx, target, content, headers)
		if err != nil {
			return fmt.Errorf("uploading artifact %s: %w", name, err)
		}
		if res.Status != 200 && res.Status != 201 {
			return &transport.StatusError{StatusCode: res.Status, URL: target, Body: string(res.Body)}
		}
	}
	slog.Debug("Artifact uploaded", "artifact", name, "files", len(files))
	return nil
}
