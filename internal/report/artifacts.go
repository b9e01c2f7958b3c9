package report

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// diagnosticsArtifactName is the fixed artifact name for engine diagnostics.
const diagnosticsArtifactName = "bridge_diagnostics"

// Uploader is the contract to the CI platform's artifact storage. The
// remote service itself is an external collaborator; implementations only
// need to deliver named file sets.
type Uploader interface {
	// Upload stores files (all under rootDir) as a single named artifact.
	// retentionDays of 0 keeps the platform default.
	Upload(ctx context.Context, name string, files []string, rootDir string, retentionDays int) error
}

// ArtifactPublisher uploads diagnostics bundles and SARIF reports through
// an Uploader.
type ArtifactPublisher struct {
	uploader  Uploader
	workspace string
	nowMillis func() int64
}

// NewArtifactPublisher returns a publisher rooted at the job workspace.
func NewArtifactPublisher(uploader Uploader, workspace string) *ArtifactPublisher {
	return &ArtifactPublisher{
		uploader:  uploader,
		workspace: workspace,
		nowMillis: func() int64 { return time.Now().UnixMilli() },
	}
}

// UploadDiagnostics gathers every regular file under the workspace's
// diagnostics folder and uploads them as one artifact. A missing or empty
// folder is not an error.
func (a *ArtifactPublisher) UploadDiagnostics(ctx context.Context, retentionDays string) error {
	dir := filepath.Join(a.workspace, legacyReportDir)
	files, err := collectFiles(dir)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		slog.Info("No diagnostic files found to upload", "dir", dir)
		return nil
	}

	retention := 0
	if retentionDays != "" {
		n, err := strconv.Atoi(retentionDays)
		if err != nil {
			slog.Warn("Invalid diagnostics retention days, continuing with the default 90 days",
				"value", retentionDays)
		} else {
			retention = n
		}
	}

	slog.Info("Uploading diagnostics artifact", "files", len(files))
	return a.uploader.Upload(ctx, diagnosticsArtifactName, files, dir, retention)
}

// UploadSarifArtifact uploads a single SARIF file as a timestamped
// artifact named {product}_sarif_report_{epoch-ms}.
func (a *ArtifactPublisher) UploadSarifArtifact(ctx context.Context, product, sarifPath string) error {
	if !filepath.IsAbs(sarifPath) {
		sarifPath = filepath.Join(a.workspace, sarifPath)
	}
	if _, err := os.Stat(sarifPath); err != nil {
		return fmt.Errorf("SARIF report not found at %s", sarifPath)
	}
	name := fmt.Sprintf("%s_sarif_report_%d", product, a.nowMillis())
	slog.Info("Uploading SARIF report artifact", "name", name, "path", sarifPath)
	return a.uploader.Upload(ctx, name, []string{sarifPath}, filepath.Dir(sarifPath), 0)
}

// collectFiles walks dir recursively, following into directories and
// gathering regular files only. A missing dir yields an empty set.
func collectFiles(dir string) ([]string, error) {
	if _, err := os.Stat(dir); err != nil {
		return nil, nil
	}
	var files []string
	err := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.Type().IsRegular() {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("collecting files under %s: %w", dir, err)
	}
	return files, nil
}
