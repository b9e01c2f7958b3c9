package report

import (
	"bytes"
	"compress/gzip"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"

	"github.com/CosmoTheDev/bridgectl/internal/config"
	"github.com/CosmoTheDev/bridgectl/internal/transport"
)

// githubCloudAPIURL marks the public cloud, which accepts the validate flag.
const githubCloudAPIURL = "https://api.github.com"

// sarifPayload is the code-scanning ingest request body.
type sarifPayload struct {
	CommitSHA string `json:"commit_sha"`
	Ref       string `json:"ref"`
	Sarif     string `json:"sarif"`
	Validate  bool   `json:"validate,omitempty"`
}

// CodeScanningService pushes SARIF reports to the source-hosting
// platform's code-scanning ingest endpoint.
type CodeScanningService struct {
	client    *transport.Client
	gh        config.GitHubConfig
	workspace string
}

func NewCodeScanningService(client *transport.Client, gh config.GitHubConfig) *CodeScanningService {
	return &CodeScanningService{client: client, gh: gh, workspace: gh.Workspace}
}

// UploadSarif gzips and base64-encodes the SARIF file, then posts it with
// the run's commit SHA and ref. Rate-limited responses are retried within
// the transport's budget; a 202 means the report was accepted.
func (s *CodeScanningService) UploadSarif(ctx context.Context, sarifPath string) error {
	slog.Info("Uploading SARIF results to GitHub", "path", sarifPath)
	if !filepath.IsAbs(sarifPath) {
		sarifPath = filepath.Join(s.workspace, sarifPath)
	}
	content, err := os.ReadFile(sarifPath)
	if err != nil {
		return fmt.Errorf("SARIF file not found for upload at %s", sarifPath)
	}

	encoded, err := gzipBase64(content)
	if err != nil {
		return err
	}
	payload := sarifPayload{
		CommitSHA: s.gh.SHA,
		Ref:       s.gh.Ref,
		Sarif:     encoded,
		Validate:  s.gh.APIURL == githubCloudAPIURL,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("serializing SARIF ingest payload: %w", err)
	}

	endpoint := fmt.Sprintf("%s/repos/%s/%s/code-scanning/sarifs",
		s.gh.APIURL, s.gh.RepositoryOwner, s.gh.RepoName())
	res, err := s.client.Post(ctx, endpoint, body, map[string]string{
		"Authorization": "Bearer " + s.gh.Token,
		"Accept":        "application/vnd.github+json",
	})
	if err != nil {
		return fmt.Errorf("uploading SARIF report to GitHub Advanced Security: %w", err)
	}
	if res.Status != http.StatusAccepted {
		return fmt.Errorf("uploading SARIF report to GitHub Advanced Security failed: HTTP %d: %s",
			res.Status, res.Body)
	}
	slog.Info("SARIF result uploaded successfully to GitHub Advanced Security")
	return nil
}

func gzipBase64(content []byte) (string, error) {
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	if _, err := zw.Write(content); err != nil {
		return "", fmt.Errorf("compressing SARIF content: %w", err)
	}
	if err := zw.Close(); err != nil {
		return "", fmt.Errorf("compressing SARIF content: %w", err)
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}
