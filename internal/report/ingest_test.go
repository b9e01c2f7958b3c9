package report

import (
	"bytes"
	"compress/gzip"
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/CosmoTheDev/bridgectl/internal/config"
	"github.com/CosmoTheDev/bridgectl/internal/transport"
)

func writeSarif(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestUploadSarifIngest(t *testing.T) {
	const sarifContent = `{"runs":[]}`
	workspace := t.TempDir()
	writeSarif(t, workspace, "report.sarif.json", sarifContent)

	var got sarifPayload
	var gotPath, gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		body, _ := io.ReadAll(r.Body)
		if err := json.Unmarshal(body, &got); err != nil {
			t.Errorf("payload is not JSON: %v", err)
		}
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	client, err := transport.NewClient(config.NetworkConfig{})
	if err != nil {
		t.Fatal(err)
	}
	gh := config.GitHubConfig{
		Token:           "tok",
		Repository:      "octo-org/widgets",
		RepositoryOwner: "octo-org",
		Ref:             "refs/heads/main",
		SHA:             "abc123",
		APIURL:          srv.URL,
		Workspace:       workspace,
	}
	svc := NewCodeScanningService(client, gh)

	if err := svc.UploadSarif(context.Background(), "report.sarif.json"); err != nil {
		t.Fatalf("UploadSarif: %v", err)
	}

	if gotPath != "/repos/octo-org/widgets/code-scanning/sarifs" {
		t.Errorf("endpoint = %q", gotPath)
	}
	if gotAuth != "Bearer tok" {
		t.Errorf("auth = %q", gotAuth)
	}
	if got.CommitSHA != "abc123" || got.Ref != "refs/heads/main" {
		t.Errorf("payload context = %+v", got)
	}
	if got.Validate {
		t.Error("validate must be set only for the public cloud API")
	}

	// The sarif field must round-trip through base64 and gzip.
	compressed, err := base64.StdEncoding.DecodeString(got.Sarif)
	if err != nil {
		t.Fatalf("sarif field is not base64: %v", err)
	}
	zr, err := gzip.NewReader(bytes.NewReader(compressed))
	if err != nil {
		t.Fatalf("sarif field is not gzip: %v", err)
	}
	decoded, _ := io.ReadAll(zr)
	if string(decoded) != sarifContent {
		t.Errorf("decoded sarif = %q", decoded)
	}
}

func TestUploadSarifRejectedStatusFails(t *testing.T) {
	workspace := t.TempDir()
	writeSarif(t, workspace, "report.sarif.json", "{}")

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte("bad credentials")) //nolint:errcheck
	}))
	defer srv.Close()

	client, _ := transport.NewClient(config.NetworkConfig{})
	svc := NewCodeScanningService(client, config.GitHubConfig{APIURL: srv.URL, Workspace: workspace})

	err := svc.UploadSarif(context.Background(), "report.sarif.json")
	if err == nil || !strings.Contains(err.Error(), "bad credentials") {
		t.Fatalf("expected rejection error with body, got %v", err)
	}
}

func TestUploadSarifMissingFile(t *testing.T) {
	client, _ := transport.NewClient(config.NetworkConfig{})
	svc := NewCodeScanningService(client, config.GitHubConfig{Workspace: t.TempDir()})
	if err := svc.UploadSarif(context.Background(), "nope.sarif.json"); err == nil {
		t.Fatal("expected missing-file error")
	}
}
