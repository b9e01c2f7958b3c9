package report

import (
	"context"
	"os"
	"path/filepath"
	"regexp"
	"testing"
)

type recordedUpload struct {
	name          string
	files         []string
	rootDir       string
	retentionDays int
}

type fakeUploader struct {
	uploads []recordedUpload
}

func (f *fakeUploader) Upload(_ context.Context, name string, files []string, rootDir string, retentionDays int) error {
	f.uploads = append(f.uploads, recordedUpload{name, files, rootDir, retentionDays})
	return nil
}

func TestUploadDiagnosticsCollectsRecursively(t *testing.T) {
	workspace := t.TempDir()
	diag := filepath.Join(workspace, ".bridge")
	if err := os.MkdirAll(filepath.Join(diag, "logs", "nested"), 0o755); err != nil {
		t.Fatal(err)
	}
	for _, f := range []string{"bridge.log", "logs/scan.log", "logs/nested/trace.log"} {
		if err := os.WriteFile(filepath.Join(diag, filepath.FromSlash(f)), []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	uploader := &fakeUploader{}
	pub := NewArtifactPublisher(uploader, workspace)
	if err := pub.UploadDiagnostics(context.Background(), "30"); err != nil {
		t.Fatalf("UploadDiagnostics: %v", err)
	}

	if len(uploader.uploads) != 1 {
		t.Fatalf("expected one upload, got %d", len(uploader.uploads))
	}
	up := uploader.uploads[0]
	if up.name != "bridge_diagnostics" {
		t.Errorf("artifact name = %q", up.name)
	}
	if len(up.files) != 3 {
		t.Errorf("expected 3 files, got %v", up.files)
	}
	if up.retentionDays != 30 {
		t.Errorf("retention = %d", up.retentionDays)
	}
}

func TestUploadDiagnosticsInvalidRetentionKeepsDefault(t *testing.T) {
	workspace := t.TempDir()
	diag := filepath.Join(workspace, ".bridge")
	if err := os.MkdirAll(diag, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(diag, "bridge.log"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	uploader := &fakeUploader{}
	pub := NewArtifactPublisher(uploader, workspace)
	if err := pub.UploadDiagnostics(context.Background(), "ninety"); err != nil {
		t.Fatalf("UploadDiagnostics: %v", err)
	}
	if uploader.uploads[0].retentionDays != 0 {
		t.Errorf("invalid retention must keep the platform default, got %d", uploader.uploads[0].retentionDays)
	}
}

func TestUploadDiagnosticsMissingFolderIsNoop(t *testing.T) {
	uploader := &fakeUploader{}
	pub := NewArtifactPublisher(uploader, t.TempDir())
	if err := pub.UploadDiagnostics(context.Background(), ""); err != nil {
		t.Fatalf("UploadDiagnostics: %v", err)
	}
	if len(uploader.uploads) != 0 {
		t.Errorf("missing diagnostics folder must not upload, got %v", uploader.uploads)
	}
}

func TestUploadSarifArtifactName(t *testing.T) {
	workspace := t.TempDir()
	sarif := filepath.Join(workspace, "report.sarif.json")
	if err := os.WriteFile(sarif, []byte("{}"), 0o644); err != nil {
		t.Fatal(err)
	}

	uploader := &fakeUploader{}
	pub := NewArtifactPublisher(uploader, workspace)
	pub.nowMillis = func() int64 { return 1700000000000 }

	if err := pub.UploadSarifArtifact(context.Background(), "polaris", "report.sarif.json"); err != nil {
		t.Fatalf("UploadSarifArtifact: %v", err)
	}
	want := regexp.MustCompile(`^polaris_sarif_report_1700000000000$`)
	if !want.MatchString(uploader.uploads[0].name) {
		t.Errorf("artifact name = %q", uploader.uploads[0].name)
	}

	if err := pub.UploadSarifArtifact(context.Background(), "polaris", "missing.sarif.json"); err == nil {
		t.Error("missing SARIF file must fail the upload")
	}
}
