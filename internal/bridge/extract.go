package bridge

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// extractZip unpacks a zip archive into destDir, preserving file modes and
// rejecting entries that would escape the destination.
func extractZip(archivePath, destDir string) error {
	r, err := zip.OpenReader(archivePath)
	if err != nil {
		return &IntegrityError{Reason: fmt.Sprintf("opening archive %s: %v", archivePath, err)}
	}
	defer r.Close() //nolint:errcheck

	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return fmt.Errorf("creating extraction directory %s: %w", destDir, err)
	}

	for _, f := range r.File {
		target := filepath.Join(destDir, filepath.FromSlash(f.Name))
		if !strings.HasPrefix(target, filepath.Clean(destDir)+string(os.PathSeparator)) {
			return &IntegrityError{Reason: fmt.Sprintf("archive entry %q escapes the extraction directory", f.Name)}
		}
		if f.FileInfo().IsDir() {
			if err := os.MkdirAll(target, f.Mode().Perm()|0o700); err != nil {
				return fmt.Errorf("creating directory %s: %w", target, err)
			}
			continue
		}
		if err := extractFile(f, target); err != nil {
			return err
		}
	}
	return nil
}

func extractFile(f *zip.File, target string) error {
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return fmt.Errorf("creating directory for %s: %w", target, err)
	}
	src, err := f.Open()
	if err != nil {
		return &IntegrityError{Reason: fmt.Sprintf("reading archive entry %q: %v", f.Name, err)}
	}
	defer src.Close() //nolint:errcheck

	dst, err := os.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, f.Mode().Perm()|0o600)
	if err != nil {
		return fmt.Errorf("creating %s: %w", target, err)
	}
	if _, err := io.Copy(dst, src); err != nil { //nolint:gosec
		dst.Close() //nolint:errcheck
		return fmt.Errorf("writing %s: %w", target, err)
	}
	return dst.Close()
}
