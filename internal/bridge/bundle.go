package bridge

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

const bundleKind = "bridge-cli-bundle"

// bundleAssetVersionPattern extracts the version embedded in an explicit
// bundle asset URL. Latest-style assets carry a platform token instead of
// a version and do not match.
var bundleAssetVersionPattern = regexp.MustCompile(`bridge-cli-bundle-([0-9]+(?:\.[0-9]+)+)`)

// bundleVariant is the self-contained engine packaging: one archive ships
// all workflow code, and the versions.txt manifest inside the install is
// the durable witness of the installed version.
type bundleVariant struct {
	c *Client
}

func (b *bundleVariant) kind() string { return bundleKind }

func (b *bundleVariant) installDirName(version string) string {
	return bundleKind + "-" + b.c.plat.AssetToken(version)
}

func (b *bundleVariant) versionFromURL(assetURL string) string {
	if m := bundleAssetVersionPattern.FindStringSubmatch(assetURL); m != nil {
		return m[1]
	}
	return ""
}

func (b *bundleVariant) latestAssetURL() string {
	return RepositoryBaseURL + bundleKind + "/latest/" + bundleKind + "-" + b.c.plat.AssetToken("") + ".zip"
}

func (b *bundleVariant) versionURL(version string) string {
	return RepositoryBaseURL + bundleKind + "/" + version + "/" +
		bundleKind + "-" + version + "-" + b.c.plat.AssetToken(version) + ".zip"
}

// isInstalled checks the install's manifest for an exact "kind: version" entry.
func (b *bundleVariant) isInstalled(version string) bool {
	if version == "" {
		return false
	}
	manifestPath := filepath.Join(b.c.installPath, manifestName)
	content, err := os.ReadFile(manifestPath)
	if err != nil {
		slog.Debug("Bridge CLI version file could not be read", "path", manifestPath)
		return false
	}
	return strings.Contains(string(content), bundleKind+": "+version)
}

// extract unpacks the archive next to the install path and renames the
// archive's top-level folder into place.
func (b *bundleVariant) extract(archivePath string) error {
	staging := filepath.Dir(b.c.installPath)
	if err := extractZip(archivePath, staging); err != nil {
		return err
	}
	extracted := filepath.Join(staging, strings.TrimSuffix(filepath.Base(archivePath), ".zip"))
	if extracted == b.c.installPath {
		return nil
	}
	slog.Debug("Renaming extracted folder", "from", extracted, "to", b.c.installPath)
	if err := os.Rename(extracted, b.c.installPath); err != nil {
		return &IntegrityError{Reason: fmt.Sprintf("archive did not contain the expected folder %s: %v", filepath.Base(extracted), err)}
	}
	return nil
}

// resolvePinned validates a pinned version against the repository index.
// Air-gap mode cannot satisfy a pin without an explicit URL.
func (b *bundleVariant) resolvePinned(ctx context.Context, version string) (string, error) {
	if b.c.cfg.Network.AirGap {
		return "", &AirGapError{Reason: "unable to use the specified Bridge CLI version in air gap mode; provide an explicit download URL instead"}
	}
	versions, err := b.c.availableVersions(ctx)
	if err != nil {
		return "", err
	}
	for _, v := range versions {
		if v == strings.TrimSpace(version) {
			return b.versionURL(version), nil
		}
	}
	return "", fmt.Errorf("provided Bridge CLI version %s could not be found in the artifact repository", version)
}

func (b *bundleVariant) preExecute(context.Context, string) error { return nil }
