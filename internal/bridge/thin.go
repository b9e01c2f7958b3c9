package bridge

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strings"
)

const thinKind = "bridge-cli-thin-client"

// thinAssetVersionPattern extracts the version folder from an explicit
// thin-client asset URL; latest-style URLs carry no version.
var thinAssetVersionPattern = regexp.MustCompile(thinKind + `/([0-9]+(?:\.[0-9]+)+)/`)

// thinVariant is the lightweight engine packaging: the executable streams
// workflow modules at run time from a registry, so the executable's own
// --version output is the durable witness of the installed version.
type thinVariant struct {
	c *Client
}

func (t *thinVariant) kind() string { return thinKind }

func (t *thinVariant) installDirName(version string) string {
	return engineFile + "-" + t.c.plat.AssetToken(version)
}

func (t *thinVariant) versionFromURL(assetURL string) string {
	if strings.Contains(assetURL, "/latest/") {
		return ""
	}
	if m := thinAssetVersionPattern.FindStringSubmatch(assetURL); m != nil {
		return m[1]
	}
	return ""
}

func (t *thinVariant) latestAssetURL() string {
	return RepositoryBaseURL + thinKind + "/latest/" + engineFile + "-" + t.c.plat.AssetToken("") + ".zip"
}

func (t *thinVariant) versionURL(version string) string {
	return RepositoryBaseURL + thinKind + "/" + version + "/" +
		engineFile + "-" + t.c.plat.AssetToken(version) + ".zip"
}

// isInstalled compares the installed executable's --version output with the
// requested version.
func (t *thinVariant) isInstalled(version string) bool {
	if version == "" {
		return false
	}
	current, err := t.installedVersion()
	if err != nil {
		slog.Debug("Failed to read installed Bridge CLI version", "error", err)
		return false
	}
	return current == strings.TrimSpace(version)
}

// installedVersion invokes the cached executable with --version.
func (t *thinVariant) installedVersion() (string, error) {
	exe := filepath.Join(t.c.installPath, t.c.plat.ExecutableName(engineFile))
	if _, err := os.Stat(exe); err != nil {
		return "", &ExecutableNotFoundError{InstallPath: t.c.installPath}
	}
	out, err := exec.Command(exe, "--version").Output()
	if err != nil {
		return "", fmt.Errorf("reading Bridge CLI version from %s: %w", exe, err)
	}
	return strings.TrimSpace(string(out)), nil
}

// extract unpacks the archive directly into the install path.
func (t *thinVariant) extract(archivePath string) error {
	return extractZip(archivePath, t.c.installPath)
}

// resolvePinned in air-gap mode asks the cached executable to switch
// versions via --use; otherwise it computes the canonical download URL.
// A cache that lacks the requested version surfaces the engine's own error.
func (t *thinVariant) resolvePinned(ctx context.Context, version string) (string, error) {
	if t.c.cfg.Network.AirGap {
		exe := filepath.Join(t.c.installPath, t.c.plat.ExecutableName(engineFile))
		code, err := runTool(ctx, exe, "--use", engineFile+"@"+version)
		if err != nil {
			return "", err
		}
		if code != 0 {
			return "", fmt.Errorf("switching the cached Bridge CLI to version %s failed with exit code %d", version, code)
		}
		return "", nil
	}
	return t.versionURL(version), nil
}

// preExecute registers the workflow registry before the main invocation
// when one is configured; a failed registration fails the run.
func (t *thinVariant) preExecute(ctx context.Context, workDir string) error {
	registerURL := t.c.cfg.Bridge.RegisterURL
	if registerURL == "" {
		return nil
	}
	exe := filepath.Join(t.c.installPath, t.c.plat.ExecutableName(engineFile))
	slog.Debug("Registering Bridge CLI workflow registry", "url", registerURL)
	code, err := runToolInDir(ctx, exe, workDir, "--register", registerURL)
	if err != nil {
		return err
	}
	if code != 0 {
		return fmt.Errorf("bridge CLI register command failed with exit code %d", code)
	}
	return nil
}
