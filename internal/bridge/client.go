package bridge

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path"
	"path/filepath"

	"github.com/CosmoTheDev/bridgectl/internal/config"
	"github.com/CosmoTheDev/bridgectl/internal/platform"
	"github.com/CosmoTheDev/bridgectl/internal/transport"
)

// engineFile is the engine executable's base name, shared by both variants.
const engineFile = "bridge-cli"

// variant is the capability set distinguishing the bundle and thin clients.
// The Client owns the provisioning state machine; variants supply naming,
// URL grammar, install checks, and extraction layout.
type variant interface {
	kind() string
	installDirName(version string) string
	// versionFromURL extracts the version embedded in an explicit download
	// URL; "" means the sibling manifest must be consulted.
	versionFromURL(assetURL string) string
	latestAssetURL() string
	versionURL(version string) string
	isInstalled(version string) bool
	extract(archivePath string) error
	// resolvePinned turns an explicitly configured version into a download
	// URL; "" means no download is needed.
	resolvePinned(ctx context.Context, version string) (string, error)
	// preExecute runs variant-specific setup before the main invocation.
	preExecute(ctx context.Context, workDir string) error
}

// Client provisions and invokes the engine. Exactly one client is in use
// per run; the install path is owned by it for the provisioning duration.
type Client struct {
	cfg  *config.Config
	http *transport.Client
	plat platform.Platform

	v           variant
	installPath string
}

// NewClient selects the engine variant from the configuration and returns
// a client using the given transport.
func NewClient(cfg *config.Config, http *transport.Client) *Client {
	c := &Client{cfg: cfg, http: http, plat: platform.Detect()}
	if cfg.Bridge.ThinClient {
		c.v = &thinVariant{c}
	} else {
		c.v = &bundleVariant{c}
	}
	return c
}

// Kind returns the active variant's repository name.
func (c *Client) Kind() string { return c.v.kind() }

// InstallPath returns the resolved install directory; empty before Provision.
func (c *Client) InstallPath() string { return c.installPath }

// Provision resolves, downloads, and unpacks the engine, reusing the cache
// when the requested version is already installed. It returns the engine
// version when one could be determined (air-gap latest yields ""). tempDir
// receives the downloaded archive and is the caller's to clean up.
func (c *Client) Provision(ctx context.Context, tempDir string) (string, error) {
	airGap := c.cfg.Network.AirGap
	if airGap {
		slog.Info("Network air gap is enabled")
	}

	assetURL, version, err := c.resolve(ctx, airGap)
	if err != nil {
		return "", err
	}
	if version != "" {
		slog.Info("Bridge CLI version", "version", version)
	}
	if assetURL == "" {
		// Cache hit or air-gap reuse; nothing to download.
		return version, nil
	}

	if err := c.setInstallPath(version); err != nil {
		return "", err
	}
	if c.v.isInstalled(version) {
		slog.Info("Bridge CLI already exists", "path", c.installPath)
		return version, nil
	}

	slog.Info("Downloading and configuring Bridge CLI", "url", assetURL)
	archive, err := c.download(ctx, tempDir, assetURL)
	if err != nil {
		return "", err
	}

	if _, statErr := os.Stat(c.installPath); statErr == nil {
		slog.Info("Clearing existing Bridge CLI folder", "path", c.installPath)
		if err := os.RemoveAll(c.installPath); err != nil {
			return "", fmt.Errorf("clearing existing install at %s: %w", c.installPath, err)
		}
	}
	if err := c.v.extract(archive); err != nil {
		return "", err
	}
	slog.Info("Download and configuration of Bridge CLI completed")
	return version, nil
}

// resolve decides the download URL and version according to the configured
// precedence: explicit URL, then pinned version, then latest.
func (c *Client) resolve(ctx context.Context, airGap bool) (string, string, error) {
	b := c.cfg.Bridge
	switch {
	case b.DownloadURL != "":
		return c.resolveExplicitURL(ctx, b.DownloadURL)
	case b.DownloadVersion != "":
		if err := c.setInstallPath(b.DownloadVersion); err != nil {
			return "", "", err
		}
		if c.v.isInstalled(b.DownloadVersion) {
			slog.Info("Bridge CLI already exists", "path", c.installPath)
			return "", b.DownloadVersion, nil
		}
		assetURL, err := c.v.resolvePinned(ctx, b.DownloadVersion)
		return assetURL, b.DownloadVersion, err
	default:
		if airGap {
			if err := c.setInstallPath(""); err != nil {
				return "", "", err
			}
			slog.Info("Bridge CLI already exists", "path", c.installPath)
			return "", "", nil
		}
		manifest, err := c.fetchManifest(ctx, RepositoryBaseURL+c.v.kind()+"/latest/"+manifestName)
		if err != nil {
			return "", "", fmt.Errorf("unable to retrieve the latest Bridge CLI version: %w", err)
		}
		version := parseManifestVersion(manifest, c.v.kind())
		if version == "" {
			return "", "", &IntegrityError{Reason: "latest version manifest does not declare a Bridge CLI version"}
		}
		return c.v.latestAssetURL(), version, nil
	}
}

func (c *Client) resolveExplicitURL(ctx context.Context, assetURL string) (string, string, error) {
	parsed, err := url.Parse(assetURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return "", "", fmt.Errorf("provided Bridge CLI url is invalid: %s", assetURL)
	}
	version := c.v.versionFromURL(assetURL)
	if version == "" {
		manifest, err := c.fetchManifest(ctx, siblingManifestURL(assetURL))
		if err != nil {
			return "", "", fmt.Errorf("unable to resolve the Bridge CLI version for the provided url: %w", err)
		}
		version = parseManifestVersion(manifest, engineFile)
	}
	return assetURL, version, nil
}

// setInstallPath computes and pins the install directory. In air-gap mode
// the executable must already be present unless an explicit download URL
// was provided.
func (c *Client) setInstallPath(version string) error {
	base := c.cfg.Bridge.InstallDirectory
	if base == "" {
		defaultBase, err := platform.InstallBase()
		if err != nil {
			return err
		}
		base = defaultBase
	}
	c.installPath = filepath.Join(base, c.v.kind(), c.v.installDirName(version))
	slog.Debug("Bridge CLI directory", "path", c.installPath)

	if c.cfg.Network.AirGap && c.cfg.Bridge.DownloadURL == "" {
		exe := filepath.Join(c.installPath, c.plat.ExecutableName(engineFile))
		if _, err := os.Stat(exe); err != nil {
			return &ExecutableNotFoundError{InstallPath: c.installPath}
		}
	}
	return nil
}

// download fetches the archive into tempDir, translating a 404 into the
// platform-mismatch error the user can act on.
func (c *Client) download(ctx context.Context, tempDir, assetURL string) (string, error) {
	name := path.Base(assetURL)
	dest := filepath.Join(tempDir, name)
	if err := c.http.Download(ctx, assetURL, dest); err != nil {
		var nfe *transport.NotFoundError
		if errors.As(err, &nfe) {
			return "", fmt.Errorf("Provided Bridge CLI url is not valid for the configured %s runner", c.plat.RunnerOS())
		}
		return "", err
	}
	return dest, nil
}

func (c *Client) fetchManifest(ctx context.Context, manifestURL string) (string, error) {
	res, err := c.http.Get(ctx, manifestURL, map[string]string{"Accept": "text/html"})
	if err != nil {
		return "", err
	}
	if res.Status != 200 {
		return "", &transport.StatusError{StatusCode: res.Status, URL: manifestURL}
	}
	return string(res.Body), nil
}

// availableVersions lists the version folders published for this variant.
func (c *Client) availableVersions(ctx context.Context) ([]string, error) {
	listURL := RepositoryBaseURL + c.v.kind() + "/"
	res, err := c.http.Get(ctx, listURL, map[string]string{"Accept": "text/html"})
	if err != nil {
		return nil, err
	}
	if res.Status != 200 {
		return nil, &transport.StatusError{StatusCode: res.Status, URL: listURL}
	}
	return parseVersionList(string(res.Body)), nil
}
