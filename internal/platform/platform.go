package platform

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"

	goversion "github.com/hashicorp/go-version"
)

// Asset name tokens used in the artifact repository layout.
const (
	TokenWindows  = "win64"
	TokenLinux    = "linux64"
	TokenLinuxARM = "linux_arm"
	TokenMac      = "macosx"
	TokenMacARM   = "macos_arm"
)

// Minimum engine versions that ship ARM assets.
const (
	MinMacARMVersion   = "2.1.0"
	MinLinuxARMVersion = "3.5.1"
)

// DefaultInstallDir is the well-known cache subtree under the user's home.
const DefaultInstallDir = ".blackduck/integrations"

// Platform identifies the host OS and CPU architecture.
type Platform struct {
	OS   string // darwin, linux, windows
	Arch string // amd64, arm64
}

// Detect returns the platform of the current process.
func Detect() Platform {
	return Platform{OS: runtime.GOOS, Arch: runtime.GOARCH}
}

// RunnerOS returns the CI host's name for the OS, used in user-facing errors.
func (p Platform) RunnerOS() string {
	switch p.OS {
	case "darwin":
		return "macOS"
	case "windows":
		return "Windows"
	default:
		return "Linux"
	}
}

// IsWindows reports whether the platform needs the .exe executable suffix.
func (p Platform) IsWindows() bool {
	return p.OS == "windows"
}

// ExecutableName appends the platform-specific suffix to an executable base name.
func (p Platform) ExecutableName(base string) string {
	if p.IsWindows() {
		return base + ".exe"
	}
	return base
}

// AssetToken returns the repository asset token for the given engine version.
// ARM tokens are only selected when the version meets the per-OS minimum;
// older versions fall back to the x64 asset.
func (p Platform) AssetToken(engineVersion string) string {
	switch p.OS {
	case "darwin":
		return p.selectToken(engineVersion, MinMacARMVersion, TokenMacARM, TokenMac)
	case "windows":
		return TokenWindows
	default:
		return p.selectToken(engineVersion, MinLinuxARMVersion, TokenLinuxARM, TokenLinux)
	}
}

func (p Platform) selectToken(engineVersion, minVersion, armToken, defaultToken string) string {
	if p.Arch != "arm64" {
		return defaultToken
	}
	if !versionAtLeast(engineVersion, minVersion) {
		slog.Info("Engine version below minimum ARM support requirement, defaulting to x64 asset",
			"version", engineVersion, "minimum", minVersion, "platform", defaultToken)
		return defaultToken
	}
	return armToken
}

// versionAtLeast reports v >= min. Unparseable versions count as too old.
func versionAtLeast(v, min string) bool {
	parsed, err := goversion.NewVersion(v)
	if err != nil {
		return false
	}
	threshold, err := goversion.NewVersion(min)
	if err != nil {
		return false
	}
	return parsed.GreaterThanOrEqual(threshold)
}

// InstallBase returns the default engine install base under the user's home.
func InstallBase() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(home, filepath.FromSlash(DefaultInstallDir)), nil
}
