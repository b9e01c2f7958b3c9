package bridge

import (
	"regexp"
	"strings"
)

// RepositoryBaseURL is the public artifact repository the engine ships
// from. A variable so tests can point it at a local server.
var RepositoryBaseURL = "https://repo.blackduck.com/bds-integrations-release/com/blackduck/integration/bridge/binaries/"

// manifestName is the colon-delimited version manifest shipped alongside
// every engine release.
const manifestName = "versions.txt"

// versionLinkPattern matches version folder names in the repository's
// directory listing.
var versionLinkPattern = regexp.MustCompile(`>([0-9]+\.[0-9]+\.[0-9]+)[^<]*<`)

// parseManifestVersion extracts the version for name from "name: version"
// manifest lines. Returns "" when the name is absent.
func parseManifestVersion(content, name string) string {
	for _, line := range strings.Split(content, "\n") {
		if !strings.Contains(line, name) {
			continue
		}
		if _, version, ok := strings.Cut(line, ":"); ok {
			return strings.TrimSpace(version)
		}
	}
	return ""
}

// parseVersionList extracts version folder names from a repository
// directory-listing page, in document order.
func parseVersionList(html string) []string {
	var versions []string
	for _, m := range versionLinkPattern.FindAllStringSubmatch(html, -1) {
		versions = append(versions, m[1])
	}
	return versions
}

// siblingManifestURL replaces the final path segment of an asset URL with
// the manifest name, yielding the versions.txt next to the asset.
func siblingManifestURL(assetURL string) string {
	if i := strings.LastIndex(assetURL, "/"); i >= 0 {
		return assetURL[:i+1] + manifestName
	}
	return assetURL
}
