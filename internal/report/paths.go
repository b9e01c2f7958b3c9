package report

import (
	"path/filepath"

	goversion "github.com/hashicorp/go-version"
)

// sarifReportName is the engine's default SARIF output file name.
const sarifReportName = "report.sarif.json"

// legacyReportDir is the engine's pre-3.5.0 output directory under the
// workspace; newer engines write under the integrations subtree.
const legacyReportDir = ".bridge"

// Engine versions below this use the legacy SARIF directory convention.
var integrationsMinVersion = goversion.Must(goversion.NewVersion("3.5.0"))

// Per-product SARIF generator directory names (legacy layout).
const (
	legacyPolarisSarifDir   = "Polaris SARIF Generator"
	legacyBlackDuckSarifDir = "Blackduck SCA SARIF Generator"
)

// DefaultSarifPath returns the engine's default SARIF report path for a
// product, relative to the workspace, for the given engine version.
// Unknown versions use the integrations layout.
func DefaultSarifPath(product, engineVersion string) string {
	if usesLegacyLayout(engineVersion) {
		dir := legacyPolarisSarifDir
		if product == "blackducksca" {
			dir = legacyBlackDuckSarifDir
		}
		return filepath.Join(legacyReportDir, dir, sarifReportName)
	}
	return filepath.Join(".blackduck", "integrations", product, "sarif", sarifReportName)
}

// usesLegacyLayout reports whether the engine predates the integrations
// directory convention. An unknown or unparseable version is treated as
// current.
func usesLegacyLayout(engineVersion string) bool {
	v, err := goversion.NewVersion(engineVersion)
	if err != nil {
		return false
	}
	return v.LessThan(integrationsMinVersion)
}
