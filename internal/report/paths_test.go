package report

import (
	"path/filepath"
	"testing"
)

func TestDefaultSarifPath(t *testing.T) {
	legacy := DefaultSarifPath("polaris", "3.4.9")
	if legacy != filepath.Join(".bridge", "Polaris SARIF Generator", "report.sarif.json") {
		t.Errorf("legacy polaris path = %q", legacy)
	}
	legacyBD := DefaultSarifPath("blackducksca", "1.0.0")
	if legacyBD != filepath.Join(".bridge", "Blackduck SCA SARIF Generator", "report.sarif.json") {
		t.Errorf("legacy blackduck path = %q", legacyBD)
	}

	if got := DefaultSarifPath("polaris", "3.10.0"); got != filepath.Join(".blackduck", "integrations", "polaris", "sarif", "report.sarif.json") {
		t.Errorf("3.10.0 must compare numerically, got %q", got)
	}

	current := DefaultSarifPath("polaris", "3.5.0")
	if current != filepath.Join(".blackduck", "integrations", "polaris", "sarif", "report.sarif.json") {
		t.Errorf("integrations path = %q", current)
	}
	if DefaultSarifPath("blackducksca", "") != filepath.Join(".blackduck", "integrations", "blackducksca", "sarif", "report.sarif.json") {
		t.Error("unknown engine version must use the integrations layout")
	}
}
