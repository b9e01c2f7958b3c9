package config

import (
	"testing"
)

func TestLoadBindsCanonicalKeys(t *testing.T) {
	t.Setenv("POLARIS_SERVER_URL", "https://polaris.example.com")
	t.Setenv("POLARIS_ACCESS_TOKEN", "tok")
	t.Setenv("POLARIS_ASSESSMENT_TYPES", `["SAST","SCA"]`)
	t.Setenv("THIN_CLIENT_ENABLED", "true")
	t.Setenv("BLACKDUCKSCA_FIXPR_MAXCOUNT", "5")

	cfg := Load()

	if cfg.Polaris.ServerURL != "https://polaris.example.com" {
		t.Errorf("ServerURL = %q", cfg.Polaris.ServerURL)
	}
	if cfg.Polaris.AccessToken != "tok" {
		t.Errorf("AccessToken = %q", cfg.Polaris.AccessToken)
	}
	if len(cfg.Polaris.AssessmentTypes) != 2 || cfg.Polaris.AssessmentTypes[0] != "SAST" {
		t.Errorf("AssessmentTypes = %v", cfg.Polaris.AssessmentTypes)
	}
	if !cfg.Bridge.ThinClient {
		t.Error("ThinClient should be true")
	}
	if cfg.BlackDuck.FixPRMaxCount != 5 {
		t.Errorf("FixPRMaxCount = %d", cfg.BlackDuck.FixPRMaxCount)
	}
}

func TestLoadDeprecatedAliases(t *testing.T) {
	t.Setenv("BLACKDUCK_URL", "https://bd.example.com")
	t.Setenv("SYNOPSYS_BRIDGE_DOWNLOAD_VERSION", "1.2.3")

	cfg := Load()

	if cfg.BlackDuck.URL != "https://bd.example.com" {
		t.Errorf("deprecated blackduck_url not honoured: %q", cfg.BlackDuck.URL)
	}
	if cfg.Bridge.DownloadVersion != "1.2.3" {
		t.Errorf("deprecated download version not honoured: %q", cfg.Bridge.DownloadVersion)
	}
}

func TestLoadCanonicalWinsOverAlias(t *testing.T) {
	t.Setenv("BLACKDUCK_URL", "https://old.example.com")
	t.Setenv("BLACKDUCKSCA_URL", "https://new.example.com")

	cfg := Load()

	if cfg.BlackDuck.URL != "https://new.example.com" {
		t.Errorf("canonical key should win, got %q", cfg.BlackDuck.URL)
	}
}

func TestThinClientDefaultsToBundle(t *testing.T) {
	cfg := Load()
	if cfg.Bridge.ThinClient {
		t.Error("empty thin_client_enabled must select the bundle variant")
	}
}

func TestValidateRejectsConflictingTrustOptions(t *testing.T) {
	t.Setenv("NETWORK_SSL_TRUSTALL", "true")
	t.Setenv("NETWORK_SSL_CERT_FILE", "/etc/ssl/custom.pem")

	cfg := Load()
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected mutually exclusive trust options to be rejected")
	}

	t.Setenv("NETWORK_SSL_CERT_FILE", "")
	cfg = Load()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("trustAll alone should validate: %v", err)
	}
}

func TestBooleanParsing(t *testing.T) {
	t.Setenv("INCLUDE_DIAGNOSTICS", "TRUE")
	t.Setenv("RETURN_STATUS", "yes")

	cfg := Load()
	if !cfg.Diagnostics.Include {
		t.Error("case-insensitive true should parse")
	}
	if cfg.ReturnStatus {
		t.Error("non-true values must parse as false")
	}
}

func TestGitHubHelpers(t *testing.T) {
	g := GitHubConfig{
		Repository: "octo-org/widgets",
		ServerURL:  "https://github.com",
		EventName:  "pull_request",
	}
	if g.RepoName() != "widgets" {
		t.Errorf("RepoName = %q", g.RepoName())
	}
	if !g.IsCloud() {
		t.Error("IsCloud should be true for github.com")
	}
	if !g.IsPullRequestEvent() {
		t.Error("IsPullRequestEvent should be true")
	}
}
