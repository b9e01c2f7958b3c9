package args

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/CosmoTheDev/bridgectl/internal/config"
	"github.com/CosmoTheDev/bridgectl/models"
)

func githubPush() config.GitHubConfig {
	return config.GitHubConfig{
		Token:           "gh-tok",
		Repository:      "octo-org/widgets",
		RepositoryOwner: "octo-org",
		Ref:             "refs/heads/main",
		ServerURL:       "https://github.com",
		EventName:       "push",
	}
}

func githubPR() config.GitHubConfig {
	gh := githubPush()
	gh.Ref = "refs/pull/42/merge"
	gh.EventName = "pull_request"
	return gh
}

func TestBuildRequiresOneActiveProduct(t *testing.T) {
	cfg := &config.Config{GitHub: githubPush()}
	_, err := NewBuilder(cfg, t.TempDir(), false).Build()
	if err == nil || !strings.Contains(err.Error(), "at least one scan type") {
		t.Fatalf("expected no-active-product error, got %v", err)
	}
}

func TestBuildReportsMissingRequiredFields(t *testing.T) {
	cfg := &config.Config{
		GitHub:  githubPush(),
		Polaris: config.PolarisConfig{ServerURL: "https://p.example"},
	}
	_, err := NewBuilder(cfg, t.TempDir(), false).Build()
	if err == nil {
		t.Fatal("expected validation error")
	}
	for _, want := range []string{"polaris_access_token", "polaris_assessment_types", "required parameters for polaris"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %q missing %q", err.Error(), want)
		}
	}
}

func TestBuildPolarisCommandAndStateFile(t *testing.T) {
	dir := t.TempDir()
	cfg := &config.Config{
		GitHub: githubPush(),
		Polaris: config.PolarisConfig{
			ServerURL:       "https://p.example",
			AccessToken:     "tok",
			AssessmentTypes: []string{"SAST"},
			SarifCreate:     true,
		},
	}

	cmd, err := NewBuilder(cfg, dir, false).Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	statePath := filepath.Join(dir, "polaris_input.json")
	want := "--stage polaris --input " + statePath
	if cmd != want {
		t.Errorf("cmd = %q, want %q", cmd, want)
	}

	raw, err := os.ReadFile(statePath)
	if err != nil {
		t.Fatalf("reading state file: %v", err)
	}
	var state models.StateFile
	if err := json.Unmarshal(raw, &state); err != nil {
		t.Fatalf("state file is not valid JSON: %v", err)
	}
	p := state.Data.Polaris
	if p == nil {
		t.Fatal("polaris payload missing")
	}
	if p.ServerURL != "https://p.example" || p.AccessToken != "tok" {
		t.Errorf("connection fields: %+v", p)
	}
	if p.Application.Name != "widgets" || p.Project.Name != "widgets" {
		t.Errorf("application/project must default to the repo name: %+v", p)
	}
	if p.Branch == nil || p.Branch.Name != "main" {
		t.Errorf("branch = %+v", p.Branch)
	}
	if p.Reports == nil || p.Reports.Sarif == nil || !p.Reports.Sarif.Create {
		t.Error("sarif report creation must be carried on push events")
	}
	if state.Data.Bridge == nil || state.Data.Bridge.Invoked.From != "Integrations-github-cloud" {
		t.Errorf("telemetry = %+v", state.Data.Bridge)
	}
	if !strings.Contains(string(raw), "\n  ") {
		t.Error("state file must be 2-space indented")
	}
}

func TestSarifSuppressedOnPullRequestEvents(t *testing.T) {
	dir := t.TempDir()
	cfg := &config.Config{
		GitHub: githubPR(),
		BlackDuck: config.BlackDuckConfig{
			URL:         "https://bd.example",
			Token:       "tok",
			SarifCreate: true,
			PRComment:   true,
		},
	}
	if _, err := NewBuilder(cfg, dir, false).Build(); err != nil {
		t.Fatalf("Build: %v", err)
	}

	raw, _ := os.ReadFile(filepath.Join(dir, "bd_input.json"))
	var state models.StateFile
	if err := json.Unmarshal(raw, &state); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	bd := state.Data.BlackDuckSCA
	if bd.Reports != nil {
		t.Error("sarif report config must be suppressed on PR events")
	}
	if bd.PRComment == nil || !bd.PRComment.Enabled {
		t.Error("PR comment must be enabled on PR events")
	}
	if state.Data.GitHub == nil || state.Data.GitHub.Repository.Pull == nil ||
		state.Data.GitHub.Repository.Pull.Number != 42 {
		t.Errorf("github context = %+v", state.Data.GitHub)
	}
}

func TestEnterpriseHostURLOverride(t *testing.T) {
	dir := t.TempDir()
	gh := githubPR()
	gh.ServerURL = "https://ghe.internal.example"
	gh.HostURL = "https://ghe.example.com"
	cfg := &config.Config{
		GitHub:    gh,
		BlackDuck: config.BlackDuckConfig{URL: "https://bd.example", Token: "tok", PRComment: true},
	}
	if _, err := NewBuilder(cfg, dir, false).Build(); err != nil {
		t.Fatalf("Build: %v", err)
	}

	raw, _ := os.ReadFile(filepath.Join(dir, "bd_input.json"))
	var state models.StateFile
	if err := json.Unmarshal(raw, &state); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if state.Data.GitHub == nil || state.Data.GitHub.Host == nil ||
		state.Data.GitHub.Host.URL != "https://ghe.example.com" {
		t.Errorf("github_host_url must override the server URL, got %+v", state.Data.GitHub)
	}
	if state.Data.Bridge == nil || state.Data.Bridge.Invoked.From != "Integrations-github-ee" {
		t.Errorf("telemetry = %+v", state.Data.Bridge)
	}
}

func TestPRCommentSuppressedOnPushEvents(t *testing.T) {
	dir := t.TempDir()
	cfg := &config.Config{
		GitHub: githubPush(),
		Coverity: config.CoverityConfig{
			URL:        "https://cov.example",
			User:       "admin",
			Passphrase: "secret",
			PRComment:  true,
		},
	}
	if _, err := NewBuilder(cfg, dir, false).Build(); err != nil {
		t.Fatalf("Build: %v", err)
	}

	raw, _ := os.ReadFile(filepath.Join(dir, "coverity_input.json"))
	var state models.StateFile
	if err := json.Unmarshal(raw, &state); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	cov := state.Data.Coverity
	if cov.PRComment != nil {
		t.Error("PR comment must be suppressed on push events")
	}
	if cov.Connect.Stream.Name != "widgets-main" {
		t.Errorf("stream = %q", cov.Connect.Stream.Name)
	}
}

func TestWorkflowVersionPinning(t *testing.T) {
	cfg := &config.Config{
		GitHub: githubPush(),
		SRM: config.SRMConfig{
			URL:             "https://srm.example",
			APIKey:          "key",
			AssessmentTypes: []string{"SCA"},
			WorkflowVersion: "2.0.0",
		},
	}

	thinCmd, err := NewBuilder(cfg, t.TempDir(), true).Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if !strings.Contains(thinCmd, "--stage srm@2.0.0") {
		t.Errorf("thin variant must pin the workflow version: %q", thinCmd)
	}

	bundleCmd, err := NewBuilder(cfg, t.TempDir(), false).Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if strings.Contains(bundleCmd, "@") {
		t.Errorf("bundle variant must ignore the workflow version: %q", bundleCmd)
	}
}

func TestThinClientAppendsUpdatePerStage(t *testing.T) {
	cfg := &config.Config{
		GitHub:    githubPush(),
		Polaris:   config.PolarisConfig{ServerURL: "https://p.example", AccessToken: "tok", AssessmentTypes: []string{"SAST"}},
		BlackDuck: config.BlackDuckConfig{URL: "https://bd.example", Token: "tok"},
	}

	thinCmd, err := NewBuilder(cfg, t.TempDir(), true).Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if got := strings.Count(thinCmd, "--update"); got != 2 {
		t.Errorf("each stage fragment needs its own --update, got %d in %q", got, thinCmd)
	}
	if !strings.Contains(thinCmd, "polaris_input.json --update") {
		t.Errorf("--update must follow the fragment it belongs to: %q", thinCmd)
	}

	cfg.Bridge.DisableUpdate = true
	noUpdate, err := NewBuilder(cfg, t.TempDir(), true).Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if strings.Contains(noUpdate, "--update") {
		t.Errorf("disabled updates must drop the flag: %q", noUpdate)
	}

	cfg.Bridge.DisableUpdate = false
	bundleCmd, err := NewBuilder(cfg, t.TempDir(), false).Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if strings.Contains(bundleCmd, "--update") {
		t.Errorf("bundle variant never updates workflows: %q", bundleCmd)
	}
}

func TestDiagnosticsFlagAppended(t *testing.T) {
	cfg := &config.Config{
		GitHub:      githubPush(),
		Diagnostics: config.DiagnosticsConfig{Include: true},
		BlackDuck:   config.BlackDuckConfig{URL: "https://bd.example", Token: "tok"},
	}
	cmd, err := NewBuilder(cfg, t.TempDir(), false).Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if !strings.HasSuffix(cmd, " --diagnostics") {
		t.Errorf("cmd = %q", cmd)
	}
}

func TestPartialFailureContinuesWithValidProducts(t *testing.T) {
	cfg := &config.Config{
		GitHub:    githubPush(),
		Polaris:   config.PolarisConfig{ServerURL: "https://p.example"}, // missing token and types
		BlackDuck: config.BlackDuckConfig{URL: "https://bd.example", Token: "tok"},
	}
	cmd, err := NewBuilder(cfg, t.TempDir(), false).Build()
	if err != nil {
		t.Fatalf("one valid product must carry the run: %v", err)
	}
	if strings.Contains(cmd, "polaris") || !strings.Contains(cmd, "blackducksca") {
		t.Errorf("cmd = %q", cmd)
	}
}
