package config

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/viper"
)

// Canonical input keys. Deprecated spellings are accepted as aliases; the
// canonical key wins when both are set.
const (
	KeyInstallDirectory = "bridgecli_install_directory"
	KeyDownloadURL      = "bridgecli_download_url"
	KeyDownloadVersion  = "bridgecli_download_version"
	KeyThinClient       = "thin_client_enabled"
	KeyDisableUpdate    = "bridge_workflow_disable_update"
	KeyRegisterURL      = "register_url"

	KeyNetworkAirGap   = "network_airgap"
	KeySSLCertFile     = "network_ssl_cert_file"
	KeySSLTrustAll     = "network_ssl_trustall"
	KeyIncludeDiag     = "include_diagnostics"
	KeyDiagRetention   = "diagnostics_retention_days"
	KeyReturnStatus    = "return_status"
	KeyMarkBuildStatus = "mark_build_status"

	KeyGithubToken   = "github_token"
	KeyGithubHostURL = "github_host_url"
)

var deprecatedAliases = map[string][]string{
	KeyInstallDirectory: {"synopsys_bridge_install_directory"},
	KeyDownloadURL:      {"synopsys_bridge_download_url"},
	KeyDownloadVersion:  {"synopsys_bridge_download_version"},
	KeyNetworkAirGap:    {"bridge_network_airgap"},

	"polaris_server_url":   {"polaris_serverurl"},
	"polaris_access_token": {"polaris_accesstoken"},

	"coverity_prcomment_enabled": {"coverity_automation_prcomment"},

	"blackducksca_url":                      {"blackduck_url"},
	"blackducksca_token":                    {"blackduck_token"},
	"blackducksca_scan_full":                {"blackduck_scan_full"},
	"blackducksca_scan_failure_severities":  {"blackduck_scan_failure_severities"},
	"blackducksca_fixpr_enabled":            {"blackduck_fixpr_enabled"},
	"blackducksca_fixpr_maxcount":           {"blackduck_fixpr_maxcount"},
	"blackducksca_fixpr_createsinglepr":     {"blackduck_fixpr_createsinglepr"},
	"blackducksca_fixpr_filter_severities":  {"blackduck_fixpr_filter_severities"},
	"blackducksca_fixpr_useupgradeguidance": {"blackduck_fixpr_useupgradeguidance"},
	"blackducksca_prcomment_enabled":        {"blackduck_prcomment_enabled"},
	"blackducksca_reports_sarif_create":     {"blackduck_reports_sarif_create"},
	"blackducksca_reports_sarif_file_path":  {"blackduck_reports_sarif_file_path"},
	"blackducksca_upload_sarif_report":      {"blackduck_upload_sarif_report"},
	"blackducksca_waitforscan":              {"blackduck_waitforscan"},
}

// Load binds the run configuration from the environment-like key surface.
func Load() *Config {
	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return bind(v)
}

func bind(v *viper.Viper) *Config {
	cfg := &Config{
		Bridge: BridgeConfig{
			InstallDirectory: getString(v, KeyInstallDirectory),
			DownloadURL:      getString(v, KeyDownloadURL),
			DownloadVersion:  strings.TrimSpace(getString(v, KeyDownloadVersion)),
			ThinClient:       getBool(v, KeyThinClient),
			DisableUpdate:    getBool(v, KeyDisableUpdate),
			RegisterURL:      getString(v, KeyRegisterURL),
		},
		Network: NetworkConfig{
			AirGap:      getBool(v, KeyNetworkAirGap),
			SSLCertFile: strings.TrimSpace(getString(v, KeySSLCertFile)),
			SSLTrustAll: getBool(v, KeySSLTrustAll),
		},
		Diagnostics: DiagnosticsConfig{
			Include:       getBool(v, KeyIncludeDiag),
			RetentionDays: getString(v, KeyDiagRetention),
		},
		Polaris: PolarisConfig{
			ServerURL:           getString(v, "polaris_server_url"),
			AccessToken:         getString(v, "polaris_access_token"),
			ApplicationName:     getString(v, "polaris_application_name"),
			ProjectName:         getString(v, "polaris_project_name"),
			AssessmentTypes:     getList(v, "polaris_assessment_types"),
			BranchName:          getString(v, "polaris_branch_name"),
			BranchParentName:    getString(v, "polaris_branch_parent_name"),
			PRComment:           getBool(v, "polaris_prcomment_enabled"),
			PRCommentSeverities: getList(v, "polaris_prcomment_severities"),
			SarifCreate:         getBool(v, "polaris_reports_sarif_create"),
			SarifFilePath:       getString(v, "polaris_reports_sarif_file_path"),
			UploadSarif:         getBool(v, "polaris_upload_sarif_report"),
			WaitForScan:         getBool(v, "polaris_waitforscan"),
			WorkflowVersion:     getString(v, "polaris_workflow_version"),
		},
		Coverity: CoverityConfig{
			URL:              getString(v, "coverity_url"),
			User:             getString(v, "coverity_user"),
			Passphrase:       getString(v, "coverity_passphrase"),
			ProjectName:      getString(v, "coverity_project_name"),
			StreamName:       getString(v, "coverity_stream_name"),
			InstallDirectory: getString(v, "coverity_install_directory"),
			PolicyView:       getString(v, "coverity_policy_view"),
			Version:          getString(v, "coverity_version"),
			Local:            getBool(v, "coverity_local"),
			PRComment:        getBool(v, "coverity_prcomment_enabled"),
			WaitForScan:      getBool(v, "coverity_waitforscan"),
			WorkflowVersion:  getString(v, "coverity_workflow_version"),
		},
		BlackDuck: BlackDuckConfig{
			URL:                   getString(v, "blackducksca_url"),
			Token:                 getString(v, "blackducksca_token"),
			ScanFull:              getBool(v, "blackducksca_scan_full"),
			ScanFailureSeverities: getList(v, "blackducksca_scan_failure_severities"),
			FixPREnabled:          getBool(v, "blackducksca_fixpr_enabled"),
			FixPRMaxCount:         getInt(v, "blackducksca_fixpr_maxcount"),
			FixPRCreateSinglePR:   getBool(v, "blackducksca_fixpr_createsinglepr"),
			FixPRFilterSeverities: getList(v, "blackducksca_fixpr_filter_severities"),
			FixPRUpgradeGuidance:  getBool(v, "blackducksca_fixpr_useupgradeguidance"),
			PRComment:             getBool(v, "blackducksca_prcomment_enabled"),
			SarifCreate:           getBool(v, "blackducksca_reports_sarif_create"),
			SarifFilePath:         getString(v, "blackducksca_reports_sarif_file_path"),
			UploadSarif:           getBool(v, "blackducksca_upload_sarif_report"),
			WaitForScan:           getBool(v, "blackducksca_waitforscan"),
			WorkflowVersion:       getString(v, "blackducksca_workflow_version"),
		},
		SRM: SRMConfig{
			URL:             getString(v, "srm_url"),
			APIKey:          getString(v, "srm_apikey"),
			AssessmentTypes: getList(v, "srm_assessment_types"),
			ProjectName:     getString(v, "srm_project_name"),
			ProjectID:       getString(v, "srm_project_id"),
			BranchName:      getString(v, "srm_branch_name"),
			BranchParent:    getString(v, "srm_branch_parent"),
			WaitForScan:     getBool(v, "srm_waitforscan"),
			WorkflowVersion: getString(v, "srm_workflow_version"),
		},
		GitHub: GitHubConfig{
			Token:           getString(v, KeyGithubToken),
			HostURL:         getString(v, KeyGithubHostURL),
			Repository:      getString(v, "github_repository"),
			RepositoryOwner: getString(v, "github_repository_owner"),
			Ref:             getString(v, "github_ref"),
			SHA:             getString(v, "github_sha"),
			APIURL:          getString(v, "github_api_url"),
			ServerURL:       getString(v, "github_server_url"),
			EventName:       getString(v, "github_event_name"),
			Workspace:       getString(v, "github_workspace"),
		},
		ReturnStatus:    getBool(v, KeyReturnStatus),
		MarkBuildStatus: strings.ToLower(strings.TrimSpace(getString(v, KeyMarkBuildStatus))),
	}
	return cfg
}

// Validate rejects configurations that must fail before any network I/O.
func (c *Config) Validate() error {
	if c.Network.SSLTrustAll && c.Network.SSLCertFile != "" {
		return fmt.Errorf(`both %q and %q are set; only one of these may be set at a time`,
			KeySSLCertFile, KeySSLTrustAll)
	}
	return nil
}

// getString resolves key, falling back to its deprecated aliases.
func getString(v *viper.Viper, key string) string {
	if s := v.GetString(key); s != "" {
		return s
	}
	for _, alias := range deprecatedAliases[key] {
		if s := v.GetString(alias); s != "" {
			return s
		}
	}
	return ""
}

// getBool treats only a case-insensitive "true" as true; anything else,
// including an unset key, is false.
func getBool(v *viper.Viper, key string) bool {
	return strings.EqualFold(strings.TrimSpace(getString(v, key)), "true")
}

func getInt(v *viper.Viper, key string) int {
	n, err := strconv.Atoi(strings.TrimSpace(getString(v, key)))
	if err != nil {
		return 0
	}
	return n
}

// getList parses a comma-separated list, tolerating JSON-style brackets and
// quotes around elements.
func getList(v *viper.Viper, key string) []string {
	raw := strings.TrimSpace(getString(v, key))
	raw = strings.TrimPrefix(raw, "[")
	raw = strings.TrimSuffix(raw, "]")
	if raw == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		part = strings.Trim(strings.TrimSpace(part), `"'`)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}
