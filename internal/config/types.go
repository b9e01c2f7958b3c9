package config

// Config is the immutable input surface for one run, bound once at entry.
type Config struct {
	Bridge      BridgeConfig
	Network     NetworkConfig
	Diagnostics DiagnosticsConfig
	Polaris     PolarisConfig
	Coverity    CoverityConfig
	BlackDuck   BlackDuckConfig
	SRM         SRMConfig
	GitHub      GitHubConfig

	ReturnStatus    bool
	MarkBuildStatus string
}

// BridgeConfig controls engine variant selection and provisioning.
type BridgeConfig struct {
	InstallDirectory string
	DownloadURL      string
	DownloadVersion  string
	ThinClient       bool
	DisableUpdate    bool
	RegisterURL      string
}

type NetworkConfig struct {
	AirGap      bool
	SSLCertFile string
	SSLTrustAll bool
}

type DiagnosticsConfig struct {
	Include       bool
	RetentionDays string
}

type PolarisConfig struct {
	ServerURL           string
	AccessToken         string
	ApplicationName     string
	ProjectName         string
	AssessmentTypes     []string
	BranchName          string
	BranchParentName    string
	PRComment           bool
	PRCommentSeverities []string
	SarifCreate         bool
	SarifFilePath       string
	UploadSarif         bool
	WaitForScan         bool
	WorkflowVersion     string
}

type CoverityConfig struct {
	URL              string
	User             string
	Passphrase       string
	ProjectName      string
	StreamName       string
	InstallDirectory string
	PolicyView       string
	Version          string
	Local            bool
	PRComment        bool
	WaitForScan      bool
	WorkflowVersion  string
}

type BlackDuckConfig struct {
	URL                   string
	Token                 string
	ScanFull              bool
	ScanFailureSeverities []string
	FixPREnabled          bool
	FixPRMaxCount         int
	FixPRCreateSinglePR   bool
	FixPRFilterSeverities []string
	FixPRUpgradeGuidance  bool
	PRComment             bool
	SarifCreate           bool
	SarifFilePath         string
	UploadSarif           bool
	WaitForScan           bool
	WorkflowVersion       string
}

type SRMConfig struct {
	URL             string
	APIKey          string
	AssessmentTypes []string
	ProjectName     string
	ProjectID       string
	BranchName      string
	BranchParent    string
	WaitForScan     bool
	WorkflowVersion string
}

// GitHubConfig is the host context bound from the runner's environment.
type GitHubConfig struct {
	Token           string
	HostURL         string
	Repository      string // owner/name as provided by the runner
	RepositoryOwner string
	Ref             string
	SHA             string
	APIURL          string
	ServerURL       string
	EventName       string
	Workspace       string
}

// RepoName returns the repository name without its owner prefix.
func (g GitHubConfig) RepoName() string {
	for i := 0; i < len(g.Repository); i++ {
		if g.Repository[i] == '/' {
			return g.Repository[i+1:]
		}
	}
	return g.Repository
}

// IsPullRequestEvent reports whether the run was triggered by a pull request.
func (g GitHubConfig) IsPullRequestEvent() bool {
	return g.EventName == "pull_request"
}

// IsCloud reports whether the host is github.com rather than an enterprise server.
func (g GitHubConfig) IsCloud() bool {
	return g.ServerURL == "https://github.com"
}
