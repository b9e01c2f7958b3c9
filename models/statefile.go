package models

// StateFile is the JSON document handed to the engine as its structured
// input, one file per active product. The root is always {"data": {...}}.
type StateFile struct {
	Data StateData `json:"data"`
}

// StateData carries exactly one product payload plus shared context.
type StateData struct {
	Polaris      *PolarisData      `json:"polaris,omitempty"`
	Coverity     *CoverityData     `json:"coverity,omitempty"`
	BlackDuckSCA *BlackDuckSCAData `json:"blackducksca,omitempty"`
	SRM          *SRMData          `json:"srm,omitempty"`
	Project      *ProjectData      `json:"project,omitempty"`
	GitHub       *GitHubData       `json:"github,omitempty"`
	Network      *NetworkData      `json:"network,omitempty"`
	Bridge       *BridgeTelemetry  `json:"bridge,omitempty"`
}

type PolarisData struct {
	AccessToken string          `json:"accesstoken"`
	ServerURL   string          `json:"serverUrl"`
	Application NamedEntity     `json:"application"`
	Project     NamedEntity     `json:"project"`
	Branch      *Branch         `json:"branch,omitempty"`
	Assessment  AssessmentTypes `json:"assessment"`
	PRComment   *PRComment      `json:"prComment,omitempty"`
	Reports     *Reports        `json:"reports,omitempty"`
	WaitForScan *bool           `json:"waitForScan,omitempty"`
}

type CoverityData struct {
	Connect     CoverityConnect `json:"connect"`
	Install     *DirectoryRef   `json:"install,omitempty"`
	Version     string          `json:"version,omitempty"`
	Local       *bool           `json:"local,omitempty"`
	PRComment   *PRComment      `json:"prComment,omitempty"`
	WaitForScan *bool           `json:"waitForScan,omitempty"`
}

type CoverityConnect struct {
	URL     string       `json:"url"`
	User    CoverityUser `json:"user"`
	Project NamedEntity  `json:"project"`
	Stream  NamedEntity  `json:"stream"`
	Policy  *PolicyView  `json:"policy,omitempty"`
}

type CoverityUser struct {
	Name     string `json:"name"`
	Password string `json:"password"`
}

type PolicyView struct {
	View string `json:"view,omitempty"`
}

type BlackDuckSCAData struct {
	URL         string         `json:"url"`
	Token       string         `json:"token"`
	Scan        *BlackDuckScan `json:"scan,omitempty"`
	FixPR       *FixPR         `json:"fixpr,omitempty"`
	PRComment   *PRComment     `json:"prComment,omitempty"`
	Reports     *Reports       `json:"reports,omitempty"`
	WaitForScan *bool          `json:"waitForScan,omitempty"`
}

type BlackDuckScan struct {
	Full    *bool        `json:"full,omitempty"`
	Failure *ScanFailure `json:"failure,omitempty"`
}

type ScanFailure struct {
	Severities []string `json:"severities,omitempty"`
}

type FixPR struct {
	Enabled            bool            `json:"enabled"`
	MaxCount           int             `json:"maxCount,omitempty"`
	CreateSinglePR     *bool           `json:"createSinglePR,omitempty"`
	UseUpgradeGuidance *bool           `json:"useUpgradeGuidance,omitempty"`
	Filter             *SeverityFilter `json:"filter,omitempty"`
}

type SeverityFilter struct {
	Severities []string `json:"severities,omitempty"`
}

type SRMData struct {
	URL         string          `json:"url"`
	APIKey      string          `json:"apikey"`
	Project     *SRMProject     `json:"project,omitempty"`
	Assessment  AssessmentTypes `json:"assessment"`
	Branch      *SRMBranch      `json:"branch,omitempty"`
	WaitForScan *bool           `json:"waitForScan,omitempty"`
}

type SRMProject struct {
	ID   string `json:"id,omitempty"`
	Name string `json:"name,omitempty"`
}

type SRMBranch struct {
	Name   string `json:"name,omitempty"`
	Parent string `json:"parent,omitempty"`
}

type NamedEntity struct {
	Name string `json:"name"`
}

type Branch struct {
	Name   string       `json:"name,omitempty"`
	Parent *NamedEntity `json:"parent,omitempty"`
}

type AssessmentTypes struct {
	Types []string `json:"types"`
}

type PRComment struct {
	Enabled    bool     `json:"enabled"`
	Severities []string `json:"severities,omitempty"`
}

type Reports struct {
	Sarif *SarifReportConfig `json:"sarif,omitempty"`
}

type SarifReportConfig struct {
	Create         bool     `json:"create"`
	File           *FileRef `json:"file,omitempty"`
	Severities     []string `json:"severities,omitempty"`
	IssueTypes     []string `json:"issue,omitempty"`
	GroupSCAIssues *bool    `json:"groupSCAIssues,omitempty"`
}

type FileRef struct {
	Path string `json:"path,omitempty"`
}

type DirectoryRef struct {
	Directory string `json:"directory,omitempty"`
}

type ProjectData struct {
	Directory string         `json:"directory,omitempty"`
	Source    *ProjectSource `json:"source,omitempty"`
}

type ProjectSource struct {
	Archive          string   `json:"archive,omitempty"`
	PreserveSymLinks *bool    `json:"preserveSymLinks,omitempty"`
	Excludes         []string `json:"excludes,omitempty"`
}

type GitHubData struct {
	User       GitHubUser       `json:"user"`
	Repository GitHubRepository `json:"repository"`
	Host       *GitHubHost      `json:"host,omitempty"`
}

type GitHubUser struct {
	Token string `json:"token"`
}

type GitHubRepository struct {
	Name   string       `json:"name"`
	Owner  NamedEntity  `json:"owner"`
	Branch *NamedEntity `json:"branch,omitempty"`
	Pull   *GitHubPull  `json:"pull,omitempty"`
}

type GitHubPull struct {
	Number int `json:"number,omitempty"`
}

type GitHubHost struct {
	URL string `json:"url,omitempty"`
}

type NetworkData struct {
	AirGap *bool       `json:"airGap,omitempty"`
	SSL    *NetworkSSL `json:"ssl,omitempty"`
}

type NetworkSSL struct {
	Cert     *FileRef `json:"cert,omitempty"`
	TrustAll *bool    `json:"trustAll,omitempty"`
}

// BridgeTelemetry identifies the integration flavour to the engine.
type BridgeTelemetry struct {
	Invoked InvokedFrom `json:"invoked"`
}

type InvokedFrom struct {
	From string `json:"from"`
}
