package models

// SarifReport is the subset of a SARIF document the publisher reads:
// per-run tool rules and results.
type SarifReport struct {
	Runs []SarifRun `json:"runs"`
}

type SarifRun struct {
	Tool    SarifTool     `json:"tool"`
	Results []SarifResult `json:"results"`
}

type SarifTool struct {
	Driver SarifDriver `json:"driver"`
}

type SarifDriver struct {
	Name  string      `json:"name"`
	Rules []SarifRule `json:"rules,omitempty"`
}

type SarifRule struct {
	ID               string               `json:"id"`
	ShortDescription *SarifMessage        `json:"shortDescription,omitempty"`
	FullDescription  *SarifMessage        `json:"fullDescription,omitempty"`
	Help             *SarifHelp           `json:"help,omitempty"`
	Properties       *SarifRuleProperties `json:"properties,omitempty"`
}

type SarifHelp struct {
	Text     string `json:"text,omitempty"`
	Markdown string `json:"markdown,omitempty"`
}

type SarifRuleProperties struct {
	SecuritySeverity string `json:"security-severity,omitempty"`
}

type SarifResult struct {
	RuleID    string          `json:"ruleId"`
	Message   SarifMessage    `json:"message"`
	Locations []SarifLocation `json:"locations,omitempty"`
}

type SarifMessage struct {
	Text string `json:"text"`
}

type SarifLocation struct {
	PhysicalLocation SarifPhysicalLocation `json:"physicalLocation"`
}

type SarifPhysicalLocation struct {
	ArtifactLocation SarifArtifactLocation `json:"artifactLocation"`
	Region           SarifRegion           `json:"region"`
}

type SarifArtifactLocation struct {
	URI string `json:"uri"`
}

type SarifRegion struct {
	StartLine int `json:"startLine"`
}

// RulesByID indexes the driver's rules for result lookup.
func (d SarifDriver) RulesByID() map[string]SarifRule {
	rules := make(map[string]SarifRule, len(d.Rules))
	for _, r := range d.Rules {
		rules[r.ID] = r
	}
	return rules
}
