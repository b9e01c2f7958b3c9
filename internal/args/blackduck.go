package args

import (
	"log/slog"

	"github.com/CosmoTheDev/bridgectl/models"
)

const (
	blackDuckStage     = "blackducksca"
	blackDuckStateFile = "bd_input.json"
)

func (b *Builder) blackDuck() product {
	cfg := b.cfg.BlackDuck
	return product{
		name:   "blackducksca",
		active: cfg.URL != "",
		validate: func() []string {
			var missing []string
			if cfg.Token == "" {
				missing = append(missing, "blackducksca_token")
			}
			return missing
		},
		emit: b.emitBlackDuck,
	}
}

func (b *Builder) emitBlackDuck() (Fragment, error) {
	cfg := b.cfg.BlackDuck
	gh := b.cfg.GitHub

	data := &models.BlackDuckSCAData{URL: cfg.URL, Token: cfg.Token}
	if cfg.ScanFull || len(cfg.ScanFailureSeverities) > 0 {
		scan := &models.BlackDuckScan{}
		if cfg.ScanFull {
			scan.Full = boolPtr(true)
		}
		if len(cfg.ScanFailureSeverities) > 0 {
			scan.Failure = &models.ScanFailure{Severities: cfg.ScanFailureSeverities}
		}
		data.Scan = scan
	}
	if cfg.WaitForScan {
		data.WaitForScan = boolPtr(true)
	}

	state := models.StateData{BlackDuckSCA: data, Bridge: b.telemetry(), Network: b.networkData()}

	if cfg.PRComment {
		if gh.IsPullRequestEvent() {
			data.PRComment = &models.PRComment{Enabled: true}
			state.GitHub = b.githubData()
		} else {
			slog.Info("blackducksca_prcomment_enabled is ignored for non pull request events")
		}
	}

	if cfg.FixPREnabled {
		if gh.IsPullRequestEvent() {
			fixpr := &models.FixPR{Enabled: true, MaxCount: cfg.FixPRMaxCount}
			if cfg.FixPRCreateSinglePR {
				fixpr.CreateSinglePR = boolPtr(true)
			}
			if cfg.FixPRUpgradeGuidance {
				fixpr.UseUpgradeGuidance = boolPtr(true)
			}
			if len(cfg.FixPRFilterSeverities) > 0 {
				fixpr.Filter = &models.SeverityFilter{Severities: cfg.FixPRFilterSeverities}
			}
			data.FixPR = fixpr
			state.GitHub = b.githubData()
		} else {
			slog.Info("blackducksca_fixpr_enabled is ignored for non pull request events")
		}
	}

	if cfg.SarifCreate {
		if gh.IsPullRequestEvent() {
			slog.Info("blackducksca_reports_sarif_create is ignored for pull request events")
		} else {
			sarif := &models.SarifReportConfig{Create: true}
			if cfg.SarifFilePath != "" {
				sarif.File = &models.FileRef{Path: cfg.SarifFilePath}
			}
			data.Reports = &models.Reports{Sarif: sarif}
		}
	}

	path, err := b.writeStateFile(blackDuckStateFile, state)
	if err != nil {
		return Fragment{}, err
	}
	return Fragment{Stage: blackDuckStage, StateFile: path, WorkflowVersion: cfg.WorkflowVersion}, nil
}
