package args

import (
	"log/slog"

	"github.com/CosmoTheDev/bridgectl/models"
)

const (
	polarisStage     = "polaris"
	polarisStateFile = "polaris_input.json"
)

func (b *Builder) polaris() product {
	cfg := b.cfg.Polaris
	return product{
		name:   "polaris",
		active: cfg.ServerURL != "",
		validate: func() []string {
			var missing []string
			if cfg.AccessToken == "" {
				missing = append(missing, "polaris_access_token")
			}
			if len(cfg.AssessmentTypes) == 0 {
				missing = append(missing, "polaris_assessment_types")
			}
			return missing
		},
		emit: b.emitPolaris,
	}
}

func (b *Builder) emitPolaris() (Fragment, error) {
	cfg := b.cfg.Polaris
	gh := b.cfg.GitHub

	appName := cfg.ApplicationName
	if appName == "" {
		appName = gh.RepoName()
	}
	projName := cfg.ProjectName
	if projName == "" {
		projName = gh.RepoName()
	}

	data := &models.PolarisData{
		AccessToken: cfg.AccessToken,
		ServerURL:   cfg.ServerURL,
		Application: models.NamedEntity{Name: appName},
		Project:     models.NamedEntity{Name: projName},
		Assessment:  models.AssessmentTypes{Types: cfg.AssessmentTypes},
	}
	if cfg.WaitForScan {
		data.WaitForScan = boolPtr(true)
	}

	branch := cfg.BranchName
	if branch == "" {
		branch = branchFromRef(gh.Ref)
	}
	if branch != "" {
		data.Branch = &models.Branch{Name: branch}
	}

	state := models.StateData{Polaris: data, Bridge: b.telemetry(), Network: b.networkData()}

	if cfg.PRComment {
		if gh.IsPullRequestEvent() {
			data.PRComment = &models.PRComment{Enabled: true, Severities: cfg.PRCommentSeverities}
			if cfg.BranchParentName != "" {
				if data.Branch == nil {
					data.Branch = &models.Branch{}
				}
				data.Branch.Parent = &models.NamedEntity{Name: cfg.BranchParentName}
			}
			state.GitHub = b.githubData()
		} else {
			slog.Info("polaris_prcomment_enabled is ignored for non pull request events")
		}
	}

	if cfg.SarifCreate {
		if gh.IsPullRequestEvent() {
			slog.Info("polaris_reports_sarif_create is ignored for pull request events")
		} else {
			sarif := &models.SarifReportConfig{Create: true}
			if cfg.SarifFilePath != "" {
				sarif.File = &models.FileRef{Path: cfg.SarifFilePath}
			}
			data.Reports = &models.Reports{Sarif: sarif}
		}
	}

	path, err := b.writeStateFile(polarisStateFile, state)
	if err != nil {
		return Fragment{}, err
	}
	return Fragment{Stage: polarisStage, StateFile: path, WorkflowVersion: cfg.WorkflowVersion}, nil
}
