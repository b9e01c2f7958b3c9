package args

import (
	"github.com/CosmoTheDev/bridgectl/models"
)

const (
	srmStage     = "srm"
	srmStateFile = "srm_input.json"
)

func (b *Builder) srm() product {
	cfg := b.cfg.SRM
	return product{
		name:   "srm",
		active: cfg.URL != "",
		validate: func() []string {
			var missing []string
			if cfg.APIKey == "" {
				missing = append(missing, "srm_apikey")
			}
			if len(cfg.AssessmentTypes) == 0 {
				missing = append(missing, "srm_assessment_types")
			}
			return missing
		},
		emit: b.emitSRM,
	}
}

func (b *Builder) emitSRM() (Fragment, error) {
	cfg := b.cfg.SRM
	gh := b.cfg.GitHub

	data := &models.SRMData{
		URL:        cfg.URL,
		APIKey:     cfg.APIKey,
		Assessment: models.AssessmentTypes{Types: cfg.AssessmentTypes},
	}
	if cfg.ProjectID != "" || cfg.ProjectName != "" {
		data.Project = &models.SRMProject{ID: cfg.ProjectID, Name: cfg.ProjectName}
	} else {
		data.Project = &models.SRMProject{Name: gh.RepoName()}
	}
	branch := cfg.BranchName
	if branch == "" {
		branch = branchFromRef(gh.Ref)
	}
	if branch != "" || cfg.BranchParent != "" {
		data.Branch = &models.SRMBranch{Name: branch, Parent: cfg.BranchParent}
	}
	if cfg.WaitForScan {
		data.WaitForScan = boolPtr(true)
	}

	state := models.StateData{SRM: data, Bridge: b.telemetry(), Network: b.networkData()}

	path, err := b.writeStateFile(srmStateFile, state)
	if err != nil {
		return Fragment{}, err
	}
	return Fragment{Stage: srmStage, StateFile: path, WorkflowVersion: cfg.WorkflowVersion}, nil
}
