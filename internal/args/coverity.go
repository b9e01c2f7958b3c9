package args

import (
	"log/slog"

	"github.com/CosmoTheDev/bridgectl/models"
)

const (
	// The engine's Coverity workflow runs under the "connect" stage.
	coverityStage     = "connect"
	coverityStateFile = "coverity_input.json"
)

func (b *Builder) coverity() product {
	cfg := b.cfg.Coverity
	return product{
		name:   "coverity",
		active: cfg.URL != "",
		validate: func() []string {
			var missing []string
			if cfg.User == "" {
				missing = append(missing, "coverity_user")
			}
			if cfg.Passphrase == "" {
				missing = append(missing, "coverity_passphrase")
			}
			return missing
		},
		emit: b.emitCoverity,
	}
}

func (b *Builder) emitCoverity() (Fragment, error) {
	cfg := b.cfg.Coverity
	gh := b.cfg.GitHub

	projName := cfg.ProjectName
	if projName == "" {
		projName = gh.RepoName()
	}
	streamName := cfg.StreamName
	if streamName == "" {
		// Conventional default: <repo>-<branch>.
		if branch := branchFromRef(gh.Ref); branch != "" {
			streamName = gh.RepoName() + "-" + branch
		} else {
			streamName = gh.RepoName()
		}
	}

	data := &models.CoverityData{
		Connect: models.CoverityConnect{
			URL:     cfg.URL,
			User:    models.CoverityUser{Name: cfg.User, Password: cfg.Passphrase},
			Project: models.NamedEntity{Name: projName},
			Stream:  models.NamedEntity{Name: streamName},
		},
		Version: cfg.Version,
	}
	if cfg.PolicyView != "" {
		data.Connect.Policy = &models.PolicyView{View: cfg.PolicyView}
	}
	if cfg.InstallDirectory != "" {
		data.Install = &models.DirectoryRef{Directory: cfg.InstallDirectory}
	}
	if cfg.Local {
		data.Local = boolPtr(true)
	}
	if cfg.WaitForScan {
		data.WaitForScan = boolPtr(true)
	}

	state := models.StateData{Coverity: data, Bridge: b.telemetry(), Network: b.networkData()}

	if cfg.PRComment {
		if gh.IsPullRequestEvent() {
			data.PRComment = &models.PRComment{Enabled: true}
			state.GitHub = b.githubData()
		} else {
			slog.Info("coverity_prcomment_enabled is ignored for non pull request events")
		}
	}

	path, err := b.writeStateFile(coverityStateFile, state)
	if err != nil {
		return Fragment{}, err
	}
	return Fragment{Stage: coverityStage, StateFile: path, WorkflowVersion: cfg.WorkflowVersion}, nil
}
