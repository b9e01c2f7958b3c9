package args

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/CosmoTheDev/bridgectl/internal/config"
	"github.com/CosmoTheDev/bridgectl/models"
)

const (
	stageOption       = "--stage"
	inputOption       = "--input"
	diagnosticsOption = "--diagnostics"
	updateOption      = "--update"

	// Invocation source recorded in the state-file telemetry header.
	invokedFromCloud      = "Integrations-github-cloud"
	invokedFromEnterprise = "Integrations-github-ee"
)

// Fragment is one product's contribution to the engine command line.
type Fragment struct {
	Stage           string
	StateFile       string
	WorkflowVersion string
}

// product couples a scan configuration with its validator and state-file
// emitter. A product participates only when its URL is set.
type product struct {
	name     string
	active   bool
	validate func() []string
	emit     func() (Fragment, error)
}

// Builder turns the active scan configurations into the engine command
// string and the per-product JSON state files under tempDir.
type Builder struct {
	cfg     *config.Config
	tempDir string
	thin    bool
}

// NewBuilder returns a builder writing state files into tempDir. thin
// selects the thin-client command grammar (workflow-version pins apply).
func NewBuilder(cfg *config.Config, tempDir string, thin bool) *Builder {
	return &Builder{cfg: cfg, tempDir: tempDir, thin: thin}
}

// Build validates each active product, emits its state file, and returns
// the joined command string. Validation failures fail the run only when
// no product produced a fragment; partial success logs and continues.
func (b *Builder) Build() (string, error) {
	products := []product{b.polaris(), b.coverity(), b.blackDuck(), b.srm()}

	var fragments []Fragment
	var problems []string
	active := 0
	for _, p := range products {
		if !p.active {
			continue
		}
		active++
		if missing := p.validate(); len(missing) > 0 {
			problems = append(problems,
				fmt.Sprintf("[%s] - required parameters for %s is missing", strings.Join(missing, ","), p.name))
			continue
		}
		frag, err := p.emit()
		if err != nil {
			return "", err
		}
		fragments = append(fragments, frag)
	}

	if active == 0 {
		return "", errors.New("requires at least one scan type: polaris, coverity, blackducksca or srm")
	}
	if len(fragments) == 0 {
		return "", errors.New(strings.Join(problems, " "))
	}
	for _, msg := range problems {
		slog.Error("Skipping misconfigured product", "error", msg)
	}

	// The thin client updates each workflow module unless updates are off.
	withUpdate := b.thin && !b.cfg.Bridge.DisableUpdate
	if b.thin && b.cfg.Bridge.DisableUpdate {
		slog.Info("Bridge CLI workflow update is disabled")
	}

	var sb strings.Builder
	for _, f := range fragments {
		stage := f.Stage
		if f.WorkflowVersion != "" {
			if b.thin {
				stage = stage + "@" + f.WorkflowVersion
			} else {
				slog.Info("Workflow version applies to the thin client only and is ignored",
					"product", f.Stage, "version", f.WorkflowVersion)
			}
		}
		sb.WriteString(stageOption + " " + stage + " " + inputOption + " " + f.StateFile + " ")
		if withUpdate {
			sb.WriteString(updateOption + " ")
		}
	}
	cmd := strings.TrimSpace(sb.String())
	if b.cfg.Diagnostics.Include {
		cmd += " " + diagnosticsOption
	}
	return cmd, nil
}

// telemetry returns the state-file header identifying the invocation source.
func (b *Builder) telemetry() *models.BridgeTelemetry {
	from := invokedFromEnterprise
	if b.cfg.GitHub.IsCloud() {
		from = invokedFromCloud
	}
	return &models.BridgeTelemetry{Invoked: models.InvokedFrom{From: from}}
}

// writeStateFile serializes {data: ...} as 2-space-indented JSON to
// tempDir/name and returns the full path.
func (b *Builder) writeStateFile(name string, data models.StateData) (string, error) {
	raw, err := json.MarshalIndent(models.StateFile{Data: data}, "", "  ")
	if err != nil {
		return "", fmt.Errorf("serializing %s: %w", name, err)
	}
	path := filepath.Join(b.tempDir, name)
	if err := os.WriteFile(path, raw, 0o600); err != nil {
		return "", fmt.Errorf("writing state file %s: %w", path, err)
	}
	slog.Debug("Wrote state file", "path", path)
	return path, nil
}
