package runner

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/CosmoTheDev/bridgectl/internal/args"
	"github.com/CosmoTheDev/bridgectl/internal/bridge"
	"github.com/CosmoTheDev/bridgectl/internal/config"
	"github.com/CosmoTheDev/bridgectl/internal/report"
	"github.com/CosmoTheDev/bridgectl/internal/transport"
	"github.com/google/uuid"
)

// Runner drives one full launch: provision the engine, build the command
// and state files, execute, then publish reports.
type Runner struct {
	cfg *config.Config
}

func New(cfg *config.Config) *Runner {
	return &Runner{cfg: cfg}
}

// Run executes the pipeline. A nil return means the run is considered
// successful, including a policy break softened by mark_build_status.
func (r *Runner) Run(ctx context.Context) error {
	start := time.Now()
	runID := uuid.NewString()
	slog.Info("Workflow started", "run_id", runID)
	defer func() {
		slog.Info("Workflow execution completed",
			"run_id", runID, "duration", time.Since(start).Round(time.Millisecond))
	}()

	if err := r.cfg.Validate(); err != nil {
		return err
	}

	client, err := transport.Shared(r.cfg.Network)
	if err != nil {
		return err
	}

	tempDir, err := os.MkdirTemp("", "bridgectl-")
	if err != nil {
		return fmt.Errorf("creating temporary directory: %w", err)
	}
	defer os.RemoveAll(tempDir) //nolint:errcheck

	engine := bridge.NewClient(r.cfg, client)
	command, err := args.NewBuilder(r.cfg, tempDir, r.cfg.Bridge.ThinClient).Build()
	if err != nil {
		return err
	}

	version, err := engine.Provision(ctx, tempDir)
	if err != nil {
		return err
	}

	// The engine must write SARIF where the publisher later reads it; the
	// default location moved between engine generations.
	updateSarifFilePaths(command, version, r.cfg)

	workDir := r.cfg.GitHub.Workspace
	if workDir == "" {
		workDir = os.TempDir()
	}

	exitCode, execErr := engine.Execute(ctx, command, workDir)
	if execErr != nil {
		exitCode = -1
	}
	if r.cfg.ReturnStatus {
		r.setOutput("status", strconv.Itoa(exitCode))
	}

	publisher := report.NewPublisher(r.cfg, client, r.uploader(client))
	pubErr := publisher.Publish(ctx, exitCode, version)

	if execErr != nil {
		return execErr
	}
	if pubErr != nil {
		return pubErr
	}
	return r.evaluate(exitCode)
}

// evaluate maps the engine's exit code to the run result. A policy break
// passes when the user opted into a soft build status.
func (r *Runner) evaluate(exitCode int) error {
	switch {
	case exitCode == 0:
		slog.Info("Bridge CLI execution completed successfully")
		return nil
	case exitCode == PolicyBreakExitCode && r.cfg.MarkBuildStatus == "success":
		slog.Info(LogBridgeExitCodes(strconv.Itoa(exitCode)))
		slog.Info("Marking the build status as configured", "status", r.cfg.MarkBuildStatus)
		return nil
	default:
		return errors.New("Workflow failed! " + LogBridgeExitCodes(strconv.Itoa(exitCode)))
	}
}

// setOutput appends a workflow output in the runner's key=value file
// format. A missing output file is not an error outside a CI runner.
func (r *Runner) setOutput(name, value string) {
	path := os.Getenv("GITHUB_OUTPUT")
	if path == "" {
		return
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		slog.Warn("Unable to write workflow output", "name", name, "error", err)
		return
	}
	defer f.Close() //nolint:errcheck
	if _, err := fmt.Fprintf(f, "%s=%s\n", name, value); err != nil {
		slog.Warn("Unable to write workflow output", "name", name, "error", err)
	}
}

// uploader targets the runner's artifact service when one is advertised.
func (r *Runner) uploader(client *transport.Client) report.Uploader {
	return report.NewHTTPUploader(client,
		os.Getenv("ACTIONS_RUNTIME_URL"), os.Getenv("ACTIONS_RUNTIME_TOKEN"))
}
