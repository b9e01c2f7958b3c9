package cmd

import (
	"context"
	"log/slog"

	"github.com/CosmoTheDev/bridgectl/internal/config"
	"github.com/CosmoTheDev/bridgectl/internal/runner"
	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Provision the Bridge CLI and execute the configured scans",
	Long: `Resolves and installs the requested Bridge CLI variant, builds the
per-product scan inputs from the environment, executes the engine, and
publishes diagnostics, SARIF reports, and GitHub issues.

All inputs are read from the environment the CI runner provides, e.g.:
  POLARIS_SERVER_URL, POLARIS_ACCESS_TOKEN, POLARIS_ASSESSMENT_TYPES
  BLACKDUCKSCA_URL, BLACKDUCKSCA_TOKEN
  COVERITY_URL, COVERITY_USER, COVERITY_PASSPHRASE
  SRM_URL, SRM_APIKEY, SRM_ASSESSMENT_TYPES`,
	RunE: runWorkflow,
}

func runWorkflow(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg := config.Load()
	slog.Info("Starting Bridge CLI workflow")

	return runner.New(cfg).Run(ctx)
}
