package runner

import (
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"

	"github.com/CosmoTheDev/bridgectl/internal/config"
	"github.com/CosmoTheDev/bridgectl/internal/report"
	"github.com/CosmoTheDev/bridgectl/models"
)

var inputFilePattern = regexp.MustCompile(`--input\s+(\S+)`)

// extractInputFile returns the first state-file path named in the built
// command string; "" when absent.
func extractInputFile(command string) string {
	if m := inputFilePattern.FindStringSubmatch(command); m != nil {
		return m[1]
	}
	return ""
}

// updateSarifFilePaths rewrites the SARIF output path inside the state
// file so the engine writes where the publisher later reads. The location
// depends on the engine version's directory convention. Failures are
// logged, not fatal; the engine then uses its own default.
func updateSarifFilePaths(command, engineVersion string, cfg *config.Config) {
	statePath := extractInputFile(command)
	if statePath == "" {
		return
	}
	switch filepath.Base(statePath) {
	case "polaris_input.json":
		if cfg.Polaris.SarifCreate {
			sarifPath := cfg.Polaris.SarifFilePath
			if sarifPath == "" {
				sarifPath = report.DefaultSarifPath("polaris", engineVersion)
			}
			rewriteSarifPath(statePath, sarifPath, func(data *models.StateData) *models.Reports {
				if data.Polaris == nil {
					data.Polaris = &models.PolarisData{}
				}
				if data.Polaris.Reports == nil {
					data.Polaris.Reports = &models.Reports{}
				}
				return data.Polaris.Reports
			})
		}
	case "bd_input.json":
		if cfg.BlackDuck.SarifCreate {
			sarifPath := cfg.BlackDuck.SarifFilePath
			if sarifPath == "" {
				sarifPath = report.DefaultSarifPath("blackducksca", engineVersion)
			}
			rewriteSarifPath(statePath, sarifPath, func(data *models.StateData) *models.Reports {
				if data.BlackDuckSCA == nil {
					data.BlackDuckSCA = &models.BlackDuckSCAData{}
				}
				if data.BlackDuckSCA.Reports == nil {
					data.BlackDuckSCA.Reports = &models.Reports{}
				}
				return data.BlackDuckSCA.Reports
			})
		}
	}
}

// rewriteSarifPath loads the state file, points reports.sarif.file.path at
// sarifPath, and writes it back with 2-space indentation.
func rewriteSarifPath(statePath, sarifPath string, reports func(*models.StateData) *models.Reports) {
	raw, err := os.ReadFile(statePath)
	if err != nil {
		slog.Info("Error updating SARIF file path", "error", err)
		return
	}
	var state models.StateFile
	if err := json.Unmarshal(raw, &state); err != nil {
		slog.Info("Error updating SARIF file path", "error", err)
		return
	}

	r := reports(&state.Data)
	if r.Sarif == nil {
		r.Sarif = &models.SarifReportConfig{Create: true}
	}
	if r.Sarif.File == nil {
		r.Sarif.File = &models.FileRef{}
	}
	r.Sarif.File.Path = sarifPath

	updated, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		slog.Info("Error updating SARIF file path", "error", err)
		return
	}
	if err := os.WriteFile(statePath, updated, 0o600); err != nil {
		slog.Info("Error updating SARIF file path", "error", err)
		return
	}
	slog.Info("Updated SARIF file path in state file", "path", sarifPath)
}
