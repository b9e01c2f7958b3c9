package report

import (
	"context"
	"log/slog"

	"github.com/CosmoTheDev/bridgectl/internal/config"
	"github.com/CosmoTheDev/bridgectl/internal/transport"
)

// Publisher drives post-execution reporting: diagnostics upload, SARIF
// artifact upload, SARIF code-scanning ingest, and issue creation, in that
// order.
type Publisher struct {
	cfg       *config.Config
	client    *transport.Client
	artifacts *ArtifactPublisher
	ingest    *CodeScanningService
}

// NewPublisher wires the reporting services over the shared transport.
// The uploader is injected so tests can observe uploads without a remote
// artifact store.
func NewPublisher(cfg *config.Config, client *transport.Client, uploader Uploader) *Publisher {
	return &Publisher{
		cfg:       cfg,
		client:    client,
		artifacts: NewArtifactPublisher(uploader, cfg.GitHub.Workspace),
		ingest:    NewCodeScanningService(client, cfg.GitHub),
	}
}

// productReport describes one product's SARIF surface for the publisher.
type productReport struct {
	// artifactLabel names the uploaded artifact ({label}_sarif_report_*).
	artifactLabel string
	// reportDir keys the engine's default SARIF output location.
	reportDir   string
	active      bool
	sarifCreate bool
	sarifPath   string
	uploadSarif bool
}

func (p *Publisher) products() []productReport {
	return []productReport{
		{
			artifactLabel: "blackduck",
			reportDir:     "blackducksca",
			active:        p.cfg.BlackDuck.URL != "",
			sarifCreate:   p.cfg.BlackDuck.SarifCreate,
			sarifPath:     p.cfg.BlackDuck.SarifFilePath,
			uploadSarif:   p.cfg.BlackDuck.UploadSarif,
		},
		{
			artifactLabel: "polaris",
			reportDir:     "polaris",
			active:        p.cfg.Polaris.ServerURL != "",
			sarifCreate:   p.cfg.Polaris.SarifCreate,
			sarifPath:     p.cfg.Polaris.SarifFilePath,
			uploadSarif:   p.cfg.Polaris.UploadSarif,
		},
	}
}

// Publish runs the conditional reporting pipeline. exitCode below zero
// means the engine never ran and nothing is published; SARIF publication
// additionally requires exit code 0 or 8 and a non-PR event.
func (p *Publisher) Publish(ctx context.Context, exitCode int, engineVersion string) error {
	if exitCode < 0 {
		slog.Debug("Engine did not execute, skipping reporting")
		return nil
	}

	if p.cfg.Diagnostics.Include {
		if err := p.artifacts.UploadDiagnostics(ctx, p.cfg.Diagnostics.RetentionDays); err != nil {
			return err
		}
	}

	if exitCode != 0 && exitCode != 8 {
		slog.Debug("Scan did not complete, skipping SARIF publication", "exit_code", exitCode)
		return nil
	}
	if p.cfg.GitHub.IsPullRequestEvent() {
		slog.Info("SARIF publication is skipped for pull request events")
		return nil
	}

	for _, product := range p.products() {
		if !product.active || !product.sarifCreate {
			continue
		}
		path := product.sarifPath
		if path == "" {
			path = DefaultSarifPath(product.reportDir, engineVersion)
		}
		if err := p.artifacts.UploadSarifArtifact(ctx, product.artifactLabel, path); err != nil {
			return err
		}
	}

	if p.cfg.GitHub.Token == "" {
		slog.Debug("No GitHub token configured, skipping SARIF ingest and issue creation")
		return nil
	}

	var issues *IssuesService
	for _, product := range p.products() {
		if !product.active || !product.uploadSarif {
			continue
		}
		path := product.sarifPath
		if path == "" {
			path = DefaultSarifPath(product.reportDir, engineVersion)
		}
		if err := p.ingest.UploadSarif(ctx, path); err != nil {
			return err
		}

		if issues == nil {
			svc, err := NewIssuesService(ctx, p.client, p.cfg.GitHub)
			if err != nil {
				return err
			}
			issues = svc
		}
		if err := issues.CreateIssuesFromSarif(ctx, path); err != nil {
			return err
		}
	}
	return nil
}
