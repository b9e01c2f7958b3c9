package report

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/go-github/v68/github"
	"golang.org/x/oauth2"

	"github.com/CosmoTheDev/bridgectl/internal/config"
	"github.com/CosmoTheDev/bridgectl/internal/transport"
	"github.com/CosmoTheDev/bridgectl/models"
)

const issuesPerPage = 100

// issueTitlePrefix brands issues created from SARIF findings.
const issueTitlePrefix = "[Black Duck: Automated Issue]"

// IssuesService creates tracking issues from SARIF findings, deduplicating
// against the repository's open issues by exact title match.
type IssuesService struct {
	gh        *github.Client
	owner     string
	repo      string
	workspace string

	// cachedTitles holds open-issue titles, populated once per run.
	cachedTitles map[string]bool
}

// NewIssuesService builds a GitHub API client over the retrying transport.
func NewIssuesService(ctx context.Context, httpClient *transport.Client, cfg config.GitHubConfig) (*IssuesService, error) {
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: cfg.Token})
	ctx = context.WithValue(ctx, oauth2.HTTPClient, httpClient.StandardClient())
	client := github.NewClient(oauth2.NewClient(ctx, ts))
	if !cfg.IsCloud() && cfg.APIURL != "" {
		enterprise, err := client.WithEnterpriseURLs(cfg.APIURL, cfg.APIURL)
		if err != nil {
			return nil, fmt.Errorf("configuring enterprise GitHub API: %w", err)
		}
		client = enterprise
	}
	return &IssuesService{
		gh:        client,
		owner:     cfg.RepositoryOwner,
		repo:      cfg.RepoName(),
		workspace: cfg.Workspace,
	}, nil
}

// CreateIssuesFromSarif reads the SARIF report and opens one issue per
// unique finding. Titles already present among open issues, or already
// processed in this run, are skipped.
func (s *IssuesService) CreateIssuesFromSarif(ctx context.Context, sarifPath string) error {
	slog.Info("Creating GitHub issues from SARIF report", "path", sarifPath)
	if !filepath.IsAbs(sarifPath) {
		sarifPath = filepath.Join(s.workspace, sarifPath)
	}
	content, err := os.ReadFile(sarifPath)
	if err != nil {
		return fmt.Errorf("SARIF file not found at path %s", sarifPath)
	}
	var sarifReport models.SarifReport
	if err := json.Unmarshal(content, &sarifReport); err != nil {
		return fmt.Errorf("parsing SARIF report %s: %w", sarifPath, err)
	}

	if err := s.fetchOpenIssueTitles(ctx); err != nil {
		return err
	}

	for _, run := range sarifReport.Runs {
		rules := run.Tool.Driver.RulesByID()
		processed := make(map[string]bool)

		for _, result := range run.Results {
			draft := draftIssue(result, rules, run.Tool.Driver.Name)
			if processed[draft.title] {
				continue
			}
			processed[draft.title] = true

			if s.cachedTitles[draft.title] {
				slog.Info("Skipping duplicate issue", "title", draft.title)
				continue
			}
			if err := s.createIssue(ctx, draft); err != nil {
				return err
			}
		}
	}
	return nil
}

type issueDraft struct {
	title string
	body  string
}

// draftIssue derives a {title, body} pair from one SARIF result.
func draftIssue(result models.SarifResult, rules map[string]models.SarifRule, toolName string) issueDraft {
	rule, hasRule := rules[result.RuleID]

	severity := string(models.SeverityUnknown)
	if hasRule && rule.Properties != nil {
		if mapped := models.MapSeverityRating(rule.Properties.SecuritySeverity); mapped != "" {
			severity = mapped
		}
	}

	ruleTitle := result.RuleID
	if hasRule && rule.ShortDescription != nil && rule.ShortDescription.Text != "" {
		ruleTitle = rule.ShortDescription.Text
	}

	description := result.Message.Text
	if hasRule {
		switch {
		case rule.FullDescription != nil && rule.FullDescription.Text != "":
			description = rule.FullDescription.Text
		case rule.ShortDescription != nil && rule.ShortDescription.Text != "":
			description = rule.ShortDescription.Text
		}
	}
	if result.Message.Text != "" {
		description += "\n" + result.Message.Text + "\n\n"
	}

	var body strings.Builder
	body.WriteString("## Issue Details\n")
	fmt.Fprintf(&body, "**Tool:** %s\n", toolName)
	fmt.Fprintf(&body, "**Rule ID:** %s\n", result.RuleID)
	fmt.Fprintf(&body, "**Severity:** %s\n\n", severity)
	fmt.Fprintf(&body, "## Description \n %s\n\n", description)

	if hasRule && rule.Help != nil {
		if rule.Help.Markdown != "" {
			body.WriteString(rule.Help.Markdown + "\n\n")
		} else if rule.Help.Text != "" {
			body.WriteString(rule.Help.Text + "\n\n")
		}
	}

	if len(result.Locations) > 0 {
		body.WriteString("## Location(s) \n")
		for _, loc := range result.Locations {
			fmt.Fprintf(&body, "- File: `%s`, Line: %d\n",
				loc.PhysicalLocation.ArtifactLocation.URI, loc.PhysicalLocation.Region.StartLine)
		}
	}
	body.WriteString("\n---\n*This issue was automatically created from a security scan.*")

	return issueDraft{
		title: fmt.Sprintf("%s[%s] %s", issueTitlePrefix, severity, ruleTitle),
		body:  body.String(),
	}
}

// fetchOpenIssueTitles loads all open issues once per run, 100 per page
// until a short page, skipping pull requests (the issues API returns both).
func (s *IssuesService) fetchOpenIssueTitles(ctx context.Context) error {
	if s.cachedTitles != nil {
		return nil
	}
	s.cachedTitles = make(map[string]bool)

	slog.Info("Fetching open issues", "per_page", issuesPerPage)
	opts := &github.IssueListByRepoOptions{
		State:       "open",
		ListOptions: github.ListOptions{PerPage: issuesPerPage, Page: 1},
	}
	for {
		issues, _, err := s.gh.Issues.ListByRepo(ctx, s.owner, s.repo, opts)
		if err != nil {
			return fmt.Errorf("fetching open issues page %d: %w", opts.Page, err)
		}
		for _, issue := range issues {
			if issue.IsPullRequest() {
				continue
			}
			s.cachedTitles[issue.GetTitle()] = true
		}
		if len(issues) < issuesPerPage {
			break
		}
		opts.Page++
	}
	slog.Info("Fetched open issues", "count", len(s.cachedTitles))
	return nil
}

func (s *IssuesService) createIssue(ctx context.Context, draft issueDraft) error {
	_, res, err := s.gh.Issues.Create(ctx, s.owner, s.repo, &github.IssueRequest{
		Title: github.Ptr(draft.title),
		Body:  github.Ptr(draft.body),
	})
	if err != nil {
		return fmt.Errorf("creating issue %q: %w", draft.title, err)
	}
	if res.StatusCode != http.StatusCreated {
		return fmt.Errorf("creating issue %q: HTTP %d", draft.title, res.StatusCode)
	}
	s.cachedTitles[draft.title] = true
	slog.Info("Created issue", "title", draft.title)
	return nil
}
