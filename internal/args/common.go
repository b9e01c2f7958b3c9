package args

import (
	"strconv"
	"strings"

	"github.com/CosmoTheDev/bridgectl/models"
)

func boolPtr(b bool) *bool { return &b }

// branchFromRef strips the refs/heads/ prefix from a runner ref. Pull
// request refs (refs/pull/N/merge) have no branch name and yield "".
func branchFromRef(ref string) string {
	if strings.HasPrefix(ref, "refs/pull/") {
		return ""
	}
	return strings.TrimPrefix(ref, "refs/heads/")
}

// prNumberFromRef extracts N from refs/pull/N/merge; 0 when absent.
func prNumberFromRef(ref string) int {
	parts := strings.Split(ref, "/")
	if len(parts) >= 3 && parts[1] == "pull" {
		if n, err := strconv.Atoi(parts[2]); err == nil {
			return n
		}
	}
	return 0
}

// githubData builds the host context the engine needs for PR comments and
// fix pull requests.
func (b *Builder) githubData() *models.GitHubData {
	gh := b.cfg.GitHub
	data := &models.GitHubData{
		User: models.GitHubUser{Token: gh.Token},
		Repository: models.GitHubRepository{
			Name:  gh.RepoName(),
			Owner: models.NamedEntity{Name: gh.RepositoryOwner},
		},
	}
	if branch := branchFromRef(gh.Ref); branch != "" {
		data.Repository.Branch = &models.NamedEntity{Name: branch}
	}
	if n := prNumberFromRef(gh.Ref); n > 0 {
		data.Repository.Pull = &models.GitHubPull{Number: n}
	}
	// Enterprise hosts need an explicit URL; github_host_url overrides the
	// runner-provided server URL when set.
	hostURL := gh.HostURL
	if hostURL == "" {
		hostURL = gh.ServerURL
	}
	if !gh.IsCloud() && hostURL != "" {
		data.Host = &models.GitHubHost{URL: hostURL}
	}
	return data
}

// networkData mirrors the run's air-gap and trust settings into the state
// file so the engine applies the same policy.
func (b *Builder) networkData() *models.NetworkData {
	net := b.cfg.Network
	if !net.AirGap && net.SSLCertFile == "" && !net.SSLTrustAll {
		return nil
	}
	data := &models.NetworkData{}
	if net.AirGap {
		data.AirGap = boolPtr(true)
	}
	if net.SSLCertFile != "" || net.SSLTrustAll {
		ssl := &models.NetworkSSL{}
		if net.SSLCertFile != "" {
			ssl.Cert = &models.FileRef{Path: net.SSLCertFile}
		}
		if net.SSLTrustAll {
			ssl.TrustAll = boolPtr(true)
		}
		data.SSL = ssl
	}
	return data
}
