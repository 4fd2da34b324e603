// Package gateway provides a gateway to the GitHub API,
// abstracting away the underlying REST client.
package gateway

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/go-github/v62/github"
	"golang.org/x/oauth2"

	"github.com/gofri/go-github-ratelimit/github_ratelimit"

	"github.com/sugimori/git-analyzer/internal/config"
	"github.com/sugimori/git-analyzer/internal/domain"
)

// Fetcher defines the behavior of a gateway for fetching repository
// information from GitHub. Each call is a single attempt against one
// resource; retry policy, if any, belongs to the caller.
type Fetcher interface {
	FetchMetadata(ctx context.Context, ref domain.RepositoryRef) (*domain.RepositoryMetadata, error)
	FetchLanguages(ctx context.Context, ref domain.RepositoryRef) (map[string]int, error)
	FetchContributors(ctx context.Context, ref domain.RepositoryRef) ([]*github.Contributor, error)
	FetchCommits(ctx context.Context, ref domain.RepositoryRef, branch string) ([]*github.RepositoryCommit, error)
}

// GitHubGateway is the concrete implementation of the Fetcher interface.
type GitHubGateway struct {
	client              *github.Client
	contributorsPerPage int
	commitsPerPage      int
	logger              *log.Logger
}

// NewGitHubGateway creates a GitHubGateway. A blank token means anonymous
// access: no Authorization header is sent. The rate limit waiter sits below
// the auth transport so secondary rate limits pause rather than fail a run.
func NewGitHubGateway(cfg *config.Config, logger *log.Logger) (Fetcher, error) {
	rateLimitWaiter, err := github_ratelimit.NewRateLimitWaiter(nil, github_ratelimit.WithSingleSleepLimit(1*time.Hour, nil))
	if err != nil {
		return nil, fmt.Errorf("failed to create rate limit waiter: %w", err)
	}

	httpClient := &http.Client{Transport: rateLimitWaiter}
	if strings.TrimSpace(cfg.Token) != "" {
		ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: cfg.Token})
		httpClient.Transport = &oauth2.Transport{
			Base:   rateLimitWaiter,
			Source: ts,
		}
	}

	client := github.NewClient(httpClient)
	if cfg.BaseURL != "" {
		baseURL, err := url.Parse(strings.TrimSuffix(cfg.BaseURL, "/") + "/")
		if err != nil {
			return nil, fmt.Errorf("invalid base URL %q: %w", cfg.BaseURL, err)
		}
		client.BaseURL = baseURL
	}

	return &GitHubGateway{
		client:              client,
		contributorsPerPage: cfg.ContributorsPerPage,
		commitsPerPage:      cfg.CommitsPerPage,
		logger:              logger,
	}, nil
}

func (g *GitHubGateway) FetchMetadata(ctx context.Context, ref domain.RepositoryRef) (*domain.RepositoryMetadata, error) {
	g.logger.Printf("[1/4] Fetching metadata for %s...", ref)
	repo, resp, err := g.client.Repositories.Get(ctx, ref.Owner, ref.Name)
	if err != nil {
		return nil, apiError(domain.StageMetadata, resp, err)
	}

	meta := &domain.RepositoryMetadata{
		FullName:      repo.GetFullName(),
		Description:   repo.GetDescription(),
		Stars:         repo.GetStargazersCount(),
		Forks:         repo.GetForksCount(),
		DefaultBranch: repo.GetDefaultBranch(),
		SizeKB:        repo.GetSize(),
		OwnerAvatar:   repo.GetOwner().GetAvatarURL(),
	}
	g.logger.Printf("Completed fetching metadata (default branch %q).", meta.DefaultBranch)
	return meta, nil
}

func (g *GitHubGateway) FetchLanguages(ctx context.Context, ref domain.RepositoryRef) (map[string]int, error) {
	g.logger.Printf("[2/4] Fetching languages for %s...", ref)
	languages, resp, err := g.client.Repositories.ListLanguages(ctx, ref.Owner, ref.Name)
	if err != nil {
		return nil, apiError(domain.StageLanguages, resp, err)
	}
	g.logger.Printf("Completed fetching languages (%d entries).", len(languages))
	return languages, nil
}

func (g *GitHubGateway) FetchContributors(ctx context.Context, ref domain.RepositoryRef) ([]*github.Contributor, error) {
	g.logger.Printf("[3/4] Fetching contributors for %s...", ref)
	opts := &github.ListContributorsOptions{
		Anon:        "true",
		ListOptions: github.ListOptions{PerPage: g.contributorsPerPage},
	}
	contributors, resp, err := g.client.Repositories.ListContributors(ctx, ref.Owner, ref.Name, opts)
	if err != nil {
		return nil, apiError(domain.StageContributors, resp, err)
	}
	g.logger.Printf("Completed fetching contributors (%d records).", len(contributors))
	return contributors, nil
}

func (g *GitHubGateway) FetchCommits(ctx context.Context, ref domain.RepositoryRef, branch string) ([]*github.RepositoryCommit, error) {
	g.logger.Printf("[4/4] Fetching commits for %s on %q...", ref, branch)
	opts := &github.CommitsListOptions{
		SHA:         branch,
		ListOptions: github.ListOptions{PerPage: g.commitsPerPage},
	}
	commits, resp, err := g.client.Repositories.ListCommits(ctx, ref.Owner, ref.Name, opts)
	if err != nil {
		return nil, apiError(domain.StageCommits, resp, err)
	}
	g.logger.Printf("Completed fetching commits (%d records).", len(commits))
	return commits, nil
}

// apiError maps a go-github failure to a domain.APIError. When the remote
// answered, the HTTP status is preserved; transport-level failures carry a
// zero status.
func apiError(stage domain.Stage, resp *github.Response, err error) error {
	statusCode := 0
	if resp != nil {
		statusCode = resp.StatusCode
	}
	return &domain.APIError{Stage: stage, StatusCode: statusCode, Err: err}
}
