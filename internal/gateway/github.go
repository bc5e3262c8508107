// Package gateway provides a gateway to the GitHub API,
// abstracting away the underlying REST and GraphQL clients.
package gateway

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/go-github/v62/github"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/shurcooL/githubv4"
	"github.com/sirupsen/logrus"
	"golang.org/x/oauth2"

	"github.com/gofri/go-github-ratelimit/github_ratelimit"

	"github.com/naka-gawa/github-contrib-badges/internal/domain"
)

// Source is the paged-data source the counters walk.
type Source interface {
	ListPullRequests(ctx context.Context, owner, repo, state string, page, perPage int) ([]domain.PullRequest, error)
	ListCommits(ctx context.Context, owner, repo, author string, page, perPage int) ([]domain.Commit, error)
	GetPullRequest(ctx context.Context, owner, repo string, number int) (*domain.PullRequest, error)
}

// GitHubGateway is the concrete implementation of the Source interface.
type GitHubGateway struct {
	restClient    *github.Client
	graphqlClient *githubv4.Client
	authors       *lru.Cache[string, string]
	logger        logrus.FieldLogger
}

// pullRequestAuthorQuery looks up the author of a single pull request.
type pullRequestAuthorQuery struct {
	Repository struct {
		PullRequest struct {
			Number int
			Author struct {
				Login string
			}
		} `graphql:"pullRequest(number: $number)"`
	} `graphql:"repository(owner: $owner, name: $name)"`
}

type options struct {
	baseURL         string
	graphqlURL      string
	authorCacheSize int
}

// Option configures a GitHubGateway.
type Option func(*options)

// WithBaseURL points the REST client at a GitHub Enterprise API root.
func WithBaseURL(u string) Option {
	return func(o *options) { o.baseURL = u }
}

// WithGraphQLURL points the GraphQL client at a GitHub Enterprise endpoint.
func WithGraphQLURL(u string) Option {
	return func(o *options) { o.graphqlURL = u }
}

// WithAuthorCacheSize sets how many pull request authors are remembered.
func WithAuthorCacheSize(n int) Option {
	return func(o *options) { o.authorCacheSize = n }
}

// NewGitHubGateway is a constructor that creates a new instance of GitHubGateway.
// Requests are authenticated by ts and pass through a secondary rate limit waiter.
func NewGitHubGateway(ts oauth2.TokenSource, logger logrus.FieldLogger, opts ...Option) (*GitHubGateway, error) {
	o := options{authorCacheSize: 256}
	for _, opt := range opts {
		opt(&o)
	}

	rateLimitWaiter, err := github_ratelimit.NewRateLimitWaiter(nil, github_ratelimit.WithSingleSleepLimit(1*time.Hour, nil))
	if err != nil {
		return nil, fmt.Errorf("failed to create rate limit waiter: %w", err)
	}
	httpClient := &http.Client{
		Transport: &oauth2.Transport{
			Base:   rateLimitWaiter,
			Source: ts,
		},
	}

	restClient := github.NewClient(httpClient)
	if o.baseURL != "" {
		baseURL, err := url.Parse(strings.TrimSuffix(o.baseURL, "/") + "/")
		if err != nil {
			return nil, fmt.Errorf("invalid GitHub API URL %q: %w", o.baseURL, err)
		}
		restClient.BaseURL = baseURL
	}

	graphqlClient := githubv4.NewClient(httpClient)
	if o.graphqlURL != "" {
		graphqlClient = githubv4.NewEnterpriseClient(o.graphqlURL, httpClient)
	}

	return newGateway(restClient, graphqlClient, logger, o.authorCacheSize)
}

func newGateway(restClient *github.Client, graphqlClient *githubv4.Client, logger logrus.FieldLogger, cacheSize int) (*GitHubGateway, error) {
	if cacheSize <= 0 {
		cacheSize = 1
	}
	authors, err := lru.New[string, string](cacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create author cache: %w", err)
	}
	return &GitHubGateway{
		restClient:    restClient,
		graphqlClient: graphqlClient,
		authors:       authors,
		logger:        logger,
	}, nil
}

// ListPullRequests returns one page of pull requests in the given state.
func (g *GitHubGateway) ListPullRequests(ctx context.Context, owner, repo, state string, page, perPage int) ([]domain.PullRequest, error) {
	opts := &github.PullRequestListOptions{
		State:       state,
		ListOptions: github.ListOptions{Page: page, PerPage: perPage},
	}
	pulls, _, err := g.restClient.PullRequests.List(ctx, owner, repo, opts)
	if err != nil {
		return nil, domain.NewFetchError("list pull requests", owner+"/"+repo, err)
	}
	g.logger.WithFields(logrus.Fields{"repo": owner + "/" + repo, "page": page, "items": len(pulls)}).Debug("Fetched pull request page")

	out := make([]domain.PullRequest, 0, len(pulls))
	for _, pr := range pulls {
		out = append(out, domain.PullRequest{
			Number:      pr.GetNumber(),
			AuthorLogin: pr.GetUser().GetLogin(),
		})
	}
	return out, nil
}

// ListCommits returns one page of commits authored by author.
func (g *GitHubGateway) ListCommits(ctx context.Context, owner, repo, author string, page, perPage int) ([]domain.Commit, error) {
	opts := &github.CommitsListOptions{
		Author:      author,
		ListOptions: github.ListOptions{Page: page, PerPage: perPage},
	}
	commits, _, err := g.restClient.Repositories.ListCommits(ctx, owner, repo, opts)
	if err != nil {
		return nil, domain.NewFetchError("list commits", owner+"/"+repo, err)
	}
	g.logger.WithFields(logrus.Fields{"repo": owner + "/" + repo, "page": page, "items": len(commits)}).Debug("Fetched commit page")

	out := make([]domain.Commit, 0, len(commits))
	for _, c := range commits {
		out = append(out, domain.Commit{
			SHA:     c.GetSHA(),
			Message: c.GetCommit().GetMessage(),
		})
	}
	return out, nil
}

// GetPullRequest looks up a single pull request's author with GraphQL.
// Authors are cached, so repeated lookups of the same pull request are free.
func (g *GitHubGateway) GetPullRequest(ctx context.Context, owner, repo string, number int) (*domain.PullRequest, error) {
	key := fmt.Sprintf("%s/%s#%d", owner, repo, number)
	if login, ok := g.authors.Get(key); ok {
		return &domain.PullRequest{Number: number, AuthorLogin: login}, nil
	}

	var q pullRequestAuthorQuery
	variables := map[string]interface{}{
		"owner":  githubv4.String(owner),
		"name":   githubv4.String(repo),
		"number": githubv4.Int(number),
	}
	if err := g.graphqlClient.Query(ctx, &q, variables); err != nil {
		return nil, domain.NewFetchError(fmt.Sprintf("get pull request #%d", number), owner+"/"+repo, err)
	}

	login := q.Repository.PullRequest.Author.Login
	if login != "" {
		g.authors.Add(key, login)
	}
	return &domain.PullRequest{Number: number, AuthorLogin: login}, nil
}
