package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/naka-gawa/github-contrib-badges/internal/domain"
	"github.com/naka-gawa/github-contrib-badges/internal/gateway"
)

const (
	// PageSize is the number of items requested per page. A shorter page ends the walk.
	PageSize = 100

	pullRequestStateAll = "all"
	mergeCommitPrefix   = "Merge"
)

// Counter counts a user's pull requests or commits in one repository by
// walking the paged source.
type Counter struct {
	source      gateway.Source
	logger      logrus.FieldLogger
	callTimeout time.Duration
}

// NewCounter creates a Counter. A zero callTimeout leaves page fetches unbounded.
func NewCounter(source gateway.Source, logger logrus.FieldLogger, callTimeout time.Duration) *Counter {
	return &Counter{source: source, logger: logger, callTimeout: callTimeout}
}

// CountPullRequests counts pull requests in any state authored by user.
// A fetch failure is logged and counted as 0.
func (c *Counter) CountPullRequests(ctx context.Context, owner, repo, user string) int {
	fetch := func(ctx context.Context, page int) ([]domain.PullRequest, error) {
		return c.source.ListPullRequests(ctx, owner, repo, pullRequestStateAll, page, PageSize)
	}
	match := func(pr domain.PullRequest) bool {
		return pr.AuthorLogin == user
	}
	total, err := paginate(ctx, c.callTimeout, fetch, match)
	if err != nil {
		c.logger.WithError(err).WithFields(logrus.Fields{"repo": owner + "/" + repo, "user": user}).
			Warnf("Failed to count pull requests of %s in %s/%s", user, owner, repo)
		return 0
	}
	return total
}

// CountCommits counts commits authored by user. Unless includeMergeCommits is
// set, commits whose message starts with "Merge" are left out.
// A fetch failure is logged and counted as 0.
func (c *Counter) CountCommits(ctx context.Context, owner, repo, user string, includeMergeCommits bool) int {
	fetch := func(ctx context.Context, page int) ([]domain.Commit, error) {
		return c.source.ListCommits(ctx, owner, repo, user, page, PageSize)
	}
	match := func(commit domain.Commit) bool {
		return includeMergeCommits || !IsMergeCommit(commit)
	}
	total, err := paginate(ctx, c.callTimeout, fetch, match)
	if err != nil {
		c.logger.WithError(err).WithFields(logrus.Fields{"repo": owner + "/" + repo, "user": user}).
			Warnf("Failed to count commits of %s in %s/%s", user, owner, repo)
		return 0
	}
	return total
}

// IsMergeCommit reports whether the commit message starts with "Merge".
// It does not inspect parents.
func IsMergeCommit(commit domain.Commit) bool {
	return strings.HasPrefix(commit.Message, mergeCommitPrefix)
}

// paginate fetches pages 1, 2, ... in order and sums the matching items until
// a page holds fewer than PageSize items.
func paginate[T any](ctx context.Context, callTimeout time.Duration, fetch func(context.Context, int) ([]T, error), match func(T) bool) (int, error) {
	total := 0
	for page := 1; ; page++ {
		items, err := fetchPage(ctx, callTimeout, page, fetch)
		if err != nil {
			return 0, err
		}
		for _, item := range items {
			if match(item) {
				total++
			}
		}
		if len(items) < PageSize {
			return total, nil
		}
	}
}

func fetchPage[T any](ctx context.Context, callTimeout time.Duration, page int, fetch func(context.Context, int) ([]T, error)) ([]T, error) {
	if callTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, callTimeout)
		defer cancel()
	}
	return fetch(ctx, page)
}
