// Package usecase contains the business logic of the application.
package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/naka-gawa/github-contrib-badges/internal/domain"
	"github.com/naka-gawa/github-contrib-badges/internal/gateway"
)

// DefaultPace is the interval kept between successive GitHub calls.
const DefaultPace = time.Second

// Aggregator is the use case for counting contributions behind a list of links.
// It orchestrates classification, user resolution, deduplication and counting.
type Aggregator struct {
	source      gateway.Source
	counter     *Counter
	logger      logrus.FieldLogger
	pacer       *rate.Limiter
	concurrency int
	callTimeout time.Duration
}

type aggregatorOptions struct {
	pace        time.Duration
	concurrency int
	callTimeout time.Duration
}

// AggregatorOption configures an Aggregator.
type AggregatorOption func(*aggregatorOptions)

// WithPace sets the interval between external calls. Zero disables pacing.
func WithPace(d time.Duration) AggregatorOption {
	return func(o *aggregatorOptions) { o.pace = d }
}

// WithConcurrency sets how many repositories may be counted at once.
func WithConcurrency(n int) AggregatorOption {
	return func(o *aggregatorOptions) { o.concurrency = n }
}

// WithCallTimeout bounds every single external call.
func WithCallTimeout(d time.Duration) AggregatorOption {
	return func(o *aggregatorOptions) { o.callTimeout = d }
}

// NewAggregator creates a new Aggregator instance.
func NewAggregator(source gateway.Source, logger logrus.FieldLogger, opts ...AggregatorOption) *Aggregator {
	o := aggregatorOptions{pace: DefaultPace, concurrency: 1}
	for _, opt := range opts {
		opt(&o)
	}
	if o.concurrency < 1 {
		o.concurrency = 1
	}

	limit := rate.Inf
	if o.pace > 0 {
		limit = rate.Every(o.pace)
	}

	return &Aggregator{
		source:      source,
		counter:     NewCounter(source, logger, o.callTimeout),
		logger:      logger,
		pacer:       rate.NewLimiter(limit, 1),
		concurrency: o.concurrency,
		callTimeout: o.callTimeout,
	}
}

// Aggregate counts contributions for every distinct repository among links.
// It never fails: links that cannot be classified or resolved are logged and
// skipped. The first successfully resolved link of a repository wins, and the
// result keeps that first-resolution order.
func (a *Aggregator) Aggregate(ctx context.Context, links []string, includeMergeCommits bool) *domain.RepoCounts {
	a.logger.Infof("Usecase: counting contributions from %d links...", len(links))

	var (
		targets   []domain.LinkDescriptor
		counts    = make([]int, len(links))
		processed = make(map[string]struct{})
		eg        errgroup.Group
	)
	eg.SetLimit(a.concurrency)

	for _, link := range links {
		if strings.TrimSpace(link) == "" {
			continue
		}
		target, ok := a.resolve(ctx, link, processed)
		if !ok {
			continue
		}
		i := len(targets)
		targets = append(targets, target)

		if a.concurrency == 1 {
			counts[i] = a.count(ctx, target, includeMergeCommits)
			continue
		}
		eg.Go(func() error {
			counts[i] = a.count(ctx, target, includeMergeCommits)
			return nil
		})
	}
	_ = eg.Wait()

	result := domain.NewRepoCounts()
	for i, target := range targets {
		result.Set(target.RepositoryKey(), counts[i])
		a.logger.Infof("%s: %d %s", target.RepositoryKey(), counts[i], target.Kind.Label())
	}
	a.logger.Infof("Usecase: counted %d repositories.", result.Len())
	return result
}

// resolve classifies link and fills in its user. It marks the repository as
// processed on success.
func (a *Aggregator) resolve(ctx context.Context, link string, processed map[string]struct{}) (domain.LinkDescriptor, bool) {
	d, err := domain.Classify(link)
	if err != nil {
		a.logger.WithError(err).Warnf("Skipping link %s", link)
		return domain.LinkDescriptor{}, false
	}

	key := d.RepositoryKey()
	if _, ok := processed[key]; ok {
		a.logger.Debugf("Repository %s already counted, skipping %s", key, link)
		return domain.LinkDescriptor{}, false
	}

	user, err := a.resolveUser(ctx, d)
	if err != nil {
		a.logger.WithError(err).Warnf("Unable to determine the user of link %s, skipping it", link)
		return domain.LinkDescriptor{}, false
	}
	d.User = user
	processed[key] = struct{}{}
	return d, true
}

func (a *Aggregator) resolveUser(ctx context.Context, d domain.LinkDescriptor) (string, error) {
	if d.HasUser() {
		return d.User, nil
	}
	if d.Kind != domain.KindPullRequest || d.PullNumber == 0 {
		return "", fmt.Errorf("%w: no author qualifier or pull request number", domain.ErrUnresolvableUser)
	}

	a.pace(ctx)
	if a.callTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.callTimeout)
		defer cancel()
	}
	pr, err := a.source.GetPullRequest(ctx, d.Owner, d.Repo, d.PullNumber)
	if err != nil {
		return "", fmt.Errorf("%w: %w", domain.ErrUnresolvableUser, err)
	}
	if pr == nil || pr.AuthorLogin == "" {
		return "", fmt.Errorf("%w: pull request #%d has no author", domain.ErrUnresolvableUser, d.PullNumber)
	}
	return pr.AuthorLogin, nil
}

func (a *Aggregator) count(ctx context.Context, d domain.LinkDescriptor, includeMergeCommits bool) int {
	a.pace(ctx)
	a.logger.Infof("Counting %s of %s in %s...", d.Kind.Label(), d.User, d.RepositoryKey())
	if d.Kind == domain.KindCommit {
		return a.counter.CountCommits(ctx, d.Owner, d.Repo, d.User, includeMergeCommits)
	}
	return a.counter.CountPullRequests(ctx, d.Owner, d.Repo, d.User)
}

// pace blocks until the next external call may start. A cancelled context
// returns at once; the call that follows fails on its own.
func (a *Aggregator) pace(ctx context.Context) {
	if err := a.pacer.Wait(ctx); err != nil {
		a.logger.WithError(err).Debug("Pacing interrupted")
	}
}
