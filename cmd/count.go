package cmd

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/naka-gawa/github-contrib-badges/internal/badge"
	"github.com/naka-gawa/github-contrib-badges/internal/clierr"
	"github.com/naka-gawa/github-contrib-badges/internal/config"
	"github.com/naka-gawa/github-contrib-badges/internal/domain"
	"github.com/naka-gawa/github-contrib-badges/internal/gateway"
	"github.com/naka-gawa/github-contrib-badges/internal/logging"
	"github.com/naka-gawa/github-contrib-badges/internal/report"
	"github.com/naka-gawa/github-contrib-badges/internal/usecase"
)

// reportName prefixes the files written to --output-dir.
const reportName = "contrib"

type countOptions struct {
	links               []string
	linksFile           string
	style               string
	format              string
	sortByCount         bool
	includeMergeCommits bool
	pace                time.Duration
	concurrency         int
	callTimeout         time.Duration
	outputDir           string
	failOnEmpty         bool
}

func newCountCmd() *cobra.Command {
	opts := &countOptions{}
	cmd := &cobra.Command{
		Use:   "count [links...]",
		Short: "Counts contributions behind GitHub links and renders badges",
		Long: `Counts the pull requests or commits of the user behind each link, per repository,
and prints the result as badges.

Links are taken from the arguments, --links and --links-file. Without any of these
the INPUT_PR-LINKS environment variable (the GitHub Action input) is used.
Supported links:
  https://github.com/<owner>/<repo>/pull/<number>
  https://github.com/<owner>/<repo>/pulls?q=is:pr+author:<user>
  https://github.com/<owner>/<repo>/commits?author=<user>`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCount(cmd, opts, args)
		},
	}

	formats := make([]string, 0, len(badge.Formats))
	for _, format := range badge.Formats {
		formats = append(formats, string(format))
	}

	f := cmd.Flags()
	f.StringArrayVarP(&opts.links, "links", "l", nil, "GitHub link to count (repeatable)")
	f.StringVarP(&opts.linksFile, "links-file", "f", "", "File with links, one per line, or a YAML list")
	f.StringVar(&opts.style, "style", badge.DefaultStyle, "Badge style ("+strings.Join(badge.Styles, ", ")+")")
	f.StringVarP(&opts.format, "format", "o", string(badge.FormatMarkdown), "Output format ("+strings.Join(formats, ", ")+")")
	f.BoolVar(&opts.sortByCount, "sort-by-count", true, "Sort repositories by count, highest first")
	f.BoolVar(&opts.includeMergeCommits, "include-merge-commits", true, "Count commits whose message starts with \"Merge\"")
	f.DurationVar(&opts.pace, "pace", usecase.DefaultPace, "Minimum delay between API calls (0 disables pacing)")
	f.IntVar(&opts.concurrency, "concurrency", 1, "Number of repositories counted in parallel")
	f.DurationVar(&opts.callTimeout, "call-timeout", 30*time.Second, "Timeout of a single API call (0 disables it)")
	f.StringVar(&opts.outputDir, "output-dir", "", "Directory to write badges, data, logs and a report to")
	f.BoolVar(&opts.failOnEmpty, "fail-on-empty", false, "Exit with an error when no repository could be counted")

	return cmd
}

// apply overrides cfg with the flags that were set and returns the links to count.
func (o *countOptions) apply(cmd *cobra.Command, cfg *config.Config, args []string) ([]string, error) {
	f := cmd.Flags()
	if f.Changed("style") {
		cfg.BadgeStyle = o.style
	}
	if f.Changed("format") {
		cfg.OutputFormat = o.format
	}
	if f.Changed("sort-by-count") {
		cfg.SortByCount = o.sortByCount
	}
	if f.Changed("include-merge-commits") {
		cfg.IncludeMergeCommits = o.includeMergeCommits
	}
	if f.Changed("pace") {
		cfg.Pace = o.pace
	}
	if f.Changed("concurrency") {
		cfg.Concurrency = o.concurrency
	}
	if f.Changed("call-timeout") {
		cfg.CallTimeout = o.callTimeout
	}
	if f.Changed("output-dir") {
		cfg.OutputDir = o.outputDir
	}
	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		cfg.LogLevel = "debug"
	}

	links := append([]string{}, args...)
	links = append(links, o.links...)
	if o.linksFile != "" {
		fromFile, err := config.ReadLinksFile(o.linksFile)
		if err != nil {
			return nil, err
		}
		links = append(links, fromFile...)
	}
	if len(links) == 0 {
		links = config.SplitLinks(cfg.Links)
	}
	if len(links) == 0 {
		return nil, errors.New("no links provided")
	}
	return links, nil
}

func runCount(cmd *cobra.Command, opts *countOptions, args []string) error {
	ctx := cmd.Context()

	loader := config.NewLoader()
	cfg, err := loader.Load()
	if err != nil {
		return clierr.Usage("failed to load configuration", err)
	}
	links, err := opts.apply(cmd, cfg, args)
	if err != nil {
		return clierr.Usage("invalid arguments", err)
	}
	if err := loader.Check(cfg); err != nil {
		return clierr.Usage("invalid configuration", err)
	}

	logger, journal := logging.New(logging.Options{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
		Writer: cmd.ErrOrStderr(),
	})

	// Inject dependencies and run the main business logic.
	githubGateway, err := newGateway(cfg, logger)
	if err != nil {
		return clierr.Usage("failed to create GitHub gateway", err)
	}
	aggregator := usecase.NewAggregator(githubGateway, logger,
		usecase.WithPace(cfg.Pace),
		usecase.WithConcurrency(cfg.Concurrency),
		usecase.WithCallTimeout(cfg.CallTimeout),
	)

	kind := domain.DetectKind(links)
	logger.WithFields(logrus.Fields{"links": len(links), "kind": kind.String()}).Info("counting contributions")

	counts := aggregator.Aggregate(ctx, links, cfg.IncludeMergeCommits)
	if cfg.SortByCount {
		counts = counts.SortedByCount()
	}
	summary := usecase.Summarize(counts, kind)
	logger.WithField("total", summary.Total).Info(summary.Text())

	format := badge.Format(cfg.OutputFormat)
	badges, err := badge.NewRenderer(cfg.BadgeStyle).Render(counts, format, kind)
	if err != nil {
		return clierr.Wrap(clierr.CodeFailure, "failed to render badges", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), badges)

	result := report.Result{
		Badges:   badges,
		Format:   format,
		Summary:  summary,
		Counts:   counts,
		LogLines: journal.Lines(),
	}
	if cfg.GithubOutput != "" {
		outputs, err := result.Outputs()
		if err != nil {
			return clierr.Wrap(clierr.CodeFailure, "failed to build action outputs", err)
		}
		if err := report.WriteActionOutputs(cfg.GithubOutput, outputs); err != nil {
			return clierr.Wrap(clierr.CodeFailure, "failed to write action outputs", err)
		}
	}
	if cfg.OutputDir != "" {
		paths, err := report.NewWriter(cfg.OutputDir, reportName).Save(result)
		if err != nil {
			return clierr.Wrap(clierr.CodeFailure, "failed to write report", err)
		}
		logger.WithField("files", paths).Info("report written")
	}

	if warnings := journal.Warnings(); len(warnings) > 0 {
		logger.Warnf("Finished with %d warnings", len(warnings))
	}
	if opts.failOnEmpty && counts.Len() == 0 {
		return clierr.New(clierr.CodeFailure, "no repository could be counted")
	}
	return nil
}

func newGateway(cfg *config.Config, logger logrus.FieldLogger) (*gateway.GitHubGateway, error) {
	creds := gateway.Credentials{
		Token:             cfg.Token,
		AppClientID:       cfg.AppClientID,
		AppInstallationID: cfg.AppInstallationID,
	}
	if cfg.Token == "" && cfg.AppClientID != "" {
		key, err := cfg.PrivateKey()
		if err != nil {
			return nil, err
		}
		creds.AppPrivateKey = key
	}
	ts, err := gateway.TokenSource(creds)
	if err != nil {
		return nil, err
	}

	var opts []gateway.Option
	if cfg.APIURL != "" {
		opts = append(opts, gateway.WithBaseURL(cfg.APIURL))
	}
	if cfg.GraphQLURL != "" {
		opts = append(opts, gateway.WithGraphQLURL(cfg.GraphQLURL))
	}
	return gateway.NewGitHubGateway(ts, logger, opts...)
}
