// Package domain contains the core data structures and domain logic for the application.
package domain

import (
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"
)

// Kind is the contribution kind a link refers to.
type Kind int

const (
	KindPullRequest Kind = iota
	KindCommit
)

func (k Kind) String() string {
	if k == KindCommit {
		return "commit"
	}
	return "pull_request"
}

// Label is the plural noun used in badges and summaries.
func (k Kind) Label() string {
	if k == KindCommit {
		return "commits"
	}
	return "PRs"
}

// LinkDescriptor is the typed form of a contribution link.
type LinkDescriptor struct {
	Link  string
	Owner string
	Repo  string
	// User is empty when the link does not name one.
	User string
	Kind Kind
	// PullNumber is set for /pull/<number> links, 0 otherwise.
	PullNumber int
}

// RepositoryKey returns the "owner/repo" deduplication key.
func (d LinkDescriptor) RepositoryKey() string {
	return d.Owner + "/" + d.Repo
}

// HasUser reports whether the link named its user.
func (d LinkDescriptor) HasUser() bool {
	return d.User != ""
}

var (
	commitLinkPattern = regexp.MustCompile(`^https?://(?:www\.)?github\.com/([^/?#]+)/([^/?#]+)/commits(?:/[^?#]*)?\?([^#]*)`)
	pullLinkPattern   = regexp.MustCompile(`^https?://(?:www\.)?github\.com/([^/?#]+)/([^/?#]+)/(?:pull(?:/(\d+))?|pulls)(?:[/?#]|$)`)
	authorQualifier   = regexp.MustCompile(`author(?:%3[Aa]|:)`)
)

// Classify parses a raw link into a LinkDescriptor. The commit-query shape is
// tested before the pull-request shape.
func Classify(link string) (LinkDescriptor, error) {
	link = strings.TrimSpace(link)

	if m := commitLinkPattern.FindStringSubmatch(link); m != nil {
		if user := queryParam(m[3], "author"); user != "" {
			owner, repo, err := decodeRepo(m[1], m[2])
			if err != nil {
				return LinkDescriptor{}, fmt.Errorf("%w: %s", ErrInvalidLinkFormat, link)
			}
			return LinkDescriptor{Link: link, Owner: owner, Repo: repo, User: user, Kind: KindCommit}, nil
		}
	}

	m := pullLinkPattern.FindStringSubmatch(link)
	if m == nil {
		return LinkDescriptor{}, fmt.Errorf("%w: %s", ErrInvalidLinkFormat, link)
	}
	owner, repo, err := decodeRepo(m[1], m[2])
	if err != nil {
		return LinkDescriptor{}, fmt.Errorf("%w: %s", ErrInvalidLinkFormat, link)
	}
	d := LinkDescriptor{Link: link, Owner: owner, Repo: repo, Kind: KindPullRequest}
	if m[3] != "" {
		// The pattern only admits digits; overflow is the only failure.
		if n, err := strconv.Atoi(m[3]); err == nil {
			d.PullNumber = n
		}
	}
	if _, query, ok := strings.Cut(link, "?"); ok {
		d.User = authorFromSearch(query)
	}
	return d, nil
}

// DetectKind returns KindCommit if any link is a commit-query link.
func DetectKind(links []string) Kind {
	for _, link := range links {
		if d, err := Classify(link); err == nil && d.Kind == KindCommit {
			return KindCommit
		}
	}
	return KindPullRequest
}

func decodeRepo(rawOwner, rawRepo string) (string, string, error) {
	owner, err := url.PathUnescape(rawOwner)
	if err != nil {
		return "", "", err
	}
	repo, err := url.PathUnescape(rawRepo)
	if err != nil {
		return "", "", err
	}
	if owner == "" || repo == "" || strings.Contains(owner, "/") || strings.Contains(repo, "/") {
		return "", "", fmt.Errorf("invalid repository segments %q/%q", rawOwner, rawRepo)
	}
	return owner, repo, nil
}

// queryParam returns the decoded value of key from a raw query string.
func queryParam(rawQuery, key string) string {
	for _, pair := range strings.Split(rawQuery, "&") {
		k, v, ok := strings.Cut(pair, "=")
		if !ok || k != key {
			continue
		}
		decoded, err := url.QueryUnescape(v)
		if err != nil {
			return ""
		}
		return strings.TrimSpace(decoded)
	}
	return ""
}

// authorFromSearch extracts the user of an author: search qualifier embedded
// in a pulls search query, e.g. q=is%3Apr+author%3Aoctocat.
func authorFromSearch(rawQuery string) string {
	loc := authorQualifier.FindStringIndex(rawQuery)
	if loc == nil {
		return ""
	}
	rest := rawQuery[loc[1]:]
	if i := strings.IndexAny(rest, "&+#"); i >= 0 {
		rest = rest[:i]
	}
	if i := strings.Index(rest, "%20"); i >= 0 {
		rest = rest[:i]
	}
	user, err := url.QueryUnescape(rest)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(user)
}
