package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	testCases := []struct {
		name     string
		link     string
		expected LinkDescriptor
	}{
		{
			name:     "commit query link",
			link:     "https://github.com/vitejs/docs-cn/commits?author=lxKylin",
			expected: LinkDescriptor{Owner: "vitejs", Repo: "docs-cn", User: "lxKylin", Kind: KindCommit},
		},
		{
			name:     "commit query link with trailing parameters",
			link:     "https://github.com/o/r/commits?author=alice&since=2024-01-01&until=2024-12-31",
			expected: LinkDescriptor{Owner: "o", Repo: "r", User: "alice", Kind: KindCommit},
		},
		{
			name:     "commit query link with leading parameters and branch",
			link:     "https://github.com/o/r/commits/main?since=2024-01-01&author=alice",
			expected: LinkDescriptor{Owner: "o", Repo: "r", User: "alice", Kind: KindCommit},
		},
		{
			name:     "commit query link with encoded bot user",
			link:     "https://github.com/o/r/commits?author=dependabot%5Bbot%5D",
			expected: LinkDescriptor{Owner: "o", Repo: "r", User: "dependabot[bot]", Kind: KindCommit},
		},
		{
			name:     "single pull request link",
			link:     "https://github.com/owner/repo/pull/123",
			expected: LinkDescriptor{Owner: "owner", Repo: "repo", Kind: KindPullRequest, PullNumber: 123},
		},
		{
			name:     "pull request files tab",
			link:     "https://github.com/owner/repo/pull/9/files",
			expected: LinkDescriptor{Owner: "owner", Repo: "repo", Kind: KindPullRequest, PullNumber: 9},
		},
		{
			name:     "pulls search with author qualifier",
			link:     "https://github.com/owner/repo/pulls?q=is%3Apr+author%3Aoctocat",
			expected: LinkDescriptor{Owner: "owner", Repo: "repo", User: "octocat", Kind: KindPullRequest},
		},
		{
			name:     "author qualifier followed by more qualifiers",
			link:     "https://github.com/owner/repo/pulls?q=author%3Aoctocat+is%3Aclosed",
			expected: LinkDescriptor{Owner: "owner", Repo: "repo", User: "octocat", Kind: KindPullRequest},
		},
		{
			name:     "pulls link without qualifier",
			link:     "https://github.com/owner/repo/pulls",
			expected: LinkDescriptor{Owner: "owner", Repo: "repo", Kind: KindPullRequest},
		},
		{
			name:     "surrounding whitespace is ignored",
			link:     "   https://github.com/owner/repo/pull/1\t",
			expected: LinkDescriptor{Owner: "owner", Repo: "repo", Kind: KindPullRequest, PullNumber: 1},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Classify(tc.link)
			require.NoError(t, err)
			assert.Equal(t, tc.expected.Owner, got.Owner)
			assert.Equal(t, tc.expected.Repo, got.Repo)
			assert.Equal(t, tc.expected.User, got.User)
			assert.Equal(t, tc.expected.Kind, got.Kind)
			assert.Equal(t, tc.expected.PullNumber, got.PullNumber)
		})
	}
}

func TestClassify_Invalid(t *testing.T) {
	links := []string{
		"https://example.com/foo",
		"https://github.com/owner",
		"https://github.com/owner/repo",
		"https://github.com/owner/repo/issues/4",
		"https://github.com/owner/repo/commits?author=",
		"https://github.com/owner/repo/pullsomething",
		"https://github.com/own%2Fer/repo/pull/1",
		"",
	}
	for _, link := range links {
		t.Run(link, func(t *testing.T) {
			_, err := Classify(link)
			assert.ErrorIs(t, err, ErrInvalidLinkFormat)
		})
	}
}

func TestLinkDescriptor_RepositoryKey(t *testing.T) {
	d, err := Classify("https://github.com/a/b/pull/1")
	require.NoError(t, err)
	assert.Equal(t, "a/b", d.RepositoryKey())
	assert.False(t, d.HasUser())
}

func TestDetectKind(t *testing.T) {
	assert.Equal(t, KindPullRequest, DetectKind([]string{"https://github.com/a/b/pull/1"}))
	assert.Equal(t, KindCommit, DetectKind([]string{
		"https://github.com/a/b/pull/1",
		"https://github.com/a/c/commits?author=x",
	}))
	assert.Equal(t, KindPullRequest, DetectKind(nil))
	assert.Equal(t, "commits", KindCommit.Label())
	assert.Equal(t, "PRs", KindPullRequest.Label())
}
