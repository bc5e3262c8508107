package gateway

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"

	"github.com/google/go-github/v62/github"
	"github.com/shurcooL/githubv4"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/naka-gawa/github-contrib-badges/internal/domain"
)

// setupTestGateway creates a GitHubGateway that communicates with a mock HTTP server.
func setupTestGateway(t *testing.T, handler http.Handler) (*GitHubGateway, *httptest.Server) {
	server := httptest.NewServer(handler)

	// Setup REST client to point to the mock server.
	restClient := github.NewClient(server.Client())
	baseURL, err := url.Parse(server.URL + "/")
	require.NoError(t, err)
	restClient.BaseURL = baseURL

	// GraphQL requests are POSTed to the server root.
	graphqlClient := githubv4.NewEnterpriseClient(server.URL, server.Client())
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	gateway, err := newGateway(restClient, graphqlClient, logger, 16)
	require.NoError(t, err)
	return gateway, server
}

func TestGitHubGateway_ListPullRequests(t *testing.T) {
	testCases := []struct {
		name           string
		handlerFunc    func(w http.ResponseWriter, r *http.Request)
		expected       []domain.PullRequest
		expectError    bool
		expectedErrMsg string
	}{
		{
			name: "happy path - returns authors of the page",
			handlerFunc: func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/repos/o/r/pulls", r.URL.Path)
				assert.Equal(t, "all", r.URL.Query().Get("state"))
				assert.Equal(t, "2", r.URL.Query().Get("page"))
				assert.Equal(t, "100", r.URL.Query().Get("per_page"))
				fmt.Fprint(w, `[{"number": 1, "user": {"login": "alice"}}, {"number": 2, "user": {"login": "bob"}}]`)
			},
			expected: []domain.PullRequest{
				{Number: 1, AuthorLogin: "alice"},
				{Number: 2, AuthorLogin: "bob"},
			},
		},
		{
			name: "error case - GitHub API returns an error",
			handlerFunc: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusNotFound)
				fmt.Fprint(w, `{"message": "Not Found"}`)
			},
			expectError:    true,
			expectedErrMsg: "list pull requests o/r",
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			gateway, server := setupTestGateway(t, http.HandlerFunc(tc.handlerFunc))
			defer server.Close()

			pulls, err := gateway.ListPullRequests(context.Background(), "o", "r", "all", 2, 100)
			if tc.expectError {
				require.Error(t, err)
				var fetchErr *domain.FetchError
				assert.ErrorAs(t, err, &fetchErr)
				assert.Contains(t, err.Error(), tc.expectedErrMsg)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expected, pulls)
		})
	}
}

func TestGitHubGateway_ListCommits(t *testing.T) {
	handler := func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/repos/o/r/commits", r.URL.Path)
		assert.Equal(t, "alice", r.URL.Query().Get("author"))
		assert.Equal(t, "1", r.URL.Query().Get("page"))
		fmt.Fprint(w, `[{"sha": "a1", "commit": {"message": "Fix bug"}}, {"sha": "b2", "commit": {"message": "Merge branch 'x'"}}]`)
	}
	gateway, server := setupTestGateway(t, http.HandlerFunc(handler))
	defer server.Close()

	commits, err := gateway.ListCommits(context.Background(), "o", "r", "alice", 1, 100)
	require.NoError(t, err)
	assert.Equal(t, []domain.Commit{
		{SHA: "a1", Message: "Fix bug"},
		{SHA: "b2", Message: "Merge branch 'x'"},
	}, commits)
}

func TestGitHubGateway_GetPullRequest(t *testing.T) {
	var calls atomic.Int32
	handler := func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		assert.Contains(t, string(body), "pullRequest(number: $number)")
		assert.Contains(t, string(body), `"number":7`)
		fmt.Fprint(w, `{"data":{"repository":{"pullRequest":{"number":7,"author":{"login":"alice"}}}}}`)
	}
	gateway, server := setupTestGateway(t, http.HandlerFunc(handler))
	defer server.Close()

	pr, err := gateway.GetPullRequest(context.Background(), "o", "r", 7)
	require.NoError(t, err)
	assert.Equal(t, "alice", pr.AuthorLogin)

	// The second lookup is served from the cache.
	pr, err = gateway.GetPullRequest(context.Background(), "o", "r", 7)
	require.NoError(t, err)
	assert.Equal(t, "alice", pr.AuthorLogin)
	assert.Equal(t, int32(1), calls.Load())
}

func TestGitHubGateway_GetPullRequest_Errors(t *testing.T) {
	testCases := []struct {
		name         string
		responseBody string
		expectError  bool
	}{
		{
			name:         "GraphQL error",
			responseBody: `{"errors":[{"message":"Could not resolve to a PullRequest with the number of 7."}]}`,
			expectError:  true,
		},
		{
			name:         "deleted author",
			responseBody: `{"data":{"repository":{"pullRequest":{"number":7,"author":null}}}}`,
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			handler := func(w http.ResponseWriter, r *http.Request) {
				fmt.Fprint(w, tc.responseBody)
			}
			gateway, server := setupTestGateway(t, http.HandlerFunc(handler))
			defer server.Close()

			pr, err := gateway.GetPullRequest(context.Background(), "o", "r", 7)
			if tc.expectError {
				var fetchErr *domain.FetchError
				assert.ErrorAs(t, err, &fetchErr)
				return
			}
			require.NoError(t, err)
			assert.Empty(t, pr.AuthorLogin)
		})
	}
}

func TestTokenSource(t *testing.T) {
	ts, err := TokenSource(Credentials{Token: "secret"})
	require.NoError(t, err)
	token, err := ts.Token()
	require.NoError(t, err)
	assert.Equal(t, "secret", token.AccessToken)

	_, err = TokenSource(Credentials{AppClientID: "Iv1.abc"})
	assert.Error(t, err)
}
