package usecase

import (
	"context"
	"fmt"

	"github.com/stretchr/testify/mock"

	"github.com/naka-gawa/github-contrib-badges/internal/domain"
)

// mockSource is a mock implementation of the gateway.Source interface.
// It allows us to simulate the GitHub gateway without making real API calls.
type mockSource struct {
	mock.Mock
}

func (m *mockSource) ListPullRequests(ctx context.Context, owner, repo, state string, page, perPage int) ([]domain.PullRequest, error) {
	args := m.Called(ctx, owner, repo, state, page, perPage)
	// The returned slice is nil when an error occurs.
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.PullRequest), args.Error(1)
}

func (m *mockSource) ListCommits(ctx context.Context, owner, repo, author string, page, perPage int) ([]domain.Commit, error) {
	args := m.Called(ctx, owner, repo, author, page, perPage)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Commit), args.Error(1)
}

func (m *mockSource) GetPullRequest(ctx context.Context, owner, repo string, number int) (*domain.PullRequest, error) {
	args := m.Called(ctx, owner, repo, number)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PullRequest), args.Error(1)
}

func pullsBy(n int, login string) []domain.PullRequest {
	pulls := make([]domain.PullRequest, n)
	for i := range pulls {
		pulls[i] = domain.PullRequest{Number: i + 1, AuthorLogin: login}
	}
	return pulls
}

func commitsWith(messages ...string) []domain.Commit {
	commits := make([]domain.Commit, len(messages))
	for i, msg := range messages {
		commits[i] = domain.Commit{SHA: fmt.Sprintf("sha%d", i), Message: msg}
	}
	return commits
}

func commitsN(n int) []domain.Commit {
	msgs := make([]string, n)
	for i := range msgs {
		msgs[i] = fmt.Sprintf("Change %d", i)
	}
	return commitsWith(msgs...)
}
