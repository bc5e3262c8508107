package domain

// PullRequest is the subset of a GitHub pull request the counters need.
type PullRequest struct {
	Number      int
	AuthorLogin string
}

// Commit is the subset of a GitHub commit the counters need.
type Commit struct {
	SHA     string
	Message string
}
