package domain

import "fmt"

// Summary holds the aggregate figures of one run.
// It is what the CLI prints and what the report files carry.
type Summary struct {
	Kind         string  `json:"kind"`
	Repositories int     `json:"repositories"`
	Total        int     `json:"total"`
	Mean         float64 `json:"mean"`
	Median       float64 `json:"median"`
	Max          int     `json:"max"`
}

// Text is the one-line human readable summary.
func (s Summary) Text() string {
	return fmt.Sprintf("Total of %d %s across %d repositories", s.Total, s.Kind, s.Repositories)
}
