package domain

import (
	"bytes"
	"encoding/json"
	"sort"
)

// RepoCount is a single repository entry of RepoCounts.
type RepoCount struct {
	Repository string `json:"repository"`
	Count      int    `json:"count"`
}

// RepoCounts is an insertion-ordered mapping from "owner/repo" to a
// contribution count.
type RepoCounts struct {
	keys   []string
	counts map[string]int
}

// NewRepoCounts creates an empty RepoCounts.
func NewRepoCounts() *RepoCounts {
	return &RepoCounts{counts: make(map[string]int)}
}

// Set stores count under key. A key keeps the position of its first Set.
func (r *RepoCounts) Set(key string, count int) {
	if _, ok := r.counts[key]; !ok {
		r.keys = append(r.keys, key)
	}
	r.counts[key] = count
}

// Get returns the count stored under key.
func (r *RepoCounts) Get(key string) (int, bool) {
	n, ok := r.counts[key]
	return n, ok
}

func (r *RepoCounts) Len() int {
	return len(r.keys)
}

// Keys returns the repository keys in order.
func (r *RepoCounts) Keys() []string {
	return append([]string(nil), r.keys...)
}

// Entries returns the entries in order.
func (r *RepoCounts) Entries() []RepoCount {
	out := make([]RepoCount, 0, len(r.keys))
	for _, k := range r.keys {
		out = append(out, RepoCount{Repository: k, Count: r.counts[k]})
	}
	return out
}

// Total is the sum of all counts.
func (r *RepoCounts) Total() int {
	total := 0
	for _, n := range r.counts {
		total += n
	}
	return total
}

// SortedByCount returns a copy ordered by descending count. Ties keep their
// original relative order.
func (r *RepoCounts) SortedByCount() *RepoCounts {
	entries := r.Entries()
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Count > entries[j].Count
	})
	out := NewRepoCounts()
	for _, e := range entries {
		out.Set(e.Repository, e.Count)
	}
	return out
}

// MarshalJSON encodes the counts as a JSON object whose member order matches
// the insertion order.
func (r *RepoCounts) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range r.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		val, err := json.Marshal(r.counts[k])
		if err != nil {
			return nil, err
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
