// Package report persists the outcome of a run: a directory of report files
// and, inside GitHub Actions, the step outputs.
package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/template"
	"time"

	"github.com/naka-gawa/github-contrib-badges/internal/badge"
	"github.com/naka-gawa/github-contrib-badges/internal/domain"
)

// Result is everything a run produced.
type Result struct {
	Badges   string
	Format   badge.Format
	Summary  domain.Summary
	Counts   *domain.RepoCounts
	LogLines []string
}

// Outputs returns the step outputs of r in a stable order.
func (r Result) Outputs() ([]Output, error) {
	repoCounts, err := json.Marshal(r.Counts)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal repo counts: %w", err)
	}
	return []Output{
		{Name: "badges", Value: r.Badges},
		{Name: "summary", Value: r.Summary.Text()},
		{Name: "repo-counts", Value: string(repoCounts)},
	}, nil
}

type dataFile struct {
	Name       string             `json:"name"`
	Timestamp  string             `json:"timestamp"`
	Summary    domain.Summary     `json:"summary"`
	RepoCounts *domain.RepoCounts `json:"repoCounts"`
	Outputs    map[string]string  `json:"outputs"`
}

var reportTemplate = template.Must(template.New("report").Parse(`# Contribution report

- Generated: {{ .Timestamp }}
- Repositories: {{ .Summary.Repositories }}
- Total {{ .Summary.Kind }}: {{ .Summary.Total }}
- Mean per repository: {{ printf "%.2f" .Summary.Mean }}
- Median per repository: {{ printf "%.1f" .Summary.Median }}

## Summary
{{ .Summary.Text }}

## Repositories
{{ range .Counts.Entries }}- **{{ .Repository }}**: {{ .Count }} {{ $.Summary.Kind }}
{{ end }}
## Badges
{{ .Badges }}
`))

// Writer saves results as files named "<name>-<timestamp>-<part>.<ext>" in a directory.
type Writer struct {
	dir  string
	name string
	now  func() time.Time
}

// NewWriter creates a Writer for dir. name prefixes every file.
func NewWriter(dir, name string) *Writer {
	return &Writer{dir: dir, name: name, now: time.Now}
}

// Save writes the badges, data, logs and report files and returns their paths.
func (w *Writer) Save(r Result) ([]string, error) {
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	now := w.now().UTC()
	prefix := fmt.Sprintf("%s-%s", w.name, strings.NewReplacer(":", "-", ".", "-").Replace(now.Format(time.RFC3339Nano)))

	outputs, err := r.Outputs()
	if err != nil {
		return nil, err
	}
	outputMap := make(map[string]string, len(outputs))
	for _, o := range outputs {
		outputMap[o.Name] = o.Value
	}
	data, err := json.MarshalIndent(dataFile{
		Name:       w.name,
		Timestamp:  now.Format(time.RFC3339),
		Summary:    r.Summary,
		RepoCounts: r.Counts,
		Outputs:    outputMap,
	}, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal report data: %w", err)
	}

	var report strings.Builder
	if err := reportTemplate.Execute(&report, map[string]any{
		"Timestamp": now.Format(time.RFC3339),
		"Summary":   r.Summary,
		"Counts":    r.Counts,
		"Badges":    r.Badges,
	}); err != nil {
		return nil, fmt.Errorf("failed to render report: %w", err)
	}

	files := []struct {
		name    string
		content string
	}{
		{name: prefix + "-badges." + r.Format.Extension(), content: r.Badges},
		{name: prefix + "-data.json", content: string(data)},
		{name: prefix + "-logs.txt", content: strings.Join(r.LogLines, "\n")},
		{name: prefix + "-report.md", content: report.String()},
	}
	paths := make([]string, 0, len(files))
	for _, f := range files {
		path := filepath.Join(w.dir, f.name)
		if err := os.WriteFile(path, []byte(f.content), 0o644); err != nil {
			return nil, fmt.Errorf("failed to write %s: %w", path, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}
