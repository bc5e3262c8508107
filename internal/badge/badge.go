// Package badge renders repository counts as shields.io badges in markdown,
// HTML, JSON or a markdown table.
package badge

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/naka-gawa/github-contrib-badges/internal/domain"
)

const (
	DefaultBaseURL = "https://img.shields.io/badge"
	DefaultStyle   = "flat"

	repoBaseURL = "https://github.com/"
)

// Format is an output format.
type Format string

const (
	FormatMarkdown Format = "markdown"
	FormatHTML     Format = "html"
	FormatJSON     Format = "json"
	FormatTable    Format = "table"
)

// Formats lists the supported formats.
var Formats = []Format{FormatMarkdown, FormatHTML, FormatJSON, FormatTable}

// Styles lists the shields.io styles accepted by the renderer.
var Styles = []string{"flat", "flat-square", "plastic", "for-the-badge", "social"}

// Extension returns the file extension used when saving output of format f.
func (f Format) Extension() string {
	switch f {
	case FormatHTML:
		return "html"
	case FormatJSON:
		return "json"
	default:
		return "md"
	}
}

// Entry is one element of the JSON output.
type Entry struct {
	Repository string  `json:"repository"`
	Count      int     `json:"count"`
	BadgeURL   string  `json:"badgeUrl"`
	RepoURL    *string `json:"repoUrl"`
}

// Renderer builds badge URLs and documents.
type Renderer struct {
	style   string
	baseURL string
}

// NewRenderer creates a Renderer for style. An empty style means flat.
func NewRenderer(style string) *Renderer {
	if style == "" {
		style = DefaultStyle
	}
	return &Renderer{style: style, baseURL: DefaultBaseURL}
}

// Color picks the badge color for count.
func Color(count int) string {
	switch {
	case count == 0:
		return "lightgrey"
	case count <= 5:
		return "green"
	case count <= 15:
		return "brightgreen"
	case count <= 30:
		return "yellow"
	case count <= 50:
		return "orange"
	default:
		return "red"
	}
}

// URL returns the badge image URL for one repository.
func (r *Renderer) URL(repo string, count int, kind domain.Kind) string {
	message := fmt.Sprintf("%d %s", count, kind.Label())
	return r.url(repo, message, Color(count))
}

// SummaryURL returns the badge image URL of the total over all repositories.
func (r *Renderer) SummaryURL(counts *domain.RepoCounts, kind domain.Kind) string {
	total := counts.Total()
	label := "Total " + kind.Label()
	message := fmt.Sprintf("%d in %d repos", total, counts.Len())
	return r.url(label, message, Color(total))
}

func (r *Renderer) url(label, message, color string) string {
	return fmt.Sprintf("%s/%s-%s-%s?style=%s", r.baseURL, escape(label), escape(message), color, url.QueryEscape(r.style))
}

// escape encodes a badge path segment. Dashes and underscores are doubled
// because shields.io uses them as separators.
func escape(s string) string {
	s = strings.ReplaceAll(s, "-", "--")
	s = strings.ReplaceAll(s, "_", "__")
	return url.PathEscape(s)
}

// Markdown renders a linked markdown badge.
func (r *Renderer) Markdown(repo string, count int, kind domain.Kind) string {
	return fmt.Sprintf("[![%s %s](%s)](%s)", repo, kind.Label(), r.URL(repo, count, kind), repoBaseURL+repo)
}

// HTML renders a linked HTML badge.
func (r *Renderer) HTML(repo string, count int, kind domain.Kind) string {
	return fmt.Sprintf(`<a href="%s"><img src="%s" alt="%s %s"></a>`, repoBaseURL+repo, r.URL(repo, count, kind), repo, kind.Label())
}

// Render renders counts in format. With more than one repository a summary
// badge comes first (markdown, HTML, JSON) or a total row last (table).
func (r *Renderer) Render(counts *domain.RepoCounts, format Format, kind domain.Kind) (string, error) {
	switch format {
	case FormatMarkdown, "":
		return r.renderMarkdown(counts, kind), nil
	case FormatHTML:
		return r.renderHTML(counts, kind), nil
	case FormatJSON:
		return r.renderJSON(counts, kind)
	case FormatTable:
		return r.Table(counts, kind), nil
	default:
		return "", fmt.Errorf("unsupported output format %q", format)
	}
}

func (r *Renderer) renderMarkdown(counts *domain.RepoCounts, kind domain.Kind) string {
	var badges []string
	if counts.Len() > 1 {
		badges = append(badges, fmt.Sprintf("![Total %s](%s)", kind.Label(), r.SummaryURL(counts, kind)))
	}
	for _, e := range counts.Entries() {
		badges = append(badges, r.Markdown(e.Repository, e.Count, kind))
	}
	return strings.Join(badges, "\n\n")
}

func (r *Renderer) renderHTML(counts *domain.RepoCounts, kind domain.Kind) string {
	var badges []string
	if counts.Len() > 1 {
		badges = append(badges, fmt.Sprintf(`<img src="%s" alt="Total %s">`, r.SummaryURL(counts, kind), kind.Label()))
	}
	for _, e := range counts.Entries() {
		badges = append(badges, r.HTML(e.Repository, e.Count, kind))
	}
	return strings.Join(badges, "\n")
}

func (r *Renderer) renderJSON(counts *domain.RepoCounts, kind domain.Kind) (string, error) {
	entries := make([]Entry, 0, counts.Len()+1)
	if counts.Len() > 1 {
		entries = append(entries, Entry{
			Repository: "SUMMARY",
			Count:      counts.Total(),
			BadgeURL:   r.SummaryURL(counts, kind),
		})
	}
	for _, e := range counts.Entries() {
		repoURL := repoBaseURL + e.Repository
		entries = append(entries, Entry{
			Repository: e.Repository,
			Count:      e.Count,
			BadgeURL:   r.URL(e.Repository, e.Count, kind),
			RepoURL:    &repoURL,
		})
	}
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal badges: %w", err)
	}
	return string(data), nil
}

// Table renders counts as a markdown table with a badge column.
func (r *Renderer) Table(counts *domain.RepoCounts, kind domain.Kind) string {
	var b strings.Builder
	fmt.Fprintf(&b, "| Repository | %s | Badge |\n", kind.Label())
	b.WriteString("|------------|------|-------|\n")
	for _, e := range counts.Entries() {
		fmt.Fprintf(&b, "| [%s](%s) | %d | ![%s](%s) |\n", e.Repository, repoBaseURL+e.Repository, e.Count, e.Repository, r.URL(e.Repository, e.Count, kind))
	}
	if counts.Len() > 1 {
		fmt.Fprintf(&b, "| **Total** | **%d** | ![Total](%s) |\n", counts.Total(), r.SummaryURL(counts, kind))
	}
	return b.String()
}
