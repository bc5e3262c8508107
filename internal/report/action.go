package report

import (
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
)

// Output is a single GitHub Actions step output.
type Output struct {
	Name  string
	Value string
}

// WriteActionOutputs appends outputs to the $GITHUB_OUTPUT file at path using
// the multiline heredoc syntax.
func WriteActionOutputs(path string, outputs []Output) error {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open GITHUB_OUTPUT: %w", err)
	}
	defer f.Close()

	var b strings.Builder
	for _, o := range outputs {
		delimiter := "ghadelimiter_" + uuid.NewString()
		// The delimiter must not occur in the value.
		for strings.Contains(o.Value, delimiter) {
			delimiter = "ghadelimiter_" + uuid.NewString()
		}
		fmt.Fprintf(&b, "%s<<%s\n%s\n%s\n", o.Name, delimiter, o.Value, delimiter)
	}
	if _, err := f.WriteString(b.String()); err != nil {
		return fmt.Errorf("failed to write GITHUB_OUTPUT: %w", err)
	}
	return f.Close()
}
