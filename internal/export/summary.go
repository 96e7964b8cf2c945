package export

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/joelkehle/ethiguide/internal/analysis"
	"github.com/joelkehle/ethiguide/internal/dilemma"
)

// TimestampFormat matches JavaScript's Date.toISOString.
const TimestampFormat = "2006-01-02T15:04:05.000Z"

// Summary is the exported decision summary. Its field set is fixed.
type Summary struct {
	Dilemma             string                        `json:"dilemma"`
	Category            dilemma.Category              `json:"category"`
	Recommendation      string                        `json:"recommendation"`
	Framework           string                        `json:"framework"`
	Principles          []string                      `json:"principles"`
	ImplementationSteps []analysis.ImplementationStep `json:"implementationSteps"`
	Timestamp           string                        `json:"timestamp"`
}

func NewSummary(d dilemma.Dilemma, rec analysis.Recommendation, now time.Time) Summary {
	return Summary{
		Dilemma:             d.Title,
		Category:            d.Category,
		Recommendation:      rec.Primary,
		Framework:           rec.Framework,
		Principles:          append([]string(nil), rec.Principles...),
		ImplementationSteps: append([]analysis.ImplementationStep(nil), rec.ImplementationSteps...),
		Timestamp:           now.UTC().Format(TimestampFormat),
	}
}

// JSON renders the summary with two-space indentation.
func (s Summary) JSON() ([]byte, error) {
	blob, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal summary: %w", err)
	}
	return blob, nil
}

func (s Summary) Markdown() string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Ethical Decision Summary\n\n")
	fmt.Fprintf(&b, "- Dilemma: %s\n", analysis.InlineMarkdown(s.Dilemma))
	fmt.Fprintf(&b, "- Category: %s\n", s.Category)
	fmt.Fprintf(&b, "- Date: %s\n\n", s.Timestamp)
	fmt.Fprintf(&b, "## Recommendation\n\n%s.\n\n", s.Recommendation)
	fmt.Fprintf(&b, "Framework: **%s**\n\n", s.Framework)
	fmt.Fprintf(&b, "## Guiding Principles\n\n")
	for _, p := range s.Principles {
		fmt.Fprintf(&b, "- %s\n", p)
	}
	fmt.Fprintf(&b, "\n## Implementation Steps\n\n")
	fmt.Fprintf(&b, "| # | Step | Priority | Timeline |\n|---|---|---|---|\n")
	for _, st := range s.ImplementationSteps {
		fmt.Fprintf(&b, "| %d | **%s**: %s | %s | %s |\n", st.Step, st.Title, st.Description, st.Priority, st.Timeline)
	}
	return b.String()
}

var whitespaceRun = regexp.MustCompile(`\s+`)

// Filename is the download name for a summary of the dilemma titled title.
func Filename(title, ext string) string {
	return "ethical-decision-" + strings.ToLower(whitespaceRun.ReplaceAllString(title, "-")) + "." + ext
}
