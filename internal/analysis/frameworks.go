package analysis

import (
	"fmt"
	"strings"

	"github.com/joelkehle/ethiguide/internal/dilemma"
)

const numFrameworks = 5

// Framework is one ethical lens applied to the dilemma.
type Framework struct {
	Name           string  `json:"name"`
	Description    string  `json:"description"`
	Analysis       string  `json:"analysis"`
	Recommendation string  `json:"recommendation"`
	Score          float64 `json:"score"`
}

type frameworkTemplate struct {
	name           string
	description    string
	analysis       string // %s is the lower-cased category
	recommendation string
}

var frameworkOrder = [numFrameworks]frameworkTemplate{
	{
		name:           "Utilitarianism",
		description:    "Judges actions by their consequences for the overall well-being of everyone affected.",
		analysis:       "Weighs the aggregate benefits and harms this %s decision produces across all affected parties.",
		recommendation: "Choose the option that produces the greatest net benefit for the largest number of stakeholders.",
	},
	{
		name:           "Deontology",
		description:    "Judges actions by whether they respect duties, rules and rights, regardless of outcome.",
		analysis:       "Examines which duties and obligations this %s situation places on the decision-maker.",
		recommendation: "Act only in ways you could accept as a universal rule, and honour the obligations you hold.",
	},
	{
		name:           "Virtue Ethics",
		description:    "Asks what a person of good character would do in the same circumstances.",
		analysis:       "Considers which response to this %s dilemma best expresses honesty, courage and practical wisdom.",
		recommendation: "Act as the person you aspire to be, choosing the response that reflects integrity.",
	},
	{
		name:           "Care Ethics",
		description:    "Centres relationships, dependency and responsiveness to the needs of others.",
		analysis:       "Looks at how this %s decision affects the relationships and vulnerable parties involved.",
		recommendation: "Give priority to maintaining trust and meeting the needs of those who depend on you.",
	},
	{
		name:           "Justice & Fairness",
		description:    "Focuses on the fair distribution of benefits and burdens and on equal treatment.",
		analysis:       "Checks whether this %s choice distributes benefits and burdens fairly among those affected.",
		recommendation: "Treat comparable cases alike and avoid placing disproportionate burdens on any group.",
	},
}

// EthicalView is the content of the ethical-analysis step.
type EthicalView struct {
	Dilemma    dilemma.Dilemma `json:"-"`
	Frameworks []Framework     `json:"frameworks"`
	// Top is the index of the highest-scoring framework; ties go to the
	// earlier one.
	Top int `json:"top"`
}

func EthicalAnalysis(d dilemma.Dilemma) EthicalView {
	p := profileFor(d.Category)
	label := strings.ToLower(string(d.Category))
	if !d.Category.Known() {
		label = "ethical"
	}
	view := EthicalView{Dilemma: d, Frameworks: make([]Framework, 0, numFrameworks)}
	for i, tpl := range frameworkOrder {
		view.Frameworks = append(view.Frameworks, Framework{
			Name:           tpl.name,
			Description:    tpl.description,
			Analysis:       fmt.Sprintf(tpl.analysis, label),
			Recommendation: tpl.recommendation,
			Score:          p.scores[i],
		})
		if p.scores[i] > p.scores[view.Top] {
			view.Top = i
		}
	}
	return view
}

// OverallScore is the mean framework score.
func (v EthicalView) OverallScore() float64 {
	if len(v.Frameworks) == 0 {
		return 0
	}
	var sum float64
	for _, f := range v.Frameworks {
		sum += f.Score
	}
	return sum / float64(len(v.Frameworks))
}

func (v EthicalView) Markdown() string {
	var b strings.Builder
	fmt.Fprintf(&b, "## Ethical Framework Analysis\n\n")
	fmt.Fprintf(&b, "Examining **%s** through five established ethical frameworks.\n\n", inline(v.Dilemma.Title))
	top := v.Frameworks[v.Top]
	fmt.Fprintf(&b, "Strongest lens: **%s** (%.1f/10). Overall alignment: %.1f/10.\n\n", top.Name, top.Score, v.OverallScore())
	for _, f := range v.Frameworks {
		fmt.Fprintf(&b, "### %s — %.1f/10\n\n", f.Name, f.Score)
		fmt.Fprintf(&b, "%s\n\n", f.Description)
		fmt.Fprintf(&b, "- Analysis: %s\n", f.Analysis)
		fmt.Fprintf(&b, "- Guidance: %s\n\n", f.Recommendation)
	}
	if len(v.Dilemma.Values) > 0 {
		fmt.Fprintf(&b, "### Values at Stake\n\n")
		for _, val := range v.Dilemma.Values {
			fmt.Fprintf(&b, "- %s\n", inline(val))
		}
		b.WriteString("\n")
	}
	if len(v.Dilemma.Constraints) > 0 {
		fmt.Fprintf(&b, "### Constraints\n\n")
		for _, c := range v.Dilemma.Constraints {
			fmt.Fprintf(&b, "- %s\n", inline(c))
		}
		b.WriteString("\n")
	}
	return b.String()
}
