package analysis

import (
	"fmt"
	"strings"

	"github.com/joelkehle/ethiguide/internal/dilemma"
)

type Impact string

const (
	ImpactPositive Impact = "positive"
	ImpactNegative Impact = "negative"
	ImpactNeutral  Impact = "neutral"
)

var impactCycle = [3]Impact{ImpactPositive, ImpactNegative, ImpactNeutral}

func impactAt(index int) Impact {
	return impactCycle[index%len(impactCycle)]
}

var baseConcerns = []string{
	"Fairness and equity in treatment",
	"Transparency in decision-making process",
	"Long-term consequences of actions",
	"Respect for individual rights",
	"Economic or financial implications",
}

var stakeholderRecommendations = []string{
	"Prioritize high-importance stakeholders in your decision-making process",
	"Consider mitigation strategies for negatively impacted parties",
	"Engage in transparent communication with all affected stakeholders",
	"Monitor long-term effects on relationships and trust",
}

type Stakeholder struct {
	Name         string   `json:"name"`
	Relationship string   `json:"relationship"`
	Impact       Impact   `json:"impact"`
	Importance   int      `json:"importance"`
	Concerns     []string `json:"concerns"`
	Implicit     bool     `json:"implicit"`
}

// ImportanceBand classifies importance for display: high (8+), elevated (7) or moderate.
func (s Stakeholder) ImportanceBand() string {
	switch {
	case s.Importance >= 8:
		return "high"
	case s.Importance >= 7:
		return "elevated"
	default:
		return "moderate"
	}
}

type StakeholderView struct {
	Dilemma         dilemma.Dilemma `json:"-"`
	Stakeholders    []Stakeholder   `json:"stakeholders"`
	Recommendations []string        `json:"recommendations"`
}

// StakeholderAnalysis lists the user's stakeholders in order followed by the
// category's implicit stakeholders. Relationships, importance and concerns are
// drawn from f.
func StakeholderAnalysis(d dilemma.Dilemma, f Flavor) StakeholderView {
	p := profileFor(d.Category)
	view := StakeholderView{
		Dilemma:         d,
		Stakeholders:    make([]Stakeholder, 0, len(d.Stakeholders)+len(p.implicit)),
		Recommendations: append([]string(nil), stakeholderRecommendations...),
	}
	for i, name := range d.Stakeholders {
		view.Stakeholders = append(view.Stakeholders, Stakeholder{
			Name:         name,
			Relationship: pick(f, p.relationships),
			Impact:       impactAt(i),
			Importance:   between(f, 7, 9),
			Concerns:     drawConcerns(f, p),
		})
	}
	for i, imp := range p.implicit {
		view.Stakeholders = append(view.Stakeholders, Stakeholder{
			Name:         imp.name,
			Relationship: imp.relationship,
			Impact:       impactAt(i + 10),
			Importance:   between(f, 6, 7),
			Concerns:     drawConcerns(f, p),
			Implicit:     true,
		})
	}
	return view
}

// drawConcerns returns two or three concerns from the base list plus the
// category's own.
func drawConcerns(f Flavor, p profile) []string {
	all := make([]string, 0, len(baseConcerns)+len(p.concerns))
	all = append(all, baseConcerns...)
	all = append(all, p.concerns...)
	f.Shuffle(len(all), func(i, j int) { all[i], all[j] = all[j], all[i] })
	return all[:between(f, 2, 3)]
}

// Count returns how many stakeholders have the given impact.
func (v StakeholderView) Count(impact Impact) int {
	n := 0
	for _, s := range v.Stakeholders {
		if s.Impact == impact {
			n++
		}
	}
	return n
}

func (v StakeholderView) Markdown() string {
	var b strings.Builder
	fmt.Fprintf(&b, "## Stakeholder Impact Analysis\n\n")
	fmt.Fprintf(&b, "Understanding how your decision affects all parties involved is crucial for ethical decision-making.\n\n")
	if len(v.Stakeholders) == 0 {
		fmt.Fprintf(&b, "- No stakeholders were listed for this dilemma.\n\n")
	}
	for _, s := range v.Stakeholders {
		fmt.Fprintf(&b, "### %s\n\n", inline(s.Name))
		fmt.Fprintf(&b, "- Relationship: %s\n", s.Relationship)
		fmt.Fprintf(&b, "- Impact: %s\n", s.Impact)
		fmt.Fprintf(&b, "- Importance: %d/10 (%s)\n", s.Importance, s.ImportanceBand())
		fmt.Fprintf(&b, "- Key concerns: %s\n\n", strings.Join(s.Concerns, "; "))
	}
	fmt.Fprintf(&b, "### Stakeholder Impact Summary\n\n")
	fmt.Fprintf(&b, "| Impact | Stakeholders |\n|---|---|\n")
	fmt.Fprintf(&b, "| Positive | %d |\n", v.Count(ImpactPositive))
	fmt.Fprintf(&b, "| Negative | %d |\n", v.Count(ImpactNegative))
	fmt.Fprintf(&b, "| Neutral | %d |\n\n", v.Count(ImpactNeutral))
	fmt.Fprintf(&b, "### Key Recommendations\n\n")
	for _, r := range v.Recommendations {
		fmt.Fprintf(&b, "- %s\n", r)
	}
	return b.String()
}
