package analysis

import (
	"fmt"
	"strings"

	"github.com/joelkehle/ethiguide/internal/dilemma"
)

type CaseStudy struct {
	Title     string           `json:"title"`
	Summary   string           `json:"summary"`
	Category  dilemma.Category `json:"category"`
	Outcome   string           `json:"outcome"`
	Lessons   []string         `json:"lessons"`
	Relevance float64          `json:"relevance"`
}

// RelevanceBand groups relevance for display.
func (c CaseStudy) RelevanceBand() string {
	switch {
	case c.Relevance >= 9:
		return "very high"
	case c.Relevance >= 8:
		return "high"
	case c.Relevance >= 7:
		return "moderate"
	default:
		return "low"
	}
}

var caseStudies = []CaseStudy{
	{
		Title:    "Corporate Whistleblowing Dilemma",
		Summary:  "An employee discovered financial irregularities in their company and faced the decision whether to report internally, to regulators, or remain silent to protect their career.",
		Category: dilemma.CategoryBusiness,
		Outcome:  "Employee chose to report through internal channels first, then to regulators when internal action was insufficient. Led to regulatory investigation and corporate reforms.",
		Lessons: []string{
			"Graduated disclosure can balance loyalty with public interest",
			"Legal protections for whistleblowers are crucial but not always sufficient",
			"Ethical courage often requires personal sacrifice",
			"Organizations benefit from strong internal reporting mechanisms",
		},
		Relevance: 9.2,
	},
	{
		Title:    "Medical Resource Allocation During Crisis",
		Summary:  "Hospital administrators had to allocate limited ventilators during a pandemic peak, choosing between patients with different survival probabilities and life circumstances.",
		Category: dilemma.CategoryMedical,
		Outcome:  "Adopted a protocol based primarily on clinical factors and short-term survivability, with ethics committee oversight for complex cases.",
		Lessons: []string{
			"Clear, pre-established criteria help in crisis decision-making",
			"Clinical considerations should take precedence over social factors",
			"Transparency in decision-making processes builds public trust",
			"Regular ethical review prevents bias in high-pressure situations",
		},
		Relevance: 8.8,
	},
	{
		Title:    "AI Bias in Hiring Algorithms",
		Summary:  "A tech company discovered their AI hiring tool was systematically discriminating against certain demographic groups, despite being designed to promote fairness.",
		Category: dilemma.CategoryTechnology,
		Outcome:  "Company suspended the tool, conducted comprehensive bias audit, redesigned the algorithm with diverse input, and implemented ongoing monitoring.",
		Lessons: []string{
			"AI systems can perpetuate historical biases in unexpected ways",
			"Diverse teams are essential for identifying algorithmic bias",
			"Transparency and regular auditing are crucial for AI fairness",
			"Short-term costs of addressing bias prevent long-term harm",
		},
		Relevance: 8.5,
	},
	{
		Title:    "Environmental vs. Economic Development",
		Summary:  "A community faced a choice between approving a factory that would bring jobs but potentially damage local ecosystems and water quality.",
		Category: dilemma.CategoryEnvironmental,
		Outcome:  "Community negotiated for enhanced environmental protections, monitoring systems, and a community fund before approving modified development plans.",
		Lessons: []string{
			"Stakeholder engagement can lead to creative compromise solutions",
			"Environmental protection and economic development can coexist with proper planning",
			"Community ownership of decisions increases acceptance",
			"Long-term thinking benefits both economy and environment",
		},
		Relevance: 7.9,
	},
	{
		Title:    "Research Data Sharing vs. Privacy",
		Summary:  "Researchers with potentially life-saving medical data faced pressure to share it widely, but the data contained sensitive personal information that could be re-identified.",
		Category: dilemma.CategoryResearch,
		Outcome:  "Developed advanced anonymization techniques, established secure data sharing protocols, and created tiered access based on research purpose and security capabilities.",
		Lessons: []string{
			"Technical solutions can often resolve ethical tensions",
			"Collaboration between ethicists and technologists is essential",
			"Privacy protection and scientific progress are not mutually exclusive",
			"Clear governance frameworks enable responsible innovation",
		},
		Relevance: 8.3,
	},
	{
		Title:    "Professional Loyalty vs. Client Interest",
		Summary:  "A lawyer discovered that their law firm was overcharging clients and providing subpar representation due to profit pressures.",
		Category: dilemma.CategoryLegal,
		Outcome:  "Lawyer attempted internal resolution, then reported to the state bar when internal efforts failed. Led to firm reforms and disciplinary actions.",
		Lessons: []string{
			"Professional duties to clients supersede firm loyalty",
			"Ethical obligations often require difficult personal choices",
			"Professional regulatory bodies serve important oversight functions",
			"Systemic problems require systemic solutions",
		},
		Relevance: 8.1,
	},
}

// CaseStudies returns the fixed case-study library.
func CaseStudies() []CaseStudy {
	out := make([]CaseStudy, len(caseStudies))
	for i, c := range caseStudies {
		c.Lessons = append([]string(nil), c.Lessons...)
		out[i] = c
	}
	return out
}

func CaseStudiesMarkdown(studies []CaseStudy) string {
	var b strings.Builder
	fmt.Fprintf(&b, "## Related Case Studies\n\n")
	fmt.Fprintf(&b, "Learn from real-world ethical dilemmas and their outcomes to inform your decision-making process.\n\n")
	for _, c := range studies {
		fmt.Fprintf(&b, "### %s\n\n", c.Title)
		fmt.Fprintf(&b, "*%s* · relevance %.1f/10 (%s)\n\n", c.Category, c.Relevance, c.RelevanceBand())
		fmt.Fprintf(&b, "**Situation.** %s\n\n", c.Summary)
		fmt.Fprintf(&b, "**Outcome.** %s\n\n", c.Outcome)
		for _, l := range c.Lessons {
			fmt.Fprintf(&b, "- %s\n", l)
		}
		b.WriteString("\n")
	}
	fmt.Fprintf(&b, "These case studies demonstrate that ethical dilemmas rarely have perfect solutions, but thoughtful analysis and stakeholder consideration lead to better outcomes.\n")
	return b.String()
}
