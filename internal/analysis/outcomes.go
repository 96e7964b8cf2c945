package analysis

import (
	"fmt"
	"math"
	"strings"

	"github.com/joelkehle/ethiguide/internal/dilemma"
)

type RiskLevel string

const (
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
)

type Outcome struct {
	Scenario            string    `json:"scenario"`
	Probability         float64   `json:"probability"`
	Consequences        []string  `json:"consequences"`
	EthicalImplications []string  `json:"ethicalImplications"`
	RiskLevel           RiskLevel `json:"riskLevel"`
}

var scenarios = []Outcome{
	{
		Scenario:    "Best Case Scenario",
		Probability: 0.25,
		RiskLevel:   RiskLow,
		Consequences: []string{
			"All stakeholders feel their concerns were addressed",
			"Strengthened relationships and trust",
			"Positive precedent set for future decisions",
			"Values alignment maintained successfully",
		},
		EthicalImplications: []string{
			"Demonstrates commitment to ethical principles",
			"Builds reputation for moral leadership",
			"Creates positive organizational culture",
			"Inspires similar ethical behavior in others",
		},
	},
	{
		Scenario:    "Most Likely Scenario",
		Probability: 0.45,
		RiskLevel:   RiskMedium,
		Consequences: []string{
			"Majority of stakeholder concerns addressed",
			"Some short-term challenges in implementation",
			"Mixed reactions from different groups",
			"Need for ongoing communication and adjustment",
		},
		EthicalImplications: []string{
			"Balances competing ethical demands",
			"May require compromise on some values",
			"Demonstrates practical ethical decision-making",
			"Requires careful monitoring of long-term effects",
		},
	},
	{
		Scenario:    "Challenging Scenario",
		Probability: 0.20,
		RiskLevel:   RiskHigh,
		Consequences: []string{
			"Significant stakeholder resistance",
			"Potential damage to key relationships",
			"Resource intensive implementation",
			"Public scrutiny and criticism",
		},
		EthicalImplications: []string{
			"Tests commitment to ethical principles",
			"May create moral distress for decision-makers",
			"Could undermine trust if not handled well",
			"Requires strong ethical justification",
		},
	},
	{
		Scenario:    "Worst Case Scenario",
		Probability: 0.10,
		RiskLevel:   RiskHigh,
		Consequences: []string{
			"Severe stakeholder backlash",
			"Legal or regulatory consequences",
			"Long-term reputation damage",
			"Loss of stakeholder trust and support",
		},
		EthicalImplications: []string{
			"Fundamental ethical principles violated",
			"Creates negative moral precedent",
			"Damages ethical reputation long-term",
			"May require corrective action or apology",
		},
	},
}

var strategicRecommendations = []string{
	"Develop contingency plans for challenging scenarios",
	"Establish clear communication channels with all stakeholders",
	"Monitor early warning indicators for negative outcomes",
	"Prepare mitigation strategies for high-risk consequences",
	"Document decision rationale for future reference",
}

// ImplementationTime is the expected duration for an urgency.
func ImplementationTime(u dilemma.Urgency) string {
	switch u {
	case dilemma.UrgencyCritical:
		return "1-7 days"
	case dilemma.UrgencyHigh:
		return "1-4 weeks"
	case dilemma.UrgencyMedium:
		return "1-3 months"
	default:
		return "3-6 months"
	}
}

type OutcomeView struct {
	Dilemma            dilemma.Dilemma `json:"-"`
	Outcomes           []Outcome       `json:"outcomes"`
	SuccessProbability int             `json:"successProbability"`
	HighRiskShare      int             `json:"highRiskShare"`
	ImplementationTime string          `json:"implementationTime"`
	Recommendations    []string        `json:"recommendations"`
}

func OutcomePrediction(d dilemma.Dilemma) OutcomeView {
	view := OutcomeView{
		Dilemma:            d,
		Outcomes:           cloneOutcomes(scenarios),
		ImplementationTime: ImplementationTime(d.Urgency),
		Recommendations:    append([]string(nil), strategicRecommendations...),
	}
	var success, high float64
	for _, o := range view.Outcomes {
		if o.RiskLevel == RiskHigh {
			high += o.Probability
		} else {
			success += o.Probability
		}
	}
	view.SuccessProbability = percent(success)
	view.HighRiskShare = percent(high)
	return view
}

func percent(p float64) int {
	return int(math.Round(p * 100))
}

func cloneOutcomes(in []Outcome) []Outcome {
	out := make([]Outcome, len(in))
	for i, o := range in {
		o.Consequences = append([]string(nil), o.Consequences...)
		o.EthicalImplications = append([]string(nil), o.EthicalImplications...)
		out[i] = o
	}
	return out
}

func (v OutcomeView) Markdown() string {
	var b strings.Builder
	fmt.Fprintf(&b, "## Outcome Prediction Analysis\n\n")
	fmt.Fprintf(&b, "Analyzing potential scenarios and their likelihood to help you prepare for various outcomes.\n\n")
	for _, o := range v.Outcomes {
		fmt.Fprintf(&b, "### %s — %d%% (%s risk)\n\n", o.Scenario, percent(o.Probability), o.RiskLevel)
		fmt.Fprintf(&b, "**Potential Consequences**\n\n")
		for _, c := range o.Consequences {
			fmt.Fprintf(&b, "- %s\n", c)
		}
		fmt.Fprintf(&b, "\n**Ethical Implications**\n\n")
		for _, e := range o.EthicalImplications {
			fmt.Fprintf(&b, "- %s\n", e)
		}
		b.WriteString("\n")
	}
	fmt.Fprintf(&b, "### Risk Assessment Summary\n\n")
	fmt.Fprintf(&b, "| Measure | Value |\n|---|---|\n")
	fmt.Fprintf(&b, "| Success probability | %d%% |\n", v.SuccessProbability)
	fmt.Fprintf(&b, "| Implementation time | %s |\n", v.ImplementationTime)
	fmt.Fprintf(&b, "| High-risk scenarios | %d%% |\n\n", v.HighRiskShare)
	fmt.Fprintf(&b, "### Strategic Recommendations\n\n")
	for _, r := range v.Recommendations {
		fmt.Fprintf(&b, "- %s\n", r)
	}
	return b.String()
}
