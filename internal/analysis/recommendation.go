package analysis

import (
	"fmt"
	"strings"

	"github.com/joelkehle/ethiguide/internal/dilemma"
)

const ConfidenceScore = 8.7

// UrgencyWeight is the factor shown alongside the recommendation.
func UrgencyWeight(u dilemma.Urgency) float64 {
	switch u {
	case dilemma.UrgencyCritical:
		return 0.4
	case dilemma.UrgencyHigh:
		return 0.3
	case dilemma.UrgencyLow:
		return 0.1
	default:
		return 0.2
	}
}

type Priority string

const (
	PriorityHigh   Priority = "High"
	PriorityMedium Priority = "Medium"
	PriorityLow    Priority = "Low"
)

type ImplementationStep struct {
	Step        int      `json:"step"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Timeline    string   `json:"timeline"`
	Priority    Priority `json:"priority"`
}

type RiskMitigation struct {
	Risk        string   `json:"risk"`
	Mitigation  string   `json:"mitigation"`
	Probability Priority `json:"probability"`
}

var riskMitigations = []RiskMitigation{
	{Risk: "Stakeholder Resistance", Mitigation: "Engage in early consultation and transparent communication", Probability: PriorityMedium},
	{Risk: "Unintended Consequences", Mitigation: "Implement phased approach with regular review points", Probability: PriorityLow},
	{Risk: "Value Conflicts", Mitigation: "Maintain clear priority hierarchy of core values", Probability: PriorityMedium},
	{Risk: "Implementation Challenges", Mitigation: "Develop contingency plans and resource allocation strategies", Probability: PriorityHigh},
}

var successMetrics = []string{
	"Stakeholder satisfaction levels",
	"Alignment with stated ethical values",
	"Long-term relationship quality",
	"Precedent value for future decisions",
	"Resource efficiency in implementation",
	"Public trust and reputation impact",
}

type Recommendation struct {
	Dilemma             dilemma.Dilemma      `json:"-"`
	Primary             string               `json:"primaryRecommendation"`
	Framework           string               `json:"recommendedFramework"`
	Principles          []string             `json:"keyPrinciples"`
	UrgencyFactor       float64              `json:"urgencyFactor"`
	Confidence          float64              `json:"confidenceScore"`
	ImplementationSteps []ImplementationStep `json:"implementationSteps"`
	RiskMitigation      []RiskMitigation     `json:"riskMitigation"`
	SuccessMetrics      []string             `json:"successMetrics"`
}

// Recommend builds the final recommendation. Unrecognized categories receive
// the Personal Ethics guidance.
func Recommend(d dilemma.Dilemma) Recommendation {
	g := GuidanceFor(d.Category)
	return Recommendation{
		Dilemma:             d,
		Primary:             g.Primary,
		Framework:           g.Framework,
		Principles:          g.Principles,
		UrgencyFactor:       UrgencyWeight(d.Urgency),
		Confidence:          ConfidenceScore,
		ImplementationSteps: implementationSteps(d.Urgency),
		RiskMitigation:      append([]RiskMitigation(nil), riskMitigations...),
		SuccessMetrics:      append([]string(nil), successMetrics...),
	}
}

func implementationSteps(u dilemma.Urgency) []ImplementationStep {
	critical := u == dilemma.UrgencyCritical
	communicate, plan := "Within 24-48 hours", "3-7 days"
	if critical {
		communicate, plan = "Immediate", "1-2 days"
	}
	return []ImplementationStep{
		{Step: 1, Title: "Stakeholder Communication", Description: "Communicate your decision rationale transparently to all affected parties", Timeline: communicate, Priority: PriorityHigh},
		{Step: 2, Title: "Implementation Planning", Description: "Develop detailed action plan with clear responsibilities and timelines", Timeline: plan, Priority: PriorityHigh},
		{Step: 3, Title: "Monitor Progress", Description: "Establish monitoring systems to track implementation and stakeholder reactions", Timeline: "Ongoing", Priority: PriorityMedium},
		{Step: 4, Title: "Evaluate Outcomes", Description: "Assess results against ethical principles and stakeholder impact", Timeline: "30-90 days", Priority: PriorityMedium},
		{Step: 5, Title: "Document Lessons", Description: "Record insights and lessons learned for future ethical decision-making", Timeline: "Post-completion", Priority: PriorityLow},
	}
}

func (r Recommendation) Markdown() string {
	var b strings.Builder
	fmt.Fprintf(&b, "## Ethical Decision Recommendation\n\n")
	fmt.Fprintf(&b, "### Primary Recommendation\n\n")
	fmt.Fprintf(&b, "%s.\n\n", r.Primary)
	fmt.Fprintf(&b, "- Confidence score: %.1f/10\n", r.Confidence)
	fmt.Fprintf(&b, "- Framework: %s\n", r.Framework)
	fmt.Fprintf(&b, "- Urgency factor: %.1f (%s)\n\n", r.UrgencyFactor, r.Dilemma.Urgency)
	fmt.Fprintf(&b, "### Guiding Principles\n\n")
	for _, p := range r.Principles {
		fmt.Fprintf(&b, "- %s\n", p)
	}
	fmt.Fprintf(&b, "\n### Implementation Roadmap\n\n")
	fmt.Fprintf(&b, "| # | Step | Priority | Timeline |\n|---|---|---|---|\n")
	for _, s := range r.ImplementationSteps {
		fmt.Fprintf(&b, "| %d | **%s**: %s | %s | %s |\n", s.Step, s.Title, s.Description, s.Priority, s.Timeline)
	}
	fmt.Fprintf(&b, "\n### Risk Mitigation Strategies\n\n")
	for _, m := range r.RiskMitigation {
		fmt.Fprintf(&b, "- **%s** (%s risk): %s\n", m.Risk, m.Probability, m.Mitigation)
	}
	fmt.Fprintf(&b, "\n### Success Metrics\n\n")
	for _, m := range r.SuccessMetrics {
		fmt.Fprintf(&b, "- %s\n", m)
	}
	fmt.Fprintf(&b, "\nEstablish regular review checkpoints to assess progress against these metrics and adjust implementation as needed.\n")
	return b.String()
}
