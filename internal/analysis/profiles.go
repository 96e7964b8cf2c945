package analysis

import "github.com/joelkehle/ethiguide/internal/dilemma"

// Guidance is the category-level recommendation.
type Guidance struct {
	Primary    string   `json:"primary"`
	Framework  string   `json:"framework"`
	Principles []string `json:"principles"`
}

type implicitStakeholder struct {
	name         string
	relationship string
}

// profile holds every table the analysis views key by category.
type profile struct {
	relationships []string
	concerns      []string
	implicit      []implicitStakeholder
	guidance      Guidance
	// Scores follow frameworkOrder.
	scores [numFrameworks]float64
}

var personalGuidance = Guidance{
	Primary:    "Align actions with core values and maintain relationships",
	Framework:  "Virtue ethics with care ethics considerations",
	Principles: []string{"Authenticity", "Compassion", "Personal Growth", "Relationship Harmony"},
}

// defaultProfile serves categories outside dilemma.Categories. Its
// recommendation falls back to the Personal Ethics guidance.
var defaultProfile = profile{
	relationships: []string{"Stakeholder"},
	guidance:      personalGuidance,
	scores:        [numFrameworks]float64{7.2, 7.4, 7.6, 7.3, 7.1},
}

func profileFor(c dilemma.Category) profile {
	switch c {
	case dilemma.CategoryBusiness:
		return profile{
			relationships: []string{"Employee", "Client", "Shareholder", "Partner", "Customer"},
			concerns:      []string{"Profit margins", "Employee welfare", "Market competition", "Corporate reputation"},
			implicit:      []implicitStakeholder{{"Industry Standards", "Regulatory Body"}},
			guidance: Guidance{
				Primary:    "Balance stakeholder interests with long-term sustainability",
				Framework:  "Utilitarian with stakeholder theory considerations",
				Principles: []string{"Transparency", "Accountability", "Stakeholder Value", "Sustainable Growth"},
			},
			scores: [numFrameworks]float64{8.2, 7.4, 7.0, 6.5, 7.8},
		}
	case dilemma.CategoryMedical:
		return profile{
			relationships: []string{"Patient", "Family Member", "Healthcare Provider", "Administrator"},
			concerns:      []string{"Patient safety", "Privacy protection", "Quality of care", "Professional standards"},
			implicit:      []implicitStakeholder{{"Healthcare System", "Institution"}},
			guidance: Guidance{
				Primary:    "Prioritize patient welfare while respecting autonomy",
				Framework:  "Principlist approach with care ethics elements",
				Principles: []string{"Beneficence", "Non-maleficence", "Autonomy", "Justice"},
			},
			scores: [numFrameworks]float64{7.1, 8.6, 7.5, 8.8, 7.9},
		}
	case dilemma.CategoryEnvironmental:
		return profile{
			relationships: []string{"Community Member", "Future Generation", "Wildlife", "Organization"},
			concerns:      []string{"Environmental protection", "Sustainability", "Future generations", "Ecosystem health"},
			implicit:      []implicitStakeholder{{"Future Generations", "Beneficiary"}},
			guidance: Guidance{
				Primary:    "Consider long-term environmental and social sustainability",
				Framework:  "Consequentialist with intergenerational justice",
				Principles: []string{"Sustainability", "Stewardship", "Future Generations", "Ecological Integrity"},
			},
			scores: [numFrameworks]float64{8.7, 6.8, 7.2, 7.0, 8.4},
		}
	case dilemma.CategoryTechnology:
		return profile{
			relationships: []string{"User", "Developer", "Regulator", "Society at Large"},
			concerns:      []string{"Data privacy", "Algorithmic bias", "Digital rights", "Technological access"},
			implicit:      []implicitStakeholder{{"Digital Society", "Affected Community"}},
			guidance: Guidance{
				Primary:    "Ensure technology serves human flourishing",
				Framework:  "Human-centered design with rights-based approach",
				Principles: []string{"Privacy", "Fairness", "Transparency", "Human Agency"},
			},
			scores: [numFrameworks]float64{7.6, 8.1, 6.9, 6.7, 8.5},
		}
	case dilemma.CategoryProfessional:
		return profile{
			relationships: []string{"Colleague", "Client", "Supervisor", "Professional Body"},
			concerns:      []string{"Professional integrity", "Competence standards", "Client confidentiality", "Industry reputation"},
			implicit:      []implicitStakeholder{{"Professional Standards", "Regulatory Body"}},
			guidance: Guidance{
				Primary:    "Uphold professional standards while serving client interests",
				Framework:  "Deontological with professional virtue ethics",
				Principles: []string{"Competence", "Integrity", "Confidentiality", "Professional Responsibility"},
			},
			scores: [numFrameworks]float64{6.9, 8.7, 8.3, 6.6, 7.2},
		}
	case dilemma.CategoryPersonal:
		return profile{
			relationships: []string{"Family Member", "Friend", "Community Member", "Self"},
			concerns:      []string{"Personal values alignment", "Relationship harmony", "Self-respect", "Family impact"},
			implicit:      []implicitStakeholder{{"Personal Integrity", "Self"}},
			guidance:      personalGuidance,
			scores:        [numFrameworks]float64{6.8, 7.0, 8.6, 8.4, 6.9},
		}
	case dilemma.CategoryLegal:
		return profile{
			relationships: []string{"Client", "Court System", "Legal Profession", "Public"},
			concerns:      []string{"Justice administration", "Legal precedent", "Client representation", "Public trust"},
			implicit:      []implicitStakeholder{{"Justice System", "Institution"}},
			guidance: Guidance{
				Primary:    "Serve justice while advocating for client interests",
				Framework:  "Rule-based with justice and fairness emphasis",
				Principles: []string{"Justice", "Client Advocacy", "Legal System Integrity", "Public Service"},
			},
			scores: [numFrameworks]float64{6.7, 8.8, 7.1, 6.4, 8.9},
		}
	case dilemma.CategoryResearch:
		return profile{
			relationships: []string{"Research Participant", "Academic Community", "Funder", "Society"},
			concerns:      []string{"Research integrity", "Participant protection", "Scientific validity", "Knowledge advancement"},
			implicit:      []implicitStakeholder{{"Scientific Community", "Professional Body"}},
			guidance: Guidance{
				Primary:    "Advance knowledge while protecting participants",
				Framework:  "Consequentialist with strong deontological constraints",
				Principles: []string{"Scientific Integrity", "Participant Protection", "Knowledge Advancement", "Social Benefit"},
			},
			scores: [numFrameworks]float64{8.0, 8.5, 7.4, 7.1, 7.6},
		}
	default:
		return defaultProfile
	}
}

// GuidanceFor returns the recommendation guidance for c.
func GuidanceFor(c dilemma.Category) Guidance {
	g := profileFor(c).guidance
	g.Principles = append([]string(nil), g.Principles...)
	return g
}
