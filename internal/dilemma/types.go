package dilemma

import (
	"slices"
	"strings"
)

type Urgency string

const (
	UrgencyLow      Urgency = "low"
	UrgencyMedium   Urgency = "medium"
	UrgencyHigh     Urgency = "high"
	UrgencyCritical Urgency = "critical"
)

const DefaultUrgency = UrgencyMedium

// UrgencyLevel pairs an urgency with the label shown on the input form.
type UrgencyLevel struct {
	Value Urgency `json:"value"`
	Label string  `json:"label"`
}

var urgencyLevels = []UrgencyLevel{
	{Value: UrgencyLow, Label: "Can wait weeks/months"},
	{Value: UrgencyMedium, Label: "Should resolve within days"},
	{Value: UrgencyHigh, Label: "Needs resolution within hours"},
	{Value: UrgencyCritical, Label: "Immediate action required"},
}

func UrgencyLevels() []UrgencyLevel {
	return slices.Clone(urgencyLevels)
}

func (u Urgency) Valid() bool {
	switch u {
	case UrgencyLow, UrgencyMedium, UrgencyHigh, UrgencyCritical:
		return true
	default:
		return false
	}
}

// ParseUrgency maps free text onto an urgency, falling back to DefaultUrgency.
func ParseUrgency(raw string) Urgency {
	u := Urgency(strings.ToLower(strings.TrimSpace(raw)))
	if u.Valid() {
		return u
	}
	return DefaultUrgency
}

// Category is free text; only the values in Categories receive specialized
// analysis templates.
type Category string

const (
	CategoryBusiness      Category = "Business Ethics"
	CategoryMedical       Category = "Medical Ethics"
	CategoryEnvironmental Category = "Environmental Ethics"
	CategoryTechnology    Category = "Technology Ethics"
	CategoryProfessional  Category = "Professional Ethics"
	CategoryPersonal      Category = "Personal Ethics"
	CategoryLegal         Category = "Legal Ethics"
	CategoryResearch      Category = "Research Ethics"
)

var categories = []Category{
	CategoryBusiness,
	CategoryMedical,
	CategoryEnvironmental,
	CategoryTechnology,
	CategoryProfessional,
	CategoryPersonal,
	CategoryLegal,
	CategoryResearch,
}

// Categories returns the recognized categories in form order.
func Categories() []Category {
	return slices.Clone(categories)
}

func (c Category) Known() bool {
	return slices.Contains(categories, c)
}

// Dilemma is the single structured input of a wizard session.
type Dilemma struct {
	Title        string   `json:"title" yaml:"title"`
	Description  string   `json:"description" yaml:"description"`
	Context      string   `json:"context" yaml:"context"`
	Stakeholders []string `json:"stakeholders" yaml:"stakeholders"`
	Values       []string `json:"values" yaml:"values"`
	Constraints  []string `json:"constraints" yaml:"constraints"`
	Urgency      Urgency  `json:"urgency" yaml:"urgency"`
	Category     Category `json:"category" yaml:"category"`
}

// Validate reports a *ValidationError naming every missing required field.
func (d Dilemma) Validate() error {
	var missing []string
	if strings.TrimSpace(d.Title) == "" {
		missing = append(missing, "title")
	}
	if strings.TrimSpace(d.Description) == "" {
		missing = append(missing, "description")
	}
	if strings.TrimSpace(string(d.Category)) == "" {
		missing = append(missing, "category")
	}
	if len(missing) > 0 {
		return newValidationError(missing)
	}
	return nil
}

// Clone returns a copy that shares no slices with d.
func (d Dilemma) Clone() Dilemma {
	d.Stakeholders = slices.Clone(d.Stakeholders)
	d.Values = slices.Clone(d.Values)
	d.Constraints = slices.Clone(d.Constraints)
	return d
}

// Normalize applies the input form's cleanup: trimmed text, list entries
// trimmed with blanks dropped, and unknown urgency replaced by the default.
func Normalize(d Dilemma) Dilemma {
	d.Title = strings.TrimSpace(d.Title)
	d.Description = strings.TrimSpace(d.Description)
	d.Context = strings.TrimSpace(d.Context)
	d.Category = Category(strings.TrimSpace(string(d.Category)))
	d.Stakeholders = cleanList(d.Stakeholders)
	d.Values = cleanList(d.Values)
	d.Constraints = cleanList(d.Constraints)
	d.Urgency = ParseUrgency(string(d.Urgency))
	return d
}

// SplitLines turns a newline-separated textarea value into list entries.
func SplitLines(raw string) []string {
	return cleanList(strings.Split(strings.ReplaceAll(raw, "\r\n", "\n"), "\n"))
}

func cleanList(in []string) []string {
	out := make([]string, 0, len(in))
	for _, v := range in {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
