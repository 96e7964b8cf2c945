package wizard

import "strconv"

// Step is a position in the fixed wizard sequence.
type Step int

const (
	StepInput Step = iota
	StepEthicalAnalysis
	StepStakeholderAnalysis
	StepOutcomePredictor
	StepRecommendation
)

// NumSteps is the length of the wizard sequence.
const NumSteps = 5

type stepInfo struct {
	id    string
	title string
}

var stepTable = [NumSteps]stepInfo{
	StepInput:               {id: "input", title: "Describe Dilemma"},
	StepEthicalAnalysis:     {id: "ethical", title: "Ethical Analysis"},
	StepStakeholderAnalysis: {id: "stakeholders", title: "Stakeholder Impact"},
	StepOutcomePredictor:    {id: "outcomes", title: "Predict Outcomes"},
	StepRecommendation:      {id: "recommendation", title: "Get Recommendation"},
}

func (s Step) Valid() bool {
	return s >= 0 && s < NumSteps
}

func (s Step) ID() string {
	if !s.Valid() {
		return ""
	}
	return stepTable[s].id
}

func (s Step) Title() string {
	if !s.Valid() {
		return ""
	}
	return stepTable[s].title
}

func (s Step) String() string {
	if !s.Valid() {
		return "step(" + strconv.Itoa(int(s)) + ")"
	}
	return stepTable[s].id
}

// ParseStep converts a form value into a step, reporting false when the
// value is not an integer in range.
func ParseStep(raw string) (Step, bool) {
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	s := Step(n)
	return s, s.Valid()
}

// Visual is the display state of one step in the indicator.
type Visual string

const (
	VisualActive     Visual = "active"
	VisualCompleted  Visual = "completed"
	VisualAccessible Visual = "accessible"
	VisualLocked     Visual = "locked"
)

// StepView is what the step indicator needs to draw one step.
type StepView struct {
	Index      int    `json:"index"`
	ID         string `json:"id"`
	Title      string `json:"title"`
	Visual     Visual `json:"state"`
	Accessible bool   `json:"accessible"`
	Last       bool   `json:"-"`
}
