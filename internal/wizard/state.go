package wizard

import (
	"fmt"

	"github.com/joelkehle/ethiguide/internal/dilemma"
)

// State tracks one session's position in the wizard. The zero value is not
// usable; call New.
//
// Steps past StepInput unlock together after the first accepted Submit and
// stay unlocked for the life of the State.
type State struct {
	current   Step
	record    *dilemma.Dilemma
	submitted bool
}

func New() *State {
	return &State{current: StepInput}
}

func (s *State) Current() Step { return s.current }

func (s *State) HasSubmitted() bool { return s.submitted }

// Record returns a copy of the submitted dilemma.
func (s *State) Record() (dilemma.Dilemma, bool) {
	if s.record == nil {
		return dilemma.Dilemma{}, false
	}
	return s.record.Clone(), true
}

// Submit stores d and moves to the first analysis step. An incomplete d is
// rejected with a *dilemma.ValidationError and the state is left untouched.
func (s *State) Submit(d dilemma.Dilemma) error {
	if err := d.Validate(); err != nil {
		return err
	}
	rec := d.Clone()
	s.record = &rec
	s.submitted = true
	s.current = StepEthicalAnalysis
	return nil
}

// Navigate moves to target when it is reachable and reports whether the
// current step is now target. Out-of-range steps are ignored.
func (s *State) Navigate(target Step) bool {
	if !target.Valid() || !s.IsAccessible(target) {
		return false
	}
	s.current = target
	return true
}

func (s *State) IsActive(i Step) bool {
	return i == s.current
}

func (s *State) IsCompleted(i Step) bool {
	return s.submitted && i < s.current
}

func (s *State) IsAccessible(i Step) bool {
	return s.submitted || i == StepInput
}

// Visual picks the indicator state for step i; the first matching rule wins.
func (s *State) Visual(i Step) Visual {
	switch {
	case s.IsActive(i):
		return VisualActive
	case s.IsCompleted(i):
		return VisualCompleted
	case s.IsAccessible(i):
		return VisualAccessible
	default:
		return VisualLocked
	}
}

// ShowCaseStudies reports whether the case-studies panel is visible.
func (s *State) ShowCaseStudies() bool {
	return s.submitted
}

// Indicator returns the view of every step in order.
func (s *State) Indicator() []StepView {
	out := make([]StepView, 0, NumSteps)
	for i := Step(0); i < NumSteps; i++ {
		out = append(out, StepView{
			Index:      int(i),
			ID:         i.ID(),
			Title:      i.Title(),
			Visual:     s.Visual(i),
			Accessible: s.IsAccessible(i),
			Last:       i == NumSteps-1,
		})
	}
	return out
}

// Snapshot is the serializable form of a State.
type Snapshot struct {
	CurrentStep  int              `json:"current_step"`
	HasSubmitted bool             `json:"has_submitted"`
	Record       *dilemma.Dilemma `json:"record,omitempty"`
}

func (s *State) Snapshot() Snapshot {
	snap := Snapshot{CurrentStep: int(s.current), HasSubmitted: s.submitted}
	if s.record != nil {
		rec := s.record.Clone()
		snap.Record = &rec
	}
	return snap
}

// Clone returns a deep copy of the snapshot.
func (snap Snapshot) Clone() Snapshot {
	if snap.Record != nil {
		rec := snap.Record.Clone()
		snap.Record = &rec
	}
	return snap
}

// Restore rebuilds a State, rejecting snapshots no sequence of Submit and
// Navigate calls could have produced.
func Restore(snap Snapshot) (*State, error) {
	step := Step(snap.CurrentStep)
	if !step.Valid() {
		return nil, fmt.Errorf("restore wizard: step %d out of range", snap.CurrentStep)
	}
	if snap.HasSubmitted != (snap.Record != nil) {
		return nil, fmt.Errorf("restore wizard: has_submitted=%t disagrees with record presence", snap.HasSubmitted)
	}
	if !snap.HasSubmitted && step != StepInput {
		return nil, fmt.Errorf("restore wizard: step %s reachable only after submit", step)
	}
	s := &State{current: step, submitted: snap.HasSubmitted}
	if snap.Record != nil {
		if err := snap.Record.Validate(); err != nil {
			return nil, fmt.Errorf("restore wizard: %w", err)
		}
		rec := snap.Record.Clone()
		s.record = &rec
	}
	return s, nil
}
