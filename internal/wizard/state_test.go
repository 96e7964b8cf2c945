package wizard

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/joelkehle/ethiguide/internal/dilemma"
)

func layoffs() dilemma.Dilemma {
	return dilemma.Dilemma{
		Title:        "Layoffs",
		Description:  "...",
		Category:     dilemma.CategoryBusiness,
		Urgency:      dilemma.UrgencyHigh,
		Stakeholders: []string{},
		Values:       []string{},
		Constraints:  []string{},
	}
}

func TestNewState(t *testing.T) {
	s := New()
	if s.Current() != StepInput {
		t.Fatalf("expected step 0, got %d", s.Current())
	}
	if s.HasSubmitted() {
		t.Fatal("fresh state must not be submitted")
	}
	if _, ok := s.Record(); ok {
		t.Fatal("fresh state must have no record")
	}
	if s.ShowCaseStudies() {
		t.Fatal("case studies must be hidden before submit")
	}
}

func TestSubmitRejectsIncompleteRecord(t *testing.T) {
	for _, mutate := range []func(*dilemma.Dilemma){
		func(d *dilemma.Dilemma) { d.Title = "" },
		func(d *dilemma.Dilemma) { d.Description = "" },
		func(d *dilemma.Dilemma) { d.Category = "" },
	} {
		s := New()
		before := s.Snapshot()
		d := layoffs()
		mutate(&d)
		err := s.Submit(d)
		var ve *dilemma.ValidationError
		if !errors.As(err, &ve) {
			t.Fatalf("expected ValidationError, got %v", err)
		}
		if diff := cmp.Diff(before, s.Snapshot()); diff != "" {
			t.Fatalf("state changed on rejected submit (-want +got):\n%s", diff)
		}
	}
}

// Scenario A.
func TestSubmitAdvancesToFirstAnalysisStep(t *testing.T) {
	s := New()
	if err := s.Submit(layoffs()); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if !s.HasSubmitted() {
		t.Fatal("expected hasSubmitted")
	}
	if s.Current() != StepEthicalAnalysis {
		t.Fatalf("expected step 1, got %d", s.Current())
	}
	rec, ok := s.Record()
	if !ok {
		t.Fatal("expected record")
	}
	if diff := cmp.Diff(layoffs(), rec); diff != "" {
		t.Fatalf("record mismatch (-want +got):\n%s", diff)
	}
	if !s.ShowCaseStudies() {
		t.Fatal("case studies must show after submit")
	}
}

// Scenario B.
func TestNavigateGatedBeforeSubmit(t *testing.T) {
	s := New()
	for i := Step(1); i < NumSteps; i++ {
		if s.Navigate(i) {
			t.Fatalf("navigate(%d) must be refused before submit", i)
		}
		if s.Current() != StepInput {
			t.Fatalf("expected step 0 after refused navigate(%d), got %d", i, s.Current())
		}
	}
	if !s.Navigate(StepInput) {
		t.Fatal("step 0 must always be reachable")
	}
}

// Scenario C.
func TestNavigateUnlocksAllStepsAfterSubmit(t *testing.T) {
	s := New()
	if err := s.Submit(layoffs()); err != nil {
		t.Fatalf("submit: %v", err)
	}
	for i := Step(0); i < NumSteps; i++ {
		if !s.IsAccessible(i) {
			t.Fatalf("step %d should be accessible", i)
		}
	}
	if !s.Navigate(StepRecommendation) {
		t.Fatal("navigate(4) should succeed")
	}
	if s.Current() != StepRecommendation {
		t.Fatalf("expected step 4, got %d", s.Current())
	}
	if !s.IsCompleted(StepEthicalAnalysis) {
		t.Fatal("step 1 should be completed")
	}
	if s.IsCompleted(StepRecommendation) {
		t.Fatal("step 4 should not be completed")
	}
	for i := Step(0); i < NumSteps; i++ {
		if !s.Navigate(i) || s.Current() != i {
			t.Fatalf("navigate(%d) should succeed after submit", i)
		}
	}
}

// Scenario D.
func TestSubmitEmptyTitle(t *testing.T) {
	s := New()
	err := s.Submit(dilemma.Dilemma{Title: "", Description: "x", Category: "x"})
	if !dilemma.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if s.Current() != StepInput || s.HasSubmitted() {
		t.Fatalf("state changed: step=%d submitted=%t", s.Current(), s.HasSubmitted())
	}
}

func TestIsCompletedLaw(t *testing.T) {
	s := New()
	check := func() {
		t.Helper()
		for i := Step(0); i < NumSteps; i++ {
			want := s.HasSubmitted() && i < s.Current()
			if got := s.IsCompleted(i); got != want {
				t.Fatalf("IsCompleted(%d)=%t want %t (current=%d submitted=%t)", i, got, want, s.Current(), s.HasSubmitted())
			}
		}
	}
	check()
	s.Navigate(StepOutcomePredictor)
	check()
	if err := s.Submit(layoffs()); err != nil {
		t.Fatalf("submit: %v", err)
	}
	for _, target := range []Step{3, 0, 4, 2} {
		s.Navigate(target)
		check()
	}
}

func TestNavigateCurrentIsIdempotent(t *testing.T) {
	s := New()
	if err := s.Submit(layoffs()); err != nil {
		t.Fatalf("submit: %v", err)
	}
	s.Navigate(StepStakeholderAnalysis)
	before := s.Snapshot()
	for range 3 {
		s.Navigate(s.Current())
	}
	if diff := cmp.Diff(before, s.Snapshot()); diff != "" {
		t.Fatalf("repeat navigate changed state (-want +got):\n%s", diff)
	}
}

func TestNavigateOutOfRangeIgnored(t *testing.T) {
	s := New()
	if err := s.Submit(layoffs()); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if s.Navigate(NumSteps) || s.Navigate(-1) {
		t.Fatal("out-of-range navigate must be refused")
	}
	if s.Current() != StepEthicalAnalysis {
		t.Fatalf("expected step 1, got %d", s.Current())
	}
}

func TestResubmitReplacesRecordAndReturnsToStepOne(t *testing.T) {
	s := New()
	if err := s.Submit(layoffs()); err != nil {
		t.Fatalf("submit: %v", err)
	}
	s.Navigate(StepInput)
	next := layoffs()
	next.Title = "Recall"
	if err := s.Submit(next); err != nil {
		t.Fatalf("resubmit: %v", err)
	}
	rec, _ := s.Record()
	if rec.Title != "Recall" || s.Current() != StepEthicalAnalysis {
		t.Fatalf("unexpected state after resubmit: title=%q step=%d", rec.Title, s.Current())
	}
}

func TestRecordIsReadOnlyCopy(t *testing.T) {
	s := New()
	d := layoffs()
	d.Stakeholders = []string{"Employees"}
	if err := s.Submit(d); err != nil {
		t.Fatalf("submit: %v", err)
	}
	d.Stakeholders[0] = "mutated by caller"
	rec, _ := s.Record()
	rec.Stakeholders[0] = "mutated by view"
	again, _ := s.Record()
	if again.Stakeholders[0] != "Employees" {
		t.Fatalf("stored record was mutated: %q", again.Stakeholders[0])
	}
}

func TestVisualStates(t *testing.T) {
	s := New()
	want := []Visual{VisualActive, VisualLocked, VisualLocked, VisualLocked, VisualLocked}
	for i, w := range want {
		if got := s.Visual(Step(i)); got != w {
			t.Fatalf("fresh Visual(%d)=%s want %s", i, got, w)
		}
	}
	if err := s.Submit(layoffs()); err != nil {
		t.Fatalf("submit: %v", err)
	}
	s.Navigate(StepOutcomePredictor)
	want = []Visual{VisualCompleted, VisualCompleted, VisualCompleted, VisualActive, VisualAccessible}
	for i, w := range want {
		if got := s.Visual(Step(i)); got != w {
			t.Fatalf("Visual(%d)=%s want %s", i, got, w)
		}
	}
	views := s.Indicator()
	if len(views) != NumSteps {
		t.Fatalf("expected %d views, got %d", NumSteps, len(views))
	}
	if views[4].ID != "recommendation" || !views[4].Last || views[0].Last {
		t.Fatalf("unexpected indicator: %+v", views)
	}
}

func TestSnapshotRestoreRoundTrip(t *testing.T) {
	s := New()
	if err := s.Submit(layoffs()); err != nil {
		t.Fatalf("submit: %v", err)
	}
	s.Navigate(StepRecommendation)
	restored, err := Restore(s.Snapshot())
	if err != nil {
		t.Fatalf("restore: %v", err)
	}
	if diff := cmp.Diff(s.Snapshot(), restored.Snapshot()); diff != "" {
		t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestRestoreRejectsImpossibleSnapshots(t *testing.T) {
	rec := layoffs()
	bad := []Snapshot{
		{CurrentStep: 7},
		{CurrentStep: 2},
		{CurrentStep: 0, HasSubmitted: true},
		{CurrentStep: 1, HasSubmitted: true, Record: &dilemma.Dilemma{Title: "only title"}},
		{CurrentStep: 0, Record: &rec},
	}
	for i, snap := range bad {
		if _, err := Restore(snap); err == nil {
			t.Fatalf("snapshot %d: expected error", i)
		}
	}
}

func TestParseStep(t *testing.T) {
	if s, ok := ParseStep("3"); !ok || s != StepOutcomePredictor {
		t.Fatalf("ParseStep(3) = %d,%t", s, ok)
	}
	for _, raw := range []string{"", "x", "5", "-1"} {
		if _, ok := ParseStep(raw); ok {
			t.Fatalf("ParseStep(%q) should fail", raw)
		}
	}
}
