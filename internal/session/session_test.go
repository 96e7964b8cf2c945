package session

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/joelkehle/ethiguide/internal/dilemma"
	"github.com/joelkehle/ethiguide/internal/wizard"
)

func sampleDilemma() dilemma.Dilemma {
	return dilemma.Dilemma{
		Title:        "Layoffs",
		Description:  "Cut 10% of staff",
		Category:     dilemma.CategoryBusiness,
		Urgency:      dilemma.UrgencyHigh,
		Stakeholders: []string{"Employees"},
		Values:       []string{},
		Constraints:  []string{},
	}
}

func newSQLite(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := NewSQLiteStore(filepath.Join(t.TempDir(), "sessions.db"))
	if err != nil {
		t.Fatalf("new sqlite store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func stores(t *testing.T) map[string]Store {
	return map[string]Store{
		"memory": NewMemoryStore(),
		"sqlite": newSQLite(t),
	}
}

func TestStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	base := time.Date(2026, 2, 17, 0, 0, 0, 0, time.UTC)
	d := sampleDilemma()
	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			rec := Record{
				Token:     "tok-1",
				Seed:      1<<63 + 5,
				CreatedAt: base,
				LastSeen:  base.Add(time.Minute),
				State:     wizard.Snapshot{CurrentStep: 2, HasSubmitted: true, Record: &d},
			}
			if err := store.Put(ctx, rec); err != nil {
				t.Fatalf("put: %v", err)
			}
			got, err := store.Get(ctx, "tok-1")
			if err != nil {
				t.Fatalf("get: %v", err)
			}
			if diff := cmp.Diff(rec, got); diff != "" {
				t.Fatalf("record mismatch (-want +got):\n%s", diff)
			}

			rec.State.CurrentStep = 4
			rec.LastSeen = base.Add(2 * time.Minute)
			if err := store.Put(ctx, rec); err != nil {
				t.Fatalf("update: %v", err)
			}
			got, _ = store.Get(ctx, "tok-1")
			if got.State.CurrentStep != 4 || !got.LastSeen.Equal(rec.LastSeen) {
				t.Fatalf("update not applied: %+v", got)
			}

			if err := store.Delete(ctx, "tok-1"); err != nil {
				t.Fatalf("delete: %v", err)
			}
			if _, err := store.Get(ctx, "tok-1"); !errors.Is(err, ErrNotFound) {
				t.Fatalf("expected ErrNotFound after delete, got %v", err)
			}
		})
	}
}

func TestStoreSweep(t *testing.T) {
	ctx := context.Background()
	base := time.Date(2026, 2, 17, 0, 0, 0, 0, time.UTC)
	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			for i, tok := range []string{"a", "b", "c"} {
				rec := Record{Token: tok, CreatedAt: base, LastSeen: base.Add(time.Duration(i) * time.Hour)}
				if err := store.Put(ctx, rec); err != nil {
					t.Fatalf("put %s: %v", tok, err)
				}
			}
			removed, err := store.Sweep(ctx, base.Add(90*time.Minute))
			if err != nil {
				t.Fatalf("sweep: %v", err)
			}
			if diff := cmp.Diff([]string{"a", "b"}, removed); diff != "" {
				t.Fatalf("removed mismatch (-want +got):\n%s", diff)
			}
			if _, err := store.Get(ctx, "c"); err != nil {
				t.Fatalf("expected c to survive: %v", err)
			}
			removed, err = store.Sweep(ctx, base)
			if err != nil || len(removed) != 0 {
				t.Fatalf("expected empty sweep, got %v %v", removed, err)
			}
		})
	}
}

func TestMemoryStoreIsolatesRecords(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	d := sampleDilemma()
	rec := Record{Token: "t", State: wizard.Snapshot{CurrentStep: 1, HasSubmitted: true, Record: &d}}
	if err := store.Put(ctx, rec); err != nil {
		t.Fatalf("put: %v", err)
	}
	d.Title = "mutated"
	got, _ := store.Get(ctx, "t")
	if got.State.Record.Title != "Layoffs" {
		t.Fatalf("stored record aliased caller memory: %q", got.State.Record.Title)
	}
}

func TestSQLiteStoreSurvivesReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "reopen.db")
	s1, err := NewSQLiteStore(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	now := time.Date(2026, 2, 17, 0, 0, 0, 0, time.UTC)
	if err := s1.Put(ctx, Record{Token: "keep", Seed: 9, CreatedAt: now, LastSeen: now}); err != nil {
		t.Fatalf("put: %v", err)
	}
	s1.Close()

	s2, err := NewSQLiteStore(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s2.Close()
	got, err := s2.Get(ctx, "keep")
	if err != nil {
		t.Fatalf("get after reopen: %v", err)
	}
	if got.Seed != 9 {
		t.Fatalf("seed=%d want 9", got.Seed)
	}
}

func newTestManager(store Store) (*Manager, *time.Time) {
	now := time.Date(2026, 2, 17, 0, 0, 0, 0, time.UTC)
	m := NewManager(store, Options{
		TTL:   time.Hour,
		Clock: func() time.Time { return now },
		Seed:  42,
	})
	return m, &now
}

func TestManagerStartAndDo(t *testing.T) {
	ctx := context.Background()
	m, _ := newTestManager(NewMemoryStore())
	sess, err := m.Start(ctx)
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if sess.Seed != 42 || sess.State.Current() != wizard.StepInput {
		t.Fatalf("unexpected fresh session: %+v", sess)
	}

	err = m.Do(ctx, sess.Token, func(s *Session) error {
		return s.State.Submit(sampleDilemma())
	})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	err = m.Do(ctx, sess.Token, func(s *Session) error {
		if !s.State.HasSubmitted() || s.State.Current() != wizard.StepEthicalAnalysis {
			t.Fatalf("state not persisted: step=%v submitted=%v", s.State.Current(), s.State.HasSubmitted())
		}
		return nil
	})
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
}

func TestManagerDoDiscardsOnError(t *testing.T) {
	ctx := context.Background()
	m, _ := newTestManager(NewMemoryStore())
	sess, _ := m.Start(ctx)

	boom := errors.New("boom")
	err := m.Do(ctx, sess.Token, func(s *Session) error {
		s.State.Submit(sampleDilemma())
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected fn error, got %v", err)
	}
	m.Do(ctx, sess.Token, func(s *Session) error {
		if s.State.HasSubmitted() {
			t.Fatal("failed call must not be saved")
		}
		return nil
	})
}

func TestManagerValidationErrorLeavesStateUnchanged(t *testing.T) {
	ctx := context.Background()
	m, _ := newTestManager(NewMemoryStore())
	sess, _ := m.Start(ctx)
	err := m.Do(ctx, sess.Token, func(s *Session) error {
		return s.State.Submit(dilemma.Dilemma{Title: "only a title"})
	})
	if !dilemma.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestManagerExpiry(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	m, now := newTestManager(store)
	sess, _ := m.Start(ctx)

	*now = now.Add(30 * time.Minute)
	if err := m.Do(ctx, sess.Token, func(*Session) error { return nil }); err != nil {
		t.Fatalf("touch: %v", err)
	}
	*now = now.Add(50 * time.Minute)
	if err := m.Do(ctx, sess.Token, func(*Session) error { return nil }); err != nil {
		t.Fatalf("session expired early: %v", err)
	}
	*now = now.Add(61 * time.Minute)
	if err := m.Do(ctx, sess.Token, func(*Session) error { return nil }); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if store.Len() != 0 {
		t.Fatalf("expired session not deleted, len=%d", store.Len())
	}
}

func TestManagerSweep(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	m, now := newTestManager(store)
	old, _ := m.Start(ctx)
	*now = now.Add(45 * time.Minute)
	fresh, _ := m.Start(ctx)
	*now = now.Add(30 * time.Minute)

	n, err := m.Sweep(ctx)
	if err != nil {
		t.Fatalf("sweep: %v", err)
	}
	if n != 1 {
		t.Fatalf("swept %d want 1", n)
	}
	if _, err := store.Get(ctx, old.Token); !errors.Is(err, ErrNotFound) {
		t.Fatal("old session should be gone")
	}
	if _, err := store.Get(ctx, fresh.Token); err != nil {
		t.Fatalf("fresh session should remain: %v", err)
	}
}

func TestManagerEnd(t *testing.T) {
	ctx := context.Background()
	m, _ := newTestManager(NewMemoryStore())
	sess, _ := m.Start(ctx)
	if err := m.End(ctx, sess.Token); err != nil {
		t.Fatalf("end: %v", err)
	}
	if err := m.Do(ctx, sess.Token, func(*Session) error { return nil }); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestManagerSerializesPerToken(t *testing.T) {
	ctx := context.Background()
	m, _ := newTestManager(NewMemoryStore())
	sess, _ := m.Start(ctx)
	if err := m.Do(ctx, sess.Token, func(s *Session) error { return s.State.Submit(sampleDilemma()) }); err != nil {
		t.Fatalf("submit: %v", err)
	}

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			m.Do(ctx, sess.Token, func(s *Session) error {
				s.State.Navigate(wizard.Step(i % wizard.NumSteps))
				return nil
			})
		}(i)
	}
	wg.Wait()

	m.mu.Lock()
	leaked := len(m.locks)
	m.mu.Unlock()
	if leaked != 0 {
		t.Fatalf("token locks leaked: %d", leaked)
	}
}
