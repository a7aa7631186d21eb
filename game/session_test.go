package game

import (
	"testing"
)

type recordingSink struct {
	events []Event
	ticks  []int64
}

func (r *recordingSink) Publish(tick int64, ev Event) {
	r.events = append(r.events, ev)
	r.ticks = append(r.ticks, tick)
}

func TestSessionLifecycle(t *testing.T) {
	sink := &recordingSink{}
	s := NewSession(newTestSim(t, nil), sink)

	if st := s.Tick(1, Keys{}, 0); st.Status != StatusNotStarted || st.Tick != 0 {
		t.Fatalf("idle tick: status = %v tick = %d", st.Status, st.Tick)
	}

	st := s.Tick(1, Keys{Start: true}, 0)
	if st.Status != StatusPlaying || st.Tick != 1 {
		t.Fatalf("after start: status = %v tick = %d", st.Status, st.Tick)
	}

	st = s.Tick(1, Keys{Pause: true}, 0)
	if st.Status != StatusPaused {
		t.Fatalf("after pause: status = %v", st.Status)
	}
	frozen := st.Tick
	for i := 0; i < 5; i++ {
		st = s.Tick(1, Keys{Pause: true}, 0)
	}
	if st.Status != StatusPaused || st.Tick != frozen {
		t.Errorf("held pause: status = %v tick = %d, want PAUSED at %d", st.Status, st.Tick, frozen)
	}

	s.Tick(1, Keys{}, 0)
	st = s.Tick(1, Keys{Pause: true}, 0)
	if st.Status != StatusPlaying || st.Tick != frozen+1 {
		t.Errorf("after resume: status = %v tick = %d", st.Status, st.Tick)
	}

	changes := findEvents[StatusChanged](sink.events)
	want := []StatusChanged{
		{StatusNotStarted, StatusPlaying},
		{StatusPlaying, StatusPaused},
		{StatusPaused, StatusPlaying},
	}
	if len(changes) != len(want) {
		t.Fatalf("status changes = %+v, want %+v", changes, want)
	}
	for i := range want {
		if changes[i] != want[i] {
			t.Errorf("change %d = %+v, want %+v", i, changes[i], want[i])
		}
	}
}

func TestSessionRestartBumpsGeneration(t *testing.T) {
	s := NewSession(newTestSim(t, nil), nil)
	s.Apply(ControlStart)
	gen := s.Generation()

	s.Apply(ControlRestart)
	if s.Generation() != gen {
		t.Error("restart while playing should be ignored")
	}

	s.state.Status = StatusGameOver
	s.state.Score = 70
	st := s.Tick(1, Keys{Restart: true}, 0)

	if s.Generation() != gen+1 {
		t.Errorf("generation = %d, want %d", s.Generation(), gen+1)
	}
	if st.Status != StatusPlaying || st.Score != 0 {
		t.Errorf("after restart: status = %v score = %d", st.Status, st.Score)
	}
}

func TestSessionStateIsACopy(t *testing.T) {
	s := NewSession(newTestSim(t, nil), nil)
	st := s.State()
	st.Enemies[0].X = -500
	st.Score = 999

	again := s.State()
	if again.Enemies[0].X == -500 || again.Score == 999 {
		t.Error("mutating a returned state leaked into the session")
	}
}

func TestSessionExportImport(t *testing.T) {
	sim := newTestSim(t, nil)
	src := NewSession(sim, nil)
	src.Apply(ControlStart)
	for i := 0; i < 30; i++ {
		src.Tick(1, Keys{Right: true, Shoot: true}, float64(i))
	}
	blob, err := src.Export()
	if err != nil {
		t.Fatalf("Export: %v", err)
	}

	dst := NewSession(sim, nil)
	if err := dst.Import(blob); err != nil {
		t.Fatalf("Import: %v", err)
	}
	if dst.Generation() != 1 {
		t.Errorf("generation = %d, want 1", dst.Generation())
	}
	got, want := dst.State(), src.State()
	if got.Tick != want.Tick || got.Player.X != want.Player.X || len(got.Bullets) != len(want.Bullets) {
		t.Errorf("imported state differs: tick %d/%d x %v/%v", got.Tick, want.Tick, got.Player.X, want.Player.X)
	}
}

func TestSessionImportKeepsStateOnError(t *testing.T) {
	s := NewSession(newTestSim(t, nil), nil)
	s.Apply(ControlStart)
	s.Tick(1, Keys{Left: true}, 0)
	before := s.State()

	if err := s.Import("definitely not a snapshot"); err == nil {
		t.Fatal("Import accepted garbage")
	}

	after := s.State()
	if after.Player.X != before.Player.X || after.Tick != before.Tick || s.Generation() != 0 {
		t.Error("failed import changed the session")
	}
}
