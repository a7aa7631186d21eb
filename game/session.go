package game

import (
	"log/slog"
)

// EventSink receives every event a session produces, in order.
type EventSink interface {
	Publish(tick int64, ev Event)
}

// Session is the run-loop context for one game: the rules, the current state
// and the edge tracker for control keys. The driver owns it and calls Tick
// once per frame.
type Session struct {
	sim   *Sim
	state State
	input InputTracker
	sink  EventSink

	// generation changes whenever the state is replaced wholesale, so views
	// keyed by entity ID know to rebuild.
	generation uint64
}

// NewSession starts a session on a fresh, not yet started game. sink may be nil.
func NewSession(sim *Sim, sink EventSink) *Session {
	return &Session{
		sim:   sim,
		state: sim.NewState(),
		sink:  sink,
	}
}

// Tick applies the controls triggered by keys, then runs one simulation step.
// It returns a copy of the resulting state.
func (s *Session) Tick(delta float64, keys Keys, now float64) State {
	for _, c := range s.input.Controls(keys, s.state.Status) {
		s.Apply(c)
	}

	next, events := s.sim.Step(s.state, delta, keys, now)
	s.state = next
	s.publish(events)

	return s.state.Clone()
}

// Apply runs a control intent, e.g. from a UI button.
func (s *Session) Apply(c Control) {
	next, events := s.sim.Control(s.state, c)
	if len(events) == 0 {
		return
	}
	if c == ControlRestart {
		s.generation++
	}
	s.state = next
	s.publish(events)
}

// State returns a copy of the current state. Mutating it does not affect the
// session.
func (s *Session) State() State {
	return s.state.Clone()
}

// Generation changes each time the state is replaced by a restart or import.
func (s *Session) Generation() uint64 {
	return s.generation
}

// Sim returns the rules the session runs with.
func (s *Session) Sim() *Sim {
	return s.sim
}

// Export serializes the current state.
func (s *Session) Export() (string, error) {
	return EncodeSnapshot(s.state)
}

// Import replaces the current state with a decoded snapshot. On failure the
// current state is kept and the error is returned.
func (s *Session) Import(blob string) error {
	st, err := DecodeSnapshot(blob)
	if err != nil {
		slog.Warn("snapshot import failed", "error", err)
		return err
	}

	s.state = st
	s.generation++
	s.input.Reset()

	slog.Info("snapshot imported",
		"tick", st.Tick,
		"level", st.Level,
		"score", st.Score,
		"status", st.Status.String(),
	)
	return nil
}

func (s *Session) publish(events []Event) {
	for _, ev := range events {
		switch e := ev.(type) {
		case LevelCleared:
			slog.Info("level cleared", "level", e.Level, "score", s.state.Score, "tick", s.state.Tick)
		case GameOver:
			slog.Info("game over", "score", e.Score, "level", e.Level, "reason", e.Reason.String(), "tick", s.state.Tick)
		case TickRejected:
			slog.Warn("tick rejected", "error", e.Err, "tick", s.state.Tick)
		case StatusChanged:
			slog.Debug("status changed", "from", e.From.String(), "to", e.To.String())
		}

		if s.sink != nil {
			s.sink.Publish(s.state.Tick, ev)
		}
	}
}
