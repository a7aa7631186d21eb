package telemetry

// RunStats summarizes one run from start (or restart) to game over.
type RunStats struct {
	StartTick     int64   `csv:"start_tick"`
	EndTick       int64   `csv:"end_tick"`
	DurationSec   float64 `csv:"duration_sec"`
	Score         int     `csv:"score"`
	Level         int     `csv:"level"`
	Shots         int     `csv:"shots"`
	Kills         int     `csv:"kills"`
	HitsTaken     int     `csv:"hits_taken"`
	LevelsCleared int     `csv:"levels_cleared"`
	Accuracy      float64 `csv:"accuracy"`
}

// RunTracker accumulates per-run statistics across telemetry windows.
type RunTracker struct {
	dt      float64
	current RunStats
}

// NewRunTracker creates a tracker. dt is seconds per tick.
func NewRunTracker(dt float64) *RunTracker {
	return &RunTracker{dt: dt}
}

// Start begins a new run at tick, discarding any unfinished one.
func (rt *RunTracker) Start(tick int64) {
	rt.current = RunStats{StartTick: tick}
}

// Record counts one event toward the current run.
func (rt *RunTracker) Record(ev Event) {
	switch ev.Type {
	case EventShot:
		rt.current.Shots++
	case EventKill:
		rt.current.Kills++
	case EventPlayerHit:
		rt.current.HitsTaken++
	case EventLevelCleared:
		rt.current.LevelsCleared++
	}
}

// Current returns the stats of the run in progress.
func (rt *RunTracker) Current() RunStats {
	return rt.current
}

// Finish closes the current run and returns its stats.
func (rt *RunTracker) Finish(tick int64, score, level int) RunStats {
	s := rt.current
	s.EndTick = tick
	s.DurationSec = float64(tick-s.StartTick) * rt.dt
	s.Score = score
	s.Level = level
	if s.Shots > 0 {
		s.Accuracy = float64(s.Kills) / float64(s.Shots)
	}
	rt.current = RunStats{StartTick: tick}
	return s
}
