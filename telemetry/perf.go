package telemetry

import (
	"log/slog"
	"time"
)

// Phase is one slice of a driver tick.
type Phase uint8

const (
	PhaseInput Phase = iota
	PhaseSim
	PhaseTelemetry
	PhaseScene
	numPhases
)

var phaseNames = [numPhases]string{
	PhaseInput:     "input",
	PhaseSim:       "sim",
	PhaseTelemetry: "telemetry",
	PhaseScene:     "scene",
}

func (p Phase) String() string {
	if p < numPhases {
		return phaseNames[p]
	}
	return "unknown"
}

// Phases lists every phase in the order a tick runs them.
func Phases() []Phase {
	return []Phase{PhaseInput, PhaseSim, PhaseTelemetry, PhaseScene}
}

// tickTiming is the wall time of one driver tick, split by phase.
type tickTiming struct {
	total  time.Duration
	phases [numPhases]time.Duration
}

// PerfCollector times driver ticks over a rolling window and compares them
// with the frame budget of the configured tick rate.
type PerfCollector struct {
	now    func() time.Time
	budget time.Duration
	tps    int

	ring  []tickTiming
	next  int
	count int

	cur        tickTiming
	tickStart  time.Time
	phaseStart time.Time
	phase      Phase
	inPhase    bool

	lastFrame time.Time
	frame     time.Duration
}

// NewPerfCollector creates a collector averaging over windowSize ticks for a
// game running at ticksPerSecond.
func NewPerfCollector(windowSize, ticksPerSecond int) *PerfCollector {
	if windowSize < 1 {
		windowSize = 60
	}
	if ticksPerSecond < 1 {
		ticksPerSecond = 60
	}
	return &PerfCollector{
		now:    time.Now,
		budget: time.Second / time.Duration(ticksPerSecond),
		tps:    ticksPerSecond,
		ring:   make([]tickTiming, windowSize),
	}
}

// Budget returns the wall time one tick may take at the target rate.
func (p *PerfCollector) Budget() time.Duration {
	return p.budget
}

// StartTick begins timing a driver tick.
func (p *PerfCollector) StartTick() {
	p.tickStart = p.now()
	p.cur = tickTiming{}
	p.inPhase = false
}

// StartPhase closes the running phase, if any, and starts timing phase.
// A phase entered twice in one tick accumulates.
func (p *PerfCollector) StartPhase(phase Phase) {
	now := p.now()
	p.closePhase(now)
	p.phase = phase
	p.phaseStart = now
	p.inPhase = true
}

func (p *PerfCollector) closePhase(now time.Time) {
	if p.inPhase && p.phase < numPhases {
		p.cur.phases[p.phase] += now.Sub(p.phaseStart)
	}
	p.inPhase = false
}

// EndTick closes the tick and stores it in the window.
func (p *PerfCollector) EndTick() {
	now := p.now()
	p.closePhase(now)
	p.cur.total = now.Sub(p.tickStart)

	p.ring[p.next] = p.cur
	p.next = (p.next + 1) % len(p.ring)
	if p.count < len(p.ring) {
		p.count++
	}
}

// RecordFrame marks the end of a rendered frame.
func (p *PerfCollector) RecordFrame() {
	now := p.now()
	if !p.lastFrame.IsZero() {
		p.frame = now.Sub(p.lastFrame)
	}
	p.lastFrame = now
}

// PerfStats summarizes the ticks in the window.
type PerfStats struct {
	Samples int

	AvgTickDuration time.Duration
	MinTickDuration time.Duration
	MaxTickDuration time.Duration

	PhaseAvg [numPhases]time.Duration
	PhasePct [numPhases]float64 // Share of the average tick, 0-100

	// Ticks in the window that overran the frame budget
	OverBudget int

	TicksPerSecond float64
	// Game seconds simulated per wall second; above 1 means faster than real time
	Speedup float64

	FrameDuration time.Duration
	FPS           float64
}

// Pct returns the share of tick time spent in phase.
func (s PerfStats) Pct(phase Phase) float64 {
	if phase >= numPhases {
		return 0
	}
	return s.PhasePct[phase]
}

// Slowest returns the phase with the largest average time.
func (s PerfStats) Slowest() Phase {
	slowest := PhaseInput
	for _, ph := range Phases() {
		if s.PhaseAvg[ph] > s.PhaseAvg[slowest] {
			slowest = ph
		}
	}
	return slowest
}

// Stats summarizes the current window.
func (p *PerfCollector) Stats() PerfStats {
	s := PerfStats{
		Samples:       p.count,
		FrameDuration: p.frame,
	}
	if p.frame > 0 {
		s.FPS = float64(time.Second) / float64(p.frame)
	}
	if p.count == 0 {
		return s
	}

	var total time.Duration
	var phaseSum [numPhases]time.Duration
	for i, t := range p.ring[:p.count] {
		total += t.total
		if i == 0 || t.total < s.MinTickDuration {
			s.MinTickDuration = t.total
		}
		s.MaxTickDuration = max(s.MaxTickDuration, t.total)
		if t.total > p.budget {
			s.OverBudget++
		}
		for ph, d := range t.phases {
			phaseSum[ph] += d
		}
	}

	n := time.Duration(p.count)
	s.AvgTickDuration = total / n
	for ph := range phaseSum {
		s.PhaseAvg[ph] = phaseSum[ph] / n
		if s.AvgTickDuration > 0 {
			s.PhasePct[ph] = float64(s.PhaseAvg[ph]) / float64(s.AvgTickDuration) * 100
		}
	}
	if s.AvgTickDuration > 0 {
		s.TicksPerSecond = float64(time.Second) / float64(s.AvgTickDuration)
		s.Speedup = s.TicksPerSecond / float64(p.tps)
	}
	return s
}

// LogStats logs the window summary.
func (s PerfStats) LogStats() {
	slog.Info("perf", "perf", s)
}

// LogValue implements slog.LogValuer for structured logging.
func (s PerfStats) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.Int64("avg_tick_us", s.AvgTickDuration.Microseconds()),
		slog.Int64("max_tick_us", s.MaxTickDuration.Microseconds()),
		slog.Int("over_budget", s.OverBudget),
		slog.Float64("speedup", s.Speedup),
		slog.String("slowest", s.Slowest().String()),
	}
	if s.FPS > 0 {
		attrs = append(attrs, slog.Float64("fps", s.FPS))
	}
	for _, ph := range Phases() {
		attrs = append(attrs, slog.Float64(ph.String()+"_pct", s.PhasePct[ph]))
	}
	return slog.GroupValue(attrs...)
}

// PerfStatsCSV is one perf.csv row.
type PerfStatsCSV struct {
	WindowEnd    int64   `csv:"window_end"`
	AvgTickUS    int64   `csv:"avg_tick_us"`
	MinTickUS    int64   `csv:"min_tick_us"`
	MaxTickUS    int64   `csv:"max_tick_us"`
	OverBudget   int     `csv:"over_budget"`
	Speedup      float64 `csv:"speedup"`
	FPS          float64 `csv:"fps"`
	InputPct     float64 `csv:"input_pct"`
	SimPct       float64 `csv:"sim_pct"`
	TelemetryPct float64 `csv:"telemetry_pct"`
	ScenePct     float64 `csv:"scene_pct"`
}

// ToCSV flattens the stats for the window ending at windowEnd.
func (s PerfStats) ToCSV(windowEnd int64) PerfStatsCSV {
	return PerfStatsCSV{
		WindowEnd:    windowEnd,
		AvgTickUS:    s.AvgTickDuration.Microseconds(),
		MinTickUS:    s.MinTickDuration.Microseconds(),
		MaxTickUS:    s.MaxTickDuration.Microseconds(),
		OverBudget:   s.OverBudget,
		Speedup:      s.Speedup,
		FPS:          s.FPS,
		InputPct:     s.PhasePct[PhaseInput],
		SimPct:       s.PhasePct[PhaseSim],
		TelemetryPct: s.PhasePct[PhaseTelemetry],
		ScenePct:     s.PhasePct[PhaseScene],
	}
}
