package telemetry

// Collector accumulates events within time windows and produces WindowStats.
type Collector struct {
	windowDurationSec   float64
	windowDurationTicks int64
	dt                  float64

	// Current window tracking
	windowStartTick int64

	// Event counters for current window
	shots         int
	enemyShots    int
	kills         int
	points        int
	playerHits    int
	drops         int
	levelsCleared int
	gameOvers     int

	// Per-tick formation depth samples
	depths []float64
}

// NewCollector creates a new stats collector.
// windowDurationSec: how long each stats window lasts in game seconds
// dt: seconds per tick (used for tick-to-time conversion)
func NewCollector(windowDurationSec, dt float64) *Collector {
	ticksPerWindow := int64(windowDurationSec / dt)
	if ticksPerWindow < 1 {
		ticksPerWindow = 1
	}

	return &Collector{
		windowDurationSec:   windowDurationSec,
		windowDurationTicks: ticksPerWindow,
		dt:                  dt,
	}
}

// Record counts one event in the current window.
func (c *Collector) Record(ev Event) {
	switch ev.Type {
	case EventShot:
		c.shots++
	case EventEnemyShot:
		c.enemyShots++
	case EventKill:
		c.kills++
		c.points += ev.Points
	case EventPlayerHit:
		c.playerHits++
	case EventFormationDrop:
		c.drops++
	case EventLevelCleared:
		c.levelsCleared++
	case EventGameOver:
		c.gameOvers++
	}
}

// SampleDepth records the formation's lowest bottom edge for this tick.
func (c *Collector) SampleDepth(depth float64) {
	c.depths = append(c.depths, depth)
}

// ShouldFlush returns true if enough ticks have passed to flush the window.
func (c *Collector) ShouldFlush(currentTick int64) bool {
	return currentTick-c.windowStartTick >= c.windowDurationTicks
}

// Sample is the game state the caller reads at flush time.
type Sample struct {
	Score         int
	Level         int
	Lives         int
	EnemiesAlive  int
	PlayerBullets int
	EnemyBullets  int
}

// Flush produces a WindowStats and resets counters for the next window.
func (c *Collector) Flush(currentTick int64, s Sample) WindowStats {
	var accuracy float64
	if c.shots > 0 {
		accuracy = float64(c.kills) / float64(c.shots)
	}

	depth := ComputeDepthStats(c.depths)

	stats := WindowStats{
		WindowStartTick: c.windowStartTick,
		WindowEndTick:   currentTick,
		SimTimeSec:      float64(currentTick) * c.dt,

		Score:         s.Score,
		Level:         s.Level,
		Lives:         s.Lives,
		EnemiesAlive:  s.EnemiesAlive,
		PlayerBullets: s.PlayerBullets,
		EnemyBullets:  s.EnemyBullets,

		Shots:         c.shots,
		EnemyShots:    c.enemyShots,
		Kills:         c.kills,
		Points:        c.points,
		PlayerHits:    c.playerHits,
		Drops:         c.drops,
		LevelsCleared: c.levelsCleared,
		GameOvers:     c.gameOvers,
		Accuracy:      accuracy,

		DepthMean: depth.Mean,
		DepthStd:  depth.Std,
		DepthP50:  depth.P50,
		DepthP90:  depth.P90,
		DepthMax:  depth.Max,
	}

	// Reset for next window
	c.windowStartTick = currentTick
	c.shots = 0
	c.enemyShots = 0
	c.kills = 0
	c.points = 0
	c.playerHits = 0
	c.drops = 0
	c.levelsCleared = 0
	c.gameOvers = 0
	c.depths = c.depths[:0]

	return stats
}

// WindowDurationTicks returns the number of ticks per window.
func (c *Collector) WindowDurationTicks() int64 {
	return c.windowDurationTicks
}
