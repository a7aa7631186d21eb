package telemetry

import (
	"log/slog"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// WindowStats holds aggregated statistics for a time window.
type WindowStats struct {
	WindowStartTick int64   `csv:"-"`
	WindowEndTick   int64   `csv:"window_end"`
	SimTimeSec      float64 `csv:"sim_time"`

	// Game state at window end
	Score         int `csv:"score"`
	Level         int `csv:"level"`
	Lives         int `csv:"lives"`
	EnemiesAlive  int `csv:"enemies_alive"`
	PlayerBullets int `csv:"player_bullets"`
	EnemyBullets  int `csv:"enemy_bullets"`

	// Events during window
	Shots         int     `csv:"shots"`
	EnemyShots    int     `csv:"enemy_shots"`
	Kills         int     `csv:"kills"`
	Points        int     `csv:"points"`
	PlayerHits    int     `csv:"player_hits"`
	Drops         int     `csv:"drops"`
	LevelsCleared int     `csv:"levels_cleared"`
	GameOvers     int     `csv:"game_overs"`
	Accuracy      float64 `csv:"accuracy"` // kills per shot

	// Formation depth distribution over the window's ticks
	DepthMean float64 `csv:"depth_mean"`
	DepthStd  float64 `csv:"depth_std"`
	DepthP50  float64 `csv:"depth_p50"`
	DepthP90  float64 `csv:"depth_p90"`
	DepthMax  float64 `csv:"depth_max"`
}

// DepthStats summarizes formation depth samples.
type DepthStats struct {
	Mean, Std, P50, P90, Max float64
}

// ComputeDepthStats calculates mean, standard deviation and quantiles.
// Returns zeros for an empty slice.
func ComputeDepthStats(values []float64) DepthStats {
	n := len(values)
	if n == 0 {
		return DepthStats{}
	}

	sorted := make([]float64, n)
	copy(sorted, values)
	sort.Float64s(sorted)

	mean, std := stat.MeanStdDev(sorted, nil)
	if n == 1 {
		std = 0 // MeanStdDev is NaN for a single sample
	}

	return DepthStats{
		Mean: mean,
		Std:  std,
		P50:  stat.Quantile(0.5, stat.Empirical, sorted, nil),
		P90:  stat.Quantile(0.9, stat.Empirical, sorted, nil),
		Max:  sorted[n-1],
	}
}

// LogStats logs the window using slog.
func (s WindowStats) LogStats() {
	slog.Info("stats",
		"window_end", s.WindowEndTick,
		"sim_time", s.SimTimeSec,
		"score", s.Score,
		"level", s.Level,
		"lives", s.Lives,
		"enemies", s.EnemiesAlive,
		"shots", s.Shots,
		"kills", s.Kills,
		"player_hits", s.PlayerHits,
		"accuracy", s.Accuracy,
		"depth_mean", s.DepthMean,
		"depth_max", s.DepthMax,
	)
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int64("window_end", s.WindowEndTick),
		slog.Int("score", s.Score),
		slog.Int("level", s.Level),
		slog.Int("kills", s.Kills),
		slog.Float64("accuracy", s.Accuracy),
	)
}
