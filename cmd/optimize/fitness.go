package main

import (
	"math"
	"sync"

	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/invaders/config"
	"github.com/pthm-cable/invaders/game"
	"github.com/pthm-cable/invaders/telemetry"
)

// FitnessEvaluator runs headless autopilot games and scores how close their
// difficulty lands to a target.
type FitnessEvaluator struct {
	params      *ParamVector
	maxTicks    int64
	seeds       []int64
	baseConfig  *config.Config
	statsWindow float64

	// Target survival time of the autopilot, in game seconds
	targetSurvivalSec float64

	// Best run tracking
	mu             sync.Mutex
	bestFitness    float64
	bestHighScores *telemetry.HighScores
	last           EvalSummary
}

// EvalSummary describes the seeds of one evaluation.
type EvalSummary struct {
	SurvivalSec float64 // mean across seeds, capped runs count the cap
	Quality     float64
	Accuracy    float64 // mean over runs that reached game over
	Finished    int     // runs that reached game over before the cap
}

// NewFitnessEvaluator creates a new evaluator.
func NewFitnessEvaluator(params *ParamVector, maxTicks int64, seeds []int64, baseCfg *config.Config, targetSurvivalSec float64) *FitnessEvaluator {
	return &FitnessEvaluator{
		params:            params,
		maxTicks:          maxTicks,
		seeds:             seeds,
		baseConfig:        baseCfg,
		statsWindow:       5.0, // 5 seconds per window
		targetSurvivalSec: targetSurvivalSec,
		bestFitness:       math.Inf(1),
	}
}

// BestHighScores returns the runs from the best evaluation.
func (fe *FitnessEvaluator) BestHighScores() *telemetry.HighScores {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.bestHighScores
}

// LastResult summarizes the most recent evaluation.
func (fe *FitnessEvaluator) LastResult() EvalSummary {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.last
}

// runResult holds the results from a single game.
type runResult struct {
	survivalSec float64                 // game time until game over, or the cap
	run         telemetry.RunStats      // zero when the game hit the cap
	finished    bool                    // the game ended before the cap
	windowStats []telemetry.WindowStats // collected via StatsCallback each window
}

// seedResult holds the result from one seed evaluation.
type seedResult struct {
	fitness     float64
	quality     float64
	survivalSec float64
	finished    bool
	entry       telemetry.HighScore
}

// Evaluate computes fitness for a parameter vector (lower = better).
func (fe *FitnessEvaluator) Evaluate(x []float64) float64 {
	// Run all seeds in parallel
	results := make([]seedResult, len(fe.seeds))
	var wg sync.WaitGroup

	for i, seed := range fe.seeds {
		wg.Add(1)
		go func(idx int, s int64) {
			defer wg.Done()
			result := fe.runGame(x, s)
			quality := fe.computeQuality(result.windowStats)
			results[idx] = seedResult{
				fitness:     fe.computeFitness(result.survivalSec, quality),
				quality:     quality,
				survivalSec: result.survivalSec,
				finished:    result.finished,
				entry: telemetry.HighScore{
					Score:    result.run.Score,
					Level:    result.run.Level,
					Kills:    result.run.Kills,
					Accuracy: result.run.Accuracy,
					Ticks:    result.run.EndTick - result.run.StartTick,
					Seed:     s,
				},
			}
		}(i, seed)
	}
	wg.Wait()

	// Aggregate results
	avgFitness, summary := summarize(results)
	table := telemetry.NewHighScores(len(fe.seeds))
	for _, r := range results {
		table.Consider(r.entry)
	}

	// Update best tracking
	fe.mu.Lock()
	if avgFitness < fe.bestFitness {
		fe.bestFitness = avgFitness
		fe.bestHighScores = table
	}
	fe.last = summary
	fe.mu.Unlock()

	return avgFitness
}

// summarize averages per-seed results into the fitness and summary of one
// evaluation.
func summarize(results []seedResult) (float64, EvalSummary) {
	var s EvalSummary
	if len(results) == 0 {
		return math.Inf(1), s
	}
	var fitness float64
	for _, r := range results {
		fitness += r.fitness
		s.Quality += r.quality
		s.SurvivalSec += r.survivalSec
		if r.finished {
			s.Finished++
			s.Accuracy += r.entry.Accuracy
		}
	}
	n := float64(len(results))
	s.Quality /= n
	s.SurvivalSec /= n
	if s.Finished > 0 {
		s.Accuracy /= float64(s.Finished)
	}
	return fitness / n, s
}

// runGame plays one autopilot game until game over or maxTicks, whichever
// comes first.
func (fe *FitnessEvaluator) runGame(x []float64, seed int64) *runResult {
	cfg := fe.baseConfig.Clone()
	fe.params.ApplyToConfig(cfg, x)

	result := &runResult{}

	g := game.NewGameWithOptions(game.Options{
		Seed:           seed,
		Headless:       true,
		Autopilot:      true,
		StatsWindowSec: fe.statsWindow,
		HighScoresPath: "-",
		Config:         cfg,
		StatsCallback: func(stats telemetry.WindowStats) {
			result.windowStats = append(result.windowStats, stats)
		},
		RunCallback: func(run telemetry.RunStats) {
			result.run = run
			result.finished = true
		},
	})
	defer g.Unload()

	for g.Tick() < fe.maxTicks && !result.finished {
		g.UpdateHeadless()
	}

	if result.finished {
		result.survivalSec = result.run.DurationSec
	} else {
		result.survivalSec = float64(fe.maxTicks) * cfg.Derived.SecondsPerTk
	}
	return result
}

// computeFitness calculates the scalar fitness (lower = better).
// Formula: ln(survival/target)² - 0.2 × quality
// Hitting the target survival dominates; quality separates configs that
// survive about as long.
func (fe *FitnessEvaluator) computeFitness(survivalSec, quality float64) float64 {
	if survivalSec <= 0 {
		survivalSec = 1e-3
	}
	logErr := math.Log(survivalSec / fe.targetSurvivalSec)
	return logErr*logErr - 0.2*quality
}

// Quality component weights.
const (
	qualityWeightPressure = 0.40
	qualityWeightAccuracy = 0.30
	qualityWeightPace     = 0.30

	qualityWarmupWindows = 1 // skip the first window (formation still high)

	targetDepthMean = 0.55 // formation depth as a fraction of arena height
	targetAccuracy  = 0.35
	targetKillsPerS = 0.5
)

// computeQuality scores how a game feels, in [0, 1]: the formation pressing
// down without landing at once, the autopilot hitting some of its shots and
// kills coming at a steady pace.
func (fe *FitnessEvaluator) computeQuality(windows []telemetry.WindowStats) float64 {
	if len(windows) <= qualityWarmupWindows {
		return 0
	}
	valid := windows[qualityWarmupWindows:]
	arenaH := fe.baseConfig.Arena.Height

	var pressureSum, accuracySum float64
	var accuracyCount int
	kills := make([]float64, 0, len(valid))

	for _, w := range valid {
		depth := w.DepthMean / arenaH
		pressureSum += math.Exp(-math.Pow((depth-targetDepthMean)/0.2, 2))

		if w.Shots > 0 {
			accuracySum += math.Exp(-math.Pow((w.Accuracy-targetAccuracy)/0.2, 2))
			accuracyCount++
		}

		kills = append(kills, float64(w.Kills))
	}

	pressureScore := pressureSum / float64(len(valid))

	accuracyScore := 0.0
	if accuracyCount > 0 {
		accuracyScore = accuracySum / float64(accuracyCount)
	}

	// Pace: mean kill rate near target, penalised by how bursty it is
	paceScore := 0.0
	if mean := stat.Mean(kills, nil); mean > 0 {
		rate := mean / fe.statsWindow
		logErr := math.Log(rate / targetKillsPerS)
		c := cv(kills)
		paceScore = math.Exp(-logErr*logErr) * math.Exp(-c*c)
	}

	quality := qualityWeightPressure*pressureScore +
		qualityWeightAccuracy*accuracyScore +
		qualityWeightPace*paceScore

	return clamp01(quality)
}

// cv computes the coefficient of variation (std/mean) for a slice of values.
func cv(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	mean, std := stat.PopMeanStdDev(values, nil)
	if mean == 0 {
		return 0
	}
	return std / mean
}

// clamp01 clamps x to [0, 1].
func clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}
