// Command optimize tunes invaders difficulty with CMA-ES so the autopilot
// survives about as long as a target.
package main

import (
	"flag"
	"fmt"
	"log"
	"math"
	"os"
	"path/filepath"
	"time"

	"gonum.org/v1/gonum/optimize"

	"github.com/pthm-cable/invaders/config"
)

type options struct {
	configPath     string
	outputDir      string
	maxTicks       int64
	targetSurvival float64
	seeds          int
	maxEvals       int
	population     int
}

func main() {
	var opts options
	flag.StringVar(&opts.configPath, "config", "", "Base config YAML file (empty = use defaults)")
	flag.Int64Var(&opts.maxTicks, "max-ticks", 36000, "Maximum game duration in ticks (cap)")
	flag.Float64Var(&opts.targetSurvival, "target-survival", 120, "Target autopilot survival in game seconds")
	flag.IntVar(&opts.seeds, "seeds", 3, "Number of seeds per evaluation")
	flag.IntVar(&opts.maxEvals, "max-evals", 200, "Maximum number of evaluations")
	flag.IntVar(&opts.population, "population", 0, "CMA-ES population size (0 = auto)")
	flag.StringVar(&opts.outputDir, "output", "", "Output directory for results")
	flag.Parse()

	if opts.outputDir == "" {
		log.Fatal("--output is required")
	}
	if err := run(opts); err != nil {
		log.Fatal(err)
	}
}

// progress keeps the best evaluation seen and prints one line per evaluation.
type progress struct {
	total  int
	seeds  int
	target float64
	start  time.Time

	best  EvalRecord
	bestX []float64
}

func (p *progress) record(r EvalRecord, x []float64) {
	if p.bestX == nil || r.Fitness < p.best.Fitness {
		p.best = r
		p.bestX = append([]float64(nil), x...)
	}

	elapsed := time.Since(p.start)
	eta := elapsed / time.Duration(r.Eval) * time.Duration(max(p.total-r.Eval, 0))
	fmt.Printf("[%d/%d] survived %4.0fs/%.0fs  died %d/%d  acc %4.1f%%  quality %.2f | best %.4f @%d | %s eta %s\n",
		r.Eval, p.total, r.SurvivalSec, p.target, r.Finished, p.seeds, r.Accuracy*100, r.Quality,
		p.best.Fitness, p.best.Eval, elapsed.Round(time.Second), eta.Round(time.Second))
}

// report prints how the best evaluation compares with the target.
func (p *progress) report(params *ParamVector) {
	b := p.best
	fmt.Printf("\nBest of %d evaluations (#%d, fitness %.4f) after %s\n",
		p.total, b.Eval, b.Fitness, time.Since(p.start).Round(time.Second))
	fmt.Printf("  survival  %.0fs vs target %.0fs (%+.0f%%)\n",
		b.SurvivalSec, p.target, (b.SurvivalSec/p.target-1)*100)
	fmt.Printf("  died      %d of %d seeds before the cap\n", b.Finished, p.seeds)
	fmt.Printf("  accuracy  %.1f%%\n", b.Accuracy*100)
	fmt.Printf("  quality   %.2f\n", b.Quality)

	fmt.Println("\nParameters (default -> tuned):")
	for i, spec := range params.Specs {
		fmt.Printf("  %-22s %8.4f -> %8.4f\n", spec.Name, spec.Default, p.bestX[i])
	}
}

func run(opts options) error {
	if err := os.MkdirAll(opts.outputDir, 0755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	if err := config.Init(opts.configPath); err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	params := NewParamVector()
	evalSeeds := make([]int64, opts.seeds)
	for i := range evalSeeds {
		evalSeeds[i] = int64(i*1000 + 42)
	}
	evaluator := NewFitnessEvaluator(params, opts.maxTicks, evalSeeds, config.Cfg(), opts.targetSurvival)

	logFile, err := os.Create(filepath.Join(opts.outputDir, "optimize_log.csv"))
	if err != nil {
		return fmt.Errorf("creating eval log: %w", err)
	}
	defer logFile.Close()
	evals := &evalLog{w: logFile}

	prog := &progress{
		total:  opts.maxEvals,
		seeds:  opts.seeds,
		target: opts.targetSurvival,
		start:  time.Now(),
	}
	count := 0

	// CMA-ES searches the unit cube; the game runs the clamped raw values.
	problem := optimize.Problem{
		Func: func(x []float64) float64 {
			raw := params.Clamp(params.Denormalize(x))
			fitness := evaluator.Evaluate(raw)
			count++

			rec := newEvalRecord(count, fitness, evaluator.LastResult(), raw)
			if err := evals.Write(rec); err != nil {
				log.Printf("eval %d: %v", count, err)
			}
			prog.record(rec, raw)
			return fitness
		},
	}

	dim := params.Dim()
	popSize := opts.population
	if popSize == 0 {
		popSize = 4 + int(3*math.Log(float64(dim)))
	}
	method := &optimize.CmaEsChol{InitStepSize: 0.3, Population: popSize}
	settings := &optimize.Settings{FuncEvaluations: opts.maxEvals}

	fmt.Printf("CMA-ES over %d parameters, population %d, %d evals x %d seeds, cap %d ticks, target %.0fs\n",
		dim, popSize, opts.maxEvals, opts.seeds, opts.maxTicks, opts.targetSurvival)

	if _, err := optimize.Minimize(problem, params.Normalize(params.DefaultVector()), settings, method); err != nil {
		log.Printf("optimization ended: %v", err)
	}
	if prog.bestX == nil {
		return fmt.Errorf("no evaluations completed")
	}
	prog.total = count
	prog.report(params)

	bestCfg, err := config.Load(opts.configPath)
	if err != nil {
		return fmt.Errorf("reloading config: %w", err)
	}
	params.ApplyToConfig(bestCfg, prog.bestX)
	cfgPath := filepath.Join(opts.outputDir, "best_config.yaml")
	if err := bestCfg.WriteYAML(cfgPath); err != nil {
		return fmt.Errorf("writing best config: %w", err)
	}
	fmt.Printf("\nBest config saved to %s\n", cfgPath)

	if hs := evaluator.BestHighScores(); hs != nil {
		hsPath := filepath.Join(opts.outputDir, "best_runs.json")
		if err := hs.Save(hsPath); err != nil {
			return fmt.Errorf("writing best runs: %w", err)
		}
		fmt.Printf("Best runs saved to %s\n", hsPath)
	}
	return nil
}
