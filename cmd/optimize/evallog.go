package main

import (
	"fmt"
	"io"

	"github.com/gocarina/gocsv"
)

// EvalRecord is one optimize_log.csv row. The parameter columns follow the
// order of NewParamVector.
type EvalRecord struct {
	Eval        int     `csv:"eval"`
	Fitness     float64 `csv:"fitness"`
	SurvivalSec float64 `csv:"survival_sec"`
	Quality     float64 `csv:"quality"`
	Accuracy    float64 `csv:"accuracy"`
	Finished    int     `csv:"finished"`

	EnemyMoveSpeed      float64 `csv:"enemy_move_speed"`
	EnemyVerticalStep   float64 `csv:"enemy_vertical_step"`
	EnemyShootFrequency float64 `csv:"enemy_shoot_frequency"`
	BulletSpeed         float64 `csv:"bullet_speed"`
	ShootCooldown       float64 `csv:"shoot_cooldown"`
	PlayerSpeed         float64 `csv:"player_speed"`
}

// newEvalRecord builds a row from an evaluation and the clamped parameters it
// ran with.
func newEvalRecord(eval int, fitness float64, s EvalSummary, x []float64) EvalRecord {
	return EvalRecord{
		Eval:        eval,
		Fitness:     fitness,
		SurvivalSec: s.SurvivalSec,
		Quality:     s.Quality,
		Accuracy:    s.Accuracy,
		Finished:    s.Finished,

		EnemyMoveSpeed:      x[0],
		EnemyVerticalStep:   x[1],
		EnemyShootFrequency: x[2],
		BulletSpeed:         x[3],
		ShootCooldown:       x[4],
		PlayerSpeed:         x[5],
	}
}

// evalLog appends EvalRecords to a CSV stream, with headers on the first row.
type evalLog struct {
	w             io.Writer
	headerWritten bool
}

func (l *evalLog) Write(r EvalRecord) error {
	records := []EvalRecord{r}
	if !l.headerWritten {
		if err := gocsv.Marshal(records, l.w); err != nil {
			return fmt.Errorf("writing eval log: %w", err)
		}
		l.headerWritten = true
		return nil
	}
	if err := gocsv.MarshalWithoutHeaders(records, l.w); err != nil {
		return fmt.Errorf("writing eval log: %w", err)
	}
	return nil
}
