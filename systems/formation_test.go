package systems

import (
	"math"
	"testing"

	"github.com/pthm-cable/invaders/components"
	"github.com/pthm-cable/invaders/config"
)

// scriptedRand returns queued values, then 1 (never fires) once exhausted.
type scriptedRand struct {
	vals []float64
}

func (r *scriptedRand) Float64() float64 {
	if len(r.vals) == 0 {
		return 1
	}
	v := r.vals[0]
	r.vals = r.vals[1:]
	return v
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg, err := config.Load("")
	if err != nil {
		t.Fatalf("loading defaults: %v", err)
	}
	return cfg
}

func approx(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestSeedFormation(t *testing.T) {
	cfg := testConfig(t)
	var ids components.IDAllocator

	enemies := SeedFormation(cfg, &ids)

	if len(enemies) != 21 {
		t.Fatalf("len = %d, want 21", len(enemies))
	}
	first, last := enemies[0], enemies[len(enemies)-1]
	if first.X != 235 || first.Y != 50 {
		t.Errorf("first enemy at (%v, %v), want (235, 50)", first.X, first.Y)
	}
	if last.X != 535 || last.Y != 150 {
		t.Errorf("last enemy at (%v, %v), want (535, 150)", last.X, last.Y)
	}
	seen := map[uint32]bool{}
	for _, e := range enemies {
		if e.Points != 10 {
			t.Errorf("enemy %d points = %d, want 10", e.ID, e.Points)
		}
		if seen[e.ID] {
			t.Errorf("duplicate id %d", e.ID)
		}
		seen[e.ID] = true
	}
}

func TestFormationSpeed(t *testing.T) {
	cfg := testConfig(t)

	tests := []struct {
		name    string
		rows    int
		cols    int
		refCols int
		alive   int
		want    float64
	}{
		{"full grid", 3, 7, 7, 21, 0.5},
		{"last survivor", 3, 7, 7, 1, 0.5 * (1 + 20.0/21.0)},
		{"half thinned", 2, 5, 7, 5, 0.5 * 1.5 * 5.0 / 7.0},
		{"wide grid scales up", 1, 14, 7, 14, 1.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := cfg.Clone()
			c.Enemy.Rows = tt.rows
			c.Enemy.Cols = tt.cols
			c.Enemy.ReferenceCols = tt.refCols
			c.ComputeDerived()

			if got := FormationSpeed(tt.alive, c); !approx(got, tt.want) {
				t.Errorf("FormationSpeed(%d) = %v, want %v", tt.alive, got, tt.want)
			}
		})
	}
}

func TestAdvanceFormationSweep(t *testing.T) {
	cfg := testConfig(t)
	var ids components.IDAllocator
	enemies := SeedFormation(cfg, &ids)

	res := AdvanceFormation(enemies, 1, 2, cfg, &scriptedRand{}, &ids)

	if res.Dropped || res.Direction != 1 {
		t.Fatalf("dropped = %v direction = %d, want false and 1", res.Dropped, res.Direction)
	}
	for i := range enemies {
		if !approx(res.Enemies[i].X, enemies[i].X+1.0) {
			t.Errorf("enemy %d x = %v, want %v", i, res.Enemies[i].X, enemies[i].X+1.0)
		}
		if res.Enemies[i].Y != enemies[i].Y {
			t.Errorf("enemy %d y changed without a drop", i)
		}
	}
	if enemies[0].X != 235 {
		t.Error("input slice was modified")
	}
}

func TestAdvanceFormationReversal(t *testing.T) {
	cfg := testConfig(t)
	speed := FormationSpeed(2, cfg)

	tests := []struct {
		name   string
		policy config.FlipPolicy
		start  []float64
		dir    int
		wantDx float64
	}{
		{"left edge flip and move", config.FlipMove, []float64{20, 300}, -1, speed},
		{"left edge hold", config.FlipHold, []float64{20, 300}, -1, 0},
		{"right edge flip and move", config.FlipMove, []float64{300, 750}, 1, -speed},
		{"right edge hold", config.FlipHold, []float64{300, 750}, 1, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := cfg.Clone()
			c.Formation.FlipPolicy = tt.policy

			enemies := []components.Enemy{
				{ID: 1, Rect: components.Rect{X: tt.start[0], Y: 100, W: 30, H: 30}, Points: 10},
				{ID: 2, Rect: components.Rect{X: tt.start[1], Y: 140, W: 30, H: 30}, Points: 10},
			}
			var ids components.IDAllocator
			res := AdvanceFormation(enemies, tt.dir, 1, c, &scriptedRand{}, &ids)

			if !res.Dropped {
				t.Fatal("expected a drop")
			}
			if res.Direction != -tt.dir {
				t.Errorf("direction = %d, want %d", res.Direction, -tt.dir)
			}
			for i := range enemies {
				if got := res.Enemies[i].Y; got != enemies[i].Y+10 {
					t.Errorf("enemy %d y = %v, want %v", i, got, enemies[i].Y+10)
				}
				if got := res.Enemies[i].X - enemies[i].X; !approx(got, tt.wantDx) {
					t.Errorf("enemy %d dx = %v, want %v", i, got, tt.wantDx)
				}
			}
		})
	}
}

func TestAdvanceFormationIgnoresTrailingEdge(t *testing.T) {
	cfg := testConfig(t)
	enemies := []components.Enemy{
		{ID: 1, Rect: components.Rect{X: 10, Y: 100, W: 30, H: 30}, Points: 10},
	}
	var ids components.IDAllocator

	// Past the left padding but already heading right: keep going.
	res := AdvanceFormation(enemies, 1, 1, cfg, &scriptedRand{}, &ids)
	if res.Dropped || res.Direction != 1 {
		t.Errorf("dropped = %v direction = %d, want false and 1", res.Dropped, res.Direction)
	}
}

func TestAdvanceFormationFlipsOncePerEdge(t *testing.T) {
	cfg := testConfig(t)

	tests := []struct {
		name   string
		policy config.FlipPolicy
		deltas []float64
	}{
		{"hold", config.FlipHold, []float64{1}},
		{"move", config.FlipMove, []float64{1}},
		{"move with shrinking delta", config.FlipMove, []float64{1, 0.5}},
		{"hold with shrinking delta", config.FlipHold, []float64{1, 0.5, 0.25}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := cfg.Clone()
			c.Formation.FlipPolicy = tt.policy

			// Right edge just past the padding, heading right.
			enemies := []components.Enemy{
				{ID: 1, Rect: components.Rect{X: 749.9, Y: 100, W: 30, H: 30}, Points: 10},
			}
			dir := 1
			var ids components.IDAllocator

			drops := 0
			for tick := 0; tick < 20; tick++ {
				delta := tt.deltas[min(tick, len(tt.deltas)-1)]
				res := AdvanceFormation(enemies, dir, delta, c, &scriptedRand{}, &ids)
				if res.Dropped {
					drops++
				}
				enemies, dir = res.Enemies, res.Direction
			}

			if drops != 1 {
				t.Errorf("drops = %d, want 1", drops)
			}
			if dir != -1 {
				t.Errorf("direction = %d, want -1", dir)
			}
			if got := enemies[0].Y; got != 110 {
				t.Errorf("y = %v, want 110", got)
			}
			if enemies[0].X >= 749.9 {
				t.Errorf("x = %v, formation never moved back left", enemies[0].X)
			}
		})
	}
}

func TestAdvanceFormationFiring(t *testing.T) {
	cfg := testConfig(t)
	enemies := []components.Enemy{
		{ID: 1, Rect: components.Rect{X: 100, Y: 100, W: 30, H: 30}, Points: 10},
		{ID: 2, Rect: components.Rect{X: 200, Y: 100, W: 30, H: 30}, Points: 10},
		{ID: 3, Rect: components.Rect{X: 300, Y: 100, W: 30, H: 30}, Points: 10},
	}
	ids := components.IDAllocator{Last: 3}

	// Threshold is 0.01*2 = 0.02: the first and third draws fire.
	rng := &scriptedRand{vals: []float64{0.019, 0.02, 0.0}}
	res := AdvanceFormation(enemies, 1, 2, cfg, rng, &ids)

	if len(res.Spawned) != 2 {
		t.Fatalf("spawned %d bullets, want 2", len(res.Spawned))
	}
	b := res.Spawned[0]
	if b.X != 100 || b.Y != 115 {
		t.Errorf("bullet at (%v, %v), want pre-move (100, 115)", b.X, b.Y)
	}
	if b.IsPlayerBullet || b.Speed != -2 {
		t.Errorf("bullet = %+v, want an enemy bullet with speed -2", b)
	}
	if res.Spawned[1].X != 300 {
		t.Errorf("second bullet x = %v, want 300", res.Spawned[1].X)
	}
	if res.Spawned[0].ID == res.Spawned[1].ID || res.Spawned[0].ID <= 3 {
		t.Errorf("spawned ids %d, %d must be fresh", res.Spawned[0].ID, res.Spawned[1].ID)
	}
}

func TestAdvanceFormationEmpty(t *testing.T) {
	cfg := testConfig(t)
	var ids components.IDAllocator
	res := AdvanceFormation(nil, -1, 1, cfg, &scriptedRand{}, &ids)
	if len(res.Enemies) != 0 || res.Direction != -1 || res.Dropped {
		t.Errorf("empty formation result = %+v", res)
	}
}

func TestFormationLanded(t *testing.T) {
	enemies := []components.Enemy{
		{Rect: components.Rect{Y: 100, H: 30}},
		{Rect: components.Rect{Y: 569, H: 30}},
	}
	if FormationLanded(enemies, 600) {
		t.Error("bottom at 599 should not have landed")
	}
	enemies[1].Y = 570
	if !FormationLanded(enemies, 600) {
		t.Error("bottom at 600 should have landed")
	}
}
