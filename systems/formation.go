package systems

import (
	"github.com/pthm-cable/invaders/components"
	"github.com/pthm-cable/invaders/config"
)

// Rand is the randomness the formation needs. *math/rand.Rand satisfies it.
type Rand interface {
	Float64() float64
}

// SeedFormation lays out a full enemy grid at its initial positions, row by
// row, allocating fresh IDs. Insertion order is row-major and is the order the
// collision pass uses to break ties.
func SeedFormation(cfg *config.Config, ids *components.IDAllocator) []components.Enemy {
	e := &cfg.Enemy
	enemies := make([]components.Enemy, 0, cfg.Derived.TotalSlots)

	for row := 0; row < e.Rows; row++ {
		for col := 0; col < e.Cols; col++ {
			enemies = append(enemies, components.Enemy{
				ID: ids.Alloc(),
				Rect: components.Rect{
					X: cfg.Derived.GridOffsetX + float64(col)*(e.Width+e.HorizontalSpacing),
					Y: e.VerticalPadding + float64(row)*(e.Height+e.VerticalSpacing),
					W: e.Width,
					H: e.Height,
				},
				Points: e.Points,
			})
		}
	}
	return enemies
}

// FormationSpeed returns the horizontal speed for a formation with alive
// members out of the configured grid. Thinning the formation speeds it up, up
// to double speed for the last survivor, and the result is scaled by the
// column count relative to the reference grid.
func FormationSpeed(alive int, cfg *config.Config) float64 {
	total := float64(cfg.Derived.TotalSlots)
	speed := cfg.Enemy.MoveSpeed * (1 + (total-float64(alive))/total)
	return speed * cfg.Derived.ColumnScale
}

// FormationResult is the outcome of one formation tick.
type FormationResult struct {
	Enemies   []components.Enemy
	Direction int
	Dropped   bool                // The formation hit a boundary, flipped and dropped this tick
	Spawned   []components.Bullet // Enemy bullets fired this tick, for the caller to merge
}

// AdvanceFormation moves the formation one tick.
//
// If the formation is moving left and its leftmost enemy is at or inside the
// left padding, or moving right and its rightmost enemy's right edge is at or
// inside the right padding, the direction flips
// and every enemy drops by Enemy.VerticalStep on the same tick. Under
// FlipMove the horizontal step is still applied (in the new direction); under
// FlipHold the flip tick has no horizontal motion.
//
// Each enemy independently fires with probability ShootFrequency*delta from
// its position before moving. The draw is not compounded over variable tick
// lengths, so firing rate is only approximately frame-rate independent.
//
// The caller must not pass an empty formation; an empty slice is returned as is.
func AdvanceFormation(
	enemies []components.Enemy,
	direction int,
	delta float64,
	cfg *config.Config,
	rng Rand,
	ids *components.IDAllocator,
) FormationResult {
	if len(enemies) == 0 {
		return FormationResult{Enemies: enemies, Direction: direction}
	}

	speed := FormationSpeed(len(enemies), cfg)

	leftmost, rightmost := enemies[0], enemies[0]
	for _, e := range enemies[1:] {
		if e.X < leftmost.X {
			leftmost = e
		}
		if e.X > rightmost.X {
			rightmost = e
		}
	}

	// Only the edge the formation is heading for counts, so a formation still
	// past the padding after a flip does not flip straight back.
	pad := cfg.Enemy.HorizontalPadding
	dropped := (direction < 0 && leftmost.X <= pad) ||
		(direction > 0 && rightmost.Right() >= cfg.Arena.Width-pad)
	if dropped {
		direction = -direction
	}

	dx := speed * float64(direction) * delta
	if dropped && cfg.Formation.FlipPolicy == config.FlipHold {
		dx = 0
	}
	var dy float64
	if dropped {
		dy = cfg.Enemy.VerticalStep
	}

	threshold := cfg.Enemy.ShootFrequency * delta
	out := make([]components.Enemy, len(enemies))
	var spawned []components.Bullet
	for i, e := range enemies {
		if rng.Float64() < threshold {
			spawned = append(spawned, NewBullet(ids.Alloc(), e.X, e.Y+e.H/2, false, cfg))
		}
		e.X += dx
		e.Y += dy
		out[i] = e
	}

	return FormationResult{
		Enemies:   out,
		Direction: direction,
		Dropped:   dropped,
		Spawned:   spawned,
	}
}

// FormationLanded reports whether any enemy's bottom edge has reached the
// arena floor.
func FormationLanded(enemies []components.Enemy, arenaHeight float64) bool {
	for i := range enemies {
		if enemies[i].Bottom() >= arenaHeight {
			return true
		}
	}
	return false
}

// FormationDepth returns the lowest bottom edge in the formation, or 0 when
// it is empty.
func FormationDepth(enemies []components.Enemy) float64 {
	var depth float64
	for i := range enemies {
		depth = max(depth, enemies[i].Bottom())
	}
	return depth
}
