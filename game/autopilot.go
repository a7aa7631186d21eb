package game

import (
	"math"

	"github.com/pthm-cable/invaders/components"
	"github.com/pthm-cable/invaders/config"
	"github.com/pthm-cable/invaders/systems"
)

// dodgeHorizon is how far above the ship, in arena units, an incoming enemy
// bullet starts to matter.
const dodgeHorizon = 120

// Autopilot is a scripted player used by headless runs and the difficulty
// tuner. It dodges incoming fire, otherwise lines up under the lowest enemy
// and shoots.
type Autopilot struct {
	cfg *config.Config

	// Restart makes the autopilot start a new game after a game over.
	Restart bool
}

// NewAutopilot creates an autopilot for games played under cfg.
func NewAutopilot(cfg *config.Config, restart bool) *Autopilot {
	return &Autopilot{cfg: cfg, Restart: restart}
}

// Keys decides what to hold this frame.
func (a *Autopilot) Keys(st State) Keys {
	switch st.Status {
	case StatusNotStarted:
		return Keys{Start: true}
	case StatusGameOver:
		return Keys{Restart: a.Restart}
	case StatusPaused:
		return Keys{}
	}

	p := st.Player
	if k, ok := a.dodge(p, st.Bullets); ok {
		return k
	}

	target, ok := lowestEnemy(st.Enemies, p.X)
	if !ok {
		return Keys{}
	}

	// Lead the target by how far the formation moves while the bullet climbs.
	// Flips during the flight are ignored.
	var lead float64
	if a.cfg.Bullets.Speed > 0 {
		flight := (p.Y - target.Bottom()) / a.cfg.Bullets.Speed
		lead = systems.FormationSpeed(len(st.Enemies), a.cfg) * float64(st.EnemyDirection) * flight
	}

	// A bullet spawns with its left edge at the ship's x.
	aim := target.X + lead + target.W/2 - a.cfg.Bullets.PlayerWidth/2
	dx := aim - p.X
	tolerance := a.cfg.Player.Speed

	return Keys{
		Left:  dx < -tolerance,
		Right: dx > tolerance,
		Shoot: math.Abs(dx) < target.W/2,
	}
}

// dodge steps away from the nearest enemy bullet about to land on the ship.
func (a *Autopilot) dodge(p components.Player, bullets []components.Bullet) (Keys, bool) {
	margin := a.cfg.Player.Speed * 2
	nearest := math.Inf(1)
	var threat components.Bullet
	for _, b := range bullets {
		if b.IsPlayerBullet || b.Y > p.Bottom() || b.Y < p.Y-dodgeHorizon {
			continue
		}
		if b.Right() < p.X-margin || b.X > p.Right()+margin {
			continue
		}
		if d := p.Y - b.Y; d < nearest {
			nearest = d
			threat = b
		}
	}
	if math.IsInf(nearest, 1) {
		return Keys{}, false
	}

	center := p.X + p.W/2
	threatCenter := threat.X + threat.W/2
	goRight := threatCenter < center
	// Stuck against a wall: go the other way.
	if goRight && p.X >= a.cfg.Arena.Width-p.W {
		goRight = false
	} else if !goRight && p.X <= 0 {
		goRight = true
	}
	return Keys{Left: !goRight, Right: goRight}, true
}

// lowestEnemy picks the enemy nearest the floor, breaking ties by horizontal
// distance to x.
func lowestEnemy(enemies []components.Enemy, x float64) (components.Enemy, bool) {
	if len(enemies) == 0 {
		return components.Enemy{}, false
	}
	best := enemies[0]
	for _, e := range enemies[1:] {
		switch {
		case e.Bottom() > best.Bottom():
			best = e
		case e.Bottom() == best.Bottom() && math.Abs(e.X-x) < math.Abs(best.X-x):
			best = e
		}
	}
	return best, true
}
