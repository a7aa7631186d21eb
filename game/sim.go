package game

import (
	"fmt"
	"math"

	"github.com/pthm-cable/invaders/components"
	"github.com/pthm-cable/invaders/config"
	"github.com/pthm-cable/invaders/systems"
)

// Sim applies the game rules for one configuration. It holds no game state:
// every call takes the state it works on and returns a new one.
type Sim struct {
	cfg *config.Config
	rng systems.Rand
}

// NewSim creates a simulation over cfg. rng drives enemy fire; pass a seeded
// *rand.Rand for reproducible runs.
func NewSim(cfg *config.Config, rng systems.Rand) *Sim {
	return &Sim{cfg: cfg, rng: rng}
}

// Config returns the settings the simulation runs with.
func (s *Sim) Config() *config.Config {
	return s.cfg
}

// NewState seeds a fresh game waiting to be started.
func (s *Sim) NewState() State {
	cfg := s.cfg
	var ids components.IDAllocator

	player := components.Player{
		ID:    ids.Alloc(),
		Rect:  s.spawnRect(),
		Lives: cfg.Player.Lives,
	}
	enemies := systems.SeedFormation(cfg, &ids)

	return State{
		Player:         player,
		Enemies:        enemies,
		Level:          1,
		EnemyDirection: 1,
		// Allows a shot on the very first playing tick
		LastShootTime: -cfg.Bullets.ShootCooldown,
		Status:        StatusNotStarted,
		LastID:        ids.Last,
	}
}

// Restart returns a freshly seeded game that is already playing.
func (s *Sim) Restart() State {
	st := s.NewState()
	st.Status = StatusPlaying
	return st
}

func (s *Sim) spawnRect() components.Rect {
	cfg := s.cfg
	return components.Rect{
		X: cfg.Arena.Width / 2,
		Y: cfg.Arena.Height - cfg.Player.BottomOffset,
		W: cfg.Player.Width,
		H: cfg.Player.Height,
	}
}

// Control applies a status transition. Combinations that are not valid for
// the current status return the state unchanged with no events.
func (s *Sim) Control(st State, c Control) (State, []Event) {
	from := st.Status

	var next State
	switch {
	case c == ControlStart && from == StatusNotStarted:
		next = st.Clone()
		next.Status = StatusPlaying
	case (c == ControlPause || c == ControlTogglePause) && from == StatusPlaying:
		next = st.Clone()
		next.Status = StatusPaused
	case (c == ControlResume || c == ControlTogglePause) && from == StatusPaused:
		next = st.Clone()
		next.Status = StatusPlaying
	case c == ControlRestart && from == StatusGameOver:
		next = s.Restart()
	default:
		return st, nil
	}

	return next, []Event{StatusChanged{From: from, To: next.Status}}
}

// Step advances a playing game by one tick of delta frames. now is the
// caller's clock in seconds and only gates the shoot cooldown.
//
// The tick runs in order: player intents, bullet motion, formation motion,
// collisions, level advance, game-over check. Any status other than
// StatusPlaying returns st unchanged.
//
// Step never panics on bad input. With debug.strict an invalid delta or state
// rejects the tick; otherwise delta is clamped and the state is repaired.
func (s *Sim) Step(st State, delta float64, keys Keys, now float64) (State, []Event) {
	if st.Status != StatusPlaying {
		return st, nil
	}

	cfg := s.cfg
	if cfg.Debug.Strict {
		if err := s.check(st, delta); err != nil {
			return st, []Event{TickRejected{Err: err}}
		}
	} else {
		delta = clampDelta(delta, cfg.Physics.MaxDelta)
	}

	next := st.Clone()
	if !cfg.Debug.Strict {
		s.repair(&next)
	}
	ids := components.IDAllocator{Last: next.LastID}
	var events []Event

	// 1. Player intents
	for _, a := range Actions(keys) {
		switch a {
		case ActionMoveLeft:
			next.Player.X = systems.Clamp(next.Player.X-cfg.Player.Speed*delta, 0, cfg.Arena.Width)
		case ActionMoveRight:
			next.Player.X = systems.Clamp(next.Player.X+cfg.Player.Speed*delta, 0, cfg.Arena.Width)
		case ActionShoot:
			if !next.Player.Alive() {
				continue
			}
			live := systems.CountPlayerBullets(next.Bullets)
			if !systems.CanShoot(now, next.LastShootTime, cfg.Bullets.ShootCooldown, live, cfg.Bullets.MaxPlayer) {
				continue
			}
			b := systems.NewBullet(ids.Alloc(), next.Player.X, next.Player.Y-next.Player.H/2, true, cfg)
			next.Bullets = append(next.Bullets, b)
			next.LastShootTime = now
			events = append(events, ShotFired{Bullet: b})
		}
	}
	next.Player.X = systems.Clamp(next.Player.X, 0, cfg.Arena.Width)

	// 2. Bullets
	next.Bullets = systems.AdvanceBullets(next.Bullets, delta, cfg.Arena.Height, cfg.Bullets.CullBottom)

	// 3. Formation
	if len(next.Enemies) > 0 {
		fr := systems.AdvanceFormation(next.Enemies, next.EnemyDirection, delta, cfg, s.rng, &ids)
		next.Enemies = fr.Enemies
		next.EnemyDirection = fr.Direction
		next.Bullets = append(next.Bullets, fr.Spawned...)
		for _, b := range fr.Spawned {
			events = append(events, EnemyFired{Bullet: b})
		}
		if fr.Dropped {
			events = append(events, FormationDropped{
				Direction: fr.Direction,
				Depth:     systems.FormationDepth(fr.Enemies),
			})
		}
	}

	// 4. Collisions
	livesBefore := next.Player.Lives
	res := systems.ResolveCollisions(next.Player, next.Enemies, next.Bullets, systems.CollisionOptions{
		UseIndex:      cfg.Collision.UseQuadtree,
		Arena:         components.Rect{W: cfg.Arena.Width, H: cfg.Arena.Height},
		IndexCapacity: cfg.Collision.QuadtreeCapacity,
	})
	next.Player = res.Player
	next.Enemies = res.Enemies
	next.Bullets = res.Bullets
	next.Score += res.ScoreGained
	for _, k := range res.Kills {
		events = append(events, EnemyKilled{Enemy: k.Enemy, BulletID: k.BulletID})
	}
	for i, id := range res.PlayerHits {
		events = append(events, PlayerHit{
			BulletID:  id,
			LivesLeft: livesBefore - (i + 1),
		})
	}

	// 5. Level advance
	if len(next.Enemies) == 0 {
		next.Level++
		next.Enemies = systems.SeedFormation(cfg, &ids)
		events = append(events, LevelCleared{Level: next.Level})
	}

	// 6. Game over
	landed := systems.FormationLanded(next.Enemies, cfg.Arena.Height)
	if landed || next.Player.Lives <= 0 {
		reason := ReasonNoLives
		if landed {
			reason = ReasonInvaded
		}
		next.Status = StatusGameOver
		events = append(events,
			GameOver{Score: next.Score, Level: next.Level, Reason: reason},
			StatusChanged{From: StatusPlaying, To: StatusGameOver},
		)
	}

	next.LastID = ids.Last
	next.Tick++
	return next, events
}

// check is the strict-mode precondition test.
func (s *Sim) check(st State, delta float64) error {
	if math.IsNaN(delta) || math.IsInf(delta, 0) || delta < 0 || delta > s.cfg.Physics.MaxDelta {
		return fmt.Errorf("%w: %v not in [0, %v]", ErrInvalidDelta, delta, s.cfg.Physics.MaxDelta)
	}
	return st.Validate()
}

// clampDelta maps any delta into [0, maxDelta]. NaN becomes 0.
func clampDelta(delta, maxDelta float64) float64 {
	if math.IsNaN(delta) {
		return 0
	}
	return systems.Clamp(delta, 0, maxDelta)
}

// repair makes a state safe to simulate: entities with non-finite boxes are
// dropped, a broken player is returned to the spawn point and out-of-range
// counters are pulled back into range. st must own its slices.
func (s *Sim) repair(st *State) {
	if !st.Player.Finite() {
		st.Player.Rect = s.spawnRect()
	}
	st.Player.Lives = max(st.Player.Lives, 0)
	st.Score = max(st.Score, 0)
	st.Level = max(st.Level, 1)
	if st.EnemyDirection < 0 {
		st.EnemyDirection = -1
	} else {
		st.EnemyDirection = 1
	}
	if math.IsNaN(st.LastShootTime) || math.IsInf(st.LastShootTime, 0) {
		st.LastShootTime = -s.cfg.Bullets.ShootCooldown
	}

	lastID := max(st.LastID, st.Player.ID)

	enemies := st.Enemies[:0]
	for _, e := range st.Enemies {
		if e.Finite() && e.Points > 0 {
			enemies = append(enemies, e)
			lastID = max(lastID, e.ID)
		}
	}
	st.Enemies = enemies

	bullets := st.Bullets[:0]
	for _, b := range st.Bullets {
		if b.Finite() && !math.IsNaN(b.Speed) && !math.IsInf(b.Speed, 0) {
			bullets = append(bullets, b)
			lastID = max(lastID, b.ID)
		}
	}
	st.Bullets = bullets

	st.LastID = lastID
}
