package game

import (
	"fmt"

	"github.com/pthm-cable/invaders/components"
)

// Event is a notification emitted by Step or Control. The concrete types
// below are the only implementations; consumers switch on them.
type Event interface {
	event()
}

// ShotFired reports a player bullet spawned by a shoot intent.
type ShotFired struct {
	Bullet components.Bullet
}

// EnemyFired reports an enemy bullet spawned by the formation.
type EnemyFired struct {
	Bullet components.Bullet
}

// EnemyKilled reports an enemy destroyed by a player bullet.
type EnemyKilled struct {
	Enemy    components.Enemy
	BulletID uint32
}

// PlayerHit reports an enemy bullet striking the player.
type PlayerHit struct {
	BulletID  uint32
	LivesLeft int
}

// FormationDropped reports a boundary flip. Depth is the formation's lowest
// bottom edge after the drop.
type FormationDropped struct {
	Direction int
	Depth     float64
}

// LevelCleared reports the formation being wiped out. Level is the new level.
type LevelCleared struct {
	Level int
}

// GameOverReason says why a game ended.
type GameOverReason uint8

const (
	ReasonNoLives GameOverReason = iota
	ReasonInvaded
)

func (r GameOverReason) String() string {
	switch r {
	case ReasonNoLives:
		return "no_lives"
	case ReasonInvaded:
		return "invaded"
	}
	return fmt.Sprintf("GameOverReason(%d)", uint8(r))
}

// GameOver reports the transition into StatusGameOver.
type GameOver struct {
	Score  int
	Level  int
	Reason GameOverReason
}

// StatusChanged reports any status transition.
type StatusChanged struct {
	From, To Status
}

// TickRejected reports a tick refused in strict mode. The state is unchanged.
type TickRejected struct {
	Err error
}

func (ShotFired) event()        {}
func (EnemyFired) event()       {}
func (EnemyKilled) event()      {}
func (PlayerHit) event()        {}
func (FormationDropped) event() {}
func (LevelCleared) event()     {}
func (GameOver) event()         {}
func (StatusChanged) event()    {}
func (TickRejected) event()     {}
