package systems

import (
	"github.com/pthm-cable/invaders/components"
	"github.com/pthm-cable/invaders/config"
)

// NewBullet creates a bullet sized from settings. Player bullets travel up at
// Bullets.Speed; enemy bullets store -Speed/2 so the shared update rule moves
// them down at half speed.
func NewBullet(id uint32, x, y float64, isPlayer bool, cfg *config.Config) components.Bullet {
	b := components.Bullet{
		ID:             id,
		Rect:           components.Rect{X: x, Y: y},
		IsPlayerBullet: isPlayer,
	}
	if isPlayer {
		b.W = cfg.Bullets.PlayerWidth
		b.H = cfg.Bullets.PlayerHeight
		b.Speed = cfg.Bullets.Speed
	} else {
		b.W = cfg.Bullets.EnemyWidth
		b.H = cfg.Bullets.EnemyHeight
		b.Speed = -cfg.Bullets.Speed / 2
	}
	return b
}

// AdvanceBullets moves every bullet by y -= speed*delta and returns the
// survivors in their original order. Bullets at or above the top edge are
// always pruned; with cullBottom, bullets at or below arenaHeight are pruned
// too. The input slice is not modified.
func AdvanceBullets(bullets []components.Bullet, delta, arenaHeight float64, cullBottom bool) []components.Bullet {
	out := make([]components.Bullet, 0, len(bullets))
	for _, b := range bullets {
		b.Y -= b.Speed * delta
		if b.Y <= 0 {
			continue
		}
		if cullBottom && b.Y >= arenaHeight {
			continue
		}
		out = append(out, b)
	}
	return out
}

// CountPlayerBullets returns the number of live player bullets.
func CountPlayerBullets(bullets []components.Bullet) int {
	n := 0
	for i := range bullets {
		if bullets[i].IsPlayerBullet {
			n++
		}
	}
	return n
}

// CanShoot reports whether a shoot intent at time now is honoured: the
// cooldown since the last shot has elapsed and the live player bullet cap has
// room. Intents failing either check are dropped, never queued.
func CanShoot(now, lastShot, cooldown float64, live, maxLive int) bool {
	return now >= lastShot+cooldown && live < maxLive
}
