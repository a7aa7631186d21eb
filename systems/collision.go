package systems

import (
	"sort"

	"github.com/pthm-cable/invaders/components"
)

// Kill records one enemy destroyed by one player bullet.
type Kill struct {
	Enemy    components.Enemy
	BulletID uint32
}

// CollisionResult is the outcome of one collision pass.
type CollisionResult struct {
	Player      components.Player
	Enemies     []components.Enemy  // Survivors, insertion order preserved
	Bullets     []components.Bullet // Uncollided bullets, order preserved
	ScoreGained int
	Kills       []Kill
	PlayerHits  []uint32 // IDs of enemy bullets that hit the player
	PlayerDead  bool     // Lives reached zero during this pass
}

// CollisionOptions tunes the collision pass.
type CollisionOptions struct {
	// UseIndex builds a quadtree over the formation and queries it per bullet
	// instead of scanning every enemy. Arena bounds the tree; enemies not
	// fully inside it are always checked.
	UseIndex      bool
	Arena         components.Rect
	IndexCapacity int
}

// indexedEnemy is an enemy slot in the spatial index. Order is the enemy's
// position in the input slice.
type indexedEnemy struct {
	components.Rect
	Order int
}

// ResolveCollisions judges every bullet independently against a frozen view
// of the formation.
//
// A player bullet is tested against live enemies in insertion order; the
// first overlap kills that enemy, awards its points and consumes the bullet.
// An enemy already killed earlier in the pass cannot be hit again. An enemy
// bullet is tested against the player; each hit costs one life and consumes
// the bullet. Bullets against an inert (zero-lives) player pass through.
//
// Inputs are not modified.
func ResolveCollisions(
	player components.Player,
	enemies []components.Enemy,
	bullets []components.Bullet,
	opts CollisionOptions,
) CollisionResult {
	res := CollisionResult{Player: player}

	dead := make([]bool, len(enemies))
	candidates := newCandidateSource(enemies, opts)

	keep := make([]components.Bullet, 0, len(bullets))
	for _, b := range bullets {
		collided := false

		if b.IsPlayerBullet {
			for _, i := range candidates.For(b.Rect) {
				if dead[i] || !Intersects(b.Rect, enemies[i].Rect) {
					continue
				}
				dead[i] = true
				res.ScoreGained += enemies[i].Points
				res.Kills = append(res.Kills, Kill{Enemy: enemies[i], BulletID: b.ID})
				collided = true
				break
			}
		} else if res.Player.Lives > 0 && Intersects(b.Rect, res.Player.Rect) {
			res.Player.Lives--
			res.PlayerHits = append(res.PlayerHits, b.ID)
			if res.Player.Lives == 0 {
				res.PlayerDead = true
			}
			collided = true
		}

		if !collided {
			keep = append(keep, b)
		}
	}
	res.Bullets = keep

	res.Enemies = make([]components.Enemy, 0, len(enemies)-len(res.Kills))
	for i, e := range enemies {
		if !dead[i] {
			res.Enemies = append(res.Enemies, e)
		}
	}

	return res
}

// candidateSource yields enemy indices, in ascending insertion order, that a
// bullet may overlap.
type candidateSource struct {
	all      []int
	tree     *Quadtree[indexedEnemy]
	overflow []int
	buf      []indexedEnemy
	out      []int
}

func newCandidateSource(enemies []components.Enemy, opts CollisionOptions) *candidateSource {
	cs := &candidateSource{}
	if !opts.UseIndex {
		cs.all = make([]int, len(enemies))
		for i := range cs.all {
			cs.all[i] = i
		}
		return cs
	}

	cs.tree = NewQuadtree[indexedEnemy](opts.Arena, opts.IndexCapacity)
	for i, e := range enemies {
		if !cs.tree.Insert(indexedEnemy{Rect: e.Rect, Order: i}) {
			cs.overflow = append(cs.overflow, i)
		}
	}
	return cs
}

// For returns candidate indices for a bullet box. The returned slice is only
// valid until the next call.
func (cs *candidateSource) For(box components.Rect) []int {
	if cs.tree == nil {
		return cs.all
	}

	cs.buf = cs.tree.Query(box, cs.buf[:0])
	cs.out = cs.out[:0]
	for _, ie := range cs.buf {
		cs.out = append(cs.out, ie.Order)
	}
	cs.out = append(cs.out, cs.overflow...)
	sort.Ints(cs.out)
	return cs.out
}
