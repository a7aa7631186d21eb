// Package components defines the entity model shared by the simulation and
// the renderer's ECS scene.
package components

import "math"

// Rect is an axis-aligned box anchored at its top-left corner.
type Rect struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	W float64 `json:"width"`
	H float64 `json:"height"`
}

// Right returns the x-coordinate of the right edge.
func (r Rect) Right() float64 {
	return r.X + r.W
}

// Bottom returns the y-coordinate of the bottom edge.
func (r Rect) Bottom() float64 {
	return r.Y + r.H
}

// Bounds returns the rectangle itself so every entity embedding Rect can be
// stored in a spatial index.
func (r Rect) Bounds() Rect {
	return r
}

// Finite reports whether every field is a finite number and the size is not negative.
func (r Rect) Finite() bool {
	for _, v := range [...]float64{r.X, r.Y, r.W, r.H} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return r.W >= 0 && r.H >= 0
}

// Player is the ship controlled by the user. Exactly one exists per session.
type Player struct {
	ID    uint32 `json:"id"`
	Rect  `json:"rect"`
	Lives int `json:"lives"`
}

// Alive reports whether the player is still interactive.
func (p Player) Alive() bool {
	return p.Lives > 0
}

// Enemy is one member of the formation.
type Enemy struct {
	ID     uint32 `json:"id"`
	Rect   `json:"rect"`
	Points int `json:"points"`
}

// Bullet is a projectile. Speed is signed: the update step applies
// y -= Speed*delta, so positive speeds travel up-screen.
type Bullet struct {
	ID             uint32 `json:"id"`
	Rect           `json:"rect"`
	Speed          float64 `json:"speed"`
	IsPlayerBullet bool    `json:"is_player_bullet"`
}

// IDAllocator hands out stable entity identifiers. Zero is never issued.
type IDAllocator struct {
	Last uint32
}

// Alloc returns the next identifier.
func (a *IDAllocator) Alloc() uint32 {
	a.Last++
	return a.Last
}
