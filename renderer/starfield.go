package renderer

import "math/rand"

// Star is one background star in arena coordinates.
type Star struct {
	X, Y       float32
	Speed      float32 // Arena units per second, downward
	Brightness uint8
}

// Starfield is a slowly scrolling layer of stars behind the arena.
type Starfield struct {
	Stars []Star
	w, h  float32
}

// NewStarfield scatters count stars over a w x h arena.
func NewStarfield(count int, w, h float32, rng *rand.Rand) *Starfield {
	sf := &Starfield{Stars: make([]Star, count), w: w, h: h}
	for i := range sf.Stars {
		depth := rng.Float32()
		sf.Stars[i] = Star{
			X:          rng.Float32() * w,
			Y:          rng.Float32() * h,
			Speed:      8 + depth*32,
			Brightness: uint8(80 + depth*175),
		}
	}
	return sf
}

// Update scrolls stars down by dt seconds, wrapping at the bottom.
func (sf *Starfield) Update(dt float32) {
	if sf.h <= 0 {
		return
	}
	for i := range sf.Stars {
		s := &sf.Stars[i]
		s.Y += s.Speed * dt
		for s.Y >= sf.h {
			s.Y -= sf.h
		}
	}
}
