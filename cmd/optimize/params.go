// Package main provides CMA-ES tuning of invaders difficulty parameters.
package main

import (
	"github.com/pthm-cable/invaders/config"
)

// ParamSpec defines a single optimizable parameter.
type ParamSpec struct {
	Name    string  // Human-readable name
	Path    string  // Config path for logging
	Min     float64 // Lower bound
	Max     float64 // Upper bound
	Default float64 // Default value
}

// ParamVector holds the set of all optimizable parameters.
type ParamVector struct {
	Specs []ParamSpec
}

// NewParamVector creates the standard set of optimizable parameters.
func NewParamVector() *ParamVector {
	return &ParamVector{
		Specs: []ParamSpec{
			// Formation
			{Name: "enemy_move_speed", Path: "enemy.move_speed", Min: 0.2, Max: 2.0, Default: 0.5},
			{Name: "enemy_vertical_step", Path: "enemy.vertical_step", Min: 4, Max: 30, Default: 10},
			{Name: "enemy_shoot_frequency", Path: "enemy.shoot_frequency", Min: 0.001, Max: 0.05, Default: 0.01},
			// Bullets
			{Name: "bullet_speed", Path: "bullets.speed", Min: 2, Max: 10, Default: 4},
			{Name: "shoot_cooldown", Path: "bullets.shoot_cooldown", Min: 0.1, Max: 1.0, Default: 0.4},
			// Player (lives locked)
			{Name: "player_speed", Path: "player.speed", Min: 2, Max: 12, Default: 6},
		},
	}
}

// Dim returns the number of parameters.
func (pv *ParamVector) Dim() int {
	return len(pv.Specs)
}

// DefaultVector returns the default parameter values as a slice.
func (pv *ParamVector) DefaultVector() []float64 {
	v := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		v[i] = spec.Default
	}
	return v
}

// Normalize converts raw parameter values to [0,1] range.
func (pv *ParamVector) Normalize(raw []float64) []float64 {
	normalized := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		normalized[i] = (raw[i] - spec.Min) / (spec.Max - spec.Min)
	}
	return normalized
}

// Denormalize converts [0,1] values back to raw parameter values.
func (pv *ParamVector) Denormalize(normalized []float64) []float64 {
	raw := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		raw[i] = spec.Min + normalized[i]*(spec.Max-spec.Min)
	}
	return raw
}

// Clamp ensures all values are within bounds.
func (pv *ParamVector) Clamp(v []float64) []float64 {
	clamped := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		clamped[i] = min(max(v[i], spec.Min), spec.Max)
	}
	return clamped
}

// ApplyToConfig applies parameter values to a Config struct.
// Order must match Specs order.
func (pv *ParamVector) ApplyToConfig(cfg *config.Config, values []float64) {
	c := pv.Clamp(values)

	cfg.Enemy.MoveSpeed = c[0]
	cfg.Enemy.VerticalStep = c[1]
	cfg.Enemy.ShootFrequency = c[2]
	cfg.Bullets.Speed = c[3]
	cfg.Bullets.ShootCooldown = c[4]
	cfg.Player.Speed = c[5]
}

// ExtractFromConfig extracts current parameter values from a Config struct.
func (pv *ParamVector) ExtractFromConfig(cfg *config.Config) []float64 {
	return []float64{
		cfg.Enemy.MoveSpeed,
		cfg.Enemy.VerticalStep,
		cfg.Enemy.ShootFrequency,
		cfg.Bullets.Speed,
		cfg.Bullets.ShootCooldown,
		cfg.Player.Speed,
	}
}
