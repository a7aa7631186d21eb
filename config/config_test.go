package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load(\"\") error: %v", err)
	}

	if cfg.Arena.Width != 800 || cfg.Arena.Height != 600 {
		t.Errorf("arena = %vx%v, want 800x600", cfg.Arena.Width, cfg.Arena.Height)
	}
	if cfg.Enemy.Rows != 3 || cfg.Enemy.Cols != 7 {
		t.Errorf("grid = %dx%d, want 3x7", cfg.Enemy.Rows, cfg.Enemy.Cols)
	}
	if cfg.Formation.FlipPolicy != FlipMove {
		t.Errorf("flip policy = %q, want %q", cfg.Formation.FlipPolicy, FlipMove)
	}
	if !cfg.Bullets.CullBottom {
		t.Error("bottom culling should default to on")
	}
	if cfg.Derived.TotalSlots != 21 {
		t.Errorf("TotalSlots = %d, want 21", cfg.Derived.TotalSlots)
	}
	if cfg.Derived.ColumnScale != 1 {
		t.Errorf("ColumnScale = %v, want 1", cfg.Derived.ColumnScale)
	}
	// 7 enemies of 30 plus 6 gaps of 20 centered in 760 units of padded arena
	if cfg.Derived.GridWidth != 330 {
		t.Errorf("GridWidth = %v, want 330", cfg.Derived.GridWidth)
	}
	if cfg.Derived.GridOffsetX != 235 {
		t.Errorf("GridOffsetX = %v, want 235", cfg.Derived.GridOffsetX)
	}
}

func TestLoadOverridesOnlyPresentFields(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	data := []byte("enemy:\n  cols: 11\nformation:\n  flip_policy: hold\n")
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.Enemy.Cols != 11 {
		t.Errorf("cols = %d, want 11", cfg.Enemy.Cols)
	}
	if cfg.Enemy.Rows != 3 {
		t.Errorf("rows = %d, want default 3", cfg.Enemy.Rows)
	}
	if cfg.Formation.FlipPolicy != FlipHold {
		t.Errorf("flip policy = %q, want hold", cfg.Formation.FlipPolicy)
	}
	if got, want := cfg.Derived.ColumnScale, 11.0/7.0; got != want {
		t.Errorf("ColumnScale = %v, want %v", got, want)
	}
}

func TestValidateRejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero rows", func(c *Config) { c.Enemy.Rows = 0 }},
		{"negative arena", func(c *Config) { c.Arena.Width = -1 }},
		{"unknown flip policy", func(c *Config) { c.Formation.FlipPolicy = "teleport" }},
		{"shoot frequency above one", func(c *Config) { c.Enemy.ShootFrequency = 1.5 }},
		{"negative cooldown", func(c *Config) { c.Bullets.ShootCooldown = -0.1 }},
		{"no lives", func(c *Config) { c.Player.Lives = 0 }},
		{"negative speed", func(c *Config) { c.Player.Speed = -3 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestWriteYAMLRoundtrip(t *testing.T) {
	cfg := Default()
	cfg.Enemy.ShootFrequency = 0.02

	path := filepath.Join(t.TempDir(), "out.yaml")
	if err := cfg.WriteYAML(path); err != nil {
		t.Fatalf("WriteYAML error: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if loaded.Enemy.ShootFrequency != 0.02 {
		t.Errorf("shoot frequency = %v, want 0.02", loaded.Enemy.ShootFrequency)
	}
}
