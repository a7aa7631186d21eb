package systems

import (
	"math/rand"
	"testing"

	"github.com/pthm-cable/invaders/components"
)

func rect(x, y, w, h float64) components.Rect {
	return components.Rect{X: x, Y: y, W: w, H: h}
}

func TestIntersects(t *testing.T) {
	enemy := rect(100, 100, 30, 30)

	tests := []struct {
		name string
		b    components.Rect
		want bool
	}{
		{"touching right edge", rect(130, 100, 10, 10), false},
		{"touching left edge", rect(90, 100, 10, 10), false},
		{"touching bottom edge", rect(100, 130, 10, 10), false},
		{"touching top edge", rect(100, 90, 10, 10), false},
		{"touching corner", rect(130, 130, 10, 10), false},
		{"overlap by one unit", rect(129, 129, 10, 10), true},
		{"fully inside", rect(110, 110, 5, 5), true},
		{"far away", rect(500, 500, 10, 10), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Intersects(tt.b, enemy); got != tt.want {
				t.Errorf("Intersects(%v, enemy) = %v, want %v", tt.b, got, tt.want)
			}
			if got := Intersects(enemy, tt.b); got != tt.want {
				t.Errorf("Intersects(enemy, %v) = %v, want %v (not symmetric)", tt.b, got, tt.want)
			}
		})
	}
}

func TestContains(t *testing.T) {
	outer := rect(0, 0, 100, 100)

	if !Contains(outer, rect(0, 0, 100, 100)) {
		t.Error("a box should contain itself")
	}
	if !Contains(outer, rect(10, 10, 20, 20)) {
		t.Error("inner box should be contained")
	}
	if Contains(outer, rect(90, 90, 20, 20)) {
		t.Error("box crossing the edge should not be contained")
	}
}

func TestClamp(t *testing.T) {
	tests := []struct {
		name string
		v    float64
		want float64
	}{
		{"below", -5, 0},
		{"inside", 42, 42},
		{"above", 900, 800},
		{"at bound", 800, 800},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Clamp(tt.v, 0, 800); got != tt.want {
				t.Errorf("Clamp(%v) = %v, want %v", tt.v, got, tt.want)
			}
		})
	}
}

func TestResolveCollisionsPlayerBulletKillsFirstEnemyOnly(t *testing.T) {
	enemies := []components.Enemy{
		{ID: 1, Rect: rect(100, 100, 30, 30), Points: 10},
		{ID: 2, Rect: rect(120, 100, 30, 30), Points: 10},
	}
	// Overlaps both enemies; insertion order decides.
	bullets := []components.Bullet{
		{ID: 10, Rect: rect(115, 110, 10, 10), Speed: 4, IsPlayerBullet: true},
	}

	res := ResolveCollisions(components.Player{Lives: 3}, enemies, bullets, CollisionOptions{})

	if len(res.Kills) != 1 || res.Kills[0].Enemy.ID != 1 {
		t.Fatalf("kills = %+v, want only enemy 1", res.Kills)
	}
	if res.ScoreGained != 10 {
		t.Errorf("ScoreGained = %d, want 10", res.ScoreGained)
	}
	if len(res.Enemies) != 1 || res.Enemies[0].ID != 2 {
		t.Errorf("survivors = %+v, want only enemy 2", res.Enemies)
	}
	if len(res.Bullets) != 0 {
		t.Errorf("bullet should be consumed, %d left", len(res.Bullets))
	}
	if len(enemies) != 2 || len(bullets) != 1 {
		t.Error("inputs must not be modified")
	}
}

func TestResolveCollisionsTwoBulletsSameEnemy(t *testing.T) {
	enemies := []components.Enemy{{ID: 1, Rect: rect(100, 100, 30, 30), Points: 10}}
	bullets := []components.Bullet{
		{ID: 10, Rect: rect(105, 105, 5, 5), IsPlayerBullet: true},
		{ID: 11, Rect: rect(110, 105, 5, 5), IsPlayerBullet: true},
	}

	res := ResolveCollisions(components.Player{Lives: 3}, enemies, bullets, CollisionOptions{})

	if len(res.Kills) != 1 {
		t.Fatalf("kills = %d, want 1", len(res.Kills))
	}
	if len(res.Bullets) != 1 || res.Bullets[0].ID != 11 {
		t.Errorf("second bullet should survive, got %+v", res.Bullets)
	}
}

func TestResolveCollisionsMultipleIndependentJudgements(t *testing.T) {
	player := components.Player{Rect: rect(400, 550, 30, 20), Lives: 3}
	enemies := []components.Enemy{
		{ID: 1, Rect: rect(100, 100, 30, 30), Points: 10},
		{ID: 2, Rect: rect(200, 100, 30, 30), Points: 10},
	}
	bullets := []components.Bullet{
		{ID: 10, Rect: rect(105, 105, 5, 5), IsPlayerBullet: true},
		{ID: 11, Rect: rect(405, 555, 4, 4), Speed: -2},
		{ID: 12, Rect: rect(205, 105, 5, 5), IsPlayerBullet: true},
		{ID: 13, Rect: rect(410, 560, 4, 4), Speed: -2},
		{ID: 14, Rect: rect(600, 300, 4, 4), Speed: -2},
	}

	res := ResolveCollisions(player, enemies, bullets, CollisionOptions{})

	if len(res.Kills) != 2 || res.ScoreGained != 20 {
		t.Errorf("kills = %d score = %d, want 2 and 20", len(res.Kills), res.ScoreGained)
	}
	if res.Player.Lives != 1 || len(res.PlayerHits) != 2 {
		t.Errorf("lives = %d hits = %d, want 1 and 2", res.Player.Lives, len(res.PlayerHits))
	}
	if res.PlayerDead {
		t.Error("player should not be dead with one life left")
	}
	if len(res.Bullets) != 1 || res.Bullets[0].ID != 14 {
		t.Errorf("only the missing bullet should survive, got %+v", res.Bullets)
	}
}

func TestResolveCollisionsLastLife(t *testing.T) {
	player := components.Player{Rect: rect(400, 550, 30, 20), Lives: 1}
	bullets := []components.Bullet{
		{ID: 1, Rect: rect(405, 555, 4, 4), Speed: -2},
		{ID: 2, Rect: rect(410, 555, 4, 4), Speed: -2},
	}

	res := ResolveCollisions(player, nil, bullets, CollisionOptions{})

	if res.Player.Lives != 0 || !res.PlayerDead {
		t.Errorf("lives = %d dead = %v, want 0 and true", res.Player.Lives, res.PlayerDead)
	}
	// The second bullet meets an inert player and keeps flying.
	if len(res.PlayerHits) != 1 || len(res.Bullets) != 1 {
		t.Errorf("hits = %d bullets = %d, want 1 and 1", len(res.PlayerHits), len(res.Bullets))
	}
}

func TestResolveCollisionsQuadtreeMatchesLinearScan(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	arena := rect(0, 0, 800, 600)

	for trial := 0; trial < 50; trial++ {
		var enemies []components.Enemy
		for i := 0; i < 40; i++ {
			enemies = append(enemies, components.Enemy{
				ID:     uint32(i + 1),
				Rect:   rect(rng.Float64()*820-10, rng.Float64()*400, 30, 30),
				Points: 10,
			})
		}
		var bullets []components.Bullet
		for i := 0; i < 60; i++ {
			bullets = append(bullets, components.Bullet{
				ID:             uint32(100 + i),
				Rect:           rect(rng.Float64()*800, rng.Float64()*600, 28, 40),
				IsPlayerBullet: i%3 != 0,
				Speed:          4,
			})
		}
		player := components.Player{Rect: rect(400, 550, 30, 20), Lives: 3}

		linear := ResolveCollisions(player, enemies, bullets, CollisionOptions{})
		indexed := ResolveCollisions(player, enemies, bullets, CollisionOptions{
			UseIndex: true, Arena: arena, IndexCapacity: 4,
		})

		if linear.ScoreGained != indexed.ScoreGained || len(linear.Kills) != len(indexed.Kills) {
			t.Fatalf("trial %d: linear %d kills, indexed %d kills", trial, len(linear.Kills), len(indexed.Kills))
		}
		for i := range linear.Kills {
			if linear.Kills[i] != indexed.Kills[i] {
				t.Fatalf("trial %d: kill %d differs: %+v vs %+v", trial, i, linear.Kills[i], indexed.Kills[i])
			}
		}
		if len(linear.Bullets) != len(indexed.Bullets) || linear.Player.Lives != indexed.Player.Lives {
			t.Fatalf("trial %d: bullets or lives differ", trial)
		}
	}
}
