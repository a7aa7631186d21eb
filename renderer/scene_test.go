package renderer

import (
	"math/rand"
	"testing"

	"github.com/pthm-cable/invaders/components"
)

func testEntities() (components.Player, []components.Enemy, []components.Bullet) {
	player := components.Player{ID: 1, Rect: components.Rect{X: 400, Y: 550, W: 30, H: 20}, Lives: 3}
	enemies := []components.Enemy{
		{ID: 2, Rect: components.Rect{X: 235, Y: 50, W: 30, H: 30}, Points: 10},
		{ID: 3, Rect: components.Rect{X: 285, Y: 50, W: 30, H: 30}, Points: 10},
	}
	bullets := []components.Bullet{
		{ID: 4, Rect: components.Rect{X: 400, Y: 540, W: 28, H: 40}, Speed: 4, IsPlayerBullet: true},
		{ID: 5, Rect: components.Rect{X: 235, Y: 65, W: 4, H: 4}, Speed: -2},
	}
	return player, enemies, bullets
}

func countKind(s *Scene, kind components.SpriteKind) int {
	n := 0
	s.Each(kind, func(components.Position, components.Size, components.Sprite) { n++ })
	return n
}

func TestSceneSyncCreates(t *testing.T) {
	s := NewScene()
	player, enemies, bullets := testEntities()
	s.Sync(player, enemies, bullets, 0)

	if s.Len() != 5 {
		t.Fatalf("Len() = %d, want 5", s.Len())
	}

	tests := []struct {
		kind components.SpriteKind
		want int
	}{
		{components.SpritePlayer, 1},
		{components.SpriteEnemy, 2},
		{components.SpritePlayerBullet, 1},
		{components.SpriteEnemyBullet, 1},
	}
	for _, tt := range tests {
		if got := countKind(s, tt.kind); got != tt.want {
			t.Errorf("kind %d: %d handles, want %d", tt.kind, got, tt.want)
		}
	}
}

func TestSceneSyncMovesAndRemoves(t *testing.T) {
	s := NewScene()
	player, enemies, bullets := testEntities()
	s.Sync(player, enemies, bullets, 0)

	// Enemy 2 killed by bullet 4; enemy 3 moved; new enemy bullet 6
	enemies = []components.Enemy{enemies[1]}
	enemies[0].X += 10
	bullets = []components.Bullet{bullets[1], {ID: 6, Rect: components.Rect{X: 285, Y: 65, W: 4, H: 4}, Speed: -2}}
	s.Sync(player, enemies, bullets, 0.5)

	if s.Len() != 4 {
		t.Fatalf("Len() = %d, want 4", s.Len())
	}
	if _, _, _, ok := s.Handle(2); ok {
		t.Error("handle for killed enemy 2 should be removed")
	}
	if _, _, _, ok := s.Handle(4); ok {
		t.Error("handle for spent bullet 4 should be removed")
	}

	pos, _, sprite, ok := s.Handle(3)
	if !ok {
		t.Fatal("handle for enemy 3 missing")
	}
	if pos.X != 295 {
		t.Errorf("enemy 3 x = %v, want 295", pos.X)
	}
	if sprite.Age != 0.5 {
		t.Errorf("enemy 3 age = %v, want 0.5", sprite.Age)
	}

	_, _, fresh, ok := s.Handle(6)
	if !ok || fresh.Age != 0 {
		t.Errorf("new bullet 6 handle = %+v, %v; want age 0", fresh, ok)
	}
}

func TestSceneHidesDeadPlayer(t *testing.T) {
	s := NewScene()
	player, _, _ := testEntities()
	player.Lives = 0
	s.Sync(player, nil, nil, 0)

	if countKind(s, components.SpritePlayer) != 0 {
		t.Error("player with no lives should not be drawn")
	}
	if _, _, _, ok := s.Handle(player.ID); !ok {
		t.Error("player handle should still exist")
	}
}

func TestSceneRebuild(t *testing.T) {
	s := NewScene()
	player, enemies, bullets := testEntities()
	s.Sync(player, enemies, bullets, 1)
	s.Rebuild()

	if s.Len() != 0 {
		t.Fatalf("Len() after Rebuild = %d, want 0", s.Len())
	}

	s.Sync(player, enemies, bullets, 0)
	if s.Len() != 5 {
		t.Errorf("Len() after resync = %d, want 5", s.Len())
	}
	if _, _, sprite, _ := s.Handle(2); sprite.Age != 0 {
		t.Errorf("rebuilt handle age = %v, want 0", sprite.Age)
	}
}

func TestStarfieldWraps(t *testing.T) {
	sf := NewStarfield(50, 800, 600, rand.New(rand.NewSource(1)))

	for i := 0; i < 600; i++ {
		sf.Update(1.0 / 60)
	}
	for i, s := range sf.Stars {
		if s.Y < 0 || s.Y >= 600 || s.X < 0 || s.X >= 800 {
			t.Fatalf("star %d out of arena: %+v", i, s)
		}
	}
}
