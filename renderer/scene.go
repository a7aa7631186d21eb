// Package renderer draws the arena. It keeps its own ECS world of visual
// handles that mirror simulation entities by ID; the simulation never sees it.
package renderer

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/invaders/components"
)

// Scene holds one visual handle per live simulation entity.
type Scene struct {
	world *ecs.World

	mapper *ecs.Map4[
		components.Position,
		components.Size,
		components.Sprite,
		components.SimRef,
	]
	filter *ecs.Filter4[
		components.Position,
		components.Size,
		components.Sprite,
		components.SimRef,
	]

	handles map[uint32]ecs.Entity
	seen    map[uint32]struct{}
	stale   []ecs.Entity
}

// NewScene creates an empty scene.
func NewScene() *Scene {
	world := ecs.NewWorld()
	return &Scene{
		world: world,
		mapper: ecs.NewMap4[
			components.Position,
			components.Size,
			components.Sprite,
			components.SimRef,
		](world),
		filter: ecs.NewFilter4[
			components.Position,
			components.Size,
			components.Sprite,
			components.SimRef,
		](world),
		handles: make(map[uint32]ecs.Entity),
		seen:    make(map[uint32]struct{}),
	}
}

// Sync creates, moves and removes handles so the scene matches the given
// entities. dt is the frame time in seconds and ages every surviving handle.
func (s *Scene) Sync(player components.Player, enemies []components.Enemy, bullets []components.Bullet, dt float32) {
	clear(s.seen)

	s.upsert(player.ID, player.Rect, components.SpritePlayer, player.Alive(), dt)
	for i := range enemies {
		s.upsert(enemies[i].ID, enemies[i].Rect, components.SpriteEnemy, true, dt)
	}
	for i := range bullets {
		kind := components.SpriteEnemyBullet
		if bullets[i].IsPlayerBullet {
			kind = components.SpritePlayerBullet
		}
		s.upsert(bullets[i].ID, bullets[i].Rect, kind, true, dt)
	}

	// Remove handles whose entity is gone. Removal waits until after the
	// query, which locks the world.
	s.stale = s.stale[:0]
	query := s.filter.Query()
	for query.Next() {
		_, _, _, ref := query.Get()
		if _, ok := s.seen[ref.ID]; !ok {
			s.stale = append(s.stale, query.Entity())
			delete(s.handles, ref.ID)
		}
	}
	for _, e := range s.stale {
		s.world.RemoveEntity(e)
	}
}

func (s *Scene) upsert(id uint32, r components.Rect, kind components.SpriteKind, visible bool, dt float32) {
	s.seen[id] = struct{}{}

	if e, ok := s.handles[id]; ok {
		pos, size, sprite, _ := s.mapper.Get(e)
		pos.X, pos.Y = float32(r.X), float32(r.Y)
		size.W, size.H = float32(r.W), float32(r.H)
		sprite.Visible = visible
		sprite.Age += dt
		return
	}

	pos := components.Position{X: float32(r.X), Y: float32(r.Y)}
	size := components.Size{W: float32(r.W), H: float32(r.H)}
	sprite := components.Sprite{Kind: kind, Visible: visible}
	ref := components.SimRef{ID: id}
	s.handles[id] = s.mapper.NewEntity(&pos, &size, &sprite, &ref)
}

// Rebuild drops every handle. The next Sync recreates them from scratch,
// which is what a restart or an imported state needs.
func (s *Scene) Rebuild() {
	s.stale = s.stale[:0]
	for _, e := range s.handles {
		s.stale = append(s.stale, e)
	}
	for _, e := range s.stale {
		s.world.RemoveEntity(e)
	}
	clear(s.handles)
}

// Len returns the number of live handles.
func (s *Scene) Len() int {
	return len(s.handles)
}

// Handle returns the visual state mirrored for a simulation ID.
func (s *Scene) Handle(id uint32) (components.Position, components.Size, components.Sprite, bool) {
	e, ok := s.handles[id]
	if !ok {
		return components.Position{}, components.Size{}, components.Sprite{}, false
	}
	pos, size, sprite, _ := s.mapper.Get(e)
	return *pos, *size, *sprite, true
}

// Each calls fn for every visible handle of the given kind.
func (s *Scene) Each(kind components.SpriteKind, fn func(pos components.Position, size components.Size, sprite components.Sprite)) {
	query := s.filter.Query()
	for query.Next() {
		pos, size, sprite, _ := query.Get()
		if sprite.Kind == kind && sprite.Visible {
			fn(*pos, *size, *sprite)
		}
	}
}
