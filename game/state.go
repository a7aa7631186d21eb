package game

import (
	"fmt"
	"math"

	"github.com/pthm-cable/invaders/components"
)

// Status is the game status. Gameplay systems only run while StatusPlaying.
type Status uint8

const (
	StatusNotStarted Status = iota
	StatusPlaying
	StatusPaused
	StatusGameOver
)

var statusNames = [...]string{
	StatusNotStarted: "NOT_STARTED",
	StatusPlaying:    "PLAYING",
	StatusPaused:     "PAUSED",
	StatusGameOver:   "GAME_OVER",
}

func (s Status) String() string {
	if int(s) < len(statusNames) {
		return statusNames[s]
	}
	return fmt.Sprintf("Status(%d)", uint8(s))
}

// MarshalText encodes the status by name.
func (s Status) MarshalText() ([]byte, error) {
	if int(s) >= len(statusNames) {
		return nil, fmt.Errorf("unknown status %d", uint8(s))
	}
	return []byte(statusNames[s]), nil
}

// UnmarshalText decodes a status name.
func (s *Status) UnmarshalText(b []byte) error {
	for i, name := range statusNames {
		if string(b) == name {
			*s = Status(i)
			return nil
		}
	}
	return fmt.Errorf("unknown status %q", b)
}

// State is the authoritative world state for one tick. Step never modifies a
// State it is given; it returns a new one with its own slices.
type State struct {
	Player         components.Player   `json:"player"`
	Enemies        []components.Enemy  `json:"enemies"` // Insertion order breaks collision ties
	Bullets        []components.Bullet `json:"bullets"`
	Score          int                 `json:"score"`
	Level          int                 `json:"level"`
	EnemyDirection int                 `json:"enemy_direction"` // -1 left, +1 right
	LastShootTime  float64             `json:"last_shoot_time"` // Seconds, on the caller's clock
	Status         Status              `json:"status"`
	LastID         uint32              `json:"last_id"` // Highest entity ID issued so far
	Tick           int64               `json:"tick"`    // Ticks processed while playing
}

// Clone returns a deep copy.
func (s State) Clone() State {
	cp := s
	cp.Enemies = append([]components.Enemy(nil), s.Enemies...)
	cp.Bullets = append([]components.Bullet(nil), s.Bullets...)
	return cp
}

// Validate reports the first structural problem with the state, wrapped in
// ErrInvalidState.
func (s State) Validate() error {
	if !s.Player.Finite() {
		return fmt.Errorf("%w: player box %+v", ErrInvalidState, s.Player.Rect)
	}
	if s.Player.Lives < 0 {
		return fmt.Errorf("%w: negative lives %d", ErrInvalidState, s.Player.Lives)
	}
	if s.Score < 0 {
		return fmt.Errorf("%w: negative score %d", ErrInvalidState, s.Score)
	}
	if s.Level < 1 {
		return fmt.Errorf("%w: level %d", ErrInvalidState, s.Level)
	}
	if s.EnemyDirection != 1 && s.EnemyDirection != -1 {
		return fmt.Errorf("%w: enemy direction %d", ErrInvalidState, s.EnemyDirection)
	}
	if math.IsNaN(s.LastShootTime) || math.IsInf(s.LastShootTime, 0) {
		return fmt.Errorf("%w: last shoot time %v", ErrInvalidState, s.LastShootTime)
	}
	if int(s.Status) >= len(statusNames) {
		return fmt.Errorf("%w: status %d", ErrInvalidState, uint8(s.Status))
	}

	seen := make(map[uint32]struct{}, len(s.Enemies)+len(s.Bullets)+1)
	checkID := func(id uint32) error {
		if id == 0 || id > s.LastID {
			return fmt.Errorf("%w: id %d outside issued range 1..%d", ErrInvalidState, id, s.LastID)
		}
		if _, dup := seen[id]; dup {
			return fmt.Errorf("%w: duplicate id %d", ErrInvalidState, id)
		}
		seen[id] = struct{}{}
		return nil
	}

	if err := checkID(s.Player.ID); err != nil {
		return err
	}
	for _, e := range s.Enemies {
		if err := checkID(e.ID); err != nil {
			return err
		}
		if !e.Finite() {
			return fmt.Errorf("%w: enemy %d box %+v", ErrInvalidState, e.ID, e.Rect)
		}
		if e.Points <= 0 {
			return fmt.Errorf("%w: enemy %d points %d", ErrInvalidState, e.ID, e.Points)
		}
	}
	for _, b := range s.Bullets {
		if err := checkID(b.ID); err != nil {
			return err
		}
		if !b.Finite() || math.IsNaN(b.Speed) || math.IsInf(b.Speed, 0) {
			return fmt.Errorf("%w: bullet %d", ErrInvalidState, b.ID)
		}
	}
	return nil
}
