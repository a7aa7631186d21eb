// Package telemetry provides gameplay statistics windows, bookmarks, perf
// tracking, CSV output and the high score table.
package telemetry

// EventType identifies telemetry events.
type EventType uint8

const (
	EventShot EventType = iota
	EventEnemyShot
	EventKill
	EventPlayerHit
	EventFormationDrop
	EventLevelCleared
	EventGameOver
)

// Event is a single telemetry record, flattened from a gameplay event.
type Event struct {
	Type     EventType
	Tick     int64
	EntityID uint32

	// Optional fields depending on event type
	Points int     // kill
	Lives  int     // player hit: lives left
	Level  int     // level cleared: new level; game over: final level
	Depth  float64 // formation drop: lowest bottom edge
}

// NewShotEvent creates a player shot event.
func NewShotEvent(tick int64, bulletID uint32) Event {
	return Event{Type: EventShot, Tick: tick, EntityID: bulletID}
}

// NewEnemyShotEvent creates an enemy shot event.
func NewEnemyShotEvent(tick int64, bulletID uint32) Event {
	return Event{Type: EventEnemyShot, Tick: tick, EntityID: bulletID}
}

// NewKillEvent creates an enemy kill event.
func NewKillEvent(tick int64, enemyID uint32, points int) Event {
	return Event{Type: EventKill, Tick: tick, EntityID: enemyID, Points: points}
}

// NewPlayerHitEvent creates a player hit event.
func NewPlayerHitEvent(tick int64, bulletID uint32, livesLeft int) Event {
	return Event{Type: EventPlayerHit, Tick: tick, EntityID: bulletID, Lives: livesLeft}
}

// NewFormationDropEvent creates a formation drop event.
func NewFormationDropEvent(tick int64, depth float64) Event {
	return Event{Type: EventFormationDrop, Tick: tick, Depth: depth}
}

// NewLevelClearedEvent creates a level cleared event.
func NewLevelClearedEvent(tick int64, level int) Event {
	return Event{Type: EventLevelCleared, Tick: tick, Level: level}
}

// NewGameOverEvent creates a game over event.
func NewGameOverEvent(tick int64, level int) Event {
	return Event{Type: EventGameOver, Tick: tick, Level: level}
}
