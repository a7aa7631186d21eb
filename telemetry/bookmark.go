package telemetry

import (
	"fmt"
	"log/slog"

	"github.com/pthm-cable/invaders/config"
)

// BookmarkType identifies the type of bookmark.
type BookmarkType string

const (
	BookmarkLevelCleared BookmarkType = "level_cleared"
	BookmarkLastLife     BookmarkType = "last_life"
	BookmarkFormationLow BookmarkType = "formation_low"
	BookmarkKillStreak   BookmarkType = "kill_streak"
)

// Bookmark represents an automatically triggered bookmark.
type Bookmark struct {
	Type        BookmarkType `csv:"type"`
	Tick        int64        `csv:"tick"`
	Description string       `csv:"description"`
}

// LogBookmark logs the bookmark using slog.
func (b Bookmark) LogBookmark() {
	slog.Info("bookmark",
		"type", string(b.Type),
		"tick", b.Tick,
		"description", b.Description,
	)
}

// BookmarkDetector detects interesting moments in a run from window stats.
type BookmarkDetector struct {
	cfg         config.BookmarksConfig
	arenaHeight float64

	// Rolling history (circular buffer)
	history     []WindowStats
	historySize int
	historyIdx  int
	historyFull bool

	// State tracking
	prevLives    int  // lives at the previous window, 0 before the first
	prevLevel    int  // level at the previous window
	lowTriggered bool // formation_low already fired for the current wave
}

// NewBookmarkDetector creates a detector with the given history size.
func NewBookmarkDetector(historySize int, cfg config.BookmarksConfig, arenaHeight float64) *BookmarkDetector {
	if historySize < 3 {
		historySize = 3 // minimum for a meaningful kill rate average
	}
	return &BookmarkDetector{
		cfg:         cfg,
		arenaHeight: arenaHeight,
		history:     make([]WindowStats, historySize),
		historySize: historySize,
	}
}

// Check analyzes the latest stats and returns any triggered bookmarks.
func (bd *BookmarkDetector) Check(stats WindowStats) []Bookmark {
	var bookmarks []Bookmark

	if b := bd.checkLevelCleared(stats); b != nil {
		bookmarks = append(bookmarks, *b)
	}
	if b := bd.checkLastLife(stats); b != nil {
		bookmarks = append(bookmarks, *b)
	}
	if b := bd.checkFormationLow(stats); b != nil {
		bookmarks = append(bookmarks, *b)
	}
	if b := bd.checkKillStreak(stats); b != nil {
		bookmarks = append(bookmarks, *b)
	}

	bd.addToHistory(stats)
	bd.prevLives = stats.Lives
	bd.prevLevel = stats.Level

	return bookmarks
}

// Reset forgets all history, for a restarted or imported run.
func (bd *BookmarkDetector) Reset() {
	clear(bd.history)
	bd.historyIdx = 0
	bd.historyFull = false
	bd.prevLives = 0
	bd.prevLevel = 0
	bd.lowTriggered = false
}

func (bd *BookmarkDetector) addToHistory(stats WindowStats) {
	bd.history[bd.historyIdx] = stats
	bd.historyIdx = (bd.historyIdx + 1) % bd.historySize
	if bd.historyIdx == 0 {
		bd.historyFull = true
	}
}

func (bd *BookmarkDetector) getHistory() []WindowStats {
	if bd.historyFull {
		return bd.history
	}
	return bd.history[:bd.historyIdx]
}

func (bd *BookmarkDetector) checkLevelCleared(stats WindowStats) *Bookmark {
	if stats.LevelsCleared == 0 {
		return nil
	}
	return &Bookmark{
		Type:        BookmarkLevelCleared,
		Tick:        stats.WindowEndTick,
		Description: fmt.Sprintf("Reached level %d with score %d", stats.Level, stats.Score),
	}
}

func (bd *BookmarkDetector) checkLastLife(stats WindowStats) *Bookmark {
	if stats.Lives != 1 || bd.prevLives <= 1 {
		return nil
	}
	return &Bookmark{
		Type:        BookmarkLastLife,
		Tick:        stats.WindowEndTick,
		Description: fmt.Sprintf("Down to last life at score %d", stats.Score),
	}
}

func (bd *BookmarkDetector) checkFormationLow(stats WindowStats) *Bookmark {
	// A new wave starts from the top again
	if stats.Level != bd.prevLevel {
		bd.lowTriggered = false
	}
	if bd.lowTriggered || bd.arenaHeight <= 0 {
		return nil
	}

	threshold := bd.cfg.FormationLow.DepthFraction * bd.arenaHeight
	if stats.DepthMax < threshold {
		return nil
	}
	bd.lowTriggered = true
	return &Bookmark{
		Type:        BookmarkFormationLow,
		Tick:        stats.WindowEndTick,
		Description: fmt.Sprintf("Formation reached depth %.0f of %.0f with %d enemies left", stats.DepthMax, bd.arenaHeight, stats.EnemiesAlive),
	}
}

func (bd *BookmarkDetector) checkKillStreak(stats WindowStats) *Bookmark {
	history := bd.getHistory()
	if len(history) < 3 {
		return nil
	}

	var totalKills int
	for _, h := range history {
		totalKills += h.Kills
	}
	avgKills := float64(totalKills) / float64(len(history))
	if avgKills == 0 {
		return nil
	}

	if float64(stats.Kills) > avgKills*bd.cfg.KillStreak.Multiplier && stats.Kills >= bd.cfg.KillStreak.MinKills {
		return &Bookmark{
			Type:        BookmarkKillStreak,
			Tick:        stats.WindowEndTick,
			Description: fmt.Sprintf("%d kills is %.1fx average (%.1f)", stats.Kills, float64(stats.Kills)/avgKills, avgKills),
		}
	}

	return nil
}
