package telemetry

import (
	"testing"

	"github.com/pthm-cable/invaders/config"
)

func newTestDetector() *BookmarkDetector {
	cfg := config.BookmarksConfig{
		KillStreak:   config.KillStreakConfig{Multiplier: 2, MinKills: 5},
		FormationLow: config.FormationLowConfig{DepthFraction: 0.75},
	}
	return NewBookmarkDetector(10, cfg, 600)
}

func hasBookmark(bookmarks []Bookmark, typ BookmarkType) bool {
	for _, bm := range bookmarks {
		if bm.Type == typ {
			return true
		}
	}
	return false
}

func TestBookmarkDetector_KillStreak(t *testing.T) {
	bd := newTestDetector()

	for i := 0; i < 5; i++ {
		bd.Check(WindowStats{WindowEndTick: int64(i * 600), Kills: 2, Lives: 3, Level: 1})
	}

	bookmarks := bd.Check(WindowStats{WindowEndTick: 3000, Kills: 6, Lives: 3, Level: 1})
	if !hasBookmark(bookmarks, BookmarkKillStreak) {
		t.Error("expected kill_streak bookmark")
	}

	// Above the multiplier but under the minimum count
	bd = newTestDetector()
	for i := 0; i < 5; i++ {
		bd.Check(WindowStats{WindowEndTick: int64(i * 600), Kills: 1, Lives: 3, Level: 1})
	}
	bookmarks = bd.Check(WindowStats{WindowEndTick: 3000, Kills: 4, Lives: 3, Level: 1})
	if hasBookmark(bookmarks, BookmarkKillStreak) {
		t.Error("kill_streak should need min_kills")
	}
}

func TestBookmarkDetector_KillStreakNeedsHistory(t *testing.T) {
	bd := newTestDetector()
	bd.Check(WindowStats{Kills: 1, Lives: 3, Level: 1})

	if hasBookmark(bd.Check(WindowStats{Kills: 20, Lives: 3, Level: 1}), BookmarkKillStreak) {
		t.Error("kill_streak should not fire with under three windows of history")
	}
}

func TestBookmarkDetector_LastLife(t *testing.T) {
	bd := newTestDetector()

	bd.Check(WindowStats{Lives: 3, Level: 1})
	if !hasBookmark(bd.Check(WindowStats{Lives: 1, Level: 1}), BookmarkLastLife) {
		t.Error("expected last_life bookmark on dropping to one life")
	}
	if hasBookmark(bd.Check(WindowStats{Lives: 1, Level: 1}), BookmarkLastLife) {
		t.Error("last_life should fire once")
	}
}

func TestBookmarkDetector_LevelCleared(t *testing.T) {
	bd := newTestDetector()

	if hasBookmark(bd.Check(WindowStats{Lives: 3, Level: 1}), BookmarkLevelCleared) {
		t.Error("no level cleared in window")
	}
	if !hasBookmark(bd.Check(WindowStats{Lives: 3, Level: 2, LevelsCleared: 1}), BookmarkLevelCleared) {
		t.Error("expected level_cleared bookmark")
	}
}

func TestBookmarkDetector_FormationLow(t *testing.T) {
	bd := newTestDetector()

	if hasBookmark(bd.Check(WindowStats{Level: 1, DepthMax: 300}), BookmarkFormationLow) {
		t.Error("300 is above the 450 threshold")
	}
	if !hasBookmark(bd.Check(WindowStats{Level: 1, DepthMax: 460}), BookmarkFormationLow) {
		t.Error("expected formation_low bookmark")
	}
	if hasBookmark(bd.Check(WindowStats{Level: 1, DepthMax: 500}), BookmarkFormationLow) {
		t.Error("formation_low should fire once per wave")
	}
	if !hasBookmark(bd.Check(WindowStats{Level: 2, DepthMax: 470}), BookmarkFormationLow) {
		t.Error("formation_low should re-arm on a new level")
	}
}

func TestBookmarkDetector_Reset(t *testing.T) {
	bd := newTestDetector()
	bd.Check(WindowStats{Level: 1, DepthMax: 460, Lives: 3})
	bd.Reset()

	if !hasBookmark(bd.Check(WindowStats{Level: 1, DepthMax: 460, Lives: 3}), BookmarkFormationLow) {
		t.Error("Reset should re-arm formation_low")
	}
	if len(bd.getHistory()) != 1 {
		t.Errorf("history length = %d, want 1", len(bd.getHistory()))
	}
}
