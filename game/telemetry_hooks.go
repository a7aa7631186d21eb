package game

import (
	"log/slog"

	"github.com/pthm-cable/invaders/systems"
	"github.com/pthm-cable/invaders/telemetry"
)

// hitShake is the camera shake amplitude, in screen pixels, when the player
// is hit.
const hitShake = 8

// telemetrySink routes session events into the game's telemetry.
type telemetrySink struct {
	g *Game
}

// Publish implements EventSink. Events are stamped with the driver tick
// rather than the state's tick, which restarts with each game.
func (s telemetrySink) Publish(_ int64, ev Event) {
	g := s.g
	tick := g.tick

	var tev telemetry.Event
	switch e := ev.(type) {
	case ShotFired:
		tev = telemetry.NewShotEvent(tick, e.Bullet.ID)
	case EnemyFired:
		tev = telemetry.NewEnemyShotEvent(tick, e.Bullet.ID)
	case EnemyKilled:
		tev = telemetry.NewKillEvent(tick, e.Enemy.ID, e.Enemy.Points)
	case PlayerHit:
		tev = telemetry.NewPlayerHitEvent(tick, e.BulletID, e.LivesLeft)
		if g.camera != nil {
			g.camera.Shake(hitShake)
		}
	case FormationDropped:
		tev = telemetry.NewFormationDropEvent(tick, e.Depth)
	case LevelCleared:
		tev = telemetry.NewLevelClearedEvent(tick, e.Level)
		if !g.headless {
			g.notify("Wave cleared")
		}
	case GameOver:
		tev = telemetry.NewGameOverEvent(tick, e.Level)
		g.collector.Record(tev)
		g.runTracker.Record(tev)
		g.finishRun(e)
		return
	case StatusChanged:
		if e.To == StatusPlaying && (e.From == StatusNotStarted || e.From == StatusGameOver) {
			g.startRun()
		}
		return
	default:
		return
	}

	g.collector.Record(tev)
	g.runTracker.Record(tev)
}

// startRun begins tracking a new game.
func (g *Game) startRun() {
	g.runTracker.Start(g.tick)
	g.bookmarkDetector.Reset()
	g.lastRank = -1
}

// finishRun closes the run that just ended: reports it, logs it to CSV and
// offers it to the high score table.
func (g *Game) finishRun(e GameOver) {
	g.lastGameOver = e
	g.runsFinished++

	run := g.runTracker.Finish(g.tick, e.Score, e.Level)
	slog.Info("run finished",
		"score", run.Score,
		"level", run.Level,
		"kills", run.Kills,
		"accuracy", run.Accuracy,
		"duration_sec", run.DurationSec,
	)

	if g.runCallback != nil {
		g.runCallback(run)
	}
	if err := g.outputManager.WriteRun(run); err != nil {
		slog.Error("failed to write run", "error", err)
	}

	if g.highScores == nil {
		return
	}
	g.lastRank = g.highScores.Consider(telemetry.HighScore{
		Score:    run.Score,
		Level:    run.Level,
		Kills:    run.Kills,
		Accuracy: run.Accuracy,
		Ticks:    run.EndTick - run.StartTick,
		Seed:     g.rngSeed,
	})
	if g.lastRank < 0 {
		return
	}
	slog.Info("new high score", "rank", g.lastRank+1, "score", run.Score)
	if g.highScoresPath != "" {
		if err := g.highScores.Save(g.highScoresPath); err != nil {
			slog.Error("failed to save high scores", "error", err)
		}
	}
	if err := g.outputManager.WriteHighScores(g.highScores); err != nil {
		slog.Error("failed to write high scores", "error", err)
	}
}

// flushTelemetry closes the stats window when it is due.
func (g *Game) flushTelemetry() {
	if !g.collector.ShouldFlush(g.tick) {
		return
	}

	st := g.state
	playerBullets := systems.CountPlayerBullets(st.Bullets)
	stats := g.collector.Flush(g.tick, telemetry.Sample{
		Score:         st.Score,
		Level:         st.Level,
		Lives:         st.Player.Lives,
		EnemiesAlive:  len(st.Enemies),
		PlayerBullets: playerBullets,
		EnemyBullets:  len(st.Bullets) - playerBullets,
	})
	g.lastStats = stats
	g.haveStats = true

	if g.statsCallback != nil {
		g.statsCallback(stats)
	}

	perfStats := g.perfCollector.Stats()
	if g.logStats {
		stats.LogStats()
		perfStats.LogStats()
	}

	if err := g.outputManager.WriteTelemetry(stats); err != nil {
		slog.Error("failed to write telemetry", "error", err)
	}
	if err := g.outputManager.WritePerf(perfStats, g.tick); err != nil {
		slog.Error("failed to write perf", "error", err)
	}

	// Bookmarks only make sense while a game is running
	if st.Status != StatusPlaying {
		return
	}
	for _, bm := range g.bookmarkDetector.Check(stats) {
		if g.logStats {
			bm.LogBookmark()
		}
		if err := g.outputManager.WriteBookmark(bm); err != nil {
			slog.Error("failed to write bookmark", "error", err)
		}
		g.saveSnapshot(bm)
	}
}

// saveSnapshot writes the current state to the snapshot directory, labelled
// with the bookmark that triggered it.
func (g *Game) saveSnapshot(bm telemetry.Bookmark) {
	if g.snapshotDir == "" {
		return
	}
	path, err := SaveSnapshot(g.state, g.snapshotDir, string(bm.Type))
	if err != nil {
		slog.Error("failed to save snapshot", "error", err)
		return
	}
	slog.Info("snapshot saved", "path", path, "bookmark", bm.Type)
}
