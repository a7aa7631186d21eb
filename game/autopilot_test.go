package game

import (
	"testing"

	"github.com/pthm-cable/invaders/components"
	"github.com/pthm-cable/invaders/config"
	"github.com/pthm-cable/invaders/systems"
)

func TestAutopilotStatusKeys(t *testing.T) {
	sim := newTestSim(t, nil)
	pilot := NewAutopilot(sim.Config(), true)

	st := sim.NewState()
	if k := pilot.Keys(st); !k.Start {
		t.Error("autopilot should press start before the game")
	}
	st.Status = StatusGameOver
	if k := pilot.Keys(st); !k.Restart {
		t.Error("autopilot with restart should press restart after game over")
	}
	pilot.Restart = false
	if k := pilot.Keys(st); k.Restart {
		t.Error("autopilot without restart pressed restart")
	}
}

func TestAutopilotDodges(t *testing.T) {
	sim := newTestSim(t, nil)
	pilot := NewAutopilot(sim.Config(), false)

	st := sim.Restart()
	// Incoming just left of the ship's centre.
	st.Bullets = []components.Bullet{systems.NewBullet(st.LastID+1, 405, 500, false, sim.Config())}
	st.LastID++

	k := pilot.Keys(st)
	if !k.Right || k.Left {
		t.Errorf("keys = %+v, want a dodge to the right", k)
	}
}

func TestAutopilotScores(t *testing.T) {
	sim := newTestSim(t, func(c *config.Config) { c.Enemy.ShootFrequency = 0 })
	pilot := NewAutopilot(sim.Config(), false)
	s := NewSession(sim, nil)

	var st State
	for i := 0; i < 3000; i++ {
		st = s.Tick(1, pilot.Keys(s.State()), float64(i)/60)
	}

	if st.Score == 0 {
		t.Errorf("autopilot scored nothing in 3000 ticks (level %d, status %v)", st.Level, st.Status)
	}
}
