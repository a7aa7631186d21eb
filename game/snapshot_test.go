package game

import (
	"encoding/base64"
	"errors"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/pthm-cable/invaders/components"
)

func TestSnapshotRoundtrip(t *testing.T) {
	sim := newTestSim(t, nil)
	st := sim.Restart()
	st, _ = sim.Step(st, 1, Keys{Shoot: true, Left: true}, 3)
	st.Score = 40

	blob, err := EncodeSnapshot(st)
	if err != nil {
		t.Fatalf("EncodeSnapshot: %v", err)
	}
	got, err := DecodeSnapshot(blob)
	if err != nil {
		t.Fatalf("DecodeSnapshot: %v", err)
	}
	if !reflect.DeepEqual(got, st) {
		t.Errorf("roundtrip mismatch:\n got %+v\nwant %+v", got, st)
	}
}

func TestSnapshotRestoresNotStartedAsPlaying(t *testing.T) {
	sim := newTestSim(t, nil)
	blob, err := EncodeSnapshot(sim.NewState())
	if err != nil {
		t.Fatal(err)
	}
	got, err := DecodeSnapshot(blob)
	if err != nil {
		t.Fatal(err)
	}
	if got.Status != StatusPlaying {
		t.Errorf("status = %v, want PLAYING", got.Status)
	}
}

func TestDecodeSnapshotRejects(t *testing.T) {
	enc := func(s string) string { return base64.StdEncoding.EncodeToString([]byte(s)) }

	sim := newTestSim(t, nil)
	bad := sim.Restart()
	bad.Enemies = append(bad.Enemies, components.Enemy{ID: 1, Points: 10}) // Reuses the player's ID
	badBlob, err := EncodeSnapshot(bad)
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name    string
		blob    string
		wantErr error
	}{
		{"not base64", "%%%", ErrMalformedSnapshot},
		{"not json", enc("hello"), ErrMalformedSnapshot},
		{"unknown field", enc(`{"version":1,"state":{},"extra":true}`), ErrMalformedSnapshot},
		{"unknown status", enc(`{"version":1,"state":{"status":"DANCING"}}`), ErrMalformedSnapshot},
		{"future version", enc(`{"version":99,"state":{}}`), ErrSnapshotVersion},
		{"invalid state", enc(`{"version":1,"state":{"level":0}}`), ErrInvalidState},
		{"duplicate ids", badBlob, ErrInvalidState},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeSnapshot(tt.blob)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("err = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestSaveLoadSnapshot(t *testing.T) {
	sim := newTestSim(t, nil)
	st := sim.Restart()
	st.Tick = 42
	dir := t.TempDir()

	path, err := SaveSnapshot(st, dir, "level cleared")
	if err != nil {
		t.Fatalf("SaveSnapshot: %v", err)
	}
	if filepath.Base(path) != "snapshot_42_level_cleared.json" {
		t.Errorf("path = %s", path)
	}

	got, err := LoadSnapshot(path)
	if err != nil {
		t.Fatalf("LoadSnapshot: %v", err)
	}
	if !reflect.DeepEqual(got, st) {
		t.Error("loaded state differs from saved state")
	}

	if _, err := LoadSnapshot(filepath.Join(dir, "missing.json")); err == nil || !strings.Contains(err.Error(), "read snapshot") {
		t.Errorf("missing file err = %v", err)
	}
}
