package game

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// SnapshotVersion is incremented when the format changes.
const SnapshotVersion = 1

// Snapshot is the persisted form of a game. Visual handles are not part of
// it; the renderer rebuilds them after a load.
type Snapshot struct {
	Version int    `json:"version"`
	Label   string `json:"label,omitempty"` // What triggered the save, e.g. a bookmark type
	State   State  `json:"state"`
}

// EncodeSnapshot serializes st as base64 JSON, suitable for pasting around as
// a single string.
func EncodeSnapshot(st State) (string, error) {
	data, err := json.Marshal(Snapshot{Version: SnapshotVersion, State: st})
	if err != nil {
		return "", fmt.Errorf("marshal snapshot: %w", err)
	}
	return base64.StdEncoding.EncodeToString(data), nil
}

// DecodeSnapshot parses a string produced by EncodeSnapshot. A game saved
// before it was started is restored as playing, since a load resumes play.
func DecodeSnapshot(blob string) (State, error) {
	data, err := base64.StdEncoding.DecodeString(strings.TrimSpace(blob))
	if err != nil {
		return State{}, fmt.Errorf("%w: base64: %w", ErrMalformedSnapshot, err)
	}
	return decodeSnapshotJSON(data)
}

func decodeSnapshotJSON(data []byte) (State, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()

	var snap Snapshot
	if err := dec.Decode(&snap); err != nil {
		return State{}, fmt.Errorf("%w: json: %w", ErrMalformedSnapshot, err)
	}
	if snap.Version != SnapshotVersion {
		return State{}, fmt.Errorf("%w: got %d, want %d", ErrSnapshotVersion, snap.Version, SnapshotVersion)
	}
	if err := snap.State.Validate(); err != nil {
		return State{}, fmt.Errorf("%w: %w", ErrMalformedSnapshot, err)
	}

	st := snap.State
	if st.Status == StatusNotStarted {
		st.Status = StatusPlaying
	}
	return st, nil
}

// SaveSnapshot writes st to dir as indented JSON and returns the file path.
// label, when set, is recorded in the file and appended to its name.
func SaveSnapshot(st State, dir, label string) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create snapshot dir: %w", err)
	}

	name := fmt.Sprintf("snapshot_%d", st.Tick)
	if label != "" {
		name = fmt.Sprintf("snapshot_%d_%s", st.Tick, strings.ReplaceAll(label, " ", "_"))
	}
	path := filepath.Join(dir, name+".json")

	data, err := json.MarshalIndent(Snapshot{Version: SnapshotVersion, Label: label, State: st}, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal snapshot: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("write snapshot: %w", err)
	}
	return path, nil
}

// LoadSnapshot reads a file written by SaveSnapshot.
func LoadSnapshot(path string) (State, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return State{}, fmt.Errorf("read snapshot: %w", err)
	}
	return decodeSnapshotJSON(data)
}
