package telemetry

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sort"
)

// HighScore is one finished run in the high score table.
type HighScore struct {
	Score    int     `json:"score"`
	Level    int     `json:"level"`
	Kills    int     `json:"kills"`
	Accuracy float64 `json:"accuracy"`
	Ticks    int64   `json:"ticks"`
	Seed     int64   `json:"seed"`
}

// HighScores keeps the best runs, sorted by score descending. Ties keep the
// earlier run ahead.
type HighScores struct {
	entries []HighScore
	maxSize int
}

// NewHighScores creates an empty table holding at most maxSize entries.
func NewHighScores(maxSize int) *HighScores {
	if maxSize < 1 {
		maxSize = 1
	}
	return &HighScores{
		entries: make([]HighScore, 0, maxSize),
		maxSize: maxSize,
	}
}

// Consider evaluates a finished run for table entry.
// Returns the 0-based rank it was inserted at, or -1 if it did not qualify.
func (hs *HighScores) Consider(entry HighScore) int {
	if entry.Score <= 0 {
		return -1
	}

	// Find insertion point (sorted descending by score)
	idx := sort.Search(len(hs.entries), func(i int) bool {
		return hs.entries[i].Score < entry.Score
	})

	// If table is full and entry would be last (lowest), skip it
	if len(hs.entries) >= hs.maxSize && idx >= hs.maxSize {
		return -1
	}

	hs.entries = append(hs.entries, HighScore{})
	copy(hs.entries[idx+1:], hs.entries[idx:])
	hs.entries[idx] = entry

	if len(hs.entries) > hs.maxSize {
		hs.entries = hs.entries[:hs.maxSize]
	}

	return idx
}

// Entries returns a copy of the table, best first.
func (hs *HighScores) Entries() []HighScore {
	out := make([]HighScore, len(hs.entries))
	copy(out, hs.entries)
	return out
}

// Best returns the top score, or 0 if the table is empty.
func (hs *HighScores) Best() int {
	if len(hs.entries) == 0 {
		return 0
	}
	return hs.entries[0].Score
}

// Len returns the number of entries.
func (hs *HighScores) Len() int {
	return len(hs.entries)
}

// MarshalJSON serializes the table as a JSON array.
func (hs *HighScores) MarshalJSON() ([]byte, error) {
	return json.MarshalIndent(hs.entries, "", "  ")
}

// Save writes the table to path as JSON.
func (hs *HighScores) Save(path string) error {
	data, err := hs.MarshalJSON()
	if err != nil {
		return fmt.Errorf("marshaling high scores: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing high scores: %w", err)
	}
	return nil
}

// LoadHighScores reads a table from path. A missing file yields an empty
// table. Entries are re-inserted so an edited file is re-sorted and trimmed.
func LoadHighScores(path string, maxSize int) (*HighScores, error) {
	hs := NewHighScores(maxSize)

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return hs, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading high scores: %w", err)
	}

	var raw []HighScore
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing high scores JSON: %w", err)
	}
	for _, e := range raw {
		hs.Consider(e)
	}
	return hs, nil
}
