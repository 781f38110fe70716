package snapshot

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/afero"

	"github.com/svalle/synu/internal/models"
)

// HistoryFile is the sibling index on the destination recording the message
// given with each backup. It is advisory: listing works without it, and a
// failed append never fails a backup whose archive already landed.
const HistoryFile = "history.json"

// LoadHistory reads the destination's history index. A missing file is an
// empty history, not an error.
func LoadHistory(fs afero.Fs, dest string) ([]models.HistoryEntry, error) {
	data, err := afero.ReadFile(fs, filepath.Join(dest, HistoryFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read history index: %w", err)
	}

	var entries []models.HistoryEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("failed to parse history index: %w", err)
	}
	return entries, nil
}

// AppendHistory adds one entry to the destination's history index.
func AppendHistory(fs afero.Fs, dest string, entry models.HistoryEntry) error {
	entries, err := LoadHistory(fs, dest)
	if err != nil {
		return err
	}
	entries = append(entries, entry)

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal history index: %w", err)
	}
	if err := afero.WriteFile(fs, filepath.Join(dest, HistoryFile), data, 0o644); err != nil {
		return fmt.Errorf("failed to write history index: %w", err)
	}
	return nil
}

// Messages returns a snapshot-name to message lookup built from the index.
func Messages(fs afero.Fs, dest string) map[string]string {
	entries, err := LoadHistory(fs, dest)
	if err != nil {
		return nil
	}
	msgs := make(map[string]string, len(entries))
	for _, e := range entries {
		msgs[e.Snapshot] = e.Message
	}
	return msgs
}
