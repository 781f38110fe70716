package models

import (
	"fmt"
	"strings"
	"time"
)

// TimestampLayout is the fixed-width timestamp used in snapshot names.
// Zero-padded fields make lexicographic order equal chronological order.
const TimestampLayout = "20060102_150405"

// Suffix is the snapshot archive extension.
const Suffix = ".zip"

// Snapshot represents one immutable archive of the project tree.
type Snapshot struct {
	Name        string
	ProjectName string
	Timestamp   time.Time
	ArchivePath string
	Size        int64
	Message     string
}

// HistoryEntry is one record in the destination's history.json index.
type HistoryEntry struct {
	Snapshot  string `json:"snapshot"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
}

// Name generates the snapshot file name for a project at a point in time.
// Format: <project_name>_YYYYMMDD_HHMMSS.zip
func Name(projectName string, t time.Time) string {
	return fmt.Sprintf("%s_%s%s", projectName, t.Format(TimestampLayout), Suffix)
}

// ParseName splits a snapshot file name into project name and timestamp.
// The timestamp is the two trailing underscore-separated fields, so project
// names may themselves contain underscores.
func ParseName(name string) (projectName string, t time.Time, err error) {
	base, ok := strings.CutSuffix(name, Suffix)
	if !ok {
		return "", time.Time{}, fmt.Errorf("snapshot name %q: missing %s suffix", name, Suffix)
	}

	// <project>_<YYYYMMDD>_<HHMMSS>
	i := strings.LastIndex(base, "_")
	if i < 0 {
		return "", time.Time{}, fmt.Errorf("snapshot name %q: no timestamp fields", name)
	}
	j := strings.LastIndex(base[:i], "_")
	if j < 0 {
		return "", time.Time{}, fmt.Errorf("snapshot name %q: no timestamp fields", name)
	}

	projectName = base[:j]
	stamp := base[j+1:]
	if projectName == "" {
		return "", time.Time{}, fmt.Errorf("snapshot name %q: empty project name", name)
	}

	t, err = time.ParseInLocation(TimestampLayout, stamp, time.Local)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("snapshot name %q: invalid timestamp %q", name, stamp)
	}
	return projectName, t, nil
}
