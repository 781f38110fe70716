package models

// StateDir is the hidden per-project directory holding the persisted record.
const StateDir = ".synu"

// StateFile is the record file name inside StateDir.
const StateFile = "config.json"

// ProjectState is the persisted record created by `synu init`.
// DestinationPath is empty until the first backup that supplies a path.
type ProjectState struct {
	ProjectName     string `json:"project_name"`
	Identifier      string `json:"identifier"`
	DestinationPath string `json:"destination_path"`
}
