package config

import (
	"github.com/spf13/viper"
)

// GetExcludePatterns returns glob patterns (relative to the project root)
// excluded from backups, in addition to the state directory itself.
func GetExcludePatterns() []string {
	return viper.GetStringSlice("backup.exclude")
}

// GetListLimit returns the maximum number of snapshots `synu list` prints.
// Zero means unlimited.
func GetListLimit() int {
	return viper.GetInt("list.limit")
}

// GetHistoryEnabled reports whether backups append to the destination's
// history.json index.
func GetHistoryEnabled() bool {
	return viper.GetBool("history.enabled")
}
