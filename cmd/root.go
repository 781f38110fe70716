package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/svalle/synu/internal/models"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "synu",
	Short: "Git-style project backups on removable drives",
	Long: `synu snapshots a project directory into timestamped zip archives on a
configured destination, typically a USB drive, and restores the project to
its latest or a named prior snapshot.

The destination path given on the first backup is remembered per project,
so later backups and restores just work once the drive is plugged in.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(exitCode(err))
	}
}

// exitCode maps each engine error kind to a distinct code so scripts can
// branch on the failure.
func exitCode(err error) int {
	for _, m := range []struct {
		target error
		code   int
	}{
		{models.ErrNotInitialized, 2},
		{models.ErrAlreadyInitialized, 3},
		{models.ErrMissingDestination, 4},
		{models.ErrDestinationUnavailable, 5},
		{models.ErrDuplicateTimestamp, 6},
		{models.ErrPackingFailed, 7},
		{models.ErrNoSnapshots, 8},
		{models.ErrSnapshotNotFound, 9},
		{models.ErrUnpackFailed, 10},
	} {
		if errors.Is(err, m.target) {
			return m.code
		}
	}
	return 1
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.config/synu/config.toml)")
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}

		configDir := filepath.Join(home, ".config", "synu")
		viper.AddConfigPath(configDir)
		viper.SetConfigType("toml")
		viper.SetConfigName("config")
	}

	viper.AutomaticEnv()

	// Set defaults
	viper.SetDefault("backup.exclude", []string{})
	viper.SetDefault("history.enabled", true)
	viper.SetDefault("list.limit", 0)

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// warn prints non-fatal conditions the way every command reports them.
func warn(msgs []string) {
	for _, m := range msgs {
		fmt.Fprintln(os.Stderr, "Warning:", m)
	}
}
