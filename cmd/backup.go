package cmd

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/svalle/synu/internal/engine"
)

var (
	backupPath    string
	backupMessage string
	backupCurrent string
)

var backupCmd = &cobra.Command{
	Use:   "backup",
	Short: "Create a new snapshot of the project",
	Long: `Pack the project tree into a timestamped zip archive on the destination.

The destination path is required the first time and remembered afterwards:

  synu backup -p /media/usb -m "Inicio"
  synu backup -m "segunda version"

The hidden state directory is never included in a snapshot. An existing
archive is never overwritten: a second backup within the same second fails.`,
	RunE: runBackup,
}

func init() {
	rootCmd.AddCommand(backupCmd)

	backupCmd.Flags().StringVarP(&backupPath, "path", "p", "", "Destination path (required the first time)")
	backupCmd.Flags().StringVarP(&backupMessage, "message", "m", "", "Backup message")
	backupCmd.Flags().StringVarP(&backupCurrent, "current", "c", ".", "Project directory")
	backupCmd.MarkFlagRequired("message")
}

func runBackup(cmd *cobra.Command, args []string) error {
	root, err := projectRoot(backupCurrent)
	if err != nil {
		return err
	}

	snap, warnings, err := engine.New(appFs, root).Backup(backupPath, backupMessage)
	warn(warnings)
	if err != nil {
		return err
	}

	fmt.Printf("✓ Backup created: %s (%s)\n", snap.Name, humanize.Bytes(uint64(snap.Size)))
	fmt.Printf("  Destination: %s\n", snap.ArchivePath)
	return nil
}
