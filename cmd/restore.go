package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/svalle/synu/internal/engine"
)

var (
	restorePath    string
	restoreCurrent string
)

var restoreCmd = &cobra.Command{
	Use:   "restore",
	Short: "Restore the latest snapshot from the destination",
	Long: `Replace the project tree with the contents of the most recent snapshot.

Full-overwrite semantics: the tree becomes exactly what the snapshot
captured. Files created after the backup are removed; only the hidden
state directory is preserved.`,
	RunE: runRestore,
}

func init() {
	rootCmd.AddCommand(restoreCmd)

	restoreCmd.Flags().StringVarP(&restorePath, "path", "p", "", "Destination path (only if not already saved)")
	restoreCmd.Flags().StringVarP(&restoreCurrent, "current", "c", ".", "Project directory")
}

func runRestore(cmd *cobra.Command, args []string) error {
	root, err := projectRoot(restoreCurrent)
	if err != nil {
		return err
	}

	snap, warnings, err := engine.New(appFs, root).Restore(restorePath, "")
	warn(warnings)
	if err != nil {
		return err
	}

	fmt.Printf("✓ Restored from snapshot: %s\n", snap.Name)
	return nil
}
