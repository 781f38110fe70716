package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/svalle/synu/internal/engine"
)

var (
	downgradePath    string
	downgradeSnap    string
	downgradeCurrent string
)

var downgradeCmd = &cobra.Command{
	Use:   "downgrade",
	Short: "Restore a specific snapshot by name",
	Long: `Replace the project tree with the contents of a named snapshot.

Use 'synu list' to see the available snapshot names:

  synu downgrade -s gatitos_20250608_153000.zip

Like restore, this is a full overwrite; only the hidden state directory
survives.`,
	RunE: runDowngrade,
}

func init() {
	rootCmd.AddCommand(downgradeCmd)

	downgradeCmd.Flags().StringVarP(&downgradePath, "path", "p", "", "Destination path (only if not already saved)")
	downgradeCmd.Flags().StringVarP(&downgradeSnap, "snap", "s", "", "Snapshot name to restore")
	downgradeCmd.Flags().StringVarP(&downgradeCurrent, "current", "c", ".", "Project directory")
	downgradeCmd.MarkFlagRequired("snap")
}

func runDowngrade(cmd *cobra.Command, args []string) error {
	root, err := projectRoot(downgradeCurrent)
	if err != nil {
		return err
	}

	snap, warnings, err := engine.New(appFs, root).Restore(downgradePath, downgradeSnap)
	warn(warnings)
	if err != nil {
		return err
	}

	fmt.Printf("✓ Restored from snapshot: %s\n", snap.Name)
	return nil
}
