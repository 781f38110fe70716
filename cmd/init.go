package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/svalle/synu/internal/state"
)

var (
	initCurrent string
	initForce   bool
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize the current project for backups",
	Long: `Create the hidden state directory (.synu/) holding the project record.

The record stores the project name, a unique identifier and, after the
first backup, the destination path. Run this once per project.`,
	RunE: runInit,
}

func init() {
	rootCmd.AddCommand(initCmd)

	initCmd.Flags().StringVarP(&initCurrent, "current", "c", ".", "Project directory")
	initCmd.Flags().BoolVar(&initForce, "force", false, "Replace an existing record (new ID, forgets the destination)")
}

func runInit(cmd *cobra.Command, args []string) error {
	root, err := projectRoot(initCurrent)
	if err != nil {
		return err
	}

	store := state.NewStore(appFs, root)
	initialize := store.Initialize
	if initForce {
		initialize = store.Reinitialize
	}
	st, err := initialize()
	if err != nil {
		return err
	}

	fmt.Printf("✓ Project '%s' initialized with ID %s\n", st.ProjectName, st.Identifier)
	fmt.Println("  Run `synu backup -p <path> -m <message>` to create the first snapshot")
	return nil
}
