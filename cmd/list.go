package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/alpkeskin/gotoon"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/svalle/synu/internal/config"
	"github.com/svalle/synu/internal/engine"
	"github.com/svalle/synu/internal/snapshot"
)

var (
	listPath    string
	listCurrent string
	listJSON    bool
	listToon    bool
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the project's snapshots on the destination",
	Long: `List the snapshots stored for this project, oldest first, with the
message recorded at backup time when available.

Examples:
  synu list
  synu list --toon
  synu list -p /media/usb`,
	RunE: runList,
}

func init() {
	rootCmd.AddCommand(listCmd)

	listCmd.Flags().StringVarP(&listPath, "path", "p", "", "Destination path (only if not already saved)")
	listCmd.Flags().StringVarP(&listCurrent, "current", "c", ".", "Project directory")
	listCmd.Flags().BoolVar(&listJSON, "json", false, "Output as JSON")
	listCmd.Flags().BoolVar(&listToon, "toon", false, "Output as Toon (token-efficient, for agentic tools)")
}

type listEntry struct {
	Name    string `json:"name"`
	Created string `json:"created"`
	Size    int64  `json:"size"`
	Message string `json:"message,omitempty"`
}

func runList(cmd *cobra.Command, args []string) error {
	root, err := projectRoot(listCurrent)
	if err != nil {
		return err
	}

	store := engine.New(appFs, root).Store()
	st, err := store.Load()
	if err != nil {
		return err
	}
	dest, err := store.ResolveDestination(st, listPath)
	if err != nil {
		return err
	}

	snaps, skipped, err := snapshot.List(appFs, dest, st.ProjectName)
	if err != nil {
		return err
	}
	for _, name := range skipped {
		fmt.Fprintf(cmd.ErrOrStderr(), "Warning: ignoring malformed snapshot name %s\n", name)
	}

	if limit := config.GetListLimit(); limit > 0 && len(snaps) > limit {
		snaps = snaps[len(snaps)-limit:]
	}

	if len(snaps) == 0 {
		fmt.Println("No snapshots found")
		return nil
	}

	messages := snapshot.Messages(appFs, dest)
	entries := make([]listEntry, 0, len(snaps))
	for _, s := range snaps {
		entries = append(entries, listEntry{
			Name:    s.Name,
			Created: s.Timestamp.Format("2006-01-02 15:04:05"),
			Size:    s.Size,
			Message: messages[s.Name],
		})
	}

	if listJSON {
		data, err := json.MarshalIndent(entries, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode JSON: %w", err)
		}
		fmt.Println(string(data))
		return nil
	}

	if listToon {
		output, err := gotoon.Encode(entries)
		if err != nil {
			return fmt.Errorf("failed to encode Toon: %w", err)
		}
		fmt.Println(output)
		return nil
	}

	fmt.Printf("Found %d snapshot(s) at %s:\n\n", len(snaps), dest)
	for i, s := range snaps {
		fmt.Printf("  %s\n", s.Name)
		fmt.Printf("    Created: %s (%s)\n", s.Timestamp.Format("2006-01-02 15:04:05"), humanize.Time(s.Timestamp))
		fmt.Printf("    Size:    %s\n", humanize.Bytes(uint64(s.Size)))
		if msg := messages[s.Name]; msg != "" {
			fmt.Printf("    Message: %s\n", msg)
		}
		if i == len(snaps)-1 {
			fmt.Println("    (latest)")
		}
		fmt.Println()
	}

	return nil
}
