package cli

import (
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	historyAdapter "github.com/modguard/modguard/internal/adapters/outbound/history"
	"github.com/modguard/modguard/internal/domain"
)

func newHistoryCmd() *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "history [path]",
		Short: "List past validation runs for a module",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "."
			if len(args) > 0 {
				path = args[0]
			}
			absPath, err := filepath.Abs(path)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}

			entries, err := historyAdapter.New().Load(absPath)
			if err != nil {
				return fmt.Errorf("loading history: %w", err)
			}

			if jsonOutput {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(entries)
			}

			if len(entries) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "no validation history")
				return nil
			}
			for _, e := range entries {
				hash := e.CommitHash
				if len(hash) > 8 {
					hash = hash[:8]
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s  %3d %-2s %-8s %s\n",
					e.Timestamp.Format("2006-01-02 15:04"),
					e.Score, domain.GradeFor(e.Score), e.Status, hash)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}
