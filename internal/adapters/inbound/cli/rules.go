package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/modguard/modguard/internal/adapters/outbound/tui"
	"github.com/modguard/modguard/internal/domain/rules"
)

func newRulesCmd() *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "rules",
		Short: "List the compliance rule catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			catalog := rules.NewCatalog()
			if jsonOutput {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(catalog.Rules())
			}
			fmt.Fprint(cmd.OutOrStdout(), tui.RenderRules(catalog.Rules()))
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}
