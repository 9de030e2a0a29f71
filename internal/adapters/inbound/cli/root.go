package cli

import "github.com/spf13/cobra"

var (
	version = "dev"
	commit  = "none"
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "modguard",
		Short:         "Keep every module in your monorepo compliant",
		Long:          "Modguard validates modules against a catalog of structure, documentation, configuration, testing, security and performance rules, scores them, and can auto-repair safe violations.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.AddCommand(newVersionCmd())
	cmd.AddCommand(newValidateCmd())
	cmd.AddCommand(newBatchCmd())
	cmd.AddCommand(newEcosystemCmd())
	cmd.AddCommand(newFixCmd())
	cmd.AddCommand(newRulesCmd())
	cmd.AddCommand(newHistoryCmd())
	cmd.AddCommand(newMCPCmd())
	return cmd
}

// NewRootCmdForTest returns the root command for testing.
func NewRootCmdForTest() *cobra.Command {
	return newRootCmd()
}

func Execute() error {
	return newRootCmd().Execute()
}
