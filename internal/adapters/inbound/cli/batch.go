package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/modguard/modguard/internal/adapters/outbound/discovery"
	"github.com/modguard/modguard/internal/adapters/outbound/gitinfo"
	"github.com/modguard/modguard/internal/adapters/outbound/tui"
	"github.com/modguard/modguard/internal/application"
	"github.com/modguard/modguard/internal/domain"
	"github.com/modguard/modguard/internal/domain/rules"
)

func newBatchCmd() *cobra.Command {
	var (
		jsonOutput bool
		parallel   int
		failFast   bool
		progress   bool
	)

	cmd := &cobra.Command{
		Use:   "batch <path> [path...]",
		Short: "Validate many modules with bounded concurrency",
		Long:  "Validate every given module path. Paths are processed in chunks of --parallel; a failing module never aborts the batch unless --fail-fast is set.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := domain.BatchOptions{
				MaxParallel:     parallel,
				ContinueOnError: !failFast,
				Validation: domain.ValidationOptions{
					Discovery: domain.DiscoveryOptions{AnalyzeContent: true},
				},
			}
			if progress {
				opts.OnProgress = func(p domain.Progress) {
					fmt.Fprintf(cmd.ErrOrStderr(), "\r%d/%d (%.0f%%), %d failed",
						p.Completed, p.Total, p.Percentage, p.Failed)
					if p.Completed == p.Total {
						fmt.Fprintln(cmd.ErrOrStderr())
					}
				}
			}

			validator := application.NewValidateService(discovery.New(), rules.NewCatalog(), gitinfo.New())
			svc := application.NewBatchService(validator, discovery.New())

			result, err := svc.ValidateBatch(cmd.Context(), args, opts)
			if result != nil {
				if renderErr := renderBatch(cmd, result, jsonOutput); renderErr != nil {
					return renderErr
				}
			}
			if err != nil {
				return fmt.Errorf("batch failed: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	cmd.Flags().IntVar(&parallel, "parallel", 4, "Number of modules validated concurrently")
	cmd.Flags().BoolVar(&failFast, "fail-fast", false, "Stop starting new chunks after the first failure")
	cmd.Flags().BoolVar(&progress, "progress", false, "Print progress to stderr")

	return cmd
}

func renderBatch(cmd *cobra.Command, result *domain.BatchResult, jsonOutput bool) error {
	if jsonOutput {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}
	fmt.Fprint(cmd.OutOrStdout(), tui.RenderBatch(result))
	return nil
}
