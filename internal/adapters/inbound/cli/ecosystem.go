package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	configAdapter "github.com/modguard/modguard/internal/adapters/outbound/config"
	"github.com/modguard/modguard/internal/adapters/outbound/discovery"
	"github.com/modguard/modguard/internal/adapters/outbound/gitinfo"
	"github.com/modguard/modguard/internal/application"
	"github.com/modguard/modguard/internal/domain"
	"github.com/modguard/modguard/internal/domain/rules"
)

func newEcosystemCmd() *cobra.Command {
	var (
		jsonOutput bool
		parallel   int
		failFast   bool
		minScore   int
		ciMode     bool
	)

	cmd := &cobra.Command{
		Use:   "ecosystem [root]",
		Short: "Discover and validate every module under a root directory",
		Long:  "Recursively locate all manifest-bearing directories under root (excluding dependency caches) and validate them as one batch.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root := "."
			if len(args) > 0 {
				root = args[0]
			}
			absRoot, err := filepath.Abs(root)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}

			cfg, err := configAdapter.New().Load(absRoot)
			if err != nil {
				return err
			}

			if !cmd.Flags().Changed("parallel") {
				parallel = cfg.MaxParallel
			}
			if !cmd.Flags().Changed("fail-fast") {
				failFast = cfg.FailFast
			}

			valOpts := cfg.ValidationOptions()
			valOpts.Discovery.AnalyzeContent = true

			opts := domain.BatchOptions{
				MaxParallel:     parallel,
				ContinueOnError: !failFast,
				Validation:      valOpts,
			}

			validator := application.NewValidateService(discovery.New(), rules.NewCatalog(), gitinfo.New())
			svc := application.NewBatchService(validator, discovery.New())

			result, err := svc.ValidateEcosystem(cmd.Context(), absRoot, opts)
			if err != nil {
				return fmt.Errorf("ecosystem validation failed: %w", err)
			}
			if err := renderBatch(cmd, result, jsonOutput); err != nil {
				return err
			}

			if ciMode {
				for _, s := range result.Successes {
					if s.Report.OverallScore < minScore {
						return fmt.Errorf("module %s scored %d, below minimum %d",
							s.Report.ModuleName, s.Report.OverallScore, minScore)
					}
				}
				if len(result.Failures) > 0 {
					return fmt.Errorf("%d module(s) failed to validate", len(result.Failures))
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	cmd.Flags().IntVar(&parallel, "parallel", 4, "Number of modules validated concurrently")
	cmd.Flags().BoolVar(&failFast, "fail-fast", false, "Stop starting new chunks after the first failure")
	cmd.Flags().BoolVar(&ciMode, "ci", false, "CI mode: exit 1 on any failure or score below --min")
	cmd.Flags().IntVar(&minScore, "min", 0, "Minimum per-module score for CI mode")

	return cmd
}
