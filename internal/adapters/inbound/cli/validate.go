package cli

import (
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	configAdapter "github.com/modguard/modguard/internal/adapters/outbound/config"
	"github.com/modguard/modguard/internal/adapters/outbound/discovery"
	"github.com/modguard/modguard/internal/adapters/outbound/gitinfo"
	historyAdapter "github.com/modguard/modguard/internal/adapters/outbound/history"
	"github.com/modguard/modguard/internal/adapters/outbound/tui"
	"github.com/modguard/modguard/internal/application"
	"github.com/modguard/modguard/internal/domain"
	"github.com/modguard/modguard/internal/domain/rules"
)

func newValidateCmd() *cobra.Command {
	var (
		jsonOutput bool
		ciMode     bool
		minScore   int
		include    []string
		exclude    []string
		noHistory  bool
	)

	cmd := &cobra.Command{
		Use:   "validate [path]",
		Short: "Validate a single module against the compliance rule catalog",
		Long:  "Discover the module rooted at path, evaluate every applicable compliance rule, and print a scored report.",
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

			cfg, err := configAdapter.New().Load(absPath)
			if err != nil {
				return err
			}

			opts := cfg.ValidationOptions()
			opts.Discovery.AnalyzeContent = true
			if len(include) > 0 {
				opts.IncludeRules = include
			}
			if len(exclude) > 0 {
				opts.ExcludeRules = append(opts.ExcludeRules, exclude...)
			}

			svc := application.NewValidateService(discovery.New(), rules.NewCatalog(), gitinfo.New())
			report, err := svc.ValidateModule(absPath, opts)
			if err != nil {
				return fmt.Errorf("validation failed: %w", err)
			}

			if !noHistory {
				// History is best-effort; a read-only checkout must not fail
				// the validation run.
				_ = historyAdapter.New().Save(absPath, domain.HistoryEntry{
					ReportID:   report.ReportID,
					ModulePath: report.ModulePath,
					ModuleName: report.ModuleName,
					Timestamp:  report.Timestamp,
					Score:      report.OverallScore,
					Status:     report.Status,
					CommitHash: report.CommitHash,
				})
			}

			if jsonOutput {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				if err := enc.Encode(report); err != nil {
					return err
				}
			} else {
				fmt.Fprint(cmd.OutOrStdout(), tui.RenderReport(report))
			}

			if ciMode && report.OverallScore < minScore {
				return fmt.Errorf("score %d below minimum %d", report.OverallScore, minScore)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	cmd.Flags().BoolVar(&ciMode, "ci", false, "CI mode: exit 1 if the score is below --min")
	cmd.Flags().IntVar(&minScore, "min", 0, "Minimum score for CI mode")
	cmd.Flags().StringSliceVar(&include, "rules", nil, "Restrict evaluation to these rule ids")
	cmd.Flags().StringSliceVar(&exclude, "exclude-rules", nil, "Exclude these rule ids")
	cmd.Flags().BoolVar(&noHistory, "no-history", false, "Do not record the run in .modguard/history")

	return cmd
}
