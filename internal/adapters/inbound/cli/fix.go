package cli

import (
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	configAdapter "github.com/modguard/modguard/internal/adapters/outbound/config"
	"github.com/modguard/modguard/internal/adapters/outbound/discovery"
	"github.com/modguard/modguard/internal/adapters/outbound/gitinfo"
	"github.com/modguard/modguard/internal/adapters/outbound/tui"
	"github.com/modguard/modguard/internal/application"
	"github.com/modguard/modguard/internal/domain"
	"github.com/modguard/modguard/internal/domain/rules"
)

func newFixCmd() *cobra.Command {
	var (
		jsonOutput bool
		dryRun     bool
		noBackup   bool
		backupDir  string
		maxFiles   int
		aggressive bool
		include    []string
	)

	cmd := &cobra.Command{
		Use:   "fix [path]",
		Short: "Auto-repair fixable compliance violations",
		Long:  "Validate the module, then apply mechanical remediations for auto-fixable violations. High-risk fixes require --aggressive; --dry-run prints the plan without touching disk.",
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

			catalog := rules.NewCatalog()
			valOpts := cfg.ValidationOptions()
			valOpts.Discovery.AnalyzeContent = true

			validator := application.NewValidateService(discovery.New(), catalog, gitinfo.New())
			report, err := validator.ValidateModule(absPath, valOpts)
			if err != nil {
				return fmt.Errorf("validation failed: %w", err)
			}

			opts := domain.FixOptions{
				DryRun:         dryRun,
				BackupFiles:    !noBackup,
				BackupDir:      backupDir,
				MaxFilesToFix:  maxFiles,
				AggressiveMode: aggressive,
				IncludeRules:   include,
			}
			if opts.BackupDir == "" {
				opts.BackupDir = cfg.Fix.BackupDir
			}
			if !cmd.Flags().Changed("max-files") {
				opts.MaxFilesToFix = cfg.Fix.MaxFiles
			}
			if !cmd.Flags().Changed("aggressive") {
				opts.AggressiveMode = cfg.Fix.Aggressive
			}

			fixSvc := application.NewFixService(catalog)
			summary, err := fixSvc.AutoFix(absPath, report.Results, opts)
			if err != nil {
				return fmt.Errorf("fix failed: %w", err)
			}

			if jsonOutput {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(summary)
			}
			fmt.Fprint(cmd.OutOrStdout(), tui.RenderFixSummary(summary))
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Show the fix plan without applying it")
	cmd.Flags().BoolVar(&noBackup, "no-backup", false, "Do not back up files before overwriting")
	cmd.Flags().StringVar(&backupDir, "backup-dir", "", "Directory for backups (default .modguard/backups)")
	cmd.Flags().IntVar(&maxFiles, "max-files", 0, "Ceiling on distinct files touched (0 = unlimited)")
	cmd.Flags().BoolVar(&aggressive, "aggressive", false, "Allow high-risk fixes")
	cmd.Flags().StringSliceVar(&include, "rules", nil, "Fix only these rule ids")

	return cmd
}
