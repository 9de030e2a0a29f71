package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"

	mcplib "github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/modguard/modguard/internal/adapters/outbound/discovery"
	"github.com/modguard/modguard/internal/adapters/outbound/gitinfo"
	"github.com/modguard/modguard/internal/application"
	"github.com/modguard/modguard/internal/domain"
	"github.com/modguard/modguard/internal/domain/rules"
)

// registerTools registers all modguard MCP tools on the given server.
func registerTools(s *server.MCPServer, rootPath string) {
	// 1. modguard_validate
	s.AddTool(
		mcplib.NewTool("modguard_validate",
			mcplib.WithDescription("Validate one module against the compliance rule catalog and return the scored report as JSON"),
			mcplib.WithString("path", mcplib.Description("Module path relative to the root (defaults to the root itself)")),
		),
		handleValidate(rootPath),
	)

	// 2. modguard_validate_ecosystem
	s.AddTool(
		mcplib.NewTool("modguard_validate_ecosystem",
			mcplib.WithDescription("Discover and validate every manifest-bearing module under the root and return the batch result"),
			mcplib.WithNumber("parallel", mcplib.Description("Number of modules validated concurrently (default 4)")),
		),
		handleValidateEcosystem(rootPath),
	)

	// 3. modguard_autofix
	s.AddTool(
		mcplib.NewTool("modguard_autofix",
			mcplib.WithDescription("Apply mechanical remediations for auto-fixable violations in one module and return the fix summary"),
			mcplib.WithString("path", mcplib.Description("Module path relative to the root (defaults to the root itself)")),
			mcplib.WithBoolean("dry_run", mcplib.Description("Plan the fixes without touching the filesystem")),
			mcplib.WithBoolean("aggressive", mcplib.Description("Allow high-risk fixes")),
		),
		handleAutoFix(rootPath),
	)

	// 4. modguard_rules
	s.AddTool(
		mcplib.NewTool("modguard_rules",
			mcplib.WithDescription("List the compliance rule catalog"),
		),
		handleRules(),
	)
}

func newValidator() *application.ValidateService {
	return application.NewValidateService(discovery.New(), rules.NewCatalog(), gitinfo.New())
}

func resolvePath(rootPath string, request mcplib.CallToolRequest) string {
	rel, _ := request.GetArguments()["path"].(string)
	if rel == "" {
		return rootPath
	}
	return filepath.Join(rootPath, rel)
}

func handleValidate(rootPath string) server.ToolHandlerFunc {
	return func(_ context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
		report, err := newValidator().ValidateModule(resolvePath(rootPath, request), domain.ValidationOptions{
			Discovery: domain.DiscoveryOptions{AnalyzeContent: true},
		})
		if err != nil {
			return errorResult(fmt.Sprintf("validation failed: %v", err)), nil
		}
		return jsonResult(report)
	}
}

func handleValidateEcosystem(rootPath string) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
		parallel := 4
		if v, ok := request.GetArguments()["parallel"].(float64); ok && v >= 1 {
			parallel = int(v)
		}
		svc := application.NewBatchService(newValidator(), discovery.New())
		result, err := svc.ValidateEcosystem(ctx, rootPath, domain.BatchOptions{
			MaxParallel:     parallel,
			ContinueOnError: true,
			Validation: domain.ValidationOptions{
				Discovery: domain.DiscoveryOptions{AnalyzeContent: true},
			},
		})
		if err != nil {
			return errorResult(fmt.Sprintf("ecosystem validation failed: %v", err)), nil
		}
		return jsonResult(result)
	}
}

func handleAutoFix(rootPath string) server.ToolHandlerFunc {
	return func(_ context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
		modulePath := resolvePath(rootPath, request)
		catalog := rules.NewCatalog()

		validator := application.NewValidateService(discovery.New(), catalog, gitinfo.New())
		report, err := validator.ValidateModule(modulePath, domain.ValidationOptions{
			Discovery: domain.DiscoveryOptions{AnalyzeContent: true},
		})
		if err != nil {
			return errorResult(fmt.Sprintf("validation failed: %v", err)), nil
		}

		dryRun, _ := request.GetArguments()["dry_run"].(bool)
		aggressive, _ := request.GetArguments()["aggressive"].(bool)
		summary, err := application.NewFixService(catalog).AutoFix(modulePath, report.Results, domain.FixOptions{
			DryRun:         dryRun,
			BackupFiles:    true,
			AggressiveMode: aggressive,
		})
		if err != nil {
			return errorResult(fmt.Sprintf("fix failed: %v", err)), nil
		}
		return jsonResult(summary)
	}
}

func handleRules() server.ToolHandlerFunc {
	return func(_ context.Context, _ mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
		return jsonResult(rules.NewCatalog().Rules())
	}
}

// jsonResult marshals v to JSON and returns it as a text content result.
func jsonResult(v interface{}) (*mcplib.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling result: %w", err)
	}
	return &mcplib.CallToolResult{
		Content: []mcplib.Content{mcplib.NewTextContent(string(data))},
	}, nil
}

// errorResult returns a tool result that indicates an error occurred.
func errorResult(msg string) *mcplib.CallToolResult {
	return &mcplib.CallToolResult{
		Content: []mcplib.Content{mcplib.NewTextContent(msg)},
		IsError: true,
	}
}
