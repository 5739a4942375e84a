package cmd

import (
	"context"
	"fmt"
	"os"
	"slices"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/teemow/todoist-mcp/internal/server"
	"github.com/teemow/todoist-mcp/internal/todoist"
	"github.com/teemow/todoist-mcp/internal/tools/dispatch"
)

func newGenerateDocsCmd() *cobra.Command {
	var (
		outputFile string
	)

	cmd := &cobra.Command{
		Use:   "generate-docs",
		Short: "Generate MCP tool documentation",
		Long: `Generate markdown documentation for all available MCP tools.
This command introspects the registered tools and outputs their documentation
in markdown format, ensuring the documentation is always accurate and in sync
with the actual tool implementations.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerateDocs(outputFile)
		},
	}

	cmd.Flags().StringVarP(&outputFile, "output", "o", "", "Output file (default: stdout)")

	return cmd
}

func runGenerateDocs(outputFile string) error {
	// Create a temporary server context (we don't need real credentials for doc generation)
	client, err := todoist.NewClient("dummy-token")
	if err != nil {
		return fmt.Errorf("failed to create todoist client: %w", err)
	}
	ctx := context.Background()
	serverContext, err := server.NewServerContext(ctx, client)
	if err != nil {
		return fmt.Errorf("failed to create server context: %w", err)
	}
	defer func() {
		_ = serverContext.Shutdown()
	}()

	// Register all tools, including write operations
	dispatcher := dispatch.New(nil)
	if err := registerAllTools(dispatcher, serverContext); err != nil {
		return err
	}

	markdown := generateToolsMarkdown(dispatcher.Operations())

	// Write to output
	if outputFile != "" {
		if err := os.WriteFile(outputFile, []byte(markdown), 0644); err != nil {
			return fmt.Errorf("failed to write output file: %w", err)
		}
		fmt.Fprintf(os.Stderr, "Documentation written to: %s\n", outputFile)
	} else {
		fmt.Print(markdown)
	}

	return nil
}

// categoryOrder lists the documentation sections in the order agents
// typically use them.
var categoryOrder = []string{"projects", "sections", "tasks", "labels"}

func generateToolsMarkdown(ops []dispatch.Operation) string {
	var sb strings.Builder

	// Header
	sb.WriteString("# MCP Tools Reference\n\n")
	sb.WriteString("This document provides a complete reference of all tools available when running todoist-mcp as an MCP server.\n\n")
	sb.WriteString("**Note:** This documentation is automatically generated from the tool definitions.\n\n")

	toolsByCategory := groupToolsByCategory(ops)

	categories := make([]string, 0, len(toolsByCategory))
	for _, category := range categoryOrder {
		if _, ok := toolsByCategory[category]; ok {
			categories = append(categories, category)
		}
	}
	var others []string
	for category := range toolsByCategory {
		if !slices.Contains(categoryOrder, category) {
			others = append(others, category)
		}
	}
	sort.Strings(others)
	categories = append(categories, others...)

	// Table of contents
	sb.WriteString("## Table of Contents\n\n")
	for _, category := range categories {
		title := categoryTitle(category)
		anchor := strings.ToLower(strings.ReplaceAll(title, " ", "-"))
		sb.WriteString(fmt.Sprintf("- [%s](#%s)\n", title, anchor))
	}
	sb.WriteString("\n")

	// Batch operations note
	sb.WriteString("## Batch Operations\n\n")
	sb.WriteString("The task tools accept either a single task or a `tasks` array:\n\n")
	sb.WriteString("- **Single mode:** the response describes the one task\n")
	sb.WriteString("- **Batch mode:** the response has `success`, a `summary` with `total`/`succeeded`/`failed` and per-item `results` in input order\n")
	sb.WriteString("- **Addressing:** `task_id` is used when given, otherwise `task_name` is matched as a case-insensitive substring\n\n")

	// Generate documentation for each category
	for _, category := range categories {
		categoryTools := toolsByCategory[category]
		sort.Slice(categoryTools, func(i, j int) bool {
			return categoryTools[i].Name < categoryTools[j].Name
		})

		sb.WriteString(fmt.Sprintf("## %s\n\n", categoryTitle(category)))

		for _, tool := range categoryTools {
			sb.WriteString(generateToolMarkdown(tool))
			sb.WriteString("\n")
		}
	}

	return sb.String()
}

func groupToolsByCategory(ops []dispatch.Operation) map[string][]mcp.Tool {
	categories := make(map[string][]mcp.Tool)

	for _, op := range ops {
		category := op.Category
		if category == "" {
			category = "other"
		}
		categories[category] = append(categories[category], op.Tool)
	}

	return categories
}

func categoryTitle(category string) string {
	switch category {
	case "projects":
		return "Projects"
	case "sections":
		return "Sections"
	case "tasks":
		return "Tasks"
	case "labels":
		return "Labels"
	default:
		return "Other"
	}
}

func generateToolMarkdown(tool mcp.Tool) string {
	var sb strings.Builder

	// Tool name
	sb.WriteString(fmt.Sprintf("### %s\n\n", tool.Name))

	// Description
	if tool.Description != "" {
		sb.WriteString(fmt.Sprintf("%s\n\n", tool.Description))
	}

	// Input schema
	if len(tool.InputSchema.Properties) > 0 {
		sb.WriteString("**Arguments:**\n")

		// Sort properties for consistent output
		propNames := make([]string, 0, len(tool.InputSchema.Properties))
		for name := range tool.InputSchema.Properties {
			propNames = append(propNames, name)
		}
		sort.Strings(propNames)

		for _, name := range propNames {
			prop := tool.InputSchema.Properties[name]
			isRequired := slices.Contains(tool.InputSchema.Required, name)

			requiredStr := "optional"
			if isRequired {
				requiredStr = "required"
			}

			// Get property type and description from the property map
			propMap, ok := prop.(map[string]any)
			if !ok {
				continue
			}

			propType := getPropertyType(propMap)

			sb.WriteString(fmt.Sprintf("- `%s` (%s, %s): ", name, propType, requiredStr))

			// Get description
			if desc, ok := propMap["description"].(string); ok {
				sb.WriteString(desc)
			} else {
				sb.WriteString(fmt.Sprintf("%s parameter", propType))
			}

			if enum := enumValues(propMap["enum"]); len(enum) > 0 {
				sb.WriteString(fmt.Sprintf(" One of: `%s`.", strings.Join(enum, "`, `")))
			}

			sb.WriteString("\n")
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

// enumValues renders string and integer enums alike.
func enumValues(v any) []string {
	switch enum := v.(type) {
	case []string:
		return enum
	case []int:
		out := make([]string, len(enum))
		for i, n := range enum {
			out[i] = strconv.Itoa(n)
		}
		return out
	}
	return nil
}

func getPropertyType(prop map[string]any) string {
	if t, ok := prop["type"].(string); ok {
		return t
	}
	return "any"
}
