package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command for the todoist-mcp application
var rootCmd = &cobra.Command{
	Use:   "todoist-mcp",
	Short: "MCP server exposing Todoist projects, tasks and labels",
	Long: `todoist-mcp lets AI assistants manage a Todoist account through the
Model Context Protocol.

It can run as:
  - An MCP server over stdio (default)
  - An MCP server over streamable HTTP`,
	SilenceUsage: true,
}

// version will be set by main
var version = "dev"

// SetVersion sets the version for the root command
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}

// Execute is the main entry point for the CLI application
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "todoist-mcp version %s\n" .Version}}`)

	// If no subcommand is provided, run the serve command by default
	if len(os.Args) == 1 {
		os.Args = append(os.Args, "serve")
	}

	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newGenerateDocsCmd())
	rootCmd.AddCommand(newAuthCmd())
}
