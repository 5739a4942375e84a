package main

import (
	"github.com/teemow/todoist-mcp/cmd"
)

// version is overridden at build time via -ldflags
var version = "0.1.0"

func main() {
	cmd.SetVersion(version)
	cmd.Execute()
}
