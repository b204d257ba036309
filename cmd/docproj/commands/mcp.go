package commands

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/erraggy/docproj/internal/mcpserver"
)

// HandleMCP starts the MCP server over stdio.
func HandleMCP(args []string) error {
	if len(args) > 0 && (args[0] == "--help" || args[0] == "-h" || args[0] == "help") {
		Writef(os.Stderr, "Usage: docproj mcp\n\n")
		Writef(os.Stderr, "Start an MCP (Model Context Protocol) server over stdio.\n\n")
		Writef(os.Stderr, "Tools: project_apply, project_explain\n\n")
		Writef(os.Stderr, "Configuration is read from DOCPROJ_* environment variables.\n")
		return nil
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return mcpserver.Run(ctx)
}
