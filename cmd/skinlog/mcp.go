package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/unowned-ai/skinlog/pkg/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Run the Skinlog MCP server (stdio)",
	Long: `Start a Model Context Protocol (MCP) server that exposes skin journals,
ingredient analysis, recommendations and saved products as MCP tools via STDIO.

The --db flag is optional. If not provided, a system-specific default location will be used:
- Windows: %USERPROFILE%\AppData\Roaming\skinlog\skinlog.db
- macOS: ~/Library/Application Support/skinlog/skinlog.db
- Linux: ~/.local/share/skinlog/skinlog.db

Example:
  skinlog mcp
  skinlog mcp --db skinlog.db --config skinlog.yaml`,
	RunE: func(cmd *cobra.Command, args []string) error {
		dict, err := openDictionary()
		if err != nil {
			return err
		}

		srv, err := mcp.NewSkinlogMCPServer(dbPath, walMode, syncMode)
		if err != nil {
			return err
		}
		defer srv.Close()

		conf := currentConfig()
		mcp.RegisterAllTools(srv.MCPRawServer(), &mcp.Toolbox{
			DB:         srv.DB(),
			Dictionary: dict,
			Conditions: conf.ConditionMapper(),
			Trend:      conf.TrendComparator(),
		})

		// Log to stderr so we don't contaminate the JSON-RPC stream on stdout.
		slog.Info("skinlog MCP server started", "db", srv.DbPath, "wal", walMode, "sync", syncMode, "ingredients", dict.Len())
		fmt.Fprintf(os.Stderr, "Available tools: %s\n", strings.Join(mcp.ToolNames, ", "))
		fmt.Fprintln(os.Stderr, "Listening for MCP JSON-RPC on STDIN/STDOUT ... (Ctrl+C to quit)")

		return srv.Start()
	},
}
