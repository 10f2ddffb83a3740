package mcp

import (
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/mark3labs/mcp-go/server"

	skinlog "github.com/unowned-ai/skinlog/pkg"
	pkgdb "github.com/unowned-ai/skinlog/pkg/db"
	"github.com/unowned-ai/skinlog/pkg/utils"
)

type SkinlogMCPServer struct {
	mcpServer *server.MCPServer
	db        *sql.DB
	DbPath    string
}

// NewSkinlogMCPServer spins up an MCP server backed by the SQLite database at
// dbPath, creating or upgrading the schema as needed.
func NewSkinlogMCPServer(dbPath string, enableWAL bool, syncPragma string) (*SkinlogMCPServer, error) {
	dbPath, err := utils.ResolveAndEnsureDBPath(dbPath)
	if err != nil {
		return nil, err
	}

	dbConn, err := pkgdb.OpenDBConnection(dbPath, enableWAL, syncPragma)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	if err := pkgdb.UpgradeDB(dbConn, dbPath, pkgdb.TargetSchemaVersion); err != nil {
		dbConn.Close()
		return nil, fmt.Errorf("failed to initialize/upgrade database schema for '%s': %w", dbPath, err)
	}

	return &SkinlogMCPServer{
		mcpServer: NewRawServer(),
		db:        dbConn,
		DbPath:    dbPath,
	}, nil
}

// NewRawServer creates the bare mcp-go server with skinlog's capabilities.
func NewRawServer() *server.MCPServer {
	return server.NewMCPServer(
		"Skinlog MCP Server",
		skinlog.Version,
		server.WithResourceCapabilities(true, true),
		server.WithLogging(),
		server.WithRecovery(),
	)
}

// Start runs the stdio event loop. Make sure to register tools beforehand.
func (s *SkinlogMCPServer) Start() error {
	return server.ServeStdio(s.mcpServer)
}

// DB returns the underlying *sql.DB.
func (s *SkinlogMCPServer) DB() *sql.DB {
	return s.db
}

// MCPRawServer exposes the raw mcp-go server.
func (s *SkinlogMCPServer) MCPRawServer() *server.MCPServer {
	return s.mcpServer
}

// Close checkpoints the WAL and closes the database.
func (s *SkinlogMCPServer) Close() error {
	if s.db == nil {
		return nil
	}
	// TRUNCATE mode waits for transactions and writes the WAL back to the main DB.
	if _, err := s.db.Exec("PRAGMA wal_checkpoint(TRUNCATE);"); err != nil {
		slog.Warn("WAL checkpoint failed during close", "error", err)
	}
	return s.db.Close()
}
