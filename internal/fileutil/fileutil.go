// Package fileutil holds file permission modes shared by the CLI and the MCP server.
package fileutil

import "os"

// OwnerReadWrite is the file permission mode for projected output files,
// which may carry data copied from private input documents.
const OwnerReadWrite os.FileMode = 0o600
