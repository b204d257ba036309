package main

import (
	"fmt"
	"os"

	"github.com/erraggy/docproj"
	"github.com/erraggy/docproj/cmd/docproj/commands"
)

// commandNames lists the top-level commands, used for typo suggestions.
var commandNames = []string{"apply", "explain", "mcp", "version", "help"}

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]

	var err error
	switch command {
	case "version", "-v", "--version":
		fmt.Printf("docproj v%s\n\n%s", docproj.Version(), docproj.BuildInfo())
		return
	case "help", "-h", "--help":
		printUsage()
		return
	case "apply":
		err = commands.HandleApply(os.Args[2:])
	case "explain":
		err = commands.HandleExplain(os.Args[2:])
	case "mcp":
		err = commands.HandleMCP(os.Args[2:])
	default:
		commands.Writef(os.Stderr, "Unknown command: %s\n", command)
		if suggestion := suggestCommand(command); suggestion != "" {
			commands.Writef(os.Stderr, "Did you mean '%s'?\n", suggestion)
		}
		commands.Writef(os.Stderr, "\n")
		printUsage()
		os.Exit(1)
	}

	if err != nil {
		commands.Writef(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	commands.Writef(os.Stderr, `docproj - project and reshape YAML and JSON documents

Usage:
  docproj <command> [options]

Commands:
  apply       Project documents through a projection specification
  explain     Show what a projection specification reads and writes
  mcp         Start an MCP server over stdio
  version     Show version information
  help        Show this help message

Run 'docproj <command> --help' for more information on a command.
`)
}

// suggestCommand returns the closest known command within edit distance 2,
// or "" when nothing is close enough.
func suggestCommand(input string) string {
	best, bestDist := "", 3
	for _, name := range commandNames {
		if d := editDistance(input, name); d < bestDist {
			best, bestDist = name, d
		}
	}
	return best
}

// editDistance is the Levenshtein distance between a and b.
func editDistance(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(ra); i++ {
		curr[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			curr[j] = min(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(rb)]
}
