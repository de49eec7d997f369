package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/erraggy/edmoas"
	"github.com/erraggy/edmoas/cmd/edmoas/commands"
	"github.com/erraggy/edmoas/internal/cliutil"
	"github.com/erraggy/edmoas/internal/mcpserver"
	"github.com/erraggy/edmoas/oaserrors"
)

// commandNames lists the subcommands, in the order shown by the usage text.
var commandNames = []string{"convert", "validate", "mcp", "version", "help"}

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	if len(args) < 1 {
		printUsage()
		return 1
	}

	var err error
	switch command := args[0]; command {
	case "version", "-v", "--version":
		cliutil.Writef(os.Stdout, "%s\n%s\n", edmoas.UserAgent(), edmoas.BuildInfo())
	case "help", "-h", "--help":
		printUsage()
	case "convert":
		err = commands.HandleConvert(args[1:])
	case "validate":
		err = commands.HandleValidate(args[1:])
	case "mcp":
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		err = mcpserver.Run(ctx)
		stop()
	default:
		cliutil.Writef(os.Stderr, "Unknown command: %s\n", command)
		if s := suggestCommand(command); s != "" {
			cliutil.Writef(os.Stderr, "Did you mean: %s?\n", s)
		}
		cliutil.Writef(os.Stderr, "\n")
		printUsage()
		return 1
	}

	if err != nil {
		if !errors.Is(err, oaserrors.ErrValidation) {
			cliutil.Writef(os.Stderr, "Error: %v\n", err)
		}
		return 1
	}
	return 0
}

func printUsage() {
	cliutil.Writef(os.Stderr, `edmoas - OData CSDL to OpenAPI converter

Usage:
  edmoas <command> [flags] <file|->

Commands:
  convert   Convert a CSDL model (JSON or YAML) to an OpenAPI 3.0/3.1 document
  validate  Validate a CSDL model
  mcp       Run the MCP server over stdio
  version   Show version information
  help      Show this help message

Run 'edmoas <command> --help' for command flags.

Examples:
  edmoas convert trippin.json -o openapi.json
  edmoas convert --openapi-version 3.1.1 --format yaml trippin.json
  edmoas validate --format json trippin.json
  cat trippin.json | edmoas convert -q -
`)
}

// suggestCommand returns the command closest to input within an edit
// distance of 2, or "" if none is close enough.
func suggestCommand(input string) string {
	best, bestDist := "", 3
	for _, name := range commandNames {
		if d := levenshtein(input, name); d < bestDist {
			best, bestDist = name, d
		}
	}
	return best
}

func levenshtein(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	prev := make([]int, len(rb)+1)
	cur := make([]int, len(rb)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(ra); i++ {
		cur[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			cur[j] = min(prev[j]+1, cur[j-1]+1, prev[j-1]+cost)
		}
		prev, cur = cur, prev
	}
	return prev[len(rb)]
}
