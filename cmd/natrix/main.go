// Command natrix is the CLI front end for the language: it drives the
// lex -> parse -> analyze -> fold -> {interpret | compile+run} pipeline
// and exposes it as three verbs, matching the teacher's cmd_run.go/
// cmd_repl.go/cmd_emit_bytecode.go split over github.com/google/
// subcommands rather than collapsing everything into one bare main().
package main

import (
	"context"
	"flag"
	"os"

	"github.com/google/subcommands"
)

func main() {
	subcommands.Register(subcommands.HelpCommand(), "")
	subcommands.Register(subcommands.FlagsCommand(), "")
	subcommands.Register(subcommands.CommandsCommand(), "")
	subcommands.Register(&runCmd{}, "")
	subcommands.Register(&replCmd{}, "")
	subcommands.Register(&emitCmd{}, "")

	flag.Parse()
	ctx := context.Background()
	os.Exit(int(subcommands.Execute(ctx)))
}

// splitArgs splits a subcommand's remaining positional arguments on the
// first literal "--", spec §6's separator between source files and the
// tokens passed to the program's main(args). flag.FlagSet.Parse stops
// consuming at the first non-flag token, so a "--" that follows a source
// file survives in f.Args() for us to find here; a "--" that comes
// before any file is consumed by Parse itself.
func splitArgs(rest []string) (files, programArgs []string) {
	for i, a := range rest {
		if a == "--" {
			return rest[:i], rest[i+1:]
		}
	}
	return rest, nil
}
