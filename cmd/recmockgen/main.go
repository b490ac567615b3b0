// recmockgen generates record/replay mocks from struct stubs kept in files
// with the mockstub build tag.
package main

import (
	"context"
	"flag"
	"io"
	"log"
	"os"
	"path/filepath"

	"github.com/google/subcommands"

	"github.com/Versent/go-recmock/internal/cmd/recmockgen"
)

func main() {
	os.Exit(int(run(context.Background(), filepath.Base(os.Args[0]), os.Args[1:], os.Stdout, os.Stderr)))
}

func run(ctx context.Context, name string, args []string, stdout, stderr io.Writer) subcommands.ExitStatus {
	l := log.New(stderr, name+": ", 0)

	top := flag.NewFlagSet(name, flag.ContinueOnError)
	top.SetOutput(stderr)
	cdr := subcommands.NewCommander(top, name)
	cdr.Output = stdout
	cdr.Error = stderr
	cdr.Register(cdr.CommandsCommand(), "")
	cdr.Register(cdr.FlagsCommand(), "")
	cdr.Register(cdr.HelpCommand(), "")
	cdr.Register(recmockgen.NewGenCmd(l, flag.NewFlagSet("gen", flag.ContinueOnError)), "")

	allCmds := map[string]bool{}
	cdr.VisitCommands(func(_ *subcommands.CommandGroup, cmd subcommands.Command) { allCmds[cmd.Name()] = true })
	// Default to running the "gen" command.
	if len(args) == 0 || !allCmds[args[0]] {
		f := flag.NewFlagSet("gen", flag.ContinueOnError)
		f.SetOutput(stderr)
		genCmd := recmockgen.NewGenCmd(l, f)
		f.Usage = func() {
			cdr.ExplainCommand(stderr, genCmd)
		}
		if f.Parse(args) != nil {
			return subcommands.ExitUsageError
		}
		return genCmd.Execute(ctx, f)
	}
	if top.Parse(args) != nil {
		return subcommands.ExitUsageError
	}
	return cdr.Execute(ctx)
}
