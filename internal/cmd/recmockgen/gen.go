package recmockgen

import (
	"context"
	"flag"
	"log"
	"os"

	"github.com/google/subcommands"

	"github.com/Versent/go-recmock/internal/gen"
)

// packages returns the slice of packages to run recmockgen over based on f.
// It defaults to ".".
func packages(f *flag.FlagSet) []string {
	pkgs := f.Args()
	if len(pkgs) == 0 {
		pkgs = []string{"."}
	}
	return pkgs
}

type GenCmd struct {
	log            *log.Logger
	headerFile     string
	prefixFileName string
	tags           string
}

func NewGenCmd(l *log.Logger, f *flag.FlagSet) *GenCmd {
	cmd := &GenCmd{log: l}
	cmd.SetFlags(f)
	return cmd
}

func (*GenCmd) Name() string { return "gen" }
func (*GenCmd) Synopsis() string {
	return "generate the recmock_gen.go file for each package"
}
func (*GenCmd) Usage() string {
	return `gen [-header file] [-prefix name] [-tags buildtags] [package ...]

  Given one or more packages, gen creates recmock_gen.go files for each.
  Struct types in files with the mockstub build tag become mocks.

  If no package is listed, it defaults to ".".

`
}
func (cmd *GenCmd) SetFlags(f *flag.FlagSet) {
	if cmd.log == nil {
		cmd.log = log.Default()
	}
	f.StringVar(&cmd.headerFile, "header", "", "path to file to insert as a header in recmock_gen.go")
	f.StringVar(&cmd.prefixFileName, "prefix", "", "prefix for the generated file name")
	f.StringVar(&cmd.tags, "tags", "", "append build tags to the default mockstub")
}

func (cmd *GenCmd) Execute(ctx context.Context, f *flag.FlagSet, args ...any) subcommands.ExitStatus {
	var opts gen.GenerateOptions
	err := gen.WithArgs(
		gen.WithEnv(os.Environ()),
		gen.WithHeaderFile(cmd.headerFile),
		gen.WithArgs(args...),
		gen.WithWDFallback(),
		gen.WithPrefixFileName(cmd.prefixFileName),
		gen.WithTags(cmd.tags),
	)(&opts)
	if err != nil {
		cmd.log.Println(err)
		return subcommands.ExitFailure
	}

	outs, errs := gen.Generate(ctx, packages(f), opts)
	if len(errs) > 0 {
		logErrors(cmd.log, errs...)
		cmd.log.Println("loading mock stubs failed")
		return subcommands.ExitFailure
	}
	success, wrote := true, 0
	for _, out := range outs {
		if len(out.Errs) > 0 {
			logErrors(cmd.log, out.Errs...)
			cmd.log.Printf("%s: generate failed\n", out.PkgPath)
			success = false
		}
		if len(out.Content) == 0 {
			// No mockstub files, or errors.
			continue
		}
		if err := out.Commit(); err != nil {
			cmd.log.Printf("%s: failed to write %s: %v\n", out.PkgPath, out.OutputPath, err)
			success = false
			continue
		}
		cmd.log.Printf("%s: wrote %s\n", out.PkgPath, out.OutputPath)
		wrote++
	}
	if success && wrote == 0 {
		cmd.log.Println("no mockstub files found")
	}
	if !success {
		cmd.log.Println("at least one generate failure")
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
