package recmockgen_test

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"log"
	"strings"
	"testing"

	"github.com/google/subcommands"
	"rsc.io/script"
	"rsc.io/script/scripttest"

	"github.com/Versent/go-recmock/internal/cmd/recmockgen"
	"github.com/Versent/go-recmock/internal/gen"
)

func TestSetFlags(t *testing.T) {
	f := flag.NewFlagSet("recmockgen", flag.ContinueOnError)
	recmockgen.NewGenCmd(nil, f)
	expected := []string{"header", "prefix", "tags"}
	f.VisitAll(func(f *flag.Flag) {
		if len(expected) == 0 {
			t.Errorf("unexpected flag %q", f.Name)
			return
		}

		var got, want string
		got, want, expected = f.Name, expected[0], expected[1:]
		if got != want {
			t.Errorf("unexpected name, got %q, want %q", got, want)
		}
	})
	if len(expected) > 0 {
		t.Errorf("missing flags %q", expected)
	}
}

func TestExecute_badArgument(t *testing.T) {
	var buf bytes.Buffer
	l := log.New(&buf, "", 0)
	f := flag.NewFlagSet("recmockgen", flag.ContinueOnError)
	cmd := recmockgen.NewGenCmd(l, f)
	if status := cmd.Execute(context.Background(), f, "not an option"); status != subcommands.ExitFailure {
		t.Errorf("unexpected status, got %v, want %v", status, subcommands.ExitFailure)
	}
	if got := buf.String(); !strings.Contains(got, "unexpected argument of type string") {
		t.Errorf("unexpected log output: %q", got)
	}
}

func TestGenerate(t *testing.T) {
	engine := script.NewEngine()
	engine.Cmds["recmockgen"] = &genCmd{}
	scripttest.Test(
		t,
		context.Background(),
		engine,
		nil,
		"testdata/*.txt",
	)
}

type genCmd struct{}

func (*genCmd) Run(s *script.State, args ...string) (script.WaitFunc, error) {
	stderr := &bytes.Buffer{}
	f := flag.NewFlagSet("gen", flag.ContinueOnError)
	f.SetOutput(stderr)
	l := log.New(stderr, "recmockgen: ", 0)
	cmd := recmockgen.NewGenCmd(l, f)
	if err := f.Parse(args); err != nil {
		return nil, err
	}
	status := cmd.Execute(s.Context(), f, gen.WithDir(s.Getwd()))
	return func(*script.State) (_, _ string, err error) {
		if status != subcommands.ExitSuccess {
			err = fmt.Errorf("exit status %d", status)
		}
		return "", stderr.String(), err
	}, nil
}

func (*genCmd) Usage() *script.CmdUsage {
	cmd := &recmockgen.GenCmd{}
	usage := strings.Split(cmd.Usage(), "\n")
	args, detail := usage[0], usage[1:]
	for len(detail) > 0 && detail[0] == "" {
		detail = detail[1:]
	}
	return &script.CmdUsage{
		Summary: cmd.Synopsis(),
		Args:    args,
		Detail:  detail,
	}
}
