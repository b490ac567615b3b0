package gen

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/tools/go/packages"
)

// load typechecks the packages matching patterns as the mockstub build
// sees them, so stub files are included and generated mocks are not.
// wd and env configure the go tool; an empty env uses the current
// environment.
func load(ctx context.Context, wd string, env []string, buildflags []string, patterns []string) ([]*packages.Package, []error) {
	cfg := &packages.Config{
		Context:    ctx,
		Mode:       packages.NeedName | packages.NeedFiles | packages.NeedImports | packages.NeedTypes | packages.NeedTypesSizes | packages.NeedSyntax | packages.NeedTypesInfo,
		Dir:        wd,
		Env:        env,
		BuildFlags: buildflags,
	}
	escaped := make([]string, len(patterns))
	for i := range patterns {
		escaped[i] = "pattern=" + patterns[i]
	}
	pkgs, err := packages.Load(cfg, escaped...)
	if err != nil {
		return nil, []error{fmt.Errorf("failed to load mock stubs: %w", err)}
	}
	if len(pkgs) == 0 {
		return nil, []error{fmt.Errorf("no packages match %s", strings.Join(patterns, " "))}
	}
	var errs []error
	for _, p := range pkgs {
		for _, e := range p.Errors {
			errs = append(errs, fmt.Errorf("%s: %w", p.PkgPath, e))
		}
	}
	if len(errs) > 0 {
		return nil, errs
	}
	return pkgs, nil
}
