package gen

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"go/ast"
	"go/format"
	"go/token"
	"go/types"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/tools/go/packages"
	"golang.org/x/tools/imports"
)

const (
	recmockPath = "github.com/Versent/go-recmock"
	maxResults  = 9
	outputName  = "recmock_gen.go"
)

// GenerateResult stores the result for a package from a call to Generate.
type GenerateResult struct {
	// PkgPath is the package's PkgPath.
	PkgPath string
	// OutputPath is the path where the generated output should be written.
	// May be empty if there were errors.
	OutputPath string
	// Content is the formatted source code that was generated. May be nil
	// if there were errors during generation.
	Content []byte
	// Errs is a slice of errors identified during generation.
	Errs []error
}

// Commit writes the generated file to disk.
func (res GenerateResult) Commit() error {
	if len(res.Content) == 0 {
		return nil
	}
	return os.WriteFile(res.OutputPath, res.Content, 0o666)
}

// Generate writes a recmock_gen.go file, with an optional prefix, for each
// package matching patterns. Every struct type declared in a file carrying
// the mockstub build tag becomes a mock: each method of each embedded
// interface forwards to recmock.CallN, and an Expect helper records the
// call and returns its setters. Methods the package already declares on the
// type are left alone. The generated file is excluded from mockstub builds.
func Generate(ctx context.Context, patterns []string, opts GenerateOptions) ([]GenerateResult, []error) {
	tags := "-tags=mockstub"
	if opts.Tags != "" {
		tags += " " + opts.Tags
	}
	pkgs, errs := load(ctx, opts.Dir, opts.Env, []string{tags}, patterns)
	if len(errs) > 0 {
		return nil, errs
	}
	results := make([]GenerateResult, len(pkgs))
	for i, pkg := range pkgs {
		res := &results[i]
		res.PkgPath = pkg.PkgPath
		outDir, err := detectOutputDir(pkg.GoFiles)
		if err != nil {
			res.Errs = append(res.Errs, err)
			continue
		}
		res.OutputPath = filepath.Join(outDir, opts.PrefixOutputFile+outputName)
		g := newGenerator(pkg)
		if errs := generateMocks(g); len(errs) > 0 {
			res.Errs = errs
			continue
		}
		src := g.frame(opts.Tags)
		if src == nil {
			continue
		}
		if len(opts.Header) > 0 {
			src = append(append([]byte{}, opts.Header...), src...)
		}
		formatted, err := imports.Process(res.OutputPath, src, &imports.Options{
			Comments:  true,
			TabIndent: true,
			TabWidth:  8,
		})
		if err != nil {
			// Keep the unformatted source so the problem can be inspected.
			res.Errs = append(res.Errs, err)
		} else {
			src = formatted
		}
		res.Content = src
	}
	return results, nil
}

func detectOutputDir(paths []string) (string, error) {
	if len(paths) == 0 {
		return "", errors.New("no files to derive output directory from")
	}
	dir := filepath.Dir(paths[0])
	for _, p := range paths[1:] {
		if other := filepath.Dir(p); other != dir {
			return "", fmt.Errorf("found conflicting directories %q and %q", dir, other)
		}
	}
	return dir, nil
}

func isMockStub(file *ast.File) bool {
	for _, group := range file.Comments {
		if group.Pos() > file.Package {
			break
		}
		for _, c := range group.List {
			if c.Text == "// +build mockstub" || strings.HasPrefix(c.Text, "//go:build mockstub") {
				return true
			}
		}
	}
	return false
}

// generator accumulates the body of one generated file.
type generator struct {
	pkg  *packages.Package
	body bytes.Buffer
	// imports maps an import path to the name it is referred to by.
	imports map[string]string
	anon    map[string]bool
	// taken holds every package level identifier in use.
	taken map[string]bool
	title cases.Caser
}

func newGenerator(pkg *packages.Package) *generator {
	g := &generator{
		pkg:     pkg,
		imports: make(map[string]string),
		anon:    make(map[string]bool),
		taken:   make(map[string]bool),
		title:   cases.Title(language.Und, cases.NoLower),
	}
	if pkg.Types != nil {
		for _, name := range pkg.Types.Scope().Names() {
			g.taken[name] = true
		}
	}
	return g
}

func generateMocks(g *generator) (errs []error) {
	for _, file := range g.pkg.Syntax {
		if !isMockStub(file) {
			continue
		}
		if err := g.copyImports(file); err != nil {
			errs = append(errs, err)
			continue
		}
		for _, decl := range file.Decls {
			gd, ok := decl.(*ast.GenDecl)
			if ok && gd.Tok == token.IMPORT {
				continue
			}
			if !ok || gd.Tok != token.TYPE {
				if err := g.writeNode(decl); err != nil {
					errs = append(errs, err)
				}
				continue
			}
			for _, spec := range gd.Specs {
				ts := spec.(*ast.TypeSpec)
				doc := ts.Doc
				if doc == nil && len(gd.Specs) == 1 {
					doc = gd.Doc
				}
				if err := g.typeSpec(doc, ts); err != nil {
					errs = append(errs, err)
				}
			}
		}
	}
	return errs
}

// copyImports carries the imports of a stub file over to the generated
// file. Unused ones are pruned when the output is formatted.
func (g *generator) copyImports(file *ast.File) error {
	for _, spec := range file.Imports {
		path, err := strconv.Unquote(spec.Path.Value)
		if err != nil {
			return err
		}
		var name string
		switch {
		case spec.Name != nil:
			name = spec.Name.Name
		default:
			name = g.packageName(path)
		}
		if name == "_" {
			g.anon[path] = true
			continue
		}
		if prev, ok := g.imports[path]; ok && prev != name {
			return fmt.Errorf("%s: package %q imported as both %s and %s", g.pkg.Fset.Position(spec.Pos()), path, prev, name)
		}
		g.imports[path] = name
	}
	return nil
}

func (g *generator) packageName(path string) string {
	if g.pkg.Types != nil {
		for _, imp := range g.pkg.Types.Imports() {
			if imp.Path() == path {
				return imp.Name()
			}
		}
	}
	return filepath.Base(path)
}

// importName returns the identifier the generated file uses for path,
// adding an import when needed.
func (g *generator) importName(path, name string) string {
	if n, ok := g.imports[path]; ok {
		return n
	}
	used := make(map[string]bool, len(g.imports))
	for _, n := range g.imports {
		used[n] = true
	}
	candidate := name
	for i := 2; used[candidate] || g.taken[candidate]; i++ {
		candidate = name + strconv.Itoa(i)
	}
	g.imports[path] = candidate
	return candidate
}

func (g *generator) qualifier(p *types.Package) string {
	if p == g.pkg.Types {
		return ""
	}
	name := g.importName(p.Path(), p.Name())
	if name == "." {
		return ""
	}
	return name
}

func (g *generator) typeString(t types.Type) string {
	return types.TypeString(t, g.qualifier)
}

func (g *generator) writeNode(node ast.Node) error {
	var buf bytes.Buffer
	if err := format.Node(&buf, g.pkg.Fset, node); err != nil {
		return fmt.Errorf("%s: error formatting declaration: %w", g.pkg.Fset.Position(node.Pos()), err)
	}
	g.body.Write(buf.Bytes())
	g.body.WriteString("\n\n")
	return nil
}

func (g *generator) typeSpec(doc *ast.CommentGroup, ts *ast.TypeSpec) error {
	obj := g.pkg.TypesInfo.Defs[ts.Name]
	if obj == nil {
		return fmt.Errorf("%s: no type information for %s", g.pkg.Fset.Position(ts.Pos()), ts.Name.Name)
	}
	st, ok := obj.Type().Underlying().(*types.Struct)
	if !ok || ts.Assign.IsValid() {
		return g.writeNode(&ast.GenDecl{Tok: token.TYPE, Doc: doc, Specs: []ast.Spec{ts}})
	}
	if ts.TypeParams != nil {
		return fmt.Errorf("%s: generic mock stubs are not supported", ts.Name.Name)
	}
	named, _ := obj.Type().(*types.Named)
	return g.mock(doc, ts.Name.Name, named, st)
}

// mock writes the mock struct for a stub, its interface assertions, and a
// mock method plus an Expect helper for every interface method.
func (g *generator) mock(doc *ast.CommentGroup, name string, named *types.Named, st *types.Struct) error {
	declared := make(map[string]bool)
	if named != nil {
		for i := 0; i < named.NumMethods(); i++ {
			declared[named.Method(i).Name()] = true
		}
	}

	var fields, assertions, methods bytes.Buffer
	var kept []*types.Var
	var errs []error
	for i := 0; i < st.NumFields(); i++ {
		field := st.Field(i)
		iface, isIface := field.Type().Underlying().(*types.Interface)
		if !field.Embedded() || !isIface {
			kept = append(kept, field)
			if field.Embedded() {
				fmt.Fprintf(&fields, "\t%s", g.typeString(field.Type()))
			} else {
				fmt.Fprintf(&fields, "\t%s %s", field.Name(), g.typeString(field.Type()))
			}
			if tag := st.Tag(i); tag != "" {
				fmt.Fprintf(&fields, " %s", quoteTag(tag))
			}
			fields.WriteString("\n")
			continue
		}
		fmt.Fprintf(&assertions, "var _ %s = (*%s)(nil)\n", g.typeString(field.Type()), name)
		for j := 0; j < iface.NumMethods(); j++ {
			m := iface.Method(j)
			if declared[m.Name()] {
				continue
			}
			declared[m.Name()] = true
			if !m.Exported() && m.Pkg() != g.pkg.Types {
				errs = append(errs, fmt.Errorf("%s: cannot implement unexported method %s of %s", name, m.Name(), field.Type()))
				continue
			}
			if err := g.method(&methods, name, m.Name(), m.Type().(*types.Signature)); err != nil {
				errs = append(errs, err)
			}
		}
	}
	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	if g.pkg.TypesSizes != nil && g.pkg.TypesSizes.Sizeof(types.NewStruct(kept, nil)) == 0 {
		fields.WriteString("\t_ byte // prevent zero-size struct\n")
	}

	if doc != nil {
		for _, c := range doc.List {
			g.body.WriteString(c.Text)
			g.body.WriteString("\n")
		}
	}
	fmt.Fprintf(&g.body, "type %s struct {\n%s}\n\n", name, fields.Bytes())
	if assertions.Len() > 0 {
		g.body.Write(assertions.Bytes())
		g.body.WriteString("\n")
	}
	g.body.Write(methods.Bytes())
	return nil
}

func (g *generator) method(w *bytes.Buffer, structName, methodName string, sig *types.Signature) error {
	results := sig.Results()
	if results.Len() > maxResults {
		return fmt.Errorf("%s.%s: more than %d results are not supported", structName, methodName, maxResults)
	}
	rec := g.importName(recmockPath, "recmock")

	params := sig.Params()
	decl := make([]string, params.Len())
	args := make([]string, params.Len())
	for i := 0; i < params.Len(); i++ {
		arg := "v" + strconv.Itoa(i)
		typ := params.At(i).Type()
		if sig.Variadic() && i == params.Len()-1 {
			decl[i] = arg + " ..." + g.typeString(typ.(*types.Slice).Elem())
		} else {
			decl[i] = arg + " " + g.typeString(typ)
		}
		args[i] = arg
	}
	outs := make([]string, results.Len())
	for i := 0; i < results.Len(); i++ {
		outs[i] = g.typeString(results.At(i).Type())
	}

	call := fmt.Sprintf("%s.Call%d", rec, len(outs))
	if len(outs) > 0 {
		call += "[" + strings.Join(outs, ", ") + "]"
	}
	callArgs := append([]string{"m", strconv.Quote(methodName)}, args...)
	call += "(" + strings.Join(callArgs, ", ") + ")"

	signature := "(" + strings.Join(decl, ", ") + ")"
	switch len(outs) {
	case 0:
	case 1:
		signature += " " + outs[0]
	default:
		signature += " (" + strings.Join(outs, ", ") + ")"
	}

	fmt.Fprintf(w, "func (m *%s) %s%s {\n", structName, methodName, signature)
	if len(outs) > 0 {
		fmt.Fprintf(w, "\treturn %s\n}\n\n", call)
	} else {
		fmt.Fprintf(w, "\t%s\n}\n\n", call)
	}

	helper, err := g.expectName(structName, methodName)
	if err != nil {
		return err
	}
	recorded := strings.Join(args, ", ")
	if sig.Variadic() {
		recorded += "..."
	}
	helperParams := append([]string{"m *" + structName}, decl...)
	fmt.Fprintf(w, "// %s records a call to %s on m and returns its setters.\n", helper, methodName)
	fmt.Fprintf(w, "func %s(%s) *%s.Setters {\n", helper, strings.Join(helperParams, ", "), rec)
	fmt.Fprintf(w, "\tm.%s(%s)\n", methodName, recorded)
	fmt.Fprintf(w, "\treturn %s.ExpectLastCall(m)\n}\n\n", rec)
	return nil
}

// expectName picks the helper name for a method. The short form is
// Expect<Method>; a collision falls back to Expect<Struct><Method>.
func (g *generator) expectName(structName, methodName string) (string, error) {
	for _, candidate := range []string{
		"Expect" + g.title.String(methodName),
		"Expect" + g.title.String(structName) + g.title.String(methodName),
	} {
		if !g.taken[candidate] {
			g.taken[candidate] = true
			return candidate, nil
		}
	}
	return "", fmt.Errorf("%s.%s: no free name for the expect helper", structName, methodName)
}

func quoteTag(tag string) string {
	if strings.Contains(tag, "`") {
		return strconv.Quote(tag)
	}
	return "`" + tag + "`"
}

// frame bakes the built up body into an unformatted Go source file.
func (g *generator) frame(tags string) []byte {
	if g.body.Len() == 0 {
		return nil
	}
	var buf bytes.Buffer
	if tags != "" {
		tags = fmt.Sprintf(" gen -tags %q", tags)
	}
	buf.WriteString("// Code generated by recmockgen. DO NOT EDIT.\n\n")
	buf.WriteString("//go:build !mockstub\n\n")
	buf.WriteString("//go:generate go run -mod=mod " + recmockPath + "/cmd/recmockgen" + tags + "\n\n")
	buf.WriteString("package " + g.pkg.Name + "\n\n")

	paths := make([]string, 0, len(g.imports)+len(g.anon))
	for path := range g.imports {
		paths = append(paths, path)
	}
	for path := range g.anon {
		if _, ok := g.imports[path]; !ok {
			paths = append(paths, path)
		}
	}
	if len(paths) > 0 {
		sort.Strings(paths)
		buf.WriteString("import (\n")
		for _, path := range paths {
			name, ok := g.imports[path]
			if !ok {
				name = "_"
			}
			fmt.Fprintf(&buf, "\t%s %q\n", name, path)
		}
		buf.WriteString(")\n\n")
	}
	buf.Write(g.body.Bytes())
	return buf.Bytes()
}
