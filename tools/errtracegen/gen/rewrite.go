// Copyright 2026 The linux-trace-error Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package gen rewrites Go source to wrap error values with provenance
// recording calls.
//
// A reference to an error value from an instrumented package, such as
// linuxerr.ENOENT, is replaced with errtrace.Error(ctx, linuxerr.ENOENT)
// when it appears as an assignment operand, a var initializer, or a return
// operand inside a function that has a context-carrying parameter. Other
// positions are left alone: wrapping a case label or a comparison operand
// would change what the code means, not just what it records.
//
// The rewrite is idempotent. A wrapped value sits in the argument list of
// the wrapper call, which is not one of the selected positions, so running
// the tool twice produces the same output as running it once.
package gen

import (
	"bytes"
	"fmt"
	"go/ast"
	"go/format"
	"go/parser"
	"go/token"
	"path"
	"strconv"
	"strings"

	"golang.org/x/tools/go/ast/astutil"
)

// Rewriter applies the wrapping transformation to Go source files.
type Rewriter struct {
	cfg      *Config
	ctxTypes []ctxType
}

// ctxType is a parsed Config.ContextTypes entry.
type ctxType struct {
	ptr  bool
	path string
	name string
}

// New returns a Rewriter for the given configuration.
func New(cfg *Config) (*Rewriter, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	r := &Rewriter{cfg: cfg}
	for _, s := range cfg.ContextTypes {
		ct, err := parseCtxType(s)
		if err != nil {
			return nil, err
		}
		r.ctxTypes = append(r.ctxTypes, ct)
	}
	return r, nil
}

func parseCtxType(s string) (ctxType, error) {
	var ct ctxType
	t := s
	if strings.HasPrefix(t, "*") {
		ct.ptr = true
		t = t[1:]
	}
	i := strings.LastIndex(t, ".")
	if i <= 0 || i == len(t)-1 {
		return ctxType{}, fmt.Errorf("context type %q is not of the form path.Type", s)
	}
	ct.path, ct.name = t[:i], t[i+1:]
	return ct, nil
}

// Rewrite parses src and returns it with eligible error values wrapped,
// along with the number of sites wrapped. When no site is eligible the
// input is returned unchanged.
func (r *Rewriter) Rewrite(filename string, src []byte) ([]byte, int, error) {
	fset := token.NewFileSet()
	f, err := parser.ParseFile(fset, filename, src, parser.ParseComments)
	if err != nil {
		return nil, 0, err
	}

	imports := importLocals(f)

	// Local names under which instrumented packages are imported, mapped
	// to their wrapper function.
	wrapFuncs := make(map[string]string)
	for _, w := range r.cfg.Wrap {
		for local, p := range imports {
			if p == w.Package {
				wrapFuncs[local] = w.Func
			}
		}
	}
	if len(wrapFuncs) == 0 {
		return src, 0, nil
	}

	wrapperLocal, needImport := r.wrapperName(imports)

	// Value specs belonging to const declarations. Wrapper calls are not
	// constant expressions, so those initializers must stay as they are.
	constSpecs := make(map[*ast.ValueSpec]bool)
	ast.Inspect(f, func(n ast.Node) bool {
		if d, ok := n.(*ast.GenDecl); ok && d.Tok == token.CONST {
			for _, spec := range d.Specs {
				if vs, ok := spec.(*ast.ValueSpec); ok {
					constSpecs[vs] = true
				}
			}
		}
		return true
	})

	// ctxStack holds, for each enclosing function, the name of its
	// context-carrying parameter ("" if it has none). Function literals
	// without one inherit the enclosing function's.
	var ctxStack []string
	top := func() string {
		if len(ctxStack) == 0 {
			return ""
		}
		return ctxStack[len(ctxStack)-1]
	}

	n := 0
	astutil.Apply(f,
		func(c *astutil.Cursor) bool {
			switch node := c.Node().(type) {
			case *ast.FuncDecl:
				ctxStack = append(ctxStack, r.ctxParam(node.Recv, node.Type, imports))
				return true
			case *ast.FuncLit:
				ctx := r.ctxParam(nil, node.Type, imports)
				if ctx == "" {
					ctx = top()
				}
				ctxStack = append(ctxStack, ctx)
				return true
			case *ast.SelectorExpr:
				fn, ok := wrapFuncs[identName(node.X)]
				if !ok || r.cfg.excluded(node.Sel.Name) {
					return true
				}
				if !selectedRole(c, constSpecs) {
					return true
				}
				ctx := top()
				if ctx == "" {
					return true
				}
				c.Replace(&ast.CallExpr{
					Fun: &ast.SelectorExpr{
						X:   ast.NewIdent(wrapperLocal),
						Sel: ast.NewIdent(fn),
					},
					Args: []ast.Expr{ast.NewIdent(ctx), node},
				})
				n++
				return false
			}
			return true
		},
		func(c *astutil.Cursor) bool {
			switch c.Node().(type) {
			case *ast.FuncDecl, *ast.FuncLit:
				ctxStack = ctxStack[:len(ctxStack)-1]
			}
			return true
		})

	if n == 0 {
		return src, 0, nil
	}

	if needImport {
		if wrapperLocal == path.Base(r.cfg.WrapperImport) {
			astutil.AddImport(fset, f, r.cfg.WrapperImport)
		} else {
			astutil.AddNamedImport(fset, f, wrapperLocal, r.cfg.WrapperImport)
		}
	}

	var buf bytes.Buffer
	if err := format.Node(&buf, fset, f); err != nil {
		return nil, 0, fmt.Errorf("formatting %s: %w", filename, err)
	}
	return buf.Bytes(), n, nil
}

// selectedRole reports whether the cursor's node sits in a position where
// wrapping preserves meaning: an assignment operand, a var initializer, or
// a return operand. Case labels, conditions, call arguments and composite
// literal elements all fail this test.
func selectedRole(c *astutil.Cursor, constSpecs map[*ast.ValueSpec]bool) bool {
	switch p := c.Parent().(type) {
	case *ast.AssignStmt:
		return c.Name() == "Rhs"
	case *ast.ValueSpec:
		return c.Name() == "Values" && !constSpecs[p]
	case *ast.ReturnStmt:
		return c.Name() == "Results"
	}
	return false
}

// ctxParam returns the name of the first receiver or parameter whose type
// is one of the configured context types, or "" if there is none usable.
func (r *Rewriter) ctxParam(recv *ast.FieldList, ft *ast.FuncType, imports map[string]string) string {
	lists := []*ast.FieldList{recv, ft.Params}
	for _, fl := range lists {
		if fl == nil {
			continue
		}
		for _, field := range fl.List {
			if !r.matchesCtx(field.Type, imports) {
				continue
			}
			for _, name := range field.Names {
				if name.Name != "_" {
					return name.Name
				}
			}
		}
	}
	return ""
}

func (r *Rewriter) matchesCtx(expr ast.Expr, imports map[string]string) bool {
	for _, ct := range r.ctxTypes {
		e := expr
		if ct.ptr {
			star, ok := e.(*ast.StarExpr)
			if !ok {
				continue
			}
			e = star.X
		}
		sel, ok := e.(*ast.SelectorExpr)
		if !ok || sel.Sel.Name != ct.name {
			continue
		}
		if imports[identName(sel.X)] == ct.path {
			return true
		}
	}
	return false
}

// wrapperName returns the local name to call the wrapper package by, and
// whether an import for it must be added.
func (r *Rewriter) wrapperName(imports map[string]string) (string, bool) {
	for local, p := range imports {
		if p == r.cfg.WrapperImport {
			return local, false
		}
	}
	name := path.Base(r.cfg.WrapperImport)
	for {
		if _, taken := imports[name]; !taken {
			return name, true
		}
		name += "_"
	}
}

// importLocals maps each import's local name to its path. Blank and dot
// imports are not usable for selector resolution and are skipped.
func importLocals(f *ast.File) map[string]string {
	m := make(map[string]string)
	for _, spec := range f.Imports {
		p, err := strconv.Unquote(spec.Path.Value)
		if err != nil {
			continue
		}
		local := path.Base(p)
		if spec.Name != nil {
			local = spec.Name.Name
		}
		if local == "_" || local == "." {
			continue
		}
		m[local] = p
	}
	return m
}

func identName(e ast.Expr) string {
	if id, ok := e.(*ast.Ident); ok {
		return id.Name
	}
	return ""
}
