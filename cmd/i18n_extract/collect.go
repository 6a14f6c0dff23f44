// Copyright 2025, the PETDor contributors
// SPDX-License-Identifier: AGPL-3.0-only

package main

import (
	"go/ast"
	"go/constant"
	"go/token"
	"go/types"
	"path/filepath"

	"golang.org/x/tools/go/packages"
)

// msgKey identifies a gettext entry. plural is empty for singular entries.
type msgKey struct {
	ctx    string
	id     string
	plural string
}

type location struct {
	file string
	line int
}

// argLayout gives the argument positions of one i18n function. A negative
// position means the function has no such argument.
type argLayout struct {
	ctx, id, plural int
}

// trFuncs lists the i18n functions whose arguments are messages.
var trFuncs = map[string]argLayout{
	"Tr":           {ctx: -1, id: 1, plural: -1},
	"TrC":          {ctx: 1, id: 2, plural: -1},
	"TrN":          {ctx: -1, id: 1, plural: 2},
	"TrNC":         {ctx: 1, id: 2, plural: 3},
	"NewUserError": {ctx: -1, id: 1, plural: -1},
}

type collector struct {
	root     string
	i18nPkgs map[string]bool
	refs     map[msgKey][]location

	fset *token.FileSet
	info *types.Info
}

func newCollector(root string, i18nPkgs map[string]bool) *collector {
	return &collector{
		root:     root,
		i18nPkgs: i18nPkgs,
		refs:     make(map[msgKey][]location),
	}
}

// i18nPackages returns the paths of the loaded packages named i18n that
// declare a string-based MsgKey type.
func i18nPackages(pkgs []*packages.Package) map[string]bool {
	out := make(map[string]bool)

	for _, p := range pkgs {
		if p.Name != "i18n" || p.Types == nil {
			continue
		}

		tn, ok := p.Types.Scope().Lookup("MsgKey").(*types.TypeName)
		if !ok {
			continue
		}

		if basic, ok := tn.Type().Underlying().(*types.Basic); ok && basic.Kind() == types.String {
			out[p.PkgPath] = true
		}
	}

	return out
}

func (c *collector) collect(p *packages.Package) {
	if p.TypesInfo == nil {
		return
	}

	c.fset = p.Fset
	c.info = p.TypesInfo

	for _, f := range p.Syntax {
		ast.Inspect(f, func(n ast.Node) bool {
			switch x := n.(type) {
			case *ast.CallExpr:
				c.call(x)
			case *ast.CompositeLit:
				c.compositeLit(x)
			}

			return true
		})
	}
}

// str returns the constant string value of expr, if it has one.
func (c *collector) str(expr ast.Expr) (string, bool) {
	tv, ok := c.info.Types[expr]
	if !ok || tv.Value == nil || tv.Value.Kind() != constant.String {
		return "", false
	}

	return constant.StringVal(tv.Value), true
}

// isMsgKey reports whether t is the MsgKey type of an i18n package.
func (c *collector) isMsgKey(t types.Type) bool {
	named, ok := t.(*types.Named)
	if !ok {
		return false
	}

	obj := named.Obj()

	return obj != nil && obj.Pkg() != nil && obj.Name() == "MsgKey" && c.i18nPkgs[obj.Pkg().Path()]
}

// msgKeyArg records expr when it is a constant assigned to a MsgKey of type t.
func (c *collector) msgKeyArg(t types.Type, expr ast.Expr) {
	if !c.isMsgKey(t) {
		return
	}

	if msg, ok := c.str(expr); ok {
		c.add(expr.Pos(), msgKey{id: msg})
	}
}

func (c *collector) call(x *ast.CallExpr) {
	// i18n.MsgKey("...") conversion
	if tv, ok := c.info.Types[x.Fun]; ok && tv.IsType() {
		if len(x.Args) == 1 {
			c.msgKeyArg(tv.Type, x.Args[0])
		}

		return
	}

	if sel, ok := x.Fun.(*ast.SelectorExpr); ok {
		if fn, ok := c.info.Uses[sel.Sel].(*types.Func); ok && fn.Pkg() != nil && c.i18nPkgs[fn.Pkg().Path()] {
			if layout, ok := trFuncs[fn.Name()]; ok {
				c.trCall(x, layout)

				return
			}
		}
	}

	// Any other call with MsgKey parameters.
	sig, ok := c.info.TypeOf(x.Fun).(*types.Signature)
	if !ok || sig.Params().Len() == 0 {
		return
	}

	params := sig.Params()
	last := params.Len() - 1

	for i, arg := range x.Args {
		switch {
		case sig.Variadic() && i >= last:
			if x.Ellipsis != token.NoPos {
				// f(xs...) is seen through the composite literal of xs.
				continue
			}

			c.msgKeyArg(params.At(last).Type().(*types.Slice).Elem(), arg)
		case i <= last:
			c.msgKeyArg(params.At(i).Type(), arg)
		}
	}
}

func (c *collector) trCall(x *ast.CallExpr, layout argLayout) {
	var k msgKey

	for _, field := range []struct {
		pos int
		dst *string
	}{{layout.ctx, &k.ctx}, {layout.id, &k.id}, {layout.plural, &k.plural}} {
		if field.pos < 0 {
			continue
		}

		if field.pos >= len(x.Args) {
			return
		}

		s, ok := c.str(x.Args[field.pos])
		if !ok {
			return
		}

		*field.dst = s
	}

	c.add(x.Args[layout.id].Pos(), k)
}

func (c *collector) compositeLit(x *ast.CompositeLit) {
	t := c.info.TypeOf(x)
	if t == nil {
		return
	}

	if p, ok := t.Underlying().(*types.Pointer); ok {
		t = p.Elem()
	}

	switch u := t.Underlying().(type) {
	case *types.Map:
		for _, elt := range x.Elts {
			if kv, ok := elt.(*ast.KeyValueExpr); ok {
				c.msgKeyArg(u.Key(), kv.Key)
				c.msgKeyArg(u.Elem(), kv.Value)
			}
		}

	case *types.Slice:
		for _, elt := range x.Elts {
			c.msgKeyArg(u.Elem(), elt)
		}

	case *types.Array:
		for _, elt := range x.Elts {
			c.msgKeyArg(u.Elem(), elt)
		}

	case *types.Struct:
		for i, elt := range x.Elts {
			if kv, ok := elt.(*ast.KeyValueExpr); ok {
				if id, ok := kv.Key.(*ast.Ident); ok {
					if f := fieldByName(u, id.Name); f != nil {
						c.msgKeyArg(f.Type(), kv.Value)
					}
				}

				continue
			}

			if i < u.NumFields() {
				c.msgKeyArg(u.Field(i).Type(), elt)
			}
		}
	}
}

func fieldByName(s *types.Struct, name string) *types.Var {
	for i := range s.NumFields() {
		if f := s.Field(i); f.Name() == name {
			return f
		}
	}

	return nil
}

// add records a reference to k, relative to the project root.
func (c *collector) add(pos token.Pos, k msgKey) {
	p := c.fset.Position(pos)

	file := p.Filename
	if rel, err := filepath.Rel(c.root, file); err == nil {
		file = rel
	}

	c.refs[k] = append(c.refs[k], location{file: filepath.ToSlash(file), line: p.Line})
}
