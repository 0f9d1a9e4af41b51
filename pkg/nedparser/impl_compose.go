/*
* Copyright (c) 2023-present unTill Pro, Ltd.
* @author Michael Saigachenko
 */

package nedparser

import (
	"github.com/alecthomas/participle/v2/lexer"

	"github.com/nedlang/nedxml/pkg/nedast"
)

// compose lowers the grammar AST into the generic element tree consumed by
// the resource cache.
func compose(f *nedFileStmt) *nedast.Element {
	root := newElement(nedast.TagFile, f.Pos)
	root.SetAttr("filename", f.Pos.Filename)

	if f.Package != nil {
		pkg := newElement(nedast.TagPackage, f.Package.Pos)
		pkg.SetAttr("name", f.Package.Name)
		root.AppendChild(pkg)
	}
	for i := range f.Imports {
		imp := newElement(nedast.TagImport, f.Imports[i].Pos)
		imp.SetAttr("import-spec", f.Imports[i].Spec)
		root.AppendChild(imp)
	}
	for i := range f.Items {
		item := &f.Items[i]
		if item.Property != nil {
			root.AppendChild(composeProperty(item.Property))
		} else if item.Type != nil {
			root.AppendChild(composeType(item.Type))
		}
	}
	return root
}

func newElement(tag nedast.Tag, pos lexer.Position) *nedast.Element {
	e := nedast.NewElement(tag)
	e.SetSourceLocation(pos.Filename, pos.Line, pos.Column)
	return e
}

func composeProperty(p *propertyStmt) *nedast.Element {
	prop := newElement(nedast.TagProperty, p.Pos)
	prop.SetAttr("name", p.Name)
	if p.Value != "" {
		prop.SetAttr("value", p.Value)
	}
	return prop
}

func composeType(t *typeStmt) *nedast.Element {
	switch {
	case t.Simple != nil:
		s := t.Simple
		e := newElement(nedast.TagSimpleModule, s.Pos)
		e.SetAttr("name", s.Name)
		composeExtends(e, s.Extends)
		composeInterfaceNames(e, s.Likes)
		composeBody(e, s.Body)
		return e
	case t.Compound != nil:
		c := t.Compound
		e := newElement(nedast.TagCompoundModule, c.Pos)
		e.SetAttr("name", c.Name)
		composeExtends(e, c.Extends)
		composeInterfaceNames(e, c.Likes)
		composeBody(e, c.Body)
		return e
	case t.Channel != nil:
		ch := t.Channel
		e := newElement(nedast.TagChannel, ch.Pos)
		e.SetAttr("name", ch.Name)
		composeExtends(e, ch.Extends)
		composeInterfaceNames(e, ch.Likes)
		composeBody(e, ch.Body)
		return e
	case t.ModuleIf != nil:
		mi := t.ModuleIf
		e := newElement(nedast.TagModuleInterface, mi.Pos)
		e.SetAttr("name", mi.Name)
		composeExtendsList(e, mi.Extends)
		composeBody(e, mi.Body)
		return e
	case t.ChannelIf != nil:
		ci := t.ChannelIf
		e := newElement(nedast.TagChannelInterface, ci.Pos)
		e.SetAttr("name", ci.Name)
		composeExtendsList(e, ci.Extends)
		composeBody(e, ci.Body)
		return e
	}
	panic("nedparser: empty type statement")
}

func composeExtends(parent *nedast.Element, base *dottedName) {
	if base == nil {
		return
	}
	e := newElement(nedast.TagExtends, base.Pos)
	e.SetAttr("name", base.Name)
	parent.AppendChild(e)
}

func composeExtendsList(parent *nedast.Element, bases []dottedName) {
	for i := range bases {
		e := newElement(nedast.TagExtends, bases[i].Pos)
		e.SetAttr("name", bases[i].Name)
		parent.AppendChild(e)
	}
}

func composeInterfaceNames(parent *nedast.Element, likes []dottedName) {
	for i := range likes {
		e := newElement(nedast.TagInterfaceName, likes[i].Pos)
		e.SetAttr("name", likes[i].Name)
		parent.AppendChild(e)
	}
}

func composeBody(parent *nedast.Element, body *bodyStmt) {
	if body == nil {
		return
	}
	for i := range body.Sections {
		s := &body.Sections[i]
		switch {
		case s.Types != nil:
			types := newElement(nedast.TagTypes, s.Types.Pos)
			for j := range s.Types.Types {
				types.AppendChild(composeType(&s.Types.Types[j]))
			}
			parent.AppendChild(types)
		case s.Parameters != nil:
			params := newElement(nedast.TagParameters, s.Parameters.Pos)
			for j := range s.Parameters.Items {
				item := &s.Parameters.Items[j]
				if item.Property != nil {
					params.AppendChild(composeProperty(item.Property))
				} else if item.Param != nil {
					param := newElement(nedast.TagParam, item.Param.Pos)
					param.SetAttr("name", item.Param.Name)
					if item.Param.Type != nil {
						param.SetAttr("type", *item.Param.Type)
					}
					if item.Param.Volatile {
						param.SetAttr("is-volatile", "true")
					}
					if item.Param.Value != nil {
						param.SetAttr("value", *item.Param.Value)
					}
					params.AppendChild(param)
				}
			}
			parent.AppendChild(params)
		case s.Gates != nil:
			gates := newElement(nedast.TagGates, s.Gates.Pos)
			for j := range s.Gates.Gates {
				g := &s.Gates.Gates[j]
				gate := newElement(nedast.TagGate, g.Pos)
				gate.SetAttr("name", g.Name)
				gate.SetAttr("type", g.Kind)
				if g.Vector != nil {
					gate.SetAttr("vector-size", *g.Vector)
				}
				gates.AppendChild(gate)
			}
			parent.AppendChild(gates)
		case s.Submodules != nil:
			subs := newElement(nedast.TagSubmodules, s.Submodules.Pos)
			for j := range s.Submodules.Submodules {
				sm := &s.Submodules.Submodules[j]
				sub := newElement(nedast.TagSubmodule, sm.Pos)
				sub.SetAttr("name", sm.Name)
				if sm.Like {
					sub.SetAttr("like-type", sm.Type.Name)
					sub.SetAttr("like-expr", sm.LikeExpr)
				} else {
					sub.SetAttr("type", sm.Type.Name)
				}
				composeBody(sub, sm.Body)
				subs.AppendChild(sub)
			}
			parent.AppendChild(subs)
		case s.Connections != nil:
			conns := newElement(nedast.TagConnections, s.Connections.Pos)
			for j := range s.Connections.Connections {
				c := &s.Connections.Connections[j]
				conn := newElement(nedast.TagConnection, c.Pos)
				conn.SetAttr("code", c.Text)
				conns.AppendChild(conn)
			}
			parent.AppendChild(conns)
		}
	}
}
