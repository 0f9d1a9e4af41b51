/*
* Copyright (c) 2023-present unTill Pro, Ltd.
* @author Maxim Geraskin
 */

package nedres

import (
	"strings"

	"github.com/nedlang/nedxml/pkg/nedast"
)

// NedLookupContext is the scope a type reference is resolved in: the AST
// element that syntactically encloses the reference (a compound module body,
// a file) and the fully qualified name of the enclosing type, "" if none.
type NedLookupContext struct {
	Element *nedast.Element
	QName   string
}

func NewNedLookupContext(element *nedast.Element, qname string) NedLookupContext {
	return NedLookupContext{Element: element, QName: qname}
}

// TypeInfo is a registered NED type. The AST node is borrowed from the file
// tree owned by the cache and must not outlive it.
type TypeInfo struct {
	qname       string
	isInnerType bool
	node        *nedast.Element

	// fully qualified names of the base types and interfaces, resolved at
	// registration time
	extendsNames   []string
	interfaceNames []string
}

func (t *TypeInfo) QName() string { return t.qname }

// Name returns the last segment of the qualified name.
func (t *TypeInfo) Name() string {
	if i := strings.LastIndexByte(t.qname, '.'); i >= 0 {
		return t.qname[i+1:]
	}
	return t.qname
}

// Package returns the package the type's file declares, "" for the default
// package.
func (t *TypeInfo) Package() string {
	file := t.node.ParentWithTag(nedast.TagFile)
	if file == nil {
		return ""
	}
	if pkg := file.FirstChildWithTag(nedast.TagPackage); pkg != nil {
		return pkg.Attr("name")
	}
	return ""
}

func (t *TypeInfo) IsInnerType() bool { return t.isInnerType }

// Element returns the AST node of the type declaration.
func (t *TypeInfo) Element() *nedast.Element { return t.node }

// ExtendsNames returns the resolved qualified names of the base types: at
// most one for modules and channels, any number for interfaces.
func (t *TypeInfo) ExtendsNames() []string { return t.extendsNames }

// InterfaceNames returns the resolved qualified names of the interfaces the
// type declares conformance to.
func (t *TypeInfo) InterfaceNames() []string { return t.interfaceNames }

func (t *TypeInfo) String() string { return t.qname }

// pendingNedType is a collected but not yet registered type.
type pendingNedType struct {
	qname       string
	isInnerType bool
	node        *nedast.Element
}

// resolveKey identifies a memoized resolver query. The context element pointer
// participates because resolution depends on the enclosing file's imports and
// package, not only on the context's qualified name.
type resolveKey struct {
	element *nedast.Element
	name    string
}
