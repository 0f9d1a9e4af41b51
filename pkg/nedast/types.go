/*
* Copyright (c) 2023-present unTill Pro, Ltd.
* @author Michael Saigachenko
 */

package nedast

import "fmt"

// Attr is a single named attribute of an element. Attributes keep their
// insertion order so that serialization is stable.
type Attr struct {
	Name  string
	Value string
}

// Element is a node of a NED AST. A file parses into a tree of elements; the
// resource cache navigates the tree through tags, attributes and the
// parent/child/sibling links and never branches on anything else.
type Element struct {
	tag   Tag
	attrs []Attr

	parent      *Element
	firstChild  *Element
	lastChild   *Element
	nextSibling *Element

	// source position, zero line means unknown
	file string
	line int
	col  int
}

func NewElement(tag Tag) *Element {
	return &Element{tag: tag}
}

func (e *Element) Tag() Tag { return e.tag }

// SetSourceLocation records where the element came from.
func (e *Element) SetSourceLocation(file string, line, col int) {
	e.file = file
	e.line = line
	e.col = col
}

// SourceFile returns the file the element was parsed from, "" if unknown.
func (e *Element) SourceFile() string { return e.file }

// SourceLocation returns "file:line", or just the file name when the line is
// unknown, or "" when the element has no recorded origin.
func (e *Element) SourceLocation() string {
	if e.file == "" {
		return ""
	}
	if e.line == 0 {
		return e.file
	}
	return fmt.Sprintf("%s:%d", e.file, e.line)
}

// Attr returns the value of the named attribute, "" if not present.
func (e *Element) Attr(name string) string {
	for i := range e.attrs {
		if e.attrs[i].Name == name {
			return e.attrs[i].Value
		}
	}
	return ""
}

// SetAttr sets or replaces the named attribute.
func (e *Element) SetAttr(name, value string) {
	for i := range e.attrs {
		if e.attrs[i].Name == name {
			e.attrs[i].Value = value
			return
		}
	}
	e.attrs = append(e.attrs, Attr{Name: name, Value: value})
}

// Attrs returns the attributes in insertion order. The slice is owned by the
// element and must not be mutated.
func (e *Element) Attrs() []Attr { return e.attrs }

// AppendChild adds child as the last child of e. The child must not already
// have a parent.
func (e *Element) AppendChild(child *Element) {
	if child.parent != nil {
		panic("nedast: element already has a parent")
	}
	child.parent = e
	if e.lastChild == nil {
		e.firstChild = child
	} else {
		e.lastChild.nextSibling = child
	}
	e.lastChild = child
}

func (e *Element) Parent() *Element      { return e.parent }
func (e *Element) FirstChild() *Element  { return e.firstChild }
func (e *Element) NextSibling() *Element { return e.nextSibling }

// FirstChildWithTag returns the first direct child with the given tag, nil if
// none.
func (e *Element) FirstChildWithTag(tag Tag) *Element {
	for child := e.firstChild; child != nil; child = child.nextSibling {
		if child.tag == tag {
			return child
		}
	}
	return nil
}

// ParentWithTag returns the nearest ancestor with the given tag, excluding the
// element itself, nil if none.
func (e *Element) ParentWithTag(tag Tag) *Element {
	for node := e.parent; node != nil; node = node.parent {
		if node.tag == tag {
			return node
		}
	}
	return nil
}
