/*
* Copyright (c) 2023-present unTill Pro, Ltd.
* @author Maxim Geraskin
 */

package nedres

import (
	"strings"

	"github.com/nedlang/nedxml/pkg/nedast"
)

// parentContextOf builds the lookup context a type's own references are
// resolved in: the enclosing element (skipping a types container) and the
// type's qualified name with its last segment removed.
func (c *Cache) parentContextOf(qname string, node *nedast.Element) NedLookupContext {
	contextNode := node.Parent()
	if contextNode != nil && contextNode.Tag() == nedast.TagTypes {
		contextNode = contextNode.Parent()
	}
	contextQName := ""
	if i := strings.LastIndexByte(qname, '.'); i >= 0 {
		contextQName = qname[:i]
	}
	return NewNedLookupContext(contextNode, contextQName)
}

// ResolveNedType resolves a type reference within a lookup context against
// the cache's own registered types. Results are memoized until the next
// registration.
func (c *Cache) ResolveNedType(context NedLookupContext, nedTypeName string) string {
	key := resolveKey{element: context.Element, name: nedTypeName}
	if qname, ok := c.resolveCache.Get(key); ok {
		return qname
	}
	qname := c.ResolveNedTypeWithNames(context, nedTypeName, typeNamesView{c})
	c.resolveCache.Add(key, qname)
	return qname
}

// ResolveNedTypeWithNames resolves a type reference against an arbitrary
// oracle of available names. Returns "" when the reference does not resolve.
//
// A name containing a dot must be fully qualified; partially qualified names
// are not supported. A simple name is tried as (a) an inner type of the
// enclosing compound module, (b) an exactly imported type, (c) a type from
// the same package, (d) a wildcard-imported type, in that order.
func (c *Cache) ResolveNedTypeWithNames(context NedLookupContext, nedTypeName string, qnames INedTypeNames) string {
	if strings.Contains(nedTypeName, ".") {
		// fully qualified name?
		if qnames.Contains(nedTypeName) {
			return nedTypeName
		}
		return ""
	}

	// inner type?
	if context.Element != nil && context.Element.Tag() == nedast.TagCompoundModule {
		qname := context.QName
		contextIsInnerType := context.Element.Parent() != nil &&
			context.Element.Parent().ParentWithTag(nedast.TagCompoundModule) != nil
		if contextIsInnerType {
			// look up the name in the enclosing toplevel type instead
			if i := strings.LastIndexByte(qname, '.'); i >= 0 {
				qname = qname[:i]
			}
		}
		qname = qname + "." + nedTypeName
		if qnames.Contains(qname) {
			return qname
		}
		// TODO: try with ancestor types (nedTypeName may be an inherited inner type)
	}

	fileNode := context.Element
	if fileNode != nil && fileNode.Tag() != nedast.TagFile {
		fileNode = fileNode.ParentWithTag(nedast.TagFile)
	}
	if fileNode == nil {
		return ""
	}

	// collect imports, for convenience
	var imports []string
	for imp := fileNode.FirstChildWithTag(nedast.TagImport); imp != nil; imp = imp.NextSibling() {
		if imp.Tag() == nedast.TagImport {
			imports = append(imports, imp.Attr("import-spec"))
		}
	}

	// exactly imported type?
	dotNedTypeName := "." + nedTypeName
	for _, imp := range imports {
		if containsWildcards(imp) {
			continue
		}
		if qnames.Contains(imp) && (imp == nedTypeName || strings.HasSuffix(imp, dotNedTypeName)) {
			return imp
		}
	}

	// from the same package?
	qname := nedTypeName
	if packageName := declaredPackageOf(fileNode); packageName != "" {
		qname = packageName + "." + nedTypeName
	}
	if qnames.Contains(qname) {
		return qname
	}

	// try harder, using wildcards
	for _, imp := range imports {
		if !containsWildcards(imp) {
			continue
		}
		pattern, err := newImportPattern(imp)
		if err != nil {
			continue
		}
		for j := 0; j < qnames.Len(); j++ {
			candidate := qnames.Get(j)
			if candidate == nedTypeName || strings.HasSuffix(candidate, dotNedTypeName) {
				if pattern.matches(candidate) {
					return candidate
				}
			}
		}
	}

	return ""
}

// typeNamesView is the cache's own oracle: the registered names in
// registration order.
type typeNamesView struct {
	c *Cache
}

func (v typeNamesView) Contains(qname string) bool {
	_, ok := v.c.types[qname]
	return ok
}

func (v typeNamesView) Len() int { return len(v.c.typeOrder) }

func (v typeNamesView) Get(i int) string { return v.c.typeOrder[i] }
