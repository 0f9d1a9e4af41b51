/*
* Copyright (c) 2023-present unTill Pro, Ltd.
* @author Maxim Geraskin
 */

package nedres

import "github.com/nedlang/nedxml/pkg/nedast"

// INedTypeNames is the oracle the name resolver consults: a membership test
// plus indexed enumeration over a set of fully qualified type names.
// Enumeration order is significant; wildcard import resolution returns the
// first match in this order.
type INedTypeNames interface {
	Contains(qname string) bool
	Len() int
	Get(i int) string
}

// INedResources is the read side of the resource cache. The concrete *Cache
// implements it; consumers that only resolve and look up types should depend
// on this interface.
type INedResources interface {
	// Lookup returns the type info for a fully qualified name, nil if absent.
	Lookup(qname string) *TypeInfo

	// Get is Lookup that fails when the name is not registered.
	Get(qname string) (*TypeInfo, error)

	// TypeNames lists every registered fully qualified name in registration
	// order.
	TypeNames() []string

	// File returns the AST of a loaded file, nil if the file is not loaded.
	File(fileName string) *nedast.Element

	// PackageNedFile returns the package.ned AST for a package, nil if none.
	PackageNedFile(packageName string) *nedast.Element

	// PackageNedListForLookup returns the package.ned files of the package,
	// its parent package and so on down to the root package.
	PackageNedListForLookup(packageName string) []*nedast.Element

	// ResolveNedType resolves a type reference within a lookup context to a
	// fully qualified name, "" if the reference does not resolve.
	ResolveNedType(context NedLookupContext, nedTypeName string) string

	// NedSourceFolderForFolder returns the loaded source folder that contains
	// the given folder, "" if none.
	NedSourceFolderForFolder(folder string) string

	// NedPackageForFolder returns the package a folder maps to, combining the
	// source folder's root package with the relative sub-path.
	NedPackageForFolder(folder string) string
}
