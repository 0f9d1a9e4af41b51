/*
* Copyright (c) 2023-present unTill Pro, Ltd.
* @author Maxim Geraskin
 */

package nedres

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nedlang/nedxml/pkg/nedast"
)

func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		path := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o700))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	}
}

func mustLoadText(t *testing.T, c *Cache, name, text string) {
	t.Helper()
	require.NoError(t, c.LoadNedText(name, text, nil, false))
}

func Test_BasicUsage(t *testing.T) {
	require := require.New(t)

	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"package.ned": `package demo;`,
		"Node.ned": `
package demo;
import demo.protocols.*;

module Node
{
    types:
        simple Helper;
    submodules:
        h: Helper;
}
`,
		"protocols/Tcp.ned": `
package demo.protocols;
simple Tcp;
`,
	})

	cache := New()
	count, err := cache.LoadNedSourceFolder(root, "")
	require.NoError(err)
	require.Equal(3, count)
	require.NoError(cache.DoneLoadingNedFiles())

	require.Equal([]string{"demo.Node", "demo.Node.Helper", "demo.protocols.Tcp"}, cache.TypeNames())

	// lookup and get agree, and the info carries its own qname
	for _, qname := range cache.TypeNames() {
		info, err := cache.Get(qname)
		require.NoError(err)
		require.Equal(cache.Lookup(qname), info)
		require.Equal(qname, info.QName())
		require.Equal(qname, info.String())
	}

	node, err := cache.Get("demo.Node")
	require.NoError(err)
	require.False(node.IsInnerType())
	require.Equal("Node", node.Name())
	require.Equal("demo", node.Package())
	require.Equal(nedast.TagCompoundModule, node.Element().Tag())

	helper, err := cache.Get("demo.Node.Helper")
	require.NoError(err)
	require.True(helper.IsInnerType())
	require.Equal("Helper", helper.Name())

	// resolution within the compound module body
	ctx := NewNedLookupContext(node.Element(), "demo.Node")
	require.Equal("demo.Node.Helper", cache.ResolveNedType(ctx, "Helper"))
	require.Equal("demo.protocols.Tcp", cache.ResolveNedType(ctx, "Tcp")) // via the wildcard import
	require.Equal("", cache.ResolveNedType(ctx, "Nothing"))

	// the file index is keyed canonically
	require.NotNil(cache.File(filepath.Join(root, "Node.ned")))
	require.Nil(cache.File(filepath.Join(root, "Missing.ned")))

	// lookup miss
	require.Nil(cache.Lookup("demo.Missing"))
	_, err = cache.Get("demo.Missing")
	require.EqualError(err, "NED declaration 'demo.Missing' not found")
}

func Test_ForwardReference(t *testing.T) {
	require := require.New(t)

	cache := New()
	mustLoadText(t, cache, "A.ned", "package p;\nsimple A extends B;\n")
	mustLoadText(t, cache, "B.ned", "package p;\nsimple B;\n")
	require.NoError(cache.DoneLoadingNedFiles())

	require.NotNil(cache.Lookup("p.A"))
	require.NotNil(cache.Lookup("p.B"))
	a, err := cache.Get("p.A")
	require.NoError(err)
	require.Equal([]string{"p.B"}, a.ExtendsNames())
}

func Test_UnresolvedType(t *testing.T) {
	require := require.New(t)

	t.Run("single", func(t *testing.T) {
		cache := New()
		mustLoadText(t, cache, "A.ned", "package p;\nsimple A extends B;\n")
		err := cache.DoneLoadingNedFiles()
		require.Error(err)
		require.Contains(err.Error(), "NED type 'p.A' could not be fully resolved due to a missing base type or interface")
	})

	t.Run("several", func(t *testing.T) {
		cache := New()
		mustLoadText(t, cache, "A.ned", "package p;\nsimple A extends X;\nsimple B extends Y;\n")
		err := cache.DoneLoadingNedFiles()
		require.Error(err)
		require.Contains(err.Error(), "The following NED types could not be fully resolved due to a missing base type or interface: p.A, p.B")
	})
}

func Test_PackageMismatch(t *testing.T) {
	require := require.New(t)

	t.Run("no package.ned", func(t *testing.T) {
		root := t.TempDir()
		writeTree(t, root, map[string]string{
			"a/M.ned": "package zzz;\nsimple M;\n",
		})
		_, err := New().LoadNedSourceFolder(root, "")
		require.Error(err)
		require.Contains(err.Error(), "Could not load NED sources from")
		require.Contains(err.Error(), "Declared package 'zzz' does not match expected package 'a'")
	})

	t.Run("with package.ned", func(t *testing.T) {
		root := t.TempDir()
		writeTree(t, root, map[string]string{
			"package.ned": "package pkg;",
			"a/M.ned":     "package zzz;\nsimple M;\n",
		})
		_, err := New().LoadNedSourceFolder(root, "")
		require.Error(err)
		require.Contains(err.Error(), "Declared package 'zzz' does not match expected package 'pkg.a'")
	})

	t.Run("expected default package", func(t *testing.T) {
		root := t.TempDir()
		writeTree(t, root, map[string]string{
			"M.ned": "package zzz;\nsimple M;\n",
		})
		_, err := New().LoadNedSourceFolder(root, "")
		require.Error(err)
		require.Contains(err.Error(), "Declared package 'zzz' does not match expected package ''")
	})
}

func Test_InnerTypeResolution(t *testing.T) {
	require := require.New(t)

	cache := New()
	mustLoadText(t, cache, "Outer.ned", `
package p;
module Outer
{
    types:
        simple Inner;
        module User
        {
            submodules:
                s: Inner;
        }
}
`)
	require.NoError(cache.DoneLoadingNedFiles())
	require.Equal([]string{"p.Outer", "p.Outer.Inner", "p.Outer.User"}, cache.TypeNames())

	user, err := cache.Get("p.Outer.User")
	require.NoError(err)
	require.True(user.IsInnerType())

	// within User, the simple name Inner refers to the sibling inner type of
	// the enclosing toplevel module
	ctx := NewNedLookupContext(user.Element(), "p.Outer.User")
	require.Equal("p.Outer.Inner", cache.ResolveNedType(ctx, "Inner"))

	// and from Outer itself as well
	outer, err := cache.Get("p.Outer")
	require.NoError(err)
	require.Equal("p.Outer.Inner",
		cache.ResolveNedType(NewNedLookupContext(outer.Element(), "p.Outer"), "Inner"))
}

func Test_WildcardImport(t *testing.T) {
	require := require.New(t)

	cache := New()
	// y.Foo registers first; the wildcard still picks x.Foo because only it
	// matches the import pattern
	mustLoadText(t, cache, "y.ned", "package y;\nsimple Foo;\n")
	mustLoadText(t, cache, "x.ned", "package x;\nsimple Foo;\n")
	mustLoadText(t, cache, "w.ned", "package w;\nimport x.*;\n")
	require.NoError(cache.DoneLoadingNedFiles())

	ctx := NewNedLookupContext(cache.File("w.ned"), "")
	require.Equal("x.Foo", cache.ResolveNedType(ctx, "Foo"))
}

func Test_ExactImportBeatsWildcard(t *testing.T) {
	require := require.New(t)

	cache := New()
	mustLoadText(t, cache, "x.ned", "package x;\nsimple Foo;\n")
	mustLoadText(t, cache, "y.ned", "package y;\nsimple Foo;\n")
	mustLoadText(t, cache, "w.ned", "package w;\nimport x.*;\nimport y.Foo;\n")
	require.NoError(cache.DoneLoadingNedFiles())

	ctx := NewNedLookupContext(cache.File("w.ned"), "")
	require.Equal("y.Foo", cache.ResolveNedType(ctx, "Foo"))
}

func Test_DottedReferences(t *testing.T) {
	require := require.New(t)

	cache := New()
	mustLoadText(t, cache, "T.ned", "package a.b.sub;\nsimple T;\n")
	mustLoadText(t, cache, "w.ned", "package w;\n")
	require.NoError(cache.DoneLoadingNedFiles())

	ctx := NewNedLookupContext(cache.File("w.ned"), "")
	// fully qualified names resolve regardless of imports
	require.Equal("a.b.sub.T", cache.ResolveNedType(ctx, "a.b.sub.T"))
	// partially qualified names never do
	require.Equal("", cache.ResolveNedType(ctx, "sub.T"))
	require.Equal("", cache.ResolveNedType(ctx, "b.sub.T"))
}

func Test_DuplicatePackageNed(t *testing.T) {
	require := require.New(t)

	cache := New()
	root1 := t.TempDir()
	root2 := t.TempDir()
	writeTree(t, root1, map[string]string{"package.ned": "package common;"})
	writeTree(t, root2, map[string]string{"package.ned": "package common;"})

	_, err := cache.LoadNedSourceFolder(root1, "")
	require.NoError(err)
	_, err = cache.LoadNedSourceFolder(root2, "")
	require.NoError(err)

	err = cache.DoneLoadingNedFiles()
	require.Error(err)
	require.Contains(err.Error(), "More than one package.ned file for package 'common'")
}

func Test_Idempotence(t *testing.T) {
	require := require.New(t)

	t.Run("text", func(t *testing.T) {
		cache := New()
		mustLoadText(t, cache, "A.ned", "package p;\nsimple A;\n")
		mustLoadText(t, cache, "A.ned", "package p;\nsimple A;\n")
		require.NoError(cache.DoneLoadingNedFiles())
		require.Equal([]string{"p.A"}, cache.TypeNames())
	})

	t.Run("file after finalize", func(t *testing.T) {
		root := t.TempDir()
		writeTree(t, root, map[string]string{"A.ned": "simple A;\n"})
		cache := New()
		_, err := cache.LoadNedSourceFolder(root, "")
		require.NoError(err)
		require.NoError(cache.DoneLoadingNedFiles())
		require.Equal([]string{"A"}, cache.TypeNames())

		// a second load of the same canonical file is a no-op, not a
		// redeclaration
		require.NoError(cache.LoadNedFile(filepath.Join(root, "A.ned"), nil, false))
		require.Equal([]string{"A"}, cache.TypeNames())
	})
}

func Test_Determinism(t *testing.T) {
	require := require.New(t)

	build := func() *Cache {
		cache := New()
		mustLoadText(t, cache, "b.ned", "package m;\nsimple B extends A;\n")
		mustLoadText(t, cache, "a.ned", "package m;\nsimple A;\nsimple C;\n")
		require.NoError(cache.DoneLoadingNedFiles())
		return cache
	}

	c1, c2 := build(), build()
	require.Equal(c1.TypeNames(), c2.TypeNames())
	// dependency-first registration order, then input order
	require.Equal([]string{"m.A", "m.C", "m.B"}, c1.TypeNames())

	ctx1 := NewNedLookupContext(c1.File("b.ned"), "")
	ctx2 := NewNedLookupContext(c2.File("b.ned"), "")
	require.Equal(c1.ResolveNedType(ctx1, "C"), c2.ResolveNedType(ctx2, "C"))
}

func Test_IncrementalLoadAfterFinalize(t *testing.T) {
	require := require.New(t)

	cache := New()
	require.NoError(cache.DoneLoadingNedFiles())

	t.Run("resolvable type registers immediately", func(t *testing.T) {
		mustLoadText(t, cache, "R.ned", "package q;\nsimple R;\n")
		require.NotNil(cache.Lookup("q.R"))
	})

	t.Run("unresolvable type fails immediately, then settles", func(t *testing.T) {
		err := cache.LoadNedText("Q.ned", "package q;\nsimple Q extends S;\n", nil, false)
		require.Error(err)
		require.Contains(err.Error(), "could not be fully resolved")
		require.Nil(cache.Lookup("q.Q"))

		// loading the missing base re-runs the fixed point over the still
		// pending entries
		mustLoadText(t, cache, "S.ned", "package q;\nsimple S;\n")
		require.NotNil(cache.Lookup("q.S"))
		require.NotNil(cache.Lookup("q.Q"))
	})
}

func Test_LatePackageNed(t *testing.T) {
	require := require.New(t)

	cache := New()
	require.NoError(cache.DoneLoadingNedFiles())

	err := cache.LoadNedText("/late/package.ned", "package late;", nil, false)
	require.Error(err)
	require.Contains(err.Error(), "'package.ned' files can no longer be loaded at this point")
}

func Test_Misuse(t *testing.T) {
	require := require.New(t)

	t.Run("double finalize", func(t *testing.T) {
		cache := New()
		require.NoError(cache.DoneLoadingNedFiles())
		require.ErrorIs(cache.DoneLoadingNedFiles(), ErrDoneLoadingCalledTwice)
	})

	t.Run("empty file name", func(t *testing.T) {
		cache := New()
		require.ErrorIs(cache.LoadNedFile("", nil, false), ErrFileNameIsEmpty)
		require.ErrorIs(cache.LoadNedText("", "simple A;", nil, false), ErrFileNameIsEmpty)
	})

	t.Run("XML text", func(t *testing.T) {
		cache := New()
		require.ErrorIs(cache.LoadNedText("a.xml", "<ned-file/>", nil, true), ErrXMLTextNotSupported)
	})
}

func Test_Redeclaration(t *testing.T) {
	require := require.New(t)

	cache := New()
	mustLoadText(t, cache, "1.ned", "package p;\nsimple B;\n")
	mustLoadText(t, cache, "2.ned", "package p;\nsimple B;\n")
	err := cache.DoneLoadingNedFiles()
	require.Error(err)
	require.Contains(err.Error(), "Redeclaration of simple-module p.B")
}

func Test_ExcludedPackages(t *testing.T) {
	require := require.New(t)

	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"keep/K.ned": "package keep;\nsimple K;\n",
		"skip/S.ned": "package skip;\nsimple S;\n",
	})

	cache := New()
	count, err := cache.LoadNedSourceFolder(root, "skip; ;")
	require.NoError(err)
	require.Equal(1, count)
	require.NoError(cache.DoneLoadingNedFiles())
	require.NotNil(cache.Lookup("keep.K"))
	require.Nil(cache.Lookup("skip.S"))
}

func Test_SourceFolderMapping(t *testing.T) {
	require := require.New(t)

	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"package.ned":    "package psrc;",
		"sub/deep/N.ned": "package psrc.sub.deep;\nsimple N;\n",
	})

	cache := New()
	_, err := cache.LoadNedSourceFolder(root, "")
	require.NoError(err)

	canonicalRoot, cerr := canonicalize(root)
	require.NoError(cerr)

	require.Equal(canonicalRoot, cache.NedSourceFolderForFolder(root))
	require.Equal(canonicalRoot, cache.NedSourceFolderForFolder(filepath.Join(root, "sub", "deep")))
	require.Equal("", cache.NedSourceFolderForFolder(t.TempDir()))

	// round trip: the source folder itself maps to its root package
	require.Equal("psrc", cache.NedPackageForFolder(cache.NedSourceFolderForFolder(root)))
	require.Equal("psrc.sub.deep", cache.NedPackageForFolder(filepath.Join(root, "sub", "deep")))
	require.Equal("", cache.NedPackageForFolder(t.TempDir()))

	t.Run("nested source folders are rejected", func(t *testing.T) {
		_, err := cache.LoadNedSourceFolder(filepath.Join(root, "sub"), "")
		require.Error(err)
		require.Contains(err.Error(), "nested")
	})

	t.Run("default root package", func(t *testing.T) {
		bare := t.TempDir()
		writeTree(t, bare, map[string]string{"sub/M.ned": "package sub;\nsimple M;\n"})
		c := New()
		_, err := c.LoadNedSourceFolder(bare, "")
		require.NoError(err)
		require.Equal("sub", c.NedPackageForFolder(filepath.Join(bare, "sub")))
	})
}

func Test_Builtins(t *testing.T) {
	require := require.New(t)

	cache := New()
	require.NoError(cache.RegisterBuiltinDeclarations())
	require.NoError(cache.DoneLoadingNedFiles())

	for _, qname := range []string{
		"ned.IBidirectionalChannel", "ned.IUnidirectionalChannel",
		"ned.IdealChannel", "ned.DelayChannel", "ned.DatarateChannel",
	} {
		require.NotNil(cache.Lookup(qname), qname)
	}

	delay, err := cache.Get("ned.DelayChannel")
	require.NoError(err)
	require.Equal([]string{"ned.IBidirectionalChannel", "ned.IUnidirectionalChannel"}, delay.InterfaceNames())

	// the synthetic file is a package.ned, so it acts as the marker of the
	// built-in package
	require.NotNil(cache.PackageNedFile("ned"))
}

func Test_PackageNedListForLookup(t *testing.T) {
	require := require.New(t)

	cache := New()
	mustLoadText(t, cache, "/r/package.ned", "")
	mustLoadText(t, cache, "/r/a/package.ned", "package a;")
	mustLoadText(t, cache, "/r/a/b/package.ned", "package a.b;")
	require.NoError(cache.DoneLoadingNedFiles())

	chain := cache.PackageNedListForLookup("a.b")
	require.Len(chain, 3)
	require.Equal(cache.PackageNedFile("a.b"), chain[0])
	require.Equal(cache.PackageNedFile("a"), chain[1])
	require.Equal(cache.PackageNedFile(""), chain[2])

	// a package without markers of its own still inherits the chain
	chain = cache.PackageNedListForLookup("a.b.c.d")
	require.Len(chain, 3)

	require.Len(cache.PackageNedListForLookup("elsewhere"), 1) // root marker only
}

func Test_LoadXMLFile(t *testing.T) {
	require := require.New(t)

	dir := t.TempDir()
	xmlFile := filepath.Join(dir, "net.xml")
	require.NoError(os.WriteFile(xmlFile, []byte(
		`<ned-file filename="net.xml">
    <package name="p"/>
    <simple-module name="A">
        <extends name="B"/>
    </simple-module>
    <simple-module name="B"/>
</ned-file>`), 0o600))

	cache := New()
	require.NoError(cache.LoadNedFile(xmlFile, nil, true))
	require.NoError(cache.DoneLoadingNedFiles())

	require.NotNil(cache.Lookup("p.A"))
	a, err := cache.Get("p.A")
	require.NoError(err)
	require.Equal([]string{"p.B"}, a.ExtendsNames())
}
