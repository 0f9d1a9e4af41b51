/*
* Copyright (c) 2023-present unTill Pro, Ltd.
* @author Maxim Geraskin
 */

package nedres

import (
	"os"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/untillpro/goutils/logger"
	"golang.org/x/exp/slices"

	"github.com/nedlang/nedxml/pkg/nedast"
	"github.com/nedlang/nedxml/pkg/nedparser"
)

const (
	packageNedName = "package.ned"
	nedFileSuffix  = ".ned"

	// synthetic file key of the built-in declarations; named package.ned so
	// that its package-level properties take part in marker lookup
	builtinDeclarationsKey = "/[built-in-declarations]/package.ned"
)

// Cache loads NED source trees and indexes the types they declare by fully
// qualified name. It is single-threaded by contract: one owner drives all
// loads, the finalize call and lookups.
type Cache struct {
	// canonical file name -> owned file AST
	files     map[string]*nedast.Element
	loadOrder []string

	// package name -> package.ned file AST, populated by DoneLoadingNedFiles
	packageNedFiles map[string]*nedast.Element

	// canonical source folder -> its root package
	folderPackages map[string]string
	folderOrder    []string

	// fully qualified name -> registered type, plus registration order
	types     map[string]*TypeInfo
	typeOrder []string

	// lazily rebuilt listing returned by TypeNames, nil when invalidated
	typeNamesCache []string

	pendingList []pendingNedType

	doneCalled bool

	resolveCache *lru.Cache[resolveKey, string]
}

// RegisterBuiltinDeclarations parses the built-in primitive type declarations
// and adds them under a synthetic file key, bypassing the filesystem.
func (c *Cache) RegisterBuiltinDeclarations() error {
	tree, err := nedparser.ParseAndValidateText(builtinDeclarationsKey, nedparser.BuiltinDeclarations())
	if err != nil {
		return ErrCannotParseBuiltins(err)
	}
	return c.addFile(builtinDeclarationsKey, tree)
}

// LoadNedSourceFolder loads every .ned file under folderName, depth first.
// excludedPackagesStr is a ';'-separated list of package names to skip; the
// root package cannot be excluded. Returns the number of files loaded.
func (c *Cache) LoadNedSourceFolder(folderName, excludedPackagesStr string) (int, error) {
	count, err := c.loadNedSourceFolder(folderName, excludedPackagesStr)
	if err != nil {
		return count, ErrCouldNotLoadFolder(folderName, err)
	}
	logger.Verbose("loaded", count, "NED files from", folderName)
	return count, nil
}

func (c *Cache) loadNedSourceFolder(folderName, excludedPackagesStr string) (int, error) {
	excludedPackages := splitExcludedPackages(excludedPackagesStr)

	canonicalFolderName, err := canonicalize(folderName)
	if err != nil {
		return 0, err
	}
	for _, existing := range c.folderOrder {
		if existing == canonicalFolderName {
			continue
		}
		if isPathPrefixOf(existing, canonicalFolderName) || isPathPrefixOf(canonicalFolderName, existing) {
			return 0, ErrNestedSourceFolder(canonicalFolderName, existing)
		}
	}

	rootPackageName, err := c.determineRootPackageName(canonicalFolderName)
	if err != nil {
		return 0, err
	}
	if _, ok := c.folderPackages[canonicalFolderName]; !ok {
		c.folderOrder = append(c.folderOrder, canonicalFolderName)
	}
	c.folderPackages[canonicalFolderName] = rootPackageName

	return c.doLoadNedSourceFolder(canonicalFolderName, rootPackageName, excludedPackages)
}

func (c *Cache) doLoadNedSourceFolder(folderName, expectedPackage string, excludedPackages []string) (int, error) {
	// the root package "" cannot be excluded
	if expectedPackage != "" && slices.Contains(excludedPackages, expectedPackage) {
		return 0, nil
	}

	restore, err := pushDir(folderName)
	if err != nil {
		return 0, err
	}
	defer restore()

	entries, err := os.ReadDir(".")
	if err != nil {
		return 0, err
	}

	count := 0
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}
		if entry.IsDir() {
			n, err := c.doLoadNedSourceFolder(folderName+"/"+name, joinPackage(expectedPackage, name), excludedPackages)
			count += n
			if err != nil {
				return count, err
			}
		} else if strings.HasSuffix(name, nedFileSuffix) {
			// relative name: canonicalization resolves it against the folder
			// the surrounding pushDir scope put us in
			if err := c.doLoadNedFileOrText(name, "", false, &expectedPackage, false); err != nil {
				return count, err
			}
			count++
		}
	}
	return count, nil
}

// determineRootPackageName reads the package declaration of the folder's
// package.ned, "" if the folder has no package.ned.
func (c *Cache) determineRootPackageName(canonicalFolderName string) (string, error) {
	packageNedFilename := canonicalFolderName + "/" + packageNedName
	if _, err := os.Stat(packageNedFilename); err != nil {
		return "", nil
	}
	tree, err := nedparser.ParseAndValidateFile(packageNedFilename, false)
	if err != nil {
		return "", err
	}
	return declaredPackageOf(tree), nil
}

// LoadNedFile loads a single NED file. A nil expectedPackage skips the
// declared-package check.
func (c *Cache) LoadNedFile(fileName string, expectedPackage *string, isXML bool) error {
	if fileName == "" {
		return ErrFileNameIsEmpty
	}
	return c.doLoadNedFileOrText(fileName, "", false, expectedPackage, isXML)
}

// LoadNedText loads NED source from memory under a virtual file name. XML
// input is not supported for text sources.
func (c *Cache) LoadNedText(name, nedText string, expectedPackage *string, isXML bool) error {
	if name == "" {
		return ErrFileNameIsEmpty
	}
	if isXML {
		return ErrXMLTextNotSupported
	}
	return c.doLoadNedFileOrText(name, nedText, true, expectedPackage, false)
}

func (c *Cache) doLoadNedFileOrText(fileName, nedText string, haveText bool, expectedPackage *string, isXML bool) error {
	// text sources keep the name as given, so that virtual names survive
	canonicalFilename := fileName
	if !haveText {
		var err error
		if canonicalFilename, err = canonicalize(fileName); err != nil {
			return err
		}
	}
	if _, ok := c.files[canonicalFilename]; ok {
		return nil // already loaded
	}

	if c.doneCalled && isPackageNedFile(canonicalFilename) {
		// late markers could still contribute e.g. @namespace
		return ErrLatePackageNedFile(canonicalFilename)
	}

	var tree *nedast.Element
	var err error
	if haveText {
		tree, err = nedparser.ParseAndValidateText(canonicalFilename, nedText)
	} else {
		tree, err = nedparser.ParseAndValidateFile(canonicalFilename, isXML)
	}
	if err != nil {
		return err
	}

	declaredPackage := declaredPackageOf(tree)
	if expectedPackage != nil && declaredPackage != *expectedPackage {
		return ErrDeclaredPackageMismatch(declaredPackage, *expectedPackage, fileName)
	}

	if err := c.addFile(canonicalFilename, tree); err != nil {
		return err
	}
	logger.Verbose("loaded NED file", canonicalFilename)

	// after DoneLoadingNedFiles, resolving cannot be deferred any more
	if c.doneCalled {
		packagePrefix := ""
		if declaredPackage != "" {
			packagePrefix = declaredPackage + "."
		}
		c.collectNedTypesFrom(tree, packagePrefix, false)
		return c.registerPendingNedTypes()
	}
	return nil
}

func (c *Cache) addFile(fileName string, node *nedast.Element) error {
	if _, ok := c.files[fileName]; ok {
		return ErrFileAlreadyAdded(fileName)
	}
	c.files[fileName] = node
	c.loadOrder = append(c.loadOrder, fileName)
	return nil
}

func declaredPackageOf(fileNode *nedast.Element) string {
	if pkg := fileNode.FirstChildWithTag(nedast.TagPackage); pkg != nil {
		return pkg.Attr("name")
	}
	return ""
}

// DoneLoadingNedFiles finalizes loading: indexes the package.ned markers,
// collects the types declared by every loaded file and registers them to a
// fixed point. May be called exactly once; files loaded afterwards are
// collected and registered immediately.
func (c *Cache) DoneLoadingNedFiles() error {
	if c.doneCalled {
		return ErrDoneLoadingCalledTwice
	}
	c.doneCalled = true

	// collect package.ned files
	for _, fileName := range c.loadOrder {
		if !isPackageNedFile(fileName) {
			continue
		}
		nedFile := c.files[fileName]
		packageName := declaredPackageOf(nedFile)
		if prev, ok := c.packageNedFiles[packageName]; ok {
			return ErrDuplicatePackageNedFile(packageName, prev.SourceFile(), fileName)
		}
		c.packageNedFiles[packageName] = nedFile
	}

	// collect types from the loaded files
	for _, fileName := range c.loadOrder {
		nedFile := c.files[fileName]
		packagePrefix := ""
		if pkg := declaredPackageOf(nedFile); pkg != "" {
			packagePrefix = pkg + "."
		}
		c.collectNedTypesFrom(nedFile, packagePrefix, false)
	}

	return c.registerPendingNedTypes()
}

// collectNedTypesFrom appends the types declared by the direct children of
// node to the pending list. Inner types are exactly the declarations nested
// in a compound module's types block; no other nesting exists.
func (c *Cache) collectNedTypesFrom(node *nedast.Element, packagePrefix string, areInnerTypes bool) {
	for child := node.FirstChild(); child != nil; child = child.NextSibling() {
		if !nedast.IsTypeTag(child.Tag()) {
			continue
		}
		qname := packagePrefix + child.Attr("name")
		c.pendingList = append(c.pendingList, pendingNedType{qname: qname, isInnerType: areInnerTypes, node: child})

		if types := child.FirstChildWithTag(nedast.TagTypes); types != nil {
			c.collectNedTypesFrom(types, qname+".", true)
		}
	}
}

// registerPendingNedTypes registers every pending type whose dependencies are
// already registered, repeating until a full pass makes no progress. Types
// still pending after that have a missing base type or interface.
func (c *Cache) registerPendingNedTypes() error {
	again := true
	for again {
		again = false
		for i := 0; i < len(c.pendingList); i++ {
			pending := c.pendingList[i]
			if !c.areDependenciesResolved(pending.qname, pending.node) {
				continue
			}
			if c.Lookup(pending.qname) != nil {
				return ErrRedeclaration(pending.node.Tag().String(), pending.qname, pending.node.SourceLocation())
			}
			c.registerNedType(pending.qname, pending.isInnerType, pending.node)
			c.pendingList = append(c.pendingList[:i], c.pendingList[i+1:]...)
			i--
			again = true
		}
	}

	if len(c.pendingList) == 0 {
		return nil
	}
	if len(c.pendingList) == 1 {
		return ErrUnresolvedType(c.pendingList[0].qname, c.pendingList[0].node.SourceLocation())
	}
	names := make([]string, len(c.pendingList))
	for i := range c.pendingList {
		names[i] = c.pendingList[i].qname
	}
	return ErrUnresolvedTypes(names)
}

// areDependenciesResolved reports whether every base type and interface the
// node references resolves against the already registered types.
func (c *Cache) areDependenciesResolved(qname string, node *nedast.Element) bool {
	context := c.parentContextOf(qname, node)
	for child := node.FirstChild(); child != nil; child = child.NextSibling() {
		if child.Tag() != nedast.TagExtends && child.Tag() != nedast.TagInterfaceName {
			continue
		}
		if c.ResolveNedType(context, child.Attr("name")) == "" {
			return false
		}
	}
	return true
}

func (c *Cache) registerNedType(qname string, isInnerType bool, node *nedast.Element) {
	info := &TypeInfo{qname: qname, isInnerType: isInnerType, node: node}

	// the registrar only promotes types whose dependencies resolve, so the
	// resolved names can be fixed right away
	context := c.parentContextOf(qname, node)
	for child := node.FirstChild(); child != nil; child = child.NextSibling() {
		switch child.Tag() {
		case nedast.TagExtends:
			info.extendsNames = append(info.extendsNames, c.ResolveNedType(context, child.Attr("name")))
		case nedast.TagInterfaceName:
			info.interfaceNames = append(info.interfaceNames, c.ResolveNedType(context, child.Attr("name")))
		}
	}

	c.types[qname] = info
	c.typeOrder = append(c.typeOrder, qname)
	c.typeNamesCache = nil // invalidate
	c.resolveCache.Purge()
}

// Lookup returns the registered type for a fully qualified name, nil if
// absent.
func (c *Cache) Lookup(qname string) *TypeInfo {
	return c.types[qname]
}

// Get returns the registered type for a fully qualified name, failing if it
// is absent.
func (c *Cache) Get(qname string) (*TypeInfo, error) {
	info := c.Lookup(qname)
	if info == nil {
		return nil, ErrDeclarationNotFound(qname)
	}
	return info, nil
}

// TypeNames returns every registered fully qualified name in registration
// order. The listing is cached and rebuilt lazily after registrations.
func (c *Cache) TypeNames() []string {
	if c.typeNamesCache == nil && len(c.typeOrder) > 0 {
		c.typeNamesCache = make([]string, len(c.typeOrder))
		copy(c.typeNamesCache, c.typeOrder)
	}
	return c.typeNamesCache
}

// File returns the AST of a loaded file, nil if not loaded.
func (c *Cache) File(fileName string) *nedast.Element {
	if tree, ok := c.files[fileName]; ok {
		return tree
	}
	canonicalFilename, err := canonicalize(fileName)
	if err != nil {
		return nil
	}
	return c.files[canonicalFilename]
}

// PackageNedFile returns the package.ned AST of a package, nil if none. Only
// populated once DoneLoadingNedFiles has run.
func (c *Cache) PackageNedFile(packageName string) *nedast.Element {
	return c.packageNedFiles[packageName]
}

// PackageNedListForLookup returns the package.ned files of packageName, its
// parent package and so on down to the root package. Consumers use the chain
// to inherit package-level properties such as @namespace.
func (c *Cache) PackageNedListForLookup(packageName string) []*nedast.Element {
	var result []*nedast.Element
	pkg := packageName
	for {
		if nedFile, ok := c.packageNedFiles[pkg]; ok {
			result = append(result, nedFile)
		}
		if pkg == "" {
			return result
		}
		pkg = parentPackage(pkg)
	}
}

// NedSourceFolderForFolder returns the loaded source folder that is a path
// prefix of folder, "" if none. Unambiguous because source folders are not
// nested.
func (c *Cache) NedSourceFolderForFolder(folder string) string {
	folderName, err := canonicalize(folder)
	if err != nil {
		return ""
	}
	for _, sourceFolder := range c.folderOrder {
		if isPathPrefixOf(sourceFolder, folderName) {
			return sourceFolder
		}
	}
	return ""
}

// NedPackageForFolder returns the package folder maps to: the containing
// source folder's root package joined with the relative sub-path, '/'
// converted to '.'. Returns "" if no loaded source folder contains folder.
func (c *Cache) NedPackageForFolder(folder string) string {
	sourceFolder := c.NedSourceFolderForFolder(folder)
	if sourceFolder == "" {
		return ""
	}
	folderName, err := canonicalize(folder)
	if err != nil {
		return ""
	}
	suffix := strings.TrimPrefix(folderName[len(sourceFolder):], "/")
	subpackage := strings.ReplaceAll(suffix, "/", ".")
	return joinPackage(c.folderPackages[sourceFolder], subpackage)
}
