/*
* Copyright (c) 2023-present unTill Pro, Ltd.
* @author Maxim Geraskin
 */

package nedres

import (
	"errors"
	"fmt"
	"strings"
)

var ErrDoneLoadingCalledTwice = errors.New("DoneLoadingNedFiles() may only be called once")
var ErrFileNameIsEmpty = errors.New("file name must not be empty")
var ErrXMLTextNotSupported = errors.New("LoadNedText(): parsing XML from a string is not supported")

func ErrCouldNotLoadFolder(folder string, cause error) error {
	return fmt.Errorf("Could not load NED sources from '%s': %w", folder, cause)
}

func ErrNestedSourceFolder(folder, existing string) error {
	return fmt.Errorf("NED source folder '%s' is nested with already loaded folder '%s'", folder, existing)
}

func ErrLatePackageNedFile(fileName string) error {
	return fmt.Errorf("Cannot load %s: 'package.ned' files can no longer be loaded at this point", fileName)
}

func ErrDeclaredPackageMismatch(declared, expected, fileName string) error {
	return fmt.Errorf("Declared package '%s' does not match expected package '%s' in file %s", declared, expected, fileName)
}

func ErrDuplicatePackageNedFile(packageName, file1, file2 string) error {
	qualifier := ""
	if packageName == "" {
		qualifier = " (the default package)"
	}
	return fmt.Errorf("More than one package.ned file for package '%s'%s: '%s' and '%s'", packageName, qualifier, file1, file2)
}

func ErrFileAlreadyAdded(fileName string) error {
	return fmt.Errorf("NED file '%s' is already added", fileName)
}

func ErrRedeclaration(tagName, qname, location string) error {
	if location != "" {
		return fmt.Errorf("Redeclaration of %s %s, at %s", tagName, qname, location)
	}
	return fmt.Errorf("Redeclaration of %s %s", tagName, qname)
}

func ErrUnresolvedType(qname, location string) error {
	if location != "" {
		return fmt.Errorf("NED type '%s' could not be fully resolved due to a missing base type or interface, at %s", qname, location)
	}
	return fmt.Errorf("NED type '%s' could not be fully resolved due to a missing base type or interface", qname)
}

func ErrUnresolvedTypes(qnames []string) error {
	return fmt.Errorf("The following NED types could not be fully resolved due to a missing base type or interface: %s", strings.Join(qnames, ", "))
}

func ErrDeclarationNotFound(qname string) error {
	return fmt.Errorf("NED declaration '%s' not found", qname)
}

func ErrCannotParseBuiltins(cause error) error {
	return fmt.Errorf("cannot parse built-in declarations: %w", cause)
}
