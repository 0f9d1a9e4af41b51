/*
* Copyright (c) 2023-present unTill Pro, Ltd.
* @author Michael Saigachenko
 */
package nedparser

import (
	"errors"
	"fmt"
	"os"

	"github.com/alecthomas/participle/v2"

	"github.com/nedlang/nedxml/pkg/nedast"
)

// ParseAndValidateFile parses a NED source file (text form, or the XML AST
// form when isXML is set), runs DTD and syntax validation and returns the
// file element tree. The first diagnostic with error severity aborts the
// parse and is surfaced as the returned error.
func ParseAndValidateFile(fileName string, isXML bool) (*nedast.Element, error) {
	var errs ErrorStore
	var root *nedast.Element
	if isXML {
		root = parseXMLImpl(fileName, &errs)
	} else {
		content, err := os.ReadFile(fileName)
		if err != nil {
			return nil, fmt.Errorf("cannot open '%s': %w", fileName, err)
		}
		root = parseTextImpl(fileName, string(content), &errs)
	}
	return validateParsed(fileName, root, &errs)
}

// ParseAndValidateText is ParseAndValidateFile for in-memory sources; name is
// the virtual file name used in diagnostics and source locations.
func ParseAndValidateText(name, text string) (*nedast.Element, error) {
	var errs ErrorStore
	root := parseTextImpl(name, text, &errs)
	return validateParsed(name, root, &errs)
}

func parseTextImpl(fileName, content string, errs *ErrorStore) *nedast.Element {
	ast, err := parseImpl(fileName, content)
	if err != nil {
		var perr participle.Error
		if errors.As(err, &perr) {
			pos := perr.Position()
			errs.AddError(fmt.Sprintf("%s:%d", pos.Filename, pos.Line), "syntax error, %s", perr.Message())
		} else {
			errs.AddError(fileName, "%s", err.Error())
		}
		return nil
	}
	root := compose(ast)
	if root.SourceFile() == "" {
		// an input with no tokens leaves the position zero valued
		root.SetSourceLocation(fileName, 1, 1)
		root.SetAttr("filename", fileName)
	}
	return root
}

func validateParsed(fileName string, root *nedast.Element, errs *ErrorStore) (*nedast.Element, error) {
	if errs.ContainsError() {
		return nil, errs.FirstError("")
	}

	validateDTD(root, errs)
	if errs.ContainsError() {
		return nil, errs.FirstError("NED internal DTD validation failure: ")
	}

	validateSyntax(root, errs)
	if errs.ContainsError() {
		return nil, errs.FirstError("")
	}

	if root.Tag() != nedast.TagFile {
		return nil, fmt.Errorf("<%s> expected as root element, in file %s", nedast.TagFile, fileName)
	}
	return root, nil
}
