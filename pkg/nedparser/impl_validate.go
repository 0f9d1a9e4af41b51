/*
* Copyright (c) 2023-present unTill Pro, Ltd.
* @author Michael Saigachenko
 */

package nedparser

import (
	"regexp"
	"strings"

	"golang.org/x/exp/slices"

	"github.com/nedlang/nedxml/pkg/nedast"
)

// permittedChildren is the structural schema of the AST: which tags may
// appear as direct children of which.
var permittedChildren = map[nedast.Tag][]nedast.Tag{
	nedast.TagFile: {
		nedast.TagComment, nedast.TagPackage, nedast.TagImport, nedast.TagProperty,
		nedast.TagSimpleModule, nedast.TagCompoundModule, nedast.TagChannel,
		nedast.TagModuleInterface, nedast.TagChannelInterface,
	},
	nedast.TagSimpleModule: {
		nedast.TagExtends, nedast.TagInterfaceName, nedast.TagParameters, nedast.TagGates,
	},
	nedast.TagCompoundModule: {
		nedast.TagExtends, nedast.TagInterfaceName, nedast.TagTypes, nedast.TagParameters,
		nedast.TagGates, nedast.TagSubmodules, nedast.TagConnections,
	},
	nedast.TagChannel: {
		nedast.TagExtends, nedast.TagInterfaceName, nedast.TagParameters,
	},
	nedast.TagModuleInterface: {
		nedast.TagExtends, nedast.TagParameters, nedast.TagGates,
	},
	nedast.TagChannelInterface: {
		nedast.TagExtends, nedast.TagParameters,
	},
	nedast.TagTypes: {
		nedast.TagSimpleModule, nedast.TagCompoundModule, nedast.TagChannel,
		nedast.TagModuleInterface, nedast.TagChannelInterface,
	},
	nedast.TagParameters:  {nedast.TagProperty, nedast.TagParam},
	nedast.TagGates:       {nedast.TagGate},
	nedast.TagSubmodules:  {nedast.TagSubmodule},
	nedast.TagSubmodule:   {nedast.TagParameters, nedast.TagGates},
	nedast.TagConnections: {nedast.TagConnection},
}

// requiredAttrs lists attributes every element of a tag must carry.
var requiredAttrs = map[nedast.Tag][]string{
	nedast.TagPackage:          {"name"},
	nedast.TagImport:           {"import-spec"},
	nedast.TagProperty:         {"name"},
	nedast.TagSimpleModule:     {"name"},
	nedast.TagCompoundModule:   {"name"},
	nedast.TagChannel:          {"name"},
	nedast.TagModuleInterface:  {"name"},
	nedast.TagChannelInterface: {"name"},
	nedast.TagExtends:          {"name"},
	nedast.TagInterfaceName:    {"name"},
	nedast.TagParam:            {"name"},
	nedast.TagGate:             {"name", "type"},
	nedast.TagSubmodule:        {"name"},
}

// validateDTD checks the tree against the structural schema. The first
// violation is recorded and validation stops.
func validateDTD(root *nedast.Element, errs *ErrorStore) {
	if root.Tag() != nedast.TagFile {
		errs.AddError(root.SourceLocation(), "root element must be '%s', not '%s'", nedast.TagFile, root.Tag())
		return
	}
	validateElementDTD(root, errs)
}

func validateElementDTD(e *nedast.Element, errs *ErrorStore) {
	if errs.ContainsError() {
		return
	}
	for _, attr := range requiredAttrs[e.Tag()] {
		if e.Attr(attr) == "" {
			errs.AddError(e.SourceLocation(), "element '%s' lacks required attribute '%s'", e.Tag(), attr)
			return
		}
	}
	permitted := permittedChildren[e.Tag()]
	for child := e.FirstChild(); child != nil; child = child.NextSibling() {
		if !slices.Contains(permitted, child.Tag()) {
			errs.AddError(child.SourceLocation(), "element '%s' is not permitted within '%s'", child.Tag(), e.Tag())
			return
		}
		validateElementDTD(child, errs)
	}
}

var identRegexp = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

func isValidIdentifier(s string) bool {
	return identRegexp.MatchString(s)
}

func isValidDottedName(s string) bool {
	if s == "" {
		return false
	}
	for _, segment := range strings.Split(s, ".") {
		if !isValidIdentifier(segment) {
			return false
		}
	}
	return true
}

// validateSyntax checks attribute well-formedness beyond the structural
// schema: identifiers, package names, import specs.
func validateSyntax(root *nedast.Element, errs *ErrorStore) {
	var walk func(e *nedast.Element)
	walk = func(e *nedast.Element) {
		if errs.ContainsError() {
			return
		}
		switch e.Tag() {
		case nedast.TagPackage:
			if !isValidDottedName(e.Attr("name")) {
				errs.AddError(e.SourceLocation(), "invalid package name '%s'", e.Attr("name"))
				return
			}
		case nedast.TagImport:
			spec := e.Attr("import-spec")
			if spec == "" || strings.HasPrefix(spec, ".") || strings.HasSuffix(spec, ".") || strings.Contains(spec, "..") {
				errs.AddError(e.SourceLocation(), "invalid import spec '%s'", spec)
				return
			}
		case nedast.TagSimpleModule, nedast.TagCompoundModule, nedast.TagChannel,
			nedast.TagModuleInterface, nedast.TagChannelInterface:
			if !isValidIdentifier(e.Attr("name")) {
				errs.AddError(e.SourceLocation(), "invalid type name '%s'", e.Attr("name"))
				return
			}
		case nedast.TagExtends, nedast.TagInterfaceName:
			if !isValidDottedName(e.Attr("name")) {
				errs.AddError(e.SourceLocation(), "invalid type reference '%s'", e.Attr("name"))
				return
			}
		}
		for child := e.FirstChild(); child != nil; child = child.NextSibling() {
			walk(child)
		}
	}
	walk(root)
}
