/*
* Copyright (c) 2023-present unTill Pro, Ltd.
* @author Michael Saigachenko
 */

package nedast

// Tag identifies the kind of an AST element.
type Tag int

const (
	TagUnknown Tag = iota
	TagFile
	TagComment
	TagPackage
	TagImport
	TagProperty
	TagSimpleModule
	TagCompoundModule
	TagChannel
	TagModuleInterface
	TagChannelInterface
	TagExtends
	TagInterfaceName
	TagTypes
	TagParameters
	TagParam
	TagGates
	TagGate
	TagSubmodules
	TagSubmodule
	TagConnections
	TagConnection
)

var tagNames = map[Tag]string{
	TagUnknown:          "unknown",
	TagFile:             "ned-file",
	TagComment:          "comment",
	TagPackage:          "package",
	TagImport:           "import",
	TagProperty:         "property",
	TagSimpleModule:     "simple-module",
	TagCompoundModule:   "compound-module",
	TagChannel:          "channel",
	TagModuleInterface:  "module-interface",
	TagChannelInterface: "channel-interface",
	TagExtends:          "extends",
	TagInterfaceName:    "interface-name",
	TagTypes:            "types",
	TagParameters:       "parameters",
	TagParam:            "param",
	TagGates:            "gates",
	TagGate:             "gate",
	TagSubmodules:       "submodules",
	TagSubmodule:        "submodule",
	TagConnections:      "connections",
	TagConnection:       "connection",
}

var tagsByName = func() map[string]Tag {
	m := make(map[string]Tag, len(tagNames))
	for tag, name := range tagNames {
		m[name] = tag
	}
	return m
}()

func (t Tag) String() string {
	if name, ok := tagNames[t]; ok {
		return name
	}
	return tagNames[TagUnknown]
}

// TagByName returns the tag for its canonical element name, TagUnknown if the
// name is not known.
func TagByName(name string) Tag {
	return tagsByName[name]
}

// IsTypeTag reports whether t declares a NED type.
func IsTypeTag(t Tag) bool {
	switch t {
	case TagSimpleModule, TagCompoundModule, TagChannel, TagModuleInterface, TagChannelInterface:
		return true
	}
	return false
}
