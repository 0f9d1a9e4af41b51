/*
* Copyright (c) 2023-present unTill Pro, Ltd.
* @author Michael Saigachenko
 */

package nedparser

// builtinDeclarations is the NED source of the primitive types every
// simulation relies on. It is registered under a synthetic package.ned so
// that its package-level properties participate in marker lookup.
const builtinDeclarations = `//
// The built-in declarations of the primitive channel and channel
// interface types.
//
package ned;

channelinterface IBidirectionalChannel;

channelinterface IUnidirectionalChannel;

channel IdealChannel like IBidirectionalChannel, IUnidirectionalChannel;

channel DelayChannel like IBidirectionalChannel, IUnidirectionalChannel
{
    parameters:
        bool disabled = false;
        double delay = 0;
}

channel DatarateChannel like IBidirectionalChannel, IUnidirectionalChannel
{
    parameters:
        bool disabled = false;
        double delay = 0;
        double datarate = 0;
        double ber = 0;
        double per = 0;
}
`

// BuiltinDeclarations returns the NED source of the built-in type
// declarations.
func BuiltinDeclarations() string {
	return builtinDeclarations
}
