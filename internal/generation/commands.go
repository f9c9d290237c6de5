package generation

import (
	"idlgen/internal/metadata"
	"idlgen/internal/naming"
)

// DefaultBaseCommand is the id of the first method of every interface.
const DefaultBaseCommand uint32 = 1

// Command binds a method to the id it is invoked with on the wire.
type Command struct {
	Index  int
	ID     uint32
	Method *metadata.Method
	// Constant is the upper snake case method name, e.g. COMMAND_GET_VALUE.
	Constant string
}

// Commands numbers the methods of iface in declaration order starting at base.
// The id of a method depends only on its position in iface.Methods.
func Commands(iface *metadata.Interface, base uint32) []Command {
	commands := make([]Command, len(iface.Methods))
	for i := range iface.Methods {
		m := &iface.Methods[i]
		commands[i] = Command{
			Index:    i,
			ID:       base + uint32(i),
			Method:   m,
			Constant: "COMMAND_" + naming.ConstantName(m.Name),
		}
	}
	return commands
}
