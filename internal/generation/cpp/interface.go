package cpp

import (
	"strconv"

	"idlgen/internal/generation"
)

// EmitInterface writes the abstract interface header.
func (d *Dialect) EmitInterface(ctx *generation.Context) error {
	f := newFile(ctx)
	f.systemInclude("iremote_broker.h")
	names := ctx.Names
	w := f.body

	w.Block("class "+names.Interface+" : public IRemoteBroker", ";", func() {
		w.Dedent()
		w.Line("public:")
		w.Indent()
		w.Linef("DECLARE_INTERFACE_DESCRIPTOR(u\"%s\");", names.Descriptor)
		for i := range ctx.Interface.Methods {
			m := &ctx.Interface.Methods[i]
			w.Blank()
			f.signature(w, "virtual ErrCode "+m.Name, m, " = 0;")
		}
		w.Dedent()
		w.Line("protected:")
		w.Indent()
		for _, c := range []string{"VECTOR_MAX_SIZE", "LIST_MAX_SIZE", "MAP_MAX_SIZE"} {
			w.Line("const int " + c + " = " + strconv.Itoa(MaxContainerSize) + ";")
		}
	})

	return f.save(names.InterfaceFile+".h", names.InterfaceMacro)
}
