package cpp

import (
	"strings"

	"idlgen/internal/codewriter"
	"idlgen/internal/generation"
	"idlgen/internal/metadata"
	"idlgen/internal/naming"
)

// EmitInterfaceStub writes the stub class header and its dispatch routine.
func (d *Dialect) EmitInterfaceStub(ctx *generation.Context) error {
	if err := stubHeader(ctx); err != nil {
		return err
	}
	return stubSource(ctx)
}

func stubHeader(ctx *generation.Context) error {
	f := newFile(ctx)
	f.localInclude(ctx.Names.InterfaceFile + ".h")
	f.systemInclude("iremote_stub.h")
	names := ctx.Names
	w := f.body

	w.Block("class "+names.Stub+" : public IRemoteStub<"+names.Interface+">", ";", func() {
		w.Dedent()
		w.Line("public:")
		w.Indent()
		onRemoteRequestSignature(w, "OnRemoteRequest", " override;")
		if len(ctx.Commands) > 0 {
			w.Blank()
			w.Dedent()
			w.Line("private:")
			w.Indent()
			f.commandConstants(w)
		}
	})

	return f.save(names.StubFile+".h", names.StubMacro)
}

func onRemoteRequestSignature(w *codewriter.Writer, name, tail string) {
	w.Line("int32_t " + name + "(")
	w.Indent()
	w.Line("uint32_t code,")
	w.Line("MessageParcel& data,")
	w.Line("MessageParcel& reply,")
	w.Line("MessageOption& option)" + tail)
	w.Dedent()
}

func stubSource(ctx *generation.Context) error {
	f := newFile(ctx)
	f.localInclude(ctx.Names.StubFile + ".h")
	w := f.body
	names := ctx.Names

	onRemoteRequestSignature(w, names.Stub+"::OnRemoteRequest", "")
	w.Line("{")
	w.Indent()

	w.Line("std::u16string localDescriptor = GetDescriptor();")
	w.Line("std::u16string remoteDescriptor = data.ReadInterfaceToken();")
	w.Block("if (localDescriptor != remoteDescriptor)", "", func() {
		w.Line("return ERR_TRANSACTION_FAILED;")
	})

	w.Block("switch (code)", "", func() {
		for _, c := range ctx.Commands {
			stubCase(f, c)
		}
		w.Line("default:")
		w.Indent()
		w.Line("return IPCObjectStub::OnRemoteRequest(code, data, reply, option);")
		w.Dedent()
	})
	w.Blank()
	w.Line("return ERR_TRANSACTION_FAILED;")
	w.Dedent()
	w.Line("}")

	return f.save(names.StubFile+".cpp", "")
}

// stubCase reads inputs, calls the implementation and, for synchronous
// methods, writes the status followed by outputs only on success.
func stubCase(f *file, c generation.Command) {
	m := c.Method
	w := f.body
	scope := naming.NewScope("code", "data", "reply", "option", "localDescriptor", "remoteDescriptor")
	locals := make([]string, len(m.Parameters))
	for i, p := range m.Parameters {
		locals[i] = scope.Name(p.Name)
	}
	result := scope.Name(resultName(m))
	errCode := scope.Name("errCode")
	mar := &marshaller{f: f, w: w, scope: scope, fail: "return ERR_INVALID_DATA;"}
	hasResult := f.ctx.Type(m.ReturnType).Kind != metadata.KindVoid

	w.Block("case "+c.Constant+":", "", func() {
		var args []string
		for i, p := range m.Parameters {
			path := []string{m.Name, p.Name}
			if p.Direction.IsIn() {
				mar.read("data", locals[i], p.Type, true, path)
			} else {
				w.Line(f.typeName(p.Type, path) + " " + locals[i] + zeroValue(f.ctx.Type(p.Type).Kind) + ";")
			}
			args = append(args, locals[i])
		}
		if hasResult {
			w.Line(f.typeName(m.ReturnType, []string{m.Name, "return"}) + " " + result + zeroValue(f.ctx.Type(m.ReturnType).Kind) + ";")
			args = append(args, result)
		}

		call := m.Name + "(" + strings.Join(args, ", ") + ")"
		if m.IsOneway() {
			w.Line(call + ";")
			w.Line("return ERR_NONE;")
			return
		}

		w.Line("ErrCode " + errCode + " = " + call + ";")
		w.Block("if (!reply.WriteInt32("+errCode+"))", "", func() {
			w.Line("return ERR_INVALID_VALUE;")
		})

		var outs bool
		for _, p := range m.Parameters {
			outs = outs || p.Direction.IsOut()
		}
		if outs || hasResult {
			w.Block("if (SUCCEEDED("+errCode+"))", "", func() {
				for i, p := range m.Parameters {
					if p.Direction.IsOut() {
						mar.write("reply", locals[i], p.Type, []string{m.Name, p.Name})
					}
				}
				if hasResult {
					mar.write("reply", result, m.ReturnType, []string{m.Name, "return"})
				}
			})
		}
		w.Line("return ERR_NONE;")
	})
}
