package cpp

import (
	"idlgen/internal/generation"
	"idlgen/internal/metadata"
)

// EmitInterfaceProxy writes the proxy class header and its implementation.
func (d *Dialect) EmitInterfaceProxy(ctx *generation.Context) error {
	if err := proxyHeader(ctx); err != nil {
		return err
	}
	return proxySource(ctx)
}

func proxyHeader(ctx *generation.Context) error {
	f := newFile(ctx)
	f.localInclude(ctx.Names.InterfaceFile + ".h")
	f.systemInclude("iremote_proxy.h")
	names := ctx.Names
	w := f.body

	w.Block("class "+names.Proxy+" : public IRemoteProxy<"+names.Interface+">", ";", func() {
		w.Dedent()
		w.Line("public:")
		w.Indent()
		w.Line("explicit " + names.Proxy + "(")
		w.Indent()
		w.Line("const sptr<IRemoteObject>& remote)")
		w.Line(": IRemoteProxy<" + names.Interface + ">(remote)")
		w.Dedent()
		w.Line("{}")
		w.Blank()
		w.Line("virtual ~" + names.Proxy + "()")
		w.Line("{}")
		for i := range ctx.Interface.Methods {
			m := &ctx.Interface.Methods[i]
			w.Blank()
			f.signature(w, "ErrCode "+m.Name, m, " override;")
		}
		w.Blank()
		w.Dedent()
		w.Line("private:")
		w.Indent()
		f.commandConstants(w)
		if len(ctx.Commands) > 0 {
			w.Blank()
		}
		w.Line("static inline BrokerDelegator<" + names.Proxy + "> delegator_;")
	})

	return f.save(names.ProxyFile+".h", names.ProxyMacro)
}

func proxySource(ctx *generation.Context) error {
	f := newFile(ctx)
	f.localInclude(ctx.Names.ProxyFile + ".h")
	w := f.body

	for i, c := range ctx.Commands {
		if i > 0 {
			w.Blank()
		}
		proxyMethod(f, c)
	}

	return f.save(ctx.Names.ProxyFile+".cpp", "")
}

// proxyMethod follows the call sequence: build request, send, then unless
// oneway check the status and read outputs. Locals are named after the
// parameters have been claimed so they never shadow one.
func proxyMethod(f *file, c generation.Command) {
	m := c.Method
	w := f.body
	scope := methodScope(m)
	data, reply, option := scope.Name("data"), scope.Name("reply"), scope.Name("option")
	remote, st, errCode := scope.Name("remote"), scope.Name("st"), scope.Name("errCode")
	mar := &marshaller{f: f, w: w, scope: scope, fail: "return ERR_INVALID_DATA;"}
	oneway := m.IsOneway()

	f.signature(w, "ErrCode "+f.ctx.Names.Proxy+"::"+m.Name, m, "")
	w.Line("{")
	w.Indent()

	w.Line("MessageParcel " + data + ";")
	w.Line("MessageParcel " + reply + ";")
	if oneway {
		w.Line("MessageOption " + option + "(MessageOption::TF_ASYNC);")
	} else {
		w.Line("MessageOption " + option + "(MessageOption::TF_SYNC);")
	}
	w.Blank()
	w.Block("if (!"+data+".WriteInterfaceToken(GetDescriptor()))", "", func() {
		w.Line("return ERR_INVALID_VALUE;")
	})
	w.Blank()

	for _, p := range m.Parameters {
		if p.Direction.IsIn() {
			mar.write(data, p.Name, p.Type, []string{m.Name, p.Name})
		}
	}

	w.Line("sptr<IRemoteObject> " + remote + " = Remote();")
	w.Block("if ("+remote+" == nullptr)", "", func() {
		w.Line("return ERR_INVALID_DATA;")
	})
	w.Line("int32_t " + st + " = " + remote + "->SendRequest(" + c.Constant + ", " + data + ", " + reply + ", " + option + ");")
	w.Block("if ("+st+" != ERR_NONE)", "", func() {
		w.Line("return " + st + ";")
	})

	if !oneway {
		w.Blank()
		w.Line("ErrCode " + errCode + " = " + reply + ".ReadInt32();")
		w.Block("if (FAILED("+errCode+"))", "", func() {
			w.Line("return " + errCode + ";")
		})
		for _, p := range m.Parameters {
			if p.Direction.IsOut() {
				w.Blank()
				mar.read(reply, p.Name, p.Type, false, []string{m.Name, p.Name})
			}
		}
		if f.ctx.Type(m.ReturnType).Kind != metadata.KindVoid {
			w.Blank()
			mar.read(reply, resultName(m), m.ReturnType, false, []string{m.Name, "return"})
		}
	}

	w.Line("return ERR_OK;")
	w.Dedent()
	w.Line("}")
}
