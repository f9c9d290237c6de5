package golang

import (
	"github.com/dave/jennifer/jen"

	"idlgen/internal/generation"
	"idlgen/internal/naming"
)

// EmitInterface writes the descriptor, the command ids, the Go interface and
// the conversions between the interface and a parcel.RemoteObject.
func (d *Dialect) EmitInterface(ctx *generation.Context) error {
	g := d.newGen(ctx)
	n := ctx.Names
	iface := naming.Exported(n.Interface)
	proxy, stub := naming.Exported(n.Proxy), naming.Exported(n.Stub)

	g.f.Commentf("%s is the token that opens every %s request.", descriptorConst(n), iface)
	g.f.Const().Id(descriptorConst(n)).Op("=").Lit(n.Descriptor)

	if len(ctx.Commands) > 0 {
		g.f.Commentf("Command ids of %s, in declaration order.", iface)
		g.f.Const().DefsFunc(func(defs *jen.Group) {
			for _, c := range ctx.Commands {
				defs.Id(commandConst(n, c)).Uint32().Op("=").Lit(int(c.ID))
			}
		})
	}

	g.f.Type().Id(iface).InterfaceFunc(func(methods *jen.Group) {
		for i := range ctx.Interface.Methods {
			m := &ctx.Interface.Methods[i]
			g.signature(methods.Id(naming.Exported(m.Name)), m, g.paramNames(m))
		}
	})

	g.f.Commentf("%s returns an %s that calls through obj. A local stub is unwrapped.", castFunc(iface), iface)
	g.f.Func().Id(castFunc(iface)).Params(jen.Id("obj").Add(g.runtime("RemoteObject"))).Id(iface).Block(
		jen.If(jen.Id("obj").Op("==").Nil()).Block(jen.Return(jen.Nil())),
		jen.If(
			jen.List(jen.Id("stub"), jen.Id("ok")).Op(":=").Id("obj").Assert(jen.Op("*").Id(stub)),
			jen.Id("ok"),
		).Block(jen.Return(jen.Id("stub").Dot("Impl").Call())),
		jen.Return(jen.Id("New"+proxy).Call(jen.Id("obj"))),
	)

	g.f.Commentf("%s returns the remote object that carries v across a parcel.", objectFunc(iface))
	g.f.Func().Id(objectFunc(iface)).Params(jen.Id("v").Id(iface)).Add(g.runtime("RemoteObject")).Block(
		jen.Switch(jen.Id("v").Op(":=").Id("v").Assert(jen.Type())).Block(
			jen.Case(jen.Nil()).Block(jen.Return(jen.Nil())),
			jen.Case(jen.Op("*").Id(proxy)).Block(jen.Return(jen.Id("v").Dot("Remote").Call())),
			jen.Default().Block(jen.Return(jen.Id("New"+stub).Call(jen.Id("v")))),
		),
	)

	return g.save(n.InterfaceFile)
}
