package golang

import (
	"github.com/dave/jennifer/jen"

	"idlgen/internal/generation"
	"idlgen/internal/naming"
)

// EmitInterfaceStub writes the server type that decodes requests, calls the
// implementation and encodes the reply.
func (d *Dialect) EmitInterfaceStub(ctx *generation.Context) error {
	g := d.newGen(ctx)
	n := ctx.Names
	iface := naming.Exported(n.Interface)
	stub := naming.Exported(n.Stub)
	parcelPtr := func() *jen.Statement { return jen.Op("*").Add(g.runtime("Parcel")) }

	g.f.Commentf("%s dispatches requests to an %s implementation.", stub, iface)
	g.f.Type().Id(stub).Struct(
		jen.Id("impl").Id(iface),
		jen.Comment("Fallback handles codes the stub does not know. Nil means parcel.DefaultHandler."),
		jen.Id("Fallback").Add(g.runtime("Handler")),
	)

	g.f.Var().Defs(
		jen.Id("_").Add(g.runtime("RemoteObject")).Op("=").Parens(jen.Op("*").Id(stub)).Parens(jen.Nil()),
		jen.Id("_").Add(g.runtime("Handler")).Op("=").Parens(jen.Op("*").Id(stub)).Parens(jen.Nil()),
	)

	g.f.Func().Id("New"+stub).Params(jen.Id("impl").Id(iface)).Op("*").Id(stub).Block(
		jen.Return(jen.Op("&").Id(stub).Values(jen.Dict{jen.Id("impl"): jen.Id("impl")})),
	)

	g.f.Func().Params(jen.Id("s").Op("*").Id(stub)).Id("Impl").Params().Id(iface).Block(
		jen.Return(jen.Id("s").Dot("impl")),
	)

	requestParams := func() jen.Code {
		return jen.List(
			jen.Id("code").Uint32(),
			jen.List(jen.Id("data"), jen.Id("reply")).Add(parcelPtr()),
			jen.Id("option").Add(g.runtime("Option")),
		)
	}

	g.f.Comment("SendRequest delivers a request in process.")
	g.f.Func().Params(jen.Id("s").Op("*").Id(stub)).Id("SendRequest").Params(requestParams()).Error().Block(
		jen.Return(jen.Id("s").Dot("OnRemoteRequest").Call(jen.Id("code"), jen.Id("data"), jen.Id("reply"), jen.Id("option"))),
	)

	g.f.Comment("OnRemoteRequest rejects requests for other interfaces and forwards unknown codes to the fallback.")
	g.f.Func().Params(jen.Id("s").Op("*").Id(stub)).Id("OnRemoteRequest").Params(requestParams()).Error().Block(
		jen.If(jen.Id("data").Dot("ReadInterfaceToken").Call().Op("!=").Id(descriptorConst(n))).Block(
			jen.Return(g.runtime("StatusTransactionFailed")),
		),
		jen.Switch(jen.Id("code")).BlockFunc(func(cases *jen.Group) {
			for _, c := range ctx.Commands {
				if c.Method.IsOneway() {
					cases.Case(jen.Id(commandConst(n, c))).Block(
						jen.Return(jen.Id("s").Dot(handlerName(c)).Call(jen.Id("data"))),
					)
					continue
				}
				// A synchronous code sent oneway has nowhere to put its reply.
				cases.Case(jen.Id(commandConst(n, c))).Block(
					jen.If(jen.Id("reply").Op("==").Nil()).Block(
						jen.Return(g.runtime("StatusTransactionFailed")),
					),
					jen.Return(jen.Id("s").Dot(handlerName(c)).Call(jen.Id("data"), jen.Id("reply"))),
				)
			}
			cases.Default().Block(
				jen.If(jen.Id("s").Dot("Fallback").Op("!=").Nil()).Block(
					jen.Return(jen.Id("s").Dot("Fallback").Dot("OnRemoteRequest").Call(jen.Id("code"), jen.Id("data"), jen.Id("reply"), jen.Id("option"))),
				),
				jen.Return(g.runtime("DefaultHandler").Dot("OnRemoteRequest").Call(jen.Id("code"), jen.Id("data"), jen.Id("reply"), jen.Id("option"))),
			)
		}),
	)

	for _, c := range ctx.Commands {
		g.stubHandler(stub, c, parcelPtr)
	}

	return g.save(n.StubFile)
}

func handlerName(c generation.Command) string {
	return "on" + naming.Exported(c.Method.Name)
}

// stubHandler decodes inputs, calls the implementation and writes the status
// followed, only on success, by outputs then the result. Oneway handlers
// never see a reply.
func (g *gen) stubHandler(stub string, c generation.Command, parcelPtr func() *jen.Statement) {
	m := c.Method
	oneway := m.IsOneway()
	hasResult := g.hasResult(m)

	scope := naming.NewScope(append(g.packageNames(), "s", "data", "reply")...)
	locals := make([]string, len(m.Parameters))
	for i, p := range m.Parameters {
		locals[i] = scope.Name(p.Name)
	}
	result, errName := scope.Name("result"), scope.Name("err")
	mar := &marshaller{g: g, scope: scope}

	params := jen.Id("data").Add(parcelPtr())
	if !oneway {
		params = jen.List(jen.Id("data"), jen.Id("reply")).Add(parcelPtr())
	}

	g.f.Func().Params(jen.Id("s").Op("*").Id(stub)).Id(handlerName(c)).Params(params).Error().BlockFunc(func(body *jen.Group) {
		var args []jen.Code
		for i, p := range m.Parameters {
			path := []string{m.Name, p.Name}
			if p.Direction.IsIn() {
				mar.read(body, "data", operand{name: locals[i]}, p.Type, true, path)
			} else {
				body.Var().Id(locals[i]).Add(g.goType(p.Type, path))
			}
			if p.Direction.IsOut() {
				args = append(args, jen.Op("&").Id(locals[i]))
			} else {
				args = append(args, jen.Id(locals[i]))
			}
		}
		if len(m.Parameters) > 0 {
			body.If(jen.Id(errName).Op(":=").Id("data").Dot("Err").Call(), jen.Id(errName).Op("!=").Nil()).Block(
				jen.Return(jen.Id(errName)),
			)
		}

		call := jen.Id("s").Dot("impl").Dot(naming.Exported(m.Name)).Call(args...)
		if oneway {
			body.Return(call)
			return
		}

		if hasResult {
			body.List(jen.Id(result), jen.Id(errName)).Op(":=").Add(call)
		} else {
			body.Id(errName).Op(":=").Add(call)
		}
		body.Id("reply").Dot("WriteStatus").Call(jen.Id(errName))

		var outs bool
		for _, p := range m.Parameters {
			outs = outs || p.Direction.IsOut()
		}
		if outs || hasResult {
			body.If(jen.Id(errName).Op("==").Nil()).BlockFunc(func(ok *jen.Group) {
				for i, p := range m.Parameters {
					if p.Direction.IsOut() {
						mar.write(ok, "reply", operand{name: locals[i]}, p.Type, []string{m.Name, p.Name})
					}
				}
				if hasResult {
					mar.write(ok, "reply", operand{name: result}, m.ReturnType, []string{m.Name, "return"})
				}
			})
		}
		body.Return(jen.Id("reply").Dot("Err").Call())
	})
}
