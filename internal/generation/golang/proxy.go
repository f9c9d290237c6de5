package golang

import (
	"github.com/dave/jennifer/jen"

	"idlgen/internal/generation"
	"idlgen/internal/naming"
)

// EmitInterfaceProxy writes the client type that marshals calls into requests.
func (d *Dialect) EmitInterfaceProxy(ctx *generation.Context) error {
	g := d.newGen(ctx)
	n := ctx.Names
	iface := naming.Exported(n.Interface)
	proxy := naming.Exported(n.Proxy)

	g.f.Commentf("%s implements %s by sending requests to a remote object.", proxy, iface)
	g.f.Type().Id(proxy).Struct(jen.Id("remote").Add(g.runtime("RemoteObject")))

	g.f.Var().Id("_").Id(iface).Op("=").Parens(jen.Op("*").Id(proxy)).Parens(jen.Nil())

	g.f.Func().Id("New"+proxy).Params(jen.Id("remote").Add(g.runtime("RemoteObject"))).Op("*").Id(proxy).Block(
		jen.Return(jen.Op("&").Id(proxy).Values(jen.Dict{jen.Id("remote"): jen.Id("remote")})),
	)

	g.f.Comment("Remote returns the object requests are sent through.")
	g.f.Func().Params(jen.Id("p").Op("*").Id(proxy)).Id("Remote").Params().Add(g.runtime("RemoteObject")).Block(
		jen.Return(jen.Id("p").Dot("remote")),
	)

	for _, c := range ctx.Commands {
		g.proxyMethod(proxy, c)
	}

	return g.save(n.ProxyFile)
}

// proxyMethod builds the request, sends it and, unless the method is oneway,
// checks the reply status before reading outputs then the result.
func (g *gen) proxyMethod(proxy string, c generation.Command) {
	m := c.Method
	scope, params, locals := g.methodScope(m, "p", "data", "reply", "result", "err")
	recv, data, reply, result, errName := locals[0], locals[1], locals[2], locals[3], locals[4]
	mar := &marshaller{g: g, scope: scope}
	hasResult := g.hasResult(m)
	oneway := m.IsOneway()

	// fail returns the zero result with err.
	fail := func(err jen.Code) *jen.Statement {
		if hasResult {
			return jen.Return(jen.Id(result), err)
		}
		return jen.Return(err)
	}

	sig := g.f.Func().Params(jen.Id(recv).Op("*").Id(proxy)).Id(naming.Exported(m.Name))
	g.signature(sig, m, params).BlockFunc(func(body *jen.Group) {
		if hasResult {
			body.Var().Id(result).Add(g.goType(m.ReturnType, []string{m.Name, "return"}))
		}
		body.Id(data).Op(":=").Add(g.runtime("New")).Call()
		body.Defer().Id(data).Dot("Recycle").Call()
		if !oneway {
			body.Id(reply).Op(":=").Add(g.runtime("New")).Call()
			body.Defer().Id(reply).Dot("Recycle").Call()
		}
		body.Line()

		body.Id(data).Dot("WriteInterfaceToken").Call(jen.Id(descriptorConst(g.ctx.Names)))
		for i, p := range m.Parameters {
			if p.Direction.IsIn() {
				mar.write(body, data, operand{name: params[i], deref: p.Direction.IsOut()}, p.Type, []string{m.Name, p.Name})
			}
		}
		body.If(jen.Id(errName).Op(":=").Id(data).Dot("Err").Call(), jen.Id(errName).Op("!=").Nil()).Block(fail(jen.Id(errName)))

		cmd := jen.Id(commandConst(g.ctx.Names, c))
		if oneway {
			option := g.runtime("Option").Values(jen.Dict{jen.Id("Flags"): g.runtime("FlagOneway")})
			body.Return(jen.Id(recv).Dot("remote").Dot("SendRequest").Call(cmd, jen.Id(data), jen.Nil(), option))
			return
		}

		body.If(
			jen.Id(errName).Op(":=").Id(recv).Dot("remote").Dot("SendRequest").Call(cmd, jen.Id(data), jen.Id(reply), g.runtime("Option").Values()),
			jen.Id(errName).Op("!=").Nil(),
		).Block(fail(jen.Id(errName)))
		body.If(jen.Id(errName).Op(":=").Id(reply).Dot("ReadStatus").Call(), jen.Id(errName).Op("!=").Nil()).Block(fail(jen.Id(errName)))

		for i, p := range m.Parameters {
			if p.Direction.IsOut() {
				mar.read(body, reply, operand{name: params[i], deref: true}, p.Type, false, []string{m.Name, p.Name})
			}
		}
		if hasResult {
			mar.read(body, reply, operand{name: result}, m.ReturnType, false, []string{m.Name, "return"})
		}
		body.Add(fail(jen.Id(reply).Dot("Err").Call()))
	})
}
