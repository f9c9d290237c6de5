package generation

import (
	"idlgen/internal/metadata"
	"idlgen/internal/naming"
)

// Names holds every identifier derived from one interface. Proxy and stub
// emission read the same Names, so descriptor, class names and paths agree.
type Names struct {
	Namespace string
	Interface string
	FullName  string

	// Descriptor is the token written at the start of every request.
	Descriptor string

	Proxy         string
	Stub          string
	ProxyFullName string
	StubFullName  string

	// File paths without extension, relative to the output root.
	InterfaceFile string
	ProxyFile     string
	StubFile      string

	InterfaceMacro string
	ProxyMacro     string
	StubMacro      string
}

func DeriveNames(iface *metadata.Interface) Names {
	proxy := naming.ProxyName(iface.Name)
	stub := naming.StubName(iface.Name)
	proxyFull := metadata.QualifiedName(iface.Namespace, proxy)
	stubFull := metadata.QualifiedName(iface.Namespace, stub)

	return Names{
		Namespace:      iface.Namespace,
		Interface:      iface.Name,
		FullName:       iface.FullName(),
		Descriptor:     iface.FullName(),
		Proxy:          proxy,
		Stub:           stub,
		ProxyFullName:  proxyFull,
		StubFullName:   stubFull,
		InterfaceFile:  naming.FileName(iface.FullName()),
		ProxyFile:      naming.FileName(proxyFull),
		StubFile:       naming.FileName(stubFull),
		InterfaceMacro: naming.MacroName(iface.FullName()),
		ProxyMacro:     naming.MacroName(proxyFull),
		StubMacro:      naming.MacroName(stubFull),
	}
}
