package generation

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"idlgen/errors"
	"idlgen/internal/metadata"
)

// listDialect writes one line per method so tests can observe what the
// driver hands to a dialect.
type listDialect struct{}

func (listDialect) Name() string { return "list" }

func (d listDialect) EmitInterface(ctx *Context) error {
	return d.write(ctx, ctx.Names.InterfaceFile+".txt")
}

func (d listDialect) EmitInterfaceProxy(ctx *Context) error {
	return d.write(ctx, ctx.Names.ProxyFile+".txt")
}

func (d listDialect) EmitInterfaceStub(ctx *Context) error {
	return d.write(ctx, ctx.Names.StubFile+".txt")
}

func (listDialect) write(ctx *Context, path string) error {
	return ctx.WriteFile(path, func(w io.Writer) error {
		fmt.Fprintln(w, ctx.Names.Descriptor)
		for _, c := range ctx.Commands {
			fmt.Fprintf(w, "%d %s\n", c.ID, c.Method.Name)
		}
		for _, m := range ctx.Interface.Methods {
			for _, p := range m.Parameters {
				if ctx.Type(p.Type).Kind == metadata.KindUnknown {
					ctx.Unknown([]string{m.Name, p.Name}, ctx.Type(p.Type))
				}
			}
		}
		return nil
	})
}

func twoInterfaces() *metadata.Component {
	b := metadata.NewBuilder()
	b.Interface("ext", "IExternal", true)
	a := b.Interface("demo", "IAlpha", false)
	b.Method(a, "One", b.Void(), 0)
	b.Method(a, "Two", b.Void(), 0, metadata.In("x", b.Unknown("tuple")))
	z := b.Interface("demo", "IZeta", false)
	b.Method(z, "Only", b.Integer(), 0)
	return b.Component()
}

func TestCommands_Contiguous(t *testing.T) {
	for _, n := range []int{0, 1, 2, 7, 64} {
		for _, base := range []uint32{DefaultBaseCommand, 0, 1000} {
			t.Run(fmt.Sprintf("n=%d/base=%d", n, base), func(t *testing.T) {
				iface := &metadata.Interface{Name: "IFoo"}
				for i := range n {
					iface.Methods = append(iface.Methods, metadata.Method{Name: fmt.Sprintf("m%d", i)})
				}

				commands := Commands(iface, base)
				if len(commands) != n {
					t.Fatalf("got %d commands, want %d", len(commands), n)
				}
				seen := make(map[uint32]bool)
				for i, c := range commands {
					if c.ID != base+uint32(i) {
						t.Errorf("command %d has id %d, want %d", i, c.ID, base+uint32(i))
					}
					if c.Method != &iface.Methods[i] || c.Index != i {
						t.Errorf("command %d is bound to the wrong method", i)
					}
					if seen[c.ID] {
						t.Errorf("duplicate id %d", c.ID)
					}
					seen[c.ID] = true
				}
			})
		}
	}
}

func TestDeriveNames(t *testing.T) {
	names := DeriveNames(&metadata.Interface{Namespace: "test.ping", Name: "IPing"})

	want := Names{
		Namespace:      "test.ping",
		Interface:      "IPing",
		FullName:       "test.ping.IPing",
		Descriptor:     "test.ping.IPing",
		Proxy:          "PingProxy",
		Stub:           "PingStub",
		ProxyFullName:  "test.ping.PingProxy",
		StubFullName:   "test.ping.PingStub",
		InterfaceFile:  "test/ping/iping",
		ProxyFile:      "test/ping/ping_proxy",
		StubFile:       "test/ping/ping_stub",
		InterfaceMacro: "TEST_PING_IPING_H",
		ProxyMacro:     "TEST_PING_PINGPROXY_H",
		StubMacro:      "TEST_PING_PINGSTUB_H",
	}
	if names != want {
		t.Errorf("got %+v\nwant %+v", names, want)
	}
}

func TestSelectInterface(t *testing.T) {
	c := twoInterfaces()

	tests := []struct {
		name string
		want string
		kind errors.Kind
	}{
		{"", "demo.IAlpha", ""},
		{"IZeta", "demo.IZeta", ""},
		{"demo.IZeta", "demo.IZeta", ""},
		{"IExternal", "", errors.KindUnsupported},
		{"IMissing", "", errors.KindNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			iface, err := SelectInterface(c, tt.name)
			if tt.kind != "" {
				var e *errors.Error
				if !stderrors.As(err, &e) || e.Kind != tt.kind {
					t.Fatalf("err = %v, want kind %s", err, tt.kind)
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if iface.FullName() != tt.want {
				t.Errorf("selected %s, want %s", iface.FullName(), tt.want)
			}
		})
	}

	b := metadata.NewBuilder()
	b.Interface("ext", "IOnly", true)
	if _, err := SelectInterface(b.Component(), ""); err == nil {
		t.Error("expected error when every interface is external")
	}
}

func TestCodeEmitter_Emit(t *testing.T) {
	out := NewMemoryOutput()
	e, err := NewCodeEmitter(twoInterfaces(), listDialect{}, out, Options{BaseCommand: Base(10)})
	if err != nil {
		t.Fatal(err)
	}
	if err := e.Emit(ArtifactProxy, ArtifactStub); err != nil {
		t.Fatal(err)
	}

	if got := strings.Join(out.Paths(), ","); got != "demo/alpha_proxy.txt,demo/alpha_stub.txt" {
		t.Errorf("paths = %s", got)
	}
	proxy, _ := out.File("demo/alpha_proxy.txt")
	stub, _ := out.File("demo/alpha_stub.txt")
	if proxy != stub {
		t.Errorf("proxy and stub disagree:\n%s\n%s", proxy, stub)
	}
	if proxy != "demo.IAlpha\n10 One\n11 Two\n" {
		t.Errorf("proxy = %q", proxy)
	}

	diags := e.Diagnostics()
	if len(diags) != 2 {
		t.Fatalf("diagnostics = %v", diags)
	}
	if diags[0].Artifact != ArtifactProxy || diags[1].Artifact != ArtifactStub {
		t.Errorf("artifacts = %s, %s", diags[0].Artifact, diags[1].Artifact)
	}
	if !strings.Contains(diags[0].String(), "Two.x") {
		t.Errorf("diagnostic = %s", diags[0])
	}
}

func TestCodeEmitter_BaseCommand(t *testing.T) {
	tests := []struct {
		name string
		opts Options
		want string
	}{
		{"default", Options{}, "demo.IAlpha\n1 One\n2 Two\n"},
		{"explicit zero", Options{BaseCommand: Base(0)}, "demo.IAlpha\n0 One\n1 Two\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := NewMemoryOutput()
			e, err := NewCodeEmitter(twoInterfaces(), listDialect{}, out, tt.opts)
			if err != nil {
				t.Fatal(err)
			}
			if err := e.Emit(ArtifactProxy); err != nil {
				t.Fatal(err)
			}
			if got, _ := out.File("demo/alpha_proxy.txt"); got != tt.want {
				t.Errorf("proxy = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCodeEmitter_UnknownArtifact(t *testing.T) {
	e, err := NewCodeEmitter(twoInterfaces(), listDialect{}, NewMemoryOutput(), Options{})
	if err != nil {
		t.Fatal(err)
	}
	if err := e.Emit("header"); err == nil {
		t.Error("expected error for unknown artifact")
	}
}

func TestNewCodeEmitter_RequiresArguments(t *testing.T) {
	if _, err := NewCodeEmitter(nil, listDialect{}, NewMemoryOutput(), Options{}); err == nil {
		t.Error("expected error for nil component")
	}
	if _, err := NewCodeEmitter(twoInterfaces(), nil, NewMemoryOutput(), Options{}); err == nil {
		t.Error("expected error for nil dialect")
	}
}

func TestGenerateAll(t *testing.T) {
	out := NewMemoryOutput()
	result, err := GenerateAll(context.Background(), twoInterfaces(), listDialect{}, out, Options{})
	if err != nil {
		t.Fatal(err)
	}

	if got := strings.Join(result.Interfaces, ","); got != "demo.IAlpha,demo.IZeta" {
		t.Errorf("interfaces = %s", got)
	}
	if len(result.Written) != 6 || len(out.Paths()) != 6 {
		t.Errorf("written = %v, paths = %v", result.Written, out.Paths())
	}
	zeta, ok := out.File("demo/izeta.txt")
	if !ok || zeta != "demo.IZeta\n1 Only\n" {
		t.Errorf("izeta = %q", zeta)
	}
	if len(result.Diagnostics) != 3 {
		t.Errorf("diagnostics = %v", result.Diagnostics)
	}
}

func TestGenerateAll_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := GenerateAll(ctx, twoInterfaces(), listDialect{}, NewMemoryOutput(), Options{})
	if !stderrors.Is(err, context.Canceled) {
		t.Errorf("err = %v", err)
	}
}

func TestParseArtifacts(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"", "interface,proxy,stub", false},
		{"proxy", "proxy", false},
		{" stub , interface", "stub,interface", false},
		{"proxy,header", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseArtifacts(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Error("expected error")
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			var parts []string
			for _, a := range got {
				parts = append(parts, string(a))
			}
			if strings.Join(parts, ",") != tt.want {
				t.Errorf("got %v, want %s", parts, tt.want)
			}
		})
	}
}

func TestDirOutput(t *testing.T) {
	root := t.TempDir()
	e, err := NewCodeEmitter(twoInterfaces(), listDialect{}, DirOutput{Root: root}, Options{Interface: "IZeta"})
	if err != nil {
		t.Fatal(err)
	}
	if err := e.EmitInterface(); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(filepath.Join(root, "demo", "izeta.txt"))
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "demo.IZeta\n1 Only\n" {
		t.Errorf("content = %q", data)
	}
}

func TestDirOutput_Unwritable(t *testing.T) {
	root := t.TempDir()
	blocker := filepath.Join(root, "demo")
	if err := os.WriteFile(blocker, []byte("not a directory"), 0o644); err != nil {
		t.Fatal(err)
	}

	e, err := NewCodeEmitter(twoInterfaces(), listDialect{}, DirOutput{Root: root}, Options{})
	if err != nil {
		t.Fatal(err)
	}
	err = e.EmitInterface()
	if !stderrors.Is(err, &errors.Error{Phase: errors.PhaseWrite, Kind: errors.KindIO}) {
		t.Fatalf("err = %v", err)
	}
}

type closeFailOutput struct{ *MemoryOutput }

type closeFailFile struct{ io.WriteCloser }

func (closeFailFile) Close() error { return stderrors.New("disk full") }

func (o closeFailOutput) Create(path string) (io.WriteCloser, error) {
	f, err := o.MemoryOutput.Create(path)
	return closeFailFile{f}, err
}

func TestWriteFile_CloseError(t *testing.T) {
	e, err := NewCodeEmitter(twoInterfaces(), listDialect{}, closeFailOutput{NewMemoryOutput()}, Options{})
	if err != nil {
		t.Fatal(err)
	}
	err = e.EmitInterface()
	if !stderrors.Is(err, &errors.Error{Phase: errors.PhaseWrite, Kind: errors.KindIO}) {
		t.Fatalf("err = %v", err)
	}
}
