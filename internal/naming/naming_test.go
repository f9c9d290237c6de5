package naming

import "testing"

func TestFileName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"pkg.sub.FooBarBaz", "pkg/sub/foo_bar_baz"},
		{"test.ping.IPing", "test/ping/iping"},
		{"test.ping.PingProxy", "test/ping/ping_proxy"},
		{"ohos.Foo", "ohos/foo"},
		{"a.b.fooBar", "a/b/foo_bar"},
		{"FooBar", "foo_bar"},
		{"IRemoteObject", "iremote_object"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := FileName(tt.in); got != tt.want {
				t.Errorf("FileName(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestFileName_Deterministic(t *testing.T) {
	const in = "com.example.net.IConnectionManager"
	first := FileName(in)
	for range 10 {
		if got := FileName(in); got != first {
			t.Fatalf("FileName(%q) changed between calls: %q vs %q", in, first, got)
		}
	}
}

func TestConstantName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"fooBar", "FOO_BAR"},
		{"ping", "PING"},
		{"getHTTPValue", "GET_HTTPVALUE"},
		{"Ping", "PING"},
		{"already_snake", "ALREADY_SNAKE"},
		{"setX", "SET_X"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := ConstantName(tt.in); got != tt.want {
				t.Errorf("ConstantName(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestMacroName(t *testing.T) {
	if got := MacroName("ohos.demo.IPing"); got != "OHOS_DEMO_IPING_H" {
		t.Errorf("MacroName = %q", got)
	}
	if got := MacroName("ohos.demo.PingProxy"); got != "OHOS_DEMO_PINGPROXY_H" {
		t.Errorf("MacroName = %q", got)
	}
}

func TestProxyStubName(t *testing.T) {
	tests := []struct {
		in    string
		proxy string
		stub  string
	}{
		{"IFoo", "FooProxy", "FooStub"},
		{"Foo", "FooProxy", "FooStub"},
		{"I", "Proxy", "Stub"},
		{"Icon", "conProxy", "conStub"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := ProxyName(tt.in); got != tt.proxy {
				t.Errorf("ProxyName(%q) = %q, want %q", tt.in, got, tt.proxy)
			}
			if got := StubName(tt.in); got != tt.stub {
				t.Errorf("StubName(%q) = %q, want %q", tt.in, got, tt.stub)
			}
		})
	}
}
