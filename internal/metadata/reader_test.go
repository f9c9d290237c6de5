package metadata

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	idlerrors "idlgen/errors"
)

const pingModel = `{
  "formatVersion": "1.0",
  "types": [
    {"kind": "string"},
    {"kind": "integer"},
    {"kind": "void"},
    {"kind": "list", "nested": [1]},
    {"kind": "map", "nested": [0, 3]},
    {"kind": "sequenceable", "ref": 0},
    {"kind": "interface", "ref": 0}
  ],
  "sequenceables": [
    {"name": "Info", "namespace": "test.data"}
  ],
  "interfaces": [
    {"name": "ICallback", "namespace": "test.cb", "external": true, "methods": []},
    {
      "name": "IPing",
      "namespace": "test.ping",
      "license": "Copyright (c) Example",
      "methods": [
        {"name": "Ping", "returnType": 1, "parameters": [{"name": "msg", "type": 0, "direction": "in"}]},
        {"name": "Notify", "returnType": 2, "properties": ["oneway"], "parameters": [{"name": "cb", "type": 6, "direction": "in"}]},
        {"name": "Lookup", "returnType": 2, "parameters": [
          {"name": "table", "type": 4, "direction": "out"},
          {"name": "info", "type": 5, "direction": "inout"}
        ]}
      ]
    }
  ]
}`

func TestDecode(t *testing.T) {
	c, err := Decode(strings.NewReader(pingModel))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}

	if len(c.Types) != 7 || len(c.Sequenceables) != 1 || len(c.Interfaces) != 2 {
		t.Fatalf("unexpected table sizes: %d types, %d sequenceables, %d interfaces",
			len(c.Types), len(c.Sequenceables), len(c.Interfaces))
	}

	ping := c.Interfaces[1]
	if ping.FullName() != "test.ping.IPing" || ping.License != "Copyright (c) Example" {
		t.Errorf("interface header mismatch: %+v", ping)
	}
	if len(ping.Methods) != 3 {
		t.Fatalf("got %d methods", len(ping.Methods))
	}
	if ping.Methods[0].IsOneway() || !ping.Methods[1].IsOneway() {
		t.Error("oneway property not decoded")
	}
	lookup := ping.Methods[2]
	if lookup.Parameters[0].Direction != DirOut || lookup.Parameters[1].Direction != DirInOut {
		t.Errorf("directions = %v, %v", lookup.Parameters[0].Direction, lookup.Parameters[1].Direction)
	}
	if got := c.TypeName(lookup.Parameters[0].Type); got != "Map<String, List<Integer>>" {
		t.Errorf("table type = %s", got)
	}
}

func TestDecode_UnknownKindDegrades(t *testing.T) {
	doc := `{"types": [{"kind": "tuple"}], "interfaces": [{"name": "IFoo", "namespace": "x", "methods": [
		{"name": "Get", "returnType": 0, "parameters": []}]}]}`
	c, err := Decode(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if c.Types[0].Kind != KindUnknown || c.Types[0].KindName != "tuple" {
		t.Errorf("got %+v", c.Types[0])
	}
}

func TestDecode_Errors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		kind idlerrors.Kind
	}{
		{"malformed json", `{"types": [`, idlerrors.KindInvalidInput},
		{"unknown field", `{"typez": []}`, idlerrors.KindInvalidInput},
		{"future format", `{"formatVersion": "2.1"}`, idlerrors.KindUnsupported},
		{"garbage format", `{"formatVersion": "one"}`, idlerrors.KindInvalidInput},
		{"bad direction", `{"types": [{"kind": "integer"}], "interfaces": [{"name": "I", "methods": [
			{"name": "M", "returnType": 0, "parameters": [{"name": "p", "type": 0, "direction": "sideways"}]}]}]}`, idlerrors.KindInvalidModel},
		{"bad property", `{"types": [{"kind": "void"}], "interfaces": [{"name": "I", "methods": [
			{"name": "M", "returnType": 0, "properties": ["async"], "parameters": []}]}]}`, idlerrors.KindInvalidModel},
		{"broken invariant", `{"types": [{"kind": "list"}]}`, idlerrors.KindInvalidModel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(strings.NewReader(tt.doc))
			if err == nil {
				t.Fatal("expected error")
			}
			var structured *idlerrors.Error
			if !errors.As(err, &structured) {
				t.Fatalf("error %v is not structured", err)
			}
			if structured.Kind != tt.kind {
				t.Errorf("kind = %s, want %s (%v)", structured.Kind, tt.kind, err)
			}
		})
	}
}

func TestCheckFormatVersion(t *testing.T) {
	for _, v := range []string{"", "1.0", "1.4.2"} {
		if err := CheckFormatVersion(v); err != nil {
			t.Errorf("CheckFormatVersion(%q) = %v", v, err)
		}
	}
	for _, v := range []string{"0.9", "2.0", "3"} {
		if err := CheckFormatVersion(v); err == nil {
			t.Errorf("CheckFormatVersion(%q) accepted", v)
		}
	}
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ping.json")
	if err := os.WriteFile(path, []byte(pingModel), 0o644); err != nil {
		t.Fatal(err)
	}

	reader, err := NewReader(path)
	if err != nil {
		t.Fatalf("NewReader: %v", err)
	}
	if _, found := reader.TryGetInterface("IPing"); !found {
		t.Error("IPing not found by short name")
	}
	if _, found := reader.TryGetInterface("test.cb.ICallback"); !found {
		t.Error("ICallback not found by full name")
	}
	if _, found := reader.TryGetInterface("IMissing"); found {
		t.Error("found an interface that does not exist")
	}
	if s, found := reader.TryGetSequenceable("Info"); !found || s.Namespace != "test.data" {
		t.Errorf("TryGetSequenceable = %v, %v", s, found)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.json"))
	if !errors.Is(err, &idlerrors.Error{Phase: idlerrors.PhaseLoad, Kind: idlerrors.KindIO}) {
		t.Errorf("Load(missing) = %v", err)
	}
}

func TestLoad_HTTP(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/ping.json":
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(pingModel))
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	c, err := Load(server.URL + "/ping.json")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(c.Interfaces) != 2 {
		t.Errorf("got %d interfaces", len(c.Interfaces))
	}

	if _, err := Load(server.URL + "/nope.json"); err == nil {
		t.Error("expected error for 404")
	}
}

func TestFetch_SizeLimit(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(pingModel))
	}))
	defer server.Close()

	saved := MaxModelSize
	defer func() { MaxModelSize = saved }()

	MaxModelSize = int64(len(pingModel))
	if _, err := Fetch(server.URL); err != nil {
		t.Fatalf("Fetch at the limit: %v", err)
	}

	MaxModelSize = int64(len(pingModel)) - 1
	_, err := Fetch(server.URL)
	if !errors.Is(err, &idlerrors.Error{Phase: idlerrors.PhaseLoad, Kind: idlerrors.KindIO}) {
		t.Fatalf("Fetch over the limit = %v, want a load error", err)
	}
	if !strings.Contains(err.Error(), "larger than") {
		t.Errorf("error = %v", err)
	}
}

func TestReader_Selection(t *testing.T) {
	c, err := Decode(strings.NewReader(pingModel))
	if err != nil {
		t.Fatal(err)
	}
	reader := NewReaderFor(c)

	primary, ok := reader.Primary()
	if !ok || primary != 1 {
		t.Errorf("Primary() = %d, %v; want 1, true", primary, ok)
	}
	if got := reader.Declared(); len(got) != 1 || got[0] != 1 {
		t.Errorf("Declared() = %v", got)
	}
	iface, _ := reader.TryGetInterface("IPing")
	if reader.IndexOf(iface) != 1 {
		t.Errorf("IndexOf = %d", reader.IndexOf(iface))
	}

	if seq, ok := reader.TryGetSequenceable("test.data.Info"); !ok || seq.Name != "Info" {
		t.Errorf("TryGetSequenceable = %v, %v", seq, ok)
	}
	if _, ok := reader.TryGetSequenceable("Missing"); ok {
		t.Error("found a sequenceable that does not exist")
	}

	empty := NewReaderFor(&Component{Interfaces: []Interface{{Name: "IExt", External: true}}})
	if _, ok := empty.Primary(); ok {
		t.Error("external-only component has no primary interface")
	}
}
