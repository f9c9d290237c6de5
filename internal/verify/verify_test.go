package verify

import (
	"context"
	stderrors "errors"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"golang.org/x/tools/go/packages"

	"idlgen/errors"
)

func requireGo(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("go"); err != nil {
		t.Skip("go command not available")
	}
}

// scratchModule writes a module without dependencies holding files.
func scratchModule(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	files["go.mod"] = "module scratch\n\ngo 1.22\n"
	for name, content := range files {
		path := filepath.Join(dir, name)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func TestPackages(t *testing.T) {
	requireGo(t)

	tests := []struct {
		name     string
		files    map[string]string
		problems int
		contains string
	}{
		{
			name: "clean",
			files: map[string]string{
				"demo/a.go": "package demo\n\nfunc Answer() int32 { return 42 }\n",
				"b/b.go":    "package b\n\nimport \"scratch/demo\"\n\nvar X = demo.Answer()\n",
			},
		},
		{
			name: "type error",
			files: map[string]string{
				"demo/a.go": "package demo\n\nvar x int32 = \"text\"\n",
			},
			problems: 1,
			contains: "demo/a.go",
		},
		{
			name: "undefined placeholder",
			files: map[string]string{
				"demo/a.go": "package demo\n\nfunc F(t UnknownType) {}\n",
			},
			problems: 1,
			contains: "UnknownType",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := scratchModule(t, tt.files)
			problems, err := Packages(context.Background(), nil, dir)
			if err != nil {
				t.Fatalf("Packages: %v", err)
			}
			if len(problems) != tt.problems {
				t.Fatalf("problems = %v, want %d", problems, tt.problems)
			}
			if tt.contains != "" && !strings.Contains(problems[0].String(), tt.contains) {
				t.Errorf("problem %q does not mention %q", problems[0], tt.contains)
			}
		})
	}
}

func TestPackageProblems(t *testing.T) {
	const pos = "/tmp/scratch/demo/a.go:3:15"
	const msg = `cannot use "text" (untyped string constant) as int32 value in variable declaration`

	tests := []struct {
		name   string
		errors []packages.Error
		want   []Problem
	}{
		{
			name: "compile report repeats type error",
			errors: []packages.Error{
				{Msg: "# scratch/demo\ndemo/a.go:3:15: " + msg, Kind: packages.ListError},
				{Pos: pos, Msg: msg, Kind: packages.TypeError},
			},
			want: []Problem{{Package: "scratch/demo", Pos: pos, Msg: msg}},
		},
		{
			name: "same error twice",
			errors: []packages.Error{
				{Pos: pos, Msg: msg, Kind: packages.TypeError},
				{Pos: pos, Msg: msg, Kind: packages.TypeError},
			},
			want: []Problem{{Package: "scratch/demo", Pos: pos, Msg: msg}},
		},
		{
			name: "list error alone is kept",
			errors: []packages.Error{
				{Msg: "no Go files", Kind: packages.ListError},
			},
			want: []Problem{{Package: "scratch/demo", Msg: "no Go files"}},
		},
		{
			name: "distinct errors are kept",
			errors: []packages.Error{
				{Pos: pos, Msg: msg, Kind: packages.TypeError},
				{Pos: "a.go:4:1", Msg: "undefined: UnknownType", Kind: packages.TypeError},
			},
			want: []Problem{
				{Package: "scratch/demo", Pos: pos, Msg: msg},
				{Package: "scratch/demo", Pos: "a.go:4:1", Msg: "undefined: UnknownType"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := packageProblems(&packages.Package{PkgPath: "scratch/demo", Errors: tt.errors})
			if len(got) != len(tt.want) {
				t.Fatalf("problems = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("problem %d = %+v, want %+v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestCheck(t *testing.T) {
	requireGo(t)

	dir := scratchModule(t, map[string]string{"demo/a.go": "package demo\n\nvar x int32 = \"text\"\n"})
	err := Check(context.Background(), nil, dir)
	if !stderrors.Is(err, &errors.Error{Phase: errors.PhaseVerify, Kind: errors.KindInvalidData}) {
		t.Fatalf("Check() = %v, want a verify error", err)
	}

	clean := scratchModule(t, map[string]string{"demo/a.go": "package demo\n"})
	if err := Check(context.Background(), nil, clean); err != nil {
		t.Errorf("Check() on clean module = %v", err)
	}
}

func TestProblemString(t *testing.T) {
	p := Problem{Package: "demo", Pos: "a.go:3:15", Msg: "mismatch"}
	if p.String() != "a.go:3:15: mismatch" {
		t.Errorf("String() = %q", p.String())
	}
	p.Pos = ""
	if p.String() != "demo: mismatch" {
		t.Errorf("String() = %q", p.String())
	}
}
