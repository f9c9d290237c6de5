// Package verify type-checks generated Go packages the way the go command
// would load them.
package verify

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/tools/go/packages"

	"idlgen/errors"
)

// Problem is one error reported while loading or type-checking a package.
type Problem struct {
	Package string
	Pos     string
	Msg     string
}

func (p Problem) String() string {
	if p.Pos == "" {
		return p.Package + ": " + p.Msg
	}
	return p.Pos + ": " + p.Msg
}

const loadMode = packages.NeedName | packages.NeedFiles | packages.NeedImports |
	packages.NeedTypes | packages.NeedSyntax | packages.NeedTypesInfo

// Packages loads patterns relative to dir and returns every problem found.
// The error is only set when the packages cannot be loaded at all.
func Packages(ctx context.Context, logger *zap.Logger, dir string, patterns ...string) ([]Problem, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if len(patterns) == 0 {
		patterns = []string{"./..."}
	}

	cfg := &packages.Config{
		Context: ctx,
		Mode:    loadMode,
		Dir:     dir,
		Tests:   false,
	}
	pkgs, err := packages.Load(cfg, patterns...)
	if err != nil {
		return nil, errors.Wrap(errors.PhaseVerify, errors.KindIO, err, fmt.Sprintf("load %s", strings.Join(patterns, " ")))
	}

	var problems []Problem
	packages.Visit(pkgs, nil, func(pkg *packages.Package) {
		problems = append(problems, packageProblems(pkg)...)
	})
	logger.Debug("verified packages",
		zap.String("dir", dir),
		zap.Int("packages", len(pkgs)),
		zap.Int("problems", len(problems)),
	)
	return problems, nil
}

// packageProblems converts the errors of one package. The go command repeats
// type errors in its own compile report, so list errors are dropped when the
// type checker already reported something.
func packageProblems(pkg *packages.Package) []Problem {
	typed := false
	for _, e := range pkg.Errors {
		typed = typed || e.Kind == packages.TypeError
	}

	type key struct{ pos, msg string }
	seen := make(map[key]bool, len(pkg.Errors))
	var problems []Problem
	for _, e := range pkg.Errors {
		if typed && e.Kind == packages.ListError {
			continue
		}
		k := key{e.Pos, e.Msg}
		if seen[k] {
			continue
		}
		seen[k] = true
		problems = append(problems, Problem{Package: pkg.PkgPath, Pos: e.Pos, Msg: e.Msg})
	}
	return problems
}

// Check is Packages folded into a single error.
func Check(ctx context.Context, logger *zap.Logger, dir string, patterns ...string) error {
	problems, err := Packages(ctx, logger, dir, patterns...)
	if err != nil {
		return err
	}
	if len(problems) == 0 {
		return nil
	}

	lines := make([]string, len(problems))
	for i, p := range problems {
		lines[i] = p.String()
	}
	return errors.New(errors.PhaseVerify, errors.KindInvalidData).
		Value(len(problems)).
		Detail("%d problem(s) in generated code:\n%s", len(problems), strings.Join(lines, "\n")).
		Build()
}
