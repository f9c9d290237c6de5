package generation

import (
	"strings"

	"go.uber.org/zap"

	"idlgen/errors"
	"idlgen/internal/metadata"
)

// Diagnostic records a part of the model that was emitted as a placeholder
// or that the target language may reject.
type Diagnostic struct {
	Interface string
	Artifact  Artifact
	Path      []string
	Err       *errors.Error
}

func (d Diagnostic) String() string {
	return d.Interface + " " + string(d.Artifact) + " " + strings.Join(d.Path, ".") + ": " + d.Err.Detail
}

// Unknown records a type node of a kind the dialect cannot map. Emission
// continues with a placeholder.
func (c *Context) Unknown(path []string, t metadata.Type) {
	kind := t.KindName
	if kind == "" {
		kind = t.Kind.String()
	}
	if c.report(path, errors.UnknownType(path, kind)) {
		Logger().Warn("unknown type emitted as placeholder",
			zap.String("interface", c.Names.FullName),
			zap.String("artifact", string(c.Artifact)),
			zap.String("path", strings.Join(path, ".")),
			zap.String("kind", kind),
		)
	}
}

// Unsupported records a construct that is emitted as modelled although the
// target language may not accept it.
func (c *Context) Unsupported(path []string, detail string, args ...any) {
	err := errors.New(errors.PhaseEmit, errors.KindUnsupported).Path(path...).Detail(detail, args...).Build()
	if c.report(path, err) {
		Logger().Warn("construct may not compile",
			zap.String("interface", c.Names.FullName),
			zap.String("artifact", string(c.Artifact)),
			zap.String("path", strings.Join(path, ".")),
			zap.String("detail", err.Detail),
		)
	}
}

// report records err once per artifact and path.
func (c *Context) report(path []string, err *errors.Error) bool {
	key := string(err.Kind) + ":" + strings.Join(path, ".")
	if c.reported[key] {
		return false
	}
	c.reported[key] = true

	c.diagnostics = append(c.diagnostics, Diagnostic{
		Interface: c.Names.FullName,
		Artifact:  c.Artifact,
		Path:      path,
		Err:       err,
	})
	return true
}
