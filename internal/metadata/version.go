package metadata

import (
	"github.com/hashicorp/go-version"

	"idlgen/errors"
)

// SupportedFormats is the range of model format versions this generator reads.
const SupportedFormats = ">= 1.0, < 2.0"

// DefaultFormat is assumed for documents that do not state a format version.
const DefaultFormat = "1.0"

var supportedFormats = version.MustConstraints(version.NewConstraint(SupportedFormats))

// CheckFormatVersion reports whether documents of format v can be read.
func CheckFormatVersion(v string) error {
	if v == "" {
		v = DefaultFormat
	}

	parsed, err := version.NewVersion(v)
	if err != nil {
		return errors.New(errors.PhaseLoad, errors.KindInvalidInput).
			Detail("malformed format version %q", v).
			Cause(err).
			Build()
	}

	if !supportedFormats.Check(parsed) {
		return errors.New(errors.PhaseLoad, errors.KindUnsupported).
			Value(v).
			Detail("format version %s outside supported range %q", parsed, SupportedFormats).
			Build()
	}
	return nil
}
