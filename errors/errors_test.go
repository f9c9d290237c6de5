package errors

import (
	"errors"
	"strings"
	"testing"
)

func TestError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *Error
		contains []string
	}{
		{
			name: "full error",
			err: &Error{
				Phase:  PhaseValidate,
				Kind:   KindInvalidModel,
				Path:   []string{"interfaces[0]", "methods[2]"},
				Detail: "bad handle",
			},
			contains: []string{"[validate]", "invalid_model", "interfaces[0].methods[2]", "bad handle"},
		},
		{
			name: "minimal error",
			err: &Error{
				Phase: PhaseDecode,
				Kind:  KindOutOfBounds,
			},
			contains: []string{"[decode]", "out_of_bounds"},
		},
		{
			name: "error with cause",
			err: &Error{
				Phase:  PhaseWrite,
				Kind:   KindIO,
				Detail: "cannot access file",
				Cause:  errors.New("permission denied"),
			},
			contains: []string{"[write]", "io", "cannot access file", "caused by", "permission denied"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := tt.err.Error()
			for _, s := range tt.contains {
				if !strings.Contains(msg, s) {
					t.Errorf("error message %q does not contain %q", msg, s)
				}
			}
		})
	}
}

func TestError_Unwrap(t *testing.T) {
	cause := errors.New("root cause")
	err := Wrap(PhaseEmit, KindIO, cause, "render")

	if !errors.Is(err, cause) {
		t.Error("errors.Is did not find cause")
	}
	if errors.Unwrap(err) != cause {
		t.Error("errors.Unwrap did not return cause")
	}
}

func TestError_Is(t *testing.T) {
	err := NotFound(PhaseLoad, "interface", "IFoo")

	if !errors.Is(err, &Error{Phase: PhaseLoad, Kind: KindNotFound}) {
		t.Error("expected match on phase and kind")
	}
	if errors.Is(err, &Error{Phase: PhaseEmit, Kind: KindNotFound}) {
		t.Error("unexpected match with different phase")
	}
	if errors.Is(err, &Error{Phase: PhaseLoad, Kind: KindIO}) {
		t.Error("unexpected match with different kind")
	}
}

func TestBuilder(t *testing.T) {
	cause := errors.New("eof")
	err := New(PhaseDecode, KindOutOfBounds).
		Path("reply", "status").
		Value(7).
		Detail("need %d bytes", 4).
		Cause(cause).
		Build()

	if err.Phase != PhaseDecode || err.Kind != KindOutOfBounds {
		t.Errorf("phase/kind = %s/%s", err.Phase, err.Kind)
	}
	if strings.Join(err.Path, ".") != "reply.status" {
		t.Errorf("path = %v", err.Path)
	}
	if err.Value != 7 {
		t.Errorf("value = %v", err.Value)
	}
	if err.Detail != "need 4 bytes" {
		t.Errorf("detail = %q", err.Detail)
	}
	if !errors.Is(err, cause) {
		t.Error("cause not wrapped")
	}
}

func TestConvenienceConstructors(t *testing.T) {
	tests := []struct {
		name  string
		err   *Error
		phase Phase
		kind  Kind
	}{
		{"invalid model", InvalidModel([]string{"types[3]"}, "map has %d nested types", 1), PhaseValidate, KindInvalidModel},
		{"unknown type", UnknownType([]string{"IFoo", "Bar"}, "tuple"), PhaseEmit, KindUnknownType},
		{"invalid input", InvalidInput(PhaseLoad, "empty"), PhaseLoad, KindInvalidInput},
		{"unsupported", Unsupported(PhaseEmit, "dialect"), PhaseEmit, KindUnsupported},
		{"io", IO(PhaseWrite, "/x", errors.New("denied")), PhaseWrite, KindIO},
		{"out of bounds", OutOfBounds(PhaseValidate, nil, 9, 3), PhaseValidate, KindOutOfBounds},
		{"short read", ShortRead("int32", 4, 1), PhaseDecode, KindOutOfBounds},
		{"invalid data", InvalidData(PhaseDecode, nil, "bad"), PhaseDecode, KindInvalidData},
		{"overflow", Overflow(PhaseEncode, nil, 1<<40, "int32"), PhaseEncode, KindOverflow},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.Phase != tt.phase {
				t.Errorf("phase = %s, want %s", tt.err.Phase, tt.phase)
			}
			if tt.err.Kind != tt.kind {
				t.Errorf("kind = %s, want %s", tt.err.Kind, tt.kind)
			}
			if tt.err.Error() == "" {
				t.Error("empty message")
			}
		})
	}
}
