// Package internal holds helpers shared by the command and the generator.
package internal

// PanicOnError panics if given non-nil error.
// Should be used only for failures that are programming errors, never for bad input.
func PanicOnError(err error) {
	if err != nil {
		panic(err)
	}
}

// Must returns v and panics under the same rule as PanicOnError.
func Must[T any](v T, err error) T {
	PanicOnError(err)
	return v
}
