// Package errors provides error wrapping with slog annotations and source locations.
//
// It re-exports the standard library helpers so callers only need one errors import.
package errors

import (
	"errors"
	"fmt"
	"log/slog"
	"runtime"
)

// New returns an error that formats as the given text. See [errors.New].
func New(text string) error {
	return errors.New(text)
}

// Is reports whether any error in err's tree matches target. See [errors.Is].
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's tree that matches target. See [errors.As].
func As(err error, target any) bool {
	return errors.As(err, target)
}

// Unwrap returns the result of calling the Unwrap method on err. See [errors.Unwrap].
func Unwrap(err error) error {
	return errors.Unwrap(err)
}

// Join wraps the given errors into a single error. See [errors.Join].
func Join(errs ...error) error {
	return errors.Join(errs...)
}

// annotatedError carries a message, an optional cause, slog annotations, and the
// source location where it was created.
type annotatedError struct {
	msg    string
	err    error
	attrs  []slog.Attr
	source string
}

func (e *annotatedError) Error() string {
	if e.err == nil {
		return e.msg
	}
	return e.msg + ": " + e.err.Error()
}

func (e *annotatedError) Unwrap() error {
	return e.err
}

// callerSource resolves the file:line of the caller skip frames up the stack.
func callerSource(skip int) string {
	_, file, line, ok := runtime.Caller(skip + 1)
	if !ok {
		return "unknown"
	}
	// Trim the path down to the file name to keep log lines short.
	short := file
	for i := len(file) - 1; i > 0; i-- {
		if file[i] == '/' {
			short = file[i+1:]
			break
		}
	}
	return fmt.Sprintf("%s:%d", short, line)
}

// NewSentinel creates a sentinel error suitable for errors.Is comparisons.
func NewSentinel(msg string) error {
	return &annotatedError{msg: msg, err: nil, attrs: nil, source: callerSource(1)}
}

// Wrap annotates err with a message and optional [slog.Attr] metadata.
//
// The annotations surface in logs through [SlogError].
func Wrap(err error, msg string, attrs ...slog.Attr) error {
	return &annotatedError{msg: msg, err: err, attrs: attrs, source: callerSource(1)}
}

// DecoratePanic converts a recovered panic value into an error with a stack trace.
func DecoratePanic(recovered any) error {
	if recovered == nil {
		return nil
	}
	stack := make([]byte, 4096) //nolint:mnd // enough stack for diagnostics
	n := runtime.Stack(stack, false)
	return Wrap(
		fmt.Errorf("panic: %v", recovered),
		"recovered from panic",
		slog.String("stack", string(stack[:n])),
	)
}

// SlogError converts err into a [slog.Attr] including all annotations and the
// source location of the outermost annotated error.
func SlogError(err error) slog.Attr {
	if err == nil {
		return slog.Attr{Key: "error", Value: slog.StringValue("<nil>")}
	}

	groupAttrs := []slog.Attr{slog.String("message", err.Error())}

	if annotations := collectAnnotations(err); len(annotations) > 0 {
		groupAttrs = append(groupAttrs, slog.Attr{
			Key:   "annotations",
			Value: slog.GroupValue(annotations...),
		})
	}

	var annotated *annotatedError
	if errors.As(err, &annotated) {
		groupAttrs = append(groupAttrs, slog.String("source", annotated.source))
	}

	return slog.Attr{Key: "error", Value: slog.GroupValue(groupAttrs...)}
}

// collectAnnotations walks the error tree and gathers slog annotations.
func collectAnnotations(err error) []slog.Attr {
	var attrs []slog.Attr
	for err != nil {
		var annotated *annotatedError
		if !errors.As(err, &annotated) {
			break
		}
		attrs = append(attrs, annotated.attrs...)
		err = annotated.err
	}
	return attrs
}
