// Package errors is the single error import for infrastructure code: stdlib
// matching plus pkg/errors stack traces, and Mark for tagging a failure with a
// domain error while its cause stays matchable.
package errors

import (
	stderrors "errors"

	pkgerrors "github.com/pkg/errors"
)

func New(text string) error { return pkgerrors.New(text) }

func Is(err, target error) bool { return stderrors.Is(err, target) }

func As(err error, target any) bool { return stderrors.As(err, target) }

func Join(errs ...error) error { return stderrors.Join(errs...) }

// AsType returns the first error in err's tree of type T.
func AsType[T error](err error) (T, bool) {
	var target T
	ok := stderrors.As(err, &target)

	return target, ok
}

func Wrap(err error, message string) error { return pkgerrors.Wrap(err, message) }

func Wrapf(err error, format string, args ...any) error {
	return pkgerrors.Wrapf(err, format, args...)
}

func Errorf(format string, args ...any) error { return pkgerrors.Errorf(format, args...) }

func WithStack(err error) error { return pkgerrors.WithStack(err) }

// Mark tags err with kind. The result matches both kind and err under Is/As,
// kind first, but prints only the message of err. A nil err stays nil.
func Mark(err, kind error) error {
	if err == nil {
		return nil
	}

	return &marked{kind: kind, cause: err}
}

type marked struct {
	kind  error
	cause error
}

func (m *marked) Error() string { return m.cause.Error() }

func (m *marked) Unwrap() []error { return []error{m.kind, m.cause} }
