// Package assert provides the abort-style contract checks used to guard the
// ordered construction protocols in this repo (TermTable's state machine,
// the RowMatchNode Builder's target-type and Not-arity rules). Violating one of these is a
// programming error, not recoverable input data, so these panic rather than
// return an error.
package assert

import "fmt"

// PanicIf panics with the formatted message when cond is true.
// The caller is responsible for logging/printing error detail before
// triggering a condition that reaches here.
func PanicIf(cond bool, format string, v ...interface{}) {
	if !cond {
		return
	}
	panic(fmt.Errorf(format, v...))
}

// PanicIfErr panics with the formatted message, wrapping err, when err is
// not nil.
func PanicIfErr(err error, format string, v ...interface{}) {
	if err == nil {
		return
	}
	msg := fmt.Sprintf(format, v...)
	panic(fmt.Errorf("%s: %w", msg, err))
}
