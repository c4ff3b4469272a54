// Package errs enumerates the data-error sentinel values raised by the
// core packages (sigindex, rowmatch). These are always recoverable: the
// caller gets back a plain error and the object that raised it is left in
// its pre-call state, never half-built.
//
// Lifecycle violations (calling a sealed TermTable's mutators, or calling
// a query method before Seal) are a different class of problem -- logic
// errors from misusing the construction protocol -- and are reported via
// internal/assert.PanicIf instead of these sentinels.
package errs

import "errors"

var (
	// ErrNotSealed names the lifecycle violation of calling a TermTable query
	// method before Seal. It is never returned: its text is formatted into
	// the message of the panic raised through internal/assert.PanicIf.
	ErrNotSealed = errors.New("sigindex: term table not sealed")

	// ErrSealed names the lifecycle violation of calling a TermTable mutator
	// after Seal. It is never returned: its text is formatted into the
	// message of the panic raised through internal/assert.PanicIf.
	ErrSealed = errors.New("sigindex: term table already sealed")

	// ErrDuplicateTerm is raised by CloseTerm when the hash already has an
	// explicit entry.
	ErrDuplicateTerm = errors.New("sigindex: duplicate explicit term")

	// ErrMalformedPlan is raised by rowmatch parsing on a missing required
	// field, wrong child arity, or unknown NodeType tag.
	ErrMalformedPlan = errors.New("rowmatch: malformed plan")

	// ErrCorruptTable is raised by TermTable deserialization on bad magic,
	// unsupported version, or a truncated stream.
	ErrCorruptTable = errors.New("sigindex: corrupt term table")

	// ErrOutOfRangeConfig is raised by Treatment construction when density
	// or snr is outside its legal range.
	ErrOutOfRangeConfig = errors.New("sigindex: out of range treatment config")
)
