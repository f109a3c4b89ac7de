// Package diagnostics defines the single error type that crosses every
// phase boundary of the SOL25 front-end: lexing, parsing, and semantic
// analysis all fail by returning a *Diagnostic instead of a bare error,
// so the driver can map a failure straight onto the exit code contract
// without re-classifying it.
package diagnostics

import "fmt"

// Exit codes, as mandated by the SOL25 front-end's external interface.
const (
	ExitSuccess       = 0
	ExitMissingParam  = 10
	ExitOpenInput     = 11
	ExitOpenOutput    = 12
	ExitLexical       = 21
	ExitSyntactic     = 22
	ExitMissingMain   = 31
	ExitUndefinedVar  = 32
	ExitArity         = 33
	ExitVarCollision  = 34
	ExitSemanticOther = 35
	ExitInternal      = 99
)

// Diagnostic is a terminal failure from one phase of the pipeline.
// Pos is the byte offset into the source where the failure was
// detected; it is nil when no single position applies (e.g. a missing
// Main class, or an I/O failure).
type Diagnostic struct {
	Code    int
	Phase   string
	Message string
	Pos     *int
}

// New builds a Diagnostic with no associated position.
func New(code int, phase, format string, args ...any) *Diagnostic {
	return &Diagnostic{Code: code, Phase: phase, Message: fmt.Sprintf(format, args...)}
}

// At builds a Diagnostic anchored to a byte offset in the source.
func At(code int, phase string, pos int, format string, args ...any) *Diagnostic {
	p := pos
	return &Diagnostic{Code: code, Phase: phase, Message: fmt.Sprintf(format, args...), Pos: &p}
}

// Error implements the error interface so a *Diagnostic can be returned
// and compared anywhere Go code expects an error.
func (d *Diagnostic) Error() string {
	if d == nil {
		return ""
	}
	if d.Pos != nil {
		return fmt.Sprintf("%s error (%d) at position %d: %s", d.Phase, d.Code, *d.Pos, d.Message)
	}
	return fmt.Sprintf("%s error (%d): %s", d.Phase, d.Code, d.Message)
}
