// Package besteffort marks side effects whose failure must not change the
// outcome of an execution. Callers run the operation and then explicitly
// Discard the result, so the dropped error is visible at the call site.
package besteffort

import "github.com/Kuldeep-Sharmaa/remindrai/internal/logger"

// Result is the outcome of a best-effort operation.
type Result struct {
	Op  string
	Err error
}

// Run executes fn and captures its error.
func Run(op string, fn func() error) Result {
	return Result{Op: op, Err: fn()}
}

// OK reports whether the operation succeeded.
func (r Result) OK() bool { return r.Err == nil }

// Discard logs a failure at warn level and drops it. It returns OK() so
// callers can branch on success without handling the error.
func (r Result) Discard(keyvals ...interface{}) bool {
	if r.Err != nil {
		kv := append([]interface{}{"op", r.Op, "error", r.Err}, keyvals...)
		logger.Warn("Best-effort operation failed", kv...)
		return false
	}
	return true
}
