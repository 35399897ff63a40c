package errors

import (
	stderrors "errors"
	"fmt"
	"os"

	"github.com/Kuldeep-Sharmaa/remindrai/internal/logger"
)

// Kind groups failures by how the engine reacts to them.
type Kind string

const (
	// KindTransient covers store and network hiccups. Each component applies
	// its own fail-open or fail-closed policy; nothing is retried.
	KindTransient Kind = "transient"
	// KindProvider covers AI call failures, timeouts and malformed responses.
	KindProvider Kind = "provider"
	// KindData covers missing intents and unknown reminder types.
	KindData Kind = "data"
	// KindPolicy covers cap denials. These are recorded outcomes, not faults.
	KindPolicy Kind = "policy"
)

var (
	ErrNotFound = stderrors.New("not found")
	ErrProvider = stderrors.New("ai provider failure")
	ErrData     = stderrors.New("invalid intent data")
	ErrPolicy   = stderrors.New("denied by usage policy")
)

// Classify maps an error onto the engine's taxonomy. Anything not tagged with
// one of the sentinels is treated as transient infrastructure trouble.
func Classify(err error) Kind {
	switch {
	case err == nil:
		return ""
	case stderrors.Is(err, ErrNotFound), stderrors.Is(err, ErrData):
		return KindData
	case stderrors.Is(err, ErrProvider):
		return KindProvider
	case stderrors.Is(err, ErrPolicy):
		return KindPolicy
	default:
		return KindTransient
	}
}

// Provider wraps err so that Classify reports KindProvider.
func Provider(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrProvider, err)
}

// Dataf builds a KindData error.
func Dataf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrData, fmt.Sprintf(format, args...))
}

// Format formats an error message with a consistent "Error: " prefix
func Format(err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("Error: %v", err)
}

// Formatf formats an error message with a consistent "Error: " prefix using a format string
func Formatf(format string, args ...interface{}) string {
	return fmt.Sprintf("Error: "+format, args...)
}

// Fatal logs an error and exits the program with exit code 1
func Fatal(err error) {
	if err != nil {
		logger.Error("Command execution failed", "error", err, "kind", Classify(err))
		fmt.Fprintf(os.Stderr, "%s\n", Format(err))
		os.Exit(1)
	}
}

// Fatalf logs and formats an error message, then exits the program with exit code 1
func Fatalf(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	logger.Error("Command execution failed", "error", msg)
	fmt.Fprintf(os.Stderr, "%s\n", Formatf(format, args...))
	os.Exit(1)
}
