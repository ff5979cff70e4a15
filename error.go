package cloakproj

import (
	"errors"
	"fmt"
	"strings"

	"github.com/n2code/cloakproj/internal/project"
)

// Error kinds, match with errors.Is.
var (
	ErrConfiguration = errors.New("configuration error")
	ErrParse         = errors.New("parse error")
	ErrIO            = errors.New("I/O error")
	ErrEngine        = errors.New("engine error")
)

// CommandError aborts an invocation as a whole. Nothing is persisted once it occurred.
type CommandError struct {
	kind    error
	message string
	cause   error
}

func (e *CommandError) Error() string {
	var msg strings.Builder
	fmt.Fprint(&msg, e.message)
	if e.cause != nil {
		fmt.Fprint(&msg, ": ", e.cause)
	}
	return msg.String()
}

func (e *CommandError) Unwrap() []error {
	if e.cause == nil {
		return []error{e.kind}
	}
	return []error{e.kind, e.cause}
}

// Kind yields one of the ErrConfiguration, ErrParse, ErrIO, or ErrEngine sentinels.
func (e *CommandError) Kind() error {
	return e.kind
}

func newCommandError(kind error, message string, cause error) *CommandError {
	return &CommandError{kind: kind, message: message, cause: cause}
}

// storageError classifies a failure of the descriptor storage layer.
func storageError(message string, cause error) *CommandError {
	if errors.Is(cause, project.ErrMalformed) {
		return newCommandError(ErrParse, message, cause)
	}
	return newCommandError(ErrIO, message, cause)
}

// Exit codes reported to the build host.
const (
	ExitSuccess       = 0
	ExitFailure       = 1
	ExitConfiguration = 2
	ExitParse         = 3
	ExitIO            = 4
	ExitEngine        = 5
)

// ExitCode maps an error returned by this package to a process exit code.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitSuccess
	case errors.Is(err, ErrConfiguration):
		return ExitConfiguration
	case errors.Is(err, ErrParse):
		return ExitParse
	case errors.Is(err, ErrIO):
		return ExitIO
	case errors.Is(err, ErrEngine):
		return ExitEngine
	default:
		return ExitFailure
	}
}
