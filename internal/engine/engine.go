// Package engine connects a project descriptor with the protection engine that consumes it.
//
// The engine is a black box: it receives the descriptor and a logger, reports progress and problems
// through the logger and returns once the run is complete. Whether a run passed is decided by the
// caller from the error records the logger has seen, not by the engine itself.
package engine

import (
	"context"
	"errors"

	"github.com/n2code/cloakproj/internal/project"
	"github.com/sirupsen/logrus"
)

var ErrEngineFailed = errors.New("protection engine failed")

// Parameters hold everything the engine needs for a single run.
type Parameters struct {
	Project *project.Descriptor
	Logger  logrus.FieldLogger
}

// Engine runs a protection pass. Run blocks until the pass is complete or the context is cancelled.
type Engine interface {
	Run(ctx context.Context, params Parameters) error
}

// Func adapts an ordinary function to the Engine interface.
type Func func(ctx context.Context, params Parameters) error

func (f Func) Run(ctx context.Context, params Parameters) error {
	return f(ctx, params)
}
