package cloakproj

import (
	"context"
	"fmt"

	"github.com/n2code/cloakproj/internal/engine"
	"github.com/n2code/cloakproj/internal/logging"
	"github.com/n2code/cloakproj/internal/output"
	"github.com/n2code/cloakproj/internal/project"
	"github.com/sirupsen/logrus"
)

// RunRequest names the descriptor to run and the assembly path the engine output is destined for.
type RunRequest struct {
	Project        string
	OutputAssembly string
}

// RunResult reports whether the engine run passed along with the error records it produced.
type RunResult struct {
	Passed bool
	Errors []string
}

// Run loads the descriptor, directs its output next to the output assembly and blocks until the engine completed.
// The run fails if the engine logged any record of error severity. A failed run is not retried.
func Run(ctx context.Context, request RunRequest, protector engine.Engine, config CreateConfig) (RunResult, error) {
	if isBlank(request.Project) {
		return RunResult{}, newCommandError(ErrConfiguration, "project path is required", nil)
	}
	if isBlank(request.OutputAssembly) {
		return RunResult{}, newCommandError(ErrConfiguration, "output assembly path is required", nil)
	}
	if protector == nil {
		return RunResult{}, newCommandError(ErrConfiguration, "no protection engine given", nil)
	}

	d, err := project.LoadFromFile(config.fs(), request.Project)
	if err != nil {
		return RunResult{}, storageError("reading project failed", err)
	}
	d.OutputDirectory = project.DirectoryOf(request.OutputAssembly)

	recorder := logging.NewErrorRecorder()
	sink := withHook(config.logger(), recorder)
	sink.Infof("protecting %d %s into %s", len(d.Modules), output.Plural(len(d.Modules), "module", "modules"), d.OutputDirectory)

	if runErr := protector.Run(ctx, engine.Parameters{Project: d, Logger: sink}); runErr != nil && !recorder.HasError() {
		sink.Error(runErr.Error())
	}

	result := RunResult{Passed: !recorder.HasError(), Errors: recorder.Messages()}
	if !result.Passed {
		return result, newCommandError(ErrEngine, fmt.Sprintf("protection failed with %d %s", len(result.Errors), output.Plural(result.Errors, "error", "errors")), nil)
	}
	return result, nil
}

// withHook derives a logger sharing output and formatting with base but carrying an additional hook.
// Error records always reach the hooks even if base is configured to be quieter.
func withHook(base *logrus.Logger, hook logrus.Hook) *logrus.Logger {
	hooks := make(logrus.LevelHooks)
	for level, levelHooks := range base.Hooks {
		hooks[level] = append([]logrus.Hook(nil), levelHooks...)
	}
	hooks.Add(hook)
	derived := &logrus.Logger{
		Out:          base.Out,
		Formatter:    base.Formatter,
		Hooks:        hooks,
		Level:        base.GetLevel(),
		ReportCaller: base.ReportCaller,
		ExitFunc:     base.ExitFunc,
	}
	if !derived.IsLevelEnabled(logrus.ErrorLevel) {
		derived.SetLevel(logrus.ErrorLevel)
	}
	return derived
}
