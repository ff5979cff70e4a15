package engine

import (
	"context"
	"io"
	"runtime"
	"testing"
	"time"

	"github.com/n2code/cloakproj/internal/logging"
	"github.com/n2code/cloakproj/internal/project"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestParameters() (Parameters, *logging.ErrorRecorder) {
	logger := logrus.New()
	logger.Out = io.Discard
	logger.Level = logrus.DebugLevel
	recorder := logging.NewErrorRecorder()
	logger.AddHook(recorder)

	d := project.New()
	d.BaseDirectory = "/b"
	d.OutputDirectory = "/b/confused"
	d.GetOrCreateModule("/b/App.dll", false)
	return Parameters{Project: d, Logger: logger}, recorder
}

func requireShell(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("engine scripts require a POSIX shell")
	}
}

func TestFuncEngine(t *testing.T) {
	params, recorder := newTestParameters()
	var seen *project.Descriptor
	engine := Func(func(ctx context.Context, p Parameters) error {
		seen = p.Project
		p.Logger.Error("protection failed")
		return nil
	})

	require.NoError(t, engine.Run(context.Background(), params))
	assert.Same(t, params.Project, seen)
	assert.True(t, recorder.HasError())
}

func TestCommandReceivesDescriptorAndOutputDirectory(t *testing.T) {
	requireShell(t)
	params, recorder := newTestParameters()
	engine := Command{
		Executable: "/bin/sh",
		Args: []string{"-c", `grep -q 'path="App.dll"' "$1" && echo "[info] protecting into $2" || echo "[error] descriptor missing"`,
			"sh", ProjectPlaceholder, OutputPlaceholder},
	}

	require.NoError(t, engine.Run(context.Background(), params))
	assert.False(t, recorder.HasError(), recorder.Messages())
}

func TestCommandErrorLinesAreRecorded(t *testing.T) {
	requireShell(t)
	params, recorder := newTestParameters()
	engine := Command{
		Executable: "/bin/sh",
		Args:       []string{"-c", `echo "[WARN] slow"; echo "[ERROR] cannot resolve Dep.dll"; echo done`},
	}

	require.NoError(t, engine.Run(context.Background(), params))
	assert.Equal(t, []string{"cannot resolve Dep.dll"}, recorder.Messages())
}

func TestCommandNonZeroExit(t *testing.T) {
	requireShell(t)
	params, recorder := newTestParameters()
	engine := Command{Executable: "/bin/sh", Args: []string{"-c", "exit 3"}}

	err := engine.Run(context.Background(), params)
	require.ErrorIs(t, err, ErrEngineFailed)
	assert.Contains(t, err.Error(), "exit code 3")
	assert.True(t, recorder.HasError())
}

func TestCommandTimeout(t *testing.T) {
	requireShell(t)
	params, _ := newTestParameters()
	engine := Command{Executable: "/bin/sh", Args: []string{"-c", "exec sleep 10"}, Timeout: 50 * time.Millisecond}

	started := time.Now()
	err := engine.Run(context.Background(), params)
	require.ErrorIs(t, err, ErrEngineFailed)
	assert.Less(t, time.Since(started), 5*time.Second)
}

func TestCommandTimeoutStopsDescendants(t *testing.T) {
	requireShell(t)
	params, recorder := newTestParameters()
	engine := Command{Executable: "/bin/sh", Args: []string{"-c", "sleep 5; echo done"}, Timeout: 50 * time.Millisecond}

	started := time.Now()
	err := engine.Run(context.Background(), params)
	require.ErrorIs(t, err, ErrEngineFailed)
	assert.Contains(t, err.Error(), "run aborted")
	assert.Less(t, time.Since(started), 2*time.Second)
	assert.True(t, recorder.HasError())
}

func TestCommandCancellationStopsDescendants(t *testing.T) {
	requireShell(t)
	params, _ := newTestParameters()
	engine := Command{Executable: "/bin/sh", Args: []string{"-c", "echo [info] started; sleep 5 & wait"}}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	time.AfterFunc(100*time.Millisecond, cancel)
	started := time.Now()
	err := engine.Run(ctx, params)
	require.ErrorIs(t, err, ErrEngineFailed)
	assert.Less(t, time.Since(started), 2*time.Second)
}

func TestCommandMissingExecutable(t *testing.T) {
	params, recorder := newTestParameters()

	err := Command{Executable: "/nonexistent/confuser-cli"}.Run(context.Background(), params)
	require.ErrorIs(t, err, ErrEngineFailed)
	assert.True(t, recorder.HasError())

	err = Command{}.Run(context.Background(), params)
	require.ErrorIs(t, err, ErrEngineFailed)
}

func TestClassifyLine(t *testing.T) {
	tests := []struct {
		line      string
		wantLevel logrus.Level
		wantMsg   string
	}{
		{line: "[ERROR] broken", wantLevel: logrus.ErrorLevel, wantMsg: "broken"},
		{line: "  [Warn]   careful ", wantLevel: logrus.WarnLevel, wantMsg: "careful"},
		{line: "[debug]", wantLevel: logrus.DebugLevel, wantMsg: ""},
		{line: "plain text", wantLevel: logrus.InfoLevel, wantMsg: "plain text"},
		{line: "[warning] deprecated", wantLevel: logrus.WarnLevel, wantMsg: "deprecated"},
	}
	for _, tt := range tests {
		level, msg := classifyLine(tt.line, logrus.InfoLevel)
		assert.Equal(t, tt.wantLevel, level, tt.line)
		assert.Equal(t, tt.wantMsg, msg, tt.line)
	}
}

func TestExpandArgs(t *testing.T) {
	assert.Equal(t, []string{"/tmp/p.crproj"}, Command{}.expandArgs("/tmp/p.crproj", "/out"))
	assert.Equal(t, []string{"-n", "-o=/out", "/tmp/p.crproj"},
		Command{Args: []string{"-n", "-o=" + OutputPlaceholder, ProjectPlaceholder}}.expandArgs("/tmp/p.crproj", "/out"))
}
