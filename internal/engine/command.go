package engine

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
)

const (
	ProjectPlaceholder = "{project}"
	OutputPlaceholder  = "{output}"
)

const projectFileName = "project.crproj"

// pipeDrainDelay bounds how long output of leftover descendants is read once the engine was stopped.
const pipeDrainDelay = 2 * time.Second

// Command runs an external protection engine executable.
// The descriptor is handed over as a temporary file whose path replaces ProjectPlaceholder in Args.
// Each line the process prints becomes a log record, a leading tag like "[ERROR]" selects the severity.
type Command struct {
	Executable string
	Args       []string      //defaults to the project file as only argument
	Timeout    time.Duration //zero means no limit
	Fs         afero.Fs      //must be visible to the engine process, defaults to the OS filesystem
}

func (c Command) Run(ctx context.Context, params Parameters) (err error) {
	logger := params.Logger.WithField("engine", filepath.Base(c.Executable))
	defer func() {
		if err != nil {
			logger.Error(err.Error())
		}
	}()

	if strings.TrimSpace(c.Executable) == "" {
		return fmt.Errorf("%w: no engine executable configured", ErrEngineFailed)
	}
	fs := c.Fs
	if fs == nil {
		fs = afero.NewOsFs()
	}

	workDir, err := afero.TempDir(fs, "", "cloakproj-")
	if err != nil {
		return fmt.Errorf("%w: %s", ErrEngineFailed, err)
	}
	defer fs.RemoveAll(workDir)
	projectFile := filepath.Join(workDir, projectFileName)
	if err = params.Project.SaveToFile(fs, projectFile); err != nil {
		return fmt.Errorf("%w: %s", ErrEngineFailed, err)
	}

	if c.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.Timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, c.Executable, c.expandArgs(projectFile, params.Project.OutputDirectory)...)
	killProcessGroupOnCancel(cmd)
	cmd.WaitDelay = pipeDrainDelay
	stdout, stdoutSink := io.Pipe()
	stderr, stderrSink := io.Pipe()
	cmd.Stdout = stdoutSink
	cmd.Stderr = stderrSink

	var forwarding sync.WaitGroup
	forwarding.Add(2)
	go func() {
		defer forwarding.Done()
		forwardLines(stdout, logger, logrus.InfoLevel)
	}()
	go func() {
		defer forwarding.Done()
		forwardLines(stderr, logger, logrus.WarnLevel)
	}()
	defer func() {
		stdoutSink.Close()
		stderrSink.Close()
		forwarding.Wait()
	}()

	logger.Debugf("starting %s", joinCommand(c.Executable, cmd.Args[1:]))
	if err = cmd.Start(); err != nil {
		return fmt.Errorf("%w: %s", ErrEngineFailed, err)
	}

	waitErr := cmd.Wait()
	if ctxErr := ctx.Err(); ctxErr != nil {
		return fmt.Errorf("%w: run aborted (%s)", ErrEngineFailed, ctxErr)
	}
	if waitErr != nil {
		var exitErr *exec.ExitError
		if errors.As(waitErr, &exitErr) {
			return fmt.Errorf("%w: exit code %d", ErrEngineFailed, exitErr.ExitCode())
		}
		return fmt.Errorf("%w: %s", ErrEngineFailed, waitErr)
	}
	return nil
}

func (c Command) expandArgs(projectFile string, outputDir string) []string {
	if len(c.Args) == 0 {
		return []string{projectFile}
	}
	expanded := make([]string, 0, len(c.Args))
	for _, arg := range c.Args {
		arg = strings.ReplaceAll(arg, ProjectPlaceholder, projectFile)
		arg = strings.ReplaceAll(arg, OutputPlaceholder, outputDir)
		expanded = append(expanded, arg)
	}
	return expanded
}

func forwardLines(r io.Reader, logger logrus.FieldLogger, untagged logrus.Level) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		level, message := classifyLine(scanner.Text(), untagged)
		if message == "" {
			continue
		}
		switch level {
		case logrus.PanicLevel, logrus.FatalLevel, logrus.ErrorLevel:
			logger.Error(message)
		case logrus.WarnLevel:
			logger.Warn(message)
		case logrus.InfoLevel:
			logger.Info(message)
		default:
			logger.Debug(message)
		}
	}
	if err := scanner.Err(); err != nil {
		logger.Warnf("engine output truncated: %s", err)
	}
}

var severityTags = []struct {
	tag   string
	level logrus.Level
}{
	{"[error]", logrus.ErrorLevel},
	{"[err]", logrus.ErrorLevel},
	{"[fatal]", logrus.FatalLevel},
	{"[warn]", logrus.WarnLevel},
	{"[warning]", logrus.WarnLevel},
	{"[info]", logrus.InfoLevel},
	{"[debug]", logrus.DebugLevel},
	{"[trace]", logrus.TraceLevel},
}

// classifyLine strips a leading severity tag, lines without a tag get the fallback level
func classifyLine(line string, fallback logrus.Level) (logrus.Level, string) {
	trimmed := strings.TrimSpace(line)
	lower := strings.ToLower(trimmed)
	for _, candidate := range severityTags {
		if strings.HasPrefix(lower, candidate.tag) {
			return candidate.level, strings.TrimSpace(trimmed[len(candidate.tag):])
		}
	}
	return fallback, trimmed
}

func joinCommand(cmd string, args []string) string {
	var builder strings.Builder
	builder.WriteString(shellEscape(cmd))
	for _, arg := range args {
		builder.WriteByte(' ')
		builder.WriteString(shellEscape(arg))
	}
	return builder.String()
}

func shellEscape(value string) string {
	if value == "" {
		return "''"
	}
	return "'" + strings.ReplaceAll(value, "'", `'"'"'`) + "'"
}
