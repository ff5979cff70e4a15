package main

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/n2code/cloakproj"
	"github.com/n2code/cloakproj/cmd/cloakproj/flags"
	"github.com/n2code/cloakproj/internal/config"
	"github.com/n2code/cloakproj/internal/logging"
	"github.com/n2code/cloakproj/internal/output"
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// globalState is everything a command touches outside of its own flags, tests replace it wholesale.
type globalState struct {
	ctx       context.Context
	fs        afero.Fs
	wd        string //empty if unknown
	stdout    io.Writer
	stderr    io.Writer
	stdoutTTY bool
}

type rootCommand struct {
	gs         *globalState
	cmd        *cobra.Command
	configPath string
	verbose    bool
	quiet      bool
	noColor    bool

	settings config.Config
	logger   *logrus.Logger
	printer  output.Printer
}

func newRootCommand(gs *globalState) *rootCommand {
	c := &rootCommand{
		gs:      gs,
		logger:  logging.New(logging.DefaultConfig(), gs.stderr),
		printer: output.NewPrinter(gs.stdout, gs.stderr, output.ClassesFor(false, false), false),
	}
	c.cmd = &cobra.Command{
		Use:   "cloakproj",
		Short: "synthesize protection project descriptors from build artifacts",
		Long: `
cloakproj merges the artifacts of a build (main assembly, satellite assemblies, references
and signing key) into a protection project descriptor and hands it to the protection engine.`,
		Args:              configurationArgs(cobra.NoArgs),
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: c.persistentPreRunE,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
	c.cmd.SetOut(gs.stdout)
	c.cmd.SetErr(gs.stderr)
	c.cmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return fmt.Errorf("%w: %s", cloakproj.ErrConfiguration, err)
	})
	c.cmd.PersistentFlags().AddFlagSet(c.rootCmdPersistentFlagSet())
	c.cmd.AddCommand(
		getCreateCmd(c),
		getConfuseCmd(c),
		getShowCmd(c),
	)
	return c
}

func (c *rootCommand) rootCmdPersistentFlagSet() *pflag.FlagSet {
	set := pflag.NewFlagSet("", pflag.ContinueOnError)
	set.StringVar(&c.configPath, flags.Config, "", "TOML config file (default: $"+config.EnvConfigPath+" or ./"+config.DefaultFileName+")")
	set.BoolVarP(&c.verbose, flags.Verbose, flags.VerboseShort, false, "output more details on what is done (verbose mode)")
	set.BoolVarP(&c.quiet, flags.Quiet, flags.QuietShort, false, "output as little as possible (quiet mode)")
	set.BoolVar(&c.noColor, flags.NoColor, false, "disable colored output")
	must(cobra.MarkFlagFilename(set, flags.Config, "toml"))
	return set
}

func (c *rootCommand) persistentPreRunE(cmd *cobra.Command, args []string) error {
	if c.verbose && c.quiet {
		return fmt.Errorf("%w: quiet mode and verbose mode are mutually exclusive", cloakproj.ErrConfiguration)
	}
	settings, err := config.Load(c.gs.fs, config.Resolve(c.gs.fs, c.configPath))
	if err != nil {
		return fmt.Errorf("%w: %s", cloakproj.ErrConfiguration, err)
	}
	if c.noColor {
		settings.Log.NoColor = true
	}
	c.settings = settings

	c.logger = logging.New(settings.Log, c.gs.stderr)
	switch {
	case c.verbose:
		c.logger.SetLevel(logrus.DebugLevel)
	case c.quiet:
		c.logger.SetLevel(logrus.ErrorLevel)
	}
	escapes := c.gs.stdoutTTY && !settings.Log.NoColor
	c.printer = output.NewPrinter(c.gs.stdout, c.gs.stderr, output.ClassesFor(c.quiet, c.verbose), escapes)
	c.logger.Debugf("configuration loaded, engine command %q", settings.Engine.Command)
	return nil
}

// absolute resolves relative paths against the working directory, blanks stay blank.
func (c *rootCommand) absolute(path string) string {
	if strings.TrimSpace(path) == "" || filepath.IsAbs(path) {
		return path
	}
	if c.gs.wd == "" {
		if abs, err := filepath.Abs(path); err == nil {
			return abs
		}
		return path
	}
	return filepath.Join(c.gs.wd, path)
}

func (c *rootCommand) absoluteAll(paths []string) []string {
	resolved := make([]string, 0, len(paths))
	for _, path := range paths {
		resolved = append(resolved, c.absolute(path))
	}
	return resolved
}

// displayPath shortens paths below the working directory for user-facing messages.
func (c *rootCommand) displayPath(path string) string {
	return output.PleasantPath(path, c.gs.wd, false)
}

func (c *rootCommand) apiConfig() cloakproj.CreateConfig {
	return cloakproj.CreateConfig{
		Fs:      c.gs.fs,
		Logger:  c.logger,
		Escapes: c.printer.Escapes(),
	}
}

// execute runs the command line and reports any failure, the result is the process exit code.
func (c *rootCommand) execute(args []string) int {
	c.cmd.SetArgs(args)
	err := c.cmd.ExecuteContext(c.gs.ctx)
	if err == nil {
		return cloakproj.ExitSuccess
	}
	c.printer.Out(output.Error, "%s\n", err)
	if cloakproj.ExitCode(err) == cloakproj.ExitConfiguration {
		c.printer.Out(output.Normal, "Usage help: cloakproj help\n")
	}
	return cloakproj.ExitCode(err)
}

// configurationArgs classifies argument count violations as configuration errors.
func configurationArgs(validate cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := validate(cmd, args); err != nil {
			return fmt.Errorf("%w: %s", cloakproj.ErrConfiguration, err)
		}
		return nil
	}
}

func must(err error) {
	if err != nil {
		panic(err)
	}
}
