package main

import (
	"github.com/n2code/cloakproj"
	"github.com/n2code/cloakproj/cmd/cloakproj/flags"
	"github.com/n2code/cloakproj/internal/engine"
	"github.com/n2code/cloakproj/internal/output"
	"github.com/spf13/cobra"
)

func getConfuseCmd(root *rootCommand) *cobra.Command {
	var request cloakproj.RunRequest
	confuseCmd := &cobra.Command{
		Use:   "confuse",
		Short: "Run the protection engine on a descriptor",
		Long: `Run the protection engine on a descriptor.

The output directory of the descriptor is set to the directory of the output assembly.
The engine is configured in the [engine] section of the config file. The run fails if
the engine reports any error.`,
		Args: configurationArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			request.Project = root.absolute(request.Project)
			request.OutputAssembly = root.absolute(request.OutputAssembly)
			protector := engine.Command{
				Executable: root.settings.Engine.Command,
				Args:       root.settings.Engine.Args,
				Timeout:    root.settings.Engine.Timeout,
				Fs:         root.gs.fs,
			}
			result, err := cloakproj.Run(cmd.Context(), request, protector, root.apiConfig())
			if err != nil {
				return err
			}
			if result.Passed {
				root.printer.Out(output.Normal, "%s %s\n", output.TerminalFormatAsSuccess("Protected:", root.printer.Escapes()), root.displayPath(request.OutputAssembly))
			}
			return nil
		},
	}
	set := confuseCmd.Flags()
	set.StringVar(&request.Project, flags.ConfuseProject, "", "descriptor to run (required)")
	set.StringVar(&request.OutputAssembly, flags.ConfuseOutputAssembly, "", "assembly path the protected output is destined for (required)")
	return confuseCmd
}
