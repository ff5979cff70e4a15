package main

import (
	"github.com/n2code/cloakproj"
	"github.com/n2code/cloakproj/cmd/cloakproj/flags"
	"github.com/n2code/cloakproj/internal/output"
	"github.com/spf13/cobra"
)

func getCreateCmd(root *rootCommand) *cobra.Command {
	var request cloakproj.SynthesisRequest
	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Write the protection project descriptor for a build",
		Long: `Write the protection project descriptor for a build.

The main assembly and its satellite assemblies become modules of the descriptor,
the directories of all references become probe paths. If a source descriptor is
given its settings and modules are merged, otherwise a new descriptor is created.`,
		Example: `
  cloakproj create --assembly bin/MyApp.dll --result obj/MyApp.crproj \
      --reference libs/Dep1.dll --reference libs/Dep2.dll --key MyApp.snk`[1:],
		Args: configurationArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			request.SourceProject = root.absolute(request.SourceProject)
			request.AssemblyPath = root.absolute(request.AssemblyPath)
			request.SatelliteAssemblyPaths = root.absoluteAll(request.SatelliteAssemblyPaths)
			request.References = root.absoluteAll(request.References)
			request.KeyFilePath = root.absolute(request.KeyFilePath)
			request.ResultProject = root.absolute(request.ResultProject)

			report, err := cloakproj.Synthesize(request, root.apiConfig())
			if err != nil {
				return err
			}
			p := root.printer
			if report.Merged {
				p.Out(output.Verbose, "Merged source descriptor %s\n", root.displayPath(request.SourceProject))
			}
			p.Out(output.Verbose, "Main module: %s\n", report.MainModule.Path)
			p.Out(output.Normal, "%s %s (%d %s, %d new, %d %s)\n",
				output.TerminalFormatAsSuccess("Descriptor written:", p.Escapes()),
				root.displayPath(request.ResultProject),
				len(report.Project.Modules), output.Plural(len(report.Project.Modules), "module", "modules"),
				report.CreatedModules,
				report.Project.ProbePaths.Len(), output.Plural(report.Project.ProbePaths.Len(), "probe path", "probe paths"))
			return nil
		},
	}
	set := createCmd.Flags()
	set.StringVar(&request.AssemblyPath, flags.CreateAssembly, "", "main assembly of the build (required)")
	set.StringVar(&request.ResultProject, flags.CreateResult, "", "path the descriptor is written to (required)")
	set.StringVar(&request.SourceProject, flags.CreateSource, "", "descriptor to merge with")
	set.StringArrayVar(&request.References, flags.CreateReference, nil, "referenced assembly, repeatable")
	set.StringArrayVar(&request.SatelliteAssemblyPaths, flags.CreateSatellite, nil, "satellite assembly of the main assembly, repeatable")
	set.StringVar(&request.KeyFilePath, flags.CreateKey, "", "strong-name key file for main and satellite assemblies")
	return createCmd
}
