package main

import (
	"github.com/n2code/cloakproj"
	"github.com/n2code/cloakproj/cmd/cloakproj/flags"
	"github.com/spf13/cobra"
)

func getShowCmd(root *rootCommand) *cobra.Command {
	var plain bool
	showCmd := &cobra.Command{
		Use:   "show DESCRIPTOR",
		Short: "Display the modules and probe paths of a descriptor",
		Args:  configurationArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			config := root.apiConfig()
			if plain {
				config.Escapes = false
			}
			return cloakproj.Describe(root.absolute(args[0]), root.gs.stdout, config)
		},
	}
	showCmd.Flags().BoolVar(&plain, flags.ShowPlain, false, "never print terminal escape sequences")
	return showCmd
}
