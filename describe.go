package cloakproj

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/n2code/cloakproj/internal/output"
	"github.com/n2code/cloakproj/internal/project"
)

const outsideBaseLabel = "(outside base directory)"

// Describe prints the modules of the descriptor at path as a tree below its base directory,
// followed by its probe and plugin paths.
func Describe(path string, out io.Writer, config CreateConfig) error {
	if isBlank(path) {
		return newCommandError(ErrConfiguration, "project path is required", nil)
	}
	d, err := project.LoadFromFile(config.fs(), path)
	if err != nil {
		return storageError("reading project failed", err)
	}

	rootLabel := d.BaseDirectory
	if rootLabel == "" {
		rootLabel = "."
	}
	tree := output.NewVisualFileTree(output.TerminalFormatAsDim("[base] ", config.Escapes) + rootLabel)
	var outside []string
	for _, module := range d.Modules {
		label := moduleTags(module)
		if filepath.IsAbs(module.Path) {
			outside = append(outside, module.Path+label)
			continue
		}
		tree.InsertPath(module.Path, label)
	}
	tree.InsertGroup(outsideBaseLabel, outside)
	fmt.Fprint(out, tree.Render())

	fmt.Fprintf(out, "\n%d %s", len(d.Modules), output.Plural(len(d.Modules), "module", "modules"))
	if d.OutputDirectory != "" {
		fmt.Fprintf(out, ", output to %s", d.OutputDirectory)
	}
	fmt.Fprintf(out, ", %d %s\n", len(d.Rules), output.Plural(len(d.Rules), "rule", "rules"))
	listPaths(out, "probe path", "probe paths", d.ProbePaths.Values())
	listPaths(out, "plugin", "plugins", d.PluginPaths.Values())
	return nil
}

func moduleTags(module *project.Module) string {
	var tags []string
	if module.IsExternal {
		tags = append(tags, "external")
	}
	if module.SigningKeyPath != "" {
		tags = append(tags, "signed")
	}
	if len(module.Rules) > 0 {
		tags = append(tags, fmt.Sprintf("%d %s", len(module.Rules), output.Plural(len(module.Rules), "rule", "rules")))
	}
	if len(tags) == 0 {
		return ""
	}
	return " [" + strings.Join(tags, ", ") + "]"
}

func listPaths(out io.Writer, singular string, plural string, paths []string) {
	if len(paths) == 0 {
		return
	}
	fmt.Fprintf(out, "%d %s:\n%s\n", len(paths), output.Plural(paths, singular, plural), output.Indent(2, strings.Join(paths, "\n")))
}
