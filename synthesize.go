package cloakproj

import (
	"strings"

	"github.com/n2code/cloakproj/internal/project"
	"github.com/spf13/afero"
)

// SynthesisRequest names the build artifacts of the current build. Blank optional entries are ignored.
type SynthesisRequest struct {
	SourceProject          string   //optional descriptor to merge
	AssemblyPath           string   //required, main assembly
	SatelliteAssemblyPaths []string //localization assemblies of the main assembly
	References             []string //dependency assemblies, their directories become probe paths
	KeyFilePath            string   //optional strong-name key for main and satellite modules
	ResultProject          string   //required, where the descriptor is written
}

// SynthesisReport describes the persisted descriptor.
type SynthesisReport struct {
	Project        *project.Descriptor
	MainModule     *project.Module
	CreatedModules int
	Merged         bool //a source descriptor was loaded
}

// Synthesize builds the descriptor for the given artifacts and persists it all-or-nothing at the result path.
// Modules of a source descriptor which are not matched by any artifact pass through unchanged.
// Probe paths are always recomputed from the references.
func Synthesize(request SynthesisRequest, config CreateConfig) (*SynthesisReport, error) {
	if isBlank(request.AssemblyPath) {
		return nil, newCommandError(ErrConfiguration, "assembly path is required", nil)
	}
	if isBlank(request.ResultProject) {
		return nil, newCommandError(ErrConfiguration, "result project path is required", nil)
	}
	fs := config.fs()
	log := config.logger()

	d, merged, err := loadOrCreate(fs, request.SourceProject)
	if err != nil {
		return nil, err
	}
	if merged {
		log.Debugf("merging source descriptor %s with %d existing modules", request.SourceProject, len(d.Modules))
	}
	knownModules := len(d.Modules)

	d.BaseDirectory = project.DirectoryOf(request.AssemblyPath)
	hasKey := !isBlank(request.KeyFilePath)

	mainModule := d.GetOrCreateModule(request.AssemblyPath, false)
	if hasKey {
		mainModule.SigningKeyPath = request.KeyFilePath
	}
	log.WithField("module", mainModule.Path).Debug("main module reconciled")

	for _, satellite := range request.SatelliteAssemblyPaths {
		if isBlank(satellite) {
			continue
		}
		satelliteModule := d.GetOrCreateModule(satellite, false)
		if hasKey {
			satelliteModule.SigningKeyPath = request.KeyFilePath
		}
		log.WithField("module", satelliteModule.Path).Debug("satellite module reconciled")
	}

	for _, probePath := range referenceDirectories(request.References) {
		if d.ProbePaths.Add(probePath) {
			log.WithField("probePath", probePath).Debug("probe path added")
		}
	}

	if err := d.SaveToFile(fs, request.ResultProject); err != nil {
		return nil, newCommandError(ErrIO, "writing result project failed", err)
	}
	log.Infof("project descriptor written to %s (%d modules, %d probe paths)", request.ResultProject, len(d.Modules), d.ProbePaths.Len())

	return &SynthesisReport{
		Project:        d,
		MainModule:     mainModule,
		CreatedModules: len(d.Modules) - knownModules,
		Merged:         merged,
	}, nil
}

// loadOrCreate yields an empty descriptor for a blank path, otherwise the loaded one without its stale probe paths.
func loadOrCreate(fs afero.Fs, sourcePath string) (d *project.Descriptor, merged bool, err error) {
	if isBlank(sourcePath) {
		return project.New(), false, nil
	}
	d, err = project.LoadFromFile(fs, sourcePath)
	if err != nil {
		return nil, false, storageError("reading source project failed", err)
	}
	d.ProbePaths.Clear()
	return d, true, nil
}

// referenceDirectories collects the distinct directories of all references in order of first appearance.
func referenceDirectories(references []string) (directories []string) {
	seen := make(map[string]bool)
	for _, reference := range references {
		if isBlank(reference) {
			continue
		}
		dir := project.DirectoryOf(reference)
		if dir == "" || seen[dir] {
			continue
		}
		seen[dir] = true
		directories = append(directories, dir)
	}
	return
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
