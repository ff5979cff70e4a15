//go:build !windows

package cloakproj

import (
	"errors"
	"testing"

	"github.com/n2code/cloakproj/internal/project"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeSource(t *testing.T, fs afero.Fs, path string, d *project.Descriptor) {
	t.Helper()
	require.NoError(t, d.SaveToFile(fs, path))
}

func reload(t *testing.T, fs afero.Fs, path string) *project.Descriptor {
	t.Helper()
	d, err := project.LoadFromFile(fs, path)
	require.NoError(t, err)
	return d
}

func modulePaths(d *project.Descriptor) (paths []string) {
	for _, module := range d.Modules {
		paths = append(paths, module.Path)
	}
	return
}

func TestSynthesizeFromScratch(t *testing.T) {
	fs := afero.NewMemMapFs()

	report, err := Synthesize(SynthesisRequest{
		AssemblyPath:  "/b/MyApp.dll",
		References:    []string{"/b/libs/Dep1.dll", "/b/libs/Dep2.dll"},
		ResultProject: "/b/obj/MyApp.crproj",
	}, CreateConfig{Fs: fs})
	require.NoError(t, err)
	assert.False(t, report.Merged)
	assert.Equal(t, 1, report.CreatedModules)
	assert.Equal(t, "MyApp.dll", report.MainModule.Path)

	d := reload(t, fs, "/b/obj/MyApp.crproj")
	assert.Equal(t, "/b", d.BaseDirectory)
	assert.Equal(t, []string{"MyApp.dll"}, modulePaths(d))
	assert.Equal(t, []string{"/b/libs"}, d.ProbePaths.Values())
	assert.Empty(t, d.Modules[0].SigningKeyPath)
	assert.False(t, d.Modules[0].IsExternal)
}

func TestSynthesizeProbePathsAreDistinctAndOrdered(t *testing.T) {
	fs := afero.NewMemMapFs()

	_, err := Synthesize(SynthesisRequest{
		AssemblyPath:  "/b/App.dll",
		References:    []string{"/nuget/a/A.dll", "/b/libs/B.dll", "", "   ", "/nuget/a/C.dll", "Loose.dll", "/b/libs/D.dll"},
		ResultProject: "/r.crproj",
	}, CreateConfig{Fs: fs})
	require.NoError(t, err)

	assert.Equal(t, []string{"/nuget/a", "/b/libs"}, reload(t, fs, "/r.crproj").ProbePaths.Values())
}

func TestSynthesizeClearsStaleProbePaths(t *testing.T) {
	fs := afero.NewMemMapFs()
	source := project.New()
	source.ProbePaths.Add("/old/path")
	source.ProbePaths.Add("/kept/libs")
	writeSource(t, fs, "/src.crproj", source)

	_, err := Synthesize(SynthesisRequest{
		SourceProject: "/src.crproj",
		AssemblyPath:  "/b/App.dll",
		References:    []string{"/kept/libs/X.dll"},
		ResultProject: "/r.crproj",
	}, CreateConfig{Fs: fs})
	require.NoError(t, err)

	probes := reload(t, fs, "/r.crproj").ProbePaths.Values()
	assert.Equal(t, []string{"/kept/libs"}, probes)
	assert.NotContains(t, probes, "/old/path")
}

func TestSynthesizeMergesSourceDescriptor(t *testing.T) {
	fs := afero.NewMemMapFs()
	source := project.New()
	source.BaseDirectory = "/previous/base"
	source.Seed = "fixed"
	source.Rules = append(source.Rules, project.NewRule(project.ProtectionSetting{ID: "compile regex", Action: project.ActionAdd}))
	source.Modules = append(source.Modules,
		&project.Module{Path: "Vendor.dll", IsExternal: true, SigningKeyPath: "/keys/vendor.snk"},
		&project.Module{Path: "MyApp"},
	)
	writeSource(t, fs, "/src.crproj", source)

	report, err := Synthesize(SynthesisRequest{
		SourceProject: "/src.crproj",
		AssemblyPath:  "/b/MyApp.dll",
		References:    []string{"/b/Vendor.dll"},
		ResultProject: "/r.crproj",
	}, CreateConfig{Fs: fs})
	require.NoError(t, err)
	assert.True(t, report.Merged)
	assert.Zero(t, report.CreatedModules)

	d := reload(t, fs, "/r.crproj")
	assert.Equal(t, "/b", d.BaseDirectory)
	assert.Equal(t, "fixed", d.Seed)
	assert.Len(t, d.Rules, 1)
	assert.Equal(t, []string{"Vendor.dll", "MyApp"}, modulePaths(d), "bare name entry must absorb the main assembly")
	assert.True(t, d.Modules[0].IsExternal)
	assert.Equal(t, "/keys/vendor.snk", d.Modules[0].SigningKeyPath)
}

func TestSynthesizeKeyPropagation(t *testing.T) {
	fs := afero.NewMemMapFs()
	source := project.New()
	source.Modules = append(source.Modules, &project.Module{Path: "App.dll", SigningKeyPath: "/keys/old.snk"})
	writeSource(t, fs, "/src.crproj", source)

	_, err := Synthesize(SynthesisRequest{
		SourceProject:          "/src.crproj",
		AssemblyPath:           "/b/App.dll",
		SatelliteAssemblyPaths: []string{"/b/de/App.resources.dll", "", "/b/fr/App.resources.dll"},
		KeyFilePath:            "/keys/new.snk",
		ResultProject:          "/r.crproj",
	}, CreateConfig{Fs: fs})
	require.NoError(t, err)

	d := reload(t, fs, "/r.crproj")
	assert.Equal(t, []string{"App.dll", "de/App.resources.dll", "fr/App.resources.dll"}, modulePaths(d))
	for _, module := range d.Modules {
		assert.Equal(t, "/keys/new.snk", module.SigningKeyPath, module.Path)
	}
}

func TestSynthesizeWithoutKeyKeepsExistingKey(t *testing.T) {
	fs := afero.NewMemMapFs()
	source := project.New()
	source.Modules = append(source.Modules,
		&project.Module{Path: "App.dll", SigningKeyPath: "/keys/old.snk"},
		&project.Module{Path: "App.resources.dll", SigningKeyPath: "/keys/old.snk"},
	)
	writeSource(t, fs, "/src.crproj", source)

	_, err := Synthesize(SynthesisRequest{
		SourceProject:          "/src.crproj",
		AssemblyPath:           "/b/App.dll",
		SatelliteAssemblyPaths: []string{"/b/de/App.resources.dll"},
		KeyFilePath:            "  ",
		ResultProject:          "/r.crproj",
	}, CreateConfig{Fs: fs})
	require.NoError(t, err)

	for _, module := range reload(t, fs, "/r.crproj").Modules {
		assert.Equal(t, "/keys/old.snk", module.SigningKeyPath, module.Path)
	}
}

func TestSynthesizeSatelliteOutsideBase(t *testing.T) {
	fs := afero.NewMemMapFs()

	_, err := Synthesize(SynthesisRequest{
		AssemblyPath:           "/build/out/App.dll",
		SatelliteAssemblyPaths: []string{"/build/out/sub/App.resources.dll", "/other/Loc.resources.dll"},
		ResultProject:          "/r.crproj",
	}, CreateConfig{Fs: fs})
	require.NoError(t, err)

	assert.Equal(t, []string{"App.dll", "sub/App.resources.dll", "/other/Loc.resources.dll"}, modulePaths(reload(t, fs, "/r.crproj")))
}

func TestSynthesizeIsIdempotent(t *testing.T) {
	fs := afero.NewMemMapFs()
	request := SynthesisRequest{
		AssemblyPath:           "/b/App.dll",
		SatelliteAssemblyPaths: []string{"/b/de/App.resources.dll"},
		References:             []string{"/b/libs/Dep.dll"},
		KeyFilePath:            "/keys/app.snk",
		ResultProject:          "/r.crproj",
	}
	_, err := Synthesize(request, CreateConfig{Fs: fs})
	require.NoError(t, err)
	first, _ := afero.ReadFile(fs, "/r.crproj")

	request.SourceProject = "/r.crproj"
	report, err := Synthesize(request, CreateConfig{Fs: fs})
	require.NoError(t, err)
	second, _ := afero.ReadFile(fs, "/r.crproj")

	assert.Zero(t, report.CreatedModules)
	assert.Equal(t, string(first), string(second))
}

func TestSynthesizeConfigurationErrors(t *testing.T) {
	fs := afero.NewMemMapFs()
	for _, request := range []SynthesisRequest{
		{ResultProject: "/r.crproj"},
		{AssemblyPath: " ", ResultProject: "/r.crproj"},
		{AssemblyPath: "/b/App.dll"},
	} {
		_, err := Synthesize(request, CreateConfig{Fs: fs})
		require.ErrorIs(t, err, ErrConfiguration)
		assert.Equal(t, ExitConfiguration, ExitCode(err))
	}
	exists, _ := afero.Exists(fs, "/r.crproj")
	assert.False(t, exists)
}

func TestSynthesizeMalformedSource(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/src.crproj", []byte("<project><module"), 0644))

	_, err := Synthesize(SynthesisRequest{SourceProject: "/src.crproj", AssemblyPath: "/b/App.dll", ResultProject: "/r.crproj"}, CreateConfig{Fs: fs})
	require.ErrorIs(t, err, ErrParse)
	assert.ErrorIs(t, err, project.ErrMalformed)
	assert.Equal(t, ExitParse, ExitCode(err))

	exists, _ := afero.Exists(fs, "/r.crproj")
	assert.False(t, exists, "no output may be produced")
}

func TestSynthesizeMissingSource(t *testing.T) {
	_, err := Synthesize(SynthesisRequest{SourceProject: "/absent.crproj", AssemblyPath: "/b/App.dll", ResultProject: "/r.crproj"}, CreateConfig{Fs: afero.NewMemMapFs()})
	require.ErrorIs(t, err, ErrIO)
	assert.False(t, errors.Is(err, ErrParse))
}

func TestSynthesizeUnwritableResult(t *testing.T) {
	base := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(base, "/r.crproj", []byte("previous"), 0644))

	_, err := Synthesize(SynthesisRequest{AssemblyPath: "/b/App.dll", ResultProject: "/r.crproj"}, CreateConfig{Fs: afero.NewReadOnlyFs(base)})
	require.ErrorIs(t, err, ErrIO)
	assert.Equal(t, ExitIO, ExitCode(err))

	content, _ := afero.ReadFile(base, "/r.crproj")
	assert.Equal(t, "previous", string(content))
}
