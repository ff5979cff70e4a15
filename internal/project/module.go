package project

// FindModule returns the first module whose identity matches the given assembly path.
// A module matches if its path equals the file name, the bare name or the normalized path of the candidate,
// or if the candidate is given without extension and equals the module path minus its extension.
// Matching is case-sensitive. Note that "Foo" matches both "Foo.dll" and "Foo.exe" candidates.
func (d *Descriptor) FindModule(assemblyPath string) (module *Module, found bool) {
	fileName, bareName := assemblyIdentity(assemblyPath)
	normalized, _ := relativeToBase(assemblyPath, d.BaseDirectory)
	for _, module := range d.Modules {
		switch {
		case module.Path == fileName, module.Path == bareName, module.Path == normalized:
			return module, true
		case fileName == bareName && stripExtension(module.Path) == fileName:
			return module, true
		}
	}
	return nil, false
}

// GetOrCreateModule reconciles the given assembly path with the module list.
// An existing module with the same identity is returned unmodified, otherwise a new module is appended.
// The path of a new module is stored relative to the base directory if it is located below it.
// Repeated calls for the same assembly path always yield the same instance.
func (d *Descriptor) GetOrCreateModule(assemblyPath string, isExternal bool) *Module {
	if existing, found := d.FindModule(assemblyPath); found {
		return existing
	}
	normalized, _ := relativeToBase(assemblyPath, d.BaseDirectory)
	created := &Module{
		Path:       normalized,
		IsExternal: isExternal,
	}
	d.Modules = append(d.Modules, created)
	return created
}
