package project

import (
	"path/filepath"
	"strings"
)

// "/" everywhere, "\" only where it is the platform separator
const separators = "/" + string(filepath.Separator)

// DirectoryOf yields the directory portion of the given path.
// A bare file name has no directory portion and results in an empty string.
func DirectoryOf(path string) string {
	if !strings.ContainsAny(path, separators) {
		return ""
	}
	return filepath.Dir(path)
}

// assemblyIdentity yields the two forms a module path may be recorded under: "Foo.dll" and "Foo"
func assemblyIdentity(assemblyPath string) (fileName string, bareName string) {
	fileName = filepath.Base(assemblyPath)
	bareName = stripExtension(fileName)
	return
}

func stripExtension(path string) string {
	return strings.TrimSuffix(path, filepath.Ext(path))
}

// relativeToBase strips the base directory from a path below it, including any leading separators.
// Paths not below the base (or an unset base) are reflected unchanged.
func relativeToBase(path string, base string) (result string, below bool) {
	if base == "" || !strings.HasPrefix(path, base) {
		return path, false
	}
	rest := path[len(base):]
	if rest == "" {
		return path, false
	}
	if !strings.ContainsRune(separators, rune(rest[0])) && !strings.ContainsRune(separators, rune(base[len(base)-1])) {
		return path, false //sibling sharing a name prefix, e.g. "/build/out2" for base "/build/out"
	}
	relative := strings.TrimLeft(rest, separators)
	if relative == "" {
		return path, false
	}
	return relative, true
}
