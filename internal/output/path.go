package output

import (
	"path/filepath"
	"strings"
)

const dot string = "."
const dirSeparator = string(filepath.Separator)
const dotDirSeparator = dot + dirSeparator
const doubleDot = dot + dot
const doubleDotDirSeparator = doubleDot + dirSeparator

// PleasantPath turns an absolute path into something easily understandable from the working directory.
// Paths below the working directory are emitted relative, with leading "./" to stress relativity (opt-out possible).
// Paths elsewhere, relative input and an unknown working directory are reflected unchanged.
func PleasantPath(absolute string, wd string, omitDotSlash bool) string {
	if wd == "" || !filepath.IsAbs(absolute) {
		return absolute
	}
	relative, err := filepath.Rel(wd, filepath.Clean(absolute))
	if err != nil || relative == doubleDot || strings.HasPrefix(relative, doubleDotDirSeparator) {
		return absolute
	}
	if relative == dot || omitDotSlash {
		return relative
	}
	return dotDirSeparator + relative
}
