package output

import (
	"path/filepath"

	"github.com/disiqueira/gotree/v3"
)

// VisualFileTree renders relative file paths as a directory tree below a root label.
type VisualFileTree struct {
	tree gotree.Tree
	dirs map[string]gotree.Tree
}

func NewVisualFileTree(rootLabel string) VisualFileTree {
	return VisualFileTree{tree: gotree.New(rootLabel), dirs: make(map[string]gotree.Tree)}
}

func (t VisualFileTree) getDir(dirPath string) (dir gotree.Tree) {
	if dirPath == "." || dirPath == "" {
		return t.tree
	}
	dir = t.dirs[dirPath]
	if dir == nil {
		parentPath := filepath.Dir(dirPath)
		parentDir := t.getDir(parentPath)
		dir = parentDir.Add(filepath.Base(dirPath))
		t.dirs[dirPath] = dir
	}
	return
}

// InsertPath places the file below its directories, creating them as needed.
func (t VisualFileTree) InsertPath(filePath string, nodeSuffix string) {
	file := filepath.Base(filePath)
	dir := t.getDir(filepath.Dir(filePath))
	dir.Add(file + nodeSuffix)
}

// InsertGroup adds a labelled node directly below the root whose entries are listed verbatim.
func (t VisualFileTree) InsertGroup(label string, entries []string) {
	if len(entries) == 0 {
		return
	}
	group := t.tree.Add(label)
	for _, entry := range entries {
		group.Add(entry)
	}
}

func (t VisualFileTree) Render() string {
	return t.tree.Print()
}
