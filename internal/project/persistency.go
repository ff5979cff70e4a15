package project

import (
	"bufio"
	"fmt"
	"os"

	"github.com/spf13/afero"
)

const workInProgressFileSuffix = ".wip"

// SaveToFile persists the descriptor all-or-nothing: the document is written to a temporary sibling file first
// which then replaces the target. On failure the target is left untouched and the temporary file is removed.
func (d *Descriptor) SaveToFile(fs afero.Fs, path string) (err error) {
	defer func() {
		if err != nil {
			err = fmt.Errorf("saving project descriptor failed: %w", err)
		}
	}()

	tempPath := path + workInProgressFileSuffix

	file, err := fs.OpenFile(tempPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil { //plausible failure
		return
	}
	committed := false
	defer func() {
		if !committed {
			fs.Remove(tempPath)
		}
	}()

	buffered := bufio.NewWriter(file)
	if err = Encode(buffered, d); err != nil {
		file.Close()
		return
	}
	if err = buffered.Flush(); err != nil {
		file.Close()
		return
	}
	if err = file.Close(); err != nil {
		return
	}

	if err = fs.Rename(tempPath, path); err != nil {
		return fmt.Errorf("replacing descriptor file (%s) with temporary working copy (%s) failed: %w", path, tempPath, err)
	}
	committed = true
	return nil
}

// LoadFromFile reads a descriptor document.
// Structural problems yield an error wrapping ErrMalformed, everything else is an access problem.
func LoadFromFile(fs afero.Fs, path string) (*Descriptor, error) {
	file, err := fs.Open(path)
	if err != nil {
		return nil, fmt.Errorf("loading project descriptor failed: %w", err)
	}
	defer file.Close()

	d, err := Decode(bufio.NewReader(file))
	if err != nil {
		return nil, fmt.Errorf("loading project descriptor %s failed: %w", path, err)
	}
	return d, nil
}
