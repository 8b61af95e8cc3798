package filegen

import (
	"fmt"
	"io/ioutil"
	"os"
	"path/filepath"
)

type file struct {
	name string
	data []byte
	mode os.FileMode
}

func File(name string, data []byte, mode os.FileMode) file {
	return file{
		name: name,
		data: data,
		mode: mode,
	}
}

// Render writes every file through a temporary sibling that is renamed into place,
// so a previously rendered file is either kept or fully replaced.
func Render(files ...file) error {
	for _, f := range files {
		dir := filepath.Dir(f.name)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create %s: %v", dir, err)
		}

		tmp, err := ioutil.TempFile(dir, "."+filepath.Base(f.name))
		if err != nil {
			return fmt.Errorf("failed to create a temporary file for %s: %v", f.name, err)
		}
		_, werr := tmp.Write(f.data)
		cerr := tmp.Close()
		if werr == nil {
			werr = cerr
		}
		if werr == nil {
			werr = os.Chmod(tmp.Name(), f.mode)
		}
		if werr == nil {
			werr = os.Rename(tmp.Name(), f.name)
		}
		if werr != nil {
			os.Remove(tmp.Name())
			return fmt.Errorf("failed to write %s: %v", f.name, werr)
		}
	}
	return nil
}
