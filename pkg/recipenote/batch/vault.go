package batch

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

// maxCollisions bounds the "_N" suffix search
const maxCollisions = 10000

// createExclusive opens a new file, failing with fs.ErrExist if path is taken
var createExclusive = func(path string) (io.WriteCloser, error) {
	return os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
}

// Vault writes notes into one output directory without ever overwriting an
// existing file.
type Vault struct {
	Dir string
}

// Write creates name in the vault with content and returns the path written.
// If name is taken, "_1", "_2", ... is inserted before the extension until a
// free name is found. The directory is created on first write, and a file
// that could not be written completely is removed.
func (v Vault) Write(name, content string) (string, error) {
	if err := os.MkdirAll(v.Dir, 0o755); err != nil {
		return "", err
	}

	ext := filepath.Ext(name)
	stem := name[:len(name)-len(ext)]

	for n := 0; n <= maxCollisions; n++ {
		candidate := name
		if n > 0 {
			candidate = fmt.Sprintf("%s_%d%s", stem, n, ext)
		}
		path := filepath.Join(v.Dir, candidate)

		f, err := createExclusive(path)
		if errors.Is(err, fs.ErrExist) {
			continue
		}
		if err != nil {
			return "", err
		}
		_, err = io.WriteString(f, content)
		if cerr := f.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			os.Remove(path)
			return "", err
		}
		return path, nil
	}
	return "", fmt.Errorf("no free name for %s in %s", name, v.Dir)
}
