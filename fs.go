package folio

import (
	"fmt"
	"io/fs"
	"strings"

	"github.com/pkg/errors"
)

// WalkFileSystem walks a file system in lexical order and calls walkFn for each regular file whose
// path passes the filter. Directories whose name starts with "." are skipped.
func WalkFileSystem(fsys fs.FS, filter func(path string) bool, walkFn func(path string) error) error {
	return fs.WalkDir(fsys, ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		switch {
		case d.IsDir():
			if path != "." && strings.HasPrefix(d.Name(), ".") {
				return fs.SkipDir // skip dot-dirs
			}
		case d.Type().IsRegular():
			if filter != nil && !filter(path) {
				return nil
			}
			if err := walkFn(path); err != nil {
				return errors.WithMessage(err, fmt.Sprintf("walk %s", path))
			}
		default:
			return fmt.Errorf("file %s has unsupported mode %o (symlinks and other special files are not supported)", path, d.Type())
		}
		return nil
	})
}
