package report

import (
	"io"
	"os"
	"path/filepath"

	"git.home.luguber.info/inful/resourcescan/internal/foundation/errors"
)

// WriteFile persists already-encoded report bytes to path, creating parent
// directories as needed. The file handle is closed on every path and a failed
// close is reported.
func WriteFile(path string, data []byte) (err error) {
	if dir := filepath.Dir(path); dir != "" {
		if mkErr := os.MkdirAll(dir, 0o750); mkErr != nil {
			return errors.WrapError(mkErr, errors.CategoryFileSystem, "create report directory").
				Fatal().
				WithContext("path", dir).
				Build()
		}
	}

	f, err := os.Create(filepath.Clean(path))
	if err != nil {
		return errors.WrapError(err, errors.CategoryFileSystem, "create report file").
			Fatal().
			WithContext("path", path).
			Build()
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = errors.WrapError(closeErr, errors.CategoryFileSystem, "close report file").
				Fatal().
				WithContext("path", path).
				Build()
		}
	}()

	if _, err := f.Write(data); err != nil {
		return errors.WrapError(err, errors.CategoryFileSystem, "write report file").
			Fatal().
			WithContext("path", path).
			Build()
	}
	return nil
}

// Write streams encoded report bytes to w.
func Write(w io.Writer, data []byte) error {
	if _, err := w.Write(data); err != nil {
		return errors.WrapError(err, errors.CategoryFileSystem, "write report").Fatal().Build()
	}
	return nil
}
