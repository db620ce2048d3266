package meshcut

import (
	"io"
	"os"

	"github.com/pkg/errors"
)

// Load opens a file and decodes it with f.
func Load[T any](path string, f func(r io.Reader) (T, error)) (T, error) {
	r, err := os.Open(path)
	if err != nil {
		var zero T
		return zero, errors.Wrap(err, "load")
	}
	defer r.Close()
	return f(r)
}

// Save creates a file and encodes obj into it with f.
func Save[T any](path string, obj T, f func(w io.Writer, obj T) error) error {
	w, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "save")
	}
	if err := f(w, obj); err != nil {
		w.Close()
		return err
	}
	return errors.Wrap(w.Close(), "save")
}
