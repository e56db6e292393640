package archive

import (
	"os"
	"time"
)

// Option applies a configuration option to the Store.
type Option func(*Store)

// WithFileMode sets the permission bits used when creating the archive file.
func WithFileMode(mode os.FileMode) Option {
	return func(s *Store) {
		if mode != 0 {
			s.fileMode = mode
		}
	}
}

// WithOpenTimeout bounds how long Open waits for the file lock.
func WithOpenTimeout(d time.Duration) Option {
	return func(s *Store) {
		if d > 0 {
			s.openTimeout = d
		}
	}
}
