package audiofile

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/cwbudde/algo-sfx/dsp/buffer"
	"github.com/google/uuid"
)

// WriteFileAtomic writes path through a uniquely named temporary file in
// the same directory, then renames it into place. On any error the
// temporary file is removed and path is left untouched.
func WriteFileAtomic(path string, write func(io.WriteSeeker) error) (err error) {
	dir := filepath.Dir(path)
	tmp := filepath.Join(dir, fmt.Sprintf(".%s.%s.tmp", filepath.Base(path), uuid.New().String()))

	f, err := os.OpenFile(tmp, os.O_RDWR|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return fmt.Errorf("audiofile: create temp: %w", err)
	}
	defer func() {
		if err != nil {
			f.Close()
			os.Remove(tmp)
		}
	}()

	if err = write(f); err != nil {
		return err
	}
	if err = f.Sync(); err != nil {
		return fmt.Errorf("audiofile: sync: %w", err)
	}
	if err = f.Close(); err != nil {
		return fmt.Errorf("audiofile: close: %w", err)
	}
	if err = os.Rename(tmp, path); err != nil {
		return fmt.Errorf("audiofile: rename: %w", err)
	}
	return nil
}

// SaveWAV atomically writes a to path as 32-bit float WAV.
func SaveWAV(path string, a *buffer.Audio) error {
	return WriteFileAtomic(path, func(w io.WriteSeeker) error {
		return WriteWAVFloat32(w, a)
	})
}

// SavePCM atomically writes a to path as integer PCM WAV.
func SavePCM(path string, a *buffer.Audio, bits int) error {
	return WriteFileAtomic(path, func(w io.WriteSeeker) error {
		return WritePCM(w, a, bits)
	})
}
