// Package storage packages the artifact database and publishes it to the
// object store consumed by clients.
package storage

import (
	"archive/zip"
	"fmt"
	"hash/crc32"
	"io"
	"os"
	"path/filepath"
)

// FileChecksum returns the CRC32 (IEEE) of a file as lowercase hex. Clients
// compare this against the checksum shipped next to the artifact before
// downloading a new copy.
func FileChecksum(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := crc32.NewIEEE()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return fmt.Sprintf("%08x", h.Sum32()), nil
}

// ZipFile writes src into a single-entry zip archive at dst, creating
// parent directories as needed. The entry keeps src's base name so clients
// unpack to a predictable filename.
func ZipFile(src, dst string) error {
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}

	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	zw := zip.NewWriter(out)
	entry, err := zw.Create(filepath.Base(src))
	if err != nil {
		return err
	}
	if _, err := io.Copy(entry, in); err != nil {
		return err
	}
	return zw.Close()
}
