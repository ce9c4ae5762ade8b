package util

import (
	"bytes"
	"compress/gzip"
	"io"
	"os"
	"path/filepath"
)

// ReadFile - reads a file from a relative path
func ReadFile(relativePath string) ([]byte, error) {
	path, err := filepath.Abs(relativePath)
	if err != nil {
		return []byte{}, err
	}

	return os.ReadFile(path)
}

// EnsureParentDir - creates the parent directory of a file path when it does not exist
func EnsureParentDir(filePath string) error {
	dir := filepath.Dir(filePath)
	if dir == "" || dir == "." {
		return nil
	}

	return os.MkdirAll(dir, 0755)
}

// GzipEncode - gzips a byte array
func GzipEncode(data []byte) ([]byte, error) {
	var b bytes.Buffer
	gz := gzip.NewWriter(&b)
	if _, err := gz.Write(data); err != nil {
		return []byte{}, err
	}
	if err := gz.Close(); err != nil {
		return []byte{}, err
	}

	return b.Bytes(), nil
}

// GzipDecode - ungzips a byte array
func GzipDecode(data []byte) ([]byte, error) {
	reader, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return []byte{}, err
	}
	defer reader.Close()

	return io.ReadAll(reader)
}
