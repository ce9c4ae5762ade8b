package util

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGzipRoundTrip(t *testing.T) {
	body := []byte(`{"total_points":100}`)

	encoded, err := GzipEncode(body)
	if !assert.Nil(t, err) {
		return
	}

	decoded, err := GzipDecode(encoded)
	if !assert.Nil(t, err) {
		return
	}

	assert.Equal(t, body, decoded)
}

func TestGzipDecodeFail(t *testing.T) {
	_, err := GzipDecode([]byte("not gzipped"))
	assert.NotNil(t, err)
}

func TestReadFile(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "body.json")
	if !assert.Nil(t, os.WriteFile(dest, []byte("{}"), 0644)) {
		return
	}

	body, err := ReadFile(dest)
	if !assert.Nil(t, err) {
		return
	}

	assert.Equal(t, "{}", string(body))
}

func TestEnsureParentDir(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "data", "nested", "sessions.db")

	if !assert.Nil(t, EnsureParentDir(dest)) {
		return
	}

	info, err := os.Stat(filepath.Dir(dest))
	if !assert.Nil(t, err) {
		return
	}
	assert.True(t, info.IsDir())
}
