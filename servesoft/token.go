package servesoft

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// TokenFile stores the session token on disk with owner-only permissions.
type TokenFile struct {
	Path string
}

// Load returns the stored token or "" when there is none.
func (f *TokenFile) Load() string {
	b, err := os.ReadFile(f.Path)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(b))
}

func (f *TokenFile) Save(token string) error {
	if err := os.MkdirAll(filepath.Dir(f.Path), 0o700); err != nil {
		return err
	}
	return os.WriteFile(f.Path, []byte(token+"\n"), 0o600)
}

func (f *TokenFile) Clear() error {
	err := os.Remove(f.Path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}
