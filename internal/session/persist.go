package session

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
)

// tokenFile is the on-disk shape of the persisted session. Kept as a struct
// so the format can grow (e.g. a refresh token) without breaking old files.
type tokenFile struct {
	Token string `json:"token"`
}

// LoadToken reads a previously persisted token. A missing file is not an
// error; it simply means the client starts unauthenticated. The token is
// trusted optimistically until the server rejects it.
func LoadToken(path string) (string, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", err
	}

	var tf tokenFile
	if err := json.Unmarshal(data, &tf); err != nil {
		return "", err
	}
	return tf.Token, nil
}

// SaveToken persists the token so the next run can resume the session. The
// file is owner-readable only; the token is a bearer credential.
func SaveToken(path, token string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(tokenFile{Token: token}, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0600)
}

// ClearToken removes the persisted token on logout. Nothing to remove is
// fine.
func ClearToken(path string) error {
	err := os.Remove(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}
