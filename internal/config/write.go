package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/natefinch/atomic"
)

// ErrConfigExists is returned by WriteDefault when the file is already there.
var ErrConfigExists = errors.New("config file already exists")

const fileHeader = `// trackline configuration (JSONC: comments and trailing commas allowed).
// Environment variables prefixed TRACKLINE_ override these values.
`

// Encode renders cfg as a commented JSONC document.
func Encode(cfg Config) ([]byte, error) {
	body, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding config: %w", err)
	}
	var buf bytes.Buffer
	buf.WriteString(fileHeader)
	buf.Write(body)
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}

// WriteDefault writes the default configuration to path atomically. Unless
// force is set an existing file is left untouched.
func WriteDefault(path string, force bool) error {
	if path == "" {
		return fmt.Errorf("no config path: set TRACKLINE_CONFIG or HOME")
	}
	if !force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%w: %s", ErrConfigExists, path)
		}
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := Encode(DefaultConfig())
	if err != nil {
		return err
	}
	if err := atomic.WriteFile(path, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("writing config %s: %w", path, err)
	}
	return nil
}
