package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/muhammadmuzzammil1998/jsonc"
)

// Find walks up from startDir and returns the first .krllint.toml or
// .krllint.jsonc it meets. ok is false when there is none.
func Find(startDir string) (path string, ok bool, err error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		for _, name := range []string{TOMLName, JSONCName} {
			candidate := filepath.Join(dir, name)
			if _, err := os.Stat(candidate); err == nil {
				return candidate, true, nil
			} else if !errors.Is(err, os.ErrNotExist) {
				return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// Discover loads the config found by Find, or Default when there is none.
func Discover(startDir string) (*Config, error) {
	path, ok, err := Find(startDir)
	if err != nil {
		return nil, &Error{Err: err}
	}
	if !ok {
		return Default(), nil
	}
	return Load(path)
}

// Load reads a config file; the format is chosen by extension
// (.jsonc and .json are JSONC, anything else TOML). Missing values keep
// their defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &Error{Path: path, Err: err}
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jsonc", ".json":
		return ParseJSONC(path, data)
	default:
		return ParseTOML(path, data)
	}
}

// ParseTOML decodes TOML config text. Keys outside the schema are errors.
func ParseTOML(path string, data []byte) (*Config, error) {
	cfg := Default()
	cfg.Path = path
	meta, err := toml.Decode(string(data), cfg)
	if err != nil {
		return nil, &Error{Path: path, Err: fmt.Errorf("failed to parse TOML: %w", err)}
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return nil, &Error{Path: path, Key: undecoded[0].String(), Err: ErrUnknownKey}
	}
	return finish(cfg)
}

// ParseJSONC decodes JSON with // and /* */ comments.
// Trailing commas are not part of the format and fail to parse.
func ParseJSONC(path string, data []byte) (*Config, error) {
	cfg := Default()
	cfg.Path = path
	dec := json.NewDecoder(bytes.NewReader(jsonc.ToJSON(data)))
	dec.DisallowUnknownFields()
	dec.UseNumber()
	if err := dec.Decode(cfg); err != nil {
		return nil, &Error{Path: path, Err: fmt.Errorf("failed to parse JSONC: %w", err)}
	}
	return finish(cfg)
}

func finish(cfg *Config) (*Config, error) {
	if len(cfg.Files.Include) == 0 {
		cfg.Files.Include = append([]string(nil), DefaultInclude...)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
