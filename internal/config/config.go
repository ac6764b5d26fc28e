// Package config loads the Ollama server configuration consumed by the
// commit assistant. The file lives at ~/.ollama_server/.ollama_config.json
// and is required: missing files, malformed JSON, and missing or
// mistyped keys are configuration errors, never silently defaulted.
package config

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/afero"
	"github.com/spf13/viper"
)

const (
	// DirName is the configuration directory under the user's home.
	DirName = ".ollama_server"
	// FileName is the configuration file inside DirName.
	FileName = ".ollama_config.json"
	// LogFileName is the rotated log file kept next to the config.
	LogFileName = "aicheckin.log"

	defaultRequestTimeout = 60 * time.Second
)

// Error marks any configuration problem so it can be mapped to the
// configuration exit code.
type Error struct {
	msg string
	err error
}

func (e *Error) Error() string {
	if e.err != nil {
		return fmt.Sprintf("%s: %v", e.msg, e.err)
	}
	return e.msg
}

func (e *Error) Unwrap() error {
	return e.err
}

func errorf(err error, format string, args ...any) *Error {
	return &Error{msg: fmt.Sprintf(format, args...), err: err}
}

// Config holds the validated connection settings for the Ollama server.
type Config struct {
	BaseURL        string
	Port           int
	Model          string
	RequestTimeout time.Duration
	MaxTokens      int
}

// Dir returns the configuration directory (~/.ollama_server).
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errorf(err, "cannot determine home directory")
	}
	return filepath.Join(home, DirName), nil
}

// Path returns the full path of the configuration file.
func Path() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, FileName), nil
}

// LogPath returns the full path of the log file.
func LogPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, LogFileName), nil
}

// Load reads the configuration from its default location on fsys.
func Load(fsys afero.Fs) (*Config, error) {
	path, err := Path()
	if err != nil {
		return nil, err
	}
	return LoadFrom(fsys, path)
}

// LoadFrom reads and validates the configuration file at path.
func LoadFrom(fsys afero.Fs, path string) (*Config, error) {
	if ok, err := afero.Exists(fsys, path); err != nil || !ok {
		return nil, errorf(err, "missing configuration file %s", path)
	}

	v := viper.New()
	v.SetFs(fsys)
	v.SetConfigFile(path)
	v.SetConfigType("json")
	if err := v.ReadInConfig(); err != nil {
		return nil, errorf(err, "invalid JSON in %s", filepath.Base(path))
	}

	cfg := &Config{RequestTimeout: defaultRequestTimeout}

	baseURL, err := requireString(v, "base_url")
	if err != nil {
		return nil, err
	}
	cfg.BaseURL = baseURL

	port, err := requireInt(v, "port")
	if err != nil {
		return nil, err
	}
	cfg.Port = port

	model, err := requireString(v, "model")
	if err != nil {
		return nil, err
	}
	cfg.Model = model

	if v.IsSet("request_timeout") {
		secs, ok := asNumber(v.Get("request_timeout"))
		if !ok {
			return nil, errorf(nil, "'request_timeout' must be a number")
		}
		cfg.RequestTimeout = time.Duration(secs * float64(time.Second))
	}

	if v.IsSet("max_tokens") {
		n, ok := asInt(v.Get("max_tokens"))
		if !ok {
			return nil, errorf(nil, "'max_tokens' must be an integer")
		}
		cfg.MaxTokens = n
	}

	return cfg, nil
}

func requireString(v *viper.Viper, key string) (string, error) {
	if !v.IsSet(key) {
		return "", errorf(nil, "missing required configuration key %q", key)
	}
	s, ok := v.Get(key).(string)
	if !ok {
		return "", errorf(nil, "'%s' must be a string", key)
	}
	return s, nil
}

func requireInt(v *viper.Viper, key string) (int, error) {
	if !v.IsSet(key) {
		return 0, errorf(nil, "missing required configuration key %q", key)
	}
	n, ok := asInt(v.Get(key))
	if !ok {
		return 0, errorf(nil, "'%s' must be an integer", key)
	}
	return n, nil
}

// asNumber accepts the numeric types JSON decoding can produce.
func asNumber(raw any) (float64, bool) {
	switch n := raw.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	default:
		return 0, false
	}
}

// asInt accepts whole numbers only; JSON decodes them as float64.
func asInt(raw any) (int, bool) {
	f, ok := asNumber(raw)
	if !ok || f != math.Trunc(f) {
		return 0, false
	}
	return int(f), true
}
