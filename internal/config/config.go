// Package config persists the small allow-listed settings set as an
// INI file under the user config directory.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/ini.v1"
)

// Recognized dotted keys.
const (
	KeyOutputPath  = "output.default_path"
	KeyAudioFormat = "audio.format"
)

const (
	appDirName = "yt2av"
	fileName   = "config.ini"

	DefaultAudioFormat = "mp3"
)

var supportedKeys = map[string]struct{}{
	KeyOutputPath:  {},
	KeyAudioFormat: {},
}

// SupportedKeys lists the allow-listed keys, sorted.
func SupportedKeys() []string {
	keys := make([]string, 0, len(supportedKeys))
	for k := range supportedKeys {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Store reads and writes the config file.
type Store struct {
	Path string
}

// DefaultStore locates the config under the user config directory.
func DefaultStore() (*Store, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return nil, fmt.Errorf("locate config dir: %w", err)
	}
	return &Store{Path: filepath.Join(base, appDirName, fileName)}, nil
}

// splitKey validates a dotted section.option key against the
// allow-list.
func splitKey(key string) (section, option string, err error) {
	section, option, found := strings.Cut(key, ".")
	if !found || section == "" || option == "" {
		return "", "", fmt.Errorf("config key must be in the form 'section.option'")
	}
	if _, ok := supportedKeys[key]; !ok {
		return "", "", fmt.Errorf("unknown config key %q (supported: %s)", key, strings.Join(SupportedKeys(), ", "))
	}
	return section, option, nil
}

func (s *Store) load() (*ini.File, error) {
	if _, err := os.Stat(s.Path); os.IsNotExist(err) {
		return ini.Empty(), nil
	}
	f, err := ini.Load(s.Path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return f, nil
}

// Set updates one allow-listed key and writes the file back.
func (s *Store) Set(key, value string) error {
	section, option, err := splitKey(key)
	if err != nil {
		return err
	}
	f, err := s.load()
	if err != nil {
		return err
	}
	f.Section(section).Key(option).SetValue(value)

	if err := os.MkdirAll(filepath.Dir(s.Path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	if err := f.SaveTo(s.Path); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Get reads one allow-listed key; "" when unset.
func (s *Store) Get(key string) (string, error) {
	section, option, err := splitKey(key)
	if err != nil {
		return "", err
	}
	f, err := s.load()
	if err != nil {
		return "", err
	}
	return f.Section(section).Key(option).String(), nil
}

// OutputPath returns the configured default output directory, falling
// back to ~/Downloads.
func (s *Store) OutputPath() string {
	if v, err := s.Get(KeyOutputPath); err == nil && v != "" {
		return v
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, "Downloads")
}

// AudioFormat returns the preferred audio format, defaulting to MP3.
func (s *Store) AudioFormat() string {
	if v, err := s.Get(KeyAudioFormat); err == nil && v != "" {
		return v
	}
	return DefaultAudioFormat
}
