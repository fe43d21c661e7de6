package file

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

type prefs struct {
	Locale string `yaml:"locale,omitempty"`
}

// LocaleStore implements ports.LocaleStore over a YAML preferences file.
type LocaleStore struct {
	path string
}

// NewLocaleStore creates a store backed by the file at path.
func NewLocaleStore(path string) *LocaleStore {
	return &LocaleStore{path: path}
}

// DefaultPrefsPath returns the per-user preferences file, e.g. ~/.config/studio/prefs.yaml.
func DefaultPrefsPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "studio", "prefs.yaml"), nil
}

// Path returns the backing file path.
func (s *LocaleStore) Path() string {
	return s.path
}

// Load reads the locale. A missing file or an empty locale means nothing is stored.
func (s *LocaleStore) Load(ctx context.Context) (string, bool, error) {
	p, err := s.read()
	if err != nil {
		return "", false, err
	}
	return p.Locale, p.Locale != "", nil
}

// Save writes the locale, replacing the file atomically.
func (s *LocaleStore) Save(ctx context.Context, locale string) error {
	p, err := s.read()
	if err != nil {
		return err
	}
	p.Locale = locale

	data, err := yaml.Marshal(p)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create prefs dir: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".prefs-*.yaml")
	if err != nil {
		return fmt.Errorf("create temp prefs: %w", err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write prefs: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), s.path)
}

func (s *LocaleStore) read() (prefs, error) {
	var p prefs
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return p, nil
	}
	if err != nil {
		return p, fmt.Errorf("read prefs: %w", err)
	}
	if err := yaml.Unmarshal(data, &p); err != nil {
		return p, fmt.Errorf("parse prefs %s: %w", s.path, err)
	}
	return p, nil
}
