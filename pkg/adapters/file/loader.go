package file

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/bots-against-war/moduli/pkg/domain"
	"github.com/fsnotify/fsnotify"
	"github.com/tidwall/gjson"
	"gopkg.in/yaml.v3"
)

var flowExtensions = []string{"", ".json", ".yaml", ".yml"}

// Loader implements ports.FlowLoader over flow documents in a directory.
// A document is either a bare user flow or a stored bot config wrapping one under
// "user_flow_config".
type Loader struct {
	root string
}

// NewLoader creates a loader resolving names relative to root. An empty root means the
// working directory.
func NewLoader(root string) *Loader {
	return &Loader{root: root}
}

// Resolve returns the path of the named flow document.
func (l *Loader) Resolve(name string) (string, error) {
	base := name
	if !filepath.IsAbs(name) {
		base = filepath.Join(l.root, name)
	}
	for _, ext := range flowExtensions {
		path := base + ext
		info, err := os.Stat(path)
		if err == nil && !info.IsDir() {
			return path, nil
		}
	}
	return "", fmt.Errorf("%s: %w", name, domain.ErrFlowNotFound)
}

// LoadFlow reads and decodes the named flow.
func (l *Loader) LoadFlow(ctx context.Context, name string) (*domain.UserFlowConfig, error) {
	path, err := l.Resolve(name)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%s: %w", name, domain.ErrFlowNotFound)
		}
		return nil, err
	}
	return DecodeFlow(path, data)
}

// DecodeFlow decodes a flow document; the format is picked by file extension.
func DecodeFlow(path string, data []byte) (*domain.UserFlowConfig, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		var doc any
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
		converted, err := json.Marshal(doc)
		if err != nil {
			return nil, fmt.Errorf("convert %s: %w", path, err)
		}
		data = converted
	}

	if wrapped := gjson.GetBytes(data, "user_flow_config"); wrapped.IsObject() {
		data = []byte(wrapped.Raw)
	}

	flow := domain.NewUserFlowConfig()
	if err := json.Unmarshal(data, flow); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return flow, nil
}

// Watch emits the flow name whenever its document is written or recreated.
// Bursts of events collapse into a single pending notification.
func (l *Loader) Watch(ctx context.Context, name string) (<-chan string, error) {
	path, err := l.Resolve(name)
	if err != nil {
		return nil, err
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create fsnotify watcher: %w", err)
	}
	// Editors often replace files on save, so watch the directory rather than the file.
	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("watch %s: %w", filepath.Dir(abs), err)
	}

	ch := make(chan string, 1)
	go func() {
		defer close(ch)
		defer watcher.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) != abs {
					continue
				}
				if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) {
					select {
					case ch <- name:
					default:
					}
				}
			case _, ok := <-watcher.Errors:
				if !ok {
					return
				}
			}
		}
	}()

	return ch, nil
}
