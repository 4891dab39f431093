package loader

import (
	"errors"
	"io/fs"
	"strings"
	"testing"
	"time"
)

// MemFS is an in-memory file system for testing.
type MemFS struct {
	files map[string][]byte
}

func NewMemFS() *MemFS {
	return &MemFS{files: make(map[string][]byte)}
}

func (m *MemFS) AddFile(path string, content string) {
	m.files[path] = []byte(content)
}

func (m *MemFS) ReadFile(path string) ([]byte, error) {
	data, ok := m.files[path]
	if !ok {
		return nil, fs.ErrNotExist
	}
	return data, nil
}

func (m *MemFS) Stat(path string) (fs.FileInfo, error) {
	if _, ok := m.files[path]; ok {
		return &memFileInfo{name: path}, nil
	}
	return nil, fs.ErrNotExist
}

type memFileInfo struct {
	name string
}

func (f *memFileInfo) Name() string       { return f.name }
func (f *memFileInfo) Size() int64        { return 0 }
func (f *memFileInfo) Mode() fs.FileMode  { return 0644 }
func (f *memFileInfo) ModTime() time.Time { return time.Now() }
func (f *memFileInfo) IsDir() bool        { return false }
func (f *memFileInfo) Sys() any           { return nil }

func TestTOMLLoader_Load(t *testing.T) {
	memfs := NewMemFS()
	memfs.AddFile("/keybus.toml", `
[keyboard]
allow_repeat = true
repeat_delay = 250
source = "terminal"

[bus]
keydown_topic = "robot.keydown"
`)

	config, err := NewTOMLLoaderWithFS(memfs, "/keybus.toml").Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	keyboard, ok := config["keyboard"].(map[string]any)
	if !ok {
		t.Fatal("expected keyboard to be a map")
	}
	if keyboard["allow_repeat"] != true {
		t.Errorf("allow_repeat = %v, want true", keyboard["allow_repeat"])
	}
	if keyboard["repeat_delay"] != int64(250) {
		t.Errorf("repeat_delay = %v (%T), want 250", keyboard["repeat_delay"], keyboard["repeat_delay"])
	}
	if keyboard["source"] != "terminal" {
		t.Errorf("source = %v, want terminal", keyboard["source"])
	}

	bus, ok := config["bus"].(map[string]any)
	if !ok || bus["keydown_topic"] != "robot.keydown" {
		t.Errorf("bus = %v", config["bus"])
	}
}

func TestTOMLLoader_MissingFile(t *testing.T) {
	config, err := NewTOMLLoaderWithFS(NewMemFS(), "/missing.toml").Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if config != nil {
		t.Errorf("expected nil config for missing file, got %v", config)
	}
}

func TestTOMLLoader_ParseError(t *testing.T) {
	memfs := NewMemFS()
	memfs.AddFile("/bad.toml", "[keyboard]\nallow_repeat = \n")

	_, err := NewTOMLLoaderWithFS(memfs, "/bad.toml").Load()
	var perr *ParseError
	if !errors.As(err, &perr) {
		t.Fatalf("expected ParseError, got %v", err)
	}
	if perr.Path != "/bad.toml" {
		t.Errorf("Path = %q", perr.Path)
	}
	if perr.Line == 0 {
		t.Error("expected a line number")
	}
}

func TestTOMLLoader_LoadFromReader(t *testing.T) {
	l := NewTOMLLoader("")
	config, err := l.LoadFromReader(strings.NewReader("[logging]\nlevel = \"debug\"\n"))
	if err != nil {
		t.Fatalf("LoadFromReader failed: %v", err)
	}
	logging, _ := config["logging"].(map[string]any)
	if logging["level"] != "debug" {
		t.Errorf("logging.level = %v", logging["level"])
	}
}

func TestDeepMerge(t *testing.T) {
	dst := map[string]any{
		"keyboard": map[string]any{"allow_repeat": false, "repeat_delay": int64(500)},
		"logging":  map[string]any{"level": "info"},
	}
	src := map[string]any{
		"keyboard": map[string]any{"allow_repeat": true},
		"output":   map[string]any{"path": "-"},
	}

	got := DeepMerge(dst, src)

	keyboard := got["keyboard"].(map[string]any)
	if keyboard["allow_repeat"] != true {
		t.Error("src value should override dst")
	}
	if keyboard["repeat_delay"] != int64(500) {
		t.Error("dst-only value should survive the merge")
	}
	if _, ok := got["output"]; !ok {
		t.Error("src-only section should be added")
	}
	if got["logging"].(map[string]any)["level"] != "info" {
		t.Error("untouched section changed")
	}
}

func TestDeepMerge_Nil(t *testing.T) {
	got := DeepMerge(nil, map[string]any{"a": 1})
	if got["a"] != 1 {
		t.Errorf("DeepMerge(nil, src) = %v", got)
	}
	got = DeepMerge(map[string]any{"a": 1}, nil)
	if got["a"] != 1 {
		t.Errorf("DeepMerge(dst, nil) = %v", got)
	}
}
