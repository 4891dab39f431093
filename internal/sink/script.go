package sink

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"
	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/keybus/internal/event"
	"github.com/dshills/keybus/internal/logging"
	"github.com/dshills/keybus/internal/publish"
)

// CallbackName is the global Lua function invoked for every message.
const CallbackName = "on_key"

// ErrNoCallback is returned when a script does not define on_key.
var ErrNoCallback = errors.New("script does not define " + CallbackName)

// ErrScriptClosed is returned when handling on a closed script.
var ErrScriptClosed = errors.New("script closed")

// ScriptConfig configures a Script sink.
type ScriptConfig struct {
	Path string

	// Watch reloads the script when its file is written.
	Watch bool

	// Timeout bounds a single on_key call. Zero means no limit.
	Timeout time.Duration
}

// Script runs a Lua on_key callback for every key message.
//
// The Lua state is not goroutine-safe; every access holds mu. A reload
// builds a fresh state and only replaces the running one if it loads.
type Script struct {
	cfg  ScriptConfig
	path string
	log  *logging.Logger

	mu     sync.Mutex
	L      *lua.LState
	closed bool

	watcher   *fsnotify.Watcher
	done      chan struct{}
	closeOnce sync.Once
	reloads   atomic.Uint64
}

var _ event.Handler = (*Script)(nil)

// NewScript loads the script at cfg.Path.
func NewScript(cfg ScriptConfig, logger *logging.Logger) (*Script, error) {
	abs, err := filepath.Abs(cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("script path: %w", err)
	}
	if logger == nil {
		logger = logging.Nop()
	}

	s := &Script{
		cfg:  cfg,
		path: abs,
		log:  logger.WithComponent("script"),
		done: make(chan struct{}),
	}

	L, err := s.load()
	if err != nil {
		return nil, err
	}
	s.L = L

	if cfg.Watch {
		if err := s.watch(); err != nil {
			L.Close()
			return nil, err
		}
	} else {
		close(s.done)
	}
	return s, nil
}

// Handle implements event.Handler.
func (s *Script) Handle(ctx context.Context, ev any) error {
	e, ok := ev.(event.Event[publish.KeyMessage])
	if !ok {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrScriptClosed
	}

	callCtx := ctx
	if s.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, s.cfg.Timeout)
		defer cancel()
	}
	s.L.SetContext(callCtx)
	defer s.L.RemoveContext()

	fn := s.L.GetGlobal(CallbackName)
	err := s.L.CallByParam(lua.P{Fn: fn, NRet: 0, Protect: true}, messageTable(s.L, e))
	if err != nil {
		return fmt.Errorf("%s: %w", CallbackName, err)
	}
	return nil
}

// Reloads returns how many times the script has been reloaded.
func (s *Script) Reloads() uint64 {
	return s.reloads.Load()
}

// Reload loads the script again, keeping the current state on failure.
func (s *Script) Reload() error {
	L, err := s.load()
	if err != nil {
		return err
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		L.Close()
		return ErrScriptClosed
	}
	old := s.L
	s.L = L
	s.mu.Unlock()

	old.Close()
	s.reloads.Add(1)
	s.log.Info("reloaded %s", s.path)
	return nil
}

// Close stops watching and releases the Lua state.
func (s *Script) Close() error {
	var err error
	s.closeOnce.Do(func() {
		if s.watcher != nil {
			err = s.watcher.Close()
		}
		<-s.done

		s.mu.Lock()
		s.closed = true
		s.L.Close()
		s.mu.Unlock()
	})
	return err
}

func (s *Script) load() (*lua.LState, error) {
	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	lua.OpenBase(L)
	lua.OpenTable(L)
	lua.OpenString(L)
	lua.OpenMath(L)
	for _, name := range []string{"dofile", "loadfile", "load", "loadstring"} {
		L.SetGlobal(name, lua.LNil)
	}
	L.SetGlobal("log", L.NewFunction(func(L *lua.LState) int {
		s.log.Info("%s", L.CheckString(1))
		return 0
	}))

	if err := L.DoFile(s.path); err != nil {
		L.Close()
		return nil, fmt.Errorf("load script %s: %w", s.path, err)
	}
	if L.GetGlobal(CallbackName).Type() != lua.LTFunction {
		L.Close()
		return nil, fmt.Errorf("load script %s: %w", s.path, ErrNoCallback)
	}
	return L, nil
}

func (s *Script) watch() error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watch script: %w", err)
	}
	// Editors often replace the file, so the directory is watched.
	if err := w.Add(filepath.Dir(s.path)); err != nil {
		_ = w.Close()
		return fmt.Errorf("watch script: %w", err)
	}
	s.watcher = w
	go s.watchLoop(w)
	return nil
}

func (s *Script) watchLoop(w *fsnotify.Watcher) {
	defer close(s.done)
	for {
		select {
		case ev, ok := <-w.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != s.path || !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
				continue
			}
			if err := s.Reload(); err != nil {
				s.log.Warn("reload failed, keeping previous script: %v", err)
			}
		case err, ok := <-w.Errors:
			if !ok {
				return
			}
			s.log.Warn("watch error: %v", err)
		}
	}
}

func messageTable(L *lua.LState, e event.Event[publish.KeyMessage]) *lua.LTable {
	msg := e.Payload
	t := L.NewTable()
	t.RawSetString("topic", lua.LString(e.Type.String()))
	t.RawSetString("code", lua.LNumber(msg.Code))
	t.RawSetString("modifiers", lua.LNumber(msg.Modifiers))
	t.RawSetString("seq", lua.LNumber(msg.Header.Seq))
	t.RawSetString("frame_id", lua.LString(msg.Header.FrameID))
	t.RawSetString("stamp", lua.LNumber(float64(msg.Header.Stamp.UnixNano())/1e9))
	t.RawSetString("id", lua.LString(e.Metadata.ID))
	return t
}
