package config

import (
	"time"

	"github.com/dshills/keybus/internal/event/topic"
	"github.com/dshills/keybus/internal/logging"
)

// Source names accepted by keyboard.source.
const (
	SourceWindow   = "window"
	SourceTerminal = "terminal"
	SourceReplay   = "replay"
)

// SDL default repeat timings in milliseconds.
const (
	DefaultRepeatDelay    = 500
	DefaultRepeatInterval = 30
)

// Config is the complete keybus configuration.
type Config struct {
	Keyboard KeyboardConfig `toml:"keyboard"`
	Window   WindowConfig   `toml:"window"`
	Bus      BusConfig      `toml:"bus"`
	Output   OutputConfig   `toml:"output"`
	Script   ScriptConfig   `toml:"script"`
	Logging  LoggingConfig  `toml:"logging"`
}

// KeyboardConfig controls event capture and repeat handling.
type KeyboardConfig struct {
	// AllowRepeat reports repeated presses of a held key.
	AllowRepeat bool `toml:"allow_repeat"`

	// RepeatDelay is the hold time in ms before the first auto-repeat.
	RepeatDelay int `toml:"repeat_delay"`

	// RepeatInterval is the time in ms between auto-repeats.
	RepeatInterval int `toml:"repeat_interval"`

	PollIntervalMS   int    `toml:"poll_interval_ms"`
	Source           string `toml:"source"`
	ReleaseTimeoutMS int    `toml:"release_timeout_ms"`
	ReplayFile       string `toml:"replay_file"`
}

// EffectiveRepeatDelay is the repeat delay handed to the input source.
// Repeat is disabled entirely when AllowRepeat is false.
func (k KeyboardConfig) EffectiveRepeatDelay() time.Duration {
	if !k.AllowRepeat {
		return 0
	}
	return time.Duration(k.RepeatDelay) * time.Millisecond
}

// EffectiveRepeatInterval is the repeat interval handed to the input source.
func (k KeyboardConfig) EffectiveRepeatInterval() time.Duration {
	return time.Duration(k.RepeatInterval) * time.Millisecond
}

// PollInterval is the poll loop period.
func (k KeyboardConfig) PollInterval() time.Duration {
	return time.Duration(k.PollIntervalMS) * time.Millisecond
}

// ReleaseTimeout is how long the terminal source waits before reporting a release.
func (k KeyboardConfig) ReleaseTimeout() time.Duration {
	return time.Duration(k.ReleaseTimeoutMS) * time.Millisecond
}

// WindowConfig configures the desktop window source.
type WindowConfig struct {
	Title  string `toml:"title"`
	Width  int    `toml:"width"`
	Height int    `toml:"height"`
}

// BusConfig configures topics and async delivery.
type BusConfig struct {
	KeyDownTopic string `toml:"keydown_topic"`
	KeyUpTopic   string `toml:"keyup_topic"`
	QueueSize    int    `toml:"queue_size"`
	Workers      int    `toml:"workers"`
}

// OutputConfig configures the JSON-lines sink.
type OutputConfig struct {
	// Path is a file path, "-" for stdout, or empty to disable.
	Path    string `toml:"path"`
	FrameID string `toml:"frame_id"`
}

// ScriptConfig configures the Lua hook sink.
type ScriptConfig struct {
	// Path is the script file; empty disables the hook.
	Path      string `toml:"path"`
	Watch     bool   `toml:"watch"`
	TimeoutMS int    `toml:"timeout_ms"`
}

// Timeout bounds a single hook call.
func (s ScriptConfig) Timeout() time.Duration {
	return time.Duration(s.TimeoutMS) * time.Millisecond
}

// LoggingConfig configures the logger.
type LoggingConfig struct {
	Level string `toml:"level"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Keyboard: KeyboardConfig{
			AllowRepeat:      false,
			RepeatDelay:      DefaultRepeatDelay,
			RepeatInterval:   DefaultRepeatInterval,
			PollIntervalMS:   20,
			Source:           SourceWindow,
			ReleaseTimeoutMS: 600,
		},
		Window: WindowConfig{
			Title:  "keybus",
			Width:  100,
			Height: 100,
		},
		Bus: BusConfig{
			KeyDownTopic: "keydown",
			KeyUpTopic:   "keyup",
			QueueSize:    10,
			Workers:      1,
		},
		Output: OutputConfig{
			Path: "-",
		},
		Script: ScriptConfig{
			Watch:     true,
			TimeoutMS: 100,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Validate checks the configuration, returning every problem found.
func (c *Config) Validate() error {
	var errs ValidationErrors

	k := c.Keyboard
	if k.RepeatDelay < 0 {
		errs.add("keyboard.repeat_delay", k.RepeatDelay, "must not be negative")
	}
	if k.RepeatInterval < 0 {
		errs.add("keyboard.repeat_interval", k.RepeatInterval, "must not be negative")
	}
	if k.PollIntervalMS <= 0 {
		errs.add("keyboard.poll_interval_ms", k.PollIntervalMS, "must be positive")
	}
	if k.ReleaseTimeoutMS <= 0 {
		errs.add("keyboard.release_timeout_ms", k.ReleaseTimeoutMS, "must be positive")
	}
	switch k.Source {
	case SourceWindow, SourceTerminal:
	case SourceReplay:
		if k.ReplayFile == "" {
			errs.add("keyboard.replay_file", k.ReplayFile, "required for the replay source")
		}
	default:
		errs.add("keyboard.source", k.Source, "must be window, terminal or replay")
	}

	if c.Window.Width <= 0 {
		errs.add("window.width", c.Window.Width, "must be positive")
	}
	if c.Window.Height <= 0 {
		errs.add("window.height", c.Window.Height, "must be positive")
	}

	b := c.Bus
	for _, f := range []struct {
		path  string
		value string
	}{
		{"bus.keydown_topic", b.KeyDownTopic},
		{"bus.keyup_topic", b.KeyUpTopic},
	} {
		t := topic.Topic(f.value)
		if !t.IsValid() || t.IsWildcard() {
			errs.add(f.path, f.value, "must be a valid topic without wildcards")
		}
	}
	if b.KeyDownTopic == b.KeyUpTopic {
		errs.add("bus.keyup_topic", b.KeyUpTopic, "must differ from bus.keydown_topic")
	}
	if b.QueueSize <= 0 {
		errs.add("bus.queue_size", b.QueueSize, "must be positive")
	}
	if b.Workers <= 0 {
		errs.add("bus.workers", b.Workers, "must be positive")
	}

	if c.Script.TimeoutMS < 0 {
		errs.add("script.timeout_ms", c.Script.TimeoutMS, "must not be negative")
	}
	if !logging.ValidLevel(c.Logging.Level) {
		errs.add("logging.level", c.Logging.Level, "must be debug, info, warn or error")
	}

	if len(errs) == 0 {
		return nil
	}
	return errs
}
