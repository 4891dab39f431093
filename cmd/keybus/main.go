// Package main is the entry point for keybus.
//
// keybus reads keyboard events from a window, a terminal or a replay file
// and publishes key presses and releases on two topics.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/dshills/keybus/internal/app"
	"github.com/dshills/keybus/internal/config"
	"github.com/dshills/keybus/internal/input/source"
	"github.com/dshills/keybus/internal/logging"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		// Cobra has already printed the error.
		os.Exit(1)
	}
}

// flagPaths maps command-line flags to the config settings they override.
var flagPaths = map[string]string{
	"source":          "keyboard.source",
	"allow-repeat":    "keyboard.allow_repeat",
	"repeat-delay":    "keyboard.repeat_delay",
	"repeat-interval": "keyboard.repeat_interval",
	"poll-interval":   "keyboard.poll_interval_ms",
	"replay":          "keyboard.replay_file",
	"keydown-topic":   "bus.keydown_topic",
	"keyup-topic":     "bus.keyup_topic",
	"output":          "output.path",
	"script":          "script.path",
	"log-level":       "logging.level",
}

func newRootCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "keybus",
		Short: "Publish keyboard presses and releases on a message bus.",
		Long: `keybus polls a keyboard source every poll interval and publishes
each key press on the keydown topic and each release on the keyup topic.
Repeated presses of a held key are dropped unless allow_repeat is set.

Settings come from keybus.toml (or --config), KEYBUS_<SECTION>_<KEY>
environment variables and the flags below, in increasing precedence.`,
		Version:      fmt.Sprintf("%s (%s) built: %s", version, commit, date),
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(config.Options{
				Path:      configPath,
				Overrides: overrides(cmd.Flags()),
			})
			if err != nil {
				return err
			}
			return run(cmd.Context(), cfg)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&configPath, "config", "c", "", "config file (default ./keybus.toml if present)")
	f.String("source", config.SourceWindow, "input source: window, terminal or replay")
	f.Bool("allow-repeat", false, "report repeated presses of a held key")
	f.Int("repeat-delay", config.DefaultRepeatDelay, "ms before the first auto-repeat")
	f.Int("repeat-interval", config.DefaultRepeatInterval, "ms between auto-repeats")
	f.Int("poll-interval", 20, "poll loop period in ms")
	f.String("keydown-topic", "keydown", "topic for key presses")
	f.String("keyup-topic", "keyup", "topic for key releases")
	f.StringP("output", "o", "-", `JSON lines output file ("-" for stdout, "" to disable)`)
	f.String("script", "", "Lua script with an on_key(msg) callback")
	f.String("replay", "", "replay file of JSON key events (implies --source replay)")
	f.String("log-level", "info", "log level: debug, info, warn or error")

	return cmd
}

// overrides collects the flags set on the command line as config overrides.
func overrides(flags *pflag.FlagSet) map[string]any {
	out := make(map[string]any)
	flags.Visit(func(fl *pflag.Flag) {
		p, ok := flagPaths[fl.Name]
		if !ok {
			return
		}
		switch fl.Value.Type() {
		case "bool":
			v, _ := flags.GetBool(fl.Name)
			out[p] = v
		case "int":
			v, _ := flags.GetInt(fl.Name)
			out[p] = int64(v)
		default:
			out[p] = fl.Value.String()
		}
	})
	if _, ok := out["keyboard.replay_file"]; ok && !flags.Changed("source") {
		out["keyboard.source"] = config.SourceReplay
	}
	return out
}

// run starts the bridge and blocks until the source quits, the window is
// closed or a signal arrives.
func run(parent context.Context, cfg *config.Config) error {
	if parent == nil {
		parent = context.Background()
	}
	logger := logging.New(logging.Config{
		Level:  logging.ParseLevel(cfg.Logging.Level),
		Output: os.Stderr,
		Prefix: "keybus",
	})
	logging.SetDefault(logger)

	b, err := app.New(app.Options{Config: cfg, Logger: logger})
	if err != nil {
		return err
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), app.DefaultShutdownTimeout)
		defer cancel()
		if err := b.Shutdown(ctx); err != nil {
			logger.Warn("shutdown: %v", err)
		}
	}()

	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	runner, ok := b.Source().(source.Runner)
	if !ok {
		return loopResult(b.Run(ctx))
	}

	// The window frame loop owns the main goroutine; the poll loop runs
	// beside it and closes the window when it ends.
	done := make(chan error, 1)
	go func() {
		err := b.Run(ctx)
		_ = b.Source().Close()
		done <- err
	}()
	if err := runner.Run(); err != nil {
		logger.Error("window: %v", err)
		cancel()
		<-done
		return err
	}
	return loopResult(<-done)
}

// loopResult treats cancellation by signal as a normal exit.
func loopResult(err error) error {
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
