// Package config holds the keybus settings and loads them from layered
// sources.
//
// Layers, lowest priority first:
//
//  1. Built-in defaults (Default)
//  2. TOML file (--config, or ./keybus.toml when present)
//  3. Environment variables (KEYBUS_<SECTION>_<SETTING>)
//  4. Command-line overrides
//
// Each layer is read into a nested map, the maps are deep-merged, and the
// result is decoded into Config and validated. Settings are read once at
// startup.
//
//	cfg, err := config.Load(config.Options{Path: path})
//	if err != nil {
//	    return err
//	}
//	delay := cfg.Keyboard.EffectiveRepeatDelay()
package config
