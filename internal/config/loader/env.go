package loader

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// EnvLoader loads configuration from environment variables.
//
// PREFIX_SECTION_SETTING_NAME maps to section.setting_name, so
// KEYBUS_KEYBOARD_ALLOW_REPEAT sets keyboard.allow_repeat.
type EnvLoader struct {
	prefix   string            // includes the trailing underscore
	mapping  map[string]string // env var -> config path
	defaults map[string]any    // typed defaults; string settings keep raw text
	environ  func() []string
}

// NewEnvLoader creates a new environment variable loader.
// The prefix should include the trailing underscore (e.g., "KEYBUS_").
func NewEnvLoader(prefix string) *EnvLoader {
	return &EnvLoader{
		prefix:  prefix,
		mapping: defaultEnvMapping(prefix),
		environ: os.Environ,
	}
}

// defaultEnvMapping returns shorthand variables that do not follow the
// section_setting pattern.
func defaultEnvMapping(prefix string) map[string]string {
	return map[string]string{
		prefix + "LOG_LEVEL":    "logging.level",
		prefix + "SOURCE":       "keyboard.source",
		prefix + "ALLOW_REPEAT": "keyboard.allow_repeat",
	}
}

// AddMapping adds a custom environment variable mapping.
func (l *EnvLoader) AddMapping(envVar, configPath string) {
	l.mapping[envVar] = configPath
}

// WithDefaults sets the typed defaults consulted by Load. A variable whose
// setting defaults to a string keeps its raw text instead of being parsed.
func (l *EnvLoader) WithDefaults(defaults map[string]any) *EnvLoader {
	l.defaults = defaults
	return l
}

// Load reads environment variables and returns a configuration map.
// Empty values are treated as set.
func (l *EnvLoader) Load() (map[string]any, error) {
	config := make(map[string]any)

	for _, env := range l.environ() {
		name, value, ok := strings.Cut(env, "=")
		if !ok || !strings.HasPrefix(name, l.prefix) {
			continue
		}
		path, mapped := l.mapping[name]
		if !mapped {
			path = l.envToPath(name)
		}
		if path == "" {
			continue
		}
		var v any = value
		if _, isString := valueAt(l.defaults, path).(string); !isString {
			v = ParseValue(value)
		}
		setByPath(config, path, v)
	}
	return config, nil
}

// envToPath converts KEYBUS_OUTPUT_FRAME_ID to output.frame_id.
func (l *EnvLoader) envToPath(env string) string {
	name := strings.ToLower(strings.TrimPrefix(env, l.prefix))
	section, setting, ok := strings.Cut(name, "_")
	if !ok || section == "" || setting == "" {
		return ""
	}
	return section + "." + setting
}

// ParseValue converts an environment string to a bool, integer, float or
// string, in that order of preference.
func ParseValue(s string) any {
	switch strings.ToLower(s) {
	case "true", "yes", "on":
		return true
	case "false", "no", "off":
		return false
	}
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i
	}
	if strings.Contains(s, ".") {
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return f
		}
	}
	return s
}

// setByPath sets a value in a nested map using a dot-separated path.
func setByPath(data map[string]any, path string, value any) {
	parts := strings.Split(path, ".")
	current := data
	for _, part := range parts[:len(parts)-1] {
		next, ok := current[part].(map[string]any)
		if !ok {
			next = make(map[string]any)
			current[part] = next
		}
		current = next
	}
	current[parts[len(parts)-1]] = value
}

// valueAt returns the value at a dot-separated path, or nil.
func valueAt(data map[string]any, path string) any {
	parts := strings.Split(path, ".")
	var cur any = data
	for _, part := range parts {
		m, ok := cur.(map[string]any)
		if !ok {
			return nil
		}
		cur = m[part]
	}
	return cur
}

// CoerceStrings rewrites scalar values in layer as strings wherever the same
// path holds a string in defaults, so "1" typed as a number still decodes
// into a text setting.
func CoerceStrings(layer, defaults map[string]any) {
	for k, v := range layer {
		switch d := defaults[k].(type) {
		case map[string]any:
			if sub, ok := v.(map[string]any); ok {
				CoerceStrings(sub, d)
			}
		case string:
			switch x := v.(type) {
			case string, map[string]any, []any:
			case int64:
				layer[k] = strconv.FormatInt(x, 10)
			case float64:
				layer[k] = strconv.FormatFloat(x, 'f', -1, 64)
			case bool:
				layer[k] = strconv.FormatBool(x)
			default:
				layer[k] = fmt.Sprint(x)
			}
		}
	}
}

// SetByPath sets a dot-separated path in data, creating sections as needed.
func SetByPath(data map[string]any, path string, value any) {
	setByPath(data, path, value)
}
