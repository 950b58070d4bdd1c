package loader

import (
	"os"
	"strconv"
	"strings"
)

// EnvPrefix is the prefix of every gapseq environment variable.
const EnvPrefix = "GAPSEQ_"

// EnvLoader loads configuration from environment variables.
type EnvLoader struct {
	prefix  string            // Environment variable prefix (e.g., "GAPSEQ_")
	mapping map[string]string // Env var -> config path
	lookup  func() []string
}

// NewEnvLoader creates a new environment variable loader.
// The prefix should include the trailing underscore (e.g., "GAPSEQ_").
func NewEnvLoader(prefix string) *EnvLoader {
	return &EnvLoader{
		prefix:  prefix,
		mapping: defaultEnvMapping(),
		lookup:  os.Environ,
	}
}

// NewEnvLoaderFrom creates a loader reading "KEY=value" pairs from environ
// instead of the process environment.
func NewEnvLoaderFrom(prefix string, environ []string) *EnvLoader {
	l := NewEnvLoader(prefix)
	l.lookup = func() []string { return environ }
	return l
}

// defaultEnvMapping returns the variables whose names do not follow the
// SECTION_KEY convention.
func defaultEnvMapping() map[string]string {
	return map[string]string{
		"GAPSEQ_LOG_LEVEL": "logging.level",
		"GAPSEQ_SCRIPT":    "pipeline.script",
	}
}

// Load reads environment variables and returns a configuration map.
// Empty values are treated as set, not as unset.
func (l *EnvLoader) Load() (map[string]any, error) {
	config := make(map[string]any)

	for _, env := range l.lookup() {
		name, value, ok := strings.Cut(env, "=")
		if !ok || !strings.HasPrefix(name, l.prefix) {
			continue
		}

		path, mapped := l.mapping[name]
		if !mapped {
			path = l.envToPath(name)
			if path == "" {
				continue
			}
		}
		SetPath(config, path, parseValue(value))
	}

	return config, nil
}

// AddMapping adds a custom environment variable mapping.
func (l *EnvLoader) AddMapping(envVar, configPath string) {
	if l.mapping == nil {
		l.mapping = make(map[string]string)
	}
	l.mapping[envVar] = configPath
}

// envToPath converts GAPSEQ_BUFFER_MAX_CAPACITY to buffer.max_capacity.
// The first segment names the section; the rest form the snake_case key.
func (l *EnvLoader) envToPath(env string) string {
	name := strings.ToLower(strings.TrimPrefix(env, l.prefix))
	section, key, ok := strings.Cut(name, "_")
	if !ok || section == "" || key == "" {
		return ""
	}
	return section + "." + key
}

// parseValue converts a variable's text to an int, float, or bool when it
// reads as one. Numbers win over bools, so "1" stays the integer 1.
func parseValue(s string) any {
	if s == "" {
		return s
	}

	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i
	}

	if strings.Contains(s, ".") {
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return f
		}
	}

	switch strings.ToLower(s) {
	case "true", "yes", "on":
		return true
	case "false", "no", "off":
		return false
	}

	return s
}
