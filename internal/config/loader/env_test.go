package loader

import (
	"testing"
)

func TestEnvLoader_Load(t *testing.T) {
	environ := []string{
		"GAPSEQ_LOG_LEVEL=debug",
		"GAPSEQ_SCRIPT=/tmp/x.lua",
		"GAPSEQ_BUFFER_POOLED=true",
		"GAPSEQ_BUFFER_CAPACITY=128",
		"GAPSEQ_BUFFER_MAX_CAPACITY=4096",
		"GAPSEQ_PIPELINE_SEED=1",
		"HOME=/root",
		"GAPSEQ_NOSECTION=x",
	}

	config, err := NewEnvLoaderFrom(EnvPrefix, environ).Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	tests := []struct {
		path string
		want any
	}{
		{"logging.level", "debug"},
		{"pipeline.script", "/tmp/x.lua"},
		{"buffer.pooled", true},
		{"buffer.capacity", int64(128)},
		{"buffer.max_capacity", int64(4096)},
		{"pipeline.seed", int64(1)},
	}
	for _, tt := range tests {
		val, ok := GetPath(config, tt.path)
		if !ok || val != tt.want {
			t.Errorf("%s = %v (%T), want %v", tt.path, val, val, tt.want)
		}
	}

	if _, ok := config["home"]; ok {
		t.Error("unprefixed variables should be ignored")
	}
	if len(config) != 3 {
		t.Errorf("expected logging, pipeline and buffer sections, got %v", config)
	}
}

func TestEnvLoader_EmptyValue(t *testing.T) {
	config, _ := NewEnvLoaderFrom(EnvPrefix, []string{"GAPSEQ_LOG_LEVEL="}).Load()

	if val, ok := GetPath(config, "logging.level"); !ok || val != "" {
		t.Errorf("empty value should be kept, got %v, %v", val, ok)
	}
}

func TestEnvLoader_AddMapping(t *testing.T) {
	l := NewEnvLoaderFrom(EnvPrefix, []string{"GAPSEQ_DEBOUNCE=250"})
	l.AddMapping("GAPSEQ_DEBOUNCE", "watch.debounce_ms")

	config, _ := l.Load()
	if val, _ := GetPath(config, "watch.debounce_ms"); val != int64(250) {
		t.Errorf("watch.debounce_ms = %v, want 250", val)
	}
}

func TestEnvToPath(t *testing.T) {
	l := NewEnvLoader(EnvPrefix)

	tests := []struct {
		env  string
		want string
	}{
		{"GAPSEQ_BUFFER_CAPACITY", "buffer.capacity"},
		{"GAPSEQ_BUFFER_MAX_CAPACITY", "buffer.max_capacity"},
		{"GAPSEQ_WATCH_DEBOUNCE_MS", "watch.debounce_ms"},
		{"GAPSEQ_LONE", ""},
		{"GAPSEQ__X", ""},
	}
	for _, tt := range tests {
		if got := l.envToPath(tt.env); got != tt.want {
			t.Errorf("envToPath(%q) = %q, want %q", tt.env, got, tt.want)
		}
	}
}

func TestParseValue(t *testing.T) {
	tests := []struct {
		input string
		want  any
	}{
		{"", ""},
		{"0", int64(0)},
		{"1", int64(1)},
		{"-12", int64(-12)},
		{"1.5", 1.5},
		{"true", true},
		{"Yes", true},
		{"off", false},
		{"v1.2.3", "v1.2.3"},
		{"hello", "hello"},
	}
	for _, tt := range tests {
		if got := parseValue(tt.input); got != tt.want {
			t.Errorf("parseValue(%q) = %v (%T), want %v (%T)", tt.input, got, got, tt.want, tt.want)
		}
	}
}
