package main

import (
	"path/filepath"
	"testing"

	"github.com/fsnotify/fsnotify"
)

func TestNewWatchCmd(t *testing.T) {
	cmd := newWatchCmd()

	if cmd.Use != "watch" {
		t.Errorf("Use = %q, want 'watch'", cmd.Use)
	}

	if cmd.Short == "" {
		t.Error("Short description should not be empty")
	}

	for _, name := range []string{"names", "config", "debounce", "format", "output", "strict"} {
		if cmd.Flags().Lookup(name) == nil {
			t.Errorf("missing --%s flag", name)
		}
	}
}

func TestDebounceDefault(t *testing.T) {
	cmd := newWatchCmd()

	flag := cmd.Flags().Lookup("debounce")
	if flag == nil {
		t.Fatal("missing --debounce flag")
	}

	if flag.DefValue != "500ms" {
		t.Errorf("debounce default = %q, want '500ms'", flag.DefValue)
	}
}

func TestShouldRebuild(t *testing.T) {
	dir := t.TempDir()
	names := filepath.Join(dir, "BUCKETS")
	flags := &pipelineFlags{namesFile: names, configFile: filepath.Join(dir, "cfg.yaml")}
	files := watchedFiles(flags)

	if len(files) != 2 {
		t.Fatalf("watchedFiles() = %v, want 2 files", files)
	}
	if dirs := watchedDirs(files); len(dirs) != 1 || dirs[0] != dir {
		t.Errorf("watchedDirs() = %v, want [%s]", dirs, dir)
	}

	tests := []struct {
		name  string
		event fsnotify.Event
		want  bool
	}{
		{"write names", fsnotify.Event{Name: names, Op: fsnotify.Write}, true},
		{"create config", fsnotify.Event{Name: filepath.Join(dir, "cfg.yaml"), Op: fsnotify.Create}, true},
		{"chmod names", fsnotify.Event{Name: names, Op: fsnotify.Chmod}, false},
		{"other file", fsnotify.Event{Name: filepath.Join(dir, "bundle.yaml"), Op: fsnotify.Write}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := shouldRebuild(tt.event, files); got != tt.want {
				t.Errorf("shouldRebuild() = %v, want %v", got, tt.want)
			}
		})
	}
}
