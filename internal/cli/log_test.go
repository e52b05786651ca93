package cli

import (
	"bytes"
	"context"
	"image/color"
	"io"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

func TestVerboseFlag(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want log.Level
	}{
		{"default", []string{"hittest", "1", "1"}, log.InfoLevel},
		{"short", []string{"-v", "hittest", "1", "1"}, log.DebugLevel},
		{"long after subcommand", []string{"hittest", "--verbose", "1", "1"}, log.DebugLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New(io.Discard, LogInfo)
			root := c.RootCommand()
			root.SetOut(io.Discard)
			root.SetArgs(tt.args)
			if err := root.Execute(); err != nil {
				t.Fatalf("Execute(%v) error: %v", tt.args, err)
			}
			if got := c.Logger.GetLevel(); got != tt.want {
				t.Errorf("log level after %v = %s, want %s", tt.args, got, tt.want)
			}
		})
	}
}

func TestRenderLogging(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	dir := t.TempDir()
	a := writePhoto(t, dir, "a.png", color.White)

	tests := []struct {
		name    string
		verbose bool
		want    []string
		absent  []string
	}{
		{
			name:   "info",
			want:   []string{"Rendered 4x6", "Photo Alt (", "decoded photos", "exported collage"},
			absent: []string{"rendering"},
		},
		{
			name:    "debug",
			verbose: true,
			want:    []string{"rendering", "decoded photos"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var logs bytes.Buffer
			root := New(&logs, LogInfo).RootCommand()
			args := []string{"render", "-f", "11", "--no-cache", "-o", filepath.Join(t.TempDir(), "c.png"), a}
			if tt.verbose {
				args = append([]string{"-v"}, args...)
			}
			root.SetArgs(args)
			root.SetOut(io.Discard)
			root.SetErr(io.Discard)
			if err := root.Execute(); err != nil {
				t.Fatalf("render error: %v", err)
			}

			out := logs.String()
			for _, w := range tt.want {
				if !strings.Contains(out, w) {
					t.Errorf("logs = %q, want %q", out, w)
				}
			}
			for _, w := range tt.absent {
				if strings.Contains(out, w) {
					t.Errorf("logs = %q, should not contain %q", out, w)
				}
			}
		})
	}
}

func TestLoggerFromContext(t *testing.T) {
	var buf bytes.Buffer
	custom := newLogger(&buf, LogInfo)

	if got := loggerFromContext(withLogger(context.Background(), custom)); got != custom {
		t.Error("loggerFromContext() did not return the attached logger")
	}
	if loggerFromContext(context.Background()) != log.Default() {
		t.Error("loggerFromContext() without a logger should return log.Default()")
	}

	newProgress(custom).done("Saved collage")
	if !strings.Contains(buf.String(), "Saved collage (") {
		t.Errorf("progress output = %q, want the message with its duration", buf.String())
	}
}
