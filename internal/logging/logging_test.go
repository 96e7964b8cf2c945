package logging

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func TestNewTagsComponent(t *testing.T) {
	var buf bytes.Buffer
	Init(slog.LevelDebug, FormatText, &buf)

	New("wizard").Debug("step changed", "to", "ethical")

	out := buf.String()
	for _, want := range []string{"component=wizard", "step changed", "to=ethical", "level=DEBUG"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output, got: %s", want, out)
		}
	}
}

func TestInitJSON(t *testing.T) {
	var buf bytes.Buffer
	Init(slog.LevelInfo, FormatJSON, &buf)

	New("web").Info("listening")
	New("web").Debug("hidden")

	out := buf.String()
	if !strings.Contains(out, `"component":"web"`) || !strings.Contains(out, `"level":"INFO"`) {
		t.Fatalf("unexpected json output: %s", out)
	}
	if strings.Contains(out, "hidden") {
		t.Fatalf("debug record should be filtered at info level: %s", out)
	}
}

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"":        slog.LevelInfo,
		"DEBUG":   slog.LevelDebug,
		" warn ":  slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
	}
	for raw, want := range cases {
		got, err := ParseLevel(raw)
		if err != nil || got != want {
			t.Fatalf("ParseLevel(%q)=%v,%v want %v", raw, got, err, want)
		}
	}
	if _, err := ParseLevel("loud"); err == nil {
		t.Fatal("expected error for unknown level")
	}
}
