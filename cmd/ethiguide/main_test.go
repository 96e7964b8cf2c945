package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/joelkehle/ethiguide/internal/config"
	"github.com/joelkehle/ethiguide/internal/dilemma"
)

const layoffsYAML = `title: Layoffs
description: Cut 10% of staff to stay solvent
category: Business Ethics
urgency: critical
stakeholders:
  - Employees
  - "  "
`

func TestSummarizeYAML(t *testing.T) {
	now := time.Date(2026, 2, 17, 0, 0, 0, 0, time.UTC)
	sum, err := summarize([]byte(layoffsYAML), now)
	if err != nil {
		t.Fatalf("summarize: %v", err)
	}
	if sum.Dilemma != "Layoffs" || sum.Category != dilemma.CategoryBusiness {
		t.Fatalf("unexpected summary: %+v", sum)
	}
	if sum.ImplementationSteps[0].Timeline != "Immediate" {
		t.Fatalf("critical urgency should communicate immediately, got %q", sum.ImplementationSteps[0].Timeline)
	}
}

func TestSummarizeJSON(t *testing.T) {
	raw := `{"title":"Trial data","description":"Unblinding early","category":"Research Ethics"}`
	sum, err := summarize([]byte(raw), time.Now())
	if err != nil {
		t.Fatalf("summarize: %v", err)
	}
	if sum.Category != dilemma.CategoryResearch {
		t.Fatalf("category=%q", sum.Category)
	}
}

func TestSummarizeRejectsIncompleteDilemma(t *testing.T) {
	_, err := summarize([]byte("title: only\n"), time.Now())
	if !dilemma.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestRenderFormats(t *testing.T) {
	sum, _ := summarize([]byte(layoffsYAML), time.Now())
	blob, err := render(context.Background(), sum, "json", nil)
	if err != nil {
		t.Fatalf("json: %v", err)
	}
	var decoded map[string]any
	if err := json.Unmarshal(blob, &decoded); err != nil {
		t.Fatalf("decode: %v", err)
	}
	md, err := render(context.Background(), sum, "md", nil)
	if err != nil || !strings.HasPrefix(string(md), "# Ethical Decision Summary") {
		t.Fatalf("md: %v %q", err, md)
	}
	if _, err := render(context.Background(), sum, "pdf", nil); err == nil {
		t.Fatal("expected error without pdf renderer")
	}
	if _, err := render(context.Background(), sum, "docx", nil); err == nil {
		t.Fatal("expected error for unknown format")
	}
}

func TestExportCommandWritesFile(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "dilemma.yaml")
	out := filepath.Join(dir, "summary.json")
	if err := os.WriteFile(in, []byte(layoffsYAML), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	root := newRootCmd()
	root.SetArgs([]string{"export", "-f", in, "-o", out})
	if err := root.Execute(); err != nil {
		t.Fatalf("export: %v", err)
	}
	b, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if !strings.Contains(string(b), `"dilemma": "Layoffs"`) {
		t.Fatalf("unexpected output:\n%s", b)
	}
}

func TestCategoriesCommand(t *testing.T) {
	var buf bytes.Buffer
	root := newRootCmd()
	root.SetOut(&buf)
	root.SetArgs([]string{"categories"})
	if err := root.Execute(); err != nil {
		t.Fatalf("categories: %v", err)
	}
	for _, c := range dilemma.Categories() {
		if !strings.Contains(buf.String(), string(c)) {
			t.Fatalf("missing %q in output:\n%s", c, buf.String())
		}
	}
}

func TestLoadServeConfigPrecedence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ethiguide.yaml")
	os.WriteFile(path, []byte("addr: \":9000\"\nstore: sqlite\ndb_path: /tmp/file.db\n"), 0o644)
	env := map[string]string{"DB_PATH": "/tmp/env.db", "PORT": "7000"}

	cmd := newServeCmd()
	if err := cmd.ParseFlags([]string{"--config", path, "--addr", ":6000"}); err != nil {
		t.Fatalf("parse flags: %v", err)
	}
	var f serveFlags
	f.configPath, _ = cmd.Flags().GetString("config")
	f.addr, _ = cmd.Flags().GetString("addr")

	cfg, err := loadServeConfig(cmd.Flags(), f, func(k string) string { return env[k] })
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Addr != ":6000" {
		t.Fatalf("flag should win, addr=%q", cfg.Addr)
	}
	if cfg.DBPath != "/tmp/env.db" {
		t.Fatalf("env should beat file, db=%q", cfg.DBPath)
	}
	if cfg.Store != config.StoreSQLite {
		t.Fatalf("file value lost, store=%q", cfg.Store)
	}
}

func TestLoadServeConfigRejectsInvalid(t *testing.T) {
	cmd := newServeCmd()
	if err := cmd.ParseFlags([]string{"--store", "redis"}); err != nil {
		t.Fatalf("parse flags: %v", err)
	}
	f := serveFlags{store: "redis"}
	if _, err := loadServeConfig(cmd.Flags(), f, func(string) string { return "" }); err == nil {
		t.Fatal("expected invalid store error")
	}
}
