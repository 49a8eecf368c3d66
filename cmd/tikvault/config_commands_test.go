package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestConfigInitWritesSample(t *testing.T) {
	target := filepath.Join(t.TempDir(), "nested", "config.toml")

	cmd := newConfigInitCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{})
	if err := cmd.Flags().Set("path", target); err != nil {
		t.Fatalf("set path flag: %v", err)
	}
	if err := cmd.Execute(); err != nil {
		t.Fatalf("execute: %v", err)
	}

	data, err := os.ReadFile(target)
	if err != nil {
		t.Fatalf("read sample: %v", err)
	}
	if !strings.Contains(string(data), "[bluesky]") {
		t.Fatalf("sample missing bluesky section: %s", data)
	}
	if !strings.Contains(out.String(), target) {
		t.Fatalf("output = %q", out.String())
	}

	// A second init without --overwrite refuses to clobber the file.
	cmd = newConfigInitCommand()
	cmd.SetOut(new(bytes.Buffer))
	if err := cmd.Flags().Set("path", target); err != nil {
		t.Fatalf("set path flag: %v", err)
	}
	if err := cmd.Execute(); err == nil {
		t.Fatal("expected error for existing file")
	}
}

func TestSchemaCommand(t *testing.T) {
	input := filepath.Join(t.TempDir(), "facts.json")
	if err := os.WriteFile(input, []byte(`{"videos": {"1": {"createTime": 5}}}`), 0o644); err != nil {
		t.Fatalf("write input: %v", err)
	}

	cmd := newSchemaCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{input})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("execute: %v", err)
	}

	got := out.String()
	for _, want := range []string{`"$schema"`, `"object"`, `"integer"`} {
		if !strings.Contains(got, want) {
			t.Errorf("schema output missing %s:\n%s", want, got)
		}
	}
}
