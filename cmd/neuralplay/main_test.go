package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func runCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestConfigInitWritesSample(t *testing.T) {
	target := filepath.Join(t.TempDir(), "config.toml")
	out, err := runCommand(t, "config", "init", "--path", target)
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	if !strings.Contains(out, target) {
		t.Fatalf("output missing target path: %q", out)
	}
	data, err := os.ReadFile(target)
	if err != nil {
		t.Fatalf("read sample: %v", err)
	}
	if !strings.Contains(string(data), "[backend]") {
		t.Fatalf("sample config missing backend section")
	}
}

func TestConfigInitRefusesOverwrite(t *testing.T) {
	target := filepath.Join(t.TempDir(), "config.toml")
	if _, err := runCommand(t, "config", "init", "--path", target); err != nil {
		t.Fatalf("first init: %v", err)
	}
	if _, err := runCommand(t, "config", "init", "--path", target); err == nil {
		t.Fatal("second init should have failed without --overwrite")
	}
	if _, err := runCommand(t, "config", "init", "--path", target, "--overwrite"); err != nil {
		t.Fatalf("overwrite init: %v", err)
	}
}

func TestParseOnOff(t *testing.T) {
	if v, err := parseOnOff("on"); err != nil || !v {
		t.Fatalf("on = %v, %v", v, err)
	}
	if v, err := parseOnOff("off"); err != nil || v {
		t.Fatalf("off = %v, %v", v, err)
	}
	if _, err := parseOnOff("maybe"); err == nil {
		t.Fatal("expected error for invalid value")
	}
}

func TestParsePlaylistID(t *testing.T) {
	if id, err := parsePlaylistID("7"); err != nil || id != 7 {
		t.Fatalf("id = %d, %v", id, err)
	}
	for _, bad := range []string{"0", "-1", "abc"} {
		if _, err := parsePlaylistID(bad); err == nil {
			t.Fatalf("expected error for %q", bad)
		}
	}
}

func TestRenderTablePadsShortRows(t *testing.T) {
	out := renderTable(
		[]string{"Label", "Seen At"},
		[][]string{{"car", "0:04"}, {"person"}},
		[]columnAlignment{alignLeft, alignRight},
	)
	for _, want := range []string{"Label", "Seen At", "car", "0:04", "person"} {
		if !strings.Contains(out, want) {
			t.Fatalf("table missing %q:\n%s", want, out)
		}
	}
	if got := renderTable(nil, nil, nil); got != "" {
		t.Fatalf("empty headers rendered %q", got)
	}
}

func TestRootHelpListsCoreCommands(t *testing.T) {
	out, err := runCommand(t, "--help")
	if err != nil {
		t.Fatalf("help: %v", err)
	}
	for _, name := range []string{"open", "status", "playlist", "queue", "library", "chapters"} {
		if !strings.Contains(out, name) {
			t.Fatalf("help output missing %q:\n%s", name, out)
		}
	}
}
