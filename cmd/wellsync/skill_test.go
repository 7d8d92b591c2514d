// ABOUTME: Tests for the install-skill command.
// ABOUTME: Validates confirmation handling, directory creation, and file content.

package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestInstallSkillWritesFile(t *testing.T) {
	home := t.TempDir()
	var out bytes.Buffer

	if err := installSkill(home, strings.NewReader(""), &out, true); err != nil {
		t.Fatalf("installSkill failed: %v", err)
	}

	skillPath := filepath.Join(home, ".claude", "skills", "wellsync", "SKILL.md")
	written, err := os.ReadFile(skillPath)
	if err != nil {
		t.Fatalf("Skill file not created: %v", err)
	}

	for _, marker := range []string{"name: wellsync", "wellsync checkin add", "wellsync insights"} {
		if !strings.Contains(string(written), marker) {
			t.Errorf("Expected %q in skill file", marker)
		}
	}
	if !strings.Contains(out.String(), "Installed wellsync skill") {
		t.Errorf("Expected success message, got: %s", out.String())
	}
}

func TestInstallSkillConfirmation(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		installed bool
	}{
		{"yes", "y\n", true},
		{"full yes", "YES\n", true},
		{"no", "n\n", false},
		{"empty", "\n", false},
		{"eof", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			home := t.TempDir()
			var out bytes.Buffer

			if err := installSkill(home, strings.NewReader(tt.input), &out, false); err != nil {
				t.Fatalf("installSkill failed: %v", err)
			}

			_, err := os.Stat(filepath.Join(home, ".claude", "skills", "wellsync", "SKILL.md"))
			if got := err == nil; got != tt.installed {
				t.Errorf("installed = %v, want %v (output: %s)", got, tt.installed, out.String())
			}
		})
	}
}

func TestInstallSkillOverwriteNotice(t *testing.T) {
	home := t.TempDir()
	if err := installSkill(home, strings.NewReader(""), &bytes.Buffer{}, true); err != nil {
		t.Fatalf("first install failed: %v", err)
	}

	var out bytes.Buffer
	if err := installSkill(home, strings.NewReader(""), &out, true); err != nil {
		t.Fatalf("second install failed: %v", err)
	}
	if !strings.Contains(out.String(), "already exists") {
		t.Errorf("Expected overwrite notice, got: %s", out.String())
	}
}

func TestInstallSkillCmdSkipsApp(t *testing.T) {
	if needsApp(installSkillCmd) {
		t.Error("install-skill should not open the store")
	}
	if installSkillCmd.Flags().Lookup("yes") == nil {
		t.Error("Expected --yes flag")
	}
}
