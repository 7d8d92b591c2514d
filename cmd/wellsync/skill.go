// ABOUTME: Install Claude Code skill for wellsync.
// ABOUTME: Embeds and installs the skill definition to ~/.claude/skills/.
package main

import (
	"bufio"
	"embed"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

//go:embed skill/SKILL.md
var skillFS embed.FS

var skillSkipConfirm bool

var installSkillCmd = &cobra.Command{
	Use:   "install-skill",
	Short: "Install Claude Code skill",
	Long: `Install the wellsync skill for Claude Code.

This copies the skill definition to ~/.claude/skills/wellsync/
so Claude Code can log check-ins and read insights contextually.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("failed to get home directory: %w", err)
		}
		return installSkill(home, os.Stdin, os.Stdout, skillSkipConfirm)
	},
}

// installSkill writes the embedded skill under home, asking on in unless skipConfirm.
func installSkill(home string, in io.Reader, out io.Writer, skipConfirm bool) error {
	skillDir := filepath.Join(home, ".claude", "skills", "wellsync")
	skillPath := filepath.Join(skillDir, "SKILL.md")

	fmt.Fprintln(out, "This will install the wellsync skill, enabling Claude Code to:")
	fmt.Fprintln(out)
	fmt.Fprintln(out, "  • Log daily check-ins, workouts, and meals")
	fmt.Fprintln(out, "  • Report readiness and recommended intensity")
	fmt.Fprintln(out, "  • Summarize trends and correlations")
	fmt.Fprintln(out)
	fmt.Fprintf(out, "Destination:\n  %s\n\n", skillPath)

	if _, err := os.Stat(skillPath); err == nil {
		fmt.Fprintln(out, "Note: A skill file already exists and will be overwritten.")
		fmt.Fprintln(out)
	}

	if !skipConfirm {
		fmt.Fprint(out, "Install the wellsync skill? [y/N] ")
		response, err := bufio.NewReader(in).ReadString('\n')
		if err != nil && err != io.EOF {
			return fmt.Errorf("failed to read response: %w", err)
		}
		response = strings.TrimSpace(strings.ToLower(response))
		if response != "y" && response != "yes" {
			fmt.Fprintln(out, "Installation canceled.")
			return nil
		}
		fmt.Fprintln(out)
	}

	content, err := skillFS.ReadFile("skill/SKILL.md")
	if err != nil {
		return fmt.Errorf("failed to read embedded skill: %w", err)
	}
	if err := os.MkdirAll(skillDir, 0750); err != nil {
		return fmt.Errorf("failed to create skill directory: %w", err)
	}
	if err := os.WriteFile(skillPath, content, 0600); err != nil {
		return fmt.Errorf("failed to write skill file: %w", err)
	}

	fmt.Fprintln(out, color.GreenString("✓ Installed wellsync skill"))
	fmt.Fprintln(out, "Try asking Claude: \"Log last night's sleep\" or \"How ready am I to train today?\"")
	return nil
}

func init() {
	installSkillCmd.Flags().BoolVarP(&skillSkipConfirm, "yes", "y", false, "Skip confirmation prompt")
	rootCmd.AddCommand(installSkillCmd)
}
