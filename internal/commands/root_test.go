// internal/commands/root_test.go
package spaneval

import (
	"bytes"
	"strings"
	"testing"
)

// TestRootCmd verifies running the root command with an invalid subcommand reports an error.
func TestRootCmd(t *testing.T) {
	b := new(bytes.Buffer)
	rootCmd.SetOut(b)
	rootCmd.SetErr(b)

	rootCmd.SetArgs([]string{"nonexistent"})
	t.Cleanup(func() { rootCmd.SetArgs([]string{}) })
	_, err := rootCmd.ExecuteC()

	if err == nil {
		t.Error("Expected an error for a nonexistent command, but got none")
	}

	expected := "unknown command \"nonexistent\" for \"spaneval\""
	if !strings.Contains(b.String(), expected) {
		t.Errorf("Expected output to contain '%s', but got '%s'", expected, b.String())
	}
}

func TestSubcommandsRegistered(t *testing.T) {
	for _, name := range []string{"evaluate", "train", "predict", "validate", "show"} {
		cmd, _, err := rootCmd.Find([]string{name})
		if err != nil || cmd.Name() != name {
			t.Fatalf("expected subcommand %s, got %v (%v)", name, cmd, err)
		}
	}
	if cmd, _, err := rootCmd.Find([]string{"show", "config"}); err != nil || cmd.Name() != "config" {
		t.Fatalf("expected show config, got %v (%v)", cmd, err)
	}
}
