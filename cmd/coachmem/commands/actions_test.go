// ABOUTME: Tests for actions command structure
// ABOUTME: Verifies flags and argument validation

package commands

import (
	"testing"
)

func TestNewActionsCmd(t *testing.T) {
	cmd := NewActionsCmd()

	if cmd.Use != "actions <conversation-id>" {
		t.Errorf("Use = %q, want %q", cmd.Use, "actions <conversation-id>")
	}

	if cmd.Args == nil {
		t.Error("Args validator should be set")
	}

	saveFlag := cmd.Flags().Lookup("save")
	if saveFlag == nil {
		t.Fatal("--save flag not found")
	}
	if saveFlag.DefValue != "false" {
		t.Errorf("--save default = %q, want %q", saveFlag.DefValue, "false")
	}
}

func TestNewBackfillCmd(t *testing.T) {
	cmd := NewBackfillCmd()

	if cmd.Use != "backfill" {
		t.Errorf("Use = %q, want %q", cmd.Use, "backfill")
	}

	limitFlag := cmd.Flags().Lookup("limit")
	if limitFlag == nil {
		t.Fatal("--limit flag not found")
	}
	if limitFlag.DefValue != "100" {
		t.Errorf("--limit default = %q, want %q", limitFlag.DefValue, "100")
	}
}

func TestNewSummarizeCmd(t *testing.T) {
	cmd := NewSummarizeCmd()

	if cmd.Use != "summarize <conversation-id>" {
		t.Errorf("Use = %q, want %q", cmd.Use, "summarize <conversation-id>")
	}

	if cmd.Args == nil {
		t.Error("Args validator should be set")
	}
}

func TestNewMCPCmd(t *testing.T) {
	cmd := NewMCPCmd()

	if cmd.Use != "mcp" {
		t.Errorf("Use = %q, want %q", cmd.Use, "mcp")
	}

	if cmd.Example == "" {
		t.Error("Example should not be empty")
	}
}
