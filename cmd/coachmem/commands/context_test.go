// ABOUTME: Tests for context command structure
// ABOUTME: Verifies flags and argument validation

package commands

import (
	"strings"
	"testing"
)

func TestNewContextCmd(t *testing.T) {
	cmd := NewContextCmd()

	if cmd.Use != "context <user-id>" {
		t.Errorf("Use = %q, want %q", cmd.Use, "context <user-id>")
	}

	if cmd.Args == nil {
		t.Error("Args validator should be set")
	}

	tests := []struct {
		flagName string
		defValue string
	}{
		{"conversation", ""},
		{"message", ""},
		{"history", "10"},
		{"retrieve", "5"},
	}

	for _, tt := range tests {
		flag := cmd.Flags().Lookup(tt.flagName)
		if flag == nil {
			t.Errorf("--%s flag not found", tt.flagName)
			continue
		}
		if flag.DefValue != tt.defValue {
			t.Errorf("--%s default = %q, want %q", tt.flagName, flag.DefValue, tt.defValue)
		}
	}
}

func TestContextCmd_Examples(t *testing.T) {
	cmd := NewContextCmd()

	if !strings.Contains(cmd.Long, "--message") {
		t.Error("Long description should mention --message")
	}
}
