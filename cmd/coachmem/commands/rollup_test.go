// ABOUTME: Tests for rollup command structure and period resolution
// ABOUTME: Verifies subcommands, flags, and week/month start derivation

package commands

import (
	"testing"
	"time"
)

func TestNewRollupCmd(t *testing.T) {
	cmd := NewRollupCmd()

	if cmd.Use != "rollup" {
		t.Errorf("Use = %q, want %q", cmd.Use, "rollup")
	}

	subs := map[string]bool{}
	for _, sub := range cmd.Commands() {
		subs[sub.Name()] = true
	}
	if !subs["weekly"] || !subs["monthly"] {
		t.Errorf("subcommands = %v, want weekly and monthly", subs)
	}

	if cmd.PersistentFlags().Lookup("user") == nil {
		t.Fatal("--user flag not found")
	}
	if cmd.PersistentFlags().Lookup("date") == nil {
		t.Fatal("--date flag not found")
	}
}

func TestResolvePeriodStart_ExplicitDate(t *testing.T) {
	original := rollupDate
	defer func() { rollupDate = original }()

	rollupDate = "2026-08-17"
	got, err := resolvePeriodStart(false)
	if err != nil {
		t.Fatalf("resolvePeriodStart() error = %v", err)
	}
	want := time.Date(2026, 8, 17, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("period start = %v, want %v", got, want)
	}
}

func TestResolvePeriodStart_InvalidDate(t *testing.T) {
	original := rollupDate
	defer func() { rollupDate = original }()

	rollupDate = "17-08-2026"
	if _, err := resolvePeriodStart(false); err == nil {
		t.Error("expected error for invalid date format")
	}
}

func TestResolvePeriodStart_DefaultWeekly(t *testing.T) {
	original := rollupDate
	defer func() { rollupDate = original }()

	rollupDate = ""
	got, err := resolvePeriodStart(false)
	if err != nil {
		t.Fatalf("resolvePeriodStart() error = %v", err)
	}
	if got.Weekday() != time.Monday {
		t.Errorf("default week start = %v, want a Monday", got.Weekday())
	}
	if !got.Before(time.Now().UTC().Add(time.Second)) {
		t.Errorf("default week start %v should not be in the future", got)
	}
}

func TestResolvePeriodStart_DefaultMonthly(t *testing.T) {
	original := rollupDate
	defer func() { rollupDate = original }()

	rollupDate = ""
	got, err := resolvePeriodStart(true)
	if err != nil {
		t.Fatalf("resolvePeriodStart() error = %v", err)
	}
	if got.Day() != 1 {
		t.Errorf("default month start day = %d, want 1", got.Day())
	}
}
