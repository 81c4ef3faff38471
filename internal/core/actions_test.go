// ABOUTME: Tests for action item extraction and chat formatting
// ABOUTME: Verifies no-commitment sessions, date parsing, and the marker contract
package core

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/cadencehq/coachmem/internal/llm"
	"github.com/cadencehq/coachmem/internal/models"
)

func TestExtractActionItemsMissingConversation(t *testing.T) {
	store := newTestStorage(t)
	extractor := NewActionExtractor(store, &fakeChat{}, nil)

	items, err := extractor.ExtractActionItems(context.Background(), "nope")
	if err != nil {
		t.Fatalf("ExtractActionItems() error = %v", err)
	}
	if len(items) != 0 {
		t.Errorf("got %d items for missing conversation, want 0", len(items))
	}
}

func TestExtractActionItemsNoCommitments(t *testing.T) {
	store := newTestStorage(t)
	seedConversation(t, store, "conv_1", "user_1", "just venting today", "I hear you")

	chat := &fakeChat{responses: []string{"[]"}}
	extractor := NewActionExtractor(store, chat, nil)

	items, err := extractor.ExtractActionItems(context.Background(), "conv_1")
	if err != nil {
		t.Fatalf("ExtractActionItems() error = %v", err)
	}
	if len(items) != 0 {
		t.Errorf("got %d items, want 0", len(items))
	}
	if len(chat.requests) != 1 {
		t.Fatalf("got %d completions, want 1", len(chat.requests))
	}
	if chat.requests[0].JSONMode {
		t.Error("extraction expects a bare JSON array, not JSON object mode")
	}
}

func TestExtractActionItemsParsesCommitments(t *testing.T) {
	store := newTestStorage(t)
	seedConversation(t, store, "conv_1", "user_1", "I will post the job by Friday", "Good plan")

	chat := &fakeChat{responses: []string{`[
		{"task": "Post the job listing", "description": "Engineering role", "priority": "high", "due_date": "2026-09-04"},
		{"task": "Email two candidates", "priority": "medium", "due_date": null}
	]`}}
	extractor := NewActionExtractor(store, chat, nil)

	items, err := extractor.ExtractActionItems(context.Background(), "conv_1")
	if err != nil {
		t.Fatalf("ExtractActionItems() error = %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("got %d items, want 2", len(items))
	}

	first := items[0]
	if first.Task != "Post the job listing" || first.Priority != "high" {
		t.Errorf("first item = %+v", first)
	}
	if first.UserID != "user_1" || first.ConversationID != "conv_1" {
		t.Errorf("first item attribution = %s/%s", first.UserID, first.ConversationID)
	}
	if first.Status != models.ActionItemPending {
		t.Errorf("status = %q, want pending", first.Status)
	}
	if first.DueDate == nil || !first.DueDate.Equal(time.Date(2026, 9, 4, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("due date = %v, want 2026-09-04", first.DueDate)
	}
	if items[1].DueDate != nil {
		t.Errorf("second item due date = %v, want nil", items[1].DueDate)
	}
}

func TestExtractActionItemsMalformedResponse(t *testing.T) {
	store := newTestStorage(t)
	seedConversation(t, store, "conv_1", "user_1", "hello", "hi")

	chat := &fakeChat{responses: []string{"Sure! Here are the action items:"}}
	extractor := NewActionExtractor(store, chat, nil)

	_, err := extractor.ExtractActionItems(context.Background(), "conv_1")
	var parseErr *llm.ParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("error = %v, want *llm.ParseError", err)
	}
}

func TestExtractActionItemsAsyncPersists(t *testing.T) {
	store := newTestStorage(t)
	seedConversation(t, store, "conv_1", "user_1", "I will call the lawyer", "Noted")

	chat := &fakeChat{responses: []string{`[{"task": "Call the lawyer", "priority": "high"}]`}}
	extractor := NewActionExtractor(store, chat, nil)

	extractor.ExtractActionItemsAsync(context.Background(), "conv_1")
	extractor.Wait()

	pending, err := store.ActionItems().GetPending("user_1", 10)
	if err != nil {
		t.Fatalf("GetPending() error = %v", err)
	}
	if len(pending) != 1 || pending[0].Task != "Call the lawyer" {
		t.Errorf("pending = %+v, want the extracted task", pending)
	}
}

func TestFormatActionItemsForChat(t *testing.T) {
	if got := FormatActionItemsForChat(nil); got != "" {
		t.Errorf("FormatActionItemsForChat(nil) = %q, want empty", got)
	}

	due := time.Date(2026, 9, 4, 0, 0, 0, 0, time.UTC)
	got := FormatActionItemsForChat([]models.ActionItem{
		{Task: "Post the job listing", DueDate: &due},
		{Task: "Email two candidates"},
	})
	want := "📋 Action items from this session:\n" +
		"1. Post the job listing (due 2026-09-04)\n" +
		"2. Email two candidates\n"
	if got != want {
		t.Errorf("FormatActionItemsForChat() =\n%q\nwant\n%q", got, want)
	}
	if !HasCommitmentMarker(got) {
		t.Error("formatted block should carry the commitment marker")
	}
	if HasCommitmentMarker("plain chat message") {
		t.Error("plain message should not carry the marker")
	}
}
