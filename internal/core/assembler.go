// ABOUTME: Context assembler composing profile, business, goals, and history
// ABOUTME: Formats the structured context into the exact system-prompt block
package core

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/cadencehq/coachmem/internal/models"
	"github.com/cadencehq/coachmem/internal/storage/sqlite"
)

const (
	// MaxContextGoals caps the active goals included in a prompt
	MaxContextGoals = 5

	// MaxContextActionItems caps the pending action items carried in context
	MaxContextActionItems = 10

	// placeholder profile values when the profile row is missing
	placeholderName = "Unknown"
)

// Assembler builds the per-turn UserContext from live tables
type Assembler struct {
	store     *sqlite.Storage
	retriever *Retriever
	logger    *slog.Logger
}

// NewAssembler creates a new Assembler. The retriever may be nil when
// RAG is not configured; the RAG assembly path then degrades to the
// plain one.
func NewAssembler(store *sqlite.Storage, retriever *Retriever, logger *slog.Logger) *Assembler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Assembler{
		store:     store,
		retriever: retriever,
		logger:    logger,
	}
}

// AssembleUserContext gathers profile, business profile, active goals,
// pending action items, and recent verbatim history for one turn. Every optional fetch degrades
// to an empty/default value: the system always produces some context and
// never blocks coaching on incomplete profile data.
func (a *Assembler) AssembleUserContext(ctx context.Context, userID, conversationID string, historyLimit int) (*models.UserContext, error) {
	if userID == "" {
		return nil, fmt.Errorf("user id is required")
	}

	uc := &models.UserContext{
		Goals:         []models.Goal{},
		ActionItems:   []models.ActionItem{},
		RecentHistory: []models.Message{},
	}

	profile, err := a.store.Profiles().GetProfile(userID)
	if err != nil {
		a.logger.Warn("profile fetch failed, using placeholder", "user_id", userID, "error", err)
	}
	if profile != nil {
		uc.Profile = *profile
	} else {
		uc.Profile = models.Profile{UserID: userID, FullName: placeholderName}
	}

	business, err := a.store.Profiles().GetBusinessProfile(userID)
	if err != nil {
		a.logger.Warn("business profile fetch failed", "user_id", userID, "error", err)
	}
	if business != nil {
		uc.Business = *business
	} else {
		uc.Business = models.BusinessProfile{UserID: userID}
	}

	goals, err := a.store.Goals().GetActive(userID, MaxContextGoals)
	if err != nil {
		a.logger.Warn("goals fetch failed", "user_id", userID, "error", err)
	} else if goals != nil {
		uc.Goals = goals
	}

	items, err := a.store.ActionItems().GetPending(userID, MaxContextActionItems)
	if err != nil {
		a.logger.Warn("action items fetch failed", "user_id", userID, "error", err)
	} else if items != nil {
		uc.ActionItems = items
	}

	if conversationID != "" && historyLimit > 0 {
		history, err := a.store.Messages().GetRecentMessages(conversationID, historyLimit)
		if err != nil {
			a.logger.Warn("history fetch failed", "conversation_id", conversationID, "error", err)
		} else if history != nil {
			uc.RecentHistory = history
		}
	}

	return uc, nil
}

// AssembleUserContextWithRAG additionally retrieves semantically relevant
// snippets from past conversations for the current message, excluding the
// active conversation. Retrieval failure degrades to no snippets.
func (a *Assembler) AssembleUserContextWithRAG(ctx context.Context, userID, conversationID string, historyLimit int, currentMessage string, retrievalCount int) (*models.UserContext, error) {
	uc, err := a.AssembleUserContext(ctx, userID, conversationID, historyLimit)
	if err != nil {
		return nil, err
	}

	if a.retriever != nil && currentMessage != "" && retrievalCount > 0 {
		uc.RelevantHistory = a.retriever.SearchByText(ctx, userID, currentMessage, retrievalCount, conversationID)
	}

	return uc, nil
}

// FormatUserContext serializes the context into the system-prompt block.
// Section headers and numbering are part of the prompt contract: the
// BUSINESS CONTEXT and ACTIVE GOALS sections are omitted entirely when
// empty, and each business field prints only when set, in a fixed order.
func FormatUserContext(uc *models.UserContext) string {
	var sb strings.Builder

	sb.WriteString("USER PROFILE:\n")
	sb.WriteString(fmt.Sprintf("Name: %s\n", uc.Profile.FullName))
	if uc.Profile.Email != "" {
		sb.WriteString(fmt.Sprintf("Email: %s\n", uc.Profile.Email))
	}

	if !uc.Business.IsEmpty() {
		sb.WriteString("\nBUSINESS CONTEXT:\n")
		if uc.Business.Role != "" {
			sb.WriteString(fmt.Sprintf("Role: %s\n", uc.Business.Role))
		}
		if uc.Business.Industry != "" {
			sb.WriteString(fmt.Sprintf("Industry: %s\n", uc.Business.Industry))
		}
		if uc.Business.Stage != "" {
			sb.WriteString(fmt.Sprintf("Stage: %s\n", uc.Business.Stage))
		}
		if uc.Business.TeamSize > 0 {
			sb.WriteString(fmt.Sprintf("Team Size: %d\n", uc.Business.TeamSize))
		}
	}

	if len(uc.Goals) > 0 {
		sb.WriteString("\nACTIVE GOALS (Priority Order):\n")
		for i, goal := range uc.Goals {
			sb.WriteString(fmt.Sprintf("%d. %s\n", i+1, goal.Title))
			if goal.Description != "" {
				sb.WriteString(fmt.Sprintf("   Description: %s\n", goal.Description))
			}
			if goal.Category != "" {
				sb.WriteString(fmt.Sprintf("   Category: %s\n", goal.Category))
			}
			if goal.TargetDate != nil {
				sb.WriteString(fmt.Sprintf("   Target Date: %s\n", goal.TargetDate.Format("2006-01-02")))
			}
		}
	}

	if len(uc.RelevantHistory) > 0 {
		sb.WriteString("\nRELEVANT PAST CONVERSATIONS:\n")
		for _, msg := range uc.RelevantHistory {
			sb.WriteString(fmt.Sprintf("- [%.2f] %s: %s\n", msg.Similarity, msg.Role.Label(), msg.Content))
		}
	}

	return sb.String()
}
