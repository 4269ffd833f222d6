package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"orienteering-backend/internal/bundle"
	"orienteering-backend/internal/store"

	"github.com/rs/zerolog/log"
)

type ImportMerger struct {
	store store.Store
}

func NewImportMerger(s store.Store) *ImportMerger {
	return &ImportMerger{store: s}
}

type MergeResult struct {
	QuestID       uint   `json:"quest_id"`
	Code          string `json:"code"`
	Created       bool   `json:"created"`
	QuestionCount int    `json:"question_count"`
}

// Merge applies b and returns its code.
func (m *ImportMerger) Merge(ctx context.Context, b bundle.Bundle) (string, error) {
	result, err := m.MergeDetailed(ctx, b)
	if err != nil {
		return "", err
	}
	return result.Code, nil
}

// MergeDetailed creates the quest named by b.Quest.Code or overwrites the one
// that already owns it, then replaces its whole question set. Incoming ids are
// ignored and the code is keyed with surrounding whitespace removed, the same
// way JoinQuest looks it up. Either every change commits or none does.
func (m *ImportMerger) MergeDetailed(ctx context.Context, b bundle.Bundle) (MergeResult, error) {
	code := strings.TrimSpace(b.Quest.Code)
	if code == "" {
		return MergeResult{}, fmt.Errorf("%w: %w", ErrImportFailed, bundle.ErrMalformed)
	}
	result := MergeResult{Code: code, QuestionCount: len(b.Questions)}

	err := m.store.Transaction(ctx, func(tx store.Store) error {
		existing, err := tx.GetQuestByCode(ctx, code)
		switch {
		case errors.Is(err, store.ErrNotFound):
			id, err := tx.InsertQuest(ctx, b.Quest.Title, code)
			if err != nil {
				return err
			}
			result.QuestID = id
			result.Created = true
		case err != nil:
			return err
		default:
			if err := tx.UpdateQuest(ctx, existing.ID, b.Quest.Title, code); err != nil {
				return err
			}
			result.QuestID = existing.ID
		}

		return tx.ReplaceQuestions(ctx, result.QuestID, b.QuestionModels(result.QuestID))
	})
	if err != nil {
		return MergeResult{}, fmt.Errorf("%w: %w", ErrImportFailed, err)
	}

	log.Ctx(ctx).Info().
		Uint("quest_id", result.QuestID).
		Str("code", result.Code).
		Bool("created", result.Created).
		Int("questions", result.QuestionCount).
		Msg("quest imported")
	return result, nil
}
