package database

import (
	"context"
	"fmt"

	"orienteering-backend/internal/models"
	"orienteering-backend/internal/store"

	"github.com/rs/zerolog/log"
)

const (
	DemoQuestTitle = "Sample Quest"
	DemoQuestCode  = "demo"
)

var demoQuestions = []models.Question{
	{QuestionText: "What color is the flower pot?", Answer: "red", Location: "58.384785, 26.721060"},
	{QuestionText: "How many computers can you see?", Answer: "17", Location: "58.385501,26.725032"},
	{QuestionText: "What year was it built?", Answer: "2031", Location: "58.380662, 26.725357"},
	{QuestionText: "How many zebra stripes?", Answer: "11", Location: "58.377636, 26.729277"},
	{QuestionText: "Whose monument?", Answer: "Eduard Tubin", Location: "58.376659, 26.725145"},
}

// SeedDemo inserts the sample quest on first run. It is a no-op once any
// quest exists.
func SeedDemo(ctx context.Context, s store.Store) (bool, error) {
	quests, err := s.ListQuests(ctx)
	if err != nil {
		return false, fmt.Errorf("seed: %w", err)
	}
	if len(quests) > 0 {
		return false, nil
	}

	err = s.Transaction(ctx, func(tx store.Store) error {
		questID, err := tx.InsertQuest(ctx, DemoQuestTitle, DemoQuestCode)
		if err != nil {
			return err
		}
		return tx.ReplaceQuestions(ctx, questID, demoQuestions)
	})
	if err != nil {
		return false, fmt.Errorf("seed: %w", err)
	}

	log.Info().Str("code", DemoQuestCode).Int("questions", len(demoQuestions)).Msg("demo quest seeded")
	return true, nil
}
