package store_test

import (
	"context"
	"errors"
	"testing"

	"orienteering-backend/internal/database"
	"orienteering-backend/internal/models"
	"orienteering-backend/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestStore(t *testing.T) (*store.Gorm, *gorm.DB) {
	t.Helper()
	db, err := database.OpenMemory()
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return store.NewGorm(db), db
}

func TestGormQuestLifecycle(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)

	id, err := s.InsertQuest(ctx, "Old town", "ABC12")
	require.NoError(t, err)
	assert.NotZero(t, id)

	got, err := s.GetQuestByCode(ctx, "ABC12")
	require.NoError(t, err)
	assert.Equal(t, id, got.ID)
	assert.Equal(t, "Old town", got.Title)

	_, err = s.GetQuestByCode(ctx, "abc12")
	assert.ErrorIs(t, err, store.ErrNotFound, "codes are case-sensitive")

	require.NoError(t, s.UpdateQuest(ctx, id, "New town", "XYZ99"))
	got, err = s.GetQuest(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "New town", got.Title)
	assert.Equal(t, "XYZ99", got.Code)

	assert.ErrorIs(t, s.UpdateQuest(ctx, id+100, "x", "y"), store.ErrNotFound)

	require.NoError(t, s.DeleteQuest(ctx, id))
	_, err = s.GetQuest(ctx, id)
	assert.ErrorIs(t, err, store.ErrNotFound)
	assert.ErrorIs(t, s.DeleteQuest(ctx, id), store.ErrNotFound)
}

func TestGormDuplicateCode(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)

	first, err := s.InsertQuest(ctx, "One", "SAME1")
	require.NoError(t, err)

	_, err = s.InsertQuest(ctx, "Two", "SAME1")
	assert.ErrorIs(t, err, store.ErrDuplicateCode)

	second, err := s.InsertQuest(ctx, "Two", "OTHER")
	require.NoError(t, err)
	assert.ErrorIs(t, s.UpdateQuest(ctx, second, "Two", "SAME1"), store.ErrDuplicateCode)

	got, err := s.GetQuestByCode(ctx, "SAME1")
	require.NoError(t, err)
	assert.Equal(t, first, got.ID)
}

func TestGormQuestions(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)

	questID, err := s.InsertQuest(ctx, "Park", "PARK1")
	require.NoError(t, err)

	q := models.Question{ID: 42, QuestID: questID, QuestionText: "Statue?", Location: "58.38,26.72"}
	require.NoError(t, s.InsertQuestion(ctx, &q))
	assert.NotZero(t, q.ID)
	assert.NotEqual(t, uint(42), q.ID)

	updated, err := s.UpdateAnswer(ctx, q.ID, "Tubin")
	require.NoError(t, err)
	assert.Equal(t, "Tubin", updated.Answer)

	_, err = s.UpdateAnswer(ctx, q.ID+100, "nope")
	assert.ErrorIs(t, err, store.ErrNotFound)

	require.NoError(t, s.InsertQuestions(ctx, []models.Question{
		{QuestID: questID, QuestionText: "Bench count?"},
		{QuestID: questID, QuestionText: "Fountain color?"},
	}))

	questions, err := s.ListQuestions(ctx, questID)
	require.NoError(t, err)
	require.Len(t, questions, 3)
	assert.Equal(t, "Statue?", questions[0].QuestionText)
	assert.Equal(t, "Tubin", questions[0].Answer)

	require.NoError(t, s.DeleteQuestionsForQuest(ctx, questID))
	questions, err = s.ListQuestions(ctx, questID)
	require.NoError(t, err)
	assert.Empty(t, questions)
}

func TestGormReplaceQuestions(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)

	questID, err := s.InsertQuest(ctx, "Campus", "CAMP1")
	require.NoError(t, err)
	otherID, err := s.InsertQuest(ctx, "Other", "OTHR1")
	require.NoError(t, err)

	require.NoError(t, s.InsertQuestions(ctx, []models.Question{
		{QuestID: questID, QuestionText: "old 1"},
		{QuestID: questID, QuestionText: "old 2"},
		{QuestID: otherID, QuestionText: "untouched"},
	}))

	incoming := []models.Question{
		{ID: 7, QuestID: 999, QuestionText: "new 1", Answer: "a", Location: "1,2"},
	}
	require.NoError(t, s.ReplaceQuestions(ctx, questID, incoming))
	assert.Equal(t, uint(7), incoming[0].ID, "caller slice is not mutated")

	questions, err := s.ListQuestions(ctx, questID)
	require.NoError(t, err)
	require.Len(t, questions, 1)
	assert.Equal(t, "new 1", questions[0].QuestionText)
	assert.Equal(t, questID, questions[0].QuestID)
	assert.NotEqual(t, uint(7), questions[0].ID)

	others, err := s.ListQuestions(ctx, otherID)
	require.NoError(t, err)
	assert.Len(t, others, 1)
}

func TestGormReplaceQuestionsRollsBack(t *testing.T) {
	ctx := context.Background()
	s, db := newTestStore(t)

	questID, err := s.InsertQuest(ctx, "Campus", "CAMP1")
	require.NoError(t, err)
	require.NoError(t, s.InsertQuestions(ctx, []models.Question{
		{QuestID: questID, QuestionText: "old 1"},
		{QuestID: questID, QuestionText: "old 2"},
	}))

	boom := errors.New("disk full")
	require.NoError(t, db.Callback().Create().Before("gorm:create").Register("test:fail_questions", func(tx *gorm.DB) {
		if tx.Statement.Table == "questions" {
			tx.AddError(boom)
		}
	}))

	err = s.ReplaceQuestions(ctx, questID, []models.Question{{QuestionText: "new"}})
	assert.ErrorIs(t, err, boom)

	questions, err := s.ListQuestions(ctx, questID)
	require.NoError(t, err)
	require.Len(t, questions, 2, "old set survives a failed replacement")
	assert.Equal(t, "old 1", questions[0].QuestionText)
}

func TestGormTransactionRollback(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)

	sentinel := errors.New("abort")
	err := s.Transaction(ctx, func(tx store.Store) error {
		if _, err := tx.InsertQuest(ctx, "Ghost", "GHST1"); err != nil {
			return err
		}
		return sentinel
	})
	assert.ErrorIs(t, err, sentinel)

	_, err = s.GetQuestByCode(ctx, "GHST1")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestGormListQuestsAndPing(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)

	require.NoError(t, s.Ping(ctx))

	quests, err := s.ListQuests(ctx)
	require.NoError(t, err)
	assert.Empty(t, quests)

	_, err = s.InsertQuest(ctx, "A", "AAAAA")
	require.NoError(t, err)
	_, err = s.InsertQuest(ctx, "B", "BBBBB")
	require.NoError(t, err)

	quests, err = s.ListQuests(ctx)
	require.NoError(t, err)
	assert.Len(t, quests, 2)
}
