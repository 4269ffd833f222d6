package services_test

import (
	"context"
	"path/filepath"
	"testing"

	"orienteering-backend/internal/database"
	"orienteering-backend/internal/models"
	"orienteering-backend/internal/store"

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

// newFileStore opens a file-backed database with a real connection pool, so
// concurrent writers contend for the SQLite lock.
func newFileStore(t *testing.T) *store.Gorm {
	t.Helper()
	db, err := database.OpenSQLite(filepath.Join(t.TempDir(), "quests.db"))
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return store.NewGorm(db)
}

// sequence returns a deterministic randomness source cycling through values.
func sequence(values ...int) func(int) int {
	i := 0
	return func(n int) int {
		v := values[i%len(values)] % n
		i++
		return v
	}
}

// staleStore never sees existing codes, modelling a reader that raced a
// concurrent writer.
type staleStore struct {
	store.Store
}

func (s staleStore) GetQuestByCode(ctx context.Context, code string) (*models.Quest, error) {
	return nil, store.ErrNotFound
}

func (s staleStore) Transaction(ctx context.Context, fn func(tx store.Store) error) error {
	return s.Store.Transaction(ctx, func(tx store.Store) error {
		return fn(staleStore{tx})
	})
}

// failingLookupStore fails every code lookup with err.
type failingLookupStore struct {
	store.Store
	err error
}

func (s failingLookupStore) GetQuestByCode(ctx context.Context, code string) (*models.Quest, error) {
	return nil, s.err
}

func (s failingLookupStore) Transaction(ctx context.Context, fn func(tx store.Store) error) error {
	return s.Store.Transaction(ctx, func(tx store.Store) error {
		return fn(failingLookupStore{Store: tx, err: s.err})
	})
}

func seedQuest(t *testing.T, s store.Store, title, code string, questionTexts ...string) uint {
	t.Helper()
	ctx := context.Background()
	id, err := s.InsertQuest(ctx, title, code)
	require.NoError(t, err)
	rows := make([]models.Question, 0, len(questionTexts))
	for _, text := range questionTexts {
		rows = append(rows, models.Question{QuestID: id, QuestionText: text, Answer: "old", Location: "58.38,26.72"})
	}
	require.NoError(t, s.InsertQuestions(ctx, rows))
	return id
}

func failQuestionInserts(t *testing.T, db *gorm.DB, err error) {
	t.Helper()
	require.NoError(t, db.Callback().Create().Before("gorm:create").Register("test:fail_questions", func(tx *gorm.DB) {
		if tx.Statement.Table == "questions" {
			tx.AddError(err)
		}
	}))
}
