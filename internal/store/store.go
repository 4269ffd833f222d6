// Package store defines the persistence contract used by the quest services
// and its gorm-backed implementation.
package store

import (
	"context"
	"errors"

	"orienteering-backend/internal/models"
)

var (
	ErrNotFound      = errors.New("not found")
	ErrDuplicateCode = errors.New("quest code already in use")
)

// Store is the relational quest/question store. Every call made on the tx
// handed to Transaction commits or rolls back as one unit.
type Store interface {
	InsertQuest(ctx context.Context, title, code string) (uint, error)
	UpdateQuest(ctx context.Context, id uint, title, code string) error
	// GetQuestByCode returns ErrNotFound when no quest owns code.
	GetQuestByCode(ctx context.Context, code string) (*models.Quest, error)
	// GetQuest returns the quest with its questions ordered by id.
	GetQuest(ctx context.Context, id uint) (*models.Quest, error)
	ListQuests(ctx context.Context) ([]models.Quest, error)
	DeleteQuest(ctx context.Context, id uint) error

	ListQuestions(ctx context.Context, questID uint) ([]models.Question, error)
	InsertQuestion(ctx context.Context, question *models.Question) error
	UpdateAnswer(ctx context.Context, questionID uint, answer string) (*models.Question, error)
	DeleteQuestionsForQuest(ctx context.Context, questID uint) error
	InsertQuestions(ctx context.Context, questions []models.Question) error
	// ReplaceQuestions atomically swaps the full question set of questID.
	ReplaceQuestions(ctx context.Context, questID uint, questions []models.Question) error

	Transaction(ctx context.Context, fn func(tx Store) error) error
}
