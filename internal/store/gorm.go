package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"orienteering-backend/internal/models"

	"gorm.io/gorm"
)

const insertBatchSize = 100

type Gorm struct {
	db *gorm.DB
}

func NewGorm(db *gorm.DB) *Gorm {
	return &Gorm{db: db}
}

func (s *Gorm) conn(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx)
}

func (s *Gorm) InsertQuest(ctx context.Context, title, code string) (uint, error) {
	quest := models.Quest{Title: title, Code: code}
	if err := s.conn(ctx).Create(&quest).Error; err != nil {
		if isUniqueViolation(err) {
			return 0, ErrDuplicateCode
		}
		return 0, fmt.Errorf("insert quest: %w", err)
	}
	return quest.ID, nil
}

func (s *Gorm) UpdateQuest(ctx context.Context, id uint, title, code string) error {
	result := s.conn(ctx).Model(&models.Quest{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"title": title, "code": code})
	if result.Error != nil {
		if isUniqueViolation(result.Error) {
			return ErrDuplicateCode
		}
		return fmt.Errorf("update quest %d: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Gorm) GetQuestByCode(ctx context.Context, code string) (*models.Quest, error) {
	var quest models.Quest
	if err := s.conn(ctx).Where("code = ?", code).First(&quest).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get quest by code: %w", err)
	}
	return &quest, nil
}

func (s *Gorm) GetQuest(ctx context.Context, id uint) (*models.Quest, error) {
	var quest models.Quest
	err := s.conn(ctx).
		Preload("Questions", func(db *gorm.DB) *gorm.DB {
			return db.Order("id ASC")
		}).
		First(&quest, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get quest %d: %w", id, err)
	}
	return &quest, nil
}

func (s *Gorm) ListQuests(ctx context.Context) ([]models.Quest, error) {
	var quests []models.Quest
	if err := s.conn(ctx).Order("created_at DESC, id DESC").Find(&quests).Error; err != nil {
		return nil, fmt.Errorf("list quests: %w", err)
	}
	return quests, nil
}

func (s *Gorm) DeleteQuest(ctx context.Context, id uint) error {
	return s.conn(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("quest_id = ?", id).Delete(&models.Question{}).Error; err != nil {
			return fmt.Errorf("delete questions of quest %d: %w", id, err)
		}
		result := tx.Delete(&models.Quest{}, id)
		if result.Error != nil {
			return fmt.Errorf("delete quest %d: %w", id, result.Error)
		}
		if result.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}

func (s *Gorm) ListQuestions(ctx context.Context, questID uint) ([]models.Question, error) {
	var questions []models.Question
	if err := s.conn(ctx).Where("quest_id = ?", questID).Order("id ASC").Find(&questions).Error; err != nil {
		return nil, fmt.Errorf("list questions of quest %d: %w", questID, err)
	}
	return questions, nil
}

func (s *Gorm) InsertQuestion(ctx context.Context, question *models.Question) error {
	question.ID = 0
	if err := s.conn(ctx).Create(question).Error; err != nil {
		return fmt.Errorf("insert question: %w", err)
	}
	return nil
}

func (s *Gorm) UpdateAnswer(ctx context.Context, questionID uint, answer string) (*models.Question, error) {
	var question models.Question
	if err := s.conn(ctx).First(&question, questionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get question %d: %w", questionID, err)
	}
	if err := s.conn(ctx).Model(&question).Update("answer", answer).Error; err != nil {
		return nil, fmt.Errorf("update answer of question %d: %w", questionID, err)
	}
	question.Answer = answer
	return &question, nil
}

func (s *Gorm) DeleteQuestionsForQuest(ctx context.Context, questID uint) error {
	if err := s.conn(ctx).Where("quest_id = ?", questID).Delete(&models.Question{}).Error; err != nil {
		return fmt.Errorf("delete questions of quest %d: %w", questID, err)
	}
	return nil
}

func (s *Gorm) InsertQuestions(ctx context.Context, questions []models.Question) error {
	if len(questions) == 0 {
		return nil
	}
	rows := make([]models.Question, len(questions))
	copy(rows, questions)
	for i := range rows {
		rows[i].ID = 0
	}
	if err := s.conn(ctx).CreateInBatches(&rows, insertBatchSize).Error; err != nil {
		return fmt.Errorf("insert questions: %w", err)
	}
	return nil
}

func (s *Gorm) ReplaceQuestions(ctx context.Context, questID uint, questions []models.Question) error {
	return s.Transaction(ctx, func(tx Store) error {
		if err := tx.DeleteQuestionsForQuest(ctx, questID); err != nil {
			return err
		}
		rows := make([]models.Question, len(questions))
		for i, q := range questions {
			q.ID = 0
			q.QuestID = questID
			rows[i] = q
		}
		return tx.InsertQuestions(ctx, rows)
	})
}

// Transaction nests as a savepoint when s is already bound to a transaction.
func (s *Gorm) Transaction(ctx context.Context, fn func(tx Store) error) error {
	return s.conn(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Gorm{db: tx})
	})
}

// Ping checks the underlying connection pool.
func (s *Gorm) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint") || strings.Contains(msg, "duplicate key")
}
