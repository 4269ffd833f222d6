package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"orienteering-backend/internal/bundle"
	"orienteering-backend/internal/models"
	"orienteering-backend/internal/store"

	"github.com/rs/zerolog/log"
	qrcode "github.com/skip2/go-qrcode"
)

const (
	DefaultQRSize = 512
	// createRetries bounds re-allocation when a concurrent creator takes the
	// code between the probe and the insert.
	createRetries = 5
)

type QuestService struct {
	store     store.Store
	allocator *CodeAllocator
	merger    *ImportMerger
}

func NewQuestService(s store.Store, allocator *CodeAllocator, merger *ImportMerger) *QuestService {
	return &QuestService{store: s, allocator: allocator, merger: merger}
}

// CreateQuest allocates a join code (preferring requestedCode) and stores a
// new quest under it.
func (s *QuestService) CreateQuest(ctx context.Context, title, requestedCode string) (*models.Quest, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, ErrTitleRequired
	}

	candidate := requestedCode
	for i := 0; i < createRetries; i++ {
		code, err := s.allocator.Allocate(ctx, candidate)
		if err != nil {
			return nil, err
		}
		id, err := s.store.InsertQuest(ctx, title, code)
		if errors.Is(err, store.ErrDuplicateCode) {
			log.Ctx(ctx).Warn().Str("code", code).Msg("quest code taken concurrently, reallocating")
			candidate = ""
			continue
		}
		if err != nil {
			return nil, err
		}
		log.Ctx(ctx).Info().Uint("quest_id", id).Str("code", code).Msg("quest created")
		return &models.Quest{ID: id, Title: title, Code: code}, nil
	}
	return nil, fmt.Errorf("%w: code kept colliding on insert", ErrAllocationExhausted)
}

// JoinQuest finds the quest owning code. Codes are compared case-sensitively
// after trimming surrounding whitespace.
func (s *QuestService) JoinQuest(ctx context.Context, code string) (*models.Quest, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, store.ErrNotFound
	}
	quest, err := s.store.GetQuestByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	return s.store.GetQuest(ctx, quest.ID)
}

func (s *QuestService) GetQuest(ctx context.Context, id uint) (*models.Quest, error) {
	return s.store.GetQuest(ctx, id)
}

func (s *QuestService) ListQuests(ctx context.Context) ([]models.Quest, error) {
	return s.store.ListQuests(ctx)
}

func (s *QuestService) DeleteQuest(ctx context.Context, id uint) error {
	return s.store.DeleteQuest(ctx, id)
}

// AddQuestion appends one question to an existing quest.
func (s *QuestService) AddQuestion(ctx context.Context, questID uint, text, location string) (*models.Question, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrQuestionTextRequired
	}
	location, err := NormalizeLocation(location)
	if err != nil {
		return nil, err
	}
	if _, err := s.store.GetQuest(ctx, questID); err != nil {
		return nil, err
	}

	question := models.Question{QuestID: questID, QuestionText: text, Location: location}
	if err := s.store.InsertQuestion(ctx, &question); err != nil {
		return nil, err
	}
	return &question, nil
}

func (s *QuestService) ListQuestions(ctx context.Context, questID uint) ([]models.Question, error) {
	if _, err := s.store.GetQuest(ctx, questID); err != nil {
		return nil, err
	}
	return s.store.ListQuestions(ctx, questID)
}

func (s *QuestService) RecordAnswer(ctx context.Context, questionID uint, answer string) (*models.Question, error) {
	return s.store.UpdateAnswer(ctx, questionID, strings.TrimSpace(answer))
}

// ExportBundle snapshots a stored quest for transport.
func (s *QuestService) ExportBundle(ctx context.Context, questID uint) (bundle.Bundle, error) {
	quest, err := s.store.GetQuest(ctx, questID)
	if err != nil {
		return bundle.Bundle{}, err
	}
	return bundle.FromModels(*quest, quest.Questions), nil
}

// ExportQuest returns the qrexport:// payload for a stored quest.
func (s *QuestService) ExportQuest(ctx context.Context, questID uint) (string, error) {
	b, err := s.ExportBundle(ctx, questID)
	if err != nil {
		return "", err
	}
	return bundle.Encode(b)
}

// ExportQuestQR renders the export payload as a size x size PNG QR code.
func (s *QuestService) ExportQuestQR(ctx context.Context, questID uint, size int) ([]byte, error) {
	payload, err := s.ExportQuest(ctx, questID)
	if err != nil {
		return nil, err
	}
	if size <= 0 {
		size = DefaultQRSize
	}
	qr, err := qrcode.New(payload, qrcode.Medium)
	if err != nil {
		return nil, fmt.Errorf("%w: %d byte payload: %v", ErrQRTooLarge, len(payload), err)
	}
	png, err := qr.PNG(size)
	if err != nil {
		return nil, fmt.Errorf("render qr code: %w", err)
	}
	return png, nil
}

// ImportPayload decodes a transport payload and merges it into the store. A
// malformed payload never reaches the store.
func (s *QuestService) ImportPayload(ctx context.Context, payload string) (MergeResult, error) {
	b, err := bundle.Decode(payload)
	if err != nil {
		return MergeResult{}, err
	}
	return s.merger.MergeDetailed(ctx, b)
}

// NormalizeLocation validates a "lat,lon" pair and strips surrounding
// whitespace from each part. An empty location is allowed.
func NormalizeLocation(location string) (string, error) {
	location = strings.TrimSpace(location)
	if location == "" {
		return "", nil
	}
	latText, lonText, ok := strings.Cut(location, ",")
	if !ok {
		return "", ErrInvalidLocation
	}
	latText, lonText = strings.TrimSpace(latText), strings.TrimSpace(lonText)
	lat, err := strconv.ParseFloat(latText, 64)
	if err != nil || lat < -90 || lat > 90 {
		return "", ErrInvalidLocation
	}
	lon, err := strconv.ParseFloat(lonText, 64)
	if err != nil || lon < -180 || lon > 180 {
		return "", ErrInvalidLocation
	}
	return latText + "," + lonText, nil
}
