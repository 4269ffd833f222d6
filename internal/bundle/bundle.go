// Package bundle converts a quest and its questions to and from the portable
// qrexport:// payload that is shown as a QR code and passed between devices.
//
// The payload is the base64 (standard alphabet, padded, unwrapped) encoding of
// a JSON document:
//
//	{"quest":{"id":0,"title":"...","code":"..."},
//	 "questions":[{"id":0,"questId":0,"questionText":"...","answer":"","location":""}]}
//
// wrapped as qrexport://quest?data=<base64>.
package bundle

import (
	"errors"

	"orienteering-backend/internal/models"
)

const (
	Scheme    = "qrexport"
	Host      = "quest"
	DataParam = "data"

	uriPrefix = Scheme + "://" + Host + "?" + DataParam + "="
)

// ErrMalformed is returned for every payload that cannot be decoded into a
// complete Bundle.
var ErrMalformed = errors.New("malformed bundle")

type Quest struct {
	ID    int    `json:"id"`
	Title string `json:"title"`
	Code  string `json:"code"`
}

type Question struct {
	ID           int    `json:"id"`
	QuestID      int    `json:"questId"`
	QuestionText string `json:"questionText"`
	Answer       string `json:"answer"`
	Location     string `json:"location"`
}

// Bundle is a transport-only snapshot of one quest. Decoded bundles always
// carry a non-nil Questions slice.
type Bundle struct {
	Quest     Quest      `json:"quest"`
	Questions []Question `json:"questions"`
}

// FromModels snapshots a stored quest and its questions.
func FromModels(quest models.Quest, questions []models.Question) Bundle {
	b := Bundle{
		Quest: Quest{
			ID:    int(quest.ID),
			Title: quest.Title,
			Code:  quest.Code,
		},
		Questions: make([]Question, 0, len(questions)),
	}
	for _, q := range questions {
		b.Questions = append(b.Questions, Question{
			ID:           int(q.ID),
			QuestID:      int(q.QuestID),
			QuestionText: q.QuestionText,
			Answer:       q.Answer,
			Location:     q.Location,
		})
	}
	return b
}

// QuestionModels returns the questions as unsaved rows owned by questID.
func (b Bundle) QuestionModels(questID uint) []models.Question {
	rows := make([]models.Question, 0, len(b.Questions))
	for _, q := range b.Questions {
		rows = append(rows, models.Question{
			QuestID:      questID,
			QuestionText: q.QuestionText,
			Answer:       q.Answer,
			Location:     q.Location,
		})
	}
	return rows
}
