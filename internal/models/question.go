package models

import "time"

// Question belongs to exactly one Quest. Location is "lat,lon" or empty when
// the question has no map marker.
type Question struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	QuestID      uint      `gorm:"not null;index" json:"quest_id"`
	QuestionText string    `gorm:"type:text;not null" json:"question_text"`
	Answer       string    `gorm:"type:text;not null;default:''" json:"answer"`
	Location     string    `gorm:"size:64;not null;default:''" json:"location"`
	CreatedAt    time.Time `json:"created_at"`
}
