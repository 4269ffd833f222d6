package models

import "time"

type Quest struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	Title     string     `gorm:"size:255;not null" json:"title"`
	Code      string     `gorm:"size:64;not null;uniqueIndex:idx_quests_code" json:"code"`
	Questions []Question `gorm:"foreignKey:QuestID;constraint:OnDelete:CASCADE" json:"questions,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}
