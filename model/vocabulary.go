package model

import "time"

// Vocabulary is a word the user got wrong together with its corrected
// form. Rows are immutable: entries are created and deleted, never edited.
type Vocabulary struct {
	ID          uint   `gorm:"primaryKey"`
	UserID      uint   `gorm:"not null;uniqueIndex:idx_vocab_user_word_correction"`
	Word        string `gorm:"size:100;not null;uniqueIndex:idx_vocab_user_word_correction"`
	Correction  string `gorm:"size:100;not null;uniqueIndex:idx_vocab_user_word_correction"`
	Explanation string `gorm:"type:text"`
	CreatedAt   time.Time
}
