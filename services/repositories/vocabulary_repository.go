package repositories

import (
	"errors"

	"gorm.io/gorm"

	"github.com/deutschai/deutschai_api/model"
)

// VocabularyRepository handles missed-word ledger rows. Entries are
// created and deleted, never updated.
type VocabularyRepository struct {
	BaseRepository
}

func NewVocabularyRepository(db *gorm.DB) *VocabularyRepository {
	return &VocabularyRepository{
		BaseRepository: NewBaseRepository(db),
	}
}

// FindDuplicate returns the existing entry matching (word, correction)
// for this user, or nil when none exists.
func (r *VocabularyRepository) FindDuplicate(userID uint, word, correction string) (*model.Vocabulary, error) {
	var entry model.Vocabulary
	err := r.db.Where("user_id = ? AND word = ? AND correction = ?", userID, word, correction).
		First(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

func (r *VocabularyRepository) CreateEntry(tx *gorm.DB, entry *model.Vocabulary) error {
	return tx.Create(entry).Error
}

// ListEntries returns the user's entries newest first. Personal lists are
// small; the cap is a guard, not pagination.
func (r *VocabularyRepository) ListEntries(userID uint) ([]model.Vocabulary, error) {
	var entries []model.Vocabulary
	err := r.db.Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Limit(1000).
		Find(&entries).Error
	return entries, err
}

// DeleteEntry removes the entry only when it belongs to userID. The
// RowsAffected check doubles as the ownership check: a foreign id and a
// missing id are indistinguishable to the caller.
func (r *VocabularyRepository) DeleteEntry(userID, entryID uint) (bool, error) {
	res := r.db.Where("id = ? AND user_id = ?", entryID, userID).Delete(&model.Vocabulary{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
