package repositories

import (
	"gorm.io/gorm"

	"github.com/deutschai/deutschai_api/model"
)

// ActivityRepository handles the append-only activity log. There are no
// update or delete methods by design of the schema.
type ActivityRepository struct {
	BaseRepository
}

func NewActivityRepository(db *gorm.DB) *ActivityRepository {
	return &ActivityRepository{
		BaseRepository: NewBaseRepository(db),
	}
}

func (r *ActivityRepository) CreateActivity(tx *gorm.DB, activity *model.Activity) error {
	return tx.Create(activity).Error
}

func (r *ActivityRepository) GetRecentActivities(userID uint, limit int) ([]model.Activity, error) {
	var activities []model.Activity
	err := r.db.Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&activities).Error
	return activities, err
}

func (r *ActivityRepository) CountActivities(userID uint, activityType string) (int64, error) {
	var count int64
	q := r.db.Model(&model.Activity{}).Where("user_id = ?", userID)
	if activityType != "" {
		q = q.Where("type = ?", activityType)
	}
	err := q.Count(&count).Error
	return count, err
}
