package services

import (
	"gorm.io/gorm"

	log "github.com/sirupsen/logrus"

	"github.com/alphabatem/common/context"

	"github.com/deutschai/deutschai_api/dto"
	"github.com/deutschai/deutschai_api/model"
)

// ProgressService is the only writer of XP and derived progress. Every
// point grant flows through LogEvent or LogEventTx so the activity row
// and the XP update always land together.
type ProgressService struct {
	context.DefaultService

	sqlSvc        *SqlService
	monitoringSvc *MonitoringService
}

const PROGRESS_SVC = "progress_svc"

const (
	xpPerLevel         = 1000
	defaultRecentLimit = 5
	maxRecentLimit     = 50
)

func (svc ProgressService) Id() string {
	return PROGRESS_SVC
}

func (svc *ProgressService) Configure(ctx *context.Context) error {
	return svc.DefaultService.Configure(ctx)
}

func (svc *ProgressService) Start() error {
	svc.sqlSvc = svc.Service(SQL_SVC).(*SqlService)
	svc.monitoringSvc = svc.Service(MONITORING_SVC).(*MonitoringService)
	return nil
}

// LevelForXP maps total XP to a whole level.
func LevelForXP(xp int) int {
	if xp < 0 {
		return 0
	}
	return xp / xpPerLevel
}

// ProgressForXP maps total XP to percent progress within the current
// level. 1000 XP within a level would be 100, so the value resets to 0
// the moment a level is crossed.
func ProgressForXP(xp int) int {
	if xp < 0 {
		return 0
	}
	progress := (xp % xpPerLevel) / 10
	if progress > 100 {
		progress = 100
	}
	return progress
}

func clampPoints(points int) int {
	if points < 0 {
		return 0
	}
	if points > 100 {
		return 100
	}
	return points
}

// LogEvent records an activity event and grants its points in a single
// transaction.
func (svc *ProgressService) LogEvent(userID uint, activityType, description string, points int) (*model.Activity, error) {
	var activity *model.Activity
	err := svc.sqlSvc.Transaction(func(tx *gorm.DB) error {
		var err error
		activity, err = svc.LogEventTx(tx, userID, activityType, description, points)
		return err
	})
	if err != nil {
		return nil, svc.sqlSvc.HandleError(err)
	}
	return activity, nil
}

// LogEventTx is LogEvent inside a caller-owned transaction, for flows
// that must commit the event together with other writes. The user row
// is locked so concurrent grants for the same account serialize.
func (svc *ProgressService) LogEventTx(tx *gorm.DB, userID uint, activityType, description string, points int) (*model.Activity, error) {
	points = clampPoints(points)

	user, err := svc.sqlSvc.Users.GetUserForUpdate(tx, userID)
	if err != nil {
		return nil, err
	}

	activity := &model.Activity{
		UserID:      userID,
		Type:        activityType,
		Description: description,
		Points:      points,
	}
	if err := svc.sqlSvc.Activities.CreateActivity(tx, activity); err != nil {
		return nil, err
	}

	newXP := user.XP + points
	err = tx.Model(&model.User{}).Where("id = ?", userID).Updates(map[string]interface{}{
		"xp":       newXP,
		"progress": ProgressForXP(newXP),
	}).Error
	if err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"user_id": userID,
		"type":    activityType,
		"points":  points,
		"xp":      newXP,
	}).Info("Activity logged")

	if svc.monitoringSvc != nil {
		svc.monitoringSvc.RecordXPGranted(activityType, points)
	}

	return activity, nil
}

// RecentActivities returns the newest events first. limit <= 0 falls
// back to the default; anything above the cap is cut to the cap.
func (svc *ProgressService) RecentActivities(userID uint, limit int) ([]dto.ActivityResponse, error) {
	if limit <= 0 {
		limit = defaultRecentLimit
	}
	if limit > maxRecentLimit {
		limit = maxRecentLimit
	}

	activities, err := svc.sqlSvc.Activities.GetRecentActivities(userID, limit)
	if err != nil {
		return nil, svc.sqlSvc.HandleError(err)
	}

	out := make([]dto.ActivityResponse, 0, len(activities))
	for _, a := range activities {
		out = append(out, dto.ActivityResponse{
			ID:          a.ID,
			Type:        a.Type,
			Description: a.Description,
			Points:      a.Points,
			CreatedAt:   a.CreatedAt,
		})
	}
	return out, nil
}
