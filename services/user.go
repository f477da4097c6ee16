package services

import (
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/alphabatem/common/context"

	"github.com/deutschai/deutschai_api/dto"
	"github.com/deutschai/deutschai_api/model"
	"github.com/deutschai/deutschai_api/shared"
)

// UserService exposes profile reads and partial profile updates.
type UserService struct {
	context.DefaultService

	sqlSvc      *SqlService
	progressSvc *ProgressService
}

const USER_SVC = "user_svc"

func (svc UserService) Id() string {
	return USER_SVC
}

func (svc *UserService) Configure(ctx *context.Context) error {
	return svc.DefaultService.Configure(ctx)
}

func (svc *UserService) Start() error {
	svc.sqlSvc = svc.Service(SQL_SVC).(*SqlService)
	svc.progressSvc = svc.Service(PROGRESS_SVC).(*ProgressService)
	return nil
}

func (svc *UserService) GetProfile(userID uint) (*dto.UserProfile, error) {
	user, err := svc.sqlSvc.Users.GetUser(userID)
	if err != nil {
		return nil, svc.sqlSvc.HandleError(err)
	}

	profile := toUserProfile(user)
	return &profile, nil
}

// UpdateProfile applies only the fields present in the request. Absent
// fields keep their stored values.
func (svc *UserService) UpdateProfile(userID uint, req dto.UpdateProfileRequest) (*dto.UserProfile, error) {
	if err := req.Validate(); err != nil {
		return nil, shared.NewBadRequestError(err, "Validation failed").WithData(dto.CreateValidationErrorResponse(err))
	}

	updates := map[string]interface{}{}
	if req.FirstName != "" {
		updates["first_name"] = req.FirstName
	}
	if req.LastName != "" {
		updates["last_name"] = req.LastName
	}
	if req.TargetLanguage != "" {
		updates["target_language"] = req.TargetLanguage
	}
	if req.NativeLanguage != "" {
		updates["native_language"] = req.NativeLanguage
	}
	if req.Level != "" {
		updates["level"] = req.Level
	}
	if req.Email != "" {
		email := strings.ToLower(strings.TrimSpace(req.Email))
		taken, err := svc.sqlSvc.Users.IsEmailTaken(email, userID)
		if err != nil {
			return nil, svc.sqlSvc.HandleError(err)
		}
		if taken {
			return nil, shared.NewConflictError(nil, "Email is already registered")
		}
		updates["email"] = email
	}

	if len(updates) > 0 {
		if err := svc.sqlSvc.Users.UpdateUserFields(userID, updates); err != nil {
			return nil, svc.sqlSvc.HandleError(err)
		}
		log.WithField("user_id", userID).Info("Profile updated")
	}

	return svc.GetProfile(userID)
}

// GetProgress returns the progression snapshot plus the most recent
// activity events.
func (svc *UserService) GetProgress(userID uint) (*dto.UserProgressResponse, error) {
	user, err := svc.sqlSvc.Users.GetUser(userID)
	if err != nil {
		return nil, svc.sqlSvc.HandleError(err)
	}

	recent, err := svc.progressSvc.RecentActivities(userID, 0)
	if err != nil {
		return nil, err
	}

	return &dto.UserProgressResponse{
		UserID:           user.ID,
		XP:               user.XP,
		Level:            LevelForXP(user.XP),
		Progress:         user.Progress,
		RecentActivities: recent,
	}, nil
}

func toUserProfile(user *model.User) dto.UserProfile {
	return dto.UserProfile{
		ID:             user.ID,
		FirstName:      user.FirstName,
		LastName:       user.LastName,
		Email:          user.Email,
		TargetLanguage: user.TargetLanguage,
		NativeLanguage: user.NativeLanguage,
		Level:          user.Level,
		XP:             user.XP,
		Progress:       user.Progress,
		CreatedAt:      user.CreatedAt,
		LastLoginAt:    user.LastLoginAt,
	}
}
