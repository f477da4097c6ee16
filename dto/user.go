package dto

import "time"

// User Profile DTOs
type UpdateProfileRequest struct {
	FirstName      string `json:"first_name,omitempty" validate:"omitempty,max=50"`
	LastName       string `json:"last_name,omitempty" validate:"omitempty,max=50"`
	Email          string `json:"email,omitempty" validate:"omitempty,email"`
	TargetLanguage string `json:"target_language,omitempty" validate:"omitempty,max=10"`
	NativeLanguage string `json:"native_language,omitempty" validate:"omitempty,max=10"`
	Level          string `json:"cefr_level,omitempty" validate:"omitempty,cefr_level"`
}

func (u UpdateProfileRequest) Validate() error {
	return GetValidator().Struct(u)
}

type UserProfile struct {
	ID             uint       `json:"id"`
	FirstName      string     `json:"first_name"`
	LastName       string     `json:"last_name"`
	Email          string     `json:"email"`
	TargetLanguage string     `json:"target_language"`
	NativeLanguage string     `json:"native_language"`
	Level          string     `json:"cefr_level"`
	XP             int        `json:"xp"`
	Progress       int        `json:"progress"`
	CreatedAt      time.Time  `json:"created_at"`
	LastLoginAt    *time.Time `json:"last_login_at,omitempty"`
}

// Progress DTOs
type UserProgressResponse struct {
	UserID           uint               `json:"user_id"`
	XP               int                `json:"xp"`
	Level            int                `json:"level"`
	Progress         int                `json:"progress"`
	RecentActivities []ActivityResponse `json:"recent_activities"`
}
