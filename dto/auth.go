package dto

// ==================== AUTHENTICATION REQUEST DTOs ====================

type RegisterRequest struct {
	FirstName       string `json:"first_name" validate:"required,max=50" example:"Anna"`
	LastName        string `json:"last_name" validate:"required,max=50" example:"Schmidt"`
	TargetLanguage  string `json:"target_language" validate:"required,max=10" example:"de"`
	NativeLanguage  string `json:"native_language" validate:"required,max=10" example:"en"`
	Level           string `json:"cefr_level" validate:"required,cefr_level" example:"B1"`
	Email           string `json:"email" validate:"required,email" example:"anna@example.com"`
	Password        string `json:"password" validate:"required,min=8" example:"SecurePass123!"`
	ConfirmPassword string `json:"confirm_password" validate:"required,eqfield=Password" example:"SecurePass123!"`
}

func (r RegisterRequest) Validate() error {
	return GetValidator().Struct(r)
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email" example:"anna@example.com"`
	Password string `json:"password" validate:"required" example:"SecurePass123!"`
}

func (l LoginRequest) Validate() error {
	return GetValidator().Struct(l)
}

// ==================== AUTHENTICATION RESPONSE DTOs ====================

type RegisterResponse struct {
	UserID  uint   `json:"user_id" example:"1"`
	Message string `json:"message" example:"Account created successfully. Please log in."`
}

type LoginResponse struct {
	AccessToken string      `json:"access_token" example:"eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9..."`
	ExpiresIn   int64       `json:"expires_in" example:"86400"`
	User        UserProfile `json:"user"`
}
