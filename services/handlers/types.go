package handlers

import (
	goctx "context"

	"github.com/gofiber/fiber/v2"

	"github.com/deutschai/deutschai_api/dto"
)

type AuthServiceInterface interface {
	Register(req dto.RegisterRequest) (*dto.RegisterResponse, error)
	Login(req dto.LoginRequest) (*dto.LoginResponse, error)
	RequiredAuth() fiber.Handler
}

type UserServiceInterface interface {
	GetProfile(userID uint) (*dto.UserProfile, error)
	UpdateProfile(userID uint, req dto.UpdateProfileRequest) (*dto.UserProfile, error)
	GetProgress(userID uint) (*dto.UserProgressResponse, error)
}

type ProgressServiceInterface interface {
	RecentActivities(userID uint, limit int) ([]dto.ActivityResponse, error)
}

type VocabularyServiceInterface interface {
	Add(userID uint, req dto.AddVocabularyRequest) (*dto.AddVocabularyResponse, error)
	List(userID uint) (*dto.VocabularyListResponse, error)
	Delete(userID, entryID uint) error
}

type TutorServiceInterface interface {
	Chat(ctx goctx.Context, userID uint, req dto.ChatRequest) (*dto.TutorReplyResponse, error)
	Practice(ctx goctx.Context, userID uint, req dto.PracticeRequest) (*dto.PracticeResponse, error)
	Call(ctx goctx.Context, userID uint, req dto.CallRequest) (*dto.TutorReplyResponse, error)
}
