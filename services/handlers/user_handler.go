package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/deutschai/deutschai_api/dto"
	"github.com/deutschai/deutschai_api/shared"
)

type UserHandler struct {
	userSvc     UserServiceInterface
	progressSvc ProgressServiceInterface
}

func NewUserHandler(userSvc UserServiceInterface, progressSvc ProgressServiceInterface) *UserHandler {
	return &UserHandler{
		userSvc:     userSvc,
		progressSvc: progressSvc,
	}
}

// @Summary Get user profile
// @Description Get the authenticated account's profile
// @Tags user
// @Accept json
// @Produce json
// @Security Bearer
// @Param Authorization header string true "User Bearer Token" default(Bearer <user_token>)
// @Success 200 {object} shared.Response{data=dto.UserProfile}
// @Router /api/v1/user/profile [get]
func (h *UserHandler) GetProfile(c *fiber.Ctx) error {
	userID := c.Locals(shared.UserID).(uint)

	profile, err := h.userSvc.GetProfile(userID)
	if err != nil {
		return err
	}

	return shared.ResponseOK(c, profile)
}

// @Summary Update user profile
// @Description Partially update the authenticated account's profile
// @Tags user
// @Accept json
// @Produce json
// @Security Bearer
// @Param Authorization header string true "User Bearer Token" default(Bearer <user_token>)
// @Param updateRequest body dto.UpdateProfileRequest true "Fields to update"
// @Success 200 {object} shared.Response{data=dto.UserProfile}
// @Failure 409 {object} shared.Response
// @Router /api/v1/user/profile [put]
func (h *UserHandler) UpdateProfile(c *fiber.Ctx) error {
	userID := c.Locals(shared.UserID).(uint)

	var req dto.UpdateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return shared.NewBadRequestError(err, "Invalid request")
	}

	profile, err := h.userSvc.UpdateProfile(userID, req)
	if err != nil {
		return err
	}

	return shared.ResponseOK(c, profile)
}

// @Summary Get progression snapshot
// @Description XP, level, progress percentage and recent activity
// @Tags user
// @Accept json
// @Produce json
// @Security Bearer
// @Param Authorization header string true "User Bearer Token" default(Bearer <user_token>)
// @Success 200 {object} shared.Response{data=dto.UserProgressResponse}
// @Router /api/v1/user/progress [get]
func (h *UserHandler) GetProgress(c *fiber.Ctx) error {
	userID := c.Locals(shared.UserID).(uint)

	progress, err := h.userSvc.GetProgress(userID)
	if err != nil {
		return err
	}

	return shared.ResponseOK(c, progress)
}

// @Summary Recent activity events
// @Description Most recent activity events, newest first
// @Tags user
// @Accept json
// @Produce json
// @Security Bearer
// @Param Authorization header string true "User Bearer Token" default(Bearer <user_token>)
// @Param limit query int false "Number of events (default 5, max 50)"
// @Success 200 {object} shared.Response{data=[]dto.ActivityResponse}
// @Router /api/v1/activity/recent [get]
func (h *UserHandler) GetRecentActivity(c *fiber.Ctx) error {
	userID := c.Locals(shared.UserID).(uint)

	limit := 0
	if v := c.Query("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return shared.NewBadRequestError(err, "Invalid limit")
		}
		limit = n
	}

	activities, err := h.progressSvc.RecentActivities(userID, limit)
	if err != nil {
		return err
	}

	return shared.ResponseOK(c, activities)
}
