package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/deutschai/deutschai_api/dto"
	"github.com/deutschai/deutschai_api/shared"
)

type TutorHandler struct {
	tutorSvc TutorServiceInterface
}

func NewTutorHandler(tutorSvc TutorServiceInterface) *TutorHandler {
	return &TutorHandler{
		tutorSvc: tutorSvc,
	}
}

// @Summary Chat with the tutor
// @Description Send one message and receive the tutor's reply
// @Tags tutor
// @Accept json
// @Produce json
// @Security Bearer
// @Param Authorization header string true "User Bearer Token" default(Bearer <user_token>)
// @Param chatRequest body dto.ChatRequest true "Message"
// @Success 200 {object} shared.Response{data=dto.TutorReplyResponse}
// @Failure 400 {object} shared.Response
// @Failure 502 {object} shared.Response
// @Router /api/v1/tutor/chat [post]
func (h *TutorHandler) Chat(c *fiber.Ctx) error {
	userID := c.Locals(shared.UserID).(uint)

	var req dto.ChatRequest
	if err := c.BodyParser(&req); err != nil {
		return shared.NewBadRequestError(err, "Invalid request")
	}

	resp, err := h.tutorSvc.Chat(c.Context(), userID, req)
	if err != nil {
		return err
	}

	return shared.ResponseOK(c, resp)
}

// @Summary Grade a written passage
// @Description Submit free text for structured grammar analysis
// @Tags tutor
// @Accept json
// @Produce json
// @Security Bearer
// @Param Authorization header string true "User Bearer Token" default(Bearer <user_token>)
// @Param practiceRequest body dto.PracticeRequest true "Passage to grade"
// @Success 200 {object} shared.Response{data=dto.PracticeResponse}
// @Failure 400 {object} shared.Response
// @Failure 502 {object} shared.Response
// @Router /api/v1/tutor/practice [post]
func (h *TutorHandler) Practice(c *fiber.Ctx) error {
	userID := c.Locals(shared.UserID).(uint)

	var req dto.PracticeRequest
	if err := c.BodyParser(&req); err != nil {
		return shared.NewBadRequestError(err, "Invalid request")
	}

	resp, err := h.tutorSvc.Practice(c.Context(), userID, req)
	if err != nil {
		return err
	}

	return shared.ResponseOK(c, resp)
}

// @Summary Continue a voice-style conversation
// @Description Send the running transcript and receive the next turn
// @Tags tutor
// @Accept json
// @Produce json
// @Security Bearer
// @Param Authorization header string true "User Bearer Token" default(Bearer <user_token>)
// @Param callRequest body dto.CallRequest true "Conversation transcript"
// @Success 200 {object} shared.Response{data=dto.TutorReplyResponse}
// @Failure 400 {object} shared.Response
// @Failure 502 {object} shared.Response
// @Router /api/v1/tutor/call [post]
func (h *TutorHandler) Call(c *fiber.Ctx) error {
	userID := c.Locals(shared.UserID).(uint)

	var req dto.CallRequest
	if err := c.BodyParser(&req); err != nil {
		return shared.NewBadRequestError(err, "Invalid request")
	}

	resp, err := h.tutorSvc.Call(c.Context(), userID, req)
	if err != nil {
		return err
	}

	return shared.ResponseOK(c, resp)
}
