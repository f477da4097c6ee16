package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/deutschai/deutschai_api/dto"
	"github.com/deutschai/deutschai_api/shared"
)

type VocabularyHandler struct {
	vocabSvc VocabularyServiceInterface
}

func NewVocabularyHandler(vocabSvc VocabularyServiceInterface) *VocabularyHandler {
	return &VocabularyHandler{
		vocabSvc: vocabSvc,
	}
}

// @Summary Save a missed word
// @Description Store a word the learner got wrong with its correction
// @Tags vocabulary
// @Accept json
// @Produce json
// @Security Bearer
// @Param Authorization header string true "User Bearer Token" default(Bearer <user_token>)
// @Param addRequest body dto.AddVocabularyRequest true "Word and correction"
// @Success 201 {object} shared.Response{data=dto.AddVocabularyResponse}
// @Failure 400 {object} shared.Response
// @Router /api/v1/vocabulary [post]
func (h *VocabularyHandler) Add(c *fiber.Ctx) error {
	userID := c.Locals(shared.UserID).(uint)

	var req dto.AddVocabularyRequest
	if err := c.BodyParser(&req); err != nil {
		return shared.NewBadRequestError(err, "Invalid request")
	}

	resp, err := h.vocabSvc.Add(userID, req)
	if err != nil {
		return err
	}

	// Re-adding an existing pair is a no-op, not a creation.
	if !resp.Created {
		return shared.ResponseOK(c, resp)
	}
	return shared.ResponseCreated(c, resp)
}

// @Summary List saved words
// @Description All of the account's vocabulary entries, newest first
// @Tags vocabulary
// @Accept json
// @Produce json
// @Security Bearer
// @Param Authorization header string true "User Bearer Token" default(Bearer <user_token>)
// @Success 200 {object} shared.Response{data=dto.VocabularyListResponse}
// @Router /api/v1/vocabulary [get]
func (h *VocabularyHandler) List(c *fiber.Ctx) error {
	userID := c.Locals(shared.UserID).(uint)

	resp, err := h.vocabSvc.List(userID)
	if err != nil {
		return err
	}

	return shared.ResponseOK(c, resp)
}

// @Summary Delete a saved word
// @Description Remove one of the account's own vocabulary entries
// @Tags vocabulary
// @Accept json
// @Produce json
// @Security Bearer
// @Param Authorization header string true "User Bearer Token" default(Bearer <user_token>)
// @Param id path int true "Entry ID"
// @Success 200 {object} shared.Response
// @Failure 404 {object} shared.Response
// @Router /api/v1/vocabulary/{id} [delete]
func (h *VocabularyHandler) Delete(c *fiber.Ctx) error {
	userID := c.Locals(shared.UserID).(uint)

	entryID, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil {
		return shared.NewBadRequestError(err, "Invalid entry id")
	}

	if err := h.vocabSvc.Delete(userID, uint(entryID)); err != nil {
		return err
	}

	return shared.ResponseOK(c, nil)
}
