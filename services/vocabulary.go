package services

import (
	"fmt"
	"net/http"
	"strings"

	"gorm.io/gorm"

	"github.com/alphabatem/common/context"

	"github.com/deutschai/deutschai_api/dto"
	"github.com/deutschai/deutschai_api/model"
	"github.com/deutschai/deutschai_api/shared"
)

// VocabularyService manages the per-account missed-word ledger.
type VocabularyService struct {
	context.DefaultService

	sqlSvc      *SqlService
	progressSvc *ProgressService
}

const VOCAB_SVC = "vocab_svc"

const vocabPoints = 5

func (svc VocabularyService) Id() string {
	return VOCAB_SVC
}

func (svc *VocabularyService) Configure(ctx *context.Context) error {
	return svc.DefaultService.Configure(ctx)
}

func (svc *VocabularyService) Start() error {
	svc.sqlSvc = svc.Service(SQL_SVC).(*SqlService)
	svc.progressSvc = svc.Service(PROGRESS_SVC).(*ProgressService)
	return nil
}

// Add stores a missed word. Re-adding the same (word, correction) pair
// is a success no-op: the existing entry is returned, no activity is
// logged and no points are granted. A new entry and its vocab event
// commit in one transaction.
func (svc *VocabularyService) Add(userID uint, req dto.AddVocabularyRequest) (*dto.AddVocabularyResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, shared.NewBadRequestError(err, "Validation failed").WithData(dto.CreateValidationErrorResponse(err))
	}

	word := strings.TrimSpace(req.Word)
	correction := strings.TrimSpace(req.Correction)

	existing, err := svc.sqlSvc.Vocabularies.FindDuplicate(userID, word, correction)
	if err != nil {
		return nil, svc.sqlSvc.HandleError(err)
	}
	if existing != nil {
		return &dto.AddVocabularyResponse{
			Created: false,
			Entry:   toVocabularyResponse(existing),
		}, nil
	}

	entry := &model.Vocabulary{
		UserID:      userID,
		Word:        word,
		Correction:  correction,
		Explanation: req.Explanation,
	}

	err = svc.sqlSvc.Transaction(func(tx *gorm.DB) error {
		if err := svc.sqlSvc.Vocabularies.CreateEntry(tx, entry); err != nil {
			return err
		}
		desc := fmt.Sprintf("Saved vocabulary: %s", word)
		_, err := svc.progressSvc.LogEventTx(tx, userID, shared.ActivityVocab, desc, vocabPoints)
		return err
	})
	if err != nil {
		// Two concurrent adds of the same pair race past the pre-check;
		// the unique index catches the loser, which reads back as a no-op.
		handled := svc.sqlSvc.HandleError(err)
		if appErr, ok := shared.GetAppError(handled); ok && appErr.StatusCode == http.StatusConflict {
			if existing, ferr := svc.sqlSvc.Vocabularies.FindDuplicate(userID, word, correction); ferr == nil && existing != nil {
				return &dto.AddVocabularyResponse{
					Created: false,
					Entry:   toVocabularyResponse(existing),
				}, nil
			}
		}
		return nil, handled
	}

	return &dto.AddVocabularyResponse{
		Created: true,
		Entry:   toVocabularyResponse(entry),
	}, nil
}

// List returns the account's entries newest first.
func (svc *VocabularyService) List(userID uint) (*dto.VocabularyListResponse, error) {
	entries, err := svc.sqlSvc.Vocabularies.ListEntries(userID)
	if err != nil {
		return nil, svc.sqlSvc.HandleError(err)
	}

	out := make([]dto.VocabularyResponse, 0, len(entries))
	for i := range entries {
		out = append(out, toVocabularyResponse(&entries[i]))
	}
	return &dto.VocabularyListResponse{
		Entries: out,
		Total:   len(out),
	}, nil
}

// Delete removes an entry the account owns. Foreign and missing ids
// both come back as not found.
func (svc *VocabularyService) Delete(userID, entryID uint) error {
	deleted, err := svc.sqlSvc.Vocabularies.DeleteEntry(userID, entryID)
	if err != nil {
		return svc.sqlSvc.HandleError(err)
	}
	if !deleted {
		return shared.NewNotFoundError(nil, "Vocabulary entry not found")
	}
	return nil
}

func toVocabularyResponse(entry *model.Vocabulary) dto.VocabularyResponse {
	return dto.VocabularyResponse{
		ID:          entry.ID,
		Word:        entry.Word,
		Correction:  entry.Correction,
		Explanation: entry.Explanation,
		CreatedAt:   entry.CreatedAt,
	}
}
