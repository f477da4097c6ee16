package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deutschai/deutschai_api/dto"
	"github.com/deutschai/deutschai_api/model"
	"github.com/deutschai/deutschai_api/shared"
)

func newTestVocabularyService(sqlSvc *SqlService) *VocabularyService {
	return &VocabularyService{
		sqlSvc:      sqlSvc,
		progressSvc: newTestProgressService(sqlSvc),
	}
}

func TestAddCreatesEntryAndGrantsXP(t *testing.T) {
	sqlSvc := newTestSqlService(t)
	vocabSvc := newTestVocabularyService(sqlSvc)
	user := createTestUser(t, sqlSvc, "vocab@example.com")

	resp, err := vocabSvc.Add(user.ID, dto.AddVocabularyRequest{
		Word:        "gegangt",
		Correction:  "gegangen",
		Explanation: "Irregular past participle",
	})
	require.NoError(t, err)
	assert.True(t, resp.Created)
	assert.Equal(t, "gegangt", resp.Entry.Word)

	xp, _ := userXP(t, sqlSvc, user.ID)
	assert.Equal(t, 5, xp)

	count, err := sqlSvc.Activities.CountActivities(user.ID, shared.ActivityVocab)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestAddDuplicateIsNoOp(t *testing.T) {
	sqlSvc := newTestSqlService(t)
	vocabSvc := newTestVocabularyService(sqlSvc)
	user := createTestUser(t, sqlSvc, "dup@example.com")

	req := dto.AddVocabularyRequest{Word: "gegangt", Correction: "gegangen"}

	first, err := vocabSvc.Add(user.ID, req)
	require.NoError(t, err)
	require.True(t, first.Created)

	second, err := vocabSvc.Add(user.ID, req)
	require.NoError(t, err)
	assert.False(t, second.Created)
	assert.Equal(t, first.Entry.ID, second.Entry.ID)

	list, err := vocabSvc.List(user.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, list.Total)

	// Only the first call earned points.
	xp, _ := userXP(t, sqlSvc, user.ID)
	assert.Equal(t, 5, xp)

	count, err := sqlSvc.Activities.CountActivities(user.ID, shared.ActivityVocab)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestAddRejectsMissingFields(t *testing.T) {
	sqlSvc := newTestSqlService(t)
	vocabSvc := newTestVocabularyService(sqlSvc)
	user := createTestUser(t, sqlSvc, "missing@example.com")

	_, err := vocabSvc.Add(user.ID, dto.AddVocabularyRequest{Word: "gegangt"})
	require.Error(t, err)

	appErr, ok := shared.GetAppError(err)
	require.True(t, ok)
	assert.Equal(t, 400, appErr.StatusCode)

	xp, _ := userXP(t, sqlSvc, user.ID)
	assert.Equal(t, 0, xp)
}

func TestAddRollsBackWhenEventCannotBeLogged(t *testing.T) {
	sqlSvc := newTestSqlService(t)
	vocabSvc := newTestVocabularyService(sqlSvc)
	user := createTestUser(t, sqlSvc, "rollback@example.com")

	// Make the activity insert inside the transaction fail; the entry
	// insert that already succeeded in the same transaction must roll
	// back with it.
	require.NoError(t, sqlSvc.Db().Migrator().DropTable(&model.Activity{}))

	_, err := vocabSvc.Add(user.ID, dto.AddVocabularyRequest{Word: "gegangt", Correction: "gegangen"})
	require.Error(t, err)

	appErr, ok := shared.GetAppError(err)
	require.True(t, ok)
	assert.Equal(t, 500, appErr.StatusCode)

	xp, progress := userXP(t, sqlSvc, user.ID)
	assert.Equal(t, 0, xp)
	assert.Equal(t, 0, progress)

	var vocabCount int64
	require.NoError(t, sqlSvc.Db().Model(&model.Vocabulary{}).Where("user_id = ?", user.ID).Count(&vocabCount).Error)
	assert.Equal(t, int64(0), vocabCount)
}

func TestListNewestFirst(t *testing.T) {
	sqlSvc := newTestSqlService(t)
	vocabSvc := newTestVocabularyService(sqlSvc)
	user := createTestUser(t, sqlSvc, "list@example.com")

	words := []string{"erste", "zweite", "dritte"}
	for _, w := range words {
		_, err := vocabSvc.Add(user.ID, dto.AddVocabularyRequest{Word: w, Correction: w + "n"})
		require.NoError(t, err)
	}

	list, err := vocabSvc.List(user.ID)
	require.NoError(t, err)
	require.Equal(t, 3, list.Total)
	assert.Equal(t, "dritte", list.Entries[0].Word)
	assert.Equal(t, "erste", list.Entries[2].Word)
}

func TestDeleteChecksOwnership(t *testing.T) {
	sqlSvc := newTestSqlService(t)
	vocabSvc := newTestVocabularyService(sqlSvc)
	owner := createTestUser(t, sqlSvc, "owner@example.com")
	other := createTestUser(t, sqlSvc, "other@example.com")

	resp, err := vocabSvc.Add(owner.ID, dto.AddVocabularyRequest{Word: "gegangt", Correction: "gegangen"})
	require.NoError(t, err)

	// A foreign entry id reads as not found, not forbidden.
	err = vocabSvc.Delete(other.ID, resp.Entry.ID)
	require.Error(t, err)
	appErr, ok := shared.GetAppError(err)
	require.True(t, ok)
	assert.Equal(t, 404, appErr.StatusCode)

	list, err := vocabSvc.List(owner.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, list.Total)

	require.NoError(t, vocabSvc.Delete(owner.ID, resp.Entry.ID))

	list, err = vocabSvc.List(owner.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, list.Total)
}
