package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deutschai/deutschai_api/shared"
)

func TestLogEventAccumulatesXP(t *testing.T) {
	sqlSvc := newTestSqlService(t)
	progressSvc := newTestProgressService(sqlSvc)
	user := createTestUser(t, sqlSvc, "xp@example.com")

	_, err := progressSvc.LogEvent(user.ID, shared.ActivityChat, "Chatted with the tutor", 10)
	require.NoError(t, err)
	_, err = progressSvc.LogEvent(user.ID, shared.ActivityPractice, "Completed a grammar exercise (75%)", 15)
	require.NoError(t, err)
	_, err = progressSvc.LogEvent(user.ID, shared.ActivityVocab, "Saved vocabulary: gegangt", 5)
	require.NoError(t, err)

	xp, progress := userXP(t, sqlSvc, user.ID)
	assert.Equal(t, 30, xp)
	assert.Equal(t, 3, progress)

	count, err := sqlSvc.Activities.CountActivities(user.ID, "")
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)
}

func TestLogEventClampsPoints(t *testing.T) {
	sqlSvc := newTestSqlService(t)
	progressSvc := newTestProgressService(sqlSvc)
	user := createTestUser(t, sqlSvc, "clamp@example.com")

	activity, err := progressSvc.LogEvent(user.ID, shared.ActivityPractice, "oversized grant", 150)
	require.NoError(t, err)
	assert.Equal(t, 100, activity.Points)

	activity, err = progressSvc.LogEvent(user.ID, shared.ActivityPractice, "negative grant", -20)
	require.NoError(t, err)
	assert.Equal(t, 0, activity.Points)

	xp, _ := userXP(t, sqlSvc, user.ID)
	assert.Equal(t, 100, xp)
}

func TestProgressResetsAtLevelBoundary(t *testing.T) {
	sqlSvc := newTestSqlService(t)
	progressSvc := newTestProgressService(sqlSvc)
	user := createTestUser(t, sqlSvc, "boundary@example.com")

	// 990 XP leaves the user just below the level threshold.
	for i := 0; i < 9; i++ {
		_, err := progressSvc.LogEvent(user.ID, shared.ActivityPractice, "warmup", 100)
		require.NoError(t, err)
	}
	for i := 0; i < 9; i++ {
		_, err := progressSvc.LogEvent(user.ID, shared.ActivityChat, "warmup", 10)
		require.NoError(t, err)
	}

	xp, progress := userXP(t, sqlSvc, user.ID)
	require.Equal(t, 990, xp)
	assert.Equal(t, 99, progress)

	_, err := progressSvc.LogEvent(user.ID, shared.ActivityChat, "level up", 10)
	require.NoError(t, err)

	xp, progress = userXP(t, sqlSvc, user.ID)
	assert.Equal(t, 1000, xp)
	assert.Equal(t, 0, progress)
	assert.Equal(t, 1, LevelForXP(xp))
}

func TestLevelAndProgressDerivation(t *testing.T) {
	assert.Equal(t, 0, LevelForXP(0))
	assert.Equal(t, 0, LevelForXP(999))
	assert.Equal(t, 1, LevelForXP(1000))
	assert.Equal(t, 2, LevelForXP(2500))

	assert.Equal(t, 0, ProgressForXP(0))
	assert.Equal(t, 0, ProgressForXP(5))
	assert.Equal(t, 50, ProgressForXP(2500))
	assert.Equal(t, 99, ProgressForXP(1999))
	assert.Equal(t, 0, ProgressForXP(-10))
}

func TestRecentActivitiesOrderAndLimit(t *testing.T) {
	sqlSvc := newTestSqlService(t)
	progressSvc := newTestProgressService(sqlSvc)
	user := createTestUser(t, sqlSvc, "recent@example.com")

	descriptions := []string{"first", "second", "third", "fourth", "fifth", "sixth", "seventh"}
	for _, d := range descriptions {
		_, err := progressSvc.LogEvent(user.ID, shared.ActivityChat, d, 10)
		require.NoError(t, err)
	}

	// Default limit is 5, newest first.
	recent, err := progressSvc.RecentActivities(user.ID, 0)
	require.NoError(t, err)
	require.Len(t, recent, 5)
	assert.Equal(t, "seventh", recent[0].Description)
	assert.Equal(t, "third", recent[4].Description)

	recent, err = progressSvc.RecentActivities(user.ID, 2)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, "seventh", recent[0].Description)
	assert.Equal(t, "sixth", recent[1].Description)

	// Oversized limits are capped, not rejected.
	recent, err = progressSvc.RecentActivities(user.ID, 500)
	require.NoError(t, err)
	assert.Len(t, recent, 7)
}
