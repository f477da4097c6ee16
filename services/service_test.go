package services

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/deutschai/deutschai_api/model"
	"github.com/deutschai/deutschai_api/services/repositories"
)

func newTestSqlService(t *testing.T) *SqlService {
	t.Helper()

	// One named in-memory database per test so parallel tests never
	// share state.
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(&model.User{}, &model.Vocabulary{}, &model.Activity{}))

	svc := &SqlService{db: db}
	svc.Users = repositories.NewUserRepository(db)
	svc.Vocabularies = repositories.NewVocabularyRepository(db)
	svc.Activities = repositories.NewActivityRepository(db)
	return svc
}

func newTestProgressService(sqlSvc *SqlService) *ProgressService {
	return &ProgressService{sqlSvc: sqlSvc}
}

func createTestUser(t *testing.T, sqlSvc *SqlService, email string) *model.User {
	t.Helper()

	user := &model.User{
		FirstName:      "Anna",
		LastName:       "Schmidt",
		Email:          email,
		Password:       "$2a$10$abcdefghijklmnopqrstuvwxyz012345678901234567890123456",
		TargetLanguage: "de",
		NativeLanguage: "en",
		Level:          "B1",
	}
	require.NoError(t, sqlSvc.Users.CreateUser(user))
	return user
}

func userXP(t *testing.T, sqlSvc *SqlService, userID uint) (xp, progress int) {
	t.Helper()

	user, err := sqlSvc.Users.GetUser(userID)
	require.NoError(t, err)
	return user.XP, user.Progress
}
