package repository

import (
	"testing"

	"unimarket/internal/database"
	"unimarket/internal/models"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestDB opens a fresh in-memory database per test. Each test gets its
// own schema, so there is no cross-test cleanup to perform.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared&_fk=1"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(database.PersistentModels()...))

	t.Cleanup(func() {
		for _, m := range database.PersistentModels() {
			db.Session(&gorm.Session{AllowGlobalUpdate: true}).Unscoped().Delete(m)
		}
	})

	return db
}

func seedUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()

	uni := models.University{Name: "Test University " + username, Domain: username + ".edu"}
	require.NoError(t, db.Where(models.University{Name: uni.Name}).FirstOrCreate(&uni).Error)

	user := models.User{
		FullName:     "Test " + username,
		Username:     username,
		Email:        username + "@" + uni.Domain,
		Password:     "hashed-password",
		UniversityID: uni.ID,
	}
	require.NoError(t, db.Create(&user).Error)
	return &user
}

func seedCategory(t *testing.T, db *gorm.DB, name string) *models.Category {
	t.Helper()

	cat := models.Category{Name: name}
	require.NoError(t, db.Where(models.Category{Name: name}).FirstOrCreate(&cat).Error)
	return &cat
}
