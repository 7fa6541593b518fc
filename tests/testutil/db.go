package testutil

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/lcdc-construction/projects-api/internal/domain"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// SetupTestDB creates an isolated in-memory SQLite database with the full
// schema migrated. TranslateError is enabled so unique-constraint violations
// surface as gorm.ErrDuplicatedKey, matching the production driver.
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	// Unique name per test; cache=shared keeps the pool's connections on
	// the same database.
	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	require.NoError(t, err, "Failed to open in-memory test database")

	err = db.AutoMigrate(
		&domain.User{},
		&domain.Project{},
		&domain.Lot{},
		&domain.Quote{},
		&domain.QuoteLineItem{},
		&domain.ProjectActivityLog{},
		&domain.Notification{},
		&domain.LotDocument{},
	)
	require.NoError(t, err, "Failed to migrate test schema")

	t.Cleanup(func() {
		sqlDB, err := db.DB()
		if err == nil {
			_ = sqlDB.Close()
		}
	})

	return db
}

// CleanupTestData removes all rows so tests sharing a database start clean
func CleanupTestData(t *testing.T, db *gorm.DB) {
	t.Helper()

	tables := []string{
		"quote_line_items",
		"quotes",
		"lot_documents",
		"lot_assigned_users",
		"lots",
		"project_activity_logs",
		"notifications",
		"projects",
		"users",
	}

	for _, table := range tables {
		err := db.Exec("DELETE FROM " + table).Error
		if err != nil {
			t.Logf("Note: Could not clean table %s: %v", table, err)
		}
	}
}

// CreateTestUser creates a user with the given identifier and role
func CreateTestUser(t *testing.T, db *gorm.DB, identifier string, role domain.UserRole) *domain.User {
	t.Helper()

	user := &domain.User{
		UserIdentifier: identifier,
		Auth0UserID:    "auth0|" + identifier,
		FirstName:      "Test",
		LastName:       identifier,
		Email:          identifier + "@example.com",
		Role:           role,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

// CreateTestProject creates a project with the given identifier
func CreateTestProject(t *testing.T, db *gorm.DB, identifier string) *domain.Project {
	t.Helper()

	project := &domain.Project{
		ProjectIdentifier: identifier,
		ProjectName:       "Test Project " + identifier,
		Status:            domain.ProjectStatusPlanned,
	}
	require.NoError(t, db.Create(project).Error)
	return project
}

// CreateTestLot creates a lot in the given project with the given users
// in its assigned set
func CreateTestLot(t *testing.T, db *gorm.DB, projectIdentifier string, assigned ...*domain.User) *domain.Lot {
	t.Helper()

	lot := &domain.Lot{
		LotID:             uuid.New(),
		ProjectIdentifier: projectIdentifier,
		LotNumber:         "L-" + uuid.NewString()[:8],
		Price:             100000,
		Status:            domain.LotStatusAvailable,
	}
	require.NoError(t, db.Create(lot).Error)

	for _, user := range assigned {
		require.NoError(t, db.Model(lot).Association("AssignedUsers").Append(user))
	}
	return lot
}
