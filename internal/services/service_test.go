package services

import (
	"fmt"
	"testing"
	"tutoring-api/internal/config"
	"tutoring-api/internal/database"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/gorm/schema"
)

// setupTestDB wires a per-test in-memory database to avoid cross-test interference
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	config.AppConfig = &config.Config{
		FreeChatLimit:     2,
		ReferralRatePct:   10,
		PhoneSiblingLimit: 20,
		ServiceName:       "Tutoring Service",
	}

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
		NamingStrategy: schema.NamingStrategy{
			SingularTable: true,
		},
	})
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db))
	database.SetDB(db)
	return db
}
