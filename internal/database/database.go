package database

import (
	"github.com/studyflow/api/internal/config"
	"github.com/studyflow/api/internal/model"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func Connect(cfg *config.Config) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Info),
	})
	if err != nil {
		return nil, err
	}

	return db, nil
}

func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&model.User{},
		&model.Tag{},
		&model.Question{},
		&model.Answer{},
		&model.Vote{},
		&model.Comment{},
		&model.Report{},
		&model.Notification{},
	)
	if err != nil {
		return err
	}

	// The composite vote index comes from struct tags; keep the join-table
	// lookup index explicit since AutoMigrate does not cover it.
	db.Exec("CREATE INDEX IF NOT EXISTS idx_question_tags_tag_id ON question_tags(tag_id)")

	return nil
}
