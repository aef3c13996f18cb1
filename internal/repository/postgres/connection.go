package postgres

import (
	"github.com/devhire/backend/internal/domain"
	"github.com/devhire/backend/internal/repository"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func NewConnection(databaseURL string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(databaseURL), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Info),
	})
	if err != nil {
		return nil, err
	}

	// Auto-migrate tables
	err = db.AutoMigrate(
		&domain.User{},
		&domain.Education{},
		&domain.Experience{},
		&domain.JobOffer{},
		&domain.Applicant{},
		&domain.Favorite{},
		&domain.Post{},
		&domain.Comment{},
	)
	if err != nil {
		return nil, err
	}

	return db, nil
}

func NewRepositories(db *gorm.DB) *repository.Repositories {
	return &repository.Repositories{
		User:     NewUserRepository(db),
		JobOffer: NewJobOfferRepository(db),
		Post:     NewPostRepository(db),
		Comment:  NewCommentRepository(db),
	}
}
