package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type Post struct {
	ID          uuid.UUID      `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Title       string         `json:"title" gorm:"not null"`
	Description string         `json:"description" gorm:"not null"`
	ImageURL    string         `json:"imageUrl"`
	ImageKey    string         `json:"-"`
	Tags        datatypes.JSON `json:"tags" gorm:"type:jsonb"`
	Username    string         `json:"username" gorm:"not null"`
	UserID      uuid.UUID      `json:"userId" gorm:"type:uuid;not null;index"`
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`
}

type Comment struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	PostID    uuid.UUID `json:"postId" gorm:"type:uuid;not null;index"`
	UserID    uuid.UUID `json:"userId" gorm:"type:uuid;not null"`
	Author    string    `json:"author" gorm:"not null"`
	Comment   string    `json:"comment" gorm:"not null"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
