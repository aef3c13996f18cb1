package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type Role string

const (
	RoleUser      Role = "user"
	RoleRecruiter Role = "recruiter"
	RoleAdmin     Role = "admin"
)

func (r Role) IsValid() bool {
	switch r {
	case RoleUser, RoleRecruiter, RoleAdmin:
		return true
	}
	return false
}

// Upload is a stored object reference: the public URL plus the
// storage key needed to delete or replace it later.
type Upload struct {
	URL string `json:"url"`
	Key string `json:"key"`
}

type User struct {
	ID           uuid.UUID      `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	FirstName    string         `json:"firstName" gorm:"not null"`
	LastName     string         `json:"lastName" gorm:"not null"`
	Email        string         `json:"email" gorm:"uniqueIndex;not null"`
	PasswordHash string         `json:"-" gorm:"not null"`
	Role         Role           `json:"role" gorm:"type:varchar(16);default:'user'"`
	IsVerified   bool           `json:"isVerified" gorm:"default:false"`
	AvatarURL    string         `json:"avatarUrl"`
	AvatarKey    string         `json:"-"`
	Bio          string         `json:"bio"`
	Website      string         `json:"website"`
	LinkedIn     string         `json:"linkedIn"`
	GitHub       string         `json:"github"`
	Skills       datatypes.JSON `json:"skills" gorm:"type:jsonb"`
	CVURL        string         `json:"cvUrl"`
	CVKey        string         `json:"-"`
	Education    []Education    `json:"education" gorm:"constraint:OnDelete:CASCADE"`
	Experience   []Experience   `json:"experience" gorm:"constraint:OnDelete:CASCADE"`
	CreatedAt    time.Time      `json:"createdAt"`
	UpdatedAt    time.Time      `json:"updatedAt"`
}

type Education struct {
	ID           uuid.UUID  `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	UserID       uuid.UUID  `json:"userId" gorm:"type:uuid;not null;index"`
	School       string     `json:"school"`
	Degree       string     `json:"degree"`
	FieldOfStudy string     `json:"fieldOfStudy"`
	From         *time.Time `json:"from"`
	To           *time.Time `json:"to"`
	Description  string     `json:"description"`
}

type Experience struct {
	ID          uuid.UUID  `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	UserID      uuid.UUID  `json:"userId" gorm:"type:uuid;not null;index"`
	Title       string     `json:"title"`
	Company     string     `json:"company"`
	Location    string     `json:"location"`
	From        *time.Time `json:"from"`
	To          *time.Time `json:"to"`
	Description string     `json:"description"`
}

// PublicProfile is the projection served to anonymous visitors. It
// carries no email, role or verification state.
type PublicProfile struct {
	ID         uuid.UUID      `json:"id"`
	FirstName  string         `json:"firstName"`
	LastName   string         `json:"lastName"`
	AvatarURL  string         `json:"avatarUrl"`
	Bio        string         `json:"bio"`
	Website    string         `json:"website"`
	LinkedIn   string         `json:"linkedIn"`
	GitHub     string         `json:"github"`
	Skills     datatypes.JSON `json:"skills"`
	CVURL      string         `json:"cvUrl"`
	Education  []Education    `json:"education"`
	Experience []Experience   `json:"experience"`
}

func (u *User) PublicProfile() *PublicProfile {
	return &PublicProfile{
		ID:         u.ID,
		FirstName:  u.FirstName,
		LastName:   u.LastName,
		AvatarURL:  u.AvatarURL,
		Bio:        u.Bio,
		Website:    u.Website,
		LinkedIn:   u.LinkedIn,
		GitHub:     u.GitHub,
		Skills:     u.Skills,
		CVURL:      u.CVURL,
		Education:  u.Education,
		Experience: u.Experience,
	}
}
