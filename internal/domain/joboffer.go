package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type ApplicantStatus string

const (
	ApplicantPending  ApplicantStatus = "pending"
	ApplicantAccepted ApplicantStatus = "accepted"
	ApplicantRejected ApplicantStatus = "rejected"
)

func (s ApplicantStatus) IsValid() bool {
	switch s {
	case ApplicantPending, ApplicantAccepted, ApplicantRejected:
		return true
	}
	return false
}

type JobOffer struct {
	ID           uuid.UUID      `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Title        string         `json:"title" gorm:"not null"`
	Description  string         `json:"description" gorm:"not null"`
	SalaryRange  string         `json:"salaryRange" gorm:"not null"`
	Remote       string         `json:"remote" gorm:"not null"`
	ContractType string         `json:"contractType" gorm:"not null"`
	Company      Company        `json:"company" gorm:"embedded;embeddedPrefix:company_"`
	RecruiterID  uuid.UUID      `json:"recruiterId" gorm:"type:uuid;not null;index"`
	Skills       datatypes.JSON `json:"skills" gorm:"type:jsonb"`
	Applicants   []Applicant    `json:"applicants,omitempty" gorm:"constraint:OnDelete:CASCADE"`
	CreatedAt    time.Time      `json:"createdAt"`
	UpdatedAt    time.Time      `json:"updatedAt"`
}

type Company struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Website     string  `json:"website"`
	LogoURL     string  `json:"logoUrl"`
	LogoKey     string  `json:"-"`
	Location    string  `json:"location"`
	Lat         float64 `json:"lat"`
	Lng         float64 `json:"lng"`
}

// Applicant rows carry a composite unique index so a user can hold at
// most one application per offer. The store enforces it, not handler
// level read-then-write checks.
type Applicant struct {
	ID          uuid.UUID       `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	JobOfferID  uuid.UUID       `json:"jobOfferId" gorm:"type:uuid;not null;uniqueIndex:idx_offer_applicant"`
	ApplicantID uuid.UUID       `json:"applicantId" gorm:"type:uuid;not null;uniqueIndex:idx_offer_applicant"`
	Status      ApplicantStatus `json:"status" gorm:"type:varchar(16);default:'pending'"`
	CreatedAt   time.Time       `json:"createdAt"`
}

// Favorite membership toggles: same composite uniqueness as Applicant.
type Favorite struct {
	ID         uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	JobOfferID uuid.UUID `json:"jobOfferId" gorm:"type:uuid;not null;uniqueIndex:idx_offer_favorite"`
	UserID     uuid.UUID `json:"userId" gorm:"type:uuid;not null;uniqueIndex:idx_offer_favorite"`
	CreatedAt  time.Time `json:"createdAt"`
}

// Listing returns the offer without its applicant list, the shape used
// for collection reads and for the entity cache.
func (j *JobOffer) Listing() *JobOffer {
	out := *j
	out.Applicants = nil
	return &out
}
