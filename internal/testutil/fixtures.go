package testutil

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/devhire/backend/internal/domain"
)

// UserBuilder creates test users with a builder pattern
type UserBuilder struct {
	firstName string
	lastName  string
	email     string
	password  string
	role      domain.Role
}

// NewUserBuilder creates a new UserBuilder with default values
func NewUserBuilder() *UserBuilder {
	suffix := uuid.New().String()[:8]
	return &UserBuilder{
		firstName: "Test",
		lastName:  "User" + suffix,
		email:     fmt.Sprintf("testuser_%s@example.com", suffix),
		password:  "testpassword123",
		role:      domain.RoleUser,
	}
}

// WithEmail sets the email
func (b *UserBuilder) WithEmail(email string) *UserBuilder {
	b.email = email
	return b
}

// WithPassword sets the password
func (b *UserBuilder) WithPassword(password string) *UserBuilder {
	b.password = password
	return b
}

// WithRole sets the role
func (b *UserBuilder) WithRole(role domain.Role) *UserBuilder {
	b.role = role
	return b
}

// Build creates the user in the database and returns the user with the raw password
func (b *UserBuilder) Build(t *testing.T, db *gorm.DB) (*domain.User, string) {
	t.Helper()

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(b.password), bcrypt.DefaultCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &domain.User{
		ID:           uuid.New(),
		FirstName:    b.firstName,
		LastName:     b.lastName,
		Email:        b.email,
		PasswordHash: string(hashedPassword),
		Role:         b.role,
		IsVerified:   true,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}

	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create user: %v", err)
	}

	return user, b.password
}

// BuildAndLogin creates the user in the database, logs in through the
// API, and returns the user plus its access token.
func (b *UserBuilder) BuildAndLogin(t *testing.T, ts *TestServer) (*domain.User, string) {
	t.Helper()

	user, password := b.Build(t, ts.DB.DB)
	return user, Login(t, ts, user.Email, password)
}

// Login authenticates through the API and returns the access token.
func Login(t *testing.T, ts *TestServer, email, password string) string {
	t.Helper()

	body, _ := json.Marshal(map[string]string{
		"email":    email,
		"password": password,
	})

	resp, err := http.Post(ts.APIURL("/login-user"), "application/json", bytes.NewBuffer(body))
	if err != nil {
		t.Fatalf("failed to login: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("unexpected login status code: %d", resp.StatusCode)
	}

	var loginResp struct {
		AccessToken string `json:"accessToken"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&loginResp); err != nil {
		t.Fatalf("failed to decode login response: %v", err)
	}

	return loginResp.AccessToken
}

// JobOfferBuilder creates test job offers with a builder pattern
type JobOfferBuilder struct {
	title       string
	description string
	recruiterID uuid.UUID
	skills      []string
}

// NewJobOfferBuilder creates a new JobOfferBuilder with default values
func NewJobOfferBuilder(recruiterID uuid.UUID) *JobOfferBuilder {
	return &JobOfferBuilder{
		title:       fmt.Sprintf("Backend Engineer %s", uuid.New().String()[:8]),
		description: "Build and operate backend services",
		recruiterID: recruiterID,
		skills:      []string{"go", "postgresql"},
	}
}

// WithTitle sets the title
func (b *JobOfferBuilder) WithTitle(title string) *JobOfferBuilder {
	b.title = title
	return b
}

// WithSkills sets the skills
func (b *JobOfferBuilder) WithSkills(skills ...string) *JobOfferBuilder {
	b.skills = skills
	return b
}

// Build creates the job offer in the database
func (b *JobOfferBuilder) Build(t *testing.T, db *gorm.DB) *domain.JobOffer {
	t.Helper()

	skills, err := json.Marshal(b.skills)
	if err != nil {
		t.Fatalf("failed to marshal skills: %v", err)
	}

	offer := &domain.JobOffer{
		ID:           uuid.New(),
		Title:        b.title,
		Description:  b.description,
		SalaryRange:  "60k-80k",
		Remote:       "hybrid",
		ContractType: "full-time",
		RecruiterID:  b.recruiterID,
		Skills:       datatypes.JSON(skills),
		Company: domain.Company{
			Name:        "Acme",
			Description: "Widgets",
			Location:    "Berlin",
		},
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	if err := db.Create(offer).Error; err != nil {
		t.Fatalf("failed to create job offer: %v", err)
	}

	return offer
}

// PostBuilder creates test posts with a builder pattern
type PostBuilder struct {
	title       string
	description string
	user        *domain.User
	tags        []string
}

// NewPostBuilder creates a new PostBuilder with default values
func NewPostBuilder(user *domain.User) *PostBuilder {
	return &PostBuilder{
		title:       fmt.Sprintf("Post %s", uuid.New().String()[:8]),
		description: "Some thoughts on backend engineering",
		user:        user,
		tags:        []string{"go"},
	}
}

// WithTitle sets the title
func (b *PostBuilder) WithTitle(title string) *PostBuilder {
	b.title = title
	return b
}

// Build creates the post in the database
func (b *PostBuilder) Build(t *testing.T, db *gorm.DB) *domain.Post {
	t.Helper()

	tags, err := json.Marshal(b.tags)
	if err != nil {
		t.Fatalf("failed to marshal tags: %v", err)
	}

	post := &domain.Post{
		ID:          uuid.New(),
		Title:       b.title,
		Description: b.description,
		Tags:        datatypes.JSON(tags),
		Username:    b.user.FirstName + " " + b.user.LastName,
		UserID:      b.user.ID,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}

	if err := db.Create(post).Error; err != nil {
		t.Fatalf("failed to create post: %v", err)
	}

	return post
}

// DoRequest performs an authenticated JSON request against the test server.
func DoRequest(t *testing.T, method, url, accessToken string, body any) *http.Response {
	t.Helper()

	var reqBody *bytes.Buffer
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to marshal request body: %v", err)
		}
		reqBody = bytes.NewBuffer(raw)
	} else {
		reqBody = bytes.NewBuffer(nil)
	}

	req, err := http.NewRequest(method, url, reqBody)
	if err != nil {
		t.Fatalf("failed to build request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+accessToken)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	return resp
}
