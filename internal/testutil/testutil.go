package testutil

import (
	"context"
	"fmt"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	tcPostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	tcRedis "github.com/testcontainers/testcontainers-go/modules/redis"
	"github.com/testcontainers/testcontainers-go/wait"
	gormPostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/devhire/backend/internal/api"
	"github.com/devhire/backend/internal/cache"
	"github.com/devhire/backend/internal/config"
	"github.com/devhire/backend/internal/domain"
	"github.com/devhire/backend/internal/realtime"
	"github.com/devhire/backend/internal/repository"
	repoPostgres "github.com/devhire/backend/internal/repository/postgres"
	"github.com/devhire/backend/internal/service"
	"github.com/devhire/backend/internal/session"
	"github.com/devhire/backend/internal/token"
)

// TestDB manages a testcontainers PostgreSQL instance
type TestDB struct {
	Container testcontainers.Container
	DB        *gorm.DB
	DSN       string
}

// NewTestDB creates a new PostgreSQL testcontainer and returns a connection
func NewTestDB(t *testing.T) *TestDB {
	t.Helper()

	ctx := context.Background()

	container, err := tcPostgres.Run(ctx,
		"postgres:15-alpine",
		tcPostgres.WithDatabase("test_devhire"),
		tcPostgres.WithUsername("test"),
		tcPostgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	if err != nil {
		t.Fatalf("failed to start postgres container: %v", err)
	}

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("failed to get connection string: %v", err)
	}

	db, err := gorm.Open(gormPostgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to connect to database: %v", err)
	}

	// Run migrations
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
		t.Fatalf("failed to run migrations: %v", err)
	}

	testDB := &TestDB{
		Container: container,
		DB:        db,
		DSN:       dsn,
	}

	t.Cleanup(func() {
		testDB.Cleanup()
	})

	return testDB
}

// Cleanup terminates the container
func (tdb *TestDB) Cleanup() {
	if tdb.Container != nil {
		ctx := context.Background()
		tdb.Container.Terminate(ctx)
	}
}

// Truncate clears all tables for test isolation
func (tdb *TestDB) Truncate(t *testing.T) {
	t.Helper()

	tables := []string{
		"comments",
		"posts",
		"favorites",
		"applicants",
		"job_offers",
		"experiences",
		"educations",
		"users",
	}

	for _, table := range tables {
		if err := tdb.DB.Exec(fmt.Sprintf("TRUNCATE TABLE %s CASCADE", table)).Error; err != nil {
			t.Logf("warning: failed to truncate %s: %v", table, err)
		}
	}
}

// TestCache manages a testcontainers Redis instance
type TestCache struct {
	Container testcontainers.Container
	Cache     cache.Cache
}

// NewTestCache starts a Redis container and connects a cache to it
func NewTestCache(t *testing.T) *TestCache {
	t.Helper()

	ctx := context.Background()

	container, err := tcRedis.Run(ctx, "redis:7-alpine")
	if err != nil {
		t.Fatalf("failed to start redis container: %v", err)
	}

	redisURL, err := container.ConnectionString(ctx)
	if err != nil {
		t.Fatalf("failed to get redis connection string: %v", err)
	}

	c, err := cache.NewRedis(ctx, redisURL)
	if err != nil {
		t.Fatalf("failed to connect to redis: %v", err)
	}

	tc := &TestCache{Container: container, Cache: c}

	t.Cleanup(func() {
		c.Close()
		container.Terminate(context.Background())
	})

	return tc
}

// TestConfig returns a configuration suitable for testing
func TestConfig() *config.Config {
	return &config.Config{
		Port:               "0", // Random port
		Environment:        "test",
		CORSOrigin:         "http://localhost:3000",
		AccessTokenSecret:  "test-access-secret-for-testing-only",
		RefreshTokenSecret: "test-refresh-secret-for-testing-only",
		ActivationSecret:   "test-activation-secret-for-testing-only",
		AccessTokenTTL:     5 * time.Minute,
		RefreshTokenTTL:    3 * 24 * time.Hour,
		ActivationTokenTTL: 5 * time.Hour,
		SessionTTL:         7 * 24 * time.Hour,
		EntityCacheTTL:     7 * 24 * time.Hour,
		MailFrom:           "no-reply@test.local",
	}
}

// TestServer holds all components for integration testing
type TestServer struct {
	Server     *httptest.Server
	DB         *TestDB
	Cache      cache.Cache
	Repos      *repository.Repositories
	Services   *service.Services
	Tokens     *token.Service
	Sessions   *session.Store
	Mailer     *FakeMailer
	ImageStore *FakeImageStore
	Hub        *realtime.Hub
	Config     *config.Config
}

// NewTestServer creates a complete test server with all dependencies
func NewTestServer(t *testing.T) *TestServer {
	t.Helper()

	testDB := NewTestDB(t)
	testCache := NewTestCache(t)
	cfg := TestConfig()

	repos := repoPostgres.NewRepositories(testDB.DB)

	tokens, err := token.NewService(cfg)
	if err != nil {
		t.Fatalf("failed to build token service: %v", err)
	}
	sessions := session.NewStore(testCache.Cache, cfg.SessionTTL)
	mailer := NewFakeMailer()
	imageStore := NewFakeImageStore()
	hub := realtime.NewHub()
	go hub.Run()

	services := service.NewServices(service.Dependencies{
		Repos:      repos,
		Cache:      testCache.Cache,
		Sessions:   sessions,
		Tokens:     tokens,
		Mailer:     mailer,
		ImageStore: imageStore,
		Hub:        hub,
		Config:     cfg,
	})

	router := api.NewRouter(services, tokens, sessions, hub, cfg)
	server := httptest.NewServer(router)

	ts := &TestServer{
		Server:     server,
		DB:         testDB,
		Cache:      testCache.Cache,
		Repos:      repos,
		Services:   services,
		Tokens:     tokens,
		Sessions:   sessions,
		Mailer:     mailer,
		ImageStore: imageStore,
		Hub:        hub,
		Config:     cfg,
	}

	t.Cleanup(func() {
		server.Close()
	})

	return ts
}

// BaseURL returns the test server's base URL
func (ts *TestServer) BaseURL() string {
	return ts.Server.URL
}

// APIURL returns the full API URL for a given path
func (ts *TestServer) APIURL(path string) string {
	return fmt.Sprintf("%s/api/v1%s", ts.Server.URL, path)
}

// WebSocketURL returns the job offer feed URL with token
func (ts *TestServer) WebSocketURL(token string) string {
	wsURL := "ws" + ts.Server.URL[4:] // Replace "http" with "ws"
	return fmt.Sprintf("%s/api/v1/job-offers-feed?token=%s", wsURL, token)
}
