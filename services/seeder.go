package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jobhelper/backend/models"
	"github.com/jobhelper/backend/repository"
	"golang.org/x/crypto/bcrypt"
)

// DatabaseSeeder handles database seeding operations
type DatabaseSeeder struct {
	repo *repository.GORMRepository
}

// NewDatabaseSeeder creates a new database seeder
func NewDatabaseSeeder(repo *repository.GORMRepository) *DatabaseSeeder {
	return &DatabaseSeeder{repo: repo}
}

// SeedDatabase seeds the database with initial data (idempotent)
func (s *DatabaseSeeder) SeedDatabase() error {
	ctx := context.Background()

	// Hash default password
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte("password"), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	// Create test users (no admin users for security)
	users := []models.User{
		{
			Email:    "test@example.com",
			Password: string(hashedPassword),
			FullName: "Test User",
			Role:     "user",
		},
		{
			Email:    "demo@example.com",
			Password: string(hashedPassword),
			FullName: "Demo User",
			Role:     "user",
		},
	}

	for _, user := range users {
		if err := s.seedUser(ctx, user); err != nil {
			slog.Error("Failed to seed user", "email", user.Email, "error", err)
		}
	}

	// Give the demo user a resume so the AI features work out of the box
	if err := s.seedDemoResume(ctx, "demo@example.com"); err != nil {
		slog.Error("Failed to seed demo resume", "error", err)
	}

	slog.Info("Database seeding completed successfully")
	return nil
}

// seedUser seeds a single user with its profile (idempotent)
func (s *DatabaseSeeder) seedUser(ctx context.Context, user models.User) error {
	existingUser, err := s.repo.GetUserByEmail(ctx, user.Email)
	if err != nil {
		return fmt.Errorf("error checking user %s: %w", user.Email, err)
	}
	if existingUser != nil {
		slog.Info("User already exists, skipping", "email", user.Email)
		return nil
	}

	if err := s.repo.CreateUser(ctx, &user); err != nil {
		return fmt.Errorf("failed to create user %s: %w", user.Email, err)
	}
	if err := s.repo.CreateProfile(ctx, &models.Profile{UserID: user.ID}); err != nil {
		return fmt.Errorf("failed to create profile for %s: %w", user.Email, err)
	}

	slog.Info("Created user", "email", user.Email)
	return nil
}

func (s *DatabaseSeeder) seedDemoResume(ctx context.Context, email string) error {
	user, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil {
		return err
	}
	if user == nil {
		return fmt.Errorf("user %s not found", email)
	}

	profile, err := s.repo.GetProfileByUserID(ctx, user.ID)
	if err != nil {
		return err
	}
	if profile == nil {
		profile = &models.Profile{UserID: user.ID}
		if err := s.repo.CreateProfile(ctx, profile); err != nil {
			return err
		}
	}
	if profile.ResumeText != "" {
		return nil
	}

	profile.ResumeText = demoResume
	return s.repo.UpdateProfile(ctx, profile)
}

const demoResume = `Demo User
Software Engineer

Experience
- Backend engineer at Example Corp (2021-2024). Built REST APIs in Go and Python serving 2M requests per day. Led migration from a monolith to services, cutting deploy time by 60%.
- Junior developer at Sample Ltd (2019-2021). Maintained a React dashboard and PostgreSQL reporting pipeline.

Skills
Go, Python, PostgreSQL, Docker, Kubernetes, AWS, Git, REST, CI/CD

Education
B.Sc. Computer Science, Example University, 2019`
