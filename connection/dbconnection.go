package connection

import (
	"fmt"
	"log/slog"
	"os"

	"taskpanel/model"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func DBConnection() (*gorm.DB, error) {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		fmt.Println("Warning: No .env file found or failed to load") // Use only in dev
	}

	path := os.Getenv("DATABASE_PATH")
	if path == "" {
		path = "taskpanel.db"
	}

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.AutoMigrate(&model.User{}, &model.Task{}, &model.RefreshToken{}); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	if err := seedUsers(db); err != nil {
		return nil, err
	}

	slog.Info("database ready", slog.String("path", path))
	return db, nil
}

// seedUsers fills an empty user table with a development fixture: an
// admin, two employers and three employees.
func seedUsers(db *gorm.DB) error {
	var count int64
	if err := db.Model(&model.User{}).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to count users: %w", err)
	}
	if count > 0 {
		return nil
	}

	password := os.Getenv("SEED_PASSWORD")
	if password == "" {
		password = "secret"
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	users := []model.User{
		{Email: "admin@example.com", FirstName: "Grace", LastName: "Admin", Role: model.RoleAdmin, Password: string(hash)},
		{Email: "employer1@example.com", FirstName: "Alice", LastName: "Employer", Role: model.RoleEmployer, Password: string(hash)},
		{Email: "employer2@example.com", FirstName: "Bob", LastName: "Employer", Role: model.RoleEmployer, Password: string(hash)},
		{Email: "carol@example.com", FirstName: "Carol", LastName: "Employee", Role: model.RoleEmployee, Password: string(hash)},
		{Email: "dave@example.com", FirstName: "Dave", LastName: "Employee", Role: model.RoleEmployee, Password: string(hash)},
		{Email: "eve@example.com", FirstName: "Eve", LastName: "Employee", Role: model.RoleEmployee, Password: string(hash)},
	}
	if err := db.Create(&users).Error; err != nil {
		return fmt.Errorf("failed to seed users: %w", err)
	}

	slog.Info("seeded development users", slog.Int("count", len(users)))
	return nil
}
