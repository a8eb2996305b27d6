package service

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/inkpress/internal/db"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupUserServiceTestDB(t *testing.T) (*gorm.DB, func()) {
	t.Helper()

	dsn := fmt.Sprintf("file:user-service-%d?mode=memory&cache=shared", time.Now().UnixNano())
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}

	if err := gdb.AutoMigrate(&db.User{}); err != nil {
		t.Fatalf("failed to migrate test db: %v", err)
	}

	return gdb, func() {
		sqlDB, err := gdb.DB()
		if err == nil {
			_ = sqlDB.Close()
		}
	}
}

func TestRegisterStoresOnlyPasswordHash(t *testing.T) {
	gdb, cleanup := setupUserServiceTestDB(t)
	defer cleanup()

	svc := NewUserService(gdb)
	user, err := svc.Register(RegisterInput{Username: "alice", Email: "a@x.com", Password: "secret1"})
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	if user.Password == "secret1" {
		t.Fatal("plaintext password was persisted")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte("secret1")); err != nil {
		t.Fatalf("stored hash does not match original password: %v", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte("wrong")); err == nil {
		t.Fatal("stored hash matched a wrong password")
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	gdb, cleanup := setupUserServiceTestDB(t)
	defer cleanup()

	svc := NewUserService(gdb)
	if _, err := svc.Register(RegisterInput{Username: "alice", Email: "a@x.com", Password: "secret1"}); err != nil {
		t.Fatalf("first register: %v", err)
	}

	_, err := svc.Register(RegisterInput{Username: "alice2", Email: "a@x.com", Password: "secret2"})
	if !errors.Is(err, ErrUserExists) {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}

	var count int64
	if err := gdb.Model(&db.User{}).Count(&count).Error; err != nil {
		t.Fatalf("count users: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected 1 user, got %d", count)
	}
}

func TestRegisterNormalizesEmail(t *testing.T) {
	gdb, cleanup := setupUserServiceTestDB(t)
	defer cleanup()

	svc := NewUserService(gdb)
	user, err := svc.Register(RegisterInput{Username: "alice", Email: "  Alice@Example.COM ", Password: "secret1"})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if user.Email != "alice@example.com" {
		t.Fatalf("expected lowercased email, got %q", user.Email)
	}

	if _, err := svc.Authenticate("ALICE@example.com", "secret1"); err != nil {
		t.Fatalf("authenticate with differently cased email: %v", err)
	}
}

func TestRegisterAggregatesValidationMessages(t *testing.T) {
	gdb, cleanup := setupUserServiceTestDB(t)
	defer cleanup()

	svc := NewUserService(gdb)
	_, err := svc.Register(RegisterInput{Username: "al", Email: "not-an-email", Password: "short"})

	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if len(vErr.Messages) != 3 {
		t.Fatalf("expected 3 messages, got %d: %v", len(vErr.Messages), vErr.Messages)
	}
}

func TestAuthenticateDoesNotRevealWhichFieldFailed(t *testing.T) {
	gdb, cleanup := setupUserServiceTestDB(t)
	defer cleanup()

	svc := NewUserService(gdb)
	if _, err := svc.Register(RegisterInput{Username: "alice", Email: "a@x.com", Password: "secret1"}); err != nil {
		t.Fatalf("register: %v", err)
	}

	_, wrongPassword := svc.Authenticate("a@x.com", "nope")
	_, unknownEmail := svc.Authenticate("nobody@x.com", "secret1")

	if !errors.Is(wrongPassword, ErrInvalidCredentials) {
		t.Fatalf("wrong password: expected ErrInvalidCredentials, got %v", wrongPassword)
	}
	if !errors.Is(unknownEmail, ErrInvalidCredentials) {
		t.Fatalf("unknown email: expected ErrInvalidCredentials, got %v", unknownEmail)
	}

	user, err := svc.Authenticate("a@x.com", "secret1")
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	if user.Username != "alice" {
		t.Fatalf("expected alice, got %q", user.Username)
	}
}
