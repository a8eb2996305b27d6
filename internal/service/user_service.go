package service

import (
	"errors"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/inkpress/internal/db"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrUserExists         = errors.New("user already exists")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid email or password")
)

var emailPattern = regexp.MustCompile(`^\w+([\.-]?\w+)*@\w+([\.-]?\w+)*(\.\w{2,3})+$`)

// UserService wraps account related database operations.
type UserService struct {
	db *gorm.DB
}

// RegisterInput represents fields accepted when creating an account.
type RegisterInput struct {
	Username string
	Email    string
	Password string
}

// NewUserService creates a UserService instance.
func NewUserService(gdb *gorm.DB) *UserService {
	return &UserService{db: gdb}
}

// Register validates the input, rejects duplicate emails and persists
// a new account. Only the bcrypt hash of the password is ever stored.
func (s *UserService) Register(input RegisterInput) (*db.User, error) {
	username := strings.TrimSpace(input.Username)
	email := strings.ToLower(strings.TrimSpace(input.Email))

	var messages []string
	if username == "" {
		messages = append(messages, "Username is required")
	} else if utf8.RuneCountInString(username) < 3 {
		messages = append(messages, "Username must be at least 3 characters")
	}
	if email == "" {
		messages = append(messages, "Email is required")
	} else if !emailPattern.MatchString(email) {
		messages = append(messages, "Please fill a valid email address")
	}
	if input.Password == "" {
		messages = append(messages, "Password is required")
	} else if len(input.Password) < 6 {
		messages = append(messages, "Password must be at least 6 characters")
	}
	if len(messages) > 0 {
		return nil, &ValidationError{Messages: messages}
	}

	var existing db.User
	err := s.db.Where("email = ?", email).First(&existing).Error
	if err == nil {
		return nil, ErrUserExists
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := db.User{
		Username: username,
		Email:    email,
		Password: string(hashed),
		Role:     db.RoleUser,
	}
	if err := s.db.Create(&user).Error; err != nil {
		return nil, err
	}

	return &user, nil
}

// Authenticate verifies an email/password pair. A missing account and a
// wrong password return the same error so callers cannot probe which
// emails are registered.
func (s *UserService) Authenticate(email, password string) (*db.User, error) {
	normalized := strings.ToLower(strings.TrimSpace(email))

	var user db.User
	if err := s.db.Where("email = ?", normalized).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return &user, nil
}

// Get fetches a user by id.
func (s *UserService) Get(id uint) (*db.User, error) {
	var user db.User
	if err := s.db.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}
