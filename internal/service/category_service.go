package service

import (
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/inkpress/internal/db"
	"gorm.io/gorm"
)

var ErrCategoryExists = errors.New("category already exists")

// CategoryService wraps category related database operations.
type CategoryService struct {
	db *gorm.DB
}

// NewCategoryService creates a CategoryService instance.
func NewCategoryService(gdb *gorm.DB) *CategoryService {
	return &CategoryService{db: gdb}
}

// List returns all categories.
func (s *CategoryService) List() ([]db.Category, error) {
	var categories []db.Category
	if err := s.db.Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

// Create inserts a new category with a unique, trimmed name.
func (s *CategoryService) Create(name string) (*db.Category, error) {
	name = strings.TrimSpace(name)

	var messages []string
	if name == "" {
		messages = append(messages, "Category name is required")
	} else if utf8.RuneCountInString(name) < 2 {
		messages = append(messages, "Category name must be at least 2 characters long")
	} else if utf8.RuneCountInString(name) > 30 {
		messages = append(messages, "Category name cannot exceed 30 characters")
	}
	if len(messages) > 0 {
		return nil, &ValidationError{Messages: messages}
	}

	var existing db.Category
	err := s.db.Where("name = ?", name).First(&existing).Error
	if err == nil {
		return nil, ErrCategoryExists
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	category := db.Category{Name: name}
	if err := s.db.Create(&category).Error; err != nil {
		return nil, err
	}
	return &category, nil
}
