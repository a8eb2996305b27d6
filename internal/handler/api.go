package handler

import (
	"github.com/inkpress/internal/service"
	"gorm.io/gorm"
)

// API bundles shared dependencies for HTTP handlers.
type API struct {
	users      *service.UserService
	posts      *service.PostService
	categories *service.CategoryService
	uploadDir  string
	uploadURL  string
}

// NewAPI constructs a handler set with shared services.
func NewAPI(gdb *gorm.DB, uploadDir, uploadURL string) *API {
	return &API{
		users:      service.NewUserService(gdb),
		posts:      service.NewPostService(gdb),
		categories: service.NewCategoryService(gdb),
		uploadDir:  uploadDir,
		uploadURL:  uploadURL,
	}
}
