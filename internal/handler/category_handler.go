package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/inkpress/internal/db"
	"github.com/inkpress/internal/service"
)

type categoryRequest struct {
	Name string `json:"name"`
}

// GetCategories 获取分类列表
func (a *API) GetCategories(c *gin.Context) {
	categories, err := a.categories.List()
	if err != nil {
		internalError(c, err)
		return
	}

	views := make([]gin.H, 0, len(categories))
	for i := range categories {
		views = append(views, categoryView(&categories[i]))
	}

	respondList(c, http.StatusOK, len(views), views)
}

// CreateCategory 创建新分类
func (a *API) CreateCategory(c *gin.Context) {
	var req categoryRequest
	if !bindJSON(c, &req, "Invalid request body") {
		return
	}

	category, err := a.categories.Create(req.Name)
	if err != nil {
		var vErr *service.ValidationError
		switch {
		case errors.As(err, &vErr):
			respondError(c, http.StatusBadRequest, vErr.Messages)
		case errors.Is(err, service.ErrCategoryExists):
			respondError(c, http.StatusBadRequest, "Category name must be unique")
		default:
			internalError(c, err)
		}
		return
	}

	respondData(c, http.StatusCreated, categoryView(category))
}

func categoryView(category *db.Category) gin.H {
	return gin.H{
		"_id":       category.ID,
		"name":      category.Name,
		"createdAt": category.CreatedAt,
		"updatedAt": category.UpdatedAt,
	}
}
