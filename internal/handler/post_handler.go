package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/inkpress/internal/db"
	"github.com/inkpress/internal/service"
)

type postRequest struct {
	Title         string   `json:"title"`
	Content       string   `json:"content"`
	Excerpt       string   `json:"excerpt"`
	FeaturedImage string   `json:"featuredImage"`
	Category      uint     `json:"category"`
	Tags          []string `json:"tags"`
}

type postUpdateRequest struct {
	Title         *string   `json:"title"`
	Content       *string   `json:"content"`
	Excerpt       *string   `json:"excerpt"`
	FeaturedImage *string   `json:"featuredImage"`
	Category      *uint     `json:"category"`
	Tags          *[]string `json:"tags"`
}

// GetPosts 获取文章列表，按创建时间倒序
func (a *API) GetPosts(c *gin.Context) {
	posts, err := a.posts.List()
	if err != nil {
		internalError(c, err)
		return
	}

	views := make([]gin.H, 0, len(posts))
	for i := range posts {
		views = append(views, postView(&posts[i]))
	}

	respondList(c, http.StatusOK, len(views), views)
}

// GetPost 获取单篇文章，附带渲染后的正文 HTML
func (a *API) GetPost(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusNotFound, "Post not found")
		return
	}

	post, err := a.posts.Get(id)
	if err != nil {
		if errors.Is(err, service.ErrPostNotFound) {
			respondError(c, http.StatusNotFound, "Post not found")
			return
		}
		internalError(c, err)
		return
	}

	htmlContent, err := service.RenderMarkdown(post.Content)
	if err != nil {
		internalError(c, err)
		return
	}

	view := postView(post)
	view["html"] = htmlContent
	respondData(c, http.StatusOK, view)
}

// CreatePost 创建新文章。作者永远取自会话中的认证身份，
// 请求体里的任何作者字段都会被忽略。
func (a *API) CreatePost(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		respondError(c, http.StatusUnauthorized, "Not authorized")
		return
	}

	var req postRequest
	if !bindJSON(c, &req, "Invalid request body") {
		return
	}

	post, err := a.posts.Create(service.PostInput{
		Title:         req.Title,
		Content:       req.Content,
		Excerpt:       req.Excerpt,
		FeaturedImage: req.FeaturedImage,
		CategoryID:    req.Category,
		Tags:          req.Tags,
	}, user.ID)
	if err != nil {
		respondPostError(c, err)
		return
	}

	respondData(c, http.StatusCreated, postRefView(post))
}

// UpdatePost 更新文章，仅作者本人或管理员可以操作
func (a *API) UpdatePost(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusNotFound, "Post not found")
		return
	}

	post, err := a.posts.Get(id)
	if err != nil {
		if errors.Is(err, service.ErrPostNotFound) {
			respondError(c, http.StatusNotFound, "Post not found")
			return
		}
		internalError(c, err)
		return
	}

	if !canModify(currentUser(c), post) {
		respondError(c, http.StatusForbidden, "Not authorized to modify this post")
		return
	}

	var req postUpdateRequest
	if !bindJSON(c, &req, "Invalid request body") {
		return
	}

	updated, err := a.posts.Update(id, service.PostUpdateInput{
		Title:         req.Title,
		Content:       req.Content,
		Excerpt:       req.Excerpt,
		FeaturedImage: req.FeaturedImage,
		CategoryID:    req.Category,
		Tags:          req.Tags,
	})
	if err != nil {
		respondPostError(c, err)
		return
	}

	respondData(c, http.StatusOK, postRefView(updated))
}

// DeletePost 删除文章，仅作者本人或管理员可以操作
func (a *API) DeletePost(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusNotFound, "Post not found")
		return
	}

	post, err := a.posts.Get(id)
	if err != nil {
		if errors.Is(err, service.ErrPostNotFound) {
			respondError(c, http.StatusNotFound, "Post not found")
			return
		}
		internalError(c, err)
		return
	}

	if !canModify(currentUser(c), post) {
		respondError(c, http.StatusForbidden, "Not authorized to modify this post")
		return
	}

	if err := a.posts.Delete(id); err != nil {
		if errors.Is(err, service.ErrPostNotFound) {
			respondError(c, http.StatusNotFound, "Post not found")
			return
		}
		internalError(c, err)
		return
	}

	respondData(c, http.StatusOK, gin.H{})
}

func respondPostError(c *gin.Context, err error) {
	var vErr *service.ValidationError
	switch {
	case errors.As(err, &vErr):
		respondError(c, http.StatusBadRequest, vErr.Messages)
	case errors.Is(err, service.ErrSlugExists):
		respondError(c, http.StatusBadRequest, "Post title/slug must be unique")
	case errors.Is(err, service.ErrPostNotFound):
		respondError(c, http.StatusNotFound, "Post not found")
	default:
		internalError(c, err)
	}
}

func canModify(user *db.User, post *db.Post) bool {
	if user == nil {
		return false
	}
	return post.AuthorID == user.ID || user.Role == db.RoleAdmin
}

// postView resolves author and category into embedded summaries, the
// shape list and detail reads expose.
func postView(post *db.Post) gin.H {
	view := basePostView(post)
	view["author"] = gin.H{"_id": post.AuthorID, "username": post.Author.Username}
	view["category"] = gin.H{"_id": post.CategoryID, "name": post.Category.Name}
	return view
}

// postRefView keeps author and category as bare ids, the shape create
// and update responses expose.
func postRefView(post *db.Post) gin.H {
	view := basePostView(post)
	view["author"] = post.AuthorID
	view["category"] = post.CategoryID
	return view
}

func basePostView(post *db.Post) gin.H {
	tags := post.Tags
	if tags == nil {
		tags = []string{}
	}

	comments := make([]gin.H, 0, len(post.Comments))
	for _, comment := range post.Comments {
		comments = append(comments, gin.H{
			"_id":       comment.ID,
			"user":      comment.UserID,
			"content":   comment.Content,
			"createdAt": comment.CreatedAt,
		})
	}

	return gin.H{
		"_id":           post.ID,
		"title":         post.Title,
		"content":       post.Content,
		"slug":          post.Slug,
		"excerpt":       post.Excerpt,
		"featuredImage": post.FeaturedImage,
		"tags":          tags,
		"isPublished":   post.IsPublished,
		"viewCount":     post.ViewCount,
		"comments":      comments,
		"createdAt":     post.CreatedAt,
		"updatedAt":     post.UpdatedAt,
	}
}
