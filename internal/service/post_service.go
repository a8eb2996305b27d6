package service

import (
	"errors"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/inkpress/internal/db"
	"gorm.io/gorm"
)

var (
	ErrPostNotFound = errors.New("post not found")
	ErrSlugExists   = errors.New("post slug already exists")
)

// DefaultFeaturedImage is used when a post supplies no featured image.
const DefaultFeaturedImage = "default-post.jpg"

var (
	slugStripPattern  = regexp.MustCompile(`[^\w ]+`)
	slugHyphenPattern = regexp.MustCompile(` +`)
)

// PostService wraps post related database operations.
type PostService struct {
	db *gorm.DB
}

// PostInput represents fields accepted when creating a post. The author
// is deliberately not part of the input: it always comes from the
// verified caller identity.
type PostInput struct {
	Title         string
	Content       string
	Excerpt       string
	FeaturedImage string
	CategoryID    uint
	Tags          []string
}

// PostUpdateInput carries the mutable fields of a post. Nil pointers
// leave the stored value untouched.
type PostUpdateInput struct {
	Title         *string
	Content       *string
	Excerpt       *string
	FeaturedImage *string
	CategoryID    *uint
	Tags          *[]string
}

// NewPostService creates a PostService instance.
func NewPostService(gdb *gorm.DB) *PostService {
	return &PostService{db: gdb}
}

// Slugify derives a URL-friendly identifier from a post title:
// lowercased, non-word characters except spaces stripped, space runs
// collapsed into single hyphens. Derivation is deterministic.
func Slugify(title string) string {
	slug := strings.ToLower(strings.TrimSpace(title))
	slug = slugStripPattern.ReplaceAllString(slug, "")
	return slugHyphenPattern.ReplaceAllString(slug, "-")
}

// List returns all posts ordered by created time descending with their
// author and category resolved.
func (s *PostService) List() ([]db.Post, error) {
	var posts []db.Post
	if err := s.db.
		Preload("Author").
		Preload("Category").
		Order("created_at desc").
		Find(&posts).Error; err != nil {
		return nil, err
	}
	return posts, nil
}

// Get fetches a post by id with author, category and comments resolved.
func (s *PostService) Get(id uint) (*db.Post, error) {
	var post db.Post
	if err := s.db.
		Preload("Author").
		Preload("Category").
		Preload("Comments").
		First(&post, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}
	return &post, nil
}

// Create validates the input, derives the slug and persists a post
// owned by authorID. A title that normalizes to an existing slug is
// rejected rather than silently adjusted.
func (s *PostService) Create(input PostInput, authorID uint) (*db.Post, error) {
	input.Title = strings.TrimSpace(input.Title)
	input.Excerpt = strings.TrimSpace(input.Excerpt)

	if messages := validatePostFields(input); len(messages) > 0 {
		return nil, &ValidationError{Messages: messages}
	}

	slug := Slugify(input.Title)
	if err := s.ensureSlugFree(slug, 0); err != nil {
		return nil, err
	}

	featuredImage := strings.TrimSpace(input.FeaturedImage)
	if featuredImage == "" {
		featuredImage = DefaultFeaturedImage
	}

	post := db.Post{
		Title:         input.Title,
		Content:       input.Content,
		Slug:          slug,
		Excerpt:       input.Excerpt,
		FeaturedImage: featuredImage,
		AuthorID:      authorID,
		CategoryID:    input.CategoryID,
		Tags:          input.Tags,
	}
	if err := s.db.Create(&post).Error; err != nil {
		return nil, err
	}

	return s.Get(post.ID)
}

// Update applies the provided fields to an existing post, re-running
// the same validation as Create. The slug is re-derived whenever the
// title changes and must stay unique.
func (s *PostService) Update(id uint, input PostUpdateInput) (*db.Post, error) {
	var existing db.Post
	if err := s.db.First(&existing, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}

	if input.Title != nil {
		existing.Title = strings.TrimSpace(*input.Title)
	}
	if input.Content != nil {
		existing.Content = *input.Content
	}
	if input.Excerpt != nil {
		existing.Excerpt = strings.TrimSpace(*input.Excerpt)
	}
	if input.FeaturedImage != nil {
		existing.FeaturedImage = strings.TrimSpace(*input.FeaturedImage)
	}
	if input.CategoryID != nil {
		existing.CategoryID = *input.CategoryID
	}
	if input.Tags != nil {
		existing.Tags = *input.Tags
	}

	if existing.FeaturedImage == "" {
		existing.FeaturedImage = DefaultFeaturedImage
	}

	messages := validatePostFields(PostInput{
		Title:      existing.Title,
		Content:    existing.Content,
		Excerpt:    existing.Excerpt,
		CategoryID: existing.CategoryID,
	})
	if len(messages) > 0 {
		return nil, &ValidationError{Messages: messages}
	}

	slug := Slugify(existing.Title)
	if slug != existing.Slug {
		if err := s.ensureSlugFree(slug, existing.ID); err != nil {
			return nil, err
		}
		existing.Slug = slug
	}

	if err := s.db.Save(&existing).Error; err != nil {
		return nil, err
	}

	return s.Get(existing.ID)
}

// Delete hard-removes a post and its comments.
func (s *PostService) Delete(id uint) error {
	var post db.Post
	if err := s.db.First(&post, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrPostNotFound
		}
		return err
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", post.ID).Delete(&db.Comment{}).Error; err != nil {
			return err
		}
		// Unscoped keeps the slug free for reuse: a soft-deleted row
		// would still hold the unique index.
		return tx.Unscoped().Delete(&db.Post{}, post.ID).Error
	})
}

func (s *PostService) ensureSlugFree(slug string, excludeID uint) error {
	var dup db.Post
	err := s.db.Where("slug = ? AND id <> ?", slug, excludeID).First(&dup).Error
	if err == nil {
		return ErrSlugExists
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	return nil
}

func validatePostFields(input PostInput) []string {
	var messages []string
	if input.Title == "" {
		messages = append(messages, "Please provide a title")
	} else if utf8.RuneCountInString(input.Title) > 100 {
		messages = append(messages, "Title cannot be more than 100 characters")
	}
	if input.Content == "" {
		messages = append(messages, "Please provide content")
	}
	if utf8.RuneCountInString(input.Excerpt) > 200 {
		messages = append(messages, "Excerpt cannot be more than 200 characters")
	}
	if input.CategoryID == 0 {
		messages = append(messages, "Please provide a category")
	}
	return messages
}
