package db

import (
	"time"

	"gorm.io/gorm"
)

// Post 定义了文章模型
type Post struct {
	gorm.Model
	Title         string `gorm:"size:100;not null"`
	Content       string `gorm:"not null"`
	Slug          string `gorm:"unique;not null"`
	Excerpt       string `gorm:"size:200"`
	FeaturedImage string
	AuthorID      uint `gorm:"not null"`
	Author        User
	CategoryID    uint `gorm:"not null"`
	Category      Category
	Tags          []string `gorm:"serializer:json"`
	// IsPublished and ViewCount are stored but inert: no exposed
	// operation toggles or increments them.
	IsPublished bool `gorm:"default:false"`
	ViewCount   int  `gorm:"default:0"`
	Comments    []Comment
}

// Comment 定义了文章下的评论模型
type Comment struct {
	ID        uint `gorm:"primarykey"`
	PostID    uint `gorm:"not null;index"`
	UserID    uint
	Content   string `gorm:"not null"`
	CreatedAt time.Time
}
