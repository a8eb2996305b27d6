package db

import (
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Role values assignable to a user account.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User 定义了用户模型。Password 永远只保存 bcrypt 哈希，
// 并且不会被序列化到任何响应中。
type User struct {
	gorm.Model
	Username string `gorm:"unique;not null"`
	Email    string `gorm:"unique;not null"`
	Password string `gorm:"not null" json:"-"`
	Role     string `gorm:"not null;default:user"`
}

// EnsureAdmin 存在性检查：若提供的管理员信息均非空且不存在对应账号，
// 则创建一个 bcrypt 哈希的管理员用户。用于启动时播种唯一的 admin 角色来源。
func EnsureAdmin(username, email, password string) error {
	trimmedUser := strings.TrimSpace(username)
	trimmedEmail := strings.ToLower(strings.TrimSpace(email))
	trimmedPassword := strings.TrimSpace(password)
	if trimmedUser == "" || trimmedEmail == "" || trimmedPassword == "" {
		return nil
	}

	if DB == nil {
		return errors.New("database not initialized")
	}

	var existing User
	if err := DB.Where("email = ?", trimmedEmail).First(&existing).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		hashed, err := bcrypt.GenerateFromPassword([]byte(trimmedPassword), bcrypt.DefaultCost)
		if err != nil {
			return err
		}

		return DB.Create(&User{
			Username: trimmedUser,
			Email:    trimmedEmail,
			Password: string(hashed),
			Role:     RoleAdmin,
		}).Error
	}

	return nil
}
