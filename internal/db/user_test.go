package db

import (
	"fmt"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"
)

func setupUserTestDB(t *testing.T) {
	t.Helper()

	prev := DB
	dsn := fmt.Sprintf("file:db-user-%d?mode=memory&cache=shared", time.Now().UnixNano())
	if err := Init(dsn); err != nil {
		t.Fatalf("failed to init database: %v", err)
	}
	t.Cleanup(func() {
		sqlDB, err := DB.DB()
		if err == nil {
			sqlDB.Close()
		}
		DB = prev
	})
}

func TestEnsureAdminSeedsHashedAdmin(t *testing.T) {
	setupUserTestDB(t)

	if err := EnsureAdmin("root", " Root@Example.com ", "topsecret"); err != nil {
		t.Fatalf("EnsureAdmin failed: %v", err)
	}

	var admin User
	if err := DB.Where("email = ?", "root@example.com").First(&admin).Error; err != nil {
		t.Fatalf("expected seeded admin: %v", err)
	}
	if admin.Role != RoleAdmin {
		t.Fatalf("expected role %q, got %q", RoleAdmin, admin.Role)
	}
	if admin.Password == "topsecret" {
		t.Fatal("password stored in plaintext")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(admin.Password), []byte("topsecret")); err != nil {
		t.Fatalf("stored hash does not match password: %v", err)
	}
}

func TestEnsureAdminIsIdempotent(t *testing.T) {
	setupUserTestDB(t)

	for i := 0; i < 2; i++ {
		if err := EnsureAdmin("root", "root@example.com", "topsecret"); err != nil {
			t.Fatalf("EnsureAdmin run %d failed: %v", i+1, err)
		}
	}

	var count int64
	if err := DB.Model(&User{}).Where("role = ?", RoleAdmin).Count(&count).Error; err != nil {
		t.Fatalf("count admins: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected exactly one admin, got %d", count)
	}
}

func TestEnsureAdminSkipsIncompleteCredentials(t *testing.T) {
	setupUserTestDB(t)

	if err := EnsureAdmin("", "root@example.com", "topsecret"); err != nil {
		t.Fatalf("EnsureAdmin with blank username failed: %v", err)
	}

	var count int64
	if err := DB.Model(&User{}).Count(&count).Error; err != nil {
		t.Fatalf("count users: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected no users, got %d", count)
	}
}
