package db

import (
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// User is an admin account.
type User struct {
	gorm.Model
	Username    string `gorm:"unique;not null"`
	Email       string `gorm:"size:255"`
	Password    string `gorm:"not null"`
	IsSuperuser bool
}

// CheckPassword reports whether password matches the stored bcrypt hash.
func (u User) CheckPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)) == nil
}

// EnsureUser creates a superuser with a bcrypt hashed password unless the username is taken.
// Blank usernames or passwords are ignored. It reports whether an account was created.
func EnsureUser(gdb *gorm.DB, username, email, password string) (bool, error) {
	trimmedUser := strings.TrimSpace(username)
	trimmedPassword := strings.TrimSpace(password)
	if trimmedUser == "" || trimmedPassword == "" {
		return false, nil
	}

	if gdb == nil {
		gdb = DB
	}
	if gdb == nil {
		return false, errors.New("database not initialized")
	}

	var existing User
	if err := gdb.Where("username = ?", trimmedUser).First(&existing).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return false, err
		}

		hashed, err := bcrypt.GenerateFromPassword([]byte(trimmedPassword), bcrypt.DefaultCost)
		if err != nil {
			return false, err
		}

		user := User{
			Username:    trimmedUser,
			Email:       strings.TrimSpace(email),
			Password:    string(hashed),
			IsSuperuser: true,
		}
		if err := gdb.Create(&user).Error; err != nil {
			return false, err
		}
		return true, nil
	}

	return false, nil
}
