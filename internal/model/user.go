package model

import (
	"time"

	"gorm.io/gorm"
)

type User struct {
	gorm.Model
	Username   string    `gorm:"column:username;unique;not null"`
	Email      string    `gorm:"column:email;unique;not null"`
	Password   string    `gorm:"column:password;not null"`
	FirstName  string    `gorm:"column:first_name"`
	LastName   string    `gorm:"column:last_name"`
	Role       string    `gorm:"column:role;not null;default:developer;index"`
	IsActive   bool      `gorm:"column:is_active;not null;default:true"`
	Department string    `gorm:"column:department"`
	Avatar     string    `gorm:"column:avatar"`
	LastLogin  time.Time `gorm:"column:last_login"`
}
