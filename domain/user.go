package domain

import (
	"time"
)

const (
	RoleAdmin      = "admin"
	RoleCaseWorker = "case_worker"
)

type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Username  string    `gorm:"column:username;size:50;uniqueIndex;not null" json:"username"`
	Email     string    `gorm:"column:email;size:100;uniqueIndex;not null" json:"email"`
	Password  string    `gorm:"column:hashed_password;not null" json:"-"`
	Role      string    `gorm:"column:role;size:20;default:case_worker" json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}
