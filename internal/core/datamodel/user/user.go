package user

import "time"

const (
	RoleAdmin         = "admin"
	RoleDriver        = "driver"
	RoleBusinessOwner = "business_owner"
)

type User struct {
	ID        int64     `gorm:"primaryKey" json:"id"`
	Email     string    `gorm:"column:email;not null;uniqueIndex" json:"email"`
	Phone     string    `gorm:"column:phone" json:"phone"`
	Password  string    `gorm:"column:password;not null" json:"-"`
	Role      string    `gorm:"column:role;not null" json:"role"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}
