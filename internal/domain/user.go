package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Role distinguishes user roles.
type Role string

const (
	RoleAdmin     Role = "admin"
	RoleProfessor Role = "professor"
	RoleStudent   Role = "student"
)

// User is an account that can log into the system. Students of the school
// are tracked separately as Student records; a User with RoleStudent is a
// read-only account.
type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Username     string             `bson:"username" json:"username"` // unique
	PasswordHash string             `bson:"passwordHash" json:"-"`
	Role         Role               `bson:"role" json:"role"`
	IsActive     bool               `bson:"isActive" json:"is_active"`
	CreatedAt    time.Time          `bson:"createdAt" json:"created_at"`
	UpdatedAt    time.Time          `bson:"updatedAt" json:"updated_at"`
}

// CanManage reports whether the user may create or mutate school data.
func (u *User) CanManage() bool {
	return u.Role == RoleAdmin || u.Role == RoleProfessor
}
