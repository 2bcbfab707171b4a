package models

import "time"

// UserRole controls access to the admin catalogs.
type UserRole string

const (
	RoleFarmer UserRole = "farmer"
	RoleAdmin  UserRole = "admin"
)

// User is an account holder. PasswordHash is a bcrypt hash and never leaves
// the service layer.
type User struct {
	ID             string    `bson:"_id" json:"id"`
	Email          string    `bson:"email" json:"email"`
	PasswordHash   string    `bson:"password_hash" json:"-"`
	DisplayName    string    `bson:"display_name" json:"display_name"`
	Role           UserRole  `bson:"role" json:"role"`
	TelegramChatID string    `bson:"telegram_chat_id,omitempty" json:"telegram_chat_id,omitempty"`
	CreatedAt      time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt      time.Time `bson:"updated_at" json:"updated_at"`
}
