package model

// User is a row of the users table. Password holds whatever the configured
// password scheme stores (clear text or a bcrypt hash) and is never serialized.
type User struct {
	ID       uint   `json:"id" gorm:"primaryKey"`
	Email    string `json:"email" gorm:"uniqueIndex;size:255;not null"`
	Password string `json:"-" gorm:"size:255;not null"`
	Gender   string `json:"gender" gorm:"size:50"`
	Role     string `json:"role" gorm:"size:50"`
}
